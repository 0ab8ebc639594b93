package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrNoPlaylistsField informs about document missing the top-level "playlists" collection.
	ErrNoPlaylistsField = errors.New("document has no playlists field")

	// ErrEmptyName informs about a playlist without a display name.
	ErrEmptyName = errors.New("playlist has an empty name")

	// ErrNoTracks informs about a playlist with an empty track list.
	ErrNoTracks = errors.New("playlist has no tracks")

	// ErrBlankTrack informs about a playlist containing an empty track URI.
	ErrBlankTrack = errors.New("playlist contains a blank track uri")
)

// LoadError is returned when the catalog source is missing, malformed or contains an invalid playlist.
// Loading functions return an empty catalog alongside LoadError, so the caller can still run in a degraded mode.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load catalog from '%s': %s", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type document struct {
	Playlists *[]Playlist `json:"playlists"`
}

// Load parses catalog document from the reader.
func Load(r io.Reader) (*Catalog, error) {
	return load(r, "reader")
}

// LoadFile reads catalog document from the file under path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Empty(), &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	return load(f, path)
}

// LoadFiles reads catalog documents in order of paths and concatenates their playlists.
// Sources that could not be loaded are skipped - their errors are joined and returned together with
// the catalog built from the rest of sources.
func LoadFiles(paths ...string) (*Catalog, error) {
	var playlists []Playlist
	var errs []error

	for _, path := range paths {
		c, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		playlists = append(playlists, c.playlists...)
	}

	return &Catalog{playlists: playlists}, errors.Join(errs...)
}

func load(r io.Reader, source string) (*Catalog, error) {
	var doc document

	err := json.NewDecoder(r).Decode(&doc)
	if err != nil {
		return Empty(), &LoadError{Source: source, Err: fmt.Errorf("malformed document: %w", err)}
	}

	if doc.Playlists == nil {
		return Empty(), &LoadError{Source: source, Err: ErrNoPlaylistsField}
	}

	for idx, pl := range *doc.Playlists {
		err := validate(pl)
		if err != nil {
			return Empty(), &LoadError{Source: source, Err: fmt.Errorf("playlist %d ('%s'): %w", idx, pl.Name, err)}
		}
	}

	return &Catalog{playlists: *doc.Playlists}, nil
}

func validate(pl Playlist) error {
	if strings.TrimSpace(pl.Name) == "" {
		return ErrEmptyName
	}

	if len(pl.Tracks) == 0 {
		return ErrNoTracks
	}

	blank := lo.ContainsBy(pl.Tracks, func(track string) bool {
		return strings.TrimSpace(track) == ""
	})
	if blank {
		return ErrBlankTrack
	}

	return nil
}
