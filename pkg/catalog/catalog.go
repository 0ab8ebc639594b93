package catalog

import (
	"github.com/samber/lo"
)

// Playlist is a named, ordered list of track URIs.
type Playlist struct {
	Name   string   `json:"name"`
	Tracks []string `json:"urls"`
}

// Catalog holds playlists in the order they were read from the source.
// Catalog is never mutated after construction, as such it's safe to share between goroutines.
type Catalog struct {
	playlists []Playlist
}

// New returns catalog containing copies of provided playlists.
func New(playlists []Playlist) *Catalog {
	return &Catalog{
		playlists: lo.Map(playlists, func(pl Playlist, _ int) Playlist {
			return Playlist{
				Name:   pl.Name,
				Tracks: append([]string(nil), pl.Tracks...),
			}
		}),
	}
}

// Empty returns catalog without any playlists.
func Empty() *Catalog {
	return &Catalog{}
}

// Len returns number of playlists in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.playlists)
}

// Playlist returns playlist under the idx. Second return value is false when idx is out of range.
func (c *Catalog) Playlist(idx int) (Playlist, bool) {
	if idx < 0 || idx >= c.Len() {
		return Playlist{}, false
	}

	return c.playlists[idx], true
}

// IndexOf returns index of the first playlist with the provided name, or -1.
func (c *Catalog) IndexOf(name string) int {
	if c == nil {
		return -1
	}

	_, idx, ok := lo.FindIndexOf(c.playlists, func(pl Playlist) bool {
		return pl.Name == name
	})
	if !ok {
		return -1
	}

	return idx
}

// Names returns display names of all playlists in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return []string{}
	}

	return lo.Map(c.playlists, func(pl Playlist, _ int) string {
		return pl.Name
	})
}

// Playlists returns a copy of all playlists.
func (c *Catalog) Playlists() []Playlist {
	if c == nil {
		return []Playlist{}
	}

	return New(c.playlists).playlists
}
