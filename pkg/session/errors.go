package session

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog informs that there are no playlists to play from.
	ErrEmptyCatalog = errors.New("catalog has no playlists")

	// ErrNoPlaylistSelected informs about a play request made before any playlist has been selected.
	ErrNoPlaylistSelected = errors.New("no playlist selected")

	// ErrPlaylistIndexOutOfRange informs about selection of a playlist not present in the catalog.
	ErrPlaylistIndexOutOfRange = errors.New("playlist index out of range")

	// ErrSessionClosed informs about an intent received after Shutdown.
	ErrSessionClosed = errors.New("session has been shut down")
)

// EngineError is returned when the media engine fails to perform an operation requested by an intent.
// The session recovers from it by itself, the error is returned for reporting purposes only.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine could not %s: %s", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
