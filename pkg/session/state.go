package session

import "fmt"

// EngineState is what the session believes the engine is doing.
type EngineState int

const (
	Idle EngineState = iota
	Loading
	Playing
	Paused
	Buffering
	Error
)

func (s EngineState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

func (s EngineState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EngineState) UnmarshalText(text []byte) error {
	for state := Idle; state <= Error; state++ {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}

	return fmt.Errorf("unknown engine state %q", text)
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Closed           bool         `json:"closed"`
	Display          DisplayState `json:"display"`
	LastError        string       `json:"lastError,omitempty"`
	PlaylistName     string       `json:"playlistName,omitempty"`
	SelectedPlaylist int          `json:"selectedPlaylist"`
	State            EngineState  `json:"state"`
	Track            int          `json:"track"`
	TrackTitle       string       `json:"trackTitle,omitempty"`
	TrackURI         string       `json:"trackUri,omitempty"`
	Volume           int          `json:"volume"`
}
