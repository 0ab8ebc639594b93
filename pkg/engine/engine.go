// Package engine describes the contract between the playback session and a media engine,
// and provides the adapters turning concrete engines into that contract.
package engine

import "fmt"

// State is the engine's own view of what it is doing.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateBuffering
	StatePlaying
	StatePaused
	StateEnded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateBuffering:
		return "buffering"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// NotificationKind specifies what happened inside the engine.
type NotificationKind string

const (
	// Buffering informs about buffering progress, Percent holds the fill level.
	Buffering NotificationKind = "buffering"

	// ReachedPlaying informs that audio output started (or restarted) for the loaded track.
	ReachedPlaying NotificationKind = "reached-playing"

	// EndOfStream informs that the loaded track finished without an error.
	EndOfStream NotificationKind = "end-of-stream"

	// Error informs about playback failure, Message holds the details.
	Error NotificationKind = "error"

	// Title informs about metadata title reported for the loaded track.
	Title NotificationKind = "title"
)

// Notification is emitted by the engine asynchronously.
// Epoch is the value passed to Load for the track the notification concerns.
type Notification struct {
	Epoch   uint64
	Kind    NotificationKind
	Percent int
	Title   string
	Message string
}

// Engine is a media engine delivering push notifications.
// Load, Play, Pause and Stop are fire-and-forget: their outcome is observed through Notifications.
type Engine interface {
	Load(uri string, epoch uint64) error
	Play() error
	Pause() error
	Stop() error
	SetVolume(percent int) error
	CurrentState() State
	Notifications() <-chan Notification
}

// Player is a synchronous-only engine binding, without notifications.
// It can be turned into an Engine with a Poller.
type Player interface {
	Load(uri string) error
	Play() error
	Pause() error
	Stop() error
	SetVolume(percent int) error
	CurrentState() State
	LastError() error
}
