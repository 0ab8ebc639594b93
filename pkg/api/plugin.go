package api

import (
	"net/http"

	"github.com/sarpt/ost-player/pkg/catalog"
	"github.com/sarpt/ost-player/pkg/session"
)

// SessionController is the part of the session exposed to API plugins.
type SessionController interface {
	Catalog() *catalog.Catalog
	PlayRandomTrack() error
	SelectPlaylist(idx int) error
	SetVolume(level int) error
	Snapshot() session.Snapshot
	TogglePlayPause() error
}

// Plugin serves a subtree of the API under its PathBase.
// Init is called once before serving starts, Shutdown once after serving finished.
type Plugin interface {
	Handler() http.Handler
	Init(controller SessionController) error
	Name() string
	PathBase() string
	Shutdown()
}
