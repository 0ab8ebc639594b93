// Package ui holds what the frontends share.
package ui

import (
	"github.com/sarpt/ost-player/pkg/api"
	"github.com/sarpt/ost-player/pkg/session"
)

// Controller is the part of the session driven by a frontend.
type Controller interface {
	api.SessionController
	Display() session.DisplayState
	Shutdown()
}
