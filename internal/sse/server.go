package sse

import (
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/internal/common"
	"github.com/sarpt/ost-player/pkg/api"
	"github.com/sarpt/ost-player/pkg/session"
)

const (
	component = "sse.Server"

	name     = "SSE Server"
	pathBase = "sse"

	registerPath = "/" + pathBase + "/channels"
)

// Config controls behaviour of the SSE server.
type Config struct {
	AllowCORS bool
	Logger    zerolog.Logger

	// ObserverBuffer is the number of changes an observer may lag behind before it starts losing them.
	ObserverBuffer int
}

// Server streams display changes of the session to observers connected over SSE.
// Server is a session reflector: it has to be added to the reflectors of the observed session.
type Server struct {
	allowCORS bool
	channels  map[ChannelVariant]channel
	closed    *atomic.Bool
	display   *displayChannel
	log       zerolog.Logger
}

// NewServer prepares and returns SSE server to handle SSE connections and observers.
func NewServer(cfg Config) *Server {
	log := cfg.Logger.With().Str("component", component).Logger()
	display := newDisplayChannel(cfg.ObserverBuffer, log)

	return &Server{
		allowCORS: cfg.AllowCORS,
		channels: map[ChannelVariant]channel{
			displayChannelVariant: display,
		},
		closed:  &atomic.Bool{},
		display: display,
		log:     log,
	}
}

// Handler returns handler registering SSE observers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(registerPath, common.PathHandler(common.PathHandlerConfig{
		AllowCORS: s.allowCORS,
		MethodHandlers: common.MethodHandlers{
			http.MethodGet: s.createSseRegisterHandler(),
		},
	}))

	return mux
}

func (s *Server) Init(controller api.SessionController) error {
	s.display.controller = controller

	return nil
}

func (s *Server) Name() string {
	return name
}

func (s *Server) PathBase() string {
	return pathBase
}

// Shutdown ends all observations and rejects new ones.
func (s *Server) Shutdown() {
	s.closed.Store(true)
	for _, ch := range s.channels {
		ch.Close()
	}
}

// Reflect is called by the session on every display change.
func (s *Server) Reflect(state session.DisplayState) {
	s.display.broadcast(displayChangeEvent, state)
}

// ReflectCatalog is called by the session when its catalog gets replaced.
func (s *Server) ReflectCatalog(names []string, selected int) {
	s.display.broadcast(displayCatalogEvent, catalogPayload{
		Playlists: names,
		Selected:  selected,
	})
}
