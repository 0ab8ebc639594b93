package rest

import (
	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/pkg/api"
)

const (
	component = "rest.Server"

	name     = "REST Server"
	pathBase = "rest"
)

// Config controls behaviour of the REST server.
type Config struct {
	AllowCORS bool
	Logger    zerolog.Logger
}

// Server is responsible for creating REST handlers, argument parsing and validation.
type Server struct {
	allowCORS  bool
	controller api.SessionController
	log        zerolog.Logger
}

// NewServer returns rest.Server instance.
func NewServer(cfg Config) *Server {
	return &Server{
		allowCORS: cfg.AllowCORS,
		log:       cfg.Logger.With().Str("component", component).Logger(),
	}
}

func (s *Server) Init(controller api.SessionController) error {
	s.controller = controller

	return nil
}

func (s *Server) Name() string {
	return name
}

func (s *Server) PathBase() string {
	return pathBase
}

func (s *Server) Shutdown() {}
