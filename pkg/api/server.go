// Package api serves the web remote of the player: plugins mounted under their own path bases on a single HTTP server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	component = "api.Server"

	// DefaultAddress is used when no address is configured.
	DefaultAddress = "localhost:3001"

	shutdownTimeout = 5 * time.Second
)

// Config controls behaviour of the api server.
type Config struct {
	Address    string
	Controller SessionController
	Logger     zerolog.Logger
	Plugins    []Plugin
}

// Server is used to serve API plugins.
type Server struct {
	address      string
	controller   SessionController
	log          zerolog.Logger
	plugins      []Plugin
	shutdownOnce *sync.Once
}

// NewServer prepares and returns a server that can be used to handle API calls.
func NewServer(cfg Config) *Server {
	address := cfg.Address
	if address == "" {
		address = DefaultAddress
	}

	return &Server{
		address:      address,
		controller:   cfg.Controller,
		log:          cfg.Logger.With().Str("component", component).Logger(),
		plugins:      cfg.Plugins,
		shutdownOnce: &sync.Once{},
	}
}

// Init initializes every plugin with the session controller.
func (s *Server) Init() error {
	for _, plugin := range s.plugins {
		err := plugin.Init(s.controller)
		if err != nil {
			return fmt.Errorf("could not initialize %s plugin: %w", plugin.Name(), err)
		}

		s.log.Debug().Str("plugin", plugin.Name()).Str("pathBase", plugin.PathBase()).Msg("plugin initialized")
	}

	return nil
}

// Handler returns handler routing requests to plugins by their path base.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, plugin := range s.plugins {
		mux.Handle(fmt.Sprintf("/%s/", plugin.PathBase()), plugin.Handler())
	}

	return mux
}

// Serve starts handling API endpoints of all plugins.
// Blocks until ctx is done or the http server stops with an error, shutting plugins down before returning.
func (s *Server) Serve(ctx context.Context) error {
	defer s.shutdownPlugins()

	serv := http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	httpServErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.address).Msg("running server")

		err := serv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			httpServErr <- err
		}

		close(httpServErr)
	}()

	select {
	case err := <-httpServErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// long-lived sse connections end only after plugins shut down
		s.shutdownPlugins()

		return serv.Shutdown(shutdownCtx)
	}
}

func (s *Server) shutdownPlugins() {
	s.shutdownOnce.Do(func() {
		for _, plugin := range s.plugins {
			plugin.Shutdown()
		}
	})
}
