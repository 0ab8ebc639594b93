package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/internal/mocks"
	"github.com/sarpt/ost-player/pkg/api"
)

type fakePlugin struct {
	controller api.SessionController
	initErr    error
	pathBase   string
	shutdowns  int
}

func (p *fakePlugin) Handler() http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		res.Header().Set("X-Plugin", p.pathBase)
		res.WriteHeader(http.StatusNoContent)
	})
}

func (p *fakePlugin) Init(controller api.SessionController) error {
	p.controller = controller
	return p.initErr
}

func (p *fakePlugin) Name() string {
	return p.pathBase + " plugin"
}

func (p *fakePlugin) PathBase() string {
	return p.pathBase
}

func (p *fakePlugin) Shutdown() {
	p.shutdowns++
}

func TestServer_RoutesByPathBase(t *testing.T) {
	// given
	ctrl := gomock.NewController(t)
	controller := mocks.NewMockSessionController(ctrl)
	rest := &fakePlugin{pathBase: "rest"}
	sse := &fakePlugin{pathBase: "sse"}

	uut := api.NewServer(api.Config{
		Controller: controller,
		Logger:     zerolog.Nop(),
		Plugins:    []api.Plugin{rest, sse},
	})

	// when
	err := uut.Init()

	// then
	if err != nil {
		t.Fatalf("Unexpected error on init: %s", err)
	}

	if rest.controller != controller || sse.controller != controller {
		t.Errorf("Expected plugins to be initialized with the controller")
	}

	for _, path := range []string{"/rest/session", "/sse/channels"} {
		res := httptest.NewRecorder()
		uut.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))

		if res.Code != http.StatusNoContent {
			t.Errorf("Expected %s to be handled by a plugin, got status %d", path, res.Code)
		}
	}

	res := httptest.NewRecorder()
	uut.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/movies", nil))
	if res.Code != http.StatusNotFound {
		t.Errorf("Expected unknown path not to be handled, got status %d", res.Code)
	}
}

func TestServer_InitFailsOnPluginError(t *testing.T) {
	// given
	errBroken := errors.New("broken")
	uut := api.NewServer(api.Config{
		Logger:  zerolog.Nop(),
		Plugins: []api.Plugin{&fakePlugin{pathBase: "rest", initErr: errBroken}},
	})

	// when
	err := uut.Init()

	// then
	if !errors.Is(err, errBroken) {
		t.Errorf("Expected plugin error, got %v", err)
	}
}

func TestServer_ServeShutsPluginsDownOnce(t *testing.T) {
	// given
	plugin := &fakePlugin{pathBase: "rest"}
	uut := api.NewServer(api.Config{
		Address: "127.0.0.1:0",
		Logger:  zerolog.Nop(),
		Plugins: []api.Plugin{plugin},
	})

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() {
		served <- uut.Serve(ctx)
	}()

	// when
	cancel()

	// then
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Unexpected error on serve: %s", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return after context was done")
	}

	if plugin.shutdowns != 1 {
		t.Errorf("Expected plugin to be shut down once, got %d", plugin.shutdowns)
	}
}
