package rest

import (
	"net/http"

	"github.com/sarpt/ost-player/internal/common"
)

const (
	catalogPath = "/rest/catalog"
	sessionPath = "/rest/session"
)

// Handler returns http.Handler responsible for REST handling subtree.
func (s *Server) Handler() http.Handler {
	sessionHandlers := common.MethodHandlers{
		http.MethodGet:  s.getSessionHandler,
		http.MethodPost: common.CreateFormHandler(s.postSessionFormArguments()),
	}

	catalogHandlers := common.MethodHandlers{
		http.MethodGet: s.getCatalogHandler,
	}

	allHandlers := map[string]common.MethodHandlers{
		catalogPath: catalogHandlers,
		sessionPath: sessionHandlers,
	}

	mux := http.NewServeMux()
	for path, methodHandlers := range allHandlers {
		cfg := common.PathHandlerConfig{
			AllowCORS:      s.allowCORS,
			MethodHandlers: methodHandlers,
		}
		mux.HandleFunc(path, common.PathHandler(cfg))
	}

	return mux
}
