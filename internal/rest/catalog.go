package rest

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/sarpt/ost-player/internal/common"
	"github.com/sarpt/ost-player/pkg/catalog"
)

type playlistResponse struct {
	Index  int      `json:"index"`
	Name   string   `json:"name"`
	Tracks []string `json:"tracks"`
}

type catalogResponse struct {
	Playlists []playlistResponse `json:"playlists"`
	Selected  int                `json:"selected"`
}

func (s *Server) getCatalogHandler(res http.ResponseWriter, req *http.Request) {
	playlists := s.controller.Catalog().Playlists()

	common.WriteJSON(res, http.StatusOK, catalogResponse{
		Playlists: lo.Map(playlists, func(pl catalog.Playlist, idx int) playlistResponse {
			return playlistResponse{
				Index:  idx,
				Name:   pl.Name,
				Tracks: pl.Tracks,
			}
		}),
		Selected: s.controller.Snapshot().SelectedPlaylist,
	})
}
