package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sarpt/ost-player/internal/common"
)

const (
	playlistIdxArg = "playlistIdx"
	randomArg      = "random"
	toggleArg      = "toggle"
	volumeArg      = "volume"
)

var (
	errVolumeOutOfRange = errors.New("volume should be between 0 and 100")
)

func (s *Server) getSessionHandler(res http.ResponseWriter, req *http.Request) {
	common.WriteJSON(res, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) playlistIdxHandler(res http.ResponseWriter, req *http.Request) error {
	idx, err := strconv.Atoi(req.PostFormValue(playlistIdxArg))
	if err != nil {
		return err
	}

	s.log.Info().Int("playlistIdx", idx).Str("remoteAddr", req.RemoteAddr).Msg("selecting playlist due to request")
	return s.controller.SelectPlaylist(idx)
}

func (s *Server) volumeHandler(res http.ResponseWriter, req *http.Request) error {
	volume, err := strconv.Atoi(req.PostFormValue(volumeArg))
	if err != nil {
		return err
	}

	s.log.Info().Int("volume", volume).Str("remoteAddr", req.RemoteAddr).Msg("changing volume due to request")
	return s.controller.SetVolume(volume)
}

func (s *Server) toggleHandler(res http.ResponseWriter, req *http.Request) error {
	toggle, err := strconv.ParseBool(req.PostFormValue(toggleArg))
	if err != nil {
		return err
	}

	if !toggle {
		return nil
	}

	s.log.Info().Str("remoteAddr", req.RemoteAddr).Msg("toggling playback due to request")
	return s.controller.TogglePlayPause()
}

func (s *Server) randomHandler(res http.ResponseWriter, req *http.Request) error {
	random, err := strconv.ParseBool(req.PostFormValue(randomArg))
	if err != nil {
		return err
	}

	if !random {
		return nil
	}

	s.log.Info().Str("remoteAddr", req.RemoteAddr).Msg("playing random track due to request")
	return s.controller.PlayRandomTrack()
}

// postSessionFormArguments lists arguments in the order they are applied:
// a playlist is selected before its track gets played.
func (s *Server) postSessionFormArguments() []common.FormArgument {
	return []common.FormArgument{
		{
			Name:   playlistIdxArg,
			Handle: s.playlistIdxHandler,
			Validate: func(req *http.Request) error {
				_, err := strconv.Atoi(req.PostFormValue(playlistIdxArg))
				return err
			},
		},
		{
			Name:   volumeArg,
			Handle: s.volumeHandler,
			Validate: func(req *http.Request) error {
				volume, err := strconv.Atoi(req.PostFormValue(volumeArg))
				if err != nil {
					return err
				}

				if volume < 0 || volume > 100 {
					return errVolumeOutOfRange
				}

				return nil
			},
		},
		{
			Name:   toggleArg,
			Handle: s.toggleHandler,
			Validate: func(req *http.Request) error {
				_, err := strconv.ParseBool(req.PostFormValue(toggleArg))
				return err
			},
		},
		{
			Name:   randomArg,
			Handle: s.randomHandler,
			Validate: func(req *http.Request) error {
				_, err := strconv.ParseBool(req.PostFormValue(randomArg))
				return err
			},
		},
	}
}
