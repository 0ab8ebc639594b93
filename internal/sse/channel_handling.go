package sse

import (
	"net/http"
	"sync"
)

const (
	replaySseStateArg = "replay"
	sseChannelArg     = "channel"
)

func (s *Server) createSseRegisterHandler() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		if s.closed.Load() {
			res.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		var requested []channel
		for _, variant := range req.URL.Query()[sseChannelArg] {
			ch, ok := s.channels[ChannelVariant(variant)]
			if !ok {
				continue
			}

			requested = append(requested, ch)
		}

		if len(requested) == 0 {
			res.WriteHeader(http.StatusBadRequest)
			return
		}

		sseResWriter, err := newResponseWriter(res)
		if err != nil {
			res.WriteHeader(http.StatusBadRequest)
			return
		}

		res.WriteHeader(http.StatusOK)
		sseResWriter.flusher.Flush()

		wg := &sync.WaitGroup{}
		for _, ch := range requested {
			wg.Add(1)
			go s.observeChannel(sseResWriter, req, ch, wg)
		}

		wg.Wait()
		s.log.Debug().Str("remoteAddr", req.RemoteAddr).Msg("all sse channels closed")
	}
}

func (s *Server) observeChannel(res ResponseWriter, req *http.Request, ch channel, wg *sync.WaitGroup) {
	defer wg.Done()

	remoteAddr := req.RemoteAddr
	changes := ch.Observe(remoteAddr)
	s.log.Info().Str("remoteAddr", remoteAddr).Str("channel", string(ch.Variant())).Msg("added observer")

	if replaySseState(req) {
		err := ch.Replay(res)
		if err != nil {
			s.log.Error().Err(err).Str("remoteAddr", remoteAddr).Msg("could not replay data on sse")
		}
	}

	for {
		select {
		case change, more := <-changes:
			if !more {
				s.log.Debug().Str("remoteAddr", remoteAddr).Str("channel", string(ch.Variant())).Msg("sse observation done due to changes channel being closed")
				return
			}

			err := res.SendChange(change.Payload, ch.Variant(), change.Event)
			if err != nil {
				s.log.Error().Err(err).Str("remoteAddr", remoteAddr).Msg("could not send change")
			}
		case <-req.Context().Done():
			ch.Forget(remoteAddr)
			s.log.Info().Str("remoteAddr", remoteAddr).Str("channel", string(ch.Variant())).Msg("removed observer")

			return
		}
	}
}

func replaySseState(req *http.Request) bool {
	replay, ok := req.URL.Query()[replaySseStateArg]

	return ok && len(replay) > 0 && replay[0] == "true"
}
