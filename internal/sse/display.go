package sse

import (
	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/internal/common"
	"github.com/sarpt/ost-player/pkg/api"
)

const (
	displayChannelVariant ChannelVariant = "display"

	displayChangeEvent  = "change"
	displayReplayEvent  = "replay"
	displayCatalogEvent = "catalog"
)

type catalogPayload struct {
	Playlists []string `json:"playlists"`
	Selected  int      `json:"selected"`
}

// displayChannel carries display states and catalog replacements of the session.
type displayChannel struct {
	broadcaster *common.Broadcaster[change]
	controller  api.SessionController
}

func newDisplayChannel(bufferSize int, log zerolog.Logger) *displayChannel {
	return &displayChannel{
		broadcaster: common.NewBroadcaster(bufferSize, func(address string, dropped change) {
			log.Warn().Str("remoteAddr", address).Str("event", dropped.Event).Msg("observer lags behind, dropping change")
		}),
	}
}

func (dc *displayChannel) broadcast(event string, payload any) {
	dc.broadcaster.Send(change{Event: event, Payload: payload})
}

func (dc *displayChannel) Close() {
	dc.broadcaster.Close()
}

func (dc *displayChannel) Forget(address string) {
	dc.broadcaster.Forget(address)
}

func (dc *displayChannel) Observe(address string) <-chan change {
	return dc.broadcaster.Observe(address)
}

// Replay sends the current session snapshot followed by the catalog.
func (dc *displayChannel) Replay(res ResponseWriter) error {
	if dc.controller == nil {
		return nil
	}

	snapshot := dc.controller.Snapshot()
	err := res.SendChange(snapshot, displayChannelVariant, displayReplayEvent)
	if err != nil {
		return err
	}

	return res.SendChange(catalogPayload{
		Playlists: dc.controller.Catalog().Names(),
		Selected:  snapshot.SelectedPlaylist,
	}, displayChannelVariant, displayCatalogEvent)
}

func (dc *displayChannel) Variant() ChannelVariant {
	return displayChannelVariant
}
