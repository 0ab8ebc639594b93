// Package session implements the playback session: the state machine between user intents,
// the media engine and the display.
package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/sarpt/ost-player/pkg/catalog"
	"github.com/sarpt/ost-player/pkg/engine"
)

const (
	controllerComponent = "session.Controller"

	// DefaultVolume is used when no volume has been stored.
	DefaultVolume = 80

	minVolume = 0
	maxVolume = 100

	noSelection = -1
)

type Config struct {
	Catalog   *catalog.Catalog
	Engine    engine.Engine
	Logger    zerolog.Logger
	Reflector Reflector
	Volume    int

	// Intn returns a random number in [0, n). Defaults to math/rand.
	Intn func(n int) int
}

// Controller owns the session state. Every intent and every engine notification is handled under one lock.
type Controller struct {
	catalog       *catalog.Catalog
	closed        bool
	display       DisplayState
	engine        engine.Engine
	epoch         uint64
	heldForBuffer bool
	intn          func(int) int
	lastErr       string
	lock          *sync.Mutex
	log           zerolog.Logger
	reflector     Reflector
	selected      int
	state         EngineState
	track         int
	trackTitle    string
	volume        int
}

func NewController(cfg Config) *Controller {
	c := cfg.Catalog
	if c == nil {
		c = catalog.Empty()
	}

	intn := cfg.Intn
	if intn == nil {
		intn = rand.IntN
	}

	reflector := cfg.Reflector
	if reflector == nil {
		reflector = NewReflectors()
	}

	return &Controller{
		catalog:   c,
		display:   DisplayState{ButtonLabel: LabelPlay},
		engine:    cfg.Engine,
		intn:      intn,
		lock:      &sync.Mutex{},
		log:       cfg.Logger.With().Str("component", controllerComponent).Logger(),
		reflector: reflector,
		selected:  noSelection,
		state:     Idle,
		track:     noSelection,
		volume:    lo.Clamp(cfg.Volume, minVolume, maxVolume),
	}
}

// SelectPlaylist stops whatever plays and selects the playlist under idx.
// Out of range idx leaves the session unchanged.
func (c *Controller) SelectPlaylist(idx int) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	playlist, ok := c.catalog.Playlist(idx)
	if !ok {
		c.log.Warn().Int("playlist", idx).Int("playlists", c.catalog.Len()).Msg("ignoring selection of a playlist out of range")
		return fmt.Errorf("%w: %d (catalog has %d playlists)", ErrPlaylistIndexOutOfRange, idx, c.catalog.Len())
	}

	c.stopEngine()
	c.selected = idx
	c.lastErr = ""
	c.log.Info().Str("playlist", playlist.Name).Msg("playlist selected")
	c.emit(LabelPlay, nowPlaying(playlist.Name))

	return nil
}

// TogglePlayPause pauses the playing track, resumes the paused one, or starts a random track when nothing plays.
// Toggling while the track is loading or buffering is ignored.
func (c *Controller) TogglePlayPause() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	if c.selected == noSelection {
		c.log.Info().Msg("ignoring play/pause, no playlist selected")
		return ErrNoPlaylistSelected
	}

	switch c.state {
	case Playing:
		err := c.engine.Pause()
		if err != nil {
			return c.fail("pause", err)
		}

		c.state = Paused
		c.emit(LabelPlay, c.display.NowPlaying)
	case Paused:
		err := c.engine.Play()
		if err != nil {
			return c.fail("resume", err)
		}

		c.state = Playing
		c.emit(LabelPause, c.display.NowPlaying)
	case Idle, Error:
		return c.playRandomTrack()
	default:
		c.log.Debug().Stringer("state", c.state).Msg("ignoring play/pause while the track is being prepared")
	}

	return nil
}

// PlayRandomTrack loads and plays a track of the selected playlist chosen uniformly at random.
// The previously played track may be chosen again.
func (c *Controller) PlayRandomTrack() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	return c.playRandomTrack()
}

// HandleNotification applies a notification received from the engine.
// Notifications tagged with an epoch other than the current one are discarded.
func (c *Controller) HandleNotification(n engine.Notification) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return
	}

	if n.Epoch != c.epoch {
		c.log.Debug().Uint64("epoch", n.Epoch).Uint64("current", c.epoch).Str("kind", string(n.Kind)).Msg("discarding stale notification")
		return
	}

	switch n.Kind {
	case engine.Buffering:
		c.handleBuffering(n.Percent)
	case engine.ReachedPlaying:
		if c.state == Loading || c.state == Buffering {
			c.resumeAfterPreparation()
		}
	case engine.EndOfStream:
		if c.state == Idle || c.state == Error {
			return
		}

		c.log.Debug().Str("track", c.trackTitle).Msg("track finished, advancing")
		c.state = Idle
		c.track = noSelection
		err := c.playRandomTrack()
		if err != nil {
			c.log.Warn().Err(err).Msg("could not advance to the next track")
		}
	case engine.Error:
		c.log.Warn().Str("message", n.Message).Str("track", c.trackTitle).Msg("engine reported playback error")
		c.enterError(n.Message)
	case engine.Title:
		if n.Title == "" || c.state == Idle || c.state == Error {
			return
		}

		c.trackTitle = n.Title
		c.emit(c.display.ButtonLabel, nowPlaying(n.Title))
	}
}

// SetVolume clamps level to 0..100 and forwards it to the engine.
func (c *Controller) SetVolume(level int) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	c.volume = lo.Clamp(level, minVolume, maxVolume)
	err := c.engine.SetVolume(c.volume)
	if err != nil {
		c.log.Warn().Err(err).Int("volume", c.volume).Msg("could not change volume")
		return &EngineError{Op: "set volume", Err: err}
	}

	return nil
}

// Shutdown stops the engine and closes the session. Any later intent fails with ErrSessionClosed.
func (c *Controller) Shutdown() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return
	}

	c.stopEngine()
	c.closed = true
	c.log.Info().Msg("session closed")
}

// ReplaceCatalog swaps the catalog, keeping the selected playlist when the new catalog has one with the same name.
// Otherwise the first playlist gets selected.
func (c *Controller) ReplaceCatalog(newCatalog *catalog.Catalog) error {
	if newCatalog == nil {
		newCatalog = catalog.Empty()
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	var selectedName string
	if playlist, ok := c.catalog.Playlist(c.selected); ok {
		selectedName = playlist.Name
	}

	c.stopEngine()
	c.catalog = newCatalog
	c.selected = noSelection

	if idx := newCatalog.IndexOf(selectedName); idx != -1 {
		c.selected = idx
	} else if selectedName != "" && newCatalog.Len() > 0 {
		c.selected = 0
	}

	if catalogReflector, ok := c.reflector.(CatalogReflector); ok {
		catalogReflector.ReflectCatalog(newCatalog.Names(), c.selected)
	}

	c.log.Info().Int("playlists", newCatalog.Len()).Int("selected", c.selected).Msg("catalog replaced")

	playlist, ok := newCatalog.Playlist(c.selected)
	if !ok {
		c.emit(LabelPlay, "")
		return nil
	}

	c.emit(LabelPlay, nowPlaying(playlist.Name))
	return nil
}

// Run feeds engine notifications into HandleNotification until ctx is done or the engine closes its notifications.
func (c *Controller) Run(ctx context.Context) {
	notifications := c.engine.Notifications()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}

			c.HandleNotification(n)
		}
	}
}

func (c *Controller) Catalog() *catalog.Catalog {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.catalog
}

func (c *Controller) Display() DisplayState {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.display
}

func (c *Controller) Snapshot() Snapshot {
	c.lock.Lock()
	defer c.lock.Unlock()

	snapshot := Snapshot{
		Closed:           c.closed,
		Display:          c.display,
		LastError:        c.lastErr,
		SelectedPlaylist: c.selected,
		State:            c.state,
		Track:            c.track,
		Volume:           c.volume,
	}

	playlist, ok := c.catalog.Playlist(c.selected)
	if !ok {
		return snapshot
	}

	snapshot.PlaylistName = playlist.Name
	if c.track >= 0 && c.track < len(playlist.Tracks) {
		snapshot.TrackURI = playlist.Tracks[c.track]
		snapshot.TrackTitle = c.trackTitle
	}

	return snapshot
}

func (c *Controller) playRandomTrack() error {
	if c.catalog.Len() == 0 {
		c.log.Info().Msg("ignoring play request, catalog is empty")
		return ErrEmptyCatalog
	}

	playlist, ok := c.catalog.Playlist(c.selected)
	if !ok {
		c.log.Info().Msg("ignoring play request, no playlist selected")
		return ErrNoPlaylistSelected
	}

	trackIdx := c.intn(len(playlist.Tracks))
	uri := playlist.Tracks[trackIdx]

	c.epoch++
	c.heldForBuffer = false
	c.lastErr = ""
	c.state = Loading
	c.track = trackIdx
	c.trackTitle = DeriveTitle(uri)

	c.log.Info().Str("playlist", playlist.Name).Str("uri", uri).Uint64("epoch", c.epoch).Msg("loading track")

	err := c.engine.Load(uri, c.epoch)
	if err != nil {
		return c.fail("load track", err)
	}

	err = c.engine.Play()
	if err != nil {
		return c.fail("play track", err)
	}

	c.emit(LabelBuffering, nowPlaying(c.trackTitle))

	return nil
}

func (c *Controller) handleBuffering(percent int) {
	if c.state != Loading && c.state != Buffering && c.state != Playing {
		return
	}

	if percent >= 100 {
		if c.state != Playing {
			c.resumeAfterPreparation()
		}

		return
	}

	if !c.heldForBuffer {
		err := c.engine.Pause()
		if err != nil {
			c.log.Warn().Err(err).Msg("could not hold playback while buffering")
		} else {
			c.heldForBuffer = true
		}
	}

	c.state = Buffering
	c.emit(LabelBuffering, c.display.NowPlaying)
}

func (c *Controller) resumeAfterPreparation() {
	if c.heldForBuffer {
		err := c.engine.Play()
		if err != nil {
			c.enterError((&EngineError{Op: "resume after buffering", Err: err}).Error())
			return
		}

		c.heldForBuffer = false
	}

	c.state = Playing
	c.emit(LabelPause, nowPlaying(c.trackTitle))
}

func (c *Controller) fail(op string, err error) error {
	engineErr := &EngineError{Op: op, Err: err}
	c.log.Warn().Err(err).Str("op", op).Msg("engine operation failed")
	c.enterError(engineErr.Error())

	return engineErr
}

func (c *Controller) enterError(msg string) {
	c.stopEngine()
	c.state = Error
	c.lastErr = msg
	c.emit(LabelPlay, playbackError(msg))
}

// stopEngine stops the engine ignoring its failure, and moves the session to a new epoch.
func (c *Controller) stopEngine() {
	c.epoch++
	c.heldForBuffer = false
	c.state = Idle
	c.track = noSelection

	err := c.engine.Stop()
	if err != nil {
		c.log.Debug().Err(err).Msg("engine stop failed")
	}
}

// emit updates the display and reflects it, unless nothing has changed.
func (c *Controller) emit(buttonLabel string, nowPlaying string) {
	next := DisplayState{
		ButtonLabel: buttonLabel,
		NowPlaying:  nowPlaying,
	}

	if next == c.display {
		return
	}

	c.display = next
	c.reflector.Reflect(next)
}
