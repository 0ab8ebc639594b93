package engine

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/pkg/mpv"
)

const (
	mpvEngineComponent = "engine.MpvEngine"
)

var (
	mpvObservedProperties = []string{
		mpv.PausedForCacheProperty,
		mpv.CacheBufferingStateProperty,
		mpv.MediaTitleProperty,
	}
)

// MpvClient is the part of mpv.Manager used by MpvEngine.
type MpvClient interface {
	ChangePause(paused bool) error
	LoadFile(filePath string) error
	SetVolume(percent int) error
	Stop() error
	SubscribeToEvents(out chan<- mpv.Event)
	SubscribeToProperty(propertyName string, out chan<- mpv.ObservePropertyResponse) error
}

// MpvEngine is an Engine backed by mpv, translating mpv events and property changes into notifications.
// Events and property changes are received on unbuffered channels, which keeps them in the order mpv sent them.
type MpvEngine struct {
	awaitingStart  bool
	bufferPercent  int
	client         MpvClient
	epoch          uint64
	events         chan mpv.Event
	lock           *sync.Mutex
	log            zerolog.Logger
	pausedForCache bool
	properties     chan mpv.ObservePropertyResponse
	queue          *Queue
	state          State
	uri            string
}

// NewMpvEngine subscribes to mpv properties and events required for notifications.
// Run has to be called for notifications to be delivered.
func NewMpvEngine(client MpvClient, logger zerolog.Logger) (*MpvEngine, error) {
	e := &MpvEngine{
		client:     client,
		events:     make(chan mpv.Event),
		lock:       &sync.Mutex{},
		log:        logger.With().Str("component", mpvEngineComponent).Logger(),
		properties: make(chan mpv.ObservePropertyResponse),
		queue:      NewQueue(),
		state:      StateIdle,
	}

	client.SubscribeToEvents(e.events)
	for _, property := range mpvObservedProperties {
		err := client.SubscribeToProperty(property, e.properties)
		if err != nil {
			return nil, fmt.Errorf("could not subscribe to mpv property %s: %w", property, err)
		}
	}

	return e, nil
}

// Load replaces whatever mpv plays with uri.
// Events concerning the previous file, delivered before mpv starts loading uri, are ignored.
func (e *MpvEngine) Load(uri string, epoch uint64) error {
	e.lock.Lock()
	e.awaitingStart = true
	e.bufferPercent = 0
	e.epoch = epoch
	e.pausedForCache = false
	e.state = StateLoading
	e.uri = uri
	e.lock.Unlock()

	err := e.client.LoadFile(uri)
	if err != nil {
		e.setState(StateError)
		return err
	}

	return nil
}

func (e *MpvEngine) Play() error {
	err := e.client.ChangePause(false)
	if err != nil {
		return err
	}

	e.lock.Lock()
	if e.state == StatePaused {
		e.state = StatePlaying
	}
	e.lock.Unlock()

	return nil
}

func (e *MpvEngine) Pause() error {
	err := e.client.ChangePause(true)
	if err != nil {
		return err
	}

	e.lock.Lock()
	if e.state == StatePlaying {
		e.state = StatePaused
	}
	e.lock.Unlock()

	return nil
}

func (e *MpvEngine) Stop() error {
	e.lock.Lock()
	e.awaitingStart = true
	e.state = StateIdle
	e.lock.Unlock()

	return e.client.Stop()
}

func (e *MpvEngine) SetVolume(percent int) error {
	return e.client.SetVolume(percent)
}

func (e *MpvEngine) CurrentState() State {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.state
}

func (e *MpvEngine) Notifications() <-chan Notification {
	return e.queue.Out()
}

// Run translates mpv messages into notifications until ctx is done, then closes the notifications channel.
func (e *MpvEngine) Run(ctx context.Context) {
	defer e.queue.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-e.events:
			e.handleEvent(event)
		case change := <-e.properties:
			e.handlePropertyChange(change)
		}
	}
}

func (e *MpvEngine) handleEvent(event mpv.Event) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.log.Debug().Str("event", event.Name).Str("reason", event.Reason).Msg("mpv event received")

	if event.Name == mpv.StartFileEvent {
		e.awaitingStart = false
		return
	}

	if e.awaitingStart {
		return
	}

	switch event.Name {
	case mpv.PlaybackRestartEvent:
		if e.state != StatePaused {
			e.state = StatePlaying
		}
		e.push(Notification{Kind: ReachedPlaying})
	case mpv.EndFileEvent:
		e.handleEndFile(event)
	}
}

func (e *MpvEngine) handleEndFile(event mpv.Event) {
	switch event.Reason {
	case mpv.EndFileReasonEOF:
		e.state = StateEnded
		e.push(Notification{Kind: EndOfStream})
	case mpv.EndFileReasonError:
		msg := event.FileError
		if msg == "" {
			msg = "mpv could not play the file"
		}

		e.state = StateError
		e.push(Notification{Kind: Error, Message: msg})
	}
}

func (e *MpvEngine) handlePropertyChange(change mpv.ObservePropertyResponse) {
	value, ok := change.Data.(string)
	if !ok {
		return
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	if e.awaitingStart {
		return
	}

	switch change.Property {
	case mpv.PausedForCacheProperty:
		e.handlePausedForCache(value == mpv.YesValue)
	case mpv.CacheBufferingStateProperty:
		percent, err := strconv.Atoi(value)
		if err != nil {
			e.log.Debug().Err(err).Str("value", value).Msg("unexpected cache buffering state")
			return
		}

		e.bufferPercent = percent
		if e.pausedForCache && percent < 100 {
			e.push(Notification{Kind: Buffering, Percent: percent})
		}
	case mpv.MediaTitleProperty:
		if isMetadataTitle(value, e.uri) {
			e.push(Notification{Kind: Title, Title: value})
		}
	}
}

func (e *MpvEngine) handlePausedForCache(paused bool) {
	if paused == e.pausedForCache {
		return
	}
	e.pausedForCache = paused

	if paused {
		e.state = StateBuffering
		percent := e.bufferPercent
		if percent >= 100 {
			percent = 0
		}

		e.push(Notification{Kind: Buffering, Percent: percent})
		return
	}

	if e.state == StateBuffering {
		e.state = StatePlaying
	}
	e.push(Notification{Kind: Buffering, Percent: 100})
}

// push has to be called with the lock held.
func (e *MpvEngine) push(n Notification) {
	n.Epoch = e.epoch
	e.queue.Push(n)
}

func (e *MpvEngine) setState(state State) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.state = state
}

// isMetadataTitle reports whether mpv media-title carries a title from metadata,
// since without metadata mpv falls back to the filename.
func isMetadataTitle(title string, uri string) bool {
	if title == "" || title == uri {
		return false
	}

	base := path.Base(uri)
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		base = path.Base(u.Path)
	}

	if title == base {
		return false
	}

	unescaped, err := url.PathUnescape(base)

	return err != nil || title != unescaped
}
