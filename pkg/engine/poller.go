package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	pollerComponent = "engine.Poller"

	// DefaultPollInterval is the sampling interval used when none is configured.
	DefaultPollInterval = time.Second
)

// BufferReporter is optionally implemented by a Player able to tell how full its buffer is.
type BufferReporter interface {
	BufferPercent() int
}

// Poller turns a synchronous Player into an Engine by sampling its state on a fixed interval
// and synthesizing notifications out of observed state transitions.
// Polling is a fallback for bindings without push notifications - transitions shorter than the interval are lost.
type Poller struct {
	epoch    uint64
	interval time.Duration
	last     State
	lock     *sync.Mutex
	log      zerolog.Logger
	player   Player
	queue    *Queue
}

// NewPoller wraps player. Non-positive interval falls back to DefaultPollInterval.
func NewPoller(player Player, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Poller{
		interval: interval,
		last:     StateIdle,
		lock:     &sync.Mutex{},
		log:      logger.With().Str("component", pollerComponent).Logger(),
		player:   player,
		queue:    NewQueue(),
	}
}

// Load starts loading uri in the wrapped player. Notifications following the load carry the epoch.
func (p *Poller) Load(uri string, epoch uint64) error {
	p.lock.Lock()
	p.epoch = epoch
	p.last = StateLoading
	p.lock.Unlock()

	return p.player.Load(uri)
}

func (p *Poller) Play() error {
	return p.player.Play()
}

func (p *Poller) Pause() error {
	return p.player.Pause()
}

// Stop stops the wrapped player. No notifications are synthesized for the stop itself.
func (p *Poller) Stop() error {
	p.lock.Lock()
	p.last = StateIdle
	p.lock.Unlock()

	return p.player.Stop()
}

func (p *Poller) SetVolume(percent int) error {
	return p.player.SetVolume(percent)
}

func (p *Poller) CurrentState() State {
	return p.player.CurrentState()
}

func (p *Poller) Notifications() <-chan Notification {
	return p.queue.Out()
}

// Run polls the player until ctx is done, then closes the notifications channel.
func (p *Poller) Run(ctx context.Context) {
	defer p.queue.Close()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll samples the player once and pushes notifications for the transition since the previous sample.
// A sample taken while another track got loaded is dropped, it may still describe the previous track.
func (p *Poller) Poll() {
	p.lock.Lock()
	epoch := p.epoch
	p.lock.Unlock()

	current := p.player.CurrentState()

	p.lock.Lock()
	previous := p.last
	if epoch != p.epoch {
		p.lock.Unlock()
		p.log.Debug().Stringer("state", current).Msg("sample of the previous track dropped")
		return
	}

	if current == previous {
		p.lock.Unlock()
		return
	}
	p.last = current
	p.lock.Unlock()

	p.log.Debug().Stringer("from", previous).Stringer("to", current).Msg("player state changed")

	n, ok := p.transitionNotification(previous, current)
	if !ok {
		return
	}

	n.Epoch = epoch
	p.queue.Push(n)
}

func (p *Poller) transitionNotification(previous State, current State) (Notification, bool) {
	switch current {
	case StateLoading, StateBuffering:
		return Notification{Kind: Buffering, Percent: p.bufferPercent()}, true
	case StatePlaying:
		if previous == StatePaused {
			return Notification{}, false
		}

		return Notification{Kind: ReachedPlaying}, true
	case StatePaused:
		if previous != StateLoading && previous != StateBuffering {
			return Notification{}, false
		}

		// held paused by the session until the buffer filled up
		return Notification{Kind: Buffering, Percent: 100}, true
	case StateEnded:
		return Notification{Kind: EndOfStream}, true
	case StateError:
		msg := "unknown playback error"
		if err := p.player.LastError(); err != nil {
			msg = err.Error()
		}

		return Notification{Kind: Error, Message: msg}, true
	default:
		return Notification{}, false
	}
}

func (p *Poller) bufferPercent() int {
	reporter, ok := p.player.(BufferReporter)
	if !ok {
		return 0
	}

	percent := reporter.BufferPercent()
	if percent >= 100 {
		return 99
	}

	return percent
}
