// Package beepplayer plays local and streamed tracks in-process, decoding them with beep.
package beepplayer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/sarpt/ost-player/pkg/engine"
)

const (
	component = "beepplayer.Player"

	// DefaultBufferSize is the number of samples buffered ahead of the output, about 5 seconds at 44.1kHz.
	DefaultBufferSize = 44100 * 5

	// MinVolumeDB is the volume exponent (with base 2) used for the lowest non-silent volume.
	MinVolumeDB = -10.0

	// VolumeCurveExponent shapes percent-to-volume mapping so lower percents stay audible.
	VolumeCurveExponent = 0.5

	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 15 * time.Second
	idleConnTimeout       = 90 * time.Second
	maxIdleConns          = 10
)

// Config describes how Player fetches and outputs tracks.
type Config struct {
	BufferSize int
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Output     Output
}

// Player is a synchronous engine.Player. Load returns immediately, opening and decoding
// the track happens in the background and is observable through CurrentState.
type Player struct {
	buffer        *bufferedStreamer
	bufferSize    int
	cancel        context.CancelFunc
	ctrl          *beep.Ctrl
	generation    uint64
	httpClient    *http.Client
	lastErr       error
	loading       bool
	lock          *sync.Mutex
	log           zerolog.Logger
	output        Output
	paused        bool
	volume        *effects.Volume
	volumePercent int
}

// NewPlayer creates a Player. Missing Output falls back to the system speaker.
func NewPlayer(cfg Config) *Player {
	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newStreamingClient(responseHeaderTimeout)
	}

	output := cfg.Output
	if output == nil {
		output = NewSpeakerOutput()
	}

	return &Player{
		bufferSize:    bufferSize,
		httpClient:    httpClient,
		lock:          &sync.Mutex{},
		log:           cfg.Logger.With().Str("component", component).Logger(),
		output:        output,
		volumePercent: 100,
	}
}

// newStreamingClient bounds connecting and waiting for response headers only.
// The body of a track is read at playback pace, so the client has no overall timeout.
func newStreamingClient(headerTimeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: dialTimeout,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: headerTimeout,
			MaxIdleConns:          maxIdleConns,
			IdleConnTimeout:       idleConnTimeout,
			DisableCompression:    true,
		},
	}
}

// Load replaces whatever is loaded with uri. The track starts paused until Play is called.
func (p *Player) Load(uri string) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.stop()

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loading = true
	p.paused = true

	go p.prepare(ctx, p.generation, uri)

	return nil
}

func (p *Player) Play() error {
	p.setPaused(false)

	return nil
}

func (p *Player) Pause() error {
	p.setPaused(true)

	return nil
}

func (p *Player) Stop() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.stop()

	return nil
}

// SetVolume sets output volume, percent is clamped to 0-100. Volume set before load is applied on load.
func (p *Player) SetVolume(percent int) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.volumePercent = lo.Clamp(percent, 0, 100)
	if p.volume == nil {
		return nil
	}

	p.output.Lock()
	p.volume.Volume = percentToExponent(p.volumePercent)
	p.volume.Silent = p.volumePercent == 0
	p.output.Unlock()

	return nil
}

func (p *Player) CurrentState() engine.State {
	p.lock.Lock()
	defer p.lock.Unlock()

	switch {
	case p.lastErr != nil:
		return engine.StateError
	case p.loading:
		return engine.StateLoading
	case p.buffer == nil:
		return engine.StateIdle
	case p.buffer.drained.Load():
		if p.buffer.decodeErr() != nil {
			return engine.StateError
		}

		return engine.StateEnded
	case p.buffer.stalled():
		return engine.StateBuffering
	case p.paused:
		return engine.StatePaused
	default:
		return engine.StatePlaying
	}
}

func (p *Player) LastError() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.lastErr != nil {
		return p.lastErr
	}

	if p.buffer != nil {
		return p.buffer.decodeErr()
	}

	return nil
}

// BufferPercent reports how close the buffer is to resuming output.
func (p *Player) BufferPercent() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.buffer == nil {
		return 0
	}

	return p.buffer.fill()
}

func (p *Player) prepare(ctx context.Context, generation uint64, uri string) {
	src, err := openSource(ctx, p.httpClient, uri)
	if err != nil {
		p.failLoad(generation, err)
		return
	}

	decoder, format, err := src.decode(src.body)
	if err != nil {
		src.body.Close()
		p.failLoad(generation, fmt.Errorf("could not decode track: %w", err))
		return
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if generation != p.generation {
		decoder.Close()
		return
	}

	buffer := newBufferedStreamer(p.bufferSize)
	go buffer.decode(ctx, decoder)

	p.buffer = buffer
	p.volume = &effects.Volume{
		Streamer: buffer,
		Base:     2,
		Volume:   percentToExponent(p.volumePercent),
		Silent:   p.volumePercent == 0,
	}
	p.ctrl = &beep.Ctrl{
		Streamer: p.volume,
		Paused:   p.paused,
	}
	p.loading = false

	err = p.output.Play(p.ctrl, format)
	if err != nil {
		p.lastErr = err
		p.log.Error().Err(err).Str("uri", uri).Msg("could not start audio output")
		return
	}

	p.log.Debug().Str("uri", uri).Int("sampleRate", int(format.SampleRate)).Msg("track prepared")
}

func (p *Player) failLoad(generation uint64, err error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if generation != p.generation {
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	p.loading = false
	p.lastErr = err
	p.log.Warn().Err(err).Msg("could not load track")
}

func (p *Player) setPaused(paused bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.paused = paused
	if p.ctrl == nil {
		return
	}

	p.output.Lock()
	p.ctrl.Paused = paused
	p.output.Unlock()
}

// stop has to be called with lock held.
func (p *Player) stop() {
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if p.ctrl != nil {
		p.output.Lock()
		p.ctrl.Paused = true
		p.output.Unlock()
		p.output.Clear()
	}

	p.buffer = nil
	p.ctrl = nil
	p.volume = nil
	p.lastErr = nil
	p.loading = false
	p.paused = false
}

func percentToExponent(percent int) float64 {
	if percent <= 0 {
		return MinVolumeDB
	}

	if percent >= 100 {
		return 0
	}

	curved := math.Pow(float64(percent)/100, VolumeCurveExponent)

	return (1 - curved) * MinVolumeDB
}
