//go:build (linux && cgo) || windows || darwin

package beepplayer

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	// AudioAvailable indicates whether audio playback is supported in this build.
	AudioAvailable = true

	speakerSampleRate = beep.SampleRate(44100)
	speakerBufferSize = time.Second / 10
	resampleQuality   = 4
)

// speakerOutput plays through the system audio device. The speaker is initialized once, on first play.
type speakerOutput struct {
	initialized bool
	lock        *sync.Mutex
}

// NewSpeakerOutput returns the Output backed by the system audio device.
func NewSpeakerOutput() Output {
	return &speakerOutput{
		lock: &sync.Mutex{},
	}
}

func (o *speakerOutput) Play(streamer beep.Streamer, format beep.Format) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	if !o.initialized {
		err := speaker.Init(speakerSampleRate, speakerSampleRate.N(speakerBufferSize))
		if err != nil {
			return fmt.Errorf("could not initialize speaker: %w", err)
		}

		o.initialized = true
	}

	if format.SampleRate != speakerSampleRate {
		streamer = beep.Resample(resampleQuality, format.SampleRate, speakerSampleRate, streamer)
	}

	speaker.Play(streamer)

	return nil
}

func (o *speakerOutput) Clear() {
	if !o.isInitialized() {
		return
	}

	speaker.Clear()
}

func (o *speakerOutput) Lock() {
	if !o.isInitialized() {
		return
	}

	speaker.Lock()
}

func (o *speakerOutput) Unlock() {
	if !o.isInitialized() {
		return
	}

	speaker.Unlock()
}

func (o *speakerOutput) isInitialized() bool {
	o.lock.Lock()
	defer o.lock.Unlock()

	return o.initialized
}
