//go:build !((linux && cgo) || windows || darwin)

package beepplayer

import "github.com/gopxl/beep/v2"

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires cgo for native sound libraries on linux.
const AudioAvailable = false

type noOutput struct{}

// NewSpeakerOutput returns an Output failing every play, since there is no audio device support in this build.
func NewSpeakerOutput() Output {
	return noOutput{}
}

func (noOutput) Play(streamer beep.Streamer, format beep.Format) error {
	return ErrAudioUnavailable
}

func (noOutput) Clear() {}

func (noOutput) Lock() {}

func (noOutput) Unlock() {}
