package beepplayer

import (
	"errors"

	"github.com/gopxl/beep/v2"
)

var (
	// ErrAudioUnavailable informs that the binary was built without audio output support.
	ErrAudioUnavailable = errors.New("audio output is not available in this build")
)

// Output plays streamers. Lock and Unlock guard modifications of streamers that are already playing.
type Output interface {
	Play(streamer beep.Streamer, format beep.Format) error
	Clear()
	Lock()
	Unlock()
}
