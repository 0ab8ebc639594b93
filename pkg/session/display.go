package session

import "sync"

const (
	LabelPlay      = "Play"
	LabelPause     = "Pause"
	LabelBuffering = "Buffering"

	nowPlayingPrefix    = "Now Playing: "
	playbackErrorPrefix = "Playback error: "
)

// DisplayState is the pair of texts shown to the user: the label of the play/pause button and the now playing text.
type DisplayState struct {
	ButtonLabel string `json:"buttonLabel"`
	NowPlaying  string `json:"nowPlaying"`
}

// Reflector renders display states emitted by the Controller.
// Reflect is called with the Controller lock held: it must not block and must not call the Controller synchronously.
type Reflector interface {
	Reflect(state DisplayState)
}

// CatalogReflector is optionally implemented by reflectors presenting the list of playlists.
// ReflectCatalog is called under the same conditions as Reflect, selected is -1 when nothing is selected.
type CatalogReflector interface {
	ReflectCatalog(names []string, selected int)
}

// ReflectorFunc adapts a function to the Reflector interface.
type ReflectorFunc func(state DisplayState)

func (f ReflectorFunc) Reflect(state DisplayState) {
	f(state)
}

// Reflectors fans display states out to every added reflector.
type Reflectors struct {
	lock       *sync.RWMutex
	reflectors []Reflector
}

func NewReflectors(reflectors ...Reflector) *Reflectors {
	return &Reflectors{
		lock:       &sync.RWMutex{},
		reflectors: reflectors,
	}
}

// Add registers reflector. Reflectors can be added after the Controller is created, since frontends are usually built around it.
func (r *Reflectors) Add(reflector Reflector) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.reflectors = append(r.reflectors, reflector)
}

func (r *Reflectors) Reflect(state DisplayState) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, reflector := range r.reflectors {
		reflector.Reflect(state)
	}
}

func (r *Reflectors) ReflectCatalog(names []string, selected int) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, reflector := range r.reflectors {
		catalogReflector, ok := reflector.(CatalogReflector)
		if !ok {
			continue
		}

		catalogReflector.ReflectCatalog(names, selected)
	}
}

func nowPlaying(name string) string {
	return nowPlayingPrefix + name
}

func playbackError(msg string) string {
	return playbackErrorPrefix + msg
}
