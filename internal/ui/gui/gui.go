// Package gui is the desktop frontend of the player.
package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/internal/ui"
	"github.com/sarpt/ost-player/pkg/session"
)

const (
	component = "gui.Window"

	appID = "io.github.sarpt.ost-player"

	windowWidth  = 400
	windowHeight = 100

	backgroundTranslucency = 0.7
	randomLabel            = "Random"
	versionTextSize        = 10

	pendingIntents = 32
)

var versionColor = color.Gray{Y: 0x80}

// Config describes the window.
type Config struct {
	// App is created when nil.
	App fyne.App

	// BackgroundPath is an image drawn translucently under the controls. Empty disables the background.
	BackgroundPath string

	Controller ui.Controller
	Logger     zerolog.Logger

	// OnClose is called after the session got shut down by closing the window.
	OnClose func()

	Title   string
	Version string
}

// Window shows the session and turns widget interactions into session intents.
// Window is a session reflector: every update is scheduled on the fyne main goroutine.
type Window struct {
	controller ui.Controller
	dispatch   func(func())
	log        zerolog.Logger
	nowPlaying *widget.Label
	onClose    func()
	playPause  *widget.Button
	playlists  *widget.Select
	random     *widget.Button
	updating   bool
	volume     *widget.Slider
	window     fyne.Window
}

// New builds the window with the current state of the controller.
func New(cfg Config) *Window {
	fyneApp := cfg.App
	if fyneApp == nil {
		fyneApp = app.NewWithID(appID)
	}

	w := &Window{
		controller: cfg.Controller,
		dispatch:   newIntentQueue(pendingIntents).dispatch,
		log:        cfg.Logger.With().Str("component", component).Logger(),
		onClose:    cfg.OnClose,
		window:     fyneApp.NewWindow(cfg.Title),
	}

	w.build(cfg)

	return w
}

func (w *Window) build(cfg Config) {
	display := w.controller.Display()
	snapshot := w.controller.Snapshot()

	w.playPause = widget.NewButton(display.ButtonLabel, func() {
		w.intent("toggle", w.controller.TogglePlayPause)
	})
	w.random = widget.NewButton(randomLabel, func() {
		w.intent("random", w.controller.PlayRandomTrack)
	})

	w.playlists = widget.NewSelect(w.controller.Catalog().Names(), func(string) {
		if w.updating {
			return
		}

		idx := w.playlists.SelectedIndex()
		w.intent("select playlist", func() error {
			return w.controller.SelectPlaylist(idx)
		})
	})
	w.selectPlaylist(snapshot.SelectedPlaylist)

	w.volume = widget.NewSlider(0, 100)
	w.volume.Orientation = widget.Vertical
	w.volume.Value = float64(snapshot.Volume)
	w.volume.OnChangeEnded = func(value float64) {
		w.intent("volume", func() error {
			return w.controller.SetVolume(int(value))
		})
	}

	w.nowPlaying = widget.NewLabel(display.NowPlaying)
	w.nowPlaying.Truncation = fyne.TextTruncateEllipsis

	version := canvas.NewText(cfg.Version, versionColor)
	version.TextSize = versionTextSize

	controls := container.NewBorder(nil, nil, container.NewHBox(w.playPause, w.random), w.volume, w.playlists)
	status := container.NewBorder(nil, nil, nil, version, w.nowPlaying)
	content := container.NewVBox(controls, status, layout.NewSpacer())

	if cfg.BackgroundPath != "" {
		background := canvas.NewImageFromFile(cfg.BackgroundPath)
		background.FillMode = canvas.ImageFillStretch
		background.Translucency = backgroundTranslucency

		w.window.SetContent(container.NewStack(background, content))
	} else {
		w.window.SetContent(content)
	}

	w.window.Resize(fyne.NewSize(windowWidth, windowHeight))
	w.window.SetFixedSize(true)
	w.window.SetCloseIntercept(w.close)
}

// Run shows the window and blocks until the app quits.
func (w *Window) Run() {
	w.window.ShowAndRun()
}

// Quit closes the window from outside, e.g. on a signal. The session is left for the caller to shut down.
func (w *Window) Quit() {
	fyne.Do(w.window.Close)
}

// Reflect is called by the session on every display change.
func (w *Window) Reflect(state session.DisplayState) {
	fyne.Do(func() {
		w.playPause.SetText(state.ButtonLabel)
		w.nowPlaying.SetText(state.NowPlaying)
	})
}

// ReflectCatalog is called by the session when its catalog gets replaced.
func (w *Window) ReflectCatalog(names []string, selected int) {
	fyne.Do(func() {
		w.updating = true
		defer func() { w.updating = false }()

		w.playlists.SetOptions(names)
		w.selectPlaylist(selected)
	})
}

func (w *Window) selectPlaylist(idx int) {
	updating := w.updating
	w.updating = true
	defer func() { w.updating = updating }()

	if idx < 0 {
		w.playlists.ClearSelected()
		return
	}

	w.playlists.SetSelectedIndex(idx)
}

func (w *Window) intent(name string, call func() error) {
	w.dispatch(func() {
		err := call()
		if err != nil {
			w.log.Warn().Err(err).Str("intent", name).Msg("intent failed")
		}
	})
}

// intentQueue runs intents one by one on its own goroutine, in the order they were dispatched.
type intentQueue struct {
	intents chan func()
}

func newIntentQueue(size int) *intentQueue {
	q := &intentQueue{
		intents: make(chan func(), size),
	}
	go q.work()

	return q
}

func (q *intentQueue) dispatch(intent func()) {
	q.intents <- intent
}

func (q *intentQueue) work() {
	for intent := range q.intents {
		intent()
	}
}

func (w *Window) close() {
	w.controller.Shutdown()
	if w.onClose != nil {
		w.onClose()
	}

	w.window.Close()
}
