// Package tui is the terminal frontend of the player.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/sarpt/ost-player/internal/common"
	"github.com/sarpt/ost-player/internal/ui"
	"github.com/sarpt/ost-player/pkg/session"
)

const (
	component = "tui.Program"

	volumeStep = 5

	reflectorAddress = "tui"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ebdbb2"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b8bb26"))
	labelStyle    = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("#504945")).Foreground(lipgloss.Color("#ebdbb2"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ebdbb2"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
)

type displayMsg session.DisplayState

type catalogMsg struct {
	names    []string
	selected int
}

type selectedMsg int

type errMsg struct {
	err error
}

// Config describes the terminal frontend.
type Config struct {
	Controller ui.Controller
	Logger     zerolog.Logger
	Title      string
	Version    string
}

// Program runs the terminal frontend. Program is a session reflector.
type Program struct {
	msgs    *common.Broadcaster[tea.Msg]
	program *tea.Program
	updates <-chan tea.Msg
}

// New creates the program with the current state of the controller.
// Options are passed to bubbletea, they allow replacing input and output in tests.
func New(cfg Config, opts ...tea.ProgramOption) *Program {
	log := cfg.Logger.With().Str("component", component).Logger()
	msgs := common.NewBroadcaster(common.DefaultObserverBuffer, func(_ string, msg tea.Msg) {
		log.Warn().Msg("terminal frontend lags behind, dropping update")
	})

	return &Program{
		msgs:    msgs,
		program: tea.NewProgram(newModel(cfg), opts...),
		updates: msgs.Observe(reflectorAddress),
	}
}

// Run blocks until the user quits.
func (p *Program) Run() error {
	go func() {
		for msg := range p.updates {
			p.program.Send(msg)
		}
	}()
	defer p.msgs.Close()

	_, err := p.program.Run()
	return err
}

// Quit stops the program from outside, e.g. on a signal.
func (p *Program) Quit() {
	p.program.Quit()
}

func (p *Program) Reflect(state session.DisplayState) {
	p.msgs.Send(displayMsg(state))
}

func (p *Program) ReflectCatalog(names []string, selected int) {
	p.msgs.Send(catalogMsg{names: names, selected: selected})
}

type model struct {
	controller ui.Controller
	cursor     int
	display    session.DisplayState
	err        error
	names      []string
	selected   int
	title      string
	version    string
	volume     int
}

func newModel(cfg Config) model {
	snapshot := cfg.Controller.Snapshot()

	return model{
		controller: cfg.Controller,
		cursor:     max(snapshot.SelectedPlaylist, 0),
		display:    snapshot.Display,
		names:      cfg.Controller.Catalog().Names(),
		selected:   snapshot.SelectedPlaylist,
		title:      cfg.Title,
		version:    cfg.Version,
		volume:     snapshot.Volume,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case displayMsg:
		m.display = session.DisplayState(msg)
		return m, nil
	case catalogMsg:
		m.names = msg.names
		m.selected = msg.selected
		m.cursor = lo.Clamp(m.cursor, 0, max(len(m.names)-1, 0))
		return m, nil
	case selectedMsg:
		m.selected = int(msg)
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, max(len(m.names)-1, 0))
	case "enter":
		idx := m.cursor
		m.err = nil
		controller := m.controller
		return m, func() tea.Msg {
			err := controller.SelectPlaylist(idx)
			if err != nil {
				return errMsg{err: err}
			}

			return selectedMsg(idx)
		}
	case " ", "space":
		m.err = nil
		return m, m.intent(m.controller.TogglePlayPause)
	case "r":
		m.err = nil
		return m, m.intent(m.controller.PlayRandomTrack)
	case "+", "=":
		return m.changeVolume(volumeStep)
	case "-":
		return m.changeVolume(-volumeStep)
	case "q", "ctrl+c":
		controller := m.controller
		return m, func() tea.Msg {
			controller.Shutdown()
			return tea.Quit()
		}
	}

	return m, nil
}

func (m model) changeVolume(delta int) (tea.Model, tea.Cmd) {
	m.volume = lo.Clamp(m.volume+delta, 0, 100)
	volume := m.volume

	return m, m.intent(func() error { return m.controller.SetVolume(volume) })
}

func (m model) intent(call func() error) tea.Cmd {
	return func() tea.Msg {
		err := call()
		if err != nil {
			return errMsg{err: err}
		}

		return nil
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	if m.version != "" {
		b.WriteString(" " + helpStyle.Render(m.version))
	}
	b.WriteString("\n\n")

	for idx, name := range m.names {
		cursor := "  "
		if idx == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line := name
		if idx == m.selected {
			line = selectedStyle.Render(name)
		}

		b.WriteString(cursor + line + "\n")
	}

	if len(m.names) == 0 {
		b.WriteString(helpStyle.Render("no playlists") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render(m.display.ButtonLabel) + " " + statusStyle.Render(m.display.NowPlaying) + "\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("Volume: %d%%", m.volume)) + "\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ move • enter select • space play/pause • r random • +/- volume • q quit"))

	return b.String()
}
