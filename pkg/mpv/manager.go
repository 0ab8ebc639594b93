package mpv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sarpt/ost-player/internal/common"
)

const (
	mpvName           = "mpv"
	idleArg           = "--idle"
	inputIpcServerArg = "--input-ipc-server"
	noVideoArg        = "--no-video"
	noTerminalArg     = "--no-terminal"

	defaultConnectionTimeout = 15 * time.Second
	defaultRequestTimeout    = 5 * time.Second

	managerComponent = "mpv.Manager"
)

type ManagerConfig struct {
	Logger                  zerolog.Logger
	MpvSocketPath           string
	RequestTimeout          time.Duration
	SocketConnectionTimeout time.Duration
	StartMpvInstance        bool
}

// Manager handles dispatching of commands, while exposing mpv command API as a facade.
type Manager struct {
	cd               *commandDispatcher
	log              zerolog.Logger
	mpvCmd           *exec.Cmd
	mpvCmdLock       *sync.Mutex
	socketPath       string
	startMpvInstance bool
}

// NewManager instantiates new command dispatcher, preparing new Manager for use.
// The mpv process (when requested) is started by Serve.
func NewManager(cfg ManagerConfig) *Manager {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	connectionTimeout := cfg.SocketConnectionTimeout
	if connectionTimeout <= 0 {
		connectionTimeout = defaultConnectionTimeout
	}

	cdCfg := commandDispatcherConfig{
		connectionTimeout: connectionTimeout,
		logger:            cfg.Logger,
		requestTimeout:    requestTimeout,
		socketPath:        cfg.MpvSocketPath,
	}

	return &Manager{
		cd:               newCommandDispatcher(cdCfg),
		log:              cfg.Logger.With().Str("component", managerComponent).Logger(),
		mpvCmdLock:       &sync.Mutex{},
		socketPath:       cfg.MpvSocketPath,
		startMpvInstance: cfg.StartMpvInstance,
	}
}

// ChangePause instructs mpv to change the pause state.
// Paused argument specifies whether playback should be paused or unpaused.
func (m *Manager) ChangePause(paused bool) error {
	_, err := m.SetProperty(PauseProperty, paused)

	return err
}

// Close cleans up manager's resources, including the owned mpv process.
func (m *Manager) Close() {
	m.cd.Close()

	m.mpvCmdLock.Lock()
	defer m.mpvCmdLock.Unlock()

	if m.mpvCmd != nil && m.mpvCmd.Process != nil {
		m.mpvCmd.Process.Kill()
	}
}

// LoadFile instructs mpv to replace whatever it plays with the file from provided path or url.
func (m *Manager) LoadFile(filePath string) error {
	cmd := command{
		name:     loadfileCommand,
		elements: []interface{}{filePath, ReplaceValue},
	}
	_, err := m.cd.Request(cmd)

	return err
}

// Serve starts handling requests to and responses from mpv, reconnecting whenever the connection is lost.
// If necessary, Serve also spawns and handles mpv process lifetime.
// Serve returns when ctx is done or on unrecoverable error.
func (m *Manager) Serve(ctx context.Context) error {
	defer m.Close()

	mpvErrors := make(chan error, 1)
	cdErrors := make(chan error, 1)

	if m.startMpvInstance {
		go func() {
			mpvErrors <- m.manageOwnMpvProcess(ctx)
		}()
	}

	go common.RestartWithContext(ctx, m.serveCommandDispatcher(ctx), func() {
		m.log.Debug().Msg("reconnecting command dispatcher...")
	}, cdErrors)

	select {
	case err := <-mpvErrors:
		return err
	case err := <-cdErrors:
		return err
	}
}

// SetProperty sets the value of a property.
// Value is of any type since various mpv properties expect different types of values.
func (m *Manager) SetProperty(property string, value interface{}) (Response, error) {
	cmd := command{
		name:     setPropertyCommand,
		elements: []interface{}{property, value},
	}

	return m.cd.Request(cmd)
}

// SetVolume sets mpv volume in percents.
func (m *Manager) SetVolume(percent int) error {
	_, err := m.SetProperty(VolumeProperty, percent)

	return err
}

// Stop instructs mpv to stop the playback without quitting.
func (m *Manager) Stop() error {
	cmd := command{
		name:     stopCommand,
		elements: []interface{}{},
	}
	_, err := m.cd.Request(cmd)

	return err
}

// SubscribeToEvents instructs manager to send every event emitted by mpv on the out channel.
func (m *Manager) SubscribeToEvents(out chan<- Event) {
	m.cd.SubscribeToEvents(out)
}

// SubscribeToProperty instructs mpv to listen on property changes and send those changes on the out channel.
func (m *Manager) SubscribeToProperty(propertyName string, out chan<- ObservePropertyResponse) error {
	return m.cd.SubscribeToProperty(propertyName, out)
}

func (m *Manager) startMpv(ctx context.Context) (*exec.Cmd, error) {
	cmd := exec.CommandContext(ctx, mpvName, idleArg, noVideoArg, noTerminalArg, fmt.Sprintf("%s=%s", inputIpcServerArg, m.socketPath))
	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start mpv process: %w", err)
	}

	m.mpvCmdLock.Lock()
	m.mpvCmd = cmd
	m.mpvCmdLock.Unlock()

	return cmd, nil
}

func (m *Manager) manageOwnMpvProcess(ctx context.Context) error {
	for {
		cmd, err := m.startMpv(ctx)
		if err != nil {
			return err
		}
		m.log.Info().Int("pid", cmd.Process.Pid).Msg("mpv process started")

		err = cmd.Wait()
		if ctx.Err() != nil {
			return nil
		}

		if err != nil {
			return fmt.Errorf("mpv process finished with error: %w", err)
		}

		m.log.Info().Msg("mpv process finished successfully (closed by user), restarting mpv process...")
	}
}

func (m *Manager) serveCommandDispatcher(ctx context.Context) func() error {
	return func() error {
		m.log.Debug().Msg("connecting command dispatcher...")

		err := m.cd.Connect(ctx)
		if errors.Is(err, ErrSocketUnavailable) {
			if ctx.Err() == nil {
				m.log.Warn().Err(err).Msg("mpv socket unavailable")
			}

			return nil
		} else if err != nil {
			return err
		}

		return m.cd.Serve()
	}
}
