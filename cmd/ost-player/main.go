package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sarpt/goutils/pkg/listflag"

	"github.com/sarpt/ost-player/cmd/ost-player/internal/utils"
	"github.com/sarpt/ost-player/internal/config"
	"github.com/sarpt/ost-player/internal/logging"
	"github.com/sarpt/ost-player/internal/prefs"
	"github.com/sarpt/ost-player/internal/rest"
	"github.com/sarpt/ost-player/internal/sse"
	"github.com/sarpt/ost-player/internal/ui/gui"
	"github.com/sarpt/ost-player/internal/ui/tui"
	"github.com/sarpt/ost-player/pkg/api"
	"github.com/sarpt/ost-player/pkg/beepplayer"
	"github.com/sarpt/ost-player/pkg/catalog"
	"github.com/sarpt/ost-player/pkg/engine"
	"github.com/sarpt/ost-player/pkg/mpv"
	"github.com/sarpt/ost-player/pkg/session"
)

const (
	defaultVolume = 80

	samplesPerSecond = 44100

	catalogFlag      = "catalog"
	configFlag       = "config"
	engineFlag       = "engine"
	uiFlag           = "ui"
	addrFlag         = "addr"
	allowCorsFlag    = "allow-cors"
	mpvSocketFlag    = "mpv-socket"
	startMpvFlag     = "start-mpv"
	pollIntervalFlag = "poll-interval"
	watchFlag        = "watch"
	debugFlag        = "debug"
	versionFlag      = "version"
)

var (
	catalogs     *listflag.StringList
	configPath   *string
	engineName   *string
	uiName       *string
	address      *string
	allowCORS    *bool
	mpvSocket    *string
	startMpv     *bool
	pollInterval *time.Duration
	watch        *bool
	debug        *bool
	showVersion  *bool
)

func init() {
	catalogs = listflag.NewStringList([]string{})

	flag.Var(catalogs, catalogFlag, "playlists JSON file. can be provided multiple times. when left empty, playlists.json from the data directory will be used")
	configPath = flag.String(configFlag, "", "path to the TOML config file. when left empty, config.toml from the app directory will be used")
	engineName = flag.String(engineFlag, config.Defaults.Engine, "media engine used for playback: mpv or beep")
	uiName = flag.String(uiFlag, config.Defaults.UI, "frontend: gui, tui or none")
	address = flag.String(addrFlag, config.Defaults.Api.Address, "address of the web remote. providing it enables the web remote")
	allowCORS = flag.Bool(allowCorsFlag, false, "when not provided, Cross Origin Site Requests to the web remote will be rejected")
	mpvSocket = flag.String(mpvSocketFlag, "", "path to the mpv IPC socket. when left empty, a per-process socket in the temp directory will be used")
	startMpv = flag.Bool(startMpvFlag, config.Defaults.Mpv.StartInstance, "when true, mpv instance is started and managed by the player")
	pollInterval = flag.Duration(pollIntervalFlag, config.Defaults.Beep.PollInterval, "state sampling interval of the beep engine")
	watch = flag.Bool(watchFlag, false, "reload playlists whenever their files change")
	debug = flag.Bool(debugFlag, false, "enable debug logs")
	showVersion = flag.Bool(versionFlag, false, "print version and exit")

	flag.Parse()
}

func main() {
	dataDir := utils.DataDir(os.LookupEnv, os.Executable)
	version := utils.ReadVersion(dataDir)

	if *showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)

		return
	}

	err := run(dataDir, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(dataDir string, version string) error {
	appDir, err := utils.HandleAppDir("")
	if err != nil {
		return fmt.Errorf("could not prepare app directory: %w", err)
	}

	err = config.LoadEnvFiles(".env", filepath.Join(appDir, ".env"))
	if err != nil {
		return fmt.Errorf("could not load env files: %w", err)
	}

	vals, err := loadConfig(appDir)
	if err != nil {
		return err
	}

	var console io.Writer = os.Stderr
	if vals.UI == config.UITui {
		console = nil
	}

	logger, logFile, err := logging.Init(logging.Config{
		Console: console,
		Debug:   vals.Debug,
		Dir:     utils.LogsDir(appDir),
	})
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger.Info().Str("version", version).Str("dataDir", dataDir).Str("engine", vals.Engine).Str("ui", vals.UI).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	background := &sync.WaitGroup{}
	defer background.Wait()
	defer stop()

	store, stored := openPrefs(appDir, logger)
	if store != nil {
		defer store.Close()
	}

	catalogPaths := vals.Catalogs
	if len(catalogPaths) == 0 {
		catalogPaths = []string{filepath.Join(dataDir, utils.CatalogFileName)}
	}

	playlists, err := catalog.LoadFiles(catalogPaths...)
	if err != nil {
		logger.Warn().Err(err).Strs("paths", catalogPaths).Msg("playlists loaded partially")
	}

	engines := utils.NewBackground()
	eng, err := newEngine(vals, logger, engines, stop)
	if err != nil {
		engines.Close(nil)
		return err
	}

	volume := defaultVolume
	if stored.Volume != prefs.NoVolume {
		volume = stored.Volume
	}

	reflectors := session.NewReflectors(session.ReflectorFunc(func(state session.DisplayState) {
		logger.Debug().Str("buttonLabel", state.ButtonLabel).Str("nowPlaying", state.NowPlaying).Msg("display changed")
	}))
	controller := session.NewController(session.Config{
		Catalog:   playlists,
		Engine:    eng,
		Logger:    logger,
		Reflector: reflectors,
		Volume:    volume,
	})
	// the engine stays connected until the session has issued its final stop
	defer engines.Close(func() {
		controller.Shutdown()
		savePrefs(store, controller, logger)
	})

	engines.Go(controller.Run)

	err = controller.SetVolume(volume)
	if err != nil {
		logger.Debug().Err(err).Msg("initial volume not applied")
	}

	if idx := playlists.IndexOf(stored.Playlist); stored.Playlist != "" && idx >= 0 {
		err = controller.SelectPlaylist(idx)
		if err != nil {
			logger.Warn().Err(err).Str("playlist", stored.Playlist).Msg("could not restore playlist")
		}
	}

	if vals.Watch {
		err = watchCatalog(ctx, catalogPaths, controller, logger, background)
		if err != nil {
			logger.Warn().Err(err).Msg("playlists will not be reloaded on change")
		}
	}

	if vals.Api.Enabled {
		err = serveAPI(ctx, vals, controller, reflectors, logger, background)
		if err != nil {
			return err
		}
	}

	return runUI(ctx, stop, vals, dataDir, version, controller, reflectors, logger)
}

func loadConfig(appDir string) (config.Values, error) {
	path := *configPath
	if path == "" {
		path = filepath.Join(appDir, config.FileName)
	}

	vals, err := config.Load(path)
	if err != nil {
		return vals, err
	}

	vals, err = vals.WithEnv(os.LookupEnv)
	if err != nil {
		return vals, err
	}

	vals = withFlags(vals)

	return vals, vals.Validate()
}

// withFlags overrides values with flags provided explicitly on the command line.
func withFlags(vals config.Values) config.Values {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case catalogFlag:
			vals.Catalogs = catalogs.Values()
		case engineFlag:
			vals.Engine = *engineName
		case uiFlag:
			vals.UI = *uiName
		case addrFlag:
			vals.Api.Enabled = true
			vals.Api.Address = *address
		case allowCorsFlag:
			vals.Api.AllowCORS = *allowCORS
		case mpvSocketFlag:
			vals.Mpv.SocketPath = *mpvSocket
		case startMpvFlag:
			vals.Mpv.StartInstance = *startMpv
		case pollIntervalFlag:
			vals.Beep.PollInterval = *pollInterval
		case watchFlag:
			vals.Watch = *watch
		case debugFlag:
			vals.Debug = *debug
		}
	})

	return vals
}

func openPrefs(appDir string, logger zerolog.Logger) (*prefs.Store, prefs.Preferences) {
	noPrefs := prefs.Preferences{Volume: prefs.NoVolume}

	store, err := prefs.Open(filepath.Join(appDir, prefs.FileName))
	if err != nil {
		logger.Warn().Err(err).Msg("preferences will not be remembered")

		return nil, noPrefs
	}

	stored, err := store.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("could not read preferences")

		return store, noPrefs
	}

	return store, stored
}

func savePrefs(store *prefs.Store, controller *session.Controller, logger zerolog.Logger) {
	if store == nil {
		return
	}

	snapshot := controller.Snapshot()
	err := store.Save(prefs.Preferences{
		Playlist: snapshot.PlaylistName,
		Volume:   snapshot.Volume,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("could not save preferences")
	}
}

// newEngine starts the configured engine in the background. stop is called when the engine fails beyond recovery.
func newEngine(vals config.Values, logger zerolog.Logger, engines *utils.Background, stop func()) (engine.Engine, error) {
	if vals.Engine == config.EngineBeep {
		if !beepplayer.AudioAvailable {
			logger.Warn().Msg("built without audio output, tracks will end in error")
		}

		player := beepplayer.NewPlayer(beepplayer.Config{
			BufferSize: vals.Beep.BufferSeconds * samplesPerSecond,
			Logger:     logger,
			Output:     beepplayer.NewSpeakerOutput(),
		})
		poller := engine.NewPoller(player, vals.Beep.PollInterval, logger)

		engines.Go(poller.Run)

		return poller, nil
	}

	socketPath := vals.Mpv.SocketPath
	if socketPath == "" {
		socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("ost-player-%s.sock", uuid.NewString()))
	}

	manager := mpv.NewManager(mpv.ManagerConfig{
		Logger:                  logger,
		MpvSocketPath:           socketPath,
		RequestTimeout:          vals.Mpv.RequestTimeout,
		SocketConnectionTimeout: vals.Mpv.ConnectionTimeout,
		StartMpvInstance:        vals.Mpv.StartInstance,
	})

	mpvEngine, err := engine.NewMpvEngine(manager, logger)
	if err != nil {
		return nil, err
	}

	engines.Go(func(ctx context.Context) {
		err := manager.Serve(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("mpv stopped")
			stop()
		}
	})
	engines.Go(mpvEngine.Run)

	return mpvEngine, nil
}

func watchCatalog(ctx context.Context, paths []string, controller *session.Controller, logger zerolog.Logger, background *sync.WaitGroup) error {
	watcher, err := catalog.NewWatcher(paths, func(c *catalog.Catalog) {
		err := controller.ReplaceCatalog(c)
		if err != nil {
			logger.Warn().Err(err).Msg("could not replace playlists")
		}
	}, logger)
	if err != nil {
		return err
	}

	background.Add(1)
	go func() {
		defer background.Done()
		watcher.Watch(ctx)
	}()

	return nil
}

func serveAPI(ctx context.Context, vals config.Values, controller *session.Controller, reflectors *session.Reflectors, logger zerolog.Logger, background *sync.WaitGroup) error {
	sseServer := sse.NewServer(sse.Config{AllowCORS: vals.Api.AllowCORS, Logger: logger})
	reflectors.Add(sseServer)

	server := api.NewServer(api.Config{
		Address:    vals.Api.Address,
		Controller: controller,
		Logger:     logger,
		Plugins: []api.Plugin{
			rest.NewServer(rest.Config{AllowCORS: vals.Api.AllowCORS, Logger: logger}),
			sseServer,
		},
	})

	err := server.Init()
	if err != nil {
		return err
	}

	background.Add(1)
	go func() {
		defer background.Done()

		err := server.Serve(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("web remote stopped")
		}
	}()

	return nil
}

func runUI(ctx context.Context, stop func(), vals config.Values, dataDir string, version string, controller *session.Controller, reflectors *session.Reflectors, logger zerolog.Logger) error {
	switch vals.UI {
	case config.UIGui:
		backgroundPath := filepath.Join(dataDir, utils.BackgroundFileName)
		if _, err := os.Stat(backgroundPath); err != nil {
			backgroundPath = ""
		}

		window := gui.New(gui.Config{
			BackgroundPath: backgroundPath,
			Controller:     controller,
			Logger:         logger,
			OnClose:        stop,
			Title:          vals.Title,
			Version:        version,
		})
		reflectors.Add(window)

		closed := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				window.Quit()
			case <-closed:
			}
		}()

		window.Run()
		close(closed)

		return nil
	case config.UITui:
		program := tui.New(tui.Config{
			Controller: controller,
			Logger:     logger,
			Title:      vals.Title,
			Version:    version,
		})
		reflectors.Add(program)

		go func() {
			<-ctx.Done()
			program.Quit()
		}()

		return program.Run()
	default:
		logger.Info().Msg("running without frontend, waiting for a signal")
		<-ctx.Done()

		return nil
	}
}
