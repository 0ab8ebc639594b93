// Package config reads player settings from an optional TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	EngineMpv  = "mpv"
	EngineBeep = "beep"

	UIGui  = "gui"
	UITui  = "tui"
	UINone = "none"

	FileName = "config.toml"

	envPrefix = "OST_PLAYER_"
)

var (
	ErrInvalidValue = errors.New("invalid config value")

	engines = []string{EngineMpv, EngineBeep}
	uis     = []string{UIGui, UITui, UINone}
)

type Values struct {
	Title    string   `toml:"title"`
	Engine   string   `toml:"engine"`
	UI       string   `toml:"ui"`
	Catalogs []string `toml:"catalogs,omitempty"`
	Watch    bool     `toml:"watch"`
	Debug    bool     `toml:"debug"`
	Api      Api      `toml:"api"`
	Mpv      Mpv      `toml:"mpv"`
	Beep     Beep     `toml:"beep"`
}

type Api struct {
	Enabled   bool   `toml:"enabled"`
	Address   string `toml:"address"`
	AllowCORS bool   `toml:"allow_cors"`
}

type Mpv struct {
	SocketPath        string        `toml:"socket_path,omitempty"`
	StartInstance     bool          `toml:"start_instance"`
	ConnectionTimeout time.Duration `toml:"connection_timeout"`
	RequestTimeout    time.Duration `toml:"request_timeout"`
}

type Beep struct {
	PollInterval  time.Duration `toml:"poll_interval"`
	BufferSeconds int           `toml:"buffer_seconds"`
}

var Defaults = Values{
	Title:  "OST Player",
	Engine: EngineMpv,
	UI:     UIGui,
	Api: Api{
		Address: "localhost:3001",
	},
	Mpv: Mpv{
		StartInstance:     true,
		ConnectionTimeout: 15 * time.Second,
		RequestTimeout:    5 * time.Second,
	},
	Beep: Beep{
		PollInterval:  250 * time.Millisecond,
		BufferSeconds: 5,
	},
}

// Load decodes the TOML file at path over Defaults. A missing file results in Defaults.
func Load(path string) (Values, error) {
	vals := Defaults
	if path == "" {
		return vals, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return vals, nil
	} else if err != nil {
		return vals, fmt.Errorf("could not read config file: %w", err)
	}

	_, err = toml.Decode(string(data), &vals)
	if err != nil {
		return vals, fmt.Errorf("could not decode config file %s: %w", path, err)
	}

	return vals, vals.Validate()
}

// LoadEnvFiles reads .env files into the process environment, skipping files that do not exist.
// Variables already present in the environment are not overwritten.
func LoadEnvFiles(paths ...string) error {
	existing := lo.Filter(paths, func(path string, _ int) bool {
		_, err := os.Stat(path)
		return err == nil
	})

	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// WithEnv returns values overridden by OST_PLAYER_* variables returned by lookup.
func (v Values) WithEnv(lookup func(string) (string, bool)) (Values, error) {
	if val, ok := lookup(envPrefix + "TITLE"); ok {
		v.Title = val
	}

	if val, ok := lookup(envPrefix + "ENGINE"); ok {
		v.Engine = val
	}

	if val, ok := lookup(envPrefix + "UI"); ok {
		v.UI = val
	}

	if val, ok := lookup(envPrefix + "API_ADDRESS"); ok {
		v.Api.Enabled = true
		v.Api.Address = val
	}

	if val, ok := lookup(envPrefix + "MPV_SOCKET"); ok {
		v.Mpv.SocketPath = val
	}

	if val, ok := lookup(envPrefix + "DEBUG"); ok {
		debug, err := strconv.ParseBool(val)
		if err != nil {
			return v, fmt.Errorf("%w: %sDEBUG: %s", ErrInvalidValue, envPrefix, err)
		}

		v.Debug = debug
	}

	return v, v.Validate()
}

func (v Values) Validate() error {
	if !lo.Contains(engines, v.Engine) {
		return fmt.Errorf("%w: engine %q, expected one of %v", ErrInvalidValue, v.Engine, engines)
	}

	if !lo.Contains(uis, v.UI) {
		return fmt.Errorf("%w: ui %q, expected one of %v", ErrInvalidValue, v.UI, uis)
	}

	if v.Beep.BufferSeconds < 0 {
		return fmt.Errorf("%w: negative beep buffer", ErrInvalidValue)
	}

	return nil
}
