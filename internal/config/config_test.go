package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sarpt/ost-player/internal/config"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	// when
	vals, err := config.Load(filepath.Join(t.TempDir(), config.FileName))

	// then
	if err != nil {
		t.Fatalf("Unexpected error reported: %s", err)
	}

	if vals.Engine != config.EngineMpv || vals.UI != config.UIGui || vals.Title != config.Defaults.Title {
		t.Errorf("Expected defaults, got %+v", vals)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), config.FileName)
	content := `
title = "Dark Souls OST"
engine = "beep"
ui = "tui"
catalogs = ["souls.json"]

[api]
enabled = true
address = ":8080"

[mpv]
request_timeout = "2s"

[beep]
poll_interval = "100ms"
`
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("Could not write config: %s", err)
	}

	// when
	vals, err := config.Load(path)

	// then
	if err != nil {
		t.Fatalf("Unexpected error reported: %s", err)
	}

	if vals.Title != "Dark Souls OST" || vals.Engine != config.EngineBeep || vals.UI != config.UITui {
		t.Errorf("Expected top level values from file, got %+v", vals)
	}

	if len(vals.Catalogs) != 1 || vals.Catalogs[0] != "souls.json" {
		t.Errorf("Expected catalogs from file, got %v", vals.Catalogs)
	}

	if !vals.Api.Enabled || vals.Api.Address != ":8080" {
		t.Errorf("Expected api section from file, got %+v", vals.Api)
	}

	if vals.Mpv.RequestTimeout != 2*time.Second || vals.Mpv.ConnectionTimeout != config.Defaults.Mpv.ConnectionTimeout {
		t.Errorf("Expected mpv request timeout from file and default connection timeout, got %+v", vals.Mpv)
	}

	if vals.Beep.PollInterval != 100*time.Millisecond || vals.Beep.BufferSeconds != config.Defaults.Beep.BufferSeconds {
		t.Errorf("Expected beep poll interval from file, got %+v", vals.Beep)
	}
}

func TestLoad_InvalidEngine(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), config.FileName)
	err := os.WriteFile(path, []byte(`engine = "vlc"`), 0644)
	if err != nil {
		t.Fatalf("Could not write config: %s", err)
	}

	// when
	_, err = config.Load(path)

	// then
	if !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("Expected invalid value error, got %v", err)
	}
}

func TestWithEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr error
		check       func(t *testing.T, vals config.Values)
	}{
		{
			name: "api address enables api",
			env:  map[string]string{"OST_PLAYER_API_ADDRESS": ":9000"},
			check: func(t *testing.T, vals config.Values) {
				if !vals.Api.Enabled || vals.Api.Address != ":9000" {
					t.Errorf("Expected api enabled on :9000, got %+v", vals.Api)
				}
			},
		},
		{
			name: "engine and ui",
			env:  map[string]string{"OST_PLAYER_ENGINE": "beep", "OST_PLAYER_UI": "none"},
			check: func(t *testing.T, vals config.Values) {
				if vals.Engine != config.EngineBeep || vals.UI != config.UINone {
					t.Errorf("Expected beep engine without ui, got %+v", vals)
				}
			},
		},
		{
			name:        "debug not a bool",
			env:         map[string]string{"OST_PLAYER_DEBUG": "very"},
			expectedErr: config.ErrInvalidValue,
		},
		{
			name:        "unknown ui",
			env:         map[string]string{"OST_PLAYER_UI": "web"},
			expectedErr: config.ErrInvalidValue,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// given
			lookup := func(key string) (string, bool) {
				val, ok := test.env[key]
				return val, ok
			}

			// when
			vals, err := config.Defaults.WithEnv(lookup)

			// then
			if !errors.Is(err, test.expectedErr) {
				t.Fatalf("Expected error %v, got %v", test.expectedErr, err)
			}

			if test.check != nil {
				test.check(t, vals)
			}
		})
	}
}

func TestLoadEnvFiles_SkipsMissingFiles(t *testing.T) {
	// given
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	err := os.WriteFile(path, []byte("OST_PLAYER_TEST_TITLE=Bloodborne\n"), 0644)
	if err != nil {
		t.Fatalf("Could not write env file: %s", err)
	}
	t.Cleanup(func() { os.Unsetenv("OST_PLAYER_TEST_TITLE") })

	// when
	err = config.LoadEnvFiles(filepath.Join(dir, "missing.env"), path)

	// then
	if err != nil {
		t.Fatalf("Unexpected error reported: %s", err)
	}

	if val := os.Getenv("OST_PLAYER_TEST_TITLE"); val != "Bloodborne" {
		t.Errorf("Expected variable from env file, got %q", val)
	}
}
