package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		val, ok := env[key]
		return val, ok
	}
}

func TestDataDir(t *testing.T) {
	installDir := t.TempDir()
	err := os.MkdirAll(filepath.Join(installDir, "data"), 0755)
	if err != nil {
		t.Fatalf("Could not prepare install dir: %s", err)
	}

	executableIn := func(dir string) func() (string, error) {
		return func() (string, error) {
			return filepath.Join(dir, "bin", "ost-player"), nil
		}
	}

	tests := []struct {
		name       string
		env        map[string]string
		executable func() (string, error)
		expected   string
	}{
		{
			name:       "flatpak sandbox takes precedence",
			env:        map[string]string{flatpakSandboxEnv: "/sandbox", dataDirEnv: "/custom"},
			executable: executableIn(installDir),
			expected:   flatpakDataDir,
		},
		{
			name:       "explicit data dir",
			env:        map[string]string{dataDirEnv: "/custom"},
			executable: executableIn(installDir),
			expected:   "/custom",
		},
		{
			name:       "data dir next to executable",
			env:        map[string]string{},
			executable: executableIn(installDir),
			expected:   filepath.Join(installDir, "data"),
		},
		{
			name:       "missing data dir next to executable",
			env:        map[string]string{},
			executable: executableIn(t.TempDir()),
			expected:   "data",
		},
		{
			name: "unknown executable",
			env:  map[string]string{},
			executable: func() (string, error) {
				return "", errors.New("no executable")
			},
			expected: "data",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// when
			result := DataDir(lookupFrom(test.env), test.executable)

			// then
			if result != test.expected {
				t.Errorf("Expected data dir %q, got %q", test.expected, result)
			}
		})
	}
}

func TestReadVersion(t *testing.T) {
	tests := []struct {
		name     string
		content  *string
		expected string
	}{
		{name: "missing file", content: nil, expected: NoVersion},
		{name: "first line only", content: ptr("1.4.2\nbuilt on a tuesday\n"), expected: "1.4.2"},
		{name: "trailing whitespace", content: ptr("2.0.0  \r\n"), expected: "2.0.0"},
		{name: "empty file", content: ptr(""), expected: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// given
			dir := t.TempDir()
			if test.content != nil {
				err := os.WriteFile(filepath.Join(dir, versionFileName), []byte(*test.content), 0644)
				if err != nil {
					t.Fatalf("Could not write version file: %s", err)
				}
			}

			// when
			result := ReadVersion(dir)

			// then
			if result != test.expected {
				t.Errorf("Expected version %q, got %q", test.expected, result)
			}
		})
	}
}

func TestHandleAppDir_CreatesSubdirs(t *testing.T) {
	// given
	appDir := filepath.Join(t.TempDir(), "state")

	// when
	result, err := HandleAppDir(appDir)

	// then
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}

	if result != appDir {
		t.Errorf("Expected app dir %q, got %q", appDir, result)
	}

	info, err := os.Stat(LogsDir(appDir))
	if err != nil || !info.IsDir() {
		t.Errorf("Expected logs directory to be created, got %v", err)
	}
}

func ptr(s string) *string {
	return &s
}
