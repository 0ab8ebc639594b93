package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	flatpakSandboxEnv = "FLATPAK_SANDBOX_DIR"
	flatpakDataDir    = "/app/data"
	dataDirEnv        = "OST_PLAYER_DATA_DIR"
	dataDirName       = "data"

	versionFileName = "VERSION"

	// NoVersion is reported when the data directory has no VERSION file.
	NoVersion = "NO VER FILE"

	CatalogFileName    = "playlists.json"
	BackgroundFileName = "bg.jpg"
)

var (
	appDirId          = "ost-player"
	defaultAppDirName = fmt.Sprintf(".%s", appDirId)
	subdirs           = []string{
		"logs",
	}
)

// DataDir resolves the directory with bundled resources: catalog, VERSION file and background.
// lookupEnv and executable are passed explicitly, os.LookupEnv and os.Executable in main.
func DataDir(lookupEnv func(string) (string, bool), executable func() (string, error)) string {
	if _, ok := lookupEnv(flatpakSandboxEnv); ok {
		return flatpakDataDir
	}

	if dir, ok := lookupEnv(dataDirEnv); ok && dir != "" {
		return dir
	}

	exe, err := executable()
	if err == nil {
		dir := filepath.Join(filepath.Dir(exe), "..", dataDirName)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return dataDirName
}

// HandleAppDir returns the directory of the player's state (preferences, logs), creating it when needed.
// Empty appDir results in the default directory in the user's home.
func HandleAppDir(appDir string) (string, error) {
	if appDir == "" {
		appDir = getDefaultAppDir()
	}

	err := ensureAppDirs(appDir)
	return appDir, err
}

// LogsDir returns the logs directory under appDir.
func LogsDir(appDir string) string {
	return filepath.Join(appDir, subdirs[0])
}

// ReadVersion returns the first line of the VERSION file in dataDir, or NoVersion.
func ReadVersion(dataDir string) string {
	f, err := os.Open(filepath.Join(dataDir, versionFileName))
	if err != nil {
		return NoVersion
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return ""
	}

	return strings.TrimSpace(scanner.Text())
}

func ensureAppDirs(basePath string) error {
	for _, subdir := range subdirs {
		dirPath := filepath.Join(basePath, subdir)
		err := os.MkdirAll(dirPath, 0750)
		if err != nil {
			return err
		}
	}

	return nil
}

func getDefaultAppDir() string {
	var appPathDefaultBase string
	homeDir, err := os.UserHomeDir()
	if err != nil {
		appPathDefaultBase = os.TempDir()
	} else {
		appPathDefaultBase = homeDir
	}

	return filepath.Join(appPathDefaultBase, defaultAppDirName)
}
