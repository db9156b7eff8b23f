// Package paths locates the two directories tableapp uses: the config
// directory holding config.yaml, and the data directory holding the
// snapshot database. Explicit settings always win over the environment,
// and the environment over the per-user platform location. Every resolved
// path is absolute.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory tableapp owns under the platform roots.
const appDirName = "tableapp"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TABLEAPP_CONFIG_DIR"
	EnvDataDir   = "TABLEAPP_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir is where config.yaml lives when nothing overrides it:
// $XDG_CONFIG_HOME/tableapp or ~/.config/tableapp on Linux, and the
// user config directory (Application Support, %APPDATA%) elsewhere.
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir is where snapshots.db lives when nothing overrides it:
// $XDG_DATA_HOME/tableapp or ~/.local/share/tableapp on Linux. Other
// platforms keep data next to the config, as they have no separate data root.
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// platformRoot joins appDirName onto the Linux XDG root named by xdgEnv
// (falling back to homeRel under the home directory), or onto the user
// config directory on other platforms.
func platformRoot(xdgEnv, homeRel string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appDirName), nil
}

// ResolveConfigDir picks the config directory: the --config-dir value,
// else $TABLEAPP_CONFIG_DIR, else DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir picks the snapshot data directory: the --data-dir value,
// else data_dir from config.yaml, else $TABLEAPP_DATA_DIR, else
// DefaultDataDir.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	return firstAbs(DefaultDataDir, flag, configYAMLValue, os.Getenv(EnvDataDir))
}

// firstAbs returns the first non-empty candidate made absolute, or the
// fallback when all are empty.
func firstAbs(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
