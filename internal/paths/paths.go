// Package paths resolves the configuration and reference data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory name used under the platform locations.
const appDirName = "tradecheck"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TRADECHECK_CONFIG_DIR"
	EnvDataDir   = "TRADECHECK_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tradecheck (fallback ~/.config/tradecheck)
// macOS:   ~/Library/Application Support/tradecheck
// Windows: %APPDATA%/tradecheck
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultDataDir returns the platform-specific directory that init writes
// the editable reference data into.
//
// Linux:   $XDG_DATA_HOME/tradecheck (fallback ~/.local/share/tradecheck)
// macOS:   ~/Library/Application Support/tradecheck/data
// Windows: %APPDATA%/tradecheck/data
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, "data"), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TRADECHECK_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the reference data directory following the
// precedence chain: flag > config.yaml data_dir > TRADECHECK_DATA_DIR env.
// An empty result means the embedded reference data is served from memory.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, v := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return "", nil
}
