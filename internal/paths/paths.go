// Package paths resolves the configuration and data directories used by
// the registrar CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "registrar"

// CWD-relative data directory used when nothing else is configured.
const DefaultDataDirName = ".registrar-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "REGISTRAR_CONFIG_DIR"
	EnvDataDir   = "REGISTRAR_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// linuxDir returns $xdgEnv/registrar, falling back to ~/<fallback...>/registrar.
func linuxDir(xdgEnv string, fallback ...string) (string, error) {
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, AppName)...), nil
}

// userConfigAppDir returns os.UserConfigDir()/registrar: ~/Library/Application
// Support on macOS and %APPDATA% on Windows.
func userConfigAppDir() (string, error) {
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/registrar (fallback ~/.config/registrar)
// macOS:   ~/Library/Application Support/registrar
// Windows: %APPDATA%/registrar
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return linuxDir("XDG_CONFIG_HOME", ".config")
	}
	return userConfigAppDir()
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/registrar (fallback ~/.local/share/registrar)
// macOS and Windows: same as the config directory.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return linuxDir("XDG_DATA_HOME", ".local", "share")
	}
	return userConfigAppDir()
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > REGISTRAR_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config value > REGISTRAR_DATA_DIR > $(CWD)/.registrar-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
