// Package config manages dfm configuration and filesystem paths.
//
// The mirror root (the directory holding tracked files, which is also the git
// work tree) lives under the user's configuration directory:
// $HOME/.config/dotfiles on unix systems and %APPDATA%\dotfiles on Windows.
// Settings and the log file live next to it in a dfm/ directory so they are
// never part of the git work tree.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// MirrorDirName is the name of the mirror root under the base directory.
	MirrorDirName = "dotfiles"

	// AppDirName holds settings and logs, outside the mirror.
	AppDirName = "dfm"

	// MarkerFileName is the remote link marker stored at the mirror root.
	MarkerFileName = "remote.txt"

	// GitIgnoreFileName keeps the marker out of version control.
	GitIgnoreFileName = ".gitignore"

	// SettingsFileName is the optional YAML settings file.
	SettingsFileName = "config.yaml"

	// LogFileName is the diagnostic log appended to on failures.
	LogFileName = "dfm.log"

	// HomeOverrideEnv replaces the platform base directory when set.
	HomeOverrideEnv = "DFM_HOME"
)

// ErrEnvironmentUnavailable is returned when the environment variable that
// locates the user's home/profile directory is not set.
var ErrEnvironmentUnavailable = errors.New("environment unavailable")

// Paths contains all the filesystem paths used by dfm.
type Paths struct {
	// Base is the platform configuration directory (default: ~/.config)
	Base string

	// Root is the mirror root and git work tree
	Root string

	// Marker is the remote link marker file
	Marker string

	// GitIgnore is the .gitignore written into a fresh mirror
	GitIgnore string

	// AppDir holds settings and logs
	AppDir string

	// Settings is the path to the YAML settings file
	Settings string

	// LogFile is the path to the diagnostic log
	LogFile string
}

// DefaultPaths resolves the paths for the current platform.
// The base directory can be overridden with DFM_HOME.
func DefaultPaths() (*Paths, error) {
	return resolvePaths(runtime.GOOS, os.Getenv)
}

func resolvePaths(goos string, getenv func(string) string) (*Paths, error) {
	base := getenv(HomeOverrideEnv)
	if base == "" {
		name, sub := "HOME", ".config"
		if goos == "windows" {
			name, sub = "APPDATA", ""
		}

		home := getenv(name)
		if home == "" {
			return nil, fmt.Errorf("%w: %s is not set", ErrEnvironmentUnavailable, name)
		}
		base = filepath.Join(home, sub)
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", base, err)
	}

	return NewPaths(abs), nil
}

// NewPaths lays out all dfm paths under base.
func NewPaths(base string) *Paths {
	root := filepath.Join(base, MirrorDirName)
	appDir := filepath.Join(base, AppDirName)

	return &Paths{
		Base:      base,
		Root:      root,
		Marker:    filepath.Join(root, MarkerFileName),
		GitIgnore: filepath.Join(root, GitIgnoreFileName),
		AppDir:    appDir,
		Settings:  filepath.Join(appDir, SettingsFileName),
		LogFile:   filepath.Join(appDir, LogFileName),
	}
}

// EnsureDirectories creates the app directory if it doesn't exist.
// The mirror root is created by setup, together with its git repository.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.AppDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.AppDir, err)
	}
	return nil
}
