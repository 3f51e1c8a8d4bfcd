package gitx

import (
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// ErrRemoteNotRegistered is returned when .git/config has no url for a remote.
var ErrRemoteNotRegistered = errors.New("remote is not registered with git")

// ReadRemoteURL returns the url git has registered for the named remote,
// read directly from <root>/.git/config.
func ReadRemoteURL(root, name string) (string, error) {
	cfgPath := filepath.Join(root, ".git", "config")

	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
	}, cfgPath)
	if err != nil {
		return "", fmt.Errorf("failed to load git config: %w", err)
	}

	section, err := cfg.GetSection(fmt.Sprintf("remote %q", name))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRemoteNotRegistered, name)
	}

	url := section.Key("url").String()
	if url == "" {
		return "", fmt.Errorf("%w: %s", ErrRemoteNotRegistered, name)
	}

	return url, nil
}
