package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRemoteName is the git remote the mirror pushes to and pulls from.
	DefaultRemoteName = "origin"

	// DefaultBranch is the single branch the mirror tracks.
	DefaultBranch = "main"

	// DefaultLogLevel is used when the settings file doesn't set one.
	DefaultLogLevel = "info"

	// AnyHost in allowed_hosts accepts links to any SSH host.
	AnyHost = "*"
)

// DefaultAllowedHosts are the hosting providers accepted for remote links.
var DefaultAllowedHosts = []string{"github.com", "gitlab.com"}

// Settings represents the optional dfm settings file.
type Settings struct {
	Remote RemoteSettings `yaml:"remote"`
	Log    LogSettings    `yaml:"log"`
}

// RemoteSettings configures the single remote of the mirror.
type RemoteSettings struct {
	Name         string   `yaml:"name"`
	Branch       string   `yaml:"branch"`
	AllowedHosts []string `yaml:"allowed_hosts"`

	// Verify probes the remote for reachability before accepting a link.
	Verify bool `yaml:"verify"`
}

// LogSettings configures the diagnostic log file.
type LogSettings struct {
	Level string `yaml:"level"`
}

// DefaultSettings returns Settings with all defaults applied.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// LoadSettings reads and parses the settings file.
// A missing file is not an error; defaults are returned instead.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &s, nil
}

// applyDefaults fills in zero-value fields with defaults.
func (s *Settings) applyDefaults() {
	if s.Remote.Name == "" {
		s.Remote.Name = DefaultRemoteName
	}
	if s.Remote.Branch == "" {
		s.Remote.Branch = DefaultBranch
	}
	if len(s.Remote.AllowedHosts) == 0 {
		s.Remote.AllowedHosts = append([]string(nil), DefaultAllowedHosts...)
	}
	if s.Log.Level == "" {
		s.Log.Level = DefaultLogLevel
	}
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if err := validateGitRef(s.Remote.Name, "remote"); err != nil {
		return err
	}
	if err := validateGitRef(s.Remote.Branch, "branch"); err != nil {
		return err
	}
	for _, host := range s.Remote.AllowedHosts {
		if strings.TrimSpace(host) == "" {
			return fmt.Errorf("allowed_hosts must not contain empty entries")
		}
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level %q", s.Log.Level)
	}
	return nil
}

// validateGitRef rejects remote and branch names that git would refuse or
// that could be mistaken for command-line options.
func validateGitRef(ref, refType string) error {
	if ref == "" {
		return fmt.Errorf("%s name must not be empty", refType)
	}
	if strings.HasPrefix(ref, "-") || strings.HasPrefix(ref, ".") {
		return fmt.Errorf("invalid %s name %q", refType, ref)
	}
	for _, r := range ref {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '/', r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("invalid character %q in %s name %q", r, refType, ref)
		}
	}
	return nil
}
