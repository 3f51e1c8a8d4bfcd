package remote

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/danieljhkim/dfm/internal/config"
)

// sshLinkPattern matches scp-like SSH remotes such as
// git@github.com:user/dotfiles.git. The second group is the host.
var sshLinkPattern = regexp.MustCompile(`^([A-Za-z0-9._-]+)@([A-Za-z0-9.-]+):(\S+)/([^/\s]+)\.git$`)

// Validator checks remote links before anything is persisted.
type Validator struct {
	hosts []string
}

// NewValidator creates a Validator accepting links to the given hosts.
// A "*" entry accepts any host.
func NewValidator(hosts []string) *Validator {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(h)))
	}
	return &Validator{hosts: normalized}
}

// Validate returns ErrNotSSHLink if link is not an SSH remote on an allowed host.
func (v *Validator) Validate(link string) error {
	m := sshLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return fmt.Errorf("%w: %q, expected user@host:path/name.git", ErrNotSSHLink, link)
	}

	host := strings.ToLower(m[2])
	for _, allowed := range v.hosts {
		if allowed == config.AnyHost || allowed == host {
			return nil
		}
	}

	return fmt.Errorf("%w: host %q is not one of %s", ErrNotSSHLink, host, strings.Join(v.hosts, ", "))
}

// Host extracts the host part of a valid SSH link.
func Host(link string) string {
	m := sshLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[2]
}
