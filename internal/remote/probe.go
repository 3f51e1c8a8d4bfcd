package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Prober checks whether a remote link can be reached before it is accepted.
type Prober interface {
	// Probe returns an error wrapping ErrRemoteUnreachable if the remote
	// cannot be listed.
	Probe(ctx context.Context, link string) error
}

// GitProber lists the remote's refs with go-git. Authentication uses the SSH
// agent, the same credentials the git client would use.
type GitProber struct {
	// RemoteName is the name given to the throwaway in-memory remote.
	RemoteName string
}

// NewGitProber creates a new GitProber.
func NewGitProber(remoteName string) *GitProber {
	return &GitProber{RemoteName: remoteName}
}

// Probe lists the remote refs. An empty repository counts as reachable.
func (p *GitProber) Probe(ctx context.Context, link string) error {
	rem := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: p.RemoteName,
		URLs: []string{link},
	})

	_, err := rem.ListContext(ctx, &git.ListOptions{})
	if err == nil || errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return nil
	}

	return fmt.Errorf("%w: %v", ErrRemoteUnreachable, err)
}

// NoopProber accepts every link. It is used when verification is disabled.
type NoopProber struct{}

// Probe always succeeds.
func (NoopProber) Probe(context.Context, string) error {
	return nil
}

// FakeProber records probed links and returns a configurable error.
type FakeProber struct {
	Links []string
	Err   error
}

// Probe records link and returns f.Err.
func (f *FakeProber) Probe(_ context.Context, link string) error {
	f.Links = append(f.Links, link)
	return f.Err
}
