package remote

import "errors"

var (
	// ErrNotConfigured is returned when a command needs a remote link but the
	// marker file doesn't exist.
	ErrNotConfigured = errors.New("remote repository not set, run 'dfm remote set <link>' first")

	// ErrAlreadyConfigured is returned when a remote link is set a second time
	// without an intervening reset.
	ErrAlreadyConfigured = errors.New("remote repository already set, run 'dfm reset' to change it")

	// ErrInvalidEncoding is returned when the marker file is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("remote marker is not valid UTF-8 text")

	// ErrNotSSHLink is returned when a link does not look like an SSH remote
	// (user@host:path/name.git) on an allowed host.
	ErrNotSSHLink = errors.New("not an SSH remote link")

	// ErrRemoteUnreachable is returned by a Prober when the remote cannot be listed.
	ErrRemoteUnreachable = errors.New("remote repository is not reachable")
)
