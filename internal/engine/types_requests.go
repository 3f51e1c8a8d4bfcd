package engine

// FileRequest represents a request that operates on one tracked file.
type FileRequest struct {
	// CWD is the current working directory
	CWD string

	// Name is the bare file name, identical in the working directory and the mirror
	Name string
}

// RemoteSetRequest represents a request to set the remote link.
type RemoteSetRequest struct {
	// Link is the SSH remote link, e.g. git@github.com:user/dotfiles.git
	Link string
}
