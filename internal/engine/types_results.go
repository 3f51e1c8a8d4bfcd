package engine

// Result represents the outcome of a mutating command.
type Result struct {
	// Message is the success message shown to the user
	Message string
}

// ListResult represents the tracked files after a pull.
type ListResult struct {
	// Files are the tracked file names, sorted
	Files []string
}

// RemoteResult represents the configured remote.
type RemoteResult struct {
	// Link is the link stored in the marker
	Link string

	// GitURL is the url git has registered for the remote (empty if none)
	GitURL string

	// Mismatch is true when git has a different url than the marker
	Mismatch bool
}
