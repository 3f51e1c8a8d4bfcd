package remote

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/danieljhkim/dfm/internal/config"
	"github.com/danieljhkim/dfm/internal/fsops"
)

// Store manages the remote link marker file at the mirror root.
// The marker's existence is the only signal that a remote is configured; its
// content is the link exactly as the user supplied it.
type Store struct {
	fs fsops.FS
}

// NewStore creates a new Store.
func NewStore(fs fsops.FS) *Store {
	return &Store{fs: fs}
}

// HasRemote checks if the marker exists under root.
func (s *Store) HasRemote(root string) (bool, error) {
	ok, err := s.fs.Exists(root, config.MarkerFileName)
	if err != nil {
		return false, fmt.Errorf("failed to check remote marker: %w", err)
	}
	return ok, nil
}

// ReadRemote returns the stored link.
// Returns ErrNotConfigured if the marker doesn't exist.
func (s *Store) ReadRemote(root string) (string, error) {
	data, err := s.fs.ReadFile(root, config.MarkerFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotConfigured
		}
		return "", fmt.Errorf("failed to read remote marker: %w", err)
	}

	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}

	return string(data), nil
}

// WriteRemote creates the marker with link as its content.
// The marker is written exactly once; a second call fails with
// ErrAlreadyConfigured and leaves the original content in place.
func (s *Store) WriteRemote(root, link string) error {
	err := s.fs.CreateExclusive(root, config.MarkerFileName, []byte(link))
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrAlreadyConfigured
		}
		return fmt.Errorf("failed to write remote marker: %w", err)
	}
	return nil
}

// DeleteRemote removes the marker.
// Returns ErrNotConfigured if there is nothing to remove.
func (s *Store) DeleteRemote(root string) error {
	if err := s.fs.Remove(root, config.MarkerFileName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotConfigured
		}
		return fmt.Errorf("failed to remove remote marker: %w", err)
	}
	return nil
}
