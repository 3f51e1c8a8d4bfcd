package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/dfm/internal/config"
)

// resolveWorkDir returns the absolute, cleaned working directory. Copies
// between the working directory and the mirror would read and truncate the
// same file if both were the mirror root, so that directory and anything
// below it is rejected.
func resolveWorkDir(cwd, mirrorRoot string) (string, error) {
	if cwd == "" {
		return "", fmt.Errorf("working directory is required")
	}

	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory %q: %w", cwd, err)
	}

	rel, err := filepath.Rel(filepath.Clean(mirrorRoot), absPath)
	if err != nil {
		return absPath, nil
	}

	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return "", fmt.Errorf("%w: %s", ErrInsideMirror, absPath)
	}

	return absPath, nil
}

// isReserved reports whether name is an entry dfm keeps in the mirror root
// for its own use.
func isReserved(name string) bool {
	switch name {
	case ".git", config.GitIgnoreFileName, config.MarkerFileName:
		return true
	}
	return false
}
