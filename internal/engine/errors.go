package engine

import (
	"errors"

	"github.com/danieljhkim/dfm/internal/config"
	"github.com/danieljhkim/dfm/internal/fsops"
	"github.com/danieljhkim/dfm/internal/gitx"
	"github.com/danieljhkim/dfm/internal/remote"
)

var (
	// ErrFileNotFound indicates the file does not exist in the working directory.
	ErrFileNotFound = errors.New("file does not exist in your current directory")

	// ErrNotAFile indicates the name refers to a directory or other non-file.
	ErrNotAFile = errors.New("only regular files can be tracked")

	// ErrAlreadyTracked indicates the file is already in the mirror.
	ErrAlreadyTracked = errors.New("file is already tracked")

	// ErrNotTracked indicates the file is not in the mirror.
	ErrNotTracked = errors.New("file is not tracked")

	// ErrNothingToUpdate indicates the working copy equals the mirror copy.
	ErrNothingToUpdate = errors.New("nothing to update")

	// ErrEmptyRepository indicates the mirror holds no tracked files.
	ErrEmptyRepository = errors.New("your remote repository is empty")

	// ErrAlreadyInitialState indicates a reset was requested with no remote set.
	ErrAlreadyInitialState = errors.New("already in the initial state, nothing to reset")

	// ErrReservedName indicates the name is used by dfm itself inside the mirror.
	ErrReservedName = errors.New("name is reserved by dfm")

	// ErrInsideMirror indicates the working directory is the mirror itself.
	ErrInsideMirror = errors.New("cannot run from inside the dfm mirror directory")
)

// Kind classifies errors for reporting and exit codes.
type Kind int

const (
	// KindExecution is an unexpected failure: filesystem errors or a git step
	// that could not run or was rejected.
	KindExecution Kind = iota

	// KindUsage is a precondition the user can fix.
	KindUsage

	// KindEnvironment is a missing prerequisite: environment variables or git.
	KindEnvironment

	// KindData is malformed persisted state.
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindEnvironment:
		return "environment"
	case KindData:
		return "data"
	default:
		return "execution"
	}
}

var usageErrors = []error{
	ErrFileNotFound,
	ErrNotAFile,
	ErrAlreadyTracked,
	ErrNotTracked,
	ErrNothingToUpdate,
	ErrEmptyRepository,
	ErrAlreadyInitialState,
	ErrReservedName,
	ErrInsideMirror,
	fsops.ErrInvalidName,
	remote.ErrAlreadyConfigured,
	remote.ErrNotConfigured,
	remote.ErrNotSSHLink,
	remote.ErrRemoteUnreachable,
}

var environmentErrors = []error{
	config.ErrEnvironmentUnavailable,
	gitx.ErrGitNotInstalled,
}

// Classify returns the kind of err. Unknown errors are execution errors.
func Classify(err error) Kind {
	if err == nil {
		return KindExecution
	}
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return KindUsage
		}
	}
	for _, target := range environmentErrors {
		if errors.Is(err, target) {
			return KindEnvironment
		}
	}
	if errors.Is(err, remote.ErrInvalidEncoding) {
		return KindData
	}
	return KindExecution
}
