package cli

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/dfm/internal/engine"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitUsage = 1
	ExitError = 2
)

// usageError marks an error the user caused on the command line.
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

// classify maps err to an engine kind. Errors raised before a command started
// running are argument or flag errors.
func classify(err error, started bool) engine.Kind {
	var uerr usageError
	if !started || errors.As(err, &uerr) {
		return engine.KindUsage
	}
	return engine.Classify(err)
}

// report prints err for the user and logs it, then returns the exit code.
// Usage and environment errors are shown as they are; anything else is
// summarized and left in full in the log file.
func report(err error, started bool) int {
	if err == nil {
		return ExitOK
	}

	kind := classify(err, started)
	logger.Error("command failed", "kind", kind.String(), "error", err)

	switch {
	case kind == engine.KindUsage:
		PrintError(err.Error())
		return ExitUsage
	case kind == engine.KindEnvironment || logPath == "":
		PrintError(err.Error())
	default:
		PrintError(fmt.Sprintf("Something went wrong (%s error), see %s for details", kind, logPath))
	}
	return ExitError
}
