// Package gitx runs the external git client.
//
// Every git invocation dfm makes goes through a Runner, which starts one
// subprocess in a given directory and waits for it to exit. Output is captured
// and only ever surfaces as error detail.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Binary is the git executable looked up on PATH.
const Binary = "git"

var (
	// ErrNonSuccess is returned when git ran but exited with a non-zero status.
	ErrNonSuccess = errors.New("git exited with a non-success status")

	// ErrGitNotInstalled is returned when the git binary cannot be run at all.
	ErrGitNotInstalled = errors.New("git is not installed or not on PATH")
)

// Runner runs a single git command in dir.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) error
}

// ExecError describes a failed git invocation.
type ExecError struct {
	// Op is the short operation name, e.g. "pull" or "remote add".
	Op string

	// Args is the full argument vector passed to git.
	Args []string

	// ExitCode is the process exit status, or -1 if git never ran.
	ExitCode int

	// Stderr is the captured standard error output.
	Stderr string

	Err error
}

func (e *ExecError) Error() string {
	if e.Launch() {
		return fmt.Sprintf("git %s: failed to run: %v", e.Op, e.Err)
	}

	msg := fmt.Sprintf("git %s: exit status %d", e.Op, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Launch reports whether git could not be started.
func (e *ExecError) Launch() bool {
	return !errors.Is(e.Err, ErrNonSuccess)
}

// ExecRunner runs git with os/exec.
type ExecRunner struct {
	binary string
}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{binary: Binary}
}

// Run starts git with args in dir and waits for it to exit.
// Prompts are disabled so a missing credential fails instead of hanging.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	op := OpName(args)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &ExecError{Op: op, Args: args, ExitCode: -1, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExecError{
			Op:       op,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      ErrNonSuccess,
		}
	}

	return &ExecError{Op: op, Args: args, ExitCode: -1, Err: err}
}

// OpName derives a short operation name from a git argument vector.
// Subcommands that take a verb ("remote add") keep both words.
func OpName(args []string) string {
	if len(args) == 0 {
		return ""
	}

	op := strings.TrimLeft(args[0], "-")
	if op == "remote" && len(args) > 1 {
		return op + " " + args[1]
	}
	return op
}

// CheckInstalled verifies that git can be run.
func CheckInstalled(ctx context.Context, r Runner) error {
	if err := r.Run(ctx, "", "--version"); err != nil {
		return fmt.Errorf("%w: %v", ErrGitNotInstalled, err)
	}
	return nil
}
