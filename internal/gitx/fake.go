package gitx

import (
	"context"
	"strings"
)

// Call records one FakeRunner invocation.
type Call struct {
	Dir  string
	Args []string
}

// Op returns the short operation name of the call.
func (c Call) Op() string {
	return OpName(c.Args)
}

// String renders the call the way it would be typed.
func (c Call) String() string {
	return "git " + strings.Join(c.Args, " ")
}

// FakeRunner implements Runner for testing. It records every call and
// returns the error registered for its operation name in Fail.
type FakeRunner struct {
	Calls []Call

	// Fail maps an operation name ("pull", "remote add") to the error it returns.
	Fail map[string]error

	// OnRun, if set, is invoked after a call is recorded and before Fail is
	// consulted. A non-nil error is returned as the call's result.
	OnRun func(call Call) error
}

// NewFakeRunner creates a new FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Fail: make(map[string]error)}
}

// Run records the call.
func (f *FakeRunner) Run(_ context.Context, dir string, args ...string) error {
	call := Call{Dir: dir, Args: append([]string(nil), args...)}
	f.Calls = append(f.Calls, call)

	if f.OnRun != nil {
		if err := f.OnRun(call); err != nil {
			return err
		}
	}

	return f.Fail[call.Op()]
}

// Ops returns the operation names of all recorded calls, in order.
func (f *FakeRunner) Ops() []string {
	ops := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		ops = append(ops, c.Op())
	}
	return ops
}

// Reset forgets all recorded calls.
func (f *FakeRunner) Reset() {
	f.Calls = nil
}

// NonSuccess builds the error ExecRunner returns when git exits non-zero.
func NonSuccess(op string) error {
	return &ExecError{Op: op, ExitCode: 1, Stderr: "fatal: simulated failure", Err: ErrNonSuccess}
}
