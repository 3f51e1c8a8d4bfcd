package planner

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/danieljhkim/dfm/internal/gitx"
)

// StepError reports the plan step that aborted execution.
type StepError struct {
	// Op is the operation name of the failed step
	Op string

	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Executor runs git plans.
type Executor struct {
	runner gitx.Runner
	logger *slog.Logger
}

// NewExecutor creates a new Executor. A nil logger discards output.
func NewExecutor(runner gitx.Runner, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{runner: runner, logger: logger}
}

// Execute runs the plan's steps in dir, one at a time. Each step must succeed
// before the next starts; the first failure is returned as a *StepError and
// the remaining steps are skipped.
func (e *Executor) Execute(ctx context.Context, dir string, plan GitPlan) error {
	steps := plan.Steps()
	if len(steps) == 0 {
		return nil
	}

	e.logger.Debug("executing git plan", "dir", dir, "ops", plan.Ops())

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Op: step.Op, Err: err}
		}

		if err := e.runner.Run(ctx, dir, step.Args...); err != nil {
			e.logger.Error("git step failed",
				"op", step.Op,
				"step", i+1,
				"of", len(steps),
				"error", err,
			)
			return &StepError{Op: step.Op, Err: err}
		}

		e.logger.Debug("git step done", "op", step.Op)
	}

	return nil
}
