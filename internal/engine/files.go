package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/dfm/internal/planner"
)

// Add copies a file from the working directory into the mirror, then commits
// and pushes it.
//
// If the git plan fails before the commit is made, the mirror copy is removed
// again so the add can be retried. If only the push fails, the commit stays
// and Sync publishes it.
func (e *Engine) Add(ctx context.Context, req *FileRequest) (*Result, error) {
	err := e.run(ctx, req.CWD, command{
		name:    "add",
		usesCWD: true,
		validate: func(_ context.Context, env *runEnv) error {
			if err := e.requireRemote(env.paths.Root); err != nil {
				return err
			}
			if err := e.checkName(req.Name); err != nil {
				return err
			}
			if err := e.requireWorkingFile(env.cwd, req.Name); err != nil {
				return err
			}
			tracked, err := e.isTracked(env.paths.Root, req.Name)
			if err != nil {
				return err
			}
			if tracked {
				return fmt.Errorf("%w: %s", ErrAlreadyTracked, req.Name)
			}
			return nil
		},
		mutate: func(_ context.Context, env *runEnv) error {
			if err := e.fs.Copy(env.cwd, env.paths.Root, req.Name); err != nil {
				return fmt.Errorf("failed to copy %s into the mirror: %w", req.Name, err)
			}
			return nil
		},
		plan: func(b *planner.Builder, _ *runEnv) *planner.Builder {
			return b.Commit("Add " + req.Name)
		},
		finish: func(_ context.Context, env *runEnv, planErr error) error {
			return e.revertUncommitted(req.Name, planErr, func() error {
				return e.fs.Remove(env.paths.Root, req.Name)
			})
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: fmt.Sprintf("Added %s and synchronized the remote repository", req.Name)}, nil
}

// Clone copies a tracked file from the mirror into the working directory,
// replacing any file of the same name there. No git work is done.
func (e *Engine) Clone(ctx context.Context, req *FileRequest) (*Result, error) {
	err := e.run(ctx, req.CWD, command{
		name:    "clone",
		usesCWD: true,
		validate: func(_ context.Context, env *runEnv) error {
			if err := e.checkName(req.Name); err != nil {
				return err
			}
			return e.requireTracked(env.paths.Root, req.Name)
		},
		mutate: func(_ context.Context, env *runEnv) error {
			if err := e.fs.Copy(env.paths.Root, env.cwd, req.Name); err != nil {
				return fmt.Errorf("failed to copy %s from the mirror: %w", req.Name, err)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: fmt.Sprintf("Copied %s to your current directory", req.Name)}, nil
}

// Remove deletes a tracked file from the mirror, then commits and pushes the
// removal. The working copy is not touched. A removal that was never
// committed is undone.
func (e *Engine) Remove(ctx context.Context, req *FileRequest) (*Result, error) {
	var previous []byte

	err := e.run(ctx, "", command{
		name: "remove",
		validate: func(_ context.Context, env *runEnv) error {
			if err := e.requireRemote(env.paths.Root); err != nil {
				return err
			}
			if err := e.checkName(req.Name); err != nil {
				return err
			}
			return e.requireTracked(env.paths.Root, req.Name)
		},
		mutate: func(_ context.Context, env *runEnv) error {
			data, err := e.fs.ReadFile(env.paths.Root, req.Name)
			if err != nil {
				return fmt.Errorf("failed to read %s from the mirror: %w", req.Name, err)
			}
			previous = data

			if err := e.fs.Remove(env.paths.Root, req.Name); err != nil {
				return fmt.Errorf("failed to remove %s from the mirror: %w", req.Name, err)
			}
			return nil
		},
		plan: func(b *planner.Builder, _ *runEnv) *planner.Builder {
			return b.Commit("Remove " + req.Name)
		},
		finish: func(_ context.Context, env *runEnv, planErr error) error {
			return e.revertUncommitted(req.Name, planErr, func() error {
				return e.fs.WriteFile(env.paths.Root, req.Name, previous)
			})
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: fmt.Sprintf("Removed %s and synchronized the remote repository", req.Name)}, nil
}

// Update replaces the mirror copy of a tracked file with the working copy,
// then commits and pushes it. Identical copies fail with ErrNothingToUpdate
// before anything is copied or run. The previous mirror copy is restored if
// the change was never committed.
func (e *Engine) Update(ctx context.Context, req *FileRequest) (*Result, error) {
	var previous []byte

	err := e.run(ctx, req.CWD, command{
		name:    "update",
		usesCWD: true,
		validate: func(_ context.Context, env *runEnv) error {
			if err := e.requireRemote(env.paths.Root); err != nil {
				return err
			}
			if err := e.checkName(req.Name); err != nil {
				return err
			}
			if err := e.requireWorkingFile(env.cwd, req.Name); err != nil {
				return err
			}
			if err := e.requireTracked(env.paths.Root, req.Name); err != nil {
				return err
			}

			equal, err := e.fs.ContentsEqual(
				filepath.Join(env.cwd, req.Name),
				filepath.Join(env.paths.Root, req.Name),
			)
			if err != nil {
				return fmt.Errorf("failed to compare %s: %w", req.Name, err)
			}
			if equal {
				return fmt.Errorf("%w: %s is unchanged", ErrNothingToUpdate, req.Name)
			}
			return nil
		},
		mutate: func(_ context.Context, env *runEnv) error {
			data, err := e.fs.ReadFile(env.paths.Root, req.Name)
			if err != nil {
				return fmt.Errorf("failed to read %s from the mirror: %w", req.Name, err)
			}
			previous = data

			if err := e.fs.Copy(env.cwd, env.paths.Root, req.Name); err != nil {
				return fmt.Errorf("failed to copy %s into the mirror: %w", req.Name, err)
			}
			return nil
		},
		plan: func(b *planner.Builder, _ *runEnv) *planner.Builder {
			return b.Commit("Update " + req.Name)
		},
		finish: func(_ context.Context, env *runEnv, planErr error) error {
			return e.revertUncommitted(req.Name, planErr, func() error {
				return e.fs.WriteFile(env.paths.Root, req.Name, previous)
			})
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: fmt.Sprintf("Updated %s and synchronized the remote repository", req.Name)}, nil
}

// revertUncommitted undoes the mirror change of a failed publish unless the
// commit was already made. A commit whose push failed stays for Sync.
func (e *Engine) revertUncommitted(name string, planErr error, revert func() error) error {
	if planErr == nil {
		return nil
	}

	if committed(planErr) {
		e.logger.Warn("change committed but not pushed, sync publishes it", "name", name, "error", planErr)
		return planErr
	}

	if err := revert(); err != nil {
		e.logger.Error("failed to revert mirror change", "name", name, "error", err)
		return errors.Join(planErr, fmt.Errorf("failed to restore %s in the mirror: %w", name, err))
	}

	e.logger.Warn("mirror change reverted", "name", name, "error", planErr)
	return planErr
}

// committed reports whether planErr came after the plan's commit step.
func committed(planErr error) bool {
	var stepErr *planner.StepError
	return errors.As(planErr, &stepErr) && stepErr.Op == planner.OpPush
}
