package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/danieljhkim/dfm/internal/gitx"
	"github.com/danieljhkim/dfm/internal/planner"
	"github.com/danieljhkim/dfm/internal/remote"
)

// RemoteShow returns the configured remote link. The url git itself has
// registered is reported alongside so a hand-edited marker can be spotted.
func (e *Engine) RemoteShow(ctx context.Context) (*RemoteResult, error) {
	result := &RemoteResult{}

	err := e.run(ctx, "", command{
		name: "remote show",
		validate: func(_ context.Context, env *runEnv) error {
			link, err := e.remotes.ReadRemote(env.paths.Root)
			if err != nil {
				return err
			}
			result.Link = link

			url, err := gitx.ReadRemoteURL(env.paths.Root, e.settings.Remote.Name)
			if err != nil {
				if !errors.Is(err, gitx.ErrRemoteNotRegistered) {
					e.logger.Warn("failed to read git config", "error", err)
				}
				return nil
			}
			result.GitURL = url
			result.Mismatch = url != link
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RemoteSet stores link as the mirror's remote, registers it with git and
// pulls. A link can only be set once; Reset clears it.
//
// If git fails, the registration is rolled back: a failed pull unregisters
// the remote from git, and the marker is deleted on any failure.
func (e *Engine) RemoteSet(ctx context.Context, req *RemoteSetRequest) (*Result, error) {
	err := e.run(ctx, "", command{
		name: "remote set",
		validate: func(ctx context.Context, env *runEnv) error {
			has, err := e.remotes.HasRemote(env.paths.Root)
			if err != nil {
				return err
			}
			if has {
				return remote.ErrAlreadyConfigured
			}
			if err := e.validator.Validate(req.Link); err != nil {
				return err
			}
			if err := e.prober.Probe(ctx, req.Link); err != nil {
				return err
			}
			return nil
		},
		mutate: func(_ context.Context, env *runEnv) error {
			return e.remotes.WriteRemote(env.paths.Root, req.Link)
		},
		plan: func(b *planner.Builder, _ *runEnv) *planner.Builder {
			return b.AddRemote(req.Link).Pull()
		},
		finish: func(ctx context.Context, env *runEnv, planErr error) error {
			if planErr == nil {
				e.logger.Info("remote configured", "host", remote.Host(req.Link))
				return nil
			}
			return e.rollbackRemote(ctx, env, planErr)
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: "Remote repository set and synchronized"}, nil
}

// rollbackRemote undoes a failed RemoteSet. It runs even when ctx is
// cancelled: an interrupted pull must not leave the remote registered.
func (e *Engine) rollbackRemote(ctx context.Context, env *runEnv, planErr error) error {
	ctx = context.WithoutCancel(ctx)

	errs := []error{planErr}

	var stepErr *planner.StepError
	if errors.As(planErr, &stepErr) && stepErr.Op == planner.OpPull {
		plan, err := planner.NewBuilder(e.settings.Remote.Name, e.settings.Remote.Branch).
			RemoveRemote().
			Build()
		if err == nil {
			err = e.executor.Execute(ctx, env.paths.Root, plan)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to unregister remote: %w", err))
		}
	}

	if err := e.remotes.DeleteRemote(env.paths.Root); err != nil && !errors.Is(err, remote.ErrNotConfigured) {
		errs = append(errs, fmt.Errorf("failed to delete remote marker: %w", err))
	}

	e.logger.Warn("remote registration rolled back", "error", planErr)
	return errors.Join(errs...)
}

// Reset returns dfm to its initial state: the mirror is deleted and
// recreated as a fresh repository with no remote.
func (e *Engine) Reset(ctx context.Context) (*Result, error) {
	err := e.run(ctx, "", command{
		name: "reset",
		validate: func(_ context.Context, env *runEnv) error {
			has, err := e.remotes.HasRemote(env.paths.Root)
			if err != nil {
				return err
			}
			if !has {
				return ErrAlreadyInitialState
			}
			return nil
		},
		mutate: func(ctx context.Context, env *runEnv) error {
			if err := e.remotes.DeleteRemote(env.paths.Root); err != nil {
				return err
			}
			if err := e.fs.RemoveAll(env.paths.Root); err != nil {
				return fmt.Errorf("failed to remove mirror: %w", err)
			}
			_, err := e.setup(ctx, env.paths)
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: "dfm was reset to its initial state"}, nil
}
