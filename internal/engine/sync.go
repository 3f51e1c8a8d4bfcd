package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/dfm/internal/planner"
)

// List pulls from the remote and returns the tracked files.
// Entries dfm keeps for itself are never listed.
func (e *Engine) List(ctx context.Context) (*ListResult, error) {
	result := &ListResult{}

	err := e.run(ctx, "", command{
		name: "list",
		validate: func(_ context.Context, env *runEnv) error {
			return e.requireRemote(env.paths.Root)
		},
		plan: func(b *planner.Builder, _ *runEnv) *planner.Builder {
			return b.Pull()
		},
		finish: func(_ context.Context, env *runEnv, planErr error) error {
			if planErr != nil {
				return planErr
			}

			names, err := e.fs.ListFiles(env.paths.Root)
			if err != nil {
				return fmt.Errorf("failed to list mirror: %w", err)
			}
			for _, name := range names {
				if !isReserved(name) {
					result.Files = append(result.Files, name)
				}
			}

			if len(result.Files) == 0 {
				return ErrEmptyRepository
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Sync pulls the remote into the mirror, then pushes any local commits a
// failed publish left behind. With remote verification enabled, an
// unreachable remote fails before git runs.
func (e *Engine) Sync(ctx context.Context) (*Result, error) {
	err := e.run(ctx, "", command{
		name: "sync",
		validate: func(ctx context.Context, env *runEnv) error {
			link, err := e.remotes.ReadRemote(env.paths.Root)
			if err != nil {
				return err
			}
			return e.prober.Probe(ctx, link)
		},
		plan: func(b *planner.Builder, _ *runEnv) *planner.Builder {
			return b.Pull().Push()
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Message: "Synchronized the local mirror with the remote repository"}, nil
}
