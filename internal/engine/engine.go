// Package engine provides the core business logic for dfm operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. Every command runs through the same template:
// resolve the mirror paths, make sure the mirror exists, check the command's
// preconditions, mutate the mirror or working directory, then hand the git
// side to the planner.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Add/Clone/Update/Remove: Per-file operations on the mirror
//   - List/Sync: Read-side operations that pull first
//   - RemoteShow/RemoteSet/Reset: Remote link lifecycle
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/danieljhkim/dfm/internal/config"
	"github.com/danieljhkim/dfm/internal/fsops"
	"github.com/danieljhkim/dfm/internal/gitx"
	"github.com/danieljhkim/dfm/internal/planner"
	"github.com/danieljhkim/dfm/internal/remote"
)

const (
	// seedMessage is the first commit of a fresh mirror.
	seedMessage = "Add .gitignore"

	// gitIgnoreContent keeps the remote marker out of version control.
	gitIgnoreContent = config.MarkerFileName + "\n"
)

// PathResolver locates the mirror. It is called on every command.
type PathResolver func() (*config.Paths, error)

// Engine orchestrates all dfm operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs        fsops.FS
	remotes   *remote.Store
	validator *remote.Validator
	prober    remote.Prober
	runner    gitx.Runner
	executor  *planner.Executor
	settings  *config.Settings
	resolve   PathResolver
	logger    *slog.Logger
}

// New creates a new Engine with the given dependencies.
// A nil prober falls back to a go-git prober when settings enable
// verification; a nil logger discards output.
func New(
	fs fsops.FS,
	runner gitx.Runner,
	prober remote.Prober,
	settings *config.Settings,
	resolve PathResolver,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if prober == nil {
		if settings.Remote.Verify {
			prober = remote.NewGitProber(settings.Remote.Name)
		} else {
			prober = remote.NoopProber{}
		}
	}

	return &Engine{
		fs:        fs,
		remotes:   remote.NewStore(fs),
		validator: remote.NewValidator(settings.Remote.AllowedHosts),
		prober:    prober,
		runner:    runner,
		executor:  planner.NewExecutor(runner, logger),
		settings:  settings,
		resolve:   resolve,
		logger:    logger,
	}
}

// runEnv is what a command sees while it runs.
type runEnv struct {
	paths *config.Paths

	// cwd is the resolved working directory, empty for commands that
	// don't touch it.
	cwd string
}

// command is one dfm action expressed as template hooks. Nil hooks are skipped.
type command struct {
	name string

	// usesCWD resolves the caller's working directory into runEnv.cwd.
	usesCWD bool

	// validate checks preconditions. Nothing has been changed yet.
	validate func(ctx context.Context, env *runEnv) error

	// mutate changes the mirror or working directory.
	mutate func(ctx context.Context, env *runEnv) error

	// plan describes the git work on b.
	plan func(b *planner.Builder, env *runEnv) *planner.Builder

	// finish runs after the plan with the plan's error, and returns the
	// command's error.
	finish func(ctx context.Context, env *runEnv, planErr error) error
}

// run executes cmd through the command template.
func (e *Engine) run(ctx context.Context, cwd string, cmd command) error {
	paths, err := e.resolve()
	if err != nil {
		return err
	}

	if _, err := e.setup(ctx, paths); err != nil {
		return err
	}

	env := &runEnv{paths: paths}
	if cmd.usesCWD {
		env.cwd, err = resolveWorkDir(cwd, paths.Root)
		if err != nil {
			return err
		}
	}

	e.logger.Debug("running command", "command", cmd.name, "root", paths.Root, "cwd", env.cwd)

	if cmd.validate != nil {
		if err := cmd.validate(ctx, env); err != nil {
			return err
		}
	}

	if cmd.mutate != nil {
		if err := cmd.mutate(ctx, env); err != nil {
			return err
		}
	}

	var planErr error
	if cmd.plan != nil {
		b := planner.NewBuilder(e.settings.Remote.Name, e.settings.Remote.Branch)
		plan, err := cmd.plan(b, env).Build()
		if err != nil {
			planErr = err
		} else {
			planErr = e.executor.Execute(ctx, paths.Root, plan)
		}
	}

	if cmd.finish != nil {
		planErr = cmd.finish(ctx, env, planErr)
	}
	if planErr != nil {
		return planErr
	}

	e.logger.Info("command completed", "command", cmd.name)
	return nil
}

// Setup prepares the mirror on first run: it creates the directory, writes
// the .gitignore and initializes the repository with a local seed commit.
// It reports whether anything was created.
func (e *Engine) Setup(ctx context.Context) (bool, error) {
	paths, err := e.resolve()
	if err != nil {
		return false, err
	}
	return e.setup(ctx, paths)
}

func (e *Engine) setup(ctx context.Context, paths *config.Paths) (bool, error) {
	initialized, err := e.fs.Exists(paths.Root, ".git")
	if err != nil {
		return false, fmt.Errorf("failed to inspect mirror: %w", err)
	}
	if initialized {
		return false, nil
	}

	if err := gitx.CheckInstalled(ctx, e.runner); err != nil {
		return false, err
	}

	if err := e.fs.MkdirAll(paths.Root); err != nil {
		return false, fmt.Errorf("failed to create mirror directory: %w", err)
	}

	hasIgnore, err := e.fs.Exists(paths.Root, config.GitIgnoreFileName)
	if err != nil {
		return false, fmt.Errorf("failed to inspect mirror: %w", err)
	}
	if !hasIgnore {
		if err := e.fs.WriteFile(paths.Root, config.GitIgnoreFileName, []byte(gitIgnoreContent)); err != nil {
			return false, fmt.Errorf("failed to write %s: %w", config.GitIgnoreFileName, err)
		}
	}

	plan, err := planner.NewBuilder(e.settings.Remote.Name, e.settings.Remote.Branch).
		Initialize(seedMessage).
		Build()
	if err != nil {
		return false, err
	}
	if err := e.executor.Execute(ctx, paths.Root, plan); err != nil {
		return false, fmt.Errorf("failed to initialize mirror: %w", err)
	}

	e.logger.Info("initialized mirror", "root", paths.Root)
	return true, nil
}

// requireRemote fails with remote.ErrNotConfigured if no link is set.
func (e *Engine) requireRemote(root string) error {
	ok, err := e.remotes.HasRemote(root)
	if err != nil {
		return err
	}
	if !ok {
		return remote.ErrNotConfigured
	}
	return nil
}

// checkName rejects names that cannot be tracked.
func (e *Engine) checkName(name string) error {
	if err := e.fs.ValidateName(name); err != nil {
		return err
	}
	if isReserved(name) {
		return fmt.Errorf("%w: %s", ErrReservedName, name)
	}
	return nil
}

// requireWorkingFile checks that name is a regular file in the working directory.
func (e *Engine) requireWorkingFile(cwd, name string) error {
	exists, err := e.fs.Exists(cwd, name)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	regular, err := e.fs.IsRegularFile(cwd, name)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", name, err)
	}
	if !regular {
		return fmt.Errorf("%w: %s", ErrNotAFile, name)
	}
	return nil
}

// isTracked reports whether name is present in the mirror root.
func (e *Engine) isTracked(root, name string) (bool, error) {
	tracked, err := e.fs.Exists(root, name)
	if err != nil {
		return false, fmt.Errorf("failed to check mirror for %s: %w", name, err)
	}
	return tracked, nil
}

// requireTracked fails with ErrNotTracked if name is not in the mirror.
func (e *Engine) requireTracked(root, name string) error {
	tracked, err := e.isTracked(root, name)
	if err != nil {
		return err
	}
	if !tracked {
		return fmt.Errorf("%w: %s", ErrNotTracked, name)
	}
	return nil
}
