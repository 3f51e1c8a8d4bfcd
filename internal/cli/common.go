package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/danieljhkim/dfm/internal/config"
	"github.com/danieljhkim/dfm/internal/engine"
	"github.com/danieljhkim/dfm/internal/fsops"
	"github.com/danieljhkim/dfm/internal/gitx"
	"github.com/danieljhkim/dfm/internal/remote"
)

var (
	// runnerFactory creates the git runner. Tests replace it with a fake.
	runnerFactory = func() gitx.Runner {
		return gitx.NewExecRunner()
	}

	// proberFactory creates the reachability prober. A nil prober lets the
	// engine pick one from the settings.
	proberFactory = func(*config.Settings) remote.Prober {
		return nil
	}
)

// newEngine creates a new engine with real implementations of all dependencies.
// It also opens the log file; errors from here on are logged.
func newEngine() (*engine.Engine, error) {
	// Get default paths
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, err
	}

	// Ensure directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settingsPath := paths.Settings
	if configFile != "" {
		settingsPath = configFile
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	level := settings.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if err := openLog(paths.LogFile, level); err != nil {
		return nil, err
	}

	logger.Debug("loaded settings",
		slog.String("settings", settingsPath),
		slog.String("remote", settings.Remote.Name),
		slog.String("branch", settings.Remote.Branch),
		slog.Bool("verify", settings.Remote.Verify),
	)

	return engine.New(
		fsops.NewRealFS(),
		runnerFactory(),
		proberFactory(settings),
		settings,
		config.DefaultPaths,
		logger,
	), nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult prints a command's success message.
func printResult(res *engine.Result) error {
	if jsonOutput {
		return outputJSON(res)
	}
	PrintSuccess(res.Message)
	return nil
}
