package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dfm/internal/engine"
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a file from the current directory",
	Long: `Copy a file from the current directory into the mirror, then commit and
push it to the remote.

Examples:
  # Track your bash configuration
  cd ~ && dfm add .bashrc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileCommand(cmd, args[0], (*engine.Engine).Add)
	},
}

var cloneCmd = &cobra.Command{
	Use:   "clone <file>",
	Short: "Copy a tracked file into the current directory",
	Long: `Copy a tracked file from the mirror into the current directory,
replacing any file with the same name.

Run "dfm sync" first to get the latest version from the remote.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileCommand(cmd, args[0], (*engine.Engine).Clone)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <file>",
	Short: "Publish changes to a tracked file",
	Long: `Copy a changed file from the current directory over its mirror copy,
then commit and push it. Nothing happens if both copies are identical.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileCommand(cmd, args[0], (*engine.Engine).Update)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <file>",
	Short: "Stop tracking a file",
	Long: `Delete a file from the mirror, then commit and push the removal.
The copy in your current directory is left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileCommand(cmd, args[0], (*engine.Engine).Remove)
	},
}

type fileOp func(e *engine.Engine, ctx context.Context, req *engine.FileRequest) (*engine.Result, error)

func runFileCommand(cmd *cobra.Command, name string, op fileOp) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	res, err := op(eng, cmd.Context(), &engine.FileRequest{CWD: cwd, Name: name})
	if err != nil {
		return err
	}
	return printResult(res)
}
