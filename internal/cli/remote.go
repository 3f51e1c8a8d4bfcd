package cli

import (
	"fmt"

	"github.com/danieljhkim/dfm/internal/engine"
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage the remote repository",
	Long: `Manage the single remote repository the mirror syncs with.

The link is stored in remote.txt at the mirror root and can only be set once.
Run "dfm reset" to start over with a different remote.`,
}

var remoteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the remote repository link",
	Args:  cobra.NoArgs,
	RunE:  runRemoteShow,
}

var remoteSetCmd = &cobra.Command{
	Use:   "set <link>",
	Short: "Set the remote repository",
	Long: `Set the remote repository and pull its contents into the mirror.

The link must be an SSH link to an allowed host (github.com and gitlab.com
unless configured otherwise). If the pull fails, nothing is kept.

Examples:
  dfm remote set git@github.com:you/dotfiles.git`,
	Args: cobra.ExactArgs(1),
	RunE: runRemoteSet,
}

func init() {
	remoteCmd.AddCommand(remoteShowCmd)
	remoteCmd.AddCommand(remoteSetCmd)
}

func runRemoteShow(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	res, err := eng.RemoteShow(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(res)
	}

	PrintInfo(res.Link)
	if res.Mismatch {
		PrintWarning(fmt.Sprintf("git has a different url registered: %s", res.GitURL))
	}
	return nil
}

func runRemoteSet(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	res, err := eng.RemoteSet(cmd.Context(), &engine.RemoteSetRequest{Link: args[0]})
	if err != nil {
		return err
	}
	return printResult(res)
}
