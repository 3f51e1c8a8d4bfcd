package cli

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull from the remote and push local commits",
	Long: `Pull the latest files from the remote into the mirror, then push any
commits a failed add, update or remove left unpublished.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		res, err := eng.Sync(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset dfm to its initial state",
	Long: `Delete the mirror and the remote link, and start over with an empty
repository. Files on the remote are not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		res, err := eng.Reset(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(res)
	},
}
