package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked files",
	Long:  `Pull from the remote and list every tracked file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		res, err := eng.List(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(res)
		}

		PrintNumberedList(res.Files, 0)
		return nil
	},
}
