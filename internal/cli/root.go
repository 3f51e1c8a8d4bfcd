package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	configFile string
	logLevel   string

	// started is set once argument parsing is done and a command runs.
	started bool

	// help section colors
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for dfm.
var rootCmd = &cobra.Command{
	Use:     "dfm",
	Version: "dev",
	Short:   "Dot file manager",
	Long: `dfm keeps copies of your dotfiles in a local mirror and syncs them
with a single git remote.

Set the remote once with "dfm remote set", then add, update and remove files
from any directory. Every change is committed and pushed right away.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		started = true
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// renderHelp prints help with subcommands listed under their group titles.
// Ungrouped commands come last.
func renderHelp(cmd *cobra.Command, _ []string) {
	var b strings.Builder

	if cmd.Long != "" {
		fmt.Fprintf(&b, "%s\n\n", cmd.Long)
	}
	fmt.Fprintf(&b, "%s\n  %s\n\n", sectionTitleColor.Sprint("Usage:"), cmd.UseLine())

	for _, group := range cmd.Groups() {
		writeCommandList(&b, groupTitleColor.Sprint(group.Title), cmd.Commands(), group.ID)
	}
	writeCommandList(&b, sectionTitleColor.Sprint("Additional Commands:"), cmd.Commands(), "")

	if flags := cmd.LocalFlags().FlagUsages() + cmd.InheritedFlags().FlagUsages(); flags != "" {
		fmt.Fprintf(&b, "%s\n%s\n", sectionTitleColor.Sprint("Flags:"), flags)
	}

	fmt.Fprintf(&b, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	fmt.Fprint(cmd.OutOrStdout(), b.String())
}

// writeCommandList writes the visible commands of one group under title,
// or nothing if the group is empty.
func writeCommandList(b *strings.Builder, title string, cmds []*cobra.Command, groupID string) {
	var lines []string
	for _, c := range cmds {
		if c.GroupID == groupID && !c.Hidden {
			lines = append(lines, fmt.Sprintf("  %-11s %s", c.Name(), c.Short))
		}
	}
	if len(lines) == 0 {
		return
	}

	fmt.Fprintf(b, "%s\n%s\n\n", title, strings.Join(lines, "\n"))
}

func init() {
	rootCmd.SetHelpFunc(renderHelp)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Settings file (default: <config dir>/dfm/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log file level: debug, info, warn, error")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tracked-files", Title: "Tracked Files:"},
		&cobra.Group{ID: "remote", Title: "Remote:"},
		&cobra.Group{ID: "cli-tooling", Title: "CLI & Tooling:"},
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:     "version",
		Short:   "Print the dfm version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(*cobra.Command, []string) {
			PrintInfo(rootCmd.Version)
		},
	})

	rootCmd.SetHelpCommand(&cobra.Command{
		Use:     "help [command]",
		Short:   "Show help for a command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			target, _, err := rootCmd.Find(args)
			if err != nil {
				target = rootCmd
			}
			_ = target.Help()
		},
	})

	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Print a shell completion script",
		GroupID: "cli-tooling",
		Long: `Print a completion script for dfm. Load it from your shell profile, e.g.

  source <(dfm completion bash)`,
	}
	shells := []struct {
		name string
		gen  func(io.Writer) error
	}{
		{"bash", rootCmd.GenBashCompletion},
		{"zsh", rootCmd.GenZshCompletion},
		{"fish", func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) }},
		{"powershell", rootCmd.GenPowerShellCompletionWithDesc},
	}
	for _, shell := range shells {
		completionCmd.AddCommand(&cobra.Command{
			Use:                   shell.name,
			Short:                 "Print the " + shell.name + " completion script",
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(*cobra.Command, []string) error {
				return shell.gen(out)
			},
		})
	}
	rootCmd.AddCommand(completionCmd)

	for _, c := range []*cobra.Command{addCmd, cloneCmd, updateCmd, removeCmd, listCmd} {
		c.GroupID = "tracked-files"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{remoteCmd, syncCmd, resetCmd} {
		c.GroupID = "remote"
		rootCmd.AddCommand(c)
	}
}

// Execute runs the command line and returns the process exit code.
// SIGINT and SIGTERM cancel the running command.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx)
}

func execute(ctx context.Context) int {
	started = false
	defer closeLog()

	err := rootCmd.ExecuteContext(ctx)
	return report(err, started)
}
