package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/dfm/internal/gitx"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type testEnv struct {
	base   string
	cwd    string
	runner *gitx.FakeRunner
}

// setupTestEnv points dfm at a temporary base directory, changes into a
// temporary working directory and swaps git for a fake.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base := filepath.Join(t.TempDir(), "config")
	t.Setenv("DFM_HOME", base)

	cwd := filepath.Join(filepath.Dir(base), "home")
	if err := os.MkdirAll(cwd, 0755); err != nil {
		t.Fatalf("failed to create cwd: %v", err)
	}
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get cwd: %v", err)
	}
	if err := os.Chdir(cwd); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	runner := gitx.NewFakeRunner()
	runner.OnRun = func(c gitx.Call) error {
		if c.Op() == "init" {
			return os.MkdirAll(filepath.Join(c.Dir, ".git"), 0755)
		}
		return nil
	}

	oldFactory := runnerFactory
	runnerFactory = func() gitx.Runner { return runner }
	t.Cleanup(func() { runnerFactory = oldFactory })

	return &testEnv{base: base, cwd: cwd, runner: runner}
}

// runCLI runs dfm with args and returns the exit code and captured output.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	resetFlags(rootCmd)
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	oldOut, oldErr := out, errOut
	out, errOut = &stdout, &stderr
	defer func() { out, errOut = oldOut, oldErr }()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	code := execute(context.Background())
	return code, stdout.String(), stderr.String()
}

func (te *testEnv) writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(te.cwd, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// resetFlags restores every flag to its default. Cobra keeps parsed values
// between executions of the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
