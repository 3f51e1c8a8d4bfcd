//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/dfm/internal/config"
	"github.com/danieljhkim/dfm/internal/engine"
	"github.com/danieljhkim/dfm/internal/fsops"
	"github.com/danieljhkim/dfm/internal/gitx"
)

// remoteLink is rewritten to a local bare repository by the test git config.
const remoteLink = "git@example.test:me/dotfiles.git"

// remoteEnv is a bare repository standing in for the hosted remote, plus a
// git config that routes remoteLink to it.
type remoteEnv struct {
	bare string
}

// setupRemote creates a bare repository seeded with one commit on main and
// points GIT_CONFIG_GLOBAL at a config that rewrites remoteLink to it.
func setupRemote(t *testing.T, seed map[string]string) *remoteEnv {
	t.Helper()

	if err := gitx.CheckInstalled(context.Background(), gitx.NewExecRunner()); err != nil {
		t.Skipf("git not available: %v", err)
	}

	dir := t.TempDir()
	bare := filepath.Join(dir, "remote.git")

	globalConfig := filepath.Join(dir, "gitconfig")
	content := "[user]\n" +
		"\tname = dfm test\n" +
		"\temail = dfm@example.test\n" +
		"[init]\n" +
		"\tdefaultBranch = main\n" +
		"[url \"" + filepath.ToSlash(bare) + "\"]\n" +
		"\tinsteadOf = " + remoteLink + "\n"
	if err := os.WriteFile(globalConfig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GIT_CONFIG_GLOBAL", globalConfig)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_SSH_COMMAND", "ssh -o BatchMode=yes -o ConnectTimeout=5")

	git(t, dir, "init", "--bare", "-b", "main", bare)

	work := filepath.Join(dir, "seed")
	git(t, dir, "init", "-b", "main", work)
	for name, data := range seed {
		if err := os.WriteFile(filepath.Join(work, name), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	git(t, work, "add", ".")
	git(t, work, "commit", "--allow-empty", "-m", "seed")
	git(t, work, "push", bare, "main")

	return &remoteEnv{bare: bare}
}

// checkout clones the bare repository into a fresh directory and returns it.
func (r *remoteEnv) checkout(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "checkout")
	git(t, filepath.Dir(dir), "clone", "-q", "-b", "main", r.bare, dir)
	return dir
}

// newEngine creates an engine running real git against a mirror under a
// temporary base directory.
func newEngine(t *testing.T) (*engine.Engine, *config.Paths) {
	t.Helper()

	paths := config.NewPaths(filepath.Join(t.TempDir(), "config"))
	settings := config.DefaultSettings()
	settings.Remote.AllowedHosts = []string{"example.test"}

	eng := engine.New(
		fsops.NewRealFS(),
		gitx.NewExecRunner(),
		nil,
		settings,
		func() (*config.Paths, error) { return paths, nil },
		nil,
	)
	return eng, paths
}

// workDir creates a working directory for tracked files.
func workDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, output)
	}
	return string(output)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
