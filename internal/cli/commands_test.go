package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/danieljhkim/dfm/internal/engine"
	"github.com/danieljhkim/dfm/internal/gitx"
)

const testLink = "git@github.com:someone/dotfiles.git"

func TestFileLifecycle(t *testing.T) {
	te := setupTestEnv(t)
	te.writeFile(t, "a.txt", "hello")

	code, stdout, stderr := runCLI(t, "remote", "set", testLink)
	if code != ExitOK {
		t.Fatalf("remote set: code %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "Remote repository set") {
		t.Errorf("remote set output = %q", stdout)
	}

	code, stdout, stderr = runCLI(t, "add", "a.txt")
	if code != ExitOK {
		t.Fatalf("add: code %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "Added a.txt") {
		t.Errorf("add output = %q", stdout)
	}

	code, stdout, _ = runCLI(t, "list")
	if code != ExitOK || !strings.Contains(stdout, "1. a.txt") {
		t.Errorf("list: code %d, output %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "list", "--json")
	if code != ExitOK {
		t.Fatalf("list --json: code %d", code)
	}
	var list engine.ListResult
	if err := json.Unmarshal([]byte(stdout), &list); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(list.Files) != 1 || list.Files[0] != "a.txt" {
		t.Errorf("Files = %v", list.Files)
	}

	te.writeFile(t, "a.txt", "changed")
	if code, _, stderr := runCLI(t, "update", "a.txt"); code != ExitOK {
		t.Fatalf("update: code %d, stderr %q", code, stderr)
	}

	code, _, stderr = runCLI(t, "update", "a.txt")
	if code != ExitUsage || !strings.Contains(stderr, "nothing to update") {
		t.Errorf("second update: code %d, stderr %q", code, stderr)
	}

	if code, _, stderr := runCLI(t, "remove", "a.txt"); code != ExitOK {
		t.Fatalf("remove: code %d, stderr %q", code, stderr)
	}

	code, _, stderr = runCLI(t, "list")
	if code != ExitUsage || !strings.Contains(stderr, "empty") {
		t.Errorf("list after remove: code %d, stderr %q", code, stderr)
	}
}

func TestAdd_WithoutRemote(t *testing.T) {
	te := setupTestEnv(t)
	te.writeFile(t, "x", "data")

	code, _, stderr := runCLI(t, "add", "x")
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr, "remote repository not set") {
		t.Errorf("stderr = %q", stderr)
	}

	if _, err := os.Stat(filepath.Join(te.base, "dotfiles", "x")); !os.IsNotExist(err) {
		t.Error("file must not be copied into the mirror")
	}
}

func TestRemoteSet_RejectsHTTPS(t *testing.T) {
	te := setupTestEnv(t)

	code, _, stderr := runCLI(t, "remote", "set", "https://example.com/repo.git")
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr, "not an SSH remote link") {
		t.Errorf("stderr = %q", stderr)
	}

	for _, c := range te.runner.Calls {
		if c.Op() == "remote add" {
			t.Errorf("unexpected git call %s", c)
		}
	}
}

func TestRemoteShow(t *testing.T) {
	setupTestEnv(t)

	code, _, stderr := runCLI(t, "remote", "show")
	if code != ExitUsage || !strings.Contains(stderr, "remote repository not set") {
		t.Errorf("remote show before set: code %d, stderr %q", code, stderr)
	}

	if code, _, stderr := runCLI(t, "remote", "set", testLink); code != ExitOK {
		t.Fatalf("remote set: code %d, stderr %q", code, stderr)
	}

	code, stdout, _ := runCLI(t, "remote", "show")
	if code != ExitOK || strings.TrimSpace(stdout) != testLink {
		t.Errorf("remote show: code %d, output %q", code, stdout)
	}
}

func TestSync_FailureIsLogged(t *testing.T) {
	te := setupTestEnv(t)

	if code, _, stderr := runCLI(t, "remote", "set", testLink); code != ExitOK {
		t.Fatalf("remote set: code %d, stderr %q", code, stderr)
	}

	te.runner.Fail["pull"] = gitx.NonSuccess("pull")

	code, _, stderr := runCLI(t, "sync")
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}

	logFile := filepath.Join(te.base, "dfm", "dfm.log")
	if !strings.Contains(stderr, logFile) {
		t.Errorf("expected stderr to point at the log file, got %q", stderr)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "command failed") || !strings.Contains(string(data), "simulated failure") {
		t.Errorf("log does not contain the failure:\n%s", data)
	}
}

func TestReset(t *testing.T) {
	setupTestEnv(t)

	code, _, stderr := runCLI(t, "reset")
	if code != ExitUsage || !strings.Contains(stderr, "initial state") {
		t.Errorf("reset before set: code %d, stderr %q", code, stderr)
	}

	if code, _, stderr := runCLI(t, "remote", "set", testLink); code != ExitOK {
		t.Fatalf("remote set: code %d, stderr %q", code, stderr)
	}

	code, stdout, _ := runCLI(t, "reset", "--json")
	if code != ExitOK {
		t.Fatalf("reset: code %d", code)
	}
	var res engine.Result
	if err := json.Unmarshal([]byte(stdout), &res); err != nil || res.Message == "" {
		t.Errorf("reset --json output %q: %v", stdout, err)
	}

	code, _, _ = runCLI(t, "remote", "show")
	if code != ExitUsage {
		t.Errorf("remote should be gone after reset, code %d", code)
	}
}

func TestSettingsFile(t *testing.T) {
	te := setupTestEnv(t)

	settings := filepath.Join(te.cwd, "settings.yaml")
	content := "remote:\n  allowed_hosts: [\"*\"]\n  branch: trunk\n"
	if err := os.WriteFile(settings, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	link := "git@git.example.org:me/dotfiles.git"
	code, _, stderr := runCLI(t, "--config", settings, "remote", "set", link)
	if code != ExitOK {
		t.Fatalf("remote set with custom settings: code %d, stderr %q", code, stderr)
	}

	last := te.runner.Calls[len(te.runner.Calls)-1]
	if last.String() != "git pull --no-rebase --no-edit --allow-unrelated-histories origin trunk" {
		t.Errorf("last call = %s", last)
	}

	// Without the settings file the host is rejected.
	code, _, _ = runCLI(t, "reset")
	if code != ExitOK {
		t.Fatalf("reset: code %d", code)
	}
	code, _, _ = runCLI(t, "remote", "set", link)
	if code != ExitUsage {
		t.Errorf("expected unknown host to be rejected, code %d", code)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	setupTestEnv(t)

	code, _, stderr := runCLI(t, "--log-level", "loud", "sync")
	if code != ExitUsage || !strings.Contains(stderr, "unsupported log level") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
}

func TestEnvironmentUnavailable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses HOME")
	}
	setupTestEnv(t)
	t.Setenv("DFM_HOME", "")
	t.Setenv("HOME", "")

	code, _, stderr := runCLI(t, "list")
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "HOME") {
		t.Errorf("stderr = %q", stderr)
	}
}
