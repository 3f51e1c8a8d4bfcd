package gitx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `[core]
	repositoryformatversion = 0
	filemode = true
	bare = false
	logallrefupdates = true
[remote "origin"]
	url = git@github.com:someone/dotfiles.git
	fetch = +refs/heads/*:refs/remotes/origin/*
[branch "main"]
	remote = origin
	merge = refs/heads/main
`

func writeGitConfig(t *testing.T, content string) string {
	t.Helper()

	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	if err := os.MkdirAll(gitDir, 0755); err != nil {
		t.Fatalf("failed to create .git: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "config"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return root
}

func TestReadRemoteURL(t *testing.T) {
	root := writeGitConfig(t, sampleConfig)

	url, err := ReadRemoteURL(root, "origin")
	if err != nil {
		t.Fatalf("ReadRemoteURL failed: %v", err)
	}
	if url != "git@github.com:someone/dotfiles.git" {
		t.Errorf("url = %q", url)
	}

	_, err = ReadRemoteURL(root, "upstream")
	if !errors.Is(err, ErrRemoteNotRegistered) {
		t.Errorf("expected ErrRemoteNotRegistered, got %v", err)
	}
}

func TestReadRemoteURL_NoRemotes(t *testing.T) {
	root := writeGitConfig(t, "[core]\n\tbare = false\n")

	if _, err := ReadRemoteURL(root, "origin"); !errors.Is(err, ErrRemoteNotRegistered) {
		t.Errorf("expected ErrRemoteNotRegistered, got %v", err)
	}
}

func TestReadRemoteURL_NotARepository(t *testing.T) {
	root := t.TempDir()

	_, err := ReadRemoteURL(root, "origin")
	if err == nil {
		t.Fatal("expected error without .git/config")
	}
	if errors.Is(err, ErrRemoteNotRegistered) {
		t.Error("a missing config file is not the same as a missing remote")
	}
}
