//go:build integration
// +build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/dfm/internal/engine"
	"github.com/danieljhkim/dfm/internal/remote"
)

func TestRemoteSet_PullsRemoteFiles(t *testing.T) {
	setupRemote(t, map[string]string{".bashrc": "export EDITOR=vim\n"})
	eng, paths := newEngine(t)
	ctx := context.Background()

	if _, err := eng.RemoteSet(ctx, &engine.RemoteSetRequest{Link: remoteLink}); err != nil {
		t.Fatalf("RemoteSet() error = %v", err)
	}

	if got := readFile(t, filepath.Join(paths.Root, ".bashrc")); got != "export EDITOR=vim\n" {
		t.Errorf(".bashrc = %q", got)
	}
	if got := readFile(t, paths.Marker); got != remoteLink {
		t.Errorf("marker = %q", got)
	}

	res, err := eng.RemoteShow(ctx)
	if err != nil {
		t.Fatalf("RemoteShow() error = %v", err)
	}
	if res.Link != remoteLink || res.GitURL != remoteLink || res.Mismatch {
		t.Errorf("RemoteShow() = %+v", res)
	}
}

func TestAddUpdateRemove_RoundTrip(t *testing.T) {
	rem := setupRemote(t, map[string]string{"README": "dotfiles\n"})
	eng, _ := newEngine(t)
	ctx := context.Background()
	cwd := workDir(t, map[string]string{".vimrc": "set number\n"})

	if _, err := eng.RemoteSet(ctx, &engine.RemoteSetRequest{Link: remoteLink}); err != nil {
		t.Fatalf("RemoteSet() error = %v", err)
	}

	if _, err := eng.Add(ctx, &engine.FileRequest{CWD: cwd, Name: ".vimrc"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	checkout := rem.checkout(t)
	if got := readFile(t, filepath.Join(checkout, ".vimrc")); got != "set number\n" {
		t.Errorf("pushed .vimrc = %q", got)
	}
	if _, err := os.Stat(filepath.Join(checkout, "remote.txt")); !os.IsNotExist(err) {
		t.Error("remote marker must not be pushed")
	}

	if err := os.WriteFile(filepath.Join(cwd, ".vimrc"), []byte("set relativenumber\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Update(ctx, &engine.FileRequest{CWD: cwd, Name: ".vimrc"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	checkout = rem.checkout(t)
	if got := readFile(t, filepath.Join(checkout, ".vimrc")); got != "set relativenumber\n" {
		t.Errorf("pushed .vimrc after update = %q", got)
	}

	_, err := eng.Update(ctx, &engine.FileRequest{CWD: cwd, Name: ".vimrc"})
	if !errors.Is(err, engine.ErrNothingToUpdate) {
		t.Errorf("second Update() error = %v, want ErrNothingToUpdate", err)
	}

	if _, err := eng.Remove(ctx, &engine.FileRequest{CWD: cwd, Name: ".vimrc"}); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	checkout = rem.checkout(t)
	if _, err := os.Stat(filepath.Join(checkout, ".vimrc")); !os.IsNotExist(err) {
		t.Error("removed file is still on the remote")
	}
	if _, err := os.Stat(filepath.Join(cwd, ".vimrc")); err != nil {
		t.Errorf("working copy must be kept: %v", err)
	}
}

func TestTwoMachines_CloneAndSync(t *testing.T) {
	setupRemote(t, nil)
	ctx := context.Background()

	first, _ := newEngine(t)
	firstCWD := workDir(t, map[string]string{".gitconfig": "[user]\n"})
	if _, err := first.RemoteSet(ctx, &engine.RemoteSetRequest{Link: remoteLink}); err != nil {
		t.Fatalf("first RemoteSet() error = %v", err)
	}
	if _, err := first.Add(ctx, &engine.FileRequest{CWD: firstCWD, Name: ".gitconfig"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	second, secondPaths := newEngine(t)
	secondCWD := workDir(t, nil)
	if _, err := second.RemoteSet(ctx, &engine.RemoteSetRequest{Link: remoteLink}); err != nil {
		t.Fatalf("second RemoteSet() error = %v", err)
	}

	list, err := second.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Files) != 1 || list.Files[0] != ".gitconfig" {
		t.Errorf("List() = %v", list.Files)
	}

	if _, err := second.Clone(ctx, &engine.FileRequest{CWD: secondCWD, Name: ".gitconfig"}); err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	if got := readFile(t, filepath.Join(secondCWD, ".gitconfig")); got != "[user]\n" {
		t.Errorf("cloned .gitconfig = %q", got)
	}

	if err := os.WriteFile(filepath.Join(firstCWD, ".gitconfig"), []byte("[core]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := first.Update(ctx, &engine.FileRequest{CWD: firstCWD, Name: ".gitconfig"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, err := second.Sync(ctx); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if got := readFile(t, filepath.Join(secondPaths.Root, ".gitconfig")); got != "[core]\n" {
		t.Errorf("synced .gitconfig = %q", got)
	}
}

func TestRemoteSet_UnknownRepositoryRollsBack(t *testing.T) {
	setupRemote(t, nil)
	eng, paths := newEngine(t)
	ctx := context.Background()

	// Not rewritten by the test git config, and example.test never resolves.
	link := "git@example.test:someone/missing.git"
	if _, err := eng.RemoteSet(ctx, &engine.RemoteSetRequest{Link: link}); err == nil {
		t.Fatal("expected RemoteSet() to fail")
	}

	if _, err := os.Stat(paths.Marker); !os.IsNotExist(err) {
		t.Error("marker must be rolled back")
	}
	if _, err := eng.RemoteShow(ctx); !errors.Is(err, remote.ErrNotConfigured) {
		t.Errorf("RemoteShow() error = %v, want ErrNotConfigured", err)
	}

	// A second attempt with a working link succeeds, so git no longer has
	// the failed remote registered.
	if _, err := eng.RemoteSet(ctx, &engine.RemoteSetRequest{Link: remoteLink}); err != nil {
		t.Fatalf("RemoteSet() after rollback error = %v", err)
	}
}
