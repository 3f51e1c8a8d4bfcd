package engine

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveWorkDir(t *testing.T) {
	mirror := filepath.FromSlash("/home/u/.config/dotfiles")

	tests := []struct {
		name    string
		cwd     string
		want    string
		wantErr error
	}{
		{
			name: "home directory",
			cwd:  filepath.FromSlash("/home/u"),
			want: filepath.FromSlash("/home/u"),
		},
		{
			name: "sibling of the mirror",
			cwd:  filepath.FromSlash("/home/u/.config/nvim"),
			want: filepath.FromSlash("/home/u/.config/nvim"),
		},
		{
			name: "similar prefix is not inside",
			cwd:  filepath.FromSlash("/home/u/.config/dotfiles-old"),
			want: filepath.FromSlash("/home/u/.config/dotfiles-old"),
		},
		{
			name: "unclean path is cleaned",
			cwd:  filepath.FromSlash("/home/u/projects/../.bashrc.d"),
			want: filepath.FromSlash("/home/u/.bashrc.d"),
		},
		{
			name:    "mirror root",
			cwd:     mirror,
			wantErr: ErrInsideMirror,
		},
		{
			name:    "below the mirror root",
			cwd:     filepath.Join(mirror, ".git"),
			wantErr: ErrInsideMirror,
		},
		{
			name:    "mirror reached through ..",
			cwd:     filepath.FromSlash("/home/u/.config/nvim/../dotfiles"),
			wantErr: ErrInsideMirror,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveWorkDir(tt.cwd, mirror)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v (result %q)", tt.wantErr, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := resolveWorkDir("", mirror); err == nil {
		t.Error("expected error for empty working directory")
	}
}

func TestIsReserved(t *testing.T) {
	for _, name := range []string{".git", ".gitignore", "remote.txt"} {
		if !isReserved(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	for _, name := range []string{".bashrc", "remote.txt.bak", ".gitconfig"} {
		if isReserved(name) {
			t.Errorf("%q should not be reserved", name)
		}
	}
}
