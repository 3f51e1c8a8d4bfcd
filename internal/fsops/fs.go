// Package fsops provides the filesystem operations dfm performs on the
// working directory and the mirror root.
//
// Every root is opened as its own chrooted go-billy filesystem, so tracked
// files are always addressed by a bare name relative to a root. Production
// code uses osfs; tests can use an in-memory filesystem via NewMemFS.
//
// Key features:
//   - Existence and regular-file checks without recursion
//   - Streaming byte-for-byte copies
//   - Streaming equality checks with a size fast path and O(1) memory
//   - Exclusive creation for one-shot marker files
package fsops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// chunkSize is the buffer size used when comparing file contents.
const chunkSize = 32 * 1024

// ErrInvalidName is returned when a tracked file name is not a bare file name.
var ErrInvalidName = errors.New("invalid file name")

// FS provides an abstraction for filesystem operations.
// All filesystem mutations in dfm must go through this interface.
type FS interface {
	// Exists checks if name exists directly under root.
	Exists(root, name string) (bool, error)

	// IsRegularFile reports whether name under root is a plain file.
	IsRegularFile(root, name string) (bool, error)

	// Copy copies name from srcRoot to dstRoot, truncating the destination.
	Copy(srcRoot, dstRoot, name string) error

	// ContentsEqual reports whether two files have identical contents.
	ContentsEqual(pathA, pathB string) (bool, error)

	// Remove removes name under root.
	Remove(root, name string) error

	// RemoveAll removes a path and all its contents.
	RemoveAll(path string) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// ReadFile reads the entire contents of name under root.
	ReadFile(root, name string) ([]byte, error)

	// WriteFile writes data to name under root, replacing any existing file.
	WriteFile(root, name string, data []byte) error

	// CreateExclusive writes data to a new file and fails with os.ErrExist
	// if name is already present.
	CreateExclusive(root, name string, data []byte) error

	// ListFiles returns the names of the regular files directly under root.
	ListFiles(root string) ([]string, error)

	// ValidateName validates a tracked file name.
	ValidateName(name string) error
}

// BillyFS implements FS on top of go-billy filesystems.
type BillyFS struct {
	open func(root string) (billy.Filesystem, error)
}

// NewRealFS creates a BillyFS backed by the operating system.
func NewRealFS() *BillyFS {
	return &BillyFS{
		open: func(root string) (billy.Filesystem, error) {
			return osfs.New(root), nil
		},
	}
}

// NewMemFS creates a BillyFS backed by a single in-memory filesystem.
func NewMemFS() *BillyFS {
	mem := memfs.New()
	return &BillyFS{
		open: func(root string) (billy.Filesystem, error) {
			return mem.Chroot(root)
		},
	}
}

func (fs *BillyFS) root(root string) (billy.Filesystem, error) {
	bfs, err := fs.open(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", root, err)
	}
	return bfs, nil
}

// Exists checks if name exists directly under root.
func (fs *BillyFS) Exists(root, name string) (bool, error) {
	bfs, err := fs.root(root)
	if err != nil {
		return false, err
	}

	_, err = bfs.Lstat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsRegularFile reports whether name under root is a plain file.
// Symlinks are followed, so a link to a file counts as a file.
func (fs *BillyFS) IsRegularFile(root, name string) (bool, error) {
	bfs, err := fs.root(root)
	if err != nil {
		return false, err
	}

	info, err := bfs.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Copy copies name from srcRoot to dstRoot.
// On an I/O failure the destination may be left partially written.
func (fs *BillyFS) Copy(srcRoot, dstRoot, name string) error {
	src, err := fs.root(srcRoot)
	if err != nil {
		return err
	}
	dst, err := fs.root(dstRoot)
	if err != nil {
		return err
	}

	info, err := src.Stat(name)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot copy directory %q", name)
	}

	in, err := src.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := dst.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}
	return nil
}

// ContentsEqual reports whether the files at pathA and pathB are identical.
// Files of different sizes are unequal without being read.
func (fs *BillyFS) ContentsEqual(pathA, pathB string) (bool, error) {
	fsA, err := fs.root(filepath.Dir(pathA))
	if err != nil {
		return false, err
	}
	fsB, err := fs.root(filepath.Dir(pathB))
	if err != nil {
		return false, err
	}
	nameA, nameB := filepath.Base(pathA), filepath.Base(pathB)

	infoA, err := fsA.Stat(nameA)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", pathA, err)
	}
	infoB, err := fsB.Stat(nameB)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", pathB, err)
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	a, err := fsA.Open(nameA)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", pathA, err)
	}
	defer func() {
		_ = a.Close()
	}()

	b, err := fsB.Open(nameB)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", pathB, err)
	}
	defer func() {
		_ = b.Close()
	}()

	return readersEqual(a, b)
}

// readersEqual compares two streams chunk by chunk.
func readersEqual(a, b io.Reader) (bool, error) {
	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)

	for {
		nA, errA := io.ReadFull(a, bufA)
		nB, errB := io.ReadFull(b, bufB)

		endA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		endB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if errA != nil && !endA {
			return false, fmt.Errorf("failed to read: %w", errA)
		}
		if errB != nil && !endB {
			return false, fmt.Errorf("failed to read: %w", errB)
		}

		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		if endA || endB {
			return endA && endB, nil
		}
	}
}

// Remove removes name under root.
func (fs *BillyFS) Remove(root, name string) error {
	bfs, err := fs.root(root)
	if err != nil {
		return err
	}
	return bfs.Remove(name)
}

// RemoveAll removes a path and all its contents.
func (fs *BillyFS) RemoveAll(path string) error {
	parent, err := fs.root(filepath.Dir(path))
	if err != nil {
		return err
	}
	return util.RemoveAll(parent, filepath.Base(path))
}

// MkdirAll creates a directory and all parent directories.
func (fs *BillyFS) MkdirAll(path string) error {
	parent, err := fs.root(filepath.Dir(path))
	if err != nil {
		return err
	}
	return parent.MkdirAll(filepath.Base(path), 0755)
}

// ReadFile reads the entire contents of name under root.
func (fs *BillyFS) ReadFile(root, name string) ([]byte, error) {
	bfs, err := fs.root(root)
	if err != nil {
		return nil, err
	}
	return util.ReadFile(bfs, name)
}

// WriteFile writes data to name under root, replacing any existing file.
func (fs *BillyFS) WriteFile(root, name string, data []byte) error {
	bfs, err := fs.root(root)
	if err != nil {
		return err
	}
	return util.WriteFile(bfs, name, data, 0644)
}

// CreateExclusive writes data to a new file under root.
func (fs *BillyFS) CreateExclusive(root, name string, data []byte) error {
	bfs, err := fs.root(root)
	if err != nil {
		return err
	}

	f, err := bfs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}

// ListFiles returns the names of the regular files directly under root,
// sorted by name. Directories are skipped.
func (fs *BillyFS) ListFiles(root string) ([]string, error) {
	bfs, err := fs.root(root)
	if err != nil {
		return nil, err
	}

	entries, err := bfs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ValidateName validates a tracked file name.
// Tracked files live directly in the mirror root, so the name must be a bare
// file name without separators or traversal.
func (fs *BillyFS) ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}

	if strings.Contains(name, string(filepath.Separator)) || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q is not a file name", ErrInvalidName, name)
	}

	return nil
}
