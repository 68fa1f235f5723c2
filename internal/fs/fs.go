// Package fs provides the filesystem layer entities persist through: the local
// disk (or an in-memory tree) via afero, or a read-only git ref.
package fs

import (
	"errors"
	"os"
	"time"
)

// ErrReadOnly is returned by write operations on read-only filesystems.
var ErrReadOnly = errors.New("read-only filesystem")

// FileInfo holds file metadata.
type FileInfo struct {
	Name    string
	IsDir   bool
	IsLink  bool
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
}

// DirEntry represents a single directory entry.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileSystem abstracts the operations entities need so callers can work with
// the local filesystem, an in-memory tree or a git object database.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (FileInfo, error)
	// Lstat is like Stat but does not follow a trailing symlink.
	Lstat(path string) (FileInfo, error)
	// ReadDir lists the immediate children in the order the backend returns them.
	ReadDir(path string) ([]DirEntry, error)
	// WriteFile creates or truncates the file at path.
	WriteFile(path string, data []byte, perm os.FileMode) error
	Remove(path string) error
	Mkdir(path string, perm os.FileMode) error
}
