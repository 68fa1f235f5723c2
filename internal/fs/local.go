package fs

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalFS implements FileSystem on top of an afero filesystem.
type LocalFS struct {
	fs   afero.Fs
	root string
}

// NewLocalFS creates a LocalFS on the OS filesystem. An empty root uses paths
// verbatim; otherwise paths are resolved relative to root.
func NewLocalFS(root string) *LocalFS {
	return &LocalFS{fs: afero.NewOsFs(), root: root}
}

// NewMemFS creates a LocalFS backed by an empty in-memory tree.
func NewMemFS() *LocalFS {
	return &LocalFS{fs: afero.NewMemMapFs()}
}

// NewAferoFS wraps an existing afero filesystem.
func NewAferoFS(fsys afero.Fs, root string) *LocalFS {
	return &LocalFS{fs: fsys, root: root}
}

// Afero exposes the underlying afero filesystem.
func (l *LocalFS) Afero() afero.Fs {
	return l.fs
}

func (l *LocalFS) abs(path string) string {
	if l.root == "" {
		return path
	}
	if path == "" || path == "." {
		return l.root
	}
	return filepath.Join(l.root, path)
}

// ReadFile reads the contents of the file at path.
func (l *LocalFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(l.fs, l.abs(path))
}

// Stat returns metadata for the file or directory at path, following symlinks.
func (l *LocalFS) Stat(path string) (FileInfo, error) {
	info, err := l.fs.Stat(l.abs(path))
	if err != nil {
		return FileInfo{}, err
	}
	return toFileInfo(info), nil
}

// Lstat returns metadata without following a trailing symlink. Backends
// without symlink support fall back to Stat.
func (l *LocalFS) Lstat(path string) (FileInfo, error) {
	if ls, ok := l.fs.(afero.Lstater); ok {
		info, _, err := ls.LstatIfPossible(l.abs(path))
		if err != nil {
			return FileInfo{}, err
		}
		return toFileInfo(info), nil
	}
	return l.Stat(path)
}

// ReadDir lists the immediate children of the directory at path, unsorted.
func (l *LocalFS) ReadDir(path string) ([]DirEntry, error) {
	f, err := l.fs.Open(l.abs(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}
	result := make([]DirEntry, len(infos))
	for i, info := range infos {
		result[i] = DirEntry{
			Name:  info.Name(),
			IsDir: info.IsDir(),
		}
	}
	return result, nil
}

// WriteFile creates or truncates the file at path. The parent directory must
// already exist.
func (l *LocalFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(l.fs, l.abs(path), data, perm)
}

// Remove deletes a file or empty directory.
func (l *LocalFS) Remove(path string) error {
	return l.fs.Remove(l.abs(path))
}

// Mkdir creates a single directory.
func (l *LocalFS) Mkdir(path string, perm os.FileMode) error {
	return l.fs.Mkdir(l.abs(path), perm)
}

func toFileInfo(info os.FileInfo) FileInfo {
	return FileInfo{
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		IsLink:  info.Mode()&os.ModeSymlink != 0,
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
	}
}

var _ FileSystem = (*LocalFS)(nil)
