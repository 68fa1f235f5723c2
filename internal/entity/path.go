package entity

import (
	"github.com/CageChen/fsentity/internal/fs"
)

// Path is a filesystem path plus live queries about what it points at.
// Nothing is cached: two calls may observe different results if the
// filesystem changes in between.
type Path struct {
	fsys fs.FileSystem
	path string
}

// NewPath returns a Path on fsys. A nil fsys means the local filesystem.
func NewPath(fsys fs.FileSystem, path string) *Path {
	if fsys == nil {
		fsys = fs.NewLocalFS("")
	}
	return &Path{fsys: fsys, path: path}
}

// String returns the stored path.
func (p *Path) String() string { return p.path }

// SetPath stores path verbatim.
func (p *Path) SetPath(path string) *Path {
	p.path = path
	return p
}

// Exists reports whether the path resolves to any filesystem entry. A
// symlink counts only if its target exists.
func (p *Path) Exists() (bool, error) {
	if p.path == "" {
		return false, newError("exists", p.path, EmptyPath, nil)
	}
	_, err := p.fsys.Stat(p.path)
	return err == nil, nil
}

// IsFile reports whether the path is a regular file (after following links).
func (p *Path) IsFile() (bool, error) {
	info, err := p.stat("isfile")
	if err != nil {
		return false, err
	}
	return info.Mode.IsRegular(), nil
}

// IsDir reports whether the path is a directory (after following links).
func (p *Path) IsDir() (bool, error) {
	info, err := p.stat("isdir")
	if err != nil {
		return false, err
	}
	return info.IsDir, nil
}

// IsLink reports whether the path itself is a symbolic link.
func (p *Path) IsLink() (bool, error) {
	if _, err := p.stat("islink"); err != nil {
		return false, err
	}
	info, err := p.fsys.Lstat(p.path)
	if err != nil {
		return false, newError("islink", p.path, NotExists, err)
	}
	return info.IsLink, nil
}

func (p *Path) stat(op string) (fs.FileInfo, error) {
	if p.path == "" {
		return fs.FileInfo{}, newError(op, p.path, EmptyPath, nil)
	}
	info, err := p.fsys.Stat(p.path)
	if err != nil {
		return fs.FileInfo{}, newError(op, p.path, NotExists, err)
	}
	return info, nil
}
