package fs

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strconv"
	"strings"
	"time"
)

const gitSymlinkMode = "120000"

// GitFS implements a read-only FileSystem over a git ref (branch, tag, or commit).
type GitFS struct {
	repoPath string
	ref      string
}

// NewGitFS creates a GitFS that reads entities from the given ref in the repository at repoPath.
func NewGitFS(repoPath, ref string) *GitFS {
	return &GitFS{repoPath: repoPath, ref: ref}
}

// Ref returns the git ref this filesystem reads from.
func (g *GitFS) Ref() string {
	return g.ref
}

func (g *GitFS) git(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", g.repoPath}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// objPath turns an entity path into a tree path relative to the repository
// root. The root itself is returned as "".
func objPath(p string) string {
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// ReadFile reads the blob at the given path from the git ref.
func (g *GitFS) ReadFile(p string) ([]byte, error) {
	obj := objPath(p)
	if obj == "" {
		return nil, fmt.Errorf("cannot read directory as file")
	}
	cmd := exec.Command("git", "-C", g.repoPath, "show", g.ref+":"+obj)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if strings.Contains(stderr, "does not exist") || strings.Contains(stderr, "not exist") {
				return nil, os.ErrNotExist
			}
			return nil, fmt.Errorf("git show: %s", stderr)
		}
		return nil, err
	}
	return out, nil
}

// Stat returns metadata for the entry at the given path in the git ref.
// Symlinks are reported as the link blob itself.
func (g *GitFS) Stat(p string) (FileInfo, error) {
	return g.stat(objPath(p))
}

// Lstat is Stat; the link flag is always reported.
func (g *GitFS) Lstat(p string) (FileInfo, error) {
	return g.stat(objPath(p))
}

func (g *GitFS) stat(obj string) (FileInfo, error) {
	if obj == "" {
		if _, err := g.git("rev-parse", "--verify", g.ref); err != nil {
			return FileInfo{}, os.ErrNotExist
		}
		return FileInfo{
			Name:    g.ref,
			IsDir:   true,
			Mode:    os.ModeDir | 0o555,
			ModTime: g.getModTime(""),
		}, nil
	}

	out, err := g.git("ls-tree", g.ref, obj)
	if err != nil {
		return FileInfo{}, os.ErrNotExist
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return FileInfo{}, os.ErrNotExist
	}

	// Format: "<mode> <type> <hash>\t<name>"
	fields := strings.Fields(out)
	if len(fields) < 4 {
		return FileInfo{}, os.ErrNotExist
	}
	mode, objType := fields[0], fields[1]
	modTime := g.getModTime(obj)

	if objType == "tree" {
		return FileInfo{
			Name:    path.Base(obj),
			IsDir:   true,
			Mode:    os.ModeDir | 0o555,
			ModTime: modTime,
		}, nil
	}

	var size int64
	if sizeOut, err := g.git("cat-file", "-s", g.ref+":"+obj); err == nil {
		size, _ = strconv.ParseInt(strings.TrimSpace(sizeOut), 10, 64)
	}
	info := FileInfo{
		Name:    path.Base(obj),
		Size:    size,
		Mode:    0o444,
		ModTime: modTime,
	}
	if mode == gitSymlinkMode {
		info.IsLink = true
		info.Mode |= os.ModeSymlink
	}
	return info, nil
}

// ReadDir lists the immediate children of the tree at the given path in the git ref.
func (g *GitFS) ReadDir(p string) ([]DirEntry, error) {
	obj := objPath(p)

	var out string
	var err error
	if obj == "" {
		out, err = g.git("ls-tree", g.ref)
	} else {
		info, statErr := g.stat(obj)
		if statErr != nil {
			return nil, statErr
		}
		if !info.IsDir {
			return nil, fmt.Errorf("%s: not a directory", obj)
		}
		out, err = g.git("ls-tree", g.ref, obj+"/")
	}
	if err != nil {
		return nil, os.ErrNotExist
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return []DirEntry{}, nil
	}

	var entries []DirEntry
	for _, line := range strings.Split(out, "\n") {
		tabIdx := strings.IndexByte(line, '\t')
		if tabIdx < 0 {
			continue
		}
		fields := strings.Fields(line[:tabIdx])
		if len(fields) < 3 {
			continue
		}
		entries = append(entries, DirEntry{
			Name:  path.Base(line[tabIdx+1:]),
			IsDir: fields[1] == "tree",
		})
	}
	return entries, nil
}

// WriteFile always fails with ErrReadOnly.
func (g *GitFS) WriteFile(p string, _ []byte, _ os.FileMode) error {
	return &os.PathError{Op: "write", Path: p, Err: ErrReadOnly}
}

// Remove always fails with ErrReadOnly.
func (g *GitFS) Remove(p string) error {
	return &os.PathError{Op: "remove", Path: p, Err: ErrReadOnly}
}

// Mkdir always fails with ErrReadOnly.
func (g *GitFS) Mkdir(p string, _ os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: p, Err: ErrReadOnly}
}

func (g *GitFS) getModTime(obj string) time.Time {
	args := []string{"log", "-1", "--format=%ct", g.ref}
	if obj != "" {
		args = append(args, "--", obj)
	}
	out, err := g.git(args...)
	if err != nil {
		return time.Time{}
	}
	ts := strings.TrimSpace(out)
	if ts == "" {
		return time.Time{}
	}
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

var _ FileSystem = (*GitFS)(nil)
