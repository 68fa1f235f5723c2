package entity

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"

	"github.com/CageChen/fsentity/internal/fs"
)

// denyReadFs refuses to open anything while still answering Stat, the way a
// file without read permission behaves.
type denyReadFs struct {
	afero.Fs
}

func (d denyReadFs) Open(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
}

func (d denyReadFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag == os.O_RDONLY {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return d.Fs.OpenFile(name, flag, perm)
}

// memFS returns an in-memory filesystem seeded with files. Parent
// directories are created as needed.
func memFS(t *testing.T, files map[string]string) (*fs.LocalFS, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	for p, content := range files {
		if err := afero.WriteFile(mem, p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs.NewAferoFS(mem, ""), mem
}

func mkdirs(t *testing.T, mem afero.Fs, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := mem.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, mem afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(mem, p)
	if err != nil {
		t.Fatalf("reading %s: %v", p, err)
	}
	return string(data)
}

type flags struct {
	IsNew, WasNew, IsChanged, IsDeleted bool
}

func flagsOf(f *File) flags {
	return flags{f.IsNew(), f.WasNew(), f.IsChanged(), f.IsDeleted()}
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %v error, got %v (%v)", kind, got, err)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
}
