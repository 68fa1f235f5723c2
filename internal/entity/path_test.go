package entity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPath_Empty(t *testing.T) {
	p := NewPath(nil, "")
	if _, err := p.Exists(); KindOf(err) != EmptyPath {
		t.Errorf("Exists: expected EmptyPath, got %v", err)
	}
	for name, query := range map[string]func() (bool, error){
		"IsFile": p.IsFile,
		"IsDir":  p.IsDir,
		"IsLink": p.IsLink,
	} {
		if _, err := query(); KindOf(err) != EmptyPath {
			t.Errorf("%s: expected EmptyPath, got %v", name, err)
		}
	}
}

func TestPath_Missing(t *testing.T) {
	p := NewPath(nil, filepath.Join(t.TempDir(), "missing"))
	exists, err := p.Exists()
	if err != nil || exists {
		t.Errorf("Exists = %v, %v; want false, nil", exists, err)
	}
	for name, query := range map[string]func() (bool, error){
		"IsFile": p.IsFile,
		"IsDir":  p.IsDir,
		"IsLink": p.IsLink,
	} {
		if _, err := query(); KindOf(err) != NotExists {
			t.Errorf("%s: expected NotExists, got %v", name, err)
		}
	}
}

func TestPath_Kinds(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	link := filepath.Join(dir, "link.txt")
	dangling := filepath.Join(dir, "dangling")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(file, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "nowhere"), dangling); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path                  string
		isFile, isDir, isLink bool
	}{
		{file, true, false, false},
		{dir, false, true, false},
		{link, true, false, true},
	}
	for _, tt := range tests {
		p := NewPath(nil, tt.path)
		if got, err := p.IsFile(); err != nil || got != tt.isFile {
			t.Errorf("%s: IsFile = %v, %v", tt.path, got, err)
		}
		if got, err := p.IsDir(); err != nil || got != tt.isDir {
			t.Errorf("%s: IsDir = %v, %v", tt.path, got, err)
		}
		if got, err := p.IsLink(); err != nil || got != tt.isLink {
			t.Errorf("%s: IsLink = %v, %v", tt.path, got, err)
		}
	}

	p := NewPath(nil, dangling)
	if exists, _ := p.Exists(); exists {
		t.Error("a dangling symlink should not exist")
	}
	if _, err := p.IsLink(); KindOf(err) != NotExists {
		t.Errorf("IsLink on a dangling symlink: expected NotExists, got %v", err)
	}
}

func TestPath_LiveQueries(t *testing.T) {
	p := NewPath(nil, filepath.Join(t.TempDir(), "later.txt"))
	if exists, _ := p.Exists(); exists {
		t.Fatal("should not exist yet")
	}
	if err := os.WriteFile(p.String(), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if exists, _ := p.Exists(); !exists {
		t.Error("Exists should observe the new file")
	}
}

func TestPath_SetPath(t *testing.T) {
	p := NewPath(nil, "")
	if p.SetPath("a/b") != p {
		t.Fatal("SetPath should return the receiver")
	}
	if p.String() != "a/b" {
		t.Errorf("String() = %q", p.String())
	}
}
