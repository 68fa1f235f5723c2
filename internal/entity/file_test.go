package entity

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/CageChen/fsentity/internal/fs"
	"github.com/CageChen/fsentity/internal/value"
)

func TestNew_Flags(t *testing.T) {
	fsys, _ := memFS(t, map[string]string{"/data/existing.txt": "x"})

	tests := []struct {
		name string
		path string
		want flags
	}{
		{"missing path", "/data/missing.txt", flags{IsNew: true, WasNew: true}},
		{"existing path", "/data/existing.txt", flags{}},
		{"existing directory", "/data", flags{}},
		{"empty path", "", flags{IsNew: true, WasNew: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.path, WithFileSystem(fsys))
			if diff := cmp.Diff(tt.want, flagsOf(f)); diff != "" {
				t.Errorf("flags mismatch (-want +got):\n%s", diff)
			}
			if f.Path() != tt.path {
				t.Errorf("Path() = %q, want %q", f.Path(), tt.path)
			}
		})
	}
}

func TestSetPath_DoesNotProbe(t *testing.T) {
	fsys, _ := memFS(t, map[string]string{"/a.txt": "x"})
	f := New("/missing.txt", WithFileSystem(fsys))
	f.SetPath("/a.txt")
	if f.Path() != "/a.txt" {
		t.Fatalf("Path() = %q", f.Path())
	}
	if !f.IsNew() || !f.WasNew() {
		t.Error("SetPath should leave the flags alone")
	}
}

func TestSet(t *testing.T) {
	for _, v := range []value.Value{value.Null(), value.Bool(false), value.String(""), value.Int(1)} {
		f := New("")
		if got := f.Set(v); got != f {
			t.Fatal("Set should return the entity")
		}
		if !f.IsChanged() {
			t.Errorf("Set(%v) did not mark the entity changed", v)
		}
		if !f.Get().Equal(v) {
			t.Errorf("Get() = %v, want %v", f.Get(), v)
		}
	}
}

func TestGet_Unset(t *testing.T) {
	if !New("").Get().IsNull() {
		t.Error("an entity that was never loaded or set should hold Null")
	}
}

func TestSave_NewString(t *testing.T) {
	fsys, mem := memFS(t, nil)
	f := New("/a.txt", WithFileSystem(fsys))
	f.Set(value.String("hello"))
	if err := f.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if got := readFile(t, mem, "/a.txt"); got != "hello" {
		t.Errorf("file content = %q, want %q", got, "hello")
	}
	want := flags{IsNew: false, WasNew: true, IsChanged: false, IsDeleted: false}
	if diff := cmp.Diff(want, flagsOf(f)); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_ThenFreshLoad(t *testing.T) {
	fsys, mem := memFS(t, nil)
	list := value.List(value.Int(1), value.Int(2), value.Int(3))
	if err := New("/list.json", WithFileSystem(fsys)).Set(list).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := readFile(t, mem, "/list.json"); got != "[1,2,3]" {
		t.Errorf("file content = %q", got)
	}

	f := New("/list.json", WithFileSystem(fsys))
	if err := f.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(list, f.Get()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialCodec_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
	}{
		{"string", value.String("hello, world!")},
		{"int", value.Int(-42)},
		{"float", value.Float(3.5)},
		{"integral float", value.Float(2)},
		{"true", value.Bool(true)},
		{"false", value.Bool(false)},
		{"null", value.Null()},
		{"list", value.List(value.String("a"), value.List(value.Int(1)))},
		{"map", value.Map(
			value.Field{Key: "z", Value: value.Int(1)},
			value.Field{Key: "a", Value: value.Map(value.Field{Key: "ok", Value: value.Bool(true)})},
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys, _ := memFS(t, nil)
			if err := New("/v", WithFileSystem(fsys)).Set(tt.v).Save(); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			f := New("/v", WithFileSystem(fsys))
			if err := f.Load(); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(tt.v, f.Get()); diff != "" {
				t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSerialCodec_Decode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want value.Value
	}{
		{"false", "false", value.Bool(false)},
		{"structured", `{"a":[1,2]}`, value.Map(value.Field{Key: "a", Value: value.List(value.Int(1), value.Int(2))})},
		{"raw text", "Hello, world!", value.String("Hello, world!")},
		{"broken structure", `{"a":`, value.String(`{"a":`)},
		{"empty", "", value.String("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SerialCodec{}.Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_ResetsFlags(t *testing.T) {
	fsys, _ := memFS(t, nil)
	f := New("/a.txt", WithFileSystem(fsys))
	f.Set(value.String("one"))
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}
	if err := f.Delete(); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}
	f.Set(value.String("unsaved"))

	for i := 0; i < 2; i++ {
		if err := f.Load(); err != nil {
			t.Fatalf("Load #%d failed: %v", i+1, err)
		}
		if diff := cmp.Diff(flags{}, flagsOf(f)); diff != "" {
			t.Errorf("flags after Load #%d (-want +got):\n%s", i+1, diff)
		}
		if !f.Get().Equal(value.String("one")) {
			t.Errorf("Load #%d value = %v", i+1, f.Get())
		}
	}
}

func TestReload_DiscardsChanges(t *testing.T) {
	fsys, _ := memFS(t, map[string]string{"/a.txt": "disk"})
	f := New("/a.txt", WithFileSystem(fsys))
	f.Set(value.String("memory"))
	if err := f.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if !f.Get().Equal(value.String("disk")) {
		t.Errorf("Reload kept %v", f.Get())
	}
	if f.IsChanged() {
		t.Error("Reload should clear isChanged")
	}
}

func TestLoad_Errors(t *testing.T) {
	fsys, mem := memFS(t, map[string]string{"/secret.txt": "x"})
	mkdirs(t, mem, "/dir")
	denied := fs.NewAferoFS(denyReadFs{mem}, "")

	tests := []struct {
		name string
		f    *File
		kind Kind
	}{
		{"empty path", New("", WithFileSystem(fsys)), EmptyPath},
		{"missing", New("/missing.txt", WithFileSystem(fsys)), NotExists},
		{"directory", New("/dir", WithFileSystem(fsys)), IsDirectory},
		{"unreadable", New("/secret.txt", WithFileSystem(denied)), NotReadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.f.Set(value.Int(1))
			before := flagsOf(tt.f)
			wantKind(t, tt.f.Load(), tt.kind)
			if diff := cmp.Diff(before, flagsOf(tt.f)); diff != "" {
				t.Errorf("failed Load changed flags (-before +after):\n%s", diff)
			}
			if !tt.f.Get().Equal(value.Int(1)) {
				t.Errorf("failed Load changed the value to %v", tt.f.Get())
			}
		})
	}
}

func TestSave_Errors(t *testing.T) {
	fsys, mem := memFS(t, map[string]string{"/ro.txt": "x"})
	mkdirs(t, mem, "/dir")
	readOnly := fs.NewAferoFS(afero.NewReadOnlyFs(mem), "")

	tests := []struct {
		name string
		f    *File
		v    value.Value
		kind Kind
	}{
		{"empty path", New("", WithFileSystem(fsys)), value.Int(1), EmptyPath},
		{"directory", New("/dir", WithFileSystem(fsys)), value.Int(1), IsDirectory},
		{"read-only filesystem", New("/ro.txt", WithFileSystem(readOnly)), value.Int(1), NotWritable},
		{"unencodable value", New("/nan.json", WithFileSystem(fsys)), value.Float(math.NaN()), NotWritable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.f.Set(tt.v)
			before := flagsOf(tt.f)
			wantKind(t, tt.f.Save(), tt.kind)
			if diff := cmp.Diff(before, flagsOf(tt.f)); diff != "" {
				t.Errorf("failed Save changed flags (-before +after):\n%s", diff)
			}
		})
	}
}

func TestSave_MissingParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "a.txt")
	f := New(p)
	f.Set(value.String("x"))
	wantKind(t, f.Save(), NotWritable)
	if !f.IsNew() || !f.IsChanged() {
		t.Error("failed Save should leave isNew and isChanged set")
	}
}

func TestSave_FileMode(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.txt")
	f := New(p, WithFileMode(0o600))
	if err := f.Set(value.String("x")).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		t.Errorf("expected a private file, got %v", info.Mode().Perm())
	}
}

func TestDelete(t *testing.T) {
	fsys, _ := memFS(t, nil)
	f := New("/a.txt", WithFileSystem(fsys))
	f.Set(value.String("hello"))
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}

	if err := f.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if exists, _ := f.Exists(); exists {
		t.Error("file still exists after Delete")
	}
	want := flags{IsNew: false, WasNew: true, IsChanged: false, IsDeleted: true}
	if diff := cmp.Diff(want, flagsOf(f)); diff != "" {
		t.Errorf("flags after Delete (-want +got):\n%s", diff)
	}
	if !f.Get().Equal(value.String("hello")) {
		t.Errorf("Delete changed the value to %v", f.Get())
	}

	if err := f.Save(); err != nil {
		t.Fatalf("Save after Delete failed: %v", err)
	}
	if exists, _ := f.Exists(); !exists {
		t.Error("Save after Delete did not recreate the file")
	}
	want = flags{IsNew: false, WasNew: true, IsChanged: false, IsDeleted: false}
	if diff := cmp.Diff(want, flagsOf(f)); diff != "" {
		t.Errorf("flags after recreate (-want +got):\n%s", diff)
	}
}

func TestDelete_KeepsChanged(t *testing.T) {
	fsys, _ := memFS(t, map[string]string{"/a.txt": "x"})
	f := New("/a.txt", WithFileSystem(fsys))
	f.Set(value.String("y"))
	if err := f.Delete(); err != nil {
		t.Fatal(err)
	}
	want := flags{IsChanged: true, IsDeleted: true}
	if diff := cmp.Diff(want, flagsOf(f)); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete_Errors(t *testing.T) {
	fsys, mem := memFS(t, map[string]string{"/keep.txt": "x"})
	mkdirs(t, mem, "/dir")
	readOnly := fs.NewAferoFS(afero.NewReadOnlyFs(mem), "")

	tests := []struct {
		name string
		f    *File
		kind Kind
	}{
		{"empty path", New("", WithFileSystem(fsys)), EmptyPath},
		{"missing", New("/missing.txt", WithFileSystem(fsys)), NotExists},
		{"directory", New("/dir", WithFileSystem(fsys)), IsDirectory},
		{"read-only filesystem", New("/keep.txt", WithFileSystem(readOnly)), NotDeletable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantKind(t, tt.f.Delete(), tt.kind)
			if tt.f.IsDeleted() {
				t.Error("failed Delete set isDeleted")
			}
		})
	}
}

func TestEval(t *testing.T) {
	fsys, mem := memFS(t, map[string]string{
		"/conf.php":  "<?php\n\nreturn ['debug' => true];",
		"/plain.txt": "Hello, world!",
	})
	mkdirs(t, mem, "/dir")

	f := New("/conf.php", WithFileSystem(fsys))
	got, err := f.Eval()
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	want := value.Map(value.Field{Key: "debug", Value: value.Bool(true)})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !f.Get().IsNull() {
		t.Error("Eval should not touch the in-memory value")
	}

	_, err = New("/plain.txt", WithFileSystem(fsys)).Eval()
	wantKind(t, err, DeserializeError)
	_, err = New("/dir", WithFileSystem(fsys)).Eval()
	wantKind(t, err, IsDirectory)
	_, err = New("", WithFileSystem(fsys)).Eval()
	wantKind(t, err, EmptyPath)
}

func TestRaw(t *testing.T) {
	fsys, _ := memFS(t, map[string]string{"/a.json": "[1]"})
	data, err := New("/a.json", WithFileSystem(fsys)).Raw()
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if string(data) != "[1]" {
		t.Errorf("Raw = %q", data)
	}
}

func TestGitFS_ReadOnlyEntity(t *testing.T) {
	g := fs.NewGitFS(t.TempDir(), "HEAD")
	f := New("a.txt", WithFileSystem(g))
	f.Set(value.String("x"))
	err := f.Save()
	wantKind(t, err, NotWritable)
	if !errors.Is(err, fs.ErrReadOnly) {
		t.Errorf("expected the cause to be fs.ErrReadOnly, got %v", err)
	}
}
