package entity

import (
	"os"
	"path"
	"sort"
	"strings"
)

// Order controls how List sorts directory entries.
//
// The zero value is OrderAscending, and ParseOrder("") returns it too, so
// callers that pass no order get sorted names rather than the raw
// enumeration order. Use OrderNone to keep what the filesystem reports.
type Order int

const (
	// OrderAscending sorts entries by name, "." and ".." included.
	OrderAscending Order = iota
	// OrderDescending sorts entries by name in reverse.
	OrderDescending
	// OrderNone keeps the order the filesystem reports, after "." and "..".
	OrderNone
)

// ParseOrder maps "asc", "desc" and "none" to an Order.
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return OrderAscending, true
	case "desc", "descending":
		return OrderDescending, true
	case "none":
		return OrderNone, true
	}
	return OrderAscending, false
}

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "asc"
	case OrderDescending:
		return "desc"
	case OrderNone:
		return "none"
	}
	return "unknown"
}

// Dir is an entity restricted to directories. It has no contents of its own;
// instead it lists its children as fresh File entities.
type Dir struct {
	entry *File
}

// NewDir returns a Dir for path. It fails with NotDirectory when path exists
// but is not a directory; an empty or missing path is accepted.
func NewDir(path string, opts ...Option) (*Dir, error) {
	d := &Dir{entry: New(path, opts...)}
	if err := d.checkKind("newdir"); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the directory's path.
func (d *Dir) Path() string { return d.entry.Path() }

// SetPath changes the path under the same rules as NewDir. On failure the
// previous path is kept.
func (d *Dir) SetPath(p string) error {
	prev := d.entry.Path()
	d.entry.SetPath(p)
	if err := d.checkKind("setpath"); err != nil {
		d.entry.SetPath(prev)
		return err
	}
	return nil
}

// Exists reports whether the directory currently exists.
func (d *Dir) Exists() (bool, error) { return d.entry.Exists() }

// IsLink reports whether the directory path is a symbolic link.
func (d *Dir) IsLink() (bool, error) { return d.entry.IsLink() }

// IsNew reports whether the directory was absent and has not been made yet.
func (d *Dir) IsNew() bool { return d.entry.IsNew() }

// WasNew reports whether the directory was absent when first observed.
func (d *Dir) WasNew() bool { return d.entry.WasNew() }

// IsChanged is always false; a directory has no value to set.
func (d *Dir) IsChanged() bool { return d.entry.IsChanged() }

// IsDeleted is always false.
func (d *Dir) IsDeleted() bool { return d.entry.IsDeleted() }

// Make creates the directory with the given permissions. Creating a
// directory that already exists fails.
func (d *Dir) Make(mode os.FileMode) error {
	p := d.Path()
	if p == "" {
		return newError("make", p, EmptyPath, nil)
	}
	if err := d.entry.opts.fsys.Mkdir(p, mode); err != nil {
		return newError("make", p, MakeError, err)
	}
	d.entry.isNew = false
	d.entry.opts.log.Debug("Made directory %s (%s)", p, mode)
	return nil
}

// Save always fails: a directory has no bytes to persist.
func (d *Dir) Save() error {
	return newError("save", d.Path(), NotSupportedForDirectory, nil)
}

// List returns one fresh entity per entry, "." and ".." included, each at
// <dir>/<name>.
func (d *Dir) List(order Order) (*List, error) {
	p := d.Path()
	if p == "" {
		return nil, newError("list", p, EmptyPath, nil)
	}
	info, err := d.entry.opts.fsys.Stat(p)
	if err != nil {
		return nil, newError("list", p, NotExists, err)
	}
	if !info.IsDir {
		return nil, newError("list", p, NotDirectory, nil)
	}

	entries, err := d.entry.opts.fsys.ReadDir(p)
	if err != nil {
		return nil, newError("list", p, NotReadable, err)
	}
	names := make([]string, 0, len(entries)+2)
	names = append(names, ".", "..")
	for _, e := range entries {
		names = append(names, e.Name)
	}
	switch order {
	case OrderAscending:
		sort.Strings(names)
	case OrderDescending:
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	list := NewList()
	for _, name := range names {
		list.Add(New(d.child(name), d.childOptions()...))
	}
	d.entry.opts.log.Debug("Listed %s (%d entries, %s)", p, list.Len(), order)
	return list, nil
}

// ListRecursive lists the directory in ascending order and replaces every
// subdirectory entry with that subdirectory's own recursive listing. The "."
// and ".." entries of every level are kept. Symlinked directories are kept as
// entries and never descended.
func (d *Dir) ListRecursive() (*List, error) {
	list, err := d.List(OrderAscending)
	if err != nil {
		return nil, err
	}

	out := NewList()
	for _, f := range list.All() {
		base := path.Base(f.Path())
		if base == "." || base == ".." {
			out.Add(f)
			continue
		}
		isDir, _ := f.IsDir()
		isLink, _ := f.IsLink()
		if !isDir || isLink {
			out.Add(f)
			continue
		}

		sub := &Dir{entry: New(f.Path(), d.childOptions()...)}
		children, err := sub.ListRecursive()
		if err != nil {
			return nil, err
		}
		out.Merge(children)
	}
	return out, nil
}

func (d *Dir) child(name string) string {
	p := d.Path()
	if strings.HasSuffix(p, "/") {
		return p + name
	}
	return p + "/" + name
}

func (d *Dir) childOptions() []Option {
	o := d.entry.opts
	return []Option{
		WithFileSystem(o.fsys),
		WithCodec(o.codec),
		WithFileMode(o.mode),
		WithLogger(o.log),
	}
}

func (d *Dir) checkKind(op string) error {
	p := d.Path()
	if p == "" {
		return nil
	}
	info, err := d.entry.opts.fsys.Stat(p)
	if err != nil {
		// Missing directories are allowed; Make creates them.
		return nil
	}
	if !info.IsDir {
		return newError(op, p, NotDirectory, nil)
	}
	return nil
}
