// Package entity maps filesystem entries to objects that track their own
// contents and their sync state relative to disk.
package entity

import (
	"errors"
	"io/fs"
	"os"

	fsys "github.com/CageChen/fsentity/internal/fs"
	"github.com/CageChen/fsentity/internal/logger"
	"github.com/CageChen/fsentity/internal/phpsrc"
	"github.com/CageChen/fsentity/internal/value"
)

// DefaultFileMode is the permission used when Save creates a file.
const DefaultFileMode os.FileMode = 0o644

type options struct {
	fsys  fsys.FileSystem
	codec Codec
	mode  os.FileMode
	log   logger.Logger
}

// Option configures an entity.
type Option func(*options)

// WithFileSystem sets the filesystem the entity reads and writes through.
// The default is the local filesystem with paths used verbatim.
func WithFileSystem(f fsys.FileSystem) Option {
	return func(o *options) { o.fsys = f }
}

// WithCodec sets the encode/decode policy. The default is SerialCodec.
func WithCodec(c Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithFileMode sets the permission used when Save creates a file.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithLogger sets the logger entity operations are reported to.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{
		codec: SerialCodec{},
		mode:  DefaultFileMode,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fsys == nil {
		o.fsys = fsys.NewLocalFS("")
	}
	return o
}

// File is a persistent entity: a path, an in-memory value, and four flags
// tracking how that value relates to what is on disk.
//
// isNew and wasNew start true when the path is empty or absent at
// construction. Save clears isNew but never wasNew; only Load clears wasNew.
type File struct {
	path  *Path
	value value.Value
	opts  options

	isNew     bool
	wasNew    bool
	isChanged bool
	isDeleted bool
}

// New returns a File for path, probing whether it already exists.
func New(path string, opts ...Option) *File {
	o := buildOptions(opts)
	f := &File{
		path: NewPath(o.fsys, path),
		opts: o,
	}
	exists, _ := f.path.Exists()
	f.isNew = !exists
	f.wasNew = !exists
	return f
}

// NewSource returns a File that persists its value as a PHP return-file.
func NewSource(path string, opts ...Option) *File {
	return New(path, append([]Option{WithCodec(SourceCodec{})}, opts...)...)
}

// Path returns the entity's path.
func (f *File) Path() string { return f.path.String() }

// SetPath changes the path without probing it; the flags are unchanged.
func (f *File) SetPath(path string) *File {
	f.path.SetPath(path)
	return f
}

// Exists reports whether the path currently resolves to an entry.
func (f *File) Exists() (bool, error) { return f.path.Exists() }

// IsFile reports whether the path is a regular file.
func (f *File) IsFile() (bool, error) { return f.path.IsFile() }

// IsDir reports whether the path is a directory.
func (f *File) IsDir() (bool, error) { return f.path.IsDir() }

// IsLink reports whether the path is a symbolic link.
func (f *File) IsLink() (bool, error) { return f.path.IsLink() }

// Get returns the in-memory value. It is Null until loaded or set.
func (f *File) Get() value.Value { return f.value }

// Set replaces the in-memory value and marks the entity changed.
func (f *File) Set(v value.Value) *File {
	f.value = v
	f.isChanged = true
	return f
}

// IsNew reports whether the entity has not been written or loaded yet.
func (f *File) IsNew() bool { return f.isNew }

// WasNew reports whether the path was absent when the entity first observed it.
func (f *File) WasNew() bool { return f.wasNew }

// IsChanged reports whether Set was called since the last Load or Save.
func (f *File) IsChanged() bool { return f.isChanged }

// IsDeleted reports whether Delete succeeded since the last Load or Save.
func (f *File) IsDeleted() bool { return f.isDeleted }

// Load reads and decodes the file, replacing the in-memory value. On success
// all four flags are cleared.
func (f *File) Load() error {
	data, err := f.read("load")
	if err != nil {
		return err
	}
	v, err := f.opts.codec.Decode(data)
	if err != nil {
		return newError("load", f.Path(), DeserializeError, err)
	}

	f.value = v
	f.isNew = false
	f.wasNew = false
	f.isChanged = false
	f.isDeleted = false
	f.opts.log.Debug("Loaded %s (%d bytes)", f.Path(), len(data))
	return nil
}

// Reload discards any unsaved change and loads the file again.
func (f *File) Reload() error {
	return f.Load()
}

// Save encodes the in-memory value and writes it, creating the file if
// needed. The parent directory must exist.
func (f *File) Save() error {
	p := f.Path()
	if p == "" {
		return newError("save", p, EmptyPath, nil)
	}
	if info, err := f.opts.fsys.Stat(p); err == nil && info.IsDir {
		return newError("save", p, IsDirectory, nil)
	}

	data, err := f.opts.codec.Encode(f.value)
	if err != nil {
		return newError("save", p, NotWritable, err)
	}
	if err := f.opts.fsys.WriteFile(p, data, f.opts.mode); err != nil {
		return newError("save", p, NotWritable, err)
	}

	f.isChanged = false
	f.isDeleted = false
	if f.isNew {
		f.isNew = false
		f.wasNew = true
	}
	f.opts.log.Debug("Saved %s (%d bytes)", p, len(data))
	return nil
}

// Delete removes the file. Only the deleted flag changes; the in-memory value
// is kept so a later Save can recreate the file.
func (f *File) Delete() error {
	p := f.Path()
	if err := f.checkFile("delete"); err != nil {
		return err
	}
	if err := f.opts.fsys.Remove(p); err != nil {
		return newError("delete", p, NotDeletable, err)
	}

	f.isDeleted = true
	f.opts.log.Debug("Deleted %s", p)
	return nil
}

// Eval reads the file and evaluates it as a PHP return-file, whatever the
// entity's codec. The in-memory value and the flags are left alone.
func (f *File) Eval() (value.Value, error) {
	data, err := f.read("eval")
	if err != nil {
		return value.Value{}, err
	}
	v, err := phpsrc.Eval(data)
	if err != nil {
		return value.Value{}, newError("eval", f.Path(), DeserializeError, err)
	}
	return v, nil
}

// Raw reads the file's bytes without decoding them.
func (f *File) Raw() ([]byte, error) {
	return f.read("raw")
}

func (f *File) read(op string) ([]byte, error) {
	if err := f.checkFile(op); err != nil {
		return nil, err
	}
	data, err := f.opts.fsys.ReadFile(f.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(op, f.Path(), NotExists, err)
		}
		return nil, newError(op, f.Path(), NotReadable, err)
	}
	return data, nil
}

// checkFile verifies the path is set, exists, and is not a directory.
func (f *File) checkFile(op string) error {
	p := f.Path()
	if p == "" {
		return newError(op, p, EmptyPath, nil)
	}
	info, err := f.opts.fsys.Stat(p)
	if err != nil {
		return newError(op, p, NotExists, err)
	}
	if info.IsDir {
		return newError(op, p, IsDirectory, nil)
	}
	return nil
}
