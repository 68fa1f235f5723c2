package entity

import (
	"errors"
	"fmt"
)

// Kind classifies an entity failure.
type Kind uint8

// Failure kinds shared by every entity variant.
const (
	EmptyPath Kind = iota + 1
	NotExists
	IsDirectory
	NotDirectory
	NotReadable
	NotWritable
	NotDeletable
	DeserializeError
	MakeError
	NotSupportedForDirectory
)

var kindNames = map[Kind]string{
	EmptyPath:                "empty path",
	NotExists:                "does not exist",
	IsDirectory:              "path is a directory",
	NotDirectory:             "path is not a directory",
	NotReadable:              "not readable",
	NotWritable:              "not writable",
	NotDeletable:             "not deletable",
	DeserializeError:         "cannot deserialize contents",
	MakeError:                "cannot make directory",
	NotSupportedForDirectory: "not supported for directory",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is returned by every failing entity operation.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	msg := "entity " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind. Op and Path of the target are
// ignored, so the Err* sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrEmptyPath                = &Error{Kind: EmptyPath}
	ErrNotExists                = &Error{Kind: NotExists}
	ErrIsDirectory              = &Error{Kind: IsDirectory}
	ErrNotDirectory             = &Error{Kind: NotDirectory}
	ErrNotReadable              = &Error{Kind: NotReadable}
	ErrNotWritable              = &Error{Kind: NotWritable}
	ErrNotDeletable             = &Error{Kind: NotDeletable}
	ErrDeserialize              = &Error{Kind: DeserializeError}
	ErrMake                     = &Error{Kind: MakeError}
	ErrNotSupportedForDirectory = &Error{Kind: NotSupportedForDirectory}
)

// KindOf returns the kind carried by err, or 0 when err is not an entity error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(op, path string, kind Kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}
