package entity

import (
	"bytes"
	"errors"

	"github.com/CageChen/fsentity/internal/phpsrc"
	"github.com/CageChen/fsentity/internal/value"
)

// Codec converts between the bytes on disk and an entity's in-memory value.
type Codec interface {
	Decode(data []byte) (value.Value, error)
	Encode(v value.Value) ([]byte, error)
}

// SerialCodec is the default codec. Strings are stored verbatim and every
// other value uses the structured encoding.
type SerialCodec struct{}

// Decode never fails: bytes equal to the encoding of false are false, bytes
// that parse as a structured value are that value, and anything else is
// returned as a raw string.
func (SerialCodec) Decode(data []byte) (value.Value, error) {
	if bytes.Equal(data, value.FalseEncoding) {
		return value.Bool(false), nil
	}
	if v, err := value.Decode(data); err == nil {
		return v, nil
	}
	return value.String(string(data)), nil
}

// Encode writes strings verbatim and encodes everything else.
func (SerialCodec) Encode(v value.Value) ([]byte, error) {
	if s, ok := v.AsString(); ok {
		return []byte(s), nil
	}
	return value.Encode(v)
}

// ErrFalseResult reports a source file that evaluated to false, which cannot
// be told apart from a failed evaluation.
var ErrFalseResult = errors.New("source evaluated to false")

// SourceCodec stores values as PHP return-files.
type SourceCodec struct{}

// Decode evaluates data and returns the produced value. A result of false is
// treated as a failure.
func (SourceCodec) Decode(data []byte) (value.Value, error) {
	v, err := phpsrc.Eval(data)
	if err != nil {
		return value.Value{}, err
	}
	if b, ok := v.AsBool(); ok && !b {
		return value.Value{}, ErrFalseResult
	}
	return v, nil
}

// Encode renders v as a return-file.
func (SourceCodec) Encode(v value.Value) ([]byte, error) {
	return phpsrc.Render(v), nil
}

var (
	_ Codec = SerialCodec{}
	_ Codec = SourceCodec{}
)
