package value

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// FalseEncoding is the canonical encoding of Bool(false).
var FalseEncoding = []byte("false")

var api = jsoniter.Config{EscapeHTML: false}.Froze()

// Encode serializes v as JSON. Map fields keep their order and floats always
// carry a fraction or exponent so they decode back as floats. NaN and
// infinities cannot be encoded.
func Encode(v Value) ([]byte, error) {
	stream := jsoniter.NewStream(api, nil, 64)
	if err := writeValue(stream, v); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

func writeValue(stream *jsoniter.Stream, v Value) error {
	switch v.kind {
	case KindNull:
		stream.WriteNil()
	case KindBool:
		stream.WriteBool(v.b)
	case KindInt:
		stream.WriteInt64(v.i)
	case KindFloat:
		s, err := formatFloat(v.f)
		if err != nil {
			return err
		}
		stream.WriteRaw(s)
	case KindString:
		stream.WriteString(v.s)
	case KindList:
		stream.WriteArrayStart()
		for i, item := range v.items {
			if i > 0 {
				stream.WriteMore()
			}
			if err := writeValue(stream, item); err != nil {
				return err
			}
		}
		stream.WriteArrayEnd()
	case KindMap:
		stream.WriteObjectStart()
		for i, f := range v.fields {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(f.Key)
			if err := writeValue(stream, f.Value); err != nil {
				return err
			}
		}
		stream.WriteObjectEnd()
	default:
		return fmt.Errorf("value: unknown kind %d", v.kind)
	}
	return nil
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("value: unsupported float %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}

// Decode parses JSON produced by Encode (or any JSON document) into a Value.
// Object key order is preserved. Numbers without a fraction or exponent
// become Int unless they overflow int64.
func Decode(data []byte) (Value, error) {
	iter := jsoniter.ParseBytes(api, data)
	v, err := readValue(iter)
	if err != nil {
		return Value{}, err
	}
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return Value{}, fmt.Errorf("value: %w", iter.Error)
	}
	if iter.Error == nil {
		// At true end of input the iterator reports io.EOF.
		iter.WhatIsNext()
		if !errors.Is(iter.Error, io.EOF) {
			return Value{}, errors.New("value: unexpected data after top-level value")
		}
	}
	return v, nil
}

func readValue(iter *jsoniter.Iterator) (Value, error) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null(), iterErr(iter)
	case jsoniter.BoolValue:
		b := iter.ReadBool()
		return Bool(b), iterErr(iter)
	case jsoniter.StringValue:
		s := iter.ReadString()
		return String(s), iterErr(iter)
	case jsoniter.NumberValue:
		n := iter.ReadNumber()
		if err := iterErr(iter); err != nil {
			return Value{}, err
		}
		return parseNumber(string(n))
	case jsoniter.ArrayValue:
		items := []Value{}
		var err error
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			var item Value
			item, err = readValue(it)
			if err != nil {
				return false
			}
			items = append(items, item)
			return true
		})
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindList, items: items}, iterErr(iter)
	case jsoniter.ObjectValue:
		var fields []Field
		var err error
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			var item Value
			item, err = readValue(it)
			if err != nil {
				return false
			}
			fields = append(fields, Field{Key: key, Value: item})
			return true
		})
		if err != nil {
			return Value{}, err
		}
		if err := iterErr(iter); err != nil {
			return Value{}, err
		}
		return Map(fields...), nil
	}
	if err := iterErr(iter); err != nil {
		return Value{}, err
	}
	return Value{}, errors.New("value: invalid JSON value")
}

// iterErr reports a decoding failure. io.EOF alone only means the input was
// fully consumed.
func iterErr(iter *jsoniter.Iterator) error {
	if iter.Error == nil || errors.Is(iter.Error, io.EOF) {
		return nil
	}
	return fmt.Errorf("value: %w", iter.Error)
}

func parseNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("value: invalid number %q", s)
	}
	return Float(f), nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) { return Encode(v) }

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
