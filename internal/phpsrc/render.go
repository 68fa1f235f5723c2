// Package phpsrc reads and writes PHP "return-files": documents of the form
// <?php return <literal>; whose only job is to hand a value to an include.
package phpsrc

import (
	"math"
	"strconv"
	"strings"

	"github.com/CageChen/fsentity/internal/value"
)

// Header starts every rendered document.
const Header = "<?php\n\n"

// Render returns the return-file for v.
func Render(v value.Value) []byte {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("return ")
	export(&b, v, "")
	b.WriteString(";")
	return []byte(b.String())
}

// Export renders v as a PHP literal in var_export layout, with short array
// brackets and no trailing whitespace.
func Export(v value.Value) string {
	var b strings.Builder
	export(&b, v, "")
	return b.String()
}

func export(b *strings.Builder, v value.Value, indent string) {
	switch v.Kind() {
	case value.KindNull:
		b.WriteString("NULL")
	case value.KindBool:
		x, _ := v.AsBool()
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.KindInt:
		i, _ := v.AsInt()
		b.WriteString(formatInt(i))
	case value.KindFloat:
		f, _ := v.AsFloat()
		b.WriteString(formatFloat(f, -1, true))
	case value.KindString:
		s, _ := v.AsString()
		b.WriteString(quote(s))
	case value.KindList:
		b.WriteString("[\n")
		for i, item := range v.Items() {
			element(b, strconv.Itoa(i), item, indent)
		}
		b.WriteString(indent + "]")
	case value.KindMap:
		b.WriteString("[\n")
		for _, f := range v.Fields() {
			element(b, quote(f.Key), f.Value, indent)
		}
		b.WriteString(indent + "]")
	}
}

// element writes one "key => value," line of an array opened at indent.
// Nested arrays start on their own line, aligned with the key.
func element(b *strings.Builder, key string, v value.Value, indent string) {
	inner := indent + "  "
	b.WriteString(inner + key + " =>")
	if k := v.Kind(); k == value.KindList || k == value.KindMap {
		b.WriteString("\n" + inner)
		export(b, v, inner)
	} else {
		b.WriteString(" ")
		export(b, v, inner)
	}
	b.WriteString(",\n")
}

func formatInt(i int64) string {
	if i == math.MinInt64 {
		// 9223372036854775808 would read back as a float.
		return "-9223372036854775807-1"
	}
	return strconv.FormatInt(i, 10)
}

// formatFloat formats f the way PHP prints doubles. A negative prec gives the
// shortest round-tripping digits and switches to exponent notation outside
// 1e-4 <= |f| < 1e17; a positive prec rounds to that many significant digits
// and switches past 10^prec. With forceFraction set, integral values keep a
// ".0" so they read back as floats.
func formatFloat(f float64, prec int, forceFraction bool) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}

	limit := 17
	if prec > 0 {
		f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'e', prec-1, 64), 64)
		limit = prec
	}

	if f != 0 {
		exp := strconv.FormatFloat(f, 'e', -1, 64)
		mant, e, _ := strings.Cut(exp, "e")
		n, _ := strconv.Atoi(e)
		if decpt := n + 1; decpt < -3 || decpt > limit {
			if !strings.Contains(mant, ".") {
				mant += ".0"
			}
			sign := "+"
			if n < 0 {
				sign = "-"
				n = -n
			}
			return mant + "E" + sign + strconv.Itoa(n)
		}
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if forceFraction && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quote returns s as a single-quoted PHP string. NUL bytes are spliced in as
// a double-quoted "\0" so the document stays printable.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteByte(c)
		case 0:
			b.WriteString(`' . "\0" . '`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
