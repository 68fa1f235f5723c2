package phpsrc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/CageChen/fsentity/internal/value"
)

// SyntaxError reports source that is not a supported return-file.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("phpsrc: %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Eval evaluates a return-file and returns the value it returns.
//
// Only a declarative subset of PHP is understood: an opening tag, comments,
// and one return statement whose operand is built from scalar literals
// (heredoc and nowdoc included), array literals, the constants true, false,
// null, NAN, INF, PHP_INT_MAX, PHP_INT_MIN and PHP_EOL, unary and binary +
// and -, and string concatenation. Arrays keyed 0..n-1 in order become
// lists; any other array becomes a map with string keys.
func Eval(src []byte) (value.Value, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	if err := lx.open(); err != nil {
		return value.Value{}, err
	}
	p := &parser{lx: lx}
	if err := p.next(); err != nil {
		return value.Value{}, err
	}
	return p.program()
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokString
	tokIdent
	tokPunct
	tokClose
)

type token struct {
	kind tokenKind
	text string
	i    int64
	f    float64
	line int
	col  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokClose:
		return "'?>'"
	case tokString:
		return "string literal"
	case tokInt, tokFloat:
		return "number " + t.text
	}
	return "'" + t.text + "'"
}

type lexer struct {
	src  []byte
	pos  int
	line int
	col  int
}

func (l *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: l.line, Col: l.col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(string(l.src[l.pos:]), s)
}

func (l *lexer) advance(n int) {
	for ; n > 0 && l.pos < len(l.src); n-- {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// open consumes everything up to and including the opening tag.
func (l *lexer) open() error {
	if l.hasPrefix("\xef\xbb\xbf") {
		l.pos += 3
	}
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.advance(1)
	}
	if len(l.src)-l.pos < 5 || !strings.EqualFold(string(l.src[l.pos:l.pos+5]), "<?php") {
		return l.errorf("expected opening tag <?php")
	}
	l.advance(5)
	if l.pos < len(l.src) && !isSpace(l.src[l.pos]) {
		return l.errorf("expected whitespace after <?php")
	}
	return nil
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.advance(1)
		case c == '#' || (c == '/' && l.peek(1) == '/'):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && !l.hasPrefix("?>") {
				l.advance(1)
			}
		case c == '/' && l.peek(1) == '*':
			line, col := l.line, l.col
			l.advance(2)
			for !l.hasPrefix("*/") {
				if l.pos >= len(l.src) {
					return &SyntaxError{Line: line, Col: col, Msg: "unterminated comment"}
				}
				l.advance(1)
			}
			l.advance(2)
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	tok := token{line: l.line, col: l.col}
	if l.pos >= len(l.src) {
		tok.kind = tokEOF
		return tok, nil
	}

	c := l.src[l.pos]
	switch {
	case l.hasPrefix("?>"):
		l.advance(2)
		tok.kind = tokClose
		return tok, nil
	case l.hasPrefix("=>"):
		l.advance(2)
		tok.kind, tok.text = tokPunct, "=>"
		return tok, nil
	case c == '.' && isDigit(l.peek(1)):
		return l.number(tok)
	case strings.IndexByte("[](),;+-.", c) >= 0:
		l.advance(1)
		tok.kind, tok.text = tokPunct, string(c)
		return tok, nil
	case isDigit(c):
		return l.number(tok)
	case l.hasPrefix("<<<"):
		return l.heredoc(tok)
	case c == '\'':
		return l.singleQuoted(tok)
	case c == '"':
		return l.doubleQuoted(tok)
	case c == '\\' || isIdentStart(c):
		start := l.pos
		l.advance(1)
		for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '\\') {
			l.advance(1)
		}
		tok.kind, tok.text = tokIdent, string(l.src[start:l.pos])
		return tok, nil
	case c == '$':
		return tok, l.errorf("variables are not supported")
	}
	return tok, l.errorf("unexpected character %q", c)
}

func (l *lexer) digits(valid func(byte) bool) (string, error) {
	start := l.pos
	for l.pos < len(l.src) && (valid(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.advance(1)
	}
	s := string(l.src[start:l.pos])
	if strings.HasSuffix(s, "_") || strings.Contains(s, "__") || strings.HasPrefix(s, "_") {
		return "", l.errorf("invalid numeric literal separator")
	}
	return strings.ReplaceAll(s, "_", ""), nil
}

func (l *lexer) number(tok token) (token, error) {
	if l.peek(0) == '0' {
		base, valid := 0, func(byte) bool { return false }
		switch l.peek(1) {
		case 'x', 'X':
			base, valid = 16, isHex
		case 'b', 'B':
			base, valid = 2, func(c byte) bool { return c == '0' || c == '1' }
		case 'o', 'O':
			base, valid = 8, isOctal
		}
		if base != 0 {
			l.advance(2)
			ds, err := l.digits(valid)
			if err != nil {
				return tok, err
			}
			if ds == "" {
				return tok, l.errorf("invalid numeric literal")
			}
			return l.integer(tok, ds, base)
		}
	}

	start := l.pos
	intPart, err := l.digits(isDigit)
	if err != nil {
		return tok, err
	}
	text := intPart
	isFloat := false
	if l.peek(0) == '.' && l.peek(1) != '.' {
		isFloat = true
		l.advance(1)
		frac, err := l.digits(isDigit)
		if err != nil {
			return tok, err
		}
		text += "." + frac
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		off := 1
		if s := l.peek(1); s == '+' || s == '-' {
			off = 2
		}
		if isDigit(l.peek(off)) {
			isFloat = true
			text += string(l.src[l.pos : l.pos+off])
			l.advance(off)
			exp, err := l.digits(isDigit)
			if err != nil {
				return tok, err
			}
			text += exp
		}
	}
	if isIdentStart(l.peek(0)) {
		return tok, l.errorf("invalid numeric literal %q", string(l.src[start:l.pos+1]))
	}

	if isFloat {
		if strings.HasPrefix(text, ".") {
			text = "0" + text
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return tok, l.errorf("invalid numeric literal %q", text)
		}
		tok.kind, tok.f, tok.text = tokFloat, f, text
		return tok, nil
	}
	if len(text) > 1 && text[0] == '0' {
		for i := 1; i < len(text); i++ {
			if !isOctal(text[i]) {
				return tok, l.errorf("invalid numeric literal %q", text)
			}
		}
		return l.integer(tok, text[1:], 8)
	}
	return l.integer(tok, text, 10)
}

// integer converts digits in base; values beyond int64 become floats.
func (l *lexer) integer(tok token, ds string, base int) (token, error) {
	tok.text = ds
	if i, err := strconv.ParseInt(ds, base, 64); err == nil {
		tok.kind, tok.i = tokInt, i
		return tok, nil
	}
	if base == 10 {
		f, _ := strconv.ParseFloat(ds, 64)
		tok.kind, tok.f = tokFloat, f
		return tok, nil
	}
	f := 0.0
	for _, c := range ds {
		d, _ := strconv.ParseInt(string(c), base, 64)
		f = f*float64(base) + float64(d)
	}
	tok.kind, tok.f = tokFloat, f
	return tok, nil
}

func (l *lexer) singleQuoted(tok token) (token, error) {
	l.advance(1)
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return tok, &SyntaxError{Line: tok.line, Col: tok.col, Msg: "unterminated string"}
		}
		c := l.src[l.pos]
		switch {
		case c == '\'':
			l.advance(1)
			tok.kind, tok.text = tokString, b.String()
			return tok, nil
		case c == '\\' && (l.peek(1) == '\\' || l.peek(1) == '\''):
			b.WriteByte(l.peek(1))
			l.advance(2)
		default:
			b.WriteByte(c)
			l.advance(1)
		}
	}
}

func (l *lexer) doubleQuoted(tok token) (token, error) {
	l.advance(1)
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		if l.src[l.pos] == '\\' {
			l.advance(2)
			continue
		}
		l.advance(1)
	}
	if l.pos >= len(l.src) {
		return tok, &SyntaxError{Line: tok.line, Col: tok.col, Msg: "unterminated string"}
	}
	raw := string(l.src[start:l.pos])
	l.advance(1)
	s, err := unescape(raw, '"')
	if err != nil {
		return tok, &SyntaxError{Line: tok.line, Col: tok.col, Msg: err.Error()}
	}
	tok.kind, tok.text = tokString, s
	return tok, nil
}

// heredoc reads a heredoc or nowdoc literal. The closing label may be
// indented, and that indentation is removed from every body line.
func (l *lexer) heredoc(tok token) (token, error) {
	l.advance(3)
	for l.peek(0) == ' ' || l.peek(0) == '\t' {
		l.advance(1)
	}
	quote := l.peek(0)
	if quote == '\'' || quote == '"' {
		l.advance(1)
	} else {
		quote = 0
	}
	start := l.pos
	if isIdentStart(l.peek(0)) {
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.advance(1)
		}
	}
	label := string(l.src[start:l.pos])
	if label == "" {
		return tok, l.errorf("invalid heredoc label")
	}
	if quote != 0 {
		if l.peek(0) != quote {
			return tok, l.errorf("unterminated heredoc label")
		}
		l.advance(1)
	}
	if l.peek(0) == '\r' {
		l.advance(1)
	}
	if l.peek(0) != '\n' {
		return tok, l.errorf("expected newline after heredoc label")
	}
	l.advance(1)

	var lines []string
	for l.pos < len(l.src) {
		line := string(l.src[l.pos:])
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, label) && (len(trimmed) == len(label) || !isIdentPart(trimmed[len(label)])) {
			indent := line[:len(line)-len(trimmed)]
			l.advance(len(indent) + len(label))
			body, err := dedent(lines, indent)
			if err == nil && quote != '\'' {
				body, err = unescape(body, 0)
			}
			if err != nil {
				return tok, &SyntaxError{Line: tok.line, Col: tok.col, Msg: err.Error()}
			}
			tok.kind, tok.text = tokString, body
			return tok, nil
		}
		lines = append(lines, line)
		l.advance(len(line) + 1)
	}
	return tok, &SyntaxError{Line: tok.line, Col: tok.col, Msg: "unterminated heredoc"}
}

// dedent joins heredoc body lines after stripping the closing label's
// indentation. The newline before the closing label is not part of the body.
func dedent(lines []string, indent string) (string, error) {
	if n := len(lines); n > 0 {
		lines[n-1] = strings.TrimSuffix(lines[n-1], "\r")
	}
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, indent):
			lines[i] = line[len(indent):]
		case strings.Trim(line, " \t\r") == "":
			lines[i] = strings.TrimLeft(line, " \t")
		default:
			return "", fmt.Errorf("invalid body indentation level (expecting at least %d)", len(indent))
		}
	}
	return strings.Join(lines, "\n"), nil
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'v': '\v', 'e': 0x1b, 'f': '\f',
	'\\': '\\', '$': '$', '"': '"',
}

var errInterpolation = errors.New("string interpolation is not supported")

// unescape decodes a double-quoted or heredoc body. quote is the delimiter
// that may be escaped, or 0 for heredocs where \" stays as written.
func unescape(raw string, quote byte) (string, error) {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		next := byte(0)
		if i+1 < len(raw) {
			next = raw[i+1]
		}
		switch {
		case c == '$' && (isIdentStart(next) || next == '{'), c == '{' && next == '$':
			return "", errInterpolation
		case c != '\\' || next == 0:
			b.WriteByte(c)
			continue
		}
		if r, ok := simpleEscapes[next]; ok && (next != '"' || quote == '"') {
			b.WriteByte(r)
			i++
			continue
		}
		switch {
		case isOctal(next):
			n := 1
			for n < 3 && i+1+n < len(raw) && isOctal(raw[i+1+n]) {
				n++
			}
			v, _ := strconv.ParseUint(raw[i+1:i+1+n], 8, 16)
			b.WriteByte(byte(v))
			i += n
		case next == 'x' && i+2 < len(raw) && isHex(raw[i+2]):
			n := 1
			if i+3 < len(raw) && isHex(raw[i+3]) {
				n = 2
			}
			v, _ := strconv.ParseUint(raw[i+2:i+2+n], 16, 8)
			b.WriteByte(byte(v))
			i += 1 + n
		case next == 'u' && i+2 < len(raw) && raw[i+2] == '{':
			end := strings.IndexByte(raw[i+3:], '}')
			if end <= 0 {
				return "", errors.New("invalid unicode escape")
			}
			v, err := strconv.ParseUint(raw[i+3:i+3+end], 16, 32)
			if err != nil || v > utf8.MaxRune {
				return "", errors.New("invalid unicode escape")
			}
			b.WriteRune(rune(v))
			i += 3 + end
		default:
			b.WriteByte('\\')
		}
	}
	return b.String(), nil
}

type parser struct {
	lx  *lexer
	tok token
}

func (p *parser) next() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) is(punct string) bool {
	return p.tok.kind == tokPunct && p.tok.text == punct
}

func (p *parser) expect(punct string) error {
	if !p.is(punct) {
		return p.errorf("expected '%s', found %s", punct, p.tok)
	}
	return p.next()
}

func (p *parser) program() (value.Value, error) {
	if p.tok.kind != tokIdent || !strings.EqualFold(p.tok.text, "return") {
		return value.Value{}, p.errorf("expected return statement, found %s", p.tok)
	}
	if err := p.next(); err != nil {
		return value.Value{}, err
	}
	v := value.Null()
	if !p.is(";") && p.tok.kind != tokClose {
		var err error
		if v, err = p.concat(); err != nil {
			return value.Value{}, err
		}
	}

	switch {
	case p.tok.kind == tokClose:
		return v, nil
	case p.is(";"):
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
	default:
		return value.Value{}, p.errorf("expected ';', found %s", p.tok)
	}
	if p.tok.kind != tokEOF && p.tok.kind != tokClose {
		return value.Value{}, p.errorf("unexpected %s after return statement", p.tok)
	}
	return v, nil
}

// concat := additive ('.' additive)*
func (p *parser) concat() (value.Value, error) {
	left, err := p.additive()
	if err != nil {
		return value.Value{}, err
	}
	for p.is(".") {
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
		right, err := p.additive()
		if err != nil {
			return value.Value{}, err
		}
		ls, err := p.toString(left)
		if err != nil {
			return value.Value{}, err
		}
		rs, err := p.toString(right)
		if err != nil {
			return value.Value{}, err
		}
		left = value.String(ls + rs)
	}
	return left, nil
}

// additive := unary (('+' | '-') unary)*
func (p *parser) additive() (value.Value, error) {
	left, err := p.unary()
	if err != nil {
		return value.Value{}, err
	}
	for p.is("+") || p.is("-") {
		op := p.tok.text
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
		right, err := p.unary()
		if err != nil {
			return value.Value{}, err
		}
		if left, err = p.arith(op, left, right); err != nil {
			return value.Value{}, err
		}
	}
	return left, nil
}

// unary := ('+' | '-') unary | primary
func (p *parser) unary() (value.Value, error) {
	if p.is("+") || p.is("-") {
		op := p.tok.text
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
		v, err := p.unary()
		if err != nil {
			return value.Value{}, err
		}
		n, err := p.toNumber(v)
		if err != nil || op == "+" {
			return n, err
		}
		if f, ok := n.AsFloat(); ok && n.Kind() == value.KindFloat {
			return value.Float(-f), nil
		}
		return p.arith("-", value.Int(0), n)
	}
	return p.primary()
}

func (p *parser) primary() (value.Value, error) {
	tok := p.tok
	switch tok.kind {
	case tokInt:
		return value.Int(tok.i), p.next()
	case tokFloat:
		return value.Float(tok.f), p.next()
	case tokString:
		return value.String(tok.text), p.next()
	case tokIdent:
		return p.ident()
	case tokPunct:
		switch tok.text {
		case "[":
			if err := p.next(); err != nil {
				return value.Value{}, err
			}
			return p.elements("]")
		case "(":
			if err := p.next(); err != nil {
				return value.Value{}, err
			}
			v, err := p.concat()
			if err != nil {
				return value.Value{}, err
			}
			return v, p.expect(")")
		}
	}
	return value.Value{}, p.errorf("unexpected %s", tok)
}

func (p *parser) ident() (value.Value, error) {
	name := strings.TrimPrefix(p.tok.text, "\\")
	var v value.Value
	switch strings.ToLower(name) {
	case "true":
		v = value.Bool(true)
	case "false":
		v = value.Bool(false)
	case "null":
		v = value.Null()
	case "array":
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
		if err := p.expect("("); err != nil {
			return value.Value{}, err
		}
		return p.elements(")")
	default:
		switch name {
		case "NAN":
			v = value.Float(math.NaN())
		case "INF":
			v = value.Float(math.Inf(1))
		case "PHP_INT_MAX":
			v = value.Int(math.MaxInt64)
		case "PHP_INT_MIN":
			v = value.Int(math.MinInt64)
		case "PHP_EOL":
			v = value.String("\n")
		default:
			return value.Value{}, p.errorf("unsupported identifier %q", p.tok.text)
		}
	}
	return v, p.next()
}

// elements parses array elements up to and including the closing bracket.
func (p *parser) elements(closing string) (value.Value, error) {
	arr := newArray()
	for !p.is(closing) {
		line, col := p.tok.line, p.tok.col
		first, err := p.concat()
		if err != nil {
			return value.Value{}, err
		}
		if p.is("=>") {
			if err := p.next(); err != nil {
				return value.Value{}, err
			}
			v, err := p.concat()
			if err != nil {
				return value.Value{}, err
			}
			key, ok := toKey(first)
			if !ok {
				return value.Value{}, &SyntaxError{Line: line, Col: col, Msg: "illegal array key of type " + first.Kind().String()}
			}
			arr.set(key, v)
		} else if !arr.push(first) {
			return value.Value{}, &SyntaxError{Line: line, Col: col, Msg: "cannot append: next array index is out of range"}
		}

		if p.is(",") {
			if err := p.next(); err != nil {
				return value.Value{}, err
			}
			continue
		}
		if !p.is(closing) {
			return value.Value{}, p.errorf("expected ',' or '%s', found %s", closing, p.tok)
		}
	}
	return arr.value(), p.next()
}

func (p *parser) toNumber(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindInt, value.KindFloat:
		return v, nil
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case value.KindNull:
		return value.Int(0), nil
	}
	return value.Value{}, p.errorf("unsupported operand of type %s", v.Kind())
}

func (p *parser) arith(op string, a, b value.Value) (value.Value, error) {
	a, err := p.toNumber(a)
	if err != nil {
		return value.Value{}, err
	}
	b, err = p.toNumber(b)
	if err != nil {
		return value.Value{}, err
	}
	ai, aInt := a.AsInt()
	bi, bInt := b.AsInt()
	if aInt && bInt {
		if op == "+" {
			if r := ai + bi; (r > ai) == (bi > 0) {
				return value.Int(r), nil
			}
		} else if r := ai - bi; (r < ai) == (bi > 0) {
			return value.Int(r), nil
		}
	}
	af, _ := a.AsFloat()
	bf, _ := b.AsFloat()
	if op == "+" {
		return value.Float(af + bf), nil
	}
	return value.Float(af - bf), nil
}

func (p *parser) toString(v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return s, nil
	case value.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10), nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return formatFloat(f, 14, false), nil
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return "1", nil
		}
		return "", nil
	case value.KindNull:
		return "", nil
	}
	return "", p.errorf("cannot convert %s to string", v.Kind())
}

type arrayKey struct {
	isInt bool
	i     int64
	s     string
}

type array struct {
	keys  []arrayKey
	vals  []value.Value
	index map[arrayKey]int
	next  int64
	full  bool
}

func newArray() *array {
	return &array{index: map[arrayKey]int{}}
}

func (a *array) set(k arrayKey, v value.Value) {
	if k.isInt && k.i >= a.next {
		if k.i == math.MaxInt64 {
			a.full = true
		} else {
			a.next = k.i + 1
		}
	}
	if i, ok := a.index[k]; ok {
		a.vals[i] = v
		return
	}
	a.index[k] = len(a.keys)
	a.keys = append(a.keys, k)
	a.vals = append(a.vals, v)
}

func (a *array) push(v value.Value) bool {
	if a.full {
		return false
	}
	a.set(arrayKey{isInt: true, i: a.next}, v)
	return true
}

func (a *array) value() value.Value {
	isList := true
	for i, k := range a.keys {
		if !k.isInt || k.i != int64(i) {
			isList = false
			break
		}
	}
	if isList {
		return value.List(a.vals...)
	}
	fields := make([]value.Field, len(a.keys))
	for i, k := range a.keys {
		key := k.s
		if k.isInt {
			key = strconv.FormatInt(k.i, 10)
		}
		fields[i] = value.Field{Key: key, Value: a.vals[i]}
	}
	return value.Map(fields...)
}

// toKey casts an array key the way PHP does: decimal integer strings become
// integers, bools become 0 or 1, floats are truncated and null becomes "".
func toKey(v value.Value) (arrayKey, bool) {
	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		return arrayKey{isInt: true, i: i}, true
	case value.KindString:
		s, _ := v.AsString()
		if i, ok := decimalKey(s); ok {
			return arrayKey{isInt: true, i: i}, true
		}
		return arrayKey{s: s}, true
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return arrayKey{isInt: true, i: 1}, true
		}
		return arrayKey{isInt: true}, true
	case value.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return arrayKey{}, false
		}
		return arrayKey{isInt: true, i: int64(f)}, true
	case value.KindNull:
		return arrayKey{s: ""}, true
	}
	return arrayKey{}, false
}

func decimalKey(s string) (int64, bool) {
	if s == "" || s == "-0" || (len(s) > 1 && s[0] == '0') || (len(s) > 2 && s[0] == '-' && s[1] == '0') {
		return 0, false
	}
	for i, c := range []byte(s) {
		if !isDigit(c) && !(i == 0 && c == '-' && len(s) > 1) {
			return 0, false
		}
	}
	i, err := strconv.ParseInt(s, 10, 64)
	return i, err == nil
}

func isSpace(c byte) bool   { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool   { return c >= '0' && c <= '9' }
func isOctal(c byte) bool   { return c >= '0' && c <= '7' }
func isHex(c byte) bool     { return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') }
func isIdentStart(c byte) bool {
	return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}
func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
