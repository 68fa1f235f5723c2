package preview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Source highlights source files, choosing a lexer by file name.
type Source struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewSource creates a highlighter using the shared Style.
func NewSource() *Source {
	style := styles.Get(Style)
	if style == nil {
		style = styles.Fallback
	}
	return &Source{
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.WithLineNumbers(true)),
		style:     style,
	}
}

// Render highlights source. Unknown file types get the plain-text lexer.
func (s *Source) Render(name string, source []byte) (*Result, error) {
	lexer := lexers.Match(name)
	if lexer == nil {
		lexer = lexers.Analyse(string(source))
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, string(source))
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if err := s.formatter.Format(&b, s.style, it); err != nil {
		return nil, err
	}
	return &Result{HTML: b.String()}, nil
}
