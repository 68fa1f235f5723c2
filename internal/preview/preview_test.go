package preview

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarkdown_Render(t *testing.T) {
	m := NewMarkdown()
	source := []byte("# Hello World\n\nThis is a *test*.")

	result, err := m.Render(source)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(result.HTML, "<h1") || !strings.Contains(result.HTML, "Hello World</h1>") {
		t.Error("expected H1 tag containing 'Hello World' in HTML")
	}
	if !strings.Contains(result.HTML, "<em>test</em>") {
		t.Error("expected italicized test in HTML")
	}
	if result.Title != "Hello World" {
		t.Errorf("expected title Hello World, got %s", result.Title)
	}
}

func TestMarkdown_RawHTMLIsOmitted(t *testing.T) {
	result, err := NewMarkdown().Render([]byte("<script>alert(1)</script>\n"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(result.HTML, "<script>") {
		t.Errorf("raw HTML should not pass through: %s", result.HTML)
	}
}

func TestMarkdown_TOC(t *testing.T) {
	result, err := NewMarkdown().Render([]byte("# Head 1\n## Head *2*\n### Head 3"))
	if err != nil {
		t.Fatal(err)
	}
	want := []TOCItem{
		{Level: 1, Title: "Head 1", Anchor: "head-1"},
		{Level: 2, Title: "Head 2", Anchor: "head-2"},
		{Level: 3, Title: "Head 3", Anchor: "head-3"},
	}
	if diff := cmp.Diff(want, result.TOC); diff != "" {
		t.Errorf("TOC mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAnchor(t *testing.T) {
	tests := []struct {
		input  string
		output string
	}{
		{"Hello World", "hello-world"},
		{"Test! @# Content", "test-content"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"-Start-and-End-", "start-and-end"},
		{"中文标题", "中文标题"},
	}

	for _, tt := range tests {
		got := generateAnchor(tt.input)
		if got != tt.output {
			t.Errorf("generateAnchor(%q) = %q, want %q", tt.input, got, tt.output)
		}
	}
}

func TestSource_Render(t *testing.T) {
	s := NewSource()
	result, err := s.Render("conf/app.php", []byte("<?php\n\nreturn [\n  'debug' => true,\n];"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(result.HTML, "<pre") {
		t.Errorf("expected a <pre> block: %s", result.HTML)
	}
	if !strings.Contains(result.HTML, "debug") {
		t.Error("expected the source text in the output")
	}
	if result.TOC != nil || result.Title != "" {
		t.Error("source previews carry no TOC")
	}

	plain, err := s.Render("notes.unknown-ext", []byte("a < b"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(plain.HTML, "&lt;") {
		t.Errorf("expected escaped plain text: %s", plain.HTML)
	}
}
