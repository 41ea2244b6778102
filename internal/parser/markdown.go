package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docchunk/internal/doctree"
)

// MarkdownParser handles Markdown files using goldmark. Only top-level
// headings split sections; everything between them is kept as source text so
// lists, tables and code fences survive unchanged.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	b := newTreeBuilder(baseName(filename))
	offset := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		start, end, ok := headingSpan(heading, src)
		if !ok || start < offset {
			continue
		}
		b.block(string(src[offset:start]))
		b.heading(strings.TrimSpace(string(heading.Text(src))), heading.Level)
		offset = end
	}
	b.block(string(src[offset:]))

	return b.tree(), nil
}

// headingSpan returns the byte range of a heading's source lines, including
// the underline of a setext heading.
func headingSpan(h *ast.Heading, src []byte) (start, end int, ok bool) {
	lines := h.Lines()
	if lines.Len() == 0 {
		return 0, 0, false
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	start = bytes.LastIndexByte(src[:first.Start], '\n') + 1
	end = lineEnd(src, last.Stop)

	atx := bytes.IndexByte(src[start:first.Start], '#') >= 0
	if !atx && end < len(src) {
		next := lineEnd(src, end+1)
		if underline := strings.TrimSpace(string(src[end+1 : next])); isSetextUnderline(underline) {
			end = next
		}
	}
	return start, end, true
}

func lineEnd(src []byte, from int) int {
	if from >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(src)
}

func isSetextUnderline(s string) bool {
	return s != "" && (strings.Trim(s, "=") == "" || strings.Trim(s, "-") == "")
}
