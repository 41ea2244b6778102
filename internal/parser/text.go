package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docchunk/internal/doctree"
)

// TextParser handles plain text and text-like data files (JSON, XML, YAML).
// Paragraphs are blank-line delimited; line breaks inside a paragraph are
// kept.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	b := newTreeBuilder(baseName(filename))
	var current strings.Builder

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				b.block(current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		b.block(current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.tree(), nil
}
