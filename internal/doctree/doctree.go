// Package doctree holds the heading tree produced by the parsers and renders
// it back to the normalized Markdown text the chunkers consume.
package doctree

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections, in document order
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Level    int        // Heading level 1-6; 0 means derive from depth
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

const maxHeadingLevel = 6

// Markdown renders the tree as blank-line separated blocks: headings as
// ATX lines, then the node text, then its children. The result is NFC
// normalized with Unix line endings.
func (t *DocTree) Markdown() string {
	var blocks []string
	var walk func(n *DocNode, depth int)
	walk = func(n *DocNode, depth int) {
		if title := strings.TrimSpace(n.Title); title != "" {
			level := n.Level
			if level < 1 {
				level = depth
			}
			level = min(max(level, 1), maxHeadingLevel)
			blocks = append(blocks, strings.Repeat("#", level)+" "+title)
		}
		if text := strings.TrimSpace(n.Text); text != "" {
			blocks = append(blocks, text)
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, n := range t.Children {
		walk(n, 1)
	}
	return Normalize(strings.Join(blocks, "\n\n"))
}

// Normalize converts line endings to "\n" and applies Unicode NFC.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(s)
}

// Walk visits every node depth-first in document order.
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var walk func(n *DocNode, depth int)
	walk = func(n *DocNode, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, n := range t.Children {
		walk(n, 1)
	}
}

// Sections counts titled nodes.
func (t *DocTree) Sections() int {
	count := 0
	t.Walk(func(n *DocNode, _ int) {
		if n.Title != "" {
			count++
		}
	})
	return count
}
