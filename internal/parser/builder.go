package parser

import (
	"strings"

	"github.com/dgallion1/docchunk/internal/doctree"
)

type stackEntry struct {
	node  *doctree.DocNode
	level int
}

// treeBuilder nests headings by level and attaches text blocks to the most
// recent heading. Text before the first heading is kept as an untitled
// leading node.
type treeBuilder struct {
	title   string
	root    *doctree.DocNode
	stack   []stackEntry
	pending strings.Builder
	inList  bool
}

func newTreeBuilder(title string) *treeBuilder {
	root := &doctree.DocNode{}
	return &treeBuilder{
		title: title,
		root:  root,
		stack: []stackEntry{{node: root, level: 0}},
	}
}

// heading starts a new section at level (1-6).
func (b *treeBuilder) heading(title string, level int) {
	b.flush()
	node := &doctree.DocNode{Title: title, Level: level}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, stackEntry{node: node, level: level})
}

// block appends a paragraph-level block.
func (b *treeBuilder) block(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.pending.Len() > 0 {
		b.pending.WriteString("\n\n")
	}
	b.pending.WriteString(text)
	b.inList = false
}

// item appends a list line. Consecutive items share one block.
func (b *treeBuilder) item(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.pending.Len() > 0 {
		if b.inList {
			b.pending.WriteString("\n")
		} else {
			b.pending.WriteString("\n\n")
		}
	}
	b.pending.WriteString("- " + text)
	b.inList = true
}

func (b *treeBuilder) flush() {
	t := strings.TrimSpace(b.pending.String())
	if t != "" {
		top := b.stack[len(b.stack)-1].node
		if top.Text != "" {
			top.Text += "\n\n" + t
		} else {
			top.Text = t
		}
	}
	b.pending.Reset()
	b.inList = false
}

func (b *treeBuilder) tree() *doctree.DocTree {
	b.flush()
	tree := &doctree.DocTree{Title: b.title, Children: b.root.Children}
	if b.root.Text != "" {
		lead := &doctree.DocNode{Text: b.root.Text}
		tree.Children = append([]*doctree.DocNode{lead}, tree.Children...)
	}
	return tree
}
