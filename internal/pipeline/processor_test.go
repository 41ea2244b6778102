package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docchunk/internal/annotate"
	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/dgallion1/docchunk/internal/similarity"
	"github.com/dgallion1/docchunk/internal/tokenize"
)

func newTestProcessor(maxConcurrent int) *Processor {
	ch := chunker.New(tokenize.New(nil, nil), similarity.NewTFIDF(), nil)
	return NewProcessor(ch, parser.Options{}, maxConcurrent, nil)
}

func paragraphOptions(metadata bool) Options {
	return Options{
		Chunking: true,
		Config:   chunker.Config{Method: chunker.MethodParagraph, MaxParagraphs: 1},
		Metadata: metadata,
	}
}

func TestRender_ChunkedWithMetadata(t *testing.T) {
	p := newTestProcessor(1)
	out := p.Render(Document{Name: "notes.txt", Text: "First para.\n\nSecond para."}, paragraphOptions(true))

	want := "---\nCHUNK: 1/2\nSOURCE: notes.txt\nCHUNKING_METHOD: Smart Paragraph (1 max paragraphs per chunk)\nTOKENS: ~2\n---\n\nFirst para." +
		"\n\n" +
		"---\nCHUNK: 2/2\nSOURCE: notes.txt\nCHUNKING_METHOD: Smart Paragraph (1 max paragraphs per chunk)\nTOKENS: ~2\n---\n\nSecond para."
	assert.Equal(t, want, out.Content)
	assert.Equal(t, "notes.md", out.Name)
	assert.Equal(t, 2, out.Chunks)
	assert.Equal(t, len(want), out.Bytes)
	assert.Equal(t, ContentHashHex([]byte("First para.\n\nSecond para.")), out.ContentHash)
}

func TestRender_ChunkedWithoutMetadata(t *testing.T) {
	p := newTestProcessor(1)
	out := p.Render(Document{Name: "n.txt", Text: "A.\n\nB."}, paragraphOptions(false))
	assert.Equal(t, "A.\n\nB.", out.Content)
}

func TestRender_Unchunked(t *testing.T) {
	p := newTestProcessor(1)
	doc := Document{Name: "report.pdf", Text: "Whole body."}

	out := p.Render(doc, Options{Chunking: false, Metadata: true})
	assert.Equal(t, "---\nSOURCE: report.pdf\n---\n\nWhole body.", out.Content)
	assert.Equal(t, 1, out.Chunks)

	out = p.Render(doc, Options{Chunking: false, Metadata: false})
	assert.Equal(t, "Whole body.", out.Content)
}

func TestRender_Keywords(t *testing.T) {
	p := newTestProcessor(1)
	opts := paragraphOptions(true)
	opts.Annotate = annotate.Options{Keywords: true, MaxKeywords: 2}

	out := p.Render(Document{Name: "k.txt", Text: "gopher gopher channel"}, opts)
	assert.Contains(t, out.Content, "KEYWORDS: gopher, channel\n")
}

func TestProcess_MergesInInputOrder(t *testing.T) {
	p := newTestProcessor(4)
	var docs []Document
	for _, name := range []string{"c.txt", "a.txt", "b.txt", "d.txt", "e.txt"} {
		docs = append(docs, Document{Name: name, Text: "Body of " + name})
	}

	res, err := p.Process(context.Background(), docs, paragraphOptions(false))
	require.NoError(t, err)
	require.Len(t, res.Outputs, 5)
	for i, o := range res.Outputs {
		assert.Equal(t, docs[i].Name, o.Source)
	}
	assert.Equal(t, "Body of c.txt\n\nBody of a.txt\n\nBody of b.txt\n\nBody of d.txt\n\nBody of e.txt", res.Merged)

	res, err = p.Process(context.Background(), docs[:2], Options{Chunking: false, Metadata: true})
	require.NoError(t, err)
	assert.Equal(t, "---\nSOURCE: c.txt\n---\n\nBody of c.txt\n\n---\n\n---\nSOURCE: a.txt\n---\n\nBody of a.txt", res.Merged)
}

func TestProcess_UniqueOutputNames(t *testing.T) {
	p := newTestProcessor(2)
	docs := []Document{{Name: "a.txt", Text: "x"}, {Name: "a.md", Text: "y"}, {Name: "dir/a.csv", Text: "z"}}

	res, err := p.Process(context.Background(), docs, paragraphOptions(false))
	require.NoError(t, err)
	var names []string
	for _, o := range res.Outputs {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"a.md", "a-2.md", "a-3.md"}, names)

	o, ok := res.Lookup("a-2.md")
	require.True(t, ok)
	assert.Equal(t, "y", o.Content)
	_, ok = res.Lookup("missing.md")
	assert.False(t, ok)
}

func TestProcess_InvalidOptions(t *testing.T) {
	p := newTestProcessor(1)
	_, err := p.Process(context.Background(), []Document{{Name: "a.txt"}}, Options{
		Chunking: true,
		Config:   chunker.Config{Method: "bogus", MaxTokens: 10},
	})
	assert.Error(t, err)
}

func TestProcess_CancelledContext(t *testing.T) {
	p := newTestProcessor(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, []Document{{Name: "a.txt", Text: "x"}}, paragraphOptions(false))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_RecordsStats(t *testing.T) {
	p := newTestProcessor(2)
	docs := []Document{{Name: "a.txt", Text: strings.Repeat("word ", 50)}, {Name: "b.txt", Text: "short"}}
	_, err := p.Process(context.Background(), docs, paragraphOptions(true))
	require.NoError(t, err)
	snap := p.Stats().Snapshot()
	assert.Equal(t, 2, snap.Documents)
	assert.Equal(t, map[string]int{"paragraph": 2}, snap.ByMethod)
	assert.Equal(t, 2, snap.Chunks)
}

func TestParse(t *testing.T) {
	p := newTestProcessor(1)
	doc, err := p.Parse(File{Name: "page.html", Data: []byte("<title>T</title><p>Hello</p>")})
	require.NoError(t, err)
	assert.Equal(t, Document{Name: "page.html", Text: "# T\n\nHello"}, doc)

	_, err = p.Parse(File{Name: "deck.pptx", Data: []byte("x")})
	assert.ErrorIs(t, err, parser.ErrUnsupported)
}
