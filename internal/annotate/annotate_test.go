package annotate

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docchunk/internal/keywords"
	"github.com/dgallion1/docchunk/internal/tokenize"
)

type brokenWords struct{}

func (brokenWords) Words(string) ([]string, error) { return nil, errors.New("tokenizer offline") }

func newAnnotator(opts Options) *Annotator {
	return New(tokenize.New(nil, nil), nil, opts, nil)
}

func TestHeader_ExactFormat(t *testing.T) {
	m := Metadata{
		Index:       2,
		Total:       3,
		Source:      "report.pdf",
		Method:      "Token-based (~500 tokens per chunk)",
		Tokens:      42,
		Keywords:    []string{"budget", "forecast"},
		HasKeywords: true,
	}
	want := "---\n" +
		"CHUNK: 2/3\n" +
		"SOURCE: report.pdf\n" +
		"CHUNKING_METHOD: Token-based (~500 tokens per chunk)\n" +
		"TOKENS: ~42\n" +
		"KEYWORDS: budget, forecast\n" +
		"---\n\n"
	assert.Equal(t, want, m.Header())

	m.HasKeywords = false
	assert.NotContains(t, m.Header(), "KEYWORDS")
}

func TestAnnotate_WithoutKeywords(t *testing.T) {
	a := newAnnotator(Options{})
	chunks := []string{"alpha beta gamma", "delta"}

	out := a.Annotate(chunks, "notes.txt", "Smart Paragraph (5 max paragraphs per chunk)")
	require.Len(t, out, 2)

	assert.Equal(t, "---\nCHUNK: 1/2\nSOURCE: notes.txt\nCHUNKING_METHOD: Smart Paragraph (5 max paragraphs per chunk)\nTOKENS: ~3\n---\n\nalpha beta gamma", out[0])
	assert.True(t, strings.HasPrefix(out[1], "---\nCHUNK: 2/2\n"))
	assert.True(t, strings.HasSuffix(out[1], "\n---\n\ndelta"))
}

func TestAnnotate_CountsAndOrder(t *testing.T) {
	a := newAnnotator(Options{Keywords: true, MaxKeywords: 3})
	var chunks []string
	for i := range 5 {
		chunks = append(chunks, fmt.Sprintf("chunk number %d about kubernetes", i))
	}

	out := a.Annotate(chunks, "doc.md", "m")
	require.Len(t, out, len(chunks))
	for i, o := range out {
		assert.Contains(t, o, fmt.Sprintf("CHUNK: %d/5\n", i+1))
		assert.True(t, strings.HasSuffix(o, chunks[i]))
		assert.Greater(t, len(o), len(chunks[i]))
	}
}

func TestAnnotate_EmptyChunkStillGetsHeader(t *testing.T) {
	a := newAnnotator(Options{Keywords: true, MaxKeywords: 5})
	out := a.Annotate([]string{""}, "empty.txt", "m")
	require.Len(t, out, 1)
	assert.Equal(t, "---\nCHUNK: 1/1\nSOURCE: empty.txt\nCHUNKING_METHOD: m\nTOKENS: ~0\nKEYWORDS: \n---\n\n", out[0])
}

func TestAnnotate_KeywordLine(t *testing.T) {
	a := newAnnotator(Options{Keywords: true, MaxKeywords: 2})
	out := a.Annotate([]string{"Gopher gopher channel channel channel select"}, "g.txt", "m")
	assert.Contains(t, out[0], "KEYWORDS: channel, gopher\n")
}

func TestAnnotate_KeywordFailureRendersSentinel(t *testing.T) {
	tok := tokenize.New(nil, nil)
	a := New(tok, keywords.New(brokenWords{}), Options{Keywords: true, MaxKeywords: 5}, nil)

	out := a.Annotate([]string{"some text here"}, "x.txt", "m")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "KEYWORDS: Error extracting keywords: tokenizer offline\n")
	assert.Contains(t, out[0], "TOKENS: ~3\n")
}

func TestSourceHeader(t *testing.T) {
	assert.Equal(t, "---\nSOURCE: a.docx\n---\n\nbody text", SourceHeader("a.docx", "body text"))
}

func TestMerge(t *testing.T) {
	docs := []string{"first", "second", "third"}
	assert.Equal(t, "first\n\n---\n\nsecond\n\n---\n\nthird", Merge(docs, true))
	assert.Equal(t, "first\n\nsecond\n\nthird", Merge(docs, false))
	assert.Equal(t, "", Merge(nil, true))
}

func TestJoinChunks(t *testing.T) {
	assert.Equal(t, "a\n\nb", JoinChunks([]string{"a", "b"}))
}
