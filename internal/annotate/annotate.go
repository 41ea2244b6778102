// Package annotate wraps chunks with metadata headers and assembles the
// per-document and merged output views.
package annotate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docchunk/internal/keywords"
	"github.com/dgallion1/docchunk/internal/tokenize"
)

// Separators for assembled output.
const (
	ChunkSeparator       = "\n\n"
	MergedSeparator      = "\n\n---\n\n"
	MergedPlainSeparator = "\n\n"
)

const (
	headerDelimiter   = "---"
	keywordsSeparator = ", "
)

// Options controls what goes into a chunk header.
type Options struct {
	Keywords    bool `json:"keywords"`
	MaxKeywords int  `json:"max_keywords" validate:"gte=0,lte=100"`
}

// Metadata describes one chunk. Index is 1-based.
type Metadata struct {
	Index    int
	Total    int
	Source   string
	Method   string
	Tokens   int
	Keywords []string
	// HasKeywords is false when extraction is disabled, which omits the
	// KEYWORDS line entirely. An enabled but empty result still prints it.
	HasKeywords bool
}

// Header renders the metadata block that precedes a chunk body.
func (m Metadata) Header() string {
	var b strings.Builder
	b.WriteString(headerDelimiter + "\n")
	fmt.Fprintf(&b, "CHUNK: %d/%d\n", m.Index, m.Total)
	fmt.Fprintf(&b, "SOURCE: %s\n", m.Source)
	fmt.Fprintf(&b, "CHUNKING_METHOD: %s\n", m.Method)
	fmt.Fprintf(&b, "TOKENS: ~%d\n", m.Tokens)
	if m.HasKeywords {
		fmt.Fprintf(&b, "KEYWORDS: %s\n", strings.Join(m.Keywords, keywordsSeparator))
	}
	b.WriteString(headerDelimiter + "\n\n")
	return b.String()
}

// Annotator prefixes chunks with metadata headers. It is safe for concurrent
// use.
type Annotator struct {
	tok  *tokenize.Adapter
	kw   *keywords.Extractor
	opts Options
	log  *slog.Logger
}

// New creates an Annotator. A nil extractor is built from tok.
func New(tok *tokenize.Adapter, kw *keywords.Extractor, opts Options, log *slog.Logger) *Annotator {
	if log == nil {
		log = slog.Default()
	}
	if tok == nil {
		tok = tokenize.NewDefault(log)
	}
	if kw == nil {
		kw = keywords.New(tok)
	}
	return &Annotator{
		tok:  tok,
		kw:   kw,
		opts: opts,
		log:  log.With("component", "annotate"),
	}
}

// Metadata computes the header fields for chunk i (0-based) of total.
func (a *Annotator) Metadata(chunk string, i, total int, source, method string) Metadata {
	m := Metadata{
		Index:  i + 1,
		Total:  total,
		Source: source,
		Method: method,
		Tokens: a.tok.CountTokens(chunk),
	}
	if a.opts.Keywords {
		res := a.kw.Extract(chunk, a.opts.MaxKeywords)
		if res.Failed() {
			a.log.Warn("keyword extraction failed", "source", source, "chunk", m.Index, "error", res.Err)
		}
		m.Keywords = res.Strings()
		m.HasKeywords = true
	}
	return m
}

// Annotate returns each chunk prefixed with its header, in the same order.
func (a *Annotator) Annotate(chunks []string, source, method string) []string {
	out := make([]string, len(chunks))
	for i, chunk := range chunks {
		out[i] = a.Metadata(chunk, i, len(chunks), source, method).Header() + chunk
	}
	return out
}

// SourceHeader is the short header used when a document is not chunked.
func SourceHeader(source, body string) string {
	return headerDelimiter + "\nSOURCE: " + source + "\n" + headerDelimiter + "\n\n" + body
}

// JoinChunks assembles one document's output from its (possibly annotated)
// chunks.
func JoinChunks(chunks []string) string {
	return strings.Join(chunks, ChunkSeparator)
}

// Merge joins per-document outputs in the order given. With metadata on,
// documents are separated by a horizontal rule.
func Merge(outputs []string, metadata bool) string {
	if metadata {
		return strings.Join(outputs, MergedSeparator)
	}
	return strings.Join(outputs, MergedPlainSeparator)
}
