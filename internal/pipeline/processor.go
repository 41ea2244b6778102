package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docchunk/internal/annotate"
	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/keywords"
	"github.com/dgallion1/docchunk/internal/parser"
)

// Processor parses, chunks and annotates documents. It is safe for
// concurrent use.
type Processor struct {
	chunker       *chunker.Chunker
	keywords      *keywords.Extractor
	parserOpts    parser.Options
	maxConcurrent int
	stats         *Stats
	log           *slog.Logger
}

func NewProcessor(ch *chunker.Chunker, parserOpts parser.Options, maxConcurrent int, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Processor{
		chunker:       ch,
		keywords:      keywords.New(ch.Tokenizer()),
		parserOpts:    parserOpts,
		maxConcurrent: maxConcurrent,
		stats:         NewStats(time.Hour),
		log:           log.With("component", "pipeline"),
	}
}

// Stats returns the rolling render statistics.
func (p *Processor) Stats() *Stats {
	return p.stats
}

// Parse normalizes a raw file into a Document.
func (p *Processor) Parse(f File) (Document, error) {
	text, err := parser.Normalize(bytes.NewReader(f.Data), f.Name, p.parserOpts)
	if err != nil {
		return Document{}, err
	}
	return Document{Name: f.Name, Text: text}, nil
}

// Chunks returns the rendered chunks of one document: annotated when
// metadata is on, or the whole document as a single entry when chunking is
// off.
func (p *Processor) Chunks(doc Document, opts Options) []string {
	if !opts.Chunking {
		if opts.Metadata {
			return []string{annotate.SourceHeader(doc.Name, doc.Text)}
		}
		return []string{doc.Text}
	}

	chunks := p.chunker.Chunk(doc.Text, opts.Config)
	if opts.Metadata {
		a := annotate.New(p.chunker.Tokenizer(), p.keywords, opts.Annotate, p.log)
		chunks = a.Annotate(chunks, doc.Name, opts.Config.Describe())
	}
	p.log.Debug("chunked document", "source", doc.Name, "chunks", len(chunks), "method", opts.Config.Method)
	return chunks
}

// Render chunks and annotates one document. It never fails: chunking has no
// error path and keyword failures are rendered inline.
func (p *Processor) Render(doc Document, opts Options) Output {
	start := time.Now()
	chunks := p.Chunks(doc, opts)
	content := annotate.JoinChunks(chunks)

	method := "none"
	if opts.Chunking {
		method = string(opts.Config.Method)
	}
	p.stats.Record(RenderSample{
		Method:   method,
		Chunks:   len(chunks),
		Bytes:    len(content),
		Duration: time.Since(start),
	})

	return Output{
		Name:        OutputName(doc.Name),
		Source:      doc.Name,
		Content:     content,
		Chunks:      len(chunks),
		Bytes:       len(content),
		ContentHash: ContentHashHex([]byte(doc.Text)),
	}
}

// Process renders docs with bounded parallelism and merges the outputs in
// input order. It stops early only when ctx is cancelled.
func (p *Processor) Process(ctx context.Context, docs []Document, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	outputs := make([]Output, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = p.Render(doc, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("process documents: %w", err)
	}

	sources := make([]string, len(outputs))
	contents := make([]string, len(outputs))
	for i, o := range outputs {
		sources[i] = o.Source
		contents[i] = o.Content
	}
	for i, name := range uniqueNames(sources) {
		outputs[i].Name = name
	}

	return Result{
		Outputs: outputs,
		Merged:  annotate.Merge(contents, opts.Metadata),
	}, nil
}
