package chunker

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/docchunk/internal/similarity"
	"github.com/dgallion1/docchunk/internal/tokenize"
)

// newTestChunker uses the regex tokenizer so token counts are plain
// whitespace word counts.
func newTestChunker() *Chunker {
	return New(tokenize.New(nil, nil), similarity.NewTFIDF(), nil)
}

const sampleDoc = `# Introduction

Go is a statically typed language. It was designed at Google.

Goroutines are lightweight threads. Channels connect goroutines.

## Memory

The garbage collector is concurrent. It reduces pause times!

Escape analysis decides stack or heap allocation.

## Tooling

The go command builds packages. Does it vendor modules? Yes it does.

Formatting is handled by gofmt.`

func TestConfig_Describe(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Method: MethodParagraph, MaxParagraphs: 5}, "Smart Paragraph (5 max paragraphs per chunk)"},
		{Config{Method: MethodToken, MaxTokens: 500}, "Token-based (~500 tokens per chunk)"},
		{Config{Method: MethodStructure, MaxTokens: 800}, "Structure-based (~800 tokens per chunk)"},
		{Config{Method: MethodSimilarity, MaxTokens: 500, SimilarityThreshold: 0.3}, "Semantic (~500 tokens per chunk, similarity: 0.3)"},
		{Config{Method: MethodSimilarity, MaxTokens: 200, SimilarityThreshold: 0.25}, "Semantic (~200 tokens per chunk, similarity: 0.25)"},
	}
	for _, tt := range tests {
		if got := tt.cfg.Describe(); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	bad := []Config{
		{Method: "sliding", MaxTokens: 100},
		{Method: MethodParagraph, MaxParagraphs: 0},
		{Method: MethodToken, MaxTokens: 0},
		{Method: MethodStructure, MaxTokens: -1},
		{Method: MethodSimilarity, MaxTokens: 100, SimilarityThreshold: 1.5},
		{Method: MethodSimilarity, MaxTokens: 100, SimilarityThreshold: -0.1},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}

	ok := Config{Method: MethodSimilarity, MaxTokens: 100, SimilarityThreshold: 0}
	if err := ok.Validate(); err != nil {
		t.Errorf("threshold 0 should be valid: %v", err)
	}
}

func TestChunk_DispatchesByMethod(t *testing.T) {
	c := newTestChunker()
	cases := []struct {
		cfg  Config
		want []string
	}{
		{Config{Method: MethodParagraph, MaxParagraphs: 3}, c.ByParagraphs(sampleDoc, 3)},
		{Config{Method: MethodToken, MaxTokens: 20}, c.ByTokens(sampleDoc, 20)},
		{Config{Method: MethodStructure, MaxTokens: 20}, c.ByStructure(sampleDoc, 20)},
		{Config{Method: MethodSimilarity, MaxTokens: 40, SimilarityThreshold: 0.1}, c.BySimilarity(sampleDoc, 40, 0.1)},
		{Config{Method: "unknown", MaxTokens: 20}, c.ByTokens(sampleDoc, 20)},
	}
	for _, tt := range cases {
		got := c.Chunk(sampleDoc, tt.cfg)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Chunk(%s) = %q, want %q", tt.cfg.Method, got, tt.want)
		}
	}
}

func allConfigs() []Config {
	return []Config{
		{Method: MethodParagraph, MaxParagraphs: 1},
		{Method: MethodParagraph, MaxParagraphs: 4},
		{Method: MethodToken, MaxTokens: 1},
		{Method: MethodToken, MaxTokens: 15},
		{Method: MethodStructure, MaxTokens: 10},
		{Method: MethodStructure, MaxTokens: 500},
		{Method: MethodSimilarity, MaxTokens: 30, SimilarityThreshold: 0.05},
		{Method: MethodSimilarity, MaxTokens: 500, SimilarityThreshold: 0.99},
	}
}

func TestChunk_AlwaysAtLeastOneChunk(t *testing.T) {
	c := newTestChunker()
	for _, input := range []string{"", "   ", "\n\n\n\n", "word", sampleDoc} {
		for _, cfg := range allConfigs() {
			chunks := c.Chunk(input, cfg)
			if len(chunks) < 1 {
				t.Errorf("method %s on %q: got zero chunks", cfg.Method, input)
			}
		}
	}
}

func TestChunk_EmptyInputYieldsSingleEmptyChunk(t *testing.T) {
	c := newTestChunker()
	for _, cfg := range allConfigs() {
		chunks := c.Chunk("", cfg)
		if len(chunks) != 1 || chunks[0] != "" {
			t.Errorf("method %s: expected [\"\"], got %q", cfg.Method, chunks)
		}
	}
}

func TestChunk_PreservesContentInOrder(t *testing.T) {
	c := newTestChunker()
	want := strings.Fields(sampleDoc)
	for _, cfg := range allConfigs() {
		chunks := c.Chunk(sampleDoc, cfg)
		for i, ch := range chunks {
			if strings.TrimSpace(ch) == "" {
				t.Errorf("method %s: chunk %d is blank", cfg.Method, i)
			}
		}
		got := strings.Fields(strings.Join(chunks, " "))
		if !reflect.DeepEqual(got, want) {
			t.Errorf("method %s (%+v): content not preserved\ngot:  %q\nwant: %q", cfg.Method, cfg, got, want)
		}
	}
}

func TestChunk_Idempotent(t *testing.T) {
	// The prose segmenter is slow, so it gets a single re-run.
	runs := []struct {
		c       *Chunker
		repeats int
	}{
		{newTestChunker(), 3},
		{NewDefault(nil), 1},
	}
	for _, run := range runs {
		c := run.c
		for _, cfg := range allConfigs() {
			first := c.Chunk(sampleDoc, cfg)
			for range run.repeats {
				again := c.Chunk(sampleDoc, cfg)
				if !reflect.DeepEqual(first, again) {
					t.Fatalf("method %s not deterministic:\n%q\n%q", cfg.Method, first, again)
				}
			}
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	input := "\n\n# Title\n\n  body text  \n\n\n\n#hashtag line\n\n####### too deep\n\n###### six"
	paras := SplitParagraphs(input)

	want := []Paragraph{
		{Text: "# Title", Heading: true, Index: 0},
		{Text: "body text", Heading: false, Index: 1},
		{Text: "#hashtag line", Heading: false, Index: 2},
		{Text: "####### too deep", Heading: false, Index: 3},
		{Text: "###### six", Heading: true, Index: 4},
	}
	if !reflect.DeepEqual(paras, want) {
		t.Fatalf("SplitParagraphs:\ngot  %+v\nwant %+v", paras, want)
	}
}
