package tokenize

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"
)

const probeText = "Probe sentence one. Probe sentence two."

// ProseSegmenter uses prose's Punkt-based sentence segmenter and its
// Treebank-style word tokenizer.
type ProseSegmenter struct {
	once      sync.Once
	available bool
}

func NewProseSegmenter() *ProseSegmenter {
	return &ProseSegmenter{}
}

func (s *ProseSegmenter) Name() string { return "prose" }

// Available probes the segmenter once; a model that fails to load or panics
// on the probe text marks the segmenter unavailable for the process lifetime.
func (s *ProseSegmenter) Available() bool {
	s.once.Do(func() {
		sentences, err := s.Sentences(probeText)
		s.available = err == nil && len(sentences) > 0
	})
	return s.available
}

func (s *ProseSegmenter) Sentences(text string) (sentences []string, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	defer recoverInto(&err)

	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose segment: %w", err)
	}
	for _, sent := range doc.Sentences() {
		sentences = appendTrimmed(sentences, sent.Text)
	}
	return sentences, nil
}

func (s *ProseSegmenter) Words(text string) (words []string, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	defer recoverInto(&err)

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose tokenize: %w", err)
	}
	for _, tok := range doc.Tokens() {
		if tok.Text != "" {
			words = append(words, tok.Text)
		}
	}
	return words, nil
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("prose panic: %v", r)
	}
}
