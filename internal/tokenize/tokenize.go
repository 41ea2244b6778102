// Package tokenize splits text into sentences and words.
//
// An Adapter wraps a primary Segmenter (normally ProseSegmenter) and a
// RegexSegmenter fallback. SplitSentences and SplitWords never fail: when the
// primary segmenter is unavailable or returns an error the fallback is used.
package tokenize

import (
	"log/slog"
)

// Segmenter is a sentence and word splitting capability.
type Segmenter interface {
	Name() string
	// Available reports whether the segmenter can be used at all.
	Available() bool
	Sentences(text string) ([]string, error)
	Words(text string) ([]string, error)
}

// Adapter selects between a primary segmenter and the regex fallback.
// It holds no mutable state and is safe for concurrent use.
type Adapter struct {
	primary  Segmenter
	fallback Segmenter
	log      *slog.Logger
}

// New returns an Adapter using primary when available. A nil primary means
// only the fallback is used.
func New(primary Segmenter, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		primary:  primary,
		fallback: NewRegexSegmenter(),
		log:      log.With("component", "tokenize"),
	}
}

// NewDefault returns an Adapter backed by the prose segmenter.
func NewDefault(log *slog.Logger) *Adapter {
	return New(NewProseSegmenter(), log)
}

// ForName builds an Adapter for a configured tokenizer name ("prose" or
// "regex"). Unknown names use the regex segmenter.
func ForName(name string, log *slog.Logger) *Adapter {
	if name == "prose" {
		return NewDefault(log)
	}
	return New(nil, log)
}

// active returns the segmenter to use for one call.
func (a *Adapter) active() Segmenter {
	if a.primary != nil && a.primary.Available() {
		return a.primary
	}
	return a.fallback
}

// Name reports the segmenter currently selected.
func (a *Adapter) Name() string {
	return a.active().Name()
}

// SplitSentences returns the sentences of text in order. Blank input yields
// no sentences.
func (a *Adapter) SplitSentences(text string) []string {
	seg := a.active()
	sentences, err := seg.Sentences(text)
	if err == nil {
		return sentences
	}
	a.log.Debug("sentence segmentation failed, using fallback", "segmenter", seg.Name(), "error", err)
	sentences, _ = a.fallback.Sentences(text)
	return sentences
}

// SplitWords returns the word tokens of text in order.
func (a *Adapter) SplitWords(text string) []string {
	seg := a.active()
	words, err := seg.Words(text)
	if err == nil {
		return words
	}
	a.log.Debug("word tokenization failed, using fallback", "segmenter", seg.Name(), "error", err)
	words, _ = a.fallback.Words(text)
	return words
}

// Words tokenizes text with the selected segmenter and reports its error
// instead of falling back.
func (a *Adapter) Words(text string) ([]string, error) {
	return a.active().Words(text)
}

// CountTokens approximates the token count of text as its word count.
func (a *Adapter) CountTokens(text string) int {
	return len(a.SplitWords(text))
}
