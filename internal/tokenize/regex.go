package tokenize

import (
	"regexp"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// RegexSegmenter splits sentences after '.', '!' or '?' followed by
// whitespace, and words on whitespace. It is always available and never
// returns an error.
type RegexSegmenter struct{}

func NewRegexSegmenter() *RegexSegmenter {
	return &RegexSegmenter{}
}

func (s *RegexSegmenter) Name() string { return "regex" }

func (s *RegexSegmenter) Available() bool { return true }

func (s *RegexSegmenter) Sentences(text string) ([]string, error) {
	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		// Keep the punctuation with its sentence.
		sentences = appendTrimmed(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	sentences = appendTrimmed(sentences, text[start:])
	return sentences, nil
}

func (s *RegexSegmenter) Words(text string) ([]string, error) {
	return strings.Fields(text), nil
}

func appendTrimmed(dst []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return dst
	}
	return append(dst, s)
}
