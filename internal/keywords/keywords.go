// Package keywords ranks the most frequent content words of a chunk.
package keywords

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docchunk/internal/stopwords"
)

// punctuation mirrors the ASCII punctuation set.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// glyphs are bullet and quote characters common in converted documents.
var glyphs = []string{"•", "■", "►", "●", "◆", "»", "“", "”", "‘", "’", "–", "—"}

// minRunes is the shortest token kept; anything of two runes or fewer is dropped.
const minRunes = 3

// WordTokenizer splits text into word tokens, reporting tokenizer failures.
type WordTokenizer interface {
	Words(text string) ([]string, error)
}

// Result is the outcome of one extraction. A nil Err with no Keywords is a
// genuine empty result.
type Result struct {
	Keywords []string
	Err      error
}

// Failed reports whether extraction hit a tokenizer failure.
func (r Result) Failed() bool { return r.Err != nil }

// Strings renders the result as a keyword list. A failure becomes a single
// sentinel entry describing the error.
func (r Result) Strings() []string {
	if r.Err != nil {
		return []string{fmt.Sprintf("Error extracting keywords: %s", r.Err)}
	}
	return r.Keywords
}

// Extractor is safe for concurrent use.
type Extractor struct {
	tok    WordTokenizer
	stop   map[string]struct{}
	glyphs map[rune]struct{}
}

func New(tok WordTokenizer) *Extractor {
	stop := stopwords.English()
	for _, r := range punctuation {
		stop[string(r)] = struct{}{}
	}
	glyphRunes := make(map[rune]struct{})
	for _, g := range glyphs {
		stop[g] = struct{}{}
		for _, r := range g {
			glyphRunes[r] = struct{}{}
		}
	}
	return &Extractor{tok: tok, stop: stop, glyphs: glyphRunes}
}

// Extract returns up to limit keywords from text, most frequent first. Ties keep
// the order in which words first appear.
func (e *Extractor) Extract(text string, limit int) Result {
	if limit <= 0 {
		return Result{}
	}
	words, err := e.tok.Words(strings.ToLower(text))
	if err != nil {
		return Result{Err: err}
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		w = e.trim(w)
		if !e.keep(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return Result{Keywords: order}
}

// trim strips punctuation and glyphs clinging to either end of a token, as
// whitespace tokenizers leave them attached ("data," "(data)").
func (e *Extractor) trim(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		if unicode.IsPunct(r) {
			return true
		}
		_, glyph := e.glyphs[r]
		return glyph
	})
}

func (e *Extractor) keep(w string) bool {
	if _, stop := e.stop[w]; stop {
		return false
	}
	if utf8.RuneCountInString(w) < minRunes {
		return false
	}
	return strings.IndexFunc(w, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
