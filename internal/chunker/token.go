package chunker

import (
	"strings"

	"github.com/dgallion1/docchunk/internal/tokenize"
)

// ByTokens packs sentences greedily under maxTokens, counting tokens with the
// tokenizer's word split. Sentences are segmented per paragraph, so no
// sentence spans two paragraphs, though one chunk may hold sentences from
// several. A sentence larger than the budget is emitted alone rather than
// split.
func (c *Chunker) ByTokens(text string, maxTokens int) []string {
	return c.byTokens(text, maxTokens, c.counter())
}

func (c *Chunker) byTokens(text string, maxTokens int, count *tokenCounter) []string {
	var sentences []string
	for _, para := range SplitParagraphs(text) {
		sentences = append(sentences, c.tok.SplitSentences(para.Text)...)
	}
	if len(sentences) == 0 {
		return []string{""}
	}

	var chunks []string
	var current []string
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := count.tokens(sent)

		// Would adding this sentence exceed the budget?
		if currentTokens+sentTokens > maxTokens && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, SentenceSeparator))
			current = nil
			currentTokens = 0
		}

		current = append(current, sent)
		currentTokens += sentTokens
	}
	chunks = append(chunks, strings.Join(current, SentenceSeparator))

	return chunks
}

// tokenCounter memoizes token counts for the span of one chunking call, so a
// string measured twice (a section re-split as a single sentence, a repeated
// paragraph) is tokenized once.
type tokenCounter struct {
	tok  *tokenize.Adapter
	seen map[string]int
}

func (c *Chunker) counter() *tokenCounter {
	return &tokenCounter{tok: c.tok, seen: make(map[string]int)}
}

func (t *tokenCounter) tokens(s string) int {
	if n, ok := t.seen[s]; ok {
		return n
	}
	n := t.tok.CountTokens(s)
	t.seen[s] = n
	return n
}
