package chunker

import "strings"

// minSimilarityParagraphs is the smallest paragraph count worth vectorizing.
const minSimilarityParagraphs = 4

// BySimilarity merges adjacent paragraphs while they stay similar to the
// paragraph that opened the current chunk (strictly above threshold) and the
// running token count stays within maxTokens. It falls back to ByTokens on
// the whole text when scoring is unavailable, when there are fewer than four
// paragraphs, or when vectorization fails.
func (c *Chunker) BySimilarity(text string, maxTokens int, threshold float64) []string {
	if c.scorer == nil || !c.scorer.Available() {
		c.log.Debug("similarity scoring unavailable, using token chunking")
		return c.ByTokens(text, maxTokens)
	}

	paragraphs := SplitParagraphs(text)
	if len(paragraphs) < minSimilarityParagraphs {
		return c.ByTokens(text, maxTokens)
	}

	docs := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		docs[i] = p.Text
	}
	sims, err := c.scorer.Similarities(docs)
	if err != nil {
		c.log.Debug("vectorization failed, using token chunking", "error", err)
		return c.ByTokens(text, maxTokens)
	}

	count := c.counter()
	var chunks []string
	current := []string{docs[0]}
	currentTokens := count.tokens(docs[0])
	anchor := 0

	for i := 1; i < len(docs); i++ {
		paraTokens := count.tokens(docs[i])
		if sims[anchor][i] > threshold && currentTokens+paraTokens <= maxTokens {
			current = append(current, docs[i])
			currentTokens += paraTokens
			continue
		}
		chunks = append(chunks, strings.Join(current, ParagraphSeparator))
		current = []string{docs[i]}
		currentTokens = paraTokens
		anchor = i
	}
	chunks = append(chunks, strings.Join(current, ParagraphSeparator))

	return chunks
}
