package chunker

// ByParagraphs groups paragraphs greedily, at most maxParagraphs per chunk.
// A heading starts a new chunk early once the current chunk holds at least
// max(2, maxParagraphs/2) paragraphs.
func (c *Chunker) ByParagraphs(text string, maxParagraphs int) []string {
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return []string{""}
	}

	minBeforeHeading := max(2, maxParagraphs/2)

	var chunks []string
	var current []Paragraph
	for _, para := range paragraphs {
		full := len(current) >= maxParagraphs
		headingCut := para.Heading && len(current) >= minBeforeHeading
		if len(current) > 0 && (full || headingCut) {
			chunks = append(chunks, joinParagraphs(current))
			current = current[:0]
		}
		current = append(current, para)
	}
	chunks = append(chunks, joinParagraphs(current))

	return chunks
}
