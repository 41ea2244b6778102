package chunker

import "strings"

// ByStructure emits one chunk per heading section. Sections over maxTokens
// are re-split with ByTokens in place. Text with no headings is chunked by
// paragraphs with a budget of max(3, maxTokens/100).
func (c *Chunker) ByStructure(text string, maxTokens int) []string {
	sections := splitSections(text)
	if len(sections) == 0 {
		return c.ByParagraphs(text, max(3, maxTokens/100))
	}

	count := c.counter()
	var chunks []string
	for _, section := range sections {
		if count.tokens(section) <= maxTokens {
			chunks = append(chunks, section)
			continue
		}
		chunks = append(chunks, c.byTokens(section, maxTokens, count)...)
	}
	return chunks
}

// splitSections pairs each heading line with the content that follows it up
// to the next heading. Content before the first heading becomes its own
// leading section. Returns nil when text has no headings.
func splitSections(text string) []string {
	locs := headingLine.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var sections []string
	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		sections = append(sections, lead)
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sections = append(sections, strings.TrimSpace(text[loc[0]:end]))
	}
	return sections
}
