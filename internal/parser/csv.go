package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docchunk/internal/doctree"
)

// csvBatchSize is the number of data rows per rendered table. Each batch
// repeats the header row so it stands alone as a chunk.
const csvBatchSize = 20

// CSVParser renders CSV files as Markdown tables.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	b := newTreeBuilder(baseName(filename))
	if len(records) == 0 {
		return b.tree(), nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]
	if len(dataRows) == 0 {
		b.block(markdownTable([][]string{headers}))
		return b.tree(), nil
	}

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))
		batch := append([][]string{headers}, dataRows[i:end]...)
		b.block(markdownTable(batch))
	}

	return b.tree(), nil
}

// markdownTable renders rows as a pipe table using the first row as the
// header. Short rows are padded to the widest row.
func markdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width == 0 {
		return ""
	}

	var buf strings.Builder
	writeRow := func(row []string) {
		buf.WriteString("|")
		for j := range width {
			cell := ""
			if j < len(row) {
				cell = escapeCell(row[j])
			}
			buf.WriteString(" " + cell + " |")
		}
		buf.WriteString("\n")
	}

	writeRow(rows[0])
	buf.WriteString("|")
	for range width {
		buf.WriteString(" --- |")
	}
	buf.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func escapeCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
