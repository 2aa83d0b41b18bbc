package model

import "strings"

// Table is a recognized table structure
type Table struct {
	Rows      [][]Cell
	HasHeader bool
}

// Cell represents a table cell
type Cell struct {
	Text     string
	RowSpan  int
	ColSpan  int
	IsHeader bool
}

// ColCount returns the widest row, counting column spans
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		n := 0
		for _, cell := range row {
			n += span(cell.ColSpan)
		}
		if n > cols {
			cols = n
		}
	}
	return cols
}

// ToMarkdown converts the table to a markdown pipe table. Spanned columns are
// repeated as empty cells and short rows are padded so every row has the
// same width. The first row is always rendered as the header row.
func (t *Table) ToMarkdown() string {
	cols := t.ColCount()
	if len(t.Rows) == 0 || cols == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range t.Rows {
		writeMarkdownRow(&sb, row, cols)
		if i == 0 {
			sb.WriteString(strings.Repeat("|---", cols))
			sb.WriteString("|\n")
		}
	}
	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, row []Cell, cols int) {
	n := 0
	for _, cell := range row {
		sb.WriteString("| ")
		sb.WriteString(markdownCell(cell.Text))
		sb.WriteString(" ")
		n++
		for k := 1; k < span(cell.ColSpan); k++ {
			sb.WriteString("| ")
			n++
		}
	}
	for ; n < cols; n++ {
		sb.WriteString("| ")
	}
	sb.WriteString("|\n")
}

func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func markdownCell(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", "\\|")
}
