package recognize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/pagelayout/model"
)

// ErrNoTable is returned when HTML markup contains no <table> element
var ErrNoTable = errors.New("no table element found")

// HTMLTableToMarkdown converts the first <table> in markup to a markdown
// pipe table.
func HTMLTableToMarkdown(markup string) (string, error) {
	table, err := ParseHTMLTable(markup)
	if err != nil {
		return "", err
	}
	return table.ToMarkdown(), nil
}

// ParseHTMLTable parses the first <table> in markup. Cells covered by a
// rowspan from an earlier row are filled with empty cells so every row
// lines up with the grid.
func ParseHTMLTable(markup string) (*model.Table, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	tableNode := findElement(doc, "table")
	if tableNode == nil {
		return nil, ErrNoTable
	}

	p := &tableParser{pending: make(map[int]carry)}
	p.parseSection(tableNode)

	table := &model.Table{Rows: p.rows, HasHeader: p.hasHeader}
	if !table.HasHeader && len(table.Rows) > 0 {
		for _, cell := range table.Rows[0] {
			if cell.IsHeader {
				table.HasHeader = true
				break
			}
		}
	}
	return table, nil
}

// carry is a rowspan reaching into later rows
type carry struct {
	rows int
	cols int
}

type tableParser struct {
	rows      [][]model.Cell
	hasHeader bool
	pending   map[int]carry
}

func (p *tableParser) parseSection(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead":
			p.hasHeader = true
			p.parseRows(c, true)
		case "tbody", "tfoot":
			p.parseRows(c, false)
		case "tr":
			p.parseRow(c, false)
		}
	}
}

func (p *tableParser) parseRows(section *html.Node, isHeader bool) {
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			p.parseRow(c, isHeader)
		}
	}
}

func (p *tableParser) parseRow(tr *html.Node, isHeader bool) {
	var row []model.Cell
	col := 0

	// fill emits placeholders for rowspans covering the current column
	fill := func() {
		for {
			c, ok := p.pending[col]
			if !ok {
				return
			}
			row = append(row, model.Cell{ColSpan: c.cols})
			p.take(col, c)
			col += c.cols
		}
	}

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		fill()

		cell := model.Cell{
			Text:     getTextContent(c),
			IsHeader: isHeader || c.Data == "th",
			RowSpan:  1,
			ColSpan:  1,
		}
		for _, attr := range c.Attr {
			switch attr.Key {
			case "rowspan":
				fmt.Sscanf(attr.Val, "%d", &cell.RowSpan)
			case "colspan":
				fmt.Sscanf(attr.Val, "%d", &cell.ColSpan)
			}
		}
		if cell.ColSpan < 1 {
			cell.ColSpan = 1
		}
		if cell.RowSpan > 1 {
			p.pending[col] = carry{rows: cell.RowSpan - 1, cols: cell.ColSpan}
		}

		row = append(row, cell)
		col += cell.ColSpan
	}

	// rowspans to the right of the last cell
	var trailing []int
	for k := range p.pending {
		if k >= col {
			trailing = append(trailing, k)
		}
	}
	sort.Ints(trailing)
	for _, k := range trailing {
		for ; col < k; col++ {
			row = append(row, model.Cell{})
		}
		c := p.pending[k]
		row = append(row, model.Cell{ColSpan: c.cols})
		p.take(k, c)
		col += c.cols
	}

	if len(row) > 0 {
		p.rows = append(p.rows, row)
	}
}

func (p *tableParser) take(col int, c carry) {
	c.rows--
	if c.rows <= 0 {
		delete(p.pending, col)
		return
	}
	p.pending[col] = c
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// getTextContent extracts the text of a cell with whitespace collapsed.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.Join(strings.Fields(result.String()), " ")
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		result.WriteString(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			result.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li":
			result.WriteString(" ")
		}
	}
}
