package pagelayout

import (
	"strings"

	"github.com/tsawler/pagelayout/internal/logger"
	"github.com/tsawler/pagelayout/model"
	"github.com/tsawler/pagelayout/recognize"
)

// ToMarkdown renders an extracted page in reading order. Titles become
// headings, tables become pipe tables, formulas become display math, and
// figures and abandoned regions are omitted.
func ToMarkdown(result *model.ExtractedResult) string {
	if result == nil {
		return ""
	}

	var blocks []string
	for _, l := range result.Layouts {
		if block := markdownBlock(l); block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func markdownBlock(l model.Layout) string {
	text := model.LayoutText(l)

	switch v := l.(type) {
	case *model.TableLayout:
		return tableMarkdown(v, text)
	case *model.FormulaLayout:
		latex := strings.TrimSpace(v.Latex)
		if latex == "" {
			latex = text
		}
		if latex == "" {
			return ""
		}
		return "$$\n" + latex + "\n$$"
	}

	switch l.Class() {
	case model.ClassAbandon, model.ClassFigure:
		return ""
	case model.ClassTitle:
		if text == "" {
			return ""
		}
		return "# " + text
	default:
		return text
	}
}

func tableMarkdown(t *model.TableLayout, text string) string {
	content := strings.TrimSpace(t.Content)
	if content == "" {
		return text
	}

	switch t.Format {
	case model.FormatHTML:
		md, err := recognize.HTMLTableToMarkdown(content)
		if err != nil {
			logger.Debug("table payload is not renderable html: %v", err)
			return text
		}
		return strings.TrimRight(md, "\n")
	case model.FormatLaTeX:
		return "$$\n" + content + "\n$$"
	default:
		return content
	}
}
