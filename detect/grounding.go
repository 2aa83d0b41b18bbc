package detect

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/pagelayout/model"
)

// ItemKind identifies a piece of grounding markup
type ItemKind int

const (
	// ItemRef is a region label from <|ref|>...<|/ref|>
	ItemRef ItemKind = iota
	// ItemDet is a box list from <|det|>...<|/det|>
	ItemDet
	// ItemText is free text between tags
	ItemText
)

// String returns a string representation of the item kind
func (k ItemKind) String() string {
	switch k {
	case ItemRef:
		return "ref"
	case ItemDet:
		return "det"
	case ItemText:
		return "text"
	default:
		return "unknown"
	}
}

// GroundingItem is one parsed element of grounding markup
type GroundingItem struct {
	Kind  ItemKind
	Label string       // ItemRef
	Boxes []model.BBox // ItemDet, in page pixels
	Text  string       // ItemText
}

// groundingScale is the side of the logical box space used in the markup
const groundingScale = 1000

var groundingTag = regexp.MustCompile(`(?s)<\|(ref|det)\|>(.*?)<\|/(?:ref|det)\|>`)

// ParseGrounding splits generative model output of the form
//
//	<|ref|>label<|/ref|><|det|>[[x0, y0, x1, y1], ...]<|/det|>text
//
// into items. Box coordinates are rescaled from the 0..999 logical space to
// a page of the given size. Whitespace-only text between tags is skipped.
func ParseGrounding(markup string, width, height float64) ([]GroundingItem, error) {
	var items []GroundingItem
	last := 0

	addText := func(s string) {
		if strings.TrimSpace(s) != "" {
			items = append(items, GroundingItem{Kind: ItemText, Text: strings.TrimSpace(s)})
		}
	}

	for _, m := range groundingTag.FindAllStringSubmatchIndex(markup, -1) {
		addText(markup[last:m[0]])
		last = m[1]

		tag := markup[m[2]:m[3]]
		body := strings.TrimSpace(markup[m[4]:m[5]])
		if tag == "ref" {
			items = append(items, GroundingItem{Kind: ItemRef, Label: body})
			continue
		}

		boxes, err := parseBoxes(body, width, height)
		if err != nil {
			return nil, err
		}
		items = append(items, GroundingItem{Kind: ItemDet, Boxes: boxes})
	}
	addText(markup[last:])

	return items, nil
}

func parseBoxes(body string, width, height float64) ([]model.BBox, error) {
	var raw [][]float64
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		// a single box without the outer brackets
		var single []float64
		if err2 := json.Unmarshal([]byte(body), &single); err2 != nil {
			return nil, fmt.Errorf("invalid det payload %q: %w", body, err)
		}
		raw = [][]float64{single}
	}

	boxes := make([]model.BBox, 0, len(raw))
	for _, r := range raw {
		if len(r) != 4 {
			return nil, fmt.Errorf("invalid det box %v: want 4 coordinates", r)
		}
		boxes = append(boxes, model.NewBBoxFromEdges(
			r[0]*width/groundingScale,
			r[1]*height/groundingScale,
			r[2]*width/groundingScale,
			r[3]*height/groundingScale,
		))
	}
	return boxes, nil
}

// groundingLabels maps grounding labels to layout classes
var groundingLabels = map[string]model.LayoutClass{
	"title":          model.ClassTitle,
	"sub_title":      model.ClassTitle,
	"text":           model.ClassPlainText,
	"image":          model.ClassFigure,
	"figure":         model.ClassFigure,
	"image_caption":  model.ClassFigureCaption,
	"table":          model.ClassTable,
	"table_caption":  model.ClassTableCaption,
	"table_footnote": model.ClassTableFootnote,
	"equation":       model.ClassIsolateFormula,
	"formula":        model.ClassIsolateFormula,
	"header":         model.ClassAbandon,
	"footer":         model.ClassAbandon,
	"page_number":    model.ClassAbandon,
}

// LabelClass maps a grounding label to a layout class. Unknown labels are
// plain text.
func LabelClass(label string) model.LayoutClass {
	if cls, ok := groundingLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return cls
	}
	return model.ClassPlainText
}

// GroundingDetections pairs every ref with the det that follows it, and the
// text after that det when present. A det with several boxes yields one
// detection per box; the text goes to the first. Refs without a det and
// dets without a ref are ignored.
func GroundingDetections(items []GroundingItem) []Detection {
	var detections []Detection
	var label string
	haveLabel := false

	for i := 0; i < len(items); i++ {
		item := items[i]
		switch item.Kind {
		case ItemRef:
			label, haveLabel = item.Label, true
		case ItemDet:
			if !haveLabel {
				continue
			}
			text := ""
			if i+1 < len(items) && items[i+1].Kind == ItemText {
				text = items[i+1].Text
				i++
			}
			for k, box := range item.Boxes {
				d := Detection{Class: LabelClass(label), Box: box}
				if k == 0 {
					d.Text = text
				}
				detections = append(detections, d)
			}
			haveLabel = false
		}
	}
	return detections
}

// GroundingLayouts parses markup and returns one region per detection.
// Transcribed text becomes a single fragment spanning the region.
func GroundingLayouts(markup string, width, height float64) ([]model.Layout, error) {
	items, err := ParseGrounding(markup, width, height)
	if err != nil {
		return nil, err
	}

	detections := GroundingDetections(items)
	layouts := make([]model.Layout, 0, len(detections))
	for _, d := range detections {
		rect := d.Box.Rect()
		l := model.NewLayout(d.Class, rect)
		if d.Text != "" && !d.Class.HasContent() {
			l.Base().Fragments = []model.OCRFragment{{
				Order: len(layouts),
				Text:  d.Text,
				Rank:  1,
				Rect:  rect,
			}}
		}
		if t, ok := l.(*model.TableLayout); ok && d.Text != "" {
			t.Content = d.Text
			t.Format = model.FormatHTML
			if !strings.Contains(d.Text, "<table") {
				t.Format = model.FormatMarkdown
			}
		}
		if f, ok := l.(*model.FormulaLayout); ok && d.Text != "" {
			f.Latex = strings.Trim(strings.TrimSpace(d.Text), "$")
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}
