package model

import (
	"fmt"
	"strings"
)

// LayoutClass is the semantic class of a detected region
type LayoutClass int

const (
	ClassTitle LayoutClass = iota
	ClassPlainText
	ClassAbandon
	ClassFigure
	ClassFigureCaption
	ClassTable
	ClassTableCaption
	ClassTableFootnote
	ClassIsolateFormula
	ClassFormulaCaption
)

var classNames = [...]string{
	ClassTitle:          "title",
	ClassPlainText:      "plain-text",
	ClassAbandon:        "abandon",
	ClassFigure:         "figure",
	ClassFigureCaption:  "figure-caption",
	ClassTable:          "table",
	ClassTableCaption:   "table-caption",
	ClassTableFootnote:  "table-footnote",
	ClassIsolateFormula: "isolate-formula",
	ClassFormulaCaption: "formula-caption",
}

func (c LayoutClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// IsValid reports whether c is one of the known classes
func (c LayoutClass) IsValid() bool {
	return c >= 0 && int(c) < len(classNames)
}

// HasContent reports whether the region carries non-OCR content (image,
// table structure, formula) and must be kept even without fragments.
func (c LayoutClass) HasContent() bool {
	switch c {
	case ClassFigure, ClassTable, ClassIsolateFormula:
		return true
	}
	return false
}

// ParseLayoutClass converts a class name (as produced by String) or a
// detector class id ("0".."9") into a LayoutClass.
func ParseLayoutClass(s string) (LayoutClass, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", "-")
	for i, n := range classNames {
		if n == name || fmt.Sprint(i) == name {
			return LayoutClass(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout class %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (c LayoutClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *LayoutClass) UnmarshalText(b []byte) error {
	parsed, err := ParseLayoutClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// BaseLayout holds the fields shared by every layout variant
type BaseLayout struct {
	// Rect bounds the region
	Rect Rectangle

	// Fragments are owned exclusively by this region
	Fragments []OCRFragment

	// Order is the region's position in the page reading order
	Order int
}

// Layout is a detected page region. The concrete variants are
// [PlainLayout], [TableLayout] and [FormulaLayout].
type Layout interface {
	Class() LayoutClass
	Base() *BaseLayout
	Clone() Layout
}

// PlainLayout is any region whose content is its OCR text
type PlainLayout struct {
	BaseLayout
	Cls LayoutClass
}

func (l *PlainLayout) Class() LayoutClass { return l.Cls }
func (l *PlainLayout) Base() *BaseLayout  { return &l.BaseLayout }
func (l *PlainLayout) Clone() Layout {
	c := *l
	c.Fragments = CloneFragments(l.Fragments)
	return &c
}

// OutputFormat selects the markup a structure recognizer produces
type OutputFormat int

const (
	FormatLaTeX OutputFormat = iota
	FormatMarkdown
	FormatHTML
)

func (f OutputFormat) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	default:
		return "latex"
	}
}

// TableLayout is a table region; Content holds the recognized structure
// in Format, empty when recognition was unavailable.
type TableLayout struct {
	BaseLayout
	Content string
	Format  OutputFormat
}

func (l *TableLayout) Class() LayoutClass { return ClassTable }
func (l *TableLayout) Base() *BaseLayout  { return &l.BaseLayout }
func (l *TableLayout) Clone() Layout {
	c := *l
	c.Fragments = CloneFragments(l.Fragments)
	return &c
}

// FormulaLayout is an isolated formula; Latex is empty when recognition
// was unavailable.
type FormulaLayout struct {
	BaseLayout
	Latex string
}

func (l *FormulaLayout) Class() LayoutClass { return ClassIsolateFormula }
func (l *FormulaLayout) Base() *BaseLayout  { return &l.BaseLayout }
func (l *FormulaLayout) Clone() Layout {
	c := *l
	c.Fragments = CloneFragments(l.Fragments)
	return &c
}

// NewLayout creates the variant matching cls
func NewLayout(cls LayoutClass, rect Rectangle) Layout {
	base := BaseLayout{Rect: rect}
	switch cls {
	case ClassTable:
		return &TableLayout{BaseLayout: base}
	case ClassIsolateFormula:
		return &FormulaLayout{BaseLayout: base}
	default:
		return &PlainLayout{BaseLayout: base, Cls: cls}
	}
}

// CloneLayouts deep-copies a layout list
func CloneLayouts(layouts []Layout) []Layout {
	out := make([]Layout, len(layouts))
	for i, l := range layouts {
		out[i] = l.Clone()
	}
	return out
}

// LayoutText joins the fragment texts of a region with spaces
func LayoutText(l Layout) string {
	frags := l.Base().Fragments
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
