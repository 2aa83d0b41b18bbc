package pagelayout

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/detect"
	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/model"
	"github.com/tsawler/pagelayout/recognize"
)

// ============================================================================
// Test helpers
// ============================================================================

func frag(text string, x0, y0, x1, y1 float64) model.OCRFragment {
	return model.OCRFragment{Text: text, Rank: 1, Rect: model.NewRect(x0, y0, x1, y1)}
}

// rotatedFrag builds a w x h fragment at (x, y) turned by theta (Y down)
func rotatedFrag(text string, x, y, w, h, theta float64) model.OCRFragment {
	cos, sin := math.Cos(theta), math.Sin(theta)
	lt := model.Point{X: x, Y: y}
	rt := model.Point{X: x + w*cos, Y: y + w*sin}
	lb := model.Point{X: x - h*sin, Y: y + h*cos}
	rb := model.Point{X: rt.X - h*sin, Y: rt.Y + h*cos}
	return model.OCRFragment{Text: text, Rank: 1, Rect: model.Rectangle{LT: lt, RT: rt, LB: lb, RB: rb}}
}

func region(cls model.LayoutClass, x0, y0, x1, y1 float64) model.Layout {
	return model.NewLayout(cls, model.NewRect(x0, y0, x1, y1))
}

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// fakeOCR returns one fragment set per call, repeating the last one
type fakeOCR struct {
	mu      sync.Mutex
	results [][]model.OCRFragment
	err     error
	calls   int
}

func (f *fakeOCR) Recognize(_ context.Context, _ image.Image) ([]model.OCRFragment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return model.CloneFragments(f.results[i]), nil
}

func (f *fakeOCR) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func staticDetector(dets ...detect.Detection) detect.Detector {
	return detect.DetectorFunc(func(context.Context, image.Image, detect.Options) ([]detect.Detection, error) {
		return dets, nil
	})
}

func identityScorer() layout.Scorer {
	return layout.ScorerFunc(func(_ context.Context, boxes []layout.Box) ([]int, error) {
		ranks := make([]int, len(boxes))
		for i := range ranks {
			ranks[i] = i
		}
		return ranks, nil
	})
}

func hasWarning(warnings []Warning, kind WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func layoutTexts(layouts []model.Layout) []string {
	out := make([]string, len(layouts))
	for i, l := range layouts {
		out[i] = model.LayoutText(l)
	}
	return out
}

// recognizedPage is a title above a two-line paragraph plus one stray fragment
func recognizedPage() *Extractor {
	fragments := []model.OCRFragment{
		frag("second line", 10, 140, 400, 160),
		frag("Heading", 10, 10, 200, 40),
		frag("first line", 10, 110, 400, 130),
		frag("stray", 10, 500, 100, 510),
	}
	regions := []model.Layout{
		region(model.ClassTitle, 0, 0, 800, 50),
		region(model.ClassPlainText, 0, 100, 800, 300),
	}
	return FromRecognized(800, 1000, fragments, regions)
}

// ============================================================================
// Constructors
// ============================================================================

func TestOpenMissingFile(t *testing.T) {
	_, _, err := Open("nonexistent.png").WithOCR(&fakeOCR{}).Extract(context.Background())
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestFromRecognizedCopiesInput(t *testing.T) {
	fragments := []model.OCRFragment{frag("a", 0, 0, 10, 10)}
	regions := []model.Layout{region(model.ClassPlainText, 0, 0, 100, 100)}

	ext := FromRecognized(100, 100, fragments, regions)
	fragments[0].Text = "changed"
	regions[0].Base().Rect = model.NewRect(50, 50, 60, 60)

	result := MustResult(ext.Extract(context.Background()))
	if got := model.LayoutText(result.Layouts[0]); got != "a" {
		t.Errorf("text = %q, want %q", got, "a")
	}
}

func TestFluentMethodsDoNotMutate(t *testing.T) {
	base := recognizedPage()
	_ = base.Deskew(false).WithScorer(identityScorer())

	if base.options.scorer != nil {
		t.Error("WithScorer modified the receiver")
	}
	if !base.options.config.Deskew.Enabled {
		t.Error("Deskew modified the receiver")
	}
}

func TestWithConfig(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		_, _, err := recognizedPage().WithConfig(nil).Extract(context.Background())
		if err == nil {
			t.Error("expected error for nil config")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := config.Default()
		cfg.Order.MaxBoxes = 0
		_, _, err := recognizedPage().WithConfig(cfg).Extract(context.Background())
		if err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("applied", func(t *testing.T) {
		cfg := config.Default()
		cfg.Order.MaxBoxes = 1
		_, warnings, err := recognizedPage().
			WithConfig(cfg).
			WithScorer(identityScorer()).
			Extract(context.Background())
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if !hasWarning(warnings, WarnReorderSkipped) {
			t.Errorf("warnings = %v, want reorder-skipped", warnings)
		}
	})
}

// ============================================================================
// Pipeline on recognized pages
// ============================================================================

func TestExtractRecognized(t *testing.T) {
	result, warnings, err := recognizedPage().Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if result.ID == "" {
		t.Error("result has no ID")
	}
	if result.Rotation != 0 {
		t.Errorf("Rotation = %v, want 0", result.Rotation)
	}
	if result.ExtractedImage != nil || result.AdjustedImage != nil {
		t.Error("recognized page should carry no image")
	}

	want := []string{"Heading", "first line second line"}
	got := layoutTexts(result.Layouts)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("layouts = %q, want %q", got, want)
	}

	for i, f := range result.Fragments() {
		if f.Order != i {
			t.Errorf("fragment %q order = %d, want %d", f.Text, f.Order, i)
		}
	}
	for i, l := range result.Layouts {
		if l.Base().Order != i {
			t.Errorf("layout %d order = %d", i, l.Base().Order)
		}
	}

	if !hasWarning(warnings, WarnUnmatchedFragments) {
		t.Errorf("warnings = %v, want unmatched-fragments", warnings)
	}
	if hasWarning(warnings, WarnNoDetector) {
		t.Error("recognized pages should not warn about a missing detector")
	}
}

func TestExtractRecognizedRegionsOwningFragments(t *testing.T) {
	owned := region(model.ClassPlainText, 0, 0, 400, 100)
	owned.Base().Fragments = []model.OCRFragment{frag("owned", 10, 10, 100, 30)}

	result := MustResult(FromRecognized(800, 1000, nil, []model.Layout{owned}).Extract(context.Background()))
	if len(result.Layouts) != 1 || model.LayoutText(result.Layouts[0]) != "owned" {
		t.Errorf("layouts = %q", layoutTexts(result.Layouts))
	}
}

func TestExtractDropsEmptyTextRegions(t *testing.T) {
	regions := []model.Layout{
		region(model.ClassPlainText, 0, 0, 800, 50),
		region(model.ClassPlainText, 0, 100, 800, 200),
		region(model.ClassFigure, 0, 300, 800, 600),
	}
	fragments := []model.OCRFragment{frag("text", 10, 10, 200, 30)}

	result := MustResult(FromRecognized(800, 1000, fragments, regions).Extract(context.Background()))
	if len(result.Layouts) != 2 {
		t.Fatalf("got %d layouts, want 2", len(result.Layouts))
	}
	if result.Layouts[1].Class() != model.ClassFigure {
		t.Errorf("second layout = %v, want figure", result.Layouts[1].Class())
	}
}

func TestExtractNeuralOrder(t *testing.T) {
	// The paragraph comes first in the input; the scorer ranks by position.
	regions := []model.Layout{
		region(model.ClassPlainText, 0, 100, 800, 300),
		region(model.ClassTitle, 0, 0, 800, 50),
	}
	fragments := []model.OCRFragment{
		frag("body", 0, 110, 400, 130),
		frag("Heading", 0, 10, 200, 40),
	}

	t.Run("primitive keeps region order", func(t *testing.T) {
		result := MustResult(FromRecognized(800, 1000, fragments, regions).Extract(context.Background()))
		got := layoutTexts(result.Layouts)
		if got[0] != "body" {
			t.Errorf("layouts = %q, want body first", got)
		}
	})

	t.Run("scorer reorders", func(t *testing.T) {
		result := MustResult(FromRecognized(800, 1000, fragments, regions).
			WithScorer(identityScorer()).
			Extract(context.Background()))
		got := layoutTexts(result.Layouts)
		if got[0] != "Heading" {
			t.Errorf("layouts = %q, want Heading first", got)
		}
	})
}

func TestExtractScorerFailure(t *testing.T) {
	scorerErr := errors.New("model offline")
	failing := layout.ScorerFunc(func(context.Context, []layout.Box) ([]int, error) {
		return nil, scorerErr
	})

	result, warnings, err := recognizedPage().WithScorer(failing).Extract(context.Background())
	if !errors.Is(err, scorerErr) {
		t.Fatalf("error = %v, want %v", err, scorerErr)
	}
	if result == nil {
		t.Fatal("expected the primitive result alongside the scorer error")
	}
	if len(result.Layouts) != 2 {
		t.Errorf("got %d layouts, want 2", len(result.Layouts))
	}
	if !hasWarning(warnings, WarnReorderFailed) {
		t.Errorf("warnings = %v, want reorder-failed", warnings)
	}
}

// ============================================================================
// Pipeline on images
// ============================================================================

func TestExtractRequiresOCR(t *testing.T) {
	_, _, err := New(whitePage(100, 100)).Extract(context.Background())
	if !errors.Is(err, ErrNoOCREngine) {
		t.Errorf("error = %v, want ErrNoOCREngine", err)
	}
}

func TestExtractOCRError(t *testing.T) {
	ocrErr := errors.New("tesseract crashed")
	_, _, err := New(whitePage(100, 100)).WithOCR(&fakeOCR{err: ocrErr}).Extract(context.Background())
	if !errors.Is(err, ocrErr) {
		t.Errorf("error = %v, want %v", err, ocrErr)
	}
}

func TestExtractWithoutDetector(t *testing.T) {
	engine := &fakeOCR{results: [][]model.OCRFragment{{
		frag("one", 10, 10, 200, 30),
		frag("two", 10, 50, 200, 70),
	}}}

	result, warnings, err := New(whitePage(400, 300)).WithOCR(engine).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Layouts) != 1 {
		t.Fatalf("got %d layouts, want the whole page", len(result.Layouts))
	}
	if got := result.Layouts[0].Base().Rect; got != model.NewRect(0, 0, 400, 300) {
		t.Errorf("page region = %+v", got)
	}
	if !hasWarning(warnings, WarnNoDetector) {
		t.Errorf("warnings = %v, want no-detector", warnings)
	}
}

func TestExtractWithDetector(t *testing.T) {
	engine := &fakeOCR{results: [][]model.OCRFragment{{
		frag("Title", 10, 10, 200, 40),
		frag("Body", 10, 110, 200, 130),
	}}}
	detector := staticDetector(
		detect.Detection{Class: model.ClassTitle, Box: model.NewBBox(0, 0, 400, 50), Confidence: 0.9},
		detect.Detection{Class: model.ClassPlainText, Box: model.NewBBox(0, 100, 400, 100), Confidence: 0.8},
		detect.Detection{Class: model.ClassFigure, Box: model.NewBBox(0, 250, 100, 40), Confidence: 0.05},
	)

	result, warnings, err := New(whitePage(400, 400)).
		WithOCR(engine).
		WithDetector(detector).
		Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	got := layoutTexts(result.Layouts)
	if strings.Join(got, "|") != "Title|Body" {
		t.Errorf("layouts = %q", got)
	}
}

func TestExtractDeskew(t *testing.T) {
	const theta = 0.05
	skewed := []model.OCRFragment{
		rotatedFrag("one", 50, 50, 300, 12, theta),
		rotatedFrag("two", 50, 100, 300, 12, theta),
		rotatedFrag("three", 50, 150, 300, 12, theta),
	}
	straight := []model.OCRFragment{
		frag("one", 50, 50, 350, 62),
		frag("two", 50, 100, 350, 112),
		frag("three", 50, 150, 350, 162),
	}

	t.Run("enabled", func(t *testing.T) {
		engine := &fakeOCR{results: [][]model.OCRFragment{skewed, straight}}
		result := MustResult(New(whitePage(500, 400)).WithOCR(engine).Extract(context.Background()))

		if math.Abs(result.Rotation-theta) > 1e-9 {
			t.Errorf("Rotation = %v, want %v", result.Rotation, theta)
		}
		if result.AdjustedImage == nil {
			t.Fatal("AdjustedImage not set")
		}
		if result.Image() != result.AdjustedImage {
			t.Error("Image() should return the adjusted page")
		}
		if engine.callCount() != 2 {
			t.Errorf("OCR ran %d times, want 2", engine.callCount())
		}
		if got := result.Fragments()[0].Rect; got != straight[0].Rect {
			t.Errorf("fragments come from the first pass: %+v", got)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		engine := &fakeOCR{results: [][]model.OCRFragment{skewed, straight}}
		result := MustResult(New(whitePage(500, 400)).WithOCR(engine).Deskew(false).Extract(context.Background()))

		if result.AdjustedImage != nil {
			t.Error("AdjustedImage set with deskew disabled")
		}
		if engine.callCount() != 1 {
			t.Errorf("OCR ran %d times, want 1", engine.callCount())
		}
	})

	t.Run("below threshold", func(t *testing.T) {
		engine := &fakeOCR{results: [][]model.OCRFragment{straight}}
		result := MustResult(New(whitePage(500, 400)).WithOCR(engine).Extract(context.Background()))
		if result.AdjustedImage != nil {
			t.Error("AdjustedImage set for a straight page")
		}
	})
}

// ============================================================================
// Table and formula recognition
// ============================================================================

func structuredPage() *Extractor {
	engine := &fakeOCR{results: [][]model.OCRFragment{{frag("Intro", 10, 10, 200, 30)}}}
	detector := staticDetector(
		detect.Detection{Class: model.ClassPlainText, Box: model.NewBBox(0, 0, 400, 50), Confidence: 0.9},
		detect.Detection{Class: model.ClassTable, Box: model.NewBBox(0, 100, 400, 300), Confidence: 0.9},
		detect.Detection{Class: model.ClassIsolateFormula, Box: model.NewBBox(0, 500, 200, 50), Confidence: 0.9},
	)
	return New(whitePage(500, 800)).WithOCR(engine).WithDetector(detector)
}

func findLayout(layouts []model.Layout, cls model.LayoutClass) model.Layout {
	for _, l := range layouts {
		if l.Class() == cls {
			return l
		}
	}
	return nil
}

func TestExtractRecognizers(t *testing.T) {
	var tableSize image.Point
	tables := recognize.TableFunc(func(_ context.Context, img image.Image, format model.OutputFormat) (string, error) {
		tableSize = img.Bounds().Size()
		if format != model.FormatHTML {
			t.Errorf("format = %v, want html", format)
		}
		return "<table><tr><th>A</th></tr><tr><td>1</td></tr></table>", nil
	})
	formulas := recognize.FormulaFunc(func(context.Context, image.Image) (string, error) {
		return "x^2", nil
	})

	result, warnings, err := structuredPage().
		WithTableRecognizer(tables, model.FormatHTML).
		WithFormulaRecognizer(formulas).
		Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}

	if tableSize != (image.Point{X: 400, Y: 300}) {
		t.Errorf("table clip size = %v, want 400x300", tableSize)
	}

	table, ok := findLayout(result.Layouts, model.ClassTable).(*model.TableLayout)
	if !ok {
		t.Fatal("no table layout")
	}
	if table.Format != model.FormatHTML || !strings.Contains(table.Content, "<table>") {
		t.Errorf("table = %v %q", table.Format, table.Content)
	}

	formula, ok := findLayout(result.Layouts, model.ClassIsolateFormula).(*model.FormulaLayout)
	if !ok {
		t.Fatal("no formula layout")
	}
	if formula.Latex != "x^2" {
		t.Errorf("Latex = %q, want x^2", formula.Latex)
	}
}

func TestExtractRecognizerUnavailable(t *testing.T) {
	result, warnings, err := structuredPage().
		WithTableRecognizer(recognize.Unavailable{}, model.FormatMarkdown).
		WithFormulaRecognizer(recognize.Unavailable{}).
		Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	count := 0
	for _, w := range warnings {
		if w.Kind == WarnCapabilityUnavailable {
			count++
		}
	}
	if count != 2 {
		t.Errorf("got %d capability warnings, want 2: %v", count, warnings)
	}

	table := findLayout(result.Layouts, model.ClassTable).(*model.TableLayout)
	if table.Content != "" {
		t.Errorf("Content = %q, want empty", table.Content)
	}
}

func TestExtractRecognizerFailure(t *testing.T) {
	recErr := errors.New("model crashed")
	tables := recognize.TableFunc(func(context.Context, image.Image, model.OutputFormat) (string, error) {
		return "", recErr
	})

	result, _, err := structuredPage().WithTableRecognizer(tables, model.FormatHTML).Extract(context.Background())
	if !errors.Is(err, recErr) {
		t.Errorf("error = %v, want %v", err, recErr)
	}
	if result != nil {
		t.Error("expected nil result on recognizer failure")
	}
}

func TestExtractRecognizersSkippedWithoutImage(t *testing.T) {
	called := false
	tables := recognize.TableFunc(func(context.Context, image.Image, model.OutputFormat) (string, error) {
		called = true
		return "", nil
	})
	regions := []model.Layout{region(model.ClassTable, 0, 0, 100, 100)}

	MustResult(FromRecognized(200, 200, nil, regions).WithTableRecognizer(tables, model.FormatHTML).Extract(context.Background()))
	if called {
		t.Error("table recognizer called without an image")
	}
}

// ============================================================================
// Markdown
// ============================================================================

func TestMarkdown(t *testing.T) {
	tables := recognize.TableFunc(func(context.Context, image.Image, model.OutputFormat) (string, error) {
		return "<table><tr><th>A</th></tr><tr><td>1</td></tr></table>", nil
	})
	formulas := recognize.FormulaFunc(func(context.Context, image.Image) (string, error) {
		return "x^2", nil
	})

	md, _, err := structuredPage().
		WithTableRecognizer(tables, model.FormatHTML).
		WithFormulaRecognizer(formulas).
		Markdown(context.Background())
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}

	for _, want := range []string{"Intro", "| A |", "| 1 |", "$$\nx^2\n$$"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "Intro") > strings.Index(md, "| A |") {
		t.Errorf("markdown out of reading order:\n%s", md)
	}
}

func TestMarkdownError(t *testing.T) {
	md, _, err := New(whitePage(10, 10)).Markdown(context.Background())
	if err == nil || md != "" {
		t.Errorf("Markdown() = %q, %v; want error", md, err)
	}
}

func TestToMarkdown(t *testing.T) {
	withText := func(l model.Layout, text string) model.Layout {
		l.Base().Fragments = []model.OCRFragment{frag(text, 0, 0, 10, 10)}
		return l
	}
	mdTable := region(model.ClassTable, 0, 0, 10, 10).(*model.TableLayout)
	mdTable.Content = "| x |\n|---|\n"
	mdTable.Format = model.FormatMarkdown

	brokenTable := withText(region(model.ClassTable, 0, 0, 10, 10), "raw cells").(*model.TableLayout)
	brokenTable.Content = "not a table"
	brokenTable.Format = model.FormatHTML

	tests := []struct {
		name   string
		layout model.Layout
		want   string
	}{
		{"title", withText(region(model.ClassTitle, 0, 0, 10, 10), "Intro"), "# Intro\n"},
		{"plain text", withText(region(model.ClassPlainText, 0, 0, 10, 10), "Body"), "Body\n"},
		{"caption", withText(region(model.ClassFigureCaption, 0, 0, 10, 10), "Fig. 1"), "Fig. 1\n"},
		{"abandon", withText(region(model.ClassAbandon, 0, 0, 10, 10), "page 3"), ""},
		{"figure", withText(region(model.ClassFigure, 0, 0, 10, 10), "label"), ""},
		{"markdown table", mdTable, "| x |\n|---|\n"},
		{"unparseable html table", brokenTable, "raw cells\n"},
		{"empty table", withText(region(model.ClassTable, 0, 0, 10, 10), "cells"), "cells\n"},
		{"empty formula", region(model.ClassIsolateFormula, 0, 0, 10, 10), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.NewExtractedResult(0, []model.Layout{tt.layout}, nil)
			if got := ToMarkdown(result); got != tt.want {
				t.Errorf("ToMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToMarkdownJoinsBlocks(t *testing.T) {
	title := region(model.ClassTitle, 0, 0, 10, 10)
	title.Base().Fragments = []model.OCRFragment{frag("T", 0, 0, 10, 10)}
	body := region(model.ClassPlainText, 0, 0, 10, 10)
	body.Base().Fragments = []model.OCRFragment{frag("B", 0, 0, 10, 10)}

	got := ToMarkdown(model.NewExtractedResult(0, []model.Layout{title, body}, nil))
	if got != "# T\n\nB\n" {
		t.Errorf("ToMarkdown() = %q", got)
	}
	if ToMarkdown(nil) != "" {
		t.Error("ToMarkdown(nil) should be empty")
	}
}

// ============================================================================
// Batches, scorer wiring and helpers
// ============================================================================

func TestExtractPages(t *testing.T) {
	engine := &fakeOCR{results: [][]model.OCRFragment{{frag("text", 10, 10, 100, 30)}}}
	pages := []*Extractor{
		New(whitePage(200, 200)).WithOCR(engine),
		New(whitePage(200, 200)),
		New(whitePage(200, 200)).WithOCR(engine),
		recognizedPage(),
	}

	results := ExtractPages(context.Background(), pages, 3)
	if len(results) != len(pages) {
		t.Fatalf("got %d results, want %d", len(results), len(pages))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
	}
	if !errors.Is(results[1].Err, ErrNoOCREngine) {
		t.Errorf("page 1 error = %v, want ErrNoOCREngine", results[1].Err)
	}
	for _, i := range []int{0, 2, 3} {
		if results[i].Err != nil || results[i].Result == nil {
			t.Errorf("page %d: %v", i, results[i].Err)
		}
	}
	if engine.callCount() != 2 {
		t.Errorf("OCR ran %d times, want 2", engine.callCount())
	}
}

func TestExtractPagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := ExtractPages(ctx, []*Extractor{recognizedPage(), recognizedPage()}, 0)
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("page %d error = %v, want context.Canceled", r.Index, r.Err)
		}
	}
}

func TestScorerFromConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s, closeFn, err := ScorerFromConfig(config.Default())
		if err != nil || s != nil {
			t.Errorf("ScorerFromConfig() = %v, %v; want nil, nil", s, err)
		}
		if err := closeFn(); err != nil {
			t.Errorf("close error = %v", err)
		}
	})

	t.Run("pooled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Scorer.BaseURL = "http://localhost:1"
		cfg.Scorer.PoolSize = 3
		s, closeFn, err := ScorerFromConfig(cfg)
		if err != nil || s == nil {
			t.Fatalf("ScorerFromConfig() = %v, %v", s, err)
		}
		defer closeFn()
	})

	t.Run("cached", func(t *testing.T) {
		cfg := config.Default()
		cfg.Scorer.BaseURL = "http://localhost:1"
		cfg.Scorer.CachePath = t.TempDir() + "/ranks.db"
		s, closeFn, err := ScorerFromConfig(cfg)
		if err != nil || s == nil {
			t.Fatalf("ScorerFromConfig() = %v, %v", s, err)
		}
		if err := closeFn(); err != nil {
			t.Errorf("close error = %v", err)
		}
	})
}

func TestWarnings(t *testing.T) {
	warnings := []Warning{
		{Kind: WarnNoDetector, Message: "whole page"},
		{Kind: WarnReorderSkipped, Message: "too many boxes"},
	}
	want := "no-detector: whole page\nreorder-skipped: too many boxes"
	if got := FormatWarnings(warnings); got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}
	if got := WarningKind(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must() = %d, want 42", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestMustResultPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustResult should panic on error")
		}
	}()
	MustResult(New(whitePage(10, 10)).Extract(context.Background()))
}
