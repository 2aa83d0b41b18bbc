package pagelayout

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/tsawler/pagelayout/clipper"
	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/detect"
	"github.com/tsawler/pagelayout/internal/logger"
	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/model"
	"github.com/tsawler/pagelayout/ocr"
	"github.com/tsawler/pagelayout/recognize"
	"github.com/tsawler/pagelayout/skew"
)

// ErrNoOCREngine is returned when a page image has to be recognized but no
// OCR engine was configured.
var ErrNoOCREngine = errors.New("no OCR engine configured")

// Extractor provides a fluent interface for extracting the layout of a page.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	img      image.Image

	// Pre-recognized input (FromRecognized)
	width      float64
	height     float64
	fragments  []model.OCRFragment
	regions    []model.Layout
	recognized bool

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// Sources are never mutated, so they can be shared.
func (e *Extractor) clone() *Extractor {
	newExt := *e
	newExt.options = e.options.clone()
	return &newExt
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithOCR sets the engine producing text fragments.
func (e *Extractor) WithOCR(engine ocr.Engine) *Extractor {
	newExt := e.clone()
	newExt.options.ocr = engine
	return newExt
}

// WithDetector sets the layout region detector. Without one the whole page
// is a single text region.
func (e *Extractor) WithDetector(detector detect.Detector) *Extractor {
	newExt := e.clone()
	newExt.options.detector = detector
	return newExt
}

// WithDetectOptions overrides the options passed to the detector.
func (e *Extractor) WithDetectOptions(opts detect.Options) *Extractor {
	newExt := e.clone()
	newExt.options.config.Detect = config.DetectConfig{
		InferenceSize: opts.InferenceSize,
		Confidence:    opts.Confidence,
		Device:        opts.Device,
	}
	return newExt
}

// WithScorer enables neural reading order with the given scorer.
func (e *Extractor) WithScorer(scorer layout.Scorer) *Extractor {
	newExt := e.clone()
	newExt.options.scorer = scorer
	return newExt
}

// WithTableRecognizer sets the recognizer run on table regions and the
// payload format requested from it.
func (e *Extractor) WithTableRecognizer(r recognize.TableRecognizer, format model.OutputFormat) *Extractor {
	newExt := e.clone()
	newExt.options.tables = r
	newExt.options.tableFormat = format
	return newExt
}

// WithFormulaRecognizer sets the recognizer run on isolated formula regions.
func (e *Extractor) WithFormulaRecognizer(r recognize.FormulaRecognizer) *Extractor {
	newExt := e.clone()
	newExt.options.formulas = r
	return newExt
}

// WithConfig replaces every stage threshold.
func (e *Extractor) WithConfig(cfg *config.Config) *Extractor {
	newExt := e.clone()
	if cfg == nil {
		newExt.err = fmt.Errorf("nil config")
		return newExt
	}
	if err := cfg.Validate(); err != nil {
		newExt.err = fmt.Errorf("invalid config: %w", err)
		return newExt
	}
	newExt.options.config = cfg
	newExt.options = newExt.options.clone()
	return newExt
}

// Deskew enables or disables page straightening. When enabled and the
// estimated rotation exceeds the configured threshold, the page is rotated
// back and recognized again.
func (e *Extractor) Deskew(enabled bool) *Extractor {
	newExt := e.clone()
	newExt.options.config.Deskew.Enabled = enabled
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Extract runs the whole pipeline and returns the page in reading order.
//
// When the reading-order scorer fails the result is still returned, in the
// geometric order, together with the wrapped scorer error. Any other error
// returns a nil result.
func (e *Extractor) Extract(ctx context.Context) (*model.ExtractedResult, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	cfg := e.options.config
	var warnings []Warning

	img, err := e.pageImage()
	if err != nil {
		return nil, nil, err
	}
	width, height := e.width, e.height
	if img != nil {
		b := img.Bounds()
		width, height = float64(b.Dx()), float64(b.Dy())
	}

	logger.Section("extract")
	fragments, regions, err := e.recognize(ctx, img, width, height)
	if err != nil {
		return nil, nil, err
	}
	if !e.recognized && e.options.detector == nil {
		warnings = append(warnings, Warning{
			Kind:    WarnNoDetector,
			Message: "no detector configured; the page is one text region",
		})
	}

	rotation := skew.Estimate(fragments)
	logger.Debug("estimated rotation %.4f rad from %d fragments", rotation, len(fragments))
	result := model.NewExtractedResult(rotation, nil, img)

	if cfg.Deskew.Enabled && img != nil && !e.recognized && math.Abs(rotation) > cfg.Deskew.Threshold {
		logger.Info("deskewing page by %.4f rad", rotation)
		adjusted := clipper.Deskew(img, rotation)
		result.AdjustedImage = adjusted
		fragments, regions, err = e.recognize(ctx, adjusted, width, height)
		if err != nil {
			return nil, nil, err
		}
	}

	layouts, unmatched := e.arrange(fragments, regions)
	if unmatched > 0 {
		warnings = append(warnings, Warning{
			Kind:    WarnUnmatchedFragments,
			Message: fmt.Sprintf("%d fragments outside every region were dropped", unmatched),
		})
	}

	engine := layout.NewReadingOrderEngineWithConfig(e.options.scorer, cfg.OrderConfig())
	order, orderErr := engine.Order(ctx, layouts, width, height)
	if orderErr != nil {
		warnings = append(warnings, Warning{Kind: WarnReorderFailed, Message: orderErr.Error()})
	}
	if order.Aborted {
		warnings = append(warnings, Warning{
			Kind:    WarnReorderSkipped,
			Message: fmt.Sprintf("%d boxes exceed the scorer limit of %d", order.BoxCount, cfg.Order.MaxBoxes),
		})
	}
	result.Layouts = order.Layouts

	structureWarnings, err := e.recognizeStructures(ctx, result)
	warnings = append(warnings, structureWarnings...)
	if err != nil {
		return nil, warnings, err
	}

	return result, warnings, orderErr
}

// Markdown runs Extract and renders the result with ToMarkdown.
func (e *Extractor) Markdown(ctx context.Context) (string, []Warning, error) {
	result, warnings, err := e.Extract(ctx)
	if result == nil {
		return "", warnings, err
	}
	return ToMarkdown(result), warnings, err
}

// ============================================================================
// Pipeline stages
// ============================================================================

// pageImage returns the page image, decoding it from disk when needed.
func (e *Extractor) pageImage() (image.Image, error) {
	if e.img != nil || e.filename == "" {
		return e.img, nil
	}
	return LoadImage(e.filename)
}

// recognize returns the raw fragments and empty regions of a page.
func (e *Extractor) recognize(ctx context.Context, img image.Image, width, height float64) ([]model.OCRFragment, []model.Layout, error) {
	if e.recognized {
		return model.CloneFragments(e.fragments), model.CloneLayouts(e.regions), nil
	}
	if e.options.ocr == nil {
		return nil, nil, ErrNoOCREngine
	}

	fragments, err := e.options.ocr.Recognize(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("ocr: %w", err)
	}
	logger.Debug("ocr produced %d fragments", len(fragments))

	if e.options.detector == nil {
		page := model.NewLayout(model.ClassPlainText, model.NewRect(0, 0, width, height))
		return fragments, []model.Layout{page}, nil
	}

	opts := e.options.config.DetectOptions()
	detections, err := e.options.detector.Detect(ctx, img, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("detect: %w", err)
	}
	regions := detect.ToLayouts(detections, opts.Confidence)
	logger.Debug("detector produced %d regions", len(regions))
	return fragments, regions, nil
}

// arrange matches fragments to regions and cleans the region list up.
func (e *Extractor) arrange(fragments []model.OCRFragment, regions []model.Layout) ([]model.Layout, int) {
	cfg := e.options.config

	layouts, unmatched := layout.AssignFragments(regions, fragments, cfg.MatchConfig())
	if len(unmatched) > 0 {
		logger.Debug("%d fragments matched no region", len(unmatched))
	}

	before := len(layouts)
	layouts = layout.NewOverlapResolverWithConfig(cfg.OverlapConfig()).Resolve(layouts)
	layouts = layout.DropEmpty(layouts)
	logger.Debug("overlap and cleanup removed %d of %d regions", before-len(layouts), before)

	layouts = layout.NewLineRegrouperWithConfig(cfg.RegroupConfig()).RegroupLayouts(layouts)
	return layouts, len(unmatched)
}

// recognizeStructures fills table and formula payloads from clipped region
// images. Unavailable recognizers leave the payload empty.
func (e *Extractor) recognizeStructures(ctx context.Context, result *model.ExtractedResult) ([]Warning, error) {
	if result.Image() == nil || (e.options.tables == nil && e.options.formulas == nil) {
		return nil, nil
	}

	var warnings []Warning
	unavailable := func(what string, err error) {
		logger.Info("%s recognition unavailable: %v", what, err)
		warnings = append(warnings, Warning{
			Kind:    WarnCapabilityUnavailable,
			Message: fmt.Sprintf("%s recognition unavailable: %v", what, err),
		})
	}

	for _, l := range result.Layouts {
		switch v := l.(type) {
		case *model.TableLayout:
			if e.options.tables == nil {
				continue
			}
			content, err := e.options.tables.RecognizeTable(ctx, clipper.ClipResult(result, l), e.options.tableFormat)
			if errors.Is(err, recognize.ErrCapabilityUnavailable) {
				unavailable("table", err)
				continue
			}
			if err != nil {
				return warnings, fmt.Errorf("table recognition: %w", err)
			}
			v.Content = content
			v.Format = e.options.tableFormat

		case *model.FormulaLayout:
			if e.options.formulas == nil {
				continue
			}
			latex, err := e.options.formulas.RecognizeFormula(ctx, clipper.ClipResult(result, l))
			if errors.Is(err, recognize.ErrCapabilityUnavailable) {
				unavailable("formula", err)
				continue
			}
			if err != nil {
				return warnings, fmt.Errorf("formula recognition: %w", err)
			}
			v.Latex = latex
		}
	}
	return warnings, nil
}
