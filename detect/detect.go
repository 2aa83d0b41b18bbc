// Package detect defines the layout region detector consumed by the
// extraction pipeline and parses the grounding markup emitted by generative
// document models.
package detect

import (
	"context"
	"image"

	"github.com/tsawler/pagelayout/model"
)

// Options configures one detector call
type Options struct {
	// InferenceSize is the side the page is resized to before inference
	// (default: 1024)
	InferenceSize int

	// Confidence is the minimum detection score kept (default: 0.2)
	Confidence float64

	// Device is a hint such as "cpu" or "cuda" (default: "cpu")
	Device string
}

// DefaultOptions returns sensible default options
func DefaultOptions() Options {
	return Options{
		InferenceSize: 1024,
		Confidence:    0.2,
		Device:        "cpu",
	}
}

// Detection is one detected region in page pixel coordinates
type Detection struct {
	Class      model.LayoutClass
	Box        model.BBox
	Confidence float64

	// Text is set by detectors that also transcribe the region
	Text string
}

// Detector finds layout regions on a page image
type Detector interface {
	Detect(ctx context.Context, img image.Image, opts Options) ([]Detection, error)
}

// DetectorFunc adapts a function to the Detector interface
type DetectorFunc func(ctx context.Context, img image.Image, opts Options) ([]Detection, error)

// Detect calls f(ctx, img, opts)
func (f DetectorFunc) Detect(ctx context.Context, img image.Image, opts Options) ([]Detection, error) {
	return f(ctx, img, opts)
}

// ToLayouts converts detections into empty regions, dropping those below
// minConfidence. Detections with a zero confidence are always kept.
func ToLayouts(detections []Detection, minConfidence float64) []model.Layout {
	layouts := make([]model.Layout, 0, len(detections))
	for _, d := range detections {
		if d.Confidence != 0 && d.Confidence < minConfidence {
			continue
		}
		if d.Box.IsEmpty() {
			continue
		}
		layouts = append(layouts, model.NewLayout(d.Class, d.Box.Rect()))
	}
	return layouts
}
