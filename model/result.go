package model

import (
	"image"

	"github.com/google/uuid"
)

// ExtractedResult is the page-level output of extraction
type ExtractedResult struct {
	// ID identifies this extraction run
	ID string

	// Rotation is the estimated page skew in radians
	Rotation float64

	// Layouts in reading order
	Layouts []Layout

	// ExtractedImage is the page image as supplied
	ExtractedImage image.Image

	// AdjustedImage is the deskewed page, nil when no correction was applied
	AdjustedImage image.Image
}

// NewExtractedResult creates a result with a fresh ID
func NewExtractedResult(rotation float64, layouts []Layout, img image.Image) *ExtractedResult {
	return &ExtractedResult{
		ID:             uuid.NewString(),
		Rotation:       rotation,
		Layouts:        layouts,
		ExtractedImage: img,
	}
}

// Image returns the image the layout coordinates refer to
func (r *ExtractedResult) Image() image.Image {
	if r.AdjustedImage != nil {
		return r.AdjustedImage
	}
	return r.ExtractedImage
}

// Fragments returns every fragment in region order
func (r *ExtractedResult) Fragments() []OCRFragment {
	var out []OCRFragment
	for _, l := range r.Layouts {
		out = append(out, l.Base().Fragments...)
	}
	return out
}
