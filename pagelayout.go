// Package pagelayout provides a fluent API for reconstructing the structure
// of a scanned document page: its skew, its layout regions and their reading
// order.
//
// Basic usage:
//
//	result, warnings, err := pagelayout.Open("page.png").
//	    WithOCR(engine).
//	    WithDetector(detector).
//	    Extract(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagelayout.FormatWarnings(warnings))
//	}
//
// With a reading-order model and recognizers:
//
//	md, _, err := pagelayout.New(img).
//	    WithOCR(engine).
//	    WithDetector(detector).
//	    WithScorer(scorer).
//	    WithTableRecognizer(tables, model.FormatHTML).
//	    Markdown(ctx)
//
// Already recognized pages skip OCR and detection:
//
//	result, _, err := pagelayout.FromRecognized(width, height, fragments, regions).Extract(ctx)
//
// For advanced use cases, the lower-level layout, skew and clipper packages
// are also available.
package pagelayout

import (
	"image"

	"github.com/tsawler/pagelayout/model"
)

// Open returns an Extractor for an image file. The file is decoded when a
// terminal operation runs; PNG, JPEG, GIF, TIFF, BMP and WebP are supported.
//
// Example:
//
//	result, _, err := pagelayout.Open("page.png").WithOCR(engine).Extract(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// New returns an Extractor for a decoded page image.
func New(img image.Image) *Extractor {
	return &Extractor{
		img:     img,
		options: defaultOptions(),
	}
}

// FromRecognized returns an Extractor for a page whose fragments and
// regions were produced elsewhere. Regions may already own fragments;
// loose fragments are matched to regions. Without an image, deskewing and
// table/formula recognition are skipped.
func FromRecognized(width, height float64, fragments []model.OCRFragment, regions []model.Layout) *Extractor {
	return &Extractor{
		width:      width,
		height:     height,
		fragments:  model.CloneFragments(fragments),
		regions:    model.CloneLayouts(regions),
		recognized: true,
		options:    defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	img := pagelayout.Must(pagelayout.LoadImage("page.png"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a call to Extract() or Markdown() and
// panics if the error is non-nil. It discards warnings and returns just the
// value.
//
// Example:
//
//	result := pagelayout.MustResult(pagelayout.New(img).WithOCR(engine).Extract(ctx))
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
