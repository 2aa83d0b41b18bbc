// Package ocr produces the raw OCR fragments the layout pipeline consumes.
//
// [Client] wraps the Tesseract OCR engine via gosseract. Tesseract support is
// compiled in only with the "ocr" build tag:
//
//	go build -tags ocr
//
// Without the tag every Client operation returns [ErrOCRNotEnabled].
// Tesseract must be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
	"errors"
	"image"

	"github.com/tsawler/pagelayout/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Engine recognizes text lines in a page image
type Engine interface {
	Recognize(ctx context.Context, img image.Image) ([]model.OCRFragment, error)
}

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes, matching Tesseract's numbering.
const (
	PSM_AUTO          PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK  PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE   PageSegMode = 7  // Single text line
	PSM_SPARSE_TEXT   PageSegMode = 11 // Find as much text as possible
)

// Config holds configuration for the Tesseract client
type Config struct {
	// Languages are BCP-47 tags, converted with TesseractLanguages
	// (default: en)
	Languages []string

	// PageSegMode selects Tesseract's layout analysis (default: PSM_AUTO)
	PageSegMode PageSegMode

	// MinConfidence drops lines Tesseract is less sure about, in 0..1
	// (default: 0)
	MinConfidence float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Languages:   []string{"en"},
		PageSegMode: PSM_AUTO,
	}
}
