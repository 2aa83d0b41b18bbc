// Package recognize defines the table and formula structure recognizers the
// extraction pipeline calls on clipped regions, and converts their HTML
// table output to markdown.
package recognize

import (
	"context"
	"errors"
	"image"

	"github.com/tsawler/pagelayout/model"
)

// ErrCapabilityUnavailable is returned by a recognizer that cannot serve the
// request, e.g. because its model is not installed. The pipeline leaves the
// region's payload empty and continues.
var ErrCapabilityUnavailable = errors.New("recognizer capability unavailable")

// TableRecognizer turns a clipped table image into structure markup in the
// requested format.
type TableRecognizer interface {
	RecognizeTable(ctx context.Context, img image.Image, format model.OutputFormat) (string, error)
}

// FormulaRecognizer turns a clipped formula image into LaTeX
type FormulaRecognizer interface {
	RecognizeFormula(ctx context.Context, img image.Image) (string, error)
}

// TableFunc adapts a function to the TableRecognizer interface
type TableFunc func(ctx context.Context, img image.Image, format model.OutputFormat) (string, error)

// RecognizeTable calls f(ctx, img, format)
func (f TableFunc) RecognizeTable(ctx context.Context, img image.Image, format model.OutputFormat) (string, error) {
	return f(ctx, img, format)
}

// FormulaFunc adapts a function to the FormulaRecognizer interface
type FormulaFunc func(ctx context.Context, img image.Image) (string, error)

// RecognizeFormula calls f(ctx, img)
func (f FormulaFunc) RecognizeFormula(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}

// Unavailable is a recognizer for both tables and formulas that always
// returns ErrCapabilityUnavailable.
type Unavailable struct{}

// RecognizeTable returns ErrCapabilityUnavailable
func (Unavailable) RecognizeTable(context.Context, image.Image, model.OutputFormat) (string, error) {
	return "", ErrCapabilityUnavailable
}

// RecognizeFormula returns ErrCapabilityUnavailable
func (Unavailable) RecognizeFormula(context.Context, image.Image) (string, error) {
	return "", ErrCapabilityUnavailable
}
