package pagelayout

import (
	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/detect"
	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/model"
	"github.com/tsawler/pagelayout/ocr"
	"github.com/tsawler/pagelayout/recognize"
)

// ExtractOptions holds configuration for page extraction.
type ExtractOptions struct {
	// Collaborators
	ocr      ocr.Engine
	detector detect.Detector
	scorer   layout.Scorer
	tables   recognize.TableRecognizer
	formulas recognize.FormulaRecognizer

	// Table payload format requested from the table recognizer
	tableFormat model.OutputFormat

	// Thresholds for every stage
	config *config.Config
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		tableFormat: model.FormatHTML,
		config:      config.Default(),
	}
}

// clone creates a copy of ExtractOptions with its own config.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.config != nil {
		cfg := *o.config
		cfg.OCR.Languages = append([]string(nil), o.config.OCR.Languages...)
		newOpts.config = &cfg
	}
	return newOpts
}
