package model

import "unicode/utf8"

// OCRFragment is a single recognized text span
type OCRFragment struct {
	// Order is the reading-order position assigned by the ordering engine
	Order int

	// Text is the recognized text
	Text string

	// Rank is the recognition confidence in [0, 1]
	Rank float64

	// Rect is the (possibly skewed) quadrilateral around the text
	Rect Rectangle
}

// Length returns the number of characters in the fragment text
func (f OCRFragment) Length() int {
	return utf8.RuneCountInString(f.Text)
}

// CloneFragments returns a copy of the slice (nil stays nil)
func CloneFragments(fragments []OCRFragment) []OCRFragment {
	if fragments == nil {
		return nil
	}
	out := make([]OCRFragment, len(fragments))
	copy(out, fragments)
	return out
}
