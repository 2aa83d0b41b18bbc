package layout

import "github.com/tsawler/pagelayout/model"

// makeFragment creates an axis-aligned fragment for layout tests
func makeFragment(text string, x0, y0, x1, y1 float64) model.OCRFragment {
	return model.OCRFragment{
		Text: text,
		Rank: 1,
		Rect: model.NewRect(x0, y0, x1, y1),
	}
}

// makeLayout creates a region of the given class owning frags
func makeLayout(cls model.LayoutClass, x0, y0, x1, y1 float64, frags ...model.OCRFragment) model.Layout {
	l := model.NewLayout(cls, model.NewRect(x0, y0, x1, y1))
	l.Base().Fragments = frags
	return l
}

func texts(frags []model.OCRFragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Text
	}
	return out
}

func orders(frags []model.OCRFragment) []int {
	out := make([]int, len(frags))
	for i, f := range frags {
		out[i] = f.Order
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
