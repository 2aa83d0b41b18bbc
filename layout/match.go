package layout

import "github.com/tsawler/pagelayout/model"

// MatchConfig holds configuration for fragment-to-region matching
type MatchConfig struct {
	// MinOverlapRate is the minimum share of a fragment a region must cover
	// to claim it (default: 0.5)
	MinOverlapRate float64
}

// DefaultMatchConfig returns sensible default configuration
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		MinOverlapRate: 0.5,
	}
}

// AssignFragments appends each fragment to the region covering it best.
// Ties go to the earlier region. Fragments no region covers at
// MinOverlapRate are returned as unmatched. The input layouts are not
// modified; a new list is returned.
func AssignFragments(layouts []model.Layout, fragments []model.OCRFragment, config MatchConfig) ([]model.Layout, []model.OCRFragment) {
	out := model.CloneLayouts(layouts)
	var unmatched []model.OCRFragment

	for _, f := range fragments {
		best := -1
		bestRate := 0.0
		for i, l := range out {
			rate := model.OverlapRate(l.Base().Rect, f.Rect)
			if rate >= config.MinOverlapRate && rate > bestRate {
				best, bestRate = i, rate
			}
		}
		if best < 0 {
			unmatched = append(unmatched, f)
			continue
		}
		base := out[best].Base()
		base.Fragments = append(base.Fragments, f)
	}

	return out, unmatched
}

// DropEmpty removes regions without fragments, keeping figures, tables and
// formulas whose content is not OCR text.
func DropEmpty(layouts []model.Layout) []model.Layout {
	out := make([]model.Layout, 0, len(layouts))
	for _, l := range layouts {
		if len(l.Base().Fragments) > 0 || l.Class().HasContent() {
			out = append(out, l)
		}
	}
	return out
}
