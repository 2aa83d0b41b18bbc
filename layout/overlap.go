package layout

import "github.com/tsawler/pagelayout/model"

// OverlapConfig holds configuration for duplicate region removal
type OverlapConfig struct {
	// ContainmentThreshold is the overlap rate above which one region is
	// treated as a near-duplicate of another (default: 0.99)
	ContainmentThreshold float64
}

// DefaultOverlapConfig returns sensible default configuration
func DefaultOverlapConfig() OverlapConfig {
	return OverlapConfig{
		ContainmentThreshold: 0.99,
	}
}

// OverlapResolver removes duplicate and nested regions emitted by a region
// detector for the same visual content.
type OverlapResolver struct {
	config OverlapConfig
}

// NewOverlapResolver creates an overlap resolver with default configuration
func NewOverlapResolver() *OverlapResolver {
	return &OverlapResolver{
		config: DefaultOverlapConfig(),
	}
}

// NewOverlapResolverWithConfig creates an overlap resolver with custom configuration
func NewOverlapResolverWithConfig(config OverlapConfig) *OverlapResolver {
	return &OverlapResolver{
		config: config,
	}
}

// OverlapMatrix returns rates[i][j] = OverlapRate(layouts[i], layouts[j]).
// The diagonal is fixed at 1.
func OverlapMatrix(layouts []model.Layout) [][]float64 {
	rates := make([][]float64, len(layouts))
	for i, a := range layouts {
		rates[i] = make([]float64, len(layouts))
		for j, b := range layouts {
			if i == j {
				rates[i][j] = 1
				continue
			}
			rates[i][j] = model.OverlapRate(a.Base().Rect, b.Base().Rect)
		}
	}
	return rates
}

// Resolve returns the surviving regions in their original relative order.
// The input is not modified.
//
// A region is acted on only when every region it overlaps at all is covered
// above the containment threshold. Partial overlaps are left alone. An acting
// region without fragments is removed; otherwise it absorbs the fragments of
// the regions it covers and they are removed. This is a single pass.
func (r *OverlapResolver) Resolve(layouts []model.Layout) []model.Layout {
	out := model.CloneLayouts(layouts)
	rates := OverlapMatrix(out)
	removed := make(map[int]bool)

	for i, current := range out {
		if removed[i] {
			continue
		}

		var covered []int
		contained := true
		for j := range out {
			if j == i || removed[j] || rates[i][j] == 0 {
				continue
			}
			covered = append(covered, j)
			if rates[i][j] <= r.config.ContainmentThreshold {
				contained = false
				break
			}
		}
		if len(covered) == 0 || !contained {
			continue
		}

		base := current.Base()
		if len(base.Fragments) == 0 {
			removed[i] = true
			continue
		}
		for _, j := range covered {
			removed[j] = true
			base.Fragments = append(base.Fragments, out[j].Base().Fragments...)
		}
	}

	result := make([]model.Layout, 0, len(out)-len(removed))
	for i, l := range out {
		if !removed[i] {
			result = append(result, l)
		}
	}
	return result
}
