package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pagelayout/model"
)

// RegroupConfig holds configuration for line regrouping
type RegroupConfig struct {
	// MaxDeviation is the largest distance between a fragment's vertical
	// centre and the running mean centre of a line, as a fraction of the
	// line's mean height, for the fragment to join that line (default: 0.35)
	MaxDeviation float64
}

// DefaultRegroupConfig returns sensible default configuration
func DefaultRegroupConfig() RegroupConfig {
	return RegroupConfig{
		MaxDeviation: 0.35,
	}
}

// LineRegrouper merges fragments that belong to one visual line but were
// returned by the OCR engine as separate detections.
type LineRegrouper struct {
	config RegroupConfig
}

// NewLineRegrouper creates a line regrouper with default configuration
func NewLineRegrouper() *LineRegrouper {
	return &LineRegrouper{
		config: DefaultRegroupConfig(),
	}
}

// NewLineRegrouperWithConfig creates a line regrouper with custom configuration
func NewLineRegrouperWithConfig(config RegroupConfig) *LineRegrouper {
	return &LineRegrouper{
		config: config,
	}
}

// RegroupLayouts regroups the fragments of every region independently and
// returns new layouts.
func (g *LineRegrouper) RegroupLayouts(layouts []model.Layout) []model.Layout {
	out := model.CloneLayouts(layouts)
	for _, l := range out {
		base := l.Base()
		base.Fragments = g.Regroup(base.Fragments)
	}
	return out
}

// Regroup returns one fragment per detected line, top to bottom.
// Lines with a single member are passed through unchanged.
func (g *LineRegrouper) Regroup(fragments []model.OCRFragment) []model.OCRFragment {
	if len(fragments) == 0 {
		return nil
	}

	sorted := model.CloneFragments(fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return verticalSum(sorted[i]) < verticalSum(sorted[j])
	})

	var result []model.OCRFragment
	var line []model.OCRFragment
	var sumCenter, sumHeight float64

	for _, f := range sorted {
		box := f.Rect.Wrapper()
		center := box.Center().Y

		if len(line) > 0 {
			n := float64(len(line))
			if !g.sameLine(center, sumCenter/n, sumHeight/n) {
				result = append(result, mergeLine(line))
				line = nil
				sumCenter, sumHeight = 0, 0
			}
		}

		line = append(line, f)
		sumCenter += center
		sumHeight += box.Height
	}
	result = append(result, mergeLine(line))

	return result
}

func (g *LineRegrouper) sameLine(center, meanCenter, meanHeight float64) bool {
	deviation := math.Abs(center - meanCenter)
	if meanHeight <= 0 {
		return deviation == 0
	}
	return deviation/meanHeight <= g.config.MaxDeviation
}

// mergeLine joins the members of a line left to right
func mergeLine(line []model.OCRFragment) model.OCRFragment {
	if len(line) == 1 {
		return line[0]
	}

	sort.SliceStable(line, func(i, j int) bool {
		return line[i].Rect.Wrapper().Left() < line[j].Rect.Wrapper().Left()
	})

	texts := make([]string, len(line))
	var weighted, totalLen, sumRank float64
	order := line[0].Order
	box := line[0].Rect.Wrapper()

	for i, f := range line {
		texts[i] = f.Text
		n := float64(f.Length())
		weighted += f.Rank * n
		totalLen += n
		sumRank += f.Rank
		if f.Order < order {
			order = f.Order
		}
		box = box.Union(f.Rect.Wrapper())
	}

	rank := sumRank / float64(len(line))
	if totalLen > 0 {
		rank = weighted / totalLen
	}

	return model.OCRFragment{
		Order: order,
		Text:  strings.Join(texts, " "),
		Rank:  rank,
		Rect:  box.Rect(),
	}
}

// verticalSum is top + bottom of the fragment's bounding box, a cheap
// top-to-bottom sort key.
func verticalSum(f model.OCRFragment) float64 {
	box := f.Rect.Wrapper()
	return box.Top() + box.Bottom()
}
