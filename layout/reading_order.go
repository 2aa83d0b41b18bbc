package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/tsawler/pagelayout/internal/logger"
	"github.com/tsawler/pagelayout/model"
)

// ErrInvalidRanks is returned when a scorer's output is not a permutation
// of its input indexes.
var ErrInvalidRanks = errors.New("scorer returned invalid ranks")

// Box is an [x0, y0, x1, y1] box in the scorer's integer coordinate space
type Box [4]int

// Scorer is an external reading-order model. Given boxes in scorer space it
// returns one rank per box, a permutation of 0..len(boxes)-1.
type Scorer interface {
	Score(ctx context.Context, boxes []Box) ([]int, error)
}

// ScorerFunc adapts a function to the Scorer interface
type ScorerFunc func(ctx context.Context, boxes []Box) ([]int, error)

// Score calls f(ctx, boxes)
func (f ScorerFunc) Score(ctx context.Context, boxes []Box) ([]int, error) {
	return f(ctx, boxes)
}

// OrderTier identifies which ordering produced a result
type OrderTier int

const (
	// TierPrimitive is the geometric top-to-bottom order
	TierPrimitive OrderTier = iota
	// TierNeural is the scorer-assisted order
	TierNeural
)

// String returns a string representation of the tier
func (t OrderTier) String() string {
	if t == TierNeural {
		return "neural"
	}
	return "primitive"
}

// OrderConfig holds configuration for reading order reconstruction
type OrderConfig struct {
	// MaxBoxes is the scorer's context limit; pages producing more boxes
	// keep the primitive order (default: 200)
	MaxBoxes int

	// ScaleSize is the side of the scorer's square coordinate space
	// (default: 1000)
	ScaleSize float64

	// DefaultLineHeight is used for virtual lines when the page has no
	// fragments at all (default: 10)
	DefaultLineHeight float64
}

// DefaultOrderConfig returns sensible default configuration
func DefaultOrderConfig() OrderConfig {
	return OrderConfig{
		MaxBoxes:          200,
		ScaleSize:         1000,
		DefaultLineHeight: 10,
	}
}

// OrderResult holds the result of reading order reconstruction
type OrderResult struct {
	// Layouts in reading order. Layout.Order is the position in this list and
	// fragment orders are unique and dense across the page.
	Layouts []model.Layout

	// Tier is the ordering that determined the result
	Tier OrderTier

	// BoxCount is the number of boxes built for the scorer (0 when the
	// scorer was not consulted). Building stops at MaxBoxes+1.
	BoxCount int

	// Aborted is true when the page exceeded MaxBoxes
	Aborted bool

	// Ranks is aligned with Layouts and set only by the neural tier
	Ranks []RegionRank
}

// RegionRank is the scorer output behind one region's position
type RegionRank struct {
	// Ranks are the raw scorer ranks of the region's boxes, in box order.
	// Empty for regions placed by original index.
	Ranks []int

	// Key is the median of Ranks, the value the region was sorted by
	Key float64
}

// ReadingOrderEngine assigns a total order over regions and fragments.
// The primitive tier always runs; the neural tier runs when a scorer is set
// and the page dimensions are known.
type ReadingOrderEngine struct {
	config  OrderConfig
	scorer  Scorer
	aborted atomic.Int64
}

// NewReadingOrderEngine creates an engine with default configuration.
// scorer may be nil.
func NewReadingOrderEngine(scorer Scorer) *ReadingOrderEngine {
	return NewReadingOrderEngineWithConfig(scorer, DefaultOrderConfig())
}

// NewReadingOrderEngineWithConfig creates an engine with custom configuration
func NewReadingOrderEngineWithConfig(scorer Scorer, config OrderConfig) *ReadingOrderEngine {
	return &ReadingOrderEngine{
		config: config,
		scorer: scorer,
	}
}

// AbortedCount returns how many pages skipped the neural tier because they
// exceeded MaxBoxes.
func (e *ReadingOrderEngine) AbortedCount() int64 {
	return e.aborted.Load()
}

// Order returns the layouts in reading order. The input is not modified.
//
// When the scorer fails the primitive order is returned together with the
// wrapped error.
func (e *ReadingOrderEngine) Order(ctx context.Context, layouts []model.Layout, width, height float64) (*OrderResult, error) {
	primitive := OrderPrimitive(layouts)
	result := &OrderResult{
		Layouts: finalize(reassemble(model.CloneLayouts(primitive), fragmentRanks(primitive))),
		Tier:    TierPrimitive,
	}

	if e.scorer == nil || width <= 0 || height <= 0 {
		return result, nil
	}

	boxes := e.buildBoxes(primitive, width, height)
	result.BoxCount = len(boxes)
	if len(boxes) == 0 {
		return result, nil
	}
	if len(boxes) > e.config.MaxBoxes {
		e.aborted.Add(1)
		result.Aborted = true
		logger.Warn("reading order: %d boxes exceed limit %d, keeping primitive order", len(boxes), e.config.MaxBoxes)
		return result, nil
	}

	neural, ranks, err := e.reorder(ctx, primitive, boxes)
	if err != nil {
		logger.Warn("reading order: scorer failed, keeping primitive order: %v", err)
		return result, fmt.Errorf("neural reorder: %w", err)
	}

	placed := arrange(neural, ranks)
	result.Ranks = make([]RegionRank, len(placed))
	for i, p := range placed {
		rr := RegionRank{Key: p.key}
		for _, r := range ranks[p.index] {
			rr.Ranks = append(rr.Ranks, int(r))
		}
		result.Ranks[i] = rr
	}
	result.Layouts = finalize(layoutsOf(placed))
	result.Tier = TierNeural
	return result, nil
}

// OrderPrimitive sorts each region's fragments by the top+bottom sum of
// their bounding boxes and numbers them sequentially across regions in
// traversal order. Fragments on the same row keep their input order. It
// returns new layouts and is idempotent.
func OrderPrimitive(layouts []model.Layout) []model.Layout {
	out := model.CloneLayouts(layouts)
	order := 0
	for _, l := range out {
		frags := l.Base().Fragments
		sort.SliceStable(frags, func(i, j int) bool {
			return verticalSum(frags[i]) < verticalSum(frags[j])
		})
		for i := range frags {
			frags[i].Order = order
			order++
		}
	}
	return out
}

// buildBoxes creates one box per plain-text fragment and virtual lines for
// every other region, already rescaled into scorer space and sorted as the
// scorer expects.
func (e *ReadingOrderEngine) buildBoxes(layouts []model.Layout, width, height float64) []orderBox {
	lineHeight := averageLineHeight(layouts, e.config.DefaultLineHeight)

	// Counting stops once the page is known to exceed MaxBoxes.
	limit := e.config.MaxBoxes + 1

	var boxes []orderBox
	for i, l := range layouts {
		if len(boxes) >= limit {
			break
		}
		frags := l.Base().Fragments
		if l.Class() == model.ClassPlainText && len(frags) > 0 {
			for j, f := range frags {
				w := f.Rect.Wrapper()
				boxes = append(boxes, orderBox{
					layoutIndex:   i,
					fragmentIndex: j,
					value:         [4]float64{w.Left(), w.Top(), w.Right(), w.Bottom()},
				})
			}
			continue
		}
		boxes = append(boxes, virtualLines(l, i, lineHeight, width, height, limit-len(boxes))...)
	}

	xScale := e.config.ScaleSize / width
	yScale := e.config.ScaleSize / height
	for i := range boxes {
		v := boxes[i].value
		boxes[i].scaled = Box{
			int(math.Round(clamp(v[0], width) * xScale)),
			int(math.Round(clamp(v[1], height) * yScale)),
			int(math.Round(clamp(v[2], width) * xScale)),
			int(math.Round(clamp(v[3], height) * yScale)),
		}
	}

	sort.SliceStable(boxes, func(i, j int) bool {
		a, b := boxes[i].scaled, boxes[j].scaled
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return boxes
}

// reorder asks the scorer for ranks and returns new layouts with real
// fragments carrying their box rank, plus the ranks grouped per region.
func (e *ReadingOrderEngine) reorder(ctx context.Context, layouts []model.Layout, boxes []orderBox) ([]model.Layout, [][]float64, error) {
	input := make([]Box, len(boxes))
	for i, b := range boxes {
		input[i] = b.scaled
	}

	ranks, err := e.scorer.Score(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateRanks(ranks, len(input)); err != nil {
		return nil, nil, err
	}

	out := model.CloneLayouts(layouts)
	perLayout := make([][]float64, len(out))
	for k, b := range boxes {
		perLayout[b.layoutIndex] = append(perLayout[b.layoutIndex], float64(ranks[k]))
		if !b.virtual {
			out[b.layoutIndex].Base().Fragments[b.fragmentIndex].Order = ranks[k]
		}
	}
	logger.Debug("reading order: scored %d boxes over %d regions", len(boxes), len(out))
	return out, perLayout, nil
}

// ValidateRanks reports whether ranks is a permutation of 0..n-1. Failures
// wrap ErrInvalidRanks.
func ValidateRanks(ranks []int, n int) error {
	if len(ranks) != n {
		return fmt.Errorf("%w: got %d ranks for %d boxes", ErrInvalidRanks, len(ranks), n)
	}
	seen := make([]bool, n)
	for _, r := range ranks {
		if r < 0 || r >= n || seen[r] {
			return fmt.Errorf("%w: rank %d", ErrInvalidRanks, r)
		}
		seen[r] = true
	}
	return nil
}

// fragmentRanks groups the current fragment orders per region
func fragmentRanks(layouts []model.Layout) [][]float64 {
	ranks := make([][]float64, len(layouts))
	for i, l := range layouts {
		for _, f := range l.Base().Fragments {
			ranks[i] = append(ranks[i], float64(f.Order))
		}
	}
	return ranks
}

type rankedLayout struct {
	index  int
	layout model.Layout
	key    float64
}

// reassemble sorts ranked regions by the median of their ranks. Regions
// without ranks are then inserted right after the placed region with the
// largest original index below theirs, or at the front.
func reassemble(layouts []model.Layout, ranks [][]float64) []model.Layout {
	return layoutsOf(arrange(layouts, ranks))
}

// arrange returns the regions of reassemble with their original index and
// sort key.
func arrange(layouts []model.Layout, ranks [][]float64) []rankedLayout {
	var placed, unranked []rankedLayout
	for i, l := range layouts {
		if len(ranks[i]) == 0 {
			unranked = append(unranked, rankedLayout{index: i, layout: l})
			continue
		}
		placed = append(placed, rankedLayout{index: i, layout: l, key: median(ranks[i])})
	}

	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].key < placed[j].key
	})

	for _, u := range unranked {
		insertAt := 0
		maxLess := -1
		for j, p := range placed {
			if p.index < u.index && p.index > maxLess {
				maxLess = p.index
				insertAt = j + 1
			}
		}
		placed = append(placed, rankedLayout{})
		copy(placed[insertAt+1:], placed[insertAt:])
		placed[insertAt] = u
	}
	return placed
}

func layoutsOf(placed []rankedLayout) []model.Layout {
	out := make([]model.Layout, len(placed))
	for i, p := range placed {
		out[i] = p.layout
	}
	return out
}

// finalize numbers regions by position and renumbers fragments densely in
// region order, each region's fragments sorted by their current order.
func finalize(layouts []model.Layout) []model.Layout {
	order := 0
	for i, l := range layouts {
		base := l.Base()
		base.Order = i
		sort.SliceStable(base.Fragments, func(a, b int) bool {
			return base.Fragments[a].Order < base.Fragments[b].Order
		})
		for j := range base.Fragments {
			base.Fragments[j].Order = order
			order++
		}
	}
	return layouts
}

func clamp(v, size float64) float64 {
	if v < 0 {
		return 0
	}
	if v > size {
		return size
	}
	return v
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
