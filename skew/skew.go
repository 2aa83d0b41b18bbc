// Package skew estimates page rotation from the edges of OCR fragment quads.
//
// Each quad contributes the mean angle of its left/right sides and the mean
// angle of its top/bottom sides. Taking the median over all fragments makes the
// estimate robust against a minority of misdetected or rotated fragments.
package skew

import (
	"math"
	"sort"

	"github.com/tsawler/pagelayout/model"
)

// Estimate returns the page rotation in radians. It returns 0 when no
// fragment has a usable (non-degenerate) quad.
func Estimate(fragments []model.OCRFragment) float64 {
	var rotations0, rotations1 []float64

	for _, f := range fragments {
		r0, r1, ok := RectRotations(f.Rect)
		if !ok {
			continue
		}
		rotations0 = append(rotations0, r0)
		rotations1 = append(rotations1, r1)
	}

	if len(rotations0) == 0 {
		return 0
	}

	horizontal, vertical := classify(median(rotations0), median(rotations1))
	return 0.5 * (vertical - 0.5*math.Pi + horizontal)
}

// RectRotations returns the (min, max) pair of the two side-pair angles of
// rect, each in [0, pi). ok is false when rect has a zero-length edge.
func RectRotations(rect model.Rectangle) (float64, float64, bool) {
	var sums [2]float64

	for i, seg := range rect.Segments() {
		dx := seg.To.X - seg.From.X
		dy := seg.To.Y - seg.From.Y
		if dx == 0 && dy == 0 {
			return 0, 0, false
		}
		sums[i%2] += normalize(math.Atan2(dy, dx))
	}

	r0 := sums[0] / 2
	r1 := sums[1] / 2
	return math.Min(r0, r1), math.Max(r0, r1), true
}

// RectRotation returns the horizontal rotation of rect (the angle of its
// top/bottom sides, wrapped into (-pi/2, pi/2]) and its vertical rotation
// (the deviation of its left/right sides from pi/2).
func RectRotation(rect model.Rectangle) (float64, float64) {
	r0, r1, ok := RectRotations(rect)
	if !ok {
		return 0, 0
	}
	horizontal, vertical := classify(r0, r1)
	return horizontal, vertical - 0.5*math.Pi
}

// classify picks the angle closer to pi/2 as vertical and wraps the other
// into the horizontal range. Edges are undirected, so angles are mod pi.
func classify(a, b float64) (horizontal, vertical float64) {
	if math.Abs(a-0.5*math.Pi) < math.Abs(b-0.5*math.Pi) {
		vertical, horizontal = a, b
	} else {
		vertical, horizontal = b, a
	}
	if horizontal > 0.5*math.Pi {
		horizontal -= math.Pi
	}
	return horizontal, vertical
}

// normalize maps an atan2 result into [0, pi)
func normalize(angle float64) float64 {
	if angle < 0 {
		angle += math.Pi
	}
	if angle >= math.Pi {
		angle -= math.Pi
	}
	return angle
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
