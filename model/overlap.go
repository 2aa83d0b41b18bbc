package model

// IntersectionArea returns the area of the intersection of two quadrilaterals.
// Disjoint or degenerate inputs yield 0.
func IntersectionArea(a, b Rectangle) float64 {
	inter := a.Polygon().Intersect(b.Polygon())
	if inter == nil {
		return 0
	}
	return inter.Area()
}

// OverlapRate measures how much of b is covered by a.
//
// Text line boxes are long and thin, so an area ratio reacts far more to a
// small vertical shift than to a large horizontal one. Instead the rate is the
// mean of the width ratio and the height ratio between the bounding box of
// a∩b and the bounding box of b.
func OverlapRate(a, b Rectangle) float64 {
	inter := a.Polygon().Intersect(b.Polygon())
	if inter == nil {
		return 0
	}

	ib := inter.Bounds()
	bb := b.Wrapper()
	if bb.Width <= 0 || bb.Height <= 0 {
		return 0
	}
	return (ib.Width/bb.Width + ib.Height/bb.Height) / 2
}
