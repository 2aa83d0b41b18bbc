package model

import "math"

// Polygon is a simple polygon given by its vertices in boundary order
type Polygon []Point

// signedArea returns the shoelace area; its sign gives the winding direction.
func (p Polygon) signedArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// Area returns the absolute polygon area
func (p Polygon) Area() float64 {
	return math.Abs(p.signedArea())
}

// Bounds returns the axis-aligned bounding box of the vertices
func (p Polygon) Bounds() BBox {
	if len(p) == 0 {
		return BBox{}
	}
	left, top := p[0].X, p[0].Y
	right, bottom := left, top
	for _, pt := range p[1:] {
		left = math.Min(left, pt.X)
		top = math.Min(top, pt.Y)
		right = math.Max(right, pt.X)
		bottom = math.Max(bottom, pt.Y)
	}
	return NewBBoxFromEdges(left, top, right, bottom)
}

// Intersect clips p against clip (Sutherland-Hodgman) and returns the
// intersection polygon, or nil when it is empty or degenerate.
// The clip polygon must be convex, which holds for detector quads.
func (p Polygon) Intersect(clip Polygon) Polygon {
	if len(p) < 3 || len(clip) < 3 {
		return nil
	}

	orient := clip.signedArea()
	if orient == 0 {
		return nil
	}
	if orient < 0 {
		clip = clip.reversed()
	}

	output := make(Polygon, len(p))
	copy(output, p)

	for i := range clip {
		a := clip[i]
		b := clip[(i+1)%len(clip)]
		input := output
		output = nil
		if len(input) == 0 {
			break
		}

		prev := input[len(input)-1]
		prevIn := inside(a, b, prev)
		for _, cur := range input {
			curIn := inside(a, b, cur)
			switch {
			case curIn && !prevIn:
				output = append(output, lineIntersection(prev, cur, a, b), cur)
			case curIn:
				output = append(output, cur)
			case prevIn:
				output = append(output, lineIntersection(prev, cur, a, b))
			}
			prev, prevIn = cur, curIn
		}
	}

	if len(output) < 3 || output.Area() == 0 {
		return nil
	}
	return output
}

func (p Polygon) reversed() Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// inside reports whether pt lies on the left of (or on) the directed edge a->b
func inside(a, b, pt Point) bool {
	return (b.X-a.X)*(pt.Y-a.Y)-(b.Y-a.Y)*(pt.X-a.X) >= 0
}

// lineIntersection returns the intersection of segment s->e with the infinite line a->b
func lineIntersection(s, e, a, b Point) Point {
	dx1, dy1 := e.X-s.X, e.Y-s.Y
	dx2, dy2 := b.X-a.X, b.Y-a.Y
	denom := dx1*dy2 - dy1*dx2
	if denom == 0 {
		return e
	}
	t := ((a.X-s.X)*dy2 - (a.Y-s.Y)*dx2) / denom
	return Point{X: s.X + t*dx1, Y: s.Y + t*dy1}
}
