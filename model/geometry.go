package model

import "math"

// Point represents a 2D point in image coordinates (Y grows downward)
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents an axis-aligned bounding box.
// X, Y is the top-left corner.
type BBox struct {
	X      float64 // Left
	Y      float64 // Top (image coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromEdges creates a bounding box from its four edges
func NewBBoxFromEdges(left, top, right, bottom float64) BBox {
	return NewBBoxFromPoints(Point{left, top}, Point{right, bottom})
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	return NewBBoxFromEdges(
		math.Min(b.Left(), other.Left()),
		math.Min(b.Top(), other.Top()),
		math.Max(b.Right(), other.Right()),
		math.Max(b.Bottom(), other.Bottom()),
	)
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Rect converts the box into an axis-aligned Rectangle
func (b BBox) Rect() Rectangle {
	return NewRect(b.Left(), b.Top(), b.Right(), b.Bottom())
}

// Rectangle is a quadrilateral given by its four corners. It is not required
// to be axis-aligned: OCR detectors emit skewed and rotated quads. Walking
// LT -> LB -> RB -> RT traces a simple polygon.
type Rectangle struct {
	LT Point
	RT Point
	LB Point
	RB Point
}

// NewRect creates an axis-aligned Rectangle from its edges
func NewRect(left, top, right, bottom float64) Rectangle {
	return Rectangle{
		LT: Point{left, top},
		RT: Point{right, top},
		LB: Point{left, bottom},
		RB: Point{right, bottom},
	}
}

// Points returns the corners in boundary order: LT, LB, RB, RT
func (r Rectangle) Points() [4]Point {
	return [4]Point{r.LT, r.LB, r.RB, r.RT}
}

// Segment is a directed boundary edge
type Segment struct {
	From, To Point
}

// Length returns the Euclidean length of the segment
func (s Segment) Length() float64 {
	return s.From.Distance(s.To)
}

// Segments returns the four boundary edges in order:
// LT->LB, LB->RB, RB->RT, RT->LT.
// Even indexes are the left/right sides, odd indexes the bottom/top sides.
func (r Rectangle) Segments() [4]Segment {
	return [4]Segment{
		{r.LT, r.LB},
		{r.LB, r.RB},
		{r.RB, r.RT},
		{r.RT, r.LT},
	}
}

// Polygon returns the rectangle as a polygon
func (r Rectangle) Polygon() Polygon {
	pts := r.Points()
	return Polygon(pts[:])
}

// Area returns the polygon area of the quadrilateral
func (r Rectangle) Area() float64 {
	return r.Polygon().Area()
}

// Wrapper returns the axis-aligned bounding box of the quadrilateral
func (r Rectangle) Wrapper() BBox {
	return r.Polygon().Bounds()
}

// Size returns the width and height of the wrapper box
func (r Rectangle) Size() (float64, float64) {
	w := r.Wrapper()
	return w.Width, w.Height
}

// Transform applies m to every corner and returns the new Rectangle
func (r Rectangle) Transform(m Matrix) Rectangle {
	return Rectangle{
		LT: m.Transform(r.LT),
		RT: m.Transform(r.RT),
		LB: m.Transform(r.LB),
		RB: m.Transform(r.RB),
	}
}

// Matrix is a 3x3 homogeneous transformation matrix in row-major order
type Matrix [9]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	}
}

// Rotate creates a rotation matrix (angle in radians) mapping
// (x, y) to (x*cos + y*sin, -x*sin + y*cos).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	}
}

// Multiply returns m * other
func (m Matrix) Multiply(other Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[i*3+k] * other[k*3+j]
			}
			out[i*3+j] = sum
		}
	}
	return out
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(p Point) Point {
	x := m[0]*p.X + m[1]*p.Y + m[2]
	y := m[3]*p.X + m[4]*p.Y + m[5]
	z := m[6]*p.X + m[7]*p.Y + m[8]
	if z != 0 && z != 1 {
		x /= z
		y /= z
	}
	return Point{X: x, Y: y}
}

// Invert returns the inverse matrix. ok is false when m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	A := e*i - f*h
	B := -(d*i - f*g)
	C := d*h - e*g
	det := a*A + b*B + c*C
	if det == 0 {
		return Matrix{}, false
	}

	inv := Matrix{
		A, -(b*i - c*h), b*f - c*e,
		B, a*i - c*g, -(a*f - c*d),
		C, -(a*h - b*g), a*e - b*d,
	}
	for k := range inv {
		inv[k] /= det
	}
	return inv, true
}

// IsIdentity returns true if the matrix is an identity matrix
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
