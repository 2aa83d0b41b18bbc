// Package model provides the data structures shared by every stage of page
// reconstruction.
//
// # Geometry
//
// Coordinates are image coordinates: X grows to the right, Y grows downward.
//
//   - [Point] - 2D point with distance calculation
//   - [BBox] - axis-aligned box (top-left corner plus size)
//   - [Rectangle] - quadrilateral with LT, RT, LB, RB corners; may be skewed
//   - [Polygon] - simple polygon with area, bounds and convex clipping
//   - [Matrix] - 3x3 homogeneous transformation matrix
//
// [IntersectionArea] and [OverlapRate] compare two quadrilaterals. Degenerate
// input never fails; it yields 0.
//
// # Page Content
//
// An [OCRFragment] is one recognized text span. A [Layout] is a detected
// region of a given [LayoutClass] that owns a list of fragments. Layouts are
// a closed sum type:
//
//   - [PlainLayout] - titles, paragraphs, captions, figures, ...
//   - [TableLayout] - tables, optionally carrying recognized structure
//   - [FormulaLayout] - isolated formulas, optionally carrying LaTeX
//
// All variants expose their shared [BaseLayout] through Layout.Base.
//
// [ExtractedResult] is the page-level output: estimated rotation, ordered
// layouts and the page images.
package model
