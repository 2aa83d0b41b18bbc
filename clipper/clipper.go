// Package clipper crops page regions out of an image, correcting the
// region's rotation so the output is axis-aligned.
package clipper

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/tsawler/pagelayout/model"
	"github.com/tsawler/pagelayout/skew"
)

// Interpolator is used for all resampling.
var Interpolator draw.Transformer = draw.BiLinear

// Clip returns the region of src bounded by rect, rotated so that the
// rect's top edge becomes horizontal. An axis-aligned rect is a plain crop.
// A degenerate rect yields an empty image.
func Clip(src image.Image, rect model.Rectangle) *image.RGBA {
	width, height := Size(rect)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return dst
	}

	horizontal, _ := skew.RectRotation(rect)
	transform(dst, src, ClipMatrix(rect.LT, horizontal))
	return dst
}

// ClipResult clips a layout out of the image its coordinates refer to
func ClipResult(result *model.ExtractedResult, layout model.Layout) *image.RGBA {
	return Clip(result.Image(), layout.Base().Rect)
}

// ClipMatrix maps output coordinates to source coordinates: rotate by the
// negative of rotation, then move the origin onto origin.
func ClipMatrix(origin model.Point, rotation float64) model.Matrix {
	move := model.Translate(origin.X, origin.Y)
	rotate := model.Rotate(-rotation)
	return move.Multiply(rotate)
}

// Size returns the output canvas for rect: half the summed length of its
// top/bottom sides by half the summed length of its left/right sides,
// rounded up.
func Size(rect model.Rectangle) (int, int) {
	var width, height float64
	for i, seg := range rect.Segments() {
		if i%2 == 0 {
			height += seg.Length()
		} else {
			width += seg.Length()
		}
	}
	return int(math.Ceil(width / 2)), int(math.Ceil(height / 2))
}

// Deskew rotates the whole page by the negative of rotation about its
// centre, keeping the canvas size. Uncovered pixels are white.
func Deskew(src image.Image, rotation float64) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2
	ox := float64(b.Dx()) / 2
	oy := float64(b.Dy()) / 2

	m := model.Translate(cx, cy).
		Multiply(model.Rotate(-rotation)).
		Multiply(model.Translate(-ox, -oy))
	transform(dst, src, m)
	return dst
}

// DeskewRect maps a rectangle given in src coordinates into the coordinates
// of Deskew(src, rotation).
func DeskewRect(bounds image.Rectangle, rotation float64, rect model.Rectangle) model.Rectangle {
	cx := float64(bounds.Min.X) + float64(bounds.Dx())/2
	cy := float64(bounds.Min.Y) + float64(bounds.Dy())/2
	ox := float64(bounds.Dx()) / 2
	oy := float64(bounds.Dy()) / 2

	m := model.Translate(ox, oy).
		Multiply(model.Rotate(rotation)).
		Multiply(model.Translate(-cx, -cy))
	return rect.Transform(m)
}

// transform resamples src into dst where d2s maps dst points to src points
func transform(dst *image.RGBA, src image.Image, d2s model.Matrix) {
	s2d, ok := d2s.Invert()
	if !ok {
		return
	}
	aff := f64.Aff3{
		s2d[0], s2d[1], s2d[2],
		s2d[3], s2d[4], s2d[5],
	}
	Interpolator.Transform(dst, aff, src, src.Bounds(), draw.Src, nil)
}
