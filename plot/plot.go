// Package plot draws extraction results over the page image for visual
// inspection: each region's bounding box in red and each fragment's
// quadrilateral in green.
package plot

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/tsawler/pagelayout/model"
)

// Style controls the outline colors and stroke widths
type Style struct {
	RegionColor   color.Color
	RegionWidth   float64
	FragmentColor color.Color
	FragmentWidth float64
}

// DefaultStyle returns red 3px region boxes and green 1px fragment quads
func DefaultStyle() Style {
	return Style{
		RegionColor:   color.RGBA{R: 255, A: 255},
		RegionWidth:   3,
		FragmentColor: color.RGBA{G: 255, A: 255},
		FragmentWidth: 1,
	}
}

// Layouts returns a copy of img with the layouts outlined in the default style
func Layouts(img image.Image, layouts []model.Layout) *image.RGBA {
	return LayoutsWithStyle(img, layouts, DefaultStyle())
}

// LayoutsWithStyle returns a copy of img with the layouts outlined.
// Coordinates are relative to the image's top-left corner.
func LayoutsWithStyle(img image.Image, layouts []model.Layout, style Style) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	for _, l := range layouts {
		base := l.Base()
		outline(dst, base.Rect.Wrapper().Rect().Polygon(), style.RegionWidth, style.RegionColor)
		for _, f := range base.Fragments {
			outline(dst, f.Rect.Polygon(), style.FragmentWidth, style.FragmentColor)
		}
	}
	return dst
}

// outline strokes the closed polygon onto dst
func outline(dst *image.RGBA, poly model.Polygon, width float64, c color.Color) {
	if len(poly) < 2 || width <= 0 {
		return
	}
	size := dst.Bounds().Size()
	r := vector.NewRasterizer(size.X, size.Y)
	for i := range poly {
		stroke(r, poly[i], poly[(i+1)%len(poly)], width)
	}
	r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// stroke adds the segment a-b as a filled quad of the given width, extended
// by half the width at both ends so corners are closed.
func stroke(r *vector.Rasterizer, a, b model.Point, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := width / 2
	ux, uy := dx/length*half, dy/length*half
	nx, ny := -uy, ux

	a = model.Point{X: a.X - ux, Y: a.Y - uy}
	b = model.Point{X: b.X + ux, Y: b.Y + uy}

	r.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	r.LineTo(float32(b.X+nx), float32(b.Y+ny))
	r.LineTo(float32(b.X-nx), float32(b.Y-ny))
	r.LineTo(float32(a.X-nx), float32(a.Y-ny))
	r.ClosePath()
}
