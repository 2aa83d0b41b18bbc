package layout

import (
	"math"

	"github.com/tsawler/pagelayout/model"
)

// maxVirtualLines bounds VirtualLineCount so the float to int conversion
// stays defined for tiny line heights
const maxVirtualLines = 1 << 20

// orderBox is one unit sent to the reorder scorer
type orderBox struct {
	layoutIndex   int
	fragmentIndex int
	virtual       bool
	value         [4]float64 // x0, y0, x1, y1
	scaled        Box
}

// averageLineHeight is the mean fragment height over the page, or
// fallback when the page has no fragments or only flat ones.
func averageLineHeight(layouts []model.Layout, fallback float64) float64 {
	var total float64
	count := 0
	for _, l := range layouts {
		for _, f := range l.Base().Fragments {
			_, h := f.Rect.Size()
			total += h
			count++
		}
	}
	if count == 0 {
		return fallback
	}
	mean := total / float64(count)
	if !(mean > 0) || math.IsInf(mean, 0) {
		return fallback
	}
	return mean
}

// VirtualLineCount returns how many horizontal bands a region of the given
// size is sliced into when it has no usable text lines of its own.
// A non-positive line height counts as a single line.
func VirtualLineCount(regionWidth, regionHeight, lineHeight, pageWidth, pageHeight float64) int {
	if !(lineHeight > 0) || regionHeight <= lineHeight*2 {
		return 1
	}

	if regionHeight <= pageHeight*0.25 ||
		regionWidth >= pageWidth*0.5 ||
		regionWidth > pageWidth*0.25 {
		if regionWidth > pageWidth*0.4 {
			return 3
		}
		if regionWidth <= pageWidth*0.25 {
			// narrow columns stay whole
			if regionHeight/regionWidth > 1.2 {
				return 1
			}
			return 2
		}
	}

	lines := math.Floor(regionHeight / lineHeight)
	switch {
	case !(lines >= 1):
		return 1
	case lines > maxVirtualLines:
		return maxVirtualLines
	}
	return int(lines)
}

// virtualLines slices a region's bounding box into equal-height bands,
// top to bottom, each spanning the full region width. At most limit bands
// are built.
func virtualLines(layout model.Layout, layoutIndex int, lineHeight, pageWidth, pageHeight float64, limit int) []orderBox {
	box := layout.Base().Rect.Wrapper()
	n := VirtualLineCount(box.Width, box.Height, lineHeight, pageWidth, pageHeight)
	if limit < 1 {
		limit = 1
	}
	if n > limit {
		n = limit
	}

	bandHeight := box.Height / float64(n)
	boxes := make([]orderBox, n)
	y := box.Top()
	for i := range boxes {
		boxes[i] = orderBox{
			layoutIndex:   layoutIndex,
			fragmentIndex: i,
			virtual:       true,
			value:         [4]float64{box.Left(), y, box.Right(), y + bandHeight},
		}
		y += bandHeight
	}
	return boxes
}
