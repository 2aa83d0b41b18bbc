// Package layout turns raw detector regions and OCR fragments into an
// ordered page structure.
//
// The stages run in this order:
//
//	layouts, unmatched := layout.AssignFragments(regions, fragments, layout.DefaultMatchConfig())
//	layouts = layout.NewOverlapResolver().Resolve(layouts)
//	layouts = layout.DropEmpty(layouts)
//	layouts = layout.NewLineRegrouper().RegroupLayouts(layouts)
//	result, err := layout.NewReadingOrderEngine(scorer).Order(ctx, layouts, width, height)
//
// Every stage returns new layouts and leaves its input untouched.
//
// # Overlap Resolution
//
// The [OverlapResolver] removes regions that duplicate or nest inside other
// regions. Only near-total containment is resolved; partial overlaps are
// kept as they are.
//
// # Line Regrouping
//
// The [LineRegrouper] merges fragments of one visual line that the OCR engine
// returned separately, joining their text left to right.
//
// # Reading Order
//
// The [ReadingOrderEngine] has two tiers. The primitive tier sorts fragments
// top to bottom inside each region and numbers them across the page. The
// neural tier sends line boxes to a [Scorer]; regions without text lines are
// represented by virtual lines. Pages producing more boxes than the scorer's
// limit keep the primitive order.
package layout
