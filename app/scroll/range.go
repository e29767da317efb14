package scroll

import (
	"math"

	"gridline/app/interfaces"
)

// ComputeVisibleRange maps a scroll offset to the half-open interval of
// row positions the viewport intersects. Idempotent; never returns
// end < start.
func ComputeVisibleRange(scrollTop, viewportHeight, rowHeight float64, totalRows int) interfaces.VisibleRange {
	if rowHeight <= 0 || totalRows <= 0 {
		return interfaces.VisibleRange{}
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	start := int(math.Floor(scrollTop / rowHeight))
	if start < 0 {
		start = 0
	}
	end := int(math.Ceil((scrollTop + viewportHeight) / rowHeight))
	if end > totalRows {
		end = totalRows
	}
	if start > end {
		start = end
	}
	return interfaces.VisibleRange{Start: start, End: end}
}

// renderRange widens the visible range by the overscan, clamped to
// [0, totalRows].
func renderRange(visible interfaces.VisibleRange, overscan, totalRows int) interfaces.VisibleRange {
	start := visible.Start - overscan
	if start < 0 {
		start = 0
	}
	end := visible.End + overscan
	if end > totalRows {
		end = totalRows
	}
	if start > end {
		start = end
	}
	return interfaces.VisibleRange{Start: start, End: end}
}
