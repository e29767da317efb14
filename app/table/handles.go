package table

import (
	"gridline/app/interfaces"
	"gridline/app/layout"
	"gridline/app/scroll"
)

// DataHandle is the consumer surface over the sparse model and the
// query client pair.
type DataHandle struct {
	t *Table
}

// GetRow returns the record at position i, nil while loading.
func (h *DataHandle) GetRow(i int) interfaces.RowRecord { return h.t.dataModel.GetRow(i) }

// HasRow reports whether position i is loaded.
func (h *DataHandle) HasRow(i int) bool { return h.t.dataModel.HasRow(i) }

// TotalRows returns the filtered result set's count.
func (h *DataHandle) TotalRows() int { return h.t.dataModel.TotalRows() }

// Schema returns the table's column schemas.
func (h *DataHandle) Schema() []interfaces.ColumnSchema { return h.t.schema }

// IsLoading reports whether a row fetch is in flight.
func (h *DataHandle) IsLoading() bool { return h.t.dataModel.IsLoading() }

// SetWindow forwards a fetch window to the row client. Out-of-range
// values clamp: a negative offset or one beyond the current count pulls
// back into [0, totalRows), a non-positive limit becomes 1.
func (h *DataHandle) SetWindow(offset, limit int) {
	if total := h.t.dataModel.TotalRows(); total > 0 && offset >= total {
		offset = total - 1
	}
	h.t.rowClient.FetchWindow(offset, limit)
}

// Sort returns the current ordering.
func (h *DataHandle) Sort() []interfaces.SortKey { return h.t.rowClient.Sort() }

// SetSort rewrites the ordering; previously delivered rows are cleared
// before the re-fetch.
func (h *DataHandle) SetSort(sort []interfaces.SortKey) { h.t.rowClient.SetSort(sort) }

// Errors exposes the bounded error channel. Schema errors abort Open
// instead; everything arriving here is recoverable.
func (h *DataHandle) Errors() <-chan error { return h.t.errs }

// LayoutHandle is the consumer surface over the layout snapshot.
type LayoutHandle struct {
	t *Table
}

// snapshot returns the current immutable layout.
func (h *LayoutHandle) snapshot() *layout.ColumnLayout {
	h.t.layoutMu.RLock()
	defer h.t.layoutMu.RUnlock()
	return h.t.snapshot
}

// Resolved returns the laid-out columns.
func (h *LayoutHandle) Resolved() []layout.ResolvedColumn { return h.snapshot().Resolved }

// TotalWidth returns the summed pixel width of all regions.
func (h *LayoutHandle) TotalWidth() float64 { return h.snapshot().TotalWidth }

// RowHeight returns the row height in pixels.
func (h *LayoutHandle) RowHeight() float64 { return h.snapshot().RowHeight }

// LeftTotal returns the left region's pixel width.
func (h *LayoutHandle) LeftTotal() float64 { return h.snapshot().LeftTotal }

// RightTotal returns the right region's pixel width.
func (h *LayoutHandle) RightTotal() float64 { return h.snapshot().RightTotal }

// GetWidth returns a column's resolved width.
func (h *LayoutHandle) GetWidth(key string) float64 { return h.snapshot().GetWidth(key) }

// GetOffset returns a column's offset within its region.
func (h *LayoutHandle) GetOffset(key string) float64 { return h.snapshot().GetOffset(key) }

// GetRegion returns a column's pin region.
func (h *LayoutHandle) GetRegion(key string) interfaces.Region { return h.snapshot().GetRegion(key) }

// ScrollHandle is the consumer surface over the scheduler.
type ScrollHandle struct {
	t *Table
}

// ScrollTop returns the current vertical offset.
func (h *ScrollHandle) ScrollTop() float64 { return h.t.scheduler.ScrollTop() }

// VisibleRowRange returns the positions intersecting the viewport.
func (h *ScrollHandle) VisibleRowRange() interfaces.VisibleRange {
	return h.t.scheduler.VisibleRowRange()
}

// ScrollBy applies a wheel or touch delta.
func (h *ScrollHandle) ScrollBy(dx, dy float64) { h.t.scheduler.ScrollBy(dx, dy) }

// ScrollToRow scrolls the given row to the top of the viewport.
func (h *ScrollHandle) ScrollToRow(i int) { h.t.scheduler.ScrollToRow(i) }

// ScrollToTop scrolls to the first row.
func (h *ScrollHandle) ScrollToTop() { h.t.scheduler.ScrollToTop() }

// ScrollToX sets the horizontal offset.
func (h *ScrollHandle) ScrollToX(px float64) { h.t.scheduler.ScrollToX(px) }

// Subscribe registers a visible-range observer.
func (h *ScrollHandle) Subscribe(obs scroll.Observer) func() { return h.t.scheduler.Subscribe(obs) }
