package model

import (
	"fmt"
	"testing"

	"gridline/app/interfaces"
)

func makeRows(n int) []interfaces.RowRecord {
	rows := make([]interfaces.RowRecord, n)
	for i := range rows {
		rows[i] = interfaces.RowRecord{"v": fmt.Sprintf("row%d", i)}
	}
	return rows
}

func TestMergeAndGet(t *testing.T) {
	m := New()
	m.SetTotalRows(100)
	m.MergeRows(10, makeRows(5))

	if !m.HasRow(10) || !m.HasRow(14) {
		t.Fatal("expected positions 10..14 loaded")
	}
	if m.HasRow(9) || m.HasRow(15) {
		t.Fatal("positions outside the merge must stay absent")
	}
	if got := m.GetRow(12)["v"]; got != "row2" {
		t.Fatalf("expected row2 at position 12, got %v", got)
	}
	if m.GetRow(50) != nil {
		t.Fatal("unloaded position must return nil")
	}
}

func TestMergeLastWriterWins(t *testing.T) {
	m := New()
	m.SetTotalRows(10)
	m.MergeRows(0, makeRows(3))
	m.MergeRows(1, []interfaces.RowRecord{{"v": "updated"}})

	if got := m.GetRow(1)["v"]; got != "updated" {
		t.Fatalf("expected overwrite at position 1, got %v", got)
	}
	if got := m.GetRow(0)["v"]; got != "row0" {
		t.Fatalf("position 0 must be untouched, got %v", got)
	}
}

func TestClearThenMerge(t *testing.T) {
	m := New()
	m.SetTotalRows(10)
	m.MergeRows(0, makeRows(5))
	m.Clear()

	if m.LoadedCount() != 0 {
		t.Fatal("clear must empty the mapping")
	}

	r := interfaces.RowRecord{"v": "fresh"}
	m.MergeRows(0, []interfaces.RowRecord{r})
	if got := m.GetRow(0)["v"]; got != "fresh" {
		t.Fatalf("expected fresh row at 0, got %v", got)
	}
	if m.GetRow(1) != nil {
		t.Fatal("position 1 must be nil after single-row merge")
	}
}

func TestSetTotalRowsDiscardsTail(t *testing.T) {
	m := New()
	m.SetTotalRows(100)
	m.MergeRows(40, makeRows(20))

	m.SetTotalRows(45)
	if m.TotalRows() != 45 {
		t.Fatalf("expected total 45, got %d", m.TotalRows())
	}
	if !m.HasRow(44) {
		t.Fatal("position 44 is inside the new count and must survive")
	}
	if m.HasRow(45) || m.HasRow(59) {
		t.Fatal("positions >= totalRows must be discarded")
	}
}

func TestSetTotalRowsNegativeClamps(t *testing.T) {
	m := New()
	m.SetTotalRows(-3)
	if m.TotalRows() != 0 {
		t.Fatalf("expected 0, got %d", m.TotalRows())
	}
}

func TestRetentionEviction(t *testing.T) {
	m := NewWithPageSize(10)
	m.SetTotalRows(1000)
	m.MergeRows(0, makeRows(100))
	m.MergeRows(500, makeRows(100))

	// Retain around the second block: the first block's pages lie
	// fully outside and must go.
	m.Retain(450, 650)

	if m.HasRow(0) || m.HasRow(99) {
		t.Fatal("rows outside retention must be evicted")
	}
	for i := 500; i < 600; i++ {
		if !m.HasRow(i) {
			t.Fatalf("row %d inside retention must survive", i)
		}
	}

	// Idempotent: re-applying the same range changes nothing.
	before := m.LoadedCount()
	m.Retain(450, 650)
	if m.LoadedCount() != before {
		t.Fatal("re-applying the same retention range must be a no-op")
	}
}

func TestRetentionKeepsPartialPages(t *testing.T) {
	m := NewWithPageSize(10)
	m.SetTotalRows(100)
	m.MergeRows(0, makeRows(40))

	// Page 1 (10..19) straddles the boundary: it stays whole.
	m.Retain(15, 40)

	if m.HasRow(5) {
		t.Fatal("page 0 lies fully outside and must be evicted")
	}
	if !m.HasRow(10) || !m.HasRow(19) {
		t.Fatal("a page intersecting the retention range must survive whole")
	}
}

func TestMergeTriggersEviction(t *testing.T) {
	m := NewWithPageSize(10)
	m.SetTotalRows(1000)
	m.Retain(500, 600)

	// A merge far outside the retention range is evicted immediately.
	m.MergeRows(0, makeRows(50))
	if m.HasRow(0) {
		t.Fatal("merge outside retention must evict after the merge")
	}

	m.MergeRows(500, makeRows(50))
	if !m.HasRow(520) {
		t.Fatal("merge inside retention must survive")
	}
}

func TestLoadingFlag(t *testing.T) {
	m := New()
	if m.IsLoading() {
		t.Fatal("fresh model must not report loading")
	}
	m.SetLoading(true)
	if !m.IsLoading() {
		t.Fatal("expected loading")
	}
	m.SetLoading(false)
	if m.IsLoading() {
		t.Fatal("expected not loading")
	}
}

// Every stored position stays inside [0, totalRows) across a mixed
// sequence of merges and count changes.
func TestPositionsInvariant(t *testing.T) {
	m := NewWithPageSize(16)
	m.SetTotalRows(200)
	m.MergeRows(0, makeRows(50))
	m.MergeRows(180, makeRows(20))
	m.SetTotalRows(60)
	m.MergeRows(30, makeRows(10))
	m.SetTotalRows(35)

	for i := 0; i < 300; i++ {
		if m.HasRow(i) && i >= m.TotalRows() {
			t.Fatalf("position %d loaded but totalRows is %d", i, m.TotalRows())
		}
	}
}
