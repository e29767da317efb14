// Package model holds the sparse, positionally indexed row store. It
// merges incoming query windows, serves the visible range, and evicts
// far rows under a windowed retention policy.
package model

import (
	"sync"

	"gridline/app/interfaces"
)

// DefaultPageSize is the granularity of eviction bookkeeping.
const DefaultPageSize = 128

// DataModel is a sparse mapping from row position to row record plus
// the authoritative total count of the current filtered result set.
// The count and the row mapping update independently and may be
// transiently inconsistent; consumers treat an absent row as loading.
type DataModel struct {
	mu        sync.RWMutex
	rows      map[int]interfaces.RowRecord
	totalRows int
	loading   bool

	pageSize int
	pages    *pageList

	// Last retention range handed down by the scheduler. Zero value
	// means no eviction until a range arrives.
	retainLo  int
	retainHi  int
	retainSet bool
}

// New creates an empty model.
func New() *DataModel {
	return NewWithPageSize(DefaultPageSize)
}

// NewWithPageSize creates an empty model with a custom eviction page
// size.
func NewWithPageSize(pageSize int) *DataModel {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &DataModel{
		rows:     make(map[int]interfaces.RowRecord),
		pageSize: pageSize,
		pages:    newPageList(),
	}
}

// GetRow returns the record at position i, or nil when not loaded.
func (m *DataModel) GetRow(i int) interfaces.RowRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rows[i]
}

// HasRow reports whether position i is loaded.
func (m *DataModel) HasRow(i int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rows[i]
	return ok
}

// TotalRows returns the count of the current filtered result set.
func (m *DataModel) TotalRows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalRows
}

// SetTotalRows replaces the count. Rows at positions >= n are discarded
// to keep every stored position inside [0, totalRows).
func (m *DataModel) SetTotalRows(n int) {
	if n < 0 {
		n = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRows = n
	for pos := range m.rows {
		if pos >= n {
			m.deleteRowLocked(pos)
		}
	}
}

// MergeRows inserts or overwrites rows at offset..offset+len-1,
// last-writer-wins by position. Positions at or beyond the current
// count are stored too: the count may simply not have arrived yet.
// Eviction runs afterwards if a retention range is active.
func (m *DataModel) MergeRows(offset int, rows []interfaces.RowRecord) {
	if offset < 0 || len(rows) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, row := range rows {
		pos := offset + i
		m.rows[pos] = row
		m.pages.Touch(pos / m.pageSize)
	}
	m.evictLocked()
}

// Clear empties the row mapping. The count is preserved; callers that
// need a full reset call SetTotalRows separately.
func (m *DataModel) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[int]interfaces.RowRecord)
	m.pages.Clear()
}

// SetLoading flags whether a row fetch is currently in flight.
func (m *DataModel) SetLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = loading
}

// IsLoading reports whether a row fetch is currently in flight.
func (m *DataModel) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Retain sets the retention range [lo, hi) and evicts pages fully
// outside it, least recently merged first. The scheduler's range always
// covers the visible range, so eviction never touches visible rows.
// Idempotent: re-applying the same range evicts nothing further.
func (m *DataModel) Retain(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retainLo, m.retainHi, m.retainSet = lo, hi, true
	m.evictLocked()
}

// LoadedCount returns how many rows are currently stored.
func (m *DataModel) LoadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// evictLocked discards pages that lie entirely outside the retention
// range.
func (m *DataModel) evictLocked() {
	if !m.retainSet {
		return
	}
	loPage := m.retainLo / m.pageSize
	hiPage := (m.retainHi - 1) / m.pageSize
	if m.retainHi <= m.retainLo {
		hiPage = loPage - 1
	}

	for _, page := range m.pages.OldestFirst() {
		if page >= loPage && page <= hiPage {
			continue
		}
		start := page * m.pageSize
		for pos := start; pos < start+m.pageSize; pos++ {
			delete(m.rows, pos)
		}
		m.pages.Remove(page)
	}
}

// deleteRowLocked removes a single position and drops its page from the
// eviction list once the page holds nothing else.
func (m *DataModel) deleteRowLocked(pos int) {
	delete(m.rows, pos)
	page := pos / m.pageSize
	start := page * m.pageSize
	for p := start; p < start+m.pageSize; p++ {
		if _, ok := m.rows[p]; ok {
			return
		}
	}
	m.pages.Remove(page)
}
