// Package scroll maps scroll offsets to visible row ranges, coalesces
// scroll input into frame-scheduled updates, and drives fetch-window
// changes on the data model.
package scroll

import (
	"sync"

	"gridline/app/interfaces"
)

// DataSink is the scheduler's view of the data model and its row
// client: the authoritative count, the fetch-window setter, and the
// retention setter.
type DataSink interface {
	TotalRows() int
	SetWindow(offset, limit int)
	Retain(lo, hi int)
}

// Geometry is the slice of the layout snapshot the scheduler reads.
type Geometry struct {
	RowHeight  float64
	TotalWidth float64
}

// GeometrySource supplies the current layout geometry. Implementations
// return immutable snapshots.
type GeometrySource interface {
	Geometry() Geometry
}

// Observer receives the visible range and scroll offset published on a
// frame tick. Both values are consistent within the same tick, and the
// observer always runs before the tick's fetch-window change.
type Observer func(visible interfaces.VisibleRange, scrollTop float64)

// Options tunes the scheduler.
type Options struct {
	// Overscan is the number of rows laid out beyond each edge of the
	// visible range.
	Overscan int

	// PadFactor scales the fetch band beyond the render range.
	PadFactor int

	// RetentionMultiple scales the retention radius relative to the
	// current fetch limit.
	RetentionMultiple int
}

// DefaultOptions mirror the tuning the viewer ships with.
func DefaultOptions() Options {
	return Options{Overscan: 6, PadFactor: 3, RetentionMultiple: 2}
}

func (o *Options) sanitize() {
	if o.Overscan < 0 {
		o.Overscan = 0
	}
	if o.PadFactor < 3 {
		o.PadFactor = 3
	}
	if o.RetentionMultiple < 1 {
		o.RetentionMultiple = 1
	}
}

// Scheduler owns the scroll position and the frame-tick update loop.
// Scroll inputs mutate the internal offset pair immediately; range
// publication, fetch decisions and retention all run on frame ticks,
// so deltas arriving within one frame coalesce into one observation.
type Scheduler struct {
	mu sync.Mutex

	frames   Frames
	data     DataSink
	geometry GeometrySource
	opts     Options

	viewportWidth  float64
	viewportHeight float64

	scrollTop  float64
	scrollLeft float64

	pendingFrame bool
	closed       bool

	// Weak memory of the last requested window, for containment checks
	// only; the row client owns the real query state.
	lastWindow   *interfaces.FetchWindow
	published    bool
	lastVisible  interfaces.VisibleRange
	lastTop      float64
	observers    map[int]Observer
	nextObserver int
}

// NewScheduler creates a scheduler. frames may be nil, which selects
// the default timer-backed ticker.
func NewScheduler(data DataSink, geometry GeometrySource, frames Frames, opts Options) *Scheduler {
	opts.sanitize()
	if frames == nil {
		frames = NewTimerFrames(DefaultFrameInterval)
	}
	return &Scheduler{
		frames:    frames,
		data:      data,
		geometry:  geometry,
		opts:      opts,
		observers: make(map[int]Observer),
	}
}

// SetViewportSize reports the viewport measurements. The headless core
// cannot read a DOM element; the consumer pushes sizes in whenever they
// change.
func (s *Scheduler) SetViewportSize(width, height float64) {
	s.mu.Lock()
	if width >= 0 {
		s.viewportWidth = width
	}
	if height >= 0 {
		s.viewportHeight = height
	}
	s.mu.Unlock()
	s.scheduleFrame()
}

// ScrollBy applies a wheel or touch delta.
func (s *Scheduler) ScrollBy(dx, dy float64) {
	s.mu.Lock()
	s.scrollTop = s.clampTopLocked(s.scrollTop + dy)
	s.scrollLeft = s.clampLeftLocked(s.scrollLeft + dx)
	s.mu.Unlock()
	s.scheduleFrame()
}

// ScrollToRow scrolls so the given row is at the top of the viewport.
func (s *Scheduler) ScrollToRow(i int) {
	if i < 0 {
		i = 0
	}
	geo := s.geometry.Geometry()
	s.mu.Lock()
	s.scrollTop = s.clampTopLocked(float64(i) * geo.RowHeight)
	s.mu.Unlock()
	s.scheduleFrame()
}

// ScrollToTop scrolls to the first row.
func (s *Scheduler) ScrollToTop() {
	s.mu.Lock()
	s.scrollTop = 0
	s.mu.Unlock()
	s.scheduleFrame()
}

// ScrollToX sets the horizontal offset.
func (s *Scheduler) ScrollToX(px float64) {
	s.mu.Lock()
	s.scrollLeft = s.clampLeftLocked(px)
	s.mu.Unlock()
	s.scheduleFrame()
}

// ScrollTop returns the current vertical offset.
func (s *Scheduler) ScrollTop() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollTop
}

// ScrollLeft returns the current horizontal offset.
func (s *Scheduler) ScrollLeft() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollLeft
}

// VisibleRowRange returns the visible range for the current offsets.
func (s *Scheduler) VisibleRowRange() interfaces.VisibleRange {
	geo := s.geometry.Geometry()
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeVisibleRange(s.scrollTop, s.viewportHeight, geo.RowHeight, s.data.TotalRows())
}

// Subscribe registers a visible-range observer and returns its
// unsubscribe function.
func (s *Scheduler) Subscribe(obs Observer) func() {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = obs
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Refresh forces a recompute on the next frame, for count or layout
// changes that arrive outside the scroll path.
func (s *Scheduler) Refresh() {
	s.scheduleFrame()
}

// Close cancels any pending frame. In-flight query results are not
// cancelled here; the data model drops them via retention and the row
// client via generation stamps.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.frames.Cancel()
}

// scheduleFrame requests a tick if none is pending.
func (s *Scheduler) scheduleFrame() {
	s.mu.Lock()
	if s.closed || s.pendingFrame {
		s.mu.Unlock()
		return
	}
	s.pendingFrame = true
	s.mu.Unlock()

	s.frames.Request(s.tick)
}

// tick is one frame update: recompute the visible range, publish it if
// it changed, consult the fetch-window decision, and hand the retention
// range to the data model. The pending flag clears before state is
// read so input arriving mid-tick schedules the next frame instead of
// being lost.
func (s *Scheduler) tick() {
	geo := s.geometry.Geometry()

	s.mu.Lock()
	s.pendingFrame = false
	if s.closed {
		s.mu.Unlock()
		return
	}

	totalRows := s.data.TotalRows()
	scrollTop := s.clampTopLocked(s.scrollTop)
	s.scrollTop = scrollTop

	visible := ComputeVisibleRange(scrollTop, s.viewportHeight, geo.RowHeight, totalRows)
	render := renderRange(visible, s.opts.Overscan, totalRows)
	viewportRows := s.viewportRowsLocked(geo.RowHeight)

	changed := !s.published || visible != s.lastVisible || scrollTop != s.lastTop
	s.published = true
	s.lastVisible = visible
	s.lastTop = scrollTop

	var observers []Observer
	if changed {
		observers = make([]Observer, 0, len(s.observers))
		for _, obs := range s.observers {
			observers = append(observers, obs)
		}
	}

	window, fetch := s.decideWindowLocked(render, viewportRows, totalRows)
	if fetch {
		s.lastWindow = &window
	}

	var retainLo, retainHi int
	retain := false
	if s.lastWindow != nil && totalRows > 0 {
		radius := s.opts.RetentionMultiple * s.lastWindow.Limit
		retainLo = visible.Start - radius
		if retainLo < 0 {
			retainLo = 0
		}
		retainHi = visible.End + radius
		if retainHi > totalRows {
			retainHi = totalRows
		}
		retain = true
	}
	s.mu.Unlock()

	// Observers see the new range before the window moves; both carry
	// the same tick's values.
	for _, obs := range observers {
		obs(visible, scrollTop)
	}
	// Retention updates ahead of the window change so results merging
	// for the new window are judged against this tick's range, not the
	// previous one's.
	if retain {
		s.data.Retain(retainLo, retainHi)
	}
	if fetch {
		s.data.SetWindow(window.Offset, window.Limit)
	}
}

// decideWindowLocked applies the fetch-window policy: request a new
// window iff the render range is not contained in the last requested
// one (or none was requested). The new window centers a padded band on
// the render midpoint, clamps, and aligns its offset down to a page
// boundary to reduce churn.
func (s *Scheduler) decideWindowLocked(render interfaces.VisibleRange, viewportRows, totalRows int) (interfaces.FetchWindow, bool) {
	if s.lastWindow != nil && s.lastWindow.Contains(render.Start, render.End) {
		return interfaces.FetchWindow{}, false
	}
	if totalRows <= 0 && s.lastWindow != nil {
		// Nothing addressable yet; the initial window is already out.
		return interfaces.FetchWindow{}, false
	}

	band := render.Len()
	if min := 3 * viewportRows; band < min {
		band = min
	}
	band *= s.opts.PadFactor
	if band < 1 {
		band = 1
	}

	mid := (render.Start + render.End) / 2
	offset := mid - band/2
	if offset < 0 {
		offset = 0
	}
	if totalRows > 0 && offset >= totalRows {
		offset = totalRows - 1
	}
	if viewportRows > 0 {
		offset -= offset % viewportRows
	}

	return interfaces.FetchWindow{Offset: offset, Limit: band}, true
}

func (s *Scheduler) viewportRowsLocked(rowHeight float64) int {
	if rowHeight <= 0 {
		return 0
	}
	rows := int(s.viewportHeight / rowHeight)
	if s.viewportHeight > float64(rows)*rowHeight {
		rows++
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// clampTopLocked bounds the vertical offset to [0, totalHeight −
// viewportHeight].
func (s *Scheduler) clampTopLocked(top float64) float64 {
	geo := s.geometry.Geometry()
	maxTop := float64(s.data.TotalRows())*geo.RowHeight - s.viewportHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

// clampLeftLocked bounds the horizontal offset to [0, totalWidth −
// viewportWidth].
func (s *Scheduler) clampLeftLocked(left float64) float64 {
	geo := s.geometry.Geometry()
	maxLeft := geo.TotalWidth - s.viewportWidth
	if maxLeft < 0 {
		maxLeft = 0
	}
	if left > maxLeft {
		left = maxLeft
	}
	if left < 0 {
		left = 0
	}
	return left
}
