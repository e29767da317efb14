// Package table wires the cores together: schema fetch, sparse model,
// the query client pair, the layout engine and the scroll scheduler,
// exposed to consumers through narrow data/layout/scroll handles.
package table

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"gridline/app/interfaces"
	"gridline/app/layout"
	"gridline/app/model"
	"gridline/app/query"
	"gridline/app/scroll"
	"gridline/app/settings"
)

// Options configures an opened table.
type Options struct {
	// Columns declares sizing per column. Empty means one auto-sized
	// column per schema column in schema order.
	Columns []layout.ColumnDef

	// Pins assigns columns to the left/right regions.
	Pins layout.Pins

	// FilterBy is the shared filter selection, nil for unfiltered.
	FilterBy *interfaces.Selection

	// Settings tunes the core; the zero value selects the defaults.
	Settings settings.Settings

	// Frames overrides the frame ticker; nil selects the timer ticker.
	Frames scroll.Frames

	// ContainerWidth is the table's pixel width budget.
	ContainerWidth float64

	// ViewportWidth/Height are the scrollable area measurements.
	ViewportWidth  float64
	ViewportHeight float64
}

// Table is one bound (table, columns, filter) viewer instance.
type Table struct {
	id    string
	name  string
	coord interfaces.Coordinator

	schema      []interfaces.ColumnSchema
	schemaByKey map[string]interfaces.ColumnSchema

	dataModel   *model.DataModel
	rowClient   *query.RowClient
	countClient *query.CountClient
	scheduler   *scroll.Scheduler
	cfg         settings.Settings

	layoutMu       sync.RWMutex
	columnDefs     []layout.ColumnDef
	pins           layout.Pins
	containerWidth float64
	snapshot       *layout.ColumnLayout

	errs   chan error
	closed bool
	mu     sync.Mutex
}

// Open fetches the table's schema and assembles a viewer instance. A
// schema fetch failure is fatal: no table is returned.
func Open(coord interfaces.Coordinator, name string, opts Options) (*Table, error) {
	cols, err := query.FetchSchema(coord, name)
	if err != nil {
		return nil, err
	}

	cfg := opts.Settings
	if cfg == (settings.Settings{}) {
		cfg = settings.DefaultSettings()
	}

	t := &Table{
		id:             uuid.NewString(),
		name:           name,
		coord:          coord,
		schema:         cols,
		schemaByKey:    make(map[string]interfaces.ColumnSchema, len(cols)),
		dataModel:      model.NewWithPageSize(cfg.PageSize),
		cfg:            cfg,
		containerWidth: opts.ContainerWidth,
		pins:           opts.Pins,
		errs:           make(chan error, 16),
	}
	for _, c := range cols {
		t.schemaByKey[c.Key] = c
	}

	t.columnDefs = opts.Columns
	if len(t.columnDefs) == 0 {
		t.columnDefs = make([]layout.ColumnDef, len(cols))
		for i, c := range cols {
			t.columnDefs[i] = layout.ColumnDef{Key: c.Key, Width: "auto"}
		}
	}
	t.recomputeLayout()

	t.rowClient = query.NewRowClient(coord, name, cols, opts.FilterBy, t.dataModel, t.sinkError)
	t.countClient = query.NewCountClient(coord, name, opts.FilterBy, countSink{t}, t.sinkError)

	t.scheduler = scroll.NewScheduler(dataSink{t}, t, opts.Frames, scroll.Options{
		Overscan:          cfg.Overscan,
		PadFactor:         cfg.PadFactor,
		RetentionMultiple: cfg.RetentionMultiple,
	})
	if err := coord.Connect(t.rowClient); err != nil {
		return nil, fmt.Errorf("connect row client: %w", err)
	}
	if err := coord.Connect(t.countClient); err != nil {
		coord.Disconnect(t.rowClient)
		return nil, fmt.Errorf("connect count client: %w", err)
	}

	// Viewport measurements arrive only after the clients are wired:
	// the first frame tick already drives a fetch-window change.
	t.scheduler.SetViewportSize(opts.ViewportWidth, opts.ViewportHeight)

	log.Printf("[TABLE_OPEN] %s (%s): %d columns", name, t.id, len(cols))
	return t, nil
}

// Data returns the data handle.
func (t *Table) Data() *DataHandle { return &DataHandle{t: t} }

// Layout returns the layout handle.
func (t *Table) Layout() *LayoutHandle { return &LayoutHandle{t: t} }

// Scroll returns the scroll handle.
func (t *Table) Scroll() *ScrollHandle { return &ScrollHandle{t: t} }

// SetContainerWidth reports a new pixel budget and recomputes the
// layout snapshot.
func (t *Table) SetContainerWidth(width float64) {
	t.layoutMu.Lock()
	t.containerWidth = width
	t.layoutMu.Unlock()
	t.recomputeLayout()
	t.scheduler.Refresh()
}

// SetColumns replaces the column definitions.
func (t *Table) SetColumns(defs []layout.ColumnDef) {
	t.layoutMu.Lock()
	t.columnDefs = append([]layout.ColumnDef(nil), defs...)
	t.layoutMu.Unlock()
	t.recomputeLayout()
	t.scheduler.Refresh()
}

// SetPins replaces the pin assignments.
func (t *Table) SetPins(pins layout.Pins) {
	t.layoutMu.Lock()
	t.pins = pins
	t.layoutMu.Unlock()
	t.recomputeLayout()
	t.scheduler.Refresh()
}

// SetViewportSize reports new viewport measurements.
func (t *Table) SetViewportSize(width, height float64) {
	t.scheduler.SetViewportSize(width, height)
}

// Geometry implements scroll.GeometrySource over the current snapshot.
func (t *Table) Geometry() scroll.Geometry {
	t.layoutMu.RLock()
	defer t.layoutMu.RUnlock()
	return scroll.Geometry{
		RowHeight:  t.snapshot.RowHeight,
		TotalWidth: t.snapshot.TotalWidth,
	}
}

// Close detaches the clients and cancels pending frames. In-flight
// results are dropped by generation stamps and coordinator sequencing.
func (t *Table) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	t.scheduler.Close()
	t.coord.Disconnect(t.rowClient)
	t.coord.Disconnect(t.countClient)
	log.Printf("[TABLE_CLOSE] %s (%s)", t.name, t.id)
}

// recomputeLayout rebuilds the immutable snapshot from current inputs.
func (t *Table) recomputeLayout() {
	t.layoutMu.Lock()
	defer t.layoutMu.Unlock()

	ctx := layout.Context{
		ContainerWidth: t.containerWidth,
		RootFontSize:   t.cfg.RootFontSize,
		TableFontSize:  t.cfg.TableFontSize,
	}
	row := layout.RowSpec{
		NumLines:   t.cfg.RowLines,
		LineHeight: t.cfg.LineHeight,
		Padding:    t.cfg.RowPadding,
	}
	t.snapshot = layout.Compute(t.columnDefs, t.schemaByKey, t.pins, ctx, row)
}

// sinkError pushes a bounded error onto the handle channel, dropping
// when no consumer drains it.
func (t *Table) sinkError(err error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	select {
	case t.errs <- err:
	default:
		log.Printf("[TABLE_ERR_DROP] %s: %v", t.name, err)
	}
}

// dataSink adapts the table to the scheduler's DataSink: count reads
// from the model, window changes forward to the row client, retention
// to the model.
type dataSink struct{ t *Table }

func (s dataSink) TotalRows() int { return s.t.dataModel.TotalRows() }

func (s dataSink) SetWindow(offset, limit int) {
	s.t.rowClient.FetchWindow(offset, limit)
}

func (s dataSink) Retain(lo, hi int) { s.t.dataModel.Retain(lo, hi) }

// countSink forwards the delivered total to the model and nudges the
// scheduler: the count changes the scroll clamp and the visible range.
type countSink struct{ t *Table }

func (s countSink) SetTotalRows(n int) {
	s.t.dataModel.SetTotalRows(n)
	s.t.scheduler.Refresh()
}
