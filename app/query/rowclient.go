// Package query holds the two long-lived coordinator clients backing a
// table: one fetching a stable-ordered row window, one fetching the
// total count. Both re-execute when the shared filter selection
// changes; the coordinator drives re-execution, the clients only keep
// their own query state.
package query

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"gridline/app/interfaces"
	"gridline/app/schema"
	"gridline/app/sqlgen"
)

// RowSink is the row client's view of the data model.
type RowSink interface {
	Clear()
	MergeRows(offset int, rows []interfaces.RowRecord)
	SetLoading(loading bool)
}

// DefaultLimit is the fetch window limit before the scheduler asks for
// anything.
const DefaultLimit = 100

// RowClient fetches the fetch window's rows with stable ordering and
// merges them into the data model at the window offset. At most one
// query is in flight; a window or sort change while one is outstanding
// supersedes it upon completion.
type RowClient struct {
	id       string
	coord    interfaces.Coordinator
	table    string
	cols     []interfaces.ColumnSchema
	filterBy *interfaces.Selection
	model    RowSink
	errSink  func(error)

	mu         sync.Mutex
	sort       []interfaces.SortKey
	offset     int
	limit      int
	generation uint64
	lastFilter string

	// The coordinator delivers results only for the most recently
	// issued statement, so a single issued pair is enough to place and
	// gate the delivery.
	issuedGen    uint64
	issuedOffset int
	issuedKey    string

	inflight bool
	pending  bool
}

// NewRowClient creates a row window client bound to a data model. The
// selection may be nil for an unfiltered table. errSink receives
// bounded query errors; it must not be nil.
func NewRowClient(coord interfaces.Coordinator, table string, cols []interfaces.ColumnSchema, filterBy *interfaces.Selection, m RowSink, errSink func(error)) *RowClient {
	return &RowClient{
		id:       uuid.NewString(),
		coord:    coord,
		table:    table,
		cols:     cols,
		filterBy: filterBy,
		model:    m,
		errSink:  errSink,
		limit:    DefaultLimit,
	}
}

// ClientID implements interfaces.Client.
func (c *RowClient) ClientID() string { return c.id }

// FilterBy implements interfaces.Client.
func (c *RowClient) FilterBy() *interfaces.Selection { return c.filterBy }

// Query produces the row window statement. A filter different from the
// previous call's means the selection changed and positions remapped:
// the generation bumps and the model clears before the new rows land.
func (c *RowClient) Query(filter string) interfaces.Statement {
	c.mu.Lock()

	if filter != c.lastFilter {
		c.lastFilter = filter
		c.generation++
		c.model.Clear()
	}

	ordering := sortExprs(c.sort)

	projections := make([]sqlgen.Projection, 0, len(c.cols)+1)
	for _, col := range c.cols {
		var expr sqlgen.Expr = sqlgen.Column(col.Key)
		if cast := schema.CastFor(col); cast != "" {
			expr = sqlgen.Cast(expr, cast)
		}
		projections = append(projections, sqlgen.As(expr, col.Key))
	}
	projections = append(projections, sqlgen.As(sqlgen.RowNumber(ordering...), interfaces.OIDField))

	stmt := sqlgen.From(c.table).
		Select(projections...).
		Where(filter).
		Limit(c.limit).
		Offset(c.offset)
	if len(ordering) > 0 {
		stmt.OrderBy(ordering...)
	}

	c.issuedGen = c.generation
	c.issuedOffset = c.offset
	c.issuedKey = DeliveryKey(c.table, filter, c.sort, c.generation, c.offset, c.limit)
	c.mu.Unlock()

	c.model.SetLoading(true)
	return stmt
}

// QueryResult merges a delivered window into the data model, unless the
// generation moved on while the query was in flight.
func (c *RowClient) QueryResult(res interfaces.Result) {
	c.mu.Lock()
	gen := c.issuedGen
	offset := c.issuedOffset
	key := c.issuedKey
	stale := gen != c.generation
	cols := c.cols
	c.mu.Unlock()

	if stale {
		log.Printf("[ROWS_STALE] dropping delivery %s (generation moved on)", key)
		c.completeCycle()
		return
	}

	raw := res.ToArray()
	records := make([]interfaces.RowRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, schema.ParseRecord(r, cols))
	}
	c.model.MergeRows(offset, records)

	c.completeCycle()
}

// QueryError surfaces a bounded query failure. The model keeps its
// previous state; the next scroll- or sort-driven change retries
// implicitly.
func (c *RowClient) QueryError(err error) {
	c.mu.Lock()
	key := c.issuedKey
	c.mu.Unlock()
	log.Printf("[ROWS_ERROR] query %s failed: %v", key, err)
	c.errSink(fmt.Errorf("%w: %v", interfaces.ErrQueryExecution, err))
	c.completeCycle()
}

// FetchWindow updates the demanded slice and requests re-execution.
// Out-of-range input clamps rather than failing.
func (c *RowClient) FetchWindow(offset, limit int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 1
	}
	c.mu.Lock()
	c.offset = offset
	c.limit = limit
	c.mu.Unlock()
	c.schedule()
}

// Window returns the current fetch window.
func (c *RowClient) Window() interfaces.FetchWindow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return interfaces.FetchWindow{Offset: c.offset, Limit: c.limit}
}

// SetSort rewrites the ordering. The model clears immediately: rows
// delivered under the prior sort must never surface again because the
// positional index has been remapped. The fetch window resets to the
// top before re-execution.
func (c *RowClient) SetSort(sort []interfaces.SortKey) {
	c.mu.Lock()
	c.sort = append([]interfaces.SortKey(nil), sort...)
	c.generation++
	c.offset = 0
	c.mu.Unlock()

	c.model.Clear()
	c.schedule()
}

// Sort returns a copy of the current ordering.
func (c *RowClient) Sort() []interfaces.SortKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interfaces.SortKey(nil), c.sort...)
}

// Generation returns the current sort/filter generation.
func (c *RowClient) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// schedule requests a re-execution, keeping at most one query in
// flight. A request arriving while one is outstanding is coalesced into
// a single follow-up execution.
func (c *RowClient) schedule() {
	c.mu.Lock()
	if c.inflight {
		c.pending = true
		c.mu.Unlock()
		return
	}
	c.inflight = true
	c.mu.Unlock()

	c.coord.Request(c)
}

// completeCycle finishes an in-flight query and issues the follow-up
// execution if one was coalesced meanwhile.
func (c *RowClient) completeCycle() {
	c.mu.Lock()
	c.inflight = false
	repeat := c.pending
	c.pending = false
	if repeat {
		c.inflight = true
	}
	c.mu.Unlock()

	if repeat {
		c.coord.Request(c)
		return
	}
	c.model.SetLoading(false)
}

func sortExprs(sort []interfaces.SortKey) []sqlgen.OrderExpr {
	out := make([]sqlgen.OrderExpr, len(sort))
	for i, s := range sort {
		if s.Desc {
			out[i] = sqlgen.Desc(sqlgen.Column(s.Column))
		} else {
			out[i] = sqlgen.Asc(sqlgen.Column(s.Column))
		}
	}
	return out
}
