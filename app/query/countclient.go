package query

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gridline/app/interfaces"
	"gridline/app/sqlgen"
)

// CountSink receives the delivered total.
type CountSink interface {
	SetTotalRows(n int)
}

// countAlias names the single column of the count query's result.
const countAlias = "count"

// CountClient fetches the total row count of the current filtered
// result set and forwards it to the data model.
type CountClient struct {
	id       string
	coord    interfaces.Coordinator
	table    string
	filterBy *interfaces.Selection
	sink     CountSink
	errSink  func(error)

	mu       sync.Mutex
	inflight bool
	pending  bool
}

// NewCountClient creates a count client bound to a data model.
func NewCountClient(coord interfaces.Coordinator, table string, filterBy *interfaces.Selection, sink CountSink, errSink func(error)) *CountClient {
	return &CountClient{
		id:       uuid.NewString(),
		coord:    coord,
		table:    table,
		filterBy: filterBy,
		sink:     sink,
		errSink:  errSink,
	}
}

// ClientID implements interfaces.Client.
func (c *CountClient) ClientID() string { return c.id }

// FilterBy implements interfaces.Client.
func (c *CountClient) FilterBy() *interfaces.Selection { return c.filterBy }

// Query produces the count statement.
func (c *CountClient) Query(filter string) interfaces.Statement {
	return sqlgen.From(c.table).
		Select(sqlgen.As(sqlgen.Count(), countAlias)).
		Where(filter)
}

// QueryResult forwards the delivered count to the data model. The count
// and the row window update independently; transient disagreement is
// expected and tolerated downstream.
func (c *CountClient) QueryResult(res interfaces.Result) {
	rows := res.ToArray()
	if len(rows) == 0 {
		log.Printf("[COUNT_EMPTY] table %s returned no count row", c.table)
		c.completeCycle()
		return
	}
	n, ok := countValue(rows[0][countAlias])
	if !ok {
		c.errSink(fmt.Errorf("%w: unparseable count %v", interfaces.ErrResultParse, rows[0][countAlias]))
		c.completeCycle()
		return
	}
	c.sink.SetTotalRows(n)
	c.completeCycle()
}

// QueryError surfaces a bounded count failure; the previous count
// stands.
func (c *CountClient) QueryError(err error) {
	log.Printf("[COUNT_ERROR] table %s: %v", c.table, err)
	c.errSink(fmt.Errorf("%w: %v", interfaces.ErrQueryExecution, err))
	c.completeCycle()
}

// Refresh requests a re-execution, coalescing concurrent requests the
// same way the row client does.
func (c *CountClient) Refresh() {
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

func (c *CountClient) completeCycle() {
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
	}
}

func countValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
