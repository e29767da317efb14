package query

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gridline/app/interfaces"
	"gridline/app/model"
	"gridline/app/schema"
)

// fakeCoord captures issued statements and lets tests deliver results
// by hand, emulating the coordinator's asynchronous delivery.
type fakeCoord struct {
	issued []issuedQuery
}

type issuedQuery struct {
	client interfaces.Client
	stmt   interfaces.Statement
}

func (f *fakeCoord) Connect(c interfaces.Client) error { f.Request(c); return nil }
func (f *fakeCoord) Disconnect(interfaces.Client)      {}

func (f *fakeCoord) Request(c interfaces.Client) {
	filter := ""
	if sel := c.FilterBy(); sel != nil {
		filter = sel.Value()
	}
	f.issued = append(f.issued, issuedQuery{client: c, stmt: c.Query(filter)})
}

func (f *fakeCoord) QueryFieldInfo(string) ([]interfaces.FieldInfo, error) {
	return nil, errors.New("not implemented")
}

// deliver hands rows to the most recently issued query's client.
func (f *fakeCoord) deliver(rows []map[string]any) {
	last := f.issued[len(f.issued)-1]
	last.client.QueryResult(fakeResult{rows: rows})
}

func (f *fakeCoord) deliverError(err error) {
	last := f.issued[len(f.issued)-1]
	last.client.QueryError(err)
}

type fakeResult struct{ rows []map[string]any }

func (r fakeResult) ToArray() []map[string]any { return r.rows }

func testSchemas() []interfaces.ColumnSchema {
	return []interfaces.ColumnSchema{
		schema.NewColumnSchema("name", "VARCHAR"),
		schema.NewColumnSchema("id", "BIGINT"),
	}
}

func windowRows(offset, n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{
			"name":              fmt.Sprintf("row%d", offset+i),
			"id":                fmt.Sprintf("%d", offset+i),
			interfaces.OIDField: int64(offset + i + 1),
		}
	}
	return rows
}

func TestRowClientQueryShape(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	sel := interfaces.NewSelection()
	sel.Update("name LIKE 'a%'")
	c := NewRowClient(coord, "people", testSchemas(), sel, m, func(error) {})
	c.SetSort([]interfaces.SortKey{{Column: "name", Desc: true}})

	stmt := coord.issued[len(coord.issued)-1].stmt
	got := stmt.SQL()
	want := `SELECT name AS name, CAST(id AS TEXT) AS id, row_number() OVER (ORDER BY name DESC) AS __oid FROM people WHERE name LIKE 'a%' ORDER BY name DESC LIMIT 100 OFFSET 0`
	if got != want {
		t.Fatalf("query shape mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestRowClientMergesAtOffset(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	m.SetTotalRows(1000)
	c := NewRowClient(coord, "people", testSchemas(), nil, m, func(error) {})

	c.FetchWindow(40, 20)
	if len(coord.issued) != 1 {
		t.Fatalf("expected 1 issued query, got %d", len(coord.issued))
	}
	coord.deliver(windowRows(40, 20))

	if !m.HasRow(40) || !m.HasRow(59) {
		t.Fatal("window rows must merge at the issued offset")
	}
	if m.HasRow(39) || m.HasRow(60) {
		t.Fatal("rows outside the window must stay absent")
	}

	rec := m.GetRow(40)
	if rec.OID() != 41 {
		t.Fatalf("expected oid 41, got %d", rec.OID())
	}
	if _, ok := rec["id"].(interfaces.BigValue); !ok {
		t.Fatalf("wide int must parse to BigValue, got %T", rec["id"])
	}
	if m.IsLoading() {
		t.Fatal("loading must clear after delivery")
	}
}

func TestRowClientSupersedesInFlight(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	m.SetTotalRows(1000)
	c := NewRowClient(coord, "people", testSchemas(), nil, m, func(error) {})

	c.FetchWindow(0, 20)
	// Second request while the first is outstanding: coalesced, not
	// issued yet.
	c.FetchWindow(200, 20)
	if len(coord.issued) != 1 {
		t.Fatalf("expected 1 issued query while in flight, got %d", len(coord.issued))
	}

	coord.deliver(windowRows(0, 20))
	// Completion triggers the coalesced follow-up with the new window.
	if len(coord.issued) != 2 {
		t.Fatalf("expected follow-up query after completion, got %d", len(coord.issued))
	}
	if !strings.Contains(coord.issued[1].stmt.SQL(), "OFFSET 200") {
		t.Fatalf("follow-up must carry the superseding offset: %s", coord.issued[1].stmt.SQL())
	}

	coord.deliver(windowRows(200, 20))
	if !m.HasRow(200) {
		t.Fatal("superseding window must merge")
	}
}

func TestRowClientSortChangeClearsAndDropsStale(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	m.SetTotalRows(1000)
	c := NewRowClient(coord, "people", testSchemas(), nil, m, func(error) {})

	c.FetchWindow(0, 100)

	// Sort changes while the first query is in flight.
	c.SetSort([]interfaces.SortKey{{Column: "name"}})
	if m.LoadedCount() != 0 {
		t.Fatal("sort change must clear the model immediately")
	}

	// The pre-sort delivery arrives late: its generation is stale and
	// nothing may surface.
	coord.deliver(windowRows(0, 100))
	if m.LoadedCount() != 0 {
		t.Fatal("stale-generation delivery must be dropped")
	}

	// Completion issues the coalesced post-sort query at offset 0.
	last := coord.issued[len(coord.issued)-1].stmt.SQL()
	if !strings.Contains(last, "ORDER BY name") || !strings.Contains(last, "OFFSET 0") {
		t.Fatalf("post-sort query must re-order from the top: %s", last)
	}
	coord.deliver(windowRows(0, 100))
	if !m.HasRow(0) {
		t.Fatal("post-sort delivery must merge at offset 0")
	}
}

func TestRowClientFilterChangeClears(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	m.SetTotalRows(100)
	sel := interfaces.NewSelection()
	c := NewRowClient(coord, "people", testSchemas(), sel, m, func(error) {})

	c.FetchWindow(0, 10)
	coord.deliver(windowRows(0, 10))
	if !m.HasRow(0) {
		t.Fatal("precondition: rows loaded")
	}
	gen := c.Generation()

	// The coordinator re-invokes the client when the selection changes;
	// the filter difference is detected inside Query.
	sel.Update("name = 'x'")
	coord.Request(c)

	if m.LoadedCount() != 0 {
		t.Fatal("filter change must clear the model")
	}
	if c.Generation() == gen {
		t.Fatal("filter change must bump the generation")
	}
	last := coord.issued[len(coord.issued)-1].stmt.SQL()
	if !strings.Contains(last, "WHERE name = 'x'") {
		t.Fatalf("new query must carry the filter: %s", last)
	}
}

func TestRowClientErrorLeavesModel(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	m.SetTotalRows(100)
	var sunk error
	c := NewRowClient(coord, "people", testSchemas(), nil, m, func(err error) { sunk = err })

	c.FetchWindow(0, 10)
	coord.deliver(windowRows(0, 10))

	c.FetchWindow(10, 10)
	coord.deliverError(errors.New("backend exploded"))

	if sunk == nil || !errors.Is(sunk, interfaces.ErrQueryExecution) {
		t.Fatalf("expected wrapped query execution error, got %v", sunk)
	}
	if !m.HasRow(0) {
		t.Fatal("prior rows must survive a query failure")
	}
}

func TestRowClientWindowClamps(t *testing.T) {
	coord := &fakeCoord{}
	c := NewRowClient(coord, "people", testSchemas(), nil, model.New(), func(error) {})

	c.FetchWindow(-5, 0)
	w := c.Window()
	if w.Offset != 0 || w.Limit != 1 {
		t.Fatalf("out-of-range window must clamp, got %+v", w)
	}
}

func TestCountClient(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	c := NewCountClient(coord, "people", nil, m, func(error) {})

	coord.Request(c)
	stmt := coord.issued[len(coord.issued)-1].stmt
	if got, want := stmt.SQL(), `SELECT count(*) AS count FROM people`; got != want {
		t.Fatalf("count shape mismatch:\n got: %s\nwant: %s", got, want)
	}

	coord.deliver([]map[string]any{{"count": int64(31337)}})
	if m.TotalRows() != 31337 {
		t.Fatalf("expected total 31337, got %d", m.TotalRows())
	}
}

func TestCountClientErrorKeepsPrevious(t *testing.T) {
	coord := &fakeCoord{}
	m := model.New()
	m.SetTotalRows(42)
	var sunk error
	c := NewCountClient(coord, "people", nil, m, func(err error) { sunk = err })

	coord.Request(c)
	coord.deliverError(errors.New("nope"))

	if m.TotalRows() != 42 {
		t.Fatal("count failure must leave the previous total")
	}
	if !errors.Is(sunk, interfaces.ErrQueryExecution) {
		t.Fatalf("expected wrapped error, got %v", sunk)
	}
}
