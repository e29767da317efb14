package sqlgen

import "testing"

func TestSelectWireShape(t *testing.T) {
	stmt := From("events").
		Select(
			As(Column("name"), "name"),
			As(Cast(Column("id"), "TEXT"), "id"),
			As(RowNumber(Desc(Column("ts"))), "__oid"),
		).
		Where("category = 'auth'").
		OrderBy(Desc(Column("ts"))).
		Limit(100).
		Offset(400)

	want := `SELECT name AS name, CAST(id AS TEXT) AS id, row_number() OVER (ORDER BY ts DESC) AS __oid FROM events WHERE category = 'auth' ORDER BY ts DESC LIMIT 100 OFFSET 400`
	if got := stmt.SQL(); got != want {
		t.Fatalf("wire shape mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestSelectNoSortNoFilter(t *testing.T) {
	stmt := From("t").
		Select(
			As(Column("a"), "a"),
			As(RowNumber(), "__oid"),
		).
		Limit(10).
		Offset(0)

	want := `SELECT a AS a, row_number() OVER () AS __oid FROM t LIMIT 10 OFFSET 0`
	if got := stmt.SQL(); got != want {
		t.Fatalf("wire shape mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestCountWireShape(t *testing.T) {
	stmt := From("t").Select(As(Count(), "count")).Where("x > 3")
	want := `SELECT count(*) AS count FROM t WHERE x > 3`
	if got := stmt.SQL(); got != want {
		t.Fatalf("wire shape mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestQuotedIdentifiers(t *testing.T) {
	if got := Column("weird col").SQL(); got != `"weird col"` {
		t.Fatalf("expected quoted identifier, got %s", got)
	}
	if got := Column("plain_col2").SQL(); got != "plain_col2" {
		t.Fatalf("expected bare identifier, got %s", got)
	}
	if got := Column("2starts").SQL(); got != `"2starts"` {
		t.Fatalf("digit-leading identifiers must quote, got %s", got)
	}
}

func TestWindowAccessors(t *testing.T) {
	stmt := From("t").Limit(50).Offset(200)
	limit, offset, ok := stmt.Window()
	if !ok || limit != 50 || offset != 200 {
		t.Fatalf("unexpected window: %d %d %v", limit, offset, ok)
	}

	_, _, ok = From("t").Window()
	if ok {
		t.Fatal("unset window must report !ok")
	}
}
