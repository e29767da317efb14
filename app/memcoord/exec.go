package memcoord

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gridline/app/interfaces"
	"gridline/app/sqlgen"
)

// rowsResult is the coordinator's tabular delivery.
type rowsResult struct {
	records []map[string]any
}

// ToArray implements interfaces.Result.
func (r *rowsResult) ToArray() []map[string]any { return r.records }

// execute evaluates a builder statement against a dataset: filter,
// order, window numbering, slicing, projection — the same sequence the
// wire SQL describes.
func execute(stmt interfaces.Statement, ds *Dataset) (interfaces.Result, error) {
	sel, ok := stmt.(*sqlgen.SelectStatement)
	if !ok {
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}

	matched, err := filterRows(ds, sel.Filter())
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	// A lone count(*) projection short-circuits the row machinery.
	if projs := sel.Projections(); len(projs) == 1 {
		if _, isCount := projs[0].Expr.(sqlgen.CountExpr); isCount {
			alias := projs[0].Alias
			if alias == "" {
				alias = "count"
			}
			return &rowsResult{records: []map[string]any{{alias: int64(len(matched))}}}, nil
		}
	}

	orderRows(ds, matched, sel.Ordering())

	// Window numbering precedes slicing: __oid is the one-based
	// position in the full ordered, filtered set.
	oids := make([]int64, len(matched))
	for i := range matched {
		oids[i] = int64(i + 1)
	}

	start, end := sliceBounds(sel, len(matched))
	matched = matched[start:end]
	oids = oids[start:end]

	records := make([]map[string]any, len(matched))
	for i, rowIdx := range matched {
		records[i] = project(ds, ds.Rows[rowIdx], oids[i], sel.Projections())
	}
	return &rowsResult{records: records}, nil
}

// filterRows returns the indices of rows matching the predicate, in
// file order.
func filterRows(ds *Dataset, predicate string) ([]int, error) {
	expr, err := parseFilter(predicate)
	if err != nil {
		return nil, err
	}
	matched := make([]int, 0, len(ds.Rows))
	for i, row := range ds.Rows {
		if expr == nil || expr.eval(row, ds) {
			matched = append(matched, i)
		}
	}
	return matched, nil
}

// orderRows stably sorts row indices by the ORDER BY terms, numeric
// when both sides parse as numbers, case-insensitive otherwise.
func orderRows(ds *Dataset, matched []int, ordering []sqlgen.OrderExpr) {
	if len(ordering) == 0 {
		return
	}

	type sortCol struct {
		idx  int
		desc bool
	}
	cols := make([]sortCol, 0, len(ordering))
	for _, o := range ordering {
		col, ok := o.Inner.(sqlgen.ColumnExpr)
		if !ok {
			continue
		}
		if idx := ds.columnIndex(col.Name); idx >= 0 {
			cols = append(cols, sortCol{idx: idx, desc: o.Desc})
		}
	}
	if len(cols) == 0 {
		return
	}

	sort.SliceStable(matched, func(a, b int) bool {
		ra, rb := ds.Rows[matched[a]], ds.Rows[matched[b]]
		for _, c := range cols {
			var av, bv string
			if c.idx < len(ra) {
				av = ra[c.idx]
			}
			if c.idx < len(rb) {
				bv = rb[c.idx]
			}
			cmp := compareCells(av, bv)
			if cmp != 0 {
				if c.desc {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return false
	})
}

// sliceBounds applies LIMIT/OFFSET to [0, n).
func sliceBounds(sel *sqlgen.SelectStatement, n int) (int, int) {
	limit, offset, ok := sel.Window()
	if !ok {
		return 0, n
	}
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := offset + limit
	if limit < 0 || end > n {
		end = n
	}
	return offset, end
}

// project builds the delivered record for one row. Casts render the
// cell as text, which the raw string cells already are; column
// references deliver the raw cell; the window function delivers the
// computed position.
func project(ds *Dataset, row []string, oid int64, projs []sqlgen.Projection) map[string]any {
	rec := make(map[string]any, len(projs))
	for _, p := range projs {
		alias := p.Alias
		switch e := p.Expr.(type) {
		case sqlgen.ColumnExpr:
			if alias == "" {
				alias = e.Name
			}
			rec[alias] = cellValue(ds, row, e.Name)
		case sqlgen.CastExpr:
			if col, ok := e.Inner.(sqlgen.ColumnExpr); ok {
				if alias == "" {
					alias = col.Name
				}
				rec[alias] = rawCell(ds, row, col.Name)
			}
		case sqlgen.RowNumberExpr:
			if alias == "" {
				alias = interfaces.OIDField
			}
			rec[alias] = oid
		}
	}
	return rec
}

// cellValue delivers a cell in its column's natural transport type:
// DOUBLE, FLOAT, REAL and the narrow integer types as float64, boolean
// as bool, everything else (BIGINT and DECIMAL included) as the raw
// string. Wide integers never reach here untyped — the client
// casts them to text.
func cellValue(ds *Dataset, row []string, column string) any {
	idx := ds.columnIndex(column)
	if idx < 0 || idx >= len(row) {
		return nil
	}
	raw := row[idx]
	switch strings.ToUpper(ds.SQLTypes[idx]) {
	case "DOUBLE", "FLOAT", "REAL", "INTEGER", "INT", "SMALLINT", "TINYINT":
		if f, ok := parseFloatCell(raw); ok {
			return f
		}
	case "BOOLEAN", "BOOL":
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return raw
}

func rawCell(ds *Dataset, row []string, column string) any {
	idx := ds.columnIndex(column)
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func parseFloatCell(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
