package sqlgen

import (
	"fmt"
	"strings"
)

// Projection is one SELECT term with an optional alias.
type Projection struct {
	Expr  Expr
	Alias string
}

func (p Projection) SQL() string {
	if p.Alias == "" {
		return p.Expr.SQL()
	}
	return fmt.Sprintf("%s AS %s", p.Expr.SQL(), quoteIdent(p.Alias))
}

// As attaches an alias to an expression.
func As(e Expr, alias string) Projection { return Projection{Expr: e, Alias: alias} }

// SelectStatement is a single SELECT query under construction. The
// zero limit/offset are distinguishable from absent ones.
type SelectStatement struct {
	table       string
	projections []Projection
	filter      string
	ordering    []OrderExpr
	limit       int
	hasLimit    bool
	offset      int
	hasOffset   bool
}

// From starts a statement over a table.
func From(table string) *SelectStatement {
	return &SelectStatement{table: table}
}

// Select appends projections.
func (s *SelectStatement) Select(projs ...Projection) *SelectStatement {
	s.projections = append(s.projections, projs...)
	return s
}

// Where sets the filter predicate. An empty predicate means no WHERE
// clause.
func (s *SelectStatement) Where(predicate string) *SelectStatement {
	s.filter = predicate
	return s
}

// OrderBy replaces the statement ordering.
func (s *SelectStatement) OrderBy(order ...OrderExpr) *SelectStatement {
	s.ordering = order
	return s
}

// Limit sets the row limit.
func (s *SelectStatement) Limit(n int) *SelectStatement {
	s.limit = n
	s.hasLimit = true
	return s
}

// Offset sets the row offset.
func (s *SelectStatement) Offset(n int) *SelectStatement {
	s.offset = n
	s.hasOffset = true
	return s
}

// Table returns the source table name.
func (s *SelectStatement) Table() string { return s.table }

// Projections returns the SELECT terms.
func (s *SelectStatement) Projections() []Projection { return s.projections }

// Filter returns the WHERE predicate ("" when unfiltered).
func (s *SelectStatement) Filter() string { return s.filter }

// Ordering returns the ORDER BY terms.
func (s *SelectStatement) Ordering() []OrderExpr { return s.ordering }

// Window returns the limit/offset pair; ok reports whether a limit was
// set.
func (s *SelectStatement) Window() (limit, offset int, ok bool) {
	return s.limit, s.offset, s.hasLimit
}

// SQL renders the statement's wire shape.
func (s *SelectStatement) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(s.projections) == 0 {
		b.WriteString("*")
	} else {
		parts := make([]string, len(s.projections))
		for i, p := range s.projections {
			parts[i] = p.SQL()
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(s.table))

	if s.filter != "" {
		b.WriteString(" WHERE ")
		b.WriteString(s.filter)
	}
	if len(s.ordering) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(renderOrder(s.ordering))
	}
	if s.hasLimit {
		fmt.Fprintf(&b, " LIMIT %d", s.limit)
	}
	if s.hasOffset {
		fmt.Fprintf(&b, " OFFSET %d", s.offset)
	}
	return b.String()
}
