// Package sqlgen builds the SELECT statements the query clients hand to
// the coordinator. Statements are plain structs that render their wire
// shape through SQL(); the coordinator may also inspect them directly
// instead of parsing text.
package sqlgen

import (
	"fmt"
	"strings"
)

// Expr is a renderable SQL expression.
type Expr interface {
	SQL() string
}

// ColumnExpr references a column by name.
type ColumnExpr struct {
	Name string
}

func (e ColumnExpr) SQL() string { return quoteIdent(e.Name) }

// CastExpr wraps an expression in a transport cast.
type CastExpr struct {
	Inner Expr
	Type  string
}

func (e CastExpr) SQL() string {
	return fmt.Sprintf("CAST(%s AS %s)", e.Inner.SQL(), e.Type)
}

// CountExpr is the count(*) aggregate.
type CountExpr struct{}

func (CountExpr) SQL() string { return "count(*)" }

// OrderExpr is one ORDER BY term.
type OrderExpr struct {
	Inner Expr
	Desc  bool
}

func (e OrderExpr) SQL() string {
	if e.Desc {
		return e.Inner.SQL() + " DESC"
	}
	return e.Inner.SQL()
}

// RowNumberExpr is the row_number() window function. Over is the window
// ordering; empty renders an empty OVER clause.
type RowNumberExpr struct {
	Over []OrderExpr
}

func (e RowNumberExpr) SQL() string {
	if len(e.Over) == 0 {
		return "row_number() OVER ()"
	}
	return fmt.Sprintf("row_number() OVER (ORDER BY %s)", renderOrder(e.Over))
}

// RawExpr passes text through verbatim.
type RawExpr struct {
	Text string
}

func (e RawExpr) SQL() string { return e.Text }

// Column builds a column reference.
func Column(name string) ColumnExpr { return ColumnExpr{Name: name} }

// Cast wraps an expression in a cast to the given SQL type.
func Cast(inner Expr, typ string) CastExpr { return CastExpr{Inner: inner, Type: typ} }

// Count builds count(*).
func Count() CountExpr { return CountExpr{} }

// RowNumber builds row_number() over the given ordering.
func RowNumber(over ...OrderExpr) RowNumberExpr { return RowNumberExpr{Over: over} }

// Asc builds an ascending ORDER BY term.
func Asc(inner Expr) OrderExpr { return OrderExpr{Inner: inner} }

// Desc builds a descending ORDER BY term.
func Desc(inner Expr) OrderExpr { return OrderExpr{Inner: inner, Desc: true} }

func renderOrder(order []OrderExpr) string {
	parts := make([]string, len(order))
	for i, o := range order {
		parts[i] = o.SQL()
	}
	return strings.Join(parts, ", ")
}

// quoteIdent renders an identifier, double-quoting only when the bare
// form would not survive the wire.
func quoteIdent(name string) string {
	if isBareIdent(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isBareIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
