package query

import (
	"fmt"

	"gridline/app/interfaces"
	"gridline/app/schema"
)

// FetchSchema asks the coordinator for a table's column metadata and
// derives each column's category. A failure here is fatal to table
// initialization.
func FetchSchema(coord interfaces.Coordinator, table string) ([]interfaces.ColumnSchema, error) {
	fields, err := coord.QueryFieldInfo(table)
	if err != nil {
		return nil, fmt.Errorf("%w: table %s: %v", interfaces.ErrSchemaFetch, table, err)
	}
	cols := make([]interfaces.ColumnSchema, len(fields))
	for i, f := range fields {
		cols[i] = schema.NewColumnSchema(f.Column, f.SQLType)
	}
	return cols, nil
}
