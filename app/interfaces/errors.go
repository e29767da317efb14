package interfaces

import "errors"

// Error taxonomy. SchemaFetch is fatal to table initialization; the
// rest are recovered locally or surfaced through the data handle's
// error channel without disturbing previously delivered rows.
var (
	ErrSchemaFetch    = errors.New("schema fetch failed")
	ErrQueryExecution = errors.New("query execution failed")
	ErrResultParse    = errors.New("result parse failed")
	ErrOutOfRange     = errors.New("request out of range")
)
