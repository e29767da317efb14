// Package memcoord is an in-memory coordinator implementing the query
// protocol over loaded datasets. It executes the builder's statement
// directly — filter, order, window numbering, slicing, projection — so
// tables are runnable and testable without a columnar backend.
package memcoord

import (
	"strconv"
	"strings"

	"gridline/app/schema"
)

// Dataset is one registered table: a header, the raw string rows, and a
// SQL type per column.
type Dataset struct {
	Name     string
	Header   []string
	SQLTypes []string
	Rows     [][]string
}

// NewDataset builds a dataset, inferring a SQL type per column when
// none is supplied.
func NewDataset(name string, header []string, rows [][]string, sqlTypes []string) *Dataset {
	if len(sqlTypes) != len(header) {
		sqlTypes = inferSQLTypes(header, rows)
	}
	return &Dataset{Name: name, Header: header, SQLTypes: sqlTypes, Rows: rows}
}

// columnIndex resolves a column name case-insensitively, -1 if unknown.
func (d *Dataset) columnIndex(name string) int {
	for i, h := range d.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// inferSQLTypes samples column values and assigns the narrowest SQL
// type that fits every sampled non-empty value.
func inferSQLTypes(header []string, rows [][]string) []string {
	const sampleLimit = 200

	types := make([]string, len(header))
	for col := range header {
		allInt, allFloat, allBool, allTime := true, true, true, true
		seen := 0
		for r := 0; r < len(rows) && seen < sampleLimit; r++ {
			if col >= len(rows[r]) {
				continue
			}
			v := strings.TrimSpace(rows[r][col])
			if v == "" {
				continue
			}
			seen++
			if allInt {
				if _, err := strconv.ParseInt(v, 10, 64); err != nil {
					allInt = false
				}
			}
			if allFloat {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					allFloat = false
				}
			}
			if allBool {
				lower := strings.ToLower(v)
				if lower != "true" && lower != "false" {
					allBool = false
				}
			}
			if allTime {
				// Bare numbers classify as numeric, not epochs.
				if _, err := strconv.ParseFloat(v, 64); err == nil {
					allTime = false
				} else if _, ok := schema.ParseInstantMillis(v); !ok {
					allTime = false
				}
			}
		}

		switch {
		case seen == 0:
			types[col] = "VARCHAR"
		case allBool:
			types[col] = "BOOLEAN"
		case allInt:
			types[col] = "BIGINT"
		case allFloat:
			types[col] = "DOUBLE"
		case allTime:
			types[col] = "TIMESTAMP"
		default:
			types[col] = "VARCHAR"
		}
	}
	return types
}
