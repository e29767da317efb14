package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gridline/app/interfaces"
)

func TestCategorize(t *testing.T) {
	cases := map[string]interfaces.Category{
		"BIGINT":                       interfaces.CategoryNumeric,
		"bigint":                       interfaces.CategoryNumeric,
		"UBIGINT":                      interfaces.CategoryNumeric,
		"DECIMAL(18,3)":                interfaces.CategoryNumeric,
		"DOUBLE":                       interfaces.CategoryNumeric,
		"VARCHAR":                      interfaces.CategoryText,
		"varchar(255)":                 interfaces.CategoryText,
		"BPCHAR":                       interfaces.CategoryText,
		"TIMESTAMP WITH TIME ZONE":     interfaces.CategoryTemporal,
		"TIMESTAMP_NS":                 interfaces.CategoryTemporal,
		"DATE":                         interfaces.CategoryTemporal,
		"TIME":                         interfaces.CategoryTemporal,
		"INTERVAL":                     interfaces.CategoryTemporal,
		"BOOLEAN":                      interfaces.CategoryBoolean,
		"BLOB":                         interfaces.CategoryBinary,
		"BYTEA":                        interfaces.CategoryBinary,
		"UUID":                         interfaces.CategoryIdentifier,
		"ENUM('a','b')":                interfaces.CategoryEnum,
		"LIST(INTEGER)":                interfaces.CategoryComplex,
		"STRUCT(a INTEGER, b VARCHAR)": interfaces.CategoryComplex,
		"MAP(VARCHAR, DOUBLE)":         interfaces.CategoryComplex,
		"JSON":                         interfaces.CategoryComplex,
		"GEOMETRY":                     interfaces.CategoryGeo,
		"POLYGON":                      interfaces.CategoryGeo,
		"FROBNICATOR":                  interfaces.CategoryUnknown,
		"":                             interfaces.CategoryUnknown,
	}
	for sqlType, want := range cases {
		assert.Equal(t, want, Categorize(sqlType), "sqlType=%q", sqlType)
	}
}

func TestCategorizeCaseStable(t *testing.T) {
	assert.Equal(t, Categorize("bigint"), Categorize("BIGINT"))
	assert.Equal(t, interfaces.CategoryNumeric, Categorize("Bigint"))
	assert.Equal(t, Categorize("timestamp with time zone"), Categorize("TIMESTAMP WITH TIME ZONE"))
}

func TestCastFor(t *testing.T) {
	cases := []struct {
		sqlType string
		want    string
	}{
		{"BIGINT", "TEXT"},
		{"UBIGINT", "TEXT"},
		{"HUGEINT", "TEXT"},
		{"INTEGER", ""},
		{"DOUBLE", ""},
		{"VARCHAR", ""},
		{"INTERVAL", "TEXT"},
		{"TIME", "TEXT"},
		{"JSON", "TEXT"},
		{"LIST(INTEGER)", "TEXT"},
		{"STRUCT(a INTEGER)", "TEXT"},
		{"TIMESTAMP", ""},
		{"BOOLEAN", ""},
	}
	for _, tc := range cases {
		col := NewColumnSchema("c", tc.sqlType)
		assert.Equal(t, tc.want, CastFor(col), "sqlType=%q", tc.sqlType)
	}
}
