package schema

import (
	"strings"

	"gridline/app/interfaces"
)

// exactCategories resolves whole-type matches before any family rule is
// consulted.
var exactCategories = map[string]interfaces.Category{
	"TINYINT":    interfaces.CategoryNumeric,
	"SMALLINT":   interfaces.CategoryNumeric,
	"INTEGER":    interfaces.CategoryNumeric,
	"INT":        interfaces.CategoryNumeric,
	"BIGINT":     interfaces.CategoryNumeric,
	"HUGEINT":    interfaces.CategoryNumeric,
	"UTINYINT":   interfaces.CategoryNumeric,
	"USMALLINT":  interfaces.CategoryNumeric,
	"UINTEGER":   interfaces.CategoryNumeric,
	"UBIGINT":    interfaces.CategoryNumeric,
	"UHUGEINT":   interfaces.CategoryNumeric,
	"FLOAT":      interfaces.CategoryNumeric,
	"REAL":       interfaces.CategoryNumeric,
	"DOUBLE":     interfaces.CategoryNumeric,
	"DATE":       interfaces.CategoryTemporal,
	"TIME":       interfaces.CategoryTemporal,
	"INTERVAL":   interfaces.CategoryTemporal,
	"BOOL":       interfaces.CategoryBoolean,
	"BOOLEAN":    interfaces.CategoryBoolean,
	"BLOB":       interfaces.CategoryBinary,
	"BYTEA":      interfaces.CategoryBinary,
	"UUID":       interfaces.CategoryIdentifier,
	"JSON":       interfaces.CategoryComplex,
	"VARCHAR":    interfaces.CategoryText,
	"TEXT":       interfaces.CategoryText,
	"CHAR":       interfaces.CategoryText,
	"STRING":     interfaces.CategoryText,
	"NAME":       interfaces.CategoryText,
	"BPCHAR":     interfaces.CategoryText,
	"GEOMETRY":   interfaces.CategoryGeo,
	"GEOGRAPHY":  interfaces.CategoryGeo,
	"POINT":      interfaces.CategoryGeo,
	"LINESTRING": interfaces.CategoryGeo,
	"POLYGON":    interfaces.CategoryGeo,
}

// familyCategories resolves prefix matches, checked in declaration order
// after exact matches fail. Longer prefixes are listed before shorter
// ones that would shadow them.
var familyCategories = []struct {
	prefix   string
	category interfaces.Category
}{
	{"TIMESTAMP", interfaces.CategoryTemporal},
	{"DATETIME", interfaces.CategoryTemporal},
	{"DECIMAL", interfaces.CategoryNumeric},
	{"NUMERIC", interfaces.CategoryNumeric},
	{"FLOAT", interfaces.CategoryNumeric},
	{"DOUBLE", interfaces.CategoryNumeric},
	{"ENUM", interfaces.CategoryEnum},
	{"LIST", interfaces.CategoryComplex},
	{"ARRAY", interfaces.CategoryComplex},
	{"STRUCT", interfaces.CategoryComplex},
	{"ROW", interfaces.CategoryComplex},
	{"MAP", interfaces.CategoryComplex},
	{"UNION", interfaces.CategoryComplex},
	{"JSON", interfaces.CategoryComplex},
	{"VARCHAR", interfaces.CategoryText},
	{"CHAR", interfaces.CategoryText},
	{"TIME", interfaces.CategoryTemporal},
}

// Categorize maps a backend SQL type string to its display category.
// Pure and total: classification is case-insensitive, exact matches win
// over family prefixes, and anything unrecognized is CategoryUnknown.
func Categorize(sqlType string) interfaces.Category {
	t := strings.ToUpper(strings.TrimSpace(sqlType))
	if t == "" {
		return interfaces.CategoryUnknown
	}

	// Parameterized types classify by their base name: DECIMAL(18,3)
	// behaves as DECIMAL, ENUM('a','b') as ENUM.
	if cat, ok := exactCategories[t]; ok {
		return cat
	}
	if base, _, found := strings.Cut(t, "("); found {
		if cat, ok := exactCategories[strings.TrimSpace(base)]; ok {
			return cat
		}
	}

	for _, fam := range familyCategories {
		if strings.HasPrefix(t, fam.prefix) {
			return fam.category
		}
	}

	return interfaces.CategoryUnknown
}

// NewColumnSchema builds a schema entry with its derived category.
func NewColumnSchema(key, sqlType string) interfaces.ColumnSchema {
	return interfaces.ColumnSchema{
		Key:      key,
		SQLType:  sqlType,
		Category: Categorize(sqlType),
	}
}

// wideIntTypes are integer types wider than float64 can bridge without
// precision loss. They are transported as text and re-parsed client side.
var wideIntTypes = map[string]bool{
	"BIGINT":   true,
	"HUGEINT":  true,
	"UBIGINT":  true,
	"UHUGEINT": true,
	"INT8":     true,
	"LONG":     true,
}

// IsWideInteger reports whether the SQL type is a 64-bit-or-wider
// integer family member.
func IsWideInteger(sqlType string) bool {
	t := strings.ToUpper(strings.TrimSpace(sqlType))
	return wideIntTypes[t]
}

// CastFor selects the transport cast for a column, returning the SQL
// cast target or "" when the value travels as-is. Wide integers keep
// their precision as text; TIME and INTERVAL have no portable binary
// bridge; complex values get a deterministic textual shape for
// client-side parsing.
func CastFor(col interfaces.ColumnSchema) string {
	if IsWideInteger(col.SQLType) {
		return "TEXT"
	}
	switch strings.ToUpper(strings.TrimSpace(col.SQLType)) {
	case "INTERVAL", "TIME":
		return "TEXT"
	}
	if col.Category == interfaces.CategoryComplex {
		return "TEXT"
	}
	return ""
}
