package schema

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ohler55/ojg/oj"

	"gridline/app/interfaces"
)

// ParseValue converts a transported value back to its display form per
// the column's category. Parsing never fails the caller: wide-integer
// and temporal values that do not parse degrade to a RawValue annotated
// with the failure; complex values that do not parse keep their raw text.
func ParseValue(raw any, col interfaces.ColumnSchema) any {
	if raw == nil {
		return nil
	}

	switch col.Category {
	case interfaces.CategoryNumeric:
		if IsWideInteger(col.SQLType) {
			return parseWideInt(raw)
		}
		return raw

	case interfaces.CategoryTemporal:
		return parseTemporal(raw, col)

	case interfaces.CategoryComplex:
		return parseComplex(raw)

	default:
		return raw
	}
}

// ParseRecord runs every column of a raw result row through ParseValue
// and copies the positional index field as an int64.
func ParseRecord(raw map[string]any, cols []interfaces.ColumnSchema) interfaces.RowRecord {
	rec := make(interfaces.RowRecord, len(cols)+1)
	for _, col := range cols {
		rec[col.Key] = ParseValue(raw[col.Key], col)
	}
	if oid, ok := toInt64(raw[interfaces.OIDField]); ok {
		rec[interfaces.OIDField] = oid
	}
	return rec
}

// parseWideInt parses a text-transported wide integer into a display
// string paired with an exact big integer sort value.
func parseWideInt(raw any) any {
	s := strings.TrimSpace(asString(raw))
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return interfaces.RawValue{Raw: asString(raw), ParseErr: "not a decimal integer"}
	}
	return interfaces.BigValue{Display: s, SortValue: n}
}

// parseTemporal canonicalizes DATE and TIMESTAMP family values into an
// Instant. TIME and INTERVAL pass through as their wire text.
func parseTemporal(raw any, col interfaces.ColumnSchema) any {
	t := strings.ToUpper(strings.TrimSpace(col.SQLType))
	if t == "TIME" || t == "INTERVAL" || strings.HasPrefix(t, "TIME ") {
		return asString(raw)
	}

	s := asString(raw)
	if ms, ok := ParseInstantMillis(s); ok {
		return interfaces.Instant{Millis: ms, Raw: s}
	}
	return interfaces.RawValue{Raw: s, ParseErr: "unrecognized temporal format"}
}

// parseComplex attempts a structured parse of a text-cast complex value.
// On failure the raw text is preserved untouched.
func parseComplex(raw any) any {
	s := asString(raw)
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	// Only JSON-shaped text is worth handing to the parser; engine
	// struct/list renderings that are not valid JSON fall through.
	if c := trimmed[0]; c != '{' && c != '[' && c != '"' {
		return s
	}
	parsed, err := oj.ParseString(trimmed)
	if err != nil {
		return s
	}
	return parsed
}

func asString(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", raw)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		var out int64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &out); err == nil {
			return out, true
		}
	}
	return 0, false
}
