package fileloader

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// readJSON parses a JSON document into a table. The record array is
// located by the jsonpath in opts (document root when empty); records
// are objects whose key union becomes the header.
func readJSON(data []byte, opts Options) (*Table, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	records := doc
	if opts.JSONPath != "" {
		path, err := jp.ParseString(opts.JSONPath)
		if err != nil {
			return nil, fmt.Errorf("parse jsonpath %q: %w", opts.JSONPath, err)
		}
		matches := path.Get(doc)
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("jsonpath %q matched nothing", opts.JSONPath)
		case 1:
			records = matches[0]
		default:
			// Path matched the records themselves.
			arr := make([]any, len(matches))
			copy(arr, matches)
			records = arr
		}
	}

	arr, ok := records.([]any)
	if !ok {
		return nil, fmt.Errorf("json records are %T, expected an array", records)
	}

	keySet := make(map[string]bool)
	var header []string
	for _, rec := range arr {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		for k := range obj {
			if !keySet[k] {
				keySet[k] = true
				header = append(header, k)
			}
		}
	}
	sort.Strings(header)

	rows := make([][]string, 0, len(arr))
	for _, rec := range arr {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = stringifyJSON(obj[k])
		}
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// stringifyJSON renders a JSON value as a cell: scalars bare, nested
// structures re-serialized.
func stringifyJSON(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return oj.JSON(val)
	}
}
