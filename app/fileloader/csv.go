package fileloader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// readCSV parses csv/tsv bytes into a table. Ragged rows pad out to the
// header width; the delimiter is sniffed from the first line.
func readCSV(data []byte, opts Options) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.Comma = sniffDelimiter(data)

	var header []string
	var rows [][]string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if header == nil {
			if opts.NoHeaderRow {
				header = syntheticHeader(len(record))
				rows = append(rows, record)
			} else {
				header = normalizeHeader(record)
			}
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return &Table{}, nil
	}

	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		}
	}
	return &Table{Header: header, Rows: rows}, nil
}

// sniffDelimiter picks tab over comma when the first line has more tabs
// than commas.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) {
		return '\t'
	}
	return ','
}

// normalizeHeader trims header cells and names empty ones column_1,
// column_2, ...
func normalizeHeader(record []string) []string {
	header := make([]string, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		header[i] = h
	}
	return header
}

func syntheticHeader(n int) []string {
	header := make([]string, n)
	for i := range header {
		header[i] = fmt.Sprintf("column_%d", i+1)
	}
	return header
}
