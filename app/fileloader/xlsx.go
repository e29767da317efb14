package fileloader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX parses the first sheet of a workbook into a table.
func readXLSX(data []byte, opts Options) (*Table, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	raw, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return &Table{}, nil
	}

	var header []string
	var rows [][]string
	if opts.NoHeaderRow {
		header = syntheticHeader(maxRowWidth(raw))
		rows = raw
	} else {
		header = normalizeHeader(raw[0])
		rows = raw[1:]
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

func maxRowWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
