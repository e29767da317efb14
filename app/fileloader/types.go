// Package fileloader ingests csv, xlsx and json files into datasets the
// in-memory coordinator serves. Compressed inputs are detected by
// extension and by magic bytes.
package fileloader

// FileType represents different file types
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeXLSX
	FileTypeJSON
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Table is a loaded file: a header row plus raw string rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Options controls loading behavior.
type Options struct {
	// JSONPath selects the record array inside a JSON document; empty
	// means the document root.
	JSONPath string

	// NoHeaderRow treats the first data row as data and synthesizes
	// column names.
	NoHeaderRow bool
}
