package fileloader

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Load reads a single file into a table, handling compression and
// dispatching on the detected file type.
func Load(filePath string, opts Options) (*Table, error) {
	fileType, compression := DetectFileTypeAndCompression(filePath)

	data, err := ReadMaybeCompressed(filePath, compression)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	switch fileType {
	case FileTypeCSV:
		return readCSV(data, opts)
	case FileTypeXLSX:
		return readXLSX(data, opts)
	case FileTypeJSON:
		return readJSON(data, opts)
	default:
		return nil, fmt.Errorf("unsupported file type for %s", filePath)
	}
}

// LoadGlob loads every file matching a doublestar pattern and appends
// their rows under the first file's header. Files whose header differs
// from the first are skipped with an error listing them.
func LoadGlob(pattern string, opts Options) (*Table, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %q matched no files", pattern)
	}
	sort.Strings(matches)

	var combined *Table
	var mismatched []string
	for _, m := range matches {
		t, err := Load(m, opts)
		if err != nil {
			return nil, err
		}
		if combined == nil {
			combined = t
			continue
		}
		if !sameHeader(combined.Header, t.Header) {
			mismatched = append(mismatched, filepath.Base(m))
			continue
		}
		combined.Rows = append(combined.Rows, t.Rows...)
	}
	if len(mismatched) > 0 {
		return combined, fmt.Errorf("skipped files with mismatched headers: %v", mismatched)
	}
	return combined, nil
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
