package fileloader

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression format of a file
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

// String returns the string representation of CompressionType
func (ct CompressionType) String() string {
	switch ct {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

// Magic byte signatures for compression detection
var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// DetectCompressionByMagic reads the first few bytes of a file and
// detects its compression type.
func DetectCompressionByMagic(filePath string) (CompressionType, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return CompressionNone, err
	}
	defer f.Close()

	// XZ has the longest magic (6 bytes)
	header := make([]byte, 6)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return CompressionNone, err
	}

	if n >= 2 && bytes.HasPrefix(header, gzipMagic) {
		return CompressionGzip, nil
	}
	if n >= 3 && bytes.HasPrefix(header, bzip2Magic) {
		return CompressionBzip2, nil
	}
	if n >= 6 && bytes.HasPrefix(header, xzMagic) {
		return CompressionXZ, nil
	}

	return CompressionNone, nil
}

// ReadMaybeCompressed reads a file, decompressing per the detected
// compression type.
func ReadMaybeCompressed(filePath string, compressionType CompressionType) ([]byte, error) {
	if compressionType == CompressionNone {
		return os.ReadFile(filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader
	switch compressionType {
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	case CompressionBzip2:
		reader = bzip2.NewReader(f)
	case CompressionXZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}
		reader = xzr
	default:
		return nil, fmt.Errorf("unsupported compression type %v", compressionType)
	}

	return io.ReadAll(reader)
}
