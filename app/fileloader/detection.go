package fileloader

import "strings"

// compressionExtensions maps compression extensions to their CompressionType
var compressionExtensions = map[string]CompressionType{
	".gz":  CompressionGzip,
	".bz2": CompressionBzip2,
	".xz":  CompressionXZ,
}

// DetectFileType determines the file type based on the file extension.
// Defaults to CSV for extensionless exports.
func DetectFileType(filePath string) FileType {
	if filePath == "" {
		return FileTypeUnknown
	}

	lower := strings.ToLower(filePath)

	if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv") {
		return FileTypeCSV
	}
	if strings.HasSuffix(lower, ".xlsx") {
		return FileTypeXLSX
	}
	if strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".jsonl") {
		return FileTypeJSON
	}

	return FileTypeCSV
}

// DetectFileTypeAndCompression determines both the file type and the
// compression type, handling double extensions like .csv.gz and falling
// back to magic bytes when the extension gives no answer.
func DetectFileTypeAndCompression(filePath string) (FileType, CompressionType) {
	if filePath == "" {
		return FileTypeUnknown, CompressionNone
	}

	lower := strings.ToLower(filePath)

	compressionType := CompressionNone
	innerPath := lower
	for ext, ct := range compressionExtensions {
		if strings.HasSuffix(lower, ext) {
			compressionType = ct
			innerPath = strings.TrimSuffix(lower, ext)
			break
		}
	}

	if compressionType == CompressionNone {
		if detected, err := DetectCompressionByMagic(filePath); err == nil {
			compressionType = detected
		}
	}

	return DetectFileType(innerPath), compressionType
}
