package excel

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileType identifies the input container format
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

// DetectFileType derives the file type from the path extension
func DetectFileType(path string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FileTypeXLSX, nil
	case ".csv":
		return FileTypeCSV, nil
	default:
		return "", fmt.Errorf("unsupported file type: %q", filepath.Ext(path))
	}
}

// timestampLayout is how date cells are rendered as text
const timestampLayout = "2006-01-02 15:04:05"
