package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pricebook/domain/pricebook"
	"pricebook/internal"
)

// Writer stores the normalized records as an indented UTF-8 JSON file
type Writer struct {
	perm   os.FileMode
	logger *internal.Logger
}

// NewWriter creates a writer producing files with mode 0644
func NewWriter(logger *internal.Logger) *Writer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Writer{perm: 0o644, logger: logger}
}

// WriteDocument encodes records fully in memory, then creates or overwrites path.
// An encoding failure leaves any existing file untouched.
func (w *Writer) WriteDocument(ctx context.Context, path string, records []pricebook.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("output path is empty")
	}

	data, err := pricebook.MarshalDocument(records)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	start := time.Now()
	if err := os.WriteFile(path, data, w.perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.logger.Debug("[JSONWriter] Wrote %d records (%d bytes) to %s in %.2fms",
		len(records), len(data), path, float64(time.Since(start).Nanoseconds())/1e6)
	return nil
}

// ReadDocument loads a document previously written by WriteDocument
func ReadDocument(path string) ([]pricebook.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()
	return pricebook.DecodeDocument(f)
}
