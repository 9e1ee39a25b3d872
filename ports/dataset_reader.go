package ports

import (
	"context"

	"pricebook/domain/pricebook"
)

// DatasetReaderPort loads a single worksheet into memory
type DatasetReaderPort interface {
	// ReadDataset reads the named sheet of the file at path; an empty sheet name means the first sheet
	ReadDataset(ctx context.Context, path, sheet string) (*pricebook.Dataset, error)
}
