package ports

import (
	"context"

	"pricebook/domain/pricebook"
)

// DocumentWriterPort persists the normalized records as one document
type DocumentWriterPort interface {
	WriteDocument(ctx context.Context, path string, records []pricebook.Record) error
}
