package document

import (
	"context"

	"github.com/invoicing/backend/internal/domain/shared"
)

// DocumentFilter defines filtering options for document queries
type DocumentFilter struct {
	shared.Filter
	DocumentableType *DocumentableType
	DocumentableID   *uint64
}

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// FindByIDForCompany finds a document within a company, archived rows included
	FindByIDForCompany(ctx context.Context, companyID, id uint64) (*Document, error)

	// FindByIDsForCompany finds documents by IDs; unknown IDs are absent from the result
	FindByIDsForCompany(ctx context.Context, companyID uint64, ids []uint64) ([]Document, error)

	// FindAllForCompany finds documents matching the filter
	FindAllForCompany(ctx context.Context, companyID uint64, filter DocumentFilter) ([]Document, error)

	// CountForCompany counts documents matching the filter
	CountForCompany(ctx context.Context, companyID uint64, filter DocumentFilter) (int64, error)

	// FindByDocumentables loads the live documents attached to the given records
	FindByDocumentables(ctx context.Context, companyID uint64, typ DocumentableType, ids []uint64) ([]Document, error)

	// Save creates or updates a document
	Save(ctx context.Context, d *Document) error
}
