package payment

import (
	"context"

	"github.com/invoicing/backend/internal/domain/shared"
)

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	Statuses  []Status
	ClientID  *uint64
	IsDeleted *bool
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByIDForCompany finds a payment by ID within a company, archived rows included
	FindByIDForCompany(ctx context.Context, companyID, id uint64) (*Payment, error)

	// FindByIDForUpdate finds a payment like FindByIDForCompany and locks it for
	// the rest of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, companyID, id uint64) (*Payment, error)

	// FindByIDsForCompany finds payments by IDs within a company, archived rows included.
	// Unknown IDs are silently absent from the result.
	FindByIDsForCompany(ctx context.Context, companyID uint64, ids []uint64) ([]Payment, error)

	// FindAllForCompany finds payments matching the filter
	FindAllForCompany(ctx context.Context, companyID uint64, filter PaymentFilter) ([]Payment, error)

	// CountForCompany counts payments matching the filter
	CountForCompany(ctx context.Context, companyID uint64, filter PaymentFilter) (int64, error)

	// Save creates or updates a payment together with its paymentables
	Save(ctx context.Context, p *Payment) error

	// Update writes the payment's own columns without touching its paymentables
	// or its deletion flag. It fails with shared.ErrDisallowed when the stored
	// deletion flag no longer matches p.
	Update(ctx context.Context, p *Payment) error
}
