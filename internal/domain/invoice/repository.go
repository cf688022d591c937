package invoice

import "context"

// InvoiceRepository defines persistence operations used by payment workflows
type InvoiceRepository interface {
	// FindByIDForCompany finds an invoice within a company, including archived ones
	FindByIDForCompany(ctx context.Context, companyID, id uint64) (*Invoice, error)

	// FindByIDs loads several invoices of one company
	FindByIDs(ctx context.Context, companyID uint64, ids []uint64) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, inv *Invoice) error
}
