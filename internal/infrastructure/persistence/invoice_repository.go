package persistence

import (
	"context"
	"errors"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: tx}
}

// FindByIDForCompany finds an invoice within a company, including archived ones
func (r *GormInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uint64) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Unscoped().
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several invoices of one company, archived ones included
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, companyID uint64, ids []uint64) ([]invoice.Invoice, error) {
	if len(ids) == 0 {
		return []invoice.Invoice{}, nil
	}

	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).Unscoped().
		Where("company_id = ? AND id IN ?", companyID, ids).
		Order("id ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]invoice.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	if err := r.db.WithContext(ctx).Unscoped().Save(model).Error; err != nil {
		return err
	}
	*inv = *model.ToDomain()
	return nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoice.InvoiceRepository = (*GormInvoiceRepository)(nil)
