package persistence

import (
	"context"

	apppayment "github.com/invoicing/backend/internal/application/payment"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/payment"
	"gorm.io/gorm"
)

// GormPaymentTransactionScope implements TransactionScope using GORM transactions.
type GormPaymentTransactionScope struct {
	db *gorm.DB
}

// NewGormPaymentTransactionScope creates a new GormPaymentTransactionScope.
func NewGormPaymentTransactionScope(db *gorm.DB) *GormPaymentTransactionScope {
	return &GormPaymentTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
func (s *GormPaymentTransactionScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPaymentRepositories{tx: tx})
	})
}

type gormPaymentRepositories struct {
	tx *gorm.DB
}

func (r *gormPaymentRepositories) Payments() payment.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormPaymentRepositories) Invoices() invoice.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure GormPaymentTransactionScope implements TransactionScope
var _ apppayment.TransactionScope = (*GormPaymentTransactionScope)(nil)

var _ apppayment.TransactionalRepositories = (*gormPaymentRepositories)(nil)
