package payment

import (
	"context"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/payment"
)

// TransactionScope provides transactional access to the payment and invoice repositories.
// Everything done through the repositories handed to fn commits or rolls back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are repositories sharing one database transaction
type TransactionalRepositories interface {
	// Payments returns the payment repository scoped to the current transaction
	Payments() payment.PaymentRepository
	// Invoices returns the invoice repository scoped to the current transaction
	Invoices() invoice.InvoiceRepository
}
