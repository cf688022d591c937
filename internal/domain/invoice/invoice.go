// Package invoice holds the invoice aggregate as far as payments touch it:
// balances and payment-driven status.
package invoice

import (
	"time"

	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the numeric invoice status used on the wire
type Status int

const (
	StatusDraft   Status = 1
	StatusSent    Status = 2
	StatusPartial Status = 3
	StatusPaid    Status = 4
)

// IsValid checks if the status is a known invoice status
func (s Status) IsValid() bool {
	return s >= StatusDraft && s <= StatusPaid
}

// Invoice is the subset of an invoice that payment application reads and writes
type Invoice struct {
	shared.BaseEntity
	shared.SoftDelete
	CompanyID      uint64
	UserID         uint64
	AssignedUserID *uint64
	ClientID       *uint64
	Number         string
	Amount         decimal.Decimal
	Balance        decimal.Decimal
	PaidToDate     decimal.Decimal
	Status         Status
}

// NewInvoice creates a sent invoice whose balance equals its amount
func NewInvoice(companyID, userID uint64, number string, amount decimal.Decimal) (*Invoice, error) {
	if companyID == 0 {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}
	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		UserID:     userID,
		Number:     number,
		Amount:     amount,
		Balance:    amount,
		PaidToDate: decimal.Zero,
		Status:     StatusSent,
	}, nil
}

// OwnerCompanyID implements shared.Owned
func (i *Invoice) OwnerCompanyID() uint64 { return i.CompanyID }

// OwnerUserID implements shared.Owned
func (i *Invoice) OwnerUserID() uint64 { return i.UserID }

// AssigneeUserID implements shared.Owned
func (i *Invoice) AssigneeUserID() *uint64 { return i.AssignedUserID }

// ApplyPayment moves amount from the balance into paid-to-date
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if i.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply a payment to a deleted invoice")
	}
	if i.Status == StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply a payment to a draft invoice")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Applied amount must be positive")
	}
	if amount.GreaterThan(i.Balance) {
		return shared.NewDomainError("EXCEEDS_BALANCE", "Applied amount exceeds the invoice balance")
	}

	i.Balance = i.Balance.Sub(amount)
	i.PaidToDate = i.PaidToDate.Add(amount)
	i.refreshStatus()
	i.UpdatedAt = time.Now()
	return nil
}

// ReversePayment returns a previously applied amount to the balance.
// It is the compensating transition for ApplyPayment and is allowed on
// deleted invoices so that payment deletion can always complete.
func (i *Invoice) ReversePayment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversed amount cannot be negative")
	}
	if amount.IsZero() {
		return nil
	}
	if amount.GreaterThan(i.PaidToDate) {
		return shared.NewDomainError("EXCEEDS_PAID", "Reversed amount exceeds the amount paid to date")
	}

	i.Balance = i.Balance.Add(amount)
	i.PaidToDate = i.PaidToDate.Sub(amount)
	i.refreshStatus()
	i.UpdatedAt = time.Now()
	return nil
}

func (i *Invoice) refreshStatus() {
	if i.Status == StatusDraft {
		return
	}
	switch {
	case i.Balance.IsZero() && i.PaidToDate.IsPositive():
		i.Status = StatusPaid
	case i.PaidToDate.IsPositive():
		i.Status = StatusPartial
	default:
		i.Status = StatusSent
	}
}
