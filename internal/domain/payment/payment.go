// Package payment contains the payment aggregate and the rules for applying
// payments to invoices and reversing them.
package payment

import (
	"time"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ResourceName is used for permission checks
const ResourceName = "payment"

// Paymentable links a payment to an invoice it was applied to
type Paymentable struct {
	ID        uint64
	PaymentID uint64
	InvoiceID uint64
	Amount    decimal.Decimal
	Refunded  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Net is the part of the applied amount that has not been refunded
func (p Paymentable) Net() decimal.Decimal {
	return p.Amount.Sub(p.Refunded)
}

// Payment is a received payment and the invoices it settles
type Payment struct {
	shared.BaseEntity
	shared.SoftDelete
	CompanyID            uint64
	UserID               uint64
	AssignedUserID       *uint64
	ClientID             *uint64
	Status               Status
	Number               string
	Amount               decimal.Decimal
	Applied              decimal.Decimal
	Refunded             decimal.Decimal
	PaymentDate          *time.Time
	TransactionReference string
	PrivateNotes         string
	Paymentables         []Paymentable
}

// NewTemplate returns a blank, unsaved payment owned by the given company and user
func NewTemplate(companyID, userID uint64) *Payment {
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		UserID:     userID,
		Status:     StatusCompleted,
		Amount:     decimal.Zero,
		Applied:    decimal.Zero,
		Refunded:   decimal.Zero,
	}
}

// OwnerCompanyID implements shared.Owned
func (p *Payment) OwnerCompanyID() uint64 { return p.CompanyID }

// OwnerUserID implements shared.Owned
func (p *Payment) OwnerUserID() uint64 { return p.UserID }

// AssigneeUserID implements shared.Owned
func (p *Payment) AssigneeUserID() *uint64 { return p.AssignedUserID }

// Unapplied returns the amount not yet applied to any invoice
func (p *Payment) Unapplied() decimal.Decimal {
	return p.Amount.Sub(p.Applied)
}

// Details are the editable fields of a payment
type Details struct {
	Amount               *decimal.Decimal
	PaymentDate          *time.Time
	TransactionReference *string
	Number               *string
	PrivateNotes         *string
	ClientID             *uint64
	AssignedUserID       *uint64
}

// Fill applies the non-nil details. The amount may not drop below what is applied.
func (p *Payment) Fill(d Details) error {
	if p.IsDeleted {
		return shared.ErrDisallowed
	}
	if d.Amount != nil {
		if d.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
		}
		if d.Amount.LessThan(p.Applied) {
			return shared.NewDomainError("AMOUNT_BELOW_APPLIED", "Payment amount cannot be less than the amount already applied")
		}
		p.Amount = *d.Amount
	}
	if d.PaymentDate != nil {
		date := *d.PaymentDate
		p.PaymentDate = &date
	}
	if d.TransactionReference != nil {
		p.TransactionReference = *d.TransactionReference
	}
	if d.Number != nil {
		p.Number = *d.Number
	}
	if d.PrivateNotes != nil {
		p.PrivateNotes = *d.PrivateNotes
	}
	if d.ClientID != nil {
		id := *d.ClientID
		p.ClientID = &id
	}
	if d.AssignedUserID != nil {
		id := *d.AssignedUserID
		p.AssignedUserID = &id
	}
	return nil
}

// ApplyToInvoice settles amount of the invoice with this payment
func (p *Payment) ApplyToInvoice(inv *invoice.Invoice, amount decimal.Decimal) error {
	if p.IsDeleted {
		return shared.ErrDisallowed
	}
	if inv.CompanyID != p.CompanyID {
		return shared.ErrNotFound
	}
	if amount.GreaterThan(p.Unapplied()) {
		return shared.NewDomainError("EXCEEDS_PAYMENT", "Applied amounts exceed the payment amount")
	}
	if err := inv.ApplyPayment(amount); err != nil {
		return err
	}

	now := time.Now()
	p.Applied = p.Applied.Add(amount)
	p.Paymentables = append(p.Paymentables, Paymentable{
		PaymentID: p.ID,
		InvoiceID: inv.ID,
		Amount:    amount,
		Refunded:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	})
	p.UpdatedAt = now
	return nil
}

// InvoiceIDs returns the distinct invoices this payment was applied to
func (p *Payment) InvoiceIDs() []uint64 {
	seen := make(map[uint64]struct{}, len(p.Paymentables))
	ids := make([]uint64, 0, len(p.Paymentables))
	for _, pb := range p.Paymentables {
		if _, ok := seen[pb.InvoiceID]; ok {
			continue
		}
		seen[pb.InvoiceID] = struct{}{}
		ids = append(ids, pb.InvoiceID)
	}
	return ids
}

// Reverse undoes the effect of this payment on the given invoices.
// Every linked invoice must be supplied. The paymentable rows are kept as history.
func (p *Payment) Reverse(invoices map[uint64]*invoice.Invoice) error {
	if p.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Payment has already been deleted")
	}
	for _, pb := range p.Paymentables {
		if _, ok := invoices[pb.InvoiceID]; !ok {
			return shared.NewDomainError("INVOICE_MISSING", "Linked invoice could not be loaded for reversal")
		}
	}
	for _, pb := range p.Paymentables {
		if err := invoices[pb.InvoiceID].ReversePayment(pb.Net()); err != nil {
			return err
		}
	}
	p.Applied = decimal.Zero
	p.UpdatedAt = time.Now()
	return nil
}

// Archive trashes the payment without touching invoices
func (p *Payment) Archive(now time.Time) {
	p.SoftDelete.Archive(now)
	p.UpdatedAt = now
}

// Restore brings an archived payment back. Deleted payments cannot be restored.
func (p *Payment) Restore(now time.Time) error {
	if p.IsDeleted {
		return shared.ErrDisallowed
	}
	p.SoftDelete.Restore()
	p.UpdatedAt = now
	return nil
}

// MarkDeleted flags the payment as deleted; Reverse must have run first
func (p *Payment) MarkDeleted(now time.Time) {
	p.SoftDelete.MarkDeleted(now)
	p.UpdatedAt = now
}
