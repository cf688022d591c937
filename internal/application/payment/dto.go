package payment

import (
	"github.com/shopspring/decimal"
)

// ListPaymentsRequest holds the query parameters of the payment list
type ListPaymentsRequest struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PerPage     int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	Sort        string `form:"sort"`
	Filter      string `form:"filter" binding:"max=100"`
	Status      string `form:"status"`
	ClientID    string `form:"client_id"`
	IsDeleted   *bool  `form:"is_deleted"`
	WithTrashed bool   `form:"with_trashed"`
	Include     string `form:"include"`
}

// InvoiceAllocation applies part of a payment to one invoice
type InvoiceAllocation struct {
	InvoiceID string           `json:"invoice_id" binding:"required"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
}

// StorePaymentRequest is the body of a new payment
type StorePaymentRequest struct {
	Amount               *decimal.Decimal    `json:"amount" binding:"required"`
	PaymentDate          string              `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	TransactionReference string              `json:"transaction_reference" binding:"max=255"`
	Number               string              `json:"number" binding:"max=100"`
	PrivateNotes         string              `json:"private_notes" binding:"max=5000"`
	ClientID             string              `json:"client_id"`
	AssignedUserID       string              `json:"assigned_user_id"`
	Invoices             []InvoiceAllocation `json:"invoices" binding:"omitempty,max=100,dive"`
}

// UpdatePaymentRequest is the body of a payment update. Absent fields are left as they are.
type UpdatePaymentRequest struct {
	Amount               *decimal.Decimal `json:"amount"`
	PaymentDate          *string          `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	TransactionReference *string          `json:"transaction_reference" binding:"omitempty,max=255"`
	Number               *string          `json:"number" binding:"omitempty,max=100"`
	PrivateNotes         *string          `json:"private_notes" binding:"omitempty,max=5000"`
	AssignedUserID       *string          `json:"assigned_user_id"`
}

// BulkRequest applies one action to many payments
type BulkRequest struct {
	Action string   `json:"action" binding:"required"`
	IDs    []string `json:"ids" binding:"required,min=1,max=500"`
}
