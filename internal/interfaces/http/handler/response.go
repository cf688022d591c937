package handler

import "github.com/invoicing/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// PaymentResponse documents the payment representation. Keys are always
// present and in this order; ids are hashed.
// @Description Payment
type PaymentResponse struct {
	ID                   string                `json:"id" example:"Wpmbk5ezJn"`
	UserID               string                `json:"user_id" example:"Wpmbk5ezJn"`
	AssignedUserID       string                `json:"assigned_user_id" example:""`
	ClientID             string                `json:"client_id" example:"VolejRejNm"`
	StatusID             int                   `json:"status_id" example:"4"`
	Number               string                `json:"number" example:"0001"`
	Amount               float64               `json:"amount" example:"100"`
	Applied              float64               `json:"applied" example:"60"`
	Refunded             float64               `json:"refunded" example:"0"`
	Date                 string                `json:"date" example:"2026-02-01"`
	TransactionReference string                `json:"transaction_reference" example:"REF-1"`
	PrivateNotes         string                `json:"private_notes" example:""`
	IsDeleted            bool                  `json:"is_deleted" example:"false"`
	UpdatedAt            int64                 `json:"updated_at" example:"1767225600"`
	ArchivedAt           int64                 `json:"archived_at" example:"0"`
	CreatedAt            int64                 `json:"created_at" example:"1767225600"`
	Paymentables         []PaymentableResponse `json:"paymentables,omitempty"`
	Documents            []DocumentResponse    `json:"documents,omitempty"`
}

// PaymentableResponse documents one invoice application of a payment
// @Description Paymentable
type PaymentableResponse struct {
	ID        string  `json:"id"`
	InvoiceID string  `json:"invoice_id"`
	Amount    float64 `json:"amount"`
	Refunded  float64 `json:"refunded"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

// DocumentResponse documents the document representation
// @Description Document
type DocumentResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	AssignedUserID string `json:"assigned_user_id"`
	ProjectID      string `json:"project_id"`
	VendorID       string `json:"vendor_id"`
	Path           string `json:"path"`
	Preview        string `json:"preview"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Disk           string `json:"disk"`
	Hash           string `json:"hash"`
	Size           int64  `json:"size"`
	Width          int64  `json:"width"`
	Height         int64  `json:"height"`
	IsDefault      bool   `json:"is_default"`
	UpdatedAt      int64  `json:"updated_at"`
	ArchivedAt     int64  `json:"archived_at"`
}
