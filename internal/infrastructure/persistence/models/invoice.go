package models

import (
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice entity.
type InvoiceModel struct {
	BaseModel
	SoftDeleteModel
	CompanyID      uint64          `gorm:"not null;index:idx_invoice_company"`
	UserID         uint64          `gorm:"not null;index"`
	AssignedUserID *uint64         `gorm:"index"`
	ClientID       *uint64         `gorm:"index"`
	Number         string          `gorm:"type:varchar(100)"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	PaidToDate     decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	StatusID       invoice.Status  `gorm:"column:status_id;not null;default:1"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	return &invoice.Invoice{
		BaseEntity:     m.BaseModel.ToDomain(),
		SoftDelete:     m.SoftDeleteModel.ToDomain(),
		CompanyID:      m.CompanyID,
		UserID:         m.UserID,
		AssignedUserID: m.AssignedUserID,
		ClientID:       m.ClientID,
		Number:         m.Number,
		Amount:         m.Amount,
		Balance:        m.Balance,
		PaidToDate:     m.PaidToDate,
		Status:         m.StatusID,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *invoice.Invoice) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.FromDomainSoftDelete(i.SoftDelete)
	m.CompanyID = i.CompanyID
	m.UserID = i.UserID
	m.AssignedUserID = i.AssignedUserID
	m.ClientID = i.ClientID
	m.Number = i.Number
	m.Amount = i.Amount
	m.Balance = i.Balance
	m.PaidToDate = i.PaidToDate
	m.StatusID = i.Status
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}
