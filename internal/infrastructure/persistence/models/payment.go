package models

import (
	"time"

	"github.com/invoicing/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate.
type PaymentModel struct {
	BaseModel
	SoftDeleteModel
	CompanyID            uint64             `gorm:"not null;index:idx_payment_company"`
	UserID               uint64             `gorm:"not null;index"`
	AssignedUserID       *uint64            `gorm:"index"`
	ClientID             *uint64            `gorm:"index"`
	StatusID             payment.Status     `gorm:"column:status_id;not null;default:4"`
	Number               string             `gorm:"type:varchar(100)"`
	Amount               decimal.Decimal    `gorm:"type:decimal(20,6);not null;default:0"`
	Applied              decimal.Decimal    `gorm:"type:decimal(20,6);not null;default:0"`
	Refunded             decimal.Decimal    `gorm:"type:decimal(20,6);not null;default:0"`
	PaymentDate          *time.Time         `gorm:"column:payment_date"`
	TransactionReference string             `gorm:"type:varchar(255)"`
	PrivateNotes         string             `gorm:"type:text"`
	Paymentables         []PaymentableModel `gorm:"foreignKey:PaymentID"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *payment.Payment {
	p := &payment.Payment{
		BaseEntity:           m.BaseModel.ToDomain(),
		SoftDelete:           m.SoftDeleteModel.ToDomain(),
		CompanyID:            m.CompanyID,
		UserID:               m.UserID,
		AssignedUserID:       m.AssignedUserID,
		ClientID:             m.ClientID,
		Status:               m.StatusID,
		Number:               m.Number,
		Amount:               m.Amount,
		Applied:              m.Applied,
		Refunded:             m.Refunded,
		PaymentDate:          m.PaymentDate,
		TransactionReference: m.TransactionReference,
		PrivateNotes:         m.PrivateNotes,
		Paymentables:         make([]payment.Paymentable, len(m.Paymentables)),
	}
	for i := range m.Paymentables {
		p.Paymentables[i] = m.Paymentables[i].ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.FromDomainSoftDelete(p.SoftDelete)
	m.CompanyID = p.CompanyID
	m.UserID = p.UserID
	m.AssignedUserID = p.AssignedUserID
	m.ClientID = p.ClientID
	m.StatusID = p.Status
	m.Number = p.Number
	m.Amount = p.Amount
	m.Applied = p.Applied
	m.Refunded = p.Refunded
	m.PaymentDate = p.PaymentDate
	m.TransactionReference = p.TransactionReference
	m.PrivateNotes = p.PrivateNotes
	m.Paymentables = make([]PaymentableModel, len(p.Paymentables))
	for i := range p.Paymentables {
		m.Paymentables[i].FromDomain(p.Paymentables[i])
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentableModel links a payment to an invoice.
type PaymentableModel struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	PaymentID uint64          `gorm:"not null;index"`
	InvoiceID uint64          `gorm:"not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Refunded  decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentableModel) TableName() string {
	return "paymentables"
}

// ToDomain converts the persistence model to a domain Paymentable.
func (m *PaymentableModel) ToDomain() payment.Paymentable {
	return payment.Paymentable{
		ID:        m.ID,
		PaymentID: m.PaymentID,
		InvoiceID: m.InvoiceID,
		Amount:    m.Amount,
		Refunded:  m.Refunded,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Paymentable.
func (m *PaymentableModel) FromDomain(p payment.Paymentable) {
	m.ID = p.ID
	m.PaymentID = p.PaymentID
	m.InvoiceID = p.InvoiceID
	m.Amount = p.Amount
	m.Refunded = p.Refunded
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

