package models

import (
	"time"

	"github.com/invoicing/backend/internal/domain/invitation"
	"gorm.io/gorm"
)

// InvitationModel is the persistence model shared by the invoice, quote and
// credit invitation tables. The table is chosen per query with InvitationTable.
type InvitationModel struct {
	BaseModel
	CompanyID       uint64         `gorm:"not null;index"`
	UserID          uint64         `gorm:"not null"`
	ClientContactID uint64         `gorm:"not null;index"`
	EntityID        uint64         `gorm:"not null;index"`
	Key             string         `gorm:"type:varchar(100);not null;index"`
	MessageID       string         `gorm:"type:varchar(255);index"`
	EmailStatus     string         `gorm:"type:varchar(50)"`
	EmailError      *string        `gorm:"type:text"`
	SentDate        *time.Time
	ViewedDate      *time.Time
	OpenedDate      *time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`

	User    *UserModel          `gorm:"foreignKey:UserID"`
	Contact *ClientContactModel `gorm:"foreignKey:ClientContactID"`
}

// InvitationTable returns the table holding invitations of the given entity type
func InvitationTable(entity invitation.EntityType) string {
	return string(entity) + "_invitations"
}

// ToDomain converts the persistence model to a domain Invitation.
func (m *InvitationModel) ToDomain(entity invitation.EntityType) *invitation.Invitation {
	inv := &invitation.Invitation{
		BaseEntity:      m.BaseModel.ToDomain(),
		Entity:          entity,
		CompanyID:       m.CompanyID,
		UserID:          m.UserID,
		ClientContactID: m.ClientContactID,
		EntityID:        m.EntityID,
		Key:             m.Key,
		MessageID:       m.MessageID,
		EmailStatus:     m.EmailStatus,
		EmailError:      m.EmailError,
		SentDate:        m.SentDate,
		ViewedDate:      m.ViewedDate,
		OpenedDate:      m.OpenedDate,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		inv.ArchivedAt = &t
	}
	if m.User != nil {
		inv.User = m.User.ToPerson()
	}
	if m.Contact != nil {
		inv.Contact = m.Contact.ToPerson()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invitation.
// Loaded relations are not written back.
func (m *InvitationModel) FromDomain(inv *invitation.Invitation) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.CompanyID = inv.CompanyID
	m.UserID = inv.UserID
	m.ClientContactID = inv.ClientContactID
	m.EntityID = inv.EntityID
	m.Key = inv.Key
	m.MessageID = inv.MessageID
	m.EmailStatus = inv.EmailStatus
	m.EmailError = inv.EmailError
	m.SentDate = inv.SentDate
	m.ViewedDate = inv.ViewedDate
	m.OpenedDate = inv.OpenedDate
	if inv.ArchivedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *inv.ArchivedAt, Valid: true}
	}
}

// InvitationModelFromDomain creates a new persistence model from a domain Invitation.
func InvitationModelFromDomain(inv *invitation.Invitation) *InvitationModel {
	m := &InvitationModel{}
	m.FromDomain(inv)
	return m
}

// UserModel is the slice of the users table loaded alongside invitations.
type UserModel struct {
	BaseModel
	CompanyID uint64 `gorm:"not null;index"`
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToPerson converts the user row to the invitation's Person view
func (m *UserModel) ToPerson() *invitation.Person {
	return &invitation.Person{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email}
}

// ClientContactModel is the slice of the client_contacts table loaded alongside invitations.
type ClientContactModel struct {
	BaseModel
	CompanyID uint64 `gorm:"not null;index"`
	ClientID  uint64 `gorm:"not null;index"`
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ClientContactModel) TableName() string {
	return "client_contacts"
}

// ToPerson converts the contact row to the invitation's Person view
func (m *ClientContactModel) ToPerson() *invitation.Person {
	return &invitation.Person{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email}
}
