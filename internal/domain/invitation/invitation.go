// Package invitation models the per-contact links sent by email for invoices,
// quotes and credits, and their delivery tracking fields.
package invitation

import (
	"time"

	"github.com/invoicing/backend/internal/domain/shared"
)

// EntityType selects which invitation family a message belongs to
type EntityType string

const (
	EntityInvoice EntityType = "invoice"
	EntityQuote   EntityType = "quote"
	EntityCredit  EntityType = "credit"
)

// AllEntityTypes lists every supported invitation family
func AllEntityTypes() []EntityType {
	return []EntityType{EntityInvoice, EntityQuote, EntityCredit}
}

// ParseEntityType validates an entity selector coming from outside
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_ENTITY", "Unsupported invitation entity: "+s)
	}
	return t, nil
}

// IsValid checks if the entity type is supported
func (t EntityType) IsValid() bool {
	switch t {
	case EntityInvoice, EntityQuote, EntityCredit:
		return true
	}
	return false
}

// Person is the loaded user or contact attached to an invitation
type Person struct {
	ID        uint64
	FirstName string
	LastName  string
	Email     string
}

// Invitation is one contact's access link to an entity
type Invitation struct {
	shared.BaseEntity
	Entity          EntityType
	CompanyID       uint64
	UserID          uint64
	ClientContactID uint64
	EntityID        uint64
	Key             string
	MessageID       string
	EmailStatus     string
	EmailError      *string
	SentDate        *time.Time
	ViewedDate      *time.Time
	OpenedDate      *time.Time
	ArchivedAt      *time.Time

	User    *Person
	Contact *Person
}

// ClearEmailError records that the message reached the recipient
func (i *Invitation) ClearEmailError() {
	i.EmailError = nil
}

// RecordEmailError stores a delivery failure description
func (i *Invitation) RecordEmailError(description string) {
	d := description
	i.EmailError = &d
}
