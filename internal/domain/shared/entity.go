package shared

import (
	"time"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uint64
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities.
// IDs are assigned by the database on first save.
type BaseEntity struct {
	ID        uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uint64 {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// IsNew reports whether the entity has not been persisted yet
func (e *BaseEntity) IsNew() bool {
	return e.ID == 0
}

// NewBaseEntity creates an unsaved base entity stamped with the current time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SoftDelete carries the two independent removal markers of a record.
// ArchivedAt is the trash timestamp; IsDeleted is the logical delete flag.
// A deleted record is always archived as well.
type SoftDelete struct {
	IsDeleted  bool
	ArchivedAt *time.Time
}

// IsArchived reports whether the record has been trashed
func (s *SoftDelete) IsArchived() bool {
	return s.ArchivedAt != nil
}

// Archive trashes the record. Archiving twice keeps the first timestamp.
func (s *SoftDelete) Archive(now time.Time) {
	if s.ArchivedAt != nil {
		return
	}
	t := now
	s.ArchivedAt = &t
}

// MarkDeleted sets the delete flag and archives the record
func (s *SoftDelete) MarkDeleted(now time.Time) {
	s.IsDeleted = true
	s.Archive(now)
}

// Restore clears both markers
func (s *SoftDelete) Restore() {
	s.IsDeleted = false
	s.ArchivedAt = nil
}
