package models

import (
	"time"

	"github.com/invoicing/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// SoftDeleteModel stores the archive timestamp in deleted_at, which GORM
// filters out by default, and the independent delete flag in is_deleted.
type SoftDeleteModel struct {
	IsDeleted bool           `gorm:"not null;default:false;index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ToDomain converts SoftDeleteModel to domain SoftDelete
func (m *SoftDeleteModel) ToDomain() shared.SoftDelete {
	s := shared.SoftDelete{IsDeleted: m.IsDeleted}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		s.ArchivedAt = &t
	}
	return s
}

// FromDomainSoftDelete populates SoftDeleteModel from domain SoftDelete
func (m *SoftDeleteModel) FromDomainSoftDelete(s shared.SoftDelete) {
	m.IsDeleted = s.IsDeleted
	if s.ArchivedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *s.ArchivedAt, Valid: true}
	} else {
		m.DeletedAt = gorm.DeletedAt{}
	}
}
