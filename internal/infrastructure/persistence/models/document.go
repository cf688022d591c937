package models

import (
	"github.com/invoicing/backend/internal/domain/document"
)

// DocumentModel is the persistence model for the Document entity.
type DocumentModel struct {
	BaseModel
	SoftDeleteModel
	CompanyID        uint64                    `gorm:"not null;index:idx_document_company"`
	UserID           *uint64                   `gorm:"index"`
	AssignedUserID   *uint64                   `gorm:"index"`
	ProjectID        *uint64                   `gorm:"index"`
	VendorID         *uint64                   `gorm:"index"`
	DocumentableType document.DocumentableType `gorm:"type:varchar(50);not null;index:idx_documentable,priority:1"`
	DocumentableID   uint64                    `gorm:"not null;index:idx_documentable,priority:2"`
	Path             string                    `gorm:"type:varchar(500);not null"`
	Preview          string                    `gorm:"type:varchar(500)"`
	Name             string                    `gorm:"type:varchar(255);not null"`
	Type             string                    `gorm:"type:varchar(50)"`
	Disk             string                    `gorm:"type:varchar(50);not null;default:'local'"`
	Hash             string                    `gorm:"type:varchar(100)"`
	Size             int64                     `gorm:"not null;default:0"`
	Width            int                       `gorm:"not null;default:0"`
	Height           int                       `gorm:"not null;default:0"`
	IsDefault        bool                      `gorm:"not null;default:false"`
	IsPublic         bool                      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document entity.
func (m *DocumentModel) ToDomain() *document.Document {
	return &document.Document{
		BaseEntity:       m.BaseModel.ToDomain(),
		SoftDelete:       m.SoftDeleteModel.ToDomain(),
		CompanyID:        m.CompanyID,
		UserID:           m.UserID,
		AssignedUserID:   m.AssignedUserID,
		ProjectID:        m.ProjectID,
		VendorID:         m.VendorID,
		DocumentableType: m.DocumentableType,
		DocumentableID:   m.DocumentableID,
		Path:             m.Path,
		Preview:          m.Preview,
		Name:             m.Name,
		Type:             m.Type,
		Disk:             m.Disk,
		Hash:             m.Hash,
		Size:             m.Size,
		Width:            m.Width,
		Height:           m.Height,
		IsDefault:        m.IsDefault,
		IsPublic:         m.IsPublic,
	}
}

// FromDomain populates the persistence model from a domain Document entity.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.FromDomainSoftDelete(d.SoftDelete)
	m.CompanyID = d.CompanyID
	m.UserID = d.UserID
	m.AssignedUserID = d.AssignedUserID
	m.ProjectID = d.ProjectID
	m.VendorID = d.VendorID
	m.DocumentableType = d.DocumentableType
	m.DocumentableID = d.DocumentableID
	m.Path = d.Path
	m.Preview = d.Preview
	m.Name = d.Name
	m.Type = d.Type
	m.Disk = d.Disk
	m.Hash = d.Hash
	m.Size = d.Size
	m.Width = d.Width
	m.Height = d.Height
	m.IsDefault = d.IsDefault
	m.IsPublic = d.IsPublic
}

// DocumentModelFromDomain creates a new persistence model from a domain Document entity.
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}
