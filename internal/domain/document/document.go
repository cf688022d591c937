// Package document models files attached to other records.
package document

import (
	"strings"
	"time"

	"github.com/invoicing/backend/internal/domain/shared"
)

// ResourceName is used for permission checks
const ResourceName = "document"

// Disk names where document bytes may live
const (
	DiskLocal = "local"
	DiskS3    = "s3"
)

// DocumentableType names the kind of record a document is attached to
type DocumentableType string

const (
	DocumentablePayment DocumentableType = "payment"
	DocumentableInvoice DocumentableType = "invoice"
	DocumentableProject DocumentableType = "project"
	DocumentableVendor  DocumentableType = "vendor"
	DocumentableExpense DocumentableType = "expense"
)

// IsValid checks if the documentable type is supported
func (t DocumentableType) IsValid() bool {
	switch t {
	case DocumentablePayment, DocumentableInvoice, DocumentableProject, DocumentableVendor, DocumentableExpense:
		return true
	}
	return false
}

// Document is an uploaded file and its metadata
type Document struct {
	shared.BaseEntity
	shared.SoftDelete
	CompanyID        uint64
	UserID           *uint64
	AssignedUserID   *uint64
	ProjectID        *uint64
	VendorID         *uint64
	DocumentableType DocumentableType
	DocumentableID   uint64
	Path             string
	Preview          string
	Name             string
	Type             string
	Disk             string
	Hash             string
	Size             int64
	Width            int
	Height           int
	IsDefault        bool
	IsPublic         bool
}

// NewDocument creates document metadata for a file stored on disk at path
func NewDocument(companyID uint64, userID *uint64, owner DocumentableType, ownerID uint64, name, path, disk string) (*Document, error) {
	if companyID == 0 {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if !owner.IsValid() || ownerID == 0 {
		return nil, shared.NewDomainError("INVALID_DOCUMENTABLE", "Document must be attached to a supported record")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Document name cannot be empty")
	}
	if path == "" {
		return nil, shared.NewDomainError("INVALID_PATH", "Document path cannot be empty")
	}
	if disk == "" {
		disk = DiskLocal
	}
	return &Document{
		BaseEntity:       shared.NewBaseEntity(),
		CompanyID:        companyID,
		UserID:           userID,
		DocumentableType: owner,
		DocumentableID:   ownerID,
		Name:             name,
		Path:             path,
		Disk:             disk,
		Type:             extension(name),
	}, nil
}

func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// OwnerCompanyID implements shared.Owned
func (d *Document) OwnerCompanyID() uint64 { return d.CompanyID }

// OwnerUserID implements shared.Owned
func (d *Document) OwnerUserID() uint64 {
	if d.UserID == nil {
		return 0
	}
	return *d.UserID
}

// AssigneeUserID implements shared.Owned
func (d *Document) AssigneeUserID() *uint64 { return d.AssignedUserID }

// IsImage reports whether the document has image dimensions
func (d *Document) IsImage() bool {
	return d.Width > 0 && d.Height > 0
}

// Archive trashes the document
func (d *Document) Archive(now time.Time) {
	d.SoftDelete.Archive(now)
	d.UpdatedAt = now
}

// Restore brings an archived document back. Deleted documents stay deleted.
func (d *Document) Restore(now time.Time) error {
	if d.IsDeleted {
		return shared.ErrDisallowed
	}
	d.SoftDelete.Restore()
	d.UpdatedAt = now
	return nil
}

// MarkDeleted flags the document as deleted
func (d *Document) MarkDeleted(now time.Time) {
	d.SoftDelete.MarkDeleted(now)
	d.UpdatedAt = now
}
