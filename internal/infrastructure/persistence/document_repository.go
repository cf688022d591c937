package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/invoicing/backend/internal/domain/document"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByIDForCompany finds a document within a company, archived rows included
func (r *GormDocumentRepository) FindByIDForCompany(ctx context.Context, companyID, id uint64) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).Unscoped().
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForCompany finds documents by IDs within a company, archived rows included
func (r *GormDocumentRepository) FindByIDsForCompany(ctx context.Context, companyID uint64, ids []uint64) ([]document.Document, error) {
	if len(ids) == 0 {
		return []document.Document{}, nil
	}

	var documentModels []models.DocumentModel
	if err := r.db.WithContext(ctx).Unscoped().
		Where("company_id = ? AND id IN ?", companyID, ids).
		Order("id ASC").
		Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return toDocuments(documentModels), nil
}

// FindAllForCompany finds documents matching the filter
func (r *GormDocumentRepository) FindAllForCompany(ctx context.Context, companyID uint64, filter document.DocumentFilter) ([]document.Document, error) {
	var documentModels []models.DocumentModel
	query := r.applyFilter(r.baseQuery(ctx, companyID, filter), filter)
	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return toDocuments(documentModels), nil
}

// CountForCompany counts documents matching the filter
func (r *GormDocumentRepository) CountForCompany(ctx context.Context, companyID uint64, filter document.DocumentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.baseQuery(ctx, companyID, filter), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByDocumentables loads the live documents attached to the given records
func (r *GormDocumentRepository) FindByDocumentables(ctx context.Context, companyID uint64, typ document.DocumentableType, ids []uint64) ([]document.Document, error) {
	if len(ids) == 0 {
		return []document.Document{}, nil
	}

	var documentModels []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND documentable_type = ? AND documentable_id IN ?", companyID, typ, ids).
		Where("is_deleted = ?", false).
		Order("is_default DESC, id ASC").
		Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return toDocuments(documentModels), nil
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, d *document.Document) error {
	model := models.DocumentModelFromDomain(d)
	if err := r.db.WithContext(ctx).Unscoped().Save(model).Error; err != nil {
		return err
	}
	*d = *model.ToDomain()
	return nil
}

func (r *GormDocumentRepository) baseQuery(ctx context.Context, companyID uint64, filter document.DocumentFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{})
	if filter.WithTrashed {
		query = query.Unscoped()
	}
	return query.Where("company_id = ?", companyID)
}

// applyFilter applies filter options to the query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter document.DocumentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, DocumentSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder).Order("id " + sortOrder)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter document.DocumentFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.DocumentableType != nil {
		query = query.Where("documentable_type = ?", *filter.DocumentableType)
	}
	if filter.DocumentableID != nil {
		query = query.Where("documentable_id = ?", *filter.DocumentableID)
	}
	return query
}

func toDocuments(documentModels []models.DocumentModel) []document.Document {
	documents := make([]document.Document, len(documentModels))
	for i := range documentModels {
		documents[i] = *documentModels[i].ToDomain()
	}
	return documents
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ document.DocumentRepository = (*GormDocumentRepository)(nil)
