package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/invoicing/backend/internal/domain/payment"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: tx}
}

// FindByIDForCompany finds a payment by ID within a company, archived rows included
func (r *GormPaymentRepository) FindByIDForCompany(ctx context.Context, companyID, id uint64) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).Unscoped().
		Preload("Paymentables", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a payment like FindByIDForCompany and locks its row
// until the surrounding transaction ends
func (r *GormPaymentRepository) FindByIDForUpdate(ctx context.Context, companyID, id uint64) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).Unscoped().
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Paymentables", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForCompany finds payments by IDs within a company, archived rows included
func (r *GormPaymentRepository) FindByIDsForCompany(ctx context.Context, companyID uint64, ids []uint64) ([]payment.Payment, error) {
	if len(ids) == 0 {
		return []payment.Payment{}, nil
	}

	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).Unscoped().
		Preload("Paymentables", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Order("id ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toPayments(paymentModels), nil
}

// FindAllForCompany finds payments matching the filter
func (r *GormPaymentRepository) FindAllForCompany(ctx context.Context, companyID uint64, filter payment.PaymentFilter) ([]payment.Payment, error) {
	var paymentModels []models.PaymentModel
	query := r.applyFilter(r.baseQuery(ctx, companyID, filter), filter)

	if err := query.Preload("Paymentables", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toPayments(paymentModels), nil
}

// CountForCompany counts payments matching the filter
func (r *GormPaymentRepository) CountForCompany(ctx context.Context, companyID uint64, filter payment.PaymentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.baseQuery(ctx, companyID, filter), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payment together with its paymentables.
// Paymentable rows are written one by one so new links get their own IDs.
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	for i := range model.Paymentables {
		link := &model.Paymentables[i]
		link.PaymentID = model.ID
		if err := db.Save(link).Error; err != nil {
			return err
		}
	}
	*p = *model.ToDomain()
	return nil
}

// Update writes the payment's own columns. Paymentables and is_deleted are left
// alone, and the write only lands while the stored is_deleted still matches p;
// otherwise shared.ErrDisallowed is returned.
func (r *GormPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	result := r.db.WithContext(ctx).Unscoped().
		Model(model).
		Where("company_id = ? AND is_deleted = ?", p.CompanyID, p.IsDeleted).
		Select("*").
		Omit("id", "created_at", "is_deleted", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrDisallowed
	}
	*p = *model.ToDomain()
	return nil
}

func (r *GormPaymentRepository) baseQuery(ctx context.Context, companyID uint64, filter payment.PaymentFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if filter.WithTrashed {
		query = query.Unscoped()
	}
	return query.Where("company_id = ?", companyID)
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter payment.PaymentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PaymentSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder).Order("id " + sortOrder)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter payment.PaymentFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(number) LIKE ? OR LOWER(transaction_reference) LIKE ?)", pattern, pattern)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status_id IN ?", filter.Statuses)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.IsDeleted != nil {
		query = query.Where("is_deleted = ?", *filter.IsDeleted)
	}
	return query
}

func toPayments(paymentModels []models.PaymentModel) []payment.Payment {
	payments := make([]payment.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ payment.PaymentRepository = (*GormPaymentRepository)(nil)
