package persistence

import (
	"context"
	"errors"

	"github.com/invoicing/backend/internal/domain/invitation"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvitationRepository implements InvitationRepository over the three
// per-entity invitation tables
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindByMessageID loads the first live invitation carrying messageID, with User and Contact
func (r *GormInvitationRepository) FindByMessageID(ctx context.Context, entity invitation.EntityType, messageID string) (*invitation.Invitation, error) {
	if !entity.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Unsupported invitation entity: "+string(entity))
	}
	if messageID == "" {
		return nil, shared.ErrNotFound
	}

	var model models.InvitationModel
	if err := r.db.WithContext(ctx).
		Table(models.InvitationTable(entity)).
		Preload("User").
		Preload("Contact").
		Where("message_id = ?", messageID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(entity), nil
}

// SaveEmailError writes only the email_error column
func (r *GormInvitationRepository) SaveEmailError(ctx context.Context, inv *invitation.Invitation) error {
	if !inv.Entity.IsValid() {
		return shared.NewDomainError("INVALID_ENTITY", "Unsupported invitation entity: "+string(inv.Entity))
	}
	return r.db.WithContext(ctx).
		Table(models.InvitationTable(inv.Entity)).
		Where("id = ?", inv.ID).
		UpdateColumn("email_error", inv.EmailError).Error
}

// Save creates or updates every column of the invitation
func (r *GormInvitationRepository) Save(ctx context.Context, inv *invitation.Invitation) error {
	if !inv.Entity.IsValid() {
		return shared.NewDomainError("INVALID_ENTITY", "Unsupported invitation entity: "+string(inv.Entity))
	}
	model := models.InvitationModelFromDomain(inv)
	if err := r.db.WithContext(ctx).
		Table(models.InvitationTable(inv.Entity)).
		Unscoped().
		Omit(clause.Associations).
		Save(model).Error; err != nil {
		return err
	}
	inv.ID = model.ID
	inv.CreatedAt = model.CreatedAt
	inv.UpdatedAt = model.UpdatedAt
	return nil
}

// InvitationRepositories opens invitation repositories on named connections
type InvitationRepositories struct {
	resolver ConnectionResolver
}

// NewInvitationRepositories creates a provider backed by the connection resolver
func NewInvitationRepositories(resolver ConnectionResolver) *InvitationRepositories {
	return &InvitationRepositories{resolver: resolver}
}

// ForConnection returns an invitation repository bound to the named partition
func (p *InvitationRepositories) ForConnection(name string) (invitation.InvitationRepository, error) {
	db, err := p.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	return NewGormInvitationRepository(db), nil
}

// Ensure GormInvitationRepository implements InvitationRepository
var _ invitation.InvitationRepository = (*GormInvitationRepository)(nil)
