package payment

import (
	"context"
	"time"

	"github.com/invoicing/backend/internal/application/transformer"
	"github.com/invoicing/backend/internal/domain/payment"
	"github.com/invoicing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BulkAction is a transition that can be applied to many payments at once
type BulkAction string

const (
	BulkArchive BulkAction = "archive"
	BulkRestore BulkAction = "restore"
	BulkDelete  BulkAction = "delete"
)

type bulkFunc func(ctx context.Context, p *payment.Payment) error

func (s *Service) newBulkActions() map[BulkAction]bulkFunc {
	return map[BulkAction]bulkFunc{
		BulkArchive: s.archive,
		BulkRestore: s.restore,
		BulkDelete:  s.delete,
	}
}

// BulkActions lists the accepted bulk action names
func (s *Service) BulkActions() []BulkAction {
	return []BulkAction{BulkArchive, BulkRestore, BulkDelete}
}

// Bulk applies the action to every payment the actor may edit. Ids that do
// not decode, do not resolve or are not editable are skipped. The result holds
// every referenced payment the actor can see, mutated or not.
func (s *Service) Bulk(ctx context.Context, actor shared.Actor, req BulkRequest, include string) ([]transformer.Item, error) {
	fn, ok := s.bulkActions[BulkAction(req.Action)]
	if !ok {
		return nil, shared.NewValidationError("action: unsupported bulk action " + req.Action)
	}

	ids, rejected := s.ids.DecodeMany(req.IDs)
	if len(rejected) > 0 {
		s.logger.Debug("Skipping undecodable ids", zap.Int("count", len(rejected)))
	}

	payments, err := s.payments.FindByIDsForCompany(ctx, actor.CompanyID, ids)
	if err != nil {
		return nil, err
	}

	for i := range payments {
		p := &payments[i]
		if !shared.Authorize(actor, shared.AbilityEdit, payment.ResourceName, p) {
			continue
		}
		if err := fn(ctx, p); err != nil {
			s.logger.Warn("Bulk action skipped payment",
				zap.String("action", req.Action),
				zap.Uint64("payment_id", p.ID),
				zap.Error(err),
			)
		}
	}

	final, err := s.payments.FindByIDsForCompany(ctx, actor.CompanyID, ids)
	if err != nil {
		return nil, err
	}
	visible := final[:0]
	for i := range final {
		if shared.Authorize(actor, shared.AbilityView, payment.ResourceName, &final[i]) {
			visible = append(visible, final[i])
		}
	}
	return s.render(ctx, actor.CompanyID, visible, transformer.ParseIncludes(include))
}

func (s *Service) archive(ctx context.Context, p *payment.Payment) error {
	return s.transition(ctx, p, func(current *payment.Payment) (bool, error) {
		if current.IsArchived() {
			return false, nil
		}
		current.Archive(time.Now())
		return true, nil
	})
}

// restore brings back an archived payment; deletion is one-way
func (s *Service) restore(ctx context.Context, p *payment.Payment) error {
	return s.transition(ctx, p, func(current *payment.Payment) (bool, error) {
		if !current.IsArchived() {
			return false, nil
		}
		if err := current.Restore(time.Now()); err != nil {
			return false, err
		}
		return true, nil
	})
}
