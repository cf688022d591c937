package payment

import (
	"context"

	"github.com/invoicing/backend/internal/application/transformer"
	"github.com/invoicing/backend/internal/domain/payment"
	"github.com/invoicing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Action is a named transition on a single payment
type Action string

const (
	ActionCloneToInvoice Action = "clone_to_invoice"
	ActionCloneToQuote   Action = "clone_to_quote"
	ActionHistory        Action = "history"
	ActionDeliveryNote   Action = "delivery_note"
	ActionMarkPaid       Action = "mark_paid"
	ActionDownload       Action = "download"
	ActionArchive        Action = "archive"
	ActionDelete         Action = "delete"
	ActionEmail          Action = "email"
)

type actionFunc func(ctx context.Context, p *payment.Payment) error

func (s *Service) newActions() map[Action]actionFunc {
	return map[Action]actionFunc{
		ActionCloneToInvoice: s.extensionPoint(ActionCloneToInvoice),
		ActionCloneToQuote:   s.extensionPoint(ActionCloneToQuote),
		ActionHistory:        s.extensionPoint(ActionHistory),
		ActionDeliveryNote:   s.extensionPoint(ActionDeliveryNote),
		ActionMarkPaid:       s.extensionPoint(ActionMarkPaid),
		ActionDownload:       s.extensionPoint(ActionDownload),
		ActionArchive:        s.archive,
		ActionDelete:         s.delete,
		ActionEmail:          s.extensionPoint(ActionEmail),
	}
}

// extensionPoint registers an accepted action that does not change the payment yet
func (s *Service) extensionPoint(name Action) actionFunc {
	return func(ctx context.Context, p *payment.Payment) error {
		s.logger.Debug("Payment action has no effect",
			zap.String("action", string(name)),
			zap.Uint64("payment_id", p.ID),
		)
		return nil
	}
}

// Action runs a named transition on one payment and returns its representation.
// Names outside the accepted set are a validation error.
func (s *Service) Action(ctx context.Context, actor shared.Actor, id, name, include string) (transformer.Item, error) {
	fn, ok := s.actions[Action(name)]
	if !ok {
		return nil, shared.NewValidationError("action: unsupported action " + name)
	}

	p, err := s.resolve(ctx, actor, id, shared.AbilityEdit)
	if err != nil {
		return nil, err
	}
	if err := fn(ctx, p); err != nil {
		return nil, err
	}
	return s.renderOne(ctx, p, transformer.ParseIncludes(include))
}
