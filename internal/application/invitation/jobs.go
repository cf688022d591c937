// Package invitation tracks what happened to invitation emails after they
// left the mailer: opens and delivery failures reported by the provider.
package invitation

import (
	"context"
	"errors"
	"fmt"

	"github.com/invoicing/backend/internal/domain/invitation"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/queue"
	"go.uber.org/zap"
)

// Job types handled by this package
const (
	JobMarkOpened            = "invitation.mark_opened"
	JobRecordDeliveryFailure = "invitation.record_delivery_failure"
)

// MarkOpenedPayload identifies the invitation whose email was opened
type MarkOpenedPayload struct {
	MessageID string                `json:"message_id"`
	Entity    invitation.EntityType `json:"entity"`
}

// DeliveryFailurePayload identifies the invitation whose email bounced
type DeliveryFailurePayload struct {
	MessageID string                `json:"message_id"`
	Entity    invitation.EntityType `json:"entity"`
	Error     string                `json:"error"`
}

// RepositoryProvider opens an invitation repository on a named data partition
type RepositoryProvider interface {
	ForConnection(name string) (invitation.InvitationRepository, error)
}

// MarkOpenedHandler clears the delivery error of an invitation once its email is opened
type MarkOpenedHandler struct {
	repos  RepositoryProvider
	logger *zap.Logger
}

// NewMarkOpenedHandler creates a MarkOpenedHandler
func NewMarkOpenedHandler(repos RepositoryProvider, logger *zap.Logger) *MarkOpenedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkOpenedHandler{repos: repos, logger: logger}
}

// Handle implements queue.Handler. An unknown message id is not an error.
func (h *MarkOpenedHandler) Handle(ctx context.Context, job *queue.Job) error {
	var payload MarkOpenedPayload
	if err := job.Decode(&payload); err != nil {
		return queue.Permanent(err)
	}
	return track(ctx, h.repos, h.logger, job.Connection, payload.Entity, payload.MessageID, func(inv *invitation.Invitation) {
		inv.ClearEmailError()
	})
}

// DeliveryFailureHandler records a bounce or complaint on the invitation
type DeliveryFailureHandler struct {
	repos  RepositoryProvider
	logger *zap.Logger
}

// NewDeliveryFailureHandler creates a DeliveryFailureHandler
func NewDeliveryFailureHandler(repos RepositoryProvider, logger *zap.Logger) *DeliveryFailureHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryFailureHandler{repos: repos, logger: logger}
}

// Handle implements queue.Handler
func (h *DeliveryFailureHandler) Handle(ctx context.Context, job *queue.Job) error {
	var payload DeliveryFailurePayload
	if err := job.Decode(&payload); err != nil {
		return queue.Permanent(err)
	}
	return track(ctx, h.repos, h.logger, job.Connection, payload.Entity, payload.MessageID, func(inv *invitation.Invitation) {
		inv.RecordEmailError(payload.Error)
	})
}

// Register adds both tracking handlers to the registry
func Register(registry *queue.Registry, repos RepositoryProvider, logger *zap.Logger) {
	registry.Register(JobMarkOpened, NewMarkOpenedHandler(repos, logger))
	registry.Register(JobRecordDeliveryFailure, NewDeliveryFailureHandler(repos, logger))
}

// track loads the invitation on the job's partition, applies mutate and
// writes the email_error column back.
func track(
	ctx context.Context,
	repos RepositoryProvider,
	logger *zap.Logger,
	connection string,
	entity invitation.EntityType,
	messageID string,
	mutate func(*invitation.Invitation),
) error {
	if !entity.IsValid() {
		return queue.Permanent(fmt.Errorf("unsupported invitation entity %q", entity))
	}
	repo, err := repos.ForConnection(connection)
	if err != nil {
		return queue.Permanent(err)
	}

	inv, err := repo.FindByMessageID(ctx, entity, messageID)
	if errors.Is(err, shared.ErrNotFound) {
		logger.Debug("No invitation for message",
			zap.String("entity", string(entity)),
			zap.String("message_id", messageID),
		)
		return nil
	}
	if err != nil {
		return err
	}

	mutate(inv)
	if err := repo.SaveEmailError(ctx, inv); err != nil {
		return err
	}

	logger.Info("Invitation delivery status updated",
		zap.String("entity", string(entity)),
		zap.Uint64("invitation_id", inv.ID),
		zap.Bool("has_error", inv.EmailError != nil),
	)
	return nil
}
