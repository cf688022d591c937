package invitation

import (
	"context"
	"strings"

	"github.com/invoicing/backend/internal/domain/invitation"
	"github.com/invoicing/backend/internal/infrastructure/queue"
	"go.uber.org/zap"
)

// Provider record types
const (
	RecordOpen          = "Open"
	RecordBounce        = "Bounce"
	RecordSpamComplaint = "SpamComplaint"
)

// Metadata keys the mailer attaches to every outgoing message
const (
	MetadataEntity     = "entity"
	MetadataConnection = "connection"
)

// EmailEvent is one delivery event posted by the mail provider
type EmailEvent struct {
	RecordType  string            `json:"RecordType" binding:"required"`
	MessageID   string            `json:"MessageID" binding:"required"`
	Description string            `json:"Description"`
	Details     string            `json:"Details"`
	Metadata    map[string]string `json:"Metadata"`
}

// Dispatcher enqueues background jobs
type Dispatcher interface {
	Dispatch(ctx context.Context, jobType string, payload any, opts ...queue.DispatchOption) (*queue.Job, error)
}

// WebhookService turns provider events into tracking jobs
type WebhookService struct {
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewWebhookService creates a WebhookService
func NewWebhookService(dispatcher Dispatcher, logger *zap.Logger) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{dispatcher: dispatcher, logger: logger}
}

// HandleEmailEvent enqueues the job matching the event and reports whether one
// was queued. Unknown record types and enqueue failures are logged, never returned:
// the provider only needs an acknowledgement.
func (s *WebhookService) HandleEmailEvent(ctx context.Context, event EmailEvent) bool {
	log := s.logger.With(
		zap.String("record_type", event.RecordType),
		zap.String("message_id", event.MessageID),
	)

	entity := invitation.EntityInvoice
	if raw := strings.TrimSpace(event.Metadata[MetadataEntity]); raw != "" {
		parsed, err := invitation.ParseEntityType(strings.ToLower(raw))
		if err != nil {
			log.Warn("Ignoring email event for unsupported entity", zap.String("entity", raw))
			return false
		}
		entity = parsed
	}
	opts := []queue.DispatchOption{queue.OnConnection(event.Metadata[MetadataConnection])}

	var (
		jobType string
		payload any
	)
	switch event.RecordType {
	case RecordOpen:
		jobType = JobMarkOpened
		payload = MarkOpenedPayload{MessageID: event.MessageID, Entity: entity}
	case RecordBounce, RecordSpamComplaint:
		jobType = JobRecordDeliveryFailure
		payload = DeliveryFailurePayload{MessageID: event.MessageID, Entity: entity, Error: failureDescription(event)}
	default:
		log.Debug("Ignoring email event")
		return false
	}

	if _, err := s.dispatcher.Dispatch(ctx, jobType, payload, opts...); err != nil {
		log.Error("Failed to enqueue email event", zap.Error(err))
		return false
	}
	return true
}

func failureDescription(event EmailEvent) string {
	switch {
	case event.Description != "" && event.Details != "":
		return event.Description + ": " + event.Details
	case event.Description != "":
		return event.Description
	case event.Details != "":
		return event.Details
	}
	return event.RecordType
}
