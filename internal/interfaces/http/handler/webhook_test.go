package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/invoicing/backend/internal/application/invitation"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"github.com/invoicing/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookHandler_EmailEvent(t *testing.T) {
	t.Run("open event is queued", func(t *testing.T) {
		f := newFixture(t, testutil.AdminActor(1))

		env := requireOK(t, f.do(t, http.MethodPost, "/webhooks/email", map[string]any{
			"RecordType": "Open",
			"MessageID":  "msg-1",
			"Metadata":   map[string]string{"entity": "quote"},
		}))
		assert.True(t, dataAs[WebhookAck](t, env).Queued)
		require.Equal(t, 1, f.backend.Len())

		job, err := f.backend.Pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, invitation.JobMarkOpened, job.Type)

		var payload invitation.MarkOpenedPayload
		require.NoError(t, json.Unmarshal(job.Payload, &payload))
		assert.Equal(t, "msg-1", payload.MessageID)
	})

	t.Run("bounce is queued as a delivery failure", func(t *testing.T) {
		f := newFixture(t, testutil.AdminActor(1))

		env := requireOK(t, f.do(t, http.MethodPost, "/webhooks/email", map[string]any{
			"RecordType":  "Bounce",
			"MessageID":   "msg-2",
			"Description": "Mailbox full",
		}))
		assert.True(t, dataAs[WebhookAck](t, env).Queued)

		job, err := f.backend.Pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, invitation.JobRecordDeliveryFailure, job.Type)
	})

	t.Run("unknown record type is acknowledged", func(t *testing.T) {
		f := newFixture(t, testutil.AdminActor(1))

		env := requireOK(t, f.do(t, http.MethodPost, "/webhooks/email", map[string]any{
			"RecordType": "Click",
			"MessageID":  "msg-3",
		}))
		assert.False(t, dataAs[WebhookAck](t, env).Queued)
		assert.Zero(t, f.backend.Len())
	})

	t.Run("missing message id", func(t *testing.T) {
		f := newFixture(t, testutil.AdminActor(1))

		env := requireError(t, f.do(t, http.MethodPost, "/webhooks/email", map[string]any{"RecordType": "Open"}),
			http.StatusUnprocessableEntity, dto.ErrCodeValidation)
		require.NotEmpty(t, env.Error.Details)
		assert.Equal(t, "MessageID", env.Error.Details[0].Field)
		assert.Zero(t, f.backend.Len())
	})
}
