package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/application/invitation"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
)

// WebhookHandler receives mail provider callbacks
type WebhookHandler struct {
	BaseHandler
	webhookService *invitation.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *invitation.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// WebhookAck acknowledges a provider event
type WebhookAck struct {
	Queued bool `json:"queued"`
}

// EmailEvent godoc
// @Summary      Mail provider event
// @Description  Records opens, bounces and spam complaints on the matching invitation. Well formed events are always acknowledged; processing happens in the background.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Token header string false "Shared webhook secret"
// @Param        request body invitation.EmailEvent true "Provider event"
// @Success      200 {object} APIResponse[WebhookAck]
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /webhooks/email [post]
func (h *WebhookHandler) EmailEvent(c *gin.Context) {
	var event invitation.EmailEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.HandleBindError(c, err)
		return
	}

	queued := h.webhookService.HandleEmailEvent(c.Request.Context(), event)
	c.JSON(http.StatusOK, dto.NewSuccessResponse(WebhookAck{Queued: queued}))
}
