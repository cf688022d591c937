package handler

import (
	"github.com/gin-gonic/gin"
	apppayment "github.com/invoicing/backend/internal/application/payment"
)

// PaymentHandler serves the payments resource
type PaymentHandler struct {
	BaseHandler
	paymentService *apppayment.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *apppayment.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List godoc
// @Summary      List payments
// @Description  Paginated list of the company's payments with search, status and client filters
// @Tags         payments
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Page size" default(20) maximum(100)
// @Param        sort query string false "Sort column and direction, e.g. date|desc"
// @Param        filter query string false "Search number, reference or notes"
// @Param        status query string false "Comma separated status ids"
// @Param        client_id query string false "Client id"
// @Param        is_deleted query bool false "Only deleted (true) or live (false) payments"
// @Param        with_trashed query bool false "Include deleted payments"
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Success      200 {object} APIResponse[[]PaymentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req apppayment.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	page, err := h.paymentService.List(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Create godoc
// @Summary      Blank payment
// @Description  Returns an unsaved payment with defaults for priming a create form
// @Tags         payments
// @Produce      json
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/create [get]
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	item, err := h.paymentService.Template(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Store godoc
// @Summary      Create a payment
// @Description  Creates a payment and applies it to the listed invoices
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Param        request body apppayment.StorePaymentRequest true "Payment"
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Store(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req apppayment.StorePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	item, err := h.paymentService.Store(c.Request.Context(), actor, req, c.Query("include"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Show godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment id"
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	item, err := h.paymentService.Show(c.Request.Context(), actor, c.Param("id"), c.Query("include"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Edit godoc
// @Summary      Get a payment for editing
// @Description  Same representation as show; requires the edit ability
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment id"
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/edit [get]
func (h *PaymentHandler) Edit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	item, err := h.paymentService.Edit(c.Request.Context(), actor, c.Param("id"), c.Query("include"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @Summary      Update a payment
// @Description  Updates the given fields. A deleted payment answers ERR_DISALLOWED and is left unchanged.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment id"
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Param        request body apppayment.UpdatePaymentRequest true "Changed fields"
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req apppayment.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	item, err := h.paymentService.Update(c.Request.Context(), actor, c.Param("id"), req, c.Query("include"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Destroy godoc
// @Summary      Delete a payment
// @Description  Reverses the payment on its invoices, then soft deletes it
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment id"
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Destroy(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	item, err := h.paymentService.Destroy(c.Request.Context(), actor, c.Param("id"), c.Query("include"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Bulk godoc
// @Summary      Bulk payment action
// @Description  Applies archive, restore or delete to every id the caller may edit and returns all resolvable payments
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Param        request body apppayment.BulkRequest true "Action and ids"
// @Success      200 {object} APIResponse[[]PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/bulk [post]
func (h *PaymentHandler) Bulk(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req apppayment.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	items, err := h.paymentService.Bulk(c.Request.Context(), actor, req, c.Query("include"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Action godoc
// @Summary      Run a payment action
// @Description  Named transition on one payment: clone_to_invoice, clone_to_quote, history, delivery_note, mark_paid, download, archive, delete, email
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment id"
// @Param        action path string true "Action name"
// @Param        include query string false "Comma separated includes: paymentables, documents"
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/{action} [get]
func (h *PaymentHandler) Action(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	item, err := h.paymentService.Action(c.Request.Context(), actor, c.Param("id"), c.Param("action"), c.Query("include"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
