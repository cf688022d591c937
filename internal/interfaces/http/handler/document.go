package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/invoicing/backend/internal/application/document"
)

// DocumentHandler serves the documents resource
type DocumentHandler struct {
	BaseHandler
	documentService *appdocument.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *appdocument.Service) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// List godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Page size" default(20) maximum(100)
// @Param        sort query string false "Sort column and direction, e.g. name|asc"
// @Param        filter query string false "Search by name"
// @Param        documentable_type query string false "Owner type, e.g. payments"
// @Param        documentable_id query string false "Owner id"
// @Param        with_trashed query bool false "Include deleted documents"
// @Success      200 {object} APIResponse[[]DocumentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req appdocument.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	page, err := h.documentService.List(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Show godoc
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document id"
// @Success      200 {object} APIResponse[DocumentResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [get]
func (h *DocumentHandler) Show(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	item, err := h.documentService.Show(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Download godoc
// @Summary      Document download location
// @Description  Presigned object storage URL, or the stored path for local disk documents
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document id"
// @Success      200 {object} APIResponse[appdocument.DownloadResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	resp, err := h.documentService.Download(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Bulk godoc
// @Summary      Bulk document action
// @Description  Applies archive, restore or delete to every id the caller may edit
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body appdocument.BulkRequest true "Action and ids"
// @Success      200 {object} APIResponse[[]DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/bulk [post]
func (h *DocumentHandler) Bulk(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req appdocument.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	items, err := h.documentService.Bulk(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
