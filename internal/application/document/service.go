// Package document serves the documents attached to payments and other records.
package document

import (
	"context"
	"strings"
	"time"

	"github.com/invoicing/backend/internal/application/transformer"
	"github.com/invoicing/backend/internal/domain/document"
	"github.com/invoicing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultURLExpiry = 15 * time.Minute

// ObjectStorage is the part of the object store documents need
type ObjectStorage interface {
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// ListDocumentsRequest holds the query parameters of the document list
type ListDocumentsRequest struct {
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PerPage          int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	Sort             string `form:"sort"`
	Filter           string `form:"filter" binding:"max=100"`
	DocumentableType string `form:"documentable_type"`
	DocumentableID   string `form:"documentable_id"`
	WithTrashed      bool   `form:"with_trashed"`
}

// BulkRequest applies one action to many documents
type BulkRequest struct {
	Action string   `json:"action" binding:"required"`
	IDs    []string `json:"ids" binding:"required,min=1,max=500"`
}

// DownloadResponse tells the client where to fetch the file bytes
type DownloadResponse struct {
	URL       string     `json:"url"`
	Disk      string     `json:"disk"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// BulkAction is a transition that can be applied to many documents at once
type BulkAction string

const (
	BulkArchive BulkAction = "archive"
	BulkRestore BulkAction = "restore"
	BulkDelete  BulkAction = "delete"
)

type bulkFunc func(ctx context.Context, d *document.Document) error

// Option configures a Service
type Option func(*Service)

// WithURLExpiry sets how long download URLs stay valid
func WithURLExpiry(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.urlExpiry = d
		}
	}
}

// Service provides the document resource operations
type Service struct {
	documents   document.DocumentRepository
	storage     ObjectStorage
	ids         transformer.IDCodec
	transformer *transformer.DocumentTransformer
	urlExpiry   time.Duration
	logger      *zap.Logger
	bulkActions map[BulkAction]bulkFunc
}

// NewService creates a new document Service. storage may be nil when only
// local disk documents are served.
func NewService(documents document.DocumentRepository, storage ObjectStorage, ids transformer.IDCodec, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		documents:   documents,
		storage:     storage,
		ids:         ids,
		transformer: transformer.NewDocumentTransformer(ids),
		urlExpiry:   defaultURLExpiry,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bulkActions = map[BulkAction]bulkFunc{
		BulkArchive: s.archive,
		BulkRestore: s.restore,
		BulkDelete:  s.delete,
	}
	return s
}

// List returns one page of the company's documents
func (s *Service) List(ctx context.Context, actor shared.Actor, req ListDocumentsRequest) (*shared.Paginated[transformer.Item], error) {
	if !actor.Can(shared.AbilityView, document.ResourceName) {
		return nil, shared.ErrForbidden
	}

	filter, err := s.listFilter(req)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.FindAllForCompany(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.documents.CountForCompany(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(s.transformer.TransformMany(docs), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Show returns one document, archived ones included
func (s *Service) Show(ctx context.Context, actor shared.Actor, id string) (transformer.Item, error) {
	d, err := s.resolve(ctx, actor, id, shared.AbilityView)
	if err != nil {
		return nil, err
	}
	return s.transformer.Transform(d), nil
}

// Download returns where the document bytes can be fetched. Documents on the
// local disk are served by path; remote ones get a presigned URL.
func (s *Service) Download(ctx context.Context, actor shared.Actor, id string) (*DownloadResponse, error) {
	d, err := s.resolve(ctx, actor, id, shared.AbilityView)
	if err != nil {
		return nil, err
	}
	if d.IsDeleted {
		return nil, shared.ErrNotFound
	}
	if d.Disk == document.DiskLocal || s.storage == nil {
		return &DownloadResponse{URL: d.Path, Disk: d.Disk}, nil
	}

	exists, err := s.storage.ObjectExists(ctx, d.Path)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Warn("Document object missing from storage",
			zap.Uint64("document_id", d.ID),
			zap.String("path", d.Path),
		)
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, d.Path, s.urlExpiry)
	if err != nil {
		return nil, err
	}
	return &DownloadResponse{URL: url, Disk: d.Disk, ExpiresAt: &expiresAt}, nil
}

// Bulk applies the action to every document the actor may edit and returns
// every referenced document the actor can see.
func (s *Service) Bulk(ctx context.Context, actor shared.Actor, req BulkRequest) ([]transformer.Item, error) {
	fn, ok := s.bulkActions[BulkAction(req.Action)]
	if !ok {
		return nil, shared.NewValidationError("action: unsupported bulk action " + req.Action)
	}

	ids, _ := s.ids.DecodeMany(req.IDs)
	docs, err := s.documents.FindByIDsForCompany(ctx, actor.CompanyID, ids)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		d := &docs[i]
		if !shared.Authorize(actor, shared.AbilityEdit, document.ResourceName, d) {
			continue
		}
		if err := fn(ctx, d); err != nil {
			s.logger.Warn("Bulk action skipped document",
				zap.String("action", req.Action),
				zap.Uint64("document_id", d.ID),
				zap.Error(err),
			)
		}
	}

	final, err := s.documents.FindByIDsForCompany(ctx, actor.CompanyID, ids)
	if err != nil {
		return nil, err
	}
	visible := final[:0]
	for i := range final {
		if shared.Authorize(actor, shared.AbilityView, document.ResourceName, &final[i]) {
			visible = append(visible, final[i])
		}
	}
	return s.transformer.TransformMany(visible), nil
}

func (s *Service) archive(ctx context.Context, d *document.Document) error {
	if d.IsArchived() {
		return nil
	}
	d.Archive(time.Now())
	return s.documents.Save(ctx, d)
}

func (s *Service) restore(ctx context.Context, d *document.Document) error {
	if !d.IsArchived() {
		return nil
	}
	if err := d.Restore(time.Now()); err != nil {
		return err
	}
	return s.documents.Save(ctx, d)
}

// delete flags the document and then removes remote bytes. A failed object
// removal is logged; the record stays deleted.
func (s *Service) delete(ctx context.Context, d *document.Document) error {
	if d.IsDeleted {
		return nil
	}
	d.MarkDeleted(time.Now())
	if err := s.documents.Save(ctx, d); err != nil {
		return err
	}
	if d.Disk != document.DiskLocal && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, d.Path); err != nil {
			s.logger.Warn("Failed to remove document object",
				zap.Uint64("document_id", d.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, actor shared.Actor, hashed string, ability shared.Ability) (*document.Document, error) {
	id, err := s.ids.Decode(hashed)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	d, err := s.documents.FindByIDForCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !shared.Authorize(actor, ability, document.ResourceName, d) {
		return nil, shared.ErrForbidden
	}
	return d, nil
}

func (s *Service) listFilter(req ListDocumentsRequest) (document.DocumentFilter, error) {
	filter := document.DocumentFilter{Filter: shared.DefaultFilter()}
	if req.Page < 0 || req.PerPage < 0 {
		return filter, shared.NewValidationError("page and per_page must be positive")
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PerPage > 0 {
		filter.PageSize = req.PerPage
	}
	filter.Normalize()
	filter.Search = strings.TrimSpace(req.Filter)
	filter.WithTrashed = req.WithTrashed

	if req.Sort != "" {
		field, dir, _ := strings.Cut(req.Sort, "|")
		filter.OrderBy = strings.TrimSpace(field)
		filter.OrderDir = "asc"
		if dir != "" {
			filter.OrderDir = strings.ToLower(strings.TrimSpace(dir))
		}
	}

	if req.DocumentableType != "" {
		typ := document.DocumentableType(req.DocumentableType)
		if !typ.IsValid() {
			return filter, shared.NewValidationError("documentable_type is not supported")
		}
		filter.DocumentableType = &typ
	}
	if req.DocumentableID != "" {
		if filter.DocumentableType == nil {
			return filter, shared.NewValidationError("documentable_id requires documentable_type")
		}
		id, err := s.ids.Decode(req.DocumentableID)
		if err != nil {
			return filter, shared.NewValidationError("documentable_id is invalid")
		}
		filter.DocumentableID = &id
	}
	return filter, nil
}
