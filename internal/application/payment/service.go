// Package payment implements the payments resource: listing, creation,
// editing, deletion with invoice reversal, and the bulk and per-entity actions.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/invoicing/backend/internal/application/transformer"
	"github.com/invoicing/backend/internal/domain/document"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/payment"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Recorder receives payment events for business metrics
type Recorder interface {
	PaymentStored(ctx context.Context, amount decimal.Decimal)
	PaymentDeleted(ctx context.Context, reversed decimal.Decimal)
}

type nopRecorder struct{}

func (nopRecorder) PaymentStored(context.Context, decimal.Decimal)  {}
func (nopRecorder) PaymentDeleted(context.Context, decimal.Decimal) {}

// Option configures a Service
type Option func(*Service)

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Service provides the payment resource operations
type Service struct {
	payments    payment.PaymentRepository
	invoices    invoice.InvoiceRepository
	documents   document.DocumentRepository
	txScope     TransactionScope
	ids         transformer.IDCodec
	transformer *transformer.PaymentTransformer
	recorder    Recorder
	logger      *zap.Logger

	bulkActions map[BulkAction]bulkFunc
	actions     map[Action]actionFunc
}

// NewService creates a new payment Service
func NewService(
	payments payment.PaymentRepository,
	invoices invoice.InvoiceRepository,
	documents document.DocumentRepository,
	txScope TransactionScope,
	ids transformer.IDCodec,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		payments:    payments,
		invoices:    invoices,
		documents:   documents,
		txScope:     txScope,
		ids:         ids,
		transformer: transformer.NewPaymentTransformer(ids),
		recorder:    nopRecorder{},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bulkActions = s.newBulkActions()
	s.actions = s.newActions()
	return s
}

// List returns one page of the company's payments
func (s *Service) List(ctx context.Context, actor shared.Actor, req ListPaymentsRequest) (*shared.Paginated[transformer.Item], error) {
	if !actor.Can(shared.AbilityView, payment.ResourceName) {
		return nil, shared.ErrForbidden
	}

	filter, err := s.listFilter(req)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.FindAllForCompany(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.payments.CountForCompany(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.render(ctx, actor.CompanyID, payments, transformer.ParseIncludes(req.Include))
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Template returns the blank payment a client fills in to create one. Nothing is persisted.
func (s *Service) Template(ctx context.Context, actor shared.Actor) (transformer.Item, error) {
	if !actor.Can(shared.AbilityCreate, payment.ResourceName) {
		return nil, shared.ErrForbidden
	}
	return s.transformer.Transform(payment.NewTemplate(actor.CompanyID, actor.UserID)), nil
}

// Store creates a payment and applies it to the listed invoices in one transaction
func (s *Service) Store(ctx context.Context, actor shared.Actor, req StorePaymentRequest, include string) (transformer.Item, error) {
	if !actor.Can(shared.AbilityCreate, payment.ResourceName) {
		return nil, shared.ErrForbidden
	}

	details, err := s.storeDetails(req)
	if err != nil {
		return nil, err
	}
	allocations, err := s.decodeAllocations(req.Invoices)
	if err != nil {
		return nil, err
	}

	p := payment.NewTemplate(actor.CompanyID, actor.UserID)
	if err := p.Fill(details); err != nil {
		return nil, asValidation("", err)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for i, a := range allocations {
			inv, err := repos.Invoices().FindByIDForCompany(ctx, actor.CompanyID, a.invoiceID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewValidationError(fmt.Sprintf("invoices.%d.invoice_id: invoice not found", i))
			}
			if err != nil {
				return err
			}
			if err := p.ApplyToInvoice(inv, a.amount); err != nil {
				return asValidation(fmt.Sprintf("invoices.%d.amount", i), err)
			}
			if err := repos.Invoices().Save(ctx, inv); err != nil {
				return err
			}
		}
		return repos.Payments().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.PaymentStored(ctx, p.Amount)
	s.logger.Info("Payment stored",
		zap.Uint64("company_id", actor.CompanyID),
		zap.Uint64("payment_id", p.ID),
		zap.Int("invoices", len(allocations)),
	)
	return s.renderOne(ctx, p, transformer.ParseIncludes(include))
}

// Show returns one payment, archived ones included
func (s *Service) Show(ctx context.Context, actor shared.Actor, id, include string) (transformer.Item, error) {
	p, err := s.resolve(ctx, actor, id, shared.AbilityView)
	if err != nil {
		return nil, err
	}
	return s.renderOne(ctx, p, transformer.ParseIncludes(include))
}

// Edit returns the payment as the starting point of an edit form
func (s *Service) Edit(ctx context.Context, actor shared.Actor, id, include string) (transformer.Item, error) {
	return s.Show(ctx, actor, id, include)
}

// Update changes the editable fields of a payment. Deleted payments are rejected
// with shared.ErrDisallowed and left untouched.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id string, req UpdatePaymentRequest, include string) (transformer.Item, error) {
	p, err := s.resolve(ctx, actor, id, shared.AbilityEdit)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted {
		return nil, shared.ErrDisallowed
	}

	details, err := s.updateDetails(req)
	if err != nil {
		return nil, err
	}
	err = s.transition(ctx, p, func(current *payment.Payment) (bool, error) {
		if current.IsDeleted {
			return false, shared.ErrDisallowed
		}
		if err := current.Fill(details); err != nil {
			return false, asValidation("", err)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.renderOne(ctx, p, transformer.ParseIncludes(include))
}

// transition re-reads p under a row lock, applies change and writes the result
// in one transaction. change reports whether there is anything to write. On
// success p holds the stored state.
func (s *Service) transition(ctx context.Context, p *payment.Payment, change func(current *payment.Payment) (bool, error)) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.Payments().FindByIDForUpdate(ctx, p.CompanyID, p.ID)
		if err != nil {
			return err
		}
		changed, err := change(current)
		if err != nil {
			return err
		}
		if changed {
			if err := repos.Payments().Update(ctx, current); err != nil {
				return err
			}
		}
		*p = *current
		return nil
	})
}

// Destroy reverses the payment on its invoices and then deletes it
func (s *Service) Destroy(ctx context.Context, actor shared.Actor, id, include string) (transformer.Item, error) {
	p, err := s.resolve(ctx, actor, id, shared.AbilityEdit)
	if err != nil {
		return nil, err
	}
	if err := s.delete(ctx, p); err != nil {
		return nil, err
	}
	return s.renderOne(ctx, p, transformer.ParseIncludes(include))
}

// delete runs the reversal and the deletion flag in one transaction, reversal
// first. A payment that is already deleted is left as it is.
func (s *Service) delete(ctx context.Context, p *payment.Payment) error {
	var reversed decimal.Decimal
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.Payments().FindByIDForUpdate(ctx, p.CompanyID, p.ID)
		if err != nil {
			return err
		}
		if current.IsDeleted {
			*p = *current
			return nil
		}

		linked, err := repos.Invoices().FindByIDs(ctx, current.CompanyID, current.InvoiceIDs())
		if err != nil {
			return err
		}
		invoices := make(map[uint64]*invoice.Invoice, len(linked))
		for i := range linked {
			invoices[linked[i].ID] = &linked[i]
		}

		reversed = current.Applied
		if err := current.Reverse(invoices); err != nil {
			return err
		}
		for _, inv := range invoices {
			if err := repos.Invoices().Save(ctx, inv); err != nil {
				return err
			}
		}

		current.MarkDeleted(time.Now())
		if err := repos.Payments().Save(ctx, current); err != nil {
			return err
		}
		*p = *current
		return nil
	})
	if err != nil {
		return err
	}

	s.recorder.PaymentDeleted(ctx, reversed)
	s.logger.Info("Payment deleted",
		zap.Uint64("company_id", p.CompanyID),
		zap.Uint64("payment_id", p.ID),
		zap.String("reversed", reversed.String()),
	)
	return nil
}

// resolve decodes the external id and loads the payment the actor may act on.
// Ids that do not decode or belong to another company are not found.
func (s *Service) resolve(ctx context.Context, actor shared.Actor, hashed string, ability shared.Ability) (*payment.Payment, error) {
	id, err := s.ids.Decode(hashed)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	p, err := s.payments.FindByIDForCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !shared.Authorize(actor, ability, payment.ResourceName, p) {
		return nil, shared.ErrForbidden
	}
	return p, nil
}

func (s *Service) renderOne(ctx context.Context, p *payment.Payment, inc transformer.Includes) (transformer.Item, error) {
	items, err := s.render(ctx, p.CompanyID, []payment.Payment{*p}, inc)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// render transforms payments, loading attached documents only when requested
func (s *Service) render(ctx context.Context, companyID uint64, payments []payment.Payment, inc transformer.Includes) ([]transformer.Item, error) {
	byPayment := map[uint64][]document.Document{}
	if inc.Has(transformer.IncludeDocuments) && len(payments) > 0 {
		ids := make([]uint64, len(payments))
		for i := range payments {
			ids[i] = payments[i].ID
		}
		docs, err := s.documents.FindByDocumentables(ctx, companyID, document.DocumentablePayment, ids)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			byPayment[d.DocumentableID] = append(byPayment[d.DocumentableID], d)
		}
	}

	items := make([]transformer.Item, len(payments))
	for i := range payments {
		items[i] = s.transformer.TransformWithIncludes(&payments[i], inc, byPayment[payments[i].ID])
	}
	return items, nil
}

func (s *Service) listFilter(req ListPaymentsRequest) (payment.PaymentFilter, error) {
	filter := payment.PaymentFilter{Filter: shared.DefaultFilter()}
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
	filter.IsDeleted = req.IsDeleted

	if req.Sort != "" {
		field, dir, _ := strings.Cut(req.Sort, "|")
		filter.OrderBy = strings.TrimSpace(field)
		filter.OrderDir = "asc"
		if dir != "" {
			dir = strings.ToLower(strings.TrimSpace(dir))
			if dir != "asc" && dir != "desc" {
				return filter, shared.NewValidationError("sort direction must be asc or desc")
			}
			filter.OrderDir = dir
		}
	}

	if req.Status != "" {
		for _, raw := range strings.Split(req.Status, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			status := payment.Status(n)
			if err != nil || !status.IsValid() {
				return filter, shared.NewValidationError(fmt.Sprintf("status: %q is not a payment status", raw))
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	if req.ClientID != "" {
		clientID, err := s.ids.Decode(req.ClientID)
		if err != nil {
			return filter, shared.NewValidationError("client_id is invalid")
		}
		filter.ClientID = &clientID
	}
	return filter, nil
}

func (s *Service) storeDetails(req StorePaymentRequest) (payment.Details, error) {
	if req.Amount == nil {
		return payment.Details{}, shared.NewValidationError("amount is required")
	}
	details := payment.Details{
		Amount:               req.Amount,
		TransactionReference: &req.TransactionReference,
		Number:               &req.Number,
		PrivateNotes:         &req.PrivateNotes,
	}

	if req.PaymentDate != "" {
		date, err := time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			return details, shared.NewValidationError("payment_date must be a date in YYYY-MM-DD format")
		}
		details.PaymentDate = &date
	}

	var err error
	if details.ClientID, err = s.ids.DecodeOptional(req.ClientID); err != nil {
		return details, shared.NewValidationError("client_id is invalid")
	}
	if details.AssignedUserID, err = s.ids.DecodeOptional(req.AssignedUserID); err != nil {
		return details, shared.NewValidationError("assigned_user_id is invalid")
	}
	return details, nil
}

func (s *Service) updateDetails(req UpdatePaymentRequest) (payment.Details, error) {
	details := payment.Details{
		Amount:               req.Amount,
		TransactionReference: req.TransactionReference,
		Number:               req.Number,
		PrivateNotes:         req.PrivateNotes,
	}

	if req.PaymentDate != nil && *req.PaymentDate != "" {
		date, err := time.Parse(dateLayout, *req.PaymentDate)
		if err != nil {
			return details, shared.NewValidationError("payment_date must be a date in YYYY-MM-DD format")
		}
		details.PaymentDate = &date
	}

	if req.AssignedUserID != nil && *req.AssignedUserID != "" {
		id, err := s.ids.Decode(*req.AssignedUserID)
		if err != nil {
			return details, shared.NewValidationError("assigned_user_id is invalid")
		}
		details.AssignedUserID = &id
	}
	return details, nil
}

type allocation struct {
	invoiceID uint64
	amount    decimal.Decimal
}

func (s *Service) decodeAllocations(in []InvoiceAllocation) ([]allocation, error) {
	out := make([]allocation, 0, len(in))
	for i, a := range in {
		id, err := s.ids.Decode(a.InvoiceID)
		if err != nil {
			return nil, shared.NewValidationError(fmt.Sprintf("invoices.%d.invoice_id is invalid", i))
		}
		if a.Amount == nil || !a.Amount.IsPositive() {
			return nil, shared.NewValidationError(fmt.Sprintf("invoices.%d.amount must be positive", i))
		}
		out = append(out, allocation{invoiceID: id, amount: *a.Amount})
	}
	return out, nil
}

// asValidation turns business rule violations into validation errors.
// Disallowed and not found keep their own meaning.
func asValidation(field string, err error) error {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return err
	}
	if errors.Is(err, shared.ErrDisallowed) || errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrForbidden) {
		return err
	}
	if field == "" {
		return shared.NewValidationError(de.Message)
	}
	return shared.NewValidationError(field + ": " + de.Message)
}
