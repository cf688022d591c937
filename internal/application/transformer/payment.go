package transformer

import (
	"github.com/invoicing/backend/internal/domain/document"
	"github.com/invoicing/backend/internal/domain/payment"
)

const dateLayout = "2006-01-02"

// Relations a payment response can include on request
const (
	IncludePaymentables = "paymentables"
	IncludeDocuments    = "documents"
)

// PaymentKeys is the fixed key order of a transformed payment
var PaymentKeys = []string{
	"id", "user_id", "assigned_user_id", "client_id", "status_id", "number",
	"amount", "applied", "refunded", "date", "transaction_reference", "private_notes",
	"is_deleted", "updated_at", "archived_at", "created_at",
}

// PaymentableKeys is the fixed key order of a transformed paymentable
var PaymentableKeys = []string{"id", "invoice_id", "amount", "refunded", "created_at", "updated_at"}

// PaymentTransformer renders payments and their optional relations
type PaymentTransformer struct {
	ids       IDEncoder
	documents *DocumentTransformer
}

// NewPaymentTransformer creates a PaymentTransformer
func NewPaymentTransformer(ids IDEncoder) *PaymentTransformer {
	return &PaymentTransformer{ids: ids, documents: NewDocumentTransformer(ids)}
}

// Transform renders the fixed payment fields
func (t *PaymentTransformer) Transform(p *payment.Payment) Item {
	date := ""
	if p.PaymentDate != nil {
		date = p.PaymentDate.Format(dateLayout)
	}
	return Item{
		{"id", encodeKey(t.ids, p.ID)},
		{"user_id", t.ids.Encode(p.UserID)},
		{"assigned_user_id", t.ids.EncodeOptional(p.AssignedUserID)},
		{"client_id", t.ids.EncodeOptional(p.ClientID)},
		{"status_id", int(p.Status)},
		{"number", p.Number},
		{"amount", p.Amount.InexactFloat64()},
		{"applied", p.Applied.InexactFloat64()},
		{"refunded", p.Refunded.InexactFloat64()},
		{"date", date},
		{"transaction_reference", p.TransactionReference},
		{"private_notes", p.PrivateNotes},
		{"is_deleted", p.IsDeleted},
		{"updated_at", epoch(p.UpdatedAt)},
		{"archived_at", epochPtr(p.ArchivedAt)},
		{"created_at", epoch(p.CreatedAt)},
	}
}

// TransformPaymentable renders one invoice link
func (t *PaymentTransformer) TransformPaymentable(pb *payment.Paymentable) Item {
	return Item{
		{"id", t.ids.Encode(pb.ID)},
		{"invoice_id", t.ids.Encode(pb.InvoiceID)},
		{"amount", pb.Amount.InexactFloat64()},
		{"refunded", pb.Refunded.InexactFloat64()},
		{"created_at", epoch(pb.CreatedAt)},
		{"updated_at", epoch(pb.UpdatedAt)},
	}
}

// TransformWithIncludes renders the payment and appends each requested relation.
// docs holds the documents attached to this payment and is only read when
// documents were requested.
func (t *PaymentTransformer) TransformWithIncludes(p *payment.Payment, inc Includes, docs []document.Document) Item {
	item := t.Transform(p)
	if inc.Has(IncludePaymentables) {
		links := make([]Item, len(p.Paymentables))
		for i := range p.Paymentables {
			links[i] = t.TransformPaymentable(&p.Paymentables[i])
		}
		item = item.With(IncludePaymentables, links)
	}
	if inc.Has(IncludeDocuments) {
		item = item.With(IncludeDocuments, t.documents.TransformMany(docs))
	}
	return item
}
