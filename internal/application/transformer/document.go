package transformer

import (
	"github.com/invoicing/backend/internal/domain/document"
)

// DocumentKeys is the fixed key order of a transformed document
var DocumentKeys = []string{
	"id", "user_id", "assigned_user_id", "project_id", "vendor_id",
	"path", "preview", "name", "type", "disk", "hash",
	"size", "width", "height", "is_default", "updated_at", "archived_at",
}

// DocumentTransformer renders documents
type DocumentTransformer struct {
	ids IDEncoder
}

// NewDocumentTransformer creates a DocumentTransformer
func NewDocumentTransformer(ids IDEncoder) *DocumentTransformer {
	return &DocumentTransformer{ids: ids}
}

// Transform renders one document. Every key in DocumentKeys is always present.
func (t *DocumentTransformer) Transform(d *document.Document) Item {
	return Item{
		{"id", encodeKey(t.ids, d.ID)},
		{"user_id", t.ids.EncodeOptional(d.UserID)},
		{"assigned_user_id", t.ids.EncodeOptional(d.AssignedUserID)},
		{"project_id", t.ids.EncodeOptional(d.ProjectID)},
		{"vendor_id", t.ids.EncodeOptional(d.VendorID)},
		{"path", d.Path},
		{"preview", d.Preview},
		{"name", d.Name},
		{"type", d.Type},
		{"disk", d.Disk},
		{"hash", d.Hash},
		{"size", d.Size},
		{"width", d.Width},
		{"height", d.Height},
		{"is_default", d.IsDefault},
		{"updated_at", epoch(d.UpdatedAt)},
		{"archived_at", epochPtr(d.ArchivedAt)},
	}
}

// TransformMany renders a list of documents in order
func (t *DocumentTransformer) TransformMany(docs []document.Document) []Item {
	out := make([]Item, len(docs))
	for i := range docs {
		out[i] = t.Transform(&docs[i])
	}
	return out
}
