package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/invoicing/backend/internal/domain/document"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveDocument(t *testing.T, repo *GormDocumentRepository, companyID uint64, owner document.DocumentableType, ownerID uint64, name string) *document.Document {
	t.Helper()
	userID := uint64(1)
	d, err := document.NewDocument(companyID, &userID, owner, ownerID, name, "docs/"+name, document.DiskS3)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), d))
	return d
}

func TestGormDocumentRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormDocumentRepository(db)

	receipt := saveDocument(t, repo, 1, document.DocumentablePayment, 10, "receipt.pdf")
	photo := saveDocument(t, repo, 1, document.DocumentablePayment, 11, "photo.png")
	contract := saveDocument(t, repo, 1, document.DocumentableInvoice, 10, "contract.pdf")
	saveDocument(t, repo, 2, document.DocumentablePayment, 10, "foreign.pdf")

	t.Run("find by id is company scoped", func(t *testing.T) {
		found, err := repo.FindByIDForCompany(ctx, 1, receipt.ID)
		require.NoError(t, err)
		assert.Equal(t, "pdf", found.Type)
		assert.Equal(t, document.DiskS3, found.Disk)

		_, err = repo.FindByIDForCompany(ctx, 2, receipt.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by documentables", func(t *testing.T) {
		docs, err := repo.FindByDocumentables(ctx, 1, document.DocumentablePayment, []uint64{10, 11})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("deleted documents are not attached", func(t *testing.T) {
		photo.MarkDeleted(time.Now())
		require.NoError(t, repo.Save(ctx, photo))

		docs, err := repo.FindByDocumentables(ctx, 1, document.DocumentablePayment, []uint64{10, 11})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, receipt.ID, docs[0].ID)
	})

	t.Run("list filters by documentable", func(t *testing.T) {
		typ := document.DocumentableInvoice
		f := document.DocumentFilter{Filter: shared.DefaultFilter(), DocumentableType: &typ}
		docs, err := repo.FindAllForCompany(ctx, 1, f)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, contract.ID, docs[0].ID)

		count, err := repo.CountForCompany(ctx, 1, f)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("list hides archived unless requested", func(t *testing.T) {
		f := document.DocumentFilter{Filter: shared.DefaultFilter()}
		docs, err := repo.FindAllForCompany(ctx, 1, f)
		require.NoError(t, err)
		assert.Len(t, docs, 2)

		f.WithTrashed = true
		docs, err = repo.FindAllForCompany(ctx, 1, f)
		require.NoError(t, err)
		assert.Len(t, docs, 3)
	})
}
