package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/payment"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savePayment(t *testing.T, repo *GormPaymentRepository, companyID uint64, number string, amount int64) *payment.Payment {
	t.Helper()
	p := payment.NewTemplate(companyID, 1)
	p.Number = number
	p.Amount = decimal.NewFromInt(amount)
	require.NoError(t, repo.Save(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestGormPaymentRepository_SaveWithPaymentables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	payments := NewGormPaymentRepository(db)
	invoices := NewGormInvoiceRepository(db)

	inv, err := invoice.NewInvoice(1, 1, "INV-1", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, invoices.Save(ctx, inv))

	p := payment.NewTemplate(1, 1)
	p.Amount = decimal.NewFromInt(60)
	require.NoError(t, p.ApplyToInvoice(inv, decimal.NewFromInt(60)))
	require.NoError(t, payments.Save(ctx, p))
	require.NoError(t, invoices.Save(ctx, inv))

	found, err := payments.FindByIDForCompany(ctx, 1, p.ID)
	require.NoError(t, err)
	require.Len(t, found.Paymentables, 1)
	assert.NotZero(t, found.Paymentables[0].ID)
	assert.Equal(t, p.ID, found.Paymentables[0].PaymentID)
	assert.Equal(t, inv.ID, found.Paymentables[0].InvoiceID)
	assert.True(t, decimal.NewFromInt(60).Equal(found.Applied))

	// saving again must not duplicate the link
	found.PrivateNotes = "checked"
	require.NoError(t, payments.Save(ctx, found))
	again, err := payments.FindByIDForCompany(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Len(t, again.Paymentables, 1)
	assert.Equal(t, "checked", again.PrivateNotes)

	storedInvoice, err := invoices.FindByIDForCompany(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(storedInvoice.Balance))
	assert.Equal(t, invoice.StatusPartial, storedInvoice.Status)
}

func TestGormPaymentRepository_FindByIDForCompany(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormPaymentRepository(db)
	p := savePayment(t, repo, 1, "P-1", 10)

	t.Run("other company is not found", func(t *testing.T) {
		_, err := repo.FindByIDForCompany(ctx, 2, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.FindByIDForCompany(ctx, 1, p.ID+100)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("archived payment is still resolvable", func(t *testing.T) {
		p.Archive(time.Now())
		require.NoError(t, repo.Save(ctx, p))

		found, err := repo.FindByIDForCompany(ctx, 1, p.ID)
		require.NoError(t, err)
		assert.True(t, found.IsArchived())
	})
}

func TestGormPaymentRepository_FindByIDsForCompany(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormPaymentRepository(db)
	a := savePayment(t, repo, 1, "A", 10)
	b := savePayment(t, repo, 1, "B", 20)
	other := savePayment(t, repo, 2, "C", 30)

	b.Archive(time.Now())
	require.NoError(t, repo.Save(ctx, b))

	found, err := repo.FindByIDsForCompany(ctx, 1, []uint64{a.ID, b.ID, other.ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, a.ID, found[0].ID)
	assert.Equal(t, b.ID, found[1].ID)

	empty, err := repo.FindByIDsForCompany(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormPaymentRepository_FindAllForCompany(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormPaymentRepository(db)

	first := savePayment(t, repo, 1, "ACME-001", 10)
	second := savePayment(t, repo, 1, "ACME-002", 20)
	third := savePayment(t, repo, 1, "OTHER-003", 30)
	savePayment(t, repo, 2, "ACME-999", 40)

	third.Status = payment.StatusPending
	third.Archive(time.Now())
	require.NoError(t, repo.Save(ctx, third))

	second.MarkDeleted(time.Now())
	require.NoError(t, repo.Save(ctx, second))

	list := func(f payment.PaymentFilter) []payment.Payment {
		f.Filter.Normalize()
		items, err := repo.FindAllForCompany(ctx, 1, f)
		require.NoError(t, err)
		return items
	}

	t.Run("archived rows are hidden by default", func(t *testing.T) {
		items := list(payment.PaymentFilter{})
		require.Len(t, items, 1)
		assert.Equal(t, first.ID, items[0].ID)
	})

	t.Run("with trashed includes archived rows", func(t *testing.T) {
		items := list(payment.PaymentFilter{Filter: shared.Filter{WithTrashed: true, OrderBy: "amount", OrderDir: "asc"}})
		require.Len(t, items, 3)
		assert.Equal(t, []uint64{first.ID, second.ID, third.ID}, []uint64{items[0].ID, items[1].ID, items[2].ID})
	})

	t.Run("search matches number", func(t *testing.T) {
		items := list(payment.PaymentFilter{Filter: shared.Filter{WithTrashed: true, Search: "acme"}})
		assert.Len(t, items, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		items := list(payment.PaymentFilter{
			Filter:   shared.Filter{WithTrashed: true},
			Statuses: []payment.Status{payment.StatusPending},
		})
		require.Len(t, items, 1)
		assert.Equal(t, third.ID, items[0].ID)
	})

	t.Run("is_deleted filter", func(t *testing.T) {
		deleted := true
		items := list(payment.PaymentFilter{Filter: shared.Filter{WithTrashed: true}, IsDeleted: &deleted})
		require.Len(t, items, 1)
		assert.Equal(t, second.ID, items[0].ID)
	})

	t.Run("pagination and count", func(t *testing.T) {
		f := payment.PaymentFilter{Filter: shared.Filter{WithTrashed: true, Page: 2, PageSize: 2}}
		items := list(f)
		assert.Len(t, items, 1)

		count, err := repo.CountForCompany(ctx, 1, f)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormPaymentRepository_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormPaymentRepository(db)

	t.Run("writes own columns", func(t *testing.T) {
		p := savePayment(t, repo, 1, "P-1", 50)
		p.TransactionReference = "WIRE-1"
		p.Archive(time.Now())
		require.NoError(t, repo.Update(ctx, p))

		found, err := repo.FindByIDForCompany(ctx, 1, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "WIRE-1", found.TransactionReference)
		assert.True(t, found.IsArchived())
		assert.False(t, found.IsDeleted)
	})

	t.Run("stale copy of a deleted payment is rejected", func(t *testing.T) {
		p := savePayment(t, repo, 1, "P-2", 50)
		stale := *p

		p.MarkDeleted(time.Now())
		require.NoError(t, repo.Save(ctx, p))

		stale.TransactionReference = "late"
		assert.ErrorIs(t, repo.Update(ctx, &stale), shared.ErrDisallowed)

		found, err := repo.FindByIDForCompany(ctx, 1, p.ID)
		require.NoError(t, err)
		assert.True(t, found.IsDeleted)
		assert.Empty(t, found.TransactionReference)
	})

	t.Run("other company", func(t *testing.T) {
		p := savePayment(t, repo, 1, "P-3", 50)
		p.CompanyID = 2
		assert.ErrorIs(t, repo.Update(ctx, p), shared.ErrDisallowed)
	})
}

func TestGormPaymentRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the row on postgres", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE company_id = \$1 AND id = \$2 .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "amount"}).AddRow(5, 1, "12.5"))
		mock.ExpectQuery(`SELECT \* FROM "paymentables" WHERE "paymentables"."payment_id" = \$1`).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "invoice_id"}))

		p, err := NewGormPaymentRepository(db.DB).FindByIDForUpdate(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), p.ID)
		assert.True(t, decimal.RequireFromString("12.5").Equal(p.Amount))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := NewGormPaymentRepository(newTestDB(t)).FindByIDForUpdate(context.Background(), 1, 404)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
