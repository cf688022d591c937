package payment_test

import (
	"context"
	"testing"

	apppayment "github.com/invoicing/backend/internal/application/payment"
	"github.com/invoicing/backend/internal/application/transformer"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/payment"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/hashid"
	"github.com/invoicing/backend/internal/infrastructure/persistence"
	"github.com/invoicing/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	enc      *hashid.Encoder
	svc      *apppayment.Service
	payments *persistence.GormPaymentRepository
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	enc := testutil.NewEncoder(t)
	payments := persistence.NewGormPaymentRepository(db)
	svc := apppayment.NewService(
		payments,
		persistence.NewGormInvoiceRepository(db),
		persistence.NewGormDocumentRepository(db),
		persistence.NewGormPaymentTransactionScope(db),
		enc,
		zap.NewNop(),
	)
	return &fixture{db: db, enc: enc, svc: svc, payments: payments, ctx: context.Background()}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func str(s string) *string { return &s }

func itemID(t *testing.T, item transformer.Item) string {
	t.Helper()
	v, ok := item.Get("id")
	require.True(t, ok)
	return v.(string)
}

func field(t *testing.T, item transformer.Item, key string) interface{} {
	t.Helper()
	v, ok := item.Get(key)
	require.True(t, ok, "missing key %s", key)
	return v
}

// store creates a payment through the service, optionally applied to one invoice
func (f *fixture) store(t *testing.T, actor shared.Actor, amount string, inv *invoice.Invoice, applied string) string {
	t.Helper()
	req := apppayment.StorePaymentRequest{Amount: dec(amount), TransactionReference: "REF"}
	if inv != nil {
		req.Invoices = []apppayment.InvoiceAllocation{{InvoiceID: f.enc.Encode(inv.ID), Amount: dec(applied)}}
	}
	item, err := f.svc.Store(f.ctx, actor, req, "")
	require.NoError(t, err)
	return itemID(t, item)
}

func (f *fixture) load(t *testing.T, companyID uint64, hashed string) *payment.Payment {
	t.Helper()
	id, err := f.enc.Decode(hashed)
	require.NoError(t, err)
	p, err := f.payments.FindByIDForCompany(f.ctx, companyID, id)
	require.NoError(t, err)
	return p
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Unscoped().Table("payments").Count(&n).Error)
	return n
}

func TestService_Template(t *testing.T) {
	f := newFixture(t)

	item, err := f.svc.Template(f.ctx, testutil.AdminActor(1))
	require.NoError(t, err)
	assert.Equal(t, transformer.PaymentKeys, item.Keys())
	assert.Equal(t, "", field(t, item, "id"))
	assert.Equal(t, 0.0, field(t, item, "amount"))
	assert.Equal(t, f.enc.Encode(1), field(t, item, "user_id"))
	assert.Zero(t, f.count(t))

	_, err = f.svc.Template(f.ctx, shared.Actor{CompanyID: 1, UserID: 2})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestService_Store(t *testing.T) {
	admin := testutil.AdminActor(1)

	t.Run("applies invoices", func(t *testing.T) {
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 1, "100")

		item, err := f.svc.Store(f.ctx, admin, apppayment.StorePaymentRequest{
			Amount:      dec("60"),
			PaymentDate: "2026-02-01",
			Invoices:    []apppayment.InvoiceAllocation{{InvoiceID: f.enc.Encode(inv.ID), Amount: dec("60")}},
		}, "paymentables")
		require.NoError(t, err)

		assert.Equal(t, 60.0, field(t, item, "applied"))
		assert.Equal(t, "2026-02-01", field(t, item, "date"))
		links := field(t, item, "paymentables").([]transformer.Item)
		require.Len(t, links, 1)
		assert.Equal(t, f.enc.Encode(inv.ID), field(t, links[0], "invoice_id"))

		reloaded := testutil.ReloadInvoice(t, f.db, inv.ID)
		assert.True(t, reloaded.Balance.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, invoice.StatusPartial, reloaded.Status)
	})

	t.Run("amount above balance rolls back", func(t *testing.T) {
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 1, "50")

		_, err := f.svc.Store(f.ctx, admin, apppayment.StorePaymentRequest{
			Amount:   dec("80"),
			Invoices: []apppayment.InvoiceAllocation{{InvoiceID: f.enc.Encode(inv.ID), Amount: dec("80")}},
		}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Zero(t, f.count(t))
		assert.True(t, testutil.ReloadInvoice(t, f.db, inv.ID).Balance.Equal(decimal.NewFromInt(50)))
	})

	t.Run("total above payment amount", func(t *testing.T) {
		f := newFixture(t)
		a := testutil.CreateInvoice(t, f.db, 1, "50")
		b := testutil.CreateInvoice(t, f.db, 1, "50")

		_, err := f.svc.Store(f.ctx, admin, apppayment.StorePaymentRequest{
			Amount: dec("70"),
			Invoices: []apppayment.InvoiceAllocation{
				{InvoiceID: f.enc.Encode(a.ID), Amount: dec("50")},
				{InvoiceID: f.enc.Encode(b.ID), Amount: dec("30")},
			},
		}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, testutil.ReloadInvoice(t, f.db, a.ID).Balance.Equal(decimal.NewFromInt(50)))
	})

	t.Run("invoice of another company", func(t *testing.T) {
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 2, "50")

		_, err := f.svc.Store(f.ctx, admin, apppayment.StorePaymentRequest{
			Amount:   dec("10"),
			Invoices: []apppayment.InvoiceAllocation{{InvoiceID: f.enc.Encode(inv.ID), Amount: dec("10")}},
		}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("malformed ids", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Store(f.ctx, admin, apppayment.StorePaymentRequest{Amount: dec("10"), ClientID: "@@"}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = f.svc.Store(f.ctx, admin, apppayment.StorePaymentRequest{
			Amount:   dec("10"),
			Invoices: []apppayment.InvoiceAllocation{{InvoiceID: "nope", Amount: dec("1")}},
		}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("requires create permission", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Store(f.ctx, shared.Actor{CompanyID: 1, UserID: 3}, apppayment.StorePaymentRequest{Amount: dec("1")}, "")
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestService_Show(t *testing.T) {
	f := newFixture(t)
	id := f.store(t, testutil.AdminActor(1), "25", nil, "")

	t.Run("found", func(t *testing.T) {
		item, err := f.svc.Show(f.ctx, testutil.AdminActor(1), id, "")
		require.NoError(t, err)
		assert.Equal(t, id, itemID(t, item))
	})

	t.Run("other company is not found", func(t *testing.T) {
		_, err := f.svc.Show(f.ctx, testutil.AdminActor(2), id, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("undecodable id is not found", func(t *testing.T) {
		_, err := f.svc.Show(f.ctx, testutil.AdminActor(1), "not-an-id", "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("no permission is forbidden", func(t *testing.T) {
		_, err := f.svc.Edit(f.ctx, shared.Actor{CompanyID: 1, UserID: 9}, id, "")
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("archived is resolvable", func(t *testing.T) {
		_, err := f.svc.Action(f.ctx, testutil.AdminActor(1), id, "archive", "")
		require.NoError(t, err)

		item, err := f.svc.Show(f.ctx, testutil.AdminActor(1), id, "")
		require.NoError(t, err)
		assert.NotZero(t, field(t, item, "archived_at"))
	})
}

func TestService_Update(t *testing.T) {
	admin := testutil.AdminActor(1)

	t.Run("same input twice gives the same state", func(t *testing.T) {
		f := newFixture(t)
		id := f.store(t, admin, "40", nil, "")
		req := apppayment.UpdatePaymentRequest{
			TransactionReference: str("TX-42"),
			PaymentDate:          str("2026-03-04"),
			Amount:               dec("45"),
		}

		first, err := f.svc.Update(f.ctx, admin, id, req, "")
		require.NoError(t, err)
		second, err := f.svc.Update(f.ctx, admin, id, req, "")
		require.NoError(t, err)

		for _, key := range transformer.PaymentKeys {
			if key == "updated_at" {
				continue
			}
			assert.Equal(t, field(t, first, key), field(t, second, key), key)
		}
		assert.Equal(t, "TX-42", f.load(t, 1, id).TransactionReference)
	})

	t.Run("deleted payment is disallowed and untouched", func(t *testing.T) {
		f := newFixture(t)
		id := f.store(t, admin, "40", nil, "")
		_, err := f.svc.Destroy(f.ctx, admin, id, "")
		require.NoError(t, err)
		before := f.load(t, 1, id)

		_, err = f.svc.Update(f.ctx, admin, id, apppayment.UpdatePaymentRequest{TransactionReference: str("changed")}, "")
		assert.ErrorIs(t, err, shared.ErrDisallowed)

		after := f.load(t, 1, id)
		assert.Equal(t, before.TransactionReference, after.TransactionReference)
		assert.Equal(t, before.UpdatedAt.Unix(), after.UpdatedAt.Unix())
	})

	t.Run("amount below applied", func(t *testing.T) {
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 1, "100")
		id := f.store(t, admin, "60", inv, "60")

		_, err := f.svc.Update(f.ctx, admin, id, apppayment.UpdatePaymentRequest{Amount: dec("50")}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, f.load(t, 1, id).Amount.Equal(decimal.NewFromInt(60)))
	})

	t.Run("owner may edit without permission", func(t *testing.T) {
		f := newFixture(t)
		owner := shared.Actor{CompanyID: 1, UserID: 5, Permissions: []string{"create_payment"}}
		id := f.store(t, owner, "10", nil, "")

		_, err := f.svc.Update(f.ctx, owner, id, apppayment.UpdatePaymentRequest{Number: str("P-1")}, "")
		require.NoError(t, err)

		_, err = f.svc.Update(f.ctx, shared.Actor{CompanyID: 1, UserID: 6}, id, apppayment.UpdatePaymentRequest{Number: str("P-2")}, "")
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, "P-1", f.load(t, 1, id).Number)
	})
}

// staleScope hands out transaction repositories that still see the payment as
// it was in snapshot, like a read taken just before a concurrent destroy committed
type staleScope struct {
	inner    apppayment.TransactionScope
	snapshot *payment.Payment
}

func (s staleScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos apppayment.TransactionalRepositories) error {
		return fn(staleRepos{TransactionalRepositories: repos, snapshot: s.snapshot})
	})
}

type staleRepos struct {
	apppayment.TransactionalRepositories
	snapshot *payment.Payment
}

func (r staleRepos) Payments() payment.PaymentRepository {
	return stalePayments{PaymentRepository: r.TransactionalRepositories.Payments(), snapshot: r.snapshot}
}

type stalePayments struct {
	payment.PaymentRepository
	snapshot *payment.Payment
}

func (r stalePayments) copy() *payment.Payment {
	p := *r.snapshot
	p.Paymentables = append([]payment.Paymentable(nil), r.snapshot.Paymentables...)
	return &p
}

func (r stalePayments) FindByIDForCompany(context.Context, uint64, uint64) (*payment.Payment, error) {
	return r.copy(), nil
}

func (r stalePayments) FindByIDForUpdate(context.Context, uint64, uint64) (*payment.Payment, error) {
	return r.copy(), nil
}

func TestService_WritesDoNotResurrectDeletedPayment(t *testing.T) {
	admin := testutil.AdminActor(1)

	setup := func(t *testing.T) (*fixture, *apppayment.Service, string, *payment.Payment) {
		t.Helper()
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 1, "100")
		id := f.store(t, admin, "60", inv, "60")
		snapshot := f.load(t, 1, id)

		_, err := f.svc.Destroy(f.ctx, admin, id, "")
		require.NoError(t, err)
		require.True(t, testutil.ReloadInvoice(t, f.db, inv.ID).Balance.Equal(decimal.NewFromInt(100)))

		stale := apppayment.NewService(
			stalePayments{PaymentRepository: f.payments, snapshot: snapshot},
			persistence.NewGormInvoiceRepository(f.db),
			persistence.NewGormDocumentRepository(f.db),
			staleScope{inner: persistence.NewGormPaymentTransactionScope(f.db), snapshot: snapshot},
			f.enc,
			zap.NewNop(),
		)
		return f, stale, id, f.load(t, 1, id)
	}

	assertUnchanged := func(t *testing.T, f *fixture, id string, deleted *payment.Payment) {
		t.Helper()
		stored := f.load(t, 1, id)
		assert.True(t, stored.IsDeleted)
		assert.True(t, stored.Applied.Equal(deleted.Applied), "applied %s", stored.Applied)
		assert.Equal(t, deleted.TransactionReference, stored.TransactionReference)
		assert.Equal(t, deleted.IsArchived(), stored.IsArchived())
	}

	t.Run("update", func(t *testing.T) {
		f, stale, id, deleted := setup(t)

		_, err := stale.Update(f.ctx, admin, id, apppayment.UpdatePaymentRequest{TransactionReference: str("WIRE-9")}, "")
		assert.ErrorIs(t, err, shared.ErrDisallowed)
		assertUnchanged(t, f, id, deleted)
	})

	t.Run("bulk archive", func(t *testing.T) {
		f, stale, id, deleted := setup(t)

		_, err := stale.Bulk(f.ctx, admin, apppayment.BulkRequest{Action: "archive", IDs: []string{id}}, "")
		require.NoError(t, err)
		assertUnchanged(t, f, id, deleted)
	})
}

func TestService_Destroy(t *testing.T) {
	admin := testutil.AdminActor(1)

	t.Run("reverses invoices before deleting", func(t *testing.T) {
		f := newFixture(t)
		a := testutil.CreateInvoice(t, f.db, 1, "100")
		b := testutil.CreateInvoice(t, f.db, 1, "30")
		item, err := f.svc.Store(f.ctx, admin, apppayment.StorePaymentRequest{
			Amount: dec("130"),
			Invoices: []apppayment.InvoiceAllocation{
				{InvoiceID: f.enc.Encode(a.ID), Amount: dec("100")},
				{InvoiceID: f.enc.Encode(b.ID), Amount: dec("30")},
			},
		}, "")
		require.NoError(t, err)
		id := itemID(t, item)
		assert.Equal(t, invoice.StatusPaid, testutil.ReloadInvoice(t, f.db, a.ID).Status)

		deleted, err := f.svc.Destroy(f.ctx, admin, id, "paymentables")
		require.NoError(t, err)
		assert.Equal(t, true, field(t, deleted, "is_deleted"))
		assert.Equal(t, 0.0, field(t, deleted, "applied"))
		assert.NotZero(t, field(t, deleted, "archived_at"))
		assert.Len(t, field(t, deleted, "paymentables"), 2)

		for _, inv := range []*invoice.Invoice{a, b} {
			reloaded := testutil.ReloadInvoice(t, f.db, inv.ID)
			assert.True(t, reloaded.Balance.Equal(inv.Amount))
			assert.True(t, reloaded.PaidToDate.IsZero())
			assert.Equal(t, invoice.StatusSent, reloaded.Status)
		}
	})

	t.Run("second delete does not reverse again", func(t *testing.T) {
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 1, "100")
		id := f.store(t, admin, "40", inv, "40")

		_, err := f.svc.Destroy(f.ctx, admin, id, "")
		require.NoError(t, err)
		_, err = f.svc.Destroy(f.ctx, admin, id, "")
		require.NoError(t, err)

		reloaded := testutil.ReloadInvoice(t, f.db, inv.ID)
		assert.True(t, reloaded.Balance.Equal(decimal.NewFromInt(100)))
		assert.True(t, reloaded.PaidToDate.IsZero())
	})

	t.Run("failed reversal leaves the payment live", func(t *testing.T) {
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 1, "100")
		id := f.store(t, admin, "60", inv, "60")
		require.NoError(t, f.db.Table("invoices").Where("id = ?", inv.ID).UpdateColumn("paid_to_date", 10).Error)

		_, err := f.svc.Destroy(f.ctx, admin, id, "")
		require.Error(t, err)

		p := f.load(t, 1, id)
		assert.False(t, p.IsDeleted)
		assert.False(t, p.IsArchived())
		assert.True(t, p.Applied.Equal(decimal.NewFromInt(60)))
	})
}

func TestService_Bulk(t *testing.T) {
	admin := testutil.AdminActor(1)

	t.Run("skips bad, foreign and unauthorized ids", func(t *testing.T) {
		f := newFixture(t)
		member := shared.Actor{CompanyID: 1, UserID: 5, Permissions: []string{"create_payment", "view_payment"}}
		own := f.store(t, member, "10", nil, "")
		others := f.store(t, admin, "20", nil, "")
		foreign := f.store(t, testutil.AdminActor(2), "30", nil, "")

		items, err := f.svc.Bulk(f.ctx, member, apppayment.BulkRequest{
			Action: "archive",
			IDs:    []string{own, "garbage", others, foreign, own, f.enc.Encode(9999)},
		}, "")
		require.NoError(t, err)

		require.Len(t, items, 2)
		got := map[string]transformer.Item{}
		for _, it := range items {
			got[itemID(t, it)] = it
		}
		assert.NotZero(t, field(t, got[own], "archived_at"))
		assert.Zero(t, field(t, got[others], "archived_at"))
		assert.False(t, f.load(t, 2, foreign).IsArchived())
	})

	t.Run("restore skips deleted payments", func(t *testing.T) {
		f := newFixture(t)
		archived := f.store(t, admin, "10", nil, "")
		deleted := f.store(t, admin, "10", nil, "")
		_, err := f.svc.Bulk(f.ctx, admin, apppayment.BulkRequest{Action: "archive", IDs: []string{archived}}, "")
		require.NoError(t, err)
		_, err = f.svc.Bulk(f.ctx, admin, apppayment.BulkRequest{Action: "delete", IDs: []string{deleted}}, "")
		require.NoError(t, err)

		items, err := f.svc.Bulk(f.ctx, admin, apppayment.BulkRequest{Action: "restore", IDs: []string{archived, deleted}}, "")
		require.NoError(t, err)
		assert.Len(t, items, 2)

		assert.False(t, f.load(t, 1, archived).IsArchived())
		stillDeleted := f.load(t, 1, deleted)
		assert.True(t, stillDeleted.IsDeleted)
		assert.True(t, stillDeleted.IsArchived())
	})

	t.Run("delete reverses invoices", func(t *testing.T) {
		f := newFixture(t)
		inv := testutil.CreateInvoice(t, f.db, 1, "100")
		id := f.store(t, admin, "100", inv, "100")

		_, err := f.svc.Bulk(f.ctx, admin, apppayment.BulkRequest{Action: "delete", IDs: []string{id}}, "")
		require.NoError(t, err)
		assert.True(t, testutil.ReloadInvoice(t, f.db, inv.ID).Balance.Equal(decimal.NewFromInt(100)))
		assert.True(t, f.load(t, 1, id).IsDeleted)
	})

	t.Run("unknown action", func(t *testing.T) {
		f := newFixture(t)
		id := f.store(t, admin, "10", nil, "")

		_, err := f.svc.Bulk(f.ctx, admin, apppayment.BulkRequest{Action: "refund", IDs: []string{id}}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.False(t, f.load(t, 1, id).IsArchived())
	})
}

func TestService_Action(t *testing.T) {
	admin := testutil.AdminActor(1)
	f := newFixture(t)
	id := f.store(t, admin, "10", nil, "")

	t.Run("extension points return the current representation", func(t *testing.T) {
		for _, name := range []string{"clone_to_invoice", "clone_to_quote", "history", "delivery_note", "mark_paid", "download", "email"} {
			item, err := f.svc.Action(f.ctx, admin, id, name, "")
			require.NoError(t, err, name)
			assert.Equal(t, id, itemID(t, item))
			assert.Zero(t, field(t, item, "archived_at"))
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := f.svc.Action(f.ctx, admin, id, "explode", "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("archive then delete", func(t *testing.T) {
		item, err := f.svc.Action(f.ctx, admin, id, "archive", "")
		require.NoError(t, err)
		assert.NotZero(t, field(t, item, "archived_at"))
		assert.Equal(t, false, field(t, item, "is_deleted"))

		item, err = f.svc.Action(f.ctx, admin, id, "delete", "")
		require.NoError(t, err)
		assert.Equal(t, true, field(t, item, "is_deleted"))
	})
}

func TestService_List(t *testing.T) {
	admin := testutil.AdminActor(1)
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.store(t, admin, "10", nil, "")
	}
	archived := f.store(t, admin, "99", nil, "")
	_, err := f.svc.Action(f.ctx, admin, archived, "archive", "")
	require.NoError(t, err)
	f.store(t, testutil.AdminActor(2), "10", nil, "")

	t.Run("paginates within the company", func(t *testing.T) {
		page, err := f.svc.List(f.ctx, admin, apppayment.ListPaymentsRequest{Page: 2, PerPage: 2})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("with trashed includes archived", func(t *testing.T) {
		page, err := f.svc.List(f.ctx, admin, apppayment.ListPaymentsRequest{WithTrashed: true, Sort: "amount|desc"})
		require.NoError(t, err)
		assert.Equal(t, int64(6), page.Total)
		assert.Equal(t, archived, itemID(t, page.Items[0]))
	})

	t.Run("status filter", func(t *testing.T) {
		page, err := f.svc.List(f.ctx, admin, apppayment.ListPaymentsRequest{Status: "1,2"})
		require.NoError(t, err)
		assert.Zero(t, page.Total)

		page, err = f.svc.List(f.ctx, admin, apppayment.ListPaymentsRequest{Status: "4"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("invalid filters", func(t *testing.T) {
		for _, req := range []apppayment.ListPaymentsRequest{
			{Status: "9"},
			{Status: "x"},
			{ClientID: "??"},
			{Sort: "amount|sideways"},
			{Page: -1},
		} {
			_, err := f.svc.List(f.ctx, admin, req)
			assert.ErrorIs(t, err, shared.ErrValidation)
		}
	})

	t.Run("requires view on the resource class", func(t *testing.T) {
		_, err := f.svc.List(f.ctx, shared.Actor{CompanyID: 1, UserID: 1}, apppayment.ListPaymentsRequest{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
