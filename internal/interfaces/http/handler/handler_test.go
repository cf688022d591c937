package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	appdocument "github.com/invoicing/backend/internal/application/document"
	"github.com/invoicing/backend/internal/application/invitation"
	apppayment "github.com/invoicing/backend/internal/application/payment"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/hashid"
	"github.com/invoicing/backend/internal/infrastructure/persistence"
	"github.com/invoicing/backend/internal/infrastructure/queue"
	"github.com/invoicing/backend/internal/infrastructure/storage"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
	"github.com/invoicing/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type fixture struct {
	db       *gorm.DB
	enc      *hashid.Encoder
	storage  *storage.MemoryStorage
	backend  *queue.MemoryBackend
	payments *PaymentHandler
	router   *gin.Engine
}

// newFixture wires the real services over an in-memory database and mounts
// the handlers on a router that authenticates every request as actor. A zero
// actor leaves requests unauthenticated.
func newFixture(t *testing.T, actor shared.Actor) *fixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	enc := testutil.NewEncoder(t)
	documents := persistence.NewGormDocumentRepository(db)
	objects := storage.NewMemoryStorage("http://objects.test")
	backend := queue.NewMemoryBackend(16)

	payments := apppayment.NewService(
		persistence.NewGormPaymentRepository(db),
		persistence.NewGormInvoiceRepository(db),
		documents,
		persistence.NewGormPaymentTransactionScope(db),
		enc,
		zap.NewNop(),
	)
	docs := appdocument.NewService(documents, objects, enc, zap.NewNop())
	webhooks := invitation.NewWebhookService(queue.NewDispatcher(backend, 3, zap.NewNop()), zap.NewNop())

	r := gin.New()
	r.Use(middleware.RequestID())
	if actor.CompanyID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ActorKey, actor)
			c.Next()
		})
	}

	ph := NewPaymentHandler(payments)
	p := r.Group("/payments")
	p.GET("", ph.List)
	p.POST("", ph.Store)
	p.GET("/create", ph.Create)
	p.POST("/bulk", ph.Bulk)
	p.GET("/:id", ph.Show)
	p.PUT("/:id", ph.Update)
	p.DELETE("/:id", ph.Destroy)
	p.GET("/:id/edit", ph.Edit)
	p.GET("/:id/:action", ph.Action)

	dh := NewDocumentHandler(docs)
	d := r.Group("/documents")
	d.GET("", dh.List)
	d.POST("/bulk", dh.Bulk)
	d.GET("/:id", dh.Show)
	d.GET("/:id/download", dh.Download)

	r.POST("/webhooks/email", NewWebhookHandler(webhooks).EmailEvent)

	return &fixture{db: db, enc: enc, storage: objects, backend: backend, payments: ph, router: r}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func dataAs[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decode(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	return env
}

func requireOK(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	require.True(t, env.Success)
	return env
}
