// Package testutil provides common test utilities for the invoicing backend.
// It contains helpers for setting up databases, id encoders, fixtures and
// Gin test contexts.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/domain/invitation"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/hashid"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Gin context keys set by the HTTP middleware
const (
	ActorContextKey     = "actor"
	RequestIDContextKey = "request_id"
)

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a new mock database speaking the postgres dialect.
// The caller is responsible for calling Close() when done.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// Close closes the mock database connection.
func (m *MockDB) Close() error {
	return m.SqlDB.Close()
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	err := m.Mock.ExpectationsWereMet()
	require.NoError(t, err, "Unmet database expectations")
}

// NewSQLiteDB opens an in-memory SQLite database with every table migrated.
// It is limited to one connection so all queries see the same database; code
// under test must not use the outer handle while a transaction is open.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.ClientContactModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
		&models.PaymentableModel{},
		&models.DocumentModel{},
	))
	for _, entity := range invitation.AllEntityTypes() {
		require.NoError(t, db.Table(models.InvitationTable(entity)).Migrator().CreateTable(&models.InvitationModel{}))
	}
	return db
}

// NewEncoder returns the id encoder used by tests
func NewEncoder(t *testing.T) *hashid.Encoder {
	t.Helper()
	enc, err := hashid.New(hashid.Config{Salt: "test-salt"})
	require.NoError(t, err)
	return enc
}

// AdminActor returns an admin of the given company
func AdminActor(companyID uint64) shared.Actor {
	return shared.Actor{CompanyID: companyID, UserID: 1, IsAdmin: true}
}

// CreateInvoice inserts a sent invoice with its full amount outstanding
func CreateInvoice(t *testing.T, db *gorm.DB, companyID uint64, amount string) *invoice.Invoice {
	t.Helper()

	inv, err := invoice.NewInvoice(companyID, 1, "INV-TEST", decimal.RequireFromString(amount))
	require.NoError(t, err)

	model := models.InvoiceModelFromDomain(inv)
	require.NoError(t, db.Create(model).Error)
	return model.ToDomain()
}

// ReloadInvoice reads an invoice straight from the table
func ReloadInvoice(t *testing.T, db *gorm.DB, id uint64) *invoice.Invoice {
	t.Helper()

	var model models.InvoiceModel
	require.NoError(t, db.Unscoped().First(&model, id).Error)
	return model.ToDomain()
}

// SeedInvitation inserts an invitation of entity with its user and contact
func SeedInvitation(t *testing.T, db *gorm.DB, entity invitation.EntityType, messageID string, emailError *string) *models.InvitationModel {
	t.Helper()

	user := &models.UserModel{CompanyID: 1, FirstName: "Owner", Email: "owner@example.com"}
	require.NoError(t, db.Create(user).Error)
	contact := &models.ClientContactModel{CompanyID: 1, ClientID: 1, FirstName: "Ada", Email: "ada@example.com"}
	require.NoError(t, db.Create(contact).Error)

	model := &models.InvitationModel{
		CompanyID:       1,
		UserID:          user.ID,
		ClientContactID: contact.ID,
		EntityID:        1,
		Key:             "key-" + messageID,
		MessageID:       messageID,
		EmailStatus:     "sent",
		EmailError:      emailError,
	}
	require.NoError(t, db.Table(models.InvitationTable(entity)).Omit("User", "Contact").Create(model).Error)
	return model
}

// ReloadInvitation reads an invitation row straight from its table
func ReloadInvitation(t *testing.T, db *gorm.DB, entity invitation.EntityType, id uint64) *models.InvitationModel {
	t.Helper()

	var model models.InvitationModel
	require.NoError(t, db.Table(models.InvitationTable(entity)).Unscoped().Where("id = ?", id).First(&model).Error)
	return &model
}

// TestContext wraps a Gin test context with HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a new Gin test context.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// SetRequestID sets a request ID in the context.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set(RequestIDContextKey, id)
}

// SetActor stores the authenticated actor in the context.
func (tc *TestContext) SetActor(actor shared.Actor) {
	tc.Context.Set(ActorContextKey, actor)
}

// SetHeader sets a header on the request.
func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// AssertEventually retries an assertion function until it passes or times out.
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	t.Fatalf("Condition not met within %v: %v", timeout, msgAndArgs)
}
