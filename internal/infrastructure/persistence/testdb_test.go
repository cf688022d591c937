package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/invoicing/backend/internal/domain/invitation"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database with every table migrated.
// A single connection keeps the in-memory database shared across queries.
func newTestDB(t *testing.T) *gorm.DB {
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

// newMockDatabase opens a postgres-dialect connection backed by sqlmock.
// The caller closes the returned *sql.DB.
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return &Database{Name: "mock", DB: db}, mock, mockDB
}
