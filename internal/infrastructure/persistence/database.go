package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/invoicing/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is one opened connection of the connection set
type Database struct {
	Name string
	DB   *gorm.DB
}

type databaseOptions struct {
	logger    logger.Interface
	dialector gorm.Dialector
}

// DatabaseOption configures OpenDatabase
type DatabaseOption func(*databaseOptions)

// WithGormLogger sets the GORM logger. The default is silent.
func WithGormLogger(l logger.Interface) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = l
	}
}

// withDialector replaces the postgres dialector built from the DSN
func withDialector(d gorm.Dialector) DatabaseOption {
	return func(o *databaseOptions) {
		o.dialector = d
	}
}

// OpenDatabase connects the named connection, sizes its pool from cfg and
// pings it once.
func OpenDatabase(name string, cfg *config.DatabaseConfig, opts ...DatabaseOption) (*Database, error) {
	o := databaseOptions{logger: logger.Default.LogMode(logger.Silent)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dialector == nil {
		o.dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(o.dialector, &gorm.Config{
		Logger:                 o.logger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("connection %s: failed to connect: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connection %s: failed to get underlying sql.DB: %w", name, err)
	}
	configurePool(sqlDB, cfg)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connection %s: failed to ping: %w", name, err)
	}

	return &Database{Name: name, DB: db}, nil
}

func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// Close closes the connection pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("connection %s: failed to get underlying sql.DB: %w", d.Name, err)
	}
	return sqlDB.Close()
}
