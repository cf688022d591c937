package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartKey contextKey = "otel_query_start"

// DBTracing adds otelgorm spans to a connection and marks slow or failed
// statements on them
type DBTracing struct {
	enabled    bool
	fullSQL    bool
	slowQuery  time.Duration
	connection string
	logger     *zap.Logger
}

// NewDBTracing builds the plugin for the named connection
func NewDBTracing(cfg config.TelemetryConfig, connection string, logger *zap.Logger) *DBTracing {
	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &DBTracing{
		enabled:    cfg.Enabled && cfg.DBTraceEnabled,
		fullSQL:    cfg.DBLogFullSQL,
		slowQuery:  slow,
		connection: connection,
		logger:     logger,
	}
}

// Register installs the plugin on db. It does nothing when tracing is off.
func (t *DBTracing) Register(db *gorm.DB) error {
	if !t.enabled {
		return nil
	}

	// registered ahead of otelgorm so the after hooks see its span still open
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("otel_slow:before_create", t.before); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("otel_slow:before_query", t.before); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("otel_slow:before_update", t.before); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("otel_slow:before_delete", t.before); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("otel_slow:before_row", t.before); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("otel_slow:before_raw", t.before); err != nil {
		return err
	}

	if err := cb.Create().After("gorm:create").Register("otel_slow:after_create", t.after); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel_slow:after_query", t.after); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel_slow:after_update", t.after); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel_slow:after_delete", t.after); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel_slow:after_row", t.after); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("otel_slow:after_raw", t.after); err != nil {
		return err
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(t.connection),
		otelgorm.WithAttributes(AttrConnection.String(t.connection)),
	}
	if !t.fullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.String("connection", t.connection),
		zap.Bool("full_sql", t.fullSQL),
		zap.Duration("slow_query_threshold", t.slowQuery),
	)
	return nil
}

func (t *DBTracing) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
	}
}

func (t *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if start, ok := ctx.Value(queryStartKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > t.slowQuery {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
