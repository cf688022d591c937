package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func query(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	derived, ok := gl.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, gormlogger.Error, derived.level)
}

func TestGormLogger_Messages(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Warn, WithConnection("db-ninja-02"))
	ctx := WithRequestID(context.Background(), "req-1")

	gl.Info(ctx, "ignored %d", 1)
	gl.Warn(ctx, "pool %s", "exhausted")
	gl.Error(ctx, "lost %s", "connection")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "pool exhausted", entries[0].Message)
	assert.Equal(t, "lost connection", entries[1].Message)
	fields := entries[1].ContextMap()
	assert.Equal(t, "db-ninja-02", fields["db.connection"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		wantMsg string
		wantLvl zapcore.Level
	}{
		{name: "statement at info", level: gormlogger.Info, begin: time.Now(), wantMsg: "Query", wantLvl: zapcore.DebugLevel},
		{name: "error", level: gormlogger.Error, begin: time.Now(), err: errors.New("boom"), wantMsg: "Query failed", wantLvl: zapcore.ErrorLevel},
		{
			name:    "slow",
			level:   gormlogger.Warn,
			opts:    []GormLoggerOption{WithSlowThreshold(time.Millisecond)},
			begin:   time.Now().Add(-time.Second),
			wantMsg: "Slow query",
			wantLvl: zapcore.WarnLevel,
		},
		{
			name:    "not found when enabled",
			level:   gormlogger.Error,
			opts:    []GormLoggerOption{WithRecordNotFound(true)},
			begin:   time.Now(),
			err:     gormlogger.ErrRecordNotFound,
			wantMsg: "Query failed",
			wantLvl: zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level, tt.opts...)
			gl.Trace(context.Background(), tt.begin, query("SELECT * FROM payments", 3), tt.err)

			entries := recorded.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLvl, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, "SELECT * FROM payments", fields["db.statement"])
			assert.Equal(t, int64(3), fields["db.rows_affected"])
		})
	}
}

func TestGormLogger_TraceSuppressed(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		opts  []GormLoggerOption
		begin time.Time
		err   error
	}{
		{name: "silent", level: gormlogger.Silent, begin: time.Now(), err: errors.New("boom")},
		{name: "not found by default", level: gormlogger.Error, begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{name: "fast query at warn", level: gormlogger.Warn, begin: time.Now()},
		{name: "slow reporting disabled", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(0)}, begin: time.Now().Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level, tt.opts...)
			called := false
			gl.Trace(context.Background(), tt.begin, func() (string, int64) {
				called = true
				return "SELECT 1", 1
			}, tt.err)

			assert.Empty(t, recorded.All())
			assert.False(t, called, "statement should not be rendered")
		})
	}
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"FATAL":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		" info ":  gormlogger.Info,
		"debug":   gormlogger.Info,
		"verbose": gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
