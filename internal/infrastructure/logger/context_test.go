package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func validSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()), "missing logger falls back to a no-op")

	base := zap.NewExample()
	assert.Same(t, base, FromContext(WithContext(context.Background(), base)))
}

func TestRequestAndActorValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	_, _, ok := GetActor(ctx)
	assert.False(t, ok)

	ctx = WithActor(WithRequestID(ctx, "req-1"), 7, 3)
	assert.Equal(t, "req-1", GetRequestID(ctx))
	companyID, userID, ok := GetActor(ctx)
	require.True(t, ok)
	assert.Equal(t, uint64(7), companyID)
	assert.Equal(t, uint64(3), userID)
}

func TestFields(t *testing.T) {
	t.Run("empty context has no fields", func(t *testing.T) {
		assert.Empty(t, Fields(context.Background()))
		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("invalid span context is ignored", func(t *testing.T) {
		ctx := trace.ContextWithSpanContext(context.Background(), trace.SpanContext{})
		assert.Empty(t, Fields(ctx))
	})

	t.Run("all fields", func(t *testing.T) {
		ctx := trace.ContextWithSpanContext(context.Background(), validSpanContext(t))
		ctx = WithActor(WithRequestID(ctx, "req-1"), 7, 3)

		core, recorded := observer.New(zapcore.InfoLevel)
		zap.New(core).Info("x", Fields(ctx)...)

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, uint64(7), fields["company_id"])
		assert.Equal(t, uint64(3), fields["user_id"])
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
	})
}

func TestL(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithActor(ctx, 9, 1)

	L(ctx).Info("bulk applied", zap.String("action", "archive"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "archive", fields["action"])
	assert.Equal(t, uint64(9), fields["company_id"])
}

func TestEnrich_NilBase(t *testing.T) {
	assert.NotPanics(t, func() {
		Enrich(WithRequestID(context.Background(), "r"), nil).Info("dropped")
	})
}
