package telemetry_test

import (
	"context"
	"testing"

	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "invoicing-test",
		MetricsEnabled:    true,
		LogsEnabled:       true,
	}
	logger := zap.NewNop()

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("payments"))
	tp.EnableSpanProfiles()
	assert.False(t, tp.SpanProfilesEnabled())
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, cfg, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("payments"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := telemetry.NewLoggerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.Core("invoicing", zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestProviders_SignalSwitches(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "invoicing-test",
		Insecure:          true,
	}

	mp, err := telemetry.NewMeterProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled(), "metrics need their own switch")

	lp, err := telemetry.NewLoggerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled(), "log export needs its own switch")
}

func TestNilLoggerProvider(t *testing.T) {
	var lp *telemetry.LoggerProvider
	assert.False(t, lp.IsEnabled())
	assert.NotNil(t, lp.Core("invoicing", zapcore.InfoLevel))
}

func TestProfiler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		p, err := telemetry.NewProfiler(config.ProfilingConfig{}, "invoicing", zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("enabled without server address", func(t *testing.T) {
		_, err := telemetry.NewProfiler(config.ProfilingConfig{Enabled: true}, "invoicing", zap.NewNop())
		assert.ErrorContains(t, err, "server address")
	})

	t.Run("enabled without application name", func(t *testing.T) {
		cfg := config.ProfilingConfig{Enabled: true, ServerAddress: "http://localhost:4040"}
		_, err := telemetry.NewProfiler(cfg, "", zap.NewNop())
		assert.ErrorContains(t, err, "application name")
	})
}
