package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/invoicing/backend/internal/application/payment"
	"github.com/invoicing/backend/internal/infrastructure/queue"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Job outcomes reported on job.outcome
const (
	JobOutcomeSuccess = "success"
	JobOutcomeRetry   = "retry"
	JobOutcomeFailed  = "failed"
)

var (
	_ payment.Recorder  = (*BusinessMetrics)(nil)
	_ queue.JobObserver = (*BusinessMetrics)(nil)
)

// BusinessMetrics records payment and background job metrics
type BusinessMetrics struct {
	paymentsStored  *Counter
	paymentsDeleted *Counter
	amountStored    *FloatCounter
	amountReversed  *FloatCounter
	jobRuns         *Counter
	jobDuration     *Histogram
	logger          *zap.Logger
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	var err error
	if bm.paymentsStored, err = NewCounter(meter, "payment.stored.count", "Payments created", "{payment}"); err != nil {
		return nil, err
	}
	if bm.paymentsDeleted, err = NewCounter(meter, "payment.deleted.count", "Payments deleted", "{payment}"); err != nil {
		return nil, err
	}
	if bm.amountStored, err = NewFloatCounter(meter, "payment.stored.amount", "Total amount of created payments", "{currency}"); err != nil {
		return nil, err
	}
	if bm.amountReversed, err = NewFloatCounter(meter, "payment.reversed.amount", "Total amount reversed by deletions", "{currency}"); err != nil {
		return nil, err
	}
	if bm.jobRuns, err = NewCounter(meter, "queue.job.runs", "Job attempts by outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if bm.jobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "queue.job.duration",
		Description: "Duration of job attempts",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return bm, nil
}

// PaymentStored counts a created payment and its amount
func (bm *BusinessMetrics) PaymentStored(ctx context.Context, amount decimal.Decimal) {
	bm.paymentsStored.Inc(ctx)
	if amount.IsPositive() {
		bm.amountStored.Add(ctx, amount.InexactFloat64())
	}
}

// PaymentDeleted counts a deleted payment and the amount it reversed
func (bm *BusinessMetrics) PaymentDeleted(ctx context.Context, reversed decimal.Decimal) {
	bm.paymentsDeleted.Inc(ctx)
	if reversed.IsPositive() {
		bm.amountReversed.Add(ctx, reversed.InexactFloat64())
	}
}

// JobFinished records one job attempt
func (bm *BusinessMetrics) JobFinished(ctx context.Context, job *queue.Job, duration time.Duration, err error) {
	outcome := JobOutcome(job, err)
	bm.jobRuns.Inc(ctx, AttrJobType.String(job.Type), AttrJobOutcome.String(outcome))
	bm.jobDuration.RecordDuration(ctx, duration, AttrJobType.String(job.Type), AttrConnection.String(job.Connection))
	if outcome == JobOutcomeFailed {
		bm.logger.Debug("Job failure recorded", zap.String("job_type", job.Type), zap.Int("attempts", job.Attempts))
	}
}

// JobOutcome classifies a finished attempt the same way the pool does
func JobOutcome(job *queue.Job, err error) string {
	switch {
	case err == nil:
		return JobOutcomeSuccess
	case job.ShouldRetry() && !errors.Is(err, queue.ErrPermanent):
		return JobOutcomeRetry
	default:
		return JobOutcomeFailed
	}
}
