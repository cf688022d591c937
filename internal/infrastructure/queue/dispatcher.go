package queue

import (
	"context"

	"go.uber.org/zap"
)

// DispatchOption customizes a dispatched job
type DispatchOption func(*Job)

// OnConnection records the data partition the job must run against
func OnConnection(name string) DispatchOption {
	return func(j *Job) {
		j.Connection = name
	}
}

// WithMaxRetries overrides the dispatcher's retry budget for one job
func WithMaxRetries(n int) DispatchOption {
	return func(j *Job) {
		j.MaxRetries = n
	}
}

// Dispatcher enqueues jobs
type Dispatcher struct {
	backend    Backend
	maxRetries int
	logger     *zap.Logger
}

// NewDispatcher creates a dispatcher pushing to backend
func NewDispatcher(backend Backend, maxRetries int, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{backend: backend, maxRetries: maxRetries, logger: logger}
}

// Dispatch marshals payload into a job of jobType and pushes it
func (d *Dispatcher) Dispatch(ctx context.Context, jobType string, payload any, opts ...DispatchOption) (*Job, error) {
	job, err := NewJob(jobType, payload, "", d.maxRetries)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(job)
	}
	if err := d.backend.Push(ctx, job); err != nil {
		d.logger.Error("Failed to dispatch job",
			zap.String("job_type", jobType),
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	d.logger.Debug("Job dispatched",
		zap.String("job_type", jobType),
		zap.String("job_id", job.ID.String()),
		zap.String("connection", job.Connection),
	)
	return job, nil
}
