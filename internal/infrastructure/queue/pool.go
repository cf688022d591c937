package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PoolConfig holds worker pool configuration
type PoolConfig struct {
	Workers      int
	JobTimeout   time.Duration
	RetryDelay   time.Duration
	PollInterval time.Duration
}

// DefaultPoolConfig returns default worker pool configuration
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers:      4,
		JobTimeout:   time.Minute,
		RetryDelay:   10 * time.Second,
		PollInterval: 100 * time.Millisecond,
	}
}

// JobObserver is notified about finished attempts, e.g. to record metrics
type JobObserver interface {
	JobFinished(ctx context.Context, job *Job, duration time.Duration, err error)
}

// Pool runs jobs from a backend on a fixed number of workers
type Pool struct {
	config   PoolConfig
	backend  Backend
	registry *Registry
	observer JobObserver
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// PoolOption configures a Pool
type PoolOption func(*Pool)

// WithObserver attaches a job observer
func WithObserver(o JobObserver) PoolOption {
	return func(p *Pool) {
		p.observer = o
	}
}

// NewPool creates a new worker pool
func NewPool(config PoolConfig, backend Backend, registry *Registry, logger *zap.Logger, opts ...PoolOption) *Pool {
	defaults := DefaultPoolConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	p := &Pool{
		config:   config,
		backend:  backend,
		registry: registry,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start starts the workers
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		return nil
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.logger.Info("Job worker pool started",
		zap.Int("workers", p.config.Workers),
		zap.Duration("job_timeout", p.config.JobTimeout),
		zap.Strings("job_types", p.registry.Types()),
	)
	return nil
}

// Stop stops taking new jobs and waits for running ones to finish
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Job worker pool stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Job worker pool stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the pool has been started and not stopped
func (p *Pool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

func (p *Pool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	p.logger.Debug("Worker started", zap.Int("worker_id", workerID))

	for {
		job, err := p.backend.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				p.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
				return
			}
			p.logger.Error("Failed to take job", zap.Int("worker_id", workerID), zap.Error(err))
			if !p.sleep(ctx, p.config.PollInterval) {
				return
			}
			continue
		}

		if !job.Ready(time.Now()) {
			p.requeue(ctx, job)
			if !p.sleep(ctx, min(time.Until(*job.NextRetryAt), p.config.PollInterval)) {
				return
			}
			continue
		}

		p.processJob(ctx, job, workerID)
	}
}

// processJob executes a single job. Running jobs are not cancelled by Stop;
// they are bounded by the job timeout instead.
func (p *Pool) processJob(ctx context.Context, job *Job, workerID int) {
	log := p.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", job.Type),
	)

	handler, err := p.registry.Lookup(job.Type)
	if err != nil {
		log.Error("Discarding job without handler", zap.Error(err))
		return
	}

	job.Attempts++
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err = p.run(jobCtx, handler, job)
	if p.observer != nil {
		p.observer.JobFinished(jobCtx, job, time.Since(start), err)
	}

	if err == nil {
		log.Debug("Job completed", zap.Int("attempt", job.Attempts))
		return
	}

	if job.ShouldRetry() && !errors.Is(err, ErrPermanent) {
		job.ScheduleRetry(p.config.RetryDelay, err)
		log.Warn("Job failed, scheduled for retry",
			zap.Int("attempt", job.Attempts),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		p.requeue(ctx, job)
		return
	}

	log.Error("Job failed permanently",
		zap.Int("attempt", job.Attempts),
		zap.Error(err),
	)
}

// run calls the handler and converts a panic into an error
func (p *Pool) run(ctx context.Context, handler Handler, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, job)
}

func (p *Pool) requeue(ctx context.Context, job *Job) {
	if err := p.backend.Push(context.WithoutCancel(ctx), job); err != nil {
		p.logger.Warn("Failed to re-queue job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}

func (p *Pool) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
