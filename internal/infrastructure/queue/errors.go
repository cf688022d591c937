package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolNotRunning is returned when starting work on a stopped pool
	ErrPoolNotRunning = errors.New("worker pool is not running")

	// ErrJobQueueFull is returned when the in-memory queue has no room left
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrQueueClosed is returned by backends after Close
	ErrQueueClosed = errors.New("job queue is closed")

	// ErrUnknownJobType is returned when no handler is registered for a job type
	ErrUnknownJobType = errors.New("unknown job type")

	// ErrInvalidJob is returned for jobs without a type
	ErrInvalidJob = errors.New("invalid job")

	// ErrPermanent marks a handler failure that retrying cannot fix
	ErrPermanent = errors.New("permanent job failure")
)

// Permanent wraps err so the pool gives up on the job without retrying
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}
