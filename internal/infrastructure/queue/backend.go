package queue

import (
	"context"
	"sync"
)

// Backend stores pending jobs
type Backend interface {
	// Push enqueues a job
	Push(ctx context.Context, job *Job) error
	// Pop blocks until a job is available, ctx is done or the backend is closed
	Pop(ctx context.Context) (*Job, error)
	// Close releases the backend; later calls return ErrQueueClosed
	Close() error
}

// MemoryBackend is a bounded in-process queue
type MemoryBackend struct {
	jobs   chan *Job
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewMemoryBackend creates an in-memory queue holding up to size jobs
func NewMemoryBackend(size int) *MemoryBackend {
	if size <= 0 {
		size = 100
	}
	return &MemoryBackend{
		jobs: make(chan *Job, size),
		done: make(chan struct{}),
	}
}

// Push enqueues without blocking; a full queue returns ErrJobQueueFull
func (b *MemoryBackend) Push(_ context.Context, job *Job) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrQueueClosed
	}
	select {
	case b.jobs <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

// Pop waits for the next job
func (b *MemoryBackend) Pop(ctx context.Context) (*Job, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.done:
		return nil, ErrQueueClosed
	case job := <-b.jobs:
		return job, nil
	}
}

// Len returns the number of pending jobs
func (b *MemoryBackend) Len() int {
	return len(b.jobs)
}

// Close stops the queue. Pending jobs are dropped.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
