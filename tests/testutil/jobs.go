package testutil

import (
	"context"
	"sync"

	"github.com/invoicing/backend/internal/infrastructure/queue"
)

// RecordingHandler is a queue.Handler that remembers every job it ran.
type RecordingHandler struct {
	mu   sync.Mutex
	jobs []*queue.Job
	err  error
}

// NewRecordingHandler creates an empty RecordingHandler.
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{}
}

// Handle records the job and returns the configured error.
func (h *RecordingHandler) Handle(ctx context.Context, job *queue.Job) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jobs = append(h.jobs, job)
	return h.err
}

// Jobs returns a copy of the handled jobs.
func (h *RecordingHandler) Jobs() []*queue.Job {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*queue.Job, len(h.jobs))
	copy(out, h.jobs)
	return out
}

// Count returns the number of handled jobs.
func (h *RecordingHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.jobs)
}

// SetError sets the error to return from Handle.
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}
