// Package queue runs background jobs on a worker pool fed by an in-memory
// or Redis backed queue.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job is a unit of background work. The payload is an immutable JSON document
// owned by the job type's handler.
type Job struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Connection  string          `json:"connection,omitempty"`
	Attempts    int             `json:"attempts"`
	MaxRetries  int             `json:"max_retries"`
	NextRetryAt *time.Time      `json:"next_retry_at,omitempty"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
	LastError   string          `json:"last_error,omitempty"`
}

// NewJob marshals payload into a new job of the given type
func NewJob(jobType string, payload any, connection string, maxRetries int) (*Job, error) {
	if jobType == "" {
		return nil, fmt.Errorf("%w: empty job type", ErrInvalidJob)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", jobType, err)
	}
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    raw,
		Connection: connection,
		MaxRetries: maxRetries,
		EnqueuedAt: time.Now(),
	}, nil
}

// Decode unmarshals the payload into v
func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", j.Type, err)
	}
	return nil
}

// Ready reports whether the job may run at now
func (j *Job) Ready(now time.Time) bool {
	return j.NextRetryAt == nil || !now.Before(*j.NextRetryAt)
}

// ShouldRetry returns true if another attempt is allowed after a failure
func (j *Job) ShouldRetry() bool {
	return j.Attempts <= j.MaxRetries
}

// ScheduleRetry records the failure and delays the next attempt
func (j *Job) ScheduleRetry(delay time.Duration, cause error) {
	next := time.Now().Add(delay)
	j.NextRetryAt = &next
	if cause != nil {
		j.LastError = cause.Error()
	}
}

func encodeJob(j *Job) ([]byte, error) {
	return json.Marshal(j)
}

func decodeJob(data []byte) (*Job, error) {
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	if j.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidJob)
	}
	return &j, nil
}
