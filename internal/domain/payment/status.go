package payment

// Status is the numeric payment status used on the wire
type Status int

const (
	StatusPending           Status = 1
	StatusCancelled         Status = 2
	StatusFailed            Status = 3
	StatusCompleted         Status = 4
	StatusPartiallyRefunded Status = 5
	StatusRefunded          Status = 6
)

// IsValid checks if the status is a known payment status
func (s Status) IsValid() bool {
	return s >= StatusPending && s <= StatusRefunded
}

// String returns a readable name for logs
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	case StatusCompleted:
		return "completed"
	case StatusPartiallyRefunded:
		return "partially_refunded"
	case StatusRefunded:
		return "refunded"
	}
	return "unknown"
}
