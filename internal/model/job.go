// internal/model/job.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a print job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusPrinting  JobStatus = "PRINTING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// JobPriority represents print job priority
type JobPriority int

const (
	PriorityHigh   JobPriority = 1
	PriorityNormal JobPriority = 2
	PriorityLow    JobPriority = 3
)

// JobContent is what a job prints: a canonical receipt, raw text, or
// pre-encoded bytes. Exactly one of the fields is set.
type JobContent struct {
	Receipt  *ReceiptData `json:"receipt,omitempty"`
	Text     string       `json:"text,omitempty"`
	Raw      []byte       `json:"raw,omitempty"`
	RawOrder JSONObject   `json:"raw_order,omitempty"` // original payload, kept for context
}

// PrintJob represents a queued transmission to a printer. The queue
// exclusively owns jobs and holds only the target device id.
type PrintJob struct {
	ID          uuid.UUID   `json:"id"`
	DeviceID    string      `json:"device_id"`
	Content     JobContent  `json:"content"`
	Priority    JobPriority `json:"priority"`
	Status      JobStatus   `json:"status"`
	RetryCount  int         `json:"retry_count"`
	MaxRetries  int         `json:"max_retries"`
	OrderNumber string      `json:"order_number,omitempty"` // dedup key when order-based
	LastError   string      `json:"last_error,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsTerminal checks if the job reached a final state
func (j *PrintJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// JobResult is delivered on a job's completion channel once the queue
// loop finishes the job, successfully or not.
type JobResult struct {
	JobID      uuid.UUID `json:"job_id"`
	Success    bool      `json:"success"`
	RetryCount int       `json:"retry_count"`
	Err        error     `json:"-"`
}
