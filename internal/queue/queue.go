// internal/queue/queue.go
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/registry"
	"printer-service/internal/repository"
	"printer-service/internal/transport"
	"printer-service/internal/utils"
)

// Encoders resolves the command encoder for a device. Implemented by
// the encoder registry to keep the queue free of protocol knowledge.
type Encoders interface {
	Encode(job *model.PrintJob, device *model.PrinterDevice) ([]byte, error)
}

// CloudSubmitter posts jobs for server-polled printers.
type CloudSubmitter interface {
	SubmitJob(ctx context.Context, device *model.PrinterDevice, receipt *model.ReceiptData, rawOrder model.JSONObject) (string, error)
}

// Config carries queue tunables.
type Config struct {
	MaxRetries int
	RetryDelay time.Duration
	IdleSleep  time.Duration
}

// WithDefaults fills zero fields.
func (c Config) WithDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.IdleSleep <= 0 {
		c.IdleSleep = 200 * time.Millisecond
	}
	return c
}

// Queue serializes print jobs through a single background loop so a
// printer never receives interleaved byte streams.
type Queue struct {
	mutex    sync.Mutex
	pending  []*model.PrintJob
	inflight map[string]uuid.UUID // order number -> job id
	waiters  map[uuid.UUID]chan model.JobResult

	registry  *registry.Registry
	transport transport.Transport
	cloud     CloudSubmitter
	encoders  Encoders
	history   repository.JobHistoryStore

	config Config
	logger *zap.Logger
}

// New creates a print job queue. cloud and history may be nil.
func New(
	reg *registry.Registry,
	tr transport.Transport,
	cloud CloudSubmitter,
	encoders Encoders,
	history repository.JobHistoryStore,
	config Config,
	logger *zap.Logger,
) *Queue {
	return &Queue{
		inflight:  make(map[string]uuid.UUID),
		waiters:   make(map[uuid.UUID]chan model.JobResult),
		registry:  reg,
		transport: tr,
		cloud:     cloud,
		encoders:  encoders,
		history:   history,
		config:    config.WithDefaults(),
		logger:    logger.With(zap.String("component", "queue")),
	}
}

// Submit enqueues a job and returns its completion channel. An
// order-based job is rejected with ErrDuplicateJob while a previous
// job for the same order number is still pending or printing.
func (q *Queue) Submit(job *model.PrintJob) (<-chan model.JobResult, error) {
	if job.DeviceID == "" {
		return nil, fmt.Errorf("%w: job without device id", model.ErrInvalidData)
	}
	if _, err := q.registry.RequireConnected(job.DeviceID); err != nil {
		return nil, err
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	if job.OrderNumber != "" {
		if existing, ok := q.inflight[job.OrderNumber]; ok {
			q.logger.Warn("Duplicate print job rejected",
				zap.String("order_number", job.OrderNumber),
				zap.String("existing_job_id", existing.String()),
			)
			return nil, fmt.Errorf("%w: order %s", model.ErrDuplicateJob, job.OrderNumber)
		}
	}

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.MaxRetries <= 0 {
		job.MaxRetries = q.config.MaxRetries
	}
	if job.Priority == 0 {
		job.Priority = model.PriorityNormal
	}
	job.Status = model.JobStatusPending
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt

	done := make(chan model.JobResult, 1)
	q.waiters[job.ID] = done
	if job.OrderNumber != "" {
		q.inflight[job.OrderNumber] = job.ID
	}
	q.pending = append(q.pending, job)

	q.logger.Info("Print job queued",
		zap.String("job_id", job.ID.String()),
		zap.String("printer_id", job.DeviceID),
		zap.String("order_number", job.OrderNumber),
	)
	return done, nil
}

// Run processes jobs until the context is cancelled. Exactly one Run
// per queue.
func (q *Queue) Run(ctx context.Context) {
	q.logger.Info("Print queue started")
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("Print queue stopped")
			return
		default:
		}

		job := q.dequeue()
		if job == nil {
			select {
			case <-ctx.Done():
			case <-time.After(q.config.IdleSleep):
			}
			continue
		}

		q.process(ctx, job)
	}
}

// dequeue pops the oldest pending job, preferring higher priority.
func (q *Queue) dequeue() *model.PrintJob {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.pending) == 0 {
		return nil
	}

	best := 0
	for i, job := range q.pending {
		if job.Priority < q.pending[best].Priority {
			best = i
		}
	}
	job := q.pending[best]
	q.pending = append(q.pending[:best], q.pending[best+1:]...)
	return job
}

// process runs one delivery attempt and schedules retries.
func (q *Queue) process(ctx context.Context, job *model.PrintJob) {
	job.Status = model.JobStatusPrinting
	job.UpdatedAt = time.Now()
	q.registry.SetPrinting(job.DeviceID, true)
	defer q.registry.SetPrinting(job.DeviceID, false)

	err := q.deliver(ctx, job)
	if err == nil {
		job.Status = model.JobStatusCompleted
		q.finish(job, nil)
		return
	}

	job.RetryCount++
	job.LastError = err.Error()
	q.logger.Warn("Print attempt failed",
		zap.String("job_id", job.ID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(err),
	)

	if job.RetryCount >= job.MaxRetries {
		job.Status = model.JobStatusFailed
		q.finish(job, err)
		return
	}

	// linear backoff, re-enters the queue as pending
	delay := q.config.RetryDelay * time.Duration(job.RetryCount)
	job.Status = model.JobStatusPending
	time.AfterFunc(delay, func() {
		q.mutex.Lock()
		q.pending = append(q.pending, job)
		q.mutex.Unlock()
	})
}

// deliver resolves the device, encodes the content and transmits it.
func (q *Queue) deliver(ctx context.Context, job *model.PrintJob) error {
	device, err := q.registry.RequireConnected(job.DeviceID)
	if err != nil {
		return err
	}

	if device.IsCloudPolled() {
		if q.cloud == nil {
			return fmt.Errorf("%w: no cloud print channel configured", model.ErrPrintFailed)
		}
		if job.Content.Receipt != nil || job.Content.RawOrder != nil {
			_, err := q.cloud.SubmitJob(ctx, device, job.Content.Receipt, job.Content.RawOrder)
			return err
		}
	}

	data := job.Content.Raw
	if len(data) == 0 {
		data, err = q.encoders.Encode(job, device)
		if err != nil {
			return err
		}
	}

	plog := utils.NewPrinterLogger(q.logger, device.ID, string(device.Transport), string(device.Protocol))
	start := time.Now()
	err = q.transport.Send(ctx, device, data)
	plog.LogPrint(job.ID.String(), len(data), time.Since(start), err == nil, err)
	return err
}

// finish removes a terminal job, clears dedup tracking, records
// history and releases the waiter.
func (q *Queue) finish(job *model.PrintJob, jobErr error) {
	job.UpdatedAt = time.Now()

	q.mutex.Lock()
	if job.OrderNumber != "" {
		delete(q.inflight, job.OrderNumber)
	}
	done := q.waiters[job.ID]
	delete(q.waiters, job.ID)
	q.mutex.Unlock()

	if q.history != nil {
		recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := q.history.RecordJob(recordCtx, job); err != nil {
			q.logger.Warn("Failed to record job history", zap.Error(err))
		}
		cancel()
	}

	result := model.JobResult{
		JobID:      job.ID,
		Success:    jobErr == nil,
		RetryCount: job.RetryCount,
		Err:        jobErr,
	}
	if done != nil {
		done <- result
		close(done)
	}

	if jobErr == nil {
		q.logger.Info("Print job completed",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
		)
	} else {
		q.logger.Error("Print job failed",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(jobErr),
		)
	}
}

// Depth reports the number of queued jobs.
func (q *Queue) Depth() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.pending)
}
