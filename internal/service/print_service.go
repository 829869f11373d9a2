// internal/service/print_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/normalizer"
	"printer-service/internal/queue"
	"printer-service/internal/registry"
	"printer-service/internal/utils"
)

// PrintService handles print business logic: normalizing orders,
// queuing jobs and driving the device registry.
type PrintService struct {
	normalizer *normalizer.Normalizer
	queue      *queue.Queue
	registry   *registry.Registry
	logger     *utils.ServiceLogger
}

// NewPrintService creates a new print service instance
func NewPrintService(
	norm *normalizer.Normalizer,
	jobQueue *queue.Queue,
	reg *registry.Registry,
	logger *zap.Logger,
) *PrintService {
	return &PrintService{
		normalizer: norm,
		queue:      jobQueue,
		registry:   reg,
		logger:     utils.NewServiceLogger(logger, "print-service"),
	}
}

// PrintOrder normalizes a raw order payload and queues it for the
// given printer. Returns the queued job and its completion channel.
func (ps *PrintService) PrintOrder(ctx context.Context, deviceID string, payload model.JSONObject) (*model.PrintJob, <-chan model.JobResult, error) {
	receipt, err := ps.normalizer.Normalize(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("order normalization: %w", err)
	}

	job := &model.PrintJob{
		DeviceID:    deviceID,
		OrderNumber: receipt.OrderNumber,
		Content: model.JobContent{
			Receipt:  receipt,
			RawOrder: payload,
		},
	}

	done, err := ps.queue.Submit(job)
	if err != nil {
		return nil, nil, err
	}

	ps.logger.Info("Order queued for printing",
		zap.String("job_id", job.ID.String()),
		zap.String("printer_id", deviceID),
		zap.String("order_number", receipt.OrderNumber),
		zap.Int("items", len(receipt.Items)),
	)
	return job, done, nil
}

// PrintReceipt queues an already canonical receipt.
func (ps *PrintService) PrintReceipt(ctx context.Context, deviceID string, receipt *model.ReceiptData) (*model.PrintJob, <-chan model.JobResult, error) {
	if err := receipt.Validate(); err != nil {
		return nil, nil, err
	}

	job := &model.PrintJob{
		DeviceID:    deviceID,
		OrderNumber: receipt.OrderNumber,
		Content:     model.JobContent{Receipt: receipt},
	}

	done, err := ps.queue.Submit(job)
	if err != nil {
		return nil, nil, err
	}
	return job, done, nil
}

// PrintText queues plain text, used for test prints and diagnostics.
func (ps *PrintService) PrintText(ctx context.Context, deviceID, text string) (*model.PrintJob, <-chan model.JobResult, error) {
	if text == "" {
		return nil, nil, fmt.Errorf("%w: empty text", model.ErrInvalidData)
	}

	job := &model.PrintJob{
		DeviceID: deviceID,
		Priority: model.PriorityHigh,
		Content:  model.JobContent{Text: text},
	}

	done, err := ps.queue.Submit(job)
	if err != nil {
		return nil, nil, err
	}
	return job, done, nil
}

// PrintRaw queues pre-encoded printer bytes without re-encoding.
func (ps *PrintService) PrintRaw(ctx context.Context, deviceID string, data []byte) (*model.PrintJob, <-chan model.JobResult, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: empty raw payload", model.ErrInvalidData)
	}

	job := &model.PrintJob{
		DeviceID: deviceID,
		Content:  model.JobContent{Raw: data},
	}

	done, err := ps.queue.Submit(job)
	if err != nil {
		return nil, nil, err
	}
	return job, done, nil
}

// TestPrint sends a short fixed test page.
func (ps *PrintService) TestPrint(ctx context.Context, deviceID string) (*model.PrintJob, <-chan model.JobResult, error) {
	device, err := ps.registry.Get(deviceID)
	if err != nil {
		return nil, nil, err
	}

	text := fmt.Sprintf("TESTITULOSTUS\n%s\n%s\nOK", device.Name, device.Address)
	return ps.PrintText(ctx, deviceID, text)
}

// QueueDepth reports pending job count for health reporting.
func (ps *PrintService) QueueDepth() int {
	return ps.queue.Depth()
}
