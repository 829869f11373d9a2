// internal/transport/cloudprnt.go
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// CloudPRNTClient submits jobs to a server-side queue that the
// physical printer polls. There is no direct connection to the
// device; a registered CloudPRNT printer is always "connected".
type CloudPRNTClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewCloudPRNTClient creates a job-submission client.
func NewCloudPRNTClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CloudPRNTClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CloudPRNTClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(zap.String("transport", "cloudprnt")),
	}
}

// Kind identifies the transport.
func (c *CloudPRNTClient) Kind() string { return "cloudprnt" }

type cloudJobRequest struct {
	PrinterMAC string             `json:"printer_mac"`
	Receipt    *model.ReceiptData `json:"receipt,omitempty"`
	RawOrder   model.JSONObject   `json:"raw_order,omitempty"`
	RawData    string             `json:"raw_data,omitempty"`
	Protocol   string             `json:"protocol"`
}

type cloudJobResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
	Error   string `json:"error"`
}

// SubmitJob posts a print job for the printer identified by its MAC.
func (c *CloudPRNTClient) SubmitJob(ctx context.Context, device *model.PrinterDevice, receipt *model.ReceiptData, rawOrder model.JSONObject) (string, error) {
	req := cloudJobRequest{
		PrinterMAC: device.Address,
		Receipt:    receipt,
		RawOrder:   rawOrder,
		Protocol:   string(device.Protocol),
	}
	return c.submit(ctx, req)
}

// Send satisfies Transport for pre-encoded byte streams.
func (c *CloudPRNTClient) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	req := cloudJobRequest{
		PrinterMAC: device.Address,
		RawData:    base64.StdEncoding.EncodeToString(data),
		Protocol:   string(device.Protocol),
	}
	_, err := c.submit(ctx, req)
	return err
}

// Test is a no-op: the server queue, not the printer, receives jobs.
func (c *CloudPRNTClient) Test(ctx context.Context, device *model.PrinterDevice) error {
	return ctx.Err()
}

func (c *CloudPRNTClient) submit(ctx context.Context, job cloudJobRequest) (string, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("%w: marshal job: %v", model.ErrInvalidData, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("CloudPRNT submit failed",
			zap.String("printer_mac", job.PrinterMAC),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", model.ErrNetworkError, err)
	}
	defer resp.Body.Close()

	var out cloudJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", model.ErrNetworkError, err)
	}
	if !out.Success {
		return "", fmt.Errorf("%w: %s", model.ErrPrintFailed, out.Error)
	}

	c.logger.Info("CloudPRNT job submitted",
		zap.String("printer_mac", job.PrinterMAC),
		zap.String("job_id", out.JobID),
	)
	return out.JobID, nil
}
