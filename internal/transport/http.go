// internal/transport/http.go
package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// candidateEndpoints are tried in order when printing over HTTP. Most
// network printers with a web interface accept raw jobs on one of
// these.
var candidateEndpoints = []string{
	"/print",
	"/cgi-bin/epos/service.cgi",
	"/StarWebPRNT/SendMessage",
	"/ipp/print",
}

// HTTPTransport posts the raw command stream to the printer's web
// interface, trying a short list of known job endpoints.
type HTTPTransport struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTPTransport creates the HTTP fallback transport.
func NewHTTPTransport(timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
		logger: logger.With(zap.String("transport", "http")),
	}
}

// Kind identifies the transport.
func (t *HTTPTransport) Kind() string { return "http" }

// Send tries each candidate endpoint until one accepts the payload.
func (t *HTTPTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	var lastErr error
	for _, path := range candidateEndpoints {
		url := fmt.Sprintf("http://%s%s", device.Address, path)
		if err := t.post(ctx, url, data); err != nil {
			lastErr = err
			t.logger.Debug("HTTP endpoint rejected job",
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		t.logger.Debug("Raw data sent via HTTP",
			zap.String("url", url),
			zap.Int("bytes", len(data)),
		)
		return nil
	}
	return fmt.Errorf("%w: no HTTP endpoint accepted the job on %s: %v",
		model.ErrPrintFailed, device.Address, lastErr)
}

// Test issues a HEAD request against the device's web root.
func (t *HTTPTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead,
		fmt.Sprintf("http://%s/", device.Address), nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrConnectionFailed, err)
	}
	resp.Body.Close()
	return nil
}

func (t *HTTPTransport) post(ctx context.Context, url string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
