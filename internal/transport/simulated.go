// internal/transport/simulated.go
package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// SimulatedTransport fakes a successful print after a fixed delay.
// Development only: every send logs a loud warning so a simulated
// success can never be mistaken for a real one in production logs.
type SimulatedTransport struct {
	delay  time.Duration
	logger *zap.Logger
}

// NewSimulatedTransport creates the development-only transport.
func NewSimulatedTransport(delay time.Duration, logger *zap.Logger) *SimulatedTransport {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &SimulatedTransport{
		delay:  delay,
		logger: logger.With(zap.String("transport", "simulated")),
	}
}

// Kind identifies the transport.
func (t *SimulatedTransport) Kind() string { return "simulated" }

// Send sleeps for the configured delay and reports success.
func (t *SimulatedTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	t.logger.Warn("SIMULATED PRINT - no data reached a physical printer",
		zap.String("device_id", device.ID),
		zap.String("address", device.Address),
		zap.Int("bytes", len(data)),
	)
	select {
	case <-time.After(t.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Test always succeeds after logging.
func (t *SimulatedTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	t.logger.Warn("SIMULATED CONNECTION TEST",
		zap.String("device_id", device.ID),
	)
	return ctx.Err()
}
