// internal/transport/chain.go
package transport

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// Chain tries transports in order until one delivers. The canonical
// order is bridge, then TCP, then HTTP; a simulated transport may sit
// at the end in development builds only.
type Chain struct {
	transports []Transport
	logger     *zap.Logger
}

// NewChain builds a fallback chain. Nil entries are skipped.
func NewChain(logger *zap.Logger, transports ...Transport) *Chain {
	chain := &Chain{logger: logger.With(zap.String("transport", "chain"))}
	for _, t := range transports {
		if t != nil {
			chain.transports = append(chain.transports, t)
		}
	}
	return chain
}

// Kind identifies the transport.
func (c *Chain) Kind() string { return "chain" }

// Send walks the chain. A bridge that is simply absent falls through
// silently; real delivery failures are logged before moving on. The
// error from the last transport surfaces when all fail.
func (c *Chain) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	var lastErr error
	for _, t := range c.transports {
		err := t.Send(ctx, device, data)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if !errors.Is(err, model.ErrBridgeUnavailable) {
			c.logger.Warn("Transport failed, falling through",
				zap.String("kind", t.Kind()),
				zap.String("device_id", device.ID),
				zap.Error(err),
			)
		}
	}
	if lastErr == nil {
		lastErr = model.ErrPrintFailed
	}
	return lastErr
}

// Test walks the chain until a transport reports the device
// reachable.
func (c *Chain) Test(ctx context.Context, device *model.PrinterDevice) error {
	var lastErr error
	for _, t := range c.transports {
		if err := t.Test(ctx, device); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if lastErr == nil {
		lastErr = model.ErrConnectionFailed
	}
	return lastErr
}
