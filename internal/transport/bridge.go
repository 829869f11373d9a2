// internal/transport/bridge.go
package transport

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// BridgeTransport delivers bytes through the native bridge. The
// bridge may be nil when the service runs without a host shell; every
// call then reports ErrBridgeUnavailable so the fallback chain moves
// on.
type BridgeTransport struct {
	bridge Bridge
	logger *zap.Logger
}

// NewBridgeTransport wraps a possibly-nil bridge.
func NewBridgeTransport(bridge Bridge, logger *zap.Logger) *BridgeTransport {
	return &BridgeTransport{
		bridge: bridge,
		logger: logger.With(zap.String("transport", "bridge")),
	}
}

// Kind identifies the transport.
func (t *BridgeTransport) Kind() string { return "bridge" }

// Available reports whether a bridge is attached at all.
func (t *BridgeTransport) Available() bool { return t.bridge != nil }

// Send base64-encodes the stream and hands it to the bridge.
func (t *BridgeTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	if t.bridge == nil {
		return model.ErrBridgeUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	ok, err := t.bridge.SendRawData(device.Address, device.Port, encoded)
	if err != nil {
		t.logger.Error("Bridge send failed",
			zap.String("address", device.Address),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", model.ErrBridgeUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("%w: bridge rejected payload for %s", model.ErrPrintFailed, device.Address)
	}

	t.logger.Debug("Raw data sent via bridge",
		zap.String("address", device.Address),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Test asks the bridge to probe the device.
func (t *BridgeTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	if t.bridge == nil {
		return model.ErrBridgeUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := t.bridge.TestConnection(device.Address, device.Port)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrBridgeUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s:%d", model.ErrConnectionFailed, device.Address, device.Port)
	}
	return nil
}

// NetworkInfo queries the bridge for local network details, used by
// discovery for subnet detection.
func (t *BridgeTransport) NetworkInfo() (model.JSONObject, error) {
	if t.bridge == nil {
		return nil, model.ErrBridgeUnavailable
	}
	return t.bridge.GetNetworkInfo()
}
