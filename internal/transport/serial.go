// internal/transport/serial.go
package transport

import (
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"printer-service/internal/model"
)

// SerialConfig carries line settings for directly attached printers.
type SerialConfig struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration
}

// DefaultSerialConfig is 9600 8N1, the factory default on nearly
// every serial receipt printer.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate: 9600,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
		Timeout:  5 * time.Second,
	}
}

// SerialTransport writes to printers attached over RS-232/USB-serial.
// The device's Address holds the port name (/dev/ttyUSB0, COM3).
type SerialTransport struct {
	config SerialConfig
	logger *zap.Logger
}

// NewSerialTransport creates a serial-line transport.
func NewSerialTransport(config SerialConfig, logger *zap.Logger) *SerialTransport {
	return &SerialTransport{
		config: config,
		logger: logger.With(zap.String("transport", "serial")),
	}
}

// Kind identifies the transport.
func (t *SerialTransport) Kind() string { return "serial" }

// Send opens the port, writes the stream and closes.
func (t *SerialTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	port, err := t.open(device.Address)
	if err != nil {
		return err
	}
	defer port.Close()

	n, err := port.Write(data)
	if err != nil {
		t.logger.Error("Serial write failed",
			zap.String("port", device.Address),
			zap.Error(err),
		)
		return fmt.Errorf("%w: write to %s: %v", model.ErrPrintFailed, device.Address, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: incomplete write to %s: %d of %d bytes",
			model.ErrPrintFailed, device.Address, n, len(data))
	}

	t.logger.Debug("Raw data sent via serial",
		zap.String("port", device.Address),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Test opens and closes the port.
func (t *SerialTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	port, err := t.open(device.Address)
	if err != nil {
		return err
	}
	return port.Close()
}

func (t *SerialTransport) open(portName string) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: t.config.BaudRate,
		DataBits: t.config.DataBits,
		StopBits: serial.StopBits(t.config.StopBits),
	}
	switch t.config.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrConnectionFailed, portName, err)
	}
	if err := port.SetReadTimeout(t.config.Timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w: set timeout on %s: %v", model.ErrConnectionFailed, portName, err)
	}
	return port, nil
}
