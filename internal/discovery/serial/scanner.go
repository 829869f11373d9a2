// internal/discovery/serial/scanner.go - Serial Port Printer Scanner
package serial

import (
	"context"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"printer-service/internal/model"
)

// Scanner enumerates serial ports that look like attached receipt
// printers. Enumeration is cheap; no bytes are sent to the ports.
type Scanner struct {
	logger *zap.Logger
}

// NewScanner creates a serial port scanner
func NewScanner(logger *zap.Logger) *Scanner {
	return &Scanner{
		logger: logger.With(zap.String("scanner", "serial")),
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "serial"
}

// IsAvailable checks if serial enumeration works on this platform
func (s *Scanner) IsAvailable() bool {
	_, err := serial.GetPortsList()
	return err == nil
}

// Scan lists candidate serial ports.
func (s *Scanner) Scan(ctx context.Context) ([]*model.PrinterDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}

	var devices []*model.PrinterDevice
	for _, port := range ports {
		if !looksLikePrinterPort(port) {
			continue
		}
		devices = append(devices, &model.PrinterDevice{
			ID:        "serial-" + strings.TrimPrefix(port, "/dev/"),
			Address:   port,
			Name:      "Serial Printer (" + port + ")",
			Transport: model.TransportNetwork,
			Protocol:  model.ProtocolEscPos,
			Status:    model.DeviceStatusOffline,
			Metadata: model.DeviceMetadata{
				Confidence: 30,
			},
			CreatedAt:      time.Now(),
			SupportsCutter: true,
		})
		s.logger.Info("Serial port found", zap.String("port", port))
	}

	s.logger.Info("Serial scan completed", zap.Int("devices_found", len(devices)))
	return devices, nil
}

// looksLikePrinterPort filters out modems and consoles.
func looksLikePrinterPort(port string) bool {
	lower := strings.ToLower(port)
	for _, fragment := range []string{"usb", "acm", "com", "serial"} {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
