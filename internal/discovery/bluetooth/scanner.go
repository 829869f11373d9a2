// internal/discovery/bluetooth/scanner.go - BLE Printer Scanner
package bluetooth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/encoder"
	"printer-service/internal/model"
)

// Advertisement is one BLE advertising packet.
type Advertisement struct {
	ID   string
	Name string
	RSSI int
}

// Adapter abstracts the platform BLE stack. Scan delivers
// advertisements to emit until the context ends.
type Adapter interface {
	Scan(ctx context.Context, emit func(Advertisement)) error
	Available() bool
}

// Config for the bluetooth scanner
type Config struct {
	ScanDuration time.Duration `json:"scan_duration"`
}

// Scanner discovers BLE printers from advertising packets.
type Scanner struct {
	adapter Adapter
	config  *Config
	logger  *zap.Logger
}

// NewScanner creates a BLE scanner. A nil adapter makes the scanner
// unavailable rather than an error.
func NewScanner(adapter Adapter, config *Config, logger *zap.Logger) *Scanner {
	if config == nil {
		config = &Config{ScanDuration: 10 * time.Second}
	}
	return &Scanner{
		adapter: adapter,
		config:  config,
		logger:  logger.With(zap.String("scanner", "bluetooth")),
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "bluetooth"
}

// IsAvailable checks if a BLE adapter is present
func (s *Scanner) IsAvailable() bool {
	return s.adapter != nil && s.adapter.Available()
}

// Scan listens for advertisements for a fixed duration, deduplicating
// by device id and keeping only devices that advertise a name.
func (s *Scanner) Scan(ctx context.Context) ([]*model.PrinterDevice, error) {
	if s.adapter == nil {
		return nil, nil
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.config.ScanDuration)
	defer cancel()

	s.logger.Info("Starting BLE scan", zap.Duration("duration", s.config.ScanDuration))

	seen := make(map[string]*model.PrinterDevice)
	err := s.adapter.Scan(scanCtx, func(adv Advertisement) {
		if adv.Name == "" {
			return
		}
		if _, ok := seen[adv.ID]; ok {
			return
		}
		seen[adv.ID] = s.buildDevice(adv)
		s.logger.Info("BLE printer discovered",
			zap.String("ble_id", adv.ID),
			zap.String("name", adv.Name),
			zap.Int("rssi", adv.RSSI),
		)
	})

	// the scan window elapsing is the normal way out
	if err != nil && scanCtx.Err() == nil && ctx.Err() == nil {
		return nil, err
	}

	devices := make([]*model.PrinterDevice, 0, len(seen))
	for _, device := range seen {
		devices = append(devices, device)
	}

	s.logger.Info("BLE scan completed", zap.Int("devices_found", len(devices)))
	return devices, ctx.Err()
}

func (s *Scanner) buildDevice(adv Advertisement) *model.PrinterDevice {
	device := &model.PrinterDevice{
		ID:        "ble-" + adv.ID,
		Address:   adv.ID,
		Name:      adv.Name,
		Transport: model.TransportBluetooth,
		Status:    model.DeviceStatusOffline,
		Metadata: model.DeviceMetadata{
			Confidence: 50,
		},
		CreatedAt:      time.Now(),
		SupportsCutter: true,
	}
	device.Protocol = encoder.ResolveProtocol(device)
	return device
}
