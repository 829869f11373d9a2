// internal/discovery/mdns/scanner.go - mDNS/Bonjour Printer Scanner
package mdns

import (
	"context"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"printer-service/internal/encoder"
	"printer-service/internal/model"
)

// services advertised by network printers over Bonjour.
var services = []string{
	"_pdl-datastream._tcp", // RAW 9100
	"_ipp._tcp",
	"_printer._tcp", // LPD
}

// Config for the mDNS scanner
type Config struct {
	BrowseTimeout time.Duration `json:"browse_timeout"`
}

// Scanner discovers printers that announce themselves via mDNS.
type Scanner struct {
	config *Config
	logger *zap.Logger
}

// NewScanner creates an mDNS scanner
func NewScanner(config *Config, logger *zap.Logger) *Scanner {
	if config == nil {
		config = &Config{BrowseTimeout: 5 * time.Second}
	}
	return &Scanner{
		config: config,
		logger: logger.With(zap.String("scanner", "mdns")),
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "mdns"
}

// IsAvailable checks if mDNS scanning is available
func (s *Scanner) IsAvailable() bool {
	return true
}

// Scan browses the printer service types and collects announcements,
// deduplicating by address.
func (s *Scanner) Scan(ctx context.Context) ([]*model.PrinterDevice, error) {
	seen := make(map[string]*model.PrinterDevice)

	for _, service := range services {
		if err := ctx.Err(); err != nil {
			return collect(seen), err
		}
		if err := s.browse(ctx, service, seen); err != nil {
			s.logger.Warn("mDNS browse failed",
				zap.String("service", service),
				zap.Error(err),
			)
		}
	}

	devices := collect(seen)
	s.logger.Info("mDNS scan completed", zap.Int("devices_found", len(devices)))
	return devices, nil
}

func (s *Scanner) browse(ctx context.Context, service string, seen map[string]*model.PrinterDevice) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return err
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	browseCtx, cancel := context.WithTimeout(ctx, s.config.BrowseTimeout)
	defer cancel()

	if err := resolver.Browse(browseCtx, service, "local.", entries); err != nil {
		return err
	}

	for entry := range entries {
		if len(entry.AddrIPv4) == 0 {
			continue
		}
		address := entry.AddrIPv4[0].String()
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = s.buildDevice(entry, address)
		s.logger.Info("mDNS printer discovered",
			zap.String("address", address),
			zap.String("instance", entry.Instance),
			zap.String("service", service),
		)
	}
	return nil
}

func (s *Scanner) buildDevice(entry *zeroconf.ServiceEntry, address string) *model.PrinterDevice {
	port := entry.Port
	if port == 0 {
		port = 9100
	}
	device := &model.PrinterDevice{
		ID:        "net-" + address,
		Address:   address,
		Port:      port,
		Name:      entry.Instance,
		Transport: model.TransportNetwork,
		Status:    model.DeviceStatusOffline,
		Metadata: model.DeviceMetadata{
			Confidence: 60, // self-announced printer service
			OpenPorts:  []int{port},
		},
		CreatedAt:      time.Now(),
		SupportsCutter: true,
	}
	device.Protocol = encoder.ResolveProtocol(device)
	return device
}

func collect(seen map[string]*model.PrinterDevice) []*model.PrinterDevice {
	devices := make([]*model.PrinterDevice, 0, len(seen))
	for _, device := range seen {
		devices = append(devices, device)
	}
	return devices
}
