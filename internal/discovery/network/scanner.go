// internal/discovery/network/scanner.go - Network Printer Scanner
package network

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/discovery"
	"printer-service/internal/encoder"
	"printer-service/internal/model"
)

// Config for the network scanner
type Config struct {
	ProbeTimeout    time.Duration `json:"probe_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`
	StaticAddresses []string      `json:"static_addresses"`
	FallbackSubnets []string      `json:"fallback_subnets"`
}

// DefaultConfig returns scanner defaults
func DefaultConfig() *Config {
	return &Config{
		ProbeTimeout: 2 * time.Second,
		HTTPTimeout:  3 * time.Second,
		StaticAddresses: []string{
			"192.168.1.100", "192.168.1.200", "192.168.0.100", "192.168.0.200",
		},
		FallbackSubnets: []string{"192.168.1", "192.168.0", "10.0.0"},
	}
}

// SubnetHint supplies local network details from an external source,
// usually the native bridge. May be nil.
type SubnetHint interface {
	NetworkInfo() (model.JSONObject, error)
}

// Scanner probes the local subnet for network printers
type Scanner struct {
	config   *Config
	hint     SubnetHint
	progress discovery.ProgressListener
	logger   *zap.Logger
}

// NewScanner creates a network printer scanner. hint and progress may
// be nil.
func NewScanner(config *Config, hint SubnetHint, progress discovery.ProgressListener, logger *zap.Logger) *Scanner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scanner{
		config:   config,
		hint:     hint,
		progress: progress,
		logger:   logger.With(zap.String("scanner", "network")),
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "network"
}

// IsAvailable checks if network scanning is available
func (s *Scanner) IsAvailable() bool {
	return true
}

// probeWorkers bounds concurrent host probes. A /24 sweep with 2s
// dial timeouts would take minutes sequentially.
const probeWorkers = 32

// Scan walks the prioritized target list, probing the well-known
// printer ports of each host through a bounded worker pool. On
// cancellation the partial result is returned with ctx.Err().
func (s *Scanner) Scan(ctx context.Context) ([]*model.PrinterDevice, error) {
	subnet := s.detectSubnet(ctx)
	targets := s.buildTargets(subnet)

	s.logger.Info("Starting network scan",
		zap.String("subnet", subnet),
		zap.Int("targets", len(targets)),
	)

	start := time.Now()
	jobs := make(chan string)
	results := make(chan *model.DeviceTestResult)

	workers := probeWorkers
	if workers > len(targets) {
		workers = len(targets)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for address := range jobs {
				results <- s.probeHost(ctx, address)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, address := range targets {
			select {
			case jobs <- address:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var discovered []*model.PrinterDevice
	probed := 0
	for result := range results {
		probed++
		if result.IsPrinter() {
			device := s.buildDevice(result)
			discovered = append(discovered, device)
			s.logger.Info("Printer discovered",
				zap.String("address", result.Address),
				zap.Int("score", result.PrinterScore),
				zap.Ints("open_ports", result.OpenPorts),
			)
		}
		s.report(probed, len(targets), len(discovered), start)
	}

	if err := ctx.Err(); err != nil {
		return discovered, err
	}
	s.logger.Info("Network scan completed",
		zap.Int("devices_found", len(discovered)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return discovered, nil
}

// report emits a progress event with an elapsed-ratio ETA.
func (s *Scanner) report(current, total, found int, start time.Time) {
	if s.progress == nil {
		return
	}
	var eta float64
	if current > 0 && current < total {
		elapsed := time.Since(start).Seconds()
		eta = elapsed / float64(current) * float64(total-current)
	}
	s.progress(discovery.Progress{
		Scanner:    s.GetScannerType(),
		Current:    current,
		Total:      total,
		Discovered: found,
		ETASeconds: eta,
	})
}

// buildDevice converts a probe result into a registrable printer.
func (s *Scanner) buildDevice(result *model.DeviceTestResult) *model.PrinterDevice {
	device := &model.PrinterDevice{
		ID:        "net-" + result.Address,
		Address:   result.Address,
		Port:      preferredPort(result.OpenPorts),
		Name:      deviceName(result),
		Transport: model.TransportNetwork,
		Status:    model.DeviceStatusOffline,
		Metadata: model.DeviceMetadata{
			Confidence:     result.PrinterScore,
			ResponseTimeMs: result.ResponseTimeMs,
			OpenPorts:      result.OpenPorts,
			Manufacturer:   result.Manufacturer,
			Model:          result.Model,
		},
		CreatedAt: time.Now(),
	}
	device.Protocol = encoder.ResolveProtocol(device)
	device.SupportsCutter = true
	return device
}

func deviceName(result *model.DeviceTestResult) string {
	if result.Model != "" {
		return result.Model
	}
	if result.Manufacturer != "" {
		return fmt.Sprintf("%s Printer (%s)", result.Manufacturer, result.Address)
	}
	return "Network Printer (" + result.Address + ")"
}

// preferredPort picks the print port: RAW first, then LPD, then IPP.
func preferredPort(openPorts []int) int {
	for _, want := range []int{9100, 515, 631, 80, 8080} {
		for _, port := range openPorts {
			if port == want {
				return port
			}
		}
	}
	return 9100
}
