// internal/discovery/scanner.go - Main Scanner Interface
package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/utils"
)

// DeviceScanner interface - Strategy Pattern. A scanner returns every
// printer it found; on cooperative cancellation it returns the
// partial result alongside ctx.Err() so callers keep what was found.
type DeviceScanner interface {
	Scan(ctx context.Context) ([]*model.PrinterDevice, error)
	GetScannerType() string
	IsAvailable() bool
}

// Progress is reported incrementally during a scan.
type Progress struct {
	Scanner    string  `json:"scanner"`
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Discovered int     `json:"discovered"`
	ETASeconds float64 `json:"eta_seconds"`
}

// ProgressListener receives scan progress events.
type ProgressListener func(Progress)

// Registrar is where discovered printers land, usually the device
// registry.
type Registrar interface {
	Register(ctx context.Context, device *model.PrinterDevice) error
}

// Manager runs scanners and guards against concurrent scans - Facade
// Pattern. Only one scan may be in flight; a second start is rejected
// with ErrScanInProgress.
type Manager struct {
	mutex     sync.Mutex
	scanners  map[string]DeviceScanner
	registrar Registrar
	logger    *zap.Logger

	scanning  bool
	cancel    context.CancelFunc
	listeners []ProgressListener
}

// NewManager creates a scanner manager.
func NewManager(registrar Registrar, logger *zap.Logger) *Manager {
	return &Manager{
		scanners:  make(map[string]DeviceScanner),
		registrar: registrar,
		logger:    logger.With(zap.String("component", "discovery")),
	}
}

// RegisterScanner registers a device scanner.
func (m *Manager) RegisterScanner(scanner DeviceScanner) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.scanners[scanner.GetScannerType()] = scanner
	m.logger.Info("Scanner registered", zap.String("type", scanner.GetScannerType()))
}

// OnProgress adds a progress listener.
func (m *Manager) OnProgress(listener ProgressListener) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Notify forwards a progress event to all listeners. Scanners call
// this through the manager so listeners see one stream.
func (m *Manager) Notify(p Progress) {
	m.mutex.Lock()
	listeners := make([]ProgressListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mutex.Unlock()

	for _, listener := range listeners {
		listener(p)
	}
}

// IsScanning reports whether a scan is in flight.
func (m *Manager) IsScanning() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.scanning
}

// Cancel aborts the running scan, if any. Already-discovered devices
// stay registered.
func (m *Manager) Cancel() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// StartScan launches all available scanners asynchronously. The
// returned channel delivers the discovered devices when the scan
// finishes or is cancelled.
func (m *Manager) StartScan(ctx context.Context) (<-chan []*model.PrinterDevice, error) {
	return m.start(ctx, "")
}

// StartScanByType launches a single scanner asynchronously.
func (m *Manager) StartScanByType(ctx context.Context, scannerType string) (<-chan []*model.PrinterDevice, error) {
	m.mutex.Lock()
	_, exists := m.scanners[scannerType]
	m.mutex.Unlock()
	if !exists {
		return nil, fmt.Errorf("scanner type not found: %s", scannerType)
	}
	return m.start(ctx, scannerType)
}

func (m *Manager) start(ctx context.Context, only string) (<-chan []*model.PrinterDevice, error) {
	m.mutex.Lock()
	if m.scanning {
		m.mutex.Unlock()
		return nil, model.ErrScanInProgress
	}
	scanCtx, cancel := context.WithCancel(ctx)
	m.scanning = true
	m.cancel = cancel

	scanners := make([]DeviceScanner, 0, len(m.scanners))
	for scannerType, scanner := range m.scanners {
		if only != "" && scannerType != only {
			continue
		}
		scanners = append(scanners, scanner)
	}
	m.mutex.Unlock()

	result := make(chan []*model.PrinterDevice, 1)
	go func() {
		defer func() {
			cancel()
			m.mutex.Lock()
			m.scanning = false
			m.cancel = nil
			m.mutex.Unlock()
		}()

		op := utils.NewOperationLogger(m.logger, "discovery_scan", uuid.New().String())
		op.Start(zap.Int("scanners", len(scanners)))

		var all []*model.PrinterDevice
		for i, scanner := range scanners {
			if !scanner.IsAvailable() {
				m.logger.Debug("Scanner not available, skipping",
					zap.String("type", scanner.GetScannerType()))
				continue
			}

			devices, err := scanner.Scan(scanCtx)
			m.registerAll(devices)
			all = append(all, devices...)

			if err != nil {
				if scanCtx.Err() != nil {
					break
				}
				m.logger.Error("Scanner failed",
					zap.String("type", scanner.GetScannerType()),
					zap.Error(err),
				)
				continue
			}
			op.Progress("Scanner completed", float64(i+1)/float64(len(scanners)),
				zap.String("type", scanner.GetScannerType()),
				zap.Int("devices_found", len(devices)),
			)
		}

		if err := scanCtx.Err(); err != nil {
			op.Error(err, zap.Int("devices_found", len(all)))
		} else {
			op.Success(zap.Int("devices_found", len(all)))
		}
		result <- all
		close(result)
	}()

	return result, nil
}

func (m *Manager) registerAll(devices []*model.PrinterDevice) {
	for _, device := range devices {
		registerCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := m.registrar.Register(registerCtx, device); err != nil {
			m.logger.Warn("Failed to register discovered printer",
				zap.String("printer_id", device.ID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// GetAvailableScanners returns list of available scanner types.
func (m *Manager) GetAvailableScanners() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var available []string
	for scannerType, scanner := range m.scanners {
		if scanner.IsAvailable() {
			available = append(available, scannerType)
		}
	}
	return available
}
