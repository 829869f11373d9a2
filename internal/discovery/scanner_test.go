package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// fakeScanner returns a canned device list after an optional delay.
type fakeScanner struct {
	scannerType string
	available   bool
	devices     []*model.PrinterDevice
	delay       time.Duration
}

func (f *fakeScanner) Scan(ctx context.Context) ([]*model.PrinterDevice, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.devices, nil
}

func (f *fakeScanner) GetScannerType() string { return f.scannerType }
func (f *fakeScanner) IsAvailable() bool      { return f.available }

// recordingRegistrar collects every registered device.
type recordingRegistrar struct {
	mutex   sync.Mutex
	devices []*model.PrinterDevice
}

func (r *recordingRegistrar) Register(ctx context.Context, device *model.PrinterDevice) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.devices = append(r.devices, device)
	return nil
}

func (r *recordingRegistrar) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.devices)
}

func waitDevices(t *testing.T, result <-chan []*model.PrinterDevice) []*model.PrinterDevice {
	t.Helper()
	select {
	case devices := <-result:
		return devices
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for scan result")
		return nil
	}
}

func TestStartScanRegistersDiscoveredPrinters(t *testing.T) {
	registrar := &recordingRegistrar{}
	m := NewManager(registrar, zap.NewNop())
	m.RegisterScanner(&fakeScanner{
		scannerType: "network",
		available:   true,
		devices: []*model.PrinterDevice{
			{ID: "net-10.0.0.5", Address: "10.0.0.5"},
			{ID: "net-10.0.0.6", Address: "10.0.0.6"},
		},
	})

	result, err := m.StartScan(context.Background())
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}

	devices := waitDevices(t, result)
	if len(devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(devices))
	}
	if registrar.count() != 2 {
		t.Fatalf("registered = %d, want 2", registrar.count())
	}
}

func TestStartScanSkipsUnavailableScanners(t *testing.T) {
	registrar := &recordingRegistrar{}
	m := NewManager(registrar, zap.NewNop())
	m.RegisterScanner(&fakeScanner{scannerType: "bluetooth", available: false,
		devices: []*model.PrinterDevice{{ID: "ble-1"}}})
	m.RegisterScanner(&fakeScanner{scannerType: "network", available: true,
		devices: []*model.PrinterDevice{{ID: "net-1"}}})

	result, err := m.StartScan(context.Background())
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}

	devices := waitDevices(t, result)
	if len(devices) != 1 || devices[0].ID != "net-1" {
		t.Fatalf("devices = %+v, want only the network printer", devices)
	}
}

func TestStartScanRejectsConcurrentScan(t *testing.T) {
	m := NewManager(&recordingRegistrar{}, zap.NewNop())
	m.RegisterScanner(&fakeScanner{scannerType: "network", available: true, delay: time.Second})

	result, err := m.StartScan(context.Background())
	if err != nil {
		t.Fatalf("first StartScan: %v", err)
	}
	if !m.IsScanning() {
		t.Fatal("IsScanning = false during a scan")
	}

	if _, err := m.StartScan(context.Background()); !errors.Is(err, model.ErrScanInProgress) {
		t.Fatalf("second StartScan err = %v, want ErrScanInProgress", err)
	}

	m.Cancel()
	waitDevices(t, result)
}

func TestStartScanByTypeUnknownScanner(t *testing.T) {
	m := NewManager(&recordingRegistrar{}, zap.NewNop())

	if _, err := m.StartScanByType(context.Background(), "usb"); err == nil {
		t.Fatal("expected an error for an unregistered scanner type")
	}
}
