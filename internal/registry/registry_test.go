package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/repository"
)

// flakyTransport fails Test until allowed.
type flakyTransport struct {
	mutex sync.Mutex
	fail  bool
}

func (f *flakyTransport) Kind() string { return "flaky" }

func (f *flakyTransport) Send(ctx context.Context, device *model.PrinterDevice, data []byte) error {
	return nil
}

func (f *flakyTransport) Test(ctx context.Context, device *model.PrinterDevice) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.fail {
		return errors.New("dial refused")
	}
	return nil
}

func (f *flakyTransport) setFail(fail bool) {
	f.mutex.Lock()
	f.fail = fail
	f.mutex.Unlock()
}

func networkDevice(id string) *model.PrinterDevice {
	return &model.PrinterDevice{
		ID:        id,
		Name:      id,
		Address:   "10.0.0.9",
		Port:      9100,
		Transport: model.TransportNetwork,
	}
}

func TestRegisterRequiresID(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())

	err := r.Register(context.Background(), &model.PrinterDevice{Address: "10.0.0.9"})
	if !errors.Is(err, model.ErrInvalidData) {
		t.Fatalf("err = %v, want ErrInvalidData", err)
	}
}

func TestRegisterStartsOffline(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())

	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	device, err := r.Get("p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if device.Status != model.DeviceStatusOffline || device.IsConnected {
		t.Fatalf("new device = %s connected=%v, want OFFLINE disconnected", device.Status, device.IsConnected)
	}
}

func TestRegisterCloudPolledIsImmediatelyConnected(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())

	device := networkDevice("cloud1")
	device.Transport = model.TransportCloudPoll
	if err := r.Register(context.Background(), device); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := r.Get("cloud1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.IsConnected || got.Status != model.DeviceStatusIdle {
		t.Fatalf("cloud device = %s connected=%v, want IDLE connected", got.Status, got.IsConnected)
	}
}

func TestConnectSuccess(t *testing.T) {
	tr := &flakyTransport{}
	r := New(repository.NewMemoryStore(), tr, zap.NewNop())
	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.Connect(context.Background(), "p1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	device, _ := r.Get("p1")
	if !device.IsConnected || device.Status != model.DeviceStatusIdle {
		t.Fatalf("after connect: %s connected=%v", device.Status, device.IsConnected)
	}
	if device.LastConnectedAt == nil {
		t.Fatal("LastConnectedAt not recorded")
	}
	if r.ConnectedCount() != 1 {
		t.Fatalf("ConnectedCount = %d, want 1", r.ConnectedCount())
	}
}

func TestConnectFailureMarksError(t *testing.T) {
	tr := &flakyTransport{fail: true}
	r := New(repository.NewMemoryStore(), tr, zap.NewNop())
	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := r.Connect(context.Background(), "p1")
	if !errors.Is(err, model.ErrConnectionFailed) {
		t.Fatalf("err = %v, want ErrConnectionFailed", err)
	}

	device, _ := r.Get("p1")
	if device.Status != model.DeviceStatusError || device.IsConnected {
		t.Fatalf("after failed connect: %s connected=%v, want ERROR disconnected", device.Status, device.IsConnected)
	}

	// recovery: transport comes back
	tr.setFail(false)
	if err := r.Connect(context.Background(), "p1"); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	device, _ = r.Get("p1")
	if device.Status != model.DeviceStatusIdle {
		t.Fatalf("after recovery: %s", device.Status)
	}
}

func TestConnectUnknownDevice(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())

	err := r.Connect(context.Background(), "ghost")
	if !errors.Is(err, model.ErrDeviceNotFound) {
		t.Fatalf("err = %v, want ErrDeviceNotFound", err)
	}
}

func TestDisconnect(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())
	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Connect(context.Background(), "p1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := r.Disconnect("p1"); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	device, _ := r.Get("p1")
	if device.IsConnected || device.Status != model.DeviceStatusOffline {
		t.Fatalf("after disconnect: %s connected=%v", device.Status, device.IsConnected)
	}
}

func TestRequireConnected(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())
	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := r.RequireConnected("p1"); !errors.Is(err, model.ErrNotConnected) {
		t.Fatalf("offline device: err = %v, want ErrNotConnected", err)
	}

	if err := r.Connect(context.Background(), "p1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := r.RequireConnected("p1"); err != nil {
		t.Fatalf("connected device: %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())
	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	first, _ := r.Get("p1")
	first.Name = "mutated"

	second, _ := r.Get("p1")
	if second.Name == "mutated" {
		t.Fatal("Get leaked the shared device struct")
	}
}

func TestStatusListeners(t *testing.T) {
	tr := &flakyTransport{}
	r := New(repository.NewMemoryStore(), tr, zap.NewNop())

	var mutex sync.Mutex
	var seen []model.DeviceStatus
	r.Subscribe(func(deviceID string, status model.DeviceStatus) {
		mutex.Lock()
		seen = append(seen, status)
		mutex.Unlock()
	})

	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Connect(context.Background(), "p1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	mutex.Lock()
	defer mutex.Unlock()
	want := []model.DeviceStatus{
		model.DeviceStatusOffline,    // register
		model.DeviceStatusConnecting, // connect started
		model.DeviceStatusIdle,       // connected
	}
	if len(seen) != len(want) {
		t.Fatalf("listener saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestRemove(t *testing.T) {
	r := New(repository.NewMemoryStore(), &flakyTransport{}, zap.NewNop())
	if err := r.Register(context.Background(), networkDevice("p1")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.Remove(context.Background(), "p1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Get("p1"); !errors.Is(err, model.ErrDeviceNotFound) {
		t.Fatalf("removed device still present: %v", err)
	}
	if err := r.Remove(context.Background(), "p1"); !errors.Is(err, model.ErrDeviceNotFound) {
		t.Fatalf("double remove: err = %v, want ErrDeviceNotFound", err)
	}
}

func TestRestoreEvictsStaleDevices(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	stale := networkDevice("stale")
	stale.CreatedAt = time.Now().Add(-8 * 24 * time.Hour)
	if err := store.SavePrinter(ctx, stale); err != nil {
		t.Fatalf("SavePrinter: %v", err)
	}

	fresh := networkDevice("fresh")
	fresh.CreatedAt = time.Now().Add(-time.Hour)
	if err := store.SavePrinter(ctx, fresh); err != nil {
		t.Fatalf("SavePrinter: %v", err)
	}

	// old but once connected, so it stays
	veteran := networkDevice("veteran")
	veteran.CreatedAt = time.Now().Add(-30 * 24 * time.Hour)
	if err := store.SavePrinter(ctx, veteran); err != nil {
		t.Fatalf("SavePrinter: %v", err)
	}
	if err := store.RecordConnection(ctx, "veteran"); err != nil {
		t.Fatalf("RecordConnection: %v", err)
	}

	if err := store.SetAutoReconnect(ctx, false); err != nil {
		t.Fatalf("SetAutoReconnect: %v", err)
	}

	r := New(store, &flakyTransport{}, zap.NewNop())
	if err := r.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if _, err := r.Get("stale"); !errors.Is(err, model.ErrDeviceNotFound) {
		t.Fatalf("stale device survived restore: %v", err)
	}
	if _, err := r.Get("fresh"); err != nil {
		t.Fatalf("fresh device missing after restore: %v", err)
	}
	if _, err := r.Get("veteran"); err != nil {
		t.Fatalf("previously connected device missing after restore: %v", err)
	}
}
