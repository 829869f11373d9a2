// internal/registry/registry.go
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/repository"
	"printer-service/internal/transport"
	"printer-service/internal/utils"
)

// StatusListener is notified after every device status transition.
type StatusListener func(deviceID string, status model.DeviceStatus)

// Registry owns every known printer and its connection state. All
// mutation goes through Registry methods; callers get copies, never
// the shared structs.
type Registry struct {
	mutex     sync.RWMutex
	devices   map[string]*model.PrinterDevice
	store     repository.PrinterStore
	transport transport.Transport
	logger    *zap.Logger
	listeners []StatusListener

	connectTimeout time.Duration
}

// New creates a device registry backed by the given store and
// transport chain.
func New(store repository.PrinterStore, tr transport.Transport, logger *zap.Logger) *Registry {
	return &Registry{
		devices:        make(map[string]*model.PrinterDevice),
		store:          store,
		transport:      tr,
		logger:         logger.With(zap.String("component", "registry")),
		connectTimeout: 10 * time.Second,
	}
}

// Subscribe adds a status listener. Listeners run synchronously on
// the mutating goroutine and must not call back into the registry.
func (r *Registry) Subscribe(listener StatusListener) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.listeners = append(r.listeners, listener)
}

// Register adds or updates a device and persists it. New devices
// start offline; CloudPRNT devices are connected the moment they are
// registered because jobs go to a server queue the printer polls.
func (r *Registry) Register(ctx context.Context, device *model.PrinterDevice) error {
	if device.ID == "" {
		return fmt.Errorf("%w: device id required", model.ErrInvalidData)
	}
	if device.CreatedAt.IsZero() {
		device.CreatedAt = time.Now()
	}
	if device.IsCloudPolled() {
		device.IsConnected = true
		device.Status = model.DeviceStatusIdle
	} else if device.Status == "" {
		device.Status = model.DeviceStatusOffline
	}

	if err := r.store.SavePrinter(ctx, device); err != nil {
		return err
	}

	r.mutex.Lock()
	clone := *device
	r.devices[device.ID] = &clone
	r.mutex.Unlock()

	r.logger.Info("Printer registered",
		zap.String("printer_id", device.ID),
		zap.String("address", device.Address),
		zap.String("transport", string(device.Transport)),
		zap.String("protocol", string(device.Protocol)),
	)
	r.notify(device.ID, device.Status)
	return nil
}

// Connect runs the connection state machine for one device:
// idle/offline -> connecting -> idle on success, error on failure.
func (r *Registry) Connect(ctx context.Context, deviceID string) error {
	device, err := r.Get(deviceID)
	if err != nil {
		return err
	}

	if device.IsCloudPolled() {
		// nothing to establish; the printer polls the server queue
		r.setConnected(deviceID, true)
		return nil
	}

	r.setStatus(deviceID, model.DeviceStatusConnecting)

	plog := utils.NewPrinterLogger(r.logger, deviceID, string(device.Transport), string(device.Protocol))

	connectCtx, cancel := context.WithTimeout(ctx, r.connectTimeout)
	defer cancel()

	if err := r.transport.Test(connectCtx, device); err != nil {
		r.setStatus(deviceID, model.DeviceStatusError)
		plog.LogConnection("connect", false, err)
		return fmt.Errorf("%w: %s: %v", model.ErrConnectionFailed, deviceID, err)
	}

	r.setConnected(deviceID, true)
	if err := r.store.RecordConnection(ctx, deviceID); err != nil {
		r.logger.Warn("Failed to record connection time",
			zap.String("printer_id", deviceID),
			zap.Error(err),
		)
	}

	plog.LogConnection("connect", true, nil)
	return nil
}

// Disconnect marks a device offline.
func (r *Registry) Disconnect(deviceID string) error {
	r.mutex.Lock()
	device, ok := r.devices[deviceID]
	if !ok {
		r.mutex.Unlock()
		return model.ErrDeviceNotFound
	}
	device.IsConnected = false
	device.Status = model.DeviceStatusOffline
	r.mutex.Unlock()

	r.logger.Info("Printer disconnected", zap.String("printer_id", deviceID))
	r.notify(deviceID, model.DeviceStatusOffline)
	return nil
}

// Remove forgets a device and deletes it from the store.
func (r *Registry) Remove(ctx context.Context, deviceID string) error {
	r.mutex.Lock()
	_, ok := r.devices[deviceID]
	delete(r.devices, deviceID)
	r.mutex.Unlock()

	if err := r.store.RemovePrinter(ctx, deviceID); err != nil && ok {
		r.logger.Warn("Failed to remove printer from store",
			zap.String("printer_id", deviceID),
			zap.Error(err),
		)
	}
	if !ok {
		return model.ErrDeviceNotFound
	}
	return nil
}

// Get returns a copy of a device.
func (r *Registry) Get(deviceID string) (*model.PrinterDevice, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	device, ok := r.devices[deviceID]
	if !ok {
		return nil, model.ErrDeviceNotFound
	}
	clone := *device
	return &clone, nil
}

// List returns copies of all known devices.
func (r *Registry) List() []*model.PrinterDevice {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	devices := make([]*model.PrinterDevice, 0, len(r.devices))
	for _, device := range r.devices {
		clone := *device
		devices = append(devices, &clone)
	}
	return devices
}

// SetPrinting flips a connected device between printing and idle.
// Only the job queue calls this.
func (r *Registry) SetPrinting(deviceID string, printing bool) {
	status := model.DeviceStatusIdle
	if printing {
		status = model.DeviceStatusPrinting
	}
	r.setStatus(deviceID, status)
}

// RequireConnected returns the device if it is ready to receive a
// job. Printing on an unconnected device is a caller error.
func (r *Registry) RequireConnected(deviceID string) (*model.PrinterDevice, error) {
	device, err := r.Get(deviceID)
	if err != nil {
		return nil, err
	}
	if !device.IsConnected {
		return nil, fmt.Errorf("%w: %s", model.ErrNotConnected, deviceID)
	}
	return device, nil
}

func (r *Registry) setStatus(deviceID string, status model.DeviceStatus) {
	r.mutex.Lock()
	device, ok := r.devices[deviceID]
	if ok {
		device.Status = status
		if status == model.DeviceStatusError {
			device.IsConnected = false
		}
	}
	r.mutex.Unlock()
	if ok {
		r.notify(deviceID, status)
	}
}

func (r *Registry) setConnected(deviceID string, connected bool) {
	r.mutex.Lock()
	device, ok := r.devices[deviceID]
	if ok {
		device.IsConnected = connected
		device.Status = model.DeviceStatusIdle
		now := time.Now()
		device.LastConnectedAt = &now
	}
	r.mutex.Unlock()
	if ok {
		r.notify(deviceID, model.DeviceStatusIdle)
	}
}

func (r *Registry) notify(deviceID string, status model.DeviceStatus) {
	r.mutex.RLock()
	listeners := make([]StatusListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mutex.RUnlock()

	for _, listener := range listeners {
		listener(deviceID, status)
	}
}
