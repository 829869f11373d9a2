// internal/repository/memory_store.go
package repository

import (
	"context"
	"sync"
	"time"

	"printer-service/internal/model"
)

// memoryStore implements PrinterStore in process memory. Used in
// tests and when the service runs without a database.
type memoryStore struct {
	mutex         sync.RWMutex
	printers      map[string]*model.PrinterDevice
	autoReconnect bool
}

// NewMemoryStore creates an in-memory printer store
func NewMemoryStore() PrinterStore {
	return &memoryStore{
		printers:      make(map[string]*model.PrinterDevice),
		autoReconnect: true,
	}
}

func (s *memoryStore) LoadPrinters(ctx context.Context) ([]*model.PrinterDevice, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	printers := make([]*model.PrinterDevice, 0, len(s.printers))
	for _, device := range s.printers {
		clone := *device
		printers = append(printers, &clone)
	}
	return printers, nil
}

func (s *memoryStore) SavePrinter(ctx context.Context, device *model.PrinterDevice) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	clone := *device
	if existing, ok := s.printers[device.ID]; ok {
		clone.LastConnectedAt = existing.LastConnectedAt
	}
	s.printers[device.ID] = &clone
	return nil
}

func (s *memoryStore) RemovePrinter(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.printers[id]; !ok {
		return model.ErrDeviceNotFound
	}
	delete(s.printers, id)
	return nil
}

func (s *memoryStore) RecordConnection(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	device, ok := s.printers[id]
	if !ok {
		return model.ErrDeviceNotFound
	}
	now := time.Now()
	device.LastConnectedAt = &now
	return nil
}

func (s *memoryStore) GetLastConnected(ctx context.Context) (*model.PrinterDevice, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var latest *model.PrinterDevice
	for _, device := range s.printers {
		if device.LastConnectedAt == nil {
			continue
		}
		if latest == nil || device.LastConnectedAt.After(*latest.LastConnectedAt) {
			latest = device
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (s *memoryStore) IsAutoReconnectEnabled(ctx context.Context) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.autoReconnect, nil
}

func (s *memoryStore) SetAutoReconnect(ctx context.Context, enabled bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.autoReconnect = enabled
	return nil
}
