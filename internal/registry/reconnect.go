// internal/registry/reconnect.go
package registry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// Restore loads saved printers on startup, evicts stale entries and
// re-registers the rest. When auto-reconnect is enabled and the
// most-recently-connected printer is among them, connection is
// attempted in the background so other printers' re-registration is
// never blocked by a slow dial.
func (r *Registry) Restore(ctx context.Context) error {
	saved, err := r.store.LoadPrinters(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, device := range saved {
		if device.IsStale(now) {
			r.logger.Info("Evicting stale printer",
				zap.String("printer_id", device.ID),
				zap.Time("created_at", device.CreatedAt),
			)
			if err := r.store.RemovePrinter(ctx, device.ID); err != nil {
				r.logger.Warn("Failed to evict stale printer",
					zap.String("printer_id", device.ID),
					zap.Error(err),
				)
			}
			continue
		}
		if err := r.Register(ctx, device); err != nil {
			r.logger.Warn("Failed to re-register saved printer",
				zap.String("printer_id", device.ID),
				zap.Error(err),
			)
		}
	}

	r.logger.Info("Printer registry restored", zap.Int("printers", len(r.devices)))

	r.autoReconnect(ctx)
	return nil
}

// autoReconnect kicks off a background connection to the last
// connected printer when the setting allows it.
func (r *Registry) autoReconnect(ctx context.Context) {
	enabled, err := r.store.IsAutoReconnectEnabled(ctx)
	if err != nil {
		r.logger.Warn("Failed to read auto-reconnect setting", zap.Error(err))
		return
	}
	if !enabled {
		return
	}

	last, err := r.store.GetLastConnected(ctx)
	if err != nil || last == nil {
		return
	}
	if _, err := r.Get(last.ID); err != nil {
		// evicted or otherwise gone
		return
	}

	go func() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := r.Connect(connectCtx, last.ID); err != nil {
			r.logger.Warn("Auto-reconnect failed",
				zap.String("printer_id", last.ID),
				zap.Error(err),
			)
			return
		}
		r.logger.Info("Auto-reconnected to last printer",
			zap.String("printer_id", last.ID),
		)
	}()
}

// ConnectedCount reports how many devices are currently connected.
func (r *Registry) ConnectedCount() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	count := 0
	for _, device := range r.devices {
		if device.IsConnected && device.Status != model.DeviceStatusError {
			count++
		}
	}
	return count
}
