// internal/repository/interfaces.go
package repository

import (
	"context"

	"printer-service/internal/model"
)

// PrinterStore persists known printers between restarts. The
// connection registry is the only caller; the storage medium is an
// implementation detail.
type PrinterStore interface {
	LoadPrinters(ctx context.Context) ([]*model.PrinterDevice, error)
	SavePrinter(ctx context.Context, device *model.PrinterDevice) error
	RemovePrinter(ctx context.Context, id string) error

	// RecordConnection stamps last_connected_at for reconnect ordering.
	RecordConnection(ctx context.Context, id string) error
	GetLastConnected(ctx context.Context) (*model.PrinterDevice, error)

	IsAutoReconnectEnabled(ctx context.Context) (bool, error)
	SetAutoReconnect(ctx context.Context, enabled bool) error
}

// JobHistoryStore records terminal print job outcomes for reporting.
type JobHistoryStore interface {
	RecordJob(ctx context.Context, job *model.PrintJob) error
	ListByPrinter(ctx context.Context, printerID string, limit int) ([]*model.PrintJob, error)
}
