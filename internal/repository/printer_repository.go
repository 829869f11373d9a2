// internal/repository/printer_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"printer-service/internal/database"
	"printer-service/internal/model"
)

// printerRepository implements PrinterStore on Postgres
type printerRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPrinterRepository creates a Postgres-backed printer store
func NewPrinterRepository(db *database.DB, logger *zap.Logger) PrinterStore {
	return &printerRepository{
		db:     db,
		logger: logger,
	}
}

const printerColumns = `
	id, address, port, name, transport, protocol, paper_width,
	supports_qr, supports_image, supports_cutter, metadata,
	created_at, last_connected_at
`

// LoadPrinters returns every saved printer
func (r *printerRepository) LoadPrinters(ctx context.Context) ([]*model.PrinterDevice, error) {
	query := `SELECT ` + printerColumns + ` FROM printers ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to load printers", zap.Error(err))
		return nil, fmt.Errorf("failed to load printers: %w", err)
	}
	defer rows.Close()

	var printers []*model.PrinterDevice
	for rows.Next() {
		device, err := scanPrinter(rows)
		if err != nil {
			return nil, err
		}
		printers = append(printers, device)
	}
	return printers, rows.Err()
}

// SavePrinter inserts or updates a printer
func (r *printerRepository) SavePrinter(ctx context.Context, device *model.PrinterDevice) error {
	metadata, err := json.Marshal(device.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO printers (
			id, address, port, name, transport, protocol, paper_width,
			supports_qr, supports_image, supports_cutter, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address, port = EXCLUDED.port,
			name = EXCLUDED.name, transport = EXCLUDED.transport,
			protocol = EXCLUDED.protocol, paper_width = EXCLUDED.paper_width,
			supports_qr = EXCLUDED.supports_qr,
			supports_image = EXCLUDED.supports_image,
			supports_cutter = EXCLUDED.supports_cutter,
			metadata = EXCLUDED.metadata
	`

	_, err = r.db.ExecContext(ctx, query,
		device.ID, device.Address, device.Port, device.Name,
		device.Transport, device.Protocol, device.PaperWidth,
		device.SupportsQR, device.SupportsImage, device.SupportsCutter,
		metadata, device.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save printer",
			zap.Error(err),
			zap.String("printer_id", device.ID),
			zap.String("pq_code", pqCode(err)),
		)
		return fmt.Errorf("failed to save printer: %w", err)
	}

	r.logger.Debug("Printer saved", zap.String("printer_id", device.ID))
	return nil
}

// RemovePrinter deletes a printer by id
func (r *printerRepository) RemovePrinter(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM printers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove printer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrDeviceNotFound
	}
	return nil
}

// RecordConnection stamps the last successful connection time
func (r *printerRepository) RecordConnection(ctx context.Context, id string) error {
	query := `UPDATE printers SET last_connected_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to record connection: %w", err)
	}
	return nil
}

// GetLastConnected returns the most recently connected printer, nil
// when none was ever connected
func (r *printerRepository) GetLastConnected(ctx context.Context) (*model.PrinterDevice, error) {
	query := `SELECT ` + printerColumns + `
		FROM printers
		WHERE last_connected_at IS NOT NULL
		ORDER BY last_connected_at DESC
		LIMIT 1`

	row := r.db.QueryRowContext(ctx, query)
	device, err := scanPrinter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return device, nil
}

// IsAutoReconnectEnabled reads the auto_reconnect setting
func (r *printerRepository) IsAutoReconnectEnabled(ctx context.Context) (bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM printer_settings WHERE key = 'auto_reconnect'`).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return true, nil
		}
		return false, fmt.Errorf("failed to read auto_reconnect: %w", err)
	}
	return value == "true", nil
}

// SetAutoReconnect writes the auto_reconnect setting
func (r *printerRepository) SetAutoReconnect(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	query := `
		INSERT INTO printer_settings (key, value) VALUES ('auto_reconnect', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := r.db.ExecContext(ctx, query, value); err != nil {
		return fmt.Errorf("failed to set auto_reconnect: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrinter(row rowScanner) (*model.PrinterDevice, error) {
	device := &model.PrinterDevice{}
	var metadata []byte

	err := row.Scan(
		&device.ID, &device.Address, &device.Port, &device.Name,
		&device.Transport, &device.Protocol, &device.PaperWidth,
		&device.SupportsQR, &device.SupportsImage, &device.SupportsCutter,
		&metadata, &device.CreatedAt, &device.LastConnectedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &device.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	device.Status = model.DeviceStatusOffline
	return device, nil
}

// statement-level errors from pq carry codes worth logging verbatim
func pqCode(err error) string {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code)
	}
	return ""
}
