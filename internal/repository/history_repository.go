// internal/repository/history_repository.go
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"printer-service/internal/database"
	"printer-service/internal/model"
)

// historyRepository implements JobHistoryStore on Postgres
type historyRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a Postgres-backed job history store
func NewHistoryRepository(db *database.DB, logger *zap.Logger) JobHistoryStore {
	return &historyRepository{
		db:     db,
		logger: logger,
	}
}

// RecordJob inserts a terminal job outcome
func (r *historyRepository) RecordJob(ctx context.Context, job *model.PrintJob) error {
	query := `
		INSERT INTO print_history (id, printer_id, order_number, status, retry_count, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.DeviceID, job.OrderNumber, job.Status,
		job.RetryCount, job.LastError, job.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record job history",
			zap.Error(err),
			zap.String("job_id", job.ID.String()),
		)
		return fmt.Errorf("failed to record job: %w", err)
	}
	return nil
}

// ListByPrinter returns the most recent jobs for a printer
func (r *historyRepository) ListByPrinter(ctx context.Context, printerID string, limit int) ([]*model.PrintJob, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, printer_id, order_number, status, retry_count, error, created_at
		FROM print_history
		WHERE printer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, printerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list job history: %w", err)
	}
	defer rows.Close()

	var jobs []*model.PrintJob
	for rows.Next() {
		job := &model.PrintJob{}
		err := rows.Scan(
			&job.ID, &job.DeviceID, &job.OrderNumber, &job.Status,
			&job.RetryCount, &job.LastError, &job.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
