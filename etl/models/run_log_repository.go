package models

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLRunLogRepository is the RunLogRepository implementation for the MySQL
// warehouse.
type MySQLRunLogRepository struct {
	db *sql.DB
}

// NewMySQLRunLogRepository creates a repository bound to the warehouse handle.
func NewMySQLRunLogRepository(db *sql.DB) *MySQLRunLogRepository {
	return &MySQLRunLogRepository{db: db}
}

// EnsureTable creates the etl_run_log table if it does not exist.
func (r *MySQLRunLogRepository) EnsureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS etl_run_log (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id CHAR(36) NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('in_progress', 'success', 'partial', 'failed') NOT NULL DEFAULT 'in_progress',
		rows_loaded INT DEFAULT 0,
		rows_rejected INT DEFAULT 0,
		summary_json JSON NULL,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("creating etl_run_log table: %w", err)
	}
	return nil
}

// CreateEntry inserts an in-progress entry for a run and returns its row ID.
func (r *MySQLRunLogRepository) CreateEntry(runID string, startTime time.Time) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO etl_run_log (run_id, start_time, status) VALUES (?, ?, 'in_progress')`,
		runID, startTime,
	)
	if err != nil {
		return 0, fmt.Errorf("creating run log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run log entry ID: %w", err)
	}
	return id, nil
}

// CompleteEntry finalizes an entry with the finished run summary.
func (r *MySQLRunLogRepository) CompleteEntry(id int64, summary *RunSummary) error {
	errorMessage := ""
	for _, src := range summary.Sources {
		if !src.Succeeded {
			errorMessage += fmt.Sprintf("[%s] %s; ", src.Source, src.Error)
		}
	}
	for _, m := range summary.Merges {
		if !m.Succeeded {
			errorMessage += fmt.Sprintf("[%s] %s; ", m.Target, m.Error)
		}
	}

	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = ?,
		rows_loaded = ?,
		rows_rejected = ?,
		summary_json = ?,
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err := r.db.Exec(
		query,
		summary.EndTime,
		string(summary.Outcome),
		summary.TotalLoaded(),
		summary.TotalRejected(),
		summary.JSON(),
		errorMessage,
		summary.EndTime.Sub(summary.StartTime).Seconds(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating run log entry %d: %w", id, err)
	}
	return nil
}
