package models

import "time"

// RunLogRepository persists one record per pipeline run in the etl_run_log
// table, kept in the warehouse alongside the tables the run feeds.
type RunLogRepository interface {
	// EnsureTable creates the etl_run_log table if it does not exist.
	EnsureTable() error

	// CreateEntry inserts an in-progress entry for a run and returns its row ID.
	CreateEntry(runID string, startTime time.Time) (int64, error)

	// CompleteEntry finalizes an entry with the finished run summary.
	CompleteEntry(id int64, summary *RunSummary) error
}
