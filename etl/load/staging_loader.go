// Package load implements the staging loader: each staging table is fully
// replaced by its transformed batch inside one transaction.
package load

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// StagingLoader writes transformed batches into the warehouse staging tables.
type StagingLoader struct {
	db        *sql.DB
	logger    *utils.Logger
	batchSize int
}

// NewStagingLoader creates a loader against the warehouse connection.
func NewStagingLoader(db *sql.DB, logger *utils.Logger, batchSize int) *StagingLoader {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &StagingLoader{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Load replaces the contents of a staging table with the given batch: one
// transaction deleting all existing rows and bulk-inserting the new ones.
// An empty batch still truncates, degrading the table to empty rather than
// stale; the caller decides whether to call Load at all for a failed source.
func (l *StagingLoader) Load(ctx context.Context, table string, columns []string, rows []models.Row) (int, error) {
	startTime := time.Now()
	l.logger.Debug("Loading %d rows into %s", len(rows), table)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction for %s: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quoteIdent(table))); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("truncating %s: %w", table, err)
	}

	inserted := 0
	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}

		query, args := buildInsert(table, columns, rows[start:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting into %s: %w", table, err)
		}
		inserted += end - start
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("committing load of %s: %w", table, err)
	}

	l.logger.Info("Loaded %d rows into %s in %v", inserted, table, time.Since(startTime))
	return inserted, nil
}

// buildInsert renders one multi-row INSERT statement with its arguments.
func buildInsert(table string, columns []string, rows []models.Row) (string, []interface{}) {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", quoteIdent(table), strings.Join(quoted, ", "))

	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		for _, col := range columns {
			args = append(args, row[col])
		}
	}

	return b.String(), args
}

// quoteIdent backtick-quotes a MySQL identifier.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
