package merge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
)

// MergeDimension reconciles one staging table into its dimension table under
// Type-1 semantics, inside its own transaction. An empty staging table (a
// failed or empty source) merges nothing and leaves the dimension at its
// previous state.
func (m *Merger) MergeDimension(ctx context.Context, dim schema.Dimension) models.MergeReport {
	startTime := time.Now()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		m.logger.Error("Merge of %s could not begin: %v", dim.Table, err)
		return failureReport(dim.Table, fmt.Errorf("beginning transaction: %w", err))
	}

	result, err := tx.ExecContext(ctx, dimensionMergeSQL(dim))
	if err != nil {
		tx.Rollback()
		m.logger.Error("Merge of %s rolled back: %v", dim.Table, err)
		return failureReport(dim.Table, fmt.Errorf("merging %s: %w", dim.Table, err))
	}

	affected, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		m.logger.Error("Merge of %s failed to commit: %v", dim.Table, err)
		return failureReport(dim.Table, fmt.Errorf("committing merge of %s: %w", dim.Table, err))
	}

	m.logger.Info("Merged %s: %d rows affected in %v", dim.Table, affected, time.Since(startTime))
	return models.MergeReport{
		Target:       dim.Table,
		Succeeded:    true,
		RowsAffected: affected,
	}
}

// dimensionMergeSQL renders the keyed upsert for one dimension: matched
// natural keys get every non-key attribute overwritten with the staging
// value, unmatched staging rows insert with a fresh surrogate key, and
// dimension rows with no staging counterpart are untouched. Staging is a
// refresh of latest-known, not an authoritative full set, so there is no
// delete branch.
func dimensionMergeSQL(dim schema.Dimension) string {
	insertCols := []string{quoteIdent(dim.NaturalKey)}
	selectCols := []string{"s." + quoteIdent(dim.NaturalKey)}
	updates := make([]string, 0, len(dim.Attributes)+1)

	for _, attr := range dim.Attributes {
		insertCols = append(insertCols, quoteIdent(attr.Dim))
		selectCols = append(selectCols, "s."+quoteIdent(attr.Staging))
		updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", quoteIdent(attr.Dim), quoteIdent(attr.Dim)))
	}

	insertCols = append(insertCols, quoteIdent(schema.LoadDateColumn))
	selectCols = append(selectCols, "s."+quoteIdent(schema.LoadDateColumn))
	updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", quoteIdent(schema.LoadDateColumn), quoteIdent(schema.LoadDateColumn)))

	return fmt.Sprintf(
		"INSERT INTO %s (%s)\nSELECT %s\nFROM %s s\nON DUPLICATE KEY UPDATE %s",
		quoteIdent(dim.Table),
		strings.Join(insertCols, ", "),
		strings.Join(selectCols, ", "),
		quoteIdent(dim.Staging),
		strings.Join(updates, ", "),
	)
}

// quoteIdent backtick-quotes a MySQL identifier.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
