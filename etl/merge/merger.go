// Package merge implements the merge engine: it reconciles the staging
// tables into the dimension and fact tables under Type-1 semantics, one
// transaction per target table, so a failed merge leaves that table at its
// prior committed state without stopping the remaining targets.
package merge

import (
	"context"
	"database/sql"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// Merger is the sole writer of the dimension and fact tables.
type Merger struct {
	db      *sql.DB
	logger  *utils.Logger
	timeout time.Duration
}

// NewMerger creates a Merger against the warehouse connection. The timeout
// bounds each target table's merge transaction; zero means unbounded.
func NewMerger(db *sql.DB, logger *utils.Logger, timeout time.Duration) *Merger {
	return &Merger{db: db, logger: logger, timeout: timeout}
}

// MergeAll reconciles every target table in the fixed dependency order:
// the six staged dimensions, then the date dimension, then the fact table,
// which requires every natural-key-to-surrogate-key mapping to be current.
// Each target reports independently with its own timeout budget; a failure
// or a slow merge never stops or starves the next target.
func (m *Merger) MergeAll(ctx context.Context) []models.MergeReport {
	reports := make([]models.MergeReport, 0, len(schema.Dimensions())+2)

	for _, dim := range schema.Dimensions() {
		tctx, cancel := m.targetContext(ctx)
		reports = append(reports, m.MergeDimension(tctx, dim))
		cancel()
	}

	tctx, cancel := m.targetContext(ctx)
	reports = append(reports, m.MergeDateDimension(tctx))
	cancel()

	tctx, cancel = m.targetContext(ctx)
	reports = append(reports, m.MergeFact(tctx))
	cancel()

	return reports
}

// targetContext derives the context bounding one target table's merge.
func (m *Merger) targetContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// failureReport builds the report for a rolled-back merge.
func failureReport(target string, err error) models.MergeReport {
	return models.MergeReport{
		Target:      target,
		Succeeded:   false,
		FailureKind: models.FailureMergeTransaction,
		Error:       err.Error(),
	}
}
