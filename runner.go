package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/config"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/extractors"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/load"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/merge"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/transform"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// Runner is the run controller: it sequences extract, transform, stage-load
// and merge across all four sources, isolates per-source failures, and emits
// the structured run summary.
type Runner struct {
	cfg         *config.Config
	conns       *config.DBConnections
	logger      *utils.Logger
	extractor   *extractors.Extractor
	transformer *transform.Transformer
	loader      *load.StagingLoader
	merger      *merge.Merger
	runLogRepo  models.RunLogRepository
}

// NewRunner builds the pipeline from configuration. Failure here means the
// warehouse is unreachable, which is the one condition no run can survive.
func NewRunner(cfg *config.Config) (*Runner, error) {
	logger := utils.NewLogger(cfg.EnableDetailedLogging)
	logger.Info("Initializing ETL runner")

	conns, err := config.ConnectDatabases(cfg)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("connecting databases: %w", err)
	}

	runLogRepo := models.NewMySQLRunLogRepository(conns.Warehouse)
	if err := runLogRepo.EnsureTable(); err != nil {
		config.CloseDatabases(conns)
		logger.Close()
		return nil, fmt.Errorf("preparing run log table: %w", err)
	}

	return &Runner{
		cfg:         cfg,
		conns:       conns,
		logger:      logger,
		extractor:   extractors.NewExtractor(cfg, conns, logger),
		transformer: transform.NewTransformer(logger),
		loader:      load.NewStagingLoader(conns.Warehouse, logger, cfg.BatchSize),
		merger:      merge.NewMerger(conns.Warehouse, logger, cfg.MergeTimeout),
		runLogRepo:  runLogRepo,
	}, nil
}

// Close releases the database connections and the log file.
func (r *Runner) Close() {
	r.logger.Info("Shutting down ETL runner")
	config.CloseDatabases(r.conns)
	r.logger.Close()
}

// Execute runs the full pipeline once and returns the run summary. Every
// source is processed independently: a failed source is recorded and its
// staging tables are left unrefreshed while the others proceed. The merge
// phase always runs on whatever staging data is present.
func (r *Runner) Execute(ctx context.Context) *models.RunSummary {
	startTime := time.Now().UTC()
	summary := models.NewRunSummary(uuid.New().String(), startTime)
	r.logger.Info("Starting ETL run %s", summary.RunID)

	logID, err := r.runLogRepo.CreateEntry(summary.RunID, startTime)
	if err != nil {
		// The run is still worth attempting; only its record is lost.
		r.logger.Error("Could not create run log entry: %v", err)
		logID = 0
	}

	// Extract, transform and stage-load each source in isolation. A source
	// skipped by cancellation is still reported: the summary never silently
	// drops a source that did not run.
	r.logger.LogPhaseStart("staging")
	stagingStart := time.Now()
	sources := r.extractor.Sources()
	for i, source := range sources {
		if ctx.Err() != nil {
			r.logger.Error("Run cancelled before source %s", source.Name)
			summary.Sources = append(summary.Sources, skippedSourceReports(sources[i:], ctx.Err())...)
			break
		}
		summary.Sources = append(summary.Sources, r.processSource(ctx, source, startTime))
	}
	r.logger.LogPhaseComplete("staging", time.Since(stagingStart))

	// The merge phase always runs, maximizing freshness despite partial
	// source failure: an empty or stale staging table merges nothing.
	if ctx.Err() == nil {
		r.logger.LogPhaseStart("merge")
		mergeStart := time.Now()
		summary.Merges = r.merger.MergeAll(ctx)
		r.logger.LogPhaseComplete("merge", time.Since(mergeStart))
	} else {
		r.logger.Error("Run cancelled before merge phase")
	}

	summary.EndTime = time.Now().UTC()
	summary.Cancelled = ctx.Err() != nil
	summary.Outcome = summary.Classify()

	if logID != 0 {
		if err := r.runLogRepo.CompleteEntry(logID, summary); err != nil {
			r.logger.Error("Could not finalize run log entry: %v", err)
		}
	}

	r.logger.Info("ETL run %s finished with outcome %q in %v", summary.RunID, summary.Outcome, summary.EndTime.Sub(summary.StartTime))
	fmt.Println(summary.JSON())

	return summary
}

// processSource runs one source's extract, transform and stage-load sequence
// and returns its tagged report. Failures are values, never panics: the
// caller aggregates them and moves on.
func (r *Runner) processSource(ctx context.Context, source extractors.Source, loadDate time.Time) models.SourceReport {
	report := models.SourceReport{Source: source.Name}
	r.logger.Info("Processing source %s", source.Name)

	extractCtx, cancel := context.WithTimeout(ctx, r.cfg.SourceTimeout)
	tables, err := source.Extract(extractCtx)
	cancel()
	if err != nil {
		report.FailureKind, report.Error = classifySourceError(err)
		r.logger.Error("Source %s failed: %v; its staging tables keep their previous contents", source.Name, err)
		return report
	}

	report.Succeeded = true
	for _, table := range tables {
		report.Entities = append(report.Entities, r.processEntity(ctx, table, loadDate))
	}
	return report
}

// processEntity transforms one extracted table and replaces its staging
// table. A load failure is recorded on the entity and degrades the run to
// partial; the remaining entities still proceed.
func (r *Runner) processEntity(ctx context.Context, table models.Table, loadDate time.Time) models.EntityReport {
	ent, err := schema.ByName(table.Entity)
	if err != nil {
		return models.EntityReport{Entity: table.Entity, Error: err.Error()}
	}

	result := r.transformer.TransformEntity(ent, table, loadDate)

	report := models.EntityReport{
		Entity:            ent.Name,
		StagingTable:      ent.StagingTable,
		Extracted:         result.Extracted,
		DuplicatesRemoved: result.DuplicatesRemoved,
		CoercionFailures:  result.CoercionFailures,
		Rejected:          result.Rejected,
	}

	loadCtx, cancel := context.WithTimeout(ctx, r.cfg.SourceTimeout)
	loaded, err := r.loader.Load(loadCtx, ent.StagingTable, result.Table.Columns, result.Table.Rows)
	cancel()
	if err != nil {
		report.Error = err.Error()
		r.logger.Error("Loading %s failed: %v", ent.StagingTable, err)
		return report
	}

	report.Loaded = loaded
	return report
}

// skippedSourceReports tags every source a cancellation prevented from
// running, so the summary accounts for all of them.
func skippedSourceReports(sources []extractors.Source, cause error) []models.SourceReport {
	reports := make([]models.SourceReport, 0, len(sources))
	for _, source := range sources {
		reports = append(reports, models.SourceReport{
			Source:      source.Name,
			FailureKind: models.FailureSourceUnavailable,
			Error:       fmt.Sprintf("run cancelled before extraction: %v", cause),
		})
	}
	return reports
}

// classifySourceError maps an extract error to its failure kind for the
// summary.
func classifySourceError(err error) (models.FailureKind, string) {
	var srcErr *extractors.SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Kind, err.Error()
	}
	return models.FailureSourceUnavailable, err.Error()
}
