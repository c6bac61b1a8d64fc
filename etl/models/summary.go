package models

import (
	"encoding/json"
	"time"
)

// Outcome classifies a completed run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// FailureKind tags a recoverable failure recorded in the run summary.
type FailureKind string

const (
	FailureSourceUnavailable    FailureKind = "source_unavailable"
	FailureSchemaMismatch       FailureKind = "schema_mismatch"
	FailureValidationRejected   FailureKind = "validation_rejected"
	FailureForeignKeyUnresolved FailureKind = "foreign_key_unresolved"
	FailureMergeTransaction     FailureKind = "merge_transaction_failure"
)

// EntityReport accounts for one staging entity within a source: how many rows
// were extracted, dropped or rejected along the way, and how many reached the
// staging table.
type EntityReport struct {
	Entity            string `json:"entity"`
	StagingTable      string `json:"staging_table"`
	Extracted         int    `json:"extracted"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
	CoercionFailures  int    `json:"coercion_failures"`
	Rejected          int    `json:"rejected"`
	Loaded            int    `json:"loaded"`
	Error             string `json:"error,omitempty"`
}

// SourceReport records the outcome of one source's extract/transform/load
// sequence. A failed source carries its failure kind and leaves its staging
// tables unrefreshed.
type SourceReport struct {
	Source      string         `json:"source"`
	Succeeded   bool           `json:"succeeded"`
	FailureKind FailureKind    `json:"failure_kind,omitempty"`
	Error       string         `json:"error,omitempty"`
	Entities    []EntityReport `json:"entities,omitempty"`
}

// MergeReport records the outcome of one target table's merge transaction.
type MergeReport struct {
	Target       string      `json:"target"`
	Succeeded    bool        `json:"succeeded"`
	RowsAffected int64       `json:"rows_affected"`
	RowsRejected int         `json:"rows_rejected"`
	FailureKind  FailureKind `json:"failure_kind,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// RunSummary is the structured report emitted at the end of every run.
type RunSummary struct {
	RunID     string         `json:"run_id"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Outcome   Outcome        `json:"outcome"`
	Cancelled bool           `json:"cancelled,omitempty"`
	Sources   []SourceReport `json:"sources"`
	Merges    []MergeReport  `json:"merges"`
}

// NewRunSummary creates a summary for a run starting now.
func NewRunSummary(runID string, start time.Time) *RunSummary {
	return &RunSummary{
		RunID:     runID,
		StartTime: start,
	}
}

// Classify derives the run outcome from the aggregated per-stage results.
// A run fails outright only when no merge target could be written at all
// (total warehouse loss); any mix of per-source or per-table failures with at
// least one successful merge is a partial success.
func (s *RunSummary) Classify() Outcome {
	// A cancelled run never classifies as success: whatever the shutdown
	// interrupted did not happen. It is partial when at least one merge
	// committed before the interruption and failed otherwise.
	if s.Cancelled {
		for _, m := range s.Merges {
			if m.Succeeded {
				return OutcomePartial
			}
		}
		return OutcomeFailed
	}

	mergeFailures := 0
	for _, m := range s.Merges {
		if !m.Succeeded {
			mergeFailures++
		}
	}
	if len(s.Merges) > 0 && mergeFailures == len(s.Merges) {
		return OutcomeFailed
	}

	for _, src := range s.Sources {
		if !src.Succeeded {
			return OutcomePartial
		}
		for _, e := range src.Entities {
			if e.Error != "" {
				return OutcomePartial
			}
		}
	}
	if mergeFailures > 0 {
		return OutcomePartial
	}
	return OutcomeSuccess
}

// ExitCode maps the run outcome to a process exit status for external
// schedulers: 0 success, 2 partial, 1 failure.
func (s *RunSummary) ExitCode() int {
	switch s.Outcome {
	case OutcomeSuccess:
		return 0
	case OutcomePartial:
		return 2
	default:
		return 1
	}
}

// TotalLoaded returns the number of rows loaded into staging across all sources.
func (s *RunSummary) TotalLoaded() int {
	total := 0
	for _, src := range s.Sources {
		for _, e := range src.Entities {
			total += e.Loaded
		}
	}
	return total
}

// TotalRejected returns the number of rows rejected by validation and
// foreign-key resolution across the run.
func (s *RunSummary) TotalRejected() int {
	total := 0
	for _, src := range s.Sources {
		for _, e := range src.Entities {
			total += e.Rejected
		}
	}
	for _, m := range s.Merges {
		total += m.RowsRejected
	}
	return total
}

// JSON renders the summary as indented JSON for the run report.
func (s *RunSummary) JSON() string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
