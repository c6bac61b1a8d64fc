package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
)

func baseSummary() *models.RunSummary {
	s := models.NewRunSummary("run-1", time.Now())
	s.Sources = []models.SourceReport{
		{Source: "oltp1", Succeeded: true, Entities: []models.EntityReport{
			{Entity: "customers", Loaded: 10},
			{Entity: "bookings", Loaded: 25, Rejected: 2},
		}},
		{Source: "csv", Succeeded: true, Entities: []models.EntityReport{
			{Entity: "satisfaction", Loaded: 5},
		}},
	}
	s.Merges = []models.MergeReport{
		{Target: "DimCustomer", Succeeded: true, RowsAffected: 10},
		{Target: "FactBooking", Succeeded: true, RowsAffected: 25, RowsRejected: 1},
	}
	return s
}

func TestClassifySuccess(t *testing.T) {
	assert.Equal(t, models.OutcomeSuccess, baseSummary().Classify())
}

func TestClassifyPartialOnSourceFailure(t *testing.T) {
	s := baseSummary()
	s.Sources = append(s.Sources, models.SourceReport{
		Source:      "api",
		Succeeded:   false,
		FailureKind: models.FailureSourceUnavailable,
		Error:       "status 502",
	})
	assert.Equal(t, models.OutcomePartial, s.Classify())
}

func TestClassifyPartialOnEntityLoadError(t *testing.T) {
	s := baseSummary()
	s.Sources[0].Entities[0].Error = "deadlock"
	assert.Equal(t, models.OutcomePartial, s.Classify())
}

func TestClassifyPartialOnSingleMergeFailure(t *testing.T) {
	s := baseSummary()
	s.Merges[0] = models.MergeReport{
		Target:      "DimCustomer",
		Succeeded:   false,
		FailureKind: models.FailureMergeTransaction,
		Error:       "lock wait timeout",
	}
	assert.Equal(t, models.OutcomePartial, s.Classify())
}

func TestClassifyFailedWhenNoMergeSucceeds(t *testing.T) {
	s := baseSummary()
	for i := range s.Merges {
		s.Merges[i].Succeeded = false
		s.Merges[i].FailureKind = models.FailureMergeTransaction
	}
	assert.Equal(t, models.OutcomeFailed, s.Classify())
}

func TestClassifyCancelledRunNeverSucceeds(t *testing.T) {
	// A run interrupted before anything happened carries an empty summary;
	// it must not classify as success.
	s := models.NewRunSummary("run-2", time.Now())
	s.Cancelled = true
	s.Outcome = s.Classify()
	assert.Equal(t, models.OutcomeFailed, s.Outcome)
	assert.Equal(t, 1, s.ExitCode())
}

func TestClassifyCancelledRunWithCommittedMergesIsPartial(t *testing.T) {
	s := baseSummary()
	s.Cancelled = true
	assert.Equal(t, models.OutcomePartial, s.Classify())
}

func TestExitCodes(t *testing.T) {
	s := baseSummary()
	for outcome, code := range map[models.Outcome]int{
		models.OutcomeSuccess: 0,
		models.OutcomePartial: 2,
		models.OutcomeFailed:  1,
	} {
		s.Outcome = outcome
		assert.Equal(t, code, s.ExitCode())
	}
}

func TestTotals(t *testing.T) {
	s := baseSummary()
	assert.Equal(t, 40, s.TotalLoaded())
	// 2 validation rejects + 1 foreign-key reject.
	assert.Equal(t, 3, s.TotalRejected())
}

func TestJSONRoundTrips(t *testing.T) {
	s := baseSummary()
	s.Outcome = s.Classify()

	var decoded models.RunSummary
	require.NoError(t, json.Unmarshal([]byte(s.JSON()), &decoded))
	assert.Equal(t, s.RunID, decoded.RunID)
	assert.Equal(t, models.OutcomeSuccess, decoded.Outcome)
	assert.Len(t, decoded.Sources, 2)
}
