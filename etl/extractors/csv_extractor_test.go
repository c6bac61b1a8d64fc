package extractors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satisfaction.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVExtractorReadsRows(t *testing.T) {
	logger := newTestLogger(t)
	path := writeCSV(t, "id,Type of Travel,Class,Flight Distance,satisfaction\n"+
		"42,business travel,Eco,460,satisfied\n"+
		"43,personal travel,Business,,neutral or dissatisfied\n")

	extractor := NewCSVExtractor(path, logger)
	tables, err := extractor.Extract(context.Background())

	require.NoError(t, err)
	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, "satisfaction", table.Entity)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "42", table.Rows[0]["id"])
	assert.Equal(t, "business travel", table.Rows[0]["Type of Travel"])
	// Empty fields land as NULL, not empty strings.
	assert.Nil(t, table.Rows[1]["Flight Distance"])
}

func TestCSVExtractorMissingRequiredColumn(t *testing.T) {
	logger := newTestLogger(t)
	path := writeCSV(t, "Type of Travel,Class\nbusiness travel,Eco\n")

	extractor := NewCSVExtractor(path, logger)
	_, err := extractor.Extract(context.Background())

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, models.FailureSchemaMismatch, srcErr.Kind)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestCSVExtractorMissingFile(t *testing.T) {
	logger := newTestLogger(t)

	extractor := NewCSVExtractor(filepath.Join(t.TempDir(), "absent.csv"), logger)
	_, err := extractor.Extract(context.Background())

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, models.FailureSourceUnavailable, srcErr.Kind)
}

func TestCSVExtractorHandlesRaggedRows(t *testing.T) {
	logger := newTestLogger(t)
	path := writeCSV(t, "id,Type of Travel,Class\n42,business travel\n")

	extractor := NewCSVExtractor(path, logger)
	tables, err := extractor.Extract(context.Background())

	require.NoError(t, err)
	require.Len(t, tables[0].Rows, 1)
	// Short records null the trailing columns instead of failing the source.
	assert.Nil(t, tables[0].Rows[0]["Class"])
}
