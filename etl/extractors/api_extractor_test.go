package extractors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

func newTestLogger(t *testing.T) *utils.Logger {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return utils.NewLogger(false)
}

func TestAPIExtractorParsesFlights(t *testing.T) {
	logger := newTestLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"flight_date": "2026-01-05", "flight_status": "landed",
			 "flight": {"iata": "pk301"},
			 "airline": {"name": "PIA"},
			 "departure": {"airport": "Jinnah International"},
			 "arrival": {"airport": "Allama Iqbal International"}}
		]}`))
	}))
	defer server.Close()

	extractor := NewAPIExtractor(server.URL, "secret", 100, 5*time.Second, logger)
	tables, err := extractor.Extract(context.Background())

	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Rows, 1)

	row := tables[0].Rows[0]
	assert.Equal(t, "pk301", row["flight.iata"])
	assert.Equal(t, "PIA", row["airline.name"])
	assert.Equal(t, "Jinnah International", row["departure.airport"])
	assert.Equal(t, "2026-01-05", row["flight_date"])
}

func TestAPIExtractorNonSuccessStatusIsSourceFailure(t *testing.T) {
	logger := newTestLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	extractor := NewAPIExtractor(server.URL, "secret", 100, 5*time.Second, logger)
	_, err := extractor.Extract(context.Background())

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, models.FailureSourceUnavailable, srcErr.Kind)
}

func TestAPIExtractorMalformedPayloadIsSchemaMismatch(t *testing.T) {
	logger := newTestLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": "not a list`))
	}))
	defer server.Close()

	extractor := NewAPIExtractor(server.URL, "secret", 100, 5*time.Second, logger)
	_, err := extractor.Extract(context.Background())

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, models.FailureSchemaMismatch, srcErr.Kind)
}

func TestAPIExtractorUnreachableHostIsSourceFailure(t *testing.T) {
	logger := newTestLogger(t)

	extractor := NewAPIExtractor("http://127.0.0.1:1", "secret", 100, time.Second, logger)
	_, err := extractor.Extract(context.Background())

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, models.FailureSourceUnavailable, srcErr.Kind)
}

func TestFlattenRecords(t *testing.T) {
	table := flattenRecords("api_flights", []map[string]interface{}{
		{
			"flight_status": "active",
			"flight":        map[string]interface{}{"iata": "PK301", "codeshared": nil},
			"live":          map[string]interface{}{"altitude": 11000.5},
			"stops":         []interface{}{"DXB"},
		},
	})

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, "active", row["flight_status"])
	assert.Equal(t, "PK301", row["flight.iata"])
	assert.Equal(t, 11000.5, row["live.altitude"])
	assert.Nil(t, row["flight.codeshared"])
	// Arrays are not expanded into columns.
	assert.False(t, table.HasColumn("stops"))
	// Column order is deterministic.
	assert.Equal(t, []string{"flight.codeshared", "flight.iata", "flight_status", "live.altitude"}, table.Columns)
}
