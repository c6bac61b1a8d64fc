package transform

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	// keep the dated log file out of the repo
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return NewTransformer(utils.NewLogger(false))
}

func entity(t *testing.T, name string) schema.Entity {
	t.Helper()
	ent, err := schema.ByName(name)
	require.NoError(t, err)
	return ent
}

func TestTransformCustomersNormalizesCasing(t *testing.T) {
	tr := newTestTransformer(t)
	loadDate := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)

	raw := models.NewTable("customers", []string{"CustomerID", "Name"})
	raw.Rows = []models.Row{
		{"CustomerID": "101", "Name": "  jane doe "},
	}

	result := tr.TransformEntity(entity(t, "customers"), raw, loadDate)

	require.Len(t, result.Table.Rows, 1)
	row := result.Table.Rows[0]
	assert.Equal(t, int64(101), row["CustomerID"])
	assert.Equal(t, "Jane Doe", row["Name"])
	assert.Equal(t, loadDate, row[schema.LoadDateColumn])
	assert.Zero(t, result.Rejected)
}

func TestTransformDeduplicatesIdenticalRows(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("customers", []string{"CustomerID", "Name"})
	raw.Rows = []models.Row{
		{"CustomerID": "1", "Name": "ali"},
		{"CustomerID": "1", "Name": "ali"},
		{"CustomerID": "2", "Name": "sara"},
	}

	result := tr.TransformEntity(entity(t, "customers"), raw, time.Now())

	assert.Equal(t, 3, result.Extracted)
	assert.Equal(t, 1, result.DuplicatesRemoved)
	assert.Len(t, result.Table.Rows, 2)
}

func TestTransformDeduplicatesNaturalKeyKeepFirst(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("customers", []string{"CustomerID", "Name"})
	raw.Rows = []models.Row{
		{"CustomerID": "1", "Name": "first"},
		{"CustomerID": "1", "Name": "second"},
	}

	result := tr.TransformEntity(entity(t, "customers"), raw, time.Now())

	require.Len(t, result.Table.Rows, 1)
	assert.Equal(t, "First", result.Table.Rows[0]["Name"])
	assert.Equal(t, 1, result.DuplicatesRemoved)
}

func TestTransformRejectsMissingRequiredFields(t *testing.T) {
	tr := newTestTransformer(t)

	// Five bookings, two violating required fields: exactly N-M survive.
	raw := models.NewTable("bookings", []string{"BookingID", "CustomerID", "FlightID", "Date"})
	raw.Rows = []models.Row{
		{"BookingID": "1", "CustomerID": "10", "FlightID": "20", "Date": "2026-01-05 10:00:00"},
		{"BookingID": "2", "CustomerID": nil, "FlightID": "20", "Date": "2026-01-05 10:00:00"},
		{"BookingID": "3", "CustomerID": "11", "FlightID": "21", "Date": "2026-01-06 09:30:00"},
		{"BookingID": "4", "CustomerID": "12", "FlightID": nil, "Date": "2026-01-06 09:30:00"},
		{"BookingID": "5", "CustomerID": "13", "FlightID": "22", "Date": "2026-01-07 18:15:00"},
	}

	result := tr.TransformEntity(entity(t, "bookings"), raw, time.Now())

	assert.Equal(t, 2, result.Rejected)
	assert.Len(t, result.Table.Rows, 3)
}

func TestTransformCoercionFailureBecomesNull(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("bookings", []string{"BookingID", "CustomerID", "FlightID", "Date", "FareAmount"})
	raw.Rows = []models.Row{
		{"BookingID": "1", "CustomerID": "10", "FlightID": "20", "Date": "2026-01-05 10:00:00", "FareAmount": "not-a-number"},
	}

	result := tr.TransformEntity(entity(t, "bookings"), raw, time.Now())

	require.Len(t, result.Table.Rows, 1)
	assert.Nil(t, result.Table.Rows[0]["FareAmount"])
	assert.Equal(t, 1, result.CoercionFailures)
}

func TestTransformInvalidDateRejectsRequiredRow(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("bookings", []string{"BookingID", "CustomerID", "FlightID", "Date"})
	raw.Rows = []models.Row{
		{"BookingID": "1", "CustomerID": "10", "FlightID": "20", "Date": "garbage"},
	}

	result := tr.TransformEntity(entity(t, "bookings"), raw, time.Now())

	// BookingDate is required: the nulled coercion failure rejects the row.
	assert.Equal(t, 1, result.CoercionFailures)
	assert.Equal(t, 1, result.Rejected)
	assert.Empty(t, result.Table.Rows)
}

func TestTransformRejectsNonPositiveAmounts(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("payments", []string{"PaymentID", "BookingID", "Method", "Amount", "Date"})
	raw.Rows = []models.Row{
		{"PaymentID": "1", "BookingID": "1", "Method": " credit card ", "Amount": "120.50", "Date": "2026-01-05 10:00:00"},
		{"PaymentID": "2", "BookingID": "2", "Method": "cash", "Amount": "-3", "Date": "2026-01-05 10:00:00"},
		{"PaymentID": "3", "BookingID": "3", "Method": "cash", "Amount": "0", "Date": "2026-01-05 10:00:00"},
	}

	result := tr.TransformEntity(entity(t, "payments"), raw, time.Now())

	require.Len(t, result.Table.Rows, 1)
	assert.Equal(t, 2, result.Rejected)
	assert.Equal(t, "Credit Card", result.Table.Rows[0]["PaymentMethod"])
	assert.Equal(t, 120.50, result.Table.Rows[0]["Amount"])
}

func TestTransformRenamesSourceColumns(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("routes", []string{"RouteID", "Source", "Destination", "Distance", "Internal"})
	raw.Rows = []models.Row{
		{"RouteID": "7", "Source": "karachi", "Destination": "LAHORE", "Distance": "1020.5", "Internal": "dropped"},
	}

	result := tr.TransformEntity(entity(t, "routes"), raw, time.Now())

	require.Len(t, result.Table.Rows, 1)
	row := result.Table.Rows[0]
	assert.Equal(t, "Karachi", row["Origin"])
	assert.Equal(t, "Lahore", row["Destination"])
	assert.Equal(t, 1020.5, row["Distance"])
	// Unmapped source columns are dropped by schema mapping.
	_, hasInternal := row["Internal"]
	assert.False(t, hasInternal)
	_, hasSource := row["Source"]
	assert.False(t, hasSource)
}

func TestTransformAircraftUppercasesModel(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("aircrafts", []string{"PlaneID", "Model", "Capacity", "ManufactureYear"})
	raw.Rows = []models.Row{
		{"PlaneID": "3", "Model": " boeing 777 ", "Capacity": "396", "ManufactureYear": "2015"},
	}

	result := tr.TransformEntity(entity(t, "aircrafts"), raw, time.Now())

	require.Len(t, result.Table.Rows, 1)
	row := result.Table.Rows[0]
	assert.Equal(t, int64(3), row["AircraftID"])
	assert.Equal(t, "BOEING 777", row["Model"])
	assert.Equal(t, int64(396), row["Capacity"])
}

func TestTransformStructuralCleanupDropsIndexColumns(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("customers", []string{"Unnamed: 0", "CustomerID", "Name"})
	raw.Rows = []models.Row{
		{"Unnamed: 0": "0", "CustomerID": "1", "Name": "a"},
		{"Unnamed: 0": "1", "CustomerID": "1", "Name": "a"},
	}

	result := tr.TransformEntity(entity(t, "customers"), raw, time.Now())

	// With the index artifact dropped the two rows are identical duplicates.
	assert.Equal(t, 1, result.DuplicatesRemoved)
	assert.Len(t, result.Table.Rows, 1)
}

func TestTransformSatisfactionAverageRating(t *testing.T) {
	tr := newTestTransformer(t)

	raw := models.NewTable("satisfaction", []string{
		"id", "Type of Travel", "Class", "Flight Distance", "satisfaction",
		"Inflight wifi service", "Seat comfort", "Cleanliness",
	})
	raw.Rows = []models.Row{
		{
			"id": "42", "Type of Travel": "business travel", "Class": "eco",
			"Flight Distance": "460", "satisfaction": "satisfied",
			"Inflight wifi service": "3", "Seat comfort": "5", "Cleanliness": "4",
		},
	}

	result := tr.TransformEntity(entity(t, "satisfaction"), raw, time.Now())

	require.Len(t, result.Table.Rows, 1)
	row := result.Table.Rows[0]
	assert.Equal(t, int64(42), row["CustomerID"])
	assert.Equal(t, "Business Travel", row["TypeOfTravel"])
	assert.Equal(t, "Satisfied", row["Satisfaction"])
	assert.InDelta(t, 4.0, row["AverageRating"], 1e-9)
}

func TestTransformEmptyInputProducesEmptyOutput(t *testing.T) {
	tr := newTestTransformer(t)

	result := tr.TransformEntity(entity(t, "customers"), models.NewTable("customers", nil), time.Now())

	assert.Zero(t, result.Extracted)
	assert.Empty(t, result.Table.Rows)
	assert.Equal(t, []string{"CustomerID", "Name", schema.LoadDateColumn}, result.Table.Columns)
}
