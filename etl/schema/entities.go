package schema

import (
	"strconv"
	"strings"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
)

// satisfactionRatingColumns are the per-service score columns in the
// satisfaction survey file. Their mean becomes the AverageRating measure.
var satisfactionRatingColumns = []string{
	"Inflight wifi service",
	"Departure/Arrival time convenient",
	"Ease of Online booking",
	"Gate location",
	"Food and drink",
	"Online boarding",
	"Seat comfort",
	"Inflight entertainment",
	"On-board service",
	"Leg room service",
	"Baggage handling",
	"Checkin service",
	"Inflight service",
	"Cleanliness",
}

// averageRating computes the mean of the rating columns present in a raw
// survey row. Unparseable or missing scores are skipped rather than zeroed.
func averageRating(row models.Row) interface{} {
	sum := 0.0
	n := 0
	for _, col := range satisfactionRatingColumns {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		var f float64
		switch t := v.(type) {
		case float64:
			f = t
		case int64:
			f = float64(t)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return nil
	}
	return sum / float64(n)
}

// Entities returns the declared schema of all eight staging entities. The
// order matches the staging load order of a run.
func Entities() []Entity {
	return []Entity{
		{
			Name:         "customers",
			Source:       SourceOLTP1,
			SourceTable:  "Customers",
			StagingTable: "Stg_Customers",
			NaturalKey:   "CustomerID",
			Columns: []Column{
				{Name: "CustomerID", Type: TypeInt, Required: true},
				{Name: "Name", Type: TypeString, Casing: CasingTitle},
			},
		},
		{
			Name:         "bookings",
			Source:       SourceOLTP1,
			SourceTable:  "Bookings",
			StagingTable: "Stg_Bookings",
			NaturalKey:   "BookingID",
			Columns: []Column{
				{Name: "BookingID", Type: TypeInt, Required: true},
				{Name: "CustomerID", Type: TypeInt, Required: true},
				{Name: "FlightID", Type: TypeInt, Required: true},
				{Name: "BookingDate", Source: "Date", Type: TypeDateTime, Required: true},
				{Name: "FareAmount", Type: TypeFloat, Positive: true},
				{Name: "SeatCount", Type: TypeInt},
			},
		},
		{
			Name:         "payments",
			Source:       SourceOLTP1,
			SourceTable:  "Payments",
			StagingTable: "Stg_Payments",
			NaturalKey:   "PaymentID",
			Columns: []Column{
				{Name: "PaymentID", Type: TypeInt, Required: true},
				{Name: "BookingID", Type: TypeInt, Required: true},
				{Name: "PaymentMethod", Source: "Method", Type: TypeString, Casing: CasingTitle},
				{Name: "Amount", Type: TypeFloat, Required: true, Positive: true},
				{Name: "PaymentDate", Source: "Date", Type: TypeDateTime},
			},
		},
		{
			Name:         "aircrafts",
			Source:       SourceOLTP2,
			SourceTable:  "Aircrafts",
			StagingTable: "Stg_Aircrafts",
			NaturalKey:   "AircraftID",
			Columns: []Column{
				{Name: "AircraftID", Source: "PlaneID", Type: TypeInt, Required: true},
				{Name: "Model", Type: TypeString, Casing: CasingUpper},
				{Name: "Capacity", Type: TypeInt, Positive: true},
				{Name: "ManufactureYear", Type: TypeInt},
			},
		},
		{
			Name:         "flights",
			Source:       SourceOLTP2,
			SourceTable:  "Flights",
			StagingTable: "Stg_Flights",
			NaturalKey:   "FlightID",
			Columns: []Column{
				{Name: "FlightID", Type: TypeInt, Required: true},
				{Name: "FlightNumber", Type: TypeString, Casing: CasingUpper},
				{Name: "RouteID", Type: TypeInt, Required: true},
				{Name: "AircraftID", Source: "PlaneID", Type: TypeInt, Required: true},
				{Name: "DepartureTime", Type: TypeDateTime},
				{Name: "ArrivalTime", Type: TypeDateTime},
			},
		},
		{
			Name:         "routes",
			Source:       SourceOLTP2,
			SourceTable:  "Routes",
			StagingTable: "Stg_Routes",
			NaturalKey:   "RouteID",
			Columns: []Column{
				{Name: "RouteID", Type: TypeInt, Required: true},
				{Name: "Origin", Source: "Source", Type: TypeString, Casing: CasingTitle},
				{Name: "Destination", Type: TypeString, Casing: CasingTitle},
				{Name: "Distance", Type: TypeFloat, Positive: true},
			},
		},
		{
			Name:         "satisfaction",
			Source:       SourceCSV,
			StagingTable: "Stg_CustomerSatisfaction",
			NaturalKey:   "CustomerID",
			Columns: []Column{
				{Name: "CustomerID", Source: "id", Type: TypeInt, Required: true},
				{Name: "TypeOfTravel", Source: "Type of Travel", Type: TypeString, Casing: CasingTitle},
				{Name: "Class", Type: TypeString, Casing: CasingTitle},
				{Name: "FlightDistance", Source: "Flight Distance", Type: TypeFloat},
				{Name: "Satisfaction", Source: "satisfaction", Type: TypeString, Casing: CasingTitle},
			},
			Derived: []Derived{
				{Name: "AverageRating", Type: TypeFloat, Compute: averageRating},
			},
		},
		{
			Name:         "api_flights",
			Source:       SourceAPI,
			StagingTable: "Stg_ApiFlights",
			NaturalKey:   "FlightIATA",
			Columns: []Column{
				{Name: "FlightIATA", Source: "flight.iata", Type: TypeString, Required: true, Casing: CasingUpper},
				{Name: "FlightDate", Source: "flight_date", Type: TypeDate},
				{Name: "FlightStatus", Source: "flight_status", Type: TypeString, Casing: CasingLower},
				{Name: "AirlineName", Source: "airline.name", Type: TypeString},
				{Name: "DepartureAirport", Source: "departure.airport", Type: TypeString},
				{Name: "ArrivalAirport", Source: "arrival.airport", Type: TypeString},
			},
		},
	}
}
