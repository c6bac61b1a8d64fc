package schema

// Attribute maps one dimension column to the staging column it is fed from.
type Attribute struct {
	Dim     string
	Staging string
}

// Dimension declares the Type-1 merge of one staging table into one dimension
// table: rows are matched on the natural key, matched rows get their
// attributes overwritten, unmatched rows insert with a fresh surrogate key,
// and dimension rows absent from staging are left untouched.
type Dimension struct {
	Table        string
	Staging      string
	SurrogateKey string
	// NaturalKey is the business key column, identical in staging and the
	// dimension and declared UNIQUE on the dimension table.
	NaturalKey string
	Attributes []Attribute
}

// Dimensions returns the dimension merge specs in their fixed merge order.
// The fact merge depends on every natural-key-to-surrogate-key mapping being
// current, so this order executes strictly before FactBooking. DimDate is
// built separately from the dates present in staged bookings and flights.
func Dimensions() []Dimension {
	return []Dimension{
		{
			Table:        "DimCustomer",
			Staging:      "Stg_Customers",
			SurrogateKey: "CustomerKey",
			NaturalKey:   "CustomerID",
			Attributes: []Attribute{
				{Dim: "Name", Staging: "Name"},
			},
		},
		{
			Table:        "DimAircraft",
			Staging:      "Stg_Aircrafts",
			SurrogateKey: "AircraftKey",
			NaturalKey:   "AircraftID",
			Attributes: []Attribute{
				{Dim: "Model", Staging: "Model"},
				{Dim: "Capacity", Staging: "Capacity"},
				{Dim: "ManufactureYear", Staging: "ManufactureYear"},
			},
		},
		{
			Table:        "DimRoute",
			Staging:      "Stg_Routes",
			SurrogateKey: "RouteKey",
			NaturalKey:   "RouteID",
			Attributes: []Attribute{
				{Dim: "Origin", Staging: "Origin"},
				{Dim: "Destination", Staging: "Destination"},
				{Dim: "Distance", Staging: "Distance"},
			},
		},
		{
			Table:        "DimFlight",
			Staging:      "Stg_Flights",
			SurrogateKey: "FlightKey",
			NaturalKey:   "FlightID",
			Attributes: []Attribute{
				{Dim: "FlightNumber", Staging: "FlightNumber"},
				{Dim: "DepartureTime", Staging: "DepartureTime"},
				{Dim: "ArrivalTime", Staging: "ArrivalTime"},
			},
		},
		{
			Table:        "DimPayment",
			Staging:      "Stg_Payments",
			SurrogateKey: "PaymentKey",
			NaturalKey:   "PaymentID",
			Attributes: []Attribute{
				{Dim: "BookingID", Staging: "BookingID"},
				{Dim: "PaymentMethod", Staging: "PaymentMethod"},
				{Dim: "Amount", Staging: "Amount"},
				{Dim: "PaymentDate", Staging: "PaymentDate"},
			},
		},
		{
			Table:        "DimSatisfaction",
			Staging:      "Stg_CustomerSatisfaction",
			SurrogateKey: "SatisfactionKey",
			NaturalKey:   "CustomerID",
			Attributes: []Attribute{
				{Dim: "TypeOfTravel", Staging: "TypeOfTravel"},
				{Dim: "Class", Staging: "Class"},
				{Dim: "FlightDistance", Staging: "FlightDistance"},
				{Dim: "Satisfaction", Staging: "Satisfaction"},
				{Dim: "AverageRating", Staging: "AverageRating"},
			},
		},
	}
}
