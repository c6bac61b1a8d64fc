package merge

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
)

// stagedBooking is one row read back from Stg_Bookings. BookingDate scans
// as nullable: staging columns carry no NOT NULL constraint, and a NULL
// must reject the row rather than abort the read.
type stagedBooking struct {
	BookingID   int64
	CustomerID  int64
	FlightID    int64
	BookingDate sql.NullTime
	FareAmount  sql.NullFloat64
	SeatCount   sql.NullInt64
}

// stagedFlight carries the route and aircraft references a booking resolves
// through its flight.
type stagedFlight struct {
	RouteID    int64
	AircraftID int64
}

// factLookups holds the natural-key-to-surrogate-key mappings of the already
// merged dimensions. Dimensions merge strictly before the fact table, so a
// natural key present in this run's staging data is guaranteed to be here.
type factLookups struct {
	Customers    map[int64]int64 // CustomerID -> CustomerKey
	Flights      map[int64]int64 // FlightID -> FlightKey
	Routes       map[int64]int64 // RouteID -> RouteKey
	Aircrafts    map[int64]int64 // AircraftID -> AircraftKey
	Payments     map[int64]int64 // BookingID -> PaymentKey
	Satisfaction map[int64]int64 // CustomerID -> SatisfactionKey
	Dates        map[int]bool    // DateKey present in DimDate
}

// factRow is a fully resolved FactBooking row ready to upsert.
type factRow struct {
	BookingID       int64
	CustomerKey     int64
	FlightKey       int64
	RouteKey        int64
	AircraftKey     int64
	PaymentKey      sql.NullInt64
	SatisfactionKey sql.NullInt64
	DateKey         int
	BookingDate     time.Time
	FareAmount      sql.NullFloat64
	SeatCount       sql.NullInt64
}

// resolveBooking resolves every dimension reference of one staged booking.
// Customer, flight, route, aircraft and date are required: a missing mapping
// rejects the row with the returned reason. Payment and satisfaction are
// optional references and resolve to NULL when absent.
func resolveBooking(b stagedBooking, flights map[int64]stagedFlight, lookups factLookups) (factRow, string) {
	if !b.BookingDate.Valid {
		return factRow{BookingID: b.BookingID}, "booking has no booking date"
	}

	row := factRow{
		BookingID:   b.BookingID,
		BookingDate: b.BookingDate.Time,
		FareAmount:  b.FareAmount,
		SeatCount:   b.SeatCount,
	}

	customerKey, ok := lookups.Customers[b.CustomerID]
	if !ok {
		return row, fmt.Sprintf("customer %d not found in DimCustomer", b.CustomerID)
	}
	row.CustomerKey = customerKey

	flightKey, ok := lookups.Flights[b.FlightID]
	if !ok {
		return row, fmt.Sprintf("flight %d not found in DimFlight", b.FlightID)
	}
	row.FlightKey = flightKey

	flight, ok := flights[b.FlightID]
	if !ok {
		return row, fmt.Sprintf("flight %d not present in staged flights", b.FlightID)
	}

	routeKey, ok := lookups.Routes[flight.RouteID]
	if !ok {
		return row, fmt.Sprintf("route %d not found in DimRoute", flight.RouteID)
	}
	row.RouteKey = routeKey

	aircraftKey, ok := lookups.Aircrafts[flight.AircraftID]
	if !ok {
		return row, fmt.Sprintf("aircraft %d not found in DimAircraft", flight.AircraftID)
	}
	row.AircraftKey = aircraftKey

	dateKey := dateAttributes(b.BookingDate.Time).DateKey
	if !lookups.Dates[dateKey] {
		return row, fmt.Sprintf("date %d not found in DimDate", dateKey)
	}
	row.DateKey = dateKey

	if paymentKey, ok := lookups.Payments[b.BookingID]; ok {
		row.PaymentKey = sql.NullInt64{Int64: paymentKey, Valid: true}
	}
	if satisfactionKey, ok := lookups.Satisfaction[b.CustomerID]; ok {
		row.SatisfactionKey = sql.NullInt64{Int64: satisfactionKey, Valid: true}
	}

	return row, ""
}

// MergeFact reconciles staged bookings into FactBooking: every dimension
// reference is resolved against the merged dimensions, unresolvable rows are
// rejected and counted, and resolvable rows upsert by BookingID inside one
// transaction.
func (m *Merger) MergeFact(ctx context.Context) models.MergeReport {
	const target = "FactBooking"
	startTime := time.Now()

	bookings, err := m.stagedBookings(ctx)
	if err != nil {
		m.logger.Error("Merge of %s could not read staged bookings: %v", target, err)
		return failureReport(target, err)
	}
	if len(bookings) == 0 {
		m.logger.Info("Merged %s: no staged bookings", target)
		return models.MergeReport{Target: target, Succeeded: true}
	}

	flights, err := m.stagedFlights(ctx)
	if err != nil {
		m.logger.Error("Merge of %s could not read staged flights: %v", target, err)
		return failureReport(target, err)
	}

	lookups, err := m.loadLookups(ctx)
	if err != nil {
		m.logger.Error("Merge of %s could not load dimension keys: %v", target, err)
		return failureReport(target, err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return failureReport(target, fmt.Errorf("beginning transaction: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO FactBooking
		(BookingID, CustomerKey, FlightKey, RouteKey, AircraftKey, PaymentKey,
		 SatisfactionKey, DateKey, BookingDate, FareAmount, SeatCount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		CustomerKey = VALUES(CustomerKey),
		FlightKey = VALUES(FlightKey),
		RouteKey = VALUES(RouteKey),
		AircraftKey = VALUES(AircraftKey),
		PaymentKey = VALUES(PaymentKey),
		SatisfactionKey = VALUES(SatisfactionKey),
		DateKey = VALUES(DateKey),
		BookingDate = VALUES(BookingDate),
		FareAmount = VALUES(FareAmount),
		SeatCount = VALUES(SeatCount)
	`)
	if err != nil {
		tx.Rollback()
		return failureReport(target, fmt.Errorf("preparing fact upsert: %w", err))
	}
	defer stmt.Close()

	var affected int64
	rejected := 0

	for _, booking := range bookings {
		row, reason := resolveBooking(booking, flights, lookups)
		if reason != "" {
			rejected++
			m.logger.Debug("Rejected booking %d: %s", booking.BookingID, reason)
			continue
		}

		result, err := stmt.ExecContext(ctx,
			row.BookingID, row.CustomerKey, row.FlightKey, row.RouteKey,
			row.AircraftKey, row.PaymentKey, row.SatisfactionKey,
			row.DateKey, row.BookingDate, row.FareAmount, row.SeatCount,
		)
		if err != nil {
			tx.Rollback()
			m.logger.Error("Merge of %s rolled back: %v", target, err)
			return failureReport(target, fmt.Errorf("upserting booking %d: %w", row.BookingID, err))
		}
		n, _ := result.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return failureReport(target, fmt.Errorf("committing merge of %s: %w", target, err))
	}

	m.logger.Info("Merged %s: %d bookings, %d rejected, %d rows affected in %v",
		target, len(bookings), rejected, affected, time.Since(startTime))
	return models.MergeReport{
		Target:       target,
		Succeeded:    true,
		RowsAffected: affected,
		RowsRejected: rejected,
		FailureKind:  rejectKind(rejected),
	}
}

// rejectKind tags the report when any row was dropped for an unresolved key.
func rejectKind(rejected int) models.FailureKind {
	if rejected > 0 {
		return models.FailureForeignKeyUnresolved
	}
	return ""
}

func (m *Merger) stagedBookings(ctx context.Context) ([]stagedBooking, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT BookingID, CustomerID, FlightID, BookingDate, FareAmount, SeatCount
		FROM Stg_Bookings
	`)
	if err != nil {
		return nil, fmt.Errorf("reading staged bookings: %w", err)
	}
	defer rows.Close()

	var bookings []stagedBooking
	for rows.Next() {
		var b stagedBooking
		if err := rows.Scan(&b.BookingID, &b.CustomerID, &b.FlightID, &b.BookingDate, &b.FareAmount, &b.SeatCount); err != nil {
			return nil, fmt.Errorf("scanning staged booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (m *Merger) stagedFlights(ctx context.Context) (map[int64]stagedFlight, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT FlightID, RouteID, AircraftID FROM Stg_Flights`)
	if err != nil {
		return nil, fmt.Errorf("reading staged flights: %w", err)
	}
	defer rows.Close()

	flights := map[int64]stagedFlight{}
	for rows.Next() {
		var id int64
		var f stagedFlight
		if err := rows.Scan(&id, &f.RouteID, &f.AircraftID); err != nil {
			return nil, fmt.Errorf("scanning staged flight: %w", err)
		}
		flights[id] = f
	}
	return flights, rows.Err()
}

// loadLookups reads the natural-key-to-surrogate-key mapping of every merged
// dimension.
func (m *Merger) loadLookups(ctx context.Context) (factLookups, error) {
	lookups := factLookups{Dates: map[int]bool{}}
	var err error

	if lookups.Customers, err = m.keyMap(ctx, "DimCustomer", "CustomerID", "CustomerKey"); err != nil {
		return lookups, err
	}
	if lookups.Flights, err = m.keyMap(ctx, "DimFlight", "FlightID", "FlightKey"); err != nil {
		return lookups, err
	}
	if lookups.Routes, err = m.keyMap(ctx, "DimRoute", "RouteID", "RouteKey"); err != nil {
		return lookups, err
	}
	if lookups.Aircrafts, err = m.keyMap(ctx, "DimAircraft", "AircraftID", "AircraftKey"); err != nil {
		return lookups, err
	}
	if lookups.Payments, err = m.paymentKeys(ctx); err != nil {
		return lookups, err
	}
	if lookups.Satisfaction, err = m.keyMap(ctx, "DimSatisfaction", "CustomerID", "SatisfactionKey"); err != nil {
		return lookups, err
	}

	rows, err := m.db.QueryContext(ctx, "SELECT DateKey FROM DimDate")
	if err != nil {
		return lookups, fmt.Errorf("reading DimDate keys: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key int
		if err := rows.Scan(&key); err != nil {
			return lookups, fmt.Errorf("scanning DimDate key: %w", err)
		}
		lookups.Dates[key] = true
	}
	return lookups, rows.Err()
}

// keyMap reads one dimension's natural-to-surrogate key mapping. A NULL
// natural key cannot occur: every natural key column is NOT NULL and UNIQUE.
func (m *Merger) keyMap(ctx context.Context, table, naturalKey, surrogateKey string) (map[int64]int64, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s", quoteIdent(naturalKey), quoteIdent(surrogateKey), quoteIdent(table))
	return m.queryKeyMap(ctx, table, query)
}

// DimPayment resolves by BookingID, which is a nullable non-unique attribute
// rather than the natural key. NULLs are filtered out, and a booking with
// several payments resolves to its highest payment key so repeated runs pick
// the same one.
const paymentKeySQL = `
	SELECT BookingID, MAX(PaymentKey)
	FROM DimPayment
	WHERE BookingID IS NOT NULL
	GROUP BY BookingID
`

func (m *Merger) paymentKeys(ctx context.Context) (map[int64]int64, error) {
	return m.queryKeyMap(ctx, "DimPayment", paymentKeySQL)
}

func (m *Merger) queryKeyMap(ctx context.Context, table, query string) (map[int64]int64, error) {
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reading %s keys: %w", table, err)
	}
	defer rows.Close()

	keys := map[int64]int64{}
	for rows.Next() {
		var natural, surrogate int64
		if err := rows.Scan(&natural, &surrogate); err != nil {
			return nil, fmt.Errorf("scanning %s key: %w", table, err)
		}
		keys[natural] = surrogate
	}
	return keys, rows.Err()
}
