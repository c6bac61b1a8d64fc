package merge

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
)

var (
	monthNames = []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// dateRow is one DimDate row derived from a calendar date.
type dateRow struct {
	DateKey   int
	FullDate  time.Time
	Year      int
	Quarter   int
	Month     int
	MonthName string
	Day       int
	DayOfWeek int
	DayName   string
	IsWeekend bool
}

// dateAttributes expands a timestamp into its DimDate row. DateKey is the
// yyyymmdd integer form of the calendar date.
func dateAttributes(t time.Time) dateRow {
	year, month, day := t.Date()
	dayOfWeek := int(t.Weekday()) + 1 // 1=Sunday .. 7=Saturday

	return dateRow{
		DateKey:   year*10000 + int(month)*100 + day,
		FullDate:  time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Year:      year,
		Quarter:   (int(month)-1)/3 + 1,
		Month:     int(month),
		MonthName: monthNames[int(month)-1],
		Day:       day,
		DayOfWeek: dayOfWeek,
		DayName:   dayNames[dayOfWeek-1],
		IsWeekend: dayOfWeek == 1 || dayOfWeek == 7,
	}
}

// MergeDateDimension upserts a DimDate row for every calendar date referenced
// by the staged bookings and flights, so the fact merge can resolve DateKey
// for any date present in this run's staging data.
func (m *Merger) MergeDateDimension(ctx context.Context) models.MergeReport {
	const target = "DimDate"
	startTime := time.Now()

	dates, err := m.stagedDates(ctx)
	if err != nil {
		m.logger.Error("Merge of %s could not read staged dates: %v", target, err)
		return failureReport(target, err)
	}
	if len(dates) == 0 {
		m.logger.Info("Merged %s: no staged dates", target)
		return models.MergeReport{Target: target, Succeeded: true}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return failureReport(target, fmt.Errorf("beginning transaction: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO DimDate
		(DateKey, FullDate, Year, Quarter, Month, MonthName, Day, DayOfWeek, DayName, IsWeekend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE FullDate = VALUES(FullDate)
	`)
	if err != nil {
		tx.Rollback()
		return failureReport(target, fmt.Errorf("preparing DimDate upsert: %w", err))
	}
	defer stmt.Close()

	var affected int64
	for _, d := range dates {
		result, err := stmt.ExecContext(ctx,
			d.DateKey, d.FullDate, d.Year, d.Quarter, d.Month,
			d.MonthName, d.Day, d.DayOfWeek, d.DayName, d.IsWeekend,
		)
		if err != nil {
			tx.Rollback()
			m.logger.Error("Merge of %s rolled back: %v", target, err)
			return failureReport(target, fmt.Errorf("upserting date %d: %w", d.DateKey, err))
		}
		n, _ := result.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return failureReport(target, fmt.Errorf("committing merge of %s: %w", target, err))
	}

	m.logger.Info("Merged %s: %d dates, %d rows affected in %v", target, len(dates), affected, time.Since(startTime))
	return models.MergeReport{
		Target:       target,
		Succeeded:    true,
		RowsAffected: affected,
	}
}

// stagedDates collects the distinct calendar dates in staged bookings and
// flights, sorted by DateKey.
func (m *Merger) stagedDates(ctx context.Context) ([]dateRow, error) {
	seen := map[int]dateRow{}

	queries := []string{
		"SELECT BookingDate FROM Stg_Bookings WHERE BookingDate IS NOT NULL",
		"SELECT DepartureTime FROM Stg_Flights WHERE DepartureTime IS NOT NULL",
	}
	for _, query := range queries {
		if err := m.collectDates(ctx, query, seen); err != nil {
			return nil, err
		}
	}

	dates := make([]dateRow, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].DateKey < dates[j].DateKey })
	return dates, nil
}

func (m *Merger) collectDates(ctx context.Context, query string, seen map[int]dateRow) error {
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("reading staged dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ts sql.NullTime
		if err := rows.Scan(&ts); err != nil {
			return fmt.Errorf("scanning staged date: %w", err)
		}
		if !ts.Valid {
			continue
		}
		d := dateAttributes(ts.Time)
		seen[d.DateKey] = d
	}
	return rows.Err()
}
