package extractors

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// OLTPExtractor extracts all entities of one relational transaction store
// with fixed per-entity queries. The same type serves both OLTP sources; the
// entity set is selected from the declared schemas by source name.
type OLTPExtractor struct {
	db       *sql.DB
	source   string
	entities []schema.Entity
	logger   *utils.Logger
}

// NewOLTPExtractor creates an extractor for the named relational source.
func NewOLTPExtractor(db *sql.DB, source string, logger *utils.Logger) *OLTPExtractor {
	return &OLTPExtractor{
		db:       db,
		source:   source,
		entities: schema.BySource(source),
		logger:   logger,
	}
}

// Extract runs the per-entity queries and returns one table per entity.
// Any query or scan failure fails the whole source.
func (e *OLTPExtractor) Extract(ctx context.Context) ([]models.Table, error) {
	tables := make([]models.Table, 0, len(e.entities))
	for _, ent := range e.entities {
		e.logger.Debug("Extracting %s.%s", e.source, ent.SourceTable)

		table, err := queryTable(ctx, e.db, ent.Name, fmt.Sprintf("SELECT * FROM %s", ent.SourceTable))
		if err != nil {
			return nil, unavailable("extracting %s from %s: %v", ent.Name, e.source, err)
		}

		e.logger.Debug("Extracted %d rows from %s.%s", len(table.Rows), e.source, ent.SourceTable)
		tables = append(tables, table)
	}
	return tables, nil
}

// queryTable runs a query and scans the result generically into a Table,
// without assuming the source column set. NULLs become nil, everything else
// a string; typing happens later against the declared schema.
func queryTable(ctx context.Context, db *sql.DB, entity, query string) (models.Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return models.Table{}, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.Table{}, fmt.Errorf("reading columns: %w", err)
	}

	table := models.NewTable(entity, columns)

	raw := make([]sql.RawBytes, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range raw {
		scanArgs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return models.Table{}, fmt.Errorf("scanning row: %w", err)
		}
		row := make(models.Row, len(columns))
		for i, col := range columns {
			if raw[i] == nil {
				row[col] = nil
			} else {
				row[col] = string(raw[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.Table{}, fmt.Errorf("iterating rows: %w", err)
	}

	return table, nil
}
