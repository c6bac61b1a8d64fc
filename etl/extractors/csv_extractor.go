package extractors

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// CSVExtractor reads the customer satisfaction survey from a delimited file.
// A missing file or a header missing a required column is a source failure.
type CSVExtractor struct {
	path   string
	entity schema.Entity
	logger *utils.Logger
}

// NewCSVExtractor creates an extractor for the satisfaction file source.
func NewCSVExtractor(path string, logger *utils.Logger) *CSVExtractor {
	entities := schema.BySource(schema.SourceCSV)
	return &CSVExtractor{
		path:   path,
		entity: entities[0],
		logger: logger,
	}
}

// Extract reads the file into a table, validating the expected column set
// before returning any rows.
func (e *CSVExtractor) Extract(ctx context.Context) ([]models.Table, error) {
	file, err := os.Open(e.path)
	if err != nil {
		return nil, unavailable("opening satisfaction file %s: %v", e.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, mismatch("reading satisfaction file header: %v", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if err := validateHeader(header, e.entity); err != nil {
		return nil, err
	}

	table := models.NewTable(e.entity.Name, header)
	for {
		if err := ctx.Err(); err != nil {
			return nil, unavailable("reading satisfaction file: %v", err)
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, mismatch("reading satisfaction file row: %v", err)
		}

		row := make(models.Row, len(header))
		for i, col := range header {
			if i >= len(record) || record[i] == "" {
				row[col] = nil
			} else {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	e.logger.Debug("Extracted %d rows from %s", len(table.Rows), e.path)
	return []models.Table{table}, nil
}

// validateHeader checks that every source column the schema requires exists
// in the file header.
func validateHeader(header []string, ent schema.Entity) error {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	for _, col := range ent.RequiredSourceColumns() {
		if !present[col] {
			return mismatch("satisfaction file is missing required column %q", col)
		}
	}
	return nil
}
