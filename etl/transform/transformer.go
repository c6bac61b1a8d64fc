// Package transform implements the transform engine: it converts each raw
// source extract into the canonical staging shape declared in the schema
// package, rejecting rows rather than aborting batches.
package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
	"github.com/Syed-Awais10/Airline-data-warehouse/etl/utils"
)

// Result is the outcome of transforming one entity batch.
type Result struct {
	// Table is the validated batch in canonical staging shape, including the
	// LoadDate column.
	Table models.Table
	// Extracted is the raw row count before any processing.
	Extracted int
	// DuplicatesRemoved counts rows dropped by full-row and natural-key
	// deduplication.
	DuplicatesRemoved int
	// CoercionFailures counts values nulled because they could not be coerced
	// to the declared type.
	CoercionFailures int
	// Rejected counts rows excluded by required-field and range validation.
	Rejected int
}

// Transformer converts raw extracts into canonical staging batches.
type Transformer struct {
	logger *utils.Logger
}

// NewTransformer creates a Transformer.
func NewTransformer(logger *utils.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// TransformEntity runs the canonicalization steps for one entity, in order:
// structural cleanup, deduplication, type coercion, text normalization,
// schema mapping, enrichment with LoadDate, and validation. An empty input
// produces an empty output, never an error.
func (t *Transformer) TransformEntity(ent schema.Entity, raw models.Table, loadDate time.Time) Result {
	result := Result{
		Extracted: len(raw.Rows),
		Table:     models.NewTable(ent.Name, ent.CanonicalColumns()),
	}
	if raw.IsEmpty() {
		return result
	}

	// 1. Structural cleanup: drop incidental index and unnamed columns.
	columns := cleanColumns(raw.Columns)

	// 2. Deduplication: remove rows identical across all surviving columns.
	rows := dedupFullRows(raw.Rows, columns, &result)

	missingSource := map[string]bool{}
	seenKeys := map[string]bool{}

	for _, rawRow := range rows {
		// 3-4. Type coercion and text normalization against the declared
		// schema, on the source row in place.
		coerced := make(models.Row, len(ent.Columns))
		for _, col := range ent.Columns {
			src := col.SourceName()
			value, present := rawRow[src]
			if !present {
				if !missingSource[src] {
					missingSource[src] = true
					t.logger.Error("Entity %s: source column %q absent from extract, values will be NULL", ent.Name, src)
				}
				coerced[col.Name] = nil
				continue
			}

			typed, ok := coerceValue(value, col.Type)
			if !ok {
				result.CoercionFailures++
				typed = nil
			}
			if col.Type == schema.TypeString {
				typed = normalizeText(typed, col.Casing)
			}
			coerced[col.Name] = typed
		}

		// 5. Schema mapping happened with the coercion above: coerced is keyed
		// by canonical names and unmapped source columns are gone. Derived
		// columns compute from the raw source row before it is dropped.
		for _, d := range ent.Derived {
			coerced[d.Name] = d.Compute(rawRow)
		}

		// Natural-key dedup, keep-first. Staging must hold at most one row
		// per business key or the merge would pick one arbitrarily.
		key := fmt.Sprintf("%v", coerced[ent.NaturalKey])
		if coerced[ent.NaturalKey] != nil {
			if seenKeys[key] {
				result.DuplicatesRemoved++
				continue
			}
			seenKeys[key] = true
		}

		// 6. Enrichment.
		coerced[schema.LoadDateColumn] = loadDate

		// 7. Validation.
		if reason := validateRow(ent, coerced); reason != "" {
			result.Rejected++
			t.logger.Debug("Entity %s: rejected row (%s)", ent.Name, reason)
			continue
		}

		result.Table.Rows = append(result.Table.Rows, coerced)
	}

	t.logger.Info("Transformed %s: %d extracted, %d duplicates removed, %d coercion failures, %d rejected, %d staged",
		ent.Name, result.Extracted, result.DuplicatesRemoved, result.CoercionFailures, result.Rejected, len(result.Table.Rows))

	return result
}

// cleanColumns drops unnamed and index artifact columns from the extract.
func cleanColumns(columns []string) []string {
	var out []string
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if trimmed == "" || strings.EqualFold(trimmed, "index") || strings.HasPrefix(trimmed, "Unnamed") {
			continue
		}
		out = append(out, col)
	}
	return out
}

// dedupFullRows removes rows whose values are identical across all columns,
// keeping the first occurrence.
func dedupFullRows(rows []models.Row, columns []string, result *Result) []models.Row {
	seen := make(map[string]bool, len(rows))
	out := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for _, col := range columns {
			fmt.Fprintf(&b, "%v\x1f", row[col])
		}
		fp := b.String()
		if seen[fp] {
			result.DuplicatesRemoved++
			continue
		}
		seen[fp] = true
		out = append(out, row)
	}
	return out
}

// validateRow checks the declared required and positive-range constraints.
// It returns a non-empty reason when the row must be rejected.
func validateRow(ent schema.Entity, row models.Row) string {
	for _, col := range ent.Columns {
		value := row[col.Name]
		if col.Required && value == nil {
			return fmt.Sprintf("required column %s is NULL", col.Name)
		}
		if col.Positive && value != nil {
			switch v := value.(type) {
			case int64:
				if v <= 0 {
					return fmt.Sprintf("column %s must be positive, got %d", col.Name, v)
				}
			case float64:
				if v <= 0 {
					return fmt.Sprintf("column %s must be positive, got %v", col.Name, v)
				}
			}
		}
	}
	return ""
}
