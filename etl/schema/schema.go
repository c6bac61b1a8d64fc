// Package schema declares the canonical shape of every staging entity and the
// merge definition of every warehouse target. The transform engine and the
// merge engine are both driven off these declarations instead of inspecting
// table shapes at runtime.
package schema

import (
	"fmt"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
)

// ColumnType is the canonical type a staging column is coerced to.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInt      ColumnType = "int"
	TypeFloat    ColumnType = "float"
	TypeDateTime ColumnType = "datetime"
	TypeDate     ColumnType = "date"
)

// Casing is the text normalization applied to a string column.
type Casing string

const (
	CasingNone  Casing = ""
	CasingTitle Casing = "title"
	CasingUpper Casing = "upper"
	CasingLower Casing = "lower"
)

// Column maps one canonical PascalCase staging column to its source column.
type Column struct {
	// Name is the canonical column name in the staging table.
	Name string
	// Source is the column name in the source extract. Empty means the source
	// already uses the canonical name.
	Source string
	Type   ColumnType
	// Required rejects rows where the coerced value is NULL.
	Required bool
	// Positive rejects rows where the numeric value is not greater than zero.
	Positive bool
	Casing   Casing
}

// SourceName returns the column name expected in the source extract.
func (c Column) SourceName() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Name
}

// Derived is a column computed from the raw source row during schema mapping,
// such as the satisfaction average rating. Compute receives the row keyed by
// source column names, before renaming drops the unmapped columns.
type Derived struct {
	Name    string
	Type    ColumnType
	Compute func(models.Row) interface{}
}

// Entity declares one staging entity: where it comes from, where it lands,
// and the column mapping between the two.
type Entity struct {
	// Name is the logical entity name, e.g. "customers".
	Name string
	// Source identifies the owning source adapter: oltp1, oltp2, api or csv.
	Source string
	// SourceTable is the table queried in a relational source, if any.
	SourceTable string
	// StagingTable is the warehouse landing table.
	StagingTable string
	// NaturalKey is the canonical column identifying a record in the source
	// system. Staging batches are deduplicated on it, keep-first.
	NaturalKey string
	Columns    []Column
	Derived    []Derived
}

// CanonicalColumns returns the staging column order: declared columns, then
// derived columns, then LoadDate.
func (e Entity) CanonicalColumns() []string {
	cols := make([]string, 0, len(e.Columns)+len(e.Derived)+1)
	for _, c := range e.Columns {
		cols = append(cols, c.Name)
	}
	for _, d := range e.Derived {
		cols = append(cols, d.Name)
	}
	return append(cols, LoadDateColumn)
}

// RequiredSourceColumns returns the source column names that must be present
// in an extract for the entity to be loadable at all.
func (e Entity) RequiredSourceColumns() []string {
	var cols []string
	for _, c := range e.Columns {
		if c.Required {
			cols = append(cols, c.SourceName())
		}
	}
	return cols
}

// Column returns the declared column with the given canonical name.
func (e Entity) Column(name string) (Column, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// LoadDateColumn is appended to every staging row at transform time, set to
// the run's start timestamp.
const LoadDateColumn = "LoadDate"

// Source adapter names used across the pipeline.
const (
	SourceOLTP1 = "oltp1"
	SourceOLTP2 = "oltp2"
	SourceAPI   = "api"
	SourceCSV   = "csv"
)

// BySource returns the entities extracted by the named source adapter, in
// declaration order.
func BySource(source string) []Entity {
	var out []Entity
	for _, e := range Entities() {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

// ByName returns the entity with the given logical name.
func ByName(name string) (Entity, error) {
	for _, e := range Entities() {
		if e.Name == name {
			return e, nil
		}
	}
	return Entity{}, fmt.Errorf("unknown entity %q", name)
}
