package models

// Row is a single record keyed by column name. A nil value represents NULL.
type Row map[string]interface{}

// Table is an in-memory tabular batch produced by a source adapter or the
// transform engine. Columns preserves a stable column order; Rows hold the
// values keyed by those column names.
type Table struct {
	Entity  string
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table for the given entity with the given columns.
func NewTable(entity string, columns []string) Table {
	return Table{
		Entity:  entity,
		Columns: columns,
	}
}

// IsEmpty reports whether the table holds no rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether the table declares the given column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
