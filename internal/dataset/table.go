package dataset

import (
	"encoding/json"
	"fmt"
)

// Row is one property record, cells in column order. Cells stay as raw
// strings; typing happens per predicate so one bad cell never aborts a
// whole filter pass.
type Row []string

// Table is an ordered, read-only view over property records. Filtering
// derives new views that share the backing rows; nothing here mutates.
type Table struct {
	columns  []string
	rows     []Row
	colIndex map[string]int
}

// New builds a table from a column list and rows. Rows shorter than the
// column list are padded with empty cells on access, never rejected.
func New(columns []string, rows []Row) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Table{columns: columns, rows: rows, colIndex: idx}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.columns
}

// Rows returns the backing rows. Callers must not modify them.
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// Cell returns the value of the named column for a row. The second return
// is false when the column does not exist in this table.
func (t *Table) Cell(row Row, column string) (string, bool) {
	i, ok := t.colIndex[column]
	if !ok {
		return "", false
	}
	if i >= len(row) {
		return "", true
	}
	return row[i], true
}

// Select derives a view containing the rows keep reports true for.
// Row order is preserved.
func (t *Table) Select(keep func(Row) bool) *Table {
	kept := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	return &Table{columns: t.columns, rows: kept, colIndex: t.colIndex}
}

// Empty derives a zero-row view with the same schema.
func (t *Table) Empty() *Table {
	return &Table{columns: t.columns, rows: nil, colIndex: t.colIndex}
}

// MarshalJSON renders the table as an array of column->cell objects,
// which is what the API layer returns to the presenter.
func (t *Table) MarshalJSON() ([]byte, error) {
	records := make([]map[string]string, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(map[string]string, len(t.columns))
		for i, col := range t.columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// String summarizes the table for logs.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d columns, %d rows)", len(t.columns), len(t.rows))
}
