// Package table provides the read-only tabular view consumed by the rating engine.
//
// Columns are addressed by index only. A Table is owned by the caller and is
// never mutated while it is being rated, so one value may be shared across
// concurrently running signals without locking.
package table

import (
	"github.com/teranos/tabix/errors"
)

// Table is the read interface the rating engine consumes.
type Table interface {
	// ColumnCount returns the number of columns.
	ColumnCount() int
	// RowCount returns the number of rows; every column has this many values.
	RowCount() int
	// ColumnAsRawStrings returns the raw, unnormalized cell values of column i in row order.
	ColumnAsRawStrings(i int) []string
}

// Headed is implemented by tables that carry column headers.
type Headed interface {
	Header(i int) string
}

// HeaderOf returns the header of column i when t carries headers, or "".
func HeaderOf(t Table, i int) string {
	if h, ok := t.(Headed); ok {
		return h.Header(i)
	}
	return ""
}

// Columns is an immutable in-memory Table stored column-major.
type Columns struct {
	headers []string
	columns [][]string
	rows    int
}

// New builds a Columns table. headers may be nil; when present it must have
// one entry per column. All columns must have the same length.
func New(headers []string, columns [][]string) (*Columns, error) {
	if headers != nil && len(headers) != len(columns) {
		return nil, errors.Wrapf(errors.ErrRaggedTable,
			"%d headers for %d columns", len(headers), len(columns))
	}

	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}

	cols := make([][]string, len(columns))
	for i, col := range columns {
		if len(col) != rows {
			return nil, errors.WithDetailf(
				errors.Wrapf(errors.ErrRaggedTable, "column %d has %d values, expected %d", i, len(col), rows),
				"column 0 has %d values", rows)
		}
		cols[i] = append([]string(nil), col...)
	}

	var hdrs []string
	if headers != nil {
		hdrs = append([]string(nil), headers...)
	}

	return &Columns{headers: hdrs, columns: cols, rows: rows}, nil
}

// FromRows builds a Columns table from row-major data.
func FromRows(headers []string, rows [][]string) (*Columns, error) {
	width := len(headers)
	if headers == nil && len(rows) > 0 {
		width = len(rows[0])
	}

	columns := make([][]string, width)
	for c := range columns {
		columns[c] = make([]string, 0, len(rows))
	}
	for r, row := range rows {
		if len(row) != width {
			return nil, errors.Wrapf(errors.ErrRaggedTable,
				"row %d has %d fields, expected %d", r, len(row), width)
		}
		for c, cell := range row {
			columns[c] = append(columns[c], cell)
		}
	}

	return New(headers, columns)
}

// ColumnCount implements Table.
func (c *Columns) ColumnCount() int { return len(c.columns) }

// RowCount implements Table.
func (c *Columns) RowCount() int { return c.rows }

// ColumnAsRawStrings implements Table. The returned slice is a copy.
func (c *Columns) ColumnAsRawStrings(i int) []string {
	if i < 0 || i >= len(c.columns) {
		return nil
	}
	return append([]string(nil), c.columns[i]...)
}

// Header implements Headed.
func (c *Columns) Header(i int) string {
	if i < 0 || i >= len(c.headers) {
		return ""
	}
	return c.headers[i]
}

// Headers returns a copy of the column headers, or nil.
func (c *Columns) Headers() []string {
	if c.headers == nil {
		return nil
	}
	return append([]string(nil), c.headers...)
}
