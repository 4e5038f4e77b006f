package leads

import (
	"context"
	"fmt"
)

// Sheet is a spreadsheet tab holding a header row and data rows.
type Sheet interface {
	Values(ctx context.Context) ([][]string, error)
	Clear(ctx context.Context) error
	Update(ctx context.Context, cell string, rows [][]string) error
	URL() string
}

// Table is a header row and data rows. Data rows may be shorter than the
// header; missing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable splits values into a header and rows.
func NewTable(values [][]string) *Table {
	t := &Table{}
	if len(values) == 0 {
		return t
	}

	t.Header = append([]string(nil), values[0]...)

	for _, row := range values[1:] {
		t.Rows = append(t.Rows, append([]string(nil), row...))
	}

	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Col returns the index of the named column, or -1. Names match
// case-insensitively, ignoring spaces and underscores.
func (t *Table) Col(name string) int {
	key := columnKey(name)

	for i, h := range t.Header {
		if h == name {
			return i
		}
	}

	for i, h := range t.Header {
		if columnKey(h) == key {
			return i
		}
	}

	return -1
}

// EnsureColumn returns the index of the named column, appending it to the
// header if it does not exist.
func (t *Table) EnsureColumn(name string) int {
	if i := t.Col(name); i >= 0 {
		return i
	}

	t.Header = append(t.Header, name)
	return len(t.Header) - 1
}

// Get returns the value of a cell. Out of range cells are empty.
func (t *Table) Get(row int, name string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return cell(t.Rows[row], t.Col(name))
}

// Set writes a cell, adding the column and extending the row as needed.
func (t *Table) Set(row int, name, value string) {
	col := t.EnsureColumn(name)

	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}

	t.Rows[row][col] = value
}

// Append adds a data row.
func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, row)
}

// Lead reads a data row as a lead.
func (t *Table) Lead(row int) *Lead {
	return &Lead{
		CompanyName: t.Get(row, "companyName"),
		FirstName:   t.Get(row, "firstName"),
		Email:       t.Get(row, "email"),
		CompanyURN:  t.Get(row, "companyUrn"),
		CEOName:     t.Get(row, "ceoName"),
	}
}

// Values returns the header followed by the data rows, each padded to the
// header width.
func (t *Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)

	for _, row := range t.Rows {
		padded := make([]string, len(t.Header))
		copy(padded, row)
		if len(row) > len(t.Header) {
			padded = append(padded, row[len(t.Header):]...)
		}
		out = append(out, padded)
	}

	return out
}

// ReadTable reads a sheet into a table. An empty sheet is an error.
func ReadTable(ctx context.Context, s Sheet) (*Table, error) {
	values, err := s.Values(ctx)
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	return NewTable(values), nil
}

// WriteTable replaces the contents of a sheet with the table.
func WriteTable(ctx context.Context, s Sheet, t *Table) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	return s.Update(ctx, "A1", t.Values())
}
