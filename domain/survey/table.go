package survey

import (
	"fmt"
	"strings"

	"stilidash/domain/core"
)

// Table is the immutable in-memory dataset. It is built once by a loader and only
// read afterwards; every filter produces a View over it.
type Table struct {
	fields []string
	index  map[string]int
	cells  [][]Value
	valid  [][]bool
}

// NewTable copies headers and rows into a Table. Short rows are padded with missing
// cells; cells past the header width are dropped.
func NewTable(headers []string, rows [][]string) (*Table, error) {
	t := &Table{
		fields: make([]string, len(headers)),
		index:  make(map[string]int, len(headers)),
		cells:  make([][]Value, len(rows)),
		valid:  make([][]bool, len(rows)),
	}

	for i, h := range headers {
		name := ColumnName(i, h)
		if _, exists := t.index[name]; exists {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateName, name)
		}
		t.fields[i] = name
		t.index[name] = i
	}

	for r, row := range rows {
		cells := make([]Value, len(headers))
		valid := make([]bool, len(headers))
		for c := range headers {
			if c >= len(row) {
				continue
			}
			raw := strings.TrimSpace(row[c])
			if IsMissing(raw) {
				continue
			}
			cells[c] = Value(raw)
			valid[c] = true
		}
		t.cells[r] = cells
		t.valid[r] = valid
	}

	return t, nil
}

// ColumnName trims a header. A blank header at position i is named "Unnamed: i",
// the name pandas gives the index column of a CSV it wrote.
func ColumnName(i int, header string) string {
	name := strings.TrimSpace(header)
	if name == "" {
		return fmt.Sprintf("Unnamed: %d", i)
	}
	return name
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.cells)
}

// Fields returns the column names in header order
func (t *Table) Fields() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)
	return out
}

// HasField reports whether the table has a column named field
func (t *Table) HasField(field string) bool {
	_, ok := t.index[field]
	return ok
}

// Require returns core.ErrUnknownField for the first field the table lacks
func (t *Table) Require(fields ...string) error {
	for _, f := range fields {
		if !t.HasField(f) {
			return core.NewUnknownFieldError(f)
		}
	}
	return nil
}

// Value returns the cell at row for field. ok is false for missing cells and unknown fields.
func (t *Table) Value(row int, field string) (Value, bool) {
	c, ok := t.index[field]
	if !ok || row < 0 || row >= len(t.cells) {
		return "", false
	}
	return t.cells[row][c], t.valid[row][c]
}

func (t *Table) cell(row, col int) (Value, bool) {
	return t.cells[row][col], t.valid[row][col]
}

// View returns a view over every row
func (t *Table) View() View {
	rows := make([]int, len(t.cells))
	for i := range rows {
		rows[i] = i
	}
	return View{table: t, rows: rows}
}
