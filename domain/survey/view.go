package survey

// View is a row subset of a Table, held as indices into it. Views never copy cells
// and never mutate the table; narrowing always returns a new View.
type View struct {
	table *Table
	rows  []int
}

// Len returns the number of rows in the view
func (v View) Len() int {
	return len(v.rows)
}

// Table returns the table the view reads from
func (v View) Table() *Table {
	return v.table
}

// Rows returns a copy of the table row indices in the view
func (v View) Rows() []int {
	out := make([]int, len(v.rows))
	copy(out, v.rows)
	return out
}

// Value returns the cell for the i-th row of the view
func (v View) Value(i int, field string) (Value, bool) {
	if i < 0 || i >= len(v.rows) {
		return "", false
	}
	return v.table.Value(v.rows[i], field)
}

// Where narrows the view to rows whose field equals value. Missing cells never match.
// An unknown field yields an empty view.
func (v View) Where(field string, value Value) View {
	col, ok := v.table.index[field]
	if !ok {
		return View{table: v.table, rows: []int{}}
	}

	rows := make([]int, 0, len(v.rows))
	for _, r := range v.rows {
		if cell, valid := v.table.cell(r, col); valid && cell == value {
			rows = append(rows, r)
		}
	}
	return View{table: v.table, rows: rows}
}

// Distinct returns the non-missing values of field in first-appearance order
func (v View) Distinct(field string) []Value {
	col, ok := v.table.index[field]
	if !ok {
		return nil
	}

	seen := make(map[Value]bool)
	var out []Value
	for _, r := range v.rows {
		cell, valid := v.table.cell(r, col)
		if !valid || seen[cell] {
			continue
		}
		seen[cell] = true
		out = append(out, cell)
	}
	return out
}

// Each calls fn with the value of field for every row of the view, skipping missing cells
func (v View) Each(field string, fn func(Value)) {
	col, ok := v.table.index[field]
	if !ok {
		return
	}
	for _, r := range v.rows {
		if cell, valid := v.table.cell(r, col); valid {
			fn(cell)
		}
	}
}
