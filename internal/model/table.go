// Package model defines the core data structures shared by the analyzer and its collaborators.
package model

// Row is one consultation record aligned to its table header.
type Row struct {
	index   map[string]int
	values  []string
	present []bool
}

// Get returns the value stored under column. The boolean is false when the
// column is unknown or the cell was absent in the source (a padded cell).
func (r Row) Get(column string) (string, bool) {
	i, ok := r.index[column]
	if !ok || !r.present[i] {
		return "", false
	}
	return r.values[i], true
}

// Value returns the value stored under column, or "" when it is missing.
func (r Row) Value(column string) string {
	v, _ := r.Get(column)
	return v
}

// Values returns a copy of the row's cells in header order.
func (r Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Table is an ordered sequence of rows sharing a fixed header.
// A Table is never modified after construction.
type Table struct {
	index  map[string]int
	header []string
	rows   []Row
}

// NewTable builds a table from a header and raw rows. Short rows are padded
// with missing cells and long rows are truncated to the header length.
// When a column name repeats, the first occurrence wins for lookups.
func NewTable(header []string, rows [][]string) *Table {
	h := make([]string, len(header))
	copy(h, header)

	index := make(map[string]int, len(h))
	for i, name := range h {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	t := &Table{
		index:  index,
		header: h,
		rows:   make([]Row, 0, len(rows)),
	}

	for _, raw := range rows {
		values := make([]string, len(h))
		present := make([]bool, len(h))
		for i := range h {
			if i < len(raw) {
				values[i] = raw[i]
				present[i] = true
			}
		}
		t.rows = append(t.rows, Row{index: index, values: values, present: present})
	}

	return t
}

// Header returns a copy of the column names.
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// HasColumn reports whether the header declares column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns the data rows. Rows are value types, so callers cannot
// change the table through the returned slice elements.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}
