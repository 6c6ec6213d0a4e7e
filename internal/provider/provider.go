package provider

// Table is the tabular shape every BCB client returns. Cells hold
// float64, string, bool, time.Time or nil. Temporal cells are always
// time.Time so the normalizer can pick their granularity.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Len returns the number of rows. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Append adds a row. Missing trailing cells are nil.
func (t *Table) Append(cells ...any) {
	row := make([]any, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}
