package cleaner

import (
	"sort"

	"github.com/google/uuid"
)

// Record is one row as exposed to callers: column name to cell value.
type Record = map[string]any

// Table is a row-major table with a fixed column order and one stable
// identifier per row. Tables handed to callers are never mutated; the
// engine clones before changing anything.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
	ids     []string
}

// newTable builds a table from records. Columns listed in order come first;
// any other keys are appended in order of first appearance, sorted within
// the row that introduces them.
func newTable(order []string, records []map[string]any) *Table {
	t := &Table{index: make(map[string]int)}
	for _, name := range order {
		t.addColumnName(name)
	}
	for _, rec := range records {
		var extra []string
		for name := range rec {
			if _, ok := t.index[name]; !ok {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			t.addColumnName(name)
		}
	}

	t.rows = make([][]any, len(records))
	t.ids = make([]string, len(records))
	for i, rec := range records {
		row := make([]any, len(t.columns))
		for name, v := range rec {
			row[t.index[name]] = normalizeValue(v)
		}
		t.rows[i] = row
		t.ids[i] = uuid.NewString()
	}
	return t
}

func emptyTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (t *Table) addColumnName(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
}

// clone returns a deep copy. Cell values are immutable scalars so copying
// the row slices is sufficient.
func (t *Table) clone() *Table {
	c := &Table{
		columns: append([]string(nil), t.columns...),
		index:   make(map[string]int, len(t.index)),
		rows:    make([][]any, len(t.rows)),
		ids:     append([]string(nil), t.ids...),
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	for i, row := range t.rows {
		c.rows[i] = append([]any(nil), row...)
	}
	return c
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns a copy of the column order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

func (t *Table) has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// values returns a copy of one column. The column must exist.
func (t *Table) values(name string) []any {
	ci := t.index[name]
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[ci]
	}
	return out
}

// setColumn overwrites the named column, appending it when absent. Computed
// floats that overflowed to NaN or ±Inf are stored as null.
func (t *Table) setColumn(name string, vals []any) {
	ci, ok := t.index[name]
	if !ok {
		t.addColumnName(name)
		ci = t.index[name]
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], nil)
		}
	}
	for i := range t.rows {
		if f, ok := vals[i].(float64); ok {
			t.rows[i][ci] = normalizeFloat(f)
			continue
		}
		t.rows[i][ci] = vals[i]
	}
}

// keepRows drops every row for which keep returns false, preserving order.
func (t *Table) keepRows(keep func(i int) bool) int {
	rows := t.rows[:0:0]
	ids := t.ids[:0:0]
	for i := range t.rows {
		if keep(i) {
			rows = append(rows, t.rows[i])
			ids = append(ids, t.ids[i])
		}
	}
	removed := len(t.rows) - len(rows)
	t.rows, t.ids = rows, ids
	return removed
}

func (t *Table) nullCount(name string) int {
	ci := t.index[name]
	n := 0
	for _, row := range t.rows {
		if row[ci] == nil {
			n++
		}
	}
	return n
}

// RowIDs returns the stable identifiers in row order.
func (t *Table) RowIDs() []string { return append([]string(nil), t.ids...) }

// Records renders the table as a fresh slice of maps. Every record carries
// every column; missing cells are nil.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i, row := range t.rows {
		rec := make(Record, len(t.columns))
		for ci, name := range t.columns {
			rec[name] = row[ci]
		}
		out[i] = rec
	}
	return out
}

// Rows returns the cells of every row in column order.
func (t *Table) Rows() [][]any {
	out := make([][]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]any(nil), row...)
	}
	return out
}
