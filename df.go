package df

import (
	"fmt"
	"sort"
)

// DataTypes are the types of data that the package supports
type DataTypes uint8

// values of DataTypes
const (
	DTunknown DataTypes = 0 + iota
	DTstring
	DTfloat
	DTint
)

func (dt DataTypes) String() string {
	switch dt {
	case DTstring:
		return "DTstring"
	case DTfloat:
		return "DTfloat"
	case DTint:
		return "DTint"
	default:
		return "DTunknown"
	}
}

// Numeric is true for DTfloat and DTint.
func (dt DataTypes) Numeric() bool {
	return dt == DTfloat || dt == DTint
}

// Table is an ordered set of equal-length columns. Tables handed out by this package never share
// column storage with their source: Copy, Where and KeepColumns all allocate.
type Table struct {
	cols  []*Column
	index map[string]int
}

func NewTable(cols ...*Column) (*Table, error) {
	if cols == nil {
		return nil, fmt.Errorf("no columns in NewTable")
	}

	t := &Table{index: make(map[string]int)}
	for _, col := range cols {
		if e := t.AppendColumn(col); e != nil {
			return nil, e
		}
	}

	return t, nil
}

func (t *Table) RowCount() int {
	if len(t.cols) == 0 {
		return 0
	}

	return t.cols[0].Len()
}

func (t *Table) ColumnCount() int {
	return len(t.cols)
}

func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		names = append(names, c.Name())
	}

	return names
}

func (t *Table) HasColumn(colName string) bool {
	_, ok := t.index[colName]
	return ok
}

func (t *Table) Column(colName string) (*Column, error) {
	if ind, ok := t.index[colName]; ok {
		return t.cols[ind], nil
	}

	return nil, fmt.Errorf("column %s not found", colName)
}

// Columns returns the columns in order. The slice is a copy, the columns are not.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)

	return out
}

func (t *Table) AppendColumn(col *Column) error {
	if col == nil {
		return fmt.Errorf("nil column to AppendColumn")
	}

	if t.HasColumn(col.Name()) {
		return fmt.Errorf("duplicate column name: %s", col.Name())
	}

	if len(t.cols) > 0 && col.Len() != t.RowCount() {
		return fmt.Errorf("length mismatch: table - %d, append col - %d", t.RowCount(), col.Len())
	}

	t.index[col.Name()] = len(t.cols)
	t.cols = append(t.cols, col)

	return nil
}

func (t *Table) DropColumns(colNames ...string) error {
	for _, cName := range colNames {
		if !t.HasColumn(cName) {
			return fmt.Errorf("column %s not found", cName)
		}
	}

	var keep []*Column
	for _, c := range t.cols {
		if !Has(c.Name(), colNames) {
			keep = append(keep, c)
		}
	}

	if len(keep) == 0 {
		return fmt.Errorf("no columns left")
	}

	t.cols = keep
	t.reindex()

	return nil
}

// ReplaceColumn swaps col in for the column of the same name, keeping its position.
func (t *Table) ReplaceColumn(col *Column) error {
	ind, ok := t.index[col.Name()]
	if !ok {
		return fmt.Errorf("column %s not found", col.Name())
	}

	if col.Len() != t.RowCount() {
		return fmt.Errorf("length mismatch: table - %d, replace col - %d", t.RowCount(), col.Len())
	}

	t.cols[ind] = col

	return nil
}

// KeepColumns returns a new table with copies of the named columns, in the order given.
func (t *Table) KeepColumns(colNames ...string) (*Table, error) {
	var cols []*Column
	for _, cName := range colNames {
		col, e := t.Column(cName)
		if e != nil {
			return nil, e
		}

		cols = append(cols, col.Copy())
	}

	return NewTable(cols...)
}

func (t *Table) Copy() *Table {
	cols := make([]*Column, len(t.cols))
	for ind, c := range t.cols {
		cols[ind] = c.Copy()
	}

	return &Table{cols: cols, index: t.copyIndex()}
}

// Where returns a new table holding the given rows, in the order given.
func (t *Table) Where(rows []int) *Table {
	cols := make([]*Column, len(t.cols))
	for ind, c := range t.cols {
		cols[ind] = c.Where(rows)
	}

	return &Table{cols: cols, index: t.copyIndex()}
}

// Filter returns a new table holding the rows for which keep is true. Row order is preserved.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.RowCount())
	for row := 0; row < t.RowCount(); row++ {
		if keep(row) {
			rows = append(rows, row)
		}
	}

	return t.Where(rows)
}

// Sort returns a new table sorted ascending on keys. The sort is stable.
func (t *Table) Sort(keys ...string) (*Table, error) {
	var by []*Column
	for _, k := range keys {
		col, e := t.Column(k)
		if e != nil {
			return nil, e
		}

		by = append(by, col)
	}

	perm := make([]int, t.RowCount())
	for ind := range perm {
		perm[ind] = ind
	}

	sort.SliceStable(perm, func(i, j int) bool {
		for _, col := range by {
			if col.Less(perm[i], perm[j]) {
				return true
			}

			if col.Less(perm[j], perm[i]) {
				return false
			}
		}

		return false
	})

	return t.Where(perm), nil
}

// Record returns row as a map from column name to value; missing values are nil.
func (t *Table) Record(row int) map[string]any {
	rec := make(map[string]any, len(t.cols))
	for _, c := range t.cols {
		rec[c.Name()] = jsonValue(c.Vector, row)
	}

	return rec
}

// Records returns every row as a map; see Record.
func (t *Table) Records() []map[string]any {
	recs := make([]map[string]any, t.RowCount())
	for row := range recs {
		recs[row] = t.Record(row)
	}

	return recs
}

func (t *Table) String() string {
	return fmt.Sprintf("table: %d rows x %d columns %v", t.RowCount(), t.ColumnCount(), t.ColumnNames())
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for ind, c := range t.cols {
		t.index[c.Name()] = ind
	}
}

func (t *Table) copyIndex() map[string]int {
	idx := make(map[string]int, len(t.index))
	for k, v := range t.index {
		idx[k] = v
	}

	return idx
}
