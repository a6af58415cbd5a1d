// Package dataset defines the in-memory tabular model shared by the extract,
// transform, and load stages.
//
// A Table is an ordered sequence of named columns whose cells are aligned by
// row index. Cells are untyped (any); the literal nil cell is the missing
// marker. Column names are unique within a table and column order is whatever
// the source published.
//
// Tables are treated as immutable by convention: each pipeline stage builds a
// new Table rather than mutating its input, so a caller's handle never changes
// underneath it.
package dataset

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Kind classifies a column's cell values after inspection.
type Kind int

const (
	// KindString is a column holding only strings (or empty).
	KindString Kind = iota
	// KindInt is a column holding only int64 values.
	KindInt
	// KindFloat is a column holding only float64 (possibly mixed with int64).
	KindFloat
	// KindMixed is anything else, including columns with missing cells.
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "mixed"
	}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []any
}

// Table is an ordered collection of equally-long columns.
type Table struct {
	cols []Column
}

// New builds a Table from the given columns. All columns must have unique
// names and equal length.
func New(cols ...Column) (*Table, error) {
	seen := make(map[string]struct{}, len(cols))
	n := -1
	for _, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("dataset: column with empty name")
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if n == -1 {
			n = len(c.Values)
		} else if len(c.Values) != n {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", c.Name, len(c.Values), n)
		}
	}
	return &Table{cols: cols}, nil
}

// MustNew is New for test fixtures and literals; it panics on invalid input.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty returns a table with no columns and no rows.
func Empty() *Table { return &Table{} }

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.NumRows(), t.NumCols() }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the table's columns in order. The returned slice shares the
// table's backing arrays; callers must not mutate it.
func (t *Table) Columns() []Column { return t.cols }

// Column returns the named column and whether it exists.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Cell returns the value at (row, col index).
func (t *Table) Cell(row, col int) any { return t.cols[col].Values[row] }

// Row materializes row i as a []any in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Values[i]
	}
	return row
}

// Rows materializes every row in order. Intended for bulk writes and tests.
func (t *Table) Rows() [][]any {
	rows := make([][]any, t.NumRows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Clone returns a deep copy of the table's structure and cell slots. Cell
// values themselves are copied by assignment (they are scalars throughout
// this pipeline).
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		vals := make([]any, len(c.Values))
		copy(vals, c.Values)
		cols[i] = Column{Name: c.Name, Values: vals}
	}
	return &Table{cols: cols}
}

// WithColumn returns a copy of the table with the named column's values
// replaced. The replacement must have the same length; unknown names are
// returned unchanged.
func (t *Table) WithColumn(name string, values []any) *Table {
	out := t.Clone()
	for i := range out.cols {
		if out.cols[i].Name == name && len(values) == len(out.cols[i].Values) {
			out.cols[i].Values = values
		}
	}
	return out
}

// Select returns a new table containing only the rows whose indexes appear in
// keep, in the given order.
func (t *Table) Select(keep []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		vals := make([]any, 0, len(keep))
		for _, r := range keep {
			vals = append(vals, c.Values[r])
		}
		cols[i] = Column{Name: c.Name, Values: vals}
	}
	return &Table{cols: cols}
}

// HasMissing reports whether row i contains a missing (nil) cell.
func (t *Table) HasMissing(i int) bool {
	for _, c := range t.cols {
		if c.Values[i] == nil {
			return true
		}
	}
	return false
}

// KindOf inspects the named column's cells and classifies them. A column with
// any nil cell, or with values outside {string, int64, float64}, is KindMixed.
func (t *Table) KindOf(name string) Kind {
	c, ok := t.Column(name)
	if !ok {
		return KindMixed
	}
	kind := KindString
	first := true
	for _, v := range c.Values {
		var k Kind
		switch v.(type) {
		case string:
			k = KindString
		case int64:
			k = KindInt
		case float64:
			k = KindFloat
		default:
			return KindMixed
		}
		if first {
			kind, first = k, false
			continue
		}
		if k == kind {
			continue
		}
		// int and float mix to float; anything else is mixed.
		if (kind == KindInt && k == KindFloat) || (kind == KindFloat && k == KindInt) {
			kind = KindFloat
			continue
		}
		return KindMixed
	}
	return kind
}

// Fingerprint hashes row i into a 64-bit digest for duplicate grouping.
// Values are rendered with an explicit type tag so that int64(1) and "1" do
// not collide; cells are joined with a 0x1f separator and nil renders as
// 0x00. Callers must confirm equality with EqualRows since distinct rows can
// share a digest.
func (t *Table) Fingerprint(i int) uint64 {
	var b strings.Builder
	for j, c := range t.cols {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		switch v := c.Values[i].(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString("s:")
			b.WriteString(v)
		case int64:
			fmt.Fprintf(&b, "i:%d", v)
		case float64:
			fmt.Fprintf(&b, "f:%g", v)
		default:
			fmt.Fprintf(&b, "v:%v", v)
		}
	}
	return xxh3.HashString(b.String())
}

// EqualRows reports whether rows i and j hold equal values in every column.
func (t *Table) EqualRows(i, j int) bool {
	for _, c := range t.cols {
		if c.Values[i] != c.Values[j] {
			return false
		}
	}
	return true
}
