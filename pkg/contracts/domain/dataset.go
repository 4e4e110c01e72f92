package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindTime
)

// Value is a single cell in a Dataset. The zero value is the explicit
// missing marker.
type Value struct {
	kind Kind
	str  string
	num  float64
	ts   time.Time
}

// MissingValue returns the explicit missing marker.
func MissingValue() Value {
	return Value{kind: KindMissing}
}

// StringValue wraps a string cell.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue wraps a numeric cell.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// TimeValue wraps a timestamp cell.
func TimeValue(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Kind returns the scalar type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the string payload, or "" for non-string values.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload, or 0 for non-numeric values.
func (v Value) Num() float64 { return v.num }

// Time returns the timestamp payload, or the zero time for non-time values.
func (v Value) Time() time.Time { return v.ts }

// String renders the value for display and CSV output. Missing values
// render as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.ts.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Dataset is an in-memory table: an ordered, fixed set of named columns and
// a sequence of rows of scalar values. It is the only data structure shared
// between the loader, the validator and the preprocessing pipeline.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewDataset creates an empty dataset with the given column set.
func NewDataset(columns []string) *Dataset {
	d := &Dataset{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, name := range columns {
		d.index[name] = i
	}
	return d
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int { return len(d.columns) }

// Empty reports whether the dataset has zero rows.
func (d *Dataset) Empty() bool { return len(d.rows) == 0 }

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// AppendRow adds a row to the dataset. The row must match the column count.
func (d *Dataset) AppendRow(values []Value) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("row has %d values, dataset has %d columns", len(values), len(d.columns))
	}
	d.rows = append(d.rows, append([]Value(nil), values...))
	return nil
}

// At returns the cell at the given row and column. The second return is
// false when the row is out of range or the column does not exist.
func (d *Dataset) At(row int, col string) (Value, bool) {
	idx, ok := d.index[col]
	if !ok || row < 0 || row >= len(d.rows) {
		return Value{}, false
	}
	return d.rows[row][idx], true
}

// SetAt replaces the cell at the given row and column. It reports whether
// the target existed.
func (d *Dataset) SetAt(row int, col string, v Value) bool {
	idx, ok := d.index[col]
	if !ok || row < 0 || row >= len(d.rows) {
		return false
	}
	d.rows[row][idx] = v
	return true
}

// Column returns a copy of the named column's values in row order.
func (d *Dataset) Column(name string) ([]Value, bool) {
	idx, ok := d.index[name]
	if !ok {
		return nil, false
	}
	values := make([]Value, len(d.rows))
	for i, row := range d.rows {
		values[i] = row[idx]
	}
	return values, true
}

// AddColumn appends a new column with the given values, one per row.
func (d *Dataset) AddColumn(name string, values []Value) error {
	if d.HasColumn(name) {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(values) != len(d.rows) {
		return fmt.Errorf("column %q has %d values, dataset has %d rows", name, len(values), len(d.rows))
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, name)
	for i := range d.rows {
		d.rows[i] = append(d.rows[i], values[i])
	}
	return nil
}

// Copy returns a deep copy. Mutating the copy never affects the original.
func (d *Dataset) Copy() *Dataset {
	out := NewDataset(d.columns)
	out.rows = make([][]Value, len(d.rows))
	for i, row := range d.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// RenameColumns returns a new dataset with every column renamed through fn.
// When two distinct columns map to the same name the collision resolves
// last-write-wins: the later column's values survive at the position of the
// first occurrence of the name.
func (d *Dataset) RenameColumns(fn func(string) string) *Dataset {
	names := make([]string, 0, len(d.columns))
	source := make([]int, 0, len(d.columns)) // original column index per kept name
	position := make(map[string]int, len(d.columns))
	for i, name := range d.columns {
		renamed := fn(name)
		if pos, seen := position[renamed]; seen {
			source[pos] = i
			continue
		}
		position[renamed] = len(names)
		names = append(names, renamed)
		source = append(source, i)
	}

	out := NewDataset(names)
	out.rows = make([][]Value, len(d.rows))
	for i, row := range d.rows {
		newRow := make([]Value, len(source))
		for j, src := range source {
			newRow[j] = row[src]
		}
		out.rows[i] = newRow
	}
	return out
}

// Filter returns a new dataset containing the rows for which keep returns
// true, preserving row order and the column set.
func (d *Dataset) Filter(keep func(row int) bool) *Dataset {
	out := NewDataset(d.columns)
	for i, row := range d.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out
}
