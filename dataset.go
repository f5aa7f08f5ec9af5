package forest

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies the scalar type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNum
	KindStr
)

// Value is a nullable scalar cell: null, a number, or a string. The zero
// Value is null. Values are comparable and can be used as map keys, which
// the hierarchy builder relies on for group lookup.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Num returns a numeric Value. NaN is treated as null so that numeric
// columns built from raw float slices can express missing data.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNum, num: f}
}

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// Kind returns the scalar kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric value. The second return is false when the
// value is not a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNum {
		return 0, false
	}
	return v.num, true
}

// String returns the display form: the string itself, a number rendered
// with the shortest round-trip representation, or "" for null.
func (v Value) String() string {
	switch v.kind {
	case KindNum:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindStr:
		return v.str
	default:
		return ""
	}
}

// MarshalJSON encodes the value as a JSON null, number, or string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNum:
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindStr:
		return []byte(strconv.Quote(v.str)), nil
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML encodes the value as a YAML null, number, or string.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNum:
		return v.num, nil
	case KindStr:
		return v.str, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML decodes a YAML scalar into a Value. Numbers become numeric
// values, nulls stay null, and everything else is kept as a string.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*v = Null()
		return nil
	}
	var f float64
	if err := node.Decode(&f); err == nil {
		*v = Num(f)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*v = Str(s)
	return nil
}

// Column is a named, ordered vector of values.
type Column struct {
	Name   string
	Values []Value
}

// Col builds a Column from explicit values.
func Col(name string, values ...Value) Column {
	return Column{Name: name, Values: values}
}

// Nums builds a numeric Column. NaN entries become nulls.
func Nums(name string, values ...float64) Column {
	vals := make([]Value, len(values))
	for i, f := range values {
		vals[i] = Num(f)
	}
	return Column{Name: name, Values: vals}
}

// Strs builds a string Column.
func Strs(name string, values ...string) Column {
	vals := make([]Value, len(values))
	for i, s := range values {
		vals[i] = Str(s)
	}
	return Column{Name: name, Values: vals}
}

// Dataset is an ordered table of named columns. Row order is significant
// and preserved throughout: it encodes the intended display order. A
// Dataset is immutable once constructed.
type Dataset struct {
	cols  []Column
	index map[string]int
	rows  int
}

// NewDataset constructs a Dataset from columns. All columns must have the
// same length and distinct names. A dataset with zero columns or zero rows
// is valid.
func NewDataset(cols ...Column) (*Dataset, error) {
	d := &Dataset{
		cols:  make([]Column, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := d.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		if i == 0 {
			d.rows = len(c.Values)
		} else if len(c.Values) != d.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d",
				ErrColumnLength, c.Name, len(c.Values), d.rows)
		}
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		d.cols[i] = Column{Name: c.Name, Values: vals}
		d.index[c.Name] = i
	}
	return d, nil
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return d.rows }

// NumCols returns the column count.
func (d *Dataset) NumCols() int { return len(d.cols) }

// Columns returns the column names in declaration order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the dataset contains the named column.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Value returns the cell at (row, column). It returns null when the column
// does not exist or the row is out of range.
func (d *Dataset) Value(row int, column string) Value {
	i, ok := d.index[column]
	if !ok || row < 0 || row >= d.rows {
		return Null()
	}
	return d.cols[i].Values[row]
}

// Column returns the named column vector.
func (d *Dataset) Column(name string) ([]Value, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i].Values, true
}

// Select returns a new Dataset containing only the named columns, in the
// given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := d.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		cols = append(cols, d.cols[i])
	}
	return NewDataset(cols...)
}
