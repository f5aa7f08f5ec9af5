package forest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Panel is a display unit bound to one or more dataset columns. It is a
// sealed tagged variant: the only implementations are [TextPanel] and
// [SparklinePanel], and consumers dispatch with an exhaustive type switch.
type Panel interface {
	isPanel()
}

// TextPanel displays one or more text or numeric columns.
type TextPanel struct {
	// Variables names the columns to display. See [Var], [VarList],
	// [VarMap] for the accepted shapes.
	Variables Vars

	// GroupBy is an ordered list of grouping columns defining the
	// drill-down hierarchy for this panel. Empty means ungrouped.
	GroupBy []string

	// Labels overrides the display label per variable. When set, its
	// length must equal the number of variables.
	Labels []string

	// Widths sets the display width per variable. A single entry is
	// broadcast to all variables; otherwise the length must match.
	// When empty, widths are inferred from the data.
	Widths []int

	Title  string
	Footer string
}

func (TextPanel) isPanel() {}

// SparklinePanel displays point estimates with optional error bars as an
// inline per-row visualization.
type SparklinePanel struct {
	// Variables names the point-estimate columns.
	Variables Vars

	// Lower and Upper name the bound columns, parallel to Variables.
	// When present their length must equal the number of variables.
	Lower []string
	Upper []string

	// Reference marks a vertical comparator line: a fixed value or a
	// column resolved per row. Nil means no reference line.
	Reference *ReferenceLine

	// ReferenceLineColor overrides [Config.ReferenceLineColor].
	ReferenceLineColor string

	// XLim fixes the axis domain. Nil means the domain is computed from
	// the data feeding the panel, padded by 2% of the observed range.
	XLim *Range

	// Labels overrides the display label per series. When set, its
	// length must equal the number of variables.
	Labels []string

	// Colors sets the series colors. When set, its length must equal
	// the number of variables; otherwise colors come from
	// [Config.Colors] and then the default palette.
	Colors []string

	// Width and Height are the rendered panel dimensions in pixels.
	// Zero means defaults: width 200, height 40 (45 for multi-series),
	// or [Config.SparklineHeight] when set.
	Width  int
	Height int

	Title  string
	Footer string
}

func (SparklinePanel) isPanel() {}

// VarLabel pairs a column with its display label, preserving declaration
// order. Used with [VarMap].
type VarLabel struct {
	Column string
	Label  string
}

// Vars is the normalized form of a panel's variable declaration. The
// accepted external shapes are a single column name ([Var]), an ordered
// list ([VarList]), or an ordered column-to-label mapping ([VarMap]); all
// three collapse into one canonical ordered list here, so downstream code
// never inspects shapes.
type Vars struct {
	entries []VarLabel
	labeled bool
}

// Var declares a single variable column.
func Var(column string) Vars {
	return Vars{entries: []VarLabel{{Column: column}}}
}

// VarList declares an ordered list of variable columns, each labeled by
// its own name unless overridden by a panel Labels sequence.
func VarList(columns ...string) Vars {
	entries := make([]VarLabel, len(columns))
	for i, c := range columns {
		entries[i] = VarLabel{Column: c}
	}
	return Vars{entries: entries}
}

// VarMap declares variables with explicit labels, in the given order.
func VarMap(pairs ...VarLabel) Vars {
	entries := make([]VarLabel, len(pairs))
	copy(entries, pairs)
	return Vars{entries: entries, labeled: true}
}

// Len returns the number of declared variables.
func (v Vars) Len() int { return len(v.entries) }

// Columns returns the declared column names in order.
func (v Vars) Columns() []string {
	cols := make([]string, len(v.entries))
	for i, e := range v.entries {
		cols[i] = e.Column
	}
	return cols
}

// UnmarshalYAML accepts the three declarative shapes: a scalar column
// name, a sequence of column names, or a mapping of column to label.
// Mapping order is preserved.
func (v *Vars) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = Var(s)
		return nil
	case yaml.SequenceNode:
		var cols []string
		if err := node.Decode(&cols); err != nil {
			return err
		}
		*v = VarList(cols...)
		return nil
	case yaml.MappingNode:
		pairs := make([]VarLabel, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			pairs = append(pairs, VarLabel{
				Column: node.Content[i].Value,
				Label:  node.Content[i+1].Value,
			})
		}
		*v = VarMap(pairs...)
		return nil
	default:
		return fmt.Errorf("variables must be a string, list, or mapping, got %v", node.Kind)
	}
}

// ReferenceLine is a vertical marker on a sparkline axis: either a fixed
// value applied to every row, or a column name resolved per row.
type ReferenceLine struct {
	column   string
	value    float64
	isColumn bool
}

// RefValue returns a reference line fixed at v for every row.
func RefValue(v float64) *ReferenceLine {
	return &ReferenceLine{value: v}
}

// RefColumn returns a reference line resolved per row from the named
// column, supporting per-subgroup comparator values.
func RefColumn(name string) *ReferenceLine {
	return &ReferenceLine{column: name, isColumn: true}
}

// Column returns the reference column name, if the line is column-bound.
func (r *ReferenceLine) Column() (string, bool) {
	if r == nil || !r.isColumn {
		return "", false
	}
	return r.column, true
}

// Value returns the fixed reference value, if the line is a literal.
func (r *ReferenceLine) Value() (float64, bool) {
	if r == nil || r.isColumn {
		return 0, false
	}
	return r.value, true
}

// MarshalJSON encodes a fixed line as a number and a column-bound line as
// the column name, mirroring the declarative input shape.
func (r *ReferenceLine) MarshalJSON() ([]byte, error) {
	if r.isColumn {
		return []byte(strconv.Quote(r.column)), nil
	}
	return []byte(strconv.FormatFloat(r.value, 'g', -1, 64)), nil
}

// MarshalYAML encodes a fixed line as a number and a column-bound line as
// the column name.
func (r *ReferenceLine) MarshalYAML() (any, error) {
	if r.isColumn {
		return r.column, nil
	}
	return r.value, nil
}

// UnmarshalYAML accepts a number (fixed value) or a string (column name).
func (r *ReferenceLine) UnmarshalYAML(node *yaml.Node) error {
	var f float64
	if err := node.Decode(&f); err == nil {
		*r = ReferenceLine{value: f}
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("reference_line must be a number or column name: %w", err)
	}
	*r = ReferenceLine{column: s, isColumn: true}
	return nil
}

// Range is a closed numeric interval, used for axis limits.
type Range struct {
	Min float64
	Max float64
}

// MarshalJSON encodes the range as a two-element array.
func (r Range) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, "[%g,%g]", r.Min, r.Max), nil
}

// UnmarshalJSON decodes a two-element array.
func (r *Range) UnmarshalJSON(b []byte) error {
	var vals []float64
	if err := json.Unmarshal(b, &vals); err != nil {
		return err
	}
	if len(vals) != 2 {
		return fmt.Errorf("xlim must have exactly 2 elements, got %d", len(vals))
	}
	r.Min, r.Max = vals[0], vals[1]
	return nil
}

// MarshalYAML encodes the range as a two-element sequence.
func (r Range) MarshalYAML() (any, error) {
	return []float64{r.Min, r.Max}, nil
}

// UnmarshalYAML decodes a two-element sequence.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	var vals []float64
	if err := node.Decode(&vals); err != nil {
		return err
	}
	if len(vals) != 2 {
		return fmt.Errorf("xlim must have exactly 2 elements, got %d", len(vals))
	}
	r.Min, r.Max = vals[0], vals[1]
	return nil
}
