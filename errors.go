package forest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoPanels          = errors.New("at least one panel required")
	ErrNoData            = errors.New("dataset is nil")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrColumnLength      = errors.New("column length mismatch")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrNotSparkline      = errors.New("panel is not a sparkline")
)

// MissingColumn identifies one unresolved column reference: the panel that
// declared it (by position in the panel list) and the declaration field it
// came from.
type MissingColumn struct {
	Panel  int
	Field  string // "variables", "lower", "upper", "group_by", "reference_line"
	Column string
}

// SchemaError reports every panel-referenced column that does not exist in
// the dataset. It is returned before any tree construction takes place.
type SchemaError struct {
	Missing []MissingColumn
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("panel %d %s: column %q not in dataset", m.Panel, m.Field, m.Column)
	}
	return "missing columns: " + strings.Join(parts, "; ")
}

// BoundViolation is a single row where a point estimate falls outside its
// own confidence interval.
type BoundViolation struct {
	Row    int
	Column string // estimate column
	Lower  string // lower bound column
	Upper  string // upper bound column
	Value  float64
	Lo     float64
	Hi     float64
}

func (v BoundViolation) String() string {
	return fmt.Sprintf("row %d: %s=%v outside [%s=%v, %s=%v]",
		v.Row, v.Column, v.Value, v.Lower, v.Lo, v.Upper, v.Hi)
}

// PValueViolation is a single row where a declared p-value column holds a
// value outside [0, 1].
type PValueViolation struct {
	Row    int
	Column string
	Value  float64
}

func (v PValueViolation) String() string {
	return fmt.Sprintf("row %d: %s=%v outside [0, 1]", v.Row, v.Column, v.Value)
}

// ConsistencyError reports every statistical-consistency defect found in
// one validation pass: estimates outside their bound intervals, and p-values
// outside [0, 1].
type ConsistencyError struct {
	Bounds  []BoundViolation
	PValues []PValueViolation
}

func (e *ConsistencyError) Error() string {
	parts := make([]string, 0, len(e.Bounds)+len(e.PValues))
	for _, v := range e.Bounds {
		parts = append(parts, v.String())
	}
	for _, v := range e.PValues {
		parts = append(parts, v.String())
	}
	return "inconsistent statistics: " + strings.Join(parts, "; ")
}

func (e *ConsistencyError) empty() bool {
	return len(e.Bounds) == 0 && len(e.PValues) == 0
}

// ConfigError reports every panel declaration that cannot be resolved
// unambiguously, such as parallel sequences of mismatched length.
type ConfigError struct {
	Issues []string
}

func (e *ConfigError) Error() string {
	return "invalid panel configuration: " + strings.Join(e.Issues, "; ")
}

// HierarchyIssue is a single defect in the grouping structure.
type HierarchyIssue struct {
	Column string
	Detail string
}

func (i HierarchyIssue) String() string {
	return fmt.Sprintf("column %q: %s", i.Column, i.Detail)
}

// HierarchyError reports grouping columns whose values are not consistently
// typed, or that appear at conflicting depths across the grouping paths
// declared by different panels.
type HierarchyError struct {
	Issues []HierarchyIssue
}

func (e *HierarchyError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return "invalid grouping: " + strings.Join(parts, "; ")
}
