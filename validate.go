package forest

import (
	"fmt"
	"strings"
)

// columnRef is one column reference collected from a panel declaration.
type columnRef struct {
	panel  int
	field  string
	column string
}

// requiredColumns collects every column reference declared across the
// panel list, in declaration order.
func requiredColumns(panels []Panel) []columnRef {
	var refs []columnRef
	add := func(panel int, field string, cols ...string) {
		for _, c := range cols {
			refs = append(refs, columnRef{panel: panel, field: field, column: c})
		}
	}
	for i, p := range panels {
		switch pp := p.(type) {
		case TextPanel:
			add(i, "group_by", pp.GroupBy...)
			add(i, "variables", pp.Variables.Columns()...)
		case SparklinePanel:
			add(i, "variables", pp.Variables.Columns()...)
			add(i, "lower", pp.Lower...)
			add(i, "upper", pp.Upper...)
			if col, ok := pp.Reference.Column(); ok {
				add(i, "reference_line", col)
			}
		}
	}
	return refs
}

// validateSchema confirms that every panel-referenced column exists in the
// dataset, collecting all missing references rather than stopping at the
// first.
func validateSchema(d *Dataset, panels []Panel) error {
	var missing []MissingColumn
	for _, ref := range requiredColumns(panels) {
		if !d.Has(ref.column) {
			missing = append(missing, MissingColumn{
				Panel:  ref.panel,
				Field:  ref.field,
				Column: ref.column,
			})
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// validateConsistency checks the statistical invariants row-wise:
// lower <= value <= upper for every bound pair, and declared p-value
// columns within [0, 1]. Rows where any side of a comparison is null are
// skipped: a null propagates as "no bound available", not a violation.
// Every violation found is collected into one report.
func validateConsistency(d *Dataset, panels []Panel, cfg Config) error {
	cerr := &ConsistencyError{}
	for _, p := range panels {
		sp, ok := p.(SparklinePanel)
		if !ok {
			continue
		}
		cols := sp.Variables.Columns()
		if len(sp.Lower) != len(cols) || len(sp.Upper) != len(cols) {
			continue // length defects are ConfigError territory
		}
		for i, est := range cols {
			checkBounds(d, est, sp.Lower[i], sp.Upper[i], cerr)
		}
	}
	for _, col := range cfg.PValueColumns {
		checkPValues(d, col, cerr)
	}
	if cerr.empty() {
		return nil
	}
	return cerr
}

func checkBounds(d *Dataset, est, lower, upper string, cerr *ConsistencyError) {
	if !d.Has(est) || !d.Has(lower) || !d.Has(upper) {
		return
	}
	for row := 0; row < d.NumRows(); row++ {
		v, okV := d.Value(row, est).Float()
		lo, okL := d.Value(row, lower).Float()
		hi, okU := d.Value(row, upper).Float()
		if !okV || !okL || !okU {
			continue
		}
		if lo > v || v > hi {
			cerr.Bounds = append(cerr.Bounds, BoundViolation{
				Row:    row,
				Column: est,
				Lower:  lower,
				Upper:  upper,
				Value:  v,
				Lo:     lo,
				Hi:     hi,
			})
		}
	}
}

func checkPValues(d *Dataset, col string, cerr *ConsistencyError) {
	vals, ok := d.Column(col)
	if !ok {
		return
	}
	for row, v := range vals {
		p, isNum := v.Float()
		if !isNum {
			continue
		}
		if p < 0 || p > 1 {
			cerr.PValues = append(cerr.PValues, PValueViolation{
				Row:    row,
				Column: col,
				Value:  p,
			})
		}
	}
}

// validateGrouping checks that grouping columns are usable: each column's
// non-null values share one scalar kind, and no column appears at
// conflicting depths across the distinct grouping paths. Divergent paths
// are flagged rather than silently merged.
func validateGrouping(d *Dataset, paths [][]string) error {
	herr := &HierarchyError{}

	depth := make(map[string]int)
	checked := make(map[string]bool)
	for _, path := range paths {
		for level, col := range path {
			if prev, seen := depth[col]; seen && prev != level {
				herr.Issues = append(herr.Issues, HierarchyIssue{
					Column: col,
					Detail: fmt.Sprintf("grouped at depth %d in one panel and depth %d in another", prev, level),
				})
			} else {
				depth[col] = level
			}
			if checked[col] {
				continue
			}
			checked[col] = true
			if issue, bad := mixedKinds(d, col); bad {
				herr.Issues = append(herr.Issues, HierarchyIssue{Column: col, Detail: issue})
			}
		}
	}
	if len(herr.Issues) > 0 {
		return herr
	}
	return nil
}

// mixedKinds reports whether a column holds both numeric and string
// values. Nulls are fine: a null is a distinct group key, not an error.
func mixedKinds(d *Dataset, col string) (string, bool) {
	vals, ok := d.Column(col)
	if !ok {
		return "", false
	}
	var nums, strs int
	for _, v := range vals {
		switch v.Kind() {
		case KindNum:
			nums++
		case KindStr:
			strs++
		}
	}
	if nums > 0 && strs > 0 {
		return fmt.Sprintf("mixes %d numeric and %d string values", nums, strs), true
	}
	return "", false
}

// Report summarizes advisory data-quality findings for a dataset. Nothing
// in a Report is fatal; it exists so callers can review null counts and
// duplicates before building a plot.
type Report struct {
	Rows          int            `json:"rows" yaml:"rows"`
	Cols          int            `json:"cols" yaml:"cols"`
	Nulls         map[string]int `json:"nulls" yaml:"nulls"`
	DuplicateRows int            `json:"duplicate_rows" yaml:"duplicate_rows"`
	Warnings      []string       `json:"warnings" yaml:"warnings"`
}

// Describe runs general consistency checks over a dataset: per-column null
// counts, duplicate rows, and degenerate shapes.
func Describe(d *Dataset) Report {
	r := Report{
		Rows:  d.NumRows(),
		Cols:  d.NumCols(),
		Nulls: make(map[string]int),
	}
	for _, name := range d.Columns() {
		vals, _ := d.Column(name)
		n := 0
		for _, v := range vals {
			if v.IsNull() {
				n++
			}
		}
		if n > 0 {
			r.Nulls[name] = n
		}
	}

	seen := make(map[string]bool, d.NumRows())
	for row := 0; row < d.NumRows(); row++ {
		key := rowKey(d, row)
		if seen[key] {
			r.DuplicateRows++
		}
		seen[key] = true
	}
	if r.DuplicateRows > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("found %d duplicate rows", r.DuplicateRows))
	}
	if r.Rows == 0 {
		r.Warnings = append(r.Warnings, "dataset is empty")
	}
	if r.Rows == 1 {
		r.Warnings = append(r.Warnings, "dataset contains only one row")
	}
	return r
}

// rowKey builds a collision-safe signature for duplicate detection. Each
// cell is length-prefixed so adjacent cells cannot alias.
func rowKey(d *Dataset, row int) string {
	var sb strings.Builder
	for _, name := range d.Columns() {
		v := d.Value(row, name)
		s := v.String()
		fmt.Fprintf(&sb, "%d:%d:%s|", v.Kind(), len(s), s)
	}
	return sb.String()
}
