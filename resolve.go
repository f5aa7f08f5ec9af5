package forest

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// PanelKind tags a resolved panel variant for exporters.
type PanelKind string

const (
	PanelText      PanelKind = "text"
	PanelSparkline PanelKind = "sparkline"
)

// Binding is the resolved association between one declared variable and a
// concrete dataset column, label, width, and (for sparklines) bound
// columns and color.
type Binding struct {
	Column string `json:"column" yaml:"column"`
	Label  string `json:"label" yaml:"label"`
	Width  int    `json:"width" yaml:"width"`
	Lower  string `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper  string `json:"upper,omitempty" yaml:"upper,omitempty"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
}

// ResolvedPanel is the canonical form of a panel declaration: every
// accepted external shape collapsed into one ordered binding list plus the
// resolved display attributes. Document and table exporters read text
// bindings from here; sparkline bindings additionally feed the per-row
// visualization configs.
type ResolvedPanel struct {
	Kind     PanelKind `json:"kind" yaml:"kind"`
	Title    string    `json:"title" yaml:"title"`
	Footer   string    `json:"footer" yaml:"footer"`
	Bindings []Binding `json:"bindings" yaml:"bindings"`

	// GroupBy is the ordered grouping path (text panels only).
	GroupBy []string `json:"group_by,omitempty" yaml:"group_by,omitempty"`

	// Sparkline attributes. XLim is the effective axis domain: the
	// explicit panel limit when declared, otherwise the domain computed
	// from the data feeding the panel.
	Reference          *ReferenceLine `json:"reference_line" yaml:"reference_line"`
	ReferenceLineColor string         `json:"reference_line_color,omitempty" yaml:"reference_line_color,omitempty"`
	XLim               *Range         `json:"xlim" yaml:"xlim"`
	Width              int            `json:"width,omitempty" yaml:"width,omitempty"`
	Height             int            `json:"height,omitempty" yaml:"height,omitempty"`
}

// resolvePanels normalizes every panel declaration, collecting all
// resolution defects into one ConfigError.
func resolvePanels(d *Dataset, panels []Panel, cfg Config) ([]ResolvedPanel, error) {
	resolved := make([]ResolvedPanel, 0, len(panels))
	var issues []string
	for i, p := range panels {
		switch pp := p.(type) {
		case TextPanel:
			rp, probs := resolveText(d, i, pp, cfg)
			resolved = append(resolved, rp)
			issues = append(issues, probs...)
		case SparklinePanel:
			rp, probs := resolveSparkline(i, pp, cfg)
			resolved = append(resolved, rp)
			issues = append(issues, probs...)
		default:
			issues = append(issues, fmt.Sprintf("panel %d: unknown panel type %T", i, p))
		}
	}
	if len(issues) > 0 {
		return nil, &ConfigError{Issues: issues}
	}
	return resolved, nil
}

func resolveText(d *Dataset, idx int, p TextPanel, cfg Config) (ResolvedPanel, []string) {
	var issues []string
	n := p.Variables.Len()
	labels := resolveLabels(idx, p.Variables, p.Labels, &issues)

	widths := make([]int, n)
	switch {
	case len(p.Widths) == 0:
		for i, e := range p.Variables.entries {
			widths[i] = inferWidth(d, e.Column, labels[i], cfg)
		}
	case len(p.Widths) == 1:
		for i := range widths {
			widths[i] = p.Widths[0]
		}
	case len(p.Widths) == n:
		copy(widths, p.Widths)
	default:
		issues = append(issues, fmt.Sprintf(
			"panel %d: widths has %d entries, want 1 or %d", idx, len(p.Widths), n))
	}

	bindings := make([]Binding, n)
	for i, e := range p.Variables.entries {
		bindings[i] = Binding{Column: e.Column, Label: labels[i], Width: widths[i]}
	}
	return ResolvedPanel{
		Kind:     PanelText,
		Title:    p.Title,
		Footer:   p.Footer,
		GroupBy:  p.GroupBy,
		Bindings: bindings,
	}, issues
}

func resolveSparkline(idx int, p SparklinePanel, cfg Config) (ResolvedPanel, []string) {
	var issues []string
	n := p.Variables.Len()
	if n == 0 {
		issues = append(issues, fmt.Sprintf("panel %d: sparkline panel requires variables", idx))
	}
	labels := resolveLabels(idx, p.Variables, p.Labels, &issues)

	checkParallel := func(field string, m int) bool {
		if m != 0 && m != n {
			issues = append(issues, fmt.Sprintf(
				"panel %d: %s has %d entries, want %d", idx, field, m, n))
			return false
		}
		return m == n
	}
	hasLower := checkParallel("lower", len(p.Lower))
	hasUpper := checkParallel("upper", len(p.Upper))
	checkParallel("colors", len(p.Colors))

	width := p.Width
	if width == 0 {
		width = defaultSparklineWidth
	}

	bindings := make([]Binding, n)
	for i := range p.Variables.entries {
		b := Binding{
			Column: p.Variables.entries[i].Column,
			Label:  labels[i],
			Color:  cfg.seriesColor(p.Colors, i),
		}
		if hasLower {
			b.Lower = p.Lower[i]
		}
		if hasUpper {
			b.Upper = p.Upper[i]
		}
		bindings[i] = b
	}
	rp := ResolvedPanel{
		Kind:               PanelSparkline,
		Title:              p.Title,
		Footer:             p.Footer,
		Bindings:           bindings,
		Reference:          p.Reference,
		ReferenceLineColor: cfg.referenceLineColor(p.ReferenceLineColor),
		Width:              width,
		Height:             cfg.sparklineHeight(p.Height, n),
	}
	if p.XLim != nil {
		lim := *p.XLim
		rp.XLim = &lim
	}
	return rp, issues
}

// resolveLabels applies the labeling rules: a mapping labels each entry by
// its mapped value, a list labels each entry by the column name, and an
// explicit Labels sequence of matching length overrides both.
func resolveLabels(idx int, vars Vars, override []string, issues *[]string) []string {
	labels := make([]string, vars.Len())
	for i, e := range vars.entries {
		if vars.labeled && e.Label != "" {
			labels[i] = e.Label
		} else {
			labels[i] = e.Column
		}
	}
	if len(override) > 0 {
		if len(override) != vars.Len() {
			*issues = append(*issues, fmt.Sprintf(
				"panel %d: labels has %d entries, want %d", idx, len(override), vars.Len()))
		} else {
			copy(labels, override)
		}
	}
	return labels
}

// inferWidth returns the display width of the widest formatted cell in the
// column, or of the label if wider. Widths account for full-width
// characters so aligned rendering stays aligned.
func inferWidth(d *Dataset, column, label string, cfg Config) int {
	max := runewidth.StringWidth(label)
	vals, ok := d.Column(column)
	if !ok {
		return max
	}
	for _, v := range vals {
		if w := runewidth.StringWidth(cfg.format(column, v)); w > max {
			max = w
		}
	}
	return max
}
