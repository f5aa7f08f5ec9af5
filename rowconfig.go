package forest

// Series is one point-estimate entry in a row's sparkline: the value with
// optional interval bounds, tagged with its resolved color and label.
// Lower and Upper are nil when no bound column is declared or the bound is
// missing for this row; the series then renders as a point estimate with
// no error bar.
type Series struct {
	Value float64  `json:"value" yaml:"value"`
	Lower *float64 `json:"lower" yaml:"lower"`
	Upper *float64 `json:"upper" yaml:"upper"`
	Color string   `json:"color" yaml:"color"`
	Label string   `json:"label" yaml:"label"`
}

// RowVisualConfig is the renderer-agnostic visualization payload for one
// row (or one synthesized group row) of one sparkline panel. Every key an
// inline-chart template binds against is always present; absent optional
// values marshal as explicit nulls, never omitted keys, so template
// substitution is total.
type RowVisualConfig struct {
	// Series holds every estimate for the row, in binding order. A
	// multi-series panel emits all entries together so a renderer can
	// overlay treatment arms on one sparkline. Rows whose value is
	// missing contribute no entry.
	Series []Series `json:"series" yaml:"series"`

	// ReferenceValue is the resolved reference line position for this
	// row; nil when the panel declares none or the per-row column is
	// null.
	ReferenceValue *float64 `json:"reference_value" yaml:"reference_value"`

	ReferenceLineColor string `json:"reference_line_color" yaml:"reference_line_color"`

	// XLim is the effective axis domain, identical for every row
	// sharing the panel so zoom and scroll stay consistent.
	XLim Range `json:"xlim" yaml:"xlim"`

	Height int `json:"height" yaml:"height"`
	Width  int `json:"width" yaml:"width"`
}

// fallbackXLim is the axis domain used when a panel has no explicit limit
// and no numeric data to infer one from.
var fallbackXLim = Range{Min: 0, Max: 2}

// xlimPadFraction pads each side of an inferred domain by 2% of the
// observed range.
const xlimPadFraction = 0.02

// inferXLims fills the effective axis domain for every sparkline panel
// that did not declare one. All such panels share a single domain spanning
// the data of all of them, so side-by-side sparkline columns stay aligned.
func inferXLims(d *Dataset, resolved []ResolvedPanel) {
	var auto []*ResolvedPanel
	lo, hi, any := 0.0, 0.0, false
	for i := range resolved {
		rp := &resolved[i]
		if rp.Kind != PanelSparkline || rp.XLim != nil {
			continue
		}
		auto = append(auto, rp)
		for _, b := range rp.Bindings {
			for _, col := range []string{b.Column, b.Lower, b.Upper} {
				if col == "" {
					continue
				}
				vals, ok := d.Column(col)
				if !ok {
					continue
				}
				for _, v := range vals {
					f, isNum := v.Float()
					if !isNum {
						continue
					}
					if !any || f < lo {
						lo = f
					}
					if !any || f > hi {
						hi = f
					}
					any = true
				}
			}
		}
	}
	if len(auto) == 0 {
		return
	}
	lim := fallbackXLim
	if any {
		lim = padRange(lo, hi)
	}
	for _, rp := range auto {
		l := lim
		rp.XLim = &l
	}
}

// padRange pads [lo, hi] outward on each side by 2% of the span. A zero
// span falls back to 2% of the magnitude, or 1 when that is also zero, so
// a degenerate domain still has visible extent.
func padRange(lo, hi float64) Range {
	span := hi - lo
	pad := span * xlimPadFraction
	if span == 0 {
		pad = abs(lo) * xlimPadFraction
		if pad == 0 {
			pad = 1
		}
	}
	return Range{Min: lo - pad, Max: hi + pad}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// rowConfig produces the visualization payload for one row of one
// sparkline panel. Missing values degrade, never fail: a null estimate
// omits that series, a null bound omits that error bar.
func rowConfig(d *Dataset, rp ResolvedPanel, row int) RowVisualConfig {
	out := RowVisualConfig{
		Series:             make([]Series, 0, len(rp.Bindings)),
		ReferenceLineColor: rp.ReferenceLineColor,
		Height:             rp.Height,
		Width:              rp.Width,
	}
	if rp.XLim != nil {
		out.XLim = *rp.XLim
	}
	for _, b := range rp.Bindings {
		if s, ok := bindingSeries(d, b, row); ok {
			out.Series = append(out.Series, s)
		}
	}
	out.ReferenceValue = resolveReference(d, rp.Reference, row)
	return out
}

func bindingSeries(d *Dataset, b Binding, row int) (Series, bool) {
	v, ok := d.Value(row, b.Column).Float()
	if !ok {
		return Series{}, false
	}
	s := Series{Value: v, Color: b.Color, Label: b.Label}
	if b.Lower != "" {
		if lo, ok := d.Value(row, b.Lower).Float(); ok {
			s.Lower = &lo
		}
	}
	if b.Upper != "" {
		if hi, ok := d.Value(row, b.Upper).Float(); ok {
			s.Upper = &hi
		}
	}
	return s, true
}

// resolveReference resolves the reference line for one row: a literal is
// used unchanged for every row, a column is read per row, absent stays
// nil.
func resolveReference(d *Dataset, ref *ReferenceLine, row int) *float64 {
	if v, ok := ref.Value(); ok {
		return &v
	}
	if col, ok := ref.Column(); ok {
		if v, isNum := d.Value(row, col).Float(); isNum {
			return &v
		}
	}
	return nil
}

// groupConfig synthesizes the payload for an aggregated group node by
// overlaying every member row's series, in display order. The reference
// line resolves when it is a literal or when every member row agrees on
// one value; otherwise it stays null.
func groupConfig(d *Dataset, rp ResolvedPanel, rows []int) RowVisualConfig {
	out := RowVisualConfig{
		Series:             make([]Series, 0, len(rows)*len(rp.Bindings)),
		ReferenceLineColor: rp.ReferenceLineColor,
		Height:             rp.Height,
		Width:              rp.Width,
	}
	if rp.XLim != nil {
		out.XLim = *rp.XLim
	}
	for _, row := range rows {
		for _, b := range rp.Bindings {
			if s, ok := bindingSeries(d, b, row); ok {
				out.Series = append(out.Series, s)
			}
		}
	}
	out.ReferenceValue = groupReference(d, rp.Reference, rows)
	return out
}

func groupReference(d *Dataset, ref *ReferenceLine, rows []int) *float64 {
	if v, ok := ref.Value(); ok {
		return &v
	}
	col, ok := ref.Column()
	if !ok {
		return nil
	}
	var agreed *float64
	for _, row := range rows {
		v, isNum := d.Value(row, col).Float()
		if !isNum {
			return nil
		}
		if agreed == nil {
			agreed = &v
		} else if *agreed != v {
			return nil
		}
	}
	return agreed
}
