package forest

import "fmt"

// Default styling applied when neither panel nor config supplies a value.
const (
	defaultRefLineColor    = "#00000050"
	defaultSparklineWidth  = 200
	defaultSparklineHeight = 40
	multiSparklineHeight   = 45
)

// defaultPalette colors series by position, cycling when a panel declares
// more series than the palette holds.
var defaultPalette = []string{
	"#4A90E2", "#FF6B35", "#2ECC71", "#9B59B6", "#E74C3C", "#F1C40F",
}

// Formatter renders a cell value for display.
type Formatter func(Value) string

// Config is the read-only styling and formatting context shared across
// panels. The zero value is usable; all fields have defaults. Config is
// threaded through the pipeline explicitly, never held in package state,
// so concurrent builds with different styling do not interfere.
type Config struct {
	// Colors is the default series palette, indexed by series position.
	// Positions beyond its length fall back to the built-in palette.
	Colors []string `yaml:"colors"`

	// ReferenceLineColor is the default reference line color, used when
	// a sparkline panel does not set its own. Default "#00000050".
	ReferenceLineColor string `yaml:"reference_line_color"`

	// SparklineHeight overrides the default sparkline height for panels
	// that do not set their own.
	SparklineHeight int `yaml:"sparkline_height"`

	// Formatters maps column names to display-formatting functions.
	// A formatter takes precedence over a Formats pattern.
	Formatters map[string]Formatter `yaml:"-"`

	// Formats maps column names to fmt-style verbs (e.g. "%.3f") applied
	// to numeric cells. Unlike Formatters, patterns survive YAML.
	Formats map[string]string `yaml:"formats"`

	// PValueColumns names columns validated to lie within [0, 1].
	PValueColumns []string `yaml:"p_value_columns"`

	// Report metadata carried through to the artifact for document
	// exporters.
	Title    string `yaml:"title"`
	Footnote string `yaml:"footnote"`
	Source   string `yaml:"source"`
}

// referenceLineColor resolves the effective reference line color for a
// panel: panel override, then config, then the built-in default.
func (c Config) referenceLineColor(panel string) string {
	if panel != "" {
		return panel
	}
	if c.ReferenceLineColor != "" {
		return c.ReferenceLineColor
	}
	return defaultRefLineColor
}

// seriesColor resolves the color for series position i: explicit panel
// colors, then config colors by position, then the default palette cycling
// by position modulo palette size.
func (c Config) seriesColor(panelColors []string, i int) string {
	if len(panelColors) > 0 {
		return panelColors[i%len(panelColors)]
	}
	if i < len(c.Colors) {
		return c.Colors[i]
	}
	return defaultPalette[i%len(defaultPalette)]
}

// format renders a cell for display: per-column Formatter first, then a
// Formats pattern for numeric cells, then the value's own display form.
func (c Config) format(column string, v Value) string {
	if f, ok := c.Formatters[column]; ok && f != nil {
		return f(v)
	}
	if pat, ok := c.Formats[column]; ok && pat != "" {
		if n, isNum := v.Float(); isNum {
			return fmt.Sprintf(pat, n)
		}
	}
	return v.String()
}

// sparklineHeight resolves the effective height for a panel with n series.
func (c Config) sparklineHeight(panel, n int) int {
	if panel > 0 {
		return panel
	}
	if c.SparklineHeight > 0 {
		return c.SparklineHeight
	}
	if n > 1 {
		return multiSparklineHeight
	}
	return defaultSparklineHeight
}
