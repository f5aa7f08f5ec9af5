package forest_test

import (
	"testing"

	"github.com/bjaus/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleTextPlot(t *testing.T, p forest.Panel, cfg forest.Config) *forest.Plot {
	t.Helper()
	plot, err := forest.New(efficacyData(t), []forest.Panel{p}, cfg)
	require.NoError(t, err)
	return plot
}

func TestResolveSingleVariable(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.TextPanel{Variables: forest.Var("subgroup")}, forest.Config{})
	bindings := plot.Panels()[0].Bindings
	require.Len(t, bindings, 1)
	assert.Equal(t, "subgroup", bindings[0].Column)
	assert.Equal(t, "subgroup", bindings[0].Label)
}

func TestResolveVariableList(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.TextPanel{
		Variables: forest.VarList("treatment_events", "control_events"),
	}, forest.Config{})
	bindings := plot.Panels()[0].Bindings
	require.Len(t, bindings, 2)
	assert.Equal(t, "treatment_events", bindings[0].Label)
	assert.Equal(t, "control_events", bindings[1].Label)
}

func TestResolveVariableMapKeepsOrderAndLabels(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.TextPanel{
		Variables: forest.VarMap(
			forest.VarLabel{Column: "control_events", Label: "Control"},
			forest.VarLabel{Column: "treatment_events", Label: "Treatment"},
		),
	}, forest.Config{})
	bindings := plot.Panels()[0].Bindings
	require.Len(t, bindings, 2)
	assert.Equal(t, "control_events", bindings[0].Column)
	assert.Equal(t, "Control", bindings[0].Label)
	assert.Equal(t, "treatment_events", bindings[1].Column)
	assert.Equal(t, "Treatment", bindings[1].Label)
}

func TestResolveLabelsOverride(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.TextPanel{
		Variables: forest.VarList("treatment_events", "control_events"),
		Labels:    []string{"Trt", "Ctl"},
	}, forest.Config{})
	bindings := plot.Panels()[0].Bindings
	assert.Equal(t, "Trt", bindings[0].Label)
	assert.Equal(t, "Ctl", bindings[1].Label)
}

func TestResolveWidthBroadcast(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.TextPanel{
		Variables: forest.VarList("treatment_events", "control_events"),
		Widths:    []int{80},
	}, forest.Config{})
	bindings := plot.Panels()[0].Bindings
	assert.Equal(t, 80, bindings[0].Width)
	assert.Equal(t, 80, bindings[1].Width)
}

func TestResolveWidthInferredFromData(t *testing.T) {
	t.Parallel()
	d, err := forest.NewDataset(
		forest.Strs("arm", "Treatment", "Control"),
	)
	require.NoError(t, err)
	plot, err := forest.New(d, []forest.Panel{
		forest.TextPanel{Variables: forest.Var("arm"), Labels: []string{"Arm"}},
	}, forest.Config{})
	require.NoError(t, err)
	// Widest formatted cell is "Treatment" (9 columns).
	assert.Equal(t, 9, plot.Panels()[0].Bindings[0].Width)
}

func TestResolvePanelColors(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.SparklinePanel{
		Variables: forest.VarList("hazard_ratio", "p_value"),
		Colors:    []string{"#FF6B35", "#4A90E2"},
	}, forest.Config{})
	bindings := plot.Panels()[0].Bindings
	assert.Equal(t, "#FF6B35", bindings[0].Color)
	assert.Equal(t, "#4A90E2", bindings[1].Color)
}

func TestResolveConfigColorsThenDefaultPalette(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.SparklinePanel{
		Variables: forest.VarList("hazard_ratio", "p_value"),
	}, forest.Config{Colors: []string{"#111111"}})
	bindings := plot.Panels()[0].Bindings
	assert.Equal(t, "#111111", bindings[0].Color)
	assert.Equal(t, "#FF6B35", bindings[1].Color) // default palette, position 1
}

func TestResolveReferenceLineColorFallback(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.SparklinePanel{
		Variables: forest.Var("hazard_ratio"),
	}, forest.Config{})
	assert.Equal(t, "#00000050", plot.Panels()[0].ReferenceLineColor)

	plot = singleTextPlot(t, forest.SparklinePanel{
		Variables:          forest.Var("hazard_ratio"),
		ReferenceLineColor: "#ABCDEF",
	}, forest.Config{ReferenceLineColor: "#123456"})
	assert.Equal(t, "#ABCDEF", plot.Panels()[0].ReferenceLineColor)
}

func TestResolveSparklineDimensions(t *testing.T) {
	t.Parallel()
	plot := singleTextPlot(t, forest.SparklinePanel{
		Variables: forest.Var("hazard_ratio"),
	}, forest.Config{})
	rp := plot.Panels()[0]
	assert.Equal(t, 200, rp.Width)
	assert.Equal(t, 40, rp.Height)

	plot = singleTextPlot(t, forest.SparklinePanel{
		Variables: forest.VarList("hazard_ratio", "p_value"),
	}, forest.Config{})
	assert.Equal(t, 45, plot.Panels()[0].Height)
}

func TestResolveMismatchedParallelSequences(t *testing.T) {
	t.Parallel()
	_, err := forest.New(efficacyData(t), []forest.Panel{
		forest.SparklinePanel{
			Variables: forest.VarList("hazard_ratio", "p_value"),
			Lower:     []string{"hr_ci_lower"},
			Upper:     []string{"hr_ci_upper"},
			Colors:    []string{"#111111", "#222222", "#333333"},
		},
	}, forest.Config{})

	var cfgErr *forest.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Issues, 3) // lower, upper, colors
}

func TestResolveSparklineWithoutVariables(t *testing.T) {
	t.Parallel()
	_, err := forest.New(efficacyData(t), []forest.Panel{
		forest.SparklinePanel{},
	}, forest.Config{})

	var cfgErr *forest.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Issues[0], "requires variables")
}
