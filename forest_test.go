package forest_test

import (
	"testing"

	"github.com/bjaus/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// efficacyData builds the overall-survival subgroup analysis fixture used
// across the test files.
func efficacyData(t *testing.T) *forest.Dataset {
	t.Helper()
	d, err := forest.NewDataset(
		forest.Strs("subgroup", "Overall", "Age <65", "Age >=65", "Male", "Female"),
		forest.Strs("category", "Overall", "Age", "Age", "Sex", "Sex"),
		forest.Nums("hazard_ratio", 0.72, 0.68, 0.81, 0.69, 0.75),
		forest.Nums("hr_ci_lower", 0.58, 0.51, 0.62, 0.52, 0.57),
		forest.Nums("hr_ci_upper", 0.89, 0.91, 1.05, 0.92, 0.98),
		forest.Nums("p_value", 0.003, 0.012, 0.089, 0.015, 0.042),
		forest.Nums("treatment_events", 45, 24, 21, 23, 22),
		forest.Nums("control_events", 62, 35, 27, 33, 29),
	)
	require.NoError(t, err)
	return d
}

func efficacyPanels() []forest.Panel {
	return []forest.Panel{
		forest.TextPanel{
			Variables: forest.Var("subgroup"),
			GroupBy:   []string{"category"},
			Labels:    []string{"Subgroup"},
			Widths:    []int{180},
		},
		forest.TextPanel{
			Variables: forest.Var("treatment_events"),
			Labels:    []string{"Treatment"},
			Widths:    []int{80},
		},
		forest.TextPanel{
			Variables: forest.Var("control_events"),
			Labels:    []string{"Control"},
			Widths:    []int{80},
		},
		forest.SparklinePanel{
			Variables: forest.Var("hazard_ratio"),
			Lower:     []string{"hr_ci_lower"},
			Upper:     []string{"hr_ci_upper"},
			Title:     "Hazard Ratio (95% CI)",
			Reference: forest.RefValue(1.0),
			XLim:      &forest.Range{Min: 0.4, Max: 1.2},
			Width:     250,
		},
		forest.TextPanel{
			Variables: forest.Var("p_value"),
			Labels:    []string{"P-value"},
			Widths:    []int{80},
		},
	}
}

func TestNewFullPipeline(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{
		Title:  "Overall Survival Subgroup Analysis",
		Colors: []string{"#FF6B35"},
	})
	require.NoError(t, err)

	assert.Len(t, plot.Panels(), 5)
	assert.Len(t, plot.TextPanels(), 4)
	assert.Len(t, plot.SparklinePanels(), 1)

	art := plot.Artifact()
	assert.Equal(t, "Overall Survival Subgroup Analysis", art.Title)
	assert.Len(t, art.Rows, 5)
	require.Len(t, art.Trees, 1)
	assert.Equal(t, []string{"category"}, art.Trees[0].Path)
}

func TestNewNilData(t *testing.T) {
	t.Parallel()
	_, err := forest.New(nil, efficacyPanels(), forest.Config{})
	assert.ErrorIs(t, err, forest.ErrNoData)
}

func TestNewNoPanels(t *testing.T) {
	t.Parallel()
	_, err := forest.New(efficacyData(t), nil, forest.Config{})
	assert.ErrorIs(t, err, forest.ErrNoPanels)
}

func TestBindings(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)

	bindings, err := plot.Bindings(0)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.Equal(t, "subgroup", bindings[0].Column)
	assert.Equal(t, "Subgroup", bindings[0].Label)

	_, err = plot.Bindings(99)
	assert.Error(t, err)
}

func TestUsedColumnsFirstOccurrenceOrder(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"category", "subgroup",
		"treatment_events", "control_events",
		"hazard_ratio", "hr_ci_lower", "hr_ci_upper",
		"p_value",
	}, plot.UsedColumns())
}

func TestPreparedProjectsUsedColumns(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)
	prep := plot.Prepared()
	assert.Equal(t, plot.UsedColumns(), prep.Columns())
	assert.Equal(t, 5, prep.NumRows())
}

func TestDeterminism(t *testing.T) {
	t.Parallel()
	cfg := forest.Config{Title: "Determinism"}
	first, err := forest.New(efficacyData(t), efficacyPanels(), cfg)
	require.NoError(t, err)
	second, err := forest.New(efficacyData(t), efficacyPanels(), cfg)
	require.NoError(t, err)

	for _, f := range forest.Formats() {
		a, err := forest.Marshal(f, first)
		require.NoError(t, err)
		b, err := forest.Marshal(f, second)
		require.NoError(t, err)
		assert.Equal(t, a, b, "format %s not deterministic across builds", f)

		again, err := forest.Marshal(f, first)
		require.NoError(t, err)
		assert.Equal(t, a, again, "format %s not idempotent", f)
	}
}

func TestSharedXLimAcrossPanels(t *testing.T) {
	t.Parallel()
	d, err := forest.NewDataset(
		forest.Nums("est_a", 0.7),
		forest.Nums("lo_a", 0.5),
		forest.Nums("hi_a", 0.9),
		forest.Nums("est_b", 1.8),
		forest.Nums("lo_b", 1.2),
		forest.Nums("hi_b", 2.4),
	)
	require.NoError(t, err)
	plot, err := forest.New(d, []forest.Panel{
		forest.SparklinePanel{Variables: forest.Var("est_a"), Lower: []string{"lo_a"}, Upper: []string{"hi_a"}},
		forest.SparklinePanel{Variables: forest.Var("est_b"), Lower: []string{"lo_b"}, Upper: []string{"hi_b"}},
	}, forest.Config{})
	require.NoError(t, err)

	panels := plot.SparklinePanels()
	require.Len(t, panels, 2)
	require.NotNil(t, panels[0].XLim)
	require.NotNil(t, panels[1].XLim)
	assert.Equal(t, *panels[0].XLim, *panels[1].XLim)
	// Domain spans both panels: [0.5, 2.4] padded by 2% of 1.9.
	assert.InDelta(t, 0.462, panels[0].XLim.Min, 1e-9)
	assert.InDelta(t, 2.438, panels[0].XLim.Max, 1e-9)
}

func TestExplicitXLimKept(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)
	spark := plot.SparklinePanels()[0]
	require.NotNil(t, spark.XLim)
	assert.Equal(t, forest.Range{Min: 0.4, Max: 1.2}, *spark.XLim)
}

func TestGroupConfigOverlaysMembers(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)

	tree := plot.Tree()
	require.Len(t, tree.Root.Children, 3)
	age := tree.Root.Children[1]
	require.Equal(t, "Age (n=2)", age.Label)

	cfg, err := plot.GroupConfig(age, 3)
	require.NoError(t, err)
	require.Len(t, cfg.Series, 2)
	assert.Equal(t, 0.68, cfg.Series[0].Value)
	assert.Equal(t, 0.81, cfg.Series[1].Value)
	require.NotNil(t, cfg.ReferenceValue)
	assert.Equal(t, 1.0, *cfg.ReferenceValue)
}

func TestGroupConfigOnTextPanel(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)
	_, err = plot.GroupConfig(plot.Tree().Root, 0)
	assert.ErrorIs(t, err, forest.ErrNotSparkline)
}
