package forest_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bjaus/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for _, f := range forest.Formats() {
		got, err := forest.ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := forest.ParseFormat("xml")
	assert.ErrorIs(t, err, forest.ErrUnsupportedFormat)
}

func TestWriteUnsupportedFormat(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = forest.Write(&buf, forest.Format("xml"), plot)
	assert.ErrorIs(t, err, forest.ErrUnsupportedFormat)
}

func TestJSONExplicitNulls(t *testing.T) {
	t.Parallel()
	d, err := forest.NewDataset(forest.Nums("est", 0.5))
	require.NoError(t, err)
	plot, err := forest.New(d, []forest.Panel{
		forest.SparklinePanel{Variables: forest.Var("est")},
	}, forest.Config{})
	require.NoError(t, err)

	out, err := forest.Marshal(forest.JSON, plot)
	require.NoError(t, err)
	// No bounds and no reference line: nulls are written out, not omitted.
	assert.Contains(t, string(out), `"lower": null`)
	assert.Contains(t, string(out), `"upper": null`)
	assert.Contains(t, string(out), `"reference_value": null`)
	assert.True(t, json.Valid(out))
}

func TestJSONLOneFramePerRow(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)

	out, err := forest.Marshal(forest.JSONL, plot)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, efficacyData(t).NumRows())
	for i, line := range lines {
		var frame forest.RowFrame
		require.NoError(t, json.Unmarshal([]byte(line), &frame), "line %d", i)
	}
}

func TestJSONLTreeOrder(t *testing.T) {
	t.Parallel()
	// Rows interleave two groups: display order regroups them.
	d, err := forest.NewDataset(
		forest.Strs("grp", "B", "A", "B"),
		forest.Strs("name", "one", "two", "three"),
	)
	require.NoError(t, err)
	plot, err := forest.New(d, []forest.Panel{
		forest.TextPanel{Variables: forest.Var("name"), GroupBy: []string{"grp"}},
	}, forest.Config{})
	require.NoError(t, err)

	out, err := forest.Marshal(forest.JSONL, plot)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 3)

	var indices []int
	for _, line := range lines {
		var frame forest.RowFrame
		require.NoError(t, json.Unmarshal([]byte(line), &frame))
		indices = append(indices, frame.Index)
	}
	assert.Equal(t, []int{0, 2, 1}, indices)
}

func TestCSVHeaderAndRows(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)

	out, err := forest.Marshal(forest.CSV, plot)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	header := records[0]
	assert.Contains(t, header, "Category")
	assert.Contains(t, header, "Subgroup")
	assert.Contains(t, header, "hazard_ratio")
	assert.Contains(t, header, "hazard_ratio lower")
	assert.Contains(t, header, "hazard_ratio upper")
	assert.Len(t, records, 1+efficacyData(t).NumRows())
}

func TestTSVUsesTabs(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{})
	require.NoError(t, err)

	out, err := forest.Marshal(forest.TSV, plot)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, "\t")
	}
}

func TestYAMLRoundTripsArtifactShape(t *testing.T) {
	t.Parallel()
	plot, err := forest.New(efficacyData(t), efficacyPanels(), forest.Config{Title: "Subgroup Analysis"})
	require.NoError(t, err)

	out, err := forest.Marshal(forest.YAML, plot)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "title: Subgroup Analysis")
	assert.Contains(t, s, "panels:")
	assert.Contains(t, s, "rows:")
}

func TestTablePreview(t *testing.T) {
	t.Parallel()
	cfg := forest.Config{
		Title:    "Overall Survival",
		Footnote: "ITT population",
	}
	plot, err := forest.New(efficacyData(t), efficacyPanels(), cfg)
	require.NoError(t, err)

	out, err := forest.Marshal(forest.Table, plot)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "Overall Survival")
	assert.Contains(t, s, "ITT population")
	assert.Contains(t, s, "Age (n=2)")
	assert.Contains(t, s, "╭")
	assert.Contains(t, s, "╯")
}
