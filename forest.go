package forest

import (
	"fmt"
)

// Plot owns a dataset, an ordered panel list, and a config as one
// immutable unit. Construction runs the full validation and transform
// pipeline eagerly; a Plot that exists is fully valid and its derived
// artifact is already materialized. Plots are safe for concurrent use.
type Plot struct {
	data     *Dataset
	panels   []Panel
	cfg      Config
	resolved []ResolvedPanel
	trees    []*Tree
	artifact *Artifact
}

// Artifact is the finished, serializable representation handed to
// exporters: resolved panel bindings, the grouping trees, and the per-row
// visualization frames. It is renderer-agnostic; encoding it into any
// particular target syntax is the exporter's responsibility.
type Artifact struct {
	Title    string `json:"title" yaml:"title"`
	Footnote string `json:"footnote" yaml:"footnote"`
	Source   string `json:"source" yaml:"source"`

	Panels []ResolvedPanel `json:"panels" yaml:"panels"`
	Trees  []*Tree         `json:"trees" yaml:"trees"`
	Rows   []RowFrame      `json:"rows" yaml:"rows"`
}

// RowFrame carries one dataset row's display payload: formatted text cells
// in binding order across the text panels, and one visualization config
// per sparkline panel.
type RowFrame struct {
	Index      int               `json:"index" yaml:"index"`
	Cells      []string          `json:"cells" yaml:"cells"`
	Sparklines []RowVisualConfig `json:"sparklines" yaml:"sparklines"`
}

// New validates the inputs and builds the plot. All structural and
// statistical validation runs here, before any tree or payload is
// produced, and each error kind aggregates every defect it finds:
// [*SchemaError] for unresolved columns, [*ConsistencyError] for
// statistical violations, [*ConfigError] for unresolvable declarations,
// and [*HierarchyError] for unusable grouping columns. No partially valid
// plot is ever returned.
func New(data *Dataset, panels []Panel, cfg Config) (*Plot, error) {
	if data == nil {
		return nil, ErrNoData
	}
	if len(panels) == 0 {
		return nil, ErrNoPanels
	}
	owned := make([]Panel, len(panels))
	copy(owned, panels)

	if err := validateSchema(data, owned); err != nil {
		return nil, err
	}
	if err := validateConsistency(data, owned, cfg); err != nil {
		return nil, err
	}
	resolved, err := resolvePanels(data, owned, cfg)
	if err != nil {
		return nil, err
	}
	paths := groupPaths(owned)
	if err := validateGrouping(data, paths); err != nil {
		return nil, err
	}

	trees := make([]*Tree, len(paths))
	for i, path := range paths {
		trees[i] = buildTree(data, path)
	}
	inferXLims(data, resolved)

	p := &Plot{
		data:     data,
		panels:   owned,
		cfg:      cfg,
		resolved: resolved,
		trees:    trees,
	}
	p.artifact = p.buildArtifact()
	return p, nil
}

func (p *Plot) buildArtifact() *Artifact {
	a := &Artifact{
		Title:    p.cfg.Title,
		Footnote: p.cfg.Footnote,
		Source:   p.cfg.Source,
		Panels:   p.resolved,
		Trees:    p.trees,
		Rows:     make([]RowFrame, p.data.NumRows()),
	}
	for row := 0; row < p.data.NumRows(); row++ {
		frame := RowFrame{Index: row}
		for _, rp := range p.resolved {
			switch rp.Kind {
			case PanelText:
				for _, b := range rp.Bindings {
					frame.Cells = append(frame.Cells, p.cfg.format(b.Column, p.data.Value(row, b.Column)))
				}
			case PanelSparkline:
				frame.Sparklines = append(frame.Sparklines, rowConfig(p.data, rp, row))
			}
		}
		a.Rows[row] = frame
	}
	return a
}

// Artifact returns the finished representation. Callers must treat it as
// read-only.
func (p *Plot) Artifact() *Artifact { return p.artifact }

// Data returns the source dataset.
func (p *Plot) Data() *Dataset { return p.data }

// Config returns the styling context the plot was built with.
func (p *Plot) Config() Config { return p.cfg }

// Panels returns every resolved panel in declaration order.
func (p *Plot) Panels() []ResolvedPanel {
	out := make([]ResolvedPanel, len(p.resolved))
	copy(out, p.resolved)
	return out
}

// Bindings returns the resolved binding list of one panel (an index into
// [Plot.Panels]).
func (p *Plot) Bindings(panel int) ([]Binding, error) {
	if panel < 0 || panel >= len(p.resolved) {
		return nil, fmt.Errorf("panel %d out of range [0, %d)", panel, len(p.resolved))
	}
	out := make([]Binding, len(p.resolved[panel].Bindings))
	copy(out, p.resolved[panel].Bindings)
	return out, nil
}

// TextPanels returns the resolved text panels in declaration order.
func (p *Plot) TextPanels() []ResolvedPanel { return p.panelsOfKind(PanelText) }

// SparklinePanels returns the resolved sparkline panels in declaration
// order.
func (p *Plot) SparklinePanels() []ResolvedPanel { return p.panelsOfKind(PanelSparkline) }

func (p *Plot) panelsOfKind(kind PanelKind) []ResolvedPanel {
	var out []ResolvedPanel
	for _, rp := range p.resolved {
		if rp.Kind == kind {
			out = append(out, rp)
		}
	}
	return out
}

// Trees returns one grouping tree per distinct grouping path declared
// across the panels, in first-declaration order. When no panel declares
// grouping there is a single ungrouped tree.
func (p *Plot) Trees() []*Tree {
	out := make([]*Tree, len(p.trees))
	copy(out, p.trees)
	return out
}

// Tree returns the primary grouping tree: the first declared path's tree.
func (p *Plot) Tree() *Tree { return p.trees[0] }

// RowConfigs returns the visualization configs for one row, one per
// sparkline panel in declaration order.
func (p *Plot) RowConfigs(row int) ([]RowVisualConfig, error) {
	if row < 0 || row >= p.data.NumRows() {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, p.data.NumRows())
	}
	frame := p.artifact.Rows[row]
	out := make([]RowVisualConfig, len(frame.Sparklines))
	copy(out, frame.Sparklines)
	return out, nil
}

// GroupConfig synthesizes the visualization config for an aggregated
// group node of the given sparkline panel (an index into [Plot.Panels]),
// overlaying the series of every leaf row beneath the node.
func (p *Plot) GroupConfig(node *Node, panel int) (RowVisualConfig, error) {
	if panel < 0 || panel >= len(p.resolved) {
		return RowVisualConfig{}, fmt.Errorf("panel %d out of range [0, %d)", panel, len(p.resolved))
	}
	rp := p.resolved[panel]
	if rp.Kind != PanelSparkline {
		return RowVisualConfig{}, fmt.Errorf("panel %d: %w", panel, ErrNotSparkline)
	}
	return groupConfig(p.data, rp, node.LeafRows()), nil
}

// UsedColumns returns every column referenced by any panel, deduplicated,
// in first-occurrence order across the panel list.
func (p *Plot) UsedColumns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, ref := range requiredColumns(p.panels) {
		if seen[ref.column] {
			continue
		}
		seen[ref.column] = true
		cols = append(cols, ref.column)
	}
	return cols
}

// Prepared returns the dataset projected to the used columns, in
// first-occurrence order.
func (p *Plot) Prepared() *Dataset {
	d, err := p.data.Select(p.UsedColumns()...)
	if err != nil {
		// Unreachable: every used column was schema-validated.
		panic(err)
	}
	return d
}
