// Package forest transforms clinical-trial subgroup statistics into
// renderer-agnostic forest-plot representations.
//
// A forest plot combines textual subgroup columns with inline
// point-estimate/confidence-interval visualizations. This package is the
// transformation engine only: it takes a flat dataset, an ordered list of
// panel declarations, and a display config, and produces a validated
// artifact — canonical column bindings, multi-level grouping trees, and
// per-row visualization configs — that any renderer (interactive table,
// static image, regulatory document) can consume. Drawing and document
// markup are deliberately out of scope.
//
// # Building a plot
//
// The central entry point is [New], which validates eagerly and returns a
// fully materialized, immutable [Plot]:
//
//	data, _ := forest.NewDataset(
//		forest.Strs("subgroup", "Overall", "Age <65", "Age ≥65"),
//		forest.Strs("category", "Overall", "Age", "Age"),
//		forest.Nums("hr", 0.72, 0.68, 0.81),
//		forest.Nums("lo", 0.58, 0.51, 0.62),
//		forest.Nums("hi", 0.89, 0.91, 1.05),
//	)
//	plot, err := forest.New(data, []forest.Panel{
//		forest.TextPanel{Variables: forest.Var("subgroup"), GroupBy: []string{"category"}},
//		forest.SparklinePanel{
//			Variables: forest.Var("hr"),
//			Lower:     []string{"lo"},
//			Upper:     []string{"hi"},
//			Reference: forest.RefValue(1.0),
//		},
//	}, forest.Config{})
//
// # Panels
//
// [Panel] is a sealed tagged variant with two shapes. [TextPanel] binds
// text or numeric columns and may declare a grouping hierarchy;
// [SparklinePanel] binds point-estimate columns with optional parallel
// bound columns, a reference line, axis limits, and colors. Variables
// accept three declaration shapes — [Var], [VarList], and [VarMap] — all
// normalized into one canonical binding list at construction.
//
// # Validation
//
// All validation runs at construction, before any tree or payload is
// built, and each error kind aggregates every defect it finds so one
// iteration fixes them all:
//
//   - [SchemaError] — a referenced column is absent from the dataset
//   - [ConsistencyError] — an estimate outside its own bound interval,
//     or a p-value outside [0, 1]
//   - [ConfigError] — parallel declaration sequences of mismatched length
//   - [HierarchyError] — grouping columns with mixed value types, or one
//     column grouped at conflicting depths across panels
//
// Row-level missing values are never errors: a null estimate omits that
// series, a null bound downgrades the series to a bare point estimate.
//
// # The artifact
//
// [Plot.Artifact] exposes the finished representation: resolved
// [Binding] lists per panel, one grouping [Tree] per distinct group_by
// path (first-occurrence order at every level, never sorted), and per-row
// [RowVisualConfig] frames whose optional fields marshal as explicit
// nulls so template substitution is total. [Plot.GroupConfig] synthesizes
// the payload for a collapsed group row on demand.
//
// # Output formats
//
// [Write] and [Marshal] encode the artifact for external collaborators:
//
//   - [JSON], [YAML] — the full artifact
//   - [JSONL] — one row frame per line in tree display order
//   - [CSV], [TSV] — the flattened display table
//   - [Table] — a display-width-aware console preview
//
// Use [ParseFormat] to convert a CLI flag string into a [Format]. All
// output is deterministic: identical inputs produce identical bytes.
//
// # Declarative definitions
//
// [ParseDefinition] loads a config-plus-panels specification from YAML,
// accepting the same polymorphic variable shapes as the programmatic API.
package forest
