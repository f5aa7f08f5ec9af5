package forest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Definition is a declarative plot specification: a config and an ordered
// panel list, loadable from YAML. It lets report layouts live beside the
// data they describe instead of in code.
type Definition struct {
	Config Config
	Panels []Panel
}

// Plot builds the plot for a dataset using this definition.
func (def *Definition) Plot(data *Dataset) (*Plot, error) {
	return New(data, def.Panels, def.Config)
}

// ParseDefinition parses a declarative YAML plot definition:
//
//	config:
//	  title: Overall Survival Subgroup Analysis
//	  colors: ["#FF6B35"]
//	panels:
//	  - type: text
//	    variables: subgroup
//	    group_by: category
//	    width: 180
//	  - type: sparkline
//	    variables: hazard_ratio
//	    lower: hr_ci_lower
//	    upper: hr_ci_upper
//	    reference_line: 1.0
//	    xlim: [0.4, 1.2]
//
// Variables accept a scalar, a sequence, or a column-to-label mapping;
// group_by, lower, upper, labels, and width accept a scalar or a
// sequence.
func ParseDefinition(data []byte) (*Definition, error) {
	var doc struct {
		Config Config      `yaml:"config"`
		Panels []yaml.Node `yaml:"panels"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	def := &Definition{Config: doc.Config}
	for i, node := range doc.Panels {
		p, err := decodePanel(&node)
		if err != nil {
			return nil, fmt.Errorf("parse definition: panel %d: %w", i, err)
		}
		def.Panels = append(def.Panels, p)
	}
	return def, nil
}

func decodePanel(node *yaml.Node) (Panel, error) {
	var tag struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case "text":
		var d struct {
			Variables Vars       `yaml:"variables"`
			GroupBy   stringList `yaml:"group_by"`
			Labels    stringList `yaml:"labels"`
			Width     intList    `yaml:"width"`
			Title     string     `yaml:"title"`
			Footer    string     `yaml:"footer"`
		}
		if err := node.Decode(&d); err != nil {
			return nil, err
		}
		return TextPanel{
			Variables: d.Variables,
			GroupBy:   d.GroupBy,
			Labels:    d.Labels,
			Widths:    d.Width,
			Title:     d.Title,
			Footer:    d.Footer,
		}, nil
	case "sparkline":
		var d struct {
			Variables          Vars           `yaml:"variables"`
			Lower              stringList     `yaml:"lower"`
			Upper              stringList     `yaml:"upper"`
			ReferenceLine      *ReferenceLine `yaml:"reference_line"`
			ReferenceLineColor string         `yaml:"reference_line_color"`
			XLim               *Range         `yaml:"xlim"`
			Labels             stringList     `yaml:"labels"`
			Colors             stringList     `yaml:"colors"`
			Width              int            `yaml:"width"`
			Height             int            `yaml:"height"`
			Title              string         `yaml:"title"`
			Footer             string         `yaml:"footer"`
		}
		if err := node.Decode(&d); err != nil {
			return nil, err
		}
		return SparklinePanel{
			Variables:          d.Variables,
			Lower:              d.Lower,
			Upper:              d.Upper,
			Reference:          d.ReferenceLine,
			ReferenceLineColor: d.ReferenceLineColor,
			XLim:               d.XLim,
			Labels:             d.Labels,
			Colors:             d.Colors,
			Width:              d.Width,
			Height:             d.Height,
			Title:              d.Title,
			Footer:             d.Footer,
		}, nil
	case "":
		return nil, fmt.Errorf("panel is missing a type")
	default:
		return nil, fmt.Errorf("unknown panel type %q", tag.Type)
	}
}

// stringList accepts a YAML scalar or sequence of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = stringList{s}
		return nil
	}
	var ss []string
	if err := node.Decode(&ss); err != nil {
		return err
	}
	*l = ss
	return nil
}

// intList accepts a YAML scalar or sequence of integers.
type intList []int

func (l *intList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var n int
		if err := node.Decode(&n); err != nil {
			return err
		}
		*l = intList{n}
		return nil
	}
	var ns []int
	if err := node.Decode(&ns); err != nil {
		return err
	}
	*l = ns
	return nil
}
