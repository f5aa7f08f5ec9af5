package forest

import (
	"encoding/csv"
	"io"
	"strings"
	"unicode"
)

func writeCSV(w io.Writer, p *Plot) error {
	flat := flatten(p)
	cw := csv.NewWriter(w)
	if err := cw.Write(flat.header); err != nil {
		return err
	}
	for _, row := range flat.rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// flatTable is the artifact flattened to one display table: grouping
// columns first, then every panel binding in declaration order, with rows
// in the primary tree's display order.
type flatTable struct {
	header  []string
	columns []string // dataset column per header entry
	rows    [][]string
}

func flatten(p *Plot) flatTable {
	var ft flatTable

	bound := make(map[string]bool)
	for _, rp := range p.TextPanels() {
		for _, b := range rp.Bindings {
			bound[b.Column] = true
		}
	}
	tree := p.Tree()
	for _, col := range tree.Path {
		if bound[col] {
			continue
		}
		ft.header = append(ft.header, titleCase(col))
		ft.columns = append(ft.columns, col)
	}

	for _, rp := range p.Panels() {
		for _, b := range rp.Bindings {
			ft.header = append(ft.header, b.Label)
			ft.columns = append(ft.columns, b.Column)
			if rp.Kind == PanelSparkline {
				if b.Lower != "" {
					ft.header = append(ft.header, b.Label+" lower")
					ft.columns = append(ft.columns, b.Lower)
				}
				if b.Upper != "" {
					ft.header = append(ft.header, b.Label+" upper")
					ft.columns = append(ft.columns, b.Upper)
				}
			}
		}
	}

	cfg := p.Config()
	for _, row := range tree.Root.LeafRows() {
		cells := make([]string, len(ft.columns))
		for i, col := range ft.columns {
			cells[i] = cfg.format(col, p.Data().Value(row, col))
		}
		ft.rows = append(ft.rows, cells)
	}
	return ft
}

// titleCase renders a snake_case column name as a display header:
// "study_arm" becomes "Study Arm".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
