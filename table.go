package forest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment controls column text alignment in the Table format.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var border = borderChars{
	topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
	horizontal: "─", vertical: "│",
	topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
	cross: "┼",
}

// writeTable renders a display-width-aware console preview of the report:
// group header rows with member counts, formatted text cells, and
// sparkline estimates shown as "value (lower, upper)".
func writeTable(w io.Writer, p *Plot) error {
	header, rows := previewRows(p)
	widths := previewWidths(header, rows)
	aligns := previewAligns(len(widths), rows)
	cfg := p.Config()

	if cfg.Title != "" {
		if err := drawHLine(w, widths, border.topLeft, border.horizontal, border.horizontal, border.topRight); err != nil {
			return err
		}
		inner := tableInnerWidth(widths) - 2
		padded := alignCell(cfg.Title, inner, AlignCenter)
		if _, err := fmt.Fprintf(w, "%s %s %s\n", border.vertical, padded, border.vertical); err != nil {
			return err
		}
		if err := drawHLine(w, widths, border.leftTee, border.horizontal, border.topTee, border.rightTee); err != nil {
			return err
		}
	} else {
		if err := drawHLine(w, widths, border.topLeft, border.horizontal, border.topTee, border.topRight); err != nil {
			return err
		}
	}

	if err := drawRow(w, header, widths, aligns); err != nil {
		return err
	}
	if err := drawHLine(w, widths, border.leftTee, border.horizontal, border.cross, border.rightTee); err != nil {
		return err
	}
	for _, row := range rows {
		if err := drawRow(w, row, widths, aligns); err != nil {
			return err
		}
	}
	if err := drawHLine(w, widths, border.bottomLeft, border.horizontal, border.bottomTee, border.bottomRight); err != nil {
		return err
	}

	for _, caption := range []string{cfg.Footnote, cfg.Source} {
		if caption != "" {
			if _, err := fmt.Fprintln(w, caption); err != nil {
				return err
			}
		}
	}
	return nil
}

// previewRows builds the header and body of the preview. Grouping columns
// become indented header rows rather than table columns; sparkline panels
// collapse to one "value (lower, upper)" column each.
func previewRows(p *Plot) (header []string, rows [][]string) {
	tree := p.Tree()
	inPath := make(map[string]bool, len(tree.Path))
	for _, col := range tree.Path {
		inPath[col] = true
	}

	type cellFn func(row int) string
	var fns []cellFn
	cfg := p.Config()
	data := p.Data()

	for _, rp := range p.Panels() {
		switch rp.Kind {
		case PanelText:
			for _, b := range rp.Bindings {
				if inPath[b.Column] {
					continue // shown as group header rows
				}
				header = append(header, b.Label)
				col := b.Column
				fns = append(fns, func(row int) string {
					return cfg.format(col, data.Value(row, col))
				})
			}
		case PanelSparkline:
			name := rp.Title
			if name == "" && len(rp.Bindings) > 0 {
				name = rp.Bindings[0].Label
			}
			header = append(header, name)
			bindings := rp.Bindings
			fns = append(fns, func(row int) string {
				return sparklineCell(data, cfg, bindings, row)
			})
		}
	}

	tree.Root.Walk(func(n *Node) {
		if n.Level > 0 {
			group := make([]string, len(fns))
			if len(group) > 0 {
				group[0] = strings.Repeat("  ", n.Level-1) + n.Label
			}
			rows = append(rows, group)
		}
		for _, row := range n.Rows {
			cells := make([]string, len(fns))
			for i, fn := range fns {
				cells[i] = fn(row)
			}
			if len(tree.Path) > 0 && len(cells) > 0 {
				cells[0] = strings.Repeat("  ", len(tree.Path)) + cells[0]
			}
			rows = append(rows, cells)
		}
	})
	return header, rows
}

// sparklineCell renders every series of a row as text, "value (lower,
// upper)", multi-series entries joined with " | ".
func sparklineCell(d *Dataset, cfg Config, bindings []Binding, row int) string {
	var parts []string
	for _, b := range bindings {
		v := d.Value(row, b.Column)
		if v.IsNull() {
			continue
		}
		cell := cfg.format(b.Column, v)
		lo, hi := Null(), Null()
		if b.Lower != "" {
			lo = d.Value(row, b.Lower)
		}
		if b.Upper != "" {
			hi = d.Value(row, b.Upper)
		}
		if !lo.IsNull() && !hi.IsNull() {
			cell = fmt.Sprintf("%s (%s, %s)", cell, cfg.format(b.Lower, lo), cfg.format(b.Upper, hi))
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, " | ")
}

func previewWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

// previewAligns right-aligns columns whose every non-empty body cell is
// numeric.
func previewAligns(n int, rows [][]string) []Alignment {
	aligns := make([]Alignment, n)
	for i := range aligns {
		numeric := false
		for _, row := range rows {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
			numeric = true
		}
		if numeric {
			aligns[i] = AlignRight
		}
	}
	return aligns
}

func tableInnerWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w + 2
	}
	if len(widths) > 1 {
		n += len(widths) - 1
	}
	return n
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawRow(w io.Writer, cells []string, widths []int, aligns []Alignment) error {
	var sb strings.Builder
	sb.WriteString(border.vertical)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(alignCell(cell, width, aligns[i]))
		sb.WriteString(" ")
		if i < len(widths)-1 {
			sb.WriteString(border.vertical)
		}
	}
	sb.WriteString(border.vertical)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
