package forest

import (
	"fmt"
	"strings"
)

// Node is one node of a grouping tree. Depth d groups rows by the distinct
// value of grouping column d within each depth d-1 group. The root has
// level 0 and a null key. Leaf rows attach to the deepest applicable node
// as row indices into the source dataset.
//
// Children preserve first-occurrence order of each group value within its
// parent. They are never sorted: the source table's row order encodes the
// intended presentation order.
type Node struct {
	Level int `json:"level" yaml:"level"`

	// Key is the group value at this level; null at the root.
	Key Value `json:"key" yaml:"key"`

	// Label is the collapsed-view header, "<key> (n=<count>)"; empty at
	// the root.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Count is the number of leaf rows beneath this node.
	Count int `json:"count" yaml:"count"`

	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`

	// Rows holds leaf row indices. Only the deepest nodes carry rows;
	// for an ungrouped tree that is the root itself.
	Rows []int `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Walk visits the node and all descendants in display order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// LeafRows returns the row indices beneath the node in display order.
func (n *Node) LeafRows() []int {
	var rows []int
	n.Walk(func(m *Node) {
		rows = append(rows, m.Rows...)
	})
	return rows
}

// Tree is the grouping tree for one distinct grouping path. Panels that
// declare no grouping share the empty-path tree, whose root holds all rows
// directly, so grouped and ungrouped panels render from the same
// structure.
type Tree struct {
	Path []string `json:"path" yaml:"path"`
	Root *Node    `json:"root" yaml:"root"`
}

// Depth returns the number of grouping levels: len(path), or 1 for the
// ungrouped tree (root plus direct leaves).
func (t *Tree) Depth() int {
	if len(t.Path) == 0 {
		return 1
	}
	return len(t.Path)
}

// buildTree groups rows into a tree along the given path. Construction is
// a single pass over the rows with a hash lookup per level, keeping it
// near-linear in row count. An empty dataset yields a root with no
// children.
func buildTree(d *Dataset, path []string) *Tree {
	root := &Node{}
	children := map[*Node]map[Value]*Node{root: {}}

	for row := 0; row < d.NumRows(); row++ {
		node := root
		node.Count++
		for level, col := range path {
			key := d.Value(row, col)
			child, ok := children[node][key]
			if !ok {
				child = &Node{Level: level + 1, Key: key}
				node.Children = append(node.Children, child)
				children[node][key] = child
				children[child] = map[Value]*Node{}
			}
			child.Count++
			node = child
		}
		node.Rows = append(node.Rows, row)
	}

	root.Walk(func(n *Node) {
		if n.Level > 0 {
			n.Label = fmt.Sprintf("%s (n=%d)", n.Key.String(), n.Count)
		}
	})
	return &Tree{Path: path, Root: root}
}

// groupPaths returns the distinct grouping paths declared across the
// panels, in first-declaration order. When no panel declares grouping the
// single empty path is returned, so there is always at least one tree.
func groupPaths(panels []Panel) [][]string {
	var paths [][]string
	seen := make(map[string]bool)
	for _, p := range panels {
		tp, ok := p.(TextPanel)
		if !ok || len(tp.GroupBy) == 0 {
			continue
		}
		sig := strings.Join(tp.GroupBy, "\x00")
		if seen[sig] {
			continue
		}
		seen[sig] = true
		paths = append(paths, tp.GroupBy)
	}
	if len(paths) == 0 {
		paths = [][]string{{}}
	}
	return paths
}
