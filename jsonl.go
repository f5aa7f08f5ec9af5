package forest

import (
	"encoding/json"
	"io"
)

// writeJSONL streams one row frame per line, in the display order of the
// primary grouping tree. This is the shape an interactive-table renderer
// consumes row by row.
func writeJSONL(w io.Writer, p *Plot) error {
	enc := json.NewEncoder(w)
	for _, row := range p.Tree().Root.LeafRows() {
		if err := enc.Encode(p.Artifact().Rows[row]); err != nil {
			return err
		}
	}
	return nil
}
