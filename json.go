package forest

import (
	"encoding/json"
	"io"
)

func writeJSON(w io.Writer, p *Plot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p.Artifact())
}
