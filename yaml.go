package forest

import (
	"io"

	"gopkg.in/yaml.v3"
)

func writeYAML(w io.Writer, p *Plot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p.Artifact()); err != nil {
		return err
	}
	return enc.Close()
}
