package forest

import (
	"fmt"
	"io"
	"strings"
)

func writeTSV(w io.Writer, p *Plot) error {
	flat := flatten(p)
	if _, err := fmt.Fprintln(w, strings.Join(flat.header, "\t")); err != nil {
		return err
	}
	for _, row := range flat.rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}
