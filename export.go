package forest

import (
	"bytes"
	"fmt"
	"io"
)

// Format represents an output encoding of a plot's artifact.
type Format string

const (
	JSON  Format = "json"  // full artifact, explicit nulls
	JSONL Format = "jsonl" // one row frame per line, tree order
	YAML  Format = "yaml"  // full artifact
	CSV   Format = "csv"   // flattened display table
	TSV   Format = "tsv"   // flattened display table, tab-separated
	Table Format = "table" // console preview
)

var formats = []Format{JSON, JSONL, YAML, CSV, TSV, Table}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format string.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Write encodes the plot's artifact in the given format and writes it to
// w. Output is deterministic: identical plots produce identical bytes.
func Write(w io.Writer, f Format, p *Plot) error {
	switch f {
	case JSON:
		return writeJSON(w, p)
	case JSONL:
		return writeJSONL(w, p)
	case YAML:
		return writeYAML(w, p)
	case CSV:
		return writeCSV(w, p)
	case TSV:
		return writeTSV(w, p)
	case Table:
		return writeTable(w, p)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Marshal encodes the plot's artifact and returns the bytes.
func Marshal(f Format, p *Plot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
