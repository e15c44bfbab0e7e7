// Package input decodes the structured JSON input format: a top-level
// object with "language", "sources", and "settings", where each
// sources entry is either {"content": ...} or {"urls": [...]}.
package input

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

// Source is one entry in the "sources" map. Exactly one of Content or
// URLs is populated, matching the two permitted JSON shapes.
type Source struct {
	Content *string  `json:"content,omitempty"`
	URLs    []string `json:"urls,omitempty"`
}

// StandardJSON is the decoded top-level input object.
type StandardJSON struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings json.RawMessage   `json:"settings,omitempty"`
}

// Decode reads r, strips // and /* */ comments and trailing commas
// (the way a hand-edited compiler config commonly carries them), and
// unmarshals the result.
func Decode(r io.Reader) (*StandardJSON, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading standard-json input: %w", err)
	}

	clean := jsonc.ToJSON(raw)

	var doc StandardJSON
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, fmt.Errorf("decoding standard-json input: %w", err)
	}
	return &doc, nil
}
