package remap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileRule mirrors one entry of a --remap-file YAML document.
type fileRule struct {
	Context string `yaml:"context"`
	Prefix  string `yaml:"prefix"`
	Target  string `yaml:"target"`
}

// LoadFile appends rules from a YAML list of {context, prefix, target}
// entries to e, continuing ordinal numbering from whatever the engine
// already holds. CLI-supplied rules should be added after calling this
// so they win ties via the higher ordinal (last-declared wins).
func (e *Engine) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading remap file %q: %w", path, err)
	}

	var entries []fileRule
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing remap file %q: %w", path, err)
	}

	for _, fr := range entries {
		if fr.Prefix == "" {
			return &InvalidRemappingError{Raw: fmt.Sprintf("%+v", fr), Reason: "empty prefix"}
		}
		target := fr.Target
		if target == "" {
			target = fr.Prefix
		}
		e.Add(Rule{Context: fr.Context, Prefix: fr.Prefix, Target: target, Ordinal: len(e.rules)})
	}
	return nil
}
