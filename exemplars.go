package petals

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// Exemplars maps each tool id to its ordered example trigger phrases. It is
// configuration data, read-only to the core: load it once per process and
// hand it to NewEvaluator. Keys outside the ToolID enumeration are carried
// but inert — nothing iterates them.
type Exemplars map[ToolID][]string

//go:embed exemplars.yaml
var defaultExemplarsYAML []byte

var (
	defaultExemplarsOnce sync.Once
	defaultExemplars     Exemplars
)

// DefaultExemplars returns the built-in exemplar set shipped with the
// library. The embedded file is fixed at compile time, so a parse failure is
// a build defect and panics.
func DefaultExemplars() Exemplars {
	defaultExemplarsOnce.Do(func() {
		var err error
		defaultExemplars, err = LoadExemplars(bytes.NewReader(defaultExemplarsYAML))
		if err != nil {
			panic("petals: embedded exemplars.yaml is invalid: " + err.Error())
		}
	})
	return defaultExemplars
}

// LoadExemplars parses a YAML exemplar configuration: a mapping from tool id
// to a list of phrases.
func LoadExemplars(r io.Reader) (Exemplars, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing exemplar config: %w", err)
	}
	out := make(Exemplars, len(raw))
	for id, phrases := range raw {
		out[ToolID(id)] = phrases
	}
	return out, nil
}
