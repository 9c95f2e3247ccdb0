package petals

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/sjson"
)

// CallEnvelope is the canonical {name, arguments} form that every recognized
// raw call encoding is rewritten into. Arguments are kept as raw bytes so the
// field order the model emitted survives normalization.
type CallEnvelope struct {
	// ID is assigned by the Normalizer (or caller) to correlate the call with
	// its result; it is not part of the canonical wire shape.
	ID        string          `json:"-"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Canonical renders the envelope as canonical JSON: exactly a "name" string
// followed by an "arguments" object. Empty or absent arguments become {}.
func (e *CallEnvelope) Canonical() []byte {
	out := []byte(`{}`)
	out, _ = sjson.SetBytes(out, "name", e.Name)
	args := bytes.TrimSpace(e.Arguments)
	if len(args) == 0 {
		args = []byte(`{}`)
	}
	out, _ = sjson.SetRawBytes(out, "arguments", args)
	return out
}
