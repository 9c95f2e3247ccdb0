package petals

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Default delimiters for the two wrapped call encodings. Both are tunable per
// Normalizer because local model backends disagree on the exact markers.
const (
	DefaultSentinelBegin = "<<TOOL_CALL>>"
	DefaultSentinelEnd   = "<<END_TOOL_CALL>>"
	DefaultTagOpen       = "<tool_call>"
	DefaultTagClose      = "</tool_call>"
)

// Normalizer turns raw model output into a CallEnvelope, a pass-through, or a
// MalformedCallError. Model backends emit call syntax differently and
// inconsistently, so parsing is deliberately tolerant: it probes for a tool
// name under several keys ("name", "function", nested function objects) and
// for arguments under "arguments" or "parameters", including the stringified
// argument encoding some backends produce.
type Normalizer struct {
	sentinelBegin string
	sentinelEnd   string
	tagOpen       string
	tagClose      string
	newID         func() string
}

// NewNormalizer creates a Normalizer with the default delimiters. Each
// produced envelope gets a fresh UUID for result correlation.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		sentinelBegin: DefaultSentinelBegin,
		sentinelEnd:   DefaultSentinelEnd,
		tagOpen:       DefaultTagOpen,
		tagClose:      DefaultTagClose,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize inspects raw model output. It returns (nil, nil) when no call is
// detected (the text is ordinary content and should be shown unchanged), a
// canonical envelope when one of the recognized encodings matches, or a
// MalformedCallError when a wrapper was detected but its payload is not a
// valid call object.
//
// Encodings are tried in order; first match wins:
//  1. sentinel-delimited JSON
//  2. tag-delimited JSON
//  3. bare JSON: trimmed text starting with '{' that parses as an object
//     carrying a tool name (anything else is ordinary content, not an error)
func (n *Normalizer) Normalize(raw string) (*CallEnvelope, error) {
	if inner, ok := cutWrapped(raw, n.sentinelBegin, n.sentinelEnd); ok {
		env, err := n.parsePayload(inner)
		if err != nil {
			return nil, &MalformedCallError{Wrapper: "sentinel", Err: err}
		}
		return env, nil
	}
	if inner, ok := cutWrapped(raw, n.tagOpen, n.tagClose); ok {
		env, err := n.parsePayload(inner)
		if err != nil {
			return nil, &MalformedCallError{Wrapper: "tag", Err: err}
		}
		return env, nil
	}
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		env, err := n.parsePayload(trimmed)
		if err != nil {
			// Bare JSON only counts as a call when it actually is one.
			return nil, nil
		}
		return env, nil
	}
	return nil, nil
}

// cutWrapped extracts the text between begin and end. A begin marker with no
// matching end still counts as detected: the (truncated) remainder is
// returned so the caller reports MalformedCall instead of passing the
// half-emitted call through as content.
func cutWrapped(raw, begin, end string) (string, bool) {
	start := strings.Index(raw, begin)
	if start < 0 {
		return "", false
	}
	rest := raw[start+len(begin):]
	if stop := strings.Index(rest, end); stop >= 0 {
		rest = rest[:stop]
	}
	return strings.TrimSpace(rest), true
}

// parsePayload reads one call object and reconciles its field-name variants
// into the canonical envelope.
func (n *Normalizer) parsePayload(payload string) (*CallEnvelope, error) {
	if !gjson.Valid(payload) {
		return nil, errors.New("payload is not valid JSON")
	}
	root := gjson.Parse(payload)
	if !root.IsObject() {
		return nil, errors.New("payload is not a JSON object")
	}

	name := callName(root)
	if name == "" {
		return nil, errors.New("payload carries no tool name")
	}

	return &CallEnvelope{
		ID:        n.newID(),
		Name:      name,
		Arguments: callArguments(root),
	}, nil
}

// callName probes the known name spellings: a top-level "name", a top-level
// "function" string, or an OpenAI-style nested function object.
func callName(root gjson.Result) string {
	if v := root.Get("name"); v.Type == gjson.String && v.Str != "" {
		return v.Str
	}
	fn := root.Get("function")
	switch {
	case fn.Type == gjson.String && fn.Str != "":
		return fn.Str
	case fn.IsObject():
		if v := fn.Get("name"); v.Type == gjson.String {
			return v.Str
		}
	}
	return ""
}

// callArguments reconciles "arguments"/"parameters" (top-level or nested
// under "function") into one raw argument payload. A string value that itself
// holds JSON is unwrapped; absent arguments become {}. Degenerate non-object
// values are passed through for the decoder's best-effort handling.
func callArguments(root gjson.Result) json.RawMessage {
	candidates := []string{"arguments", "parameters", "function.arguments", "function.parameters"}
	for _, path := range candidates {
		v := root.Get(path)
		if !v.Exists() {
			continue
		}
		if v.Type == gjson.String {
			if inner := strings.TrimSpace(v.Str); gjson.Valid(inner) && strings.HasPrefix(inner, "{") {
				return json.RawMessage(inner)
			}
			return json.RawMessage(v.Raw)
		}
		return json.RawMessage(v.Raw)
	}
	return json.RawMessage(`{}`)
}
