package petals

import "strings"

// Descriptor is the static metadata for a tool, independent of its executor:
// identity, display strings, the JSON Schema of its argument object, trigger
// keywords for discovery, a domain, and the required permission level.
type Descriptor struct {
	ID              ToolID
	DisplayName     string
	Description     string
	Parameters      map[string]any // JSON Schema for the argument object
	TriggerKeywords []string
	Domain          string
	Permission      Permission
}

// matchesKeyword reports whether kw is a case-insensitive substring of any
// trigger keyword. Empty kw matches nothing; Registry.Query treats an empty
// filter as absent before calling this.
func (d Descriptor) matchesKeyword(kw string) bool {
	kw = strings.ToLower(kw)
	if kw == "" {
		return false
	}
	for _, k := range d.TriggerKeywords {
		if strings.Contains(strings.ToLower(k), kw) {
			return true
		}
	}
	return false
}

// FunctionDefinition is the available-function metadata shape handed to a
// model backend. The remote API and the local model consume structurally
// identical definitions; any field-naming quirks of a particular backend are
// adapted at that backend's boundary, not here.
type FunctionDefinition struct {
	Type     string       `json:"type"`
	Function FunctionSpec `json:"function"`
}

// FunctionSpec is the inner function object of a FunctionDefinition.
type FunctionSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// FunctionDefinition exports the descriptor in the backend metadata shape.
func (d Descriptor) FunctionDefinition() FunctionDefinition {
	params := d.Parameters
	if params == nil {
		params = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return FunctionDefinition{
		Type: "function",
		Function: FunctionSpec{
			Name:        string(d.ID),
			Description: d.Description,
			Parameters:  params,
		},
	}
}
