package petals

import (
	"bytes"
	"encoding/json"

	invopop "github.com/invopop/jsonschema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ParametersFor generates the JSON Schema map for argument struct T, inlined
// (no $ref or $defs) so it can be embedded directly in a FunctionDefinition.
// Field descriptions and enums come from the jsonschema struct tags on the
// TypedCall variants. Schema generation only fails on unsupported Go types,
// which is a programming error here, so failures panic at startup rather than
// surfacing an error at every Descriptor literal.
func ParametersFor[T any]() map[string]any {
	r := invopop.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(new(T))
	data, err := json.Marshal(schema)
	if err != nil {
		panic("petals: reflecting argument schema: " + err.Error())
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic("petals: reflecting argument schema: " + err.Error())
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out
}

// compileParameters compiles a descriptor's Parameters map into a validator.
// Used by Registry at Register time so validation cost is paid once per tool.
func compileParameters(params map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("arguments.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("arguments.json")
}

// validateArguments runs raw argument bytes through a compiled schema,
// reporting failures as DecodeError so callers surface them uniformly with
// decode failures. A nil schema validates everything.
func validateArguments(id ToolID, schema *jsonschema.Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage(`{}`)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &DecodeError{Tool: id, Reason: "arguments are not valid JSON", Err: err}
	}
	if err := schema.Validate(v); err != nil {
		return &DecodeError{Tool: id, Reason: err.Error(), Err: err}
	}
	return nil
}
