package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/robofit/arcor2-core/arcerr"
)

// compileSchema compiles an inline JSON Schema document. Panics on an
// invalid schema: schemas are compile-time constants declared by the
// built-in plugins, never user input.
func compileSchema(url, schemaJSON string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader([]byte(schemaJSON))); err != nil {
		panic(fmt.Sprintf("plugin: invalid schema %s: %v", url, err))
	}
	s, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("plugin: invalid schema %s: %v", url, err))
	}
	return s
}

// valueSchema is a literal plugin's JSON-Schema-backed shape check, split
// into a bare type check (shape) and, for the enum plugins, a stricter
// schema that declares the allowed values with `enum` (ranged). No builtin
// declares a numeric minimum/maximum. Keeping these as two separate compiled
// schemas lets decodeValue tell a pure type mismatch (WrongValueShape) apart
// from a value of the right type but outside the allowed set
// (ValueOutOfRange).
type valueSchema struct {
	shape  *jsonschema.Schema
	ranged *jsonschema.Schema // nil if the plugin declares no bound
}

// decodeValue decodes raw as JSON, validates it against s.shape, and — if
// s.ranged is set — validates it again for the documented bound.
func decodeValue(s valueSchema, raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, arcerr.New(arcerr.WrongValueShape, "", "plugin.value", "invalid JSON value %q: %v", raw, err)
	}
	if err := s.shape.Validate(v); err != nil {
		return nil, arcerr.New(arcerr.WrongValueShape, "", "plugin.value", "value %q does not satisfy expected shape: %v", raw, err)
	}
	if s.ranged != nil {
		if err := s.ranged.Validate(v); err != nil {
			return nil, arcerr.New(arcerr.ValueOutOfRange, "", "plugin.value", "value %v is out of the documented range: %v", v, err)
		}
	}
	return v, nil
}
