package plugin

import (
	"encoding/json"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/pyast"
)

// marshalEnum renders vals as a JSON array literal for splicing into an
// inline enum schema.
func marshalEnum(vals []any) (string, error) {
	b, err := json.Marshal(vals)
	return string(b), err
}

// lookupParam finds the named parameter on the given action, grounded on
// ParameterPlugin.parameter_value's "find this param by name" step in
// original_source/arcor2/parameter_plugins/base.py.
func lookupParam(project *cache.Project, actionID, parameterID string) (model.ActionParameter, error) {
	action, err := project.Action(actionID)
	if err != nil {
		return model.ActionParameter{}, err
	}
	p, ok := action.Parameter(parameterID)
	if !ok {
		return model.ActionParameter{}, arcerr.New(arcerr.NotFound, actionID, "plugin.parameter", "action %q has no parameter %q", actionID, parameterID)
	}
	return p, nil
}

// literalPlugin backs every parameter type whose value is a bare JSON
// literal with no reference to the rest of the project: integer, double,
// boolean, string, and the two enum variants. Grounded on
// original_source/arcor2/parameter_plugins/{integer,double,boolean,string,integer_enum,string_enum}.py.
type literalPlugin struct {
	typeName  string
	runtime   RuntimeType
	schema    valueSchema
	toNum     bool // render Num with IsInt set (integer, integer_enum)
	countable bool
}

func (p *literalPlugin) TypeName() string         { return p.typeName }
func (p *literalPlugin) Countable() bool          { return p.countable }
func (p *literalPlugin) RuntimeType() RuntimeType { return p.runtime }

func (p *literalPlugin) ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error) {
	param, err := lookupParam(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	return decodeValue(p.schema, param.Value)
}

func (p *literalPlugin) UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool {
	return false
}

func (p *literalPlugin) UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool {
	return false
}

func (p *literalPlugin) EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error) {
	v, err := p.ParameterValue(scene, project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	switch p.runtime {
	case RuntimeBool:
		return pyast.Bool{Value: v.(bool)}, nil
	case RuntimeString:
		return pyast.Str{Value: v.(string)}, nil
	default:
		return pyast.Num{Value: v.(float64), IsInt: p.toNum}, nil
	}
}

// newInteger is the "integer" plugin: a JSON integer, countable, with no
// declared bound.
func newInteger() Plugin {
	return &literalPlugin{
		typeName:  "integer",
		runtime:   RuntimeInt,
		toNum:     true,
		countable: true,
		schema: valueSchema{
			shape: compileSchema("arcor2:integer", `{"type":"integer"}`),
		},
	}
}

// newDouble is the "double" plugin: a JSON number (int or float), countable.
func newDouble() Plugin {
	return &literalPlugin{
		typeName:  "double",
		runtime:   RuntimeFloat,
		countable: true,
		schema: valueSchema{
			shape: compileSchema("arcor2:double", `{"type":"number"}`),
		},
	}
}

// newBoolean is the "boolean" plugin: a JSON bool, the only plugin usable as
// a bare condition value per §4.4 rule 4c.
func newBoolean() Plugin {
	return &literalPlugin{
		typeName:  "boolean",
		runtime:   RuntimeBool,
		countable: true,
		schema: valueSchema{
			shape: compileSchema("arcor2:boolean", `{"type":"boolean"}`),
		},
	}
}

// newString is the "string" plugin: a JSON string, not countable — branching
// on an arbitrary string has no defined semantics in this module.
func newString() Plugin {
	return &literalPlugin{
		typeName:  "string",
		runtime:   RuntimeString,
		countable: false,
		schema: valueSchema{
			shape: compileSchema("arcor2:string", `{"type":"string"}`),
		},
	}
}

// integerEnumPlugin is "integer_enum": an integer restricted to a declared
// set of allowed values, grounded on
// original_source/arcor2/parameter_plugins/integer_enum.py's AllowedValuesType.
type integerEnumPlugin struct {
	literalPlugin
	allowed []int64
}

func newIntegerEnum(allowed []int64) Plugin {
	vals := make([]any, len(allowed))
	for i, v := range allowed {
		vals[i] = v
	}
	enumJSON, _ := marshalEnum(vals)
	return &integerEnumPlugin{
		literalPlugin: literalPlugin{
			typeName:  "integer_enum",
			runtime:   RuntimeInt,
			toNum:     true,
			countable: true,
			schema: valueSchema{
				shape:  compileSchema("arcor2:integer_enum:shape", `{"type":"integer"}`),
				ranged: compileSchema("arcor2:integer_enum:range", `{"type":"integer","enum":`+enumJSON+`}`),
			},
		},
		allowed: allowed,
	}
}

// stringEnumPlugin is "string_enum": a string restricted to a declared set
// of allowed values.
type stringEnumPlugin struct {
	literalPlugin
	allowed []string
}

func newStringEnum(allowed []string) Plugin {
	vals := make([]any, len(allowed))
	for i, v := range allowed {
		vals[i] = v
	}
	enumJSON, _ := marshalEnum(vals)
	return &stringEnumPlugin{
		literalPlugin: literalPlugin{
			typeName:  "string_enum",
			runtime:   RuntimeString,
			countable: true,
			schema: valueSchema{
				shape:  compileSchema("arcor2:string_enum:shape", `{"type":"string"}`),
				ranged: compileSchema("arcor2:string_enum:range", `{"type":"string","enum":`+enumJSON+`}`),
			},
		},
		allowed: allowed,
	}
}
