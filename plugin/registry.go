// Package plugin declares the parameter-type plugin contract and registers
// the built-in set. A plugin is a pure, stateless value codec for one
// action-parameter type: it extracts the parameter's semantic value and
// renders it as a pyast expression for PyEmit.
//
// Grounded on original_source/arcor2/parameter_plugins/{base,pose,integer_enum}.py;
// registration is explicit: callers construct a Registry and register into
// it (see RegisterBuiltins); the package installs no plugins from init().
package plugin

import (
	"slices"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/pyast"
)

// RuntimeType names the decoded Go type a plugin value has, closely
// following the source's EXACT_TYPE check in ParameterPlugin.parameter_value.
type RuntimeType string

const (
	RuntimeInt    RuntimeType = "int"
	RuntimeFloat  RuntimeType = "float"
	RuntimeBool   RuntimeType = "bool"
	RuntimeString RuntimeType = "string"
	RuntimeObject RuntimeType = "object"
)

// Plugin is a value codec for one action-parameter type.
type Plugin interface {
	// TypeName is the type tag used in ActionParameter.Type, e.g. "integer".
	TypeName() string
	// Countable reports whether values of this type can participate in a
	// branching condition.
	Countable() bool
	// RuntimeType is the decoded Go type this plugin produces.
	RuntimeType() RuntimeType
	// ParameterValue extracts the action parameter's semantic value.
	ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error)
	// UsesOrientation reports whether the given parameter's value depends on
	// orientationID.
	UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool
	// UsesRobotJoints reports whether the given parameter's value depends on
	// jointsID.
	UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool
	// EmitASTLiteral renders the parameter as a pyast expression.
	EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error)
}

// Registry is a lookup of plugins by type name. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	byName map[string]Plugin
	order  []string // type names in registration order, for ByRuntimeType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register adds p, keyed by p.TypeName(). Registration is meant to happen
// once, at startup, before the registry is read (§6.3); Register itself does
// not synchronize concurrent callers.
func (r *Registry) Register(p Plugin) error {
	if _, exists := r.byName[p.TypeName()]; exists {
		return arcerr.New(arcerr.DuplicateId, p.TypeName(), "plugin.register", "plugin %q already registered", p.TypeName())
	}
	r.byName[p.TypeName()] = p
	r.order = append(r.order, p.TypeName())
	return nil
}

// ByName looks up a plugin by its exact type name.
func (r *Registry) ByName(name string) (Plugin, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, arcerr.New(arcerr.UnknownPlugin, name, "plugin.by_name", "unknown plugin %q", name)
	}
	return p, nil
}

// ByRuntimeType returns the first registered plugin whose decoded Go type
// matches rt; Countable is not consulted. Enum plugins also match
// (they decode to RuntimeInt or RuntimeString), but RegisterBuiltins's
// integer and string come first when registered before them. pyparse uses
// this to pick a plugin for a literal value.
func (r *Registry) ByRuntimeType(rt RuntimeType) (Plugin, error) {
	for _, name := range r.order {
		p := r.byName[name]
		if p.RuntimeType() == rt {
			return p, nil
		}
	}
	return nil, arcerr.New(arcerr.UnknownPlugin, string(rt), "plugin.by_runtime_type", "no plugin produces runtime type %q", rt)
}

// KnownTypeNames returns every registered type name, sorted for determinism.
func (r *Registry) KnownTypeNames() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
