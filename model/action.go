package model

// Reserved ActionParameter type tags. Any other type tag names a registered
// plugin (see package plugin).
const (
	TypeProjectParameter = "project_parameter"
	TypeLink             = "link"
)

// ActionParameter is one named argument of an Action. Value is always a
// JSON-encoded string; how it decodes depends on Type (see package resolve).
type ActionParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// FlowKind identifies a named output channel of an Action. Only
// FlowKindDefault is produced by current projects, but the type exists so
// additional kinds are not a breaking change.
type FlowKind string

// FlowKindDefault is the only flow kind emitted or consumed today.
const FlowKindDefault FlowKind = "default"

// Flow is one output channel of an Action: an ordered list of output
// identifier names, unique across every flow of every action in a logic
// container.
type Flow struct {
	Kind    FlowKind `json:"type"`
	Outputs []string `json:"outputs,omitempty"`
}

// Action is one step of project logic: a call into obj_id/method_name with
// parameters and output flows.
type Action struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Parameters []ActionParameter `json:"parameters,omitempty"`
	Flows      []Flow            `json:"flows,omitempty"`
}

// Parameter looks up a named parameter, or reports ok=false.
func (a *Action) Parameter(name string) (ActionParameter, bool) {
	for _, p := range a.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ActionParameter{}, false
}

// Flow looks up the flow of the given kind, or reports ok=false.
func (a *Action) Flow(kind FlowKind) (Flow, bool) {
	for _, f := range a.Flows {
		if f.Kind == kind {
			return f, true
		}
	}
	return Flow{}, false
}

// ParseType splits Action.Type into its object id and method name, per the
// "<object_id>/<method_name>" encoding.
func (a *Action) ParseType() (objectID, method string, ok bool) {
	return splitOnce(a.Type, '/')
}
