// Package resolve implements ActionParamResolver: it classifies and decodes
// one ActionParameter into a tagged runtime value, dispatching to a literal
// plugin, a project-parameter reference, or a link to a prior action's
// output.
//
// Grounded on the dispatch-by-tag pattern of
// goadesign-goa-ai/codegen/agent/root.go (resolving a tool reference to one
// of several concrete kinds) and on
// original_source/arcor2/action.py/patch_with_action_mapping's handling of
// PROJECT_PARAMETER/LINK/literal parameter kinds.
package resolve

import (
	"encoding/json"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
)

// Kind tags which of the three ActionParameter shapes a Resolved value is.
type Kind int

const (
	KindLiteral Kind = iota
	KindProjectParameterRef
	KindLinkToOutput
)

// Resolved is the tagged result of resolving one ActionParameter.
type Resolved struct {
	Kind Kind

	// Set when Kind == KindLiteral.
	PluginName   string
	LiteralValue any

	// Set when Kind == KindProjectParameterRef.
	ProjectParameterID string

	// Set when Kind == KindLinkToOutput.
	LinkActionID    string
	LinkFlow        model.FlowKind
	LinkOutputIndex int
}

// Resolve classifies and decodes the parameter named parameterID of actionID
// within project, using registry to decode literal values and scene/project
// to resolve AP/pose-shaped ones.
func Resolve(scene *cache.Scene, project *cache.Project, registry *plugin.Registry, actionID, parameterID string) (Resolved, error) {
	action, err := project.Action(actionID)
	if err != nil {
		return Resolved{}, err
	}
	param, ok := action.Parameter(parameterID)
	if !ok {
		return Resolved{}, arcerr.New(arcerr.NotFound, actionID, "resolve.parameter", "action %q has no parameter %q", actionID, parameterID)
	}

	switch param.Type {
	case model.TypeProjectParameter:
		return resolveProjectParameter(project, action, param)
	case model.TypeLink:
		return resolveLink(project, action, param)
	default:
		return resolveLiteral(scene, project, registry, actionID, parameterID, param)
	}
}

func resolveLiteral(scene *cache.Scene, project *cache.Project, registry *plugin.Registry, actionID, parameterID string, param model.ActionParameter) (Resolved, error) {
	p, err := registry.ByName(param.Type)
	if err != nil {
		return Resolved{}, err
	}
	v, err := p.ParameterValue(scene, project, actionID, parameterID)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Kind: KindLiteral, PluginName: param.Type, LiteralValue: v}, nil
}

func resolveProjectParameter(project *cache.Project, action model.Action, param model.ActionParameter) (Resolved, error) {
	var ppID string
	if err := json.Unmarshal([]byte(param.Value), &ppID); err != nil {
		return Resolved{}, arcerr.New(arcerr.WrongValueShape, action.ID, "resolve.project_parameter", "parameter %q value is not a JSON string id: %v", param.Name, err)
	}
	pp, err := project.Parameter(ppID)
	if err != nil {
		return Resolved{}, arcerr.New(arcerr.DanglingProjectParameter, ppID, "resolve.project_parameter", "parameter %q references unknown project parameter %q", param.Name, ppID)
	}
	if pp.Type != "" && declaredTypeOf(param) != "" && pp.Type != declaredTypeOf(param) {
		return Resolved{}, arcerr.New(arcerr.ProjectParameterTypeMismatch, ppID, "resolve.project_parameter", "project parameter %q has type %q, action parameter %q declares %q", ppID, pp.Type, param.Name, declaredTypeOf(param))
	}
	return Resolved{Kind: KindProjectParameterRef, ProjectParameterID: ppID}, nil
}

// declaredTypeOf reports the plugin type tag a project-parameter-typed
// ActionParameter expects its referent to have. The reserved type tags
// PROJECT_PARAMETER and LINK carry no such declaration by themselves; a
// real deployment would source this from ObjectType action metadata (a
// Non-goal here), so this always returns "" and the type check in
// resolveProjectParameter is skipped until that metadata exists.
func declaredTypeOf(param model.ActionParameter) string {
	return ""
}

func resolveLink(project *cache.Project, action model.Action, param model.ActionParameter) (Resolved, error) {
	var path string
	if err := json.Unmarshal([]byte(param.Value), &path); err != nil {
		return Resolved{}, arcerr.New(arcerr.WrongValueShape, action.ID, "resolve.link", "parameter %q value is not a JSON string path: %v", param.Name, err)
	}
	ref, err := model.ParseOutputRef(path)
	if err != nil {
		return Resolved{}, arcerr.New(arcerr.DanglingLink, action.ID, "resolve.link", "%v", err)
	}
	target, err := project.Action(ref.ActionID)
	if err != nil {
		return Resolved{}, arcerr.New(arcerr.DanglingLink, ref.ActionID, "resolve.link", "link references unknown action %q", ref.ActionID)
	}
	flow, ok := target.Flow(ref.Flow)
	if !ok {
		return Resolved{}, arcerr.New(arcerr.DanglingLink, ref.ActionID, "resolve.link", "action %q has no flow %q", ref.ActionID, ref.Flow)
	}
	if ref.OutputIndex < 0 || ref.OutputIndex >= len(flow.Outputs) {
		return Resolved{}, arcerr.New(arcerr.DanglingLink, ref.ActionID, "resolve.link", "flow %q has no output at index %d", ref.Flow, ref.OutputIndex)
	}
	return Resolved{Kind: KindLinkToOutput, LinkActionID: ref.ActionID, LinkFlow: ref.Flow, LinkOutputIndex: ref.OutputIndex}, nil
}
