package pyemit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
	"github.com/robofit/arcor2-core/pyast"
	"github.com/robofit/arcor2-core/resolve"
)

// emitter accumulates the side tables (referenced objects, project
// parameters, action points) discovered while walking the logic graph, so
// the header and companion module can be rendered after the single body
// walk that discovers what they need to contain.
type emitter struct {
	scene    *cache.Scene
	project  *cache.Project
	registry *plugin.Registry

	outgoing map[string][]model.LogicItem // keyed by the action id edges leave from
	inDegree map[string]int               // keyed by the action id edges arrive at

	objOrder []string
	objSeen  map[string]bool

	paramOrder []string
	paramSeen  map[string]bool

	apOrder      []string
	apCompanions map[string]*apCompanion
}

type apCompanion struct {
	id, name   string
	position   bool
	poses      []attrRef
	posesSeen  map[string]bool
	joints     []attrRef
	jointsSeen map[string]bool
}

type attrRef struct {
	id, name string
}

func newEmitter(scene *cache.Scene, project *cache.Project, registry *plugin.Registry) *emitter {
	e := &emitter{
		scene:        scene,
		project:      project,
		registry:     registry,
		outgoing:     make(map[string][]model.LogicItem),
		inDegree:     make(map[string]int),
		objSeen:      make(map[string]bool),
		paramSeen:    make(map[string]bool),
		apCompanions: make(map[string]*apCompanion),
	}
	for _, li := range project.Logic() {
		if li.Start != model.Start {
			ps := model.ParseStart(li.Start)
			e.outgoing[ps.ActionID] = append(e.outgoing[ps.ActionID], li)
		}
		if li.End != model.End {
			e.inDegree[li.End]++
		}
	}
	return e
}

// emitBranch recursively renders the straight-line and forked body
// starting at actionID. depth is 0 at the top level of the while-loop body
// and increases by one per nested if/elif level; it governs two things: a
// direct edge to END only renders as an explicit `continue` when depth > 0
// (at depth 0 the template's own trailing `continue` already covers it),
// and an action is only treated as a fork's merge point — stopping this
// branch and handing the remaining emission back to the caller — when
// depth > 0.
//
// It returns the rendered lines and, if this branch stopped at a merge
// point rather than running to END, the action id the caller should
// continue emitting from.
func (e *emitter) emitBranch(actionID string, depth int) ([]string, string, error) {
	if actionID == model.End {
		if depth > 0 {
			return []string{"continue"}, "", nil
		}
		return nil, "", nil
	}
	if depth > 0 && e.inDegree[actionID] >= 2 {
		return nil, actionID, nil
	}

	line, err := e.emitCall(actionID)
	if err != nil {
		return nil, "", err
	}
	lines := []string{line}

	edges := e.outgoing[actionID]
	switch {
	case len(edges) == 0:
		return nil, "", arcerr.New(arcerr.UnfinishedLogic, actionID, "pyemit.body", "action %q has no outgoing logic edge", actionID)

	case len(edges) == 1 && edges[0].Condition == nil:
		sub, pending, err := e.emitBranch(edges[0].End, depth)
		if err != nil {
			return nil, "", err
		}
		return append(lines, sub...), pending, nil

	default:
		forkLines, pending, err := e.emitFork(actionID, edges, depth)
		if err != nil {
			return nil, "", err
		}
		lines = append(lines, forkLines...)
		if pending == "" {
			return lines, "", nil
		}
		sub, finalPending, err := e.emitBranch(pending, depth)
		if err != nil {
			return nil, "", err
		}
		return append(lines, sub...), finalPending, nil
	}
}

func (e *emitter) emitFork(forkActionID string, edges []model.LogicItem, depth int) ([]string, string, error) {
	sortConditionEdges(edges)

	ref, err := model.ParseOutputRef(edges[0].Condition.What)
	if err != nil {
		return nil, "", arcerr.New(arcerr.UnsupportedConditionType, forkActionID, "pyemit.body.condition", "%v", err)
	}
	producer, err := e.project.Action(ref.ActionID)
	if err != nil {
		return nil, "", err
	}
	flow, ok := producer.Flow(ref.Flow)
	if !ok || ref.OutputIndex < 0 || ref.OutputIndex >= len(flow.Outputs) {
		return nil, "", arcerr.New(arcerr.UnsupportedConditionType, forkActionID, "pyemit.body.condition", "condition references unknown output %q", edges[0].Condition.What)
	}
	outputName := flow.Outputs[ref.OutputIndex]

	var lines []string
	var pending string
	havePending := false
	for i, edge := range edges {
		lit, err := renderJSONLiteral(edge.Condition.Value)
		if err != nil {
			return nil, "", arcerr.New(arcerr.InvalidConditionValue, forkActionID, "pyemit.body.condition", "%v", err)
		}
		keyword := "if"
		if i > 0 {
			keyword = "elif"
		}
		lines = append(lines, fmt.Sprintf("%s %s == %s:", keyword, outputName, lit.Render()))

		branch, branchPending, err := e.emitBranch(edge.End, depth+1)
		if err != nil {
			return nil, "", err
		}
		for _, bl := range branch {
			lines = append(lines, "    "+bl)
		}
		if branchPending != "" {
			if havePending && pending != branchPending {
				return nil, "", arcerr.New(arcerr.ConflictingEdges, forkActionID, "pyemit.body", "fork branches converge on different actions (%q and %q)", pending, branchPending)
			}
			pending = branchPending
			havePending = true
		}
	}
	return lines, pending, nil
}

func (e *emitter) emitCall(actionID string) (string, error) {
	action, err := e.project.Action(actionID)
	if err != nil {
		return "", err
	}
	objID, method, ok := action.ParseType()
	if !ok {
		return "", arcerr.New(arcerr.WrongValueShape, actionID, "pyemit.body", "action %q has malformed type %q", actionID, action.Type)
	}
	obj, err := e.scene.Object(objID)
	if err != nil {
		return "", err
	}
	e.useObject(objID)

	args := make([]pyast.Expr, 0, len(action.Parameters))
	for _, param := range action.Parameters {
		expr, err := e.argExpr(action, param)
		if err != nil {
			return "", err
		}
		args = append(args, expr)
	}

	line := renderCall(pyast.Attribute{Value: pyast.Name{Id: obj.Name}, Attr: method}, args, action.Name)

	flow, ok := action.Flow(model.FlowKindDefault)
	if ok && len(flow.Outputs) > 0 {
		line = strings.Join(flow.Outputs, ", ") + " = " + line
	}
	return line, nil
}

func (e *emitter) argExpr(action model.Action, param model.ActionParameter) (pyast.Expr, error) {
	switch param.Type {
	case model.TypeLink:
		r, err := resolve.Resolve(e.scene, e.project, e.registry, action.ID, param.Name)
		if err != nil {
			return nil, err
		}
		target, err := e.project.Action(r.LinkActionID)
		if err != nil {
			return nil, err
		}
		flow, ok := target.Flow(r.LinkFlow)
		if !ok || r.LinkOutputIndex >= len(flow.Outputs) {
			return nil, arcerr.New(arcerr.DanglingLink, r.LinkActionID, "pyemit.body", "link target has no such output")
		}
		return pyast.Name{Id: flow.Outputs[r.LinkOutputIndex]}, nil

	case model.TypeProjectParameter:
		r, err := resolve.Resolve(e.scene, e.project, e.registry, action.ID, param.Name)
		if err != nil {
			return nil, err
		}
		pp, err := e.project.Parameter(r.ProjectParameterID)
		if err != nil {
			return nil, err
		}
		e.useParameter(pp.ID)
		return pyast.Name{Id: pp.Name}, nil

	default:
		p, err := e.registry.ByName(param.Type)
		if err != nil {
			return nil, err
		}
		if err := e.recordAPUsage(param); err != nil {
			return nil, err
		}
		return p.EmitASTLiteral(e.scene, e.project, action.ID, param.Name)
	}
}

// renderCall renders `<func>(<args>, an='<name>')`. The `an` keyword is
// always single-quoted per the script template, independent of
// pyast.Str's double-quoted convention used for argument literals.
func renderCall(fn pyast.Expr, args []pyast.Expr, name string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range args {
		parts = append(parts, a.Render())
	}
	parts = append(parts, fmt.Sprintf("an='%s'", name))
	return fn.Render() + "(" + strings.Join(parts, ", ") + ")"
}

func (e *emitter) useObject(id string) {
	if e.objSeen[id] {
		return
	}
	e.objSeen[id] = true
	e.objOrder = append(e.objOrder, id)
}

func (e *emitter) useParameter(id string) {
	if e.paramSeen[id] {
		return
	}
	e.paramSeen[id] = true
	e.paramOrder = append(e.paramOrder, id)
}

func (e *emitter) companion(ap model.ProjectActionPoint) *apCompanion {
	c, ok := e.apCompanions[ap.ID]
	if !ok {
		c = &apCompanion{
			id: ap.ID, name: ap.Name,
			posesSeen:  make(map[string]bool),
			jointsSeen: make(map[string]bool),
		}
		e.apCompanions[ap.ID] = c
		e.apOrder = append(e.apOrder, ap.ID)
	}
	return c
}

// recordAPUsage inspects a reference-plugin parameter value to discover
// which action point, orientation, or joints configuration it touches, so
// the companion module only ever describes what the emitted body actually
// references.
func (e *emitter) recordAPUsage(param model.ActionParameter) error {
	switch param.Type {
	case "pose":
		var oriID string
		if err := json.Unmarshal([]byte(param.Value), &oriID); err != nil {
			return nil
		}
		ap, ori, err := e.project.APAndOrientation(oriID)
		if err != nil {
			return nil
		}
		c := e.companion(ap)
		if !c.posesSeen[ori.ID] {
			c.posesSeen[ori.ID] = true
			c.poses = append(c.poses, attrRef{id: ori.ID, name: ori.Name})
		}
	case "pose_array":
		var oriIDs []string
		if err := json.Unmarshal([]byte(param.Value), &oriIDs); err != nil {
			return nil
		}
		for _, oriID := range oriIDs {
			ap, ori, err := e.project.APAndOrientation(oriID)
			if err != nil {
				continue
			}
			c := e.companion(ap)
			if !c.posesSeen[ori.ID] {
				c.posesSeen[ori.ID] = true
				c.poses = append(c.poses, attrRef{id: ori.ID, name: ori.Name})
			}
		}
	case "position":
		var apID string
		if err := json.Unmarshal([]byte(param.Value), &apID); err != nil {
			return nil
		}
		ap, err := e.project.ActionPoint(apID)
		if err != nil {
			return nil
		}
		e.companion(ap).position = true
	case "joints":
		var jID string
		if err := json.Unmarshal([]byte(param.Value), &jID); err != nil {
			return nil
		}
		ap, joints, err := e.project.APAndJoints(jID)
		if err != nil {
			return nil
		}
		c := e.companion(ap)
		if !c.jointsSeen[joints.ID] {
			c.jointsSeen[joints.ID] = true
			c.joints = append(c.joints, attrRef{id: joints.ID, name: joints.Name})
		}
	}
	return nil
}

// renderJSONLiteral decodes a JSON-encoded primitive (a project parameter
// value or a logic condition value) into the pyast literal node that
// reproduces it in Python source.
func renderJSONLiteral(raw string) (pyast.Expr, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("pyemit: invalid JSON literal %q: %w", raw, err)
	}
	switch t := v.(type) {
	case bool:
		return pyast.Bool{Value: t}, nil
	case string:
		return pyast.Str{Value: t}, nil
	case float64:
		isInt := !strings.ContainsAny(raw, ".eE")
		return pyast.Num{Value: t, IsInt: isInt}, nil
	default:
		return nil, fmt.Errorf("pyemit: literal %q is not a supported primitive", raw)
	}
}
