package pyparse

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/model"
)

var (
	apsPoseRe     = regexp.MustCompile(`^aps\.(\w+)\.poses\.(\w+)$`)
	apsJointsRe   = regexp.MustCompile(`^aps\.(\w+)\.joints\.(\w+)$`)
	apsPositionRe = regexp.MustCompile(`^aps\.(\w+)\.position$`)
	enumRe        = regexp.MustCompile(`^(\w+)\.(\w+)$`)
	identRe       = regexp.MustCompile(`^\w+$`)
)

// entry is a dangling logic edge whose End is not yet known: either the
// unique graph start (entry.start == model.Start) or the bare id of the
// action it leaves from. Accumulating a *set* of these (rather than one
// "current" pointer) is what lets an if/elif statement's surviving
// branches coalesce again at the next shared call, mirroring on the parse
// side the in-degree-based merge detection pyemit performs on the emit
// side.
type entry struct {
	start     string
	condition *model.ProjectLogicIf
}

// build walks the parsed statement tree once, synthesizing one model.Action
// per call statement and one model.LogicItem per edge, and threading the
// active entry set through continue/if fan-out and fan-in.
func (p *parser) build(stmts []stmt) error {
	final, err := p.processList(stmts, []entry{{start: model.Start}})
	if err != nil {
		return err
	}
	for _, e := range final {
		p.logic = append(p.logic, model.LogicItem{ID: uuid.NewString(), Start: e.start, End: model.End, Condition: e.condition})
	}
	return nil
}

func (p *parser) processList(stmts []stmt, active []entry) ([]entry, error) {
	for _, s := range stmts {
		switch st := s.(type) {
		case callStmt:
			actionID, err := p.processCall(st, active)
			if err != nil {
				return nil, err
			}
			active = []entry{{start: actionID}}

		case continueStmt:
			for _, e := range active {
				p.logic = append(p.logic, model.LogicItem{ID: uuid.NewString(), Start: e.start, End: model.End, Condition: e.condition})
			}
			active = nil

		case ifStmt:
			var out []entry
			for _, branch := range st.branches {
				what, err := p.resolveOutputName(branch.condName)
				if err != nil {
					return nil, err
				}
				lit, err := parseLiteral(branch.condValue)
				if err != nil {
					return nil, arcerr.New(arcerr.PyShape, "", "pyparse.if", "condition value %q is not a supported literal", branch.condValue)
				}
				cond := &model.ProjectLogicIf{What: what, Value: lit.jsonValue}

				branchIn := make([]entry, 0, len(active))
				for _, e := range active {
					if e.condition != nil {
						return nil, arcerr.New(arcerr.PyShape, "", "pyparse.if", "nested conditionals are not supported")
					}
					branchIn = append(branchIn, entry{start: e.start, condition: cond})
				}
				branchOut, err := p.processList(branch.body, branchIn)
				if err != nil {
					return nil, err
				}
				out = append(out, branchOut...)
			}
			active = out
		}
	}
	return active, nil
}

func (p *parser) processCall(st callStmt, active []entry) (string, error) {
	objID, ok := p.varToObjID[st.objVar]
	if !ok {
		return "", arcerr.New(arcerr.PyShape, "", "pyparse.call", "call to unbound object variable %q", st.objVar)
	}

	params := make([]model.ActionParameter, 0, len(st.args))
	mentionedAP := ""
	for i, raw := range st.args {
		param, apName, err := p.classifyArg(i, raw)
		if err != nil {
			return "", err
		}
		params = append(params, param)
		if apName != "" {
			mentionedAP = apName
		}
	}
	if mentionedAP != "" {
		p.currentAP = mentionedAP
	}

	actionID := uuid.NewString()
	action := model.Action{
		ID:         actionID,
		Name:       st.anName,
		Type:       objID + "/" + st.method,
		Parameters: params,
	}
	if len(st.assign) > 0 {
		action.Flows = []model.Flow{{Kind: model.FlowKindDefault, Outputs: st.assign}}
		for i, name := range st.assign {
			p.outputOwner[name] = outputBinding{actionID: actionID, flow: model.FlowKindDefault, index: i}
		}
	}
	p.attachAction(action, p.currentAP)

	for _, e := range active {
		p.logic = append(p.logic, model.LogicItem{ID: uuid.NewString(), Start: e.start, End: actionID, Condition: e.condition})
	}
	return actionID, nil
}

// classifyArg decodes one raw call argument into an ActionParameter.
// Parameter names cannot be recovered from source (the script calls
// convey only positional order, never names — an ObjectType metadata
// registry that would supply them is an explicit Non-goal), so positional
// names "arg0", "arg1", ... are synthesized; round-trip equivalence is
// defined over argument values and order, not these synthesized names.
func (p *parser) classifyArg(index int, raw string) (model.ActionParameter, string, error) {
	name := fmt.Sprintf("arg%d", index)

	if m := apsPositionRe.FindStringSubmatch(raw); m != nil {
		apName := m[1]
		v, _ := json.Marshal(p.positionAPID(apName))
		return model.ActionParameter{Name: name, Type: "position", Value: string(v)}, apName, nil
	}
	if m := apsPoseRe.FindStringSubmatch(raw); m != nil {
		apName, oriName := m[1], m[2]
		v, _ := json.Marshal(p.orientationID(apName, oriName))
		return model.ActionParameter{Name: name, Type: "pose", Value: string(v)}, apName, nil
	}
	if m := apsJointsRe.FindStringSubmatch(raw); m != nil {
		apName, jName := m[1], m[2]
		v, _ := json.Marshal(p.jointsID(apName, jName))
		return model.ActionParameter{Name: name, Type: "joints", Value: string(v)}, apName, nil
	}

	if lit, err := parseLiteral(raw); err == nil {
		plug, err := p.registry.ByRuntimeType(lit.runtime)
		if err != nil {
			return model.ActionParameter{}, "", arcerr.New(arcerr.PyShape, "", "pyparse.call", "no plugin handles literal %q", raw)
		}
		return model.ActionParameter{Name: name, Type: plug.TypeName(), Value: lit.jsonValue}, "", nil
	}

	if m := enumRe.FindStringSubmatch(raw); m != nil {
		member := m[2]
		typeName := p.enumTypeName()
		v, _ := json.Marshal(member)
		return model.ActionParameter{Name: name, Type: typeName, Value: string(v)}, "", nil
	}

	if identRe.MatchString(raw) {
		for _, pp := range p.params {
			if pp.Name == raw {
				v, _ := json.Marshal(pp.ID)
				return model.ActionParameter{Name: name, Type: model.TypeProjectParameter, Value: string(v)}, "", nil
			}
		}
		if ob, ok := p.outputOwner[raw]; ok {
			path := fmt.Sprintf("%s/%s/%d", ob.actionID, ob.flow, ob.index)
			v, _ := json.Marshal(path)
			return model.ActionParameter{Name: name, Type: model.TypeLink, Value: string(v)}, "", nil
		}
		return model.ActionParameter{}, "", arcerr.New(arcerr.PyShape, "", "pyparse.call", "identifier %q is neither a project parameter nor a prior output", raw)
	}

	return model.ActionParameter{}, "", arcerr.New(arcerr.PyShape, "", "pyparse.call", "unrecognized argument expression %q", raw)
}

// enumTypeName returns "integer_enum" if that plugin is registered, and
// "string_enum" otherwise (also when neither is registered). A bare
// `ClassName.MEMBER` reference carries no plugin identity in this model, so
// this is a best-effort match rather than an exact one.
func (p *parser) enumTypeName() string {
	for _, n := range p.registry.KnownTypeNames() {
		if n == "integer_enum" || n == "string_enum" {
			return n
		}
	}
	return "string_enum"
}

func (p *parser) resolveOutputName(name string) (string, error) {
	ob, ok := p.outputOwner[name]
	if !ok {
		return "", arcerr.New(arcerr.PyShape, "", "pyparse.if", "condition references unbound name %q", name)
	}
	return fmt.Sprintf("%s/%s/%d", ob.actionID, ob.flow, ob.index), nil
}
