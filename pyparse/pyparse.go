// Package pyparse implements PyParse: reconstructing a Project from a
// Python script in the exact shape PyEmit produces. It is a hand-written
// recursive-descent reader over the strict template described by the
// script contract — not a general Python parser (no corpus Python parser
// exists to ground one on; a full-grammar parser is an explicit
// Non-goal) — in the spirit of the teacher's small hand-rolled tree
// walkers in codegen/agent's golden-file extraction.
//
// Any input that deviates from the template fails with arcerr.PyShape.
package pyparse

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
)

var (
	defLine      = regexp.MustCompile(`^def\s+main\s*\(\s*res\s*:\s*Resources\s*\)\s*->\s*None\s*:\s*$`)
	apsLine      = regexp.MustCompile(`^aps\s*=\s*ActionPoints\s*\(\s*res\s*\)\s*$`)
	whileLine    = regexp.MustCompile(`^while\s+True\s*:\s*$`)
	objectBind   = regexp.MustCompile(`^(\w+)\s*:\s*(\w+)\s*=\s*res\.objects\[\s*'([^']+)'\s*\]\s*$`)
	paramBind    = regexp.MustCompile(`^(\w+)\s*=\s*(.+)$`)
	ifLine       = regexp.MustCompile(`^(if|elif)\s+(\w+)\s*==\s*(.+?)\s*:\s*$`)
	continueLine = regexp.MustCompile(`^continue\s*$`)
	callLine     = regexp.MustCompile(`^(?:([\w, ]+)\s*=\s*)?(\w+)\.(\w+)\((.*)\)\s*$`)
)

// Parse reconstructs a Project from source, given the scene the script's
// object bindings must resolve against and the registry used to classify
// literal arguments by their decoded Go type. defaultAP names the action
// point actions attach to when no aps.<name> reference appears anywhere
// in their arguments and no earlier call has established a rolling
// current AP.
func Parse(scene *cache.Scene, registry *plugin.Registry, source, defaultAP string) (model.Project, error) {
	lines := splitLines(source)

	defIdx := -1
	for i, l := range lines {
		if defLine.MatchString(l.text) {
			defIdx = i
			break
		}
	}
	if defIdx < 0 {
		return model.Project{}, arcerr.New(arcerr.PyShape, "", "pyparse.main", "no `def main(res: Resources) -> None:` found")
	}
	bodyIndent := -1
	var body []rawLine
	for _, l := range lines[defIdx+1:] {
		if bodyIndent == -1 {
			bodyIndent = l.indent
		}
		if l.indent < bodyIndent {
			break
		}
		body = append(body, l)
	}
	if len(body) == 0 {
		return model.Project{}, arcerr.New(arcerr.PyShape, "", "pyparse.main", "def main has an empty body")
	}

	p := newParser(scene, registry, defaultAP)
	whileIdx, err := p.parseHeader(body)
	if err != nil {
		return model.Project{}, err
	}

	loopIndent := -1
	var loopLines []rawLine
	for _, l := range body[whileIdx+1:] {
		if loopIndent == -1 {
			loopIndent = l.indent
		}
		if l.indent < loopIndent {
			break
		}
		loopLines = append(loopLines, l)
	}

	stmts, err := parseBlock(loopLines)
	if err != nil {
		return model.Project{}, err
	}

	if err := p.build(stmts); err != nil {
		return model.Project{}, err
	}

	return p.project(), nil
}

type rawLine struct {
	indent int
	text   string
}

func splitLines(source string) []rawLine {
	var out []rawLine
	for _, raw := range strings.Split(source, "\n") {
		trimmed := strings.TrimRight(raw, " \t\r")
		stripped := strings.TrimLeft(trimmed, " ")
		if stripped == "" || strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "from ") || strings.HasPrefix(stripped, "import ") {
			continue
		}
		if strings.HasPrefix(stripped, "#!") {
			continue
		}
		out = append(out, rawLine{indent: len(trimmed) - len(stripped), text: stripped})
	}
	return out
}

// parser accumulates the state built while walking the header and loop
// body: the object/parameter/action-point registries and the in-order
// logic items and actions that make up the reconstructed project.
type parser struct {
	scene    *cache.Scene
	registry *plugin.Registry

	varToObjID map[string]string

	params []model.ProjectParameter

	aps     map[string]*model.ProjectActionPoint
	apOrder []string

	currentAP string
	defaultAP string

	logic []model.LogicItem

	// outputOwner maps a bound flow-output identifier to the action and
	// output index that produced it, for resolving both LINK arguments
	// and if/elif condition names.
	outputOwner map[string]outputBinding
}

type outputBinding struct {
	actionID string
	flow     model.FlowKind
	index    int
}

func newParser(scene *cache.Scene, registry *plugin.Registry, defaultAP string) *parser {
	if defaultAP == "" {
		defaultAP = "default"
	}
	return &parser{
		scene:       scene,
		registry:    registry,
		varToObjID:  make(map[string]string),
		aps:         make(map[string]*model.ProjectActionPoint),
		defaultAP:   defaultAP,
		currentAP:   defaultAP,
		outputOwner: make(map[string]outputBinding),
	}
}

func (p *parser) parseHeader(body []rawLine) (whileIdx int, err error) {
	topIndent := body[0].indent
	for i, l := range body {
		if l.indent != topIndent {
			continue
		}
		switch {
		case whileLine.MatchString(l.text):
			return i, nil
		case apsLine.MatchString(l.text):
			continue
		default:
			if m := objectBind.FindStringSubmatch(l.text); m != nil {
				varName, class, objID := m[1], m[2], m[3]
				obj, err := p.scene.Object(objID)
				if err != nil {
					return 0, arcerr.New(arcerr.PyShape, objID, "pyparse.header", "object binding references unknown scene object %q", objID)
				}
				if obj.TypeName != class {
					return 0, arcerr.New(arcerr.PyShape, objID, "pyparse.header", "object %q bound as class %q, scene has %q", objID, class, obj.TypeName)
				}
				p.varToObjID[varName] = objID
				continue
			}
			if m := paramBind.FindStringSubmatch(l.text); m != nil {
				name, raw := m[1], strings.TrimSpace(m[2])
				expr, err := parseLiteral(raw)
				if err != nil {
					return 0, arcerr.New(arcerr.PyShape, name, "pyparse.header", "project parameter %q has unsupported literal %q", name, raw)
				}
				plug, err := p.registry.ByRuntimeType(expr.runtime)
				if err != nil {
					return 0, arcerr.New(arcerr.PyShape, name, "pyparse.header", "no plugin handles literal %q", raw)
				}
				id := uuid.NewString()
				p.params = append(p.params, model.ProjectParameter{ID: id, Name: name, Type: plug.TypeName(), Value: expr.jsonValue})
				continue
			}
			return 0, arcerr.New(arcerr.PyShape, "", "pyparse.header", "unrecognized header statement %q", l.text)
		}
	}
	return 0, arcerr.New(arcerr.PyShape, "", "pyparse.header", "no `while True:` found in def main body")
}

func (p *parser) project() model.Project {
	aps := make([]model.ProjectActionPoint, 0, len(p.apOrder))
	for _, name := range p.apOrder {
		aps = append(aps, *p.aps[name])
	}
	return model.Project{
		ID:           uuid.NewString(),
		Name:         "parsed",
		ActionPoints: aps,
		Parameters:   p.params,
		Logic:        p.logic,
		HasLogic:     true,
	}
}

func (p *parser) actionPoint(name string) *model.ProjectActionPoint {
	ap, ok := p.aps[name]
	if !ok {
		ap = &model.ProjectActionPoint{ID: uuid.NewString(), Name: name}
		p.aps[name] = ap
		p.apOrder = append(p.apOrder, name)
	}
	return ap
}

func (p *parser) orientationID(apName, oriName string) string {
	ap := p.actionPoint(apName)
	for _, o := range ap.Orientations {
		if o.Name == oriName {
			return o.ID
		}
	}
	id := uuid.NewString()
	ap.Orientations = append(ap.Orientations, model.NamedOrientation{ID: id, Name: oriName})
	return id
}

func (p *parser) jointsID(apName, jName string) string {
	ap := p.actionPoint(apName)
	for _, j := range ap.RobotJoints {
		if j.Name == jName {
			return j.ID
		}
	}
	id := uuid.NewString()
	ap.RobotJoints = append(ap.RobotJoints, model.ProjectRobotJoints{ID: id, Name: jName})
	return id
}

func (p *parser) positionAPID(apName string) string {
	return p.actionPoint(apName).ID
}

func (p *parser) attachAction(a model.Action, apName string) {
	ap := p.actionPoint(apName)
	ap.Actions = append(ap.Actions, a)
}
