package cache

import (
	"encoding/json"
	"time"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/model"
)

// Project is a mutation-aware, indexed view over a model.Project. Like
// Scene, it owns a deep copy of its input. Actions, orientations, and joints
// are reindexed into flat, id-keyed maps (with a parallel parent-AP map) so
// every action point in the snapshot holds empty slices until Snapshot
// rebuilds them — mirroring CachedProject.__init__'s "register into flat
// maps, then clear the AP's own lists" behavior in the original source.
type Project struct {
	id          string
	name        string
	sceneID     string
	desc        string
	hasLogic    bool
	modified    *time.Time
	intModified *time.Time
	clock       Clock

	actionPoints map[string]*model.ProjectActionPoint
	apOrder      []string

	actions      map[string]*model.Action
	actionParent map[string]string
	actionOrder  []string

	orientations map[string]*model.NamedOrientation
	oriParent    map[string]string
	oriOrder     []string

	joints      map[string]*model.ProjectRobotJoints
	jointParent map[string]string
	jointOrder  []string

	parameters     map[string]*model.ProjectParameter
	parameterNames map[string]string
	parameterOrder []string

	logicItems map[string]*model.LogicItem
	logicOrder []string

	functions     map[string]*model.ProjectFunction
	functionOrder []string
}

// NewProject builds a Project from p, enforcing every construction-time
// invariant from §3: unique ids for action points/actions/orientations/
// joints/logic items/parameters, unique and identifier-valid names, and
// every logic item's action references resolving within the project.
func NewProject(p model.Project, opts ...Option) (*Project, error) {
	cfg := newConfig(opts)

	c := &Project{
		id:             p.ID,
		name:           p.Name,
		sceneID:        p.SceneID,
		desc:           p.Description,
		hasLogic:       p.HasLogic,
		modified:       p.Modified,
		intModified:    p.IntModified,
		clock:          cfg.clock,
		actionPoints:   make(map[string]*model.ProjectActionPoint),
		actions:        make(map[string]*model.Action),
		actionParent:   make(map[string]string),
		orientations:   make(map[string]*model.NamedOrientation),
		oriParent:      make(map[string]string),
		joints:         make(map[string]*model.ProjectRobotJoints),
		jointParent:    make(map[string]string),
		parameters:     make(map[string]*model.ProjectParameter),
		parameterNames: make(map[string]string),
		logicItems:     make(map[string]*model.LogicItem),
		functions:      make(map[string]*model.ProjectFunction),
	}

	apNames := make(map[string]string)
	for i := range p.ActionPoints {
		ap := p.ActionPoints[i]
		if _, exists := c.actionPoints[ap.ID]; exists {
			return nil, arcerr.New(arcerr.DuplicateId, ap.ID, "project.ap.id", "duplicate action point id %q", ap.ID)
		}
		if !model.IsValidIdentifier(ap.Name) {
			return nil, arcerr.New(arcerr.InvalidIdentifier, ap.ID, "project.ap.name", "action point name %q is not a valid identifier", ap.Name)
		}
		if other, exists := apNames[ap.Name]; exists {
			return nil, arcerr.New(arcerr.DuplicateName, ap.ID, "project.ap.name", "action point name %q duplicates %s", ap.Name, other)
		}
		apNames[ap.Name] = ap.ID

		for _, ac := range ap.Actions {
			if _, exists := c.actions[ac.ID]; exists {
				return nil, arcerr.New(arcerr.DuplicateId, ac.ID, "project.action.id", "duplicate action id %q", ac.ID)
			}
			acCopy := ac
			c.actions[ac.ID] = &acCopy
			c.actionParent[ac.ID] = ap.ID
			c.actionOrder = append(c.actionOrder, ac.ID)
		}
		for _, j := range ap.RobotJoints {
			if _, exists := c.joints[j.ID]; exists {
				return nil, arcerr.New(arcerr.DuplicateId, j.ID, "project.joints.id", "duplicate joints id %q", j.ID)
			}
			jCopy := j
			c.joints[j.ID] = &jCopy
			c.jointParent[j.ID] = ap.ID
			c.jointOrder = append(c.jointOrder, j.ID)
		}
		for _, o := range ap.Orientations {
			if _, exists := c.orientations[o.ID]; exists {
				return nil, arcerr.New(arcerr.DuplicateId, o.ID, "project.orientation.id", "duplicate orientation id %q", o.ID)
			}
			oCopy := o
			c.orientations[o.ID] = &oCopy
			c.oriParent[o.ID] = ap.ID
			c.oriOrder = append(c.oriOrder, o.ID)
		}

		bare := ap
		bare.Actions = nil
		bare.Orientations = nil
		bare.RobotJoints = nil
		c.actionPoints[ap.ID] = &bare
		c.apOrder = append(c.apOrder, ap.ID)
	}

	for _, pp := range p.Parameters {
		if _, exists := c.parameters[pp.ID]; exists {
			return nil, arcerr.New(arcerr.DuplicateId, pp.ID, "project.parameter.id", "duplicate project parameter id %q", pp.ID)
		}
		if !model.IsValidIdentifier(pp.Name) {
			return nil, arcerr.New(arcerr.InvalidIdentifier, pp.ID, "project.parameter.name", "project parameter name %q is not a valid identifier", pp.Name)
		}
		if other, exists := c.parameterNames[pp.Name]; exists {
			return nil, arcerr.New(arcerr.DuplicateName, pp.ID, "project.parameter.name", "project parameter name %q duplicates %s", pp.Name, other)
		}
		if err := checkPrimitiveValue(pp.Value); err != nil {
			return nil, arcerr.New(arcerr.WrongValueShape, pp.ID, "project.parameter.value", "project parameter %q has invalid value: %v", pp.Name, err)
		}
		ppCopy := pp
		c.parameters[pp.ID] = &ppCopy
		c.parameterNames[pp.Name] = pp.ID
		c.parameterOrder = append(c.parameterOrder, pp.ID)
	}

	for _, li := range p.Logic {
		if _, exists := c.logicItems[li.ID]; exists {
			return nil, arcerr.New(arcerr.DuplicateId, li.ID, "project.logic.id", "duplicate logic item id %q", li.ID)
		}
		if li.Start != model.Start {
			if _, _, err := c.splitActionRef(li.Start); err != nil {
				return nil, err
			}
		}
		if li.End != model.End {
			if _, err := c.actionExists(li.End); err != nil {
				return nil, err
			}
		}
		if li.Condition != nil {
			ref, err := model.ParseOutputRef(li.Condition.What)
			if err != nil {
				return nil, arcerr.New(arcerr.NotFound, li.ID, "project.logic.condition.what", "%v", err)
			}
			if _, err := c.actionExists(ref.ActionID); err != nil {
				return nil, err
			}
		}
		liCopy := li
		c.logicItems[li.ID] = &liCopy
		c.logicOrder = append(c.logicOrder, li.ID)
	}

	for _, fn := range p.Functions {
		if _, exists := c.functions[fn.ID]; exists {
			return nil, arcerr.New(arcerr.DuplicateId, fn.ID, "project.function.id", "duplicate function id %q", fn.ID)
		}
		fnCopy := fn
		c.functions[fn.ID] = &fnCopy
		c.functionOrder = append(c.functionOrder, fn.ID)
	}

	return c, nil
}

func checkPrimitiveValue(value string) error {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, bool, string:
		return nil
	default:
		return arcerr.New(arcerr.WrongValueShape, "", "project.parameter.value", "value %q is not a primitive", value)
	}
}

func (c *Project) actionExists(id string) (model.Action, error) {
	a, ok := c.actions[id]
	if !ok {
		return model.Action{}, arcerr.New(arcerr.NotFound, id, "project.logic.action", "action %q not found", id)
	}
	return *a, nil
}

func (c *Project) splitActionRef(s string) (actionID string, flow model.FlowKind, err error) {
	ps := model.ParseStart(s)
	if _, e := c.actionExists(ps.ActionID); e != nil {
		return "", "", e
	}
	return ps.ActionID, ps.Flow, nil
}

// ID returns the project id.
func (c *Project) ID() string { return c.id }

// Name returns the project name.
func (c *Project) Name() string { return c.name }

// SceneID returns the id of the Scene this project is bound to.
func (c *Project) SceneID() string { return c.sceneID }

// Action returns the action with the given id.
func (c *Project) Action(id string) (model.Action, error) {
	return c.actionExists(id)
}

// ActionPointAndAction returns an action together with its owning AP.
func (c *Project) ActionPointAndAction(id string) (model.ProjectActionPoint, model.Action, error) {
	a, ok := c.actions[id]
	if !ok {
		return model.ProjectActionPoint{}, model.Action{}, arcerr.New(arcerr.NotFound, id, "project.action", "action %q not found", id)
	}
	apID := c.actionParent[id]
	return *c.actionPoints[apID], *a, nil
}

// APAndOrientation returns a named orientation together with its owning AP.
func (c *Project) APAndOrientation(id string) (model.ProjectActionPoint, model.NamedOrientation, error) {
	o, ok := c.orientations[id]
	if !ok {
		return model.ProjectActionPoint{}, model.NamedOrientation{}, arcerr.New(arcerr.NotFound, id, "project.orientation", "orientation %q not found", id)
	}
	apID := c.oriParent[id]
	return *c.actionPoints[apID], *o, nil
}

// APAndJoints returns a recorded joints configuration together with its
// owning AP.
func (c *Project) APAndJoints(id string) (model.ProjectActionPoint, model.ProjectRobotJoints, error) {
	j, ok := c.joints[id]
	if !ok {
		return model.ProjectActionPoint{}, model.ProjectRobotJoints{}, arcerr.New(arcerr.NotFound, id, "project.joints", "joints %q not found", id)
	}
	apID := c.jointParent[id]
	return *c.actionPoints[apID], *j, nil
}

// ActionPoint returns the bare action point (without nested actions,
// orientations, or joints) with the given id.
func (c *Project) ActionPoint(id string) (model.ProjectActionPoint, error) {
	ap, ok := c.actionPoints[id]
	if !ok {
		return model.ProjectActionPoint{}, arcerr.New(arcerr.NotFound, id, "project.ap", "action point %q not found", id)
	}
	return *ap, nil
}

// ActionPoints returns every action point (bare), in construction order.
func (c *Project) ActionPoints() []model.ProjectActionPoint {
	out := make([]model.ProjectActionPoint, 0, len(c.apOrder))
	for _, id := range c.apOrder {
		out = append(out, *c.actionPoints[id])
	}
	return out
}

// Actions returns every action across every AP, in construction order.
func (c *Project) Actions() []model.Action {
	out := make([]model.Action, 0, len(c.actionOrder))
	for _, id := range c.actionOrder {
		out = append(out, *c.actions[id])
	}
	return out
}

// LogicItem returns the logic item with the given id.
func (c *Project) LogicItem(id string) (model.LogicItem, error) {
	li, ok := c.logicItems[id]
	if !ok {
		return model.LogicItem{}, arcerr.New(arcerr.NotFound, id, "project.logic", "logic item %q not found", id)
	}
	return *li, nil
}

// Logic returns every logic item, in construction/insertion order.
func (c *Project) Logic() []model.LogicItem {
	out := make([]model.LogicItem, 0, len(c.logicOrder))
	for _, id := range c.logicOrder {
		out = append(out, *c.logicItems[id])
	}
	return out
}

// LogicItems is an alias of Logic so *Project satisfies logic.Container
// alongside *model.ProjectFunction (whose Logic is a field, not a method).
func (c *Project) LogicItems() []model.LogicItem {
	return c.Logic()
}

// Parameter returns the project parameter with the given id.
func (c *Project) Parameter(id string) (model.ProjectParameter, error) {
	p, ok := c.parameters[id]
	if !ok {
		return model.ProjectParameter{}, arcerr.New(arcerr.NotFound, id, "project.parameter", "project parameter %q not found", id)
	}
	return *p, nil
}

// ParameterByName returns the project parameter with the given name.
func (c *Project) ParameterByName(name string) (model.ProjectParameter, error) {
	id, ok := c.parameterNames[name]
	if !ok {
		return model.ProjectParameter{}, arcerr.New(arcerr.NotFound, name, "project.parameter.name", "project parameter named %q not found", name)
	}
	return *c.parameters[id], nil
}

// Parameters returns every project parameter, in construction order.
func (c *Project) Parameters() []model.ProjectParameter {
	out := make([]model.ProjectParameter, 0, len(c.parameterOrder))
	for _, id := range c.parameterOrder {
		out = append(out, *c.parameters[id])
	}
	return out
}

// Function returns the function with the given id.
func (c *Project) Function(id string) (model.ProjectFunction, error) {
	f, ok := c.functions[id]
	if !ok {
		return model.ProjectFunction{}, arcerr.New(arcerr.NotFound, id, "project.function", "function %q not found", id)
	}
	return *f, nil
}

// Functions returns every function, in construction order.
func (c *Project) Functions() []model.ProjectFunction {
	out := make([]model.ProjectFunction, 0, len(c.functionOrder))
	for _, id := range c.functionOrder {
		out = append(out, *c.functions[id])
	}
	return out
}

// HasChanges reports whether the project has unsaved mutations.
func (c *Project) HasChanges() bool {
	if c.intModified == nil {
		return false
	}
	if c.modified == nil {
		return true
	}
	return c.intModified.After(*c.modified)
}

func (c *Project) updateModified() {
	t := c.clock.Now()
	c.intModified = &t
}

// UpsertAction inserts or replaces an action under apID. If action.ID
// already exists, its owning AP must match apID.
func (c *Project) UpsertAction(apID string, action model.Action) error {
	if _, err := c.ActionPoint(apID); err != nil {
		return err
	}
	if existingAP, exists := c.actionParent[action.ID]; exists && existingAP != apID {
		return arcerr.New(arcerr.InvalidParent, action.ID, "project.action.parent", "action %q belongs to action point %q, not %q", action.ID, existingAP, apID)
	} else if !exists {
		c.actionOrder = append(c.actionOrder, action.ID)
	}
	cp := action
	c.actions[action.ID] = &cp
	c.actionParent[action.ID] = apID
	c.updateModified()
	return nil
}

// RemoveAction deletes the action with the given id, returning it. Callers
// are responsible for ensuring no LogicItem still references it.
func (c *Project) RemoveAction(id string) (model.Action, error) {
	a, ok := c.actions[id]
	if !ok {
		return model.Action{}, arcerr.New(arcerr.NotFound, id, "project.action", "action %q not found", id)
	}
	delete(c.actions, id)
	delete(c.actionParent, id)
	c.actionOrder = removeString(c.actionOrder, id)
	c.updateModified()
	return *a, nil
}

// UpsertOrientation inserts or replaces a named orientation under apID.
func (c *Project) UpsertOrientation(apID string, ori model.NamedOrientation) error {
	if _, err := c.ActionPoint(apID); err != nil {
		return err
	}
	if existingAP, exists := c.oriParent[ori.ID]; exists && existingAP != apID {
		return arcerr.New(arcerr.InvalidParent, ori.ID, "project.orientation.parent", "orientation %q belongs to action point %q, not %q", ori.ID, existingAP, apID)
	} else if !exists {
		c.oriOrder = append(c.oriOrder, ori.ID)
	}
	cp := ori
	c.orientations[ori.ID] = &cp
	c.oriParent[ori.ID] = apID
	c.updateModified()
	return nil
}

// RemoveOrientation deletes the named orientation with the given id.
// Callers are responsible for ensuring no action parameter still uses it.
func (c *Project) RemoveOrientation(id string) (model.NamedOrientation, error) {
	o, ok := c.orientations[id]
	if !ok {
		return model.NamedOrientation{}, arcerr.New(arcerr.NotFound, id, "project.orientation", "orientation %q not found", id)
	}
	delete(c.orientations, id)
	delete(c.oriParent, id)
	c.oriOrder = removeString(c.oriOrder, id)
	c.updateModified()
	return *o, nil
}

// UpsertJoints inserts or replaces a recorded joints configuration under
// apID.
func (c *Project) UpsertJoints(apID string, joints model.ProjectRobotJoints) error {
	if _, err := c.ActionPoint(apID); err != nil {
		return err
	}
	if existingAP, exists := c.jointParent[joints.ID]; exists && existingAP != apID {
		return arcerr.New(arcerr.InvalidParent, joints.ID, "project.joints.parent", "joints %q belongs to action point %q, not %q", joints.ID, existingAP, apID)
	} else if !exists {
		c.jointOrder = append(c.jointOrder, joints.ID)
	}
	cp := joints
	c.joints[joints.ID] = &cp
	c.jointParent[joints.ID] = apID
	c.updateModified()
	return nil
}

// RemoveJoints deletes the joints configuration with the given id.
func (c *Project) RemoveJoints(id string) (model.ProjectRobotJoints, error) {
	j, ok := c.joints[id]
	if !ok {
		return model.ProjectRobotJoints{}, arcerr.New(arcerr.NotFound, id, "project.joints", "joints %q not found", id)
	}
	delete(c.joints, id)
	delete(c.jointParent, id)
	c.jointOrder = removeString(c.jointOrder, id)
	c.updateModified()
	return *j, nil
}

// UpsertActionPoint creates or updates the action point with the given id.
// When scene is non-nil and parent is set, parent must name either a posed
// SceneObject in scene or another action point in this project (§3 inv. 4).
// Changing an existing AP's parent is rejected with ParentLoop if it would
// make the AP its own ancestor.
func (c *Project) UpsertActionPoint(scene *Scene, apID, name string, pos model.Position, parent string) (model.ProjectActionPoint, error) {
	if !model.IsValidIdentifier(name) {
		return model.ProjectActionPoint{}, arcerr.New(arcerr.InvalidIdentifier, apID, "project.ap.name", "action point name %q is not a valid identifier", name)
	}
	for id, ap := range c.actionPoints {
		if id != apID && ap.Name == name {
			return model.ProjectActionPoint{}, arcerr.New(arcerr.DuplicateName, apID, "project.ap.name", "action point name %q duplicates %s", name, id)
		}
	}
	if parent != "" {
		if err := c.checkParent(scene, apID, parent); err != nil {
			return model.ProjectActionPoint{}, err
		}
	}

	existing, exists := c.actionPoints[apID]
	var ap model.ProjectActionPoint
	if exists {
		ap = *existing
		ap.Name = name
		ap.Position = pos
		ap.Parent = parent
	} else {
		ap = model.ProjectActionPoint{ID: apID, Name: name, Position: pos, Parent: parent}
		c.apOrder = append(c.apOrder, apID)
	}
	c.actionPoints[apID] = &ap
	c.updateModified()
	return ap, nil
}

func (c *Project) checkParent(scene *Scene, apID, parent string) error {
	if scene != nil {
		if obj, err := scene.Object(parent); err == nil {
			if obj.Pose == nil {
				return arcerr.New(arcerr.InvalidParent, apID, "project.ap.parent", "action point %q parent %q is an object without a pose", apID, parent)
			}
			return nil
		}
	}
	if _, ok := c.actionPoints[parent]; !ok {
		return arcerr.New(arcerr.InvalidParent, apID, "project.ap.parent", "action point %q has invalid parent %q (not a posed object or another action point)", apID, parent)
	}
	// Ancestor-loop check: walk the parent chain from `parent`, failing if
	// apID is reached.
	seen := map[string]bool{apID: true}
	cur := parent
	for {
		if seen[cur] {
			return arcerr.New(arcerr.ParentLoop, apID, "project.ap.parent", "action point %q would become its own ancestor through %q", apID, cur)
		}
		seen[cur] = true
		next, ok := c.actionPoints[cur]
		if !ok || next.Parent == "" {
			return nil
		}
		cur = next.Parent
	}
}

// RemoveActionPoint deletes the action point with the given id, cascading
// removal of every action, orientation, and joints configuration it owns.
func (c *Project) RemoveActionPoint(id string) (model.ProjectActionPoint, error) {
	ap, ok := c.actionPoints[id]
	if !ok {
		return model.ProjectActionPoint{}, arcerr.New(arcerr.NotFound, id, "project.ap", "action point %q not found", id)
	}
	for _, aid := range append([]string(nil), c.actionOrder...) {
		if c.actionParent[aid] == id {
			if _, err := c.RemoveAction(aid); err != nil {
				return model.ProjectActionPoint{}, err
			}
		}
	}
	for _, jid := range append([]string(nil), c.jointOrder...) {
		if c.jointParent[jid] == id {
			if _, err := c.RemoveJoints(jid); err != nil {
				return model.ProjectActionPoint{}, err
			}
		}
	}
	for _, oid := range append([]string(nil), c.oriOrder...) {
		if c.oriParent[oid] == id {
			if _, err := c.RemoveOrientation(oid); err != nil {
				return model.ProjectActionPoint{}, err
			}
		}
	}
	delete(c.actionPoints, id)
	c.apOrder = removeString(c.apOrder, id)
	c.updateModified()
	return *ap, nil
}

// UpsertLogicItem inserts or replaces a logic item. Callers validate the
// candidate against the rest of the graph (package logic) before calling
// this; UpsertLogicItem itself only checks that referenced actions exist.
func (c *Project) UpsertLogicItem(item model.LogicItem) error {
	if item.Start != model.Start {
		if _, _, err := c.splitActionRef(item.Start); err != nil {
			return err
		}
	}
	if item.End != model.End {
		if _, err := c.actionExists(item.End); err != nil {
			return err
		}
	}
	if item.Condition != nil {
		ref, err := model.ParseOutputRef(item.Condition.What)
		if err != nil {
			return arcerr.New(arcerr.NotFound, item.ID, "project.logic.condition.what", "%v", err)
		}
		if _, err := c.actionExists(ref.ActionID); err != nil {
			return err
		}
	}
	if _, exists := c.logicItems[item.ID]; !exists {
		c.logicOrder = append(c.logicOrder, item.ID)
	}
	cp := item
	c.logicItems[item.ID] = &cp
	c.updateModified()
	return nil
}

// RemoveLogicItem deletes the logic item with the given id, returning it.
func (c *Project) RemoveLogicItem(id string) (model.LogicItem, error) {
	li, ok := c.logicItems[id]
	if !ok {
		return model.LogicItem{}, arcerr.New(arcerr.NotFound, id, "project.logic", "logic item %q not found", id)
	}
	delete(c.logicItems, id)
	c.logicOrder = removeString(c.logicOrder, id)
	c.updateModified()
	return *li, nil
}

// ClearLogic removes every logic item.
func (c *Project) ClearLogic() {
	c.logicItems = make(map[string]*model.LogicItem)
	c.logicOrder = nil
	c.updateModified()
}

// UpsertProjectParameter inserts or replaces a project parameter. name must
// be a valid identifier and unique among parameters other than p itself;
// value must decode to a JSON primitive (int, float, string, or bool).
func (c *Project) UpsertProjectParameter(p model.ProjectParameter) error {
	if !model.IsValidIdentifier(p.Name) {
		return arcerr.New(arcerr.InvalidIdentifier, p.ID, "project.parameter.name", "project parameter name %q is not a valid identifier", p.Name)
	}
	if other, exists := c.parameterNames[p.Name]; exists && other != p.ID {
		return arcerr.New(arcerr.DuplicateName, p.ID, "project.parameter.name", "project parameter name %q duplicates %s", p.Name, other)
	}
	if err := checkPrimitiveValue(p.Value); err != nil {
		return arcerr.New(arcerr.WrongValueShape, p.ID, "project.parameter.value", "project parameter %q has invalid value: %v", p.Name, err)
	}
	if existing, exists := c.parameters[p.ID]; exists {
		delete(c.parameterNames, existing.Name)
	} else {
		c.parameterOrder = append(c.parameterOrder, p.ID)
	}
	cp := p
	c.parameters[p.ID] = &cp
	c.parameterNames[p.Name] = p.ID
	c.updateModified()
	return nil
}

// RemoveProjectParameter deletes the project parameter with the given id.
func (c *Project) RemoveProjectParameter(id string) (model.ProjectParameter, error) {
	p, ok := c.parameters[id]
	if !ok {
		return model.ProjectParameter{}, arcerr.New(arcerr.NotFound, id, "project.parameter", "project parameter %q not found", id)
	}
	delete(c.parameters, id)
	delete(c.parameterNames, p.Name)
	c.parameterOrder = removeString(c.parameterOrder, id)
	c.updateModified()
	return *p, nil
}

// Snapshot produces a fresh model.Project equivalent to the current state,
// with actions/orientations/joints regrouped under their owning action
// points in construction order. IntModified is always nil in the snapshot:
// the internal mutation stamp is reported through HasChanges, not copied out.
// A project without functions snapshots with a nil Functions slice.
func (c *Project) Snapshot() model.Project {
	aps := make([]model.ProjectActionPoint, 0, len(c.apOrder))
	byID := make(map[string]*model.ProjectActionPoint, len(c.apOrder))
	for _, id := range c.apOrder {
		bare := *c.actionPoints[id]
		aps = append(aps, bare)
		byID[id] = &aps[len(aps)-1]
	}
	for _, aid := range c.actionOrder {
		apID := c.actionParent[aid]
		byID[apID].Actions = append(byID[apID].Actions, *c.actions[aid])
	}
	for _, jid := range c.jointOrder {
		apID := c.jointParent[jid]
		byID[apID].RobotJoints = append(byID[apID].RobotJoints, *c.joints[jid])
	}
	for _, oid := range c.oriOrder {
		apID := c.oriParent[oid]
		byID[apID].Orientations = append(byID[apID].Orientations, *c.orientations[oid])
	}
	var functions []model.ProjectFunction
	if len(c.functionOrder) > 0 {
		functions = c.Functions()
	}

	return model.Project{
		ID:           c.id,
		Name:         c.name,
		SceneID:      c.sceneID,
		Description:  c.desc,
		HasLogic:     c.hasLogic,
		Modified:     c.modified,
		ActionPoints: aps,
		Parameters:   c.Parameters(),
		Functions:    functions,
		Logic:        c.Logic(),
	}
}

func removeString(s []string, v string) []string {
	for i, e := range s {
		if e == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
