// Package logic validates a project's control-flow graph: well-formed
// start/end endpoints, unique outgoing-condition coverage, type-checked
// conditions referencing prior action outputs, and absence of cycles.
//
// Grounded on check_logic_item and check_for_loops in
// src/python/arcor2_arserver/checks.py and src/python/arcor2/logic.py.
package logic

import (
	"encoding/json"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
)

// Container is anything with an addressable action set and a logic graph:
// *cache.Project and *model.ProjectFunction both satisfy it.
type Container interface {
	Action(id string) (model.Action, error)
	LogicItems() []model.LogicItem
}

// ReturnTypes resolves the plugin type name an action's output index
// produces. It is optional: when nil, CheckLogicItem skips the
// countable/boolean condition-type check (§4.4 rule 4b/4c), matching the
// source's "when obj_types metadata is available" carve-out — this module
// has no concrete ObjectType registry.
type ReturnTypes interface {
	// ReturnType resolves the plugin type name of the outputIndex-th return
	// value of action.Type (the "<object_id>/<method>" action kind).
	ReturnType(actionType string, outputIndex int) (pluginTypeName string, ok bool)
}

// CheckLogicItem validates candidate against the rest of c's logic graph,
// per §4.4. returns may be nil. registry resolves condition return-type
// plugins and is consulted only when returns is non-nil and resolves a type
// for the condition's output; in that case a nil registry fails with
// UnknownPlugin.
func CheckLogicItem(c Container, registry *plugin.Registry, returns ReturnTypes, candidate model.LogicItem) error {
	if candidate.Start == model.Start && candidate.End == model.End {
		return arcerr.New(arcerr.ConflictingEdges, candidate.ID, "logic.start_end", "a logic item can't go directly from START to END")
	}

	if candidate.Start != model.Start {
		ps := model.ParseStart(candidate.Start)
		if ps.ActionID == candidate.End {
			return arcerr.New(arcerr.ConflictingEdges, candidate.ID, "logic.start_end", "start and end can't be the same action %q", ps.ActionID)
		}
		if _, err := c.Action(ps.ActionID); err != nil {
			return arcerr.New(arcerr.NotFound, candidate.ID, "logic.start", "logic item has unknown start action %q", ps.ActionID)
		}
		if ps.Flow != model.FlowKindDefault {
			return arcerr.New(arcerr.UnsupportedConditionType, candidate.ID, "logic.start.flow", "only flow %q is supported, got %q", model.FlowKindDefault, ps.Flow)
		}
	}

	if candidate.End != model.End {
		if _, err := c.Action(candidate.End); err != nil {
			return arcerr.New(arcerr.NotFound, candidate.ID, "logic.end", "logic item has unknown end action %q", candidate.End)
		}
	}

	if candidate.Condition != nil {
		if err := checkCondition(c, registry, returns, candidate); err != nil {
			return err
		}
	}

	for _, existing := range c.LogicItems() {
		if existing.ID == candidate.ID {
			continue // candidate replaces this item
		}

		if candidate.Start == model.Start && existing.Start == model.Start {
			return arcerr.New(arcerr.DuplicateStart, candidate.ID, "logic.start", "START already defined")
		}

		if candidate.Start == existing.Start {
			if candidate.Condition == nil || existing.Condition == nil {
				return arcerr.New(arcerr.ConflictingEdges, candidate.ID, "logic.condition", "two junctions share start %q without both having a condition", candidate.Start)
			}
			if *candidate.Condition == *existing.Condition {
				return arcerr.New(arcerr.ConflictingEdges, candidate.ID, "logic.condition", "two junctions with the same start %q must have different condition values", candidate.Start)
			}
		}

		if candidate.End == existing.End && candidate.Start == existing.Start {
			return arcerr.New(arcerr.ConflictingEdges, candidate.ID, "logic.start_end", "junctions can't share both start %q and end %q", candidate.Start, candidate.End)
		}
	}

	return nil
}

func checkCondition(c Container, registry *plugin.Registry, returns ReturnTypes, candidate model.LogicItem) error {
	ref, err := model.ParseOutputRef(candidate.Condition.What)
	if err != nil {
		return arcerr.New(arcerr.NotFound, candidate.ID, "logic.condition.what", "%v", err)
	}

	action, err := c.Action(ref.ActionID)
	if err != nil {
		return arcerr.New(arcerr.NotFound, candidate.ID, "logic.condition.what", "condition references unknown action %q", ref.ActionID)
	}

	flow, ok := action.Flow(ref.Flow)
	if !ok {
		return arcerr.New(arcerr.NotFound, candidate.ID, "logic.condition.what", "action %q has no flow %q", ref.ActionID, ref.Flow)
	}
	if ref.OutputIndex < 0 || ref.OutputIndex >= len(flow.Outputs) {
		return arcerr.New(arcerr.NotFound, candidate.ID, "logic.condition.what", "flow %q does not have output with index %d", ref.Flow, ref.OutputIndex)
	}

	if returns != nil {
		typeName, ok := returns.ReturnType(action.Type, ref.OutputIndex)
		if ok {
			if registry == nil {
				return arcerr.New(arcerr.UnknownPlugin, candidate.ID, "logic.condition.plugin", "no plugin registry available to validate condition type %q", typeName)
			}
			p, err := registry.ByName(typeName)
			if err != nil {
				return arcerr.New(arcerr.UnknownPlugin, candidate.ID, "logic.condition.plugin", "unknown plugin %q for condition output", typeName)
			}
			if !p.Countable() {
				return arcerr.New(arcerr.UnsupportedConditionType, candidate.ID, "logic.condition.type", "output of type %q can't be branched", typeName)
			}
			if p.RuntimeType() != plugin.RuntimeBool {
				return arcerr.New(arcerr.UnsupportedConditionType, candidate.ID, "logic.condition.type", "unsupported condition type %q", typeName)
			}
		}
	}

	var v any
	if err := json.Unmarshal([]byte(candidate.Condition.Value), &v); err != nil {
		return arcerr.New(arcerr.InvalidConditionValue, candidate.ID, "logic.condition.value", "invalid condition value %q", candidate.Condition.Value)
	}
	if _, ok := v.(bool); !ok {
		return arcerr.New(arcerr.InvalidConditionValue, candidate.ID, "logic.condition.value", "condition value must be a JSON boolean, got %q", candidate.Condition.Value)
	}

	return nil
}

// CheckForLoops walks the logic graph depth-first from firstActionID (or,
// if empty, from the action reached by the container's unique START edge)
// and fails with LoopDetected if an action is revisited before reaching END.
func CheckForLoops(c Container, firstActionID string) error {
	outputs := make(map[string][]model.LogicItem)
	var startCount int
	var startTarget string
	for _, item := range c.LogicItems() {
		if item.Start == model.Start {
			startCount++
			startTarget = item.End
			continue
		}
		ps := model.ParseStart(item.Start)
		outputs[ps.ActionID] = append(outputs[ps.ActionID], item)
	}

	if firstActionID == "" {
		if startCount != 1 {
			return arcerr.New(arcerr.UnfinishedLogic, "", "logic.start", "can't check unfinished logic: expected exactly one START edge, found %d", startCount)
		}
		if startTarget == model.End {
			return nil
		}
		firstActionID = startTarget
	}

	if _, err := c.Action(firstActionID); err != nil {
		return arcerr.New(arcerr.NotFound, firstActionID, "logic.start", "unknown start action %q", firstActionID)
	}

	visited := make(map[string]bool)
	var walk func(actionID string) error
	walk = func(actionID string) error {
		if visited[actionID] {
			return arcerr.New(arcerr.LoopDetected, actionID, "logic.cycle", "loop detected at action %q", actionID)
		}
		visited[actionID] = true
		for _, out := range outputs[actionID] {
			if out.End == model.End {
				continue
			}
			if err := walk(out.End); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(firstActionID)
}
