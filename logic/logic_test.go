package logic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/logic"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
)

// fakeContainer is a minimal logic.Container backed by plain maps, standing
// in for *cache.Project in tests that only need action existence and a flat
// logic-item list.
type fakeContainer struct {
	actions map[string]model.Action
	items   []model.LogicItem
}

func (f fakeContainer) Action(id string) (model.Action, error) {
	a, ok := f.actions[id]
	if !ok {
		return model.Action{}, arcerr.New(arcerr.NotFound, id, "fake.action", "action %q not found", id)
	}
	return a, nil
}

func (f fakeContainer) LogicItems() []model.LogicItem { return f.items }

func twoActionContainer() fakeContainer {
	return fakeContainer{
		actions: map[string]model.Action{
			"ac1": {ID: "ac1", Name: "ac1", Type: "obj/m1", Flows: []model.Flow{
				{Kind: model.FlowKindDefault, Outputs: []string{"out0"}},
			}},
			"ac2": {ID: "ac2", Name: "ac2", Type: "obj/m2"},
		},
	}
}

func TestCheckLogicItemRejectsStartToEndDirect(t *testing.T) {
	c := twoActionContainer()
	err := logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l1", Start: model.Start, End: model.End})
	require.True(t, arcerr.Is(err, arcerr.ConflictingEdges))
}

func TestCheckLogicItemRejectsSameStartAndEndAction(t *testing.T) {
	c := twoActionContainer()
	err := logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l1", Start: "ac1", End: "ac1"})
	require.True(t, arcerr.Is(err, arcerr.ConflictingEdges))
}

func TestCheckLogicItemRejectsUnknownStartAction(t *testing.T) {
	c := twoActionContainer()
	err := logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l1", Start: "ghost", End: "ac2"})
	require.True(t, arcerr.Is(err, arcerr.NotFound))
}

func TestCheckLogicItemRejectsUnknownEndAction(t *testing.T) {
	c := twoActionContainer()
	err := logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l1", Start: model.Start, End: "ghost"})
	require.True(t, arcerr.Is(err, arcerr.NotFound))
}

func TestCheckLogicItemRejectsDuplicateStart(t *testing.T) {
	c := twoActionContainer()
	c.items = []model.LogicItem{{ID: "l1", Start: model.Start, End: "ac1"}}
	err := logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l2", Start: model.Start, End: "ac2"})
	require.True(t, arcerr.Is(err, arcerr.DuplicateStart))
}

func TestCheckLogicItemRejectsSharedStartWithoutBothConditions(t *testing.T) {
	c := twoActionContainer()
	c.items = []model.LogicItem{{ID: "l1", Start: "ac1", End: "ac2"}}
	err := logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l2", Start: "ac1", End: model.End})
	require.True(t, arcerr.Is(err, arcerr.ConflictingEdges))
}

func TestCheckLogicItemRejectsIdenticalConditionValue(t *testing.T) {
	c := twoActionContainer()
	cond := &model.ProjectLogicIf{What: "ac1/default/0", Value: "true"}
	c.items = []model.LogicItem{{ID: "l1", Start: "ac1", End: "ac2", Condition: cond}}
	candidate := model.LogicItem{ID: "l2", Start: "ac1", End: model.End, Condition: &model.ProjectLogicIf{What: "ac1/default/0", Value: "true"}}
	err := logic.CheckLogicItem(c, nil, nil, candidate)
	require.True(t, arcerr.Is(err, arcerr.ConflictingEdges))
}

func TestCheckLogicItemAcceptsDifferentConditionValues(t *testing.T) {
	c := twoActionContainer()
	cond := &model.ProjectLogicIf{What: "ac1/default/0", Value: "true"}
	c.items = []model.LogicItem{{ID: "l1", Start: "ac1", End: "ac2", Condition: cond}}
	candidate := model.LogicItem{ID: "l2", Start: "ac1", End: model.End, Condition: &model.ProjectLogicIf{What: "ac1/default/0", Value: "false"}}
	require.NoError(t, logic.CheckLogicItem(c, nil, nil, candidate))
}

func TestCheckLogicItemRejectsSharedStartAndEnd(t *testing.T) {
	c := twoActionContainer()
	c.items = []model.LogicItem{{ID: "l1", Start: model.Start, End: "ac1"}}
	err := logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l1", Start: model.Start, End: "ac1"})
	require.NoError(t, err) // candidate replaces itself, not a conflict

	err = logic.CheckLogicItem(c, nil, nil, model.LogicItem{ID: "l2", Start: model.Start, End: "ac1"})
	require.Error(t, err)
}

func TestCheckLogicItemRejectsConditionWithOutOfRangeOutput(t *testing.T) {
	c := twoActionContainer()
	candidate := model.LogicItem{
		ID:        "l1",
		Start:     "ac1",
		End:       "ac2",
		Condition: &model.ProjectLogicIf{What: "ac1/default/5", Value: "true"},
	}
	err := logic.CheckLogicItem(c, nil, nil, candidate)
	require.True(t, arcerr.Is(err, arcerr.NotFound))
}

func TestCheckLogicItemRejectsNonBooleanConditionValue(t *testing.T) {
	c := twoActionContainer()
	candidate := model.LogicItem{
		ID:        "l1",
		Start:     "ac1",
		End:       "ac2",
		Condition: &model.ProjectLogicIf{What: "ac1/default/0", Value: `"yes"`},
	}
	err := logic.CheckLogicItem(c, nil, nil, candidate)
	require.True(t, arcerr.Is(err, arcerr.InvalidConditionValue))
}

type fixedReturnTypes struct {
	typeName string
}

func (f fixedReturnTypes) ReturnType(actionType string, outputIndex int) (string, bool) {
	return f.typeName, true
}

func TestCheckLogicItemRejectsUncountableConditionType(t *testing.T) {
	c := twoActionContainer()
	r := plugin.NewRegistry()
	require.NoError(t, plugin.RegisterBuiltins(r))

	candidate := model.LogicItem{
		ID:        "l1",
		Start:     "ac1",
		End:       "ac2",
		Condition: &model.ProjectLogicIf{What: "ac1/default/0", Value: "true"},
	}
	err := logic.CheckLogicItem(c, r, fixedReturnTypes{typeName: "string"}, candidate)
	require.True(t, arcerr.Is(err, arcerr.UnsupportedConditionType))
}

func TestCheckForLoopsAcceptsAcyclicChain(t *testing.T) {
	c := fakeContainer{
		actions: map[string]model.Action{
			"ac1": {ID: "ac1", Name: "ac1"},
			"ac2": {ID: "ac2", Name: "ac2"},
		},
		items: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: "ac2"},
			{ID: "l3", Start: "ac2", End: model.End},
		},
	}
	require.NoError(t, logic.CheckForLoops(c, ""))
}

func TestCheckForLoopsDetectsBackEdge(t *testing.T) {
	c := fakeContainer{
		actions: map[string]model.Action{
			"ac1": {ID: "ac1", Name: "ac1"},
			"ac2": {ID: "ac2", Name: "ac2"},
		},
		items: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: "ac2"},
			{ID: "l3", Start: "ac2", End: "ac1"},
		},
	}
	err := logic.CheckForLoops(c, "")
	require.True(t, arcerr.Is(err, arcerr.LoopDetected))
}

func TestCheckForLoopsRejectsAmbiguousStart(t *testing.T) {
	c := fakeContainer{
		actions: map[string]model.Action{
			"ac1": {ID: "ac1", Name: "ac1"},
			"ac2": {ID: "ac2", Name: "ac2"},
		},
		items: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: model.Start, End: "ac2"},
		},
	}
	err := logic.CheckForLoops(c, "")
	require.True(t, arcerr.Is(err, arcerr.UnfinishedLogic))
}
