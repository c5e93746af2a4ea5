package pyemit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
	"github.com/robofit/arcor2-core/pyemit"
)

func newRegistry(t *testing.T) *plugin.Registry {
	t.Helper()
	r := plugin.NewRegistry()
	require.NoError(t, plugin.RegisterBuiltins(r))
	return r
}

func newSceneAndProject(t *testing.T, proj model.Project) (*cache.Scene, *cache.Project) {
	t.Helper()
	scene, err := cache.NewScene(model.Scene{
		ID:   "scene1",
		Name: "scene1",
		Objects: []model.SceneObject{
			{ID: "obj", Name: "test_name", TypeName: "Test"},
		},
	})
	require.NoError(t, err)
	cp, err := cache.NewProject(proj)
	require.NoError(t, err)
	return scene, cp
}

// S1: simple linear logic.
func TestEmitLinearLogic(t *testing.T) {
	proj := model.Project{
		ID: "proj1", Name: "proj1", SceneID: "scene1",
		ActionPoints: []model.ProjectActionPoint{
			{
				ID: "ap1", Name: "ap1",
				Actions: []model.Action{
					{ID: "ac1", Name: "ac1", Type: "obj/test"},
					{ID: "ac2", Name: "ac2", Type: "obj/test"},
				},
			},
		},
		Logic: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: "ac2"},
			{ID: "l3", Start: "ac2", End: model.End},
		},
	}
	scene, cp := newSceneAndProject(t, proj)
	result, err := pyemit.Emit(scene, cp, newRegistry(t))
	require.NoError(t, err)
	require.Contains(t, result.Script, "test_name.test(an='ac1')")
	require.Contains(t, result.Script, "test_name.test(an='ac2')")
	require.Contains(t, result.Script, "while True:")
	require.Contains(t, result.Script, "from object_types.test import Test")
	require.Contains(t, result.Script, "test_name: Test = res.objects['obj']")
}

// S3: conditional branch converging on a shared successor.
func TestEmitConditionalBranch(t *testing.T) {
	proj := model.Project{
		ID: "proj1", Name: "proj1", SceneID: "scene1",
		ActionPoints: []model.ProjectActionPoint{
			{
				ID: "ap1", Name: "ap1",
				Actions: []model.Action{
					{ID: "ac1", Name: "ac1", Type: "obj/test", Flows: []model.Flow{{Kind: model.FlowKindDefault, Outputs: []string{"bool_res"}}}},
					{ID: "ac2", Name: "ac2", Type: "obj/test"},
					{ID: "ac3", Name: "ac3", Type: "obj/test"},
					{ID: "ac4", Name: "ac4", Type: "obj/test"},
				},
			},
		},
		Logic: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: "ac2", Condition: &model.ProjectLogicIf{What: "ac1/default/0", Value: "true"}},
			{ID: "l3", Start: "ac1", End: "ac3", Condition: &model.ProjectLogicIf{What: "ac1/default/0", Value: "false"}},
			{ID: "l4", Start: "ac2", End: "ac4"},
			{ID: "l5", Start: "ac3", End: "ac4"},
			{ID: "l6", Start: "ac4", End: model.End},
		},
	}
	scene, cp := newSceneAndProject(t, proj)
	result, err := pyemit.Emit(scene, cp, newRegistry(t))
	require.NoError(t, err)
	require.Contains(t, result.Script, "if bool_res == True:")
	require.Contains(t, result.Script, "elif bool_res == False:")
	require.Contains(t, result.Script, "test_name.test(an='ac4')")
	// ac4 must be emitted exactly once, not once per branch.
	require.Equal(t, 1, countOccurrences(result.Script, "test_name.test(an='ac4')"))
}

// S4: project parameter binding.
func TestEmitProjectParameter(t *testing.T) {
	proj := model.Project{
		ID: "proj1", Name: "proj1", SceneID: "scene1",
		Parameters: []model.ProjectParameter{
			{ID: "pp1", Name: "int_const", Type: "integer", Value: "1234"},
		},
		ActionPoints: []model.ProjectActionPoint{
			{
				ID: "ap1", Name: "ap1",
				Actions: []model.Action{
					{
						ID: "ac1", Name: "ac1", Type: "obj/test_par",
						Parameters: []model.ActionParameter{
							{Name: "value", Type: model.TypeProjectParameter, Value: `"pp1"`},
						},
					},
				},
			},
		},
		Logic: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: model.End},
		},
	}
	scene, cp := newSceneAndProject(t, proj)
	result, err := pyemit.Emit(scene, cp, newRegistry(t))
	require.NoError(t, err)
	require.Contains(t, result.Script, "int_const = 1234")
	require.Contains(t, result.Script, "test_name.test_par(int_const, an='ac1')")
}

// S5: previous-result link.
func TestEmitPreviousResultLink(t *testing.T) {
	proj := model.Project{
		ID: "proj1", Name: "proj1", SceneID: "scene1",
		ActionPoints: []model.ProjectActionPoint{
			{
				ID: "ap1", Name: "ap1",
				Actions: []model.Action{
					{ID: "ac1", Name: "ac1", Type: "obj/get_int", Flows: []model.Flow{{Kind: model.FlowKindDefault, Outputs: []string{"res"}}}},
					{
						ID: "ac2", Name: "ac2", Type: "obj/test_par",
						Parameters: []model.ActionParameter{
							{Name: "value", Type: model.TypeLink, Value: `"ac1/default/0"`},
						},
					},
				},
			},
		},
		Logic: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: "ac2"},
			{ID: "l3", Start: "ac2", End: model.End},
		},
	}
	scene, cp := newSceneAndProject(t, proj)
	result, err := pyemit.Emit(scene, cp, newRegistry(t))
	require.NoError(t, err)
	require.Contains(t, result.Script, "res = test_name.get_int(an='ac1')")
	require.Contains(t, result.Script, "test_name.test_par(res, an='ac2')")
}

// The whole-graph START->END case must still produce syntactically valid
// Python: a non-empty while-loop body.
func TestEmitEmptyLogicIsJustContinue(t *testing.T) {
	proj := model.Project{
		ID: "proj1", Name: "proj1", SceneID: "scene1",
		Logic: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: model.End},
		},
	}
	scene, cp := newSceneAndProject(t, proj)
	result, err := pyemit.Emit(scene, cp, newRegistry(t))
	require.NoError(t, err)
	require.Contains(t, result.Script, "while True:\n        continue\n")
}

func TestEmitActionPointsCompanionOnlyIncludesReferencedAPs(t *testing.T) {
	proj := model.Project{
		ID: "proj1", Name: "proj1", SceneID: "scene1",
		ActionPoints: []model.ProjectActionPoint{
			{
				ID: "ap1", Name: "ap1", Position: model.Position{X: 1, Y: 2, Z: 3},
				Actions: []model.Action{
					{
						ID: "ac1", Name: "ac1", Type: "obj/move",
						Parameters: []model.ActionParameter{
							{Name: "pos", Type: "position", Value: `"ap1"`},
						},
					},
				},
			},
			{ID: "ap2", Name: "ap2"}, // unreferenced, must not appear
		},
		Logic: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: model.End},
		},
	}
	scene, cp := newSceneAndProject(t, proj)
	result, err := pyemit.Emit(scene, cp, newRegistry(t))
	require.NoError(t, err)
	require.Contains(t, result.ActionPoints, "APAp1")
	require.NotContains(t, result.ActionPoints, "APAp2")
	require.Contains(t, result.Script, "aps.ap1.position")
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
