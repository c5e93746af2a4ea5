package pyemit_test

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/pyemit"
)

// linearChainProject builds a project with n actions chained
// START -> ac0 -> ac1 -> ... -> END, the shape TestEmitLinearLogic covers by
// hand for a single fixed length.
func linearChainProject(n int) model.Project {
	actions := make([]model.Action, n)
	logicItems := make([]model.LogicItem, 0, n+1)
	prev := model.Start
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("ac%d", i)
		actions[i] = model.Action{ID: id, Name: id, Type: "obj/test"}
		logicItems = append(logicItems, model.LogicItem{ID: fmt.Sprintf("l%d", i), Start: prev, End: id})
		prev = id
	}
	logicItems = append(logicItems, model.LogicItem{ID: "ltail", Start: prev, End: model.End})

	return model.Project{
		ID: "proj1", Name: "proj1", SceneID: "scene1",
		ActionPoints: []model.ProjectActionPoint{{ID: "ap1", Name: "ap1", Actions: actions}},
		Logic:        logicItems,
	}
}

// TestEmitIsDeterministicProperty verifies that emitting the same project
// twice, for any chain length, produces byte-identical output both times.
func TestEmitIsDeterministicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("emitting the same project twice yields identical scripts", prop.ForAll(
		func(n int) bool {
			proj := linearChainProject(n)
			scene, cp := newSceneAndProject(t, proj)
			registry := newRegistry(t)

			first, err := pyemit.Emit(scene, cp, registry)
			if err != nil {
				return false
			}
			second, err := pyemit.Emit(scene, cp, registry)
			if err != nil {
				return false
			}
			return first.Script == second.Script && first.ActionPoints == second.ActionPoints
		},
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}

// TestEmitLinearChainContainsEveryActionProperty verifies that for any
// chain length, every action call appears exactly once in the emitted
// script.
func TestEmitLinearChainContainsEveryActionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("every action in the chain is emitted exactly once", prop.ForAll(
		func(n int) bool {
			proj := linearChainProject(n)
			scene, cp := newSceneAndProject(t, proj)
			result, err := pyemit.Emit(scene, cp, newRegistry(t))
			if err != nil {
				return false
			}
			for i := 0; i < n; i++ {
				marker := fmt.Sprintf("an='ac%d'", i)
				if count := stringsCount(result.Script, marker); count != 1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}

func stringsCount(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
		}
	}
	return count
}
