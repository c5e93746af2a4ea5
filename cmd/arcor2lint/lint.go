package main

import (
	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/logic"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
	"github.com/robofit/arcor2-core/resolve"
)

// lint runs every check this module implements against scene and project,
// collecting every problem found rather than stopping at the first, per
// the teacher's "show me everything wrong" diagnostics idiom.
func lint(scene *cache.Scene, project *cache.Project, registry *plugin.Registry) arcerr.List {
	var problems arcerr.List

	problems = append(problems, cache.SceneProblems(scene)...)
	problems = append(problems, cache.ProjectProblems(scene, project)...)

	for _, action := range project.Actions() {
		for _, param := range action.Parameters {
			if _, err := resolve.Resolve(scene, project, registry, action.ID, param.Name); err != nil {
				problems.Add(arcerr.WrongValueShape, action.ID, "lint.parameter", "action %q parameter %q: %v", action.Name, param.Name, err)
			}
		}
	}

	for _, item := range project.LogicItems() {
		if err := logic.CheckLogicItem(project, registry, nil, item); err != nil {
			problems.Add(arcerr.ConflictingEdges, item.ID, "lint.logic", "logic item %q: %v", item.ID, err)
		}
	}

	if start, ok := startAction(project); ok {
		if err := logic.CheckForLoops(project, start); err != nil {
			problems.Add(arcerr.LoopDetected, start, "lint.logic.loop", "%v", err)
		}
	}

	return problems
}

func startAction(project *cache.Project) (string, bool) {
	for _, li := range project.Logic() {
		if li.Start == model.Start {
			return li.End, true
		}
	}
	return "", false
}
