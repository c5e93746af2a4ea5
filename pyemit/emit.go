// Package pyemit implements PyEmit: deterministic translation of a cached
// scene+project into the Python script contract described in the project's
// external interface — a fixed head/body/tail template around a recursive
// walk of the logic graph, plus a companion action_points.py module exposing
// exactly the action points the walk actually touches.
//
// Grounded on the literal script skeleton and body-generation rules from
// original_source/src/python/arcor2_build (the compiler that produces
// main.py/action_points.py from a Project) and, for the recursive-descent
// shape of the walk itself, on goadesign-goa-ai/codegen's tree-walking
// code generators.
package pyemit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/plugin"
)

// Result is the pair of source files PyEmit produces.
type Result struct {
	Script       string // main program, the `def main` template
	ActionPoints string // companion action_points.py module
}

// Emit walks project's logic graph from its unique START edge and renders
// the script contract. The project must already have passed the logic
// package's checks: Emit does not detect cycles, and it reports unfinished
// logic or conflicting edges only where the walk runs into them.
func Emit(scene *cache.Scene, project *cache.Project, registry *plugin.Registry) (Result, error) {
	e := newEmitter(scene, project, registry)

	start, err := e.startAction()
	if err != nil {
		return Result{}, err
	}

	bodyLines, _, err := e.emitBranch(start, 0)
	if err != nil {
		return Result{}, err
	}

	script := e.renderScript(bodyLines)
	actionPoints := e.renderActionPoints()
	return Result{Script: script, ActionPoints: actionPoints}, nil
}

func (e *emitter) renderScript(bodyLines []string) string {
	var b strings.Builder
	b.WriteString("#!/usr/bin/env python3\n")
	b.WriteString("# -*- coding: utf-8 -*-\n\n")

	for _, imp := range e.importLines() {
		b.WriteString(imp)
		b.WriteByte('\n')
	}
	b.WriteString("from action_points import ActionPoints\n")
	b.WriteString("from arcor2_runtime.resources import Resources\n")
	b.WriteString("from arcor2_runtime.exceptions import print_exception\n\n")

	b.WriteString("def main(res: Resources) -> None:\n")
	b.WriteString("    aps = ActionPoints(res)\n")
	for _, line := range e.objectBindingLines() {
		b.WriteString("    " + line + "\n")
	}
	for _, line := range e.parameterBindingLines() {
		b.WriteString("    " + line + "\n")
	}
	b.WriteString("    while True:\n")
	for _, line := range bodyLines {
		b.WriteString("        " + line + "\n")
	}
	b.WriteString("        continue\n\n")

	b.WriteString("if __name__ == '__main__':\n")
	b.WriteString("    try:\n")
	b.WriteString("        with Resources() as res:\n")
	b.WriteString("            main(res)\n")
	b.WriteString("    except Exception as e:\n")
	b.WriteString("        print_exception(e)\n")
	return b.String()
}

func (e *emitter) importLines() []string {
	seen := make(map[string]bool)
	var lines []string
	for _, objID := range e.objOrder {
		obj, err := e.scene.Object(objID)
		if err != nil {
			continue
		}
		if seen[obj.TypeName] {
			continue
		}
		seen[obj.TypeName] = true
		lines = append(lines, fmt.Sprintf("from object_types.%s import %s", strings.ToLower(obj.TypeName), obj.TypeName))
	}
	return lines
}

func (e *emitter) objectBindingLines() []string {
	var lines []string
	for _, objID := range e.objOrder {
		obj, err := e.scene.Object(objID)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s = res.objects['%s']", obj.Name, obj.TypeName, obj.ID))
	}
	return lines
}

func (e *emitter) parameterBindingLines() []string {
	var lines []string
	for _, ppID := range e.paramOrder {
		pp, err := e.project.Parameter(ppID)
		if err != nil {
			continue
		}
		lit, err := renderJSONLiteral(pp.Value)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", pp.Name, lit.Render()))
	}
	return lines
}

// startAction finds the unique action referenced by the project's one
// START logic item.
func (e *emitter) startAction() (string, error) {
	for _, li := range e.project.Logic() {
		if li.Start == model.Start {
			return li.End, nil
		}
	}
	return "", fmt.Errorf("pyemit: project has no START logic item")
}

// sortConditionEdges orders a fork's branches: booleans true-before-false,
// then everything else by its raw JSON text, for a stable and readable
// if/elif order without depending on map iteration.
func sortConditionEdges(edges []model.LogicItem) {
	sort.SliceStable(edges, func(i, j int) bool {
		vi, vj := edges[i].Condition.Value, edges[j].Condition.Value
		bi, iOK := isJSONTrue(vi), isJSONBool(vi)
		bj, jOK := isJSONTrue(vj), isJSONBool(vj)
		if iOK && jOK {
			return bi && !bj
		}
		if iOK != jOK {
			return iOK
		}
		return vi < vj
	})
}

func isJSONBool(raw string) bool {
	return raw == "true" || raw == "false"
}

func isJSONTrue(raw string) bool {
	return raw == "true"
}
