package cache

import "github.com/robofit/arcor2-core/arcerr"

// ProjectProblems walks every entity of project (and the scene it is bound
// to) and collects every violation found, instead of failing at the first
// one — useful for an editor-style "show me everything wrong" view.
// Grounded on project_problems/scene_problems in the original source, which
// aggregate problems as a list of strings rather than raising on the first.
//
// Unlike the upsert_* mutators, this never mutates and never replaces them;
// a clean project can still have upsert-time-only problems (e.g. an AP
// parent that became invalid after its target object was removed from the
// scene) that only a full walk like this one surfaces.
func ProjectProblems(scene *Scene, project *Project) arcerr.List {
	var problems arcerr.List

	if project.sceneID != scene.id {
		problems.Add(arcerr.NotFound, project.id, "project.scene_id", "project scene_id %q does not match scene %q", project.sceneID, scene.id)
		return problems
	}

	for _, p := range project.Parameters() {
		if err := checkPrimitiveValue(p.Value); err != nil {
			problems.Add(arcerr.WrongValueShape, p.ID, "project.parameter.value", "project parameter %q has invalid value: %v", p.Name, err)
		}
	}

	for _, ap := range project.ActionPoints() {
		if ap.Parent != "" {
			if err := project.checkParent(scene, ap.ID, ap.Parent); err != nil {
				problems.Add(arcerr.InvalidParent, ap.ID, "project.ap.parent", "action point %q has invalid parent %q", ap.Name, ap.Parent)
			}
		}
	}

	for _, j := range project.joints {
		if _, err := scene.Object(j.RobotID); err != nil {
			problems.Add(arcerr.NotFound, j.ID, "project.joints.robot_id", "joints %q references unknown robot %q", j.Name, j.RobotID)
		}
	}

	return problems
}

// SceneProblems walks every SceneObject and reports an InvalidIdentifier
// problem for any object whose declared type is empty, the minimal
// obj_types-free analogue of check_object in the original source (which
// additionally validates against concrete ObjectType metadata this module
// does not model).
func SceneProblems(scene *Scene) arcerr.List {
	var problems arcerr.List
	for _, obj := range scene.Objects() {
		if obj.TypeName == "" {
			problems.Add(arcerr.InvalidIdentifier, obj.ID, "scene.object.type", "object %q has no type", obj.Name)
		}
	}
	return problems
}
