package plugin

import (
	"encoding/json"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/pyast"
)

// poseArrayPlugin is "pose_array": the parameter value is a JSON array of
// orientation ids, each resolved against the owning action point the same
// way posePlugin resolves a single one. Grounded on PoseListPlugin in
// original_source's pose.py / list.py.
type poseArrayPlugin struct{}

func newPoseArray() Plugin { return poseArrayPlugin{} }

func (poseArrayPlugin) TypeName() string         { return "pose_array" }
func (poseArrayPlugin) Countable() bool          { return false }
func (poseArrayPlugin) RuntimeType() RuntimeType { return RuntimeObject }

func (poseArrayPlugin) orientationIDs(param model.ActionParameter) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(param.Value), &ids); err != nil {
		return nil, arcerr.New(arcerr.WrongValueShape, "", "plugin.pose_array", "parameter %q is not a JSON array of ids: %v", param.Name, err)
	}
	return ids, nil
}

func (p poseArrayPlugin) ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error) {
	_, action, err := project.ActionPointAndAction(actionID)
	if err != nil {
		return nil, err
	}
	param, ok := action.Parameter(parameterID)
	if !ok {
		return nil, arcerr.New(arcerr.NotFound, actionID, "plugin.parameter", "action %q has no parameter %q", actionID, parameterID)
	}
	ids, err := p.orientationIDs(param)
	if err != nil {
		return nil, err
	}
	poses := make([]model.Pose, 0, len(ids))
	for _, oriID := range ids {
		oriAP, ori, err := project.APAndOrientation(oriID)
		if err != nil {
			return nil, err
		}
		poses = append(poses, model.Pose{Position: oriAP.Position, Orientation: ori.Orientation})
	}
	return poses, nil
}

func (p poseArrayPlugin) UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool {
	param, err := lookupParam(project, actionID, parameterID)
	if err != nil {
		return false
	}
	ids, err := p.orientationIDs(param)
	if err != nil {
		return false
	}
	for _, id := range ids {
		if id == orientationID {
			return true
		}
	}
	return false
}

func (poseArrayPlugin) UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool {
	return false
}

func (p poseArrayPlugin) EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error) {
	_, action, err := project.ActionPointAndAction(actionID)
	if err != nil {
		return nil, err
	}
	param, ok := action.Parameter(parameterID)
	if !ok {
		return nil, arcerr.New(arcerr.NotFound, actionID, "plugin.parameter", "action %q has no parameter %q", actionID, parameterID)
	}
	ids, err := p.orientationIDs(param)
	if err != nil {
		return nil, err
	}
	elems := make([]pyast.Expr, 0, len(ids))
	for _, oriID := range ids {
		oriAP, ori, err := project.APAndOrientation(oriID)
		if err != nil {
			return nil, err
		}
		elems = append(elems, pyast.Attribute{
			Value: pyast.Attribute{
				Value: pyast.Attribute{Value: pyast.Name{Id: "aps"}, Attr: oriAP.Name},
				Attr:  "poses",
			},
			Attr: ori.Name,
		})
	}
	return pyast.List{Elems: elems}, nil
}
