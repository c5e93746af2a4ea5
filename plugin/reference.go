package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
	"github.com/robofit/arcor2-core/pyast"
)

// referenceID decodes a parameter value that is itself a JSON string naming
// another entity's id (an orientation, an action point, a joints record),
// grounded on ParameterPlugin._id_from_value in
// original_source/arcor2/parameter_plugins/base.py.
func referenceID(param model.ActionParameter) (string, error) {
	var id string
	if err := json.Unmarshal([]byte(param.Value), &id); err != nil {
		return "", arcerr.New(arcerr.WrongValueShape, "", "plugin.value", "parameter %q is not a JSON string id: %v", param.Name, err)
	}
	return id, nil
}

// posePlugin is "pose": the parameter value names an orientation id; the
// resolved value is the owning action point's position paired with that
// orientation. Grounded on PosePlugin in original_source's pose.py.
type posePlugin struct{}

func newPose() Plugin { return posePlugin{} }

func (posePlugin) TypeName() string         { return "pose" }
func (posePlugin) Countable() bool          { return false }
func (posePlugin) RuntimeType() RuntimeType { return RuntimeObject }

func (p posePlugin) orientationID(project *cache.Project, actionID, parameterID string) (string, error) {
	param, err := lookupParam(project, actionID, parameterID)
	if err != nil {
		return "", err
	}
	return referenceID(param)
}

func (p posePlugin) ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error) {
	oriID, err := p.orientationID(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	ap, ori, err := project.APAndOrientation(oriID)
	if err != nil {
		return nil, err
	}
	return model.Pose{Position: ap.Position, Orientation: ori.Orientation}, nil
}

func (p posePlugin) UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool {
	id, err := p.orientationID(project, actionID, parameterID)
	return err == nil && id == orientationID
}

func (posePlugin) UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool {
	return false
}

func (p posePlugin) EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error) {
	oriID, err := p.orientationID(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	ap, ori, err := project.APAndOrientation(oriID)
	if err != nil {
		return nil, err
	}
	return pyast.Attribute{
		Value: pyast.Attribute{
			Value: pyast.Attribute{Value: pyast.Name{Id: "aps"}, Attr: ap.Name},
			Attr:  "poses",
		},
		Attr: ori.Name,
	}, nil
}

// positionPlugin is "position": the parameter value names an action point
// id; the resolved value is that action point's position. Grounded on
// PositionPlugin in original_source's position.py.
type positionPlugin struct{}

func newPosition() Plugin { return positionPlugin{} }

func (positionPlugin) TypeName() string         { return "position" }
func (positionPlugin) Countable() bool          { return false }
func (positionPlugin) RuntimeType() RuntimeType { return RuntimeObject }

func (p positionPlugin) apID(project *cache.Project, actionID, parameterID string) (string, error) {
	param, err := lookupParam(project, actionID, parameterID)
	if err != nil {
		return "", err
	}
	return referenceID(param)
}

func (p positionPlugin) ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error) {
	apID, err := p.apID(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	ap, err := project.ActionPoint(apID)
	if err != nil {
		return nil, err
	}
	return ap.Position, nil
}

func (positionPlugin) UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool {
	return false
}

func (positionPlugin) UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool {
	return false
}

func (p positionPlugin) EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error) {
	apID, err := p.apID(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	ap, err := project.ActionPoint(apID)
	if err != nil {
		return nil, err
	}
	return pyast.Attribute{
		Value: pyast.Attribute{Value: pyast.Name{Id: "aps"}, Attr: ap.Name},
		Attr:  "position",
	}, nil
}

// jointsPlugin is "joints": the parameter value names a recorded joints
// configuration id, which must belong to the same robot as the action's
// object. Grounded on JointsPlugin in original_source's joints.py.
type jointsPlugin struct{}

func newJoints() Plugin { return jointsPlugin{} }

func (jointsPlugin) TypeName() string         { return "joints" }
func (jointsPlugin) Countable() bool          { return false }
func (jointsPlugin) RuntimeType() RuntimeType { return RuntimeObject }

func (p jointsPlugin) jointsID(project *cache.Project, actionID, parameterID string) (string, error) {
	param, err := lookupParam(project, actionID, parameterID)
	if err != nil {
		return "", err
	}
	return referenceID(param)
}

func (p jointsPlugin) resolve(project *cache.Project, actionID, parameterID string) (model.ProjectActionPoint, model.ProjectRobotJoints, error) {
	jointsID, err := p.jointsID(project, actionID, parameterID)
	if err != nil {
		return model.ProjectActionPoint{}, model.ProjectRobotJoints{}, err
	}
	ap, joints, err := project.APAndJoints(jointsID)
	if err != nil {
		return model.ProjectActionPoint{}, model.ProjectRobotJoints{}, err
	}
	action, err := project.Action(actionID)
	if err != nil {
		return model.ProjectActionPoint{}, model.ProjectRobotJoints{}, err
	}
	robotID, _, ok := action.ParseType()
	if !ok {
		return model.ProjectActionPoint{}, model.ProjectRobotJoints{}, arcerr.New(arcerr.WrongValueShape, actionID, "plugin.joints", "action %q has malformed type %q", actionID, action.Type)
	}
	if joints.RobotID != robotID {
		return model.ProjectActionPoint{}, model.ProjectRobotJoints{}, arcerr.New(arcerr.ProjectParameterTypeMismatch, jointsID, "plugin.joints", "joints %q are for robot %q, action uses robot %q", jointsID, joints.RobotID, robotID)
	}
	return ap, joints, nil
}

func (p jointsPlugin) ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error) {
	_, joints, err := p.resolve(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	return joints, nil
}

func (jointsPlugin) UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool {
	return false
}

func (p jointsPlugin) UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool {
	id, err := p.jointsID(project, actionID, parameterID)
	return err == nil && id == jointsID
}

func (p jointsPlugin) EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error) {
	ap, joints, err := p.resolve(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	return pyast.Attribute{
		Value: pyast.Attribute{
			Value: pyast.Attribute{Value: pyast.Name{Id: "aps"}, Attr: ap.Name},
			Attr:  "joints",
		},
		Attr: joints.Name,
	}, nil
}

// relativePosePlugin is "relative_pose": the parameter value is a full,
// self-contained Pose used as a relative offset (see model.Pose.Compose),
// not a reference into the project. Grounded on RelativePosePlugin in
// original_source's relative_pose.py.
type relativePosePlugin struct {
	schema valueSchema
}

func newRelativePose() Plugin {
	return relativePosePlugin{
		schema: valueSchema{
			shape: compileSchema("arcor2:relative_pose", `{
				"type": "object",
				"required": ["position", "orientation"],
				"properties": {
					"position": {
						"type": "object",
						"required": ["x", "y", "z"],
						"properties": {"x": {"type": "number"}, "y": {"type": "number"}, "z": {"type": "number"}}
					},
					"orientation": {
						"type": "object",
						"required": ["x", "y", "z", "w"],
						"properties": {"x": {"type": "number"}, "y": {"type": "number"}, "z": {"type": "number"}, "w": {"type": "number"}}
					}
				}
			}`),
		},
	}
}

func (relativePosePlugin) TypeName() string         { return "relative_pose" }
func (relativePosePlugin) Countable() bool          { return false }
func (relativePosePlugin) RuntimeType() RuntimeType { return RuntimeObject }

func (p relativePosePlugin) ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error) {
	param, err := lookupParam(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	if _, err := decodeValue(p.schema, param.Value); err != nil {
		return nil, err
	}
	var pose model.Pose
	if err := json.Unmarshal([]byte(param.Value), &pose); err != nil {
		return nil, arcerr.New(arcerr.WrongValueShape, actionID, "plugin.relative_pose", "invalid relative pose: %v", err)
	}
	return pose, nil
}

func (relativePosePlugin) UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool {
	return false
}

func (relativePosePlugin) UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool {
	return false
}

func (p relativePosePlugin) EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error) {
	v, err := p.ParameterValue(scene, project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	pose := v.(model.Pose)
	return pyast.Call{
		Func: pyast.Name{Id: "RelativePose"},
		Args: []pyast.Expr{
			pyast.Call{
				Func: pyast.Name{Id: "Position"},
				Args: []pyast.Expr{
					pyast.Num{Value: pose.Position.X},
					pyast.Num{Value: pose.Position.Y},
					pyast.Num{Value: pose.Position.Z},
				},
			},
			pyast.Call{
				Func: pyast.Name{Id: "Orientation"},
				Args: []pyast.Expr{
					pyast.Num{Value: pose.Orientation.X},
					pyast.Num{Value: pose.Orientation.Y},
					pyast.Num{Value: pose.Orientation.Z},
					pyast.Num{Value: pose.Orientation.W},
				},
			},
		},
	}, nil
}

// imagePlugin is "image": a base64-encoded JPEG. It has no literal Python
// rendering — matches ImagePlugin.parameter_ast raising
// Arcor2NotImplemented in original_source's image.py, since there is no
// sensible way to write an image out as source.
type imagePlugin struct{}

func newImage() Plugin { return imagePlugin{} }

func (imagePlugin) TypeName() string         { return "image" }
func (imagePlugin) Countable() bool          { return false }
func (imagePlugin) RuntimeType() RuntimeType { return RuntimeString }

func (imagePlugin) ParameterValue(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (any, error) {
	param, err := lookupParam(project, actionID, parameterID)
	if err != nil {
		return nil, err
	}
	var b64 string
	if err := json.Unmarshal([]byte(param.Value), &b64); err != nil {
		return nil, arcerr.New(arcerr.WrongValueShape, actionID, "plugin.image", "invalid base64 image value: %v", err)
	}
	return b64, nil
}

func (imagePlugin) UsesOrientation(project *cache.Project, actionID, parameterID, orientationID string) bool {
	return false
}

func (imagePlugin) UsesRobotJoints(project *cache.Project, actionID, parameterID, jointsID string) bool {
	return false
}

func (imagePlugin) EmitASTLiteral(scene *cache.Scene, project *cache.Project, actionID, parameterID string) (pyast.Expr, error) {
	return nil, fmt.Errorf("plugin: image has no literal Python rendering")
}
