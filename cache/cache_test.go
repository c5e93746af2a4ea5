package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/cache"
	"github.com/robofit/arcor2-core/model"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func testScene() model.Scene {
	return model.Scene{
		ID:   "scene1",
		Name: "scene1",
		Objects: []model.SceneObject{
			{ID: "robot1", Name: "robot1", TypeName: "KukaKr10", Pose: &model.Pose{Orientation: model.IdentityOrientation}},
		},
	}
}

func testProject() model.Project {
	return model.Project{
		ID:      "proj1",
		Name:    "proj1",
		SceneID: "scene1",
		ActionPoints: []model.ProjectActionPoint{
			{
				ID:   "ap1",
				Name: "ap1",
				Actions: []model.Action{
					{ID: "ac1", Name: "ac1", Type: "robot1/move"},
				},
				Orientations: []model.NamedOrientation{
					{ID: "ori1", Name: "default", Orientation: model.IdentityOrientation},
				},
				RobotJoints: []model.ProjectRobotJoints{
					{ID: "j1", Name: "j1", RobotID: "robot1"},
				},
			},
		},
		Parameters: []model.ProjectParameter{
			{ID: "pp1", Name: "speed", Type: "integer", Value: "50"},
		},
		Logic: []model.LogicItem{
			{ID: "l1", Start: model.Start, End: "ac1"},
			{ID: "l2", Start: "ac1", End: model.End},
		},
	}
}

func TestNewSceneRejectsDuplicateObjectID(t *testing.T) {
	s := testScene()
	s.Objects = append(s.Objects, model.SceneObject{ID: "robot1", Name: "robot2", TypeName: "KukaKr10"})
	_, err := cache.NewScene(s)
	require.True(t, arcerr.Is(err, arcerr.DuplicateId))
}

func TestNewSceneRejectsDuplicateObjectName(t *testing.T) {
	s := testScene()
	s.Objects = append(s.Objects, model.SceneObject{ID: "robot2", Name: "robot1", TypeName: "KukaKr10"})
	_, err := cache.NewScene(s)
	require.True(t, arcerr.Is(err, arcerr.DuplicateName))
}

func TestNewSceneRejectsInvalidIdentifierName(t *testing.T) {
	s := testScene()
	s.Objects[0].Name = "1robot"
	_, err := cache.NewScene(s)
	require.True(t, arcerr.Is(err, arcerr.InvalidIdentifier))
}

func TestSceneSnapshotRoundTrip(t *testing.T) {
	s := testScene()
	c, err := cache.NewScene(s)
	require.NoError(t, err)
	require.Equal(t, s, c.Snapshot())
}

func TestSceneUpsertAndRemoveObjectSymmetry(t *testing.T) {
	s := testScene()
	c, err := cache.NewScene(s)
	require.NoError(t, err)
	before := c.Snapshot()

	require.NoError(t, c.UpsertObject(model.SceneObject{ID: "cam1", Name: "cam1", TypeName: "Camera"}))
	require.Len(t, c.Objects(), 2)

	removed, err := c.RemoveObject("cam1")
	require.NoError(t, err)
	require.Equal(t, "cam1", removed.ID)
	require.Equal(t, before, c.Snapshot())
}

func TestSceneUpsertIdempotent(t *testing.T) {
	s := testScene()
	clk := fixedClock{t: time.Unix(100, 0)}
	c, err := cache.NewScene(s, cache.WithClock(clk))
	require.NoError(t, err)

	obj := model.SceneObject{ID: "cam1", Name: "cam1", TypeName: "Camera"}
	require.NoError(t, c.UpsertObject(obj))
	first := c.Snapshot()
	require.NoError(t, c.UpsertObject(obj))
	require.Equal(t, first, c.Snapshot())
}

func TestSceneHasChanges(t *testing.T) {
	s := testScene()
	c, err := cache.NewScene(s)
	require.NoError(t, err)
	require.False(t, c.HasChanges())

	require.NoError(t, c.UpsertObject(model.SceneObject{ID: "cam1", Name: "cam1", TypeName: "Camera"}))
	require.True(t, c.HasChanges())
}

func TestNewProjectRejectsDuplicateActionID(t *testing.T) {
	p := testProject()
	p.ActionPoints[0].Actions = append(p.ActionPoints[0].Actions, model.Action{ID: "ac1", Name: "ac1dup", Type: "robot1/move"})
	_, err := cache.NewProject(p)
	require.True(t, arcerr.Is(err, arcerr.DuplicateId))
}

func TestNewProjectRejectsDuplicateActionPointName(t *testing.T) {
	p := testProject()
	p.ActionPoints = append(p.ActionPoints, model.ProjectActionPoint{ID: "ap2", Name: "ap1"})
	_, err := cache.NewProject(p)
	require.True(t, arcerr.Is(err, arcerr.DuplicateName))
}

func TestNewProjectRejectsDuplicateParameterName(t *testing.T) {
	p := testProject()
	p.Parameters = append(p.Parameters, model.ProjectParameter{ID: "pp2", Name: "speed", Type: "integer", Value: "1"})
	_, err := cache.NewProject(p)
	require.True(t, arcerr.Is(err, arcerr.DuplicateName))
}

func TestNewProjectRejectsNonPrimitiveParameterValue(t *testing.T) {
	p := testProject()
	p.Parameters[0].Value = `{"nested": true}`
	_, err := cache.NewProject(p)
	require.True(t, arcerr.Is(err, arcerr.WrongValueShape))
}

func TestNewProjectRejectsLogicItemReferencingUnknownAction(t *testing.T) {
	p := testProject()
	p.Logic = append(p.Logic, model.LogicItem{ID: "l3", Start: "ghost", End: model.End})
	_, err := cache.NewProject(p)
	require.True(t, arcerr.Is(err, arcerr.NotFound))
}

func TestNewProjectRejectsDuplicateLogicItemID(t *testing.T) {
	p := testProject()
	p.Logic = append(p.Logic, model.LogicItem{ID: "l1", Start: "ac1", End: model.End})
	_, err := cache.NewProject(p)
	require.True(t, arcerr.Is(err, arcerr.DuplicateId))
}

func TestProjectSnapshotRoundTrip(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)
	require.Equal(t, p, c.Snapshot())
}

func TestProjectParameterOrderMatchesConstruction(t *testing.T) {
	p := testProject()
	p.Parameters = append(p.Parameters, model.ProjectParameter{ID: "pp2", Name: "retries", Type: "integer", Value: "3"})
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	params := c.Parameters()
	require.Len(t, params, 2)
	require.Equal(t, "speed", params[0].Name)
	require.Equal(t, "retries", params[1].Name)
}

func TestProjectUpsertActionRejectsWrongParent(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	err = c.UpsertAction("ap1", model.Action{ID: "ac1", Name: "ac1", Type: "robot1/move2"})
	require.NoError(t, err)

	err = c.UpsertAction("missing-ap", model.Action{ID: "ac2", Name: "ac2", Type: "robot1/move"})
	require.True(t, arcerr.Is(err, arcerr.NotFound))
}

func TestProjectUpsertActionIdempotent(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	action := model.Action{ID: "ac2", Name: "ac2", Type: "robot1/move"}
	require.NoError(t, c.UpsertAction("ap1", action))
	first := c.Snapshot()
	require.NoError(t, c.UpsertAction("ap1", action))
	require.Equal(t, first, c.Snapshot())
}

func TestProjectUpsertActionRejectsReparenting(t *testing.T) {
	p := testProject()
	p.ActionPoints = append(p.ActionPoints, model.ProjectActionPoint{ID: "ap2", Name: "ap2"})
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	err = c.UpsertAction("ap2", model.Action{ID: "ac1", Name: "ac1", Type: "robot1/move"})
	require.True(t, arcerr.Is(err, arcerr.InvalidParent))
}

func TestProjectRemoveActionRestoresSnapshot(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)
	before := c.Snapshot()

	require.NoError(t, c.UpsertAction("ap1", model.Action{ID: "ac2", Name: "ac2", Type: "robot1/move"}))
	_, err = c.RemoveAction("ac2")
	require.NoError(t, err)
	require.Equal(t, before, c.Snapshot())
}

func TestProjectRemoveActionPointCascades(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	_, err = c.RemoveActionPoint("ap1")
	require.NoError(t, err)

	require.Empty(t, c.ActionPoints())
	require.Empty(t, c.Actions())
	_, err = c.Action("ac1")
	require.True(t, arcerr.Is(err, arcerr.NotFound))
}

func TestProjectUpsertActionPointRejectsParentLoop(t *testing.T) {
	p := testProject()
	p.ActionPoints = append(p.ActionPoints, model.ProjectActionPoint{ID: "ap2", Name: "ap2", Parent: "ap1"})
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	_, err = c.UpsertActionPoint(nil, "ap1", "ap1", model.Position{}, "ap2")
	require.True(t, arcerr.Is(err, arcerr.ParentLoop))
}

func TestProjectUpsertActionPointRejectsUnposedObjectParent(t *testing.T) {
	s := testScene()
	s.Objects = append(s.Objects, model.SceneObject{ID: "unposed1", Name: "unposed1", TypeName: "Thing"})
	sc, err := cache.NewScene(s)
	require.NoError(t, err)

	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	_, err = c.UpsertActionPoint(sc, "ap2", "ap2", model.Position{}, "unposed1")
	require.True(t, arcerr.Is(err, arcerr.InvalidParent))
}

func TestProjectUpsertLogicItemRejectsUnknownConditionAction(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	err = c.UpsertLogicItem(model.LogicItem{
		ID:    "l3",
		Start: "ac1",
		End:   model.End,
		Condition: &model.ProjectLogicIf{
			What:  "ghost/default/0",
			Value: "true",
		},
	})
	require.True(t, arcerr.Is(err, arcerr.NotFound))
}

func TestProjectRemoveLogicItemSymmetry(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)
	before := c.Snapshot()

	require.NoError(t, c.UpsertLogicItem(model.LogicItem{ID: "l3", Start: "ac1", End: model.End}))
	_, err = c.RemoveLogicItem("l3")
	require.NoError(t, err)
	require.Equal(t, before, c.Snapshot())
}

func TestProjectClearLogic(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	c.ClearLogic()
	require.Empty(t, c.Logic())
}

func TestProjectUpsertProjectParameterRejectsDuplicateName(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)

	err = c.UpsertProjectParameter(model.ProjectParameter{ID: "pp2", Name: "speed", Type: "integer", Value: "1"})
	require.True(t, arcerr.Is(err, arcerr.DuplicateName))
}

func TestProjectRemoveProjectParameterSymmetry(t *testing.T) {
	p := testProject()
	c, err := cache.NewProject(p)
	require.NoError(t, err)
	before := c.Snapshot()

	require.NoError(t, c.UpsertProjectParameter(model.ProjectParameter{ID: "pp2", Name: "retries", Type: "integer", Value: "3"}))
	_, err = c.RemoveProjectParameter("pp2")
	require.NoError(t, err)
	require.Equal(t, before, c.Snapshot())
}

func TestProjectProblemsDetectsSceneIDMismatch(t *testing.T) {
	s := testScene()
	sc, err := cache.NewScene(s)
	require.NoError(t, err)

	p := testProject()
	p.SceneID = "other-scene"
	pc, err := cache.NewProject(p)
	require.NoError(t, err)

	problems := cache.ProjectProblems(sc, pc)
	require.Len(t, problems, 1)
	require.True(t, arcerr.Is(problems[0], arcerr.NotFound))
}

func TestProjectProblemsDetectsUnknownJointsRobot(t *testing.T) {
	s := testScene()
	sc, err := cache.NewScene(s)
	require.NoError(t, err)

	p := testProject()
	p.ActionPoints[0].RobotJoints[0].RobotID = "ghost-robot"
	pc, err := cache.NewProject(p)
	require.NoError(t, err)

	problems := cache.ProjectProblems(sc, pc)
	require.Len(t, problems, 1)
	require.True(t, arcerr.Is(problems[0], arcerr.NotFound))
}

func TestProjectProblemsCleanProjectHasNone(t *testing.T) {
	s := testScene()
	sc, err := cache.NewScene(s)
	require.NoError(t, err)

	p := testProject()
	pc, err := cache.NewProject(p)
	require.NoError(t, err)

	require.Empty(t, cache.ProjectProblems(sc, pc))
}

func TestSceneProblemsDetectsMissingType(t *testing.T) {
	s := testScene()
	s.Objects = append(s.Objects, model.SceneObject{ID: "obj2", Name: "obj2"})
	sc, err := cache.NewScene(s)
	require.NoError(t, err)

	problems := cache.SceneProblems(sc)
	require.Len(t, problems, 1)
	require.True(t, arcerr.Is(problems[0], arcerr.InvalidIdentifier))
}
