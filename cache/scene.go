package cache

import (
	"time"

	"github.com/robofit/arcor2-core/arcerr"
	"github.com/robofit/arcor2-core/model"
)

// Scene is a mutation-aware, indexed view over a model.Scene. It owns a deep
// copy of the input; the caller's Scene is never mutated through it.
//
// Grounded on CachedScene/UpdateableCachedScene in the original source: a
// single Go type covers both, since the distinction there is only about
// which methods are exposed.
type Scene struct {
	id          string
	name        string
	desc        string
	modified    *time.Time
	intModified *time.Time

	objects   map[string]*model.SceneObject
	namesToID map[string]string
	order     []string // object ids in construction order, for snapshot()
	clock     Clock
}

// NewScene builds a Scene from s, rejecting duplicate object ids or names,
// and names that are not valid identifiers.
func NewScene(s model.Scene, opts ...Option) (*Scene, error) {
	cfg := newConfig(opts)

	c := &Scene{
		id:          s.ID,
		name:        s.Name,
		desc:        s.Description,
		modified:    s.Modified,
		intModified: s.IntModified,
		objects:     make(map[string]*model.SceneObject, len(s.Objects)),
		namesToID:   make(map[string]string, len(s.Objects)),
		clock:       cfg.clock,
	}

	for i := range s.Objects {
		obj := s.Objects[i]
		if _, exists := c.objects[obj.ID]; exists {
			return nil, arcerr.New(arcerr.DuplicateId, obj.ID, "scene.object.id", "duplicate object id %q", obj.ID)
		}
		if !model.IsValidIdentifier(obj.Name) {
			return nil, arcerr.New(arcerr.InvalidIdentifier, obj.ID, "scene.object.name", "object name %q is not a valid identifier", obj.Name)
		}
		if other, exists := c.namesToID[obj.Name]; exists {
			return nil, arcerr.New(arcerr.DuplicateName, obj.ID, "scene.object.name", "object name %q duplicates object %s", obj.Name, other)
		}
		cp := obj
		c.objects[obj.ID] = &cp
		c.namesToID[obj.Name] = obj.ID
		c.order = append(c.order, obj.ID)
	}

	return c, nil
}

// ID returns the scene id.
func (c *Scene) ID() string { return c.id }

// Name returns the scene name.
func (c *Scene) Name() string { return c.name }

// Object returns the SceneObject with the given id.
func (c *Scene) Object(id string) (model.SceneObject, error) {
	o, ok := c.objects[id]
	if !ok {
		return model.SceneObject{}, arcerr.New(arcerr.NotFound, id, "scene.object", "object %q not found", id)
	}
	return *o, nil
}

// ObjectByName returns the SceneObject with the given name.
func (c *Scene) ObjectByName(name string) (model.SceneObject, error) {
	id, ok := c.namesToID[name]
	if !ok {
		return model.SceneObject{}, arcerr.New(arcerr.NotFound, name, "scene.object.name", "object named %q not found", name)
	}
	return *c.objects[id], nil
}

// Objects returns every object, in construction order.
func (c *Scene) Objects() []model.SceneObject {
	out := make([]model.SceneObject, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.objects[id])
	}
	return out
}

// HasChanges reports whether the scene has unsaved mutations: an
// int_modified timestamp strictly after modified (or any int_modified at
// all, if modified was never set).
func (c *Scene) HasChanges() bool {
	if c.intModified == nil {
		return false
	}
	if c.modified == nil {
		return true
	}
	return c.intModified.After(*c.modified)
}

func (c *Scene) updateModified() {
	t := c.clock.Now()
	c.intModified = &t
}

// UpsertObject inserts or replaces obj, preserving the uniqueness
// invariants checked at construction.
func (c *Scene) UpsertObject(obj model.SceneObject) error {
	if existing, ok := c.objects[obj.ID]; ok {
		if existing.Name != obj.Name {
			if other, exists := c.namesToID[obj.Name]; exists && other != obj.ID {
				return arcerr.New(arcerr.DuplicateName, obj.ID, "scene.object.name", "object name %q duplicates object %s", obj.Name, other)
			}
			delete(c.namesToID, existing.Name)
			c.namesToID[obj.Name] = obj.ID
		}
	} else {
		if !model.IsValidIdentifier(obj.Name) {
			return arcerr.New(arcerr.InvalidIdentifier, obj.ID, "scene.object.name", "object name %q is not a valid identifier", obj.Name)
		}
		if other, exists := c.namesToID[obj.Name]; exists {
			return arcerr.New(arcerr.DuplicateName, obj.ID, "scene.object.name", "object name %q duplicates object %s", obj.Name, other)
		}
		c.namesToID[obj.Name] = obj.ID
		c.order = append(c.order, obj.ID)
	}
	cp := obj
	c.objects[obj.ID] = &cp
	c.updateModified()
	return nil
}

// RemoveObject deletes the object with the given id, returning it.
func (c *Scene) RemoveObject(id string) (model.SceneObject, error) {
	obj, ok := c.objects[id]
	if !ok {
		return model.SceneObject{}, arcerr.New(arcerr.NotFound, id, "scene.object", "object %q not found", id)
	}
	delete(c.objects, id)
	delete(c.namesToID, obj.Name)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.updateModified()
	return *obj, nil
}

// Snapshot produces a fresh model.Scene equivalent to the current state.
// IntModified is always nil in the snapshot: the internal mutation stamp is
// reported through HasChanges, not copied out.
func (c *Scene) Snapshot() model.Scene {
	return model.Scene{
		ID:          c.id,
		Name:        c.name,
		Description: c.desc,
		Objects:     c.Objects(),
		Modified:    c.modified,
	}
}
