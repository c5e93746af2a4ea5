// Package model defines the value types of a Scene and a Project: the
// on-the-wire shape the rest of this module operates on. Types here carry no
// behavior beyond small accessors and pose/quaternion arithmetic; invariant
// enforcement lives in cache and logic.
package model

import "math"

// Position is a point in the scene frame, in meters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the componentwise sum of p and o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Sub returns the componentwise difference p - o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Orientation is a unit quaternion (x, y, z, w).
type Orientation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityOrientation is the zero-rotation quaternion.
var IdentityOrientation = Orientation{W: 1}

// Normalized returns o scaled to unit length. The zero quaternion normalizes
// to the identity orientation rather than dividing by zero.
func (o Orientation) Normalized() Orientation {
	n := math.Sqrt(o.X*o.X + o.Y*o.Y + o.Z*o.Z + o.W*o.W)
	if n == 0 {
		return IdentityOrientation
	}
	return Orientation{X: o.X / n, Y: o.Y / n, Z: o.Z / n, W: o.W / n}
}

// Mul returns the Hamilton product o*p (rotate p then by o).
func (o Orientation) Mul(p Orientation) Orientation {
	return Orientation{
		W: o.W*p.W - o.X*p.X - o.Y*p.Y - o.Z*p.Z,
		X: o.W*p.X + o.X*p.W + o.Y*p.Z - o.Z*p.Y,
		Y: o.W*p.Y - o.X*p.Z + o.Y*p.W + o.Z*p.X,
		Z: o.W*p.Z + o.X*p.Y - o.Y*p.X + o.Z*p.W,
	}
}

// rotate applies the rotation represented by o to the vector v.
func (o Orientation) rotate(v Position) Position {
	qv := Orientation{X: v.X, Y: v.Y, Z: v.Z, W: 0}
	conj := Orientation{X: -o.X, Y: -o.Y, Z: -o.Z, W: o.W}
	r := o.Mul(qv).Mul(conj)
	return Position{X: r.X, Y: r.Y, Z: r.Z}
}

// Pose is a rigid-body transform: a position and an orientation, both in the
// scene frame unless composed relative to another Pose (see Compose).
type Pose struct {
	Position    Position    `json:"position"`
	Orientation Orientation `json:"orientation"`
}

// Compose returns the pose obtained by applying rel, a pose expressed
// relative to p's frame, on top of p. Used to resolve a "relative_pose"
// parameter value against its owning action point's absolute pose.
func (p Pose) Compose(rel Pose) Pose {
	return Pose{
		Position:    p.Position.Add(p.Orientation.rotate(rel.Position)),
		Orientation: p.Orientation.Mul(rel.Orientation).Normalized(),
	}
}

// Joint is one named robot joint angle, in radians.
type Joint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
