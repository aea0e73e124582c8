package geom

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid transform: a translation plus a unit quaternion
// rotation. It is an immutable value type; the rotation is renormalized on
// construction so the unit-magnitude invariant holds for any Transform
// obtained through this package.
//
// Composition convention: A.Compose(B) applies B first, then A.
type Transform struct {
	pos Vec
	rot quat.Number
}

// NewTransform creates a transform from a position and rotation.
func NewTransform(pos Vec, rot quat.Number) Transform {
	return Transform{pos: pos, rot: QuatNormalize(rot)}
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{rot: QuatIdentity()}
}

// Translation returns a translation-only transform.
func Translation(pos Vec) Transform {
	return Transform{pos: pos, rot: QuatIdentity()}
}

// Rotation returns a rotation-only transform.
func Rotation(rot quat.Number) Transform {
	return Transform{rot: QuatNormalize(rot)}
}

// FromAxisAngle returns a transform from a position and an axis-angle
// rotation (angle in radians).
func FromAxisAngle(pos Vec, axis Vec, angle float64) Transform {
	return Transform{pos: pos, rot: QuatFromAxisAngle(axis, angle)}
}

// Position returns the translation component.
func (t Transform) Position() Vec {
	return t.pos
}

// Rotation returns the rotation component.
func (t Transform) Rotation() quat.Number {
	return t.rot
}

// WithPosition returns a copy with the translation replaced.
func (t Transform) WithPosition(pos Vec) Transform {
	return Transform{pos: pos, rot: t.rot}
}

// WithRotation returns a copy with the rotation replaced.
func (t Transform) WithRotation(rot quat.Number) Transform {
	return Transform{pos: t.pos, rot: QuatNormalize(rot)}
}

// TransformPoint applies rotation then translation to a point.
func (t Transform) TransformPoint(p Vec) Vec {
	return r3.Add(t.pos, RotateVec(t.rot, p))
}

// TransformDirection applies only the rotation to a direction vector.
func (t Transform) TransformDirection(d Vec) Vec {
	return RotateVec(t.rot, d)
}

// Inverse returns the exact algebraic inverse of t.
func (t Transform) Inverse() Transform {
	invRot := quat.Conj(t.rot)
	invPos := RotateVec(invRot, r3.Scale(-1, t.pos))
	return Transform{pos: invPos, rot: invRot}
}

// Compose returns t∘other: other is applied first, then t.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		pos: t.TransformPoint(other.pos),
		rot: QuatNormalize(quat.Mul(t.rot, other.rot)),
	}
}

// IsFinite reports whether all transform components are finite.
func (t Transform) IsFinite() bool {
	return FiniteVec(t.pos) &&
		FiniteVec(Vec{X: t.rot.Imag, Y: t.rot.Jmag, Z: t.rot.Kmag}) &&
		FiniteVec(Vec{X: t.rot.Real})
}
