package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// slerpLerpThreshold is the quaternion dot product above which Slerp falls
// back to normalized linear interpolation. Beyond this the angle between
// the rotations is under ~0.0314 degrees and sin(theta) is too close to
// zero for a stable division.
const slerpLerpThreshold = 0.9995

// QuatIdentity returns the identity rotation.
func QuatIdentity() quat.Number {
	return quat.Number{Real: 1}
}

// QuatFromAxisAngle builds a rotation of angle radians about axis.
// The axis is normalized internally; a zero axis yields the identity.
func QuatFromAxisAngle(axis Vec, angle float64) quat.Number {
	n := r3.Norm(axis)
	if n == 0 {
		return QuatIdentity()
	}
	u := r3.Scale(1/n, axis)
	s := math.Sin(angle * 0.5)
	return quat.Number{
		Real: math.Cos(angle * 0.5),
		Imag: u.X * s,
		Jmag: u.Y * s,
		Kmag: u.Z * s,
	}
}

// QuatNormalize returns q scaled to unit magnitude. A zero quaternion
// normalizes to the identity.
func QuatNormalize(q quat.Number) quat.Number {
	mag := quat.Abs(q)
	if mag == 0 {
		return QuatIdentity()
	}
	return quat.Scale(1/mag, q)
}

// QuatDot returns the 4D dot product of two quaternions.
func QuatDot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// RotateVec rotates v by the unit quaternion q.
func RotateVec(q quat.Number, v Vec) Vec {
	return r3.Rotation(q).Rotate(v)
}

// Slerp spherically interpolates between two rotations for t in [0,1].
// The shorter arc is always taken: when the quaternion dot product is
// negative the second quaternion is negated. Near-identical rotations use
// a linear fallback to avoid dividing by a vanishing sin(theta). The
// result is renormalized.
func Slerp(q1, q2 quat.Number, t float64) quat.Number {
	dot := QuatDot(q1, q2)
	if dot < 0 {
		q2 = quat.Scale(-1, q2)
		dot = -dot
	}

	if dot > slerpLerpThreshold {
		lerp := quat.Add(q1, quat.Scale(t, quat.Sub(q2, q1)))
		return QuatNormalize(lerp)
	}

	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	w1 := math.Sin((1-t)*theta) / sinTheta
	w2 := math.Sin(t*theta) / sinTheta
	return QuatNormalize(quat.Add(quat.Scale(w1, q1), quat.Scale(w2, q2)))
}
