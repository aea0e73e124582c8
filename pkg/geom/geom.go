// Package geom provides the geometric kernel for the simulation core:
// 3D vectors (gonum spatial/r3), unit quaternions (gonum num/quat),
// rigid transforms, axis-aligned bounding boxes, and spherical linear
// interpolation between rotations.
//
// All angles are radians. Linear magnitudes are unit-agnostic; the caller
// decides whether a coordinate means millimeters or inches. Inputs are
// assumed finite: NaN/Inf propagate silently, so callers validate upstream.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3D vector in machine units.
type Vec = r3.Vec

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec
	Max Vec
}

// NewAABB creates a bounding box from two corners.
func NewAABB(min, max Vec) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box that contains nothing and fails IsValid.
// Unioning it with any valid box yields that box.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec{X: inf, Y: inf, Z: inf},
		Max: Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsValid reports whether Min <= Max on every axis.
func (b AABB) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Center returns the box center.
func (b AABB) Center() Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Size returns the box extent per axis.
func (b AABB) Size() Vec {
	return r3.Sub(b.Max, b.Min)
}

// Volume returns the box volume, or 0 for an invalid box.
func (b AABB) Volume() float64 {
	if !b.IsValid() {
		return 0
	}
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Contains reports whether a point is inside the box (inclusive).
func (b AABB) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Union returns the smallest box enclosing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec{
			X: math.Min(b.Min.X, other.Min.X),
			Y: math.Min(b.Min.Y, other.Min.Y),
			Z: math.Min(b.Min.Z, other.Min.Z),
		},
		Max: Vec{
			X: math.Max(b.Max.X, other.Max.X),
			Y: math.Max(b.Max.Y, other.Max.Y),
			Z: math.Max(b.Max.Z, other.Max.Z),
		},
	}
}

// Intersect returns the overlap of both boxes. The result may be invalid
// when the boxes are disjoint; callers check IsValid.
func (b AABB) Intersect(other AABB) AABB {
	return AABB{
		Min: Vec{
			X: math.Max(b.Min.X, other.Min.X),
			Y: math.Max(b.Min.Y, other.Min.Y),
			Z: math.Max(b.Min.Z, other.Min.Z),
		},
		Max: Vec{
			X: math.Min(b.Max.X, other.Max.X),
			Y: math.Min(b.Max.Y, other.Max.Y),
			Z: math.Min(b.Max.Z, other.Max.Z),
		},
	}
}

// BoundingBoxOf returns the smallest box enclosing all given points.
// Returns an empty box when no points are supplied.
func BoundingBoxOf(points ...Vec) AABB {
	if len(points) == 0 {
		return EmptyAABB()
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Union(AABB{Min: p, Max: p})
	}
	return box
}

// FiniteVec reports whether all components of v are finite.
func FiniteVec(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
