// Coordinate frames and G54-style work offsets
//
// A machining setup involves three coordinate systems: machine coordinates
// (fixed to the machine, origin at home), workpiece coordinates (fixed to
// the stock, origin set during probing) and tool coordinates (origin at the
// tool tip). This package models named frames and the work offsets that map
// workpiece coordinates into machine coordinates.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package frame

import (
	"cncsim-go/pkg/geom"
)

// CoordinateFrame is a named coordinate system with a transform to its
// parent frame. The origin is expressed in parent coordinates.
type CoordinateFrame struct {
	name      string
	transform geom.Transform
}

// NewCoordinateFrame creates a frame with the given name and transform to
// the parent frame.
func NewCoordinateFrame(name string, transform geom.Transform) CoordinateFrame {
	return CoordinateFrame{name: name, transform: transform}
}

// Name returns the frame identifier.
func (f CoordinateFrame) Name() string {
	return f.name
}

// Transform returns the transform from this frame to the parent frame.
func (f CoordinateFrame) Transform() geom.Transform {
	return f.transform
}

// Origin returns the frame origin in parent coordinates.
func (f CoordinateFrame) Origin() geom.Vec {
	return f.transform.Position()
}

// ToParent transforms a point from this frame into the parent frame.
func (f CoordinateFrame) ToParent(p geom.Vec) geom.Vec {
	return f.transform.TransformPoint(p)
}

// FromParent transforms a point from the parent frame into this frame.
func (f CoordinateFrame) FromParent(p geom.Vec) geom.Vec {
	return f.transform.Inverse().TransformPoint(p)
}

// XAxis returns the frame X axis direction expressed in parent coordinates.
func (f CoordinateFrame) XAxis() geom.Vec {
	return f.transform.TransformDirection(geom.Vec{X: 1})
}

// YAxis returns the frame Y axis direction expressed in parent coordinates.
func (f CoordinateFrame) YAxis() geom.Vec {
	return f.transform.TransformDirection(geom.Vec{Y: 1})
}

// ZAxis returns the frame Z axis direction expressed in parent coordinates.
func (f CoordinateFrame) ZAxis() geom.Vec {
	return f.transform.TransformDirection(geom.Vec{Z: 1})
}

// Valid reports whether the frame has a name and a finite transform.
func (f CoordinateFrame) Valid() bool {
	return f.name != "" && f.transform.IsFinite()
}
