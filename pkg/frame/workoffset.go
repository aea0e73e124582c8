// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package frame

import (
	"fmt"
	"math"

	"cncsim-go/pkg/geom"
)

// WorkOffsetID identifies a work offset register (G54-G59 plus the
// extended G54.1 registers).
type WorkOffsetID int32

const (
	G54 WorkOffsetID = iota + 1
	G55
	G56
	G57
	G58
	G59
	G59_1 // G54.1 P1
	G59_2 // G54.1 P2
	G59_3 // G54.1 P3
)

// String returns the G-code name of the offset register.
func (id WorkOffsetID) String() string {
	switch id {
	case G54:
		return "G54"
	case G55:
		return "G55"
	case G56:
		return "G56"
	case G57:
		return "G57"
	case G58:
		return "G58"
	case G59:
		return "G59"
	case G59_1:
		return "G54.1P1"
	case G59_2:
		return "G54.1P2"
	case G59_3:
		return "G54.1P3"
	default:
		return fmt.Sprintf("WorkOffset(%d)", int32(id))
	}
}

// Valid reports whether the id names a known offset register.
func (id WorkOffsetID) Valid() bool {
	return id >= G54 && id <= G59_3
}

// WorkOffset maps workpiece coordinates into machine coordinates. The
// transform carries the workpiece origin expressed in machine coordinates;
// a rotation component is allowed but offsets set by probing are normally
// translation only.
type WorkOffset struct {
	id        WorkOffsetID
	transform geom.Transform
}

// NewWorkOffset creates an offset for the given register.
func NewWorkOffset(id WorkOffsetID, transform geom.Transform) WorkOffset {
	return WorkOffset{id: id, transform: transform}
}

// NewTranslationOffset creates a translation-only offset, the common case
// for probed work offsets.
func NewTranslationOffset(id WorkOffsetID, translation geom.Vec) WorkOffset {
	return WorkOffset{id: id, transform: geom.Translation(translation)}
}

// ID returns the offset register identifier.
func (o WorkOffset) ID() WorkOffsetID {
	return o.id
}

// Transform returns the workpiece-to-machine transform.
func (o WorkOffset) Transform() geom.Transform {
	return o.transform
}

// Translation returns the translation component of the offset.
func (o WorkOffset) Translation() geom.Vec {
	return o.transform.Position()
}

// WithTransform returns a copy of the offset with a new transform.
func (o WorkOffset) WithTransform(t geom.Transform) WorkOffset {
	return WorkOffset{id: o.id, transform: t}
}

// WorkpieceToMachine converts a point from workpiece to machine coordinates.
func (o WorkOffset) WorkpieceToMachine(p geom.Vec) geom.Vec {
	return o.transform.TransformPoint(p)
}

// MachineToWorkpiece converts a point from machine to workpiece coordinates.
func (o WorkOffset) MachineToWorkpiece(p geom.Vec) geom.Vec {
	return o.transform.Inverse().TransformPoint(p)
}

// IsTranslationOnly reports whether the offset carries no rotation.
func (o WorkOffset) IsTranslationOnly() bool {
	r := o.transform.Rotation()
	return math.Abs(r.Real-1.0) < 1e-9 &&
		math.Abs(r.Imag) < 1e-9 &&
		math.Abs(r.Jmag) < 1e-9 &&
		math.Abs(r.Kmag) < 1e-9
}

// Valid reports whether the offset register is known and the transform is
// finite.
func (o WorkOffset) Valid() bool {
	return o.id.Valid() && o.transform.IsFinite()
}
