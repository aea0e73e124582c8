// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package frame

import (
	"fmt"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/geom"
)

// WorkpieceMount attaches stock to the machine and coordinates the work
// offset table. At most one workpiece is mounted at a time; offset
// registers are independently settable and exactly one register is active.
type WorkpieceMount struct {
	workpiece *Workpiece
	offsets   map[WorkOffsetID]WorkOffset
	activeID  WorkOffsetID
}

// NewWorkpieceMount creates an empty mount with G54 active and no offsets
// defined.
func NewWorkpieceMount() *WorkpieceMount {
	return &WorkpieceMount{
		offsets:  make(map[WorkOffsetID]WorkOffset),
		activeID: G54,
	}
}

// Mount attaches a workpiece, replacing any existing one. Invalid
// workpieces are rejected.
func (m *WorkpieceMount) Mount(w *Workpiece) error {
	if w == nil || !w.Valid() {
		return errors.ResourceInvalid("workpiece", "cannot mount invalid workpiece")
	}
	m.workpiece = w
	return nil
}

// Unmount removes the current workpiece.
func (m *WorkpieceMount) Unmount() {
	m.workpiece = nil
}

// HasWorkpiece reports whether stock is mounted.
func (m *WorkpieceMount) HasWorkpiece() bool {
	return m.workpiece != nil
}

// Workpiece returns the mounted workpiece, or nil.
func (m *WorkpieceMount) Workpiece() *Workpiece {
	return m.workpiece
}

// SetWorkOffset defines or updates an offset register. Invalid offsets are
// rejected.
func (m *WorkpieceMount) SetWorkOffset(offset WorkOffset) error {
	if !offset.Valid() {
		return errors.InvalidArgument(fmt.Sprintf("work offset %s is not valid", offset.ID()))
	}
	m.offsets[offset.ID()] = offset
	return nil
}

// WorkOffset returns the offset stored in a register, if defined.
func (m *WorkpieceMount) WorkOffset(id WorkOffsetID) (WorkOffset, bool) {
	o, ok := m.offsets[id]
	return o, ok
}

// SetActiveWorkOffset selects the active register, like a G54/G55 command.
func (m *WorkpieceMount) SetActiveWorkOffset(id WorkOffsetID) error {
	if !id.Valid() {
		return errors.InvalidArgument(fmt.Sprintf("unknown work offset register %d", int32(id)))
	}
	m.activeID = id
	return nil
}

// ActiveWorkOffsetID returns the active register identifier.
func (m *WorkpieceMount) ActiveWorkOffsetID() WorkOffsetID {
	return m.activeID
}

// ActiveWorkOffset returns the offset in the active register, if defined.
func (m *WorkpieceMount) ActiveWorkOffset() (WorkOffset, bool) {
	return m.WorkOffset(m.activeID)
}

// WorkpieceToMachine converts a point from workpiece coordinates to machine
// coordinates, applying the workpiece pose and then the active offset.
// Without a mounted workpiece the point is assumed to already be in machine
// coordinates.
func (m *WorkpieceMount) WorkpieceToMachine(p geom.Vec) geom.Vec {
	if m.workpiece == nil {
		return p
	}
	world := m.workpiece.ToMachine(p)
	if offset, ok := m.ActiveWorkOffset(); ok {
		return offset.WorkpieceToMachine(world)
	}
	return world
}

// MachineToWorkpiece converts a point from machine coordinates to workpiece
// coordinates, inverting the active offset and then the workpiece pose.
func (m *WorkpieceMount) MachineToWorkpiece(p geom.Vec) geom.Vec {
	if m.workpiece == nil {
		return p
	}
	world := p
	if offset, ok := m.ActiveWorkOffset(); ok {
		world = offset.MachineToWorkpiece(p)
	}
	return m.workpiece.FromMachine(world)
}

// WorkpieceBoundingBox returns the mounted stock AABB in machine
// coordinates, accounting for the active offset. Returns an invalid AABB
// when nothing is mounted.
func (m *WorkpieceMount) WorkpieceBoundingBox() geom.AABB {
	if m.workpiece == nil {
		return geom.EmptyAABB()
	}
	local := m.workpiece.LocalBoundingBox()
	corners := []geom.Vec{
		local.Min,
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		local.Max,
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	for i, c := range corners {
		corners[i] = m.WorkpieceToMachine(c)
	}
	return geom.BoundingBoxOf(corners...)
}

// Valid reports whether the mount state is consistent.
func (m *WorkpieceMount) Valid() bool {
	if m.workpiece != nil && !m.workpiece.Valid() {
		return false
	}
	return true
}
