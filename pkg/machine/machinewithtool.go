// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/kinematics"
	"cncsim-go/pkg/tool"
)

// MachineWithTool composes machine kinematics with a tool mount. The two
// stay independent; this type only chains spindle pose through the mount,
// so tool-aware forward and inverse kinematics need no new state.
type MachineWithTool struct {
	kin   kinematics.Kinematics
	mount *ToolMount
}

// NewMachineWithTool wraps kinematics with an empty tool mount.
func NewMachineWithTool(kin kinematics.Kinematics) *MachineWithTool {
	return &MachineWithTool{kin: kin, mount: NewToolMount()}
}

// Kinematics returns the wrapped kinematics.
func (m *MachineWithTool) Kinematics() kinematics.Kinematics {
	return m.kin
}

// Mount returns the tool mount.
func (m *MachineWithTool) Mount() *ToolMount {
	return m.mount
}

// HasTool reports whether a tool is mounted.
func (m *MachineWithTool) HasTool() bool {
	return m.mount.HasTool()
}

// Tool returns the mounted tool, if any.
func (m *MachineWithTool) Tool() (tool.Tool, bool) {
	return m.mount.Tool()
}

// ToolTipPose computes the tool tip pose from axis positions: forward
// kinematics gives the spindle pose, the mount extends it to the tip.
// Returns the identity transform when kinematics reject the positions.
func (m *MachineWithTool) ToolTipPose(axisPositions [6]float64) geom.Transform {
	if m.kin == nil {
		return geom.Identity()
	}
	fk := m.kin.Forward(axisPositions)
	if !fk.Valid {
		return geom.Identity()
	}
	return m.mount.ToolTipPose(fk.Pose)
}

// InverseForToolTip computes axis positions that place the tool tip at
// the target pose. With a tool mounted, the target is first pulled back
// to the spindle pose through the holder, then handed to inverse
// kinematics.
func (m *MachineWithTool) InverseForToolTip(targetTipPose geom.Transform) []kinematics.InverseResult {
	if m.kin == nil {
		return nil
	}
	targetSpindle := targetTipPose
	if holder, ok := m.mount.Holder(); ok {
		targetSpindle = holder.SpindlePoseForToolTip(targetTipPose)
	}
	return m.kin.Inverse(targetSpindle)
}

// ToolTipPoseReachable reports whether the target tool tip pose has a
// valid kinematics solution.
func (m *MachineWithTool) ToolTipPoseReachable(targetTipPose geom.Transform) bool {
	solutions := m.InverseForToolTip(targetTipPose)
	return len(solutions) > 0 && solutions[0].Valid
}

// WorkEnvelope returns the kinematics work envelope.
func (m *MachineWithTool) WorkEnvelope() geom.AABB {
	if m.kin == nil {
		return geom.EmptyAABB()
	}
	return m.kin.WorkEnvelope()
}

// AxisConfig returns the kinematics axis configuration.
func (m *MachineWithTool) AxisConfig() kinematics.AxisConfig {
	if m.kin == nil {
		return kinematics.AxisConfig{}
	}
	return m.kin.AxisConfig()
}

// Valid reports whether both the kinematics and the mount are consistent.
func (m *MachineWithTool) Valid() bool {
	return m.kin != nil && m.kin.Valid() && m.mount.Valid()
}
