// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/tool"
)

// ToolMount manages tool attachment on a machine. The tool is optional:
// a machine may run empty, in which case the tool tip pose equals the
// spindle pose and the tool bounding box is empty.
type ToolMount struct {
	holder *tool.Holder
}

// NewToolMount creates an empty mount.
func NewToolMount() *ToolMount {
	return &ToolMount{}
}

// Attach mounts a tool holder, replacing any existing tool. Invalid
// holders are rejected and leave the mount unchanged.
func (m *ToolMount) Attach(h tool.Holder) error {
	if !h.Valid() {
		return errors.ToolInvalid(h.Tool().ID(), "cannot attach invalid tool holder")
	}
	m.holder = &h
	return nil
}

// Detach removes the current tool. The machine runs empty afterwards.
func (m *ToolMount) Detach() {
	m.holder = nil
}

// HasTool reports whether a tool is mounted.
func (m *ToolMount) HasTool() bool {
	return m.holder != nil
}

// Holder returns the mounted holder, if any.
func (m *ToolMount) Holder() (tool.Holder, bool) {
	if m.holder == nil {
		return tool.Holder{}, false
	}
	return *m.holder, true
}

// Tool returns the mounted tool, if any.
func (m *ToolMount) Tool() (tool.Tool, bool) {
	if m.holder == nil {
		return tool.Tool{}, false
	}
	return m.holder.Tool(), true
}

// ToolTipPose computes the tool tip pose for a spindle pose. With no tool
// mounted the spindle pose is returned unchanged.
func (m *ToolMount) ToolTipPose(spindlePose geom.Transform) geom.Transform {
	if m.holder == nil {
		return spindlePose
	}
	return m.holder.ToolTipPose(spindlePose)
}

// ToolBoundingBox returns the mounted tool AABB in machine coordinates,
// or an empty AABB when nothing is mounted.
func (m *ToolMount) ToolBoundingBox(spindlePose geom.Transform) geom.AABB {
	if m.holder == nil {
		return geom.EmptyAABB()
	}
	return m.holder.ToolBoundingBox(spindlePose)
}

// Valid reports whether the mount state is consistent. An empty mount is
// valid.
func (m *ToolMount) Valid() bool {
	if m.holder == nil {
		return true
	}
	return m.holder.Valid()
}
