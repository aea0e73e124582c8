// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tool

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"cncsim-go/pkg/geom"
)

// Holder mounts a tool in a spindle. It carries the rigid offset from the
// spindle face to the tool: the holder length runs along the spindle axis
// and the lateral offset is normally zero for collet holders.
type Holder struct {
	tool         Tool
	holderLength float64
	holderOffset geom.Vec
}

// NewHolder creates a holder for the given tool. Negative lengths clamp to
// zero.
func NewHolder(t Tool, holderLength float64, holderOffset geom.Vec) Holder {
	return Holder{
		tool:         t,
		holderLength: math.Max(holderLength, 0),
		holderOffset: holderOffset,
	}
}

// Tool returns the held tool.
func (h Holder) Tool() Tool { return h.tool }

// HolderLength returns the distance from the spindle face to the tool shank.
func (h Holder) HolderLength() float64 { return h.holderLength }

// HolderOffset returns the lateral offset from spindle center to tool
// center, in spindle-local coordinates.
func (h Holder) HolderOffset() geom.Vec { return h.holderOffset }

// TotalLength returns the full reach from spindle face to tool tip.
func (h Holder) TotalLength() float64 {
	return h.holderLength + h.tool.TotalLength()
}

// ToolTipPose computes the tool tip pose from the spindle pose. The holder
// offset is applied in the spindle frame, then the tip lies at the total
// length along spindle-local -Z. Orientation is preserved: the mounting is
// rigid.
func (h Holder) ToolTipPose(spindlePose geom.Transform) geom.Transform {
	pos := spindlePose.TransformPoint(h.holderOffset)
	down := spindlePose.TransformDirection(geom.Vec{Z: -1})
	tip := r3.Add(pos, r3.Scale(h.TotalLength(), down))
	return spindlePose.WithPosition(tip)
}

// SpindlePoseForToolTip inverts ToolTipPose, computing the spindle pose
// required to place the tool tip at the target pose. The total length is
// added back along the tip's local up direction and the holder offset is
// removed in the same frame, so ToolTipPose(SpindlePoseForToolTip(p)) == p.
func (h Holder) SpindlePoseForToolTip(tipPose geom.Transform) geom.Transform {
	up := tipPose.TransformDirection(geom.Vec{Z: 1})
	pos := r3.Add(tipPose.Position(), r3.Scale(h.TotalLength(), up))
	pos = r3.Sub(pos, tipPose.TransformDirection(h.holderOffset))
	return tipPose.WithPosition(pos)
}

// ToolBoundingBox returns the mounted tool AABB in machine coordinates for
// the given spindle pose.
func (h Holder) ToolBoundingBox(spindlePose geom.Transform) geom.AABB {
	local := h.tool.BoundingBox()
	tip := h.ToolTipPose(spindlePose)
	a := tip.TransformPoint(local.Min)
	b := tip.TransformPoint(local.Max)
	return geom.BoundingBoxOf(a, b)
}

// Valid reports whether the holder carries a valid tool and a positive,
// finite length.
func (h Holder) Valid() bool {
	return h.tool.Valid() && h.holderLength > 0 &&
		!math.IsInf(h.holderLength, 0) && !math.IsNaN(h.holderLength)
}
