// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"cncsim-go/pkg/geom"
)

// DefaultSweepResolution is the sampling resolution hint, in distance
// units, used when a sweep is built without one.
const DefaultSweepResolution = 0.1

// ToolSweep describes the volume a tool passes through during one
// simulation step: tool tip transforms at the start and end of the step,
// the tool's cutting envelope (radius and length above the tip), a
// sampling resolution hint, and whether the motion is a rapid traverse.
// Rapid traverses are not allowed to contact material.
type ToolSweep struct {
	start      geom.Transform
	end        geom.Transform
	toolRadius float64
	toolLength float64
	resolution float64
	rapid      bool
}

// NewToolSweep builds a sweep between two tool tip poses. Non-positive
// radius and length collapse to zero (a point tool); a non-positive
// resolution falls back to DefaultSweepResolution.
func NewToolSweep(start, end geom.Transform, toolRadius, toolLength, resolution float64) ToolSweep {
	if toolRadius < 0 {
		toolRadius = 0
	}
	if toolLength < 0 {
		toolLength = 0
	}
	if resolution <= 0 {
		resolution = DefaultSweepResolution
	}
	return ToolSweep{
		start:      start,
		end:        end,
		toolRadius: toolRadius,
		toolLength: toolLength,
		resolution: resolution,
	}
}

// NewRapidSweep builds a sweep flagged as a rapid traverse.
func NewRapidSweep(start, end geom.Transform, toolRadius, toolLength, resolution float64) ToolSweep {
	s := NewToolSweep(start, end, toolRadius, toolLength, resolution)
	s.rapid = true
	return s
}

// Start returns the tool tip pose at the start of the step.
func (s ToolSweep) Start() geom.Transform { return s.start }

// End returns the tool tip pose at the end of the step.
func (s ToolSweep) End() geom.Transform { return s.end }

// ToolRadius returns the cutting envelope radius.
func (s ToolSweep) ToolRadius() float64 { return s.toolRadius }

// ToolLength returns the cutting envelope length above the tip.
func (s ToolSweep) ToolLength() float64 { return s.toolLength }

// Resolution returns the sampling resolution hint.
func (s ToolSweep) Resolution() float64 { return s.resolution }

// IsRapid reports whether the sweep is a rapid traverse.
func (s ToolSweep) IsRapid() bool { return s.rapid }

// Distance returns the straight-line tip travel of the sweep.
func (s ToolSweep) Distance() float64 {
	return r3.Norm(r3.Sub(s.end.Position(), s.start.Position()))
}

// IsTranslationOnly reports whether start and end share the same
// orientation.
func (s ToolSweep) IsTranslationOnly() bool {
	return math.Abs(geom.QuatDot(s.start.Rotation(), s.end.Rotation())) > 1-1e-12
}

// TransformAt interpolates the tool pose at parameter t in [0, 1]:
// linear in position, spherical in orientation.
func (s ToolSweep) TransformAt(t float64) geom.Transform {
	t = math.Max(0, math.Min(1, t))
	p0 := s.start.Position()
	p1 := s.end.Position()
	pos := r3.Add(p0, r3.Scale(t, r3.Sub(p1, p0)))
	rot := geom.Slerp(s.start.Rotation(), s.end.Rotation(), t)
	return geom.NewTransform(pos, rot)
}

// BoundingBox returns the axis-aligned box containing the tool envelope
// over the whole sweep. The envelope at each endpoint is a box of
// half-width toolRadius extending toolLength along the tool-local +Z from
// the tip.
func (s ToolSweep) BoundingBox() geom.AABB {
	box := s.envelopeAt(s.start)
	return box.Union(s.envelopeAt(s.end))
}

func (s ToolSweep) envelopeAt(pose geom.Transform) geom.AABB {
	r := s.toolRadius
	local := geom.NewAABB(
		geom.Vec{X: -r, Y: -r, Z: 0},
		geom.Vec{X: r, Y: r, Z: s.toolLength},
	)
	corners := [8]geom.Vec{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	world := make([]geom.Vec, len(corners))
	for i, c := range corners {
		world[i] = pose.TransformPoint(c)
	}
	return geom.BoundingBoxOf(world...)
}

// Valid reports whether both poses and all parameters are finite.
func (s ToolSweep) Valid() bool {
	return s.start.IsFinite() && s.end.IsFinite() &&
		!math.IsNaN(s.toolRadius) && !math.IsInf(s.toolRadius, 0) &&
		!math.IsNaN(s.toolLength) && !math.IsInf(s.toolLength, 0) &&
		s.resolution > 0
}
