// Cutting tool definitions
//
// Models tools as immutable value types: pure geometry (diameter, flute and
// overall length, tip shape), the logical tool (geometry plus identifier and
// operating limits) and the holder that mounts a tool in a spindle. The tool
// local frame has its origin at the tip with Z up along the centerline.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tool

import (
	"math"

	"cncsim-go/pkg/geom"
)

// Type classifies a cutting tool.
type Type int

const (
	EndMill Type = iota
	BallEndMill
	Drill
	Tap
	Reamer
	Boring
	FaceMill
	SlotMill
	Custom
)

// String returns the tool type name.
func (t Type) String() string {
	switch t {
	case EndMill:
		return "end_mill"
	case BallEndMill:
		return "ball_end_mill"
	case Drill:
		return "drill"
	case Tap:
		return "tap"
	case Reamer:
		return "reamer"
	case Boring:
		return "boring"
	case FaceMill:
		return "face_mill"
	case SlotMill:
		return "slot_mill"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// TipType describes the shape of the tool tip.
type TipType int

const (
	TipFlat TipType = iota
	TipBall
	TipPoint
	TipChamfer
	TipCustom
)

// String returns the tip type name.
func (t TipType) String() string {
	switch t {
	case TipFlat:
		return "flat"
	case TipBall:
		return "ball"
	case TipPoint:
		return "point"
	case TipChamfer:
		return "chamfer"
	case TipCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Geometry is the physical shape of a cutting tool, without operating
// parameters. Construction clamps negative inputs to zero and enforces
// overallLength >= fluteLength and shankDiameter >= diameter.
type Geometry struct {
	diameter      float64
	fluteLength   float64
	overallLength float64
	shankDiameter float64
	tipType       TipType
}

// NewGeometry creates tool geometry with the construction clamps applied.
func NewGeometry(diameter, fluteLength, overallLength, shankDiameter float64, tipType TipType) Geometry {
	g := Geometry{
		diameter:      math.Max(diameter, 0),
		fluteLength:   math.Max(fluteLength, 0),
		overallLength: math.Max(overallLength, 0),
		shankDiameter: math.Max(shankDiameter, 0),
		tipType:       tipType,
	}
	if g.overallLength < g.fluteLength {
		g.overallLength = g.fluteLength
	}
	if g.shankDiameter < g.diameter {
		g.shankDiameter = g.diameter
	}
	return g
}

// Diameter returns the cutting diameter.
func (g Geometry) Diameter() float64 { return g.diameter }

// FluteLength returns the length of the cutting flutes.
func (g Geometry) FluteLength() float64 { return g.fluteLength }

// OverallLength returns the total tool length, tip to shank end.
func (g Geometry) OverallLength() float64 { return g.overallLength }

// ShankDiameter returns the diameter of the non-cutting shank.
func (g Geometry) ShankDiameter() float64 { return g.shankDiameter }

// ShankLength returns the non-cutting portion of the tool length.
func (g Geometry) ShankLength() float64 { return g.overallLength - g.fluteLength }

// TipType returns the tip shape.
func (g Geometry) TipType() TipType { return g.tipType }

// Radius returns half the cutting diameter.
func (g Geometry) Radius() float64 { return g.diameter * 0.5 }

// TipRadius returns the tool radius for ball tips, zero otherwise.
func (g Geometry) TipRadius() float64 {
	if g.tipType == TipBall {
		return g.Radius()
	}
	return 0
}

// BoundingBox returns the tool AABB in the tool local frame: the tip is at
// the origin and the body extends down the -Z axis.
func (g Geometry) BoundingBox() geom.AABB {
	r := g.Radius()
	return geom.NewAABB(
		geom.Vec{X: -r, Y: -r, Z: -g.overallLength},
		geom.Vec{X: r, Y: r, Z: 0},
	)
}

// Valid reports whether all dimensions are positive and finite.
func (g Geometry) Valid() bool {
	return g.diameter > 0 &&
		g.fluteLength > 0 &&
		g.overallLength > 0 &&
		g.shankDiameter > 0 &&
		g.overallLength >= g.fluteLength &&
		geom.FiniteVec(geom.Vec{X: g.diameter, Y: g.fluteLength, Z: g.overallLength}) &&
		!math.IsNaN(g.shankDiameter) && !math.IsInf(g.shankDiameter, 0)
}

// Default operating limits applied when a tool is constructed without them.
const (
	DefaultMaxRPM      = 24000.0
	DefaultMaxFeedrate = 10000.0
)

// Tool is a complete tool specification: geometry plus identifier, type and
// operating limits. Tools are immutable; equality and ordering are by
// identifier.
type Tool struct {
	id          string
	name        string
	toolType    Type
	geometry    Geometry
	maxRPM      float64
	maxFeedrate float64
}

// New creates a tool. Non-positive limits fall back to the defaults.
func New(id, name string, toolType Type, geometry Geometry, maxRPM, maxFeedrate float64) Tool {
	if maxRPM <= 0 {
		maxRPM = DefaultMaxRPM
	}
	if maxFeedrate <= 0 {
		maxFeedrate = DefaultMaxFeedrate
	}
	return Tool{
		id:          id,
		name:        name,
		toolType:    toolType,
		geometry:    geometry,
		maxRPM:      maxRPM,
		maxFeedrate: maxFeedrate,
	}
}

// ID returns the tool identifier.
func (t Tool) ID() string { return t.id }

// Name returns the display name.
func (t Tool) Name() string { return t.name }

// Type returns the tool classification.
func (t Tool) Type() Type { return t.toolType }

// Geometry returns the tool geometry.
func (t Tool) Geometry() Geometry { return t.geometry }

// MaxRPM returns the spindle speed limit for this tool.
func (t Tool) MaxRPM() float64 { return t.maxRPM }

// MaxFeedrate returns the feed rate limit for this tool.
func (t Tool) MaxFeedrate() float64 { return t.maxFeedrate }

// Diameter returns the cutting diameter.
func (t Tool) Diameter() float64 { return t.geometry.Diameter() }

// TotalLength returns the overall tool length.
func (t Tool) TotalLength() float64 { return t.geometry.OverallLength() }

// BoundingBox returns the tool AABB in the tool local frame.
func (t Tool) BoundingBox() geom.AABB { return t.geometry.BoundingBox() }

// Equal reports identifier equality.
func (t Tool) Equal(other Tool) bool { return t.id == other.id }

// Less orders tools by identifier.
func (t Tool) Less(other Tool) bool { return t.id < other.id }

// IsBallEndMill reports whether the tool cuts with a ball nose.
func (t Tool) IsBallEndMill() bool {
	return t.toolType == BallEndMill || t.geometry.TipType() == TipBall
}

// IsEndMill reports whether the tool is a flat or ball end mill.
func (t Tool) IsEndMill() bool {
	return t.toolType == EndMill || t.toolType == BallEndMill
}

// IsDrill reports whether the tool is a drill.
func (t Tool) IsDrill() bool { return t.toolType == Drill }

// Valid reports whether the tool has an id, a name, valid geometry and
// positive limits.
func (t Tool) Valid() bool {
	return t.id != "" && t.name != "" && t.geometry.Valid() &&
		t.maxRPM > 0 && t.maxFeedrate > 0
}
