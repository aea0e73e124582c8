// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package kinematics

import (
	"cncsim-go/pkg/geom"
)

// Cartesian3Axis implements kinematics for a standard 3-axis machine with
// X, Y and Z linear axes. Axis positions map directly to the tool position
// and the tool orientation is fixed, so forward and inverse kinematics are
// the identity mapping inside the travel limits.
type Cartesian3Axis struct {
	xLimits [2]float64
	yLimits [2]float64
	zLimits [2]float64
}

// Default travel limits for a Cartesian3Axis built without explicit limits.
var (
	DefaultXLimits = [2]float64{-1000, 1000}
	DefaultYLimits = [2]float64{-1000, 1000}
	DefaultZLimits = [2]float64{-100, 100}
)

// NewCartesian3Axis creates 3-axis kinematics with the given travel limits.
func NewCartesian3Axis(xLimits, yLimits, zLimits [2]float64) *Cartesian3Axis {
	return &Cartesian3Axis{xLimits: xLimits, yLimits: yLimits, zLimits: zLimits}
}

// NewDefaultCartesian3Axis creates 3-axis kinematics with the default
// travel limits.
func NewDefaultCartesian3Axis() *Cartesian3Axis {
	return NewCartesian3Axis(DefaultXLimits, DefaultYLimits, DefaultZLimits)
}

func (c *Cartesian3Axis) Type() string {
	return "cartesian3axis"
}

func (c *Cartesian3Axis) AxisConfig() AxisConfig {
	return AxisConfig{HasX: true, HasY: true, HasZ: true}
}

func (c *Cartesian3Axis) AxisLimits() [6][2]float64 {
	return [6][2]float64{c.xLimits, c.yLimits, c.zLimits, {}, {}, {}}
}

func (c *Cartesian3Axis) inLimits(x, y, z float64) bool {
	return x >= c.xLimits[0] && x <= c.xLimits[1] &&
		y >= c.yLimits[0] && y <= c.yLimits[1] &&
		z >= c.zLimits[0] && z <= c.zLimits[1]
}

func (c *Cartesian3Axis) Forward(axisPositions [6]float64) ForwardResult {
	x := axisPositions[AxisX]
	y := axisPositions[AxisY]
	z := axisPositions[AxisZ]

	if !c.inLimits(x, y, z) {
		return ForwardResult{AxisPositions: axisPositions}
	}

	return ForwardResult{
		Pose:          geom.Translation(geom.Vec{X: x, Y: y, Z: z}),
		AxisPositions: axisPositions,
		Valid:         true,
	}
}

func (c *Cartesian3Axis) Inverse(targetPose geom.Transform) []InverseResult {
	p := targetPose.Position()
	if !c.inLimits(p.X, p.Y, p.Z) {
		return nil
	}

	var solution InverseResult
	solution.AxisPositions[AxisX] = p.X
	solution.AxisPositions[AxisY] = p.Y
	solution.AxisPositions[AxisZ] = p.Z

	// Round-trip verification through forward kinematics.
	fk := c.Forward(solution.AxisPositions)
	solution.Pose = fk.Pose
	solution.Valid = fk.Valid

	return []InverseResult{solution}
}

func (c *Cartesian3Axis) PoseReachable(targetPose geom.Transform) bool {
	return firstSolutionReachable(c, targetPose)
}

func (c *Cartesian3Axis) WorkEnvelope() geom.AABB {
	return geom.NewAABB(
		geom.Vec{X: c.xLimits[0], Y: c.yLimits[0], Z: c.zLimits[0]},
		geom.Vec{X: c.xLimits[1], Y: c.yLimits[1], Z: c.zLimits[1]},
	)
}

func (c *Cartesian3Axis) Clone() Kinematics {
	clone := *c
	return &clone
}

func (c *Cartesian3Axis) Valid() bool {
	return c.xLimits[0] < c.xLimits[1] &&
		c.yLimits[0] < c.yLimits[1] &&
		c.zLimits[0] < c.zLimits[1]
}

// XLimits returns the X-axis travel limits.
func (c *Cartesian3Axis) XLimits() [2]float64 { return c.xLimits }

// YLimits returns the Y-axis travel limits.
func (c *Cartesian3Axis) YLimits() [2]float64 { return c.yLimits }

// ZLimits returns the Z-axis travel limits.
func (c *Cartesian3Axis) ZLimits() [2]float64 { return c.zLimits }
