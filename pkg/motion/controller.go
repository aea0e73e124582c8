// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package motion

import (
	"math"

	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/kinematics"
	"cncsim-go/pkg/log"
)

// Default per-axis caps, linear axes in units/s and units/s², rotary in
// deg/s and deg/s².
var (
	DefaultMaxVelocities    = [6]float64{1000, 1000, 1000, 360, 360, 360}
	DefaultMaxAccelerations = [6]float64{1000, 1000, 1000, 360, 360, 360}
)

// positionTolerance is the error below which an axis counts as on target.
const positionTolerance = 1e-6

// Controller executes jog and target-pose commands against a kinematics
// implementation, one explicit time step at a time. Axes the kinematics
// does not drive are parked and ignore commands.
type Controller struct {
	kin    kinematics.Kinematics
	axes   [6]AxisState
	logger *log.Logger
}

// NewController builds a controller whose axis travel limits come from
// the kinematics and whose velocity/acceleration caps are given per axis.
func NewController(kin kinematics.Kinematics, maxVel, maxAccel [6]float64) *Controller {
	c := &Controller{kin: kin, logger: log.GetLogger("motion")}
	limits := kin.AxisLimits()
	config := kin.AxisConfig()
	for i := 0; i < kinematics.NumAxes; i++ {
		if config.Has(i) {
			c.axes[i] = NewAxisState(i, limits[i][0], limits[i][1], maxVel[i], maxAccel[i])
		} else {
			c.axes[i] = NewAxisState(i, -1000, 1000, 0, 0)
		}
	}
	return c
}

// NewDefaultController builds a controller with the default caps.
func NewDefaultController(kin kinematics.Kinematics) *Controller {
	return NewController(kin, DefaultMaxVelocities, DefaultMaxAccelerations)
}

// Kinematics returns the underlying kinematics.
func (c *Controller) Kinematics() kinematics.Kinematics { return c.kin }

// Axis returns the state of the axis at the given index.
func (c *Controller) Axis(axis int) AxisState {
	if axis < 0 || axis >= kinematics.NumAxes {
		return AxisState{}
	}
	return c.axes[axis]
}

// AxisPositions returns all current axis positions.
func (c *Controller) AxisPositions() [6]float64 {
	var out [6]float64
	for i := range c.axes {
		out[i] = c.axes[i].Position()
	}
	return out
}

// ToolPose computes the current tool pose through forward kinematics.
// Falls back to identity when the kinematics rejects the positions.
func (c *Controller) ToolPose() geom.Transform {
	fk := c.kin.Forward(c.AxisPositions())
	if !fk.Valid {
		return geom.Identity()
	}
	return fk.Pose
}

// ApplyJog advances one axis by dt under a jog command. Distance-limited
// jogs scale the final approach so the axis stops on the limit instead of
// overshooting.
func (c *Controller) ApplyJog(cmd JogCommand, dt float64) {
	if !cmd.Valid() || dt <= 0 || cmd.Axis() < 0 || cmd.Axis() >= kinematics.NumAxes {
		return
	}
	axis := &c.axes[cmd.Axis()]
	if cmd.IsStop() {
		axis.Update(0, dt)
		return
	}

	target := cmd.TargetVelocity()
	if cmd.UsesDistance() {
		remaining := cmd.Distance()
		current := axis.Position()
		targetPos := current + math.Copysign(remaining, target)
		targetPos = math.Max(axis.MinLimit(), math.Min(axis.MaxLimit(), targetPos))

		toTravel := math.Abs(targetPos - current)
		if toTravel < math.Abs(target)*dt {
			target = (targetPos - current) / dt
		}
	}
	axis.Update(target, dt)
}

// MoveToward advances all axes one step toward the target tool pose using
// the first valid inverse kinematics solution. Returns true once every
// axis is within tolerance of its target. An unreachable pose leaves the
// axes untouched and returns false.
func (c *Controller) MoveToward(targetPose geom.Transform, dt float64) bool {
	if dt <= 0 {
		return false
	}
	solutions := c.kin.Inverse(targetPose)
	if len(solutions) == 0 || !solutions[0].Valid {
		c.logger.Debug("target pose unreachable: (%.3f, %.3f, %.3f)",
			targetPose.Position().X, targetPose.Position().Y, targetPose.Position().Z)
		return false
	}
	target := solutions[0].AxisPositions

	reached := true
	for i := range c.axes {
		axis := &c.axes[i]
		err := target[i] - axis.Position()
		if math.Abs(err) < positionTolerance {
			axis.Update(0, dt)
			continue
		}
		vel := math.Copysign(axis.MaxVelocity(), err)
		if math.Abs(vel*dt) > math.Abs(err) {
			vel = err / dt
		}
		axis.Update(vel, dt)
		if math.Abs(target[i]-axis.Position()) > positionTolerance {
			reached = false
		}
	}
	return reached
}

// Update advances all axes by dt with no command active, letting them
// decelerate to rest.
func (c *Controller) Update(dt float64) {
	if dt <= 0 {
		return
	}
	for i := range c.axes {
		c.axes[i].Update(0, dt)
	}
}

// Reset returns every axis to its zero position at rest.
func (c *Controller) Reset() {
	for i := range c.axes {
		c.axes[i].Reset()
	}
}

// AllAxesWithinLimits reports whether every axis is inside its travel
// limits.
func (c *Controller) AllAxesWithinLimits() bool {
	for i := range c.axes {
		if !c.axes[i].WithinLimits() {
			return false
		}
	}
	return true
}

// Valid reports whether the kinematics and all axis states are valid.
func (c *Controller) Valid() bool {
	if c.kin == nil || !c.kin.Valid() {
		return false
	}
	for i := range c.axes {
		if !c.axes[i].Valid() {
			return false
		}
	}
	return true
}
