// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import (
	"strings"

	"cncsim-go/pkg/frame"
	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/kinematics"
	"cncsim-go/pkg/machine"
	"cncsim-go/pkg/material"
	"cncsim-go/pkg/sim"
	"cncsim-go/pkg/tool"
)

// BuildMachine constructs and validates the machine definition.
func (f *File) BuildMachine() (*machine.Machine, error) {
	mc := &f.Machine

	axes := make(map[machine.AxisType]machine.AxisDefinition, len(mc.Axes))
	for _, a := range mc.Axes {
		t, _ := axisTypeByName(strings.ToUpper(a.Type))
		axes[t] = machine.NewAxisDefinition(t, a.Min, a.Max,
			a.MaxVelocity, a.MaxAcceleration, a.Resolution)
	}

	dir := machine.Clockwise
	if strings.ToLower(mc.Spindle.Direction) == "ccw" {
		dir = machine.CounterClockwise
	}
	spindle := machine.NewSpindle(mc.Spindle.MaxRPM, mc.Spindle.MinRPM, mc.Spindle.PowerKW, dir)

	changer := machine.NoToolChanger()
	if c := mc.ToolChanger; c != nil {
		changer = machine.NewToolChanger(changerTypeByName(c.Type), c.Slots, c.ChangeTime)
	}

	envelope := envelopeFromAxes(axes)
	if e := mc.WorkEnvelope; e != nil {
		envelope = geom.NewAABB(
			geom.Vec{X: e.Min[0], Y: e.Min[1], Z: e.Min[2]},
			geom.Vec{X: e.Max[0], Y: e.Max[1], Z: e.Max[2]},
		)
	}

	m := machine.New(mc.ID, mc.Name, axes, spindle, changer, envelope, nil)
	if err := machine.Validate(m); err != nil {
		return nil, WrapError("machine", "", err)
	}
	return m, nil
}

// BuildKinematics constructs the kinematics named by the machine section,
// with travel limits taken from the axis definitions.
func (f *File) BuildKinematics() (kinematics.Kinematics, error) {
	cfg := kinematics.Config{Type: f.Machine.Kinematics}
	for _, a := range f.Machine.Axes {
		limits := [2]float64{a.Min, a.Max}
		switch strings.ToUpper(a.Type) {
		case "X":
			cfg.XLimits = limits
		case "Y":
			cfg.YLimits = limits
		case "Z":
			cfg.ZLimits = limits
		}
	}
	k, err := kinematics.NewFromConfig(cfg)
	if err != nil {
		return nil, WrapError("machine", "kinematics", err)
	}
	return k, nil
}

// BuildToolLibrary constructs the tool library from the tools section.
func (f *File) BuildToolLibrary() (*tool.Library, error) {
	lib := tool.NewLibrary()
	for _, tc := range f.Tools {
		g := tool.NewGeometry(tc.Diameter, tc.FluteLength, tc.OverallLength,
			tc.ShankDiameter, tipTypeByName(tc.Tip))
		t := tool.New(tc.ID, tc.Name, toolTypeByName(tc.Type), g, tc.MaxRPM, tc.MaxFeedrate)
		if err := lib.Add(t); err != nil {
			return nil, WrapError("tools", tc.ID, err)
		}
	}
	return lib, nil
}

// BuildStock constructs the workpiece and its material grid. Returns nil
// values when no stock section is present.
func (f *File) BuildStock() (*frame.Workpiece, *material.SDFGrid, error) {
	s := f.Stock
	if s == nil {
		return nil, nil, nil
	}
	switch strings.ToLower(s.Type) {
	case "cylinder":
		grid, err := material.NewCylinderGrid(s.Height, s.Radius, s.Resolution)
		if err != nil {
			return nil, nil, WrapError("stock", "", err)
		}
		dims := frame.NewStockDimensions(2*s.Radius, 2*s.Radius, s.Height)
		w := frame.NewWorkpiece("stock", "cylinder stock", frame.StockCylinder, dims, geom.Identity())
		return w, grid, nil
	default:
		dims := frame.NewStockDimensions(s.Width, s.Length, s.Height)
		grid, err := material.NewBlockGrid(dims, s.Resolution)
		if err != nil {
			return nil, nil, WrapError("stock", "", err)
		}
		w := frame.NewWorkpiece("stock", "block stock", frame.StockBlock, dims, geom.Identity())
		return w, grid, nil
	}
}

// BuildEngine constructs the simulation engine from the simulation
// section.
func (f *File) BuildEngine() *sim.RemovalEngine {
	var strategy sim.RemovalStrategy = sim.BoxRemovalStrategy{}
	if f.Simulation.Strategy == "contact_only" {
		strategy = sim.ContactOnlyStrategy{}
	}
	return sim.NewRemovalEngine(strategy, sim.NewClock(f.Simulation.TimeStep))
}

func axisTypeByName(name string) (machine.AxisType, bool) {
	switch name {
	case "X":
		return machine.AxisX, true
	case "Y":
		return machine.AxisY, true
	case "Z":
		return machine.AxisZ, true
	case "A":
		return machine.AxisA, true
	case "B":
		return machine.AxisB, true
	case "C":
		return machine.AxisC, true
	}
	return machine.AxisCustom, false
}

func toolTypeByName(name string) tool.Type {
	switch strings.ToLower(name) {
	case "", "end_mill":
		return tool.EndMill
	case "ball_end_mill":
		return tool.BallEndMill
	case "drill":
		return tool.Drill
	case "tap":
		return tool.Tap
	case "reamer":
		return tool.Reamer
	case "boring":
		return tool.Boring
	case "face_mill":
		return tool.FaceMill
	case "slot_mill":
		return tool.SlotMill
	default:
		return tool.Custom
	}
}

func tipTypeByName(name string) tool.TipType {
	switch strings.ToLower(name) {
	case "", "flat":
		return tool.TipFlat
	case "ball":
		return tool.TipBall
	case "point":
		return tool.TipPoint
	case "chamfer":
		return tool.TipChamfer
	default:
		return tool.TipCustom
	}
}

func changerTypeByName(name string) machine.ToolChangerType {
	switch strings.ToLower(name) {
	case "", "carousel":
		return machine.ChangerCarousel
	case "fixed":
		return machine.ChangerFixed
	case "chain":
		return machine.ChangerChain
	default:
		return machine.ChangerCustom
	}
}

// envelopeFromAxes derives a work envelope from the linear axis limits.
func envelopeFromAxes(axes map[machine.AxisType]machine.AxisDefinition) geom.AABB {
	var min, max geom.Vec
	if a, ok := axes[machine.AxisX]; ok {
		min.X, max.X = a.MinPosition(), a.MaxPosition()
	}
	if a, ok := axes[machine.AxisY]; ok {
		min.Y, max.Y = a.MinPosition(), a.MaxPosition()
	}
	if a, ok := axes[machine.AxisZ]; ok {
		min.Z, max.Z = a.MinPosition(), a.MaxPosition()
	}
	return geom.NewAABB(min, max)
}
