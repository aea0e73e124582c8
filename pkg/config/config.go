// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vec3 is a [x, y, z] triple in the YAML schema.
type Vec3 [3]float64

// AxisSection defines one machine axis.
type AxisSection struct {
	Type            string  `yaml:"type"`
	Min             float64 `yaml:"min"`
	Max             float64 `yaml:"max"`
	MaxVelocity     float64 `yaml:"max_velocity"`
	MaxAcceleration float64 `yaml:"max_acceleration"`
	Resolution      float64 `yaml:"resolution"`
}

// SpindleSection defines the spindle.
type SpindleSection struct {
	MaxRPM    float64 `yaml:"max_rpm"`
	MinRPM    float64 `yaml:"min_rpm"`
	PowerKW   float64 `yaml:"power_kw"`
	Direction string  `yaml:"direction"`
}

// ToolChangerSection defines the optional tool changer.
type ToolChangerSection struct {
	Type       string  `yaml:"type"`
	Slots      int     `yaml:"slots"`
	ChangeTime float64 `yaml:"change_time"`
}

// EnvelopeSection defines the work envelope corners.
type EnvelopeSection struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

// MachineSection defines the machine.
type MachineSection struct {
	ID           string              `yaml:"id"`
	Name         string              `yaml:"name"`
	Kinematics   string              `yaml:"kinematics"`
	Axes         []AxisSection       `yaml:"axes"`
	Spindle      SpindleSection      `yaml:"spindle"`
	ToolChanger  *ToolChangerSection `yaml:"tool_changer"`
	WorkEnvelope *EnvelopeSection    `yaml:"work_envelope"`
}

// ToolSection defines one tool.
type ToolSection struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Type          string  `yaml:"type"`
	Diameter      float64 `yaml:"diameter"`
	FluteLength   float64 `yaml:"flute_length"`
	OverallLength float64 `yaml:"overall_length"`
	ShankDiameter float64 `yaml:"shank_diameter"`
	Tip           string  `yaml:"tip"`
	HolderLength  float64 `yaml:"holder_length"`
	MaxRPM        float64 `yaml:"max_rpm"`
	MaxFeedrate   float64 `yaml:"max_feedrate"`
}

// StockSection defines the stock.
type StockSection struct {
	Type       string  `yaml:"type"`
	Width      float64 `yaml:"width"`
	Length     float64 `yaml:"length"`
	Height     float64 `yaml:"height"`
	Radius     float64 `yaml:"radius"`
	Resolution float64 `yaml:"resolution"`
}

// SimulationSection defines engine parameters.
type SimulationSection struct {
	TimeStep float64 `yaml:"time_step"`
	Seed     uint64  `yaml:"seed"`
	Strategy string  `yaml:"strategy"`
}

// File is a fully parsed configuration file.
type File struct {
	Machine    MachineSection    `yaml:"machine"`
	Tools      []ToolSection     `yaml:"tools"`
	Stock      *StockSection     `yaml:"stock"`
	Simulation SimulationSection `yaml:"simulation"`
}

// Load parses and validates a configuration from a reader.
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapError("", "", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a configuration from raw YAML.
func LoadBytes(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, WrapError("", "", err)
	}
	f.applyDefaults()
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadString parses and validates a configuration from a string.
func LoadString(s string) (*File, error) {
	return LoadBytes([]byte(s))
}

// LoadFile parses and validates a configuration file from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError("", "", err)
	}
	return LoadBytes(data)
}

func (f *File) applyDefaults() {
	if f.Machine.Kinematics == "" {
		f.Machine.Kinematics = "cartesian"
	}
	for i := range f.Machine.Axes {
		if f.Machine.Axes[i].Resolution <= 0 {
			f.Machine.Axes[i].Resolution = 0.001
		}
	}
	if f.Machine.Spindle.Direction == "" {
		f.Machine.Spindle.Direction = "cw"
	}
	if f.Stock != nil {
		if f.Stock.Type == "" {
			f.Stock.Type = "block"
		}
		if f.Stock.Resolution <= 0 {
			f.Stock.Resolution = 0.5
		}
	}
	if f.Simulation.TimeStep <= 0 {
		f.Simulation.TimeStep = 0.001
	}
	if f.Simulation.Strategy == "" {
		f.Simulation.Strategy = "box"
	}
}

func (f *File) validate() error {
	m := &f.Machine
	if m.ID == "" {
		return ErrMissingOption("machine", "id")
	}
	if m.Name == "" {
		return ErrMissingOption("machine", "name")
	}
	if len(m.Axes) == 0 {
		return ErrMissingOption("machine", "axes")
	}
	seen := map[string]bool{}
	for _, a := range m.Axes {
		name := strings.ToUpper(a.Type)
		if !validAxisName(name) {
			return ErrInvalidValue("machine.axes", "type", a.Type, "one of X, Y, Z, A, B, C")
		}
		if seen[name] {
			return NewConfigError("machine.axes", "type", "axis "+name+" defined twice")
		}
		seen[name] = true
		if a.Min >= a.Max {
			return ErrOutOfRange("machine.axes", "min", a.Min, "must be below max")
		}
		if a.MaxVelocity <= 0 {
			return ErrOutOfRange("machine.axes", "max_velocity", a.MaxVelocity, "must be positive")
		}
		if a.MaxAcceleration <= 0 {
			return ErrOutOfRange("machine.axes", "max_acceleration", a.MaxAcceleration, "must be positive")
		}
	}
	if m.Spindle.MaxRPM <= 0 {
		return ErrOutOfRange("machine.spindle", "max_rpm", m.Spindle.MaxRPM, "must be positive")
	}
	if m.Spindle.MinRPM < 0 || m.Spindle.MinRPM > m.Spindle.MaxRPM {
		return ErrOutOfRange("machine.spindle", "min_rpm", m.Spindle.MinRPM, "must be within [0, max_rpm]")
	}
	if d := strings.ToLower(m.Spindle.Direction); d != "cw" && d != "ccw" {
		return ErrInvalidValue("machine.spindle", "direction", m.Spindle.Direction, "cw or ccw")
	}
	if c := m.ToolChanger; c != nil {
		if c.Slots < 0 {
			return ErrOutOfRange("machine.tool_changer", "slots", float64(c.Slots), "must not be negative")
		}
	}

	toolIDs := map[string]bool{}
	for _, t := range f.Tools {
		if t.ID == "" {
			return ErrMissingOption("tools", "id")
		}
		if toolIDs[t.ID] {
			return NewConfigError("tools", "id", "tool "+t.ID+" defined twice")
		}
		toolIDs[t.ID] = true
		if t.Diameter <= 0 {
			return ErrOutOfRange("tools", "diameter", t.Diameter, "must be positive")
		}
	}

	if s := f.Stock; s != nil {
		switch strings.ToLower(s.Type) {
		case "block":
			if s.Width <= 0 || s.Length <= 0 || s.Height <= 0 {
				return NewConfigError("stock", "", "block stock needs positive width, length and height")
			}
		case "cylinder":
			if s.Radius <= 0 || s.Height <= 0 {
				return NewConfigError("stock", "", "cylinder stock needs positive radius and height")
			}
		default:
			return ErrInvalidValue("stock", "type", s.Type, "block or cylinder")
		}
	}

	switch f.Simulation.Strategy {
	case "box", "contact_only":
	default:
		return ErrInvalidValue("simulation", "strategy", f.Simulation.Strategy, "box or contact_only")
	}
	return nil
}

func validAxisName(name string) bool {
	switch name {
	case "X", "Y", "Z", "A", "B", "C":
		return true
	}
	return false
}
