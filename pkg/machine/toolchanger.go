// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"math"
)

// ToolChangerType is the mechanical style of an automatic tool changer.
type ToolChangerType int

const (
	ChangerFixed ToolChangerType = iota
	ChangerCarousel
	ChangerChain
	ChangerCustom
)

// String returns the changer type name.
func (t ToolChangerType) String() string {
	switch t {
	case ChangerFixed:
		return "fixed"
	case ChangerCarousel:
		return "carousel"
	case ChangerChain:
		return "chain"
	case ChangerCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// DefaultToolChangeTime is assumed when no change time is configured.
const DefaultToolChangeTime = 5.0

// ToolChanger describes automatic tool changer capability: slot capacity
// and change time. A capacity of zero means the machine has no changer.
// Change time is used for cycle time estimation.
type ToolChanger struct {
	changerType    ToolChangerType
	maxToolSlots   int
	toolChangeTime float64
}

// NewToolChanger creates a tool changer definition. Negative capacities
// clamp to zero; negative change times fall back to the default.
func NewToolChanger(changerType ToolChangerType, maxToolSlots int, toolChangeTime float64) ToolChanger {
	if maxToolSlots < 0 {
		maxToolSlots = 0
	}
	if toolChangeTime < 0 {
		toolChangeTime = DefaultToolChangeTime
	}
	return ToolChanger{
		changerType:    changerType,
		maxToolSlots:   maxToolSlots,
		toolChangeTime: toolChangeTime,
	}
}

// NoToolChanger returns a definition for a machine without a changer.
func NoToolChanger() ToolChanger {
	return ToolChanger{changerType: ChangerFixed}
}

// Type returns the changer type.
func (c ToolChanger) Type() ToolChangerType { return c.changerType }

// MaxToolSlots returns the slot capacity.
func (c ToolChanger) MaxToolSlots() int { return c.maxToolSlots }

// ToolChangeTime returns the change time in seconds.
func (c ToolChanger) ToolChangeTime() float64 { return c.toolChangeTime }

// HasCapacity reports whether another tool fits.
func (c ToolChanger) HasCapacity(currentToolCount int) bool {
	return currentToolCount < c.maxToolSlots
}

// Present reports whether the machine has a changer at all.
func (c ToolChanger) Present() bool {
	return c.maxToolSlots > 0
}

// Valid reports whether the definition is self-consistent. A machine
// without a changer is valid.
func (c ToolChanger) Valid() bool {
	return c.maxToolSlots >= 0 &&
		c.toolChangeTime >= 0 &&
		!math.IsInf(c.toolChangeTime, 0) && !math.IsNaN(c.toolChangeTime)
}
