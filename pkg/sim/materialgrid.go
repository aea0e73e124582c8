// Package sim implements the deterministic simulation engine: material
// grid contract, tool sweeps, simulation state, a strategy-composed
// stepping engine and a synchronous step controller. For identical seeds
// and identical input sequences two runs produce bit-identical results.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import "cncsim-go/pkg/geom"

// MaterialGrid is the opaque stock-material representation the engine
// cuts against. Implementations own their internal representation (voxel,
// SDF, mesh); the engine only uses this contract. Clone must return a
// fully independent copy: grids are never shared between states.
type MaterialGrid interface {
	// IsOccupied reports whether material remains at the point.
	IsOccupied(p geom.Vec) bool
	// RemoveRegion subtracts the box from the stock and reports whether
	// any material was removed.
	RemoveRegion(box geom.AABB) bool
	// BoundingBox returns the stock extent.
	BoundingBox() geom.AABB
	// Resolution returns the smallest feature size the grid resolves.
	Resolution() float64
	// RemainingVolume returns the volume of material still present.
	RemainingVolume() float64
	// Valid reports whether the grid is usable.
	Valid() bool
	// Clone returns an independent deep copy.
	Clone() MaterialGrid
}
