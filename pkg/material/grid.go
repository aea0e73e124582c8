// Package material provides a signed-distance-field stock model backing
// the simulation engine's material grid contract. Stock shapes and
// boolean subtraction come from the sdfx CAD library; occupancy is a
// distance evaluation and remaining volume is measured by deterministic
// cell-center sampling.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package material

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/frame"
	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/sim"
)

// DefaultResolution is the grid resolution used when none is given.
const DefaultResolution = 0.5

// maxVolumeSamplesPerAxis caps the sampling density of RemainingVolume so
// the measurement stays O(bounded) for large stock.
const maxVolumeSamplesPerAxis = 64

// SDFGrid is a material grid whose stock is a signed distance field.
// Removal subtracts axis-aligned boxes from the field. SDF nodes are
// immutable once built, so clones share them until a removal replaces
// the clone's root.
type SDFGrid struct {
	stock      sdf.SDF3
	resolution float64
	volume     float64
	volumeOK   bool
}

var _ sim.MaterialGrid = (*SDFGrid)(nil)

// NewBlockGrid creates a solid block with its minimum corner at the
// origin, matching the stock convention of workpiece dimensions. A
// non-positive resolution falls back to DefaultResolution.
func NewBlockGrid(dims frame.StockDimensions, resolution float64) (*SDFGrid, error) {
	if !dims.Valid() || dims.Volume() == 0 {
		return nil, errors.InvalidArgument("stock dimensions must be positive and finite")
	}
	size := v3.Vec{X: dims.Width(), Y: dims.Length(), Z: dims.Height()}
	box, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, errors.ResourceInvalid("material_grid", err.Error())
	}
	// Box3D centers the box; shift to min-corner origin.
	stock := sdf.Transform3D(box, sdf.Translate3d(v3.Vec{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}))
	return newGrid(stock, resolution), nil
}

// NewCylinderGrid creates a solid cylinder standing on the XY plane,
// centered on the Z axis.
func NewCylinderGrid(height, radius, resolution float64) (*SDFGrid, error) {
	if height <= 0 || radius <= 0 {
		return nil, errors.InvalidArgument("cylinder stock needs positive height and radius")
	}
	cyl, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, errors.ResourceInvalid("material_grid", err.Error())
	}
	stock := sdf.Transform3D(cyl, sdf.Translate3d(v3.Vec{Z: height / 2}))
	return newGrid(stock, resolution), nil
}

func newGrid(stock sdf.SDF3, resolution float64) *SDFGrid {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &SDFGrid{stock: stock, resolution: resolution}
}

// IsOccupied implements sim.MaterialGrid.
func (g *SDFGrid) IsOccupied(p geom.Vec) bool {
	return g.stock.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z}) <= 0
}

// RemoveRegion implements sim.MaterialGrid. The cut is clipped to the
// stock extent; a cut that misses the stock entirely removes nothing.
func (g *SDFGrid) RemoveRegion(box geom.AABB) bool {
	cut := box.Intersect(g.BoundingBox())
	if !cut.IsValid() || cut.Volume() == 0 {
		return false
	}
	size := cut.Size()
	cutter, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, 0)
	if err != nil {
		return false
	}
	center := cut.Center()
	cutter3 := sdf.Transform3D(cutter, sdf.Translate3d(v3.Vec{X: center.X, Y: center.Y, Z: center.Z}))
	g.stock = sdf.Difference3D(g.stock, cutter3)
	g.volumeOK = false
	return true
}

// BoundingBox implements sim.MaterialGrid.
func (g *SDFGrid) BoundingBox() geom.AABB {
	bb := g.stock.BoundingBox()
	return geom.NewAABB(
		geom.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		geom.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	)
}

// Resolution implements sim.MaterialGrid.
func (g *SDFGrid) Resolution() float64 { return g.resolution }

// RemainingVolume implements sim.MaterialGrid. The field is sampled at
// cell centers over the stock extent; the sample lattice depends only on
// the extent and resolution, so repeated measurements of the same stock
// agree exactly.
func (g *SDFGrid) RemainingVolume() float64 {
	if g.volumeOK {
		return g.volume
	}
	box := g.BoundingBox()
	size := box.Size()
	nx := sampleCount(size.X, g.resolution)
	ny := sampleCount(size.Y, g.resolution)
	nz := sampleCount(size.Z, g.resolution)
	cell := (size.X / float64(nx)) * (size.Y / float64(ny)) * (size.Z / float64(nz))

	occupied := 0
	for i := 0; i < nx; i++ {
		x := box.Min.X + (float64(i)+0.5)*size.X/float64(nx)
		for j := 0; j < ny; j++ {
			y := box.Min.Y + (float64(j)+0.5)*size.Y/float64(ny)
			for k := 0; k < nz; k++ {
				z := box.Min.Z + (float64(k)+0.5)*size.Z/float64(nz)
				if g.stock.Evaluate(v3.Vec{X: x, Y: y, Z: z}) <= 0 {
					occupied++
				}
			}
		}
	}
	g.volume = float64(occupied) * cell
	g.volumeOK = true
	return g.volume
}

func sampleCount(extent, resolution float64) int {
	n := int(math.Ceil(extent / resolution))
	if n < 1 {
		n = 1
	}
	if n > maxVolumeSamplesPerAxis {
		n = maxVolumeSamplesPerAxis
	}
	return n
}

// Valid implements sim.MaterialGrid.
func (g *SDFGrid) Valid() bool {
	return g != nil && g.stock != nil && g.resolution > 0 && g.BoundingBox().IsValid()
}

// Clone implements sim.MaterialGrid. The SDF tree is immutable, so the
// clone shares it; a later RemoveRegion on either grid only replaces that
// grid's own root.
func (g *SDFGrid) Clone() sim.MaterialGrid {
	out := *g
	return &out
}
