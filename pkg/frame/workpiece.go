// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package frame

import (
	"math"

	"cncsim-go/pkg/geom"
)

// StockType describes the shape of raw stock material.
type StockType int

const (
	// StockBlock is rectangular block stock, the common case.
	StockBlock StockType = iota
	// StockCylinder is cylindrical bar stock.
	StockCylinder
	// StockCustom is arbitrary stock geometry supplied by the caller.
	StockCustom
)

// String returns the stock type name.
func (t StockType) String() string {
	switch t {
	case StockBlock:
		return "block"
	case StockCylinder:
		return "cylinder"
	case StockCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// StockDimensions holds the physical size of stock material. Dimensions
// are unit-agnostic; negative inputs are clamped to zero. The stock local
// frame has its origin at one corner, so the bounding box runs from the
// origin to (width, length, height).
type StockDimensions struct {
	width  float64 // X extent
	length float64 // Y extent
	height float64 // Z extent
}

// NewStockDimensions creates stock dimensions, clamping negatives to zero.
func NewStockDimensions(width, length, height float64) StockDimensions {
	return StockDimensions{
		width:  math.Max(width, 0),
		length: math.Max(length, 0),
		height: math.Max(height, 0),
	}
}

// Width returns the X extent.
func (d StockDimensions) Width() float64 { return d.width }

// Length returns the Y extent.
func (d StockDimensions) Length() float64 { return d.length }

// Height returns the Z extent.
func (d StockDimensions) Height() float64 { return d.height }

// Size returns the dimensions as a vector (width, length, height).
func (d StockDimensions) Size() geom.Vec {
	return geom.Vec{X: d.width, Y: d.length, Z: d.height}
}

// BoundingBox returns the stock AABB in the stock local frame.
func (d StockDimensions) BoundingBox() geom.AABB {
	return geom.NewAABB(geom.Vec{}, d.Size())
}

// Volume returns width * length * height.
func (d StockDimensions) Volume() float64 {
	return d.width * d.length * d.height
}

// Center returns the stock center in the stock local frame.
func (d StockDimensions) Center() geom.Vec {
	return geom.Vec{X: d.width * 0.5, Y: d.length * 0.5, Z: d.height * 0.5}
}

// Valid reports whether all dimensions are positive and finite.
func (d StockDimensions) Valid() bool {
	return d.width > 0 && d.length > 0 && d.height > 0 &&
		!math.IsInf(d.width, 0) && !math.IsInf(d.length, 0) && !math.IsInf(d.height, 0)
}

// Equals reports whether two dimensions match within tolerance.
func (d StockDimensions) Equals(other StockDimensions, tolerance float64) bool {
	return math.Abs(d.width-other.width) < tolerance &&
		math.Abs(d.length-other.length) < tolerance &&
		math.Abs(d.height-other.height) < tolerance
}

// Workpiece is raw stock mounted on the machine. Dimensions are a physical
// property and never change; the pose in machine coordinates can be updated
// when the stock is repositioned.
type Workpiece struct {
	id         string
	name       string
	stockType  StockType
	dimensions StockDimensions
	world      geom.Transform // workpiece frame -> machine frame
}

// NewWorkpiece creates a workpiece with the given pose in machine coordinates.
func NewWorkpiece(id, name string, stockType StockType, dims StockDimensions, world geom.Transform) *Workpiece {
	return &Workpiece{
		id:         id,
		name:       name,
		stockType:  stockType,
		dimensions: dims,
		world:      world,
	}
}

// ID returns the workpiece identifier.
func (w *Workpiece) ID() string { return w.id }

// Name returns the workpiece display name.
func (w *Workpiece) Name() string { return w.name }

// StockType returns the stock shape.
func (w *Workpiece) StockType() StockType { return w.stockType }

// Dimensions returns the physical dimensions.
func (w *Workpiece) Dimensions() StockDimensions { return w.dimensions }

// WorldTransform returns the workpiece-to-machine transform.
func (w *Workpiece) WorldTransform() geom.Transform { return w.world }

// SetWorldTransform repositions the workpiece in machine coordinates.
func (w *Workpiece) SetWorldTransform(t geom.Transform) {
	w.world = t
}

// ToMachine converts a point from workpiece to machine coordinates.
func (w *Workpiece) ToMachine(p geom.Vec) geom.Vec {
	return w.world.TransformPoint(p)
}

// FromMachine converts a point from machine to workpiece coordinates.
func (w *Workpiece) FromMachine(p geom.Vec) geom.Vec {
	return w.world.Inverse().TransformPoint(p)
}

// LocalBoundingBox returns the stock AABB in workpiece coordinates.
func (w *Workpiece) LocalBoundingBox() geom.AABB {
	return w.dimensions.BoundingBox()
}

// MachineBoundingBox returns the stock AABB in machine coordinates. The
// result is the axis-aligned hull of the transformed stock corners.
func (w *Workpiece) MachineBoundingBox() geom.AABB {
	return transformAABB(w.world, w.dimensions.BoundingBox())
}

// Valid reports whether the workpiece has an id, a name and valid dimensions.
func (w *Workpiece) Valid() bool {
	return w.id != "" && w.name != "" && w.dimensions.Valid()
}

// transformAABB maps an AABB through a rigid transform and returns the
// axis-aligned hull of the eight transformed corners.
func transformAABB(t geom.Transform, box geom.AABB) geom.AABB {
	corners := [8]geom.Vec{
		box.Min,
		{X: box.Max.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Max.Z},
		box.Max,
		{X: box.Min.X, Y: box.Max.Y, Z: box.Max.Z},
	}
	transformed := make([]geom.Vec, len(corners))
	for i, c := range corners {
		transformed[i] = t.TransformPoint(c)
	}
	return geom.BoundingBoxOf(transformed...)
}
