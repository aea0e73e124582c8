// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package material

import (
	"math"
	"testing"

	"cncsim-go/pkg/frame"
	"cncsim-go/pkg/geom"
)

func blockGrid(t *testing.T) *SDFGrid {
	t.Helper()
	g, err := NewBlockGrid(frame.NewStockDimensions(100, 100, 20), 2)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBlockOccupancy(t *testing.T) {
	g := blockGrid(t)
	if !g.Valid() {
		t.Fatal("block grid should be valid")
	}
	inside := []geom.Vec{
		{X: 50, Y: 50, Z: 10},
		{X: 1, Y: 1, Z: 1},
		{X: 99, Y: 99, Z: 19},
	}
	for _, p := range inside {
		if !g.IsOccupied(p) {
			t.Errorf("point %v should be inside stock", p)
		}
	}
	outside := []geom.Vec{
		{X: -5, Y: 50, Z: 10},
		{X: 50, Y: 50, Z: 25},
		{X: 110, Y: 50, Z: 10},
	}
	for _, p := range outside {
		if g.IsOccupied(p) {
			t.Errorf("point %v should be outside stock", p)
		}
	}
}

func TestBlockBoundingBoxAndVolume(t *testing.T) {
	g := blockGrid(t)
	box := g.BoundingBox()
	if !box.Contains(geom.Vec{X: 50, Y: 50, Z: 10}) {
		t.Errorf("bounding box %+v does not cover the stock", box)
	}
	vol := g.RemainingVolume()
	want := 100.0 * 100 * 20
	if math.Abs(vol-want)/want > 0.05 {
		t.Errorf("remaining volume = %v, want about %v", vol, want)
	}
	if g.RemainingVolume() != vol {
		t.Error("repeated measurement must agree exactly")
	}
}

func TestRemoveRegion(t *testing.T) {
	g := blockGrid(t)
	before := g.RemainingVolume()

	if g.RemoveRegion(geom.NewAABB(geom.Vec{X: 200, Y: 200, Z: 200}, geom.Vec{X: 210, Y: 210, Z: 210})) {
		t.Error("cut outside the stock should remove nothing")
	}

	cut := geom.NewAABB(geom.Vec{X: 40, Y: 40, Z: 10}, geom.Vec{X: 60, Y: 60, Z: 20})
	if !g.RemoveRegion(cut) {
		t.Fatal("cut through the stock should remove material")
	}
	if g.IsOccupied(geom.Vec{X: 50, Y: 50, Z: 15}) {
		t.Error("center of the cut should be empty")
	}
	if !g.IsOccupied(geom.Vec{X: 10, Y: 10, Z: 10}) {
		t.Error("material away from the cut should remain")
	}
	if g.RemainingVolume() >= before {
		t.Error("removal should reduce remaining volume")
	}
}

func TestCloneIndependence(t *testing.T) {
	g := blockGrid(t)
	clone := g.Clone()

	cut := geom.NewAABB(geom.Vec{X: 0, Y: 0, Z: 0}, geom.Vec{X: 100, Y: 100, Z: 10})
	if !g.RemoveRegion(cut) {
		t.Fatal("cut failed")
	}
	if g.IsOccupied(geom.Vec{X: 50, Y: 50, Z: 5}) {
		t.Error("original should have lost the lower half")
	}
	if !clone.IsOccupied(geom.Vec{X: 50, Y: 50, Z: 5}) {
		t.Error("clone must be unaffected by cuts on the original")
	}
}

func TestCylinderGrid(t *testing.T) {
	g, err := NewCylinderGrid(30, 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsOccupied(geom.Vec{X: 0, Y: 0, Z: 15}) {
		t.Error("cylinder axis should be occupied")
	}
	if g.IsOccupied(geom.Vec{X: 25, Y: 0, Z: 15}) {
		t.Error("point beyond the radius should be empty")
	}
	if g.IsOccupied(geom.Vec{X: 0, Y: 0, Z: 35}) {
		t.Error("point above the cylinder should be empty")
	}
}

func TestConstructorRejections(t *testing.T) {
	if _, err := NewBlockGrid(frame.NewStockDimensions(0, 10, 10), 1); err == nil {
		t.Error("zero-width stock must be rejected")
	}
	if _, err := NewCylinderGrid(0, 10, 1); err == nil {
		t.Error("zero-height cylinder must be rejected")
	}
}
