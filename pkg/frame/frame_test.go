// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package frame

import (
	"math"
	"testing"

	"cncsim-go/pkg/geom"
)

func vecNear(a, b geom.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestCoordinateFrameRoundTrip(t *testing.T) {
	f := NewCoordinateFrame("fixture", geom.FromAxisAngle(
		geom.Vec{X: 10, Y: 20, Z: 5},
		geom.Vec{Z: 1}, math.Pi/4,
	))

	p := geom.Vec{X: 1, Y: 2, Z: 3}
	back := f.FromParent(f.ToParent(p))
	if !vecNear(p, back, 1e-12) {
		t.Errorf("round trip mismatch: got %v, want %v", back, p)
	}
}

func TestCoordinateFrameAxes(t *testing.T) {
	// 90 degree rotation about Z maps local X to parent Y.
	f := NewCoordinateFrame("rotated", geom.FromAxisAngle(
		geom.Vec{}, geom.Vec{Z: 1}, math.Pi/2,
	))

	if !vecNear(f.XAxis(), geom.Vec{Y: 1}, 1e-12) {
		t.Errorf("XAxis = %v, want (0,1,0)", f.XAxis())
	}
	if !vecNear(f.YAxis(), geom.Vec{X: -1}, 1e-12) {
		t.Errorf("YAxis = %v, want (-1,0,0)", f.YAxis())
	}
	if !vecNear(f.ZAxis(), geom.Vec{Z: 1}, 1e-12) {
		t.Errorf("ZAxis = %v, want (0,0,1)", f.ZAxis())
	}
}

func TestCoordinateFrameValid(t *testing.T) {
	if NewCoordinateFrame("", geom.Identity()).Valid() {
		t.Error("unnamed frame should be invalid")
	}
	if !NewCoordinateFrame("mcs", geom.Identity()).Valid() {
		t.Error("named identity frame should be valid")
	}
}

func TestWorkOffsetIDString(t *testing.T) {
	tests := []struct {
		id   WorkOffsetID
		want string
	}{
		{G54, "G54"},
		{G59, "G59"},
		{G59_1, "G54.1P1"},
		{G59_3, "G54.1P3"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestWorkOffsetTranslation(t *testing.T) {
	o := NewTranslationOffset(G54, geom.Vec{X: 100, Y: 50, Z: 25})

	machine := o.WorkpieceToMachine(geom.Vec{X: 1, Y: 2, Z: 3})
	want := geom.Vec{X: 101, Y: 52, Z: 28}
	if !vecNear(machine, want, 1e-12) {
		t.Errorf("WorkpieceToMachine = %v, want %v", machine, want)
	}

	back := o.MachineToWorkpiece(machine)
	if !vecNear(back, geom.Vec{X: 1, Y: 2, Z: 3}, 1e-12) {
		t.Errorf("MachineToWorkpiece round trip = %v", back)
	}

	if !o.IsTranslationOnly() {
		t.Error("translation offset not detected as translation-only")
	}
}

func TestWorkOffsetWithRotation(t *testing.T) {
	o := NewWorkOffset(G55, geom.FromAxisAngle(
		geom.Vec{X: 10}, geom.Vec{Z: 1}, math.Pi/2,
	))
	if o.IsTranslationOnly() {
		t.Error("rotated offset reported as translation-only")
	}
	// Local +X maps to machine +Y after the quarter turn.
	got := o.WorkpieceToMachine(geom.Vec{X: 1})
	if !vecNear(got, geom.Vec{X: 10, Y: 1}, 1e-12) {
		t.Errorf("WorkpieceToMachine = %v, want (10,1,0)", got)
	}
}

func TestStockDimensions(t *testing.T) {
	d := NewStockDimensions(100, 50, 25)
	if !d.Valid() {
		t.Fatal("positive dimensions should be valid")
	}
	if d.Volume() != 100*50*25 {
		t.Errorf("Volume = %v", d.Volume())
	}
	if !vecNear(d.Center(), geom.Vec{X: 50, Y: 25, Z: 12.5}, 1e-12) {
		t.Errorf("Center = %v", d.Center())
	}

	box := d.BoundingBox()
	if !vecNear(box.Min, geom.Vec{}, 0) || !vecNear(box.Max, geom.Vec{X: 100, Y: 50, Z: 25}, 0) {
		t.Errorf("BoundingBox = %+v", box)
	}

	clamped := NewStockDimensions(-1, 50, 25)
	if clamped.Valid() {
		t.Error("clamped zero dimension should be invalid")
	}
}

func TestWorkpieceBoundingBoxInMachineCoords(t *testing.T) {
	w := NewWorkpiece("wp1", "test block", StockBlock,
		NewStockDimensions(10, 20, 30),
		geom.Translation(geom.Vec{X: 100, Y: 200, Z: 300}))

	box := w.MachineBoundingBox()
	if !vecNear(box.Min, geom.Vec{X: 100, Y: 200, Z: 300}, 1e-12) {
		t.Errorf("Min = %v", box.Min)
	}
	if !vecNear(box.Max, geom.Vec{X: 110, Y: 220, Z: 330}, 1e-12) {
		t.Errorf("Max = %v", box.Max)
	}
}

func TestMountRejectsInvalidWorkpiece(t *testing.T) {
	m := NewWorkpieceMount()
	bad := NewWorkpiece("", "", StockBlock, NewStockDimensions(0, 0, 0), geom.Identity())
	if err := m.Mount(bad); err == nil {
		t.Fatal("mounting invalid workpiece should fail")
	}
	if m.HasWorkpiece() {
		t.Error("failed mount should leave mount empty")
	}
	if err := m.Mount(nil); err == nil {
		t.Error("mounting nil workpiece should fail")
	}
}

func TestMountOffsetTable(t *testing.T) {
	m := NewWorkpieceMount()
	if m.ActiveWorkOffsetID() != G54 {
		t.Errorf("default active offset = %v, want G54", m.ActiveWorkOffsetID())
	}
	if _, ok := m.ActiveWorkOffset(); ok {
		t.Error("undefined active offset should report not found")
	}

	if err := m.SetWorkOffset(NewTranslationOffset(G55, geom.Vec{X: 5})); err != nil {
		t.Fatalf("SetWorkOffset: %v", err)
	}
	if err := m.SetActiveWorkOffset(G55); err != nil {
		t.Fatalf("SetActiveWorkOffset: %v", err)
	}
	o, ok := m.ActiveWorkOffset()
	if !ok || o.ID() != G55 {
		t.Errorf("active offset = %+v, ok=%v", o, ok)
	}

	if err := m.SetActiveWorkOffset(WorkOffsetID(99)); err == nil {
		t.Error("unknown register should be rejected")
	}
}

func TestMountCoordinateChain(t *testing.T) {
	m := NewWorkpieceMount()
	w := NewWorkpiece("wp1", "block", StockBlock,
		NewStockDimensions(10, 10, 10),
		geom.Translation(geom.Vec{X: 1, Y: 2, Z: 3}))
	if err := m.Mount(w); err != nil {
		t.Fatal(err)
	}
	if err := m.SetWorkOffset(NewTranslationOffset(G54, geom.Vec{X: 100})); err != nil {
		t.Fatal(err)
	}

	// Workpiece pose then offset: (0,0,0) -> (1,2,3) -> (101,2,3).
	got := m.WorkpieceToMachine(geom.Vec{})
	if !vecNear(got, geom.Vec{X: 101, Y: 2, Z: 3}, 1e-12) {
		t.Errorf("WorkpieceToMachine = %v", got)
	}

	back := m.MachineToWorkpiece(got)
	if !vecNear(back, geom.Vec{}, 1e-12) {
		t.Errorf("MachineToWorkpiece round trip = %v", back)
	}
}

func TestMountWithoutWorkpieceIsIdentity(t *testing.T) {
	m := NewWorkpieceMount()
	p := geom.Vec{X: 7, Y: 8, Z: 9}
	if got := m.WorkpieceToMachine(p); got != p {
		t.Errorf("empty mount WorkpieceToMachine = %v, want identity", got)
	}
	if got := m.MachineToWorkpiece(p); got != p {
		t.Errorf("empty mount MachineToWorkpiece = %v, want identity", got)
	}
	if m.WorkpieceBoundingBox().IsValid() {
		t.Error("empty mount bounding box should be invalid")
	}
}
