// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import (
	"math"
	"testing"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/geom"
)

// boxGrid is a minimal deterministic grid for engine tests: a solid block
// with removed sub-boxes tracked explicitly.
type boxGrid struct {
	box     geom.AABB
	removed []geom.AABB
	gone    float64
}

func newBoxGrid(w, l, h float64) *boxGrid {
	return &boxGrid{box: geom.NewAABB(geom.Vec{}, geom.Vec{X: w, Y: l, Z: h})}
}

func (g *boxGrid) IsOccupied(p geom.Vec) bool {
	if !g.box.Contains(p) {
		return false
	}
	for _, r := range g.removed {
		if r.Contains(p) {
			return false
		}
	}
	return true
}

func (g *boxGrid) RemoveRegion(box geom.AABB) bool {
	cut := g.box.Intersect(box)
	if !cut.IsValid() || cut.Volume() == 0 {
		return false
	}
	g.removed = append(g.removed, cut)
	g.gone += cut.Volume()
	return true
}

func (g *boxGrid) BoundingBox() geom.AABB { return g.box }
func (g *boxGrid) Resolution() float64    { return 0.5 }
func (g *boxGrid) RemainingVolume() float64 {
	return g.box.Volume() - g.gone
}
func (g *boxGrid) Valid() bool { return g.box.IsValid() }

func (g *boxGrid) Clone() MaterialGrid {
	out := &boxGrid{box: g.box, gone: g.gone}
	out.removed = append([]geom.AABB(nil), g.removed...)
	return out
}

func testState(seed uint64) *SimulationState {
	grid := newBoxGrid(100, 100, 20)
	pose := geom.Translation(geom.Vec{X: -10, Y: 50, Z: 10})
	return NewSimulationState(grid, pose, seed)
}

func cutSweep(x0, x1 float64) ToolSweep {
	return NewToolSweep(
		geom.Translation(geom.Vec{X: x0, Y: 50, Z: 10}),
		geom.Translation(geom.Vec{X: x1, Y: 50, Z: 10}),
		3, 20, 0.5)
}

func TestClockDefaults(t *testing.T) {
	if dt := NewClock(0).TimeStep(); dt != DefaultTimeStep {
		t.Errorf("default time step = %v", dt)
	}
	if dt := NewClock(0.01).TimeStep(); dt != 0.01 {
		t.Errorf("explicit time step = %v", dt)
	}
}

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("sequences diverged at draw %d", i)
		}
	}
	z := NewRNG(0)
	if z.Next() == 0 {
		t.Error("zero seed should not produce a degenerate sequence")
	}
	v := NewRNG(7)
	for i := 0; i < 100; i++ {
		f := v.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

func TestSweepInterpolation(t *testing.T) {
	start := geom.FromAxisAngle(geom.Vec{X: 0, Y: 0, Z: 10}, geom.Vec{Z: 1}, 0)
	end := geom.FromAxisAngle(geom.Vec{X: 10, Y: 0, Z: 10}, geom.Vec{Z: 1}, math.Pi/2)
	s := NewToolSweep(start, end, 3, 20, 0.5)

	if d := s.Distance(); math.Abs(d-10) > 1e-12 {
		t.Errorf("distance = %v, want 10", d)
	}
	if p := s.TransformAt(0).Position(); p != start.Position() {
		t.Errorf("t=0 position = %v", p)
	}
	if p := s.TransformAt(1).Position(); p != end.Position() {
		t.Errorf("t=1 position = %v", p)
	}
	mid := s.TransformAt(0.5).Position()
	if math.Abs(mid.X-5) > 1e-12 {
		t.Errorf("midpoint = %v", mid)
	}
	if s.IsTranslationOnly() {
		t.Error("rotating sweep should not be translation-only")
	}
	if !cutSweep(0, 10).IsTranslationOnly() {
		t.Error("pure translation not detected")
	}

	box := s.BoundingBox()
	if !box.Contains(start.Position()) || !box.Contains(end.Position()) {
		t.Error("sweep box must contain both endpoints")
	}
}

func TestStepBeforeInitialize(t *testing.T) {
	engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0))
	state := testState(1)

	r := engine.Step(state, cutSweep(0, 10))
	if r.Err == nil || !errors.Is(r.Err, errors.ErrInvalidState) {
		t.Fatalf("expected InvalidState, got %v", r.Err)
	}
	if errors.IsRecoverable(r.Err) {
		t.Error("stepping before initialize must not be recoverable")
	}
	if state.StepCount() != 0 {
		t.Error("failed step must leave the counter unchanged")
	}
}

func TestEngineStepBookkeeping(t *testing.T) {
	engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0.002))
	state := testState(1)
	if err := engine.Initialize(state); err != nil {
		t.Fatal(err)
	}

	sweep := cutSweep(0, 10)
	r := engine.Step(state, sweep)
	if r.Err != nil {
		t.Fatalf("step failed: %v", r.Err)
	}
	if state.StepCount() != 1 {
		t.Errorf("step count = %d", state.StepCount())
	}
	if math.Abs(state.ElapsedTime()-0.002) > 1e-15 {
		t.Errorf("elapsed time = %v", state.ElapsedTime())
	}
	if state.ToolPose().Position() != sweep.End().Position() {
		t.Error("tool pose not advanced to sweep end")
	}
	if r.TimeDelta != 0.002 || r.CellsProcessed == 0 {
		t.Errorf("result bookkeeping wrong: %+v", r)
	}
}

func TestCuttingRemovesMaterial(t *testing.T) {
	engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0))
	state := testState(1)
	if err := engine.Initialize(state); err != nil {
		t.Fatal(err)
	}
	before := state.Grid().RemainingVolume()

	r := engine.Step(state, cutSweep(10, 40))
	if r.Err != nil {
		t.Fatalf("cutting step failed: %v", r.Err)
	}
	if !r.ToolContact {
		t.Error("sweep through stock should contact material")
	}
	if r.CollisionDetected {
		t.Error("feed-rate contact is not a collision")
	}
	if r.MaterialRemovedVolume <= 0 {
		t.Error("no material removed")
	}
	if got := before - state.Grid().RemainingVolume(); math.Abs(got-r.MaterialRemovedVolume) > 1e-9 {
		t.Errorf("removed volume %v does not match grid delta %v", r.MaterialRemovedVolume, got)
	}
}

func TestRapidThroughStockCollides(t *testing.T) {
	engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0))
	state := testState(1)
	if err := engine.Initialize(state); err != nil {
		t.Fatal(err)
	}
	rapid := NewRapidSweep(
		geom.Translation(geom.Vec{X: 10, Y: 50, Z: 10}),
		geom.Translation(geom.Vec{X: 40, Y: 50, Z: 10}),
		3, 20, 0.5)

	r := engine.Step(state, rapid)
	if !r.CollisionDetected || !r.ToolContact {
		t.Fatal("rapid through stock must collide")
	}
	if !errors.Is(r.Err, errors.ErrCollision) || !errors.IsRecoverable(r.Err) {
		t.Errorf("collision error = %v", r.Err)
	}
	if r.MaterialRemovedVolume != 0 {
		t.Error("rapids must not remove material")
	}
	if state.StepCount() != 1 {
		t.Error("collision step still completes")
	}
}

func TestResetRestoresInitialConditions(t *testing.T) {
	engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0))
	state := testState(1)
	initial := state.Grid().RemainingVolume()
	if err := engine.Initialize(state); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if r := engine.Step(state, cutSweep(float64(i*10), float64(i*10+10))); r.Err != nil {
			t.Fatalf("step %d: %v", i, r.Err)
		}
	}
	if state.Grid().RemainingVolume() >= initial {
		t.Fatal("steps should have removed material")
	}

	if err := engine.Reset(state); err != nil {
		t.Fatal(err)
	}
	if state.StepCount() != 0 || state.ElapsedTime() != 0 {
		t.Error("reset must clear counters")
	}
	if state.Grid().RemainingVolume() != initial {
		t.Error("reset must restore the original stock")
	}
	if r := engine.Step(state, cutSweep(0, 10)); !errors.Is(r.Err, errors.ErrInvalidState) {
		t.Error("engine must require re-initialization after reset")
	}
}

func TestDeterministicStepping(t *testing.T) {
	run := func() (uint64, []StepResult) {
		engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0))
		state := testState(12345)
		ctl := NewStepController(engine, state)
		if err := ctl.Initialize(); err != nil {
			t.Fatal(err)
		}
		var sweeps []ToolSweep
		for i := 0; i < 50; i++ {
			x := float64(i * 2)
			sweeps = append(sweeps, cutSweep(x, x+2))
		}
		results := ctl.StepEach(sweeps)
		return HashState(state), results
	}

	h1, r1 := run()
	h2, r2 := run()
	if h1 != h2 {
		t.Fatalf("state hashes differ: %x vs %x", h1, h2)
	}
	if len(r1) != len(r2) {
		t.Fatalf("result counts differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Errorf("step %d results differ: %+v vs %+v", i, r1[i], r2[i])
		}
	}
}

func TestStateCloneIndependence(t *testing.T) {
	engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0))
	state := testState(9)
	if err := engine.Initialize(state); err != nil {
		t.Fatal(err)
	}
	branch := state.Clone()
	before := HashState(branch)

	fork := engine.Clone()
	if err := fork.Initialize(state); err != nil {
		t.Fatal(err)
	}
	if r := fork.Step(state, cutSweep(10, 40)); r.Err != nil {
		t.Fatal(r.Err)
	}
	if HashState(branch) != before {
		t.Error("stepping the original mutated the clone")
	}
	if HashState(state) == before {
		t.Error("stepping should have changed the original")
	}
}

func TestContactOnlyStrategy(t *testing.T) {
	engine := NewRemovalEngine(ContactOnlyStrategy{}, NewClock(0))
	if engine.Type() != "removal/contact_only" {
		t.Errorf("engine type = %q", engine.Type())
	}
	state := testState(1)
	before := state.Grid().RemainingVolume()
	if err := engine.Initialize(state); err != nil {
		t.Fatal(err)
	}
	r := engine.Step(state, cutSweep(10, 40))
	if !r.ToolContact {
		t.Error("dry run should still detect contact")
	}
	if r.MaterialRemovedVolume != 0 || state.Grid().RemainingVolume() != before {
		t.Error("dry run must not remove material")
	}
}

func TestControllerIntrospection(t *testing.T) {
	engine := NewRemovalEngine(BoxRemovalStrategy{}, NewClock(0))
	ctl := NewStepController(engine, testState(1))

	if _, ok := ctl.LastResult(); ok {
		t.Error("fresh controller has no cached result")
	}

	// Step without initialize: StepN must stop after the first failure.
	results := ctl.StepN(cutSweep(0, 10), 5)
	if len(results) != 1 {
		t.Fatalf("StepN ran %d steps after a failure", len(results))
	}
	if !ctl.LastStepHadError() || ctl.LastStepSucceeded() {
		t.Error("failure not reflected in introspection")
	}

	if err := ctl.Initialize(); err != nil {
		t.Fatal(err)
	}
	results = ctl.StepN(cutSweep(0, 10), 3)
	if len(results) != 3 {
		t.Fatalf("StepN ran %d steps, want 3", len(results))
	}
	if !ctl.LastStepSucceeded() || ctl.LastStepHadCollision() {
		t.Error("successful steps not reflected in introspection")
	}
	if ctl.State().StepCount() != 3 {
		t.Errorf("state stepped %d times", ctl.State().StepCount())
	}

	if err := ctl.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, ok := ctl.LastResult(); ok {
		t.Error("reset must clear the cached result")
	}
}
