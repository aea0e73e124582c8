// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"math"
	"testing"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/machine"
)

func testMachine() *machine.Machine {
	axes := map[machine.AxisType]machine.AxisDefinition{
		machine.AxisX: machine.NewAxisDefinition(machine.AxisX, 0, 500, 10000, 2000, 0.001),
		machine.AxisY: machine.NewAxisDefinition(machine.AxisY, 0, 400, 10000, 2000, 0.001),
		machine.AxisZ: machine.NewAxisDefinition(machine.AxisZ, -150, 0, 5000, 1000, 0.001),
	}
	spindle := machine.NewSpindle(24000, 100, 7.5, machine.Clockwise)
	env := geom.NewAABB(geom.Vec{X: 0, Y: 0, Z: -150}, geom.Vec{X: 500, Y: 400, Z: 0})
	return machine.New("mill-1", "Test Mill", axes, spindle, machine.NoToolChanger(), env, nil)
}

func feedState(x, y, z, feed float64) State {
	return NewState(geom.Vec{X: x, Y: y, Z: z}).WithFeedRate(feed)
}

func TestStateClamping(t *testing.T) {
	s := NewState(geom.Vec{}).WithFeedRate(-100).WithSpindleRPM(-1)
	if s.FeedRate() != 0 {
		t.Errorf("negative feed rate not clamped: %v", s.FeedRate())
	}
	if s.SpindleRPM() != 0 {
		t.Errorf("negative RPM not clamped: %v", s.SpindleRPM())
	}
	if s.HasFeedRate() || s.SpindleRunning() {
		t.Error("clamped state should report no feed and stopped spindle")
	}
}

func TestStateWithMethodsImmutable(t *testing.T) {
	base := NewState(geom.Vec{X: 1})
	derived := base.WithTool("T1").WithSpindleRPM(8000).WithCoolant(CoolantFlood)
	if base.HasTool() || base.SpindleRunning() || base.Coolant() != CoolantOff {
		t.Error("derived state mutated its base")
	}
	if derived.ToolID() != "T1" || derived.SpindleRPM() != 8000 {
		t.Errorf("derived state wrong: %+v", derived)
	}
	if !base.Equal(NewState(geom.Vec{X: 1})) {
		t.Error("structural equality failed")
	}
}

func TestStateValid(t *testing.T) {
	if !NewState(geom.Vec{X: 1, Y: 2, Z: 3}).Valid() {
		t.Error("finite state should be valid")
	}
	if NewState(geom.Vec{X: math.NaN()}).Valid() {
		t.Error("NaN position should be invalid")
	}
	if NewState(geom.Vec{}).WithRotary(0, math.Inf(1), 0).Valid() {
		t.Error("infinite rotary should be invalid")
	}
}

func TestMoveTypeClassification(t *testing.T) {
	cases := []struct {
		mt       MoveType
		cutting  bool
		arc      bool
		needFeed bool
		control  bool
	}{
		{Rapid, false, false, false, false},
		{Linear, true, false, true, false},
		{ArcCW, true, true, true, false},
		{ArcCCW, true, true, true, false},
		{Dwell, false, false, false, true},
		{ToolChange, false, false, false, true},
		{SpindleStart, false, false, false, true},
		{SpindleStop, false, false, false, true},
	}
	for _, c := range cases {
		if c.mt.IsCutting() != c.cutting || c.mt.IsArc() != c.arc ||
			c.mt.RequiresFeedrate() != c.needFeed || c.mt.IsControl() != c.control {
			t.Errorf("%v: wrong classification", c.mt)
		}
	}
}

func TestControlMovesRewriteEndState(t *testing.T) {
	s := NewState(geom.Vec{X: 10}).WithTool("T1").WithSpindleRPM(6000)

	tc := NewToolChange(s, "T2")
	if tc.End().ToolID() != "T2" {
		t.Errorf("tool change end tool = %q, want T2", tc.End().ToolID())
	}
	if tc.Start().ToolID() != "T1" {
		t.Error("tool change must not alter the start state")
	}

	start := NewSpindleStart(s, 12000)
	if start.End().SpindleRPM() != 12000 {
		t.Errorf("spindle start end RPM = %v, want 12000", start.End().SpindleRPM())
	}

	stop := NewSpindleStop(s)
	if stop.End().SpindleRPM() != 0 {
		t.Errorf("spindle stop end RPM = %v, want 0", stop.End().SpindleRPM())
	}
	if stop.End().Position() != s.Position() {
		t.Error("spindle stop must not move the machine")
	}
}

func TestDwell(t *testing.T) {
	s := feedState(1, 2, 3, 500)
	d := NewDwell(s, 2.5)
	if d.DwellSeconds() != 2.5 || d.EstimatedTime() != 2.5 {
		t.Errorf("dwell time = %v", d.DwellSeconds())
	}
	if !d.Start().Equal(d.End()) {
		t.Error("dwell start and end states must match")
	}
	if NewDwell(s, -1).DwellSeconds() != 0 {
		t.Error("negative dwell not clamped")
	}
	if d.Length() != 0 {
		t.Error("dwell has no path length")
	}
}

func TestMoveLength(t *testing.T) {
	lin := NewLinear(feedState(0, 0, 0, 600), feedState(3, 4, 0, 600))
	if math.Abs(lin.Length()-5) > 1e-12 {
		t.Errorf("linear length = %v, want 5", lin.Length())
	}

	// Quarter circle of radius 10 around the origin.
	arc := NewArc(ArcCCW, feedState(10, 0, 0, 600), feedState(0, 10, 0, 600), geom.Vec{})
	want := 10 * math.Pi / 2
	if math.Abs(arc.Length()-want) > 1e-9 {
		t.Errorf("arc length = %v, want %v", arc.Length(), want)
	}
}

func TestMoveEstimatedTime(t *testing.T) {
	lin := NewLinear(feedState(0, 0, 0, 600), feedState(100, 0, 0, 600))
	if math.Abs(lin.EstimatedTime()-10) > 1e-9 {
		t.Errorf("linear time = %v, want 10s", lin.EstimatedTime())
	}

	rapid := NewRapid(NewState(geom.Vec{}), NewState(geom.Vec{X: DefaultRapidRate}), true)
	if math.Abs(rapid.EstimatedTime()-60) > 1e-9 {
		t.Errorf("rapid time = %v, want 60s", rapid.EstimatedTime())
	}

	noFeed := NewLinear(NewState(geom.Vec{}), NewState(geom.Vec{X: 10}))
	if noFeed.EstimatedTime() != 0 {
		t.Error("feed move without a feed rate has no defined time")
	}

	tc := NewToolChange(NewState(geom.Vec{}), "T1")
	if tc.EstimatedTime() != DefaultToolChangeTime {
		t.Errorf("tool change time = %v", tc.EstimatedTime())
	}
}

func TestIsZeroLength(t *testing.T) {
	s := feedState(5, 5, 5, 600)
	if !NewLinear(s, s).IsZeroLength() {
		t.Error("coincident endpoints should be zero-length")
	}
	if NewLinear(s, feedState(5.001, 5, 5, 600)).IsZeroLength() {
		t.Error("displaced endpoints should not be zero-length")
	}
	if NewToolChange(s, "T1").IsZeroLength() {
		t.Error("control moves always have an effect")
	}
}

func TestToolpathAppendAndUsage(t *testing.T) {
	tp := New("", "mill-1")
	if tp.ID() == "" {
		t.Fatal("empty id should be replaced with a generated one")
	}
	if !tp.Empty() {
		t.Fatal("new toolpath should be empty")
	}

	s0 := NewState(geom.Vec{})
	tp.Append(NewToolChange(s0, "T1"))
	s1 := s0.WithTool("T1")
	tp.Append(NewRapid(s1, s1.WithPosition(geom.Vec{X: 10}), true))
	s2 := s1.WithPosition(geom.Vec{X: 10}).WithFeedRate(600)
	tp.Append(NewLinear(s2, s2.WithPosition(geom.Vec{X: 20})))

	if tp.MoveCount() != 3 {
		t.Fatalf("move count = %d", tp.MoveCount())
	}
	usage := tp.ToolUsage()
	if usage["T1"] != 3 {
		t.Errorf("T1 usage = %d, want 3", usage["T1"])
	}
	ids := tp.UsedToolIDs()
	if len(ids) != 1 || ids[0] != "T1" {
		t.Errorf("used tools = %v", ids)
	}

	first, ok := tp.FirstState()
	if !ok || first.HasTool() {
		t.Error("first state should predate the tool change")
	}
	last, ok := tp.LastState()
	if !ok || last.Position().X != 20 {
		t.Errorf("last state position = %v", last.Position())
	}
}

func TestToolpathAnalysis(t *testing.T) {
	tp := New("tp-1", "mill-1")
	a := feedState(0, 0, 0, 600)
	b := feedState(30, 0, 0, 600)
	c := feedState(30, 40, 0, 600)
	tp.AppendAll(NewLinear(a, b), NewLinear(b, c))

	if math.Abs(tp.TotalLength()-70) > 1e-9 {
		t.Errorf("total length = %v, want 70", tp.TotalLength())
	}
	wantTime := 70.0 / 600 * 60
	if math.Abs(tp.EstimatedMachiningTime()-wantTime) > 1e-9 {
		t.Errorf("machining time = %v, want %v", tp.EstimatedMachiningTime(), wantTime)
	}
	box := tp.BoundingBox()
	if box.Min != (geom.Vec{}) || box.Max != (geom.Vec{X: 30, Y: 40}) {
		t.Errorf("bounding box = [%v, %v]", box.Min, box.Max)
	}
	if bb := New("tp-2", "mill-1").BoundingBox(); bb.IsValid() {
		t.Error("empty toolpath should have an invalid bounding box")
	}
}

func TestValidateAcceptsGoodPath(t *testing.T) {
	tp := New("tp-1", "mill-1")
	s0 := NewState(geom.Vec{X: 10, Y: 10, Z: -10})
	tp.Append(NewToolChange(s0, "T1"))
	s1 := s0.WithTool("T1")
	tp.Append(NewSpindleStart(s1, 8000))
	s2 := s1.WithSpindleRPM(8000).WithFeedRate(600)
	tp.Append(NewLinear(s2, s2.WithPosition(geom.Vec{X: 100, Y: 10, Z: -10})))

	if err := Validate(tp, testMachine()); err != nil {
		t.Fatalf("valid path rejected: %v", err)
	}
	if !IsValid(tp, nil) {
		t.Error("path should also pass without a machine")
	}
}

func TestValidateRejections(t *testing.T) {
	m := testMachine()
	in := func(x, y, z float64) State { return feedState(x, y, z, 600) }

	cases := []struct {
		name  string
		build func(tp *Toolpath)
	}{
		{"missing feed rate", func(tp *Toolpath) {
			s := NewState(geom.Vec{X: 10, Y: 10, Z: -10})
			tp.Append(NewLinear(s, s.WithPosition(geom.Vec{X: 20, Y: 10, Z: -10})))
		}},
		{"discontinuity", func(tp *Toolpath) {
			tp.Append(NewLinear(in(10, 10, -10), in(20, 10, -10)))
			tp.Append(NewLinear(in(30, 10, -10), in(40, 10, -10)))
		}},
		{"arc radius mismatch", func(tp *Toolpath) {
			tp.Append(NewArc(ArcCW, in(10, 10, -10), in(15, 10, -10), geom.Vec{X: 12, Y: 10, Z: -10}))
		}},
		{"degenerate arc radius", func(tp *Toolpath) {
			s := in(10, 10, -10)
			tp.Append(NewArc(ArcCW, s, s.WithPosition(geom.Vec{X: 11, Y: 10, Z: -10}), s.Position()))
		}},
		{"zero-length motion", func(tp *Toolpath) {
			s := in(10, 10, -10)
			tp.Append(NewLinear(s, s))
		}},
		{"feed lost by end of move", func(tp *Toolpath) {
			s := in(10, 10, -10)
			tp.Append(NewLinear(s, s.WithPosition(geom.Vec{X: 20, Y: 10, Z: -10}).WithFeedRate(0)))
		}},
		{"rapid not allowed", func(tp *Toolpath) {
			s := in(10, 10, -10)
			tp.Append(NewRapid(s, s.WithPosition(geom.Vec{X: 20, Y: 10, Z: -10}), false))
		}},
		{"tool change without a tool", func(tp *Toolpath) {
			tp.Append(NewToolChange(in(10, 10, -10), ""))
		}},
		{"cutting without a tool", func(tp *Toolpath) {
			tp.Append(NewLinear(in(10, 10, -10), in(20, 10, -10)))
		}},
		{"X beyond travel", func(tp *Toolpath) {
			tp.Append(NewLinear(in(10, 10, -10), in(600, 10, -10)))
		}},
		{"rotary on 3-axis machine", func(tp *Toolpath) {
			s := in(10, 10, -10).WithRotary(45, 0, 0)
			tp.Append(NewLinear(s, s.WithPosition(geom.Vec{X: 20, Y: 10, Z: -10})))
		}},
		{"spindle below minimum", func(tp *Toolpath) {
			s := in(10, 10, -10).WithSpindleRPM(50)
			tp.Append(NewLinear(s, s.WithPosition(geom.Vec{X: 20, Y: 10, Z: -10})))
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tp := New("tp-1", "mill-1")
			c.build(tp)
			err := Validate(tp, m)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, errors.ErrGeometryInconsistency) {
				t.Errorf("unexpected error class: %v", err)
			}
		})
	}
}

func TestValidateNilToolpath(t *testing.T) {
	if err := Validate(nil, nil); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("nil toolpath error = %v", err)
	}
}
