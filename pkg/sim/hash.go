// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// HashState returns an FNV-1a digest over a state's observable numeric
// content: pose, axis positions, counters, seed and remaining volume.
// Two runs of the same step sequence from the same seed hash identically;
// this is how determinism is checked without comparing grids cell by
// cell.
func HashState(s *SimulationState) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	pos := s.ToolPose().Position()
	rot := s.ToolPose().Rotation()
	writeFloat(pos.X)
	writeFloat(pos.Y)
	writeFloat(pos.Z)
	writeFloat(rot.Real)
	writeFloat(rot.Imag)
	writeFloat(rot.Jmag)
	writeFloat(rot.Kmag)
	for _, v := range s.AxisPositions() {
		writeFloat(v)
	}
	writeUint(s.StepCount())
	writeFloat(s.ElapsedTime())
	writeUint(s.Seed())
	if g := s.Grid(); g != nil {
		writeFloat(g.RemainingVolume())
	}
	return h.Sum64()
}
