// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"sort"

	"github.com/google/uuid"

	"cncsim-go/pkg/geom"
)

// Toolpath is an append-only ordered sequence of moves targeting one
// machine. Appending keeps a per-tool usage histogram current; analysis
// queries (bounding box, total length, machining time) walk the move list.
type Toolpath struct {
	id        string
	machineID string
	moves     []Move
	toolUsage map[string]int
}

// New creates an empty toolpath for the given machine. An empty id gets a
// generated UUID.
func New(id, machineID string) *Toolpath {
	if id == "" {
		id = uuid.NewString()
	}
	return &Toolpath{
		id:        id,
		machineID: machineID,
		toolUsage: make(map[string]int),
	}
}

// ID returns the toolpath identifier.
func (tp *Toolpath) ID() string { return tp.id }

// MachineID returns the target machine identifier.
func (tp *Toolpath) MachineID() string { return tp.machineID }

// Append adds a move to the end of the path.
func (tp *Toolpath) Append(m Move) {
	tp.moves = append(tp.moves, m)
	if id := m.End().ToolID(); id != "" {
		tp.toolUsage[id]++
	}
}

// AppendAll adds each move in order.
func (tp *Toolpath) AppendAll(moves ...Move) {
	for _, m := range moves {
		tp.Append(m)
	}
}

// MoveCount returns the number of moves.
func (tp *Toolpath) MoveCount() int { return len(tp.moves) }

// Empty reports whether the path has no moves.
func (tp *Toolpath) Empty() bool { return len(tp.moves) == 0 }

// Move returns the i-th move and whether the index was in range.
func (tp *Toolpath) Move(i int) (Move, bool) {
	if i < 0 || i >= len(tp.moves) {
		return Move{}, false
	}
	return tp.moves[i], true
}

// Moves returns a copy of the move list.
func (tp *Toolpath) Moves() []Move {
	out := make([]Move, len(tp.moves))
	copy(out, tp.moves)
	return out
}

// FirstState returns the start state of the first move.
func (tp *Toolpath) FirstState() (State, bool) {
	if len(tp.moves) == 0 {
		return State{}, false
	}
	return tp.moves[0].Start(), true
}

// LastState returns the end state of the last move.
func (tp *Toolpath) LastState() (State, bool) {
	if len(tp.moves) == 0 {
		return State{}, false
	}
	return tp.moves[len(tp.moves)-1].End(), true
}

// BoundingBox returns the axis-aligned box containing every move endpoint
// and arc center. Empty paths return an invalid box.
func (tp *Toolpath) BoundingBox() geom.AABB {
	var points []geom.Vec
	for _, m := range tp.moves {
		points = append(points, m.Start().Position(), m.End().Position())
		if c, ok := m.ArcCenter(); ok {
			points = append(points, c)
		}
	}
	return geom.BoundingBoxOf(points...)
}

// TotalLength returns the summed path length of all moves.
func (tp *Toolpath) TotalLength() float64 {
	var total float64
	for _, m := range tp.moves {
		total += m.Length()
	}
	return total
}

// EstimatedMachiningTime returns the summed estimated duration in seconds.
func (tp *Toolpath) EstimatedMachiningTime() float64 {
	var total float64
	for _, m := range tp.moves {
		total += m.EstimatedTime()
	}
	return total
}

// ToolUsage returns move counts per tool id, counting moves whose end
// state carries the tool.
func (tp *Toolpath) ToolUsage() map[string]int {
	out := make(map[string]int, len(tp.toolUsage))
	for id, n := range tp.toolUsage {
		out[id] = n
	}
	return out
}

// UsedToolIDs returns the ids of all tools used, sorted.
func (tp *Toolpath) UsedToolIDs() []string {
	ids := make([]string, 0, len(tp.toolUsage))
	for id := range tp.toolUsage {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Valid reports whether the path has an id and every move is valid.
func (tp *Toolpath) Valid() bool {
	if tp.id == "" {
		return false
	}
	for _, m := range tp.moves {
		if !m.Valid() {
			return false
		}
	}
	return true
}
