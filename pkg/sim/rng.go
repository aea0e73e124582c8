// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

// RNG is a small deterministic linear congruential generator. It exists
// so that engine-internal sampling is reproducible from a seed and
// cloneable along with the owning state; math/rand gives no stability
// guarantee across releases.
type RNG struct {
	state uint64
}

// NewRNG seeds a generator. A zero seed is replaced with 1 so the
// sequence never degenerates.
func NewRNG(seed uint64) RNG {
	if seed == 0 {
		seed = 1
	}
	return RNG{state: seed}
}

// Next advances the generator and returns the next value.
func (r *RNG) Next() uint64 {
	r.state = r.state*1664525 + 1013904223
	return r.state
}

// Float64 returns the next value mapped into [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}
