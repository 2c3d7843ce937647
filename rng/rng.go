// Package rng implements the engine's seeded pseudo-random generator.
//
// The algorithm is mulberry32: a 32-bit generator whose output must be
// bit-identical across implementations so that replays, snapshots, and
// action logs stay reproducible. Do not swap in math/rand here — its
// algorithm is not specified to be stable across Go versions or
// platforms.
package rng

import "github.com/pkg/errors"

// RangeError is returned when a caller asks for an integer range or a
// pick that cannot be satisfied.
type RangeError struct {
	Op  string
	Msg string
}

func (e *RangeError) Error() string {
	return e.Op + ": " + e.Msg
}

// RNG is a mulberry32 generator. The zero value is a valid generator
// seeded at 0; use New for an explicit seed.
type RNG struct {
	state uint32
}

// New creates an RNG seeded with a 32-bit unsigned integer.
func New(seed uint32) RNG {
	return RNG{state: seed}
}

// Next advances the generator and returns a float64 in [0, 1).
//
// The arithmetic below must match mulberry32 exactly, including the
// 32-bit wraparound on every intermediate step:
//
//	state += 0x6d2b79f5
//	t := state
//	t = (t ^ (t >> 15)) * (t | 1)
//	t ^= t + (t ^ (t >> 7)) * (t | 61)
//	return ((t ^ (t >> 14)) >> 0) / 4294967296
func (r *RNG) Next() float64 {
	r.state += 0x6d2b79f5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	t ^= t >> 14
	return float64(t) / 4294967296.0
}

// NextInt returns a uniformly distributed integer in [min, max).
// Both bounds must be integral and min must be strictly less than max.
func (r *RNG) NextInt(min, max int64) (int64, error) {
	if max <= min {
		return 0, errors.WithStack(&RangeError{Op: "next_int", Msg: "max must be greater than min"})
	}
	span := max - min
	return min + int64(r.Next()*float64(span)), nil
}

// Shuffle returns a new slice containing a Fisher-Yates shuffle of in,
// leaving the input slice untouched.
func Shuffle[T any](r *RNG, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j, _ := r.NextInt(0, int64(i)+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Pick returns a uniformly chosen element of in. It fails on an empty
// slice.
func Pick[T any](r *RNG, in []T) (T, error) {
	var zero T
	if len(in) == 0 {
		return zero, errors.WithStack(&RangeError{Op: "pick", Msg: "cannot pick from an empty slice"})
	}
	idx, _ := r.NextInt(0, int64(len(in)))
	return in[idx], nil
}
