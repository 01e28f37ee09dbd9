// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package history

// ring is a fixed-capacity FIFO. Pushing onto a full ring overwrites the
// oldest element.
type ring[T any] struct {
	data []T
	pos  int
	full bool
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{data: make([]T, capacity)}
}

func (r *ring[T]) push(v T) {
	r.data[r.pos] = v
	r.pos++
	if r.pos >= len(r.data) {
		r.pos = 0
		r.full = true
	}
}

func (r *ring[T]) len() int {
	if r.full {
		return len(r.data)
	}
	return r.pos
}

// last returns the most recently pushed element.
func (r *ring[T]) last() (T, bool) {
	var zero T
	if r.len() == 0 {
		return zero, false
	}
	i := r.pos - 1
	if i < 0 {
		i = len(r.data) - 1
	}
	return r.data[i], true
}

// slice returns a copy of the contents in insertion order.
func (r *ring[T]) slice() []T {
	out := make([]T, r.len())
	if r.full {
		n := copy(out, r.data[r.pos:])
		copy(out[n:], r.data[:r.pos])
	} else {
		copy(out, r.data[:r.pos])
	}
	return out
}
