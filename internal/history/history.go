// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package history keeps the bounded sliding window of accepted samples.
package history

import (
	"fmt"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
)

// History holds one ring per configured channel plus the ring of sample
// indices. All rings are pushed together so they always have equal length.
//
// History is not safe for concurrent use; the frame scheduler owns it.
type History struct {
	window   int
	channels orientation.ChannelSet
	index    *ring[uint64]
	values   map[orientation.Channel]*ring[float64]
	total    uint64
	latest   orientation.Pose
}

// Snapshot is a copy of the window at one point in time.
type Snapshot struct {
	Index  []uint64
	Values map[orientation.Channel][]float64
	Total  uint64
}

// New creates an empty history holding at most window samples.
func New(window int, set orientation.ChannelSet) (*History, error) {
	if window < 1 {
		return nil, fmt.Errorf("history: window must be >= 1, got %d", window)
	}
	h := &History{
		window:   window,
		channels: set,
		index:    newRing[uint64](window),
		values:   make(map[orientation.Channel]*ring[float64], set.Len()),
	}
	for _, ch := range set.Channels() {
		h.values[ch] = newRing[float64](window)
	}
	return h, nil
}

// Append records an accepted sample, evicting the oldest one when the window
// is full, and returns the 1-based index assigned to it.
func (h *History) Append(p orientation.Pose) uint64 {
	h.total++
	h.index.push(h.total)
	for ch, r := range h.values {
		r.push(p.Get(ch))
	}
	h.latest = p
	return h.total
}

// Snapshot copies the current window. Slices are never nil.
func (h *History) Snapshot() Snapshot {
	s := Snapshot{
		Index:  h.index.slice(),
		Values: make(map[orientation.Channel][]float64, len(h.values)),
		Total:  h.total,
	}
	for ch, r := range h.values {
		s.Values[ch] = r.slice()
	}
	return s
}

// Latest returns the most recent sample, or false when nothing was accepted yet.
func (h *History) Latest() (orientation.Pose, bool) {
	if h.total == 0 {
		return orientation.Pose{}, false
	}
	return h.latest, true
}

// latestIndex returns the index of the most recent sample still in the window.
func (h *History) latestIndex() (uint64, bool) {
	return h.index.last()
}

// Total is the number of samples ever accepted.
func (h *History) Total() uint64 { return h.total }

// retained is the number of samples currently in the window.
func (h *History) retained() int { return h.index.len() }

// Window is the configured capacity.
func (h *History) Window() int { return h.window }

// Channels returns the configured channel set.
func (h *History) Channels() orientation.ChannelSet { return h.channels }
