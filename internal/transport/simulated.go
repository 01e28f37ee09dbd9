// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"time"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
)

// maxCatchUp bounds how many overdue lines a stalled consumer gets in a burst.
const maxCatchUp = 10

// SimulatedSource encodes poses from an orientation.Source as wire lines at a
// fixed rate, so the pipeline runs without hardware.
type SimulatedSource struct {
	poses    orientation.Source
	encoder  orientation.Decoder
	interval time.Duration
	now      func() time.Time
	next     time.Time
}

// NewSimulatedSource emits one line per interval from poses.
func NewSimulatedSource(poses orientation.Source, set orientation.ChannelSet, interval time.Duration) *SimulatedSource {
	return newSimulatedSource(poses, set, interval, time.Now)
}

func newSimulatedSource(poses orientation.Source, set orientation.ChannelSet, interval time.Duration, now func() time.Time) *SimulatedSource {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	return &SimulatedSource{
		poses:    poses,
		encoder:  orientation.NewDecoder(set),
		interval: interval,
		now:      now,
	}
}

// ReadLine returns a line when one is due and NoData otherwise.
func (s *SimulatedSource) ReadLine() (Read, error) {
	t := s.now()
	if s.next.IsZero() {
		s.next = t
	}
	if t.Before(s.next) {
		return noData()
	}
	if t.Sub(s.next) > maxCatchUp*s.interval {
		s.next = t
	}
	s.next = s.next.Add(s.interval)

	p, err := s.poses.Next()
	if err != nil {
		return Read{}, fmt.Errorf("simulated source: %w", err)
	}
	return line(s.encoder.Encode(p))
}
