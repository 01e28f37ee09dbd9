// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package scheduler drives one frame per tick: drain a bounded number of
// lines, update the history, and build the frame for the renderers.
package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/relabs-tech/attitude_plotter/internal/history"
	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/transport"
)

// DefaultBatchSize is the number of reads attempted per tick.
const DefaultBatchSize = 5

// Config sizes the scheduler.
type Config struct {
	Window    int
	BatchSize int
}

// Stats counts what the scheduler has seen since it was created.
type Stats struct {
	Ticks    uint64
	Lines    uint64
	Accepted uint64
	Rejected uint64
	NoData   uint64
	Faults   uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("ticks=%d lines=%d accepted=%d rejected=%d nodata=%d faults=%d",
		s.Ticks, s.Lines, s.Accepted, s.Rejected, s.NoData, s.Faults)
}

// Scheduler owns the history and is the only caller of the decoder and the
// transform. Tick must be called from a single goroutine.
type Scheduler struct {
	cfg       Config
	src       transport.LineSource
	decoder   orientation.Decoder
	transform *orientation.Transform
	history   *history.History
	log       *slog.Logger
	stats     Stats
}

// New builds a scheduler reading from src for variant v, rendering geom.
func New(cfg Config, src transport.LineSource, v orientation.Variant, geom orientation.Geometry, logger *slog.Logger) (*Scheduler, error) {
	if src == nil {
		return nil, fmt.Errorf("scheduler: nil line source")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	h, err := history.New(cfg.Window, v.Channels)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:       cfg,
		src:       src,
		decoder:   orientation.NewDecoder(v.Channels),
		transform: orientation.NewTransform(v, geom),
		history:   h,
		log:       logger,
	}, nil
}

// Tick drains up to BatchSize reads and returns the resulting frame.
func (s *Scheduler) Tick() Frame {
	s.stats.Ticks++
	s.drain()
	return s.frame()
}

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Stats { return s.stats }

// Total is the number of samples accepted since the scheduler was created.
func (s *Scheduler) Total() uint64 { return s.history.Total() }

// Variant returns the configured variant.
func (s *Scheduler) Variant() orientation.Variant { return s.transform.Variant() }

func (s *Scheduler) drain() {
	for i := 0; i < s.cfg.BatchSize; i++ {
		r, err := s.src.ReadLine()
		if err != nil {
			s.stats.Faults++
			s.log.Debug("scheduler: transport fault", "error", err)
			return
		}

		switch r.Kind {
		case transport.NoData:
			s.stats.NoData++
			return
		case transport.Line:
			s.stats.Lines++
			p, err := s.decoder.Decode(r.Text)
			if err != nil {
				s.stats.Rejected++
				s.log.Debug("scheduler: line rejected", "line", r.Text, "error", err)
				continue
			}
			s.stats.Accepted++
			idx := s.history.Append(p)
			s.log.Debug("scheduler: sample accepted", "index", idx)
		default:
			s.stats.Faults++
			s.log.Debug("scheduler: unknown read outcome", "kind", r.Kind)
			return
		}
	}
}

func (s *Scheduler) frame() Frame {
	snap := s.history.Snapshot()
	chans := s.history.Channels().Channels()

	f := Frame{
		Channels: make([]string, len(chans)),
		Index:    snap.Index,
		Series:   make(map[string][]float64, len(chans)),
		XRange:   Bounds(snap.Total, s.history.Window()),
		Total:    snap.Total,
	}
	for i, ch := range chans {
		f.Channels[i] = ch.String()
		f.Series[ch.String()] = snap.Values[ch]
	}

	if latest, ok := s.history.Latest(); ok {
		view := s.transform.Apply(latest)
		f.Latest = &latest
		f.View = &view
	}
	return f
}
