// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"io"
	"log/slog"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testFrame builds the frame a scheduler would emit after accepting poses.
func testFrame(v orientation.Variant, window int, poses ...orientation.Pose) scheduler.Frame {
	chans := v.Channels.Channels()
	f := scheduler.Frame{
		Channels: make([]string, len(chans)),
		Index:    []uint64{},
		Series:   make(map[string][]float64, len(chans)),
		Total:    uint64(len(poses)),
		XRange:   scheduler.Bounds(uint64(len(poses)), window),
	}
	for i, ch := range chans {
		f.Channels[i] = ch.String()
		f.Series[ch.String()] = []float64{}
	}
	start := 0
	if len(poses) > window {
		start = len(poses) - window
	}
	for i := start; i < len(poses); i++ {
		f.Index = append(f.Index, uint64(i+1))
		for _, ch := range chans {
			f.Series[ch.String()] = append(f.Series[ch.String()], poses[i].Get(ch))
		}
	}
	if len(poses) > 0 {
		latest := poses[len(poses)-1]
		view := orientation.NewTransform(v, orientation.DefaultGeometry(v.Mode)).Apply(latest)
		f.Latest = &latest
		f.View = &view
	}
	return f
}

var (
	pitchBar  = orientation.Variant{Channels: orientation.PitchOnly, Mode: orientation.Render3D}
	pryPlanar = orientation.Variant{Channels: orientation.PitchRollYaw, Mode: orientation.Render2D}
	prSolid   = orientation.Variant{Channels: orientation.PitchRoll, Mode: orientation.Render3D}
)
