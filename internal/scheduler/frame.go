// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scheduler

import (
	"github.com/relabs-tech/attitude_plotter/internal/orientation"
)

// Frame is everything a renderer needs for one tick. It is rebuilt every
// tick and not retained by the scheduler.
type Frame struct {
	Channels []string             `json:"channels"`
	Index    []uint64             `json:"index"`
	Series   map[string][]float64 `json:"series"`
	XRange   [2]uint64            `json:"x_range"`
	Total    uint64               `json:"total"`
	Latest   *orientation.Pose    `json:"latest,omitempty"`
	View     *orientation.View    `json:"view,omitempty"`
}

// Empty reports whether no sample has been accepted yet.
func (f Frame) Empty() bool { return f.Total == 0 }

// Renderer consumes frames. Errors are logged by the host loop and do not
// stop ticking.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame) error

func (f RendererFunc) Render(fr Frame) error { return f(fr) }

// Bounds returns the x-axis range for a window of the given size:
// [max(0, total-window), max(window, total)].
func Bounds(total uint64, window int) [2]uint64 {
	w := uint64(window)
	lo := uint64(0)
	if total > w {
		lo = total - w
	}
	return [2]uint64{lo, max(w, total)}
}
