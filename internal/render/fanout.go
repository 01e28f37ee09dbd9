// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package render holds the frame sinks: console, web, MQTT publisher,
// OLED display and PNG snapshots.
package render

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

// Named pairs a renderer with the name used in error messages.
type Named struct {
	Name     string
	Renderer scheduler.Renderer
}

// FanOut hands each frame to every renderer in order. A failing renderer
// does not stop the others.
type FanOut []Named

func (fo FanOut) Render(f scheduler.Frame) error {
	var errs []error
	for _, r := range fo {
		if err := r.Renderer.Render(f); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, err))
		}
	}
	return errors.Join(errs...)
}
