// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock orientation source that
// generates smooth changing values.
func NewMockSource() Source {
	return newMockSourceAt(time.Now(), time.Now)
}

func newMockSourceAt(start time.Time, now func() time.Time) *mockSource {
	return &mockSource{start: start, now: now}
}

func (m *mockSource) Next() (Pose, error) {
	elapsed := m.now().Sub(m.start).Seconds()

	// yaw sweeps the full circle and wraps into (-180, 180]
	yaw := math.Mod(elapsed*30, 360)
	if yaw > 180 {
		yaw -= 360
	}

	return Pose{
		Pitch: 15 * math.Cos(elapsed*0.7),
		Roll:  20 * math.Sin(elapsed),
		Yaw:   yaw,
	}, nil
}
