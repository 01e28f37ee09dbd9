// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Display limits shared by the renderers.
const (
	AngleLimit = 180.0 // time-series y range is ±AngleLimit degrees
	ViewLimit  = 2.0   // orientation view box is ±ViewLimit on every axis
	RotorSpan  = 0.8   // half length of the fixed 2D rotor cross
)

const (
	pencilSegments = 30
	pencilRadius   = 0.05
	pencilHalfLen  = 1.5
)

// Geometry is an immutable reference point set in body coordinates.
// Grid geometries (the pencil) also carry their Rows x Cols shape so
// surface renderers can reshape the flat point list.
type Geometry struct {
	points []r3.Vec
	rows   int
	cols   int
}

// NewGeometry copies pts into a new Geometry with no grid shape.
func NewGeometry(pts []r3.Vec) Geometry {
	out := make([]r3.Vec, len(pts))
	copy(out, pts)
	return Geometry{points: out}
}

// Len returns the number of points.
func (g Geometry) Len() int { return len(g.points) }

// At returns point i.
func (g Geometry) At(i int) r3.Vec { return g.points[i] }

// Points returns a copy of the point set.
func (g Geometry) Points() []r3.Vec {
	out := make([]r3.Vec, len(g.points))
	copy(out, g.points)
	return out
}

// Shape returns the grid dimensions, or 0, 0 for a plain polygon.
func (g Geometry) Shape() (rows, cols int) { return g.rows, g.cols }

// Pencil is a thin cylindrical shell along the body Z axis, sampled on a
// 30 x 30 (z, theta) grid and flattened row by row.
func Pencil() Geometry {
	n := pencilSegments
	pts := make([]r3.Vec, 0, n*n)
	for i := 0; i < n; i++ {
		z := -pencilHalfLen + 2*pencilHalfLen*float64(i)/float64(n-1)
		for j := 0; j < n; j++ {
			theta := 2 * math.Pi * float64(j) / float64(n-1)
			s, c := math.Sincos(theta)
			pts = append(pts, r3.Vec{X: pencilRadius * c, Y: pencilRadius * s, Z: z})
		}
	}
	return Geometry{points: pts, rows: n, cols: n}
}

// Body2D is the flat diamond body used by the planar view.
func Body2D() Geometry {
	return NewGeometry([]r3.Vec{
		{X: 0, Y: 0.3},
		{X: 0.6, Y: 0},
		{X: 0, Y: -0.3},
		{X: -0.6, Y: 0},
	})
}

// DefaultGeometry picks the reference body for a render mode.
func DefaultGeometry(mode RenderMode) Geometry {
	if mode == Render2D {
		return Body2D()
	}
	return Pencil()
}

// AxisTriad returns the unit X, Y and Z reference arrows drawn next to the
// 3D body. They are fixed in the world frame.
func AxisTriad() [3]r3.Vec {
	return [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
}

// RotorCross returns the two fixed rotor segments of the planar view as
// start/end pairs.
func RotorCross() [2][2]r3.Vec {
	return [2][2]r3.Vec{
		{{X: -RotorSpan}, {X: RotorSpan}},
		{{Y: -RotorSpan}, {Y: RotorSpan}},
	}
}
