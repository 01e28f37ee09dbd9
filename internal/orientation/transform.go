// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// ViewKind tells a renderer how to draw a View.
type ViewKind string

const (
	ViewBar    ViewKind = "bar"    // pitch-only: scalar bar height
	ViewPlanar ViewKind = "planar" // 2D: body rotated in the XY plane by yaw
	ViewSolid  ViewKind = "solid"  // 3D: rotated body
)

// View is the orientation artifact for one frame.
type View struct {
	Kind      ViewKind `json:"kind"`
	Magnitude float64  `json:"magnitude,omitempty"`
	Points    []r3.Vec `json:"points,omitempty"`
	Rows      int      `json:"rows,omitempty"`
	Cols      int      `json:"cols,omitempty"`
}

// Rotate applies the composed rotation for set to every point of g.
// It has no state: equal inputs always produce equal outputs.
func Rotate(g Geometry, set ChannelSet, p Pose) []r3.Vec {
	return rotateWith(g, RotationMatrix(set, p))
}

func rotateWith(g Geometry, m *r3.Mat) []r3.Vec {
	out := make([]r3.Vec, g.Len())
	for i := range out {
		out[i] = m.MulVec(g.At(i))
	}
	return out
}

// Transform binds a variant to its reference geometry.
type Transform struct {
	variant  Variant
	geometry Geometry
}

// NewTransform returns a Transform for v over g.
func NewTransform(v Variant, g Geometry) *Transform {
	return &Transform{variant: v, geometry: g}
}

// Variant returns the configured variant.
func (t *Transform) Variant() Variant { return t.variant }

// Apply builds the view for the latest pose.
func (t *Transform) Apply(p Pose) View {
	set := t.variant.Channels
	if set == PitchOnly {
		return View{Kind: ViewBar, Magnitude: p.Pitch}
	}

	rows, cols := t.geometry.Shape()

	if t.variant.Mode == Render2D {
		pts := rotateWith(t.geometry, PlanarMatrix(set, p))
		for i := range pts {
			pts[i].Z = 0
		}
		return View{Kind: ViewPlanar, Points: pts, Rows: rows, Cols: cols}
	}
	pts := Rotate(t.geometry, set, p)
	return View{Kind: ViewSolid, Points: pts, Rows: rows, Cols: cols}
}

// PlanarMatrix is the in-plane rotation of the top view: Rz(yaw) when the
// set tracks yaw, identity otherwise. Pitch and roll never tilt the body
// out of the plane, so it is always drawn at full size.
func PlanarMatrix(set ChannelSet, p Pose) *r3.Mat {
	if set.Has(Yaw) {
		return Rz(p.Yaw)
	}
	return Rz(0)
}
