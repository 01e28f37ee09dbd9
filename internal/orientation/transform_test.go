// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPencil_Shape(t *testing.T) {
	g := Pencil()
	rows, cols := g.Shape()
	assert.Equal(t, 30, rows)
	assert.Equal(t, 30, cols)
	require.Equal(t, 900, g.Len())

	// first row sits at the bottom of the shell, last row at the top
	assertVecNear(t, r3.Vec{X: 0.05, Z: -1.5}, g.At(0), 1e-12)
	assertVecNear(t, r3.Vec{X: 0.05, Z: 1.5}, g.At(29*30), 1e-12)
	// theta spans the closed interval so the seam point repeats
	assertVecNear(t, g.At(0), g.At(29), 1e-12)

	for i := 0; i < g.Len(); i++ {
		p := g.At(i)
		assert.InDelta(t, 0.05, math.Hypot(p.X, p.Y), 1e-12)
	}
}

func TestGeometry_Immutable(t *testing.T) {
	src := []r3.Vec{{X: 1}, {Y: 1}}
	g := NewGeometry(src)
	src[0].X = 99

	pts := g.Points()
	pts[1].Y = -5

	assert.Equal(t, r3.Vec{X: 1}, g.At(0))
	assert.Equal(t, r3.Vec{Y: 1}, g.At(1))
	rows, cols := g.Shape()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}

func TestRotate_IdentityLeavesGeometryUnchanged(t *testing.T) {
	for _, g := range []Geometry{Pencil(), Body2D()} {
		got := Rotate(g, PitchRollYaw, Pose{})
		require.Len(t, got, g.Len())
		for i := range got {
			assertVecNear(t, g.At(i), got[i], 1e-12)
		}
	}
}

func TestRotate_Deterministic(t *testing.T) {
	g := Pencil()
	p := Pose{Pitch: 33.3, Roll: -71, Yaw: 250}
	a := Rotate(g, PitchRollYaw, p)
	b := Rotate(g, PitchRollYaw, p)
	assert.Equal(t, a, b)
}

func TestRotate_PreservesDistances(t *testing.T) {
	g := Pencil()
	got := Rotate(g, PitchRollYaw, Pose{Pitch: 123, Roll: -45, Yaw: 300})
	for i := 0; i < g.Len(); i += 11 {
		assert.InDelta(t, r3.Norm(g.At(i)), r3.Norm(got[i]), 1e-12)
	}
}

func TestTransform_PitchOnlyIsBar(t *testing.T) {
	for _, mode := range []RenderMode{Render2D, Render3D} {
		tr := NewTransform(Variant{Channels: PitchOnly, Mode: mode}, DefaultGeometry(mode))
		v := tr.Apply(Pose{Pitch: -250, Roll: 10})
		assert.Equal(t, ViewBar, v.Kind)
		assert.Equal(t, -250.0, v.Magnitude)
		assert.Empty(t, v.Points)
	}
}

func TestTransform_Solid(t *testing.T) {
	tr := NewTransform(Variant{Channels: PitchRoll, Mode: Render3D}, Pencil())
	v := tr.Apply(Pose{Roll: 90})
	assert.Equal(t, ViewSolid, v.Kind)
	assert.Equal(t, 30, v.Rows)
	assert.Equal(t, 30, v.Cols)
	require.Len(t, v.Points, 900)

	// roll 90 lays the pencil tip from +Z onto +X
	assertVecNear(t, r3.Vec{X: 1.5, Z: -0.05}, v.Points[29*30], 1e-12)
}

func TestTransform_PlanarYawRotatesInPlane(t *testing.T) {
	tr := NewTransform(Variant{Channels: PitchRollYaw, Mode: Render2D}, Body2D())
	v := tr.Apply(Pose{Yaw: 90})
	assert.Equal(t, ViewPlanar, v.Kind)
	require.Len(t, v.Points, 4)

	// nose (0.6, 0) swings onto +Y
	assertVecNear(t, r3.Vec{Y: 0.6}, v.Points[1], 1e-12)
	assertVecNear(t, r3.Vec{X: -0.3}, v.Points[0], 1e-12)
}

func TestTransform_PlanarIgnoresPitchAndRoll(t *testing.T) {
	body := Body2D().Points()

	tr := NewTransform(Variant{Channels: PitchRollYaw, Mode: Render2D}, Body2D())
	v := tr.Apply(Pose{Pitch: 90, Yaw: 30})
	require.Len(t, v.Points, 4)
	// full size diamond turned by yaw only
	for i, p := range v.Points {
		assertVecNear(t, Rz(30).MulVec(body[i]), p, 1e-12)
		assert.InDelta(t, r3.Norm(body[i]), r3.Norm(p), 1e-12)
	}

	tr = NewTransform(Variant{Channels: PitchRoll, Mode: Render2D}, Body2D())
	for _, pose := range []Pose{{Roll: 90}, {Pitch: -90}, {Pitch: 45, Roll: 60}} {
		v = tr.Apply(pose)
		for i, p := range v.Points {
			assertVecNear(t, body[i], p, 1e-12)
		}
	}
}

func TestPlanarMatrix(t *testing.T) {
	p := Pose{Pitch: 10, Roll: 20, Yaw: 90}
	v := PlanarMatrix(PitchRollYaw, p).MulVec(r3.Vec{X: 1})
	assertVecNear(t, r3.Vec{Y: 1}, v, 1e-12)

	v = PlanarMatrix(PitchRoll, p).MulVec(r3.Vec{X: 1})
	assertVecNear(t, r3.Vec{X: 1}, v, 1e-12)
}

func TestTransform_DoesNotMutateGeometry(t *testing.T) {
	g := Body2D()
	before := g.Points()
	NewTransform(Variant{Channels: PitchRollYaw, Mode: Render2D}, g).Apply(Pose{Pitch: 40, Roll: 30, Yaw: 20})
	assert.Equal(t, before, g.Points())
}
