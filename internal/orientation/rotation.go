// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rx is the right-handed rotation about the body X axis (pitch).
func Rx(deg float64) *r3.Mat {
	s, c := math.Sincos(deg2rad(deg))
	return r3.NewMat([]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// Ry is the right-handed rotation about the body Y axis (roll).
func Ry(deg float64) *r3.Mat {
	s, c := math.Sincos(deg2rad(deg))
	return r3.NewMat([]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

// Rz is the right-handed rotation about the body Z axis (yaw).
func Rz(deg float64) *r3.Mat {
	s, c := math.Sincos(deg2rad(deg))
	return r3.NewMat([]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// RotationMatrix composes the rotation for the channels in set.
//
//	PitchRollYaw: Rz(yaw) · Ry(roll) · Rx(pitch)
//	PitchRoll:    Ry(roll) · Rx(pitch)
//	PitchOnly:    Rx(pitch)
//
// Pitch is applied first. Channels outside the set are not part of the
// product at all.
func RotationMatrix(set ChannelSet, p Pose) *r3.Mat {
	m := Rx(p.Pitch)
	if set.Has(Roll) {
		m = mul(Ry(p.Roll), m)
	}
	if set.Has(Yaw) {
		m = mul(Rz(p.Yaw), m)
	}
	return m
}

func mul(a, b *r3.Mat) *r3.Mat {
	out := r3.NewMat(nil)
	out.Mul(a, b)
	return out
}
