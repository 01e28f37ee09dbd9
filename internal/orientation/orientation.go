// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"fmt"
	"strings"
)

// Pose is one decoded orientation sample, angles in degrees.
// Only the channels of the active ChannelSet carry meaning; the others stay zero.
type Pose struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time.
type Source interface {
	Next() (Pose, error)
}

// Channel is one tracked angle dimension.
type Channel int

const (
	Pitch Channel = iota
	Roll
	Yaw
)

func (c Channel) String() string {
	switch c {
	case Pitch:
		return "pitch"
	case Roll:
		return "roll"
	case Yaw:
		return "yaw"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Get returns the angle for ch.
func (p Pose) Get(ch Channel) float64 {
	switch ch {
	case Roll:
		return p.Roll
	case Yaw:
		return p.Yaw
	default:
		return p.Pitch
	}
}

func (p *Pose) set(ch Channel, v float64) {
	switch ch {
	case Pitch:
		p.Pitch = v
	case Roll:
		p.Roll = v
	case Yaw:
		p.Yaw = v
	}
}

// ChannelSet selects which angles a variant tracks. Wire order is always
// pitch, roll, yaw truncated to the set.
type ChannelSet int

const (
	PitchOnly ChannelSet = iota
	PitchRoll
	PitchRollYaw
)

var channelOrder = []Channel{Pitch, Roll, Yaw}

// Channels returns the tracked channels in wire order.
func (s ChannelSet) Channels() []Channel {
	out := make([]Channel, s.Len())
	copy(out, channelOrder)
	return out
}

// Len is the number of fields a wire line must carry.
func (s ChannelSet) Len() int {
	switch s {
	case PitchOnly:
		return 1
	case PitchRoll:
		return 2
	default:
		return 3
	}
}

// Has reports whether ch is part of the set.
func (s ChannelSet) Has(ch Channel) bool {
	return int(ch) < s.Len()
}

func (s ChannelSet) String() string {
	switch s {
	case PitchOnly:
		return "pitch"
	case PitchRoll:
		return "pitch_roll"
	case PitchRollYaw:
		return "pitch_roll_yaw"
	default:
		return fmt.Sprintf("channelset(%d)", int(s))
	}
}

// ParseChannelSet accepts "pitch", "pitch_roll" or "pitch_roll_yaw".
func ParseChannelSet(s string) (ChannelSet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pitch":
		return PitchOnly, nil
	case "pitch_roll", "pitch,roll":
		return PitchRoll, nil
	case "pitch_roll_yaw", "pitch,roll,yaw":
		return PitchRollYaw, nil
	default:
		return 0, fmt.Errorf("invalid channel set %q (must be pitch, pitch_roll or pitch_roll_yaw)", s)
	}
}

// RenderMode selects the orientation view geometry.
type RenderMode int

const (
	Render2D RenderMode = iota
	Render3D
)

func (m RenderMode) String() string {
	if m == Render2D {
		return "2d"
	}
	return "3d"
}

// ParseRenderMode accepts "2d" or "3d".
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d":
		return Render2D, nil
	case "3d":
		return Render3D, nil
	default:
		return 0, fmt.Errorf("invalid render mode %q (must be 2d or 3d)", s)
	}
}

// Variant is the pipeline selector: which channels, which view.
type Variant struct {
	Channels ChannelSet
	Mode     RenderMode
}

func (v Variant) String() string {
	return v.Channels.String() + "/" + v.Mode.String()
}
