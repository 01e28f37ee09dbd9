// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrRejected is wrapped by every Decode failure.
var ErrRejected = errors.New("line rejected")

const fieldSep = ","

// Decoder turns wire lines into poses for a fixed channel set.
// The zero value decodes pitch-only lines.
type Decoder struct {
	channels ChannelSet
}

// NewDecoder returns a Decoder expecting set.Len() comma-separated fields.
func NewDecoder(set ChannelSet) Decoder {
	return Decoder{channels: set}
}

// Channels returns the configured channel set.
func (d Decoder) Channels() ChannelSet {
	return d.channels
}

// Decode parses one line. Either every configured channel is present and
// finite, or the whole line is rejected with an error wrapping ErrRejected.
// Values are passed through without clamping or wraparound.
func (d Decoder) Decode(line string) (Pose, error) {
	line = strings.TrimSpace(line)
	fields := strings.Split(line, fieldSep)

	want := d.channels.Len()
	if len(fields) != want {
		return Pose{}, fmt.Errorf("%w: expected %d fields, got %d", ErrRejected, want, len(fields))
	}

	var p Pose
	for i, ch := range d.channels.Channels() {
		field := strings.TrimSpace(fields[i])
		if field == "" {
			return Pose{}, fmt.Errorf("%w: empty %s field", ErrRejected, ch)
		}
		if isHexFloat(field) {
			return Pose{}, fmt.Errorf("%w: %s %q: hex literals are not decimal", ErrRejected, ch, field)
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Pose{}, fmt.Errorf("%w: %s %q: %v", ErrRejected, ch, field, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Pose{}, fmt.Errorf("%w: %s is not finite", ErrRejected, ch)
		}
		p.set(ch, v)
	}
	return p, nil
}

// isHexFloat reports a 0x/0X prefix after an optional sign. ParseFloat
// accepts those; the wire format is decimal only.
func isHexFloat(field string) bool {
	field = strings.TrimLeft(field, "+-")
	return len(field) >= 2 && field[0] == '0' && (field[1] == 'x' || field[1] == 'X')
}

// Encode formats p as a wire line for the configured channels.
func (d Decoder) Encode(p Pose) string {
	chans := d.channels.Channels()
	parts := make([]string, len(chans))
	for i, ch := range chans {
		parts[i] = strconv.FormatFloat(p.Get(ch), 'f', 2, 64)
	}
	return strings.Join(parts, fieldSep)
}
