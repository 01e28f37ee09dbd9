// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package transport delivers raw text lines from a serial port, an MQTT
// topic or a simulator to the frame scheduler.
package transport

import "fmt"

// Kind is the outcome of one non-blocking read.
type Kind int

const (
	// NoData means nothing complete was available within the read timeout.
	NoData Kind = iota
	// Line means Read.Text holds one complete record without its line ending.
	Line
)

func (k Kind) String() string {
	switch k {
	case NoData:
		return "no-data"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Read is the result of LineSource.ReadLine.
type Read struct {
	Kind Kind
	Text string
}

// LineSource yields at most one line per call and never blocks longer than
// its configured read timeout. A timeout is reported as NoData, never as an
// error; errors are reserved for transport faults.
type LineSource interface {
	ReadLine() (Read, error)
}

func noData() (Read, error) { return Read{Kind: NoData}, nil }

func line(text string) (Read, error) { return Read{Kind: Line, Text: text}, nil }
