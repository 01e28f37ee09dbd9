// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// MaxLineLength bounds a single record; longer lines are discarded up to
	// their terminating newline.
	MaxLineLength = 4096

	readChunk       = 256
	maxReadsPerLine = 8
)

// SerialSource frames the byte stream of a port into lines.
//
// The port is expected to return (0, nil) or io.EOF when its read timeout
// elapses, which is how go.bug.st/serial and jacobsa/go-serial report an
// idle line respectively. A partial line that is pending at a timeout is
// kept and completed by later reads.
type SerialSource struct {
	port       io.Reader
	buf        []byte
	pending    []byte
	lines      []string
	discarding bool
	dropped    uint64
}

// NewSerialSource wraps port. If port is also an io.Closer, Close closes it.
func NewSerialSource(port io.Reader) *SerialSource {
	return &SerialSource{
		port: port,
		buf:  make([]byte, readChunk),
	}
}

// ReadLine returns the next complete line, reading from the port as needed.
// At most one read can block for the port timeout, because a timeout ends
// the call with NoData.
func (s *SerialSource) ReadLine() (Read, error) {
	for reads := 0; ; reads++ {
		if len(s.lines) > 0 {
			text := s.lines[0]
			s.lines = s.lines[1:]
			return line(text)
		}
		if reads == maxReadsPerLine {
			return noData()
		}

		n, err := s.port.Read(s.buf)
		if n > 0 {
			s.feed(s.buf[:n])
		}
		switch {
		case err == nil && n > 0:
			continue
		case err == nil, errors.Is(err, io.EOF):
			if len(s.lines) > 0 {
				continue
			}
			return noData()
		default:
			return Read{}, fmt.Errorf("serial read: %w", err)
		}
	}
}

// Dropped is the number of over-long lines discarded so far.
func (s *SerialSource) Dropped() uint64 { return s.dropped }

// Close closes the underlying port when it supports closing.
func (s *SerialSource) Close() error {
	if c, ok := s.port.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *SerialSource) feed(data []byte) {
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			s.appendPending(data)
			return
		}
		s.appendPending(data[:i])
		s.complete()
		data = data[i+1:]
	}
}

func (s *SerialSource) appendPending(data []byte) {
	if s.discarding {
		return
	}
	if len(s.pending)+len(data) > MaxLineLength {
		s.discarding = true
		s.dropped++
		s.pending = s.pending[:0]
		return
	}
	s.pending = append(s.pending, data...)
}

func (s *SerialSource) complete() {
	if s.discarding {
		s.discarding = false
		return
	}
	text := strings.ReplaceAll(string(s.pending), "\r", "")
	s.lines = append(s.lines, strings.ToValidUTF8(text, ""))
	s.pending = s.pending[:0]
}
