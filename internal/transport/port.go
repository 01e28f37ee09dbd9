// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"strings"
	"time"

	jserial "github.com/jacobsa/go-serial/serial"
	"go.bug.st/serial"
)

// Driver selects the serial library used to open a port.
type Driver string

const (
	DriverBugST   Driver = "bugst"
	DriverJacobsa Driver = "jacobsa"
)

// ParseDriver accepts "bugst" or "jacobsa".
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverBugST, DriverJacobsa:
		return d, nil
	default:
		return "", fmt.Errorf("invalid serial driver %q (must be bugst or jacobsa)", s)
	}
}

// PortOptions describes the serial connection parameters.
type PortOptions struct {
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      string
	ReadTimeout time.Duration
}

// Normalize validates the options and applies defaults for unset values.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = 115200
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))
	switch parity {
	case "", "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}
	opts.Parity = parity

	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Millisecond
	}
	return opts, nil
}

// SerialMode converts the options into the go.bug.st/serial mode.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: serial.OneStopBit,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	switch opts.Parity {
	case "N":
		mode.Parity = serial.NoParity
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	return mode, nil
}

// JacobsaOptions converts the options into jacobsa/go-serial open options.
// The port is opened non-blocking (MinimumReadSize 0) so reads return after
// the inter-character timeout, which the driver rounds to 100 ms steps.
func (o PortOptions) JacobsaOptions(name string) (jserial.OpenOptions, error) {
	opts, err := o.Normalize()
	if err != nil {
		return jserial.OpenOptions{}, err
	}

	timeoutMs := uint(opts.ReadTimeout / time.Millisecond)
	if timeoutMs < 100 {
		timeoutMs = 100
	}

	out := jserial.OpenOptions{
		PortName:              name,
		BaudRate:              uint(opts.BaudRate),
		DataBits:              uint(opts.DataBits),
		StopBits:              uint(opts.StopBits),
		MinimumReadSize:       0,
		InterCharacterTimeout: timeoutMs,
		ParityMode:            jserial.PARITY_NONE,
	}
	switch opts.Parity {
	case "E":
		out.ParityMode = jserial.PARITY_EVEN
	case "O":
		out.ParityMode = jserial.PARITY_ODD
	}
	return out, nil
}

// OpenBugST opens name with go.bug.st/serial and a per-read timeout.
func OpenBugST(name string, opts PortOptions) (*SerialSource, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	opts, _ = opts.Normalize()

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return NewSerialSource(port), nil
}

// OpenJacobsa opens name with jacobsa/go-serial.
func OpenJacobsa(name string, opts PortOptions) (*SerialSource, error) {
	jopts, err := opts.JacobsaOptions(name)
	if err != nil {
		return nil, err
	}
	port, err := jserial.Open(jopts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return NewSerialSource(port), nil
}

// OpenSerial opens name with the selected driver.
func OpenSerial(driver Driver, name string, opts PortOptions) (*SerialSource, error) {
	switch driver {
	case DriverJacobsa:
		return OpenJacobsa(name, opts)
	case DriverBugST, "":
		return OpenBugST(name, opts)
	default:
		return nil, fmt.Errorf("unknown serial driver %q", driver)
	}
}

// ListPorts returns the serial ports visible to the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
