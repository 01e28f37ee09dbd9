// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

const (
	blocks         = " ▁▂▃▄▅▆▇█"
	sparkWidth     = 32
	waitingMessage = "waiting for data..."
)

// Console prints the latest pose and a sparkline of each channel every
// N frames.
type Console struct {
	w     io.Writer
	every int
	n     int
}

// NewConsole prints every `every` frames; values below 1 print every frame.
func NewConsole(w io.Writer, every int) *Console {
	if every < 1 {
		every = 1
	}
	return &Console{w: w, every: every}
}

func (c *Console) Render(f scheduler.Frame) error {
	c.n++
	if c.n%c.every != 0 {
		return nil
	}
	if f.Empty() {
		_, err := fmt.Fprintln(c.w, waitingMessage)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[#%d]", f.Total)
	for _, name := range f.Channels {
		series := f.Series[name]
		fmt.Fprintf(&b, "  %s=%7.2f %s",
			strings.ToUpper(name), series[len(series)-1],
			Sparkline(series, sparkWidth, orientation.AngleLimit))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(c.w, b.String())
	return err
}

// Sparkline draws the last width values as block characters scaled by
// |v|/ceil. A ceil of zero scales to the largest magnitude present.
func Sparkline(data []float64, width int, ceil float64) string {
	if len(data) == 0 {
		return strings.Repeat(" ", width)
	}
	d := data
	if len(d) < width {
		pad := make([]float64, width-len(d))
		d = append(pad, d...)
	} else if len(d) > width {
		d = d[len(d)-width:]
	}
	if ceil <= 0 {
		for _, v := range d {
			ceil = math.Max(ceil, math.Abs(v))
		}
	}
	if ceil <= 0 {
		ceil = 1
	}
	blk := []rune(blocks)
	var b strings.Builder
	for _, v := range d {
		frac := math.Min(1, math.Abs(v)/ceil)
		b.WriteRune(blk[min(8, int(frac*8))])
	}
	return b.String()
}
