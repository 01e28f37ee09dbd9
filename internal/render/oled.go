// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

const (
	oledWidth  = 128
	oledHeight = 64
)

// drawer is the subset of *ssd1306.Dev used here.
type drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// OLED shows the latest pose on a 128x64 SSD1306 display.
type OLED struct {
	dev     drawer
	every   int
	n       int
	release func() error
}

// OpenOLED initializes periph, opens the default I2C bus and the SSD1306 at
// its default address, and shows a splash screen.
func OpenOLED(every int, logger *slog.Logger) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	if logger != nil {
		logger.Info("display: initialized", "bus", bus.String())
	}

	o := NewOLED(dev, every)
	o.release = bus.Close
	if err := o.show(splashImage()); err != nil && logger != nil {
		logger.Warn("display: error showing splash", "error", err)
	}
	return o, nil
}

// NewOLED draws on dev every `every` frames.
func NewOLED(dev drawer, every int) *OLED {
	if every < 1 {
		every = 1
	}
	return &OLED{dev: dev, every: every}
}

func (o *OLED) Render(f scheduler.Frame) error {
	o.n++
	if o.n%o.every != 0 {
		return nil
	}
	return o.show(frameImage(f))
}

// Close blanks the display and releases the bus.
func (o *OLED) Close() error {
	err := o.dev.Halt()
	if o.release != nil {
		err = errors.Join(err, o.release())
	}
	return err
}

func (o *OLED) show(img image.Image) error {
	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}

func textImage(lines ...textLine) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, oledWidth, oledHeight))
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for _, l := range lines {
		d.Dot = fixed.P(l.x, l.y)
		d.DrawString(l.text)
	}
	return img
}

type textLine struct {
	x, y int
	text string
}

func frameImage(f scheduler.Frame) *image1bit.VerticalLSB {
	if f.Latest == nil {
		return textImage(
			textLine{0, 26, "Orientation"},
			textLine{0, 39, "Waiting..."},
		)
	}
	lines := []textLine{{0, 13, fmt.Sprintf("#%d", f.Total)}}
	for i, name := range f.Channels {
		series := f.Series[name]
		if len(series) == 0 {
			continue
		}
		label := strings.ToUpper(name[:1])
		lines = append(lines, textLine{0, 26 + 13*i, fmt.Sprintf("%s: %6.1f", label, series[len(series)-1])})
	}
	return textImage(lines...)
}

func splashImage() *image1bit.VerticalLSB {
	return textImage(
		textLine{10, 26, "Attitude"},
		textLine{10, 43, "Plotter"},
	)
}
