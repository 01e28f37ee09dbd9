// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

const (
	plotWidth  = 14 * vg.Inch
	plotHeight = 6 * vg.Inch
	barHalf    = 0.4
)

// WritePlot renders the frame as a PNG: the time series on the left and the
// orientation view on the right.
func WritePlot(w io.Writer, f scheduler.Frame) error {
	series, err := seriesPlot(f)
	if err != nil {
		return err
	}
	view, err := viewPlot(f)
	if err != nil {
		return err
	}

	img := vgimg.New(plotWidth, plotHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 4}
	canvases := plot.Align([][]*plot.Plot{{series, view}}, tiles, dc)
	series.Draw(canvases[0][0])
	view.Draw(canvases[0][1])

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePlot writes the PNG rendering of f to path.
func SavePlot(path string, f scheduler.Frame) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WritePlot(file, f)
}

func seriesPlot(f scheduler.Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Orientation (%d samples)", f.Total)
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Angle (deg)"
	p.X.Min, p.X.Max = float64(f.XRange[0]), float64(f.XRange[1])
	p.Y.Min, p.Y.Max = -orientation.AngleLimit, orientation.AngleLimit
	p.Add(plotter.NewGrid())

	for i, name := range f.Channels {
		values := f.Series[name]
		if len(values) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(values))
		for j, v := range values {
			pts[j] = plotter.XY{X: float64(f.Index[j]), Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("%s series: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

func viewPlot(f scheduler.Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Min, p.Y.Max = -orientation.ViewLimit, orientation.ViewLimit
	p.X.Min, p.X.Max = -orientation.ViewLimit, orientation.ViewLimit
	if f.View == nil {
		p.Title.Text = waitingMessage
		return p, nil
	}

	switch f.View.Kind {
	case orientation.ViewBar:
		p.Title.Text = fmt.Sprintf("Pitch %.1f°", f.View.Magnitude)
		p.Y.Label.Text = "Pitch (deg)"
		p.Y.Min, p.Y.Max = -orientation.AngleLimit, orientation.AngleLimit
		m := f.View.Magnitude
		bar, err := plotter.NewPolygon(plotter.XYs{
			{X: -barHalf, Y: 0}, {X: barHalf, Y: 0}, {X: barHalf, Y: m}, {X: -barHalf, Y: m},
		})
		if err != nil {
			return nil, err
		}
		bar.Color = plotutil.Color(0)
		p.Add(bar)

	case orientation.ViewPlanar:
		p.Title.Text = "Top view"
		p.X.Label.Text, p.Y.Label.Text = "X", "Y"
		for _, seg := range orientation.RotorCross() {
			rotor, err := plotter.NewLine(plotter.XYs{{X: seg[0].X, Y: seg[0].Y}, {X: seg[1].X, Y: seg[1].Y}})
			if err != nil {
				return nil, err
			}
			rotor.Color = plotutil.Color(3)
			p.Add(rotor)
		}
		body, err := plotter.NewPolygon(projectXY(f.View))
		if err != nil {
			return nil, err
		}
		body.Color = plotutil.Color(0)
		p.Add(body)

	case orientation.ViewSolid:
		// side view: X against Z
		p.Title.Text = "Side view"
		p.X.Label.Text, p.Y.Label.Text = "X", "Z"
		pts := make(plotter.XYs, len(f.View.Points))
		for i, v := range f.View.Points {
			pts[i] = plotter.XY{X: v.X, Y: v.Z}
		}
		body, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		body.Color = plotutil.Color(0)
		body.Radius = vg.Points(1)
		p.Add(body)
		for i, axis := range orientation.AxisTriad() {
			arrow, err := plotter.NewLine(plotter.XYs{{}, {X: axis.X, Y: axis.Z}})
			if err != nil {
				return nil, err
			}
			arrow.Color = plotutil.Color(i + 1)
			p.Add(arrow)
		}

	default:
		return nil, fmt.Errorf("unknown view kind %q", f.View.Kind)
	}
	return p, nil
}

func projectXY(v *orientation.View) plotter.XYs {
	pts := make(plotter.XYs, len(v.Points))
	for i, pt := range v.Points {
		pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return pts
}
