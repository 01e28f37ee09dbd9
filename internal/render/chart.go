// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

const pageTitle = "Attitude Plotter"

// WriteChart renders f as an HTML page with an ECharts time-series chart and
// a chart of the orientation view.
func WriteChart(w io.Writer, f scheduler.Frame) error {
	page := components.NewPage()
	page.SetPageTitle(pageTitle)
	page.AddCharts(seriesChart(f))
	if view := viewChart(f); view != nil {
		page.AddCharts(view)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func seriesChart(f scheduler.Frame) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Orientation", Subtitle: fmt.Sprintf("samples=%d", f.Total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sample", Min: f.XRange[0], Max: f.XRange[1]}),
		charts.WithYAxisOpts(opts.YAxis{Name: "deg", Min: -orientation.AngleLimit, Max: orientation.AngleLimit}),
		charts.WithAnimation(false),
	)

	x := make([]uint64, len(f.Index))
	copy(x, f.Index)
	line.SetXAxis(x)
	for _, name := range f.Channels {
		values := f.Series[name]
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line
}

func viewChart(f scheduler.Frame) components.Charter {
	if f.View == nil {
		return nil
	}
	switch f.View.Kind {
	case orientation.ViewBar:
		return barChart(f.View.Magnitude)
	case orientation.ViewPlanar:
		return planarChart(f.View)
	case orientation.ViewSolid:
		return solidChart(f.View)
	default:
		return nil
	}
}

func barChart(pitch float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "420px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Pitch", Subtitle: fmt.Sprintf("%.1f°", pitch)}),
		charts.WithYAxisOpts(opts.YAxis{Min: -orientation.AngleLimit, Max: orientation.AngleLimit}),
		charts.WithAnimation(false),
	)
	bar.SetXAxis([]string{"pitch"}).
		AddSeries("pitch", []opts.BarData{{Value: pitch}},
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func planarChart(v *orientation.View) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "420px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Top view"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: -orientation.ViewLimit, Max: orientation.ViewLimit}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: -orientation.ViewLimit, Max: orientation.ViewLimit}),
		charts.WithAnimation(false),
	)

	body := make([]opts.ScatterData, len(v.Points))
	for i, p := range v.Points {
		body[i] = opts.ScatterData{Value: []interface{}{p.X, p.Y}}
	}
	var rotor []opts.ScatterData
	for _, seg := range orientation.RotorCross() {
		for _, p := range seg {
			rotor = append(rotor, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
		}
	}
	sc.AddSeries("body", body).AddSeries("rotor", rotor)
	return sc
}

func solidChart(v *orientation.View) *charts.Scatter3D {
	sc := charts.NewScatter3D()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Body"}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X", Min: -orientation.ViewLimit, Max: orientation.ViewLimit}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y", Min: -orientation.ViewLimit, Max: orientation.ViewLimit}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z", Min: -orientation.ViewLimit, Max: orientation.ViewLimit}),
		charts.WithGrid3DOpts(opts.Grid3D{BoxWidth: 100, BoxHeight: 100, BoxDepth: 100}),
	)

	body := make([]opts.Chart3DData, len(v.Points))
	for i, p := range v.Points {
		body[i] = opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}}
	}
	sc.AddSeries("body", body)
	sc.MultiSeries = append(sc.MultiSeries, axisLines()...)
	return sc
}

// axisLines draws each unit axis of the fixed triad as an origin-to-tip
// line3D series on the same grid.
func axisLines() []charts.SingleSeries {
	triad := orientation.AxisTriad()
	out := make([]charts.SingleSeries, len(triad))
	for i, tip := range triad {
		out[i] = charts.SingleSeries{
			Name:        [...]string{"x axis", "y axis", "z axis"}[i],
			Type:        types.ChartLine3D,
			CoordSystem: types.ChartCartesian3D,
			Data: []opts.Chart3DData{
				{Value: []interface{}{0.0, 0.0, 0.0}},
				{Value: []interface{}{tip.X, tip.Y, tip.Z}},
			},
		}
	}
	return out
}
