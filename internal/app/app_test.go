// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/attitude_plotter/internal/config"
	"github.com/relabs-tech/attitude_plotter/internal/logging"
	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/render"
)

type posesSource struct {
	poses []orientation.Pose
	errAt int
	n     int
}

func (s *posesSource) Next() (orientation.Pose, error) {
	s.n++
	if s.n == s.errAt {
		return orientation.Pose{}, errors.New("sensor glitch")
	}
	return s.poses[(s.n-1)%len(s.poses)], nil
}

func TestClientIDIsUnique(t *testing.T) {
	a, b := clientID("plotter"), clientID("plotter")
	assert.True(t, strings.HasPrefix(a, "plotter-"))
	assert.Len(t, a, len("plotter-")+8)
	assert.NotEqual(t, a, b)
}

func TestProduceLines_Count(t *testing.T) {
	src := &posesSource{poses: []orientation.Pose{{Pitch: 10, Roll: 5}, {Pitch: -1.5, Roll: 2.25}}}
	var got []string
	emit := func(line string) error {
		got = append(got, line)
		return nil
	}

	n, err := produceLines(context.Background(), src, orientation.NewDecoder(orientation.PitchRoll),
		time.Millisecond, 3, emit, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"10.00,5.00", "-1.50,2.25", "10.00,5.00"}, got)
}

func TestProduceLines_SkipsSourceErrors(t *testing.T) {
	src := &posesSource{poses: []orientation.Pose{{Pitch: 1}}, errAt: 2}
	var buf bytes.Buffer

	n, err := produceLines(context.Background(), src, orientation.NewDecoder(orientation.PitchOnly),
		time.Millisecond, 2, writeLine(&buf), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, src.n)
	assert.Equal(t, "1.00\n1.00\n", buf.String())
}

func TestProduceLines_EmitErrorStops(t *testing.T) {
	src := &posesSource{poses: []orientation.Pose{{}}}
	boom := errors.New("broker gone")

	n, err := produceLines(context.Background(), src, orientation.NewDecoder(orientation.PitchOnly),
		time.Millisecond, 0, func(string) error { return boom }, logging.Discard())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestProduceLines_ContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := produceLines(ctx, &posesSource{poses: []orientation.Pose{{}}},
		orientation.NewDecoder(orientation.PitchOnly), time.Hour, 0,
		func(string) error { return nil }, logging.Discard())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSummaryLine(t *testing.T) {
	payload, err := json.Marshal(render.Summary{
		Total:    42,
		XRange:   [2]uint64{0, 200},
		Channels: []string{"pitch", "roll"},
		Latest:   orientation.Pose{Pitch: 12.5, Roll: -3},
		View:     orientation.ViewSolid,
	})
	require.NoError(t, err)

	line, err := summaryLine(payload)
	require.NoError(t, err)
	assert.Equal(t, "[FRAME #42] x=[0,200]  PITCH=  12.50  ROLL=  -3.00  view=solid", line)

	_, err = summaryLine([]byte("{not json"))
	assert.Error(t, err)
}

func TestPrintSummary_LogsBadPayload(t *testing.T) {
	var out, logs bytes.Buffer
	logger, err := logging.New(&logs, "warn")
	require.NoError(t, err)

	printSummary(&out, []byte("garbage"), logger)
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "console: frame unmarshal error")

	payload, err := json.Marshal(render.Summary{Total: 1, Channels: []string{"pitch"}, View: orientation.ViewBar})
	require.NoError(t, err)
	printSummary(&out, payload, logger)
	assert.Equal(t, "[FRAME #1] x=[0,0]  PITCH=   0.00  view=bar\n", out.String())
}

func TestPrintSummary_QuietBelowLevel(t *testing.T) {
	var out, logs bytes.Buffer
	logger, err := logging.New(&logs, "error")
	require.NoError(t, err)

	printSummary(&out, []byte("garbage"), logger)
	assert.Empty(t, logs.String())
}

func TestRunPlotter_MockSource(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "final.png")

	cfg := config.Default()
	cfg.Source = "mock"
	cfg.Channels = "pitch_roll_yaw"
	cfg.RenderMode = "2d"
	cfg.Window = 20
	cfg.TickInterval = 5
	cfg.ProducerInterval = 2
	cfg.WebServerPort = 0
	cfg.ConsoleEvery = 1
	cfg.PlotSnapshot = snapshot

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, runPlotter(ctx, cfg, logging.Discard(), &out))

	assert.Contains(t, out.String(), "[#1]")
	assert.Contains(t, out.String(), "YAW=")

	info, err := os.Stat(snapshot)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunPlotter_BadSerialPort(t *testing.T) {
	cfg := config.Default()
	cfg.SerialPort = filepath.Join(t.TempDir(), "no-such-tty")
	cfg.WebServerPort = 0

	err := runPlotter(context.Background(), cfg, logging.Discard(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "open serial port")
}

func TestRunPlotter_InvalidVariant(t *testing.T) {
	cfg := config.Default()
	cfg.RenderMode = "4d"
	err := runPlotter(context.Background(), cfg, logging.Discard(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "RENDER_MODE")
}
