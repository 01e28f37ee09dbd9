// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

func TestWritePlot_AllViews(t *testing.T) {
	poses := []orientation.Pose{{Pitch: 10, Roll: 5}, {Pitch: 12, Roll: 6, Yaw: 2}, {Pitch: -30, Roll: 45, Yaw: 90}}
	frames := map[string]scheduler.Frame{
		"empty":  testFrame(prSolid, 20),
		"bar":    testFrame(pitchBar, 20, poses...),
		"planar": testFrame(pryPlanar, 20, poses...),
		"solid":  testFrame(prSolid, 2, poses...),
	}

	for name, f := range frames {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WritePlot(&buf, f))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())
		})
	}
}

func TestWritePlot_UnknownViewKind(t *testing.T) {
	f := testFrame(prSolid, 5, orientation.Pose{Pitch: 1})
	f.View.Kind = "hologram"
	err := WritePlot(&bytes.Buffer{}, f)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "hologram"))
}

func TestSavePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.png")
	require.NoError(t, SavePlot(path, testFrame(pryPlanar, 10, orientation.Pose{Yaw: 45})))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	_, err = png.Decode(file)
	assert.NoError(t, err)
}

func TestSavePlot_BadPath(t *testing.T) {
	err := SavePlot(filepath.Join(t.TempDir(), "missing", "x.png"), scheduler.Frame{})
	assert.Error(t, err)
}
