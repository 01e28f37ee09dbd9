// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestWebServer_FrameEndpoint(t *testing.T) {
	s := NewWebServer(":0", quietLogger())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/frame")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "no data yet")

	// an empty frame still means no data
	require.NoError(t, s.Render(testFrame(pryPlanar, 10)))
	resp, _ = get(t, ts.URL+"/api/frame")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, s.Render(testFrame(pryPlanar, 10, orientation.Pose{Pitch: 12, Roll: 6, Yaw: 2})))
	resp, body = get(t, ts.URL+"/api/frame")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var f scheduler.Frame
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	assert.Equal(t, uint64(1), f.Total)
	require.NotNil(t, f.Latest)
	assert.Equal(t, 12.0, f.Latest.Pitch)
	require.NotNil(t, f.View)
	assert.Equal(t, orientation.ViewPlanar, f.View.Kind)
	assert.Len(t, f.View.Points, 4)
}

func TestWebServer_ChartPlotAndIndex(t *testing.T) {
	s := NewWebServer(":0", quietLogger())
	require.NoError(t, s.Render(testFrame(prSolid, 10, orientation.Pose{Pitch: 3, Roll: 4})))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/chart")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "scatter3D")

	resp, body = get(t, ts.URL+"/plot.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))

	resp, body = get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/ws")

	resp, _ = get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebServer_WebsocketPushesNewFrames(t *testing.T) {
	s := NewWebServer(":0", quietLogger())
	require.NoError(t, s.Render(testFrame(pitchBar, 10, orientation.Pose{Pitch: 1})))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var f scheduler.Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, uint64(1), f.Total, "latest frame is sent on connect")

	require.Eventually(t, func() bool { return s.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// same total: nothing is pushed
	require.NoError(t, s.Render(testFrame(pitchBar, 10, orientation.Pose{Pitch: 1})))
	require.NoError(t, s.Render(testFrame(pitchBar, 10, orientation.Pose{Pitch: 1}, orientation.Pose{Pitch: 2})))

	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, uint64(2), f.Total)
	assert.Equal(t, orientation.ViewBar, f.View.Kind)
	assert.Equal(t, 2.0, f.View.Magnitude)
}

func TestWebServer_ShutdownClosesClients(t *testing.T) {
	s := NewWebServer("127.0.0.1:0", quietLogger())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.Zero(t, s.hub.count())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
