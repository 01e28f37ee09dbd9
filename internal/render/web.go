// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebServer keeps the latest frame and serves it over HTTP:
//
//	/api/frame  latest frame as JSON (503 until the first sample)
//	/ws         pushes every new frame as JSON
//	/chart      ECharts HTML page
//	/plot.png   gonum/plot PNG
//	/           small live page built on /ws
type WebServer struct {
	log *slog.Logger
	hub *hub
	srv *http.Server

	mu        sync.RWMutex
	frame     scheduler.Frame
	haveFrame bool
	lastTotal uint64
}

// NewWebServer builds a server listening on addr once ListenAndServe is called.
func NewWebServer(addr string, logger *slog.Logger) *WebServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &WebServer{log: logger, hub: newHub(logger)}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/chart", s.handleChart)
	mux.HandleFunc("/plot.png", s.handlePlot)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// Render stores f and pushes it to websocket clients when it carries new
// samples.
func (s *WebServer) Render(f scheduler.Frame) error {
	s.mu.Lock()
	s.frame = f
	s.haveFrame = !f.Empty()
	changed := f.Total != s.lastTotal
	s.lastTotal = f.Total
	s.mu.Unlock()

	if !changed || s.hub.count() == 0 {
		return nil
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	s.hub.broadcast(payload)
	return nil
}

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *WebServer) ListenAndServe() error {
	s.log.Info("web: listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown disconnects websocket clients and stops the HTTP server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.srv.Shutdown(ctx)
}

func (s *WebServer) latest() (scheduler.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.haveFrame
}

func (s *WebServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	f, ok := s.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(f); err != nil {
		s.log.Warn("web: json encode error", "error", err)
	}
}

func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("web: ws upgrade failed", "error", err)
		return
	}
	var initial []byte
	if f, ok := s.latest(); ok {
		initial, err = json.Marshal(f)
		if err != nil {
			s.log.Warn("web: json encode error", "error", err)
		}
	}
	s.hub.add(conn, initial)
}

func (s *WebServer) handleChart(w http.ResponseWriter, r *http.Request) {
	f, _ := s.latest()
	var buf bytes.Buffer
	if err := WriteChart(&buf, f); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *WebServer) handlePlot(w http.ResponseWriter, r *http.Request) {
	f, _ := s.latest()
	var buf bytes.Buffer
	if err := WritePlot(&buf, f); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Attitude Plotter</title></head>
<body>
<h1>Attitude Plotter</h1>
<p><a href="/chart">chart</a> | <a href="/plot.png">png</a> | <a href="/api/frame">json</a></p>
<pre id="latest">waiting for data...</pre>
<script>
const out = document.getElementById("latest");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const f = JSON.parse(ev.data);
  if (!f.latest) return;
  out.textContent = "#" + f.total + "  " + f.channels.map(c => c + "=" + f.latest[c].toFixed(2)).join("  ");
};
</script>
</body>
</html>
`
