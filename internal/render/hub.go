// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
	sendBuf    = 16
)

// hub fans frames out to websocket clients. Each client has its own write
// goroutine; a client whose queue is full is disconnected.
type hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[string]*wsClient
	closed  bool
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func newHub(logger *slog.Logger) *hub {
	return &hub{log: logger, clients: make(map[string]*wsClient)}
}

// add registers conn. initial, when not nil, is queued before any broadcast.
func (h *hub) add(conn *websocket.Conn, initial []byte) *wsClient {
	c := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuf),
	}
	if initial != nil {
		c.send <- initial
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Info("web: ws client connected", "client", c.id, "remote_addr", conn.RemoteAddr().String(), "clients", n)
	go c.writePump(h)
	go c.readPump(h)
	return c
}

func (h *hub) remove(c *wsClient, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()

	c.close()
	if ok {
		h.log.Info("web: ws client disconnected", "client", c.id, "reason", reason, "clients", n)
	}
}

// broadcast never blocks.
func (h *hub) broadcast(msg []byte) {
	var slow []*wsClient
	h.mu.Lock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.remove(c, "slow_client")
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*wsClient)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

func (c *wsClient) writePump(h *hub) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					h.log.Debug("web: ws write failed", "client", c.id, "error", err)
				}
				h.remove(c, "write_error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c, "ping_error")
				return
			}
		}
	}
}

// readPump discards inbound messages; it exists to process control frames
// and notice disconnects.
func (c *wsClient) readPump(h *hub) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c, "read_closed")
			return
		}
	}
}
