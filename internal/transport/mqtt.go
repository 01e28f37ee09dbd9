// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultQueueSize is the number of records MQTTSource buffers between ticks.
const DefaultQueueSize = 1024

// MQTTSource receives line records published on a topic. Each payload may
// carry several newline-separated records. The paho callback goroutine only
// writes to a bounded channel; when the queue is full new records are dropped
// and counted.
type MQTTSource struct {
	client  mqtt.Client
	topic   string
	lines   chan string
	dropped atomic.Uint64
	log     *slog.Logger
}

// NewMQTTSource creates a source for topic. Call Subscribe to start receiving.
func NewMQTTSource(client mqtt.Client, topic string, queueSize int, logger *slog.Logger) *MQTTSource {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTSource{
		client: client,
		topic:  topic,
		lines:  make(chan string, queueSize),
		log:    logger,
	}
}

// Subscribe registers the message handler with the broker.
func (s *MQTTSource) Subscribe() error {
	token := s.client.Subscribe(s.topic, 0, s.handle)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.topic, err)
	}
	s.log.Info("mqtt source: subscribed", "topic", s.topic)
	return nil
}

func (s *MQTTSource) handle(_ mqtt.Client, msg mqtt.Message) {
	for _, rec := range strings.Split(string(msg.Payload()), "\n") {
		rec = strings.TrimRight(rec, "\r")
		if rec == "" {
			continue
		}
		select {
		case s.lines <- rec:
		default:
			if s.dropped.Add(1) == 1 {
				s.log.Warn("mqtt source: queue full, dropping records", "topic", msg.Topic())
			}
		}
	}
}

// ReadLine returns a queued record or NoData. It never blocks.
func (s *MQTTSource) ReadLine() (Read, error) {
	select {
	case rec := <-s.lines:
		return line(rec)
	default:
		return noData()
	}
}

// Dropped is the number of records discarded because the queue was full.
func (s *MQTTSource) Dropped() uint64 { return s.dropped.Load() }

// Close unsubscribes from the topic. The client stays connected.
func (s *MQTTSource) Close() error {
	if s.client == nil {
		return nil
	}
	token := s.client.Unsubscribe(s.topic)
	token.Wait()
	return token.Error()
}
