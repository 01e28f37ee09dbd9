// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
)

const publishWait = 50 * time.Millisecond

// Summary is the compact frame published over MQTT.
type Summary struct {
	Total     uint64               `json:"total"`
	XRange    [2]uint64            `json:"x_range"`
	Channels  []string             `json:"channels"`
	Latest    orientation.Pose     `json:"latest"`
	View      orientation.ViewKind `json:"view"`
	Magnitude float64              `json:"magnitude,omitempty"`
}

// Summarize reduces f to a Summary. ok is false for an empty frame.
func Summarize(f scheduler.Frame) (s Summary, ok bool) {
	if f.Latest == nil || f.View == nil {
		return Summary{}, false
	}
	return Summary{
		Total:     f.Total,
		XRange:    f.XRange,
		Channels:  f.Channels,
		Latest:    *f.Latest,
		View:      f.View.Kind,
		Magnitude: f.View.Magnitude,
	}, true
}

// publisher is the part of mqtt.Client the Publisher needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher publishes a Summary to an MQTT topic whenever a frame carries
// new samples.
type Publisher struct {
	client    publisher
	topic     string
	lastTotal uint64
}

// NewPublisher publishes on topic through client.
func NewPublisher(client publisher, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

func (p *Publisher) Render(f scheduler.Frame) error {
	s, ok := Summarize(f)
	if !ok || s.Total == p.lastTotal {
		return nil
	}
	p.lastTotal = s.Total

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishWait) {
		return fmt.Errorf("publish %s: timed out", p.topic)
	}
	return token.Error()
}
