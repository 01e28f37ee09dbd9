// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool { return false }
func (m fakeMessage) Qos() byte { return 0 }
func (m fakeMessage) Retained() bool { return false }
func (m fakeMessage) Topic() string { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte { return m.payload }
func (m fakeMessage) Ack() {}

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Error() error { return t.err }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// fakeClient overrides the subscription calls; everything else panics.
type fakeClient struct {
	mqtt.Client
	subErr       error
	handler      mqtt.MessageHandler
	subscribed   string
	unsubscribed []string
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.subscribed = topic
	c.handler = cb
	return fakeToken{err: c.subErr}
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.unsubscribed = append(c.unsubscribed, topics...)
	return fakeToken{}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMQTTSource_DeliversRecords(t *testing.T) {
	client := &fakeClient{}
	src := NewMQTTSource(client, "attitude/lines", 8, quietLogger())
	require.NoError(t, src.Subscribe())
	assert.Equal(t, "attitude/lines", client.subscribed)

	client.handler(client, fakeMessage{topic: "attitude/lines", payload: []byte("10,5,0\r\ngarbage\n\n12,6,2\n")})

	assert.Equal(t, []string{"10,5,0", "garbage", "12,6,2"}, readAll(t, src))

	r, err := src.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, NoData, r.Kind)
}

func TestMQTTSource_DropsNewestWhenFull(t *testing.T) {
	src := NewMQTTSource(nil, "t", 2, quietLogger())
	src.handle(nil, fakeMessage{payload: []byte("1\n2\n3\n4")})

	assert.Equal(t, []string{"1", "2"}, readAll(t, src))
	assert.Equal(t, uint64(2), src.Dropped())
}

func TestMQTTSource_SubscribeError(t *testing.T) {
	client := &fakeClient{subErr: errors.New("not authorized")}
	src := NewMQTTSource(client, "attitude/lines", 0, quietLogger())
	err := src.Subscribe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attitude/lines")
}

func TestMQTTSource_Close(t *testing.T) {
	client := &fakeClient{}
	src := NewMQTTSource(client, "attitude/lines", 0, nil)
	require.NoError(t, src.Close())
	assert.Equal(t, []string{"attitude/lines"}, client.unsubscribed)

	assert.NoError(t, NewMQTTSource(nil, "x", 0, nil).Close())
}
