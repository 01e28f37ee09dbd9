// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/attitude_plotter/internal/config"
	"github.com/relabs-tech/attitude_plotter/internal/logging"
	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/render"
)

// RunFrameConsole subscribes to TOPIC_FRAME and prints every frame summary
// until interrupted.
func RunFrameConsole() error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	if cfg.TopicFrame == "" {
		return errors.New("TOPIC_FRAME is not set")
	}
	// stdout carries the summaries, so logs go to stderr
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientID+"-console")
	if err != nil {
		return err
	}
	defer client.Disconnect(disconnectQuiesce)
	logger.Info("console: connected to MQTT broker", "broker", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicFrame, 0, func(_ mqtt.Client, msg mqtt.Message) {
		printSummary(os.Stdout, msg.Payload(), logger)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	logger.Info("console: subscribed", "topic", cfg.TopicFrame)

	<-ctx.Done()
	logger.Info("console: shutting down")
	return nil
}

func printSummary(w io.Writer, payload []byte, logger *slog.Logger) {
	line, err := summaryLine(payload)
	if err != nil {
		logger.Warn("console: frame unmarshal error", "error", err)
		return
	}
	fmt.Fprintln(w, line)
}

// summaryLine formats one published frame summary.
func summaryLine(payload []byte) (string, error) {
	var s render.Summary
	if err := json.Unmarshal(payload, &s); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[FRAME #%d] x=[%d,%d]", s.Total, s.XRange[0], s.XRange[1])
	for _, name := range s.Channels {
		fmt.Fprintf(&b, "  %s=%7.2f", strings.ToUpper(name), channelValue(s.Latest, name))
	}
	fmt.Fprintf(&b, "  view=%s", s.View)
	return b.String(), nil
}

func channelValue(p orientation.Pose, name string) float64 {
	switch name {
	case orientation.Roll.String():
		return p.Roll
	case orientation.Yaw.String():
		return p.Yaw
	default:
		return p.Pitch
	}
}
