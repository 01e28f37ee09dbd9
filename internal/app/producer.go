// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/attitude_plotter/internal/config"
	"github.com/relabs-tech/attitude_plotter/internal/logging"
	"github.com/relabs-tech/attitude_plotter/internal/orientation"
)

const publishTimeout = time.Second

// RunLineProducer emits mock orientation lines in the wire format, either
// to TOPIC_LINES or to stdout. count limits the number of lines; 0 runs
// until interrupted.
func RunLineProducer(toStdout bool, count int) error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	// stdout carries the lines, so logs go to stderr
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	variant, err := cfg.Variant()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var emit func(string) error
	if toStdout {
		emit = writeLine(os.Stdout)
	} else {
		client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientID+"-producer")
		if err != nil {
			return err
		}
		defer client.Disconnect(disconnectQuiesce)
		logger.Info("producer: connected to MQTT broker", "broker", cfg.MQTTBroker, "topic", cfg.TopicLines)

		emit = func(line string) error {
			token := client.Publish(cfg.TopicLines, 0, false, line+"\n")
			if !token.WaitTimeout(publishTimeout) {
				return fmt.Errorf("publish %s: timed out", cfg.TopicLines)
			}
			return token.Error()
		}
	}

	logger.Info("producer: started", "channels", variant.Channels.String(), "interval", cfg.ProducerTick())
	n, err := produceLines(ctx, orientation.NewMockSource(), orientation.NewDecoder(variant.Channels),
		cfg.ProducerTick(), count, emit, logger)
	logger.Info("producer: stopped", "lines", n)
	return err
}

func writeLine(w io.Writer) func(string) error {
	return func(line string) error {
		_, err := fmt.Fprintln(w, line)
		return err
	}
}

// produceLines encodes one pose per interval until ctx ends or count lines
// were emitted. Source errors are logged and skipped; emit errors stop it.
func produceLines(
	ctx context.Context,
	src orientation.Source,
	dec orientation.Decoder,
	interval time.Duration,
	count int,
	emit func(string) error,
	logger *slog.Logger,
) (int, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sent := 0
	for count <= 0 || sent < count {
		select {
		case <-ctx.Done():
			return sent, nil
		case <-ticker.C:
		}

		pose, err := src.Next()
		if err != nil {
			logger.Warn("producer: source error", "error", err)
			continue
		}
		line := dec.Encode(pose)
		if err := emit(line); err != nil {
			return sent, err
		}
		sent++
		logger.Debug("producer: line", "line", line)
	}
	return sent, nil
}
