// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package app wires configuration, transports, the frame scheduler and the
// renderers into the runnable commands.
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

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/attitude_plotter/internal/config"
	"github.com/relabs-tech/attitude_plotter/internal/logging"
	"github.com/relabs-tech/attitude_plotter/internal/orientation"
	"github.com/relabs-tech/attitude_plotter/internal/render"
	"github.com/relabs-tech/attitude_plotter/internal/scheduler"
	"github.com/relabs-tech/attitude_plotter/internal/transport"
)

const shutdownTimeout = 2 * time.Second

// RunPlotter runs the plotter with the global configuration until SIGINT or
// SIGTERM.
func RunPlotter() error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPlotter(ctx, cfg, logger, os.Stdout)
}

// plotter holds everything opened for one run so it can be torn down in
// reverse order.
type plotter struct {
	cfg     *config.Config
	log     *slog.Logger
	out     io.Writer
	client  mqtt.Client
	web     *render.WebServer
	webErr  chan error
	closers []func() error
}

func runPlotter(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	variant, err := cfg.Variant()
	if err != nil {
		return err
	}

	p := &plotter{cfg: cfg, log: logger, out: out}
	defer p.close()

	src, err := p.openSource(variant)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(
		scheduler.Config{Window: cfg.Window, BatchSize: cfg.BatchSize},
		src, variant, orientation.DefaultGeometry(variant.Mode), logger,
	)
	if err != nil {
		return err
	}

	renderers, err := p.renderers()
	if err != nil {
		return err
	}

	logger.Info("plotter: started",
		"variant", variant.String(),
		"source", cfg.Source,
		"window", cfg.Window,
		"tick", cfg.Tick(),
		"renderers", len(renderers))

	ticker := time.NewTicker(cfg.Tick())
	defer ticker.Stop()

	var last scheduler.Frame
	for {
		select {
		case <-ctx.Done():
			p.finish(sched, src, last)
			return nil
		case err := <-p.webErr:
			p.finish(sched, src, last)
			return fmt.Errorf("web server: %w", err)
		case <-ticker.C:
			last = sched.Tick()
			if err := renderers.Render(last); err != nil {
				logger.Warn("plotter: render error", "error", err)
			}
		}
	}
}

// openSource builds the configured line source.
func (p *plotter) openSource(v orientation.Variant) (transport.LineSource, error) {
	cfg := p.cfg
	switch cfg.Source {
	case "mock":
		p.log.Info("plotter: using simulated source", "interval", cfg.ProducerTick())
		return transport.NewSimulatedSource(orientation.NewMockSource(), v.Channels, cfg.ProducerTick()), nil

	case "mqtt":
		client, err := p.mqttClient()
		if err != nil {
			return nil, err
		}
		src := transport.NewMQTTSource(client, cfg.TopicLines, transport.DefaultQueueSize, p.log)
		if err := src.Subscribe(); err != nil {
			return nil, err
		}
		p.closers = append(p.closers, src.Close)
		p.log.Info("plotter: subscribed", "topic", cfg.TopicLines)
		return src, nil

	case "serial":
		driver, err := transport.ParseDriver(cfg.SerialDriver)
		if err != nil {
			return nil, err
		}
		src, err := transport.OpenSerial(driver, cfg.SerialPort, cfg.PortOptions())
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, src.Close)
		p.log.Info("plotter: serial port open",
			"port", cfg.SerialPort, "driver", driver, "baud", cfg.SerialBaudRate)
		return src, nil

	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

func (p *plotter) mqttClient() (mqtt.Client, error) {
	if p.client != nil {
		return p.client, nil
	}
	client, err := connectMQTT(p.cfg.MQTTBroker, p.cfg.MQTTClientID)
	if err != nil {
		return nil, err
	}
	p.log.Info("plotter: connected to MQTT broker", "broker", p.cfg.MQTTBroker)
	p.client = client
	return client, nil
}

// renderers builds the enabled sinks.
func (p *plotter) renderers() (render.FanOut, error) {
	cfg := p.cfg
	var fo render.FanOut

	if cfg.ConsoleEvery > 0 {
		fo = append(fo, render.Named{Name: "console", Renderer: render.NewConsole(p.out, cfg.ConsoleEvery)})
	}

	if cfg.WebServerPort > 0 {
		p.web = render.NewWebServer(fmt.Sprintf(":%d", cfg.WebServerPort), p.log)
		p.webErr = make(chan error, 1)
		go func() {
			if err := p.web.ListenAndServe(); err != nil {
				p.webErr <- err
			}
		}()
		fo = append(fo, render.Named{Name: "web", Renderer: p.web})
	}

	if cfg.TopicFrame != "" {
		client, err := p.mqttClient()
		if err != nil {
			return nil, err
		}
		fo = append(fo, render.Named{Name: "mqtt", Renderer: render.NewPublisher(client, cfg.TopicFrame)})
	}

	if cfg.DisplayEnabled {
		oled, err := render.OpenOLED(cfg.DisplayEvery, p.log)
		if err != nil {
			p.log.Warn("plotter: display disabled", "error", err)
		} else {
			p.closers = append(p.closers, oled.Close)
			fo = append(fo, render.Named{Name: "display", Renderer: oled})
		}
	}
	return fo, nil
}

// finish logs the run statistics and writes the PNG snapshot.
func (p *plotter) finish(sched *scheduler.Scheduler, src transport.LineSource, last scheduler.Frame) {
	p.log.Info("plotter: stopping", "samples", sched.Total(), "stats", sched.Stats().String())
	if d, ok := src.(interface{ Dropped() uint64 }); ok && d.Dropped() > 0 {
		p.log.Warn("plotter: source dropped data", "dropped", d.Dropped())
	}

	if p.cfg.PlotSnapshot == "" {
		return
	}
	if last.Empty() {
		p.log.Info("plotter: no samples, snapshot skipped")
		return
	}
	if err := render.SavePlot(p.cfg.PlotSnapshot, last); err != nil {
		p.log.Error("plotter: snapshot failed", "path", p.cfg.PlotSnapshot, "error", err)
		return
	}
	p.log.Info("plotter: snapshot written", "path", p.cfg.PlotSnapshot)
}

func (p *plotter) close() {
	if p.web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := p.web.Shutdown(ctx); err != nil {
			p.log.Warn("plotter: web shutdown", "error", err)
		}
		cancel()
	}
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			p.log.Warn("plotter: close error", "error", err)
		}
	}
	if p.client != nil {
		p.client.Disconnect(disconnectQuiesce)
	}
}

// ListPorts prints the serial ports visible to the system.
func ListPorts(w io.Writer) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return fmt.Errorf("list serial ports: %w", err)
	}
	if len(ports) == 0 {
		_, err := fmt.Fprintln(w, "no serial ports found")
		return err
	}
	for _, name := range ports {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
