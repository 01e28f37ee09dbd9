// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/attitude_plotter/internal/app"
	"github.com/relabs-tech/attitude_plotter/internal/config"
)

func main() {
	configPath := flag.String("config", "plotter_config.txt", "path to the KEY=VALUE or YAML config file")
	flag.Parse()

	log.Println("starting attitude plotter console (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunFrameConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
