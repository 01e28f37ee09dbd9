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
	toStdout := flag.Bool("stdout", false, "write lines to stdout instead of MQTT")
	count := flag.Int("n", 0, "number of lines to emit (0 = until interrupted)")
	flag.Parse()

	log.Println("starting attitude line producer (mock)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunLineProducer(*toStdout, *count); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
