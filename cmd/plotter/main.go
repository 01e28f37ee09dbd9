// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/attitude_plotter/internal/app"
	"github.com/relabs-tech/attitude_plotter/internal/config"
)

func main() {
	configPath := flag.String("config", "plotter_config.txt", "path to the KEY=VALUE or YAML config file")
	listPorts := flag.Bool("list-ports", false, "list serial ports and exit")
	flag.Parse()

	if *listPorts {
		if err := app.ListPorts(os.Stdout); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	log.Println("starting attitude plotter")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunPlotter(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
