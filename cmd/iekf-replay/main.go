// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// iekf-replay drives the filter from a recorded line-delimited JSON
// file of IMU and GPS samples instead of live sensors, for offline
// bench-testing against a fixed scenario.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aerolume/iekf-nav/internal/config"
	"github.com/aerolume/iekf-nav/internal/diagnostics"
	"github.com/aerolume/iekf-nav/internal/driver"
	"github.com/aerolume/iekf-nav/internal/messages"
	"github.com/aerolume/iekf-nav/internal/origin"
	"github.com/aerolume/iekf-nav/internal/transport/mqttpub"
)

// replayRecord is one line of the replay file: exactly one of imu or
// gps is set, distinguished by the "type" discriminator.
type replayRecord struct {
	Type string               `json:"type"` // "imu" or "gps"
	IMU  *messages.IMUSample  `json:"imu,omitempty"`
	GPS  *messages.GPSSample  `json:"gps,omitempty"`
}

func main() {
	configPath := flag.String("config", "./iekf_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting iekf-replay (recorded samples -> filter -> MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config) error {
	pub, err := mqttpub.Connect(cfg)
	if err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer pub.Close()

	d := driver.New(origin.New(), diagnostics.LogFaultSink{}, pub, nil)

	file, err := os.Open(cfg.ReplayFilePath)
	if err != nil {
		return fmt.Errorf("open replay file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec replayRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("replay line %d: %w", lineNum, err)
		}

		switch rec.Type {
		case "imu":
			if rec.IMU == nil {
				return fmt.Errorf("replay line %d: type=imu with no imu payload", lineNum)
			}
			d.OnImuSample(*rec.IMU)
		case "gps":
			if rec.GPS == nil {
				return fmt.Errorf("replay line %d: type=gps with no gps payload", lineNum)
			}
			d.OnGpsSample(*rec.GPS)
		default:
			return fmt.Errorf("replay line %d: unknown record type %q", lineNum, rec.Type)
		}
	}

	return scanner.Err()
}
