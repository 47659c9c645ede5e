// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// iekf-gpsbridge runs the live onboard pipeline: IMU/baro samples off
// the I2C bus drive the filter's predict/correct/publish cycle on a
// fixed-interval ticker; a background goroutine parses GPS fixes off
// the serial NMEA receiver and hands them to the main loop over a
// channel rather than calling into the driver directly, so the
// driver (and the filter it owns) is only ever touched from the one
// goroutine running that loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aerolume/iekf-nav/internal/config"
	"github.com/aerolume/iekf-nav/internal/diagnostics"
	"github.com/aerolume/iekf-nav/internal/diagnostics/wsstatus"
	"github.com/aerolume/iekf-nav/internal/driver"
	"github.com/aerolume/iekf-nav/internal/ingest/imubus"
	"github.com/aerolume/iekf-nav/internal/ingest/nmeagps"
	"github.com/aerolume/iekf-nav/internal/messages"
	"github.com/aerolume/iekf-nav/internal/origin"
	"github.com/aerolume/iekf-nav/internal/transport/mqttpub"
)

func main() {
	configPath := flag.String("config", "./iekf_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting iekf-gpsbridge (IMU/baro + GPS -> filter -> MQTT)")

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

	status := wsstatus.New()
	if cfg.WebsocketStatusPort != 0 {
		http.HandleFunc("/status", status.HandleWS)
		go func() {
			addr := fmt.Sprintf(":%d", cfg.WebsocketStatusPort)
			log.Printf("wsstatus listening on %s", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Printf("wsstatus server error: %v", err)
			}
		}()
	}

	d := driver.New(origin.New(), diagnostics.LogFaultSink{}, pub, status)

	gps, err := nmeagps.Open(cfg)
	if err != nil {
		return fmt.Errorf("gps open: %w", err)
	}
	defer gps.Close()

	// gpsFixes is the only channel between the GPS-reading goroutine
	// and the loop below, which is the single executor that owns d
	// (and the filter underneath it) -- see the §5 concurrency model
	// on driver.Driver. NextFix blocks on the serial port; if the main
	// loop falls far enough behind to fill the buffer, the send below
	// blocks too and the goroutine stops reading the port until the
	// loop drains a fix. No fix is discarded.
	gpsFixes := make(chan messages.GPSSample, 8)
	go func() {
		for {
			fix, err := gps.NextFix()
			if err != nil {
				log.Printf("gps: %v", err)
				return
			}
			gpsFixes <- fix
		}
	}()

	bus, err := imubus.Open(cfg)
	if err != nil {
		return fmt.Errorf("imu bus open: %w", err)
	}

	ticker := time.NewTicker(time.Duration(cfg.IMUSampleIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case fix := <-gpsFixes:
			d.OnGpsSample(fix)

		case <-ticker.C:
			sample, err := bus.Sample()
			if err != nil {
				log.Printf("imu sample error: %v", err)
				continue
			}
			d.OnImuSample(sample)
		}
	}
}
