// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package diagnostics provides the iekf.FaultSink implementation for
// the running filter; the websocket status broadcaster lives in the
// wsstatus subpackage.
package diagnostics

import "log"

// LogFaultSink logs every gate exceedance through the standard
// logger. It implements iekf.FaultSink without importing iekf, so the
// filter core has no dependency back on this package.
type LogFaultSink struct{}

// Warn implements iekf.FaultSink.
func (LogFaultSink) Warn(tag string) {
	log.Printf("filter: %s fault (chi-squared gate exceeded)", tag)
}
