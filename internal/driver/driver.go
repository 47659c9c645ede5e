// Package driver is the single-threaded scheduler that owns a filter
// instance and feeds it IMU and GPS samples in the fixed order the
// core requires (§5): predict -> accel correct -> mag correct ->
// baro correct -> publish, with GPS handled on its own path.
package driver

import (
	"github.com/aerolume/iekf-nav/internal/iekf"
	"github.com/aerolume/iekf-nav/internal/messages"
)

// Publisher is the sink the driver hands each completed IMU cycle's
// outputs to. mqttpub.Publisher satisfies this.
type Publisher interface {
	PublishAll(
		attitude messages.Attitude,
		local messages.LocalPosition,
		global messages.GlobalPosition,
		control messages.ControlState,
		status messages.EstimatorStatus,
	)
}

// StatusSink optionally receives every EstimatorStatus for live
// diagnostics (wsstatus.Server satisfies this). Nil disables it.
type StatusSink interface {
	Broadcast(status messages.EstimatorStatus)
}

// Driver is the single owner of a *iekf.Filter; every call into it
// must come from the same goroutine (§5 concurrency model).
type Driver struct {
	filter *iekf.Filter
	pub    Publisher
	status StatusSink
}

// New builds a Driver around a freshly constructed filter.
func New(origin iekf.Origin, faults iekf.FaultSink, pub Publisher, status StatusSink) *Driver {
	return &Driver{
		filter: iekf.New(origin, faults),
		pub:    pub,
		status: status,
	}
}

// Filter exposes the underlying filter for read-only inspection
// (tests, snapshots outside the IMU cycle).
func (d *Driver) Filter() *iekf.Filter { return d.filter }

// OnImuSample runs one full predict/correct/publish cycle for an IMU
// sample and forwards the results to the configured sinks.
func (d *Driver) OnImuSample(imu messages.IMUSample) {
	attitude, local, global, control, status := d.filter.OnImu(imu)

	if d.pub != nil {
		d.pub.PublishAll(attitude, local, global, control, status)
	}
	if d.status != nil {
		d.status.Broadcast(status)
	}
}

// OnGpsSample runs the GPS corrector independently of the IMU cycle.
func (d *Driver) OnGpsSample(gps messages.GPSSample) {
	d.filter.CorrectGPS(gps)
}
