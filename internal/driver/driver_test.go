package driver

import (
	"testing"

	"github.com/aerolume/iekf-nav/internal/messages"
)

type fakeOrigin struct{ xyInit, altInit bool }

func (o *fakeOrigin) XYInitialized() bool  { return o.xyInit }
func (o *fakeOrigin) AltInitialized() bool { return o.altInit }
func (o *fakeOrigin) XYInitialize(lat, lon float64, ts uint64) {
	o.xyInit = true
}
func (o *fakeOrigin) AltInitialize(alt float64, ts uint64) { o.altInit = true }
func (o *fakeOrigin) GlobalToLocal(lat, lon, alt float64) (n, e, d float64) {
	return lat, lon, -alt
}
func (o *fakeOrigin) LocalToGlobal(n, e, d float64) (lat, lon, alt float64) {
	return n, e, -d
}
func (o *fakeOrigin) LatDeg() float64       { return 0 }
func (o *fakeOrigin) LonDeg() float64       { return 0 }
func (o *fakeOrigin) Alt() float64          { return 0 }
func (o *fakeOrigin) XYTimestampUs() uint64 { return 0 }

type nopFaultSink struct{}

func (nopFaultSink) Warn(tag string) {}

type fakePublisher struct {
	calls int
}

func (p *fakePublisher) PublishAll(
	attitude messages.Attitude,
	local messages.LocalPosition,
	global messages.GlobalPosition,
	control messages.ControlState,
	status messages.EstimatorStatus,
) {
	p.calls++
}

type fakeStatusSink struct {
	got []messages.EstimatorStatus
}

func (s *fakeStatusSink) Broadcast(status messages.EstimatorStatus) {
	s.got = append(s.got, status)
}

func TestOnImuSampleFansOutToBothSinks(t *testing.T) {
	pub := &fakePublisher{}
	status := &fakeStatusSink{}
	d := New(&fakeOrigin{}, nopFaultSink{}, pub, status)

	d.OnImuSample(messages.IMUSample{Accel: [3]float64{0, 0, -9.8}, GyroIntegralDt: 0.005})

	if pub.calls != 1 {
		t.Fatalf("PublishAll called %d times, want 1", pub.calls)
	}
	if len(status.got) != 1 {
		t.Fatalf("Broadcast called %d times, want 1", len(status.got))
	}
}

func TestOnImuSampleToleratesNilSinks(t *testing.T) {
	d := New(&fakeOrigin{}, nopFaultSink{}, nil, nil)
	d.OnImuSample(messages.IMUSample{Accel: [3]float64{0, 0, -9.8}, GyroIntegralDt: 0.005})
}

func TestOnGpsSampleReachesTheFilter(t *testing.T) {
	o := &fakeOrigin{}
	d := New(o, nopFaultSink{}, nil, nil)

	d.OnGpsSample(messages.GPSSample{
		LatE7: 473970000, LonE7: 85450000, AltMM: 488000,
		SatellitesUsed: 8, FixType: 3,
	})

	if !o.XYInitialized() {
		t.Fatal("OnGpsSample did not reach the filter's GPS corrector")
	}
}
