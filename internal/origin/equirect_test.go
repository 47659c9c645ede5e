package origin

import (
	"math"
	"testing"
)

func TestXYInitializeLatchesOnce(t *testing.T) {
	o := New()
	o.XYInitialize(47.397, 8.545, 1000)
	o.XYInitialize(0, 0, 2000)

	if o.LatDeg() != 47.397 || o.LonDeg() != 8.545 {
		t.Fatalf("origin re-latched: lat=%v lon=%v", o.LatDeg(), o.LonDeg())
	}
	if o.XYTimestampUs() != 1000 {
		t.Fatalf("xy timestamp = %v, want 1000", o.XYTimestampUs())
	}
}

func TestAltInitializeLatchesOnce(t *testing.T) {
	o := New()
	o.AltInitialize(488, 1000)
	o.AltInitialize(0, 2000)

	if o.Alt() != 488 {
		t.Fatalf("alt re-latched: %v", o.Alt())
	}
}

func TestGlobalToLocalRoundTrip(t *testing.T) {
	o := New()
	o.XYInitialize(47.397, 8.545, 0)
	o.AltInitialize(488, 0)

	n, e, d := o.GlobalToLocal(47.398, 8.546, 500)
	lat, lon, alt := o.LocalToGlobal(n, e, d)

	if math.Abs(lat-47.398) > 1e-9 || math.Abs(lon-8.546) > 1e-9 || math.Abs(alt-500) > 1e-9 {
		t.Fatalf("round trip mismatch: lat=%v lon=%v alt=%v", lat, lon, alt)
	}
}

func TestGlobalToLocalAtOriginIsZero(t *testing.T) {
	o := New()
	o.XYInitialize(47.397, 8.545, 0)
	o.AltInitialize(488, 0)

	n, e, d := o.GlobalToLocal(47.397, 8.545, 488)
	if n != 0 || e != 0 || d != 0 {
		t.Fatalf("origin itself should project to (0,0,0): got (%v,%v,%v)", n, e, d)
	}
}

func TestAltitudeSignIsDownPositive(t *testing.T) {
	o := New()
	o.AltInitialize(488, 0)
	o.XYInitialize(0, 0, 0)

	_, _, d := o.GlobalToLocal(0, 0, 500) // above the reference
	if d >= 0 {
		t.Fatalf("d = %v, want negative for altitude above the reference", d)
	}
}
