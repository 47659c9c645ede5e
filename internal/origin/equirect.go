// Package origin implements the iekf.Origin collaborator: an
// equirectangular local-tangent-plane projection around a latched
// reference point. No third-party geodesy library appears anywhere in
// the reference corpus this filter core was modeled on, so the
// projection is plain math -- the smallest correct implementation for
// a tangent plane a few kilometers across.
package origin

import (
	"math"
	"sync"
)

const earthRadiusM = 6378137.0

// Equirectangular converts between (lat, lon, alt) and a local NED
// frame anchored at the first latched fix. Horizontal and vertical
// latch independently and each exactly once (I5).
type Equirectangular struct {
	mu sync.RWMutex

	xyInit  bool
	altInit bool

	refLatDeg float64
	refLonDeg float64
	refAltM   float64
	cosRefLat float64

	xyTimestampUs uint64
}

// New returns an unlatched Equirectangular origin.
func New() *Equirectangular {
	return &Equirectangular{}
}

func (o *Equirectangular) XYInitialized() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.xyInit
}

func (o *Equirectangular) AltInitialized() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.altInit
}

func (o *Equirectangular) XYInitialize(latDeg, lonDeg float64, timestampUs uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.xyInit {
		return
	}
	o.refLatDeg = latDeg
	o.refLonDeg = lonDeg
	o.cosRefLat = math.Cos(latDeg * math.Pi / 180)
	o.xyTimestampUs = timestampUs
	o.xyInit = true
}

func (o *Equirectangular) AltInitialize(altM float64, timestampUs uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.altInit {
		return
	}
	o.refAltM = altM
	o.altInit = true
}

// GlobalToLocal projects (lat, lon, alt) onto the NED plane anchored
// at the latched reference. Callers must check XYInitialized /
// AltInitialized first: before the horizontal latch the reference is
// lat 0 and e is always 0; before the vertical latch the reference
// altitude is 0.
func (o *Equirectangular) GlobalToLocal(latDeg, lonDeg, altM float64) (n, e, d float64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	dLat := (latDeg - o.refLatDeg) * math.Pi / 180
	dLon := (lonDeg - o.refLonDeg) * math.Pi / 180
	n = dLat * earthRadiusM
	e = dLon * earthRadiusM * o.cosRefLat
	d = -(altM - o.refAltM)
	return n, e, d
}

func (o *Equirectangular) LocalToGlobal(n, e, d float64) (latDeg, lonDeg, altM float64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	latDeg = o.refLatDeg + (n/earthRadiusM)*180/math.Pi
	if o.cosRefLat != 0 {
		lonDeg = o.refLonDeg + (e/(earthRadiusM*o.cosRefLat))*180/math.Pi
	} else {
		lonDeg = o.refLonDeg
	}
	altM = o.refAltM - d
	return latDeg, lonDeg, altM
}

func (o *Equirectangular) LatDeg() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.refLatDeg
}

func (o *Equirectangular) LonDeg() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.refLonDeg
}

func (o *Equirectangular) Alt() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.refAltM
}

func (o *Equirectangular) XYTimestampUs() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.xyTimestampUs
}
