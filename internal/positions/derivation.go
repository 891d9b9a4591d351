package positions

import (
	"time"

	"github.com/accretegeo-dev/traccar-backend/pkg/geo"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

// A position counts as moving above this speed in knots.
const motionSpeedKnots = 0.5

// Derivation carries the telemetry recomputed for a position relative to
// its chronological predecessor.
type Derivation struct {
	Distance      float64
	TotalDistance *float64
	Course        float64
	Speed         float64
	Motion        bool
	Attributes    Attributes
}

// Derive computes derived telemetry for a position at (lat, lon, fixTime)
// against prev, the resolved predecessor, or nil when the device has none.
//
// speed is the caller-supplied value in knots; zero asks for the fallback
// derived from distance over elapsed time. fallbackCourse is held when
// the position did not move. existing is the attribute document the
// derived keys are merged into; it is modified in place.
//
// Derivation never fails: a missing predecessor yields zeros, an unknown
// predecessor total propagates as null, and a non-positive elapsed time
// leaves the speed at zero rather than inventing one.
func Derive(prev *models.Position, lat, lon float64, fixTime time.Time, speed, fallbackCourse float64, existing Attributes) Derivation {
	d := Derivation{Course: fallbackCourse, Attributes: existing}

	if prev != nil {
		d.Distance = geo.DistanceMeters(prev.Latitude, prev.Longitude, lat, lon)
		if d.Distance > 0 {
			d.Course = geo.BearingDegrees(prev.Latitude, prev.Longitude, lat, lon)
		}

		prevAttributes := DecodeAttributes(prev.Attributes)
		if prevTotal, ok := prevAttributes.TotalDistance(); ok {
			total := prevTotal + d.Distance
			d.TotalDistance = &total
		}
	}

	d.Speed = speed
	if d.Speed == 0 && prev != nil {
		if elapsed := fixTime.Sub(prev.FixTime).Seconds(); elapsed > 0 {
			d.Speed = geo.Knots(d.Distance / elapsed)
		}
	}
	d.Motion = d.Speed > motionSpeedKnots

	d.Attributes.SetDerived(d.Distance, d.TotalDistance, d.Motion)

	return d
}
