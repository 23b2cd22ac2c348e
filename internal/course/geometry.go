package course

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const earthRadiusMeters = 6371000.0

// Distance is the great-circle distance between two points in meters.
func Distance(a, b models.Location) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// Bearing is the initial compass bearing from a to b in [0, 360).
func Bearing(a, b models.Location) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)

	lat1, lat2 := p1.Lat.Radians(), p2.Lat.Radians()
	dLng := p2.Lng.Radians() - p1.Lng.Radians()

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// TargetBearing rounds the tee to pin bearing to a whole degree in [0, 359].
func TargetBearing(tee, pin models.Location) (int, error) {
	if Distance(tee, pin) < 1 {
		return 0, utils.InvalidInput("tee and pin are the same point")
	}
	return int(math.Round(Bearing(tee, pin))) % 360, nil
}

// HoleBearing returns the tee to pin bearing of a hole when both points are known.
func HoleBearing(hole models.CourseHole) (int, bool) {
	if hole.Tee == nil || hole.PinPosition == nil {
		return 0, false
	}
	bearing, err := TargetBearing(*hole.Tee, *hole.PinPosition)
	if err != nil {
		return 0, false
	}
	return bearing, true
}
