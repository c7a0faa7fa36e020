package spatial

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	MetersPerDegree   = 110000.0  // Approximate length of one degree, used to size query windows
)

// ToNativeUnits converts a length in meters into the coordinate units of the data.
// Planar data is assumed to already be in meters. Geographic data uses a flat
// meters-per-degree approximation, which is only good enough for query windows
// and extents; exact distances always go through Distance.
func ToNativeUnits(geographic bool, meters float64) float64 {
	if geographic {
		return meters / MetersPerDegree
	}
	return meters
}

// Distance returns the distance in meters between two points.
// In geographic mode X is longitude and Y is latitude, both in degrees.
func Distance(geographic bool, p1, p2 Point) float64 {
	if geographic {
		return GreatCircleDistance(p1.Y, p1.X, p2.Y, p2.X)
	}
	return math.Sqrt(SquaredDistance(p1, p2))
}

// SquaredDistance returns the squared planar distance between two points.
func SquaredDistance(p1, p2 Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return dx*dx + dy*dy
}

// GreatCircleDistance calculates the great-circle distance between two points in meters
// from the chord length between them on the unit sphere.
//
// The asin argument is clamped to 1, so distances close to half the Earth's
// circumference lose precision to floating point rounding.
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLon := (lon1 - lon2) * math.Pi / 180
	th1 := lat1 * math.Pi / 180
	th2 := lat2 * math.Pi / 180

	dz := math.Sin(th1) - math.Sin(th2)
	dx := math.Cos(dLon)*math.Cos(th1) - math.Cos(th2)
	dy := math.Sin(dLon) * math.Cos(th1)

	half := math.Sqrt(dx*dx+dy*dy+dz*dz) / 2
	if half > 1 {
		half = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(half)
}

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// ValidateLatLng checks that a point holds a usable longitude (X) and latitude (Y).
func ValidateLatLng(p Point) error {
	if !s2.LatLngFromDegrees(p.Y, p.X).IsValid() {
		return fmt.Errorf("invalid lat/lon (%v, %v)", p.Y, p.X)
	}
	return nil
}

// QueryWindow returns an envelope, in native units, that contains every point
// within meters of c under the metric selected by geographic, as long as no
// longitude wrapping is involved. QueryWindows covers the antimeridian.
//
// Planar windows are the square of half-width meters. Geographic windows use
// the flat degree approximation for latitude and widen the longitude span by
// 1/cos of the most poleward latitude the window reaches, since a degree of
// longitude shrinks toward the poles. Windows touching a pole, or wider than
// the globe, cover every longitude.
func QueryWindow(geographic bool, c Point, meters float64) Envelope {
	half := ToNativeUnits(geographic, meters)
	if !geographic {
		return EnvelopeAround(c, half)
	}

	env := EnvelopeAround(c, half)
	poleward := math.Abs(c.Y) + half
	if poleward >= 90 {
		env.Min.X, env.Max.X = math.Inf(-1), math.Inf(1)
		return env
	}

	halfLon := half / math.Cos(poleward*math.Pi/180)
	if halfLon >= 180 {
		env.Min.X, env.Max.X = math.Inf(-1), math.Inf(1)
		return env
	}
	env.Min.X = c.X - halfLon
	env.Max.X = c.X + halfLon
	return env
}

// QueryWindows is QueryWindow plus, in geographic mode, a copy shifted by
// 360 degrees when the window crosses longitude -180 or 180. The envelopes
// never overlap, so a point is found at most once.
func QueryWindows(geographic bool, c Point, meters float64) []Envelope {
	env := QueryWindow(geographic, c, meters)
	if !geographic {
		return []Envelope{env}
	}

	shift := 0.0
	switch {
	case env.Min.X < -180:
		shift = 360
	case env.Max.X > 180:
		shift = -360
	default:
		return []Envelope{env}
	}

	wrapped := env
	wrapped.Min.X += shift
	wrapped.Max.X += shift
	return []Envelope{env, wrapped}
}
