package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNativeUnits(t *testing.T) {
	tests := []struct {
		name       string
		geographic bool
		meters     float64
		expected   float64
	}{
		{"planar identity", false, 10, 10},
		{"planar identity negative", false, -3.5, -3.5},
		{"planar identity zero", false, 0, 0},
		{"planar identity large", false, 1e12, 1e12},
		{"geographic 110 km is one degree", true, 110000, 1},
		{"geographic 10 m", true, 10, 10.0 / 110000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToNativeUnits(tt.geographic, tt.meters))
		})
	}
}

func TestDistancePlanar(t *testing.T) {
	assert.Equal(t, 5.0, Distance(false, Point{0, 0}, Point{3, 4}))
	assert.Equal(t, 25.0, SquaredDistance(Point{0, 0}, Point{3, 4}))
	assert.Equal(t, 0.0, Distance(false, Point{1, 1}, Point{1, 1}))
}

func TestGreatCircleDistanceOneDegreeOfLongitude(t *testing.T) {
	// lat=0 lon=0 to lat=0 lon=1
	d := Distance(true, Point{X: 0, Y: 0}, Point{X: 1, Y: 0})
	assert.InDelta(t, 111195.0, d, 1.0)
}

func TestGreatCircleDistanceMatchesHaversine(t *testing.T) {
	pairs := [][4]float64{
		{48.8566, 2.3522, 51.5074, -0.1278},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{89.9, 0, 89.9, 180},
		{0, 179.5, 0, -179.5},
		{22.5431, 114.0579, 22.5432, 114.0580},
	}

	for _, p := range pairs {
		chord := GreatCircleDistance(p[0], p[1], p[2], p[3])
		hav := HaversineDistance(p[0], p[1], p[2], p[3])
		assert.InDelta(t, hav, chord, 1e-3*math.Max(1, hav/1e6), "pair %v", p)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	points := []Point{
		{0, 0}, {1, 0}, {-122.4194, 37.7749}, {139.6917, 35.6895}, {0, 89.99}, {180, -45},
	}

	for _, geographic := range []bool{false, true} {
		for _, a := range points {
			for _, b := range points {
				assert.Equal(t, Distance(geographic, a, b), Distance(geographic, b, a),
					"geographic=%v a=%v b=%v", geographic, a, b)
			}
		}
	}
}

func TestGreatCircleDistanceAntipodal(t *testing.T) {
	d := GreatCircleDistance(0, 0, 0, 180)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusMeters, d, 1.0)
}

func TestValidateLatLng(t *testing.T) {
	assert.NoError(t, ValidateLatLng(Point{X: 114.05, Y: 22.54}))
	assert.NoError(t, ValidateLatLng(Point{X: -180, Y: -90}))
	assert.Error(t, ValidateLatLng(Point{X: 0, Y: 90.5}))
	assert.Error(t, ValidateLatLng(Point{X: 181, Y: 0}))
}

func TestQueryWindowPlanarIsSquare(t *testing.T) {
	env := QueryWindow(false, Point{5, 5}, 2)
	assert.Equal(t, EnvelopeAround(Point{5, 5}, 2), env)
}

func TestQueryWindowContainsEveryPointWithinRadius(t *testing.T) {
	// Walk a ring of points at exactly the radius around centers from the
	// equator to near the pole; every one must fall inside the window.
	radii := []float64{10, 5000, 200000}
	lats := []float64{0, 15, 45, 60, 75, 85, 89.5, -70}

	for _, radius := range radii {
		for _, lat := range lats {
			c := Point{X: 10, Y: lat}
			env := QueryWindow(true, c, radius)

			for bearing := 0.0; bearing < 360; bearing += 7.5 {
				p := destination(c, bearing, radius*0.999999)
				if math.Abs(p.Y) > 90 {
					continue
				}
				assert.True(t, env.Contains(p),
					"radius=%v lat=%v bearing=%v point=%v env=%v", radius, lat, bearing, p, env)
			}
		}
	}
}

func TestQueryWindowsAcrossAntimeridian(t *testing.T) {
	tests := []struct {
		c, p Point
	}{
		{Point{X: 179.9, Y: 0}, Point{X: -179.95, Y: 0}},
		{Point{X: -179.9, Y: 0}, Point{X: 179.9, Y: 0}},
		{Point{X: 180, Y: 60}, Point{X: -179.8, Y: 60.1}},
	}
	for _, tt := range tests {
		radius := 50000.0
		require.Less(t, Distance(true, tt.c, tt.p), radius)

		assert.False(t, QueryWindow(true, tt.c, radius).Contains(tt.p))

		envs := QueryWindows(true, tt.c, radius)
		require.Len(t, envs, 2)
		hits := 0
		for _, env := range envs {
			if env.Contains(tt.p) {
				hits++
			}
		}
		assert.Equal(t, 1, hits, "center=%v point=%v", tt.c, tt.p)
	}
}

func TestQueryWindowsSingleAwayFromAntimeridian(t *testing.T) {
	assert.Len(t, QueryWindows(true, Point{X: 10, Y: 45}, 200000), 1)
	assert.Len(t, QueryWindows(false, Point{X: 179.9, Y: 0}, 50000), 1)

	// Near the pole the window already spans every longitude.
	envs := QueryWindows(true, Point{X: 179.9, Y: 89.9}, 50000)
	require.Len(t, envs, 1)
	assert.True(t, math.IsInf(envs[0].Min.X, -1))
}

// destination moves distance meters from c along bearing degrees on the sphere.
func destination(c Point, bearing, distance float64) Point {
	lat := c.Y * math.Pi / 180
	lon := c.X * math.Pi / 180
	brg := bearing * math.Pi / 180
	ang := distance / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat)*math.Cos(ang) + math.Cos(lat)*math.Sin(ang)*math.Cos(brg))
	lon2 := lon + math.Atan2(math.Sin(brg)*math.Sin(ang)*math.Cos(lat),
		math.Cos(ang)-math.Sin(lat)*math.Sin(lat2))

	return Point{X: lon2 * 180 / math.Pi, Y: lat2 * 180 / math.Pi}
}
