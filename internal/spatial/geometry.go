package spatial

import (
	"math"
)

// Point represents a 2D point in the data's native units.
// For geographic data X is longitude and Y is latitude.
type Point struct {
	X float64
	Y float64
}

// Envelope is an axis-aligned rectangle, inclusive on every edge.
type Envelope struct {
	Min Point
	Max Point
}

// EnvelopeAround returns the square envelope centered on c that reaches
// halfWidth units in every direction.
func EnvelopeAround(c Point, halfWidth float64) Envelope {
	return Envelope{
		Min: Point{X: c.X - halfWidth, Y: c.Y - halfWidth},
		Max: Point{X: c.X + halfWidth, Y: c.Y + halfWidth},
	}
}

// Contains reports whether p lies inside e, edges included.
func (e Envelope) Contains(p Point) bool {
	return p.X >= e.Min.X && p.X <= e.Max.X &&
		p.Y >= e.Min.Y && p.Y <= e.Max.Y
}

// Intersects reports whether two envelopes share at least one point.
func (e Envelope) Intersects(o Envelope) bool {
	return e.Min.X <= o.Max.X && o.Min.X <= e.Max.X &&
		e.Min.Y <= o.Max.Y && o.Min.Y <= e.Max.Y
}

// Extend grows e so that it covers p.
func (e *Envelope) Extend(p Point) {
	e.Min.X = math.Min(e.Min.X, p.X)
	e.Min.Y = math.Min(e.Min.Y, p.Y)
	e.Max.X = math.Max(e.Max.X, p.X)
	e.Max.Y = math.Max(e.Max.Y, p.Y)
}

// BoundingBox calculates the bounding box of a set of points.
// The second result is false when there are no points.
func BoundingBox(points []Point) (Envelope, bool) {
	if len(points) == 0 {
		return Envelope{}, false
	}

	box := Envelope{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Extend(p)
	}
	return box, true
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
