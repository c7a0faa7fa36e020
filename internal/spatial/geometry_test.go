package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	_, ok := BoundingBox(nil)
	assert.False(t, ok)

	box, ok := BoundingBox([]Point{{2, 3}})
	assert.True(t, ok)
	assert.Equal(t, Envelope{Min: Point{2, 3}, Max: Point{2, 3}}, box)

	box, ok = BoundingBox([]Point{{2, 3}, {-1, 7}, {4, -2}})
	assert.True(t, ok)
	assert.Equal(t, Envelope{Min: Point{-1, -2}, Max: Point{4, 7}}, box)
}

func TestEnvelopeContainsEdges(t *testing.T) {
	e := EnvelopeAround(Point{0, 0}, 1)
	assert.True(t, e.Contains(Point{1, 1}))
	assert.True(t, e.Contains(Point{-1, 0}))
	assert.False(t, e.Contains(Point{1.0000001, 0}))
}

func TestEnvelopeIntersects(t *testing.T) {
	a := Envelope{Min: Point{0, 0}, Max: Point{1, 1}}
	assert.True(t, a.Intersects(Envelope{Min: Point{1, 1}, Max: Point{2, 2}}))
	assert.False(t, a.Intersects(Envelope{Min: Point{1.5, 0}, Max: Point{2, 1}}))
}

func TestPointIsFinite(t *testing.T) {
	assert.True(t, Point{1, 2}.IsFinite())
	assert.False(t, Point{math.NaN(), 2}.IsFinite())
	assert.False(t, Point{1, math.Inf(-1)}.IsFinite())
}
