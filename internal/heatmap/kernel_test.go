package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarticBoundary(t *testing.T) {
	assert.InDelta(t, 15.0/16.0, Quartic(0, 10), 1e-15)
	assert.Equal(t, 0.0, Quartic(10, 10))
	assert.Equal(t, 0.0, Quartic(10.0001, 10))
	assert.Equal(t, 0.0, Quartic(-1, 10))
}

func TestQuarticMonotonic(t *testing.T) {
	const radius = 3.0
	prev := Quartic(0, radius)
	for d := 0.01; d <= radius; d += 0.01 {
		w := Quartic(d, radius)
		require.LessOrEqual(t, w, prev, "d=%v", d)
		prev = w
	}
}

func TestQuarticHalfRadius(t *testing.T) {
	// (15/16)(1-0.25)^2
	assert.InDelta(t, 0.52734375, Quartic(5, 10), 1e-15)
}

func TestNewKernelParams(t *testing.T) {
	k, err := NewKernelParams(10, false)
	require.NoError(t, err)
	assert.Equal(t, 10.0, k.NativeRadius)

	k, err = NewKernelParams(220000, true)
	require.NoError(t, err)
	assert.Equal(t, 2.0, k.NativeRadius)
	assert.True(t, k.Geographic)

	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewKernelParams(r, false)
		assert.True(t, IsKind(err, KindConfig), "radius %v", r)
	}
}
