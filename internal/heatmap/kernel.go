package heatmap

import (
	"math"

	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// QuarticScale is the leading constant of the quartic (biweight) kernel.
const QuarticScale = 15.0 / 16.0

// DefaultRadius is the kernel radius in meters when none is configured.
const DefaultRadius = 10.0

// KernelParams describes the kernel support.
type KernelParams struct {
	Radius       float64 // meters
	NativeRadius float64 // Radius converted to coordinate units, for query windows only
	Geographic   bool
}

// NewKernelParams validates radius and derives its native-unit size.
func NewKernelParams(radius float64, geographic bool) (KernelParams, error) {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return KernelParams{}, ConfigError("radius must be positive, got %v", radius)
	}
	return KernelParams{
		Radius:       radius,
		NativeRadius: spatial.ToNativeUnits(geographic, radius),
		Geographic:   geographic,
	}, nil
}

// Validate checks the invariants NewKernelParams establishes.
func (k KernelParams) Validate() error {
	if !(k.Radius > 0) || math.IsInf(k.Radius, 0) {
		return ConfigError("radius must be positive, got %v", k.Radius)
	}
	if !(k.NativeRadius > 0) || math.IsInf(k.NativeRadius, 0) {
		return ConfigError("native radius must be positive, got %v", k.NativeRadius)
	}
	return nil
}

// Quartic returns the biweight weight (15/16)(1-(d/r)^2)^2 for 0 <= d <= r and 0 otherwise.
// The result is a raw weight; it is not normalized by bandwidth or point count.
func Quartic(d, radius float64) float64 {
	if d < 0 || d > radius {
		return 0
	}
	return weight(d, radius)
}
