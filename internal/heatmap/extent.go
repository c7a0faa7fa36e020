package heatmap

import (
	"math"

	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// Bounds holds optional user overrides for the grid extent, in native units.
// A nil field is derived from the data.
type Bounds struct {
	XMin *float64 `json:"xmin,omitempty"`
	XMax *float64 `json:"xmax,omitempty"`
	YMin *float64 `json:"ymin,omitempty"`
	YMax *float64 `json:"ymax,omitempty"`
}

// Complete reports whether all four bounds are given.
func (b Bounds) Complete() bool {
	return b.XMin != nil && b.XMax != nil && b.YMin != nil && b.YMax != nil
}

// Resolution is the cell size in real-world units (meters).
type Resolution struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ResolveGrid computes the output grid.
//
// Every bound that is not overridden is taken from the data envelope and pushed
// outward by the kernel's native radius. data is only consulted when hasData is
// true; a defaulted bound without data is a config error.
func ResolveGrid(data spatial.Envelope, hasData bool, overrides Bounds, res Resolution, kernel KernelParams) (GridSpec, error) {
	if err := kernel.Validate(); err != nil {
		return GridSpec{}, err
	}
	if !(res.X > 0) || !(res.Y > 0) || math.IsInf(res.X, 0) || math.IsInf(res.Y, 0) {
		return GridSpec{}, ConfigError("resolution must be positive, got %v %v", res.X, res.Y)
	}
	if !hasData && !overrides.Complete() {
		return GridSpec{}, ConfigError("cannot infer extent from zero points")
	}

	pad := kernel.NativeRadius
	grid := GridSpec{
		XMin: pick(overrides.XMin, data.Min.X-pad),
		XMax: pick(overrides.XMax, data.Max.X+pad),
		YMin: pick(overrides.YMin, data.Min.Y-pad),
		YMax: pick(overrides.YMax, data.Max.Y+pad),
		XRes: spatial.ToNativeUnits(kernel.Geographic, res.X),
		YRes: spatial.ToNativeUnits(kernel.Geographic, res.Y),
	}

	if err := grid.Validate(); err != nil {
		return GridSpec{}, err
	}
	return grid, nil
}

func pick(override *float64, derived float64) float64 {
	if override != nil {
		return *override
	}
	return derived
}
