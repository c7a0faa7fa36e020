// Package heatmap turns a point set into a grid of quartic kernel density values.
//
// A run has three steps: the points are bulk-loaded into a spatial index, the
// grid extent is resolved from user bounds or the data envelope, and the
// evaluator sweeps the grid row by row, streaming every cell to a Sink.
package heatmap

import (
	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// Request holds everything needed to evaluate a heatmap except the points.
type Request struct {
	Bounds     Bounds     `json:"bounds"`
	Resolution Resolution `json:"resolution"`
	Radius     float64    `json:"radius"`
	Geographic bool       `json:"geographic"`
}

// Prepare indexes points and resolves the grid for req.
// The returned evaluator owns the index; points may be discarded.
func Prepare(points []spatial.Point, req Request, opts Options) (*Evaluator, error) {
	kernel, err := NewKernelParams(req.Radius, req.Geographic)
	if err != nil {
		return nil, err
	}

	index := spatial.Build(points)
	extent, ok := index.Bounds()

	grid, err := ResolveGrid(extent, ok, req.Bounds, req.Resolution, kernel)
	if err != nil {
		return nil, err
	}

	return NewEvaluator(index, grid, kernel, opts), nil
}
