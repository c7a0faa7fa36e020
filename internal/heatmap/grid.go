package heatmap

import (
	"math"

	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// MaxDimension is the largest number of rows or columns a grid may have.
const MaxDimension = math.MaxInt32

// GridSpec is the output raster in native coordinate units.
type GridSpec struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
	XRes float64 `json:"xres"`
	YRes float64 `json:"yres"`
}

// Validate checks xres>0, yres>0, xmax>=xmin and ymax>=ymin, and that
// neither dimension exceeds MaxDimension.
func (g GridSpec) Validate() error {
	for _, v := range []float64{g.XMin, g.XMax, g.YMin, g.YMax, g.XRes, g.YRes} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ConfigError("grid values must be finite: %+v", g)
		}
	}
	if g.XRes <= 0 || g.YRes <= 0 {
		return ConfigError("resolution must be positive, got %v %v", g.XRes, g.YRes)
	}
	if g.XMax < g.XMin {
		return ConfigError("degenerate extent: xmax %v < xmin %v", g.XMax, g.XMin)
	}
	if g.YMax < g.YMin {
		return ConfigError("degenerate extent: ymax %v < ymin %v", g.YMax, g.YMin)
	}

	w := math.Round((g.XMax - g.XMin) / g.XRes)
	h := math.Round((g.YMax - g.YMin) / g.YRes)
	if w > MaxDimension || h > MaxDimension {
		return ConfigError("grid of %v x %v cells is too large, at most %d per axis", w, h, MaxDimension)
	}
	if w*h > math.MaxInt {
		return ConfigError("grid of %v x %v cells is too large", w, h)
	}
	return nil
}

// Width is the number of columns, (xmax-xmin)/xres rounded half away from zero.
func (g GridSpec) Width() int {
	return dimension(g.XMax-g.XMin, g.XRes)
}

// Height is the number of rows, (ymax-ymin)/yres rounded half away from zero.
func (g GridSpec) Height() int {
	return dimension(g.YMax-g.YMin, g.YRes)
}

// dimension is clamped to [0, MaxDimension] so that grids which fail
// Validate still report sane sizes.
func dimension(extent, res float64) int {
	n := math.Round(extent / res)
	switch {
	case n >= MaxDimension:
		return MaxDimension
	case n > 0:
		return int(n)
	default:
		return 0
	}
}

// Cells returns Width*Height, saturating at math.MaxInt.
func (g GridSpec) Cells() int {
	w, h := g.Width(), g.Height()
	if h > 0 && w > math.MaxInt/h {
		return math.MaxInt
	}
	return w * h
}

// Center maps a cell to its coordinate. Row 0 is at ymin, column 0 at xmin.
func (g GridSpec) Center(row, col int) spatial.Point {
	return spatial.Point{
		X: g.XMin + float64(col)*g.XRes,
		Y: g.YMin + float64(row)*g.YRes,
	}
}

// Cell is one evaluated grid position.
type Cell struct {
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Density float64 `json:"z"`
}

// Sink receives the evaluated grid in row-major order.
type Sink interface {
	// Begin is called once before the first cell.
	Begin(grid GridSpec) error
	// Emit is called once per cell.
	Emit(c Cell) error
	// Close flushes buffered output. The evaluator never calls it;
	// whoever opened the sink does.
	Close() error
}
