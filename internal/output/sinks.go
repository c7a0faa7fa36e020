package output

import (
	"errors"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
)

// Tee sends every call to each sink in order.
func Tee(sinks ...heatmap.Sink) heatmap.Sink {
	return teeSink(sinks)
}

type teeSink []heatmap.Sink

func (t teeSink) Begin(grid heatmap.GridSpec) error {
	for _, s := range t {
		if err := s.Begin(grid); err != nil {
			return err
		}
	}
	return nil
}

func (t teeSink) Emit(c heatmap.Cell) error {
	for _, s := range t {
		if err := s.Emit(c); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (t teeSink) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// collectorPrealloc bounds the capacity reserved up front by Collector.Begin.
const collectorPrealloc = 1 << 16

// Collector keeps every cell in memory.
type Collector struct {
	// Limit caps the number of cells, checked in Begin and again on every
	// Emit; 0 means unlimited.
	Limit int

	Grid  heatmap.GridSpec
	Cells []heatmap.Cell
}

func (c *Collector) Begin(grid heatmap.GridSpec) error {
	n := grid.Cells()
	if c.Limit > 0 && n > c.Limit {
		return heatmap.ConfigError("grid has %d cells, limit is %d", n, c.Limit)
	}
	c.Grid = grid
	c.Cells = make([]heatmap.Cell, 0, min(n, collectorPrealloc))
	return nil
}

func (c *Collector) Emit(cell heatmap.Cell) error {
	if c.Limit > 0 && len(c.Cells) >= c.Limit {
		return heatmap.ConfigError("more than %d cells emitted", c.Limit)
	}
	c.Cells = append(c.Cells, cell)
	return nil
}

func (c *Collector) Close() error { return nil }

// Stats keeps a running summary of the emitted densities.
type Stats struct {
	Cells   int     `json:"cells"`
	NonZero int     `json:"non_zero"`
	Sum     float64 `json:"sum"`
	Max     float64 `json:"max"`
}

func (s *Stats) Begin(grid heatmap.GridSpec) error {
	*s = Stats{}
	return nil
}

func (s *Stats) Emit(c heatmap.Cell) error {
	s.Cells++
	s.Sum += c.Density
	if c.Density > 0 {
		s.NonZero++
	}
	if c.Density > s.Max {
		s.Max = c.Density
	}
	return nil
}

func (s *Stats) Close() error { return nil }

// Mean returns the average density per cell.
func (s *Stats) Mean() float64 {
	if s.Cells == 0 {
		return 0
	}
	return s.Sum / float64(s.Cells)
}
