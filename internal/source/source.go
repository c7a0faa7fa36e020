// Package source reads point sets for heatmap evaluation.
package source

import (
	"context"

	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// PointSet is a finite collection of points together with their envelope.
type PointSet struct {
	Points []spatial.Point
	Extent spatial.Envelope
}

// Len returns the number of points.
func (s *PointSet) Len() int {
	return len(s.Points)
}

// HasExtent reports whether the set holds at least one point.
func (s *PointSet) HasExtent() bool {
	return len(s.Points) > 0
}

// Add appends p and grows the extent.
func (s *PointSet) Add(p spatial.Point) {
	if len(s.Points) == 0 {
		s.Extent = spatial.Envelope{Min: p, Max: p}
	} else {
		s.Extent.Extend(p)
	}
	s.Points = append(s.Points, p)
}

// Source yields a point set. Implementations fail the whole read on the first bad record.
type Source interface {
	Read(ctx context.Context) (*PointSet, error)
}
