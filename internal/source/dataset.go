package source

import (
	"context"
	"fmt"

	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// PointLoader loads the points of a stored dataset.
type PointLoader interface {
	LoadPoints(ctx context.Context, datasetID int64) ([]spatial.Point, error)
}

// DatasetSource reads a dataset previously imported into the database.
type DatasetSource struct {
	Loader    PointLoader
	DatasetID int64
}

// Read loads every point of the dataset.
func (s *DatasetSource) Read(ctx context.Context) (*PointSet, error) {
	points, err := s.Loader.LoadPoints(ctx, s.DatasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %d: %w", s.DatasetID, err)
	}

	set := &PointSet{Points: make([]spatial.Point, 0, len(points))}
	for _, p := range points {
		set.Add(p)
	}
	return set, nil
}
