package models

import (
	"time"

	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// Dataset is a stored point set that heatmaps are computed from.
type Dataset struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Geographic bool   `json:"geographic" db:"geographic"` // x is longitude, y is latitude
	PointCount int    `json:"point_count" db:"point_count"`

	// Extent of the points, meaningless when PointCount is 0
	XMin float64 `json:"xmin" db:"xmin"`
	XMax float64 `json:"xmax" db:"xmax"`
	YMin float64 `json:"ymin" db:"ymin"`
	YMax float64 `json:"ymax" db:"ymax"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Extent returns the stored envelope and whether the dataset has any points.
func (d *Dataset) Extent() (spatial.Envelope, bool) {
	env := spatial.Envelope{
		Min: spatial.Point{X: d.XMin, Y: d.YMin},
		Max: spatial.Point{X: d.XMax, Y: d.YMax},
	}
	return env, d.PointCount > 0
}

// SetExtent copies env into the extent columns.
func (d *Dataset) SetExtent(env spatial.Envelope) {
	d.XMin, d.YMin = env.Min.X, env.Min.Y
	d.XMax, d.YMax = env.Max.X, env.Max.Y
}

// CreateDatasetRequest is the JSON body for uploading points inline.
type CreateDatasetRequest struct {
	Name       string       `json:"name" binding:"required"`
	Geographic bool         `json:"geographic"`
	Points     [][2]float64 `json:"points"` // [x, y] pairs
}
