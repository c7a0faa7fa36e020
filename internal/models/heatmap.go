package models

import (
	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
)

// HeatmapRequest is the body of POST /heatmap and POST /jobs.
// Omitted bounds are derived from the dataset; YRes defaults to XRes.
type HeatmapRequest struct {
	DatasetID int64    `json:"dataset_id" binding:"required"`
	XMin      *float64 `json:"xmin,omitempty"`
	XMax      *float64 `json:"xmax,omitempty"`
	YMin      *float64 `json:"ymin,omitempty"`
	YMax      *float64 `json:"ymax,omitempty"`
	XRes      float64  `json:"xres" binding:"required"`
	YRes      float64  `json:"yres,omitempty"`
	Radius    float64  `json:"radius,omitempty"` // meters, defaults to 10
}

// Evaluation converts the request into evaluator parameters.
func (r *HeatmapRequest) Evaluation(geographic bool) heatmap.Request {
	yres := r.YRes
	if yres == 0 {
		yres = r.XRes
	}
	radius := r.Radius
	if radius == 0 {
		radius = heatmap.DefaultRadius
	}
	return heatmap.Request{
		Bounds:     heatmap.Bounds{XMin: r.XMin, XMax: r.XMax, YMin: r.YMin, YMax: r.YMax},
		Resolution: heatmap.Resolution{X: r.XRes, Y: yres},
		Radius:     radius,
		Geographic: geographic,
	}
}

// HeatmapSummary describes the densities of an evaluated grid.
type HeatmapSummary struct {
	Cells   int     `json:"cells"`
	NonZero int     `json:"non_zero"`
	Sum     float64 `json:"sum"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
}

// HeatmapResponse represents the synchronous heatmap API response
type HeatmapResponse struct {
	DatasetID int64            `json:"dataset_id"`
	Grid      heatmap.GridSpec `json:"grid"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Summary   HeatmapSummary   `json:"summary"`
	Cells     []heatmap.Cell   `json:"cells"`
}
