package config

import (
	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
)

// DefaultRadius is the kernel radius in meters when none is given.
const DefaultRadius = heatmap.DefaultRadius

// Options are the settings of one command line run.
type Options struct {
	Input  string
	Output string
	PNG    string // optional preview image

	Bounds     heatmap.Bounds
	Resolution heatmap.Resolution
	Radius     float64
	Geographic bool

	HasHeader bool
	Workers   int

	// DBPath and DatasetID read points from a stored dataset instead of Input.
	DBPath    string
	DatasetID int64
}

// Request converts the options into an evaluation request.
func (o *Options) Request() heatmap.Request {
	return heatmap.Request{
		Bounds:     o.Bounds,
		Resolution: o.Resolution,
		Radius:     o.Radius,
		Geographic: o.Geographic,
	}
}

// Validate checks that a run has an input, an output and a resolution.
func (o *Options) Validate() error {
	switch {
	case o.Input == "" && o.DBPath == "":
		return heatmap.ConfigError("an input file or a database is required")
	case o.Input != "" && o.DBPath != "":
		return heatmap.ConfigError("input file and database are mutually exclusive")
	case o.DBPath != "" && o.DatasetID <= 0:
		return heatmap.ConfigError("a dataset id is required with a database")
	case o.Output == "":
		return heatmap.ConfigError("an output file is required")
	case !(o.Resolution.X > 0) || !(o.Resolution.Y > 0):
		return heatmap.ConfigError("resolution must be positive, got %v %v", o.Resolution.X, o.Resolution.Y)
	case !(o.Radius > 0):
		return heatmap.ConfigError("radius must be positive, got %v", o.Radius)
	case o.Workers < 0:
		return heatmap.ConfigError("workers must not be negative")
	}
	return nil
}
