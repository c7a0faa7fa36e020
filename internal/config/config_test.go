package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "JWT_SECRET", "RESULTS_DIR", "MAX_SYNC_CELLS", "RATE_LIMIT", "WORKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "./data/heatmap.db", cfg.DBPath)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "./data/results", cfg.ResultsDir)
	assert.Equal(t, 250000, cfg.MaxSyncCells)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MAX_SYNC_CELLS", "100")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 100, cfg.MaxSyncCells)
	assert.Equal(t, 60, cfg.RateLimit)
}

func TestOptionsValidate(t *testing.T) {
	valid := func() Options {
		return Options{
			Input:      "points.csv",
			Output:     "out.xyz",
			Resolution: heatmap.Resolution{X: 10, Y: 10},
			Radius:     DefaultRadius,
		}
	}

	tests := []struct {
		name   string
		modify func(o *Options)
		ok     bool
	}{
		{"valid", func(o *Options) {}, true},
		{"no input", func(o *Options) { o.Input = "" }, false},
		{"dataset input", func(o *Options) { o.Input = ""; o.DBPath = "h.db"; o.DatasetID = 3 }, true},
		{"dataset without id", func(o *Options) { o.Input = ""; o.DBPath = "h.db" }, false},
		{"both inputs", func(o *Options) { o.DBPath = "h.db"; o.DatasetID = 3 }, false},
		{"no output", func(o *Options) { o.Output = "" }, false},
		{"zero resolution", func(o *Options) { o.Resolution.Y = 0 }, false},
		{"negative radius", func(o *Options) { o.Radius = -1 }, false},
		{"negative workers", func(o *Options) { o.Workers = -2 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.modify(&o)
			err := o.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, heatmap.IsKind(err, heatmap.KindConfig))
		})
	}
}

func TestOptionsRequest(t *testing.T) {
	xmin := -5.0
	o := Options{
		Bounds:     heatmap.Bounds{XMin: &xmin},
		Resolution: heatmap.Resolution{X: 1, Y: 2},
		Radius:     3,
		Geographic: true,
	}
	req := o.Request()
	assert.Equal(t, &xmin, req.Bounds.XMin)
	assert.Equal(t, heatmap.Resolution{X: 1, Y: 2}, req.Resolution)
	assert.Equal(t, 3.0, req.Radius)
	assert.True(t, req.Geographic)
}
