package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

func evaluate(t *testing.T, sink heatmap.Sink) {
	t.Helper()
	points := []spatial.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	ev, err := heatmap.Prepare(points, heatmap.Request{Resolution: heatmap.Resolution{X: 1, Y: 1}, Radius: 1}, heatmap.Options{})
	require.NoError(t, err)
	require.NoError(t, ev.Evaluate(context.Background(), sink))
}

func TestXYZWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewXYZWriter(&buf)
	evaluate(t, w)
	require.NoError(t, w.Close())

	want := "x y z\n" +
		"-1 -1 0\n" +
		"0 -1 0\n" +
		"1 -1 0\n" +
		"-1 0 0\n" +
		"0 0 0.9375\n" +
		"1 0 0.9375\n"
	assert.Equal(t, want, buf.String())
}

func TestXYZWriterHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	w := NewXYZWriter(&buf)
	require.NoError(t, w.Begin(heatmap.GridSpec{XRes: 1, YRes: 1}))
	require.NoError(t, w.Close())
	assert.Equal(t, "x y z\n", buf.String())
}

func TestXYZWriterFormatsWithoutExponent(t *testing.T) {
	var buf bytes.Buffer
	w := NewXYZWriter(&buf)
	require.NoError(t, w.Emit(heatmap.Cell{X: 1e21, Y: -0.000001, Density: 0.1}))
	require.NoError(t, w.Close())
	assert.Equal(t, "1000000000000000000000 -0.000001 0.1\n", buf.String())
}

func TestCreateXYZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	w, err := CreateXYZ(path)
	require.NoError(t, err)
	evaluate(t, w)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("x y z\n")))

	_, err = CreateXYZ(filepath.Join(t.TempDir(), "missing", "out.xyz"))
	assert.True(t, heatmap.IsKind(err, heatmap.KindIO))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestXYZWriterFlushError(t *testing.T) {
	w := NewXYZWriter(failingWriter{})
	require.NoError(t, w.Begin(heatmap.GridSpec{}))
	err := w.Close()
	require.Error(t, err)
	assert.True(t, heatmap.IsKind(err, heatmap.KindIO))
}

func TestCollectorAndStats(t *testing.T) {
	c := &Collector{}
	s := &Stats{}
	sink := Tee(c, s)
	evaluate(t, sink)
	require.NoError(t, sink.Close())

	assert.Len(t, c.Cells, 6)
	assert.Equal(t, 6, s.Cells)
	assert.Equal(t, 2, s.NonZero)
	assert.InDelta(t, 0.9375, s.Max, 1e-12)
	assert.InDelta(t, 1.875, s.Sum, 1e-12)
	assert.InDelta(t, 0.3125, s.Mean(), 1e-12)
}

func TestCollectorLimit(t *testing.T) {
	c := &Collector{Limit: 4}
	err := c.Begin(heatmap.GridSpec{XMax: 3, YMax: 2, XRes: 1, YRes: 1})
	require.Error(t, err)
	assert.True(t, heatmap.IsKind(err, heatmap.KindConfig))
}

func TestCollectorLimitOnEmit(t *testing.T) {
	c := &Collector{Limit: 2}
	require.NoError(t, c.Begin(heatmap.GridSpec{XMax: 1, YMax: 1, XRes: 1, YRes: 1}))

	require.NoError(t, c.Emit(heatmap.Cell{}))
	require.NoError(t, c.Emit(heatmap.Cell{Col: 1}))
	err := c.Emit(heatmap.Cell{Col: 2})
	require.Error(t, err)
	assert.True(t, heatmap.IsKind(err, heatmap.KindConfig))
	assert.Len(t, c.Cells, 2)
}

func TestCollectorHugeGridDoesNotPreallocate(t *testing.T) {
	c := &Collector{}
	require.NotPanics(t, func() {
		require.NoError(t, c.Begin(heatmap.GridSpec{XMax: 1 << 32, YMax: 1 << 32, XRes: 1, YRes: 1}))
	})
	assert.LessOrEqual(t, cap(c.Cells), collectorPrealloc)

	limited := &Collector{Limit: 250000}
	err := limited.Begin(heatmap.GridSpec{XMax: 1 << 32, YMax: 1 << 32, XRes: 1, YRes: 1})
	require.Error(t, err)
	assert.True(t, heatmap.IsKind(err, heatmap.KindConfig))
}

func TestPNGRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heat.png")
	r := NewPNGRenderer(path)
	evaluate(t, r)
	require.NoError(t, r.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPNGRendererEmptyGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	r := NewPNGRenderer(path)
	require.NoError(t, r.Begin(heatmap.GridSpec{XRes: 1, YRes: 1}))
	require.NoError(t, r.Close())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPNGColorRangeClips(t *testing.T) {
	r := NewPNGRenderer("unused.png")
	require.NoError(t, r.Begin(heatmap.GridSpec{XMax: 10, YMax: 10, XRes: 1, YRes: 1}))
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			require.NoError(t, r.Emit(heatmap.Cell{Row: row, Col: col, Density: float64(row*10 + col)}))
		}
	}
	require.NoError(t, r.Emit(heatmap.Cell{Row: 9, Col: 9, Density: 1e6}))

	r.Clip = 0.9
	lo, hi := r.colorRange()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 89.0, hi)

	r.Clip = 0
	_, hi = r.colorRange()
	assert.Equal(t, 1e6, hi)
}

func TestPNGColorRangeFlat(t *testing.T) {
	r := NewPNGRenderer("unused.png")
	require.NoError(t, r.Begin(heatmap.GridSpec{XMax: 2, YMax: 2, XRes: 1, YRes: 1}))
	lo, hi := r.colorRange()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}
