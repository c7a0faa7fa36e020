package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

func readString(t *testing.T, src ReaderSource, data string) (*PointSet, error) {
	t.Helper()
	src.R = strings.NewReader(data)
	return src.Read(context.Background())
}

func TestReaderSourceParsesFirstTwoFields(t *testing.T) {
	set, err := readString(t, ReaderSource{HasHeader: true}, "x,y,name\n0,0,a\n1.5,-2,b,extra\n3,4\n")
	require.NoError(t, err)

	assert.Equal(t, []spatial.Point{{X: 0, Y: 0}, {X: 1.5, Y: -2}, {X: 3, Y: 4}}, set.Points)
	assert.Equal(t, spatial.Envelope{Min: spatial.Point{X: 0, Y: -2}, Max: spatial.Point{X: 3, Y: 4}}, set.Extent)
	assert.True(t, set.HasExtent())
}

func TestReaderSourceWithoutHeader(t *testing.T) {
	set, err := readString(t, ReaderSource{}, "1,2\n3,4\n")
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestReaderSourceEmpty(t *testing.T) {
	set, err := readString(t, ReaderSource{HasHeader: true}, "x,y\n")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.HasExtent())
}

func TestReaderSourceParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{"non numeric", "1,2\nabc,3\n", "line 2"},
		{"missing field", "1,2\n5\n", "expected at least 2 fields"},
		{"empty field", "1,\n", "missing y"},
		{"nan", "NaN,1\n", "must be finite"},
		{"inf", "1,+Inf\n", "must be finite"},
		{"bad quoting", "1,2\n\"3,4\n", "parse error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readString(t, ReaderSource{}, tt.data)
			require.Error(t, err)
			assert.True(t, heatmap.IsKind(err, heatmap.KindParse), "%v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestReaderSourceGeographicValidation(t *testing.T) {
	_, err := readString(t, ReaderSource{Geographic: true}, "114.05,22.54\n10,95\n")
	require.Error(t, err)
	assert.True(t, heatmap.IsKind(err, heatmap.KindParse))

	set, err := readString(t, ReaderSource{Geographic: true}, "114.05,22.54\n-10,-45\n")
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestCSVSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(path, []byte("lon,lat\n0,0\n1,0\n"), 0644))

	set, err := (&CSVSource{Path: path, HasHeader: true}).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := (&CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")}).Read(context.Background())
	require.Error(t, err)
	assert.True(t, heatmap.IsKind(err, heatmap.KindIO))
}

type fakeLoader []spatial.Point

func (f fakeLoader) LoadPoints(ctx context.Context, datasetID int64) ([]spatial.Point, error) {
	return f, nil
}

func TestDatasetSource(t *testing.T) {
	src := &DatasetSource{Loader: fakeLoader{{X: 1, Y: 1}, {X: -1, Y: 3}}, DatasetID: 7}
	set, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, spatial.Envelope{Min: spatial.Point{X: -1, Y: 1}, Max: spatial.Point{X: 1, Y: 3}}, set.Extent)
}
