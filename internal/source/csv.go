package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// CSVSource reads x,y pairs from the first two fields of each CSV record.
// Extra fields are ignored and records may have different lengths.
type CSVSource struct {
	Path       string
	HasHeader  bool // skip the first record
	Geographic bool // validate x as longitude and y as latitude
}

// Read opens Path and parses every record.
func (s *CSVSource) Read(ctx context.Context) (*PointSet, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, heatmap.IOError("open input", err)
	}
	defer f.Close()

	log.Printf("[Source] Reading points from %s", s.Path)
	set, err := (&ReaderSource{R: f, Name: s.Path, HasHeader: s.HasHeader, Geographic: s.Geographic}).Read(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[Source] Read in %d points", set.Len())
	return set, nil
}

// ReaderSource parses CSV from an arbitrary reader, such as an upload body.
type ReaderSource struct {
	R          io.Reader
	Name       string
	HasHeader  bool
	Geographic bool
}

// Read parses every record from R.
func (s *ReaderSource) Read(ctx context.Context) (*PointSet, error) {
	r := csv.NewReader(s.R)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	set := &PointSet{}
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, heatmap.ParseError(s.where(perr.Line), err)
			}
			return nil, heatmap.IOError("read input", err)
		}
		line, _ := r.FieldPos(0)
		if first {
			first = false
			if s.HasHeader {
				continue
			}
		}

		p, err := parsePoint(record)
		if err != nil {
			return nil, heatmap.ParseError(s.where(line), err)
		}
		if s.Geographic {
			if err := spatial.ValidateLatLng(p); err != nil {
				return nil, heatmap.ParseError(s.where(line), err)
			}
		}
		set.Add(p)

		if set.Len()%100000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func (s *ReaderSource) where(line int) string {
	if s.Name == "" {
		return fmt.Sprintf("line %d", line)
	}
	return fmt.Sprintf("%s:%d", s.Name, line)
}

func parsePoint(record []string) (spatial.Point, error) {
	if len(record) < 2 {
		return spatial.Point{}, fmt.Errorf("expected at least 2 fields, got %d", len(record))
	}
	x, err := parseCoord("x", record[0])
	if err != nil {
		return spatial.Point{}, err
	}
	y, err := parseCoord("y", record[1])
	if err != nil {
		return spatial.Point{}, err
	}
	return spatial.Point{X: x, Y: y}, nil
}

func parseCoord(name, field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, field, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be finite, got %q", name, field)
	}
	return v, nil
}
