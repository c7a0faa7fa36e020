package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
	"github.com/jengzang/heatmap-backend-go/internal/models"
	"github.com/jengzang/heatmap-backend-go/internal/repository"
	"github.com/jengzang/heatmap-backend-go/internal/source"
	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// DatasetService handles dataset import and lookup
type DatasetService struct {
	repo *repository.DatasetRepository
}

// NewDatasetService creates a new dataset service
func NewDatasetService(repo *repository.DatasetRepository) *DatasetService {
	return &DatasetService{repo: repo}
}

// ImportCSV parses x,y records from r and stores them as a new dataset.
func (s *DatasetService) ImportCSV(ctx context.Context, name string, r io.Reader, hasHeader, geographic bool) (*models.Dataset, error) {
	src := &source.ReaderSource{R: r, Name: name, HasHeader: hasHeader, Geographic: geographic}
	set, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	return s.store(name, geographic, set.Points)
}

// ImportPoints stores inline [x, y] pairs as a new dataset.
func (s *DatasetService) ImportPoints(name string, pairs [][2]float64, geographic bool) (*models.Dataset, error) {
	points := make([]spatial.Point, 0, len(pairs))
	for i, pair := range pairs {
		p := spatial.Point{X: pair[0], Y: pair[1]}
		if !p.IsFinite() {
			return nil, heatmap.ParseError(fmt.Sprintf("point %d", i), fmt.Errorf("coordinates must be finite"))
		}
		if geographic {
			if err := spatial.ValidateLatLng(p); err != nil {
				return nil, heatmap.ParseError(fmt.Sprintf("point %d", i), err)
			}
		}
		points = append(points, p)
	}
	return s.store(name, geographic, points)
}

func (s *DatasetService) store(name string, geographic bool, points []spatial.Point) (*models.Dataset, error) {
	ds := &models.Dataset{Name: name, Geographic: geographic}
	if err := s.repo.Create(ds, points); err != nil {
		return nil, err
	}
	log.Printf("[DatasetService] Stored dataset %d (%s) with %d points", ds.ID, name, ds.PointCount)
	return ds, nil
}

// GetDataset retrieves a dataset by ID
func (s *DatasetService) GetDataset(id int64) (*models.Dataset, error) {
	return s.repo.GetByID(id)
}

// ListDatasets retrieves datasets page by page
func (s *DatasetService) ListDatasets(limit int, offset int) ([]*models.Dataset, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

// DeleteDataset removes a dataset with its points and jobs
func (s *DatasetService) DeleteDataset(id int64) error {
	return s.repo.Delete(id)
}
