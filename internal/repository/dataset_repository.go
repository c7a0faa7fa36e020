package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/heatmap-backend-go/internal/database"
	"github.com/jengzang/heatmap-backend-go/internal/models"
	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// DatasetRepository handles database operations for datasets and their points
type DatasetRepository struct {
	db *sql.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

const datasetColumns = `id, name, geographic, point_count, xmin, xmax, ymin, ymax, created_at`

// Create stores the dataset row and all of its points in one transaction.
// PointCount and the extent are computed from points.
func (r *DatasetRepository) Create(ds *models.Dataset, points []spatial.Point) error {
	ds.PointCount = len(points)
	if env, ok := spatial.BoundingBox(points); ok {
		ds.SetExtent(env)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO datasets (name, geographic, point_count, xmin, xmax, ymin, ymax)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ds.Name, ds.Geographic, ds.PointCount, ds.XMin, ds.XMax, ds.YMin, ds.YMax,
		)
		if err != nil {
			return fmt.Errorf("failed to create dataset: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		stmt, err := tx.Prepare("INSERT INTO points (dataset_id, x, y) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare point insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.Exec(id, p.X, p.Y); err != nil {
				return fmt.Errorf("failed to insert point: %w", err)
			}
		}

		ds.ID = id
		return nil
	})
}

// GetByID retrieves a dataset by ID
func (r *DatasetRepository) GetByID(id int64) (*models.Dataset, error) {
	query := `SELECT ` + datasetColumns + ` FROM datasets WHERE id = ?`

	ds, err := scanDataset(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return ds, nil
}

// List retrieves datasets, newest first
func (r *DatasetRepository) List(limit int, offset int) ([]*models.Dataset, error) {
	query := `SELECT ` + datasetColumns + ` FROM datasets ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	datasets := []*models.Dataset{}
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}

	return datasets, rows.Err()
}

// Delete removes a dataset; its points and jobs go with it.
func (r *DatasetRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM datasets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dataset %d: %w", id, ErrNotFound)
	}
	return nil
}

// LoadPoints returns every point of a dataset in insertion order.
func (r *DatasetRepository) LoadPoints(ctx context.Context, datasetID int64) ([]spatial.Point, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT point_count FROM datasets WHERE id = ?", datasetID).Scan(&count)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %d: %w", datasetID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT x, y FROM points WHERE dataset_id = ? ORDER BY id", datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	points := make([]spatial.Point, 0, count)
	for rows.Next() {
		var p spatial.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*models.Dataset, error) {
	ds := &models.Dataset{}
	err := row.Scan(
		&ds.ID,
		&ds.Name,
		&ds.Geographic,
		&ds.PointCount,
		&ds.XMin,
		&ds.XMax,
		&ds.YMin,
		&ds.YMax,
		&ds.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ds, nil
}
