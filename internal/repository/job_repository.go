package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/heatmap-backend-go/internal/models"
)

// JobRepository handles database operations for heatmap jobs
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new heatmap job repository
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `
	id, uuid, dataset_id, status, progress_percent, params_json,
	width, height, processed_rows, result_path, result_summary,
	error_message, start_time, end_time, created_at, updated_at`

// Create creates a new heatmap job
func (r *JobRepository) Create(job *models.HeatmapJob) error {
	query := `
		INSERT INTO heatmap_jobs (
			uuid, dataset_id, status, progress_percent, params_json,
			width, height, result_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		job.UUID,
		job.DatasetID,
		job.Status,
		job.ProgressPercent,
		job.ParamsJSON,
		job.Width,
		job.Height,
		job.ResultPath,
	)
	if err != nil {
		return fmt.Errorf("failed to create heatmap job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	job.ID = id
	return nil
}

// GetByID retrieves a heatmap job by ID
func (r *JobRepository) GetByID(id int64) (*models.HeatmapJob, error) {
	query := `SELECT ` + jobColumns + ` FROM heatmap_jobs WHERE id = ?`

	job, err := scanJob(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("heatmap job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get heatmap job: %w", err)
	}

	return job, nil
}

// List retrieves heatmap jobs with optional filters
func (r *JobRepository) List(datasetID int64, status string, limit int, offset int) ([]*models.HeatmapJob, error) {
	query := `SELECT ` + jobColumns + ` FROM heatmap_jobs WHERE 1=1`

	args := []interface{}{}
	if datasetID > 0 {
		query += " AND dataset_id = ?"
		args = append(args, datasetID)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list heatmap jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.HeatmapJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan heatmap job: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// UpdateProgress records how many rows have been evaluated
func (r *JobRepository) UpdateProgress(id int64, processedRows int, progressPercent int) error {
	query := `
		UPDATE heatmap_jobs
		SET processed_rows = ?, progress_percent = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, processedRows, progressPercent, id)
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	return nil
}

// MarkAsRunning marks a job as running
func (r *JobRepository) MarkAsRunning(id int64) error {
	now := time.Now().Unix()
	query := `
		UPDATE heatmap_jobs
		SET status = ?, start_time = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.JobStatusRunning, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark job as running: %w", err)
	}

	return nil
}

// MarkAsCompleted marks a job as completed with result summary
func (r *JobRepository) MarkAsCompleted(id int64, processedRows int, resultSummary string) error {
	now := time.Now().Unix()
	query := `
		UPDATE heatmap_jobs
		SET status = ?, end_time = ?, result_summary = ?, processed_rows = ?,
			progress_percent = 100, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.JobStatusCompleted, now, resultSummary, processedRows, id)
	if err != nil {
		return fmt.Errorf("failed to mark job as completed: %w", err)
	}

	return nil
}

// MarkAsFailed ends a job with status failed or cancelled and a message
func (r *JobRepository) MarkAsFailed(id int64, status string, errorMessage string) error {
	now := time.Now().Unix()
	query := `
		UPDATE heatmap_jobs
		SET status = ?, end_time = ?, error_message = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, status, now, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark job as %s: %w", status, err)
	}

	return nil
}

// FailInterrupted fails every job left pending or running by a previous process.
func (r *JobRepository) FailInterrupted() (int64, error) {
	query := `
		UPDATE heatmap_jobs
		SET status = ?, end_time = ?, error_message = 'interrupted by server restart',
			updated_at = CURRENT_TIMESTAMP
		WHERE status IN (?, ?)
	`

	result, err := r.db.Exec(query, models.JobStatusFailed, time.Now().Unix(),
		models.JobStatusPending, models.JobStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to fail interrupted jobs: %w", err)
	}
	return result.RowsAffected()
}

func scanJob(row rowScanner) (*models.HeatmapJob, error) {
	job := &models.HeatmapJob{}
	err := row.Scan(
		&job.ID,
		&job.UUID,
		&job.DatasetID,
		&job.Status,
		&job.ProgressPercent,
		&job.ParamsJSON,
		&job.Width,
		&job.Height,
		&job.ProcessedRows,
		&job.ResultPath,
		&job.ResultSummary,
		&job.ErrorMessage,
		&job.StartTime,
		&job.EndTime,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}
