package models

import "time"

// HeatmapJob is an asynchronous heatmap evaluation whose grid is written to an XYZ file.
type HeatmapJob struct {
	ID        int64  `json:"id" db:"id"`
	UUID      string `json:"uuid" db:"uuid"`
	DatasetID int64  `json:"dataset_id" db:"dataset_id"`

	// Status
	Status          string `json:"status" db:"status"` // pending, running, completed, failed, cancelled
	ProgressPercent int    `json:"progress_percent" db:"progress_percent"`

	// Input parameters
	ParamsJSON string `json:"params_json,omitempty" db:"params_json"`

	// Execution info
	Width         int   `json:"width" db:"width"`
	Height        int   `json:"height" db:"height"`
	ProcessedRows int   `json:"processed_rows" db:"processed_rows"`
	StartTime     int64 `json:"start_time,omitempty" db:"start_time"` // Unix timestamp
	EndTime       int64 `json:"end_time,omitempty" db:"end_time"`     // Unix timestamp

	// Results
	ResultPath    string `json:"-" db:"result_path"`
	ResultSummary string `json:"result_summary,omitempty" db:"result_summary"` // JSON HeatmapSummary
	ErrorMessage  string `json:"error_message,omitempty" db:"error_message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JobStatus constants
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// Active reports whether the job may still produce a result.
func (j *HeatmapJob) Active() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusRunning
}
