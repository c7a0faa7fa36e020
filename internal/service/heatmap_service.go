package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
	"github.com/jengzang/heatmap-backend-go/internal/models"
	"github.com/jengzang/heatmap-backend-go/internal/output"
	"github.com/jengzang/heatmap-backend-go/internal/repository"
	"github.com/jengzang/heatmap-backend-go/internal/source"
	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

var (
	// ErrJobNotActive is returned when cancelling a job that already ended.
	ErrJobNotActive = errors.New("job is not pending or running")
	// ErrResultNotReady is returned when fetching the result of an unfinished job.
	ErrResultNotReady = errors.New("job result is not available")
	// ErrShuttingDown is returned for new jobs once Shutdown has been called.
	ErrShuttingDown = errors.New("service is shutting down")
)

// HeatmapConfig tunes the heatmap service.
type HeatmapConfig struct {
	ResultsDir   string
	MaxSyncCells int
	Workers      int
}

// HeatmapService evaluates heatmaps for stored datasets, either inline or as
// background jobs that write XYZ files.
type HeatmapService struct {
	datasets *repository.DatasetRepository
	jobs     *repository.JobRepository
	cfg      HeatmapConfig

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu      sync.Mutex
	running map[int64]context.CancelFunc
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(datasets *repository.DatasetRepository, jobs *repository.JobRepository, cfg HeatmapConfig) *HeatmapService {
	ctx, stop := context.WithCancel(context.Background())
	return &HeatmapService{
		datasets: datasets,
		jobs:     jobs,
		cfg:      cfg,
		ctx:      ctx,
		stop:     stop,
		running:  make(map[int64]context.CancelFunc),
	}
}

// resolve looks up the dataset and computes the grid from its stored extent,
// so requests can be rejected before any point is loaded.
func (s *HeatmapService) resolve(req *models.HeatmapRequest) (*models.Dataset, heatmap.GridSpec, heatmap.KernelParams, error) {
	ds, err := s.datasets.GetByID(req.DatasetID)
	if err != nil {
		return nil, heatmap.GridSpec{}, heatmap.KernelParams{}, err
	}

	r := req.Evaluation(ds.Geographic)
	kernel, err := heatmap.NewKernelParams(r.Radius, r.Geographic)
	if err != nil {
		return nil, heatmap.GridSpec{}, heatmap.KernelParams{}, err
	}

	extent, ok := ds.Extent()
	grid, err := heatmap.ResolveGrid(extent, ok, r.Bounds, r.Resolution, kernel)
	if err != nil {
		return nil, heatmap.GridSpec{}, heatmap.KernelParams{}, err
	}
	return ds, grid, kernel, nil
}

func (s *HeatmapService) loadIndex(ctx context.Context, datasetID int64) (*spatial.Index, error) {
	src := &source.DatasetSource{Loader: s.datasets, DatasetID: datasetID}
	set, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	return spatial.Build(set.Points), nil
}

// Compute evaluates a heatmap inline and returns every cell.
func (s *HeatmapService) Compute(ctx context.Context, req *models.HeatmapRequest) (*models.HeatmapResponse, error) {
	ds, grid, kernel, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxSyncCells > 0 && grid.Cells() > s.cfg.MaxSyncCells {
		return nil, heatmap.ConfigError("grid has %d cells, synchronous limit is %d; submit a job instead",
			grid.Cells(), s.cfg.MaxSyncCells)
	}

	index, err := s.loadIndex(ctx, ds.ID)
	if err != nil {
		return nil, err
	}

	collector := &output.Collector{Limit: s.cfg.MaxSyncCells}
	stats := &output.Stats{}
	sink := output.Tee(collector, stats)
	defer sink.Close()

	ev := heatmap.NewEvaluator(index, grid, kernel, heatmap.Options{Workers: s.cfg.Workers})
	if err := ev.Evaluate(ctx, sink); err != nil {
		return nil, err
	}

	return &models.HeatmapResponse{
		DatasetID: ds.ID,
		Grid:      grid,
		Width:     grid.Width(),
		Height:    grid.Height(),
		Summary:   summarize(stats),
		Cells:     collector.Cells,
	}, nil
}

// CreateJob validates the request, records a pending job and starts evaluating it in the background.
func (s *HeatmapService) CreateJob(req *models.HeatmapRequest) (*models.HeatmapJob, error) {
	if s.ctx.Err() != nil {
		return nil, ErrShuttingDown
	}

	ds, grid, kernel, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	params, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize params: %w", err)
	}

	if err := os.MkdirAll(s.cfg.ResultsDir, 0o755); err != nil {
		return nil, heatmap.IOError("create results dir", err)
	}

	id := uuid.New().String()
	job := &models.HeatmapJob{
		UUID:       id,
		DatasetID:  ds.ID,
		Status:     models.JobStatusPending,
		ParamsJSON: string(params),
		Width:      grid.Width(),
		Height:     grid.Height(),
		ResultPath: filepath.Join(s.cfg.ResultsDir, id+".xyz"),
	}
	if err := s.jobs.Create(job); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.running[job.ID] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runJob(ctx, job, grid, kernel)

	return job, nil
}

func (s *HeatmapService) runJob(ctx context.Context, job *models.HeatmapJob, grid heatmap.GridSpec, kernel heatmap.KernelParams) {
	defer s.wg.Done()
	defer s.forget(job.ID)

	log.Printf("[HeatmapService] Starting job %d (%dx%d cells)", job.ID, grid.Width(), grid.Height())
	if err := s.jobs.MarkAsRunning(job.ID); err != nil {
		log.Printf("[HeatmapService] Job %d: %v", job.ID, err)
	}

	summary, err := s.execute(ctx, job, grid, kernel)
	if err != nil {
		status := models.JobStatusFailed
		if errors.Is(err, context.Canceled) {
			status = models.JobStatusCancelled
		}
		os.Remove(job.ResultPath)

		log.Printf("[HeatmapService] Job %d %s: %v", job.ID, status, err)
		if err := s.jobs.MarkAsFailed(job.ID, status, err.Error()); err != nil {
			log.Printf("[HeatmapService] Job %d: %v", job.ID, err)
		}
		return
	}

	encoded, err := json.Marshal(summary)
	if err != nil {
		log.Printf("[HeatmapService] Job %d: failed to serialize summary: %v", job.ID, err)
	}
	if err := s.jobs.MarkAsCompleted(job.ID, grid.Height(), string(encoded)); err != nil {
		log.Printf("[HeatmapService] Job %d: %v", job.ID, err)
		return
	}
	log.Printf("[HeatmapService] Job %d finished", job.ID)
}

func (s *HeatmapService) execute(ctx context.Context, job *models.HeatmapJob, grid heatmap.GridSpec, kernel heatmap.KernelParams) (models.HeatmapSummary, error) {
	index, err := s.loadIndex(ctx, job.DatasetID)
	if err != nil {
		return models.HeatmapSummary{}, err
	}

	xyz, err := output.CreateXYZ(job.ResultPath)
	if err != nil {
		return models.HeatmapSummary{}, err
	}
	stats := &output.Stats{}
	sink := output.Tee(xyz, stats)

	ev := heatmap.NewEvaluator(index, grid, kernel, heatmap.Options{
		Workers: s.cfg.Workers,
		OnProgress: func(row, height int) {
			if err := s.jobs.UpdateProgress(job.ID, row, row*100/height); err != nil {
				log.Printf("[HeatmapService] Job %d: %v", job.ID, err)
			}
		},
	})

	err = ev.Evaluate(ctx, sink)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	return summarize(stats), err
}

func (s *HeatmapService) forget(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.running[id]; ok {
		cancel()
		delete(s.running, id)
	}
}

// GetJob retrieves a job by ID
func (s *HeatmapService) GetJob(id int64) (*models.HeatmapJob, error) {
	return s.jobs.GetByID(id)
}

// ListJobs retrieves jobs with optional filters
func (s *HeatmapService) ListJobs(datasetID int64, status string, limit int, offset int) ([]*models.HeatmapJob, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.jobs.List(datasetID, status, limit, offset)
}

// CancelJob stops a pending or running job. The job is marked cancelled once
// its worker notices.
func (s *HeatmapService) CancelJob(id int64) error {
	job, err := s.jobs.GetByID(id)
	if err != nil {
		return err
	}
	if !job.Active() {
		return fmt.Errorf("job %d is %s: %w", id, job.Status, ErrJobNotActive)
	}

	s.mu.Lock()
	cancel, ok := s.running[id]
	s.mu.Unlock()

	if !ok {
		// no worker in this process owns it
		return s.jobs.MarkAsFailed(id, models.JobStatusCancelled, "cancelled")
	}
	cancel()
	return nil
}

// Result returns a completed job whose ResultPath can be served.
func (s *HeatmapService) Result(id int64) (*models.HeatmapJob, error) {
	job, err := s.jobs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusCompleted {
		return nil, fmt.Errorf("job %d is %s: %w", id, job.Status, ErrResultNotReady)
	}
	return job, nil
}

// Wait blocks until every started job has ended.
func (s *HeatmapService) Wait() {
	s.wg.Wait()
}

// Shutdown cancels all running jobs and waits for their workers.
func (s *HeatmapService) Shutdown() {
	s.stop()
	s.wg.Wait()
}

func summarize(stats *output.Stats) models.HeatmapSummary {
	return models.HeatmapSummary{
		Cells:   stats.Cells,
		NonZero: stats.NonZero,
		Sum:     stats.Sum,
		Max:     stats.Max,
		Mean:    stats.Mean(),
	}
}
