package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/heatmap-backend-go/internal/models"
	"github.com/jengzang/heatmap-backend-go/internal/service"
	"github.com/jengzang/heatmap-backend-go/pkg/response"
)

// HeatmapHandler handles HTTP requests for heatmap evaluation and jobs
type HeatmapHandler struct {
	service *service.HeatmapService
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(service *service.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{service: service}
}

// Compute evaluates a small heatmap and returns its cells
// POST /api/v1/heatmap
func (h *HeatmapHandler) Compute(c *gin.Context) {
	var req models.HeatmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Compute(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to compute heatmap", err)
		return
	}
	response.Success(c, resp)
}

// CreateJob starts a background heatmap job
// POST /api/v1/jobs
func (h *HeatmapHandler) CreateJob(c *gin.Context) {
	var req models.HeatmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.service.CreateJob(&req)
	if err != nil {
		respondError(c, "Failed to create job", err)
		return
	}
	response.Accepted(c, job)
}

// GetJob retrieves a job by ID
// GET /api/v1/jobs/:id
func (h *HeatmapHandler) GetJob(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	job, err := h.service.GetJob(id)
	if err != nil {
		respondError(c, "Failed to get job", err)
		return
	}
	response.Success(c, job)
}

// ListJobs retrieves jobs, optionally filtered by dataset_id and status
// GET /api/v1/jobs
func (h *HeatmapHandler) ListJobs(c *gin.Context) {
	limit, offset := pagination(c)
	datasetID, _ := strconv.ParseInt(c.Query("dataset_id"), 10, 64)
	status := c.Query("status")

	jobs, err := h.service.ListJobs(datasetID, status, limit, offset)
	if err != nil {
		respondError(c, "Failed to list jobs", err)
		return
	}

	response.Success(c, gin.H{
		"jobs":   jobs,
		"limit":  limit,
		"offset": offset,
	})
}

// CancelJob cancels a pending or running job
// DELETE /api/v1/jobs/:id
func (h *HeatmapHandler) CancelJob(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.service.CancelJob(id); err != nil {
		respondError(c, "Failed to cancel job", err)
		return
	}
	response.Success(c, gin.H{"message": "Job cancellation requested"})
}

// GetResult streams the XYZ grid of a completed job
// GET /api/v1/jobs/:id/result
func (h *HeatmapHandler) GetResult(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	job, err := h.service.Result(id)
	if err != nil {
		respondError(c, "Failed to get job result", err)
		return
	}
	c.FileAttachment(job.ResultPath, "heatmap-"+job.UUID+".xyz")
}
