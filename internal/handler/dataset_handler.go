package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/heatmap-backend-go/internal/models"
	"github.com/jengzang/heatmap-backend-go/internal/service"
	"github.com/jengzang/heatmap-backend-go/pkg/response"
)

// DatasetHandler handles HTTP requests for datasets
type DatasetHandler struct {
	service *service.DatasetService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// CreateDataset imports points from a multipart CSV upload (field "file") or a JSON body.
// POST /api/v1/datasets
func (h *DatasetHandler) CreateDataset(c *gin.Context) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		h.uploadCSV(c)
		return
	}

	var req models.CreateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ds, err := h.service.ImportPoints(req.Name, req.Points, req.Geographic)
	if err != nil {
		respondError(c, "Failed to import points", err)
		return
	}
	response.Created(c, ds)
}

func (h *DatasetHandler) uploadCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Missing file", err)
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = file.Filename
	}
	geographic, _ := strconv.ParseBool(c.DefaultPostForm("geographic", "false"))
	hasHeader, _ := strconv.ParseBool(c.DefaultPostForm("header", "true"))

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to open upload", err)
		return
	}
	defer f.Close()

	ds, err := h.service.ImportCSV(c.Request.Context(), name, f, hasHeader, geographic)
	if err != nil {
		respondError(c, "Failed to import CSV", err)
		return
	}
	response.Created(c, ds)
}

// GetDataset retrieves a dataset by ID
// GET /api/v1/datasets/:id
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ds, err := h.service.GetDataset(id)
	if err != nil {
		respondError(c, "Failed to get dataset", err)
		return
	}
	response.Success(c, ds)
}

// ListDatasets retrieves datasets
// GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	limit, offset := pagination(c)

	datasets, err := h.service.ListDatasets(limit, offset)
	if err != nil {
		respondError(c, "Failed to list datasets", err)
		return
	}

	response.Success(c, gin.H{
		"datasets": datasets,
		"limit":    limit,
		"offset":   offset,
	})
}

// DeleteDataset removes a dataset
// DELETE /api/v1/datasets/:id
func (h *DatasetHandler) DeleteDataset(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteDataset(id); err != nil {
		respondError(c, "Failed to delete dataset", err)
		return
	}
	response.Success(c, gin.H{"message": "Dataset deleted successfully"})
}
