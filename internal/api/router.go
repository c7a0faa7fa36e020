package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/heatmap-backend-go/internal/config"
	"github.com/jengzang/heatmap-backend-go/internal/handler"
	"github.com/jengzang/heatmap-backend-go/internal/middleware"
)

// Dependencies are the handlers and shared middleware state the router wires up.
type Dependencies struct {
	Datasets *handler.DatasetHandler
	Heatmaps *handler.HeatmapHandler
	// Limiter throttles the compute routes; nil disables rate limiting.
	Limiter *middleware.RateLimiter
}

// SetupRouter builds the HTTP routes.
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Heatmap API is running",
		})
	})

	api := r.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}

	compute := []gin.HandlerFunc{}
	if deps.Limiter != nil {
		compute = append(compute, middleware.RateLimit(deps.Limiter))
	}

	datasets := api.Group("/datasets")
	{
		datasets.GET("", deps.Datasets.ListDatasets)
		datasets.POST("", deps.Datasets.CreateDataset)
		datasets.GET("/:id", deps.Datasets.GetDataset)
		datasets.DELETE("/:id", deps.Datasets.DeleteDataset)
	}

	api.POST("/heatmap", append(compute, deps.Heatmaps.Compute)...)

	jobs := api.Group("/jobs")
	{
		jobs.GET("", deps.Heatmaps.ListJobs)
		jobs.POST("", append(compute, deps.Heatmaps.CreateJob)...)
		jobs.GET("/:id", deps.Heatmaps.GetJob)
		jobs.GET("/:id/result", deps.Heatmaps.GetResult)
		jobs.DELETE("/:id", deps.Heatmaps.CancelJob)
	}

	return r
}
