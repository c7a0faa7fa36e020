package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/heatmap-backend-go/internal/api"
	"github.com/jengzang/heatmap-backend-go/internal/config"
	"github.com/jengzang/heatmap-backend-go/internal/database"
	"github.com/jengzang/heatmap-backend-go/internal/handler"
	"github.com/jengzang/heatmap-backend-go/internal/middleware"
	"github.com/jengzang/heatmap-backend-go/internal/repository"
	"github.com/jengzang/heatmap-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	datasetRepo := repository.NewDatasetRepository(db)
	jobRepo := repository.NewJobRepository(db)
	if n, err := jobRepo.FailInterrupted(); err != nil {
		log.Printf("Failed to reset interrupted jobs: %v", err)
	} else if n > 0 {
		log.Printf("Marked %d interrupted jobs as failed", n)
	}

	heatmaps := service.NewHeatmapService(datasetRepo, jobRepo, service.HeatmapConfig{
		ResultsDir:   cfg.ResultsDir,
		MaxSyncCells: cfg.MaxSyncCells,
		Workers:      cfg.Workers,
	})

	stop := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	go limiter.Run(stop)

	router := api.SetupRouter(cfg, api.Dependencies{
		Datasets: handler.NewDatasetHandler(service.NewDatasetService(datasetRepo)),
		Heatmaps: handler.NewHeatmapHandler(heatmaps),
		Limiter:  limiter,
	})
	if cfg.JWTSecret == "" {
		log.Printf("JWT_SECRET is not set, API authentication is disabled")
	}

	srv := &http.Server{Addr: cfg.Port, Handler: router}
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	close(stop)
	heatmaps.Shutdown()
	log.Println("Server exited")
}
