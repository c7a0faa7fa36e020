package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the HTTP server settings.
type Config struct {
	Port       string
	DBPath     string
	JWTSecret  string // empty disables auth
	ResultsDir string

	// MaxSyncCells caps the grid size of POST /heatmap; bigger grids go through jobs.
	MaxSyncCells int
	// RateLimit is the number of compute requests allowed per IP per RateWindow.
	RateLimit  int
	RateWindow time.Duration
	// Workers is the evaluator row parallelism for jobs.
	Workers int
}

// Load reads the configuration from the environment.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/heatmap.db"
	}

	resultsDir := os.Getenv("RESULTS_DIR")
	if resultsDir == "" {
		resultsDir = "./data/results"
	}

	return &Config{
		Port:         port,
		DBPath:       dbPath,
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ResultsDir:   resultsDir,
		MaxSyncCells: envInt("MAX_SYNC_CELLS", 250000),
		RateLimit:    envInt("RATE_LIMIT", 60),
		RateWindow:   time.Minute,
		Workers:      envInt("WORKERS", 4),
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[Config] Ignoring invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
