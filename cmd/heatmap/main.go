// Command heatmap computes a quartic kernel density grid from a CSV of points
// and writes it as an XYZ file.
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/jengzang/heatmap-backend-go/internal/config"
	"github.com/jengzang/heatmap-backend-go/internal/database"
	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
	"github.com/jengzang/heatmap-backend-go/internal/output"
	"github.com/jengzang/heatmap-backend-go/internal/repository"
	"github.com/jengzang/heatmap-backend-go/internal/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		log.Printf("[Heatmap] %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	points, err := readPoints(ctx, opts)
	if err != nil {
		return err
	}

	ev, err := heatmap.Prepare(points.Points, opts.Request(), heatmap.Options{
		Workers: opts.Workers,
		OnProgress: func(row, height int) {
			log.Printf("[Heatmap] %d of %d done", row, height)
		},
	})
	if err != nil {
		return err
	}

	xyz, err := output.CreateXYZ(opts.Output)
	if err != nil {
		return err
	}
	sinks := []heatmap.Sink{xyz}
	if opts.PNG != "" {
		sinks = append(sinks, output.NewPNGRenderer(opts.PNG))
	}
	sink := output.Tee(sinks...)

	grid := ev.Grid()
	log.Printf("[Heatmap] Evaluating %dx%d grid", grid.Width(), grid.Height())

	err = ev.Evaluate(ctx, sink)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	log.Printf("[Heatmap] finished")
	return nil
}

func readPoints(ctx context.Context, opts *config.Options) (*source.PointSet, error) {
	if opts.DBPath == "" {
		src := &source.CSVSource{Path: opts.Input, HasHeader: opts.HasHeader, Geographic: opts.Geographic}
		return src.Read(ctx)
	}

	db, err := database.Open(opts.DBPath)
	if err != nil {
		return nil, heatmap.IOError("open database", err)
	}
	defer db.Close()

	repo := repository.NewDatasetRepository(db)
	ds, err := repo.GetByID(opts.DatasetID)
	if err != nil {
		return nil, err
	}
	// stored datasets know their coordinate system
	opts.Geographic = opts.Geographic || ds.Geographic

	log.Printf("[Heatmap] Reading dataset %d (%s) from %s", ds.ID, ds.Name, opts.DBPath)
	src := &source.DatasetSource{Loader: repo, DatasetID: ds.ID}
	set, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[Heatmap] Read in %d points", set.Len())
	return set, nil
}
