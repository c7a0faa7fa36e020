package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/jengzang/heatmap-backend-go/internal/config"
	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
)

// boundFlag is an optional float flag; the target stays nil unless the flag is given.
type boundFlag struct {
	target **float64
}

func (b boundFlag) String() string {
	if b.target == nil || *b.target == nil {
		return ""
	}
	return strconv.FormatFloat(**b.target, 'f', -1, 64)
}

func (b boundFlag) Set(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*b.target = &v
	return nil
}

// resolutionFlag accepts "xres,yres", "xres yres" or a single value for both axes.
type resolutionFlag struct {
	res *heatmap.Resolution
}

func (r resolutionFlag) String() string {
	if r.res == nil || (r.res.X == 0 && r.res.Y == 0) {
		return ""
	}
	return fmt.Sprintf("%v,%v", r.res.X, r.res.Y)
}

func (r resolutionFlag) Set(s string) error {
	fields := strings.FieldsFunc(s, func(c rune) bool {
		return c == ',' || unicode.IsSpace(c)
	})
	if len(fields) == 0 || len(fields) > 2 {
		return fmt.Errorf("expected \"xres,yres\", got %q", s)
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return err
	}
	y := x
	if len(fields) == 2 {
		if y, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return err
		}
	}
	r.res.X, r.res.Y = x, y
	return nil
}

// joinResolution rewrites "-R 10 20" into "-R=10 20" so the two-value form
// survives the flag package, which only takes one value per flag.
func joinResolution(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch strings.TrimLeft(a, "-") {
		case "R", "res":
			if strings.HasPrefix(a, "-") && i+2 < len(args) && isNumber(args[i+1]) && isNumber(args[i+2]) {
				out = append(out, a+"="+args[i+1]+" "+args[i+2])
				i += 2
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func parseFlags(args []string, stderr io.Writer) (*config.Options, error) {
	opts := &config.Options{Radius: config.DefaultRadius}
	var noHeader bool

	fs := flag.NewFlagSet("heatmap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: heatmap -i points.csv -o grid.xyz -R xres,yres [options]")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.Input, "input", "", "CSV file of x,y points")
	fs.StringVar(&opts.Input, "i", "", "shorthand for -input")
	fs.StringVar(&opts.Output, "output", "", "XYZ grid file to write")
	fs.StringVar(&opts.Output, "o", "", "shorthand for -output")
	fs.Var(boundFlag{&opts.Bounds.XMin}, "xmin", "minimum x of the grid (default: data extent minus radius)")
	fs.Var(boundFlag{&opts.Bounds.XMax}, "xmax", "maximum x of the grid")
	fs.Var(boundFlag{&opts.Bounds.YMin}, "ymin", "minimum y of the grid")
	fs.Var(boundFlag{&opts.Bounds.YMax}, "ymax", "maximum y of the grid")
	fs.Var(resolutionFlag{&opts.Resolution}, "res", "cell size in meters, \"xres,yres\" or \"xres yres\"; a single value is used for both axes")
	fs.Var(resolutionFlag{&opts.Resolution}, "R", "shorthand for -res")
	fs.Float64Var(&opts.Radius, "radius", config.DefaultRadius, "kernel radius in meters")
	fs.Float64Var(&opts.Radius, "r", config.DefaultRadius, "shorthand for -radius")
	fs.BoolVar(&opts.Geographic, "assume-lat-lon", false, "treat x as longitude and y as latitude in degrees")
	fs.StringVar(&opts.PNG, "png", "", "also render a PNG preview to this file")
	fs.IntVar(&opts.Workers, "workers", 1, "rows evaluated concurrently")
	fs.BoolVar(&noHeader, "no-header", false, "the CSV has no header row")
	fs.StringVar(&opts.DBPath, "db", "", "read points from this SQLite database instead of a CSV file")
	fs.Int64Var(&opts.DatasetID, "dataset", 0, "dataset id to read from -db")

	if err := fs.Parse(joinResolution(args)); err != nil {
		return nil, heatmap.ConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return nil, heatmap.ConfigError("unexpected arguments: %v", fs.Args())
	}
	opts.HasHeader = !noHeader

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}
