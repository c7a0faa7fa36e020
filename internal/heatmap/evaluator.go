package heatmap

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jengzang/heatmap-backend-go/internal/spatial"
)

// DefaultProgressEvery is how many rows pass between progress callbacks.
const DefaultProgressEvery = 100

// State is the evaluator's position in a run.
type State int32

const (
	StateInitializing State = iota
	StateEvaluatingRow
	StateEvaluatingCell
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateEvaluatingRow:
		return "evaluating_row"
	case StateEvaluatingCell:
		return "evaluating_cell"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressFunc is called with the index of the row about to be evaluated.
type ProgressFunc func(row, height int)

// Options tunes an Evaluator.
type Options struct {
	// Workers > 1 evaluates rows concurrently. Output order is unchanged.
	Workers int
	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
	OnProgress    ProgressFunc
}

// Evaluator computes the density of every grid cell from a shared index.
type Evaluator struct {
	index  *spatial.Index
	grid   GridSpec
	kernel KernelParams
	opts   Options
	state  atomic.Int32
}

// NewEvaluator creates an evaluator. Nothing is validated until Evaluate.
func NewEvaluator(index *spatial.Index, grid GridSpec, kernel KernelParams, opts Options) *Evaluator {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if index == nil {
		index = spatial.Build(nil)
	}
	return &Evaluator{
		index:  index,
		grid:   grid,
		kernel: kernel,
		opts:   opts,
	}
}

// State returns the current state. Safe to call from another goroutine.
func (e *Evaluator) State() State {
	return State(e.state.Load())
}

func (e *Evaluator) setState(s State) {
	e.state.Store(int32(s))
}

// Grid returns the grid being evaluated.
func (e *Evaluator) Grid() GridSpec {
	return e.grid
}

// Density sums the kernel weights of every indexed point within the radius of c.
func (e *Evaluator) Density(c spatial.Point) float64 {
	radius := e.kernel.Radius

	var value float64
	if e.kernel.Geographic {
		for _, env := range spatial.QueryWindows(true, c, radius) {
			for p := range e.index.Search(env) {
				d := spatial.GreatCircleDistance(p.Y, p.X, c.Y, c.X)
				if d <= radius {
					value += weight(d, radius)
				}
			}
		}
		return value
	}

	radiusSq := radius * radius
	for p := range e.index.Search(spatial.QueryWindow(false, c, radius)) {
		dSq := spatial.SquaredDistance(p, c)
		if dSq <= radiusSq {
			value += weight(math.Sqrt(dSq), radius)
		}
	}
	return value
}

// weight is the quartic kernel without the support check.
func weight(d, radius float64) float64 {
	u := d / radius
	v := 1 - u*u
	return QuarticScale * v * v
}

// Evaluate walks the grid row-major, row 0 at ymin, and emits every cell to sink.
// The first error aborts the run. Evaluate does not close sink.
func (e *Evaluator) Evaluate(ctx context.Context, sink Sink) error {
	e.setState(StateInitializing)

	if err := e.grid.Validate(); err != nil {
		return e.fail(err)
	}
	if err := e.kernel.Validate(); err != nil {
		return e.fail(err)
	}
	if err := sink.Begin(e.grid); err != nil {
		return e.fail(err)
	}

	var err error
	if e.opts.Workers > 1 {
		err = e.evaluateParallel(ctx, sink)
	} else {
		err = e.evaluateSequential(ctx, sink)
	}
	if err != nil {
		return e.fail(err)
	}

	e.setState(StateDone)
	return nil
}

func (e *Evaluator) fail(err error) error {
	e.setState(StateFailed)
	return err
}

func (e *Evaluator) progress(row, height int) {
	if e.opts.OnProgress != nil && row%e.opts.ProgressEvery == 0 {
		e.opts.OnProgress(row, height)
	}
}

func (e *Evaluator) evaluateSequential(ctx context.Context, sink Sink) error {
	width, height := e.grid.Width(), e.grid.Height()

	for row := 0; row < height; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.setState(StateEvaluatingRow)
		e.progress(row, height)

		for col := 0; col < width; col++ {
			e.setState(StateEvaluatingCell)
			c := e.grid.Center(row, col)
			cell := Cell{Row: row, Col: col, X: c.X, Y: c.Y, Density: e.Density(c)}
			if err := sink.Emit(cell); err != nil {
				return err
			}
		}
	}
	return nil
}

// evaluateParallel computes batches of rows on a worker pool and emits each
// batch in row order once it is complete.
func (e *Evaluator) evaluateParallel(ctx context.Context, sink Sink) error {
	width, height := e.grid.Width(), e.grid.Height()
	batch := e.opts.Workers * 4
	rows := make([][]Cell, batch)

	for start := 0; start < height; start += batch {
		end := min(start+batch, height)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.opts.Workers)
		e.setState(StateEvaluatingRow)

		for row := start; row < end; row++ {
			buf := rows[row-start][:0]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows[row-start] = e.evaluateRow(row, width, buf)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for row := start; row < end; row++ {
			e.progress(row, height)
			for _, cell := range rows[row-start] {
				if err := sink.Emit(cell); err != nil {
					return err
				}
			}
		}
	}
	return ctx.Err()
}

func (e *Evaluator) evaluateRow(row, width int, buf []Cell) []Cell {
	for col := 0; col < width; col++ {
		c := e.grid.Center(row, col)
		buf = append(buf, Cell{Row: row, Col: col, X: c.X, Y: c.Y, Density: e.Density(c)})
	}
	return buf
}
