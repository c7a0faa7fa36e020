package output

import (
	"fmt"
	"log"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
)

// PNGRenderer draws the grid as a heat map image when closed.
// Unlike the other sinks it keeps the whole grid in memory.
type PNGRenderer struct {
	Path   string
	Title  string
	Width  vg.Length
	Height vg.Length
	Colors int
	// Clip is the density quantile mapped to the top colour, so a few hot
	// cells do not wash out the rest. 0 or 1 uses the maximum.
	Clip float64

	grid  heatmap.GridSpec
	cells *mat.Dense
}

// NewPNGRenderer returns a renderer with default size and palette.
func NewPNGRenderer(path string) *PNGRenderer {
	return &PNGRenderer{
		Path:   path,
		Title:  "Kernel density",
		Width:  8 * vg.Inch,
		Height: 8 * vg.Inch,
		Colors: 64,
		Clip:   0.995,
	}
}

func (p *PNGRenderer) Begin(grid heatmap.GridSpec) error {
	p.grid = grid
	p.cells = nil
	if w, h := grid.Width(), grid.Height(); w > 0 && h > 0 {
		p.cells = mat.NewDense(h, w, nil)
	}
	return nil
}

func (p *PNGRenderer) Emit(c heatmap.Cell) error {
	if p.cells == nil {
		return fmt.Errorf("png renderer: cell before Begin")
	}
	p.cells.Set(c.Row, c.Col, c.Density)
	return nil
}

// Close renders and saves the image. An empty grid produces no file.
func (p *PNGRenderer) Close() error {
	if p.cells == nil {
		log.Printf("[PNGRenderer] Empty grid, skipping %s", p.Path)
		return nil
	}

	pal := palette.Heat(p.Colors, 1)
	hm := plotter.NewHeatMap(denseGrid{m: p.cells, spec: p.grid}, pal)
	hm.Min, hm.Max = p.colorRange()
	hm.Overflow = pal.Colors()[len(pal.Colors())-1]

	plt := plot.New()
	plt.Title.Text = p.Title
	plt.X.Label.Text = "x"
	plt.Y.Label.Text = "y"
	plt.Add(hm)

	if err := plt.Save(p.Width, p.Height, p.Path); err != nil {
		return heatmap.IOError("save png", err)
	}
	log.Printf("[PNGRenderer] Saved %s", p.Path)
	return nil
}

func (p *PNGRenderer) colorRange() (lo, hi float64) {
	lo, hi = mat.Min(p.cells), mat.Max(p.cells)
	if p.Clip > 0 && p.Clip < 1 {
		values := slices.Clone(p.cells.RawMatrix().Data)
		slices.Sort(values)
		if q := stat.Quantile(p.Clip, stat.Empirical, values, nil); q > lo {
			hi = q
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// denseGrid adapts the buffered densities to plotter.GridXYZ.
type denseGrid struct {
	m    *mat.Dense
	spec heatmap.GridSpec
}

func (g denseGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g denseGrid) Z(c, r int) float64 {
	return g.m.At(r, c)
}

func (g denseGrid) X(c int) float64 {
	return g.spec.Center(0, c).X
}

func (g denseGrid) Y(r int) float64 {
	return g.spec.Center(r, 0).Y
}
