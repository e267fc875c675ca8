package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ExportLayoutDiagram exports a bar chart of strand counts per tendon across
// the slab width.
func ExportLayoutDiagram(positions, counts []float64, filename string) error {
	if len(positions) != len(counts) {
		return fmt.Errorf("positions and counts differ in length: %d vs %d", len(positions), len(counts))
	}

	p := plot.New()
	p.Title.Text = "Optimized Tendon Layout"
	p.X.Label.Text = "Tendon Position (m)"
	p.Y.Label.Text = "Number of Strands"

	bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(24))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Color = color.Black
	bars.LineStyle.Width = vg.Points(0.5)
	p.Add(bars)

	labels := make([]string, len(positions))
	for i, x := range positions {
		labels[i] = fmt.Sprintf("%.1f", x)
	}
	p.NominalX(labels...)

	return save(p, 8*vg.Inch, 4*vg.Inch, filename)
}

// ExportStressField exports a heat map of a per-control-point stress field.
// The points must form a regular grid, as produced by the control grid
// generator.
func ExportStressField(xs, ys, values []float64, title, filename string) error {
	grid, err := newStressGrid(xs, ys, values)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	hm := plotter.NewHeatMap(grid, moreland.SmoothBlueRed().Palette(255))
	p.Add(hm)

	return save(p, 5*vg.Inch, 7*vg.Inch, filename)
}

func save(p *plot.Plot, w, h vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		os.MkdirAll(dir, 0755)
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(w, h, filename)
	default:
		return p.Save(w, h, filename+".png")
	}
}

// stressGrid adapts scattered grid-aligned control point values to the
// plotter.GridXYZ interface.
type stressGrid struct {
	xs, ys []float64
	z      []float64 // column-major: z[ix*len(ys)+iy]
}

const gridTol = 1e-9

func newStressGrid(xs, ys, values []float64) (*stressGrid, error) {
	if len(xs) != len(ys) || len(xs) != len(values) {
		return nil, fmt.Errorf("coordinate and value slices differ in length: %d/%d/%d", len(xs), len(ys), len(values))
	}
	ux := uniqueSorted(xs)
	uy := uniqueSorted(ys)
	if len(ux)*len(uy) != len(values) {
		return nil, fmt.Errorf("%d control points do not form a %d x %d grid", len(values), len(ux), len(uy))
	}

	g := &stressGrid{xs: ux, ys: uy, z: make([]float64, len(values))}
	filled := make([]bool, len(values))
	for i := range values {
		ix := indexOf(ux, xs[i])
		iy := indexOf(uy, ys[i])
		if ix < 0 || iy < 0 {
			return nil, fmt.Errorf("control point (%.2f, %.2f) does not align with the grid", xs[i], ys[i])
		}
		k := ix*len(uy) + iy
		if filled[k] {
			return nil, fmt.Errorf("duplicate control point at (%.2f, %.2f)", xs[i], ys[i])
		}
		g.z[k] = values[i]
		filled[k] = true
	}
	return g, nil
}

func (g *stressGrid) Dims() (int, int)   { return len(g.xs), len(g.ys) }
func (g *stressGrid) X(c int) float64    { return g.xs[c] }
func (g *stressGrid) Y(r int) float64    { return g.ys[r] }
func (g *stressGrid) Z(c, r int) float64 { return g.z[c*len(g.ys)+r] }

func uniqueSorted(vs []float64) []float64 {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	var out []float64
	for _, v := range sorted {
		if len(out) == 0 || math.Abs(v-out[len(out)-1]) > gridTol {
			out = append(out, v)
		}
	}
	return out
}

func indexOf(sorted []float64, v float64) int {
	i := sort.SearchFloat64s(sorted, v-gridTol)
	if i < len(sorted) && math.Abs(sorted[i]-v) <= gridTol {
		return i
	}
	return -1
}
