package influence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/goptslab/internal/slab"
	"github.com/alexiusacademia/goptslab/internal/tendon"
)

// DefaultLateralDecay is the standard deviation of the Gaussian lateral
// spread of a tendon's prestress (m).
const DefaultLateralDecay = 0.75

// Config collects everything needed to assemble an influence matrix. All
// inputs are taken by value per run; a changed layout means a new Build.
type Config struct {
	Slab         slab.Geometry
	Points       []slab.ControlPoint
	Tendons      []tendon.Tendon
	Strand       tendon.Strand
	LateralDecay float64 // Gaussian spread sigma (m), DefaultLateralDecay if zero
}

// Matrix maps strand counts to stresses at control points. Entry (i, j) is
// the stress at control point i per strand on tendon j (MPa, negative =
// compression). It is never mutated after Build.
type Matrix struct {
	data *mat.Dense
}

// Build validates the configuration and assembles the influence matrix.
//
// Each strand applies its effective force over a 1 m wide strip of the slab
// section, producing a uniform compressive stress that decays laterally with
// a Gaussian profile in the distance from the tendon line. The parabolic
// drape adds load balancing: the relief at a control point grows with the
// local eccentricity by the factor (1 + e(y)/(t/2)).
func Build(cfg Config) (*Matrix, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sigma := cfg.LateralDecay
	if sigma == 0 {
		sigma = DefaultLateralDecay
	}

	// Effective force spread over a t x 1 m influence area (MPa per strand).
	base := cfg.Strand.Force() / (cfg.Slab.Thickness * 1.0) / 1e3
	halfDepth := cfg.Slab.Thickness / 2

	m := len(cfg.Points)
	n := len(cfg.Tendons)
	data := mat.NewDense(m, n, nil)
	for i, p := range cfg.Points {
		for j, t := range cfg.Tendons {
			dx := p.X - t.X
			lateral := math.Exp(-dx * dx / (2 * sigma * sigma))
			drape := 1 + t.Eccentricity(p.Y)/halfDepth
			data.Set(i, j, -base*lateral*drape)
		}
	}
	return &Matrix{data: data}, nil
}

func (cfg Config) validate() error {
	if err := cfg.Slab.Validate(); err != nil {
		return err
	}
	if err := cfg.Strand.Validate(); err != nil {
		return err
	}
	if cfg.LateralDecay < 0 {
		return fmt.Errorf("negative lateral decay: %.3f m", cfg.LateralDecay)
	}
	if len(cfg.Points) == 0 {
		return fmt.Errorf("no control points supplied")
	}
	if len(cfg.Tendons) == 0 {
		return fmt.Errorf("no tendons supplied")
	}

	seen := make(map[[2]float64]int, len(cfg.Points))
	for i, p := range cfg.Points {
		if p.X < 0 || p.X > cfg.Slab.Lx || p.Y < 0 || p.Y > cfg.Slab.Ly {
			return fmt.Errorf("control point %d at (%.2f, %.2f) outside the %.2f x %.2f m slab",
				i, p.X, p.Y, cfg.Slab.Lx, cfg.Slab.Ly)
		}
		if p.MinStress > p.MaxStress {
			return fmt.Errorf("control point %d has inverted stress bounds [%.2f, %.2f]",
				i, p.MinStress, p.MaxStress)
		}
		key := [2]float64{p.X, p.Y}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("control points %d and %d share location (%.2f, %.2f)", prev, i, p.X, p.Y)
		}
		seen[key] = i
	}

	for j, t := range cfg.Tendons {
		if t.X < 0 || t.X > cfg.Slab.Lx {
			return fmt.Errorf("tendon %s at x=%.2f m outside slab width %.2f m", t.Tag, t.X, cfg.Slab.Lx)
		}
		if t.Length <= 0 || t.Length > cfg.Slab.Ly {
			return fmt.Errorf("tendon %s length %.2f m invalid for span %.2f m", t.Tag, t.Length, cfg.Slab.Ly)
		}
		if t.EccMax < 0 || t.EccMax > cfg.Slab.MaxEccentricity() {
			return fmt.Errorf("tendon %s eccentricity %.3f m exceeds usable %.3f m",
				t.Tag, t.EccMax, cfg.Slab.MaxEccentricity())
		}
		if t.MaxStrands < 0 {
			return fmt.Errorf("tendon %d has negative strand limit %.1f", j, t.MaxStrands)
		}
	}
	return nil
}

// Dims returns (control points, tendons).
func (a *Matrix) Dims() (int, int) {
	return a.data.Dims()
}

// At returns the stress at control point i per strand on tendon j (MPa).
func (a *Matrix) At(i, j int) float64 {
	return a.data.At(i, j)
}

// Apply computes the prestress contribution A·n at every control point for
// the given strand counts (MPa, negative = compression).
func (a *Matrix) Apply(counts []float64) ([]float64, error) {
	m, n := a.data.Dims()
	if len(counts) != n {
		return nil, fmt.Errorf("strand count vector has %d entries, layout has %d tendons", len(counts), n)
	}
	var out mat.VecDense
	out.MulVec(a.data, mat.NewVecDense(n, counts))
	res := make([]float64, m)
	copy(res, out.RawVector().Data)
	return res, nil
}

// Dense exposes the underlying matrix for the optimizer. Callers must not
// mutate it.
func (a *Matrix) Dense() mat.Matrix {
	return a.data
}
