package optimizer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/alexiusacademia/goptslab/internal/influence"
	"github.com/alexiusacademia/goptslab/internal/slab"
	"github.com/alexiusacademia/goptslab/internal/tendon"
)

// DefaultTol is the constraint verification tolerance (MPa).
const DefaultTol = 1e-6

var (
	// ErrInfeasible reports that no strand layout satisfies the stress
	// bounds under the given loads.
	ErrInfeasible = errors.New("no feasible strand layout")

	// ErrSolverFailure reports that the linear program could not be solved,
	// as opposed to being proven infeasible.
	ErrSolverFailure = errors.New("solver failure")
)

// Problem is a single-shot strand count optimization: minimize total strand
// count (optionally weighted) such that at every control point the combined
// stress, load plus prestress contribution, stays within that point's
// allowable range, with 0 <= n_j <= MaxStrands_j per tendon.
type Problem struct {
	Influence  *influence.Matrix
	LoadStress []float64 // service stress per control point (MPa)
	MinStress  []float64 // compression-side limit per control point (MPa)
	MaxStress  []float64 // tension-side limit per control point (MPa)
	MaxStrands []float64 // strand count cap per tendon
	Weights    []float64 // objective weight per tendon, nil = unweighted
}

// NewProblem assembles a Problem from the builder outputs, taking stress
// bounds from the control points and strand caps from the tendons.
func NewProblem(a *influence.Matrix, loads []float64, pts []slab.ControlPoint, tendons []tendon.Tendon, weights []float64) *Problem {
	minS := make([]float64, len(pts))
	maxS := make([]float64, len(pts))
	for i, p := range pts {
		minS[i] = p.MinStress
		maxS[i] = p.MaxStress
	}
	caps := make([]float64, len(tendons))
	for j, t := range tendons {
		caps[j] = t.MaxStrands
	}
	return &Problem{
		Influence:  a,
		LoadStress: loads,
		MinStress:  minS,
		MaxStress:  maxS,
		MaxStrands: caps,
		Weights:    weights,
	}
}

// Solution is an accepted strand count vector. Counts are continuous and
// non-negative; Rounded holds the ceiling-rounded integer counts.
type Solution struct {
	Counts    []float64
	Rounded   []float64
	Objective float64 // optimal weighted total
	Total     float64 // plain sum of Counts
}

func (p *Problem) validate() error {
	if p.Influence == nil {
		return fmt.Errorf("no influence matrix supplied")
	}
	m, n := p.Influence.Dims()
	if len(p.LoadStress) != m {
		return fmt.Errorf("load stress vector has %d entries, expected %d control points", len(p.LoadStress), m)
	}
	if len(p.MinStress) != m || len(p.MaxStress) != m {
		return fmt.Errorf("stress bounds have %d/%d entries, expected %d control points",
			len(p.MinStress), len(p.MaxStress), m)
	}
	if len(p.MaxStrands) != n {
		return fmt.Errorf("strand caps have %d entries, expected %d tendons", len(p.MaxStrands), n)
	}
	if p.Weights != nil && len(p.Weights) != n {
		return fmt.Errorf("objective weights have %d entries, expected %d tendons", len(p.Weights), n)
	}
	for i := 0; i < m; i++ {
		if p.MinStress[i] > p.MaxStress[i] {
			return fmt.Errorf("control point %d has inverted stress bounds [%.2f, %.2f]",
				i, p.MinStress[i], p.MaxStress[i])
		}
	}
	for j := 0; j < n; j++ {
		if p.MaxStrands[j] < 0 {
			return fmt.Errorf("tendon %d has negative strand cap %.1f", j, p.MaxStrands[j])
		}
		if p.Weights != nil && p.Weights[j] < 0 {
			return fmt.Errorf("tendon %d has negative objective weight %.3f", j, p.Weights[j])
		}
	}
	return nil
}

// Solve formulates the standard-form linear program and runs the simplex
// method. It returns ErrInfeasible when the constraints exclude every layout
// and ErrSolverFailure for any other solver outcome.
//
// Decision variables are the strand counts followed by one surplus or slack
// column per inequality row:
//
//	-A n + s  = load - min   (compression-side bound)
//	 A n + s  = max - load   (tension-side bound)
//	   n + s  = cap          (per-tendon strand cap)
//
// with every variable non-negative.
func (p *Problem) Solve() (*Solution, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	m, n := p.Influence.Dims()
	rows := 2*m + n
	cols := n + rows

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)
	for j := 0; j < n; j++ {
		if p.Weights != nil {
			c[j] = p.Weights[j]
		} else {
			c[j] = 1
		}
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, -p.Influence.At(i, j))
			a.Set(m+i, j, p.Influence.At(i, j))
		}
		a.Set(i, n+i, 1)
		a.Set(m+i, n+m+i, 1)
		b[i] = p.LoadStress[i] - p.MinStress[i]
		b[m+i] = p.MaxStress[i] - p.LoadStress[i]
	}
	for j := 0; j < n; j++ {
		a.Set(2*m+j, j, 1)
		a.Set(2*m+j, n+2*m+j, 1)
		b[2*m+j] = p.MaxStrands[j]
	}

	opt, x, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, fmt.Errorf("%w: stress bounds cannot be met with the given tendon layout", ErrInfeasible)
		}
		return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
	}

	counts := make([]float64, n)
	var total float64
	for j := 0; j < n; j++ {
		counts[j] = x[j]
		total += x[j]
	}
	return &Solution{
		Counts:    counts,
		Rounded:   RoundUp(counts),
		Objective: opt,
		Total:     total,
	}, nil
}

// RoundUp ceils the continuous strand counts to whole strands. Rounding up
// keeps every satisfied constraint satisfied on the compression side;
// tension-side bounds are re-verified by the caller.
func RoundUp(counts []float64) []float64 {
	out := make([]float64, len(counts))
	for j, c := range counts {
		r := math.Ceil(c - 1e-7)
		if r <= 0 {
			r = 0
		}
		out[j] = r
	}
	return out
}

// Violation records a control point whose combined stress falls outside its
// allowable range.
type Violation struct {
	Point    int
	Combined float64 // MPa
	Min, Max float64 // MPa
}

// CombinedStress evaluates load plus prestress contribution at every control
// point for the given strand counts (MPa).
func (p *Problem) CombinedStress(counts []float64) ([]float64, error) {
	induced, err := p.Influence.Apply(counts)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(induced))
	for i := range induced {
		out[i] = p.LoadStress[i] + induced[i]
	}
	return out, nil
}

// Verify returns every stress bound violated by more than tol for the given
// strand counts.
func (p *Problem) Verify(counts []float64, tol float64) ([]Violation, error) {
	combined, err := p.CombinedStress(counts)
	if err != nil {
		return nil, err
	}
	var out []Violation
	for i, s := range combined {
		if s < p.MinStress[i]-tol || s > p.MaxStress[i]+tol {
			out = append(out, Violation{Point: i, Combined: s, Min: p.MinStress[i], Max: p.MaxStress[i]})
		}
	}
	return out, nil
}

// Precheck evaluates the layout with every tendon at its strand cap. Full
// capacity gives the lowest achievable combined stress at every point, so a
// tension-side violation here proves the maximum available post-tensioning
// cannot satisfy the bounds and the optimization is pointless.
// Compression-side bounds are not checked: fewer strands always relieve them.
func (p *Problem) Precheck() ([]Violation, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	combined, err := p.CombinedStress(p.MaxStrands)
	if err != nil {
		return nil, err
	}
	var out []Violation
	for i, s := range combined {
		if s > p.MaxStress[i]+DefaultTol {
			out = append(out, Violation{Point: i, Combined: s, Min: p.MinStress[i], Max: p.MaxStress[i]})
		}
	}
	return out, nil
}
