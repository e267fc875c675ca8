package optimizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goptslab/internal/influence"
	"github.com/alexiusacademia/goptslab/internal/slab"
	"github.com/alexiusacademia/goptslab/internal/tendon"
)

// scenarioProblem builds the 8 x 12 m example panel: 400 mm slab, 15 kPa
// service load, eight draped tendons at 1.0 m spacing, capped at 10 strands,
// full compression required at every control point.
func scenarioProblem(t *testing.T, maxStrands float64) (*Problem, []slab.ControlPoint, []tendon.Tendon) {
	t.Helper()

	geom := slab.Geometry{Lx: 8, Ly: 12, Thickness: 0.4, Cover: 0.05}
	pts, err := geom.ControlGrid(200, -15, 0)
	require.NoError(t, err)
	tendons, err := tendon.UniformLayout(geom.Lx, 1.0, geom.Ly, geom.MaxEccentricity(), maxStrands)
	require.NoError(t, err)

	matrix, err := influence.Build(influence.Config{
		Slab:    geom,
		Points:  pts,
		Tendons: tendons,
		Strand:  tendon.Strand{Area: 150, UltimateStress: 1860, JackingRatio: 0.7},
	})
	require.NoError(t, err)

	loads := geom.LoadStresses(geom.SelfWeight()+5, pts)
	return NewProblem(matrix, loads, pts, tendons, nil), pts, tendons
}

// singleTendonProblem isolates one undraped tendon under one control point,
// giving an influence entry of exactly -0.48825 MPa per strand.
func singleTendonProblem(t *testing.T, load float64) *Problem {
	t.Helper()

	geom := slab.Geometry{Lx: 3, Ly: 3, Thickness: 0.4, Cover: 0.05}
	pts := []slab.ControlPoint{{X: 1.5, Y: 1.5, MinStress: -20, MaxStress: 0}}
	tendons := []tendon.Tendon{{Tag: "T1", X: 1.5, Length: 3, EccMax: 0, MaxStrands: 10}}

	matrix, err := influence.Build(influence.Config{
		Slab:    geom,
		Points:  pts,
		Tendons: tendons,
		Strand:  tendon.Strand{Area: 150, UltimateStress: 1860, JackingRatio: 0.7},
	})
	require.NoError(t, err)

	return NewProblem(matrix, []float64{load}, pts, tendons, nil)
}

func TestSolveKnownOptimum(t *testing.T) {
	// 2.44125 MPa of load against 0.48825 MPa relief per strand: exactly 5.
	p := singleTendonProblem(t, 2.44125)

	sol, err := p.Solve()
	require.NoError(t, err)
	require.Len(t, sol.Counts, 1)
	assert.InDelta(t, 5.0, sol.Counts[0], 1e-6)
	assert.InDelta(t, 5.0, sol.Objective, 1e-6)
	assert.Equal(t, []float64{5}, sol.Rounded)
}

func TestSolveWeightedObjective(t *testing.T) {
	p := singleTendonProblem(t, 2.44125)
	p.Weights = []float64{3}

	sol, err := p.Solve()
	require.NoError(t, err)
	assert.InDelta(t, 5.0, sol.Counts[0], 1e-6)
	assert.InDelta(t, 15.0, sol.Objective, 1e-6)
}

func TestSolutionSatisfiesBounds(t *testing.T) {
	p, _, _ := scenarioProblem(t, 10)

	sol, err := p.Solve()
	require.NoError(t, err)

	violations, err := p.Verify(sol.Counts, DefaultTol)
	require.NoError(t, err)
	assert.Empty(t, violations)

	// Ceiling rounding only adds compression, so bounds still hold.
	violations, err = p.Verify(sol.Rounded, DefaultTol)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestSolveNonNegativity(t *testing.T) {
	p, _, _ := scenarioProblem(t, 10)

	sol, err := p.Solve()
	require.NoError(t, err)
	for j, c := range sol.Counts {
		assert.GreaterOrEqual(t, c, -1e-9, "tendon %d", j)
		assert.GreaterOrEqual(t, sol.Rounded[j], 0.0, "tendon %d rounded", j)
	}
}

func TestSolveIdempotent(t *testing.T) {
	p, _, _ := scenarioProblem(t, 10)

	first, err := p.Solve()
	require.NoError(t, err)
	second, err := p.Solve()
	require.NoError(t, err)

	assert.InDelta(t, first.Total, second.Total, 1e-8)
	for j := range first.Counts {
		assert.InDelta(t, first.Counts[j], second.Counts[j], 1e-8)
	}
}

func TestSolveReducesSteel(t *testing.T) {
	// The documented example outcome: the optimized layout needs roughly 30%
	// less steel than running every tendon at capacity.
	p, _, tendons := scenarioProblem(t, 10)

	sol, err := p.Solve()
	require.NoError(t, err)

	full := 10 * float64(len(tendons))
	assert.Less(t, sol.Total, 0.8*full)
	assert.Greater(t, sol.Total, 0.3*full, "suspiciously small total, constraints likely dropped")
}

func TestSolveInfeasible(t *testing.T) {
	// One strand per tendon cannot relieve a 10 MPa midspan tension.
	p, _, _ := scenarioProblem(t, 1)

	sol, err := p.Solve()
	assert.Nil(t, sol)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.NotErrorIs(t, err, ErrSolverFailure)
}

func TestSolveInfeasibleAtZeroCapacity(t *testing.T) {
	// Bounds violated by the load stress alone, with no tendons allowed to
	// carry anything.
	p := singleTendonProblem(t, 5)
	p.MaxStrands = []float64{0}

	_, err := p.Solve()
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestPrecheck(t *testing.T) {
	p, _, _ := scenarioProblem(t, 10)
	violations, err := p.Precheck()
	require.NoError(t, err)
	assert.Empty(t, violations)

	// Five strands per tendon relieve the lightly loaded support bands but
	// leave residual tension around midspan: the precheck must flag that
	// midspan band and nothing else.
	short, shortPts, _ := scenarioProblem(t, 5)
	violations, err = short.Precheck()
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
	assert.Less(t, len(violations), len(shortPts))
	for _, v := range violations {
		assert.Greater(t, v.Combined, v.Max)
	}
}

func TestVerifyReportsViolations(t *testing.T) {
	p, _, tendons := scenarioProblem(t, 10)

	zero := make([]float64, len(tendons))
	violations, err := p.Verify(zero, DefaultTol)
	require.NoError(t, err)
	assert.NotEmpty(t, violations, "load stress alone must violate the zero-tension bound")
	for _, v := range violations {
		assert.Greater(t, v.Combined, v.Max)
	}
}

func TestProblemValidation(t *testing.T) {
	p, _, _ := scenarioProblem(t, 10)

	bad := *p
	bad.LoadStress = bad.LoadStress[:3]
	_, err := bad.Solve()
	assert.Error(t, err)

	bad = *p
	bad.MaxStrands = []float64{10}
	_, err = bad.Solve()
	assert.Error(t, err)

	bad = *p
	bad.Weights = []float64{1, 2}
	_, err = bad.Solve()
	assert.Error(t, err)

	bad = *p
	caps := append([]float64(nil), p.MaxStrands...)
	caps[0] = -1
	bad.MaxStrands = caps
	_, err = bad.Solve()
	assert.Error(t, err)

	var empty Problem
	_, err = empty.Solve()
	assert.Error(t, err)
}

func TestRoundUp(t *testing.T) {
	in := []float64{0, 0.2, 5, 4.999999999, 7.3, -1e-12}
	want := []float64{0, 1, 5, 5, 8, 0}
	assert.Equal(t, want, RoundUp(in))
}

func TestErrorTaxonomyDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrInfeasible, ErrSolverFailure))
	assert.False(t, errors.Is(ErrSolverFailure, ErrInfeasible))
}
