package influence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goptslab/internal/slab"
	"github.com/alexiusacademia/goptslab/internal/tendon"
)

func testConfig(t *testing.T) Config {
	t.Helper()

	geom := slab.Geometry{Lx: 8, Ly: 12, Thickness: 0.4, Cover: 0.05}
	pts, err := geom.ControlGrid(100, -15, 0)
	require.NoError(t, err)
	tendons, err := tendon.UniformLayout(geom.Lx, 1.0, geom.Ly, geom.MaxEccentricity(), 10)
	require.NoError(t, err)

	return Config{
		Slab:    geom,
		Points:  pts,
		Tendons: tendons,
		Strand:  tendon.Strand{Area: 150, UltimateStress: 1860, JackingRatio: 0.7},
	}
}

func TestBuildDims(t *testing.T) {
	cfg := testConfig(t)
	a, err := Build(cfg)
	require.NoError(t, err)

	m, n := a.Dims()
	assert.Equal(t, len(cfg.Points), m)
	assert.Equal(t, len(cfg.Tendons), n)
}

func TestEntriesAreCompressive(t *testing.T) {
	a, err := Build(testConfig(t))
	require.NoError(t, err)

	m, n := a.Dims()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			assert.Negative(t, a.At(i, j), "entry (%d,%d)", i, j)
		}
	}
}

func TestNearestTendonDominates(t *testing.T) {
	cfg := testConfig(t)
	a, err := Build(cfg)
	require.NoError(t, err)

	for i, p := range cfg.Points {
		best := 0
		for j, td := range cfg.Tendons {
			if math.Abs(p.X-td.X) < math.Abs(p.X-cfg.Tendons[best].X) {
				best = j
			}
		}
		for j := range cfg.Tendons {
			if j == best {
				continue
			}
			assert.LessOrEqual(t, math.Abs(a.At(i, j)), math.Abs(a.At(i, best))+1e-12,
				"point %d: tendon %d closer than %d but weaker", i, best, j)
		}
	}
}

func TestLinearityScaling(t *testing.T) {
	cfg := testConfig(t)
	a, err := Build(cfg)
	require.NoError(t, err)

	n := len(cfg.Tendons)
	counts := make([]float64, n)
	for j := range counts {
		counts[j] = float64(j + 1)
	}
	doubled := make([]float64, n)
	for j := range doubled {
		doubled[j] = 2 * counts[j]
	}

	one, err := a.Apply(counts)
	require.NoError(t, err)
	two, err := a.Apply(doubled)
	require.NoError(t, err)

	for i := range one {
		assert.InDelta(t, 2*one[i], two[i], 1e-9)
	}
}

func TestLinearitySuperposition(t *testing.T) {
	cfg := testConfig(t)
	a, err := Build(cfg)
	require.NoError(t, err)

	n := len(cfg.Tendons)
	u := make([]float64, n)
	v := make([]float64, n)
	sum := make([]float64, n)
	for j := range u {
		u[j] = float64(j%3) + 0.5
		v[j] = float64(n - j)
		sum[j] = u[j] + v[j]
	}

	su, err := a.Apply(u)
	require.NoError(t, err)
	sv, err := a.Apply(v)
	require.NoError(t, err)
	ssum, err := a.Apply(sum)
	require.NoError(t, err)

	for i := range su {
		assert.InDelta(t, su[i]+sv[i], ssum[i], 1e-9)
	}
}

func TestSingleStrandEntry(t *testing.T) {
	// A control point directly over an undraped tendon sees exactly the base
	// stress: F / (t · 1 m), with no lateral decay and no drape amplifier.
	geom := slab.Geometry{Lx: 3, Ly: 3, Thickness: 0.4, Cover: 0.05}
	cfg := Config{
		Slab:    geom,
		Points:  []slab.ControlPoint{{X: 1.5, Y: 1.5, MinStress: -20, MaxStress: 0}},
		Tendons: []tendon.Tendon{{Tag: "T1", X: 1.5, Length: 3, EccMax: 0, MaxStrands: 10}},
		Strand:  tendon.Strand{Area: 150, UltimateStress: 1860, JackingRatio: 0.7},
	}
	a, err := Build(cfg)
	require.NoError(t, err)

	// 195.3 kN over 0.4 m² = 488.25 kPa = 0.48825 MPa, compressive.
	assert.InDelta(t, -0.48825, a.At(0, 0), 1e-9)
}

func TestBuildConfigErrors(t *testing.T) {
	base := testConfig(t)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no control points", func(c *Config) { c.Points = nil }},
		{"no tendons", func(c *Config) { c.Tendons = nil }},
		{"degenerate geometry", func(c *Config) { c.Slab.Thickness = 0 }},
		{"invalid strand", func(c *Config) { c.Strand.Area = 0 }},
		{"negative decay", func(c *Config) { c.LateralDecay = -1 }},
		{"duplicate control point", func(c *Config) {
			c.Points = append(c.Points, c.Points[0])
		}},
		{"control point outside slab", func(c *Config) {
			c.Points = append(c.Points, slab.ControlPoint{X: 9, Y: 6, MinStress: -15, MaxStress: 0})
		}},
		{"inverted point bounds", func(c *Config) {
			c.Points = append(c.Points, slab.ControlPoint{X: 4, Y: 4, MinStress: 1, MaxStress: -1})
		}},
		{"tendon outside slab", func(c *Config) {
			c.Tendons = append(c.Tendons, tendon.Tendon{Tag: "TX", X: 8.5, Length: 12, EccMax: 0.1, MaxStrands: 10})
		}},
		{"tendon longer than span", func(c *Config) {
			c.Tendons = append(c.Tendons, tendon.Tendon{Tag: "TX", X: 4, Length: 13, EccMax: 0.1, MaxStrands: 10})
		}},
		{"drape exceeds usable eccentricity", func(c *Config) {
			c.Tendons = append(c.Tendons, tendon.Tendon{Tag: "TX", X: 4, Length: 12, EccMax: 0.2, MaxStrands: 10})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.Points = append([]slab.ControlPoint(nil), base.Points...)
			cfg.Tendons = append([]tendon.Tendon(nil), base.Tendons...)
			tc.mutate(&cfg)

			_, err := Build(cfg)
			assert.Error(t, err)
		})
	}
}

func TestApplyLengthMismatch(t *testing.T) {
	a, err := Build(testConfig(t))
	require.NoError(t, err)

	_, err = a.Apply([]float64{1, 2, 3})
	assert.Error(t, err)
}
