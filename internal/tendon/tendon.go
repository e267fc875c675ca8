package tendon

import (
	"fmt"

	"github.com/alexiusacademia/goptslab/internal/aci"
	"github.com/alexiusacademia/goptslab/internal/slab"
)

// Strand represents one prestressing strand.
type Strand struct {
	Area           float64 // cross-section area (mm²)
	UltimateStress float64 // fpu (MPa)
	JackingRatio   float64 // fraction of fpu applied at jacking
}

// Validate checks the strand properties.
func (s Strand) Validate() error {
	if s.Area <= 0 {
		return fmt.Errorf("invalid strand area: %.1f mm²", s.Area)
	}
	if s.UltimateStress <= 0 {
		return fmt.Errorf("invalid strand ultimate stress: %.1f MPa", s.UltimateStress)
	}
	if s.JackingRatio <= 0 || s.JackingRatio > 0.8 {
		return fmt.Errorf("jacking ratio %.2f outside (0, 0.80]", s.JackingRatio)
	}
	return nil
}

// Force is the effective prestress force per strand (kN).
func (s Strand) Force() float64 {
	return s.Area * s.UltimateStress * s.JackingRatio / 1e3
}

// MassPerMetre is the steel mass of one strand per metre of tendon (kg/m).
func (s Strand) MassPerMetre() float64 {
	return s.Area * 1e-6 * aci.SteelDensity
}

// Tendon is a draped prestressing element spanning the slab in the y
// direction at a fixed plan position.
type Tendon struct {
	Tag        string
	X          float64 // plan position across the slab width (m)
	Length     float64 // span along y (m)
	EccMax     float64 // midspan drape eccentricity (m)
	MaxStrands float64 // strand count upper bound
}

// Eccentricity evaluates the parabolic drape profile at position y along the
// span: e(y) = 4 e0 (y/L)(1 - y/L). Zero at the anchors, EccMax at midspan.
func (t Tendon) Eccentricity(y float64) float64 {
	r := y / t.Length
	return 4 * t.EccMax * r * (1 - r)
}

// UniformLayout places tendons at constant spacing across the slab width,
// starting at the fixed anchor-zone edge offset regardless of spacing.
func UniformLayout(lx, spacing, length, eccMax float64, maxStrands float64) ([]Tendon, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("invalid tendon spacing: %.2f m", spacing)
	}
	if maxStrands < 1 {
		return nil, fmt.Errorf("max strands per tendon must be at least 1, got %.1f", maxStrands)
	}
	var tendons []Tendon
	i := 0
	for x := slab.EdgeOffset; x <= lx-slab.EdgeOffset+1e-9; x += spacing {
		tendons = append(tendons, Tendon{
			Tag:        fmt.Sprintf("T%d", i+1),
			X:          x,
			Length:     length,
			EccMax:     eccMax,
			MaxStrands: maxStrands,
		})
		i++
	}
	if len(tendons) == 0 {
		return nil, fmt.Errorf("spacing %.2f m places no tendons in a %.2f m wide slab", spacing, lx)
	}
	return tendons, nil
}

// TotalMass is the steel mass (kg) of a layout carrying the given strand
// counts.
func TotalMass(tendons []Tendon, counts []float64, s Strand) float64 {
	var mass float64
	for j, t := range tendons {
		mass += counts[j] * t.Length * s.MassPerMetre()
	}
	return mass
}
