package slab

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goptslab/internal/aci"
)

// Edge offset for control points and tendon anchor zones (m). Stresses right
// at the slab edge are dominated by anchorage effects the linear influence
// model does not capture.
const EdgeOffset = 0.5

// Geometry represents a rectangular post-tensioned slab panel.
// Tendons span the Ly direction.
type Geometry struct {
	Lx        float64 // plan width (m)
	Ly        float64 // span length (m)
	Thickness float64 // slab thickness (m)
	Cover     float64 // concrete cover to tendon centroid (m)
}

// Validate checks the geometry for degenerate configurations.
func (g Geometry) Validate() error {
	if g.Lx <= 0 || g.Ly <= 0 {
		return fmt.Errorf("degenerate slab plan: Lx=%.3f m, Ly=%.3f m", g.Lx, g.Ly)
	}
	if g.Thickness <= 0 {
		return fmt.Errorf("invalid slab thickness: t=%.3f m", g.Thickness)
	}
	if g.Cover < 0 || g.Cover >= g.Thickness/2 {
		return fmt.Errorf("cover %.3f m leaves no usable eccentricity in a %.3f m slab", g.Cover, g.Thickness)
	}
	if g.Lx <= 2*EdgeOffset || g.Ly <= 2*EdgeOffset {
		return fmt.Errorf("slab plan %.2f x %.2f m too small for %.1f m edge offsets", g.Lx, g.Ly, EdgeOffset)
	}
	return nil
}

// MaxEccentricity is the largest usable tendon drape from the section
// centroid (m).
func (g Geometry) MaxEccentricity() float64 {
	return g.Thickness/2 - g.Cover
}

// SectionModulus of a 1 m design strip: S = b t² / 6 (m³).
func (g Geometry) SectionModulus() float64 {
	return g.Thickness * g.Thickness / 6
}

// SelfWeight is the slab dead load per plan area (kPa).
func (g Geometry) SelfWeight() float64 {
	return aci.GammaConcrete * g.Thickness
}

// MidspanStress estimates the extreme fiber bending stress (MPa, tension
// positive) at midspan of a simply supported 1 m strip spanning Ly under a
// uniform area load q (kPa). M = q Ly² / 8, sigma = M / S.
func (g Geometry) MidspanStress(q float64) float64 {
	m := q * g.Ly * g.Ly / 8 // kN-m per metre strip
	return m / g.SectionModulus() / 1000
}

// ControlPoint is a location where the combined stress is checked against
// allowable limits (MPa, compression negative).
type ControlPoint struct {
	X, Y      float64 // plan coordinates (m)
	MinStress float64 // compression-side limit
	MaxStress float64 // tension-side limit
}

// ControlGrid lays out approximately target control points on a regular grid
// inset EdgeOffset from the slab boundary. Grid counts are forced odd so a
// line of points passes through midspan in both directions.
func (g Geometry) ControlGrid(target int, minStress, maxStress float64) ([]ControlPoint, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if target < 1 {
		return nil, fmt.Errorf("control point target must be positive, got %d", target)
	}
	if minStress > maxStress {
		return nil, fmt.Errorf("stress bounds inverted: min=%.2f > max=%.2f MPa", minStress, maxStress)
	}

	aspect := g.Lx / g.Ly
	ny := int(math.Sqrt(float64(target) / aspect))
	if ny < 1 {
		ny = 1
	}
	if ny%2 == 0 {
		ny++
	}
	nx := target / ny
	if nx < 1 {
		nx = 1
	}
	if nx%2 == 0 {
		nx++
	}

	xs := linspace(EdgeOffset, g.Lx-EdgeOffset, nx)
	ys := linspace(EdgeOffset, g.Ly-EdgeOffset, ny)

	pts := make([]ControlPoint, 0, nx*ny)
	for _, x := range xs {
		for _, y := range ys {
			pts = append(pts, ControlPoint{X: x, Y: y, MinStress: minStress, MaxStress: maxStress})
		}
	}
	return pts, nil
}

// LoadStresses evaluates the service bending stress at each control point
// (MPa, tension positive). The one-way strip model gives a parabolic
// distribution along the span, peaking at midspan and vanishing at the
// supports.
func (g Geometry) LoadStresses(q float64, pts []ControlPoint) []float64 {
	sigmaMax := g.MidspanStress(q)
	mid := g.Ly / 2
	out := make([]float64, len(pts))
	for i, p := range pts {
		r := (p.Y - mid) / mid
		out[i] = sigmaMax * (1 - r*r)
	}
	return out
}

func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
