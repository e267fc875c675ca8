package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/goptslab/internal/aci"
	"github.com/alexiusacademia/goptslab/internal/diagram"
	"github.com/alexiusacademia/goptslab/internal/influence"
	"github.com/alexiusacademia/goptslab/internal/optimizer"
	"github.com/alexiusacademia/goptslab/internal/slab"
	"github.com/alexiusacademia/goptslab/internal/tendon"
	"github.com/spf13/cobra"
)

var (
	// Geometry inputs (m)
	optLx        float64
	optLy        float64
	optThickness float64
	optCover     float64

	// Loads (kPa)
	optLive float64
	optSDL  float64

	// Materials
	optFc         float64
	optStrandArea float64
	optStrandFpu  float64
	optJacking    float64

	// Tendon layout
	optSpacing    float64
	optMaxStrands float64
	optEccFactor  float64

	// Control grid and bounds
	optPoints     int
	optMaxTension float64
	optClassU     bool

	// Objective
	optWeightByLength bool

	// Output options
	optShowDiagram bool
	optLayoutFile  string
	optStressFile  string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize strand counts for a post-tensioned slab",
	Long: `Compute the minimum total strand count per tendon for a rectangular
post-tensioned slab panel under uniform service loads.

The tool lays out draped tendons spanning the long direction, assembles the
influence matrix mapping unit strand counts to stresses at a grid of control
points, and solves a linear program keeping the combined stress at every
control point within its allowable range.

The default configuration is an 8 x 12 m panel, 400 mm thick, with 15.2 mm
strands (150 mm², fpu 1860 MPa) jacked to 0.70 fpu at 1.0 m tendon spacing.

Examples:
  # Default 8x12 m panel
  goptslab optimize

  # Thinner slab with heavier live load and ASCII diagram
  goptslab optimize --thickness 0.30 --live 7.5 --diagram

  # Class U tension limit instead of full compression, export layout chart
  goptslab optimize --class-u -o layout.png`,
	Run: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	// Geometry flags
	optimizeCmd.Flags().Float64Var(&optLx, "lx", 8.0, "Slab plan width, tendons spaced along this side (m)")
	optimizeCmd.Flags().Float64Var(&optLy, "ly", 12.0, "Slab span, tendons run along this side (m)")
	optimizeCmd.Flags().Float64VarP(&optThickness, "thickness", "t", 0.40, "Slab thickness (m)")
	optimizeCmd.Flags().Float64VarP(&optCover, "cover", "c", 0.05, "Cover to tendon centroid (m)")

	// Load flags
	optimizeCmd.Flags().Float64VarP(&optLive, "live", "l", 5.0, "Live load (kPa)")
	optimizeCmd.Flags().Float64Var(&optSDL, "sdl", 0, "Superimposed dead load (kPa)")

	// Material flags
	optimizeCmd.Flags().Float64Var(&optFc, "fc", 35, "Concrete compressive strength f'c (MPa)")
	optimizeCmd.Flags().Float64Var(&optStrandArea, "strand-area", 150, "Strand cross-section area (mm²)")
	optimizeCmd.Flags().Float64Var(&optStrandFpu, "strand-fpu", 1860, "Strand ultimate stress fpu (MPa)")
	optimizeCmd.Flags().Float64Var(&optJacking, "jacking", 0.70, "Jacking stress as a fraction of fpu")

	// Layout flags
	optimizeCmd.Flags().Float64VarP(&optSpacing, "spacing", "s", 1.0, "Tendon spacing (m)")
	optimizeCmd.Flags().Float64VarP(&optMaxStrands, "max-strands", "n", 10, "Maximum strands per tendon")
	optimizeCmd.Flags().Float64Var(&optEccFactor, "ecc-factor", 1.0, "Fraction of the usable drape eccentricity")

	// Control grid and stress bounds
	optimizeCmd.Flags().IntVarP(&optPoints, "points", "p", 400, "Target control point count")
	optimizeCmd.Flags().Float64Var(&optMaxTension, "max-tension", 0, "Allowable tension at control points (MPa)")
	optimizeCmd.Flags().BoolVar(&optClassU, "class-u", false, "Use the ACI Class U tension limit 0.62·√f'c instead of --max-tension")

	// Objective
	optimizeCmd.Flags().BoolVar(&optWeightByLength, "weight-by-length", false, "Weight the objective by tendon length (steel volume) instead of plain strand count")

	// Output options
	optimizeCmd.Flags().BoolVar(&optShowDiagram, "diagram", false, "Show ASCII drape profile and strand count chart")
	optimizeCmd.Flags().StringVarP(&optLayoutFile, "output", "o", "", "Export tendon layout bar chart to file (png, svg, pdf)")
	optimizeCmd.Flags().StringVar(&optStressFile, "stress-output", "", "Export combined stress heat map to file (png, svg, pdf)")
}

func runOptimize(cmd *cobra.Command, args []string) {
	geom := slab.Geometry{Lx: optLx, Ly: optLy, Thickness: optThickness, Cover: optCover}
	if err := geom.Validate(); err != nil {
		fail(err)
	}

	strand := tendon.Strand{Area: optStrandArea, UltimateStress: optStrandFpu, JackingRatio: optJacking}

	maxTension := optMaxTension
	if optClassU {
		maxTension = aci.AllowableTension(optFc)
	}
	minStress := aci.AllowableCompression(optFc)

	q := geom.SelfWeight() + optSDL + optLive
	sigmaMax := geom.MidspanStress(q)

	pts, err := geom.ControlGrid(optPoints, minStress, maxTension)
	if err != nil {
		fail(err)
	}
	loads := geom.LoadStresses(q, pts)

	eccMax := optEccFactor * geom.MaxEccentricity()
	tendons, err := tendon.UniformLayout(geom.Lx, optSpacing, geom.Ly, eccMax, optMaxStrands)
	if err != nil {
		fail(err)
	}

	matrix, err := influence.Build(influence.Config{
		Slab:    geom,
		Points:  pts,
		Tendons: tendons,
		Strand:  strand,
	})
	if err != nil {
		fail(err)
	}

	var weights []float64
	if optWeightByLength {
		weights = make([]float64, len(tendons))
		for j, t := range tendons {
			weights[j] = t.Length
		}
	}
	problem := optimizer.NewProblem(matrix, loads, pts, tendons, weights)

	// Print header
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     POST-TENSIONED SLAB STRAND OPTIMIZATION - ACI 318-19")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	// Input summary
	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Slab Plan (Lx x Ly):\t%.1f x %.1f m\n", geom.Lx, geom.Ly)
	fmt.Fprintf(w, "  Thickness (t):\t%.0f mm\n", geom.Thickness*1000)
	fmt.Fprintf(w, "  Cover to Tendon:\t%.0f mm\n", geom.Cover*1000)
	fmt.Fprintf(w, "  f'c:\t%.1f MPa\n", optFc)
	fmt.Fprintf(w, "  Self Weight:\t%.2f kPa\n", geom.SelfWeight())
	fmt.Fprintf(w, "  Superimposed Dead Load:\t%.2f kPa\n", optSDL)
	fmt.Fprintf(w, "  Live Load:\t%.2f kPa\n", optLive)
	fmt.Fprintf(w, "  Total Service Load (q):\t%.2f kPa\n", q)
	fmt.Fprintf(w, "  Strand:\t%.0f mm², fpu %.0f MPa, jacked at %.0f%%\n", strand.Area, strand.UltimateStress, strand.JackingRatio*100)
	fmt.Fprintf(w, "  Effective Force per Strand:\t%.1f kN\n", strand.Force())
	fmt.Fprintf(w, "  Tendon Spacing:\t%.2f m (%d tendons)\n", optSpacing, len(tendons))
	fmt.Fprintf(w, "  Drape Eccentricity (e0):\t%.3f m\n", eccMax)
	fmt.Fprintf(w, "  Max Strands per Tendon:\t%.0f\n", optMaxStrands)
	w.Flush()
	fmt.Println()

	// Control grid and stress bounds
	fmt.Println("CONTROL GRID AND STRESS BOUNDS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Control Points:\t%d\n", len(pts))
	fmt.Fprintf(w, "  Estimated Midspan Stress:\t%.2f MPa (tension)\n", sigmaMax)
	fmt.Fprintf(w, "  Allowable Tension:\t%.2f MPa\n", maxTension)
	fmt.Fprintf(w, "  Allowable Compression:\t%.2f MPa (0.45 f'c)\n", minStress)
	w.Flush()
	fmt.Println()

	// Precheck at full capacity
	fmt.Println("PRECHECK (ALL TENDONS AT MAX STRANDS):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	violations, err := problem.Precheck()
	if err != nil {
		fail(err)
	}
	if len(violations) > 0 {
		fmt.Printf("  ✗ %d of %d control points exceed the tension limit even at\n", len(violations), len(pts))
		fmt.Println("    full capacity. The available post-tensioning cannot satisfy")
		fmt.Println("    the stress criteria across the slab.")
		fmt.Println()
		fmt.Println("    Consider more strands per tendon, closer tendon spacing,")
		fmt.Println("    a shorter span, or a thicker slab.")
		fmt.Println()
		os.Exit(1)
	}
	fmt.Println("  ✓ All stress bounds attainable with every tendon at capacity.")
	fmt.Println()

	// Solve
	solution, err := problem.Solve()
	if err != nil {
		switch {
		case errors.Is(err, optimizer.ErrInfeasible):
			fmt.Println("RESULT:")
			fmt.Println("───────────────────────────────────────────────────────────────")
			fmt.Println("  ✗ INFEASIBLE: no strand layout satisfies the stress bounds.")
			fmt.Println("    The compression and tension limits exclude every solution")
			fmt.Println("    under the given loads.")
			fmt.Println()
			os.Exit(1)
		case errors.Is(err, optimizer.ErrSolverFailure):
			fmt.Println("RESULT:")
			fmt.Println("───────────────────────────────────────────────────────────────")
			fmt.Printf("  ✗ SOLVER FAILURE: %v\n", err)
			fmt.Println("    The problem was not proven infeasible; the solver could")
			fmt.Println("    not finish. Try a coarser control grid.")
			fmt.Println()
			os.Exit(1)
		default:
			fail(err)
		}
	}

	rounded := solution.Rounded
	afterRounding, err := problem.Verify(rounded, optimizer.DefaultTol)
	if err != nil {
		fail(err)
	}

	// Per-tendon results
	fmt.Println("OPTIMIZED STRAND COUNTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Tendon\tPosition (m)\tLP Count\tStrands\tForce (kN)\n")
	fmt.Fprintf(w, "  ──────\t────────────\t────────\t───────\t──────────\n")
	for j, t := range tendons {
		fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%.0f\t%.0f\n",
			t.Tag, t.X, solution.Counts[j], rounded[j], rounded[j]*strand.Force())
	}
	w.Flush()
	fmt.Println()

	if len(afterRounding) > 0 {
		fmt.Printf("  ⚠ %d stress bounds violated after rounding up to whole strands.\n", len(afterRounding))
	} else {
		fmt.Println("  ✓ All stress bounds satisfied after rounding.")
	}
	fmt.Println()

	// Mass takeoff against the full-capacity baseline
	var roundedTotal float64
	for _, r := range rounded {
		roundedTotal += r
	}
	fullTotal := optMaxStrands * float64(len(tendons))
	fullCounts := make([]float64, len(tendons))
	for j := range fullCounts {
		fullCounts[j] = optMaxStrands
	}
	massOpt := tendon.TotalMass(tendons, rounded, strand)
	massFull := tendon.TotalMass(tendons, fullCounts, strand)
	reduction := 0.0
	if massFull > 0 {
		reduction = (1 - massOpt/massFull) * 100
	}

	fmt.Println("STEEL MASS COMPARISON:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Full Capacity:\t%.0f strands\t%.1f kg\n", fullTotal, massFull)
	fmt.Fprintf(w, "  Optimized:\t%.0f strands\t%.1f kg\n", roundedTotal, massOpt)
	w.Flush()
	fmt.Println()

	fmt.Print(diagram.DrawSummaryBox("OPTIMIZATION RESULT", []string{
		fmt.Sprintf("Total strands: %.0f of %.0f available", roundedTotal, fullTotal),
		fmt.Sprintf("Steel mass:    %.1f kg", massOpt),
		fmt.Sprintf("Reduction:     %.1f%% vs full capacity", reduction),
	}))
	fmt.Println()

	if optShowDiagram {
		positions := make([]float64, len(tendons))
		for j, t := range tendons {
			positions[j] = t.X
		}
		fmt.Print(diagram.DrawDrapeProfile(geom.Thickness, eccMax, geom.Ly))
		fmt.Println()
		fmt.Println(diagram.StrandCountChart(positions, rounded))

		combined, err := problem.CombinedStress(rounded)
		if err == nil {
			fmt.Println(diagram.SpanStressChart(midspanProfile(pts, combined),
				"Combined stress along midspan line (MPa)"))
			fmt.Println()
		}
	}

	if optLayoutFile != "" {
		positions := make([]float64, len(tendons))
		for j, t := range tendons {
			positions[j] = t.X
		}
		if err := diagram.ExportLayoutDiagram(positions, rounded, optLayoutFile); err != nil {
			fmt.Printf("Error exporting layout diagram: %v\n", err)
		} else {
			fmt.Printf("  Layout diagram saved to %s\n", optLayoutFile)
		}
	}

	if optStressFile != "" {
		combined, err := problem.CombinedStress(rounded)
		if err != nil {
			fail(err)
		}
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i] = p.X
			ys[i] = p.Y
		}
		if err := diagram.ExportStressField(xs, ys, combined, "Combined Stress (MPa)", optStressFile); err != nil {
			fmt.Printf("Error exporting stress field: %v\n", err)
		} else {
			fmt.Printf("  Stress field saved to %s\n", optStressFile)
		}
	}
}

// midspanProfile extracts the combined stress across the slab width at the
// grid line closest to midspan.
func midspanProfile(pts []slab.ControlPoint, combined []float64) []float64 {
	if len(pts) == 0 {
		return nil
	}

	// The grid is symmetric, so the mean y is the midspan line.
	mid := 0.0
	for _, p := range pts {
		mid += p.Y
	}
	mid /= float64(len(pts))

	bestY := pts[0].Y
	closest := math.Inf(1)
	for _, p := range pts {
		if d := math.Abs(p.Y - mid); d < closest {
			closest = d
			bestY = p.Y
		}
	}

	var out []float64
	for i, p := range pts {
		if math.Abs(p.Y-bestY) < 1e-9 {
			out = append(out, combined[i])
		}
	}
	return out
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
