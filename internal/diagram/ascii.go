package diagram

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// StrandCountChart renders the optimized strand counts across the slab width
// as a terminal chart, one series point per tendon ordered by plan position.
func StrandCountChart(positions, counts []float64) string {
	if len(counts) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(asciigraph.Plot(counts,
		asciigraph.Height(10),
		asciigraph.Caption("Strands per tendon across slab width"),
	))
	sb.WriteString("\n\n  Tendon positions (m): ")
	for i, x := range positions {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%.1f", x)
	}
	sb.WriteString("\n")
	return sb.String()
}

// SpanStressChart renders a stress profile along the span as a terminal
// chart.
func SpanStressChart(stresses []float64, caption string) string {
	if len(stresses) == 0 {
		return ""
	}
	return asciigraph.Plot(stresses,
		asciigraph.Height(10),
		asciigraph.Caption(caption),
	)
}

// DrawDrapeProfile creates an ASCII elevation of the tendon drape within the
// slab depth. The tendon sits at the centroid over the anchors and drops to
// the maximum eccentricity at midspan.
func DrawDrapeProfile(thickness, eccMax, span float64) string {
	var sb strings.Builder

	widthChars := 48
	heightChars := 8

	sb.WriteString("\n")
	sb.WriteString("  TENDON DRAPE (elevation)\n")
	sb.WriteString("  ────────────────────────\n\n")
	sb.WriteString(fmt.Sprintf("  ┌%s┐ ─ top\n", strings.Repeat("─", widthChars)))

	// Eccentricity in character rows below the centroid line.
	centroidRow := heightChars / 2
	for row := 0; row < heightChars; row++ {
		line := make([]rune, widthChars)
		for c := range line {
			line[c] = ' '
		}
		for c := 0; c < widthChars; c++ {
			r := float64(c) / float64(widthChars-1)
			e := 4 * eccMax * r * (1 - r)
			tendonRow := centroidRow + int(e/(thickness/2)*float64(heightChars/2)+0.5)
			if tendonRow == row {
				line[c] = '●'
			} else if row == centroidRow && line[c] == ' ' {
				line[c] = '·'
			}
		}
		sb.WriteString(fmt.Sprintf("  │%s│", string(line)))
		if row == centroidRow {
			sb.WriteString(" ─ centroid")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("  └%s┘ ─ soffit\n", strings.Repeat("─", widthChars)))
	sb.WriteString(fmt.Sprintf("\n  Span L = %.1f m, e(L/2) = %.3f m, t = %.2f m\n", span, eccMax, thickness))

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len(title)
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
