package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/goptslab/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goptslab",
	Short: "Post-Tensioned Slab Strand Optimizer",
	Long: `goptslab - Go Post-Tensioned Slab Strand Optimizer

A CLI tool for early-stage post-tensioned slab design iterations.

Given slab geometry, a candidate tendon layout and service loads, the tool
assembles a linear influence matrix mapping strand counts to stresses at a
grid of control points, then solves a linear program for the minimum total
prestressing steel that keeps every control point within its allowable
stress range.

Outputs are preliminary quantities for value engineering and require
independent code-based verification before use in construction documents.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   goptslab v%-46s║\n", version.Version)
		fmt.Println("  ║   Go Post-Tensioned Slab Strand Optimizer                 ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for optimizing strand counts in post-tensioned")
		fmt.Println("  concrete slabs.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Influence matrix assembly from slab and tendon geometry")
		fmt.Println("    • Minimum-steel strand counts via linear programming")
		fmt.Println("    • ACI 318 allowable service stress limits")
		fmt.Println("    • Steel mass takeoff against a full-capacity baseline")
		fmt.Println("    • ASCII and image diagrams of layout and stress fields")
		fmt.Println()
		fmt.Println("  Use 'goptslab --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
