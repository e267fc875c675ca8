package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/goptslab/internal/aci"
	"github.com/spf13/cobra"
)

var limitsFc float64

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Print ACI 318 allowable service stresses for a concrete strength",
	Long: `Print the allowable extreme fiber stresses at service loads for
prestressed flexural members per ACI 318-19.

Compression limits follow Table 24.5.4.1; tension limits for Class U and
transition (Class T) members follow Table 24.5.2.1. Compression is reported
as a negative stress.

Examples:
  goptslab limits --fc 35
  goptslab limits --fc 50`,
	Run: runLimits,
}

func init() {
	rootCmd.AddCommand(limitsCmd)

	limitsCmd.Flags().Float64Var(&limitsFc, "fc", 35, "Concrete compressive strength f'c (MPa)")
}

func runLimits(cmd *cobra.Command, args []string) {
	if limitsFc <= 0 {
		fmt.Printf("Error: invalid concrete strength f'c=%.2f MPa\n", limitsFc)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     ACI 318-19 ALLOWABLE SERVICE STRESSES")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Concrete Strength (f'c):\t%.1f MPa\n", limitsFc)
	w.Flush()
	fmt.Println()

	fmt.Println("COMPRESSION (Table 24.5.4.1):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Prestress + sustained load (0.45 f'c):\t%.2f MPa\n", aci.AllowableCompression(limitsFc))
	fmt.Fprintf(w, "  Prestress + total load (0.60 f'c):\t%.2f MPa\n", aci.AllowableCompressionTotal(limitsFc))
	w.Flush()
	fmt.Println()

	fmt.Println("TENSION (Table 24.5.2.1):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Class U, uncracked (0.62 √f'c):\t%.2f MPa\n", aci.AllowableTension(limitsFc))
	fmt.Fprintf(w, "  Class T, transition (1.0 √f'c):\t%.2f MPa\n", aci.AllowableTensionClassT(limitsFc))
	w.Flush()
	fmt.Println()
}
