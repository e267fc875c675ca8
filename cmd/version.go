package cmd

import (
	"fmt"

	"github.com/alexiusacademia/goptslab/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of goptslab",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("goptslab v%s\n", version.Version)
		fmt.Println("Post-Tensioned Slab Strand Optimizer")
		fmt.Println("Allowable stresses per ACI 318-19 (Building Code Requirements for Structural Concrete)")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
