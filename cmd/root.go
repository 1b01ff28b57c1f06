package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rccheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rccheck",
	Short: "Reinforced Concrete Beam Section Check",
	Long: `rccheck - Reinforced Concrete Beam Section Check

A CLI tool that checks rectangular reinforced concrete beam sections
by the strength design method (KDS 14 20).

For every row of a calculation sheet it performs:
  - Flexure check with axial force (required and provided steel, φMn)
  - Shear check of concrete and stirrups
  - Serviceability check of steel stress and crack-control bar spacing

Rows can be checked in batch, reported in full, or served over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   rccheck v%-47s║\n", version.Version)
		fmt.Println("  ║   Reinforced Concrete Beam Section Check                  ║")
		fmt.Printf("  ║   %-56s║\n", version.Author+" © "+version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Batch check of calculation sheet rows (JSON, YAML, XLSX)")
		fmt.Println("    • Full calculation report of a single section")
		fmt.Println("    • Factored moment from KDS load combinations")
		fmt.Println("    • HTTP endpoint for the calculation sheet")
		fmt.Println()
		fmt.Println("  Use 'rccheck --help' to see available commands.")
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
