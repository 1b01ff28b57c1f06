package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rccheck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rccheck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rccheck v%s\n", version.Version)
		fmt.Println("Reinforced Concrete Beam Section Check")
		fmt.Println("Based on KDS 14 20 (strength design of concrete structures)")
		if version.GitCommit != "unknown" {
			fmt.Printf("commit %s, built %s\n", version.GitCommit, version.BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
