package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rccheck/internal/diagram"
	"github.com/alexiusacademia/rccheck/internal/kds"
)

var (
	// Unfactored moments (kN-m)
	momentDead       float64
	momentLive       float64
	momentRoof       float64
	momentSnow       float64
	momentRain       float64
	momentWind       float64
	momentEarthquake float64

	showAll bool
)

var momentCmd = &cobra.Command{
	Use:   "moment",
	Short: "Calculate factored and service moments from KDS load combinations",
	Long: `Calculate the factored moment (Mu) and the service moment (Ms) of a
section from its unfactored moments, for the Mu and Ms columns of a
calculation sheet.

Load Types:
  D  - Dead load
  L  - Live load
  Lr - Roof live load
  S  - Snow load
  R  - Rain load
  W  - Wind load
  E  - Earthquake load

Examples:
  # Gravity loads
  rccheck moment --dead 50 --live 30

  # With wind load, showing every combination
  rccheck moment --dead 50 --live 30 --wind 20 --all`,
	RunE: runMoment,
}

func init() {
	rootCmd.AddCommand(momentCmd)

	momentCmd.Flags().Float64VarP(&momentDead, "dead", "d", 0, "Moment due to dead load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentLive, "live", "l", 0, "Moment due to live load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentRoof, "roof", "r", 0, "Moment due to roof live load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentSnow, "snow", "s", 0, "Moment due to snow load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentRain, "rain", "R", 0, "Moment due to rain load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentWind, "wind", "w", 0, "Moment due to wind load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentEarthquake, "earthquake", "e", 0, "Moment due to earthquake load (kN-m)")

	momentCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show all load combination results")
}

func runMoment(cmd *cobra.Command, args []string) error {
	moments := kds.LoadMoments{
		Dead:       momentDead,
		Live:       momentLive,
		Roof:       momentRoof,
		Snow:       momentSnow,
		Rain:       momentRain,
		Wind:       momentWind,
		Earthquake: momentEarthquake,
	}
	if moments.IsZero() {
		return fmt.Errorf("provide at least one unfactored moment (see 'rccheck moment --help')")
	}

	printHeader("KDS 41 10 15 FACTORED MOMENT CALCULATION")

	fmt.Println("UNFACTORED MOMENTS (kN-m):")
	fmt.Println(lightRule)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range []struct {
		label string
		value float64
	}{
		{"Dead Load (D)", moments.Dead},
		{"Live Load (L)", moments.Live},
		{"Roof Live Load (Lr)", moments.Roof},
		{"Snow Load (S)", moments.Snow},
		{"Rain Load (R)", moments.Rain},
		{"Wind Load (W)", moments.Wind},
		{"Earthquake Load (E)", moments.Earthquake},
	} {
		if m.value != 0 {
			fmt.Fprintf(w, "  %s:\t%.2f\n", m.label, m.value)
		}
	}
	w.Flush()
	fmt.Println()

	mu, governing := kds.GoverningMoment(moments, kds.StrengthCombinations)

	if showAll {
		fmt.Println("LOAD COMBINATIONS:")
		fmt.Println(lightRule)
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  #\tCombination\tMu (kN-m)\n")
		fmt.Fprintf(w, "  ─\t───────────\t─────────\n")
		for _, combo := range kds.StrengthCombinations {
			marker := ""
			if combo.ID == governing.ID {
				marker = " ← GOVERNS"
			}
			fmt.Fprintf(w, "  %s\t%s\t%.2f%s\n", combo.ID, combo.Description, combo.CalculateFactoredMoment(moments), marker)
		}
		w.Flush()
		fmt.Println()
	}

	fmt.Println("RESULT:")
	fmt.Println(lightRule)
	fmt.Printf("  Governing Combination: %s (%s)\n", governing.ID, governing.Description)
	fmt.Println()
	fmt.Print(diagram.DrawSummaryBox("DESIGN MOMENTS", []string{
		fmt.Sprintf("FACTORED MOMENT (Mu) = %.2f kN-m", mu),
		fmt.Sprintf("SERVICE MOMENT  (Ms) = %.2f kN-m  (%s)", kds.ServiceMoment(moments), kds.ServiceCombination.Description),
	}))
	fmt.Println()
	return nil
}
