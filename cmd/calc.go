package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rccheck/internal/api"
	"github.com/alexiusacademia/rccheck/internal/batch"
	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/section"
)

var (
	calcFile    string
	calcStdin   bool
	calcOutput  string
	calcWorkers int
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Check every row of a calculation sheet",
	Long: `Check the rows of a calculation sheet against one material.

Rows with H or B equal to zero are skipped. Each remaining row reports the
required and provided tension steel, their ratio (provided / required),
the design moment Mr and the steel stress fs under the service moment.

Input files:
  .json / .yaml   {material: {fck, fy}, rows: [...]}
  .xlsx           first sheet, header row naming the columns
                  id, name, Mu, Vu, Nu, Ms, H, B, Dc,
                  as_dia, as_num, av_dia, av_leg, av_space
                  (material from --fck and --fy)

Units: Mu, Ms in kN-m; Vu, Nu in kN (Nu positive in compression);
H, B, Dc, diameters and spacing in mm.

With --stdin the command reads one JSON request from standard input and
writes the JSON response to standard output. A request with
"mode": "report" returns the calculation report of its single row.
On failure it writes [{"error": "..."}].

Examples:
  rccheck calc -f beams.yaml
  rccheck calc -f beams.xlsx --fck 35 --fy 400 -o json
  echo '{"material":{"fck":35,"fy":400},"rows":[...]}' | rccheck calc --stdin`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringVarP(&calcFile, "file", "f", "", "Input file (.json, .yaml or .xlsx)")
	calcCmd.Flags().BoolVar(&calcStdin, "stdin", false, "Read a JSON request from stdin and write JSON to stdout")
	calcCmd.Flags().StringVarP(&calcOutput, "output", "o", "human", "Output format: human, json or yaml")
	calcCmd.Flags().IntVar(&calcWorkers, "workers", 0, "Rows evaluated at once (default: number of CPUs)")
	addMaterialFlags(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ev := batch.Evaluator{Workers: calcWorkers}

	if calcStdin {
		return runCalcStdin(ctx, ev)
	}
	if calcFile == "" {
		return fmt.Errorf("an input file is required (use -f or --stdin)")
	}

	req, err := api.LoadFile(calcFile)
	if err != nil {
		return err
	}
	applyMaterialFlags(cmd, &req.Material)

	entries, err := api.Calc(ctx, ev, req)
	if err != nil {
		return err
	}

	switch calcOutput {
	case "json":
		if entries == nil {
			entries = []batch.Entry{}
		}
		return printJSON(os.Stdout, entries)
	case "yaml":
		return printYAML(os.Stdout, entries)
	case "human":
		printCalcTable(req, entries)
		return nil
	}
	return fmt.Errorf("unknown output format %q (want human, json or yaml)", calcOutput)
}

// runCalcStdin serves one request in the calling program's subprocess
// protocol: every outcome, including failures, is JSON on stdout.
func runCalcStdin(ctx context.Context, ev batch.Evaluator) error {
	enc := json.NewEncoder(os.Stdout)

	req, err := api.DecodeJSON(os.Stdin)
	if err != nil {
		return enc.Encode([]api.ErrorResponse{{Error: err.Error()}})
	}
	out, err := api.Handle(ctx, ev, req)
	if err != nil {
		return enc.Encode([]api.ErrorResponse{{Error: err.Error()}})
	}
	if entries, ok := out.([]batch.Entry); ok && entries == nil {
		out = []batch.Entry{}
	}
	return enc.Encode(out)
}

func printCalcTable(req api.Request, entries []batch.Entry) {
	printHeader("RC BEAM SECTION CHECK (KDS 14 20)")

	fmt.Println("MATERIAL:")
	fmt.Println(lightRule)
	fmt.Printf("  fck = %.1f MPa, fy = %.1f MPa", req.Material.Fck, req.Material.Fy)
	if f, ok := batch.DisplayFactors(entries); ok {
		fmt.Printf(", φf = %.2f, φv = %.2f", f.PhiF, f.PhiV)
	}
	fmt.Println()
	fmt.Println()

	pairs, err := batch.Merge(req.Rows, entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	fmt.Println("RESULTS:")
	fmt.Println(lightRule)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID\tName\tAs,req (mm²)\tAs,used (mm²)\tAs ratio\tMr (kN-m)\tfs (MPa)\tFlexure\n")
	fmt.Fprintf(w, "  ──\t────\t────────────\t─────────────\t────────\t─────────\t────────\t───────\n")

	checked, skipped, failed := 0, 0, 0
	for _, p := range pairs {
		if p.Entry == nil {
			skipped++
			continue
		}
		checked++
		e := p.Entry
		if e.Error {
			failed++
			fmt.Fprintf(w, "  %d\t%s\t%s\n", e.ID, p.Row.Label(), ngColor.Sprint("ERROR: "+e.Reason))
			continue
		}
		fmt.Fprintf(w, "  %d\t%s\t%.3f\t%.3f\t%s\t%.3f\t%.3f\t%s\n",
			e.ID, p.Row.Label(), e.AsReq, e.AsUsed, ratioCell(e.Result), e.Mr, e.Fs, flexureVerdict(p.Row, e.Result))
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("  %d rows checked, %d failed, %d skipped (H or B is zero)\n", checked, failed, skipped)
	fmt.Println()
}

func ratioCell(r *beam.Result) string {
	if r.RatioUndefined {
		return "-"
	}
	return fmt.Sprintf("%.3f", r.AsRatio)
}

// flexureVerdict compares the design moment with the factored moment of the row
func flexureVerdict(row section.Input, r *beam.Result) string {
	return verdict(r.Mr >= math.Abs(float64(row.Mu)))
}
