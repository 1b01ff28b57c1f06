package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rccheck/internal/api"
	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/diagram"
	"github.com/alexiusacademia/rccheck/internal/report"
)

var (
	reportFile    string
	reportRow     int
	reportView    string
	reportDiagram string
	reportASCII   bool
	reportOutput  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the calculation report of one section",
	Long: `Print the full calculation report of one row of a calculation sheet.

The report derives every intermediate value of the flexure, shear and
serviceability checks. Views:
  total     all three checks followed by a summary of the row result
  flexure   flexure with axial force
  shear     concrete and stirrup shear strength
  service   steel stress and crack-control bar spacing

Examples:
  rccheck report -f beams.yaml --row 2
  rccheck report -f beams.xlsx --fck 27 --fy 400 --view flexure --ascii
  rccheck report -f beams.json --row 1 --diagram out/B1.png`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportFile, "file", "f", "", "Input file (.json, .yaml or .xlsx)")
	reportCmd.Flags().IntVarP(&reportRow, "row", "r", 1, "Row to report (1-based position in the file)")
	reportCmd.Flags().StringVar(&reportView, "view", report.ViewTotal, "Report view: total, flexure, shear or service")
	reportCmd.Flags().StringVar(&reportDiagram, "diagram", "", "Export section and strain diagrams to this image file (.png, .svg, .jpg)")
	reportCmd.Flags().BoolVar(&reportASCII, "ascii", false, "Print ASCII section and strain diagrams")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "text", "Output format: text or json")
	addMaterialFlags(reportCmd)

	reportCmd.MarkFlagRequired("file")
}

func runReport(cmd *cobra.Command, args []string) error {
	req, err := api.LoadFile(reportFile)
	if err != nil {
		return err
	}
	applyMaterialFlags(cmd, &req.Material)

	if reportRow < 1 || reportRow > len(req.Rows) {
		return fmt.Errorf("row %d out of range (file has %d rows)", reportRow, len(req.Rows))
	}
	row := req.Rows[reportRow-1]

	eval, err := beam.Evaluate(req.Material, row)
	if err != nil {
		return fmt.Errorf("%s: %w", row.Label(), err)
	}
	bundle := report.Render(eval)

	if reportOutput == "json" {
		return printJSON(os.Stdout, bundle)
	}
	if reportOutput != "text" {
		return fmt.Errorf("unknown output format %q (want text or json)", reportOutput)
	}

	text, err := bundle.View(reportView)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(colorVerdicts(text))

	data := diagram.FromEvaluation(eval)
	if reportASCII {
		fmt.Print(diagram.DrawSectionDiagram(data))
		fmt.Print(diagram.DrawStrainDiagram(data))
	}

	if reportDiagram != "" {
		if err := diagram.ExportSectionDiagram(data, reportDiagram); err != nil {
			return fmt.Errorf("failed to export section diagram: %w", err)
		}
		strainFile := strainFilename(reportDiagram)
		if err := diagram.ExportStrainDiagram(data, strainFile); err != nil {
			return fmt.Errorf("failed to export strain diagram: %w", err)
		}
		fmt.Println()
		fmt.Printf("  Diagrams saved: %s, %s\n", reportDiagram, strainFile)
	}
	fmt.Println()
	return nil
}

// strainFilename derives the strain diagram file from the section diagram file
func strainFilename(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_strain" + ext
}
