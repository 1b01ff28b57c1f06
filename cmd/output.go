package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rccheck/internal/kds"
)

const (
	heavyRule = "═══════════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────────"
)

var (
	okColor = color.New(color.FgGreen, color.Bold)
	ngColor = color.New(color.FgRed, color.Bold)
)

// Material flags shared by calc and report
var (
	materialFck float64
	materialFy  float64
	materialMc  float64
)

func addMaterialFlags(c *cobra.Command) {
	c.Flags().Float64Var(&materialFck, "fck", 0, "Concrete compressive strength fck (MPa), overrides the file")
	c.Flags().Float64Var(&materialFy, "fy", 0, "Steel yield strength fy (MPa), overrides the file")
	c.Flags().Float64Var(&materialMc, "mc", 0, "Unit mass of concrete (kg/m³), default 2300")
}

// applyMaterialFlags overrides the material read from a file with the flags
// the user set. Workbooks carry no material, so the flags are their only source.
func applyMaterialFlags(c *cobra.Command, m *kds.Material) {
	if c.Flags().Changed("fck") {
		m.Fck = materialFck
	}
	if c.Flags().Changed("fy") {
		m.Fy = materialFy
	}
	if c.Flags().Changed("mc") {
		m.Mc = materialMc
	}
}

func printHeader(title string) {
	pad := (len([]rune(heavyRule)) - len([]rune(title))) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Println()
	fmt.Println(heavyRule)
	fmt.Println(strings.Repeat(" ", pad) + title)
	fmt.Println(heavyRule)
	fmt.Println()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// colorVerdicts highlights the O.K / N.G marks of a report
func colorVerdicts(text string) string {
	text = strings.ReplaceAll(text, "∴ O.K", okColor.Sprint("∴ O.K"))
	return strings.ReplaceAll(text, "∴ N.G", ngColor.Sprint("∴ N.G"))
}

func verdict(ok bool) string {
	if ok {
		return okColor.Sprint("O.K")
	}
	return ngColor.Sprint("N.G")
}
