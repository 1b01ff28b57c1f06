package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	stressFill  = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	stressEdge  = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	axisColor   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	rebarColor  = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	strainColor = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	yieldColor  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// ExportSectionDiagram exports the section with its stress block and bars
// to an image file. The format follows the extension (.png, .svg, .jpg);
// anything else is saved as PNG.
func ExportSectionDiagram(data SectionData, filename string) error {
	p := plot.New()
	p.Title.Text = "Beam Section Analysis"
	p.X.Label.Text = "Width (mm)"
	p.Y.Label.Text = "Height (mm)"

	outline, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: data.Width, Y: 0},
		{X: data.Width, Y: data.Height},
		{X: 0, Y: data.Height},
		{X: 0, Y: 0},
	})
	if err != nil {
		return err
	}
	outline.LineStyle.Width = vg.Points(2)
	outline.LineStyle.Color = color.Black
	p.Add(outline)

	if data.StressBlockDepth > 0 {
		block, err := plotter.NewPolygon(plotter.XYs{
			{X: 0, Y: data.Height},
			{X: data.Width, Y: data.Height},
			{X: data.Width, Y: data.Height - data.StressBlockDepth},
			{X: 0, Y: data.Height - data.StressBlockDepth},
		})
		if err != nil {
			return err
		}
		block.Color = stressFill
		block.LineStyle.Color = stressEdge
		p.Add(block)
	}

	naY := data.Height - data.NeutralAxisDepth
	naLine, err := plotter.NewLine(plotter.XYs{
		{X: -20, Y: naY},
		{X: data.Width + 20, Y: naY},
	})
	if err != nil {
		return err
	}
	naLine.LineStyle.Width = vg.Points(1.5)
	naLine.LineStyle.Color = axisColor
	naLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(naLine)

	steelY := data.Height - data.Depth
	if pts := barPositions(data, steelY); len(pts) > 0 {
		bars, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		bars.GlyphStyle.Color = rebarColor
		bars.GlyphStyle.Radius = vg.Points(5)
		bars.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(bars)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: []plotter.XY{
			{X: data.Width + 30, Y: naY},
			{X: data.Width + 30, Y: data.Height - data.StressBlockDepth/2},
			{X: data.Width / 2, Y: steelY - 25},
		},
		Labels: []string{
			"N.A.",
			fmt.Sprintf("a=%.1fmm", data.StressBlockDepth),
			fmt.Sprintf("D%d-%d (As=%.0fmm²)", data.BarDia, data.BarCount, data.SteelArea),
		},
	})
	if err != nil {
		return err
	}
	p.Add(labels)

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// barPositions spaces the tension bars evenly between the side covers
func barPositions(data SectionData, y float64) plotter.XYs {
	if data.BarCount <= 0 {
		return nil
	}
	if data.BarCount == 1 {
		return plotter.XYs{{X: data.Width / 2, Y: y}}
	}
	left := 40 + float64(data.BarDia)/2
	step := (data.Width - 2*left) / float64(data.BarCount-1)
	pts := make(plotter.XYs, data.BarCount)
	for i := range pts {
		pts[i] = plotter.XY{X: left + float64(i)*step, Y: y}
	}
	return pts
}

// ExportStrainDiagram exports a strain distribution diagram
func ExportStrainDiagram(data SectionData, filename string) error {
	p := plot.New()
	p.Title.Text = "Strain Distribution"
	p.X.Label.Text = "Strain"
	p.Y.Label.Text = "Depth from top (mm)"

	// Depth increases downward
	p.Y.Min = data.Height
	p.Y.Max = 0

	pts := plotter.XYs{
		{X: data.EpsilonCU, Y: 0},
		{X: 0, Y: data.NeutralAxisDepth},
		{X: -data.EpsilonT, Y: data.Depth},
	}
	strainLine, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	strainLine.LineStyle.Width = vg.Points(2)
	strainLine.LineStyle.Color = strainColor
	p.Add(strainLine)

	zeroLine, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: 0, Y: data.Height},
	})
	if err != nil {
		return err
	}
	zeroLine.LineStyle.Width = vg.Points(1)
	zeroLine.LineStyle.Color = color.Gray{Y: 128}
	zeroLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zeroLine)

	for _, x := range []float64{data.EpsilonY, -data.EpsilonY} {
		yieldLine, err := plotter.NewLine(plotter.XYs{
			{X: x, Y: 0},
			{X: x, Y: data.Height},
		})
		if err != nil {
			return err
		}
		yieldLine.LineStyle.Color = yieldColor
		yieldLine.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(yieldLine)
	}

	keyPoints, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	keyPoints.GlyphStyle.Color = axisColor
	keyPoints.GlyphStyle.Radius = vg.Points(4)
	p.Add(keyPoints)

	return save(p, 6*vg.Inch, 8*vg.Inch, filename)
}

func save(p *plot.Plot, w, h vg.Length, filename string) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".jpg", ".jpeg":
	default:
		filename += ".png"
	}
	return p.Save(w, h, filename)
}
