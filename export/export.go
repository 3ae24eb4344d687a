// Package export writes chart surfaces to image files through gonum's
// plot backends. The output format follows the file extension.
package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"git.sr.ht/~whereswaldon/linesel/chart"
)

// Save renders surface to path at a default size. The file format is
// chosen by path's extension (.png, .pdf, .svg, ...).
func Save(surface *chart.Surface, path string) error {
	return SaveSize(surface, 8*vg.Inch, 6*vg.Inch, path)
}

// SaveSize renders surface to path at the given dimensions.
func SaveSize(surface *chart.Surface, width, height vg.Length, path string) error {
	p, err := Build(surface)
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("could not save chart: %w", err)
	}
	return nil
}

// Build converts surface into a gonum plot. Callers needing sizing or
// formats beyond Save can adjust the plot and save it themselves.
func Build(surface *chart.Surface) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = surface.Title()
	p.X.Label.Text = surface.XLabel()
	p.Y.Label.Text = surface.YLabel()
	grid := plotter.NewGrid()
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(grid)
	legend := surface.LegendVisible()
	for _, ln := range surface.Lines() {
		style := ln.Style()
		if !style.Visible || ln.Len() == 0 {
			continue
		}
		line, scatter, err := seriesPlotters(ln, style)
		if err != nil {
			return nil, err
		}
		var thumbs []plot.Thumbnailer
		if line != nil {
			p.Add(line)
			thumbs = append(thumbs, line)
		}
		if scatter != nil {
			p.Add(scatter)
			thumbs = append(thumbs, scatter)
		}
		if legend && style.Label != "" && len(thumbs) > 0 {
			p.Legend.Add(style.Label, thumbs...)
		}
	}
	return p, nil
}

// seriesPlotters converts one line into its stroke and marker plotters.
// Either may be nil when the style disables it. Cap and join styles have
// no gonum equivalent and are dropped.
func seriesPlotters(ln *chart.Line, style chart.LineStyle) (*plotter.Line, *plotter.Scatter, error) {
	xs, ys := ln.Data()
	var line *plotter.Line
	if style.Width > 0 {
		var err error
		line, err = plotter.NewLine(xyPoints(xs, ys))
		if err != nil {
			return nil, nil, fmt.Errorf("could not plot series %q: %w", style.Label, err)
		}
		line.LineStyle = draw.LineStyle{
			Color:  style.StrokeColor(),
			Width:  vg.Points(float64(style.Width)),
			Dashes: dashLengths(style.Dashes),
		}
		line.StepStyle = stepKind(style.DrawStyle)
	}
	var scatter *plotter.Scatter
	if style.Marker != chart.MarkerNone {
		stride := style.Stride
		if stride < 1 {
			stride = 1
		}
		marks := make(plotter.XYs, 0, len(xs)/stride+1)
		for i := 0; i < len(xs); i += stride {
			marks = append(marks, plotter.XY{X: xs[i], Y: ys[i]})
		}
		var err error
		scatter, err = plotter.NewScatter(marks)
		if err != nil {
			return nil, nil, fmt.Errorf("could not mark series %q: %w", style.Label, err)
		}
		scatter.GlyphStyle = draw.GlyphStyle{
			Color:  style.MarkerFill(),
			Radius: vg.Points(float64(style.MarkerSize) / 2),
			Shape:  markerGlyph(style.Marker),
		}
	}
	return line, scatter, nil
}

func xyPoints(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func dashLengths(dashes []float32) []vg.Length {
	if len(dashes) == 0 {
		return nil
	}
	out := make([]vg.Length, len(dashes))
	for i, seg := range dashes {
		out[i] = vg.Points(float64(seg))
	}
	return out
}

func stepKind(d chart.DrawStyle) plotter.StepKind {
	switch d {
	case chart.DrawStepsPre:
		return plotter.PreStep
	case chart.DrawStepsMid:
		return plotter.MidStep
	case chart.DrawStepsPost:
		return plotter.PostStep
	default:
		return plotter.NoStep
	}
}

func markerGlyph(m chart.Marker) draw.GlyphDrawer {
	switch m {
	case chart.MarkerSquare:
		return draw.BoxGlyph{}
	case chart.MarkerTriangle:
		return draw.PyramidGlyph{}
	case chart.MarkerCross:
		return draw.CrossGlyph{}
	case chart.MarkerPlus:
		return draw.PlusGlyph{}
	default:
		return draw.CircleGlyph{}
	}
}
