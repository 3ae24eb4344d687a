package gioplot

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"gioui.org/f32"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/x/stroke"
	"git.sr.ht/~whereswaldon/linesel/chart"
)

// scale maps data coordinates onto plot pixels. Screen Y grows downward,
// so projection flips the Y axis.
type scale struct {
	xMin, xMax float64
	yMin, yMax float64
	size       image.Point
}

func (s scale) project(x, y float64) f32.Point {
	xInterval := s.xMax - s.xMin
	if xInterval == 0 {
		xInterval = 1
	}
	yInterval := s.yMax - s.yMin
	if yInterval == 0 {
		yInterval = 1
	}
	px := float32((x-s.xMin)/xInterval) * float32(s.size.X)
	py := float32(s.size.Y) - float32((y-s.yMin)/yInterval)*float32(s.size.Y)
	return f32.Pt(px, py)
}

func (s scale) invert(pt f32.Point) (x, y float64) {
	xInterval := s.xMax - s.xMin
	if xInterval == 0 {
		xInterval = 1
	}
	yInterval := s.yMax - s.yMin
	if yInterval == 0 {
		yInterval = 1
	}
	x = s.xMin + float64(pt.X)/float64(s.size.X)*xInterval
	y = s.yMin + (float64(s.size.Y)-float64(pt.Y))/float64(s.size.Y)*yInterval
	return x, y
}

// screenPath is one line's projected geometry for the current frame.
// markers holds the strided sample positions before any step expansion.
type screenPath struct {
	line    *chart.Line
	style   chart.LineStyle
	pts     []f32.Point
	markers []f32.Point
}

// buildPaths projects every visible line into screen space, reusing the
// previous frame's storage.
func (c *ChartView) buildPaths(sc scale) {
	old := c.paths
	c.paths = c.paths[:0]
	for _, ln := range c.surface.Lines() {
		style := ln.Style()
		if !style.Visible {
			continue
		}
		xs, ys := ln.Data()
		if len(xs) == 0 {
			continue
		}
		var sp screenPath
		if n := len(c.paths); n < len(old) {
			sp = old[n]
			sp.pts = sp.pts[:0]
			sp.markers = sp.markers[:0]
		}
		sp.line = ln
		sp.style = style
		for i := range xs {
			sp.pts = append(sp.pts, sc.project(xs[i], ys[i]))
		}
		if style.Marker != chart.MarkerNone {
			stride := style.Stride
			if stride < 1 {
				stride = 1
			}
			for i := 0; i < len(sp.pts); i += stride {
				sp.markers = append(sp.markers, sp.pts[i])
			}
		}
		sp.pts = expandSteps(sp.pts, style.DrawStyle)
		c.paths = append(c.paths, sp)
	}
}

// expandSteps inserts the corner points a step draw style needs between
// consecutive samples. The input slice is returned unchanged for ordinary
// line drawing.
func expandSteps(pts []f32.Point, style chart.DrawStyle) []f32.Point {
	if style == chart.DrawLine || len(pts) < 2 {
		return pts
	}
	out := make([]f32.Point, 0, len(pts)*2)
	out = append(out, pts[0])
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		switch style {
		case chart.DrawStepsPre:
			out = append(out, f32.Pt(prev.X, cur.Y))
		case chart.DrawStepsMid:
			mid := (prev.X + cur.X) / 2
			out = append(out, f32.Pt(mid, prev.Y), f32.Pt(mid, cur.Y))
		case chart.DrawStepsPost:
			out = append(out, f32.Pt(cur.X, prev.Y))
		}
		out = append(out, cur)
	}
	return out
}

// niceStep picks a gridline spacing that divides span into close to
// target intervals, rounded up to a 1/2/5 sequence.
func niceStep(span float64, target int) float64 {
	if span <= 0 || target < 1 {
		return 1
	}
	raw := span / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// firstTick returns the smallest multiple of step at or above min.
func firstTick(min, step float64) float64 {
	return math.Ceil(min/step) * step
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// paintPolyline strokes pts with every stroke attribute of style applied.
// Width and dash lengths are interpreted as dp.
func paintPolyline(gtx C, pts []f32.Point, style chart.LineStyle) {
	if len(pts) < 2 || style.Width <= 0 {
		return
	}
	segments := make([]stroke.Segment, 0, len(pts))
	segments = append(segments, stroke.MoveTo(pts[0]))
	for _, pt := range pts[1:] {
		segments = append(segments, stroke.LineTo(pt))
	}
	var dashes stroke.Dashes
	if len(style.Dashes) > 0 {
		dashes.Dashes = make([]float32, len(style.Dashes))
		for i, d := range style.Dashes {
			dashes.Dashes[i] = d * gtx.Metric.PxPerDp
		}
	}
	shape := stroke.Stroke{
		Path:   stroke.Path{Segments: segments},
		Width:  style.Width * gtx.Metric.PxPerDp,
		Cap:    strokeCap(style.Cap),
		Join:   strokeJoin(style.Join),
		Dashes: dashes,
	}
	paint.FillShape(gtx.Ops, style.StrokeColor(), shape.Op(gtx.Ops))
}

func strokeCap(c chart.CapStyle) stroke.StrokeCap {
	switch c {
	case chart.CapRound:
		return stroke.RoundCap
	case chart.CapSquare:
		return stroke.SquareCap
	default:
		return stroke.FlatCap
	}
}

// strokeJoin maps join styles onto the renderer's two supported joins.
// Miter joins fall back to bevels.
func strokeJoin(j chart.JoinStyle) stroke.StrokeJoin {
	switch j {
	case chart.JoinRound:
		return stroke.RoundJoin
	default:
		return stroke.BevelJoin
	}
}

// paintMarker draws the style's marker glyph centered on pt. MarkerSize
// is the glyph diameter in dp.
func paintMarker(gtx C, pt f32.Point, style chart.LineStyle) {
	if style.Marker == chart.MarkerNone || style.MarkerSize <= 0 {
		return
	}
	r := style.MarkerSize * gtx.Metric.PxPerDp / 2
	col := style.MarkerFill()
	bounds := image.Rect(int(pt.X-r), int(pt.Y-r), int(pt.X+r), int(pt.Y+r))
	switch style.Marker {
	case chart.MarkerCircle:
		paint.FillShape(gtx.Ops, col, clip.Ellipse(bounds).Op(gtx.Ops))
	case chart.MarkerSquare:
		paint.FillShape(gtx.Ops, col, clip.Rect(bounds).Op())
	case chart.MarkerTriangle:
		var p clip.Path
		p.Begin(gtx.Ops)
		p.MoveTo(f32.Pt(pt.X, pt.Y-r))
		p.LineTo(f32.Pt(pt.X+r, pt.Y+r))
		p.LineTo(f32.Pt(pt.X-r, pt.Y+r))
		p.Close()
		paint.FillShape(gtx.Ops, col, clip.Outline{Path: p.End()}.Op())
	case chart.MarkerCross:
		paintGlyphStrokes(gtx, col,
			[2]f32.Point{f32.Pt(pt.X-r, pt.Y-r), f32.Pt(pt.X+r, pt.Y+r)},
			[2]f32.Point{f32.Pt(pt.X-r, pt.Y+r), f32.Pt(pt.X+r, pt.Y-r)},
		)
	case chart.MarkerPlus:
		paintGlyphStrokes(gtx, col,
			[2]f32.Point{f32.Pt(pt.X-r, pt.Y), f32.Pt(pt.X+r, pt.Y)},
			[2]f32.Point{f32.Pt(pt.X, pt.Y-r), f32.Pt(pt.X, pt.Y+r)},
		)
	}
}

func paintGlyphStrokes(gtx C, col color.NRGBA, lines ...[2]f32.Point) {
	segments := make([]stroke.Segment, 0, len(lines)*2)
	for _, l := range lines {
		segments = append(segments, stroke.MoveTo(l[0]), stroke.LineTo(l[1]))
	}
	shape := stroke.Stroke{
		Path:  stroke.Path{Segments: segments},
		Width: 1.5 * gtx.Metric.PxPerDp,
	}
	paint.FillShape(gtx.Ops, col, shape.Op(gtx.Ops))
}
