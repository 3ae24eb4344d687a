// Package gioplot draws chart surfaces as Gio widgets with zoom, pan,
// hover inspection, and click picking.
package gioplot

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~whereswaldon/linesel/chart"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// minZoom bounds how far scrolling can shrink the visible fraction of the
// data's X extent.
const minZoom = 0.01

// ChartView presents one surface: grid, lines, markers, axis labels, and
// legend. It owns the zoom/pan viewport state and translates pointer
// presses over a line into surface pick events.
//
// ChartView methods must run on the window's event goroutine.
type ChartView struct {
	surface *chart.Surface

	zoom   gesture.Scroll
	pan    gesture.Scroll
	panBar widget.Scrollbar
	// zoomFactor is the fraction of the full X extent that is visible.
	zoomFactor float64
	// panOffset shifts the right edge of the viewport away from the
	// newest data, in data units. It is never positive.
	panOffset float64

	legendTable component.GridState

	// paths holds the screen-space geometry of the current frame, reused
	// as scratch across frames.
	paths []screenPath

	// PickRadius is the maximum pointer distance, in dp, at which a
	// press or hover associates with a line.
	PickRadius unit.Dp

	pos       f32.Point
	isHovered bool
	pressed   bool
	pressPos  f32.Point
}

// NewChartView returns a view of surface showing its full data extent.
func NewChartView(surface *chart.Surface) *ChartView {
	return &ChartView{
		surface:    surface,
		zoomFactor: 1,
		PickRadius: 8,
	}
}

// Surface returns the surface this view draws.
func (c *ChartView) Surface() *chart.Surface {
	return c.surface
}

// Update processes pointer events for hover tracking and press picking.
// Layout invokes it, but it is safe to call earlier in the same frame.
func (c *ChartView) Update(gtx C) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move | pointer.Press,
		})
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case pointer.Event:
			switch ev.Kind {
			case pointer.Enter:
				c.isHovered = true
				c.pos = ev.Position
			case pointer.Leave, pointer.Cancel:
				c.isHovered = false
			case pointer.Move:
				c.pos = ev.Position
			case pointer.Press:
				if ev.Buttons == pointer.ButtonPrimary {
					c.pressed = true
					c.pressPos = ev.Position
				}
			}
		}
	}
}

// Layout draws the chart into the current constraints.
func (c *ChartView) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	if _, _, _, _, ok := c.surface.DataBounds(); !ok {
		return D{Size: gtx.Constraints.Max}
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}

	// Measure a representative label to reserve space for the axes.
	macro := op.Record(gtx.Ops)
	axisLabelDims := material.Body1(th, strconv.FormatFloat(0, 'f', 3, 64)).Layout(gtx)
	_ = macro.Stop()

	var titleDims D
	var titleCall op.CallOp
	if title := c.surface.Title(); title != "" {
		l := material.H6(th, title)
		l.Alignment = text.Middle
		gtx.Constraints.Min.X = origConstraints.Max.X
		titleDims, titleCall = rec(gtx, l.Layout)
		gtx.Constraints.Min = image.Point{}
	}

	var legendDims D
	var legendCall op.CallOp
	if c.surface.LegendVisible() {
		entries := c.surface.LegendEntries()
		gtx.Constraints.Min.X = origConstraints.Max.X
		gtx.Constraints.Max.Y = origConstraints.Max.Y / 3
		legendDims, legendCall = rec(gtx, func(gtx C) D {
			return c.layoutLegend(gtx, th, entries)
		})
		gtx.Constraints = origConstraints
		gtx.Constraints.Min = image.Point{}
	}

	// Lay out the plot in the remaining space after accounting for axis
	// labels, the title, and the legend.
	gtx.Constraints = origConstraints.SubMax(image.Point{
		X: axisLabelDims.Size.Y * 2,
		Y: axisLabelDims.Size.Y,
	}.Add(image.Pt(0, titleDims.Size.Y+legendDims.Size.Y)))
	macro = op.Record(gtx.Ops)
	plotDims, sc := c.layoutPlot(gtx, th)
	plotCall := macro.Stop()
	gtx.Constraints = origConstraints

	minDomainLabel := material.Body1(th, formatTick(sc.xMin))
	maxDomainLabel := material.Body1(th, formatTick(sc.xMax))
	xAxisLabel := material.Body2(th, axisText(c.surface.XLabel(), "spans", sc.xMax-sc.xMin))
	xAxisLabel.MaxLines = 1
	xAxisLabel.Alignment = text.Middle
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			titleCall.Add(gtx.Ops)
			return titleDims
		}),
		layout.Flexed(1, func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceBetween}.Layout(gtx,
						layout.Flexed(1, func(gtx C) D {
							gtx.Constraints.Min = image.Point{}
							gtx.Constraints.Max.X = axisLabelDims.Size.Y * 2
							return c.layoutYAxis(gtx, th, sc)
						}),
						layout.Rigid(func(gtx C) D {
							return D{Size: image.Point{
								X: axisLabelDims.Size.Y * 2,
								Y: axisLabelDims.Size.Y,
							}}
						}),
					)
				}),
				layout.Flexed(1, func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceBetween}.Layout(gtx,
						layout.Flexed(1, func(gtx C) D {
							plotCall.Add(gtx.Ops)
							return plotDims
						}),
						layout.Rigid(func(gtx C) D {
							return layout.Flex{
								Axis:      layout.Horizontal,
								Alignment: layout.Baseline,
							}.Layout(gtx,
								layout.Rigid(minDomainLabel.Layout),
								layout.Flexed(1, xAxisLabel.Layout),
								layout.Rigid(maxDomainLabel.Layout),
							)
						}),
					)
				}),
			)
		}),
		layout.Rigid(func(gtx C) D {
			legendCall.Add(gtx.Ops)
			return legendDims
		}),
	)
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func axisText(name string, metric string, v float64) string {
	if name == "" {
		return fmt.Sprintf("%s %.4g", metric, v)
	}
	return fmt.Sprintf("%s (%s %.4g)", name, metric, v)
}

func (c *ChartView) layoutPlot(gtx C, th *material.Theme) (dims D, sc scale) {
	xmin, xmax, ymin, ymax, _ := c.surface.DataBounds()

	dist := c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6))
	if dist != 0 {
		proportion := 1 + float64(dist)/float64(gtx.Constraints.Max.Y)
		c.zoomFactor = min(max(c.zoomFactor*proportion, minZoom), 1)
	}
	totalSpan := xmax - xmin
	span := totalSpan * c.zoomFactor
	if span <= 0 {
		span = 1
	}
	var panned float64
	dist = c.pan.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Horizontal, image.Rect(-1e6, 0, 1e6, 0))
	if dist != 0 {
		if widthDp := gtx.Metric.PxToDp(gtx.Constraints.Max.X); widthDp > 0 {
			panned += float64(gtx.Metric.PxToDp(dist)) / float64(widthDp) * span
		}
	}
	if barDist := c.panBar.ScrollDistance(); barDist != 0 {
		panned += float64(barDist) * totalSpan
	}
	if panned != 0 {
		if end := xmax + c.panOffset + panned; end >= xmin && end <= xmax {
			c.panOffset += panned
		}
	}
	viewMax := xmax + c.panOffset
	if viewMax > xmax {
		viewMax = xmax
	}
	viewMin := viewMax - span
	pad := (ymax - ymin) * .05
	if pad == 0 {
		pad = 1
	}
	sc = scale{
		xMin: viewMin,
		xMax: viewMax,
		yMin: ymin - pad,
		yMax: ymax + pad,
		size: gtx.Constraints.Max,
	}
	var vpStart, vpEnd float32
	if totalSpan > 0 {
		vpStart = float32(max((viewMin-xmin)/totalSpan, 0))
		vpEnd = float32((viewMax - xmin) / totalSpan)
	} else {
		vpStart, vpEnd = 0, 1
	}

	dims = layout.Stack{Alignment: layout.S}.Layout(gtx,
		layout.Stacked(func(gtx C) D {
			defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
			c.pan.Add(gtx.Ops)
			c.zoom.Add(gtx.Ops)
			event.Op(gtx.Ops, c)
			// Draw the grid underneath the data.
			c.layoutGrid(gtx, sc)
			c.buildPaths(sc)
			for i := range c.paths {
				sp := &c.paths[i]
				paintPolyline(gtx, sp.pts, sp.style)
				for _, pt := range sp.markers {
					paintMarker(gtx, pt, sp.style)
				}
			}
			if c.pressed {
				c.pressed = false
				if sp := c.nearestPath(c.pressPos, float32(gtx.Dp(c.PickRadius)), true); sp != nil {
					c.surface.DispatchPick(sp.line)
				}
			}
			if c.isHovered {
				c.layoutHover(gtx, th, sc)
			}
			return D{Size: gtx.Constraints.Max}
		}),
		layout.Expanded(func(gtx C) D {
			scrollbar := material.Scrollbar(th, &c.panBar)
			scrollbar.Track.MajorPadding = 0
			scrollbar.Track.MinorPadding = 0
			scrollbar.Indicator.CornerRadius = 0
			scrollbar.Indicator.Color.A = 100
			return scrollbar.Layout(gtx, layout.Horizontal, vpStart, vpEnd)
		}),
	)
	return dims, sc
}

func (c *ChartView) layoutGrid(gtx C, sc scale) {
	oneDp := float32(gtx.Dp(1))
	step := niceStep(sc.yMax-sc.yMin, 8)
	for i := 0; ; i++ {
		v := firstTick(sc.yMin, step) + float64(i)*step
		if v > sc.yMax {
			break
		}
		y := int(sc.project(0, v).Y)
		a := uint8(50)
		if v == 0 {
			a = 100
		}
		paint.FillShape(gtx.Ops, color.NRGBA{A: a}, clip.Rect{
			Min: image.Point{Y: y},
			Max: image.Point{X: gtx.Constraints.Max.X, Y: y + int(oneDp)},
		}.Op())
	}
	step = niceStep(sc.xMax-sc.xMin, 10)
	for i := 0; ; i++ {
		v := firstTick(sc.xMin, step) + float64(i)*step
		if v > sc.xMax {
			break
		}
		x := int(sc.project(v, 0).X)
		a := uint8(50)
		if v == 0 {
			a = 100
		}
		paint.FillShape(gtx.Ops, color.NRGBA{A: a}, clip.Rect{
			Min: image.Point{X: x},
			Max: image.Point{X: x + int(oneDp), Y: gtx.Constraints.Max.Y},
		}.Op())
	}
}

func (c *ChartView) layoutHover(gtx C, th *material.Theme, sc scale) {
	sp := c.nearestPath(c.pos, float32(gtx.Dp(c.PickRadius)), false)
	if sp == nil {
		return
	}
	// Re-stroke the hovered line wider and translucent so it stands out.
	halo := sp.style
	halo.Width += 3
	halo.Alpha *= .4
	halo.Dashes = nil
	paintPolyline(gtx, sp.pts, halo)

	dataX, dataY := sc.invert(c.pos)
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	hoverInfoMacro := op.Record(gtx.Ops)
	hoverInfoDims := layout.Background{}.Layout(gtx,
		func(gtx C) D {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 150}, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return D{Size: gtx.Constraints.Min}
		},
		func(gtx C) D {
			return layout.UniformInset(10).Layout(gtx, func(gtx C) D {
				return layout.Flex{
					Axis:      layout.Vertical,
					Alignment: layout.End,
				}.Layout(gtx,
					layout.Rigid(func(gtx C) D {
						return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
							layout.Rigid(material.Body2(th, hoverName(sp.style)).Layout),
							layout.Rigid(layout.Spacer{Width: 8}.Layout),
							layout.Rigid(func(gtx C) D {
								size := image.Pt(gtx.Dp(8), gtx.Dp(8))
								paint.FillShape(gtx.Ops, sp.style.StrokeColor(), clip.Ellipse{Max: size}.Op(gtx.Ops))
								return D{Size: size}
							}),
						)
					}),
					layout.Rigid(material.Body2(th, fmt.Sprintf("%.4g, %.4g", dataX, dataY)).Layout),
				)
			})
		},
	)
	hoverInfoCall := hoverInfoMacro.Stop()
	gtx.Constraints = origConstraints

	xR := float32(math.Ceil(float64(c.pos.X)))
	xL := xR - float32(gtx.Dp(1))
	pos := image.Point{}
	if int(xL) > gtx.Constraints.Max.X-int(xR) {
		pos.X = max(int(xL)-hoverInfoDims.Size.X, 0)
	} else {
		pos.X = min(int(xR), gtx.Constraints.Max.X-hoverInfoDims.Size.X)
	}
	if offscreenY := gtx.Constraints.Max.Y - (int(c.pos.Y) + hoverInfoDims.Size.Y); offscreenY < 0 {
		pos.Y = int(c.pos.Y) + offscreenY
	} else {
		pos.Y = int(c.pos.Y)
	}
	transform := op.Offset(pos).Push(gtx.Ops)
	hoverInfoCall.Add(gtx.Ops)
	transform.Pop()
}

func hoverName(style chart.LineStyle) string {
	if style.Label != "" {
		return style.Label
	}
	return "unnamed series"
}

func (c *ChartView) layoutYAxis(gtx C, th *material.Theme, sc scale) D {
	origConstraints := gtx.Constraints
	// Flip X and Y to draw the axis horizontally, then rotate it into
	// place.
	gtx.Constraints.Max.X, gtx.Constraints.Max.Y = gtx.Constraints.Max.Y, gtx.Constraints.Max.X
	gtx.Constraints.Min = image.Point{}

	step := niceStep(sc.yMax-sc.yMin, 8)
	label := material.Body1(th, formatTick(sc.yMax))
	maxLabelDims, _ := rec(gtx, label.Layout)
	gap := gtx.Dp(10)

	axisMacro := op.Record(gtx.Ops)
	yAxisLabel := material.Body2(th, axisText(c.surface.YLabel(), "grid", step))
	yAxisLabel.MaxLines = 1
	axisDims := layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Rigid(yAxisLabel.Layout),
		layout.Rigid(func(gtx C) D {
			usedX := 0
			maxX := gtx.Constraints.Max.X
			for i := 0; ; i++ {
				v := firstTick(sc.yMin, step) + float64(i)*step
				if v > sc.yMax {
					break
				}
				posX := gtx.Constraints.Max.X - int(sc.project(0, v).Y)
				label.Text = formatTick(v)
				labelDims, labelCall := rec(gtx, label.Layout)
				if posX-labelDims.Size.X/2 < usedX+gap {
					continue
				}
				if posX+labelDims.Size.X/2 > maxX {
					break
				}
				stack := op.Offset(image.Point{X: posX - labelDims.Size.X/2}).Push(gtx.Ops)
				labelCall.Add(gtx.Ops)
				stack.Pop()
				usedX = posX + labelDims.Size.X/2
			}
			return D{Size: image.Point{
				X: gtx.Constraints.Max.X,
				Y: maxLabelDims.Size.Y,
			}}
		}),
	)
	axisCall := axisMacro.Stop()

	halfAxisHeight := float32(axisDims.Size.Y) * .5
	defer op.Affine(
		f32.Affine2D{}.
			Rotate(f32.Pt(halfAxisHeight, halfAxisHeight), -math.Pi/2).
			Offset(f32.Point{Y: float32(gtx.Constraints.Max.X - axisDims.Size.Y)}),
	).Push(gtx.Ops).Pop()
	axisCall.Add(gtx.Ops)

	return D{Size: origConstraints.Max}
}

func (c *ChartView) layoutLegend(gtx C, th *material.Theme, entries []chart.LegendEntry) D {
	table := component.Table(th, &c.legendTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	sampleColWidth := gtx.Dp(50)
	labelColWidth := gtx.Constraints.Max.X - sampleColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		sampleCol = iota
		labelCol
		numCols
	)
	return table.Layout(gtx, len(entries), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case sampleCol:
				size = sampleColWidth
			case labelCol:
				size = labelColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case sampleCol:
				l = material.Body1(th, "Key")
			case labelCol:
				l = material.Body1(th, "Series")
				l.Alignment = text.Middle
			default:
				l = material.Body1(th, "???")
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			entry := entries[row]
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case sampleCol:
					return layout.Center.Layout(gtx, func(gtx C) D {
						return layoutLineSample(gtx, entry)
					})
				case labelCol:
					return material.Body2(th, entry.Label).Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
			if row&1 != 0 {
				stripe := entry.Color
				stripe.A = 50
				paint.FillShape(gtx.Ops, stripe, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}

// layoutLineSample draws a short stretch of line in the entry's color and
// width with the entry's marker glyph over its midpoint.
func layoutLineSample(gtx C, entry chart.LegendEntry) D {
	size := image.Pt(gtx.Dp(40), gtx.Dp(12))
	mid := float32(size.Y) / 2
	style := chart.LineStyle{
		Width:      entry.Width,
		Color:      entry.Color,
		Alpha:      1,
		Visible:    true,
		Marker:     entry.Marker,
		MarkerSize: 6,
	}
	if style.Width <= 0 {
		style.Width = 1
	}
	paintPolyline(gtx, []f32.Point{f32.Pt(0, mid), f32.Pt(float32(size.X), mid)}, style)
	paintMarker(gtx, f32.Pt(float32(size.X)/2, mid), style)
	return D{Size: size}
}
