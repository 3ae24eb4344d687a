package main

import (
	"image"
	"image/color"
	"strconv"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"
	"gioui.org/x/component"
)

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

// layoutClipboard tabulates the workspace selection in clipboard order,
// one row per line with its position, label, and a stroke-color swatch.
func (ui *UI) layoutClipboard(gtx C) D {
	lines := ui.sel.Selection()
	tbl := component.Table(ui.th, &ui.clipGrid)
	cols := 3
	longest := material.Body1(ui.th, "Color")
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	longestDims, _ := rec(gtx, func(gtx C) D {
		return layout.UniformInset(2).Layout(gtx, longest.Layout)
	})
	flexedColumns := 1
	rigidColumns := cols - flexedColumns
	gtx.Constraints = origConstraints
	return tbl.Layout(gtx, len(lines), cols, func(axis layout.Axis, index, constraint int) int {
		if axis == layout.Vertical {
			return min(longestDims.Size.Y, constraint)
		}
		if index == 1 {
			return (constraint - (longestDims.Size.X * rigidColumns)) / flexedColumns
		}
		return longestDims.Size.X
	},
		func(gtx C, index int) D {
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, ui.th.ContrastBg, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				func(gtx C) D {
					l := material.Body1(ui.th, "")
					l.MaxLines = 1
					l.Color = ui.th.ContrastFg
					switch index {
					case 0:
						l.Text = "#"
						l.Alignment = text.End
					case 1:
						l.Text = "Series"
					case 2:
						l.Text = "Color"
					}
					return l.Layout(gtx)
				},
			)
		},
		func(gtx C, row, col int) D {
			ln := lines[row]
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					c := color.NRGBA{R: 100, G: 100, B: 100, A: 0}
					if row&1 == 0 {
						c.A += 50
					}
					paint.FillShape(gtx.Ops, c, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				func(gtx C) D {
					switch col {
					case 0:
						l := material.Body1(ui.th, strconv.Itoa(row+1))
						l.Alignment = text.End
						l.MaxLines = 1
						return l.Layout(gtx)
					case 1:
						l := material.Body1(ui.th, ln.Label())
						l.MaxLines = 1
						return l.Layout(gtx)
					default:
						return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
							paint.FillShape(gtx.Ops, ln.Style().StrokeColor(), clip.Rect{Max: gtx.Constraints.Min}.Op())
							return D{Size: gtx.Constraints.Min}
						})
					}
				},
			)
		},
	)
}
