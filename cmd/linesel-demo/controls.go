package main

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"gioui.org/layout"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"git.sr.ht/~whereswaldon/linesel/chart"
	"git.sr.ht/~whereswaldon/linesel/export"
)

// controls holds the widget state for the button rows.
type controls struct {
	selectAllBtn widget.Clickable
	deselectBtn  widget.Clickable
	clearBtn     widget.Clickable
	deleteBtn    widget.Clickable
	deleteAllBtn widget.Clickable
	undoBtn      widget.Clickable
	undoAllBtn   widget.Clickable
	pasteBtn     widget.Clickable

	colorBtn  widget.Clickable
	dashesBtn widget.Clickable
	markerBtn widget.Clickable
	stepsBtn  widget.Clickable
	widenBtn  widget.Clickable
	thinBtn   widget.Clickable
	fadeBtn   widget.Clickable
	toggleBtn widget.Clickable

	openBtn    widget.Clickable
	liveBtn    widget.Clickable
	legendBtn  widget.Clickable
	reverseBtn widget.Clickable
	exportBtn  widget.Clickable

	dashIdx   int
	markerIdx int
	stepIdx   int
	alphaIdx  int
}

var (
	dashPatterns = [][]float32{nil, {8, 4}, {2, 2}, {8, 4, 2, 4}}
	markers      = []chart.Marker{chart.MarkerNone, chart.MarkerCircle, chart.MarkerSquare, chart.MarkerTriangle, chart.MarkerCross, chart.MarkerPlus}
	stepModes    = []chart.DrawStyle{chart.DrawLine, chart.DrawStepsPre, chart.DrawStepsMid, chart.DrawStepsPost}
	alphaLevels  = []float32{0.6, 0.3, 1}
)

func (ui *UI) updateControls(gtx C) {
	if ui.selectAllBtn.Clicked(gtx) {
		ui.sel.SelectAll()
	}
	if ui.deselectBtn.Clicked(gtx) {
		ui.sel.UndoSelection()
	}
	if ui.clearBtn.Clicked(gtx) {
		ui.sel.ClearClipboard()
	}
	if ui.deleteBtn.Clicked(gtx) {
		ui.sel.DeleteSelection()
	}
	if ui.deleteAllBtn.Clicked(gtx) {
		ui.sel.DeleteAll()
	}
	if ui.undoBtn.Clicked(gtx) {
		ui.sel.UndoDelete()
	}
	if ui.undoAllBtn.Clicked(gtx) {
		ui.sel.UndoAllDeletes()
	}
	if ui.pasteBtn.Clicked(gtx) {
		ui.pasteSel = ui.sel.Paste(ui.pasteView.Surface())
	}
	if ui.colorBtn.Clicked(gtx) {
		ui.noteErr(ui.sel.SetAttrFunc(chart.AttrColor, func(ln *chart.Line, i int) any {
			return nextPaletteColor(ln.Color())
		}))
	}
	if ui.dashesBtn.Clicked(gtx) {
		ui.dashIdx = (ui.dashIdx + 1) % len(dashPatterns)
		ui.noteErr(ui.sel.SetAttr(chart.AttrDashes, dashPatterns[ui.dashIdx]))
	}
	if ui.markerBtn.Clicked(gtx) {
		ui.markerIdx = (ui.markerIdx + 1) % len(markers)
		ui.noteErr(ui.sel.SetAttr(chart.AttrMarker, markers[ui.markerIdx]))
	}
	if ui.stepsBtn.Clicked(gtx) {
		ui.stepIdx = (ui.stepIdx + 1) % len(stepModes)
		ui.noteErr(ui.sel.SetAttr(chart.AttrDrawStyle, stepModes[ui.stepIdx]))
	}
	if ui.widenBtn.Clicked(gtx) {
		ui.noteErr(ui.sel.SetAttrFunc(chart.AttrWidth, func(ln *chart.Line, i int) any {
			return ln.Width() + 0.5
		}))
	}
	if ui.thinBtn.Clicked(gtx) {
		ui.noteErr(ui.sel.SetAttrFunc(chart.AttrWidth, func(ln *chart.Line, i int) any {
			w := ln.Width() - 0.5
			if w < 0.5 {
				w = 0.5
			}
			return w
		}))
	}
	if ui.fadeBtn.Clicked(gtx) {
		ui.noteErr(ui.sel.SetAttr(chart.AttrAlpha, alphaLevels[ui.alphaIdx]))
		ui.alphaIdx = (ui.alphaIdx + 1) % len(alphaLevels)
	}
	if ui.toggleBtn.Clicked(gtx) {
		ui.noteErr(ui.sel.SetAttrFunc(chart.AttrVisible, func(ln *chart.Line, i int) any {
			return !ln.Visible()
		}))
	}
	if ui.openBtn.Clicked(gtx) {
		if _, err := ui.ws.Bundle.Source.LoadFromFile(ui.expl); err != nil {
			log.Printf("failed browsing for trace: %v", err)
		}
	}
	if ui.liveBtn.Clicked(gtx) {
		ui.ws.Bundle.Source.StartDemo(ui.demoInterval)
	}
	if ui.legendBtn.Clicked(gtx) {
		surface := ui.mainView.Surface()
		if surface.LegendVisible() {
			surface.HideLegend()
		} else {
			surface.ShowLegend()
		}
		surface.Redraw()
	}
	if ui.reverseBtn.Clicked(gtx) {
		n := ui.mainView.Surface().Len()
		order := make([]int, n)
		for i := range order {
			order[i] = n - 1 - i
		}
		ui.noteErr(ui.sel.Reorder(order...))
	}
	if ui.exportBtn.Clicked(gtx) {
		name := fmt.Sprintf("linesel-%s.png", time.Now().Format("20060102-150405"))
		if err := export.Save(ui.mainView.Surface(), name); err != nil {
			ui.lastErr = err.Error()
		} else {
			log.Printf("exported chart to %s", name)
		}
	}
}

func (ui *UI) noteErr(err error) {
	if err != nil {
		ui.lastErr = err.Error()
	}
}

// nextPaletteColor steps a line to the color after its current one,
// starting over for colors from outside the palette.
func nextPaletteColor(c color.NRGBA) color.NRGBA {
	for i, p := range chart.DefaultPalette {
		if p == c {
			return chart.DefaultPalette[(i+1)%len(chart.DefaultPalette)]
		}
	}
	return chart.DefaultPalette[0]
}

func (ui *UI) layoutControls(gtx C) D {
	inset := layout.UniformInset(2)
	hasSelection := len(ui.sel.Selection()) > 0
	btn := func(c *widget.Clickable, label string) layout.FlexChild {
		return layout.Flexed(1, func(gtx C) D {
			return inset.Layout(gtx, material.Button(ui.th, c, label).Layout)
		})
	}
	selBtn := func(c *widget.Clickable, label string) layout.FlexChild {
		return layout.Flexed(1, func(gtx C) D {
			if !hasSelection {
				gtx = gtx.Disabled()
			}
			return inset.Layout(gtx, material.Button(ui.th, c, label).Layout)
		})
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				btn(&ui.selectAllBtn, "Select All"),
				selBtn(&ui.deselectBtn, "Deselect"),
				selBtn(&ui.clearBtn, "Clear"),
				selBtn(&ui.deleteBtn, "Delete"),
				btn(&ui.deleteAllBtn, "Delete All"),
				btn(&ui.undoBtn, "Undo"),
				btn(&ui.undoAllBtn, "Undo All"),
				selBtn(&ui.pasteBtn, "Paste"),
			)
		}),
		layout.Rigid(func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				selBtn(&ui.colorBtn, "Color"),
				selBtn(&ui.dashesBtn, "Dashes"),
				selBtn(&ui.markerBtn, "Marker"),
				selBtn(&ui.stepsBtn, "Steps"),
				selBtn(&ui.widenBtn, "Wider"),
				selBtn(&ui.thinBtn, "Thinner"),
				selBtn(&ui.fadeBtn, "Fade"),
				selBtn(&ui.toggleBtn, "Hide/Show"),
			)
		}),
		layout.Rigid(func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				btn(&ui.openBtn, "Open Trace"),
				btn(&ui.liveBtn, "Live Data"),
				btn(&ui.legendBtn, "Legend"),
				btn(&ui.reverseBtn, "Reverse"),
				btn(&ui.exportBtn, "Export PNG"),
			)
		}),
	)
}
