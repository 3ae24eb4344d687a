package main

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/linesel"
	"git.sr.ht/~whereswaldon/linesel/backend"
	"git.sr.ht/~whereswaldon/linesel/chart"
	"git.sr.ht/~whereswaldon/linesel/gioplot"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	tabBrowse = "browse"
	tabSelect = "select"
	tabDelete = "delete"
)

// The status row marks sessions that are still receiving samples with a
// play glyph and finished ones with a pause glyph.
var liveIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPlayArrow)
	return icon
}()

var idleIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPause)
	return icon
}()

// UI is responsible for holding the state of and drawing the top-level
// demo interface.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	th   *material.Theme

	mainView  *gioplot.ChartView
	pasteView *gioplot.ChartView
	sel       *linesel.Selector
	pasteSel  *linesel.Selector

	tab      widget.Enum
	clipGrid component.GridState
	controls

	demoInterval time.Duration

	sessionStream *stream.Stream[backend.Session]
	sessionID     string
	sessionMode   backend.Mode
	seriesLines   []*chart.Line
	lastErr       string
}

func NewUI(w *app.Window, ws backend.WindowState, expl *explorer.Explorer, demoInterval time.Duration, seed bool) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	workspace := chart.NewSurface("workspace")
	pasteTarget := chart.NewSurface("paste buffer")
	workspace.AttachRenderer(w)
	pasteTarget.AttachRenderer(w)
	ui := &UI{
		ws:            ws,
		expl:          expl,
		th:            th,
		mainView:      gioplot.NewChartView(workspace),
		pasteView:     gioplot.NewChartView(pasteTarget),
		sel:           linesel.NewSelector(workspace),
		pasteSel:      linesel.NewSelector(pasteTarget),
		tab:           widget.Enum{Value: tabBrowse},
		demoInterval:  demoInterval,
		sessionStream: stream.New(ws.Controller, ws.Bundle.Source.Latest),
	}
	workspace.ShowLegend()
	if seed {
		tr := backend.SeedTrace(240)
		tr.PlotOn(workspace)
		workspace.SetLabels(tr.XName, "")
		workspace.Redraw()
	}
	return ui
}

// Update the state of the UI and generate events. Called once per frame
// from Layout.
func (ui *UI) Update(gtx C) {
	if session, isNew := ui.sessionStream.ReadNew(gtx); isNew {
		ui.syncSession(session)
	}
	if ui.tab.Update(gtx) {
		ui.applyMode()
	}
	ui.updateControls(gtx)
}

// applyMode puts the workspace selector into the picking mode named by
// the tabs.
func (ui *UI) applyMode() {
	switch ui.tab.Value {
	case tabSelect:
		ui.sel.EnableInteractiveSelect()
	case tabDelete:
		ui.sel.EnableInteractiveDelete()
	default:
		ui.sel.DisableInteractive()
	}
}

// syncSession folds a session snapshot into the workspace chart,
// replotting when a new session begins and appending fresh samples to
// lines plotted earlier. Deleted lines keep accumulating samples off
// the surface, so undoing their deletion restores the full history.
func (ui *UI) syncSession(session backend.Session) {
	surface := ui.mainView.Surface()
	if session.Err != nil {
		ui.lastErr = session.Err.Error()
	}
	ui.sessionMode = session.Mode
	if session.ID != ui.sessionID {
		ui.sessionID = session.ID
		ui.seriesLines = ui.seriesLines[:0]
		ui.sel.DisableInteractive()
		surface.SetLines(nil)
		ui.sel = linesel.NewSelector(surface)
		ui.applyMode()
	}
	if xname := session.Data.XName; xname != "" {
		surface.SetLabels(xname, "")
	}
	changed := false
	for i, series := range session.Data.Series {
		if i >= len(ui.seriesLines) {
			ln := surface.Plot(series.Xs, series.Ys)
			ln.SetLabel(series.Label)
			if ui.sel.InteractiveMode() != linesel.ModeOff {
				ln.SetPickable(true)
			}
			ui.seriesLines = append(ui.seriesLines, ln)
			changed = true
			continue
		}
		ln := ui.seriesLines[i]
		for j := ln.Len(); j < len(series.Xs); j++ {
			ln.Append(series.Xs[j], series.Ys[j])
			changed = true
		}
	}
	if changed {
		surface.Redraw()
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	if state.Value == value {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	inset := layout.UniformInset(2)
	return inset.Layout(gtx, func(gtx C) D {
		return t.border.Layout(gtx, func(gtx C) D {
			return inset.Layout(gtx, func(gtx C) D {
				return t.state.Layout(gtx, t.value, func(gtx C) D {
					return layout.Background{}.Layout(gtx, func(gtx C) D {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) layoutStatus(gtx C) D {
	icon := idleIcon
	switch ui.sessionMode {
	case backend.ModeFollowing, backend.ModeGenerating:
		icon = liveIcon
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			status := fmt.Sprintf("%v | paste: %v", ui.sel, ui.pasteSel)
			if ui.sessionID != "" {
				status = fmt.Sprintf("%v session | %s", ui.sessionMode, status)
			}
			origConstraints := gtx.Constraints
			gtx.Constraints.Min = image.Point{}
			labelDims, labelCall := rec(gtx, material.Body2(ui.th, status).Layout)
			gtx.Constraints = origConstraints
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					gtx.Constraints = layout.Exact(image.Point{
						X: labelDims.Size.Y,
						Y: labelDims.Size.Y,
					})
					return icon.Layout(gtx, ui.th.Fg)
				}),
				layout.Rigid(func(gtx C) D {
					labelCall.Add(gtx.Ops)
					return labelDims
				}),
			)
		}),
		layout.Rigid(func(gtx C) D {
			if len(ui.lastErr) == 0 {
				return D{}
			}
			l := material.Body2(ui.th, ui.lastErr)
			l.Color = color.NRGBA{R: 150, A: 255}
			return l.Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabBrowse, "Browse").Layout),
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabSelect, "Select").Layout),
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabDelete, "Delete").Layout),
			)
		}),
		layout.Rigid(ui.layoutControls),
		layout.Rigid(ui.layoutStatus),
		layout.Flexed(1, func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(2, func(gtx C) D {
					return ui.mainView.Layout(gtx, ui.th)
				}),
				layout.Flexed(1, func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Flexed(2, func(gtx C) D {
							return ui.pasteView.Layout(gtx, ui.th)
						}),
						layout.Flexed(1, ui.layoutClipboard),
					)
				}),
			)
		}),
	)
}
