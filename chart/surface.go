package chart

import (
	"image/color"
	"slices"
	"sync"
)

// Renderer is the narrow interface a surface uses to request a repaint.
// Implementations coalesce requests; one Invalidate per mutation is the
// contract, not one paint.
type Renderer interface {
	Invalidate()
}

// PickHandler receives the line chosen by a renderer-side pick gesture.
type PickHandler func(*Line)

// PickSubscription is a handle on a registered PickHandler.
type PickSubscription struct {
	surface *Surface
	id      int
}

// Cancel deregisters the handler. Cancel is idempotent.
func (p *PickSubscription) Cancel() {
	if p == nil || p.surface == nil {
		return
	}
	p.surface.lock.Lock()
	defer p.surface.lock.Unlock()
	delete(p.surface.picks, p.id)
}

// LegendEntry is one generated legend row. Entries are a snapshot taken
// when the legend is (re)generated, not a live view of the lines.
type LegendEntry struct {
	Label  string
	Color  color.NRGBA
	Marker Marker
	Width  float32
}

// Surface owns an ordered list of lines plus chart-level state shared by
// renderers. All methods are safe for concurrent use; pick handlers are
// invoked without any surface lock held.
type Surface struct {
	lock           sync.RWMutex
	title          string
	xLabel, yLabel string
	lines          []*Line
	palette        []color.NRGBA
	nextColor      int
	renderer       Renderer
	legendAttached bool
	legendVisible  bool
	legendEntries  []LegendEntry
	nextPick       int
	picks          map[int]PickHandler
}

// NewSurface returns an empty surface drawing from DefaultPalette.
func NewSurface(title string) *Surface {
	return &Surface{
		title:   title,
		palette: slices.Clone(DefaultPalette),
		picks:   make(map[int]PickHandler),
	}
}

func (s *Surface) Title() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.title
}

func (s *Surface) SetTitle(title string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.title = title
}

func (s *Surface) XLabel() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.xLabel
}

func (s *Surface) YLabel() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.yLabel
}

func (s *Surface) SetLabels(x, y string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.xLabel, s.yLabel = x, y
}

// Plot appends a new line holding a copy of the samples, styled with the
// defaults and the next palette color.
func (s *Surface) Plot(xs, ys []float64) *Line {
	s.lock.Lock()
	defer s.lock.Unlock()
	col := s.palette[s.nextColor%len(s.palette)]
	s.nextColor++
	ln := newLine(xs, ys, defaultStyle(col))
	s.lines = append(s.lines, ln)
	return ln
}

// Lines returns a copy of the line list in draw order.
func (s *Surface) Lines() []*Line {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.lines)
}

// Line returns the line at position i.
func (s *Surface) Line(i int) (*Line, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if i < 0 || i >= len(s.lines) {
		return nil, false
	}
	return s.lines[i], true
}

func (s *Surface) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.lines)
}

// SetLines replaces the whole line list. The input slice is copied.
func (s *Surface) SetLines(lines []*Line) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lines = slices.Clone(lines)
}

// Remove takes ln off the surface, reporting whether it was present.
// Identity is pointer identity.
func (s *Surface) Remove(ln *Line) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	i := slices.Index(s.lines, ln)
	if i < 0 {
		return false
	}
	s.lines = slices.Delete(s.lines, i, i+1)
	return true
}

// DataBounds merges the bounds of every visible, non-empty line. ok is
// false when there are none.
func (s *Surface) DataBounds() (xmin, xmax, ymin, ymax float64, ok bool) {
	for _, ln := range s.Lines() {
		if !ln.Visible() {
			continue
		}
		lxmin, lxmax, lymin, lymax, lok := ln.Bounds()
		if !lok {
			continue
		}
		if !ok {
			xmin, xmax, ymin, ymax = lxmin, lxmax, lymin, lymax
			ok = true
			continue
		}
		if lxmin < xmin {
			xmin = lxmin
		}
		if lxmax > xmax {
			xmax = lxmax
		}
		if lymin < ymin {
			ymin = lymin
		}
		if lymax > ymax {
			ymax = lymax
		}
	}
	return xmin, xmax, ymin, ymax, ok
}

// AttachRenderer binds the surface to a renderer. Passing nil detaches.
func (s *Surface) AttachRenderer(r Renderer) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.renderer = r
}

// Redraw regenerates the legend when one is attached and visible, then
// asks the renderer for a repaint. Without a renderer it only refreshes
// the legend, which keeps headless use working.
func (s *Surface) Redraw() {
	s.lock.Lock()
	if s.legendAttached && s.legendVisible {
		s.regenLegend()
	}
	r := s.renderer
	s.lock.Unlock()
	if r != nil {
		r.Invalidate()
	}
}

// ShowLegend attaches the legend and makes it visible, generating its
// entries immediately.
func (s *Surface) ShowLegend() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.legendAttached = true
	s.legendVisible = true
	s.regenLegend()
}

// HideLegend hides the legend without detaching it.
func (s *Surface) HideLegend() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.legendVisible = false
}

func (s *Surface) LegendVisible() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.legendAttached && s.legendVisible
}

// LegendEntries returns the rows generated by the most recent legend
// regeneration.
func (s *Surface) LegendEntries() []LegendEntry {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.legendEntries)
}

// regenLegend rebuilds the entry snapshot from every visible labeled
// line. Called with the surface lock held.
func (s *Surface) regenLegend() {
	s.legendEntries = s.legendEntries[:0]
	for _, ln := range s.lines {
		style := ln.Style()
		if style.Label == "" || !style.Visible {
			continue
		}
		s.legendEntries = append(s.legendEntries, LegendEntry{
			Label:  style.Label,
			Color:  style.StrokeColor(),
			Marker: style.Marker,
			Width:  style.Width,
		})
	}
}

// SubscribePicks registers h to receive pick events dispatched by
// renderers.
func (s *Surface) SubscribePicks(h PickHandler) *PickSubscription {
	s.lock.Lock()
	defer s.lock.Unlock()
	id := s.nextPick
	s.nextPick++
	s.picks[id] = h
	return &PickSubscription{surface: s, id: id}
}

// DispatchPick delivers ln to every subscribed handler in registration
// order. Renderers call this from their event handling; handlers run on
// the caller's goroutine.
func (s *Surface) DispatchPick(ln *Line) {
	s.lock.RLock()
	ids := make([]int, 0, len(s.picks))
	for id := range s.picks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	handlers := make([]PickHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, s.picks[id])
	}
	s.lock.RUnlock()
	for _, h := range handlers {
		h(ln)
	}
}
