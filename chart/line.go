package chart

import (
	"fmt"
	"image/color"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Line is a single plotted series. Lines keep their identity for as long
// as they exist; sample data and style may change at any time. They are
// created by Surface.Plot rather than directly so that every line belongs
// to a surface from the start.
//
// All methods are safe for concurrent use.
type Line struct {
	lock     sync.RWMutex
	xs, ys   []float64
	xmin     float64
	xmax     float64
	ymin     float64
	ymax     float64
	style    LineStyle
	pickable bool
}

func newLine(xs, ys []float64, style LineStyle) *Line {
	ln := &Line{style: style}
	ln.SetData(xs, ys)
	return ln
}

// SetData replaces the line's samples. The slices are copied; when their
// lengths differ the extra tail of the longer one is dropped.
func (l *Line) SetData(xs, ys []float64) {
	n := min(len(xs), len(ys))
	l.lock.Lock()
	defer l.lock.Unlock()
	l.xs = slices.Clone(xs[:n])
	l.ys = slices.Clone(ys[:n])
	if n == 0 {
		l.xmin, l.xmax, l.ymin, l.ymax = 0, 0, 0, 0
		return
	}
	l.xmin, l.xmax = floats.Min(l.xs), floats.Max(l.xs)
	l.ymin, l.ymax = floats.Min(l.ys), floats.Max(l.ys)
}

// Append adds one sample to the end of the line.
func (l *Line) Append(x, y float64) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.xs) == 0 {
		l.xmin, l.xmax = x, x
		l.ymin, l.ymax = y, y
	} else {
		if x < l.xmin {
			l.xmin = x
		}
		if x > l.xmax {
			l.xmax = x
		}
		if y < l.ymin {
			l.ymin = y
		}
		if y > l.ymax {
			l.ymax = y
		}
	}
	l.xs = append(l.xs, x)
	l.ys = append(l.ys, y)
}

// Data returns copies of the line's samples.
func (l *Line) Data() (xs, ys []float64) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return slices.Clone(l.xs), slices.Clone(l.ys)
}

// Len returns the number of samples.
func (l *Line) Len() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return len(l.xs)
}

// Bounds returns the extent of the line's samples. ok is false while the
// line is empty.
func (l *Line) Bounds() (xmin, xmax, ymin, ymax float64, ok bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	if len(l.xs) == 0 {
		return 0, 0, 0, 0, false
	}
	return l.xmin, l.xmax, l.ymin, l.ymax, true
}

// Style returns a copy of the line's full style.
func (l *Line) Style() LineStyle {
	l.lock.RLock()
	defer l.lock.RUnlock()
	style := l.style
	style.Dashes = slices.Clone(style.Dashes)
	return style
}

// Pickable reports whether renderers should dispatch pick events for this
// line.
func (l *Line) Pickable() bool {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.pickable
}

func (l *Line) SetPickable(pickable bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.pickable = pickable
}

func (l *Line) Width() float32 {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Width
}

func (l *Line) SetWidth(width float32) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Width = width
}

// Dashes returns a copy of the on/off dash pattern. An empty pattern
// means a solid stroke.
func (l *Line) Dashes() []float32 {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return slices.Clone(l.style.Dashes)
}

func (l *Line) SetDashes(dashes []float32) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Dashes = slices.Clone(dashes)
}

func (l *Line) Color() color.NRGBA {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Color
}

func (l *Line) SetColor(c color.NRGBA) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Color = c
}

func (l *Line) Alpha() float32 {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Alpha
}

func (l *Line) SetAlpha(alpha float32) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Alpha = alpha
}

func (l *Line) Visible() bool {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Visible
}

func (l *Line) SetVisible(visible bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Visible = visible
}

func (l *Line) Label() string {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Label
}

func (l *Line) SetLabel(label string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Label = label
}

func (l *Line) Marker() Marker {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Marker
}

func (l *Line) SetMarker(m Marker) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Marker = m
}

func (l *Line) MarkerSize() float32 {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.MarkerSize
}

func (l *Line) SetMarkerSize(size float32) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.MarkerSize = size
}

// MarkerColor returns the explicit marker color. A zero-alpha value means
// markers use the line color.
func (l *Line) MarkerColor() color.NRGBA {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.MarkerColor
}

func (l *Line) SetMarkerColor(c color.NRGBA) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.MarkerColor = c
}

func (l *Line) Cap() CapStyle {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Cap
}

func (l *Line) SetCap(c CapStyle) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Cap = c
}

func (l *Line) Join() JoinStyle {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Join
}

func (l *Line) SetJoin(j JoinStyle) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Join = j
}

func (l *Line) DrawStyle() DrawStyle {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.DrawStyle
}

func (l *Line) SetDrawStyle(d DrawStyle) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.DrawStyle = d
}

// Stride returns the marker stride. Values below 2 mean a marker at every
// sample.
func (l *Line) Stride() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Stride
}

func (l *Line) SetStride(stride int) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Stride = stride
}

func (l *Line) Antialias() bool {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.style.Antialias
}

func (l *Line) SetAntialias(antialias bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.style.Antialias = antialias
}

// AttrValue returns the line's current value for attr.
func (l *Line) AttrValue(attr Attr) (any, error) {
	switch attr {
	case AttrWidth:
		return l.Width(), nil
	case AttrDashes:
		return l.Dashes(), nil
	case AttrColor:
		return l.Color(), nil
	case AttrAlpha:
		return l.Alpha(), nil
	case AttrVisible:
		return l.Visible(), nil
	case AttrLabel:
		return l.Label(), nil
	case AttrMarker:
		return l.Marker(), nil
	case AttrMarkerSize:
		return l.MarkerSize(), nil
	case AttrMarkerColor:
		return l.MarkerColor(), nil
	case AttrCap:
		return l.Cap(), nil
	case AttrJoin:
		return l.Join(), nil
	case AttrDrawStyle:
		return l.DrawStyle(), nil
	case AttrStride:
		return l.Stride(), nil
	case AttrAntialias:
		return l.Antialias(), nil
	default:
		return nil, fmt.Errorf("%v: %w", attr, ErrUnsupportedAttr)
	}
}

// SetAttrValue validates value for attr and applies it. The line is
// untouched when an error is returned.
func (l *Line) SetAttrValue(attr Attr, value any) error {
	normalized, err := normalizeAttr(attr, value)
	if err != nil {
		return err
	}
	switch attr {
	case AttrWidth:
		l.SetWidth(normalized.(float32))
	case AttrDashes:
		l.SetDashes(normalized.([]float32))
	case AttrColor:
		l.SetColor(normalized.(color.NRGBA))
	case AttrAlpha:
		l.SetAlpha(normalized.(float32))
	case AttrVisible:
		l.SetVisible(normalized.(bool))
	case AttrLabel:
		l.SetLabel(normalized.(string))
	case AttrMarker:
		l.SetMarker(normalized.(Marker))
	case AttrMarkerSize:
		l.SetMarkerSize(normalized.(float32))
	case AttrMarkerColor:
		l.SetMarkerColor(normalized.(color.NRGBA))
	case AttrCap:
		l.SetCap(normalized.(CapStyle))
	case AttrJoin:
		l.SetJoin(normalized.(JoinStyle))
	case AttrDrawStyle:
		l.SetDrawStyle(normalized.(DrawStyle))
	case AttrStride:
		l.SetStride(normalized.(int))
	case AttrAntialias:
		l.SetAntialias(normalized.(bool))
	}
	return nil
}
