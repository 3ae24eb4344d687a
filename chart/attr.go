package chart

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
)

// Attr identifies one settable line attribute. The set of attributes is
// fixed; values are strongly typed and validated before they are applied.
type Attr uint8

const (
	AttrWidth Attr = iota
	AttrDashes
	AttrColor
	AttrAlpha
	AttrVisible
	AttrLabel
	AttrMarker
	AttrMarkerSize
	AttrMarkerColor
	AttrCap
	AttrJoin
	AttrDrawStyle
	AttrStride
	AttrAntialias
	attrCount
)

var (
	// ErrUnsupportedAttr indicates an attribute outside the allowed set.
	ErrUnsupportedAttr = errors.New("unsupported attribute")
	// ErrBadValue indicates a value of the wrong type or out of range for
	// its attribute.
	ErrBadValue = errors.New("bad attribute value")
)

// Attrs returns every settable attribute in canonical order.
func Attrs() []Attr {
	attrs := make([]Attr, 0, attrCount)
	for a := Attr(0); a < attrCount; a++ {
		attrs = append(attrs, a)
	}
	return attrs
}

// Valid reports whether a names an attribute in the allowed set.
func (a Attr) Valid() bool {
	return a < attrCount
}

func (a Attr) String() string {
	switch a {
	case AttrWidth:
		return "linewidth"
	case AttrDashes:
		return "dashes"
	case AttrColor:
		return "color"
	case AttrAlpha:
		return "alpha"
	case AttrVisible:
		return "visible"
	case AttrLabel:
		return "label"
	case AttrMarker:
		return "marker"
	case AttrMarkerSize:
		return "markersize"
	case AttrMarkerColor:
		return "markerfacecolor"
	case AttrCap:
		return "solid_capstyle"
	case AttrJoin:
		return "solid_joinstyle"
	case AttrDrawStyle:
		return "drawstyle"
	case AttrStride:
		return "markevery"
	case AttrAntialias:
		return "antialiased"
	default:
		return fmt.Sprintf("attr(%d)", int(a))
	}
}

// Marker selects the glyph drawn at sample points.
type Marker uint8

const (
	MarkerNone Marker = iota
	MarkerCircle
	MarkerSquare
	MarkerTriangle
	MarkerCross
	MarkerPlus
	markerCount
)

func (m Marker) String() string {
	switch m {
	case MarkerNone:
		return "none"
	case MarkerCircle:
		return "circle"
	case MarkerSquare:
		return "square"
	case MarkerTriangle:
		return "triangle"
	case MarkerCross:
		return "cross"
	case MarkerPlus:
		return "plus"
	default:
		return fmt.Sprintf("marker(%d)", int(m))
	}
}

// CapStyle selects how stroke ends are finished.
type CapStyle uint8

const (
	CapButt CapStyle = iota
	CapRound
	CapSquare
	capCount
)

func (c CapStyle) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return fmt.Sprintf("cap(%d)", int(c))
	}
}

// JoinStyle selects how stroke segments are joined.
type JoinStyle uint8

const (
	JoinRound JoinStyle = iota
	JoinBevel
	JoinMiter
	joinCount
)

func (j JoinStyle) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	case JoinMiter:
		return "miter"
	default:
		return fmt.Sprintf("join(%d)", int(j))
	}
}

// DrawStyle selects how consecutive samples are connected.
type DrawStyle uint8

const (
	DrawLine DrawStyle = iota
	DrawStepsPre
	DrawStepsMid
	DrawStepsPost
	drawCount
)

func (d DrawStyle) String() string {
	switch d {
	case DrawLine:
		return "line"
	case DrawStepsPre:
		return "steps-pre"
	case DrawStepsMid:
		return "steps-mid"
	case DrawStepsPost:
		return "steps-post"
	default:
		return fmt.Sprintf("drawstyle(%d)", int(d))
	}
}

// LineStyle carries every settable visual attribute of a Line.
type LineStyle struct {
	Width       float32
	Dashes      []float32
	Color       color.NRGBA
	Alpha       float32
	Visible     bool
	Label       string
	Marker      Marker
	MarkerSize  float32
	MarkerColor color.NRGBA
	Cap         CapStyle
	Join        JoinStyle
	DrawStyle   DrawStyle
	Stride      int
	Antialias   bool
}

func defaultStyle(col color.NRGBA) LineStyle {
	return LineStyle{
		Width:      1,
		Color:      col,
		Alpha:      1,
		Visible:    true,
		MarkerSize: 6,
		Join:       JoinRound,
		Stride:     1,
		Antialias:  true,
	}
}

// StrokeColor returns Color with Alpha applied.
func (s LineStyle) StrokeColor() color.NRGBA {
	return applyAlpha(s.Color, s.Alpha)
}

// MarkerFill returns the marker color with Alpha applied, falling back to
// the line color when no marker color is set.
func (s LineStyle) MarkerFill() color.NRGBA {
	if s.MarkerColor.A == 0 {
		return applyAlpha(s.Color, s.Alpha)
	}
	return applyAlpha(s.MarkerColor, s.Alpha)
}

func applyAlpha(c color.NRGBA, alpha float32) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(float32(c.A) * alpha)
	return c
}

// CheckAttrValue reports whether value is acceptable for attr without
// applying it anywhere.
func CheckAttrValue(attr Attr, value any) error {
	_, err := normalizeAttr(attr, value)
	return err
}

// normalizeAttr coerces value into attr's canonical type, validating
// ranges. Slice values are cloned so callers can retain them.
func normalizeAttr(attr Attr, value any) (any, error) {
	switch attr {
	case AttrWidth, AttrMarkerSize:
		f, ok := toFloat32(value)
		if !ok {
			return nil, badValue(attr, value)
		}
		if f < 0 {
			return nil, fmt.Errorf("%v must not be negative, got %v: %w", attr, f, ErrBadValue)
		}
		return f, nil
	case AttrAlpha:
		f, ok := toFloat32(value)
		if !ok {
			return nil, badValue(attr, value)
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("%v must be within [0, 1], got %v: %w", attr, f, ErrBadValue)
		}
		return f, nil
	case AttrDashes:
		d, ok := toDashes(value)
		if !ok {
			return nil, badValue(attr, value)
		}
		var total float32
		for _, seg := range d {
			if seg < 0 {
				return nil, fmt.Errorf("%v must not contain negative segments, got %v: %w", attr, d, ErrBadValue)
			}
			total += seg
		}
		if len(d) > 0 && total == 0 {
			return nil, fmt.Errorf("%v must contain a nonzero segment: %w", attr, ErrBadValue)
		}
		return d, nil
	case AttrColor, AttrMarkerColor:
		c, ok := toNRGBA(value)
		if !ok {
			return nil, badValue(attr, value)
		}
		return c, nil
	case AttrVisible, AttrAntialias:
		b, ok := value.(bool)
		if !ok {
			return nil, badValue(attr, value)
		}
		return b, nil
	case AttrLabel:
		s, ok := value.(string)
		if !ok {
			return nil, badValue(attr, value)
		}
		return s, nil
	case AttrMarker:
		m, ok := value.(Marker)
		if !ok || m >= markerCount {
			return nil, badValue(attr, value)
		}
		return m, nil
	case AttrCap:
		c, ok := value.(CapStyle)
		if !ok || c >= capCount {
			return nil, badValue(attr, value)
		}
		return c, nil
	case AttrJoin:
		j, ok := value.(JoinStyle)
		if !ok || j >= joinCount {
			return nil, badValue(attr, value)
		}
		return j, nil
	case AttrDrawStyle:
		d, ok := value.(DrawStyle)
		if !ok || d >= drawCount {
			return nil, badValue(attr, value)
		}
		return d, nil
	case AttrStride:
		n, ok := value.(int)
		if !ok {
			return nil, badValue(attr, value)
		}
		if n < 0 {
			return nil, fmt.Errorf("%v must not be negative, got %d: %w", attr, n, ErrBadValue)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%v: %w", attr, ErrUnsupportedAttr)
	}
}

func badValue(attr Attr, value any) error {
	return fmt.Errorf("cannot use %T as %v: %w", value, attr, ErrBadValue)
}

func toFloat32(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	}
	return 0, false
}

func toDashes(value any) ([]float32, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []float32:
		return slices.Clone(v), true
	case []float64:
		d := make([]float32, len(v))
		for i, seg := range v {
			d[i] = float32(seg)
		}
		return d, true
	}
	return nil, false
}

func toNRGBA(value any) (color.NRGBA, bool) {
	switch v := value.(type) {
	case color.NRGBA:
		return v, true
	case color.Color:
		return color.NRGBAModel.Convert(v).(color.NRGBA), true
	}
	return color.NRGBA{}, false
}
