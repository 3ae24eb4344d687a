package chart

import (
	"errors"
	"image/color"
	"slices"
	"testing"
)

func plotTestLine(t *testing.T) *Line {
	t.Helper()
	s := NewSurface("test")
	return s.Plot([]float64{0, 1, 2}, []float64{0, 1, 4})
}

func TestAttrRoundTrip(t *testing.T) {
	ln := plotTestLine(t)
	type pair struct {
		attr  Attr
		value any
	}
	for _, p := range []pair{
		{AttrWidth, float32(2.5)},
		{AttrDashes, []float32{4, 2}},
		{AttrColor, color.NRGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xff}},
		{AttrAlpha, float32(0.5)},
		{AttrVisible, false},
		{AttrLabel, "voltage"},
		{AttrMarker, MarkerCircle},
		{AttrMarkerSize, float32(9)},
		{AttrMarkerColor, color.NRGBA{R: 0xff, A: 0xff}},
		{AttrCap, CapRound},
		{AttrJoin, JoinBevel},
		{AttrDrawStyle, DrawStepsMid},
		{AttrStride, 3},
		{AttrAntialias, false},
	} {
		if err := ln.SetAttrValue(p.attr, p.value); err != nil {
			t.Errorf("setting %v to %v failed: %v", p.attr, p.value, err)
			continue
		}
		got, err := ln.AttrValue(p.attr)
		if err != nil {
			t.Errorf("reading %v back failed: %v", p.attr, err)
			continue
		}
		if want, ok := p.value.([]float32); ok {
			if !slices.Equal(got.([]float32), want) {
				t.Errorf("expected %v %v, got %v", p.attr, want, got)
			}
		} else if got != p.value {
			t.Errorf("expected %v %v, got %v", p.attr, p.value, got)
		}
	}
}

func TestAttrCoercion(t *testing.T) {
	ln := plotTestLine(t)
	if err := ln.SetAttrValue(AttrWidth, 3.0); err != nil {
		t.Errorf("float64 width should coerce: %v", err)
	}
	if got := ln.Width(); got != 3 {
		t.Errorf("expected width 3, got %f", got)
	}
	if err := ln.SetAttrValue(AttrWidth, 2); err != nil {
		t.Errorf("int width should coerce: %v", err)
	}
	if got := ln.Width(); got != 2 {
		t.Errorf("expected width 2, got %f", got)
	}
	if err := ln.SetAttrValue(AttrDashes, []float64{1, 2, 3}); err != nil {
		t.Errorf("float64 dashes should coerce: %v", err)
	}
	if got := ln.Dashes(); !slices.Equal(got, []float32{1, 2, 3}) {
		t.Errorf("expected dashes [1 2 3], got %v", got)
	}
	if err := ln.SetAttrValue(AttrColor, color.RGBA{R: 0x80, A: 0xff}); err != nil {
		t.Errorf("color.Color should coerce: %v", err)
	}
	if got := ln.Color(); got != (color.NRGBA{R: 0x80, A: 0xff}) {
		t.Errorf("expected converted NRGBA, got %v", got)
	}
	if err := ln.SetAttrValue(AttrDashes, nil); err != nil {
		t.Errorf("nil dashes should mean solid: %v", err)
	}
	if got := ln.Dashes(); len(got) != 0 {
		t.Errorf("expected solid stroke, got dashes %v", got)
	}
}

func TestAttrValidation(t *testing.T) {
	ln := plotTestLine(t)
	ln.SetWidth(1.5)
	type bad struct {
		attr  Attr
		value any
		want  error
	}
	for _, b := range []bad{
		{AttrWidth, "wide", ErrBadValue},
		{AttrWidth, float32(-1), ErrBadValue},
		{AttrAlpha, 1.5, ErrBadValue},
		{AttrAlpha, -0.1, ErrBadValue},
		{AttrDashes, []float32{-1, 2}, ErrBadValue},
		{AttrDashes, []float32{0, 0}, ErrBadValue},
		{AttrVisible, 1, ErrBadValue},
		{AttrLabel, 42, ErrBadValue},
		{AttrMarker, Marker(250), ErrBadValue},
		{AttrMarker, "circle", ErrBadValue},
		{AttrStride, -1, ErrBadValue},
		{AttrStride, 1.5, ErrBadValue},
		{Attr(99), float32(1), ErrUnsupportedAttr},
	} {
		err := ln.SetAttrValue(b.attr, b.value)
		if err == nil {
			t.Errorf("setting %v to %v should fail", b.attr, b.value)
			continue
		}
		if !errors.Is(err, b.want) {
			t.Errorf("setting %v to %v: expected %v, got %v", b.attr, b.value, b.want, err)
		}
	}
	if got := ln.Width(); got != 1.5 {
		t.Errorf("failed sets must not modify the line, width became %f", got)
	}
	if _, err := ln.AttrValue(Attr(99)); !errors.Is(err, ErrUnsupportedAttr) {
		t.Errorf("expected ErrUnsupportedAttr reading an unknown attribute, got %v", err)
	}
}

func TestStyleColorHelpers(t *testing.T) {
	style := LineStyle{
		Color: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff},
		Alpha: 0.5,
	}
	stroke := style.StrokeColor()
	if stroke.A != 127 {
		t.Errorf("expected alpha-scaled stroke 127, got %d", stroke.A)
	}
	if fill := style.MarkerFill(); fill != stroke {
		t.Errorf("unset marker color should fall back to the line color, got %v", fill)
	}
	style.MarkerColor = color.NRGBA{R: 0xff, A: 0xff}
	fill := style.MarkerFill()
	if fill.R != 0xff || fill.A != 127 {
		t.Errorf("expected alpha-scaled marker color, got %v", fill)
	}
}

func TestDashesAreCopied(t *testing.T) {
	ln := plotTestLine(t)
	pattern := []float32{5, 1}
	if err := ln.SetAttrValue(AttrDashes, pattern); err != nil {
		t.Errorf("setting dashes failed: %v", err)
	}
	pattern[0] = 99
	if got := ln.Dashes(); got[0] != 5 {
		t.Errorf("line must not alias the caller's pattern, got %v", got)
	}
	got := ln.Dashes()
	got[0] = 42
	if again := ln.Dashes(); again[0] != 5 {
		t.Errorf("returned pattern must not alias the line's, got %v", again)
	}
}
