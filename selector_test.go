package linesel

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"git.sr.ht/~whereswaldon/linesel/chart"
)

type countRenderer struct {
	invalidations int
}

func (c *countRenderer) Invalidate() {
	c.invalidations++
}

// testSelector plots n labeled lines on a fresh surface with a counting
// renderer attached after plotting, so every invalidation observed in a
// test was requested by the selector.
func testSelector(t *testing.T, n int) (*Selector, []*chart.Line, *countRenderer) {
	t.Helper()
	surface := chart.NewSurface("test")
	lines := make([]*chart.Line, 0, n)
	for i := 0; i < n; i++ {
		ln := surface.Plot([]float64{0, 1, 2}, []float64{float64(i), float64(i + 1), float64(i)})
		ln.SetLabel(fmt.Sprintf("l%d", i))
		lines = append(lines, ln)
	}
	r := &countRenderer{}
	surface.AttachRenderer(r)
	return NewSelector(surface), lines, r
}

func expectSelection(t *testing.T, s *Selector, want ...*chart.Line) {
	t.Helper()
	got := s.Selection()
	if len(got) != len(want) {
		t.Errorf("expected %d selected lines, got %d", len(want), len(got))
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selection[%d] is %q, expected %q", i, got[i].Label(), want[i].Label())
		}
	}
}

func expectLines(t *testing.T, s *Selector, want ...*chart.Line) {
	t.Helper()
	got := s.Surface().Lines()
	if len(got) != len(want) {
		t.Errorf("expected %d lines, got %d", len(want), len(got))
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lines[%d] is %q, expected %q", i, got[i].Label(), want[i].Label())
		}
	}
}

func TestSelectIndices(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	if err := s.SelectIndices(2, 0, 2); err != nil {
		t.Errorf("selecting valid indices failed: %v", err)
	}
	expectSelection(t, s, lines[2], lines[0])
	if err := s.SelectIndices(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for an empty index set, got %v", err)
	}
	if err := s.SelectIndices(1, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	expectSelection(t, s, lines[2], lines[0])
	if err := s.SelectIndices(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange for a negative index, got %v", err)
	}
	if r.invalidations != 0 {
		t.Errorf("selection must never redraw, got %d invalidations", r.invalidations)
	}
}

func TestSelectFunc(t *testing.T) {
	s, lines, _ := testSelector(t, 4)
	err := s.SelectFunc(func(ln *chart.Line, i int) bool {
		return i%2 == 0
	})
	if err != nil {
		t.Errorf("selecting by predicate failed: %v", err)
	}
	expectSelection(t, s, lines[0], lines[2])
	if err := s.SelectFunc(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for a nil predicate, got %v", err)
	}
}

func TestSelectAllDedupes(t *testing.T) {
	s, lines, _ := testSelector(t, 3)
	if err := s.SelectIndices(1); err != nil {
		t.Errorf("selecting failed: %v", err)
	}
	s.SelectAll()
	expectSelection(t, s, lines[1], lines[0], lines[2])
	s.SelectAll()
	expectSelection(t, s, lines[1], lines[0], lines[2])
}

func TestUndoSelection(t *testing.T) {
	s, lines, r := testSelector(t, 2)
	s.SelectAll()
	s.UndoSelection()
	expectSelection(t, s, lines[0])
	s.UndoSelection()
	expectSelection(t, s)
	s.UndoSelection()
	expectSelection(t, s)
	if r.invalidations != 0 {
		t.Errorf("deselection must never redraw, got %d invalidations", r.invalidations)
	}
}

func TestClearClipboard(t *testing.T) {
	s, _, _ := testSelector(t, 3)
	s.SelectAll()
	s.ClearClipboard()
	expectSelection(t, s)
	if got := s.Surface().Len(); got != 3 {
		t.Errorf("clearing the clipboard must not touch the surface, got %d lines", got)
	}
}

func TestDeleteIndices(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	if err := s.DeleteIndices(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for an empty index set, got %v", err)
	}
	if s.UndoDepth() != 0 {
		t.Errorf("a rejected delete must not snapshot, got depth %d", s.UndoDepth())
	}
	if err := s.DeleteIndices(0, 99); err != nil {
		t.Errorf("out-of-range delete indices should be tolerated, got %v", err)
	}
	expectLines(t, s, lines[1], lines[2])
	if s.UndoDepth() != 1 {
		t.Errorf("expected one snapshot, got %d", s.UndoDepth())
	}
	if r.invalidations != 1 {
		t.Errorf("expected one redraw per delete call, got %d", r.invalidations)
	}
}

func TestDeleteIndicesPositions(t *testing.T) {
	s, lines, _ := testSelector(t, 3)
	if err := s.DeleteIndices(0, 1); err != nil {
		t.Errorf("deleting failed: %v", err)
	}
	// Removing index 0 must not shift line 2 down into index 1's place.
	expectLines(t, s, lines[2])
}

func TestDeleteIndicesDuplicates(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	if err := s.DeleteIndices(0, 0); err != nil {
		t.Errorf("deleting failed: %v", err)
	}
	expectLines(t, s, lines[1], lines[2])
	if s.UndoDepth() != 1 {
		t.Errorf("expected one snapshot, got %d", s.UndoDepth())
	}
	if r.invalidations != 1 {
		t.Errorf("expected one redraw, got %d", r.invalidations)
	}
}

func TestDeleteIndicesDropsSelection(t *testing.T) {
	s, lines, _ := testSelector(t, 3)
	s.SelectAll()
	if err := s.DeleteIndices(1); err != nil {
		t.Errorf("deleting failed: %v", err)
	}
	expectSelection(t, s, lines[0], lines[2])
}

func TestDeleteSelection(t *testing.T) {
	s, lines, r := testSelector(t, 4)
	if err := s.SelectIndices(3, 1); err != nil {
		t.Errorf("selecting failed: %v", err)
	}
	s.DeleteSelection()
	expectLines(t, s, lines[0], lines[2])
	expectSelection(t, s)
	if s.UndoDepth() != 1 {
		t.Errorf("expected a single snapshot for the batch, got %d", s.UndoDepth())
	}
	if r.invalidations != 1 {
		t.Errorf("expected a single redraw for the batch, got %d", r.invalidations)
	}
}

func TestDeleteAll(t *testing.T) {
	s, _, r := testSelector(t, 3)
	s.SelectIndices(0)
	s.DeleteAll()
	expectLines(t, s)
	expectSelection(t, s)
	if s.UndoDepth() != 1 {
		t.Errorf("expected one snapshot, got %d", s.UndoDepth())
	}
	if r.invalidations != 1 {
		t.Errorf("expected one redraw, got %d", r.invalidations)
	}
}

func TestUndoDelete(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	s.DeleteIndices(1)
	s.UndoDelete()
	expectLines(t, s, lines[0], lines[1], lines[2])
	if s.UndoDepth() != 0 {
		t.Errorf("undo should consume the snapshot, got depth %d", s.UndoDepth())
	}
	if r.invalidations != 2 {
		t.Errorf("expected redraws for the delete and the undo, got %d", r.invalidations)
	}
	s.UndoDelete()
	if r.invalidations != 2 {
		t.Errorf("undoing with an empty buffer must not redraw, got %d", r.invalidations)
	}
}

func TestUndoAllDeletesOldestWins(t *testing.T) {
	surface := chart.NewSurface("test")
	var lines []*chart.Line
	for i := 0; i < 4; i++ {
		ln := surface.Plot([]float64{0}, []float64{float64(i)})
		ln.SetLabel(fmt.Sprintf("l%d", i))
		lines = append(lines, ln)
	}
	r := &countRenderer{}
	surface.AttachRenderer(r)
	s := NewSelectorDepth(surface, 3)
	for i := 0; i < 4; i++ {
		s.DeleteIndices(0)
	}
	expectLines(t, s)
	r.invalidations = 0
	s.UndoAllDeletes()
	// The snapshot preceding the first deletion was evicted, so the state
	// after that deletion is the oldest restorable one.
	expectLines(t, s, lines[1], lines[2], lines[3])
	if s.UndoDepth() != 0 {
		t.Errorf("expected an empty buffer after undoing everything, got %d", s.UndoDepth())
	}
	if r.invalidations != 1 {
		t.Errorf("expected one redraw for the whole unwind, got %d", r.invalidations)
	}
	s.UndoAllDeletes()
	if r.invalidations != 2 {
		t.Errorf("an empty unwind still redraws once, got %d", r.invalidations)
	}
}

func TestReorder(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	if err := s.Reorder(2, 0, 1); err != nil {
		t.Errorf("reordering failed: %v", err)
	}
	expectLines(t, s, lines[1], lines[2], lines[0])
	if r.invalidations != 1 {
		t.Errorf("expected one redraw, got %d", r.invalidations)
	}
	for _, order := range [][]int{
		{0, 1},
		{0, 1, 1},
		{0, 1, 3},
		{0, 1, -1},
	} {
		if err := s.Reorder(order...); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for order %v, got %v", order, err)
		}
	}
	expectLines(t, s, lines[1], lines[2], lines[0])
	if r.invalidations != 1 {
		t.Errorf("rejected reorders must not redraw, got %d", r.invalidations)
	}
}

func TestSetAttrBroadcast(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	s.SelectIndices(0, 2)
	if err := s.SetAttr(chart.AttrWidth, float32(4)); err != nil {
		t.Errorf("broadcasting an attribute failed: %v", err)
	}
	if lines[0].Width() != 4 || lines[2].Width() != 4 {
		t.Errorf("expected width 4 on the selection, got %f and %f", lines[0].Width(), lines[2].Width())
	}
	if lines[1].Width() == 4 {
		t.Errorf("unselected lines must not change")
	}
	if r.invalidations != 1 {
		t.Errorf("expected one redraw, got %d", r.invalidations)
	}
	if err := s.SetAttr(chart.Attr(99), 1); !errors.Is(err, chart.ErrUnsupportedAttr) {
		t.Errorf("expected ErrUnsupportedAttr, got %v", err)
	}
}

func TestSetAttrEmptySelectionStillRedraws(t *testing.T) {
	s, _, r := testSelector(t, 2)
	if err := s.SetAttr(chart.AttrWidth, float32(2)); err != nil {
		t.Errorf("setting on an empty selection failed: %v", err)
	}
	if r.invalidations != 1 {
		t.Errorf("the redraw is unconditional on success, got %d", r.invalidations)
	}
}

func TestSetAttrEach(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	s.SelectAll()
	if err := s.SetAttrEach(chart.AttrLabel, "a", "b", "c"); err != nil {
		t.Errorf("setting per-line values failed: %v", err)
	}
	if lines[0].Label() != "a" || lines[1].Label() != "b" || lines[2].Label() != "c" {
		t.Errorf("expected positional labels, got %q %q %q", lines[0].Label(), lines[1].Label(), lines[2].Label())
	}
	if err := s.SetAttrEach(chart.AttrLabel, "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for mismatched arity, got %v", err)
	}
	if lines[0].Label() != "a" {
		t.Errorf("a rejected set must not modify any line, got %q", lines[0].Label())
	}
	if r.invalidations != 1 {
		t.Errorf("rejected sets must not redraw, got %d", r.invalidations)
	}
}

func TestSetAttrFunc(t *testing.T) {
	s, lines, _ := testSelector(t, 4)
	s.SelectAll()
	err := s.SetAttrFunc(chart.AttrVisible, func(ln *chart.Line, i int) any {
		return i%2 == 0
	})
	if err != nil {
		t.Errorf("computing values failed: %v", err)
	}
	if !lines[0].Visible() || lines[1].Visible() || !lines[2].Visible() || lines[3].Visible() {
		t.Errorf("expected alternating visibility")
	}
	if err := s.SetAttrFunc(chart.AttrVisible, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for a nil func, got %v", err)
	}
}

func TestSetAttrValidatesBeforeApplying(t *testing.T) {
	s, lines, r := testSelector(t, 2)
	s.SelectAll()
	err := s.SetAttrEach(chart.AttrWidth, float32(7), "bad")
	if !errors.Is(err, chart.ErrBadValue) {
		t.Errorf("expected ErrBadValue, got %v", err)
	}
	if lines[0].Width() == 7 {
		t.Errorf("no line may change when any value is invalid")
	}
	if r.invalidations != 0 {
		t.Errorf("failed sets must not redraw, got %d", r.invalidations)
	}
}

func TestAttrValues(t *testing.T) {
	s, lines, _ := testSelector(t, 3)
	lines[2].SetWidth(5)
	s.SelectIndices(2, 0)
	got, err := s.Attr(chart.AttrWidth)
	if err != nil {
		t.Errorf("reading attribute values failed: %v", err)
	}
	if len(got) != 2 || got[0] != float32(5) || got[1] != float32(1) {
		t.Errorf("expected widths in clipboard order [5 1], got %v", got)
	}
	s.ClearClipboard()
	got, err = s.Attr(chart.AttrWidth)
	if err != nil || len(got) != 0 {
		t.Errorf("expected no values for an empty selection, got %v, %v", got, err)
	}
	if _, err := s.Attr(chart.Attr(99)); !errors.Is(err, chart.ErrUnsupportedAttr) {
		t.Errorf("expected ErrUnsupportedAttr, got %v", err)
	}
}

func TestPaste(t *testing.T) {
	s, lines, srcRenderer := testSelector(t, 3)
	lines[1].SetWidth(3)
	lines[1].SetDashes([]float32{4, 2})
	lines[1].SetMarker(chart.MarkerCircle)
	s.SelectIndices(1, 0)

	dst := chart.NewSurface("target")
	dstRenderer := &countRenderer{}
	dst.AttachRenderer(dstRenderer)
	pasted := s.Paste(dst)

	if pasted.Surface() != dst {
		t.Errorf("the pasted selector must be bound to the target surface")
	}
	copies := dst.Lines()
	if len(copies) != 2 {
		t.Errorf("expected 2 pasted lines, got %d", len(copies))
	}
	expectSelection(t, pasted, copies...)
	if pasted.UndoDepth() != 0 {
		t.Errorf("pasted selectors start with an empty snapshot buffer, got %d", pasted.UndoDepth())
	}
	if dstRenderer.invalidations != 1 {
		t.Errorf("expected one redraw of the target, got %d", dstRenderer.invalidations)
	}
	if srcRenderer.invalidations != 0 {
		t.Errorf("pasting must not redraw the source, got %d", srcRenderer.invalidations)
	}

	first := copies[0]
	if first.Width() != 3 || first.Marker() != chart.MarkerCircle {
		t.Errorf("expected attributes to carry over, got width %f marker %v", first.Width(), first.Marker())
	}
	if first.Label() != lines[1].Label() {
		t.Errorf("expected label %q, got %q", lines[1].Label(), first.Label())
	}
	xs, ys := first.Data()
	srcXs, srcYs := lines[1].Data()
	if len(xs) != len(srcXs) || xs[0] != srcXs[0] || ys[2] != srcYs[2] {
		t.Errorf("expected sample data to carry over")
	}

	first.SetWidth(9)
	first.Append(99, 99)
	if lines[1].Width() != 3 {
		t.Errorf("pasted lines must be clones, source width became %f", lines[1].Width())
	}
	if lines[1].Len() != 3 {
		t.Errorf("pasted lines must not share data, source grew to %d samples", lines[1].Len())
	}
	if got := s.Surface().Len(); got != 3 {
		t.Errorf("the source surface must be untouched, got %d lines", got)
	}
	expectSelection(t, s, lines[1], lines[0])
}

func TestPasteEmptyClipboard(t *testing.T) {
	s, _, _ := testSelector(t, 2)
	dst := chart.NewSurface("target")
	r := &countRenderer{}
	dst.AttachRenderer(r)
	pasted := s.Paste(dst)
	if dst.Len() != 0 {
		t.Errorf("expected nothing pasted, got %d lines", dst.Len())
	}
	expectSelection(t, pasted)
	if r.invalidations != 1 {
		t.Errorf("pasting still redraws the target once, got %d", r.invalidations)
	}
}

func TestPasteCarriesSnapshotDepth(t *testing.T) {
	surface := chart.NewSurface("src")
	surface.Plot([]float64{0}, []float64{0})
	s := NewSelectorDepth(surface, 1)
	s.SelectAll()
	pasted := s.Paste(chart.NewSurface("dst"))
	pasted.Surface().Plot([]float64{1}, []float64{1})
	pasted.DeleteIndices(0)
	pasted.DeleteIndices(0)
	pasted.UndoAllDeletes()
	// With a carried depth of one, only the snapshot before the second
	// deletion survives.
	if got := pasted.Surface().Len(); got != 1 {
		t.Errorf("expected the inherited depth to cap the unwind at 1 line, got %d", got)
	}
}

func TestInteractiveSelect(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	s.EnableInteractiveSelect()
	if s.InteractiveMode() != ModeSelect {
		t.Errorf("expected select mode, got %v", s.InteractiveMode())
	}
	for _, ln := range lines {
		if !ln.Pickable() {
			t.Errorf("enabling a mode should mark existing lines pickable")
		}
	}
	s.Surface().DispatchPick(lines[1])
	s.Surface().DispatchPick(lines[1])
	expectSelection(t, s, lines[1])
	if r.invalidations != 0 {
		t.Errorf("interactive selection must not redraw, got %d", r.invalidations)
	}
	late := s.Surface().Plot([]float64{0}, []float64{0})
	if late.Pickable() {
		t.Errorf("lines plotted after enabling must not be pickable")
	}
}

func TestInteractiveDelete(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	s.SelectIndices(0)
	s.EnableInteractiveDelete()
	if s.InteractiveMode() != ModeDelete {
		t.Errorf("expected delete mode, got %v", s.InteractiveMode())
	}
	s.Surface().DispatchPick(lines[0])
	expectLines(t, s, lines[1], lines[2])
	expectSelection(t, s)
	if s.UndoDepth() != 1 {
		t.Errorf("each pick snapshots once, got %d", s.UndoDepth())
	}
	if r.invalidations != 1 {
		t.Errorf("each pick redraws once, got %d", r.invalidations)
	}
	s.UndoDelete()
	expectLines(t, s, lines[0], lines[1], lines[2])
}

func TestInteractiveModesAreExclusive(t *testing.T) {
	s, lines, r := testSelector(t, 3)
	s.EnableInteractiveSelect()
	s.EnableInteractiveDelete()
	s.Surface().DispatchPick(lines[0])
	expectSelection(t, s)
	expectLines(t, s, lines[1], lines[2])
	if r.invalidations != 1 {
		t.Errorf("only the delete handler should run, got %d invalidations", r.invalidations)
	}
	s.DisableInteractive()
	if s.InteractiveMode() != ModeOff {
		t.Errorf("expected mode off, got %v", s.InteractiveMode())
	}
	s.Surface().DispatchPick(lines[1])
	expectLines(t, s, lines[1], lines[2])
	s.DisableInteractive()
}

func TestDescribe(t *testing.T) {
	s, _, _ := testSelector(t, 3)
	s.SelectIndices(1)
	got := s.Describe()
	for _, want := range []string{"3 lines", "clipboard: 1", `"l1"`, "0 of 25"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected the description to mention %q, got:\n%s", want, got)
		}
	}
	if one := s.String(); !strings.Contains(one, "3 lines") || strings.Contains(one, "\n") {
		t.Errorf("expected a one-line summary, got %q", one)
	}
}
