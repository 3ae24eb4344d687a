package linesel

import (
	"fmt"
	"log"
	"strings"

	"git.sr.ht/~whereswaldon/linesel/chart"
)

// Mode describes which interactive pick behavior, if any, a Selector has
// enabled on its surface.
type Mode uint8

const (
	ModeOff Mode = iota
	ModeSelect
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeSelect:
		return "interactive select"
	case ModeDelete:
		return "interactive delete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// AttrFunc computes an attribute value for ln, the line at clipboard
// position i.
type AttrFunc func(ln *chart.Line, i int) any

// Selector coordinates selection, deletion, reordering, restyling, and
// copy/paste of the lines on one chart surface. Selections accumulate in
// an ordered clipboard; every deletion snapshots the prior line list into
// a bounded buffer so it can be undone. Each mutating operation requests
// exactly one redraw from the surface.
//
// A Selector must be driven from a single goroutine, typically the UI
// event loop that also dispatches pick events. The chart package performs
// its own locking underneath.
type Selector struct {
	surface *chart.Surface
	clip    Clipboard
	history *SnapshotBuffer[*chart.Line]
	sub     *chart.PickSubscription
	mode    Mode
}

// NewSelector returns a Selector for surface retaining
// DefaultSnapshotLimit deletion snapshots.
func NewSelector(surface *chart.Surface) *Selector {
	return NewSelectorDepth(surface, DefaultSnapshotLimit)
}

// NewSelectorDepth returns a Selector retaining up to depth deletion
// snapshots.
func NewSelectorDepth(surface *chart.Surface, depth int) *Selector {
	return &Selector{
		surface: surface,
		history: NewSnapshotBuffer[*chart.Line](depth),
	}
}

// Surface returns the surface this selector coordinates.
func (s *Selector) Surface() *chart.Surface {
	return s.surface
}

// Selection returns the clipboard contents in selection order.
func (s *Selector) Selection() []*chart.Line {
	return s.clip.Lines()
}

// UndoDepth returns the number of deletion snapshots currently held.
func (s *Selector) UndoDepth() int {
	return s.history.Len()
}

// InteractiveMode reports which interactive mode is active.
func (s *Selector) InteractiveMode() Mode {
	return s.mode
}

// SelectIndices adds the lines at the given positions to the clipboard in
// argument order. Every index is validated against the current line list
// before any is selected, so a bad index leaves the clipboard untouched.
func (s *Selector) SelectIndices(indices ...int) error {
	if len(indices) == 0 {
		return fmt.Errorf("select: no indices given: %w", ErrInvalidArgument)
	}
	lines := s.surface.Lines()
	for _, idx := range indices {
		if idx < 0 || idx >= len(lines) {
			return fmt.Errorf("select: index %d with %d lines: %w", idx, len(lines), ErrIndexOutOfRange)
		}
	}
	for _, idx := range indices {
		s.addToClipboard(lines[idx])
	}
	return nil
}

// SelectFunc adds every line for which fn returns true, in line order.
// The index passed to fn is the line's position on the surface.
func (s *Selector) SelectFunc(fn func(ln *chart.Line, i int) bool) error {
	if fn == nil {
		return fmt.Errorf("select: nil predicate: %w", ErrInvalidArgument)
	}
	for i, ln := range s.surface.Lines() {
		if fn(ln, i) {
			s.addToClipboard(ln)
		}
	}
	return nil
}

// SelectAll adds every line on the surface to the clipboard.
func (s *Selector) SelectAll() {
	for _, ln := range s.surface.Lines() {
		s.addToClipboard(ln)
	}
}

// ClearClipboard empties the clipboard without touching the surface.
func (s *Selector) ClearClipboard() {
	s.clip.Clear()
}

// UndoSelection deselects the most recently selected line. An empty
// clipboard is reported, not an error.
func (s *Selector) UndoSelection() {
	ln, err := s.clip.RemoveLast()
	if err != nil {
		log.Printf("undo selection: %v", err)
		return
	}
	log.Printf("deselected line %q", lineName(ln))
}

func (s *Selector) addToClipboard(ln *chart.Line) {
	if !s.clip.Add(ln) {
		log.Printf("line %q already selected, skipping", lineName(ln))
	}
}

// DeleteIndices removes the lines at the given positions. Positions refer
// to the line list as it stood when the call began, so one index never
// shifts another and duplicates collapse. Indices with no line are skipped
// with a notice. The prior line list is snapshotted first and one redraw
// is requested at the end.
func (s *Selector) DeleteIndices(indices ...int) error {
	if len(indices) == 0 {
		return fmt.Errorf("delete: no indices given: %w", ErrInvalidArgument)
	}
	lines := s.surface.Lines()
	s.history.Snapshot(lines)
	doomed := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(lines) {
			log.Printf("delete: no line at index %d, skipping", idx)
			continue
		}
		doomed[idx] = true
	}
	kept := make([]*chart.Line, 0, len(lines)-len(doomed))
	for i, ln := range lines {
		if !doomed[i] {
			kept = append(kept, ln)
			continue
		}
		s.clip.Remove(ln)
		log.Printf("deleted line %q", lineName(ln))
	}
	s.surface.SetLines(kept)
	s.surface.Redraw()
	return nil
}

// DeleteSelection deletes every clipboard line from the surface, oldest
// selection first, leaving the clipboard empty. The prior line list is
// snapshotted first and one redraw is requested for the whole batch.
func (s *Selector) DeleteSelection() {
	s.history.Snapshot(s.surface.Lines())
	for len(s.clip.lines) > 0 {
		ln := s.clip.lines[0]
		s.clip.lines = s.clip.lines[1:]
		s.removeLine(ln)
	}
	s.surface.Redraw()
}

// DeleteAll deletes every line on the surface and clears the clipboard.
// The prior line list is snapshotted first.
func (s *Selector) DeleteAll() {
	s.history.Snapshot(s.surface.Lines())
	s.surface.SetLines(nil)
	s.clip.Clear()
	s.surface.Redraw()
}

// removeLine takes ln off the surface and out of the clipboard. Lines
// that are no longer plotted are skipped with a notice.
func (s *Selector) removeLine(ln *chart.Line) {
	s.clip.Remove(ln)
	if !s.surface.Remove(ln) {
		log.Printf("line %q is no longer plotted, skipping", lineName(ln))
		return
	}
	log.Printf("deleted line %q", lineName(ln))
}

// UndoDelete restores the line list captured by the most recent deletion
// snapshot and requests one redraw. An empty buffer is reported, not an
// error, and does not redraw.
func (s *Selector) UndoDelete() {
	lines, err := s.history.Rewind()
	if err != nil {
		log.Printf("undo delete: %v", err)
		return
	}
	s.surface.SetLines(lines)
	s.surface.Redraw()
}

// UndoAllDeletes unwinds the entire snapshot buffer, leaving the surface
// as it was before the oldest retained deletion. Exactly one redraw is
// requested, even when there was nothing to unwind.
func (s *Selector) UndoAllDeletes() {
	for {
		lines, err := s.history.Rewind()
		if err != nil {
			break
		}
		s.surface.SetLines(lines)
	}
	s.surface.Redraw()
}

// Reorder rearranges the surface's lines and requests one redraw. order
// must be a permutation of [0, Len): the line at position i moves to
// position order[i]. Malformed permutations leave the surface untouched.
func (s *Selector) Reorder(order ...int) error {
	lines := s.surface.Lines()
	if len(order) != len(lines) {
		return fmt.Errorf("reorder: got %d positions for %d lines: %w", len(order), len(lines), ErrInvalidArgument)
	}
	seen := make([]bool, len(order))
	for _, pos := range order {
		if pos < 0 || pos >= len(order) || seen[pos] {
			return fmt.Errorf("reorder: %v is not a permutation of 0..%d: %w", order, len(order)-1, ErrInvalidArgument)
		}
		seen[pos] = true
	}
	reordered := make([]*chart.Line, len(lines))
	for i, ln := range lines {
		reordered[order[i]] = ln
	}
	s.surface.SetLines(reordered)
	s.surface.Redraw()
	return nil
}

// SetAttr applies one value for attr to every selected line.
func (s *Selector) SetAttr(attr chart.Attr, value any) error {
	selected := s.clip.Lines()
	values := make([]any, len(selected))
	for i := range values {
		values[i] = value
	}
	return s.applyAttr(attr, selected, values)
}

// SetAttrEach applies values positionally: values[i] goes to the line at
// clipboard position i, so the count must match the selection.
func (s *Selector) SetAttrEach(attr chart.Attr, values ...any) error {
	selected := s.clip.Lines()
	if len(values) != len(selected) {
		return fmt.Errorf("set %v: got %d values for %d selected lines: %w", attr, len(values), len(selected), ErrInvalidArgument)
	}
	return s.applyAttr(attr, selected, values)
}

// SetAttrFunc computes each selected line's value with fn.
func (s *Selector) SetAttrFunc(attr chart.Attr, fn AttrFunc) error {
	if fn == nil {
		return fmt.Errorf("set %v: nil attr func: %w", attr, ErrInvalidArgument)
	}
	selected := s.clip.Lines()
	values := make([]any, len(selected))
	for i, ln := range selected {
		values[i] = fn(ln, i)
	}
	return s.applyAttr(attr, selected, values)
}

// applyAttr validates every value before writing any, so a bad value
// leaves the whole selection untouched. One redraw is requested after a
// successful application.
func (s *Selector) applyAttr(attr chart.Attr, selected []*chart.Line, values []any) error {
	if !attr.Valid() {
		return fmt.Errorf("set %v: %w", attr, chart.ErrUnsupportedAttr)
	}
	for i, v := range values {
		if err := chart.CheckAttrValue(attr, v); err != nil {
			return fmt.Errorf("set %v on selection[%d]: %w", attr, i, err)
		}
	}
	for i, ln := range selected {
		if err := ln.SetAttrValue(attr, values[i]); err != nil {
			return fmt.Errorf("set %v on selection[%d]: %w", attr, i, err)
		}
	}
	s.surface.Redraw()
	return nil
}

// Attr returns the selection's current values for attr in clipboard
// order. An empty selection yields an empty slice.
func (s *Selector) Attr(attr chart.Attr) ([]any, error) {
	if !attr.Valid() {
		return nil, fmt.Errorf("get %v: %w", attr, chart.ErrUnsupportedAttr)
	}
	selected := s.clip.Lines()
	values := make([]any, 0, len(selected))
	for _, ln := range selected {
		v, err := ln.AttrValue(attr)
		if err != nil {
			return nil, fmt.Errorf("get %v: %w", attr, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// Paste plots a copy of every clipboard line onto dst in selection order,
// carrying sample data and the full attribute set, then requests one
// redraw of dst. It returns a new Selector bound to dst whose clipboard
// holds the pasted copies and whose snapshot buffer is fresh with this
// selector's depth. The source surface and clipboard are untouched.
func (s *Selector) Paste(dst *chart.Surface) *Selector {
	pasted := NewSelectorDepth(dst, s.history.Cap())
	for _, src := range s.clip.Lines() {
		xs, ys := src.Data()
		cp := dst.Plot(xs, ys)
		for _, attr := range chart.Attrs() {
			v, err := src.AttrValue(attr)
			if err != nil {
				log.Printf("paste: reading %v: %v", attr, err)
				continue
			}
			if err := cp.SetAttrValue(attr, v); err != nil {
				log.Printf("paste: applying %v: %v", attr, err)
			}
		}
		pasted.clip.Add(cp)
	}
	dst.Redraw()
	return pasted
}

// EnableInteractiveSelect marks the surface's current lines pickable and
// routes renderer picks into the clipboard. Any previously enabled
// interactive mode is replaced. Picks do not redraw.
func (s *Selector) EnableInteractiveSelect() {
	s.DisableInteractive()
	s.markPickable()
	s.sub = s.surface.SubscribePicks(func(ln *chart.Line) {
		s.addToClipboard(ln)
	})
	s.mode = ModeSelect
}

// EnableInteractiveDelete marks the surface's current lines pickable and
// deletes each picked line, snapshotting before every pick so each can be
// undone individually. Any previously enabled interactive mode is
// replaced.
func (s *Selector) EnableInteractiveDelete() {
	s.DisableInteractive()
	s.markPickable()
	s.sub = s.surface.SubscribePicks(func(ln *chart.Line) {
		s.history.Snapshot(s.surface.Lines())
		s.removeLine(ln)
		s.surface.Redraw()
	})
	s.mode = ModeDelete
}

// DisableInteractive cancels any active interactive mode. It is safe to
// call when none is active.
func (s *Selector) DisableInteractive() {
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	s.mode = ModeOff
}

// markPickable flags the lines present right now; lines plotted later are
// not pickable until a mode is enabled again.
func (s *Selector) markPickable() {
	for _, ln := range s.surface.Lines() {
		ln.SetPickable(true)
	}
}

// Describe returns a multi-line report of the selector's state.
func (s *Selector) Describe() string {
	var b strings.Builder
	lines := s.surface.Lines()
	fmt.Fprintf(&b, "selector on %q (%p): %d lines, mode %v\n", s.surface.Title(), s.surface, len(lines), s.mode)
	for i, ln := range lines {
		visibility := "visible"
		if !ln.Visible() {
			visibility = "hidden"
		}
		fmt.Fprintf(&b, "  [%d] %q %s\n", i, lineName(ln), visibility)
	}
	selected := s.clip.Lines()
	fmt.Fprintf(&b, "clipboard: %d selected\n", len(selected))
	for i, ln := range selected {
		fmt.Fprintf(&b, "  <%d> %q\n", i, lineName(ln))
	}
	fmt.Fprintf(&b, "undo: %d of %d snapshots", s.history.Len(), s.history.Cap())
	return b.String()
}

// String returns a one-line summary of the selector's state.
func (s *Selector) String() string {
	return fmt.Sprintf("selector(%q: %d lines, %d selected, %d undo)", s.surface.Title(), s.surface.Len(), s.clip.Len(), s.history.Len())
}

// lineName labels a line for notices, falling back to its address for
// unlabeled lines.
func lineName(ln *chart.Line) string {
	if label := ln.Label(); label != "" {
		return label
	}
	return fmt.Sprintf("%p", ln)
}
