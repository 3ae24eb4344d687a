package linesel

import (
	"slices"

	"git.sr.ht/~whereswaldon/linesel/chart"
)

// Clipboard is an ordered set of selected lines. A line appears at most
// once; identity is pointer identity, so relabeling or restyling a line
// never duplicates it. The zero value is an empty clipboard.
type Clipboard struct {
	lines []*chart.Line
}

// Add appends ln unless it is already present, reporting whether the
// clipboard changed.
func (c *Clipboard) Add(ln *chart.Line) bool {
	if slices.Contains(c.lines, ln) {
		return false
	}
	c.lines = append(c.lines, ln)
	return true
}

// RemoveLast removes and returns the most recently added line.
func (c *Clipboard) RemoveLast() (*chart.Line, error) {
	if len(c.lines) == 0 {
		return nil, ErrEmptyClipboard
	}
	last := c.lines[len(c.lines)-1]
	c.lines = c.lines[:len(c.lines)-1]
	return last, nil
}

// Remove drops ln from the clipboard, reporting whether it was present.
func (c *Clipboard) Remove(ln *chart.Line) bool {
	i := slices.Index(c.lines, ln)
	if i < 0 {
		return false
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return true
}

// Clear empties the clipboard.
func (c *Clipboard) Clear() {
	c.lines = nil
}

// Contains reports whether ln is selected.
func (c *Clipboard) Contains(ln *chart.Line) bool {
	return slices.Contains(c.lines, ln)
}

// Len returns the number of selected lines.
func (c *Clipboard) Len() int {
	return len(c.lines)
}

// Lines returns the selection in insertion order.
func (c *Clipboard) Lines() []*chart.Line {
	return slices.Clone(c.lines)
}
