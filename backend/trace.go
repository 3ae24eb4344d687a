package backend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"git.sr.ht/~whereswaldon/linesel/chart"
)

// Trace is a parsed samples file: one shared domain column and any
// number of labeled series. Series may have gaps where the file held
// blank cells, so each keeps its own domain values.
type Trace struct {
	XName  string
	Series []TraceSeries
}

// TraceSeries is one column of a trace.
type TraceSeries struct {
	Label string
	Xs    []float64
	Ys    []float64
}

func (s *TraceSeries) appendSample(x, y float64) {
	s.Xs = append(s.Xs, x)
	s.Ys = append(s.Ys, y)
}

func newTrace(headings []string) Trace {
	tr := Trace{}
	if len(headings) == 0 {
		return tr
	}
	tr.XName = strings.TrimSpace(headings[0])
	for _, heading := range headings[1:] {
		tr.Series = append(tr.Series, TraceSeries{Label: strings.TrimSpace(heading)})
	}
	return tr
}

// appendRow parses one CSV record into the trace. The first cell is the
// domain value, the rest belong to the series in heading order. Blank
// cells leave a gap in their series. Rows are applied all or nothing.
func (t *Trace) appendRow(rec []string) error {
	if len(rec) == 0 {
		return errors.New("empty row")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	if err != nil {
		return fmt.Errorf("bad domain value %q: %w", rec[0], err)
	}
	type cell struct {
		series int
		y      float64
	}
	cells := make([]cell, 0, len(rec)-1)
	for i := 1; i < len(rec) && i-1 < len(t.Series); i++ {
		raw := strings.TrimSpace(rec[i])
		if len(raw) < 1 {
			// Skip null cells.
			continue
		}
		y, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("bad value %q in column %d: %w", rec[i], i, err)
		}
		cells = append(cells, cell{series: i - 1, y: y})
	}
	for _, c := range cells {
		t.Series[c.series].appendSample(x, c.y)
	}
	return nil
}

// Len returns the total number of samples across all series.
func (t Trace) Len() int {
	n := 0
	for _, s := range t.Series {
		n += len(s.Xs)
	}
	return n
}

// PlotOn adds every series of the trace to surface as a labeled line,
// returning the new lines in series order.
func (t Trace) PlotOn(surface *chart.Surface) []*chart.Line {
	lines := make([]*chart.Line, 0, len(t.Series))
	for _, s := range t.Series {
		ln := surface.Plot(s.Xs, s.Ys)
		ln.SetLabel(s.Label)
		lines = append(lines, ln)
	}
	return lines
}

// ReadTrace parses an entire trace from r. Malformed rows are skipped
// with a log message; an error mid-file returns the rows parsed so far
// alongside the error.
func ReadTrace(r io.Reader) (Trace, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	headings, err := csvReader.Read()
	if err != nil {
		return Trace{}, fmt.Errorf("could not read trace headings: %w", err)
	}
	tr := newTrace(headings)
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tr, nil
			}
			return tr, fmt.Errorf("could not read trace row: %w", err)
		}
		if err := tr.appendRow(rec); err != nil {
			log.Printf("skipping trace row: %v", err)
		}
	}
}
