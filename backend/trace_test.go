package backend

import (
	"strings"
	"testing"

	"git.sr.ht/~whereswaldon/linesel/chart"
)

func TestReadTrace(t *testing.T) {
	const data = `t, sine, cosine
0, 0.0, 1.0
1, 0.8,
2, 0.9, -0.4
`
	tr, err := ReadTrace(strings.NewReader(data))
	if err != nil {
		t.Fatalf("expected trace to parse, got: %v", err)
	}
	if tr.XName != "t" {
		t.Errorf("expected domain name %q, got %q", "t", tr.XName)
	}
	if len(tr.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(tr.Series))
	}
	sine := tr.Series[0]
	if sine.Label != "sine" {
		t.Errorf("expected first series %q, got %q", "sine", sine.Label)
	}
	if len(sine.Xs) != 3 || sine.Xs[2] != 2 || sine.Ys[1] != 0.8 {
		t.Errorf("expected 3 sine samples ending at x=2, got %v %v", sine.Xs, sine.Ys)
	}
	cosine := tr.Series[1]
	if len(cosine.Xs) != 2 {
		t.Fatalf("expected the blank cell to leave a gap, got %d samples", len(cosine.Xs))
	}
	if cosine.Xs[1] != 2 || cosine.Ys[1] != -0.4 {
		t.Errorf("expected the gap to skip x=1, got %v %v", cosine.Xs, cosine.Ys)
	}
	if tr.Len() != 5 {
		t.Errorf("expected 5 samples total, got %d", tr.Len())
	}
}

func TestReadTraceSkipsMalformedRows(t *testing.T) {
	const data = `t, a, b
0, 1, 2
oops, 3, 4
1, bad, 5
2, 6, 7
`
	tr, err := ReadTrace(strings.NewReader(data))
	if err != nil {
		t.Fatalf("expected trace to parse, got: %v", err)
	}
	a, b := tr.Series[0], tr.Series[1]
	if len(a.Xs) != 2 || a.Ys[1] != 6 {
		t.Errorf("expected only the well-formed rows in a, got %v %v", a.Xs, a.Ys)
	}
	// A bad cell discards the entire row, including its valid cells.
	if len(b.Xs) != 2 || b.Ys[1] != 7 {
		t.Errorf("expected only the well-formed rows in b, got %v %v", b.Xs, b.Ys)
	}
}

func TestReadTraceErrors(t *testing.T) {
	if _, err := ReadTrace(strings.NewReader("")); err == nil {
		t.Errorf("expected an empty trace to fail")
	}
	const ragged = "t, a\n0, 1\n1\n"
	tr, err := ReadTrace(strings.NewReader(ragged))
	if err == nil {
		t.Errorf("expected a ragged trace to fail")
	}
	if len(tr.Series) != 1 || len(tr.Series[0].Xs) != 1 {
		t.Errorf("expected the rows before the failure to survive, got %+v", tr.Series)
	}
}

func TestTracePlotOn(t *testing.T) {
	tr := Trace{
		XName: "t",
		Series: []TraceSeries{
			{Label: "a", Xs: []float64{0, 1}, Ys: []float64{2, 3}},
			{Label: "b", Xs: []float64{0}, Ys: []float64{9}},
		},
	}
	surface := chart.NewSurface("test")
	lines := tr.PlotOn(surface)
	if len(lines) != 2 || surface.Len() != 2 {
		t.Fatalf("expected 2 plotted lines, got %d returned and %d on the surface", len(lines), surface.Len())
	}
	if got := lines[0].Label(); got != "a" {
		t.Errorf("expected label %q, got %q", "a", got)
	}
	xs, ys := lines[0].Data()
	if len(xs) != 2 || xs[1] != 1 || ys[1] != 3 {
		t.Errorf("expected line data to match the trace, got %v %v", xs, ys)
	}
}
