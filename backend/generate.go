package backend

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SeedTrace returns a fixed synthetic trace with a few visually distinct
// series, useful as demo content before any real trace is loaded.
func SeedTrace(samples int) Trace {
	noise := distuv.Normal{Mu: 0, Sigma: .08, Src: rand.NewSource(42)}
	sine := TraceSeries{Label: "sine"}
	damped := TraceSeries{Label: "damped"}
	square := TraceSeries{Label: "square"}
	drift := TraceSeries{Label: "noisy ramp"}
	for i := 0; i < samples; i++ {
		t := float64(i) / 20
		sine.appendSample(t, math.Sin(t))
		damped.appendSample(t, 2*math.Exp(-t/4)*math.Cos(3*t))
		square.appendSample(t, math.Copysign(1, math.Sin(t*1.5)))
		drift.appendSample(t, t/3+noise.Rand())
	}
	return Trace{
		XName:  "t",
		Series: []TraceSeries{sine, damped, square, drift},
	}
}

// Demo emits an endless synthetic trace as CSV, one row per interval.
// The reader ends when ctx is canceled.
func Demo(ctx context.Context, interval time.Duration) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		defer pw.Close()
		w := csv.NewWriter(pw)
		if err := w.Write([]string{"t", "signal", "carrier", "drift"}); err != nil {
			return
		}
		w.Flush()
		noise := distuv.Normal{Mu: 0, Sigma: .1, Src: rand.NewSource(uint64(time.Now().UnixNano()))}
		walk := 0.0
		start := time.Now()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				t := now.Sub(start).Seconds()
				walk += noise.Rand()
				rec := []string{
					strconv.FormatFloat(t, 'f', 3, 64),
					strconv.FormatFloat(math.Sin(2*math.Pi*t/5)+noise.Rand()*.2, 'f', 6, 64),
					strconv.FormatFloat(2*math.Cos(2*math.Pi*t/11), 'f', 6, 64),
					strconv.FormatFloat(walk, 'f', 6, 64),
				}
				if err := w.Write(rec); err != nil {
					return
				}
				w.Flush()
			}
		}
	}()
	return pr
}
