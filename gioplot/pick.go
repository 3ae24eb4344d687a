package gioplot

import (
	"math"

	"gioui.org/f32"
)

func pointDist(a, b f32.Point) float32 {
	return float32(math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)))
}

// pointSegDist returns the distance from p to the segment between a and
// b.
func pointSegDist(p, a, b f32.Point) float32 {
	abX := b.X - a.X
	abY := b.Y - a.Y
	lenSq := abX*abX + abY*abY
	if lenSq == 0 {
		return pointDist(p, a)
	}
	t := ((p.X-a.X)*abX + (p.Y-a.Y)*abY) / lenSq
	t = min(max(t, 0), 1)
	return pointDist(p, f32.Pt(a.X+t*abX, a.Y+t*abY))
}

// polylineDist returns the distance from p to the nearest drawn part of
// pts.
func polylineDist(pts []f32.Point, p f32.Point) float32 {
	if len(pts) == 0 {
		return float32(math.Inf(1))
	}
	if len(pts) == 1 {
		return pointDist(p, pts[0])
	}
	best := float32(math.Inf(1))
	for i := 0; i+1 < len(pts); i++ {
		best = min(best, pointSegDist(p, pts[i], pts[i+1]))
	}
	return best
}

// nearestPath returns the painted path within radius of pos, preferring
// the topmost (last painted) path on ties. With pickableOnly set, paths
// whose lines are not flagged pickable are skipped.
func (c *ChartView) nearestPath(pos f32.Point, radius float32, pickableOnly bool) *screenPath {
	var best *screenPath
	bestDist := radius
	for i := range c.paths {
		sp := &c.paths[i]
		if pickableOnly && !sp.line.Pickable() {
			continue
		}
		if d := polylineDist(sp.pts, pos); d <= bestDist {
			best = sp
			bestDist = d
		}
	}
	return best
}
