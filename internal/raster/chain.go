package raster

import "github.com/ironsheep/label-vectorizer/internal/geometry"

// compressChain keeps only the points of a closed border chain where the
// walking direction changes, plus the start point. Straight runs in any of
// the eight directions collapse to their end points.
func compressChain(chain []geometry.Point) []geometry.Point {
	n := len(chain)
	if n < 3 {
		return chain
	}
	out := make([]geometry.Point, 0, n)
	for i, p := range chain {
		prev := chain[(i-1+n)%n]
		next := chain[(i+1)%n]
		if i == 0 || step(prev, p) != step(p, next) {
			out = append(out, p)
		}
	}
	return out
}

func step(a, b geometry.Point) [2]int {
	return [2]int{b.X - a.X, b.Y - a.Y}
}
