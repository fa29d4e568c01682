package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplify reduces an open path with the Douglas-Peucker algorithm.
//
// The first and last points are always kept. Every point of the input lies
// within epsilon (perpendicular distance, in pixels) of the returned path.
// An epsilon of zero or less returns an unmodified copy of the input, so a
// zero tolerance is never lossy.
func Simplify(path []Point, epsilon float64) []Point {
	if epsilon <= 0 || len(path) <= 2 {
		return clonePath(path)
	}
	ls := simplify.DouglasPeucker(epsilon).LineString(ToLineString(path))
	return fromOrb(ls)
}

// SimplifyClosed reduces a closed ring with the Douglas-Peucker algorithm,
// treating the sequence as a loop so the result is still a ring.
//
// The input must not repeat its first point at the end, and neither does the
// output. When the simplification would collapse the ring below three
// vertices the input is returned unchanged.
func SimplifyClosed(ring []Point, epsilon float64) []Point {
	if epsilon <= 0 || len(ring) <= 3 {
		return clonePath(ring)
	}
	r := simplify.DouglasPeucker(epsilon).Ring(ToRing(ring))
	out := openRing(r)
	if len(out) < 3 {
		return clonePath(ring)
	}
	return out
}

// openRing drops the closing point of an orb ring.
func openRing(r orb.Ring) []Point {
	pts := fromOrb(r)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func clonePath(path []Point) []Point {
	if path == nil {
		return nil
	}
	out := make([]Point, len(path))
	copy(out, path)
	return out
}
