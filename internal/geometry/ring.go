package geometry

// RepairRing cleans a traced ring before it is emitted as a polygon.
//
// Boundary tracing walks out and back along one-pixel isthmuses and
// protrusions, which shows up in the ring as zero-width spikes (A, B, A).
// RepairRing removes consecutive duplicate points and collapses such spikes
// until none remain. The ring is treated cyclically and is not closed
// (the first point is not repeated at the end).
//
// The returned ring may have fewer than three points; callers drop it then.
func RepairRing(ring []Point) []Point {
	out := clonePath(ring)
	for {
		n := len(out)
		out = dropDuplicates(out)
		out = dropSpikes(out)
		if len(out) == n {
			return out
		}
	}
}

func dropDuplicates(ring []Point) []Point {
	if len(ring) < 2 {
		return ring
	}
	out := ring[:0:0]
	for i, p := range ring {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// dropSpikes removes vertex b wherever a ring reads a, b, a, keeping the
// first a. One pass; RepairRing repeats until stable.
func dropSpikes(ring []Point) []Point {
	n := len(ring)
	if n < 3 {
		return ring
	}
	removed := make([]bool, n)
	for i := 0; i < n; i++ {
		if removed[i] {
			continue
		}
		prev := (i - 1 + n) % n
		next := (i + 1) % n
		if removed[prev] || removed[next] {
			continue
		}
		if ring[prev] == ring[next] {
			removed[i] = true
			removed[next] = true
		}
	}
	out := make([]Point, 0, n)
	for i, p := range ring {
		if !removed[i] {
			out = append(out, p)
		}
	}
	return out
}

// IsSimpleRing reports whether no two non-adjacent edges of the closed ring
// touch or cross. The check is quadratic in the number of edges.
func IsSimpleRing(ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := ring[j], ring[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

// orientation is the cross product (b-a) x (c-a).
func orientation(a, b, c Point) int {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
