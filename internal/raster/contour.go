//go:build !opencv

package raster

import "github.com/ironsheep/label-vectorizer/internal/geometry"

// TraceBoundaries returns the outer boundary contour of every outermost
// 8-connected component of m, in raster order of the components' first
// pixels. Components nested inside another component's hole are skipped and
// holes are never traced.
//
// Each contour starts at its component's first pixel and runs
// counter-clockwise on screen (down first), with straight runs compressed to
// their end points. An empty mask yields no contours.
func TraceBoundaries(m *Mask) [][]geometry.Point {
	if m == nil || m.Empty() {
		return nil
	}

	outside := outsideBackground(m)
	var contours [][]geometry.Point
	for _, comp := range labelComponents(m) {
		start := comp[0]
		row, col := start/m.Width, start%m.Width
		// The first pixel's west neighbour is background; it belongs to the
		// region enclosing the component.
		if col > 0 && !outside[start-1] {
			continue
		}
		contours = append(contours, compressChain(followBorder(m, row, col)))
	}
	return contours
}

// followBorder walks the outer border that starts at (row, col), whose west
// neighbour must be background. It returns every border pixel in walking
// order without repeating the start.
func followBorder(m *Mask, row, col int) []geometry.Point {
	start := geometry.FromPixel(row, col)

	// Clockwise from west for the last pixel of the border.
	first := -1
	for k := 0; k < 8; k++ {
		d := (dirWest - k + 8) % 8
		if m.At(row+chainDirs[d][0], col+chainDirs[d][1]) {
			first = d
			break
		}
	}
	if first < 0 {
		return []geometry.Point{start}
	}

	r1, c1 := row+chainDirs[first][0], col+chainDirs[first][1]
	r2, c2 := r1, c1
	r3, c3 := row, col
	chain := []geometry.Point{start}

	for {
		back := dirIndex(r2-r3, c2-c3)
		r4, c4 := r2, c2
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			nr, nc := r3+chainDirs[d][0], c3+chainDirs[d][1]
			if m.At(nr, nc) {
				r4, c4 = nr, nc
				break
			}
		}
		if r4 == row && c4 == col && r3 == r1 && c3 == c1 {
			return chain
		}
		r2, c2 = r3, c3
		r3, c3 = r4, c4
		chain = append(chain, geometry.FromPixel(r3, c3))
	}
}
