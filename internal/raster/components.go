package raster

import "sort"

// chainDirs holds (dRow, dCol) for each chain direction:
// 0 E, 1 NE, 2 N, 3 NW, 4 W, 5 SW, 6 S, 7 SE.
// Increasing index turns counter-clockwise on screen.
var chainDirs = [8][2]int{
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
}

const dirWest = 4

// dirIndex maps a unit step to its chain direction, or -1.
func dirIndex(dRow, dCol int) int {
	for i, d := range chainDirs {
		if d[0] == dRow && d[1] == dCol {
			return i
		}
	}
	return -1
}

// labelComponents groups foreground pixels into 8-connected components.
//
// Components are returned in raster order of their first pixel. Each is a
// list of row-major pixel indices sorted in raster order, so element 0 is
// the component's first pixel.
func labelComponents(m *Mask) [][]int {
	seen := make([]bool, len(m.Pix))
	var comps [][]int
	var queue []int

	for i, fg := range m.Pix {
		if !fg || seen[i] {
			continue
		}
		seen[i] = true
		pixels := []int{i}
		queue = append(queue[:0], i)

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			row, col := p/m.Width, p%m.Width
			for _, d := range chainDirs {
				nr, nc := row+d[0], col+d[1]
				if !m.At(nr, nc) {
					continue
				}
				n := nr*m.Width + nc
				if seen[n] {
					continue
				}
				seen[n] = true
				pixels = append(pixels, n)
				queue = append(queue, n)
			}
		}

		sort.Ints(pixels)
		comps = append(comps, pixels)
	}
	return comps
}

// outsideBackground marks background pixels 4-connected to the area beyond
// the image frame.
func outsideBackground(m *Mask) []bool {
	outside := make([]bool, len(m.Pix))
	var queue []int

	seed := func(row, col int) {
		i := row*m.Width + col
		if m.Pix[i] || outside[i] {
			return
		}
		outside[i] = true
		queue = append(queue, i)
	}
	for col := 0; col < m.Width; col++ {
		seed(0, col)
		seed(m.Height-1, col)
	}
	for row := 0; row < m.Height; row++ {
		seed(row, 0)
		seed(row, m.Width-1)
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		row, col := p/m.Width, p%m.Width
		for _, d := range [4][2]int{{0, 1}, {-1, 0}, {0, -1}, {1, 0}} {
			nr, nc := row+d[0], col+d[1]
			if nr < 0 || nc < 0 || nr >= m.Height || nc >= m.Width {
				continue
			}
			n := nr*m.Width + nc
			if m.Pix[n] || outside[n] {
				continue
			}
			outside[n] = true
			queue = append(queue, n)
		}
	}
	return outside
}
