package raster

import "github.com/ironsheep/label-vectorizer/internal/geometry"

// DefaultMinSkeletonPixels is the smallest skeleton component kept; smaller
// ones are noise.
const DefaultMinSkeletonPixels = 3

// Skeletonize thins m to a one-pixel-wide centerline that keeps the
// connectivity of every component. m is not modified.
//
// # Algorithm
//
// Zhang-Suen thinning alternates two sub-iterations until nothing changes.
// For a foreground pixel P with neighbours p2..p9 (clockwise from north),
// let B be the number of foreground neighbours and A the number of 0->1
// transitions in the cyclic sequence p2, p3, ..., p9, p2. P is a candidate
// when 2 <= B <= 6 and A == 1 and
//
//   - sub-iteration 1: p2*p4*p6 == 0 and p4*p6*p8 == 0
//   - sub-iteration 2: p2*p4*p8 == 0 and p2*p6*p8 == 0
//
// Candidates are then deleted one by one, each re-tested for 2 <= B <= 6 and
// A == 1 against the grid as it stands, so two-pixel-thick runs lose one side
// rather than both.
func Skeletonize(m *Mask) *Mask {
	s := m.Clone()
	var candidates []int

	for {
		changed := false
		for sub := 0; sub < 2; sub++ {
			candidates = candidates[:0]
			for i, fg := range s.Pix {
				if !fg {
					continue
				}
				row, col := i/s.Width, i%s.Width
				n := neighbours(s, row, col)
				if !thinnable(n) {
					continue
				}
				if sub == 0 {
					if n[0]&&n[2]&&n[4] || n[2]&&n[4]&&n[6] {
						continue
					}
				} else {
					if n[0]&&n[2]&&n[6] || n[0]&&n[4]&&n[6] {
						continue
					}
				}
				candidates = append(candidates, i)
			}

			for _, i := range candidates {
				row, col := i/s.Width, i%s.Width
				if thinnable(neighbours(s, row, col)) {
					s.Pix[i] = false
					changed = true
				}
			}
		}
		if !changed {
			return s
		}
	}
}

// neighbours returns p2..p9: N, NE, E, SE, S, SW, W, NW.
func neighbours(m *Mask, row, col int) [8]bool {
	return [8]bool{
		m.At(row-1, col),
		m.At(row-1, col+1),
		m.At(row, col+1),
		m.At(row+1, col+1),
		m.At(row+1, col),
		m.At(row+1, col-1),
		m.At(row, col-1),
		m.At(row-1, col-1),
	}
}

// thinnable applies the B and A tests shared by both sub-iterations.
func thinnable(n [8]bool) bool {
	b, a := 0, 0
	for k := 0; k < 8; k++ {
		if n[k] {
			b++
		}
		if !n[k] && n[(k+1)%8] {
			a++
		}
	}
	return b >= 2 && b <= 6 && a == 1
}

// SkeletonComponents skeletonizes m and returns one ordered path per
// 8-connected skeleton component, in raster order of each component's first
// pixel. Components with fewer than minPixels pixels are dropped; a
// minPixels below 1 uses DefaultMinSkeletonPixels.
func SkeletonComponents(m *Mask, minPixels int) [][]geometry.Point {
	if m == nil || m.Empty() {
		return nil
	}
	if minPixels < 1 {
		minPixels = DefaultMinSkeletonPixels
	}

	skel := Skeletonize(m)
	var paths [][]geometry.Point
	for _, comp := range labelComponents(skel) {
		if len(comp) < minPixels {
			continue
		}
		paths = append(paths, orderPath(skel, comp))
	}
	return paths
}
