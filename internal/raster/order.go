package raster

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
)

// walkDirs is the neighbour preference of the path walk: orthogonal steps
// before diagonal ones.
var walkDirs = [8][2]int{
	{-1, 0}, {0, 1}, {1, 0}, {0, -1},
	{-1, 1}, {1, 1}, {1, -1}, {-1, -1},
}

// orderPath turns the pixel set of one skeleton component into a walk.
//
// The walk starts at the endpoint (exactly one neighbour in the component)
// lying furthest back along the component's principal axis, or at the
// furthest-back pixel when the component has no endpoint (a loop). From
// there it steps to an unvisited neighbour, preferring orthogonal steps;
// when no neighbour is left it jumps to the nearest unvisited pixel, ties
// going to the earlier pixel in raster order. A branching skeleton
// therefore yields one path with jumps between its branches.
//
// comp holds the row-major pixel indices of one whole component of skel,
// sorted in raster order, so every foreground neighbour belongs to it.
func orderPath(skel *Mask, comp []int) []geometry.Point {
	w := skel.Width
	proj := principalProjection(comp, w)
	start := -1
	for k, p := range comp {
		row, col := p/w, p%w
		deg := 0
		for _, d := range walkDirs {
			if skel.At(row+d[0], col+d[1]) {
				deg++
			}
		}
		if deg != 1 {
			continue
		}
		if start < 0 || proj[k] < proj[start] {
			start = k
		}
	}
	if start < 0 {
		start = 0
		for k := range comp {
			if proj[k] < proj[start] {
				start = k
			}
		}
	}

	visited := make(map[int]bool, len(comp))
	path := make([]geometry.Point, 0, len(comp))
	cur := comp[start]
	for {
		visited[cur] = true
		row, col := cur/w, cur%w
		path = append(path, geometry.FromPixel(row, col))
		if len(path) == len(comp) {
			return path
		}

		next := -1
		for _, d := range walkDirs {
			nr, nc := row+d[0], col+d[1]
			if !skel.At(nr, nc) {
				continue
			}
			n := nr*w + nc
			if !visited[n] {
				next = n
				break
			}
		}
		if next < 0 {
			next = nearestUnvisited(comp, visited, w, row, col)
		}
		cur = next
	}
}

// nearestUnvisited scans comp in raster order, so the first of several
// equally near pixels wins.
func nearestUnvisited(comp []int, visited map[int]bool, w, row, col int) int {
	best, bestDist := -1, math.MaxInt
	for _, p := range comp {
		if visited[p] {
			continue
		}
		dr, dc := p/w-row, p%w-col
		if d := dr*dr + dc*dc; d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// principalProjection projects each pixel of comp onto the dominant
// eigenvector of the pixel coordinate covariance. The axis sign is fixed so
// its first non-zero component is positive, which makes the walk direction
// deterministic.
func principalProjection(comp []int, w int) []float64 {
	n := len(comp)
	coords := mat.NewDense(n, 2, nil)
	for k, p := range comp {
		coords.Set(k, 0, float64(p%w))
		coords.Set(k, 1, float64(p/w))
	}

	axis := [2]float64{1, 0}
	if n > 1 {
		var cov mat.SymDense
		stat.CovarianceMatrix(&cov, coords, nil)
		var eig mat.EigenSym
		if eig.Factorize(&cov, true) {
			var vecs mat.Dense
			eig.VectorsTo(&vecs)
			// Eigenvalues are ascending; the last column is the major axis.
			axis = [2]float64{vecs.At(0, 1), vecs.At(1, 1)}
		}
	}
	const tiny = 1e-12
	if axis[0] < -tiny || (math.Abs(axis[0]) <= tiny && axis[1] < 0) {
		axis[0], axis[1] = -axis[0], -axis[1]
	}

	proj := make([]float64, n)
	for k := 0; k < n; k++ {
		proj[k] = axis[0]*coords.At(k, 0) + axis[1]*coords.At(k, 1)
	}
	return proj
}
