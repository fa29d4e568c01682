package geometry

import (
	"github.com/paulmach/orb/planar"
)

// Centroid returns the area-weighted centroid of a closed contour.
//
// The contour is treated as a polygon ring: the zeroth moment is its signed
// area and the first moments integrate x and y over that area, which is the
// same discrete-region formula used for image moments of a contour. The
// result is truncated toward zero to integer pixel coordinates.
//
// ok is false when the contour encloses no area (fewer than three points,
// or all points collinear). That is a defined no-emit case, not an error.
func Centroid(contour []Point) (c Point, ok bool) {
	if len(contour) < 3 {
		return Point{}, false
	}
	center, area := planar.CentroidArea(ToRing(contour))
	if area == 0 {
		return Point{}, false
	}
	return Point{X: int(center[0]), Y: int(center[1])}, true
}
