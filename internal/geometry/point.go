package geometry

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Point is an integer vector coordinate in image pixel space.
//
// X is the column and Y is the row of the source pixel. Points serialise as
// a two-element JSON array [x, y].
type Point struct {
	X int
	Y int
}

// FromPixel converts a raster (row, col) address into a vector point.
func FromPixel(row, col int) Point {
	return Point{X: col, Y: row}
}

// Pixel returns the raster (row, col) address of p.
func (p Point) Pixel() (row, col int) {
	return p.Y, p.X
}

// ToPlot projects p into a y-up plotting space of the given height.
func ToPlot(p Point, height int) (x, y float64) {
	return float64(p.X), float64(height - p.Y)
}

// FromPlot reverses ToPlot.
func FromPlot(x, y float64, height int) Point {
	return Point{X: int(math.Round(x)), Y: height - int(math.Round(y))}
}

// MarshalJSON encodes p as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("point must have 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

func (p Point) orb() orb.Point {
	return orb.Point{float64(p.X), float64(p.Y)}
}

// ToLineString converts a path to an orb.LineString.
func ToLineString(path []Point) orb.LineString {
	ls := make(orb.LineString, len(path))
	for i, p := range path {
		ls[i] = p.orb()
	}
	return ls
}

// ToRing converts a contour to a closed orb.Ring (first point repeated at
// the end when the contour is not already closed).
func ToRing(contour []Point) orb.Ring {
	r := make(orb.Ring, 0, len(contour)+1)
	for _, p := range contour {
		r = append(r, p.orb())
	}
	if len(contour) > 0 && contour[0] != contour[len(contour)-1] {
		r = append(r, contour[0].orb())
	}
	return r
}

// fromOrb truncates orb coordinates back to pixel space.
func fromOrb(pts []orb.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: int(p[0]), Y: int(p[1])}
	}
	return out
}

// ArcLength returns the total length of a path, including the closing
// segment when closed is true.
func ArcLength(path []Point, closed bool) float64 {
	if len(path) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(path); i++ {
		total += dist(path[i-1], path[i])
	}
	if closed {
		total += dist(path[len(path)-1], path[0])
	}
	return total
}

func dist(a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
