package vectorize

import (
	"fmt"
	"strings"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
	"github.com/ironsheep/label-vectorizer/internal/raster"
)

// PolylineStrategy selects how Polyline-kind classes become polylines.
type PolylineStrategy int

const (
	// StrategySkeleton thins the whole class mask once and emits one
	// simplified centerline per skeleton component.
	StrategySkeleton PolylineStrategy = iota

	// StrategyContour simplifies each outer boundary contour as an open
	// path, with a tolerance proportional to the contour's perimeter.
	StrategyContour
)

func (s PolylineStrategy) String() string {
	switch s {
	case StrategySkeleton:
		return "skeleton"
	case StrategyContour:
		return "contour"
	}
	return fmt.Sprintf("PolylineStrategy(%d)", int(s))
}

// ParseStrategy maps "skeleton" or "contour" to a strategy. The empty
// string selects StrategySkeleton.
func ParseStrategy(s string) (PolylineStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skeleton":
		return StrategySkeleton, nil
	case "contour":
		return StrategyContour, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s PolylineStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PolylineStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// polylines runs the strategy over one class mask and returns the
// simplified paths worth emitting (two or more vertices each).
func (s PolylineStrategy) polylines(m *raster.Mask, opts Options) [][]geometry.Point {
	var out [][]geometry.Point
	switch s {
	case StrategyContour:
		for _, c := range raster.TraceBoundaries(m) {
			if len(c) < opts.MinContourPoints {
				continue
			}
			eps := opts.ArcFraction * geometry.ArcLength(c, true)
			if line := geometry.Simplify(c, eps); len(line) >= 2 {
				out = append(out, line)
			}
		}
	default:
		for _, path := range raster.SkeletonComponents(m, opts.MinSkeletonPixels) {
			if line := geometry.Simplify(path, opts.PolylineEpsilon); len(line) >= 2 {
				out = append(out, line)
			}
		}
	}
	return out
}
