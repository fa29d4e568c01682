package vectorize

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
	"github.com/ironsheep/label-vectorizer/internal/log"
	"github.com/ironsheep/label-vectorizer/internal/raster"
)

const logTag = "vectorize: "

// Options configures an Extractor. The zero value of every numeric field
// except the epsilons means "use the default".
type Options struct {
	// Table maps class ids to categories. Nil uses DefaultTable.
	Table *Table

	// Strategy chooses the polyline extraction path.
	Strategy PolylineStrategy

	// PolylineEpsilon is the Douglas-Peucker tolerance, in pixels, for
	// skeleton centerlines. Zero keeps every skeleton pixel.
	PolylineEpsilon float64

	// PolygonEpsilon is the closed Douglas-Peucker tolerance applied to
	// polygon rings. Zero emits the traced ring as is.
	PolygonEpsilon float64

	// ArcFraction scales a contour's perimeter into the tolerance used by
	// StrategyContour.
	ArcFraction float64

	// MinContourPoints is the fewest points a boundary contour needs to be
	// used at all.
	MinContourPoints int

	// MinSkeletonPixels is the smallest skeleton component kept.
	MinSkeletonPixels int
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		Table:             DefaultTable(),
		Strategy:          StrategySkeleton,
		PolylineEpsilon:   1.0,
		PolygonEpsilon:    0,
		ArcFraction:       0.01,
		MinContourPoints:  3,
		MinSkeletonPixels: raster.DefaultMinSkeletonPixels,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Table == nil {
		o.Table = d.Table
	}
	if o.ArcFraction == 0 {
		o.ArcFraction = d.ArcFraction
	}
	if o.MinContourPoints == 0 {
		o.MinContourPoints = d.MinContourPoints
	}
	if o.MinSkeletonPixels == 0 {
		o.MinSkeletonPixels = d.MinSkeletonPixels
	}
	return o
}

// Validate reports the first out-of-range option.
func (o Options) Validate() error {
	switch {
	case o.PolylineEpsilon < 0:
		return fmt.Errorf("%w: polyline epsilon %v is negative", ErrInvalidOptions, o.PolylineEpsilon)
	case o.PolygonEpsilon < 0:
		return fmt.Errorf("%w: polygon epsilon %v is negative", ErrInvalidOptions, o.PolygonEpsilon)
	case o.ArcFraction < 0 || o.ArcFraction >= 1:
		return fmt.Errorf("%w: arc fraction %v outside [0,1)", ErrInvalidOptions, o.ArcFraction)
	case o.MinContourPoints < 0 || o.MinSkeletonPixels < 0:
		return fmt.Errorf("%w: minimum sizes must not be negative", ErrInvalidOptions)
	case o.Strategy != StrategySkeleton && o.Strategy != StrategyContour:
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(o.Strategy))
	}
	return nil
}

// Extractor turns label images into feature records. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	opts Options
}

// New validates opts, fills in defaults and returns an Extractor.
func New(opts Options) (*Extractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{opts: opts.withDefaults()}, nil
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// Table returns the category table in use.
func (e *Extractor) Table() *Table {
	return e.opts.Table
}

// Extract vectorises one label image.
//
// Parameters:
//   - file: identifier copied verbatim into the record.
//   - img: the label grid.
//
// Returns:
//   - Record: the features, ordered by ascending class id and then by
//     discovery order within each class.
//   - bool: false when the image yields no features; no record is produced
//     then.
//   - error: wraps ErrUnknownClass when img holds a class id missing from
//     the table. Nothing is extracted from such an image.
//
// # Dispatch
//
// For each class id present (background excluded), the class mask is
// derived and handled by its category kind:
//
//   - Polygon: each outer boundary contour with at least MinContourPoints
//     points is optionally simplified as a closed ring, repaired (duplicate
//     points and zero-width spikes removed) and emitted if three or more
//     vertices remain.
//   - Point: each such contour contributes its area centroid, unless it
//     encloses no area.
//   - Polyline: handed to the configured PolylineStrategy.
func (e *Extractor) Extract(file string, img *raster.LabelImage) (Record, bool, error) {
	if err := e.opts.Table.Check(img); err != nil {
		return Record{}, false, fmt.Errorf("%s: %w", file, err)
	}

	rec := Record{File: file}
	for _, id := range img.Classes() {
		cat, _ := e.opts.Table.Lookup(id)
		mask := raster.DeriveMask(img, id)

		switch cat.Kind {
		case KindPolygon:
			for _, c := range raster.TraceBoundaries(mask) {
				if len(c) < e.opts.MinContourPoints {
					continue
				}
				ring := geometry.SimplifyClosed(c, e.opts.PolygonEpsilon)
				ring = geometry.RepairRing(ring)
				if len(ring) < 3 {
					continue
				}
				if !geometry.IsSimpleRing(ring) {
					log.Debug(logTag+"ring touches itself",
						zap.String("file", file), zap.String("category", cat.Name), zap.Int("points", len(ring)))
				}
				rec.Features = append(rec.Features, NewPolygon(cat.Name, ring))
			}

		case KindPoint:
			for _, c := range raster.TraceBoundaries(mask) {
				if len(c) < e.opts.MinContourPoints {
					continue
				}
				if p, ok := geometry.Centroid(c); ok {
					rec.Features = append(rec.Features, NewPoint(cat.Name, p))
				}
			}

		case KindPolyline:
			for _, line := range e.opts.Strategy.polylines(mask, e.opts) {
				rec.Features = append(rec.Features, NewPolyline(cat.Name, line))
			}
		}
	}

	if len(rec.Features) == 0 {
		return Record{}, false, nil
	}
	log.Debug(logTag+"extracted", zap.String("file", file), zap.Int("features", len(rec.Features)))
	return rec, true, nil
}
