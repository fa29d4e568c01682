// Package geometry holds the integer vector types emitted by the vectorizer
// and the planar operations applied to them.
//
// # Coordinate System
//
// Raster data is addressed as (row, col) with the origin at the top-left
// pixel. Vector output uses (x, y) with x = col and y = row, so y grows
// downward. Every crossing between the two conventions goes through
// FromPixel; nothing else swaps axes.
//
// Renderers that plot in a y-up space use ToPlot / FromPlot, which apply
// y' = height - y. Applying both recovers the original point exactly.
//
// # Operations
//
//   - Centroid: area-weighted centroid of a closed contour (polygon moments).
//   - Simplify / SimplifyClosed: Douglas-Peucker on open paths and rings.
//   - RepairRing / IsSimpleRing: ring clean-up before polygon emission.
//
// Simplification and centroids are computed with github.com/paulmach/orb;
// this package converts between the integer pixel types and orb's float
// geometry at its boundary.
package geometry
