// Package vectorize converts label images into typed vector features.
//
// An Extractor walks the classes present in a label image in ascending id
// order, derives each class mask, and dispatches on the class's geometry
// kind from the category Table:
//
//   - Polygon classes emit one ring per outermost region boundary.
//   - Point classes emit the area centroid of each region.
//   - Polyline classes emit centerlines (StrategySkeleton, the default) or
//     simplified boundaries (StrategyContour).
//
// Degenerate geometry (contours under three points, zero-area regions,
// skeleton fragments under three pixels) is dropped silently. A class id
// missing from the table fails the whole image with ErrUnknownClass.
//
// The result for one image is a Record, which serialises to the
// {"file": ..., "features": [...]} JSON layout consumed by the renderer.
package vectorize
