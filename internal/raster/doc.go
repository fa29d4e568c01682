// Package raster implements the pixel-level stages of label vectorisation:
// per-class mask derivation, outer boundary tracing and skeleton extraction.
//
// # Data Model
//
// A LabelImage is a row-major grid of integer class identifiers. A Mask is a
// boolean grid of the same shape isolating one class. Both are addressed as
// (row, col) with the origin at the top-left pixel; everything that leaves
// this package is converted to vector (x, y) points with geometry.FromPixel.
//
// # Boundary Tracing
//
// TraceBoundaries returns the outer border of every outermost 8-connected
// foreground component, using Suzuki-Abe border following:
//
//  1. Label the 8-connected components in raster order of their first pixel.
//  2. Flood the 4-connected background reachable from the image frame. A
//     component whose first pixel borders that region is outermost; anything
//     nested in a hole of another component is skipped.
//  3. Follow the border from the first pixel, heading down first, until the
//     walk returns to the start along the same edge.
//  4. Compress straight horizontal, vertical and diagonal runs to their end
//     points.
//
// Holes are never traced. A single isolated pixel yields a one-point contour
// and a one-pixel-wide line yields its two end points, which callers then
// discard as degenerate.
//
// Building with -tags opencv replaces the pure Go tracer with
// gocv.FindContours (external retrieval, simple chain approximation). Both
// backends return contours in the same order.
//
// # Skeletons
//
// Skeletonize thins a mask to a one-pixel-wide centerline with Zhang-Suen
// thinning. Each sub-iteration collects deletion candidates in parallel and
// then re-checks them one at a time against the partially thinned grid, so a
// component is never split or erased (plain Zhang-Suen removes a 2x2 block
// entirely).
//
// SkeletonComponents decomposes the skeleton into 8-connected components and
// orders each one into a walkable path. See orderPath for the walk.
package raster
