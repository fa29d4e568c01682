// Package imaging moves label data and vector records between files and
// pixels.
//
// It covers three jobs:
//
//   - Loading label images into raster.LabelImage grids, with LabelCache
//     holding decoded grids for repeated use.
//   - Reading colour style files (ColorMap) that give every category a
//     display colour.
//   - Drawing vector records over the imagery they were extracted from
//     (RenderOverlay, RenderRecord, EncodeOverlay).
//
// # Coordinate System
//
// Label grids and records share pixel coordinates: (0,0) is the top-left
// pixel, X is the column and grows rightward, Y is the row and grows
// downward. The renderer works in y-up plot space (y' = height - y) and
// flips the canvas back, so a feature is drawn on the pixels it came from.
//
// # Thread Safety
//
// LabelCache is safe for concurrent use. Grids it returns are shared and
// must be treated as read-only. ColorMap is immutable after parsing.
//
// # File Naming
//
// A label file "tile_lab.png" is drawn over "tile.jpg" in the imagery
// directory and written as "tile_vec.png"; see BackdropName and OverlayName.
package imaging
