package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
	"github.com/ironsheep/label-vectorizer/internal/log"
	"github.com/ironsheep/label-vectorizer/internal/vectorize"
)

const renderTag = "render: "

const (
	// BackdropBrightness scales the imagery under the vectors.
	BackdropBrightness = 0.5

	// PointRadius is the radius, in pixels, of the disc drawn for a point.
	PointRadius = 5.0

	// LineWidth is the stroke width for rings and polylines.
	LineWidth = 2.0
)

// OverlayOptions tunes RenderOverlay. The zero value uses the package
// defaults.
type OverlayOptions struct {
	// Fallback replaces FallbackColor for categories missing from the map.
	Fallback *color.RGBA

	// Region limits an encoded overlay to part of the image; see Regions.
	Region string

	// Scale resizes an encoded overlay after cropping. 0 and 1 keep the
	// native size.
	Scale float64
}

// OverlayResult contains a rendered overlay encoded for transport.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Features    int    `json:"features"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderOverlay draws the features of rec over backdrop.
//
// Parameters:
//   - backdrop: The imagery the label grid was made from.
//   - rec: Features in pixel coordinates (x = column, y = row).
//   - cm: Category colours. Nil draws everything in the fallback colour.
//   - opts: Rendering overrides.
//
// Returns:
//   - image.Image: A new image; backdrop is not modified.
//   - error: Non-nil if a path cannot be rasterised.
//
// # Drawing
//
//  1. The backdrop is darkened to BackdropBrightness with bild.
//  2. Feature points are projected into y-up plot space with
//     geometry.ToPlot, and the canvas is flipped with InvertY, so each
//     feature lands on the pixels it was extracted from.
//  3. Polygons are stroked as closed rings, polylines as open paths, both
//     LineWidth wide; points are filled discs of PointRadius.
func RenderOverlay(backdrop image.Image, rec vectorize.Record, cm *ColorMap, opts OverlayOptions) (image.Image, error) {
	height := backdrop.Bounds().Dy()
	dark := adjust.Brightness(backdrop, BackdropBrightness-1)

	dc := gg.NewContextForImage(dark)
	defer dc.Close()
	dc.InvertY()
	dc.SetLineWidth(LineWidth)

	for i, f := range rec.Features {
		col := cm.Color(f.Category)
		if opts.Fallback != nil && !cm.Has(f.Category) {
			col = *opts.Fallback
		}
		dc.SetColor(col)

		var err error
		switch f.Type {
		case vectorize.KindPolygon:
			tracePath(dc, f.Ring, height, true)
			err = dc.Stroke()
		case vectorize.KindPolyline:
			tracePath(dc, f.Line, height, false)
			err = dc.Stroke()
		case vectorize.KindPoint:
			x, y := geometry.ToPlot(f.Point, height)
			dc.DrawCircle(x, y, PointRadius)
			err = dc.Fill()
		}
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, f.Category, err)
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("failed to flush canvas: %w", err)
	}
	return dc.Image(), nil
}

func tracePath(dc *gg.Context, pts []geometry.Point, height int, closed bool) {
	for i, p := range pts {
		x, y := geometry.ToPlot(p, height)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	if closed {
		dc.ClosePath()
	}
}

// EncodeOverlay renders rec over backdrop and returns it as a base64 PNG,
// cropped to opts.Region and resized by opts.Scale.
func EncodeOverlay(backdrop image.Image, rec vectorize.Record, cm *ColorMap, opts OverlayOptions) (*OverlayResult, error) {
	full, err := RenderOverlay(backdrop, rec, cm, opts)
	if err != nil {
		return nil, err
	}
	img, err := frameView(full, opts.Region, opts.Scale)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &OverlayResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Features:    len(rec.Features),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// BackdropName maps a label file name to the imagery it was made from:
// the "_lab" marker is removed and the extension becomes ".jpg".
//
//	"tile_0042_lab.png" -> "tile_0042.jpg"
func BackdropName(file string) string {
	base := strings.ReplaceAll(filepath.Base(file), "_lab", "")
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
}

// OverlayName is the output file name for a rendered record: the backdrop
// name up to its first dot, plus "_vec.png".
//
//	"tile_0042_lab.png" -> "tile_0042_vec.png"
func OverlayName(file string) string {
	stem, _, _ := strings.Cut(BackdropName(file), ".")
	return stem + "_vec.png"
}

// RenderRecord draws rec over its backdrop from imageDir and writes the
// result into outDir, returning the written path.
func RenderRecord(rec vectorize.Record, imageDir, outDir string, cm *ColorMap) (string, error) {
	src := filepath.Join(imageDir, BackdropName(rec.File))
	backdrop, err := LoadBackdrop(src)
	if err != nil {
		return "", err
	}

	img, err := RenderOverlay(backdrop, rec, cm, OverlayOptions{})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	dst := filepath.Join(outDir, OverlayName(rec.File))
	if err := imaging.Save(img, dst); err != nil {
		return "", fmt.Errorf("failed to save overlay: %w", err)
	}
	log.Debug(renderTag+"overlay written", zap.String("file", rec.File), zap.String("path", dst))
	return dst, nil
}

// RenderAll renders every record, logging and skipping those whose backdrop
// is missing or cannot be drawn. It returns the paths written, in record
// order.
func RenderAll(recs []vectorize.Record, imageDir, outDir string, cm *ColorMap) []string {
	var written []string
	for _, rec := range recs {
		path, err := RenderRecord(rec, imageDir, outDir, cm)
		if err != nil {
			log.Warn(renderTag+"record skipped", zap.String("file", rec.File), zap.Error(err))
			continue
		}
		written = append(written, path)
	}
	log.Info(renderTag+"done", zap.Int("records", len(recs)), zap.Int("written", len(written)))
	return written
}
