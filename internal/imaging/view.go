package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Regions accepted by OverlayOptions.Region.
var Regions = []string{
	"full", "top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// regionRect resolves a named region of a w x h image. An empty name is the
// whole image.
func regionRect(name string, w, h int) (image.Rectangle, error) {
	midX, midY := w/2, h/2

	switch name {
	case "", "full":
		return image.Rect(0, 0, w, h), nil
	case "top-left":
		return image.Rect(0, 0, midX, midY), nil
	case "top-right":
		return image.Rect(midX, 0, w, midY), nil
	case "bottom-left":
		return image.Rect(0, midY, midX, h), nil
	case "bottom-right":
		return image.Rect(midX, midY, w, h), nil
	case "top-half":
		return image.Rect(0, 0, w, midY), nil
	case "bottom-half":
		return image.Rect(0, midY, w, h), nil
	case "left-half":
		return image.Rect(0, 0, midX, h), nil
	case "right-half":
		return image.Rect(midX, 0, w, h), nil
	case "center":
		// Center 50% of the image
		return image.Rect(w/4, h/4, w-w/4, h-h/4), nil
	}
	return image.Rectangle{}, fmt.Errorf("unknown region: %s", name)
}

// frameView crops img to the named region and rescales it. A scale of 0 or 1
// leaves the size alone.
func frameView(img image.Image, region string, scale float64) (image.Image, error) {
	if scale < 0 {
		return nil, fmt.Errorf("invalid scale %g: must not be negative", scale)
	}

	b := img.Bounds()
	r, err := regionRect(region, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("region %s of a %dx%d image is empty", region, b.Dx(), b.Dy())
	}

	view := img
	if r != image.Rect(0, 0, b.Dx(), b.Dy()) {
		view = imaging.Crop(img, r.Add(b.Min))
	}

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(r.Dx()) * scale)
		newHeight := int(float64(r.Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %g collapses the %s region", scale, region)
		}
		view = imaging.Resize(view, newWidth, newHeight, imaging.Lanczos)
	}
	return view, nil
}
