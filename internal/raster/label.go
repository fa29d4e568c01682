package raster

import (
	"fmt"
	"image"
	"sort"
)

// LabelImage is a 2-D grid of class identifiers stored row-major.
type LabelImage struct {
	Width  int
	Height int
	Pix    []int
}

// NewLabelImage allocates an all-background label image.
func NewLabelImage(width, height int) *LabelImage {
	return &LabelImage{
		Width:  width,
		Height: height,
		Pix:    make([]int, width*height),
	}
}

// LabelsFromRows builds a label image from a slice of equal-length rows.
func LabelsFromRows(rows [][]int) (*LabelImage, error) {
	if len(rows) == 0 {
		return NewLabelImage(0, 0), nil
	}
	width := len(rows[0])
	img := NewLabelImage(width, len(rows))
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", r, len(row), width)
		}
		copy(img.Pix[r*width:], row)
	}
	return img, nil
}

// At returns the class at (row, col). Out-of-range addresses read as 0.
func (l *LabelImage) At(row, col int) int {
	if row < 0 || col < 0 || row >= l.Height || col >= l.Width {
		return 0
	}
	return l.Pix[row*l.Width+col]
}

// Set stores class at (row, col). Out-of-range addresses are ignored.
func (l *LabelImage) Set(row, col, class int) {
	if row < 0 || col < 0 || row >= l.Height || col >= l.Width {
		return
	}
	l.Pix[row*l.Width+col] = class
}

// Classes returns the distinct non-background class identifiers present in
// the image, in ascending order.
func (l *LabelImage) Classes() []int {
	seen := make(map[int]struct{})
	for _, v := range l.Pix {
		if v != 0 {
			seen[v] = struct{}{}
		}
	}
	classes := make([]int, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Ints(classes)
	return classes
}

// Histogram counts pixels per class, background included.
func (l *LabelImage) Histogram() map[int]int {
	h := make(map[int]int)
	for _, v := range l.Pix {
		h[v]++
	}
	return h
}

// LabelsFromImage reads class identifiers out of a decoded image.
//
// Single-channel images carry the class directly:
//   - *image.Gray and *image.Gray16: the luminance value
//   - *image.Paletted: the palette index, not the palette colour
//
// Any other colour model is read through its red channel (8-bit), which is
// how label PNGs saved as RGB replicate the class into every channel.
func LabelsFromImage(img image.Image) *LabelImage {
	b := img.Bounds()
	out := NewLabelImage(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Pix[y*out.Width+x] = int(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	case *image.Gray16:
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Pix[y*out.Width+x] = int(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	case *image.Paletted:
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Pix[y*out.Width+x] = int(src.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
			}
		}
	default:
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				out.Pix[y*out.Width+x] = int(r >> 8)
			}
		}
	}
	return out
}
