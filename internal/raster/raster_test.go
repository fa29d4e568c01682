package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
)

// maskFromArt builds a mask from rows of '#' (foreground) and '.'.
func maskFromArt(t *testing.T, rows ...string) *Mask {
	t.Helper()
	if len(rows) == 0 {
		return NewMask(0, 0)
	}
	m := NewMask(len(rows[0]), len(rows))
	for r, row := range rows {
		if len(row) != m.Width {
			t.Fatalf("art row %d has width %d, want %d", r, len(row), m.Width)
		}
		for c, ch := range row {
			m.Set(r, c, ch == '#')
		}
	}
	return m
}

func assertPoints(t *testing.T, got, want []geometry.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d points %v, want %d points %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLabelImage_Classes(t *testing.T) {
	img, err := LabelsFromRows([][]int{
		{0, 7, 7, 0},
		{2, 0, 0, 0},
		{0, 0, 10, 2},
	})
	if err != nil {
		t.Fatalf("LabelsFromRows failed: %v", err)
	}

	got := img.Classes()
	want := []int{2, 7, 10}
	if len(got) != len(want) {
		t.Fatalf("Classes: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Classes: got %v, want %v", got, want)
		}
	}

	if img.At(2, 2) != 10 {
		t.Errorf("At(2,2): got %d, want 10", img.At(2, 2))
	}
	if img.At(-1, 0) != 0 || img.At(0, 4) != 0 {
		t.Error("out-of-range reads should be background")
	}
	if h := img.Histogram(); h[0] != 7 || h[2] != 2 {
		t.Errorf("Histogram: got %v", h)
	}
}

func TestLabelImage_BackgroundOnly(t *testing.T) {
	img := NewLabelImage(5, 5)
	if got := img.Classes(); len(got) != 0 {
		t.Errorf("Classes of empty image: got %v", got)
	}
}

func TestLabelsFromRows_Ragged(t *testing.T) {
	if _, err := LabelsFromRows([][]int{{0, 1}, {1}}); err == nil {
		t.Error("expected error for ragged rows")
	}
}

func TestLabelsFromImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.SetGray(2, 1, color.Gray{Y: 6})

	pal := image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{
		color.Black, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255},
	})
	pal.SetColorIndex(2, 1, 2)

	rgba := image.NewRGBA(image.Rect(0, 0, 3, 2))
	rgba.Set(2, 1, color.RGBA{R: 9, G: 9, B: 9, A: 255})

	gray16 := image.NewGray16(image.Rect(0, 0, 3, 2))
	gray16.SetGray16(2, 1, color.Gray16{Y: 300})

	tests := []struct {
		name string
		img  image.Image
		want int
	}{
		{"gray", gray, 6},
		{"paletted index", pal, 2},
		{"rgba red channel", rgba, 9},
		{"gray16", gray16, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LabelsFromImage(tt.img)
			if l.Width != 3 || l.Height != 2 {
				t.Fatalf("size: got %dx%d, want 3x2", l.Width, l.Height)
			}
			if got := l.At(1, 2); got != tt.want {
				t.Errorf("At(1,2): got %d, want %d", got, tt.want)
			}
			if got := l.At(0, 0); got != 0 {
				t.Errorf("At(0,0): got %d, want 0", got)
			}
		})
	}
}

func TestDeriveMask(t *testing.T) {
	img, _ := LabelsFromRows([][]int{
		{0, 3, 3},
		{3, 0, 1},
	})

	m := DeriveMask(img, 3)
	if m.Width != img.Width || m.Height != img.Height {
		t.Fatalf("mask shape %dx%d differs from image %dx%d", m.Width, m.Height, img.Width, img.Height)
	}
	if m.Count() != 3 {
		t.Errorf("Count: got %d, want 3", m.Count())
	}
	for r := 0; r < img.Height; r++ {
		for c := 0; c < img.Width; c++ {
			if m.At(r, c) != (img.At(r, c) == 3) {
				t.Errorf("mask(%d,%d) disagrees with label %d", r, c, img.At(r, c))
			}
		}
	}

	if !DeriveMask(img, 9).Empty() {
		t.Error("mask of absent class should be empty")
	}
}

func TestMask_Bytes(t *testing.T) {
	m := maskFromArt(t, "#.", ".#")
	b := m.Bytes()
	want := []byte{255, 0, 0, 255}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("Bytes: got %v, want %v", b, want)
		}
	}
}

func TestCompressChain(t *testing.T) {
	// Border of a 3x3 block, walked down first from the top-left.
	chain := []geometry.Point{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0}, {X: 1, Y: 0},
	}
	assertPoints(t, compressChain(chain), []geometry.Point{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}})

	single := []geometry.Point{{X: 4, Y: 4}}
	assertPoints(t, compressChain(single), single)
}

func TestLabelComponents_RasterOrder(t *testing.T) {
	m := maskFromArt(t,
		"...#",
		"##..",
		"....",
		"..##",
	)

	comps := labelComponents(m)
	if len(comps) != 3 {
		t.Fatalf("got %d components, want 3", len(comps))
	}
	firsts := []int{3, 4, 14}
	for i, want := range firsts {
		if comps[i][0] != want {
			t.Errorf("component %d starts at %d, want %d", i, comps[i][0], want)
		}
	}
}

func TestLabelComponents_DiagonalJoins(t *testing.T) {
	m := maskFromArt(t,
		"#..",
		".#.",
		"..#",
	)
	if got := len(labelComponents(m)); got != 1 {
		t.Errorf("diagonal pixels: got %d components, want 1", got)
	}
}
