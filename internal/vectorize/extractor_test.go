package vectorize

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
	"github.com/ironsheep/label-vectorizer/internal/raster"
)

func newExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

// fillRect sets class on rows r0..r1 and cols c0..c1 inclusive.
func fillRect(img *raster.LabelImage, class, r0, c0, r1, c1 int) {
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			img.Set(r, c, class)
		}
	}
}

func TestExtract_SquarePolygon(t *testing.T) {
	img := raster.NewLabelImage(4, 4)
	fillRect(img, 2, 1, 1, 2, 2)

	rec, ok, err := newExtractor(t, DefaultOptions()).Extract("scene_lab.png", img)
	if err != nil || !ok {
		t.Fatalf("Extract: ok=%v err=%v", ok, err)
	}
	if rec.File != "scene_lab.png" {
		t.Errorf("File: got %q", rec.File)
	}
	if len(rec.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(rec.Features))
	}

	f := rec.Features[0]
	if f.Type != KindPolygon || f.Category != "Building_No_Damage" {
		t.Errorf("got %s/%s, want Polygon/Building_No_Damage", f.Type, f.Category)
	}
	want := []geometry.Point{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}}
	if !reflect.DeepEqual(f.Ring, want) {
		t.Errorf("ring: got %v, want %v", f.Ring, want)
	}
}

func TestExtract_SinglePixelIsDropped(t *testing.T) {
	img := raster.NewLabelImage(4, 4)
	img.Set(0, 3, 6)

	rec, ok, err := newExtractor(t, DefaultOptions()).Extract("a.png", img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if ok || len(rec.Features) != 0 {
		t.Errorf("expected no record, got %+v", rec)
	}
}

func TestExtract_DiagonalRoad(t *testing.T) {
	img := raster.NewLabelImage(24, 24)
	for i := 0; i < 20; i++ {
		img.Set(i+2, i+2, 7)
	}

	rec, ok, err := newExtractor(t, DefaultOptions()).Extract("road.png", img)
	if err != nil || !ok {
		t.Fatalf("Extract: ok=%v err=%v", ok, err)
	}
	if len(rec.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(rec.Features))
	}
	f := rec.Features[0]
	if f.Type != KindPolyline || f.Category != "Road-Clear" {
		t.Errorf("got %s/%s, want Polyline/Road-Clear", f.Type, f.Category)
	}
	want := []geometry.Point{{X: 2, Y: 2}, {X: 21, Y: 21}}
	if !reflect.DeepEqual(f.Line, want) {
		t.Errorf("line: got %v, want %v", f.Line, want)
	}
}

func TestExtract_DiagonalRoadUnsimplified(t *testing.T) {
	img := raster.NewLabelImage(24, 24)
	for i := 0; i < 20; i++ {
		img.Set(i+2, i+2, 7)
	}

	opts := DefaultOptions()
	opts.PolylineEpsilon = 0
	rec, _, err := newExtractor(t, opts).Extract("road.png", img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := len(rec.Features[0].Line); got != 20 {
		t.Errorf("epsilon 0 should keep every skeleton pixel, got %d", got)
	}
}

func TestExtract_PointCentroid(t *testing.T) {
	img := raster.NewLabelImage(8, 8)
	fillRect(img, 6, 2, 2, 4, 4)
	fillRect(img, 9, 6, 6, 7, 7)

	rec, ok, err := newExtractor(t, DefaultOptions()).Extract("cars.png", img)
	if err != nil || !ok {
		t.Fatalf("Extract: ok=%v err=%v", ok, err)
	}
	want := []Feature{
		NewPoint("Vehicle", geometry.Point{X: 3, Y: 3}),
		NewPoint("Tree", geometry.Point{X: 6, Y: 6}),
	}
	if !reflect.DeepEqual(rec.Features, want) {
		t.Errorf("got %+v, want %+v", rec.Features, want)
	}
}

func TestExtract_ClassOrder(t *testing.T) {
	img := raster.NewLabelImage(12, 12)
	fillRect(img, 9, 1, 1, 3, 3)
	fillRect(img, 1, 6, 6, 9, 9)
	fillRect(img, 4, 1, 7, 3, 10)

	rec, ok, err := newExtractor(t, DefaultOptions()).Extract("mix.png", img)
	if err != nil || !ok {
		t.Fatalf("Extract: ok=%v err=%v", ok, err)
	}

	var got []string
	for _, f := range rec.Features {
		got = append(got, f.Category)
	}
	want := []string{"Water", "Building_Major_Damage", "Tree"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("categories: got %v, want %v", got, want)
	}
	if rec.Features[2].Point != (geometry.Point{X: 2, Y: 2}) {
		t.Errorf("tree centroid: got %v, want (2,2)", rec.Features[2].Point)
	}
}

func TestExtract_AbsentClassesNeverAppear(t *testing.T) {
	img := raster.NewLabelImage(10, 10)
	fillRect(img, 3, 2, 2, 5, 5)

	rec, _, err := newExtractor(t, DefaultOptions()).Extract("one.png", img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for _, f := range rec.Features {
		if f.Category != "Building_Minor_Damage" {
			t.Errorf("unexpected category %q", f.Category)
		}
	}
}

func TestExtract_BackgroundOnly(t *testing.T) {
	_, ok, err := newExtractor(t, DefaultOptions()).Extract("empty.png", raster.NewLabelImage(16, 16))
	if err != nil || ok {
		t.Errorf("background-only image: ok=%v err=%v", ok, err)
	}
}

func TestExtract_UnknownClass(t *testing.T) {
	img := raster.NewLabelImage(6, 6)
	fillRect(img, 2, 1, 1, 3, 3)
	img.Set(5, 5, 77)

	rec, ok, err := newExtractor(t, DefaultOptions()).Extract("bad.png", img)
	if !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
	if ok || len(rec.Features) != 0 {
		t.Error("no partial record expected")
	}
}

func TestExtract_Idempotent(t *testing.T) {
	img := raster.NewLabelImage(30, 30)
	fillRect(img, 1, 0, 0, 4, 29)
	fillRect(img, 2, 8, 3, 12, 9)
	fillRect(img, 6, 25, 2, 28, 6)
	for i := 0; i < 15; i++ {
		img.Set(14+i/2, 10+i, 8)
		img.Set(15+i/2, 10+i, 8)
	}

	e := newExtractor(t, DefaultOptions())
	first, _, err := e.Extract("x.png", img)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	second, _, _ := e.Extract("x.png", img)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("output differs between runs:\n%s\n%s", a, b)
	}
}

func TestExtract_ContourStrategy(t *testing.T) {
	img := raster.NewLabelImage(40, 10)
	fillRect(img, 7, 2, 2, 6, 35)

	opts := DefaultOptions()
	opts.Strategy = StrategyContour
	rec, ok, err := newExtractor(t, opts).Extract("thick.png", img)
	if err != nil || !ok {
		t.Fatalf("Extract: ok=%v err=%v", ok, err)
	}
	if len(rec.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(rec.Features))
	}
	want := []geometry.Point{{X: 2, Y: 2}, {X: 2, Y: 6}, {X: 35, Y: 6}, {X: 35, Y: 2}}
	if !reflect.DeepEqual(rec.Features[0].Line, want) {
		t.Errorf("line: got %v, want %v", rec.Features[0].Line, want)
	}

	// A one-pixel road has a two-point contour, which the contour path drops.
	thin := raster.NewLabelImage(24, 24)
	for i := 0; i < 20; i++ {
		thin.Set(i+2, i+2, 7)
	}
	if _, ok, _ := newExtractor(t, opts).Extract("thin.png", thin); ok {
		t.Error("contour strategy should drop a one-pixel road")
	}
}

func TestExtract_SkeletonStrategyThickRoad(t *testing.T) {
	img := raster.NewLabelImage(40, 11)
	fillRect(img, 8, 3, 2, 7, 37)

	rec, ok, err := newExtractor(t, DefaultOptions()).Extract("thick.png", img)
	if err != nil || !ok {
		t.Fatalf("Extract: ok=%v err=%v", ok, err)
	}
	for _, f := range rec.Features {
		if f.Type != KindPolyline {
			t.Fatalf("got %s feature", f.Type)
		}
		if len(f.Line) < 2 {
			t.Errorf("polyline with %d points", len(f.Line))
		}
		for _, p := range f.Line {
			if p.Y < 3 || p.Y > 7 || p.X < 2 || p.X > 37 {
				t.Errorf("centerline point %v outside the road", p)
			}
		}
	}
}

func TestExtract_PolygonEpsilon(t *testing.T) {
	img := raster.NewLabelImage(20, 20)
	// Each row is two pixels longer than the one above, so the slanted
	// edge is a staircase of short runs.
	for r := 2; r <= 9; r++ {
		fillRect(img, 1, r, 2, r, 2+2*(r-2))
	}

	exact := newExtractor(t, DefaultOptions())
	opts := DefaultOptions()
	opts.PolygonEpsilon = 2
	coarse := newExtractor(t, opts)

	a, _, _ := exact.Extract("tri.png", img)
	b, _, _ := coarse.Extract("tri.png", img)
	if len(b.Features[0].Ring) >= len(a.Features[0].Ring) {
		t.Errorf("simplified ring has %d points, traced ring %d", len(b.Features[0].Ring), len(a.Features[0].Ring))
	}
	if len(b.Features[0].Ring) < 3 {
		t.Errorf("simplified ring collapsed to %d points", len(b.Features[0].Ring))
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"negative polyline eps", func(o *Options) { o.PolylineEpsilon = -1 }, ErrInvalidOptions},
		{"negative polygon eps", func(o *Options) { o.PolygonEpsilon = -0.5 }, ErrInvalidOptions},
		{"arc fraction too big", func(o *Options) { o.ArcFraction = 1.5 }, ErrInvalidOptions},
		{"bad strategy", func(o *Options) { o.Strategy = PolylineStrategy(9) }, ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if _, err := New(opts); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	e := newExtractor(t, Options{PolylineEpsilon: 1})
	got := e.Options()
	if got.Table == nil || got.ArcFraction != 0.01 || got.MinContourPoints != 3 || got.MinSkeletonPixels != 3 {
		t.Errorf("defaults not applied: %+v", got)
	}
}
