package imaging

import (
	"image"
	"testing"
)

func TestRegionRect(t *testing.T) {
	tests := []struct {
		region string
		want   image.Rectangle
	}{
		{"", image.Rect(0, 0, 100, 80)},
		{"full", image.Rect(0, 0, 100, 80)},
		{"top-left", image.Rect(0, 0, 50, 40)},
		{"top-right", image.Rect(50, 0, 100, 40)},
		{"bottom-left", image.Rect(0, 40, 50, 80)},
		{"bottom-right", image.Rect(50, 40, 100, 80)},
		{"top-half", image.Rect(0, 0, 100, 40)},
		{"bottom-half", image.Rect(0, 40, 100, 80)},
		{"left-half", image.Rect(0, 0, 50, 80)},
		{"right-half", image.Rect(50, 0, 100, 80)},
		{"center", image.Rect(25, 20, 75, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			got, err := regionRect(tt.region, 100, 80)
			if err != nil {
				t.Fatalf("regionRect failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := regionRect("middle", 100, 80); err == nil {
		t.Error("expected error for unknown region")
	}
}

func TestRegionsAreAllKnown(t *testing.T) {
	for _, r := range Regions {
		if _, err := regionRect(r, 10, 10); err != nil {
			t.Errorf("listed region %s rejected: %v", r, err)
		}
	}
}

func TestFrameView(t *testing.T) {
	img := grayBackdrop(100, 100, 50)

	tests := []struct {
		name   string
		region string
		scale  float64
		w, h   int
	}{
		{"whole image", "", 1.0, 100, 100},
		{"zero scale is identity", "full", 0, 100, 100},
		{"quadrant", "top-left", 1.0, 50, 50},
		{"quadrant scaled up", "top-left", 2.0, 100, 100},
		{"scaled down", "full", 0.5, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := frameView(img, tt.region, tt.scale)
			if err != nil {
				t.Fatalf("frameView failed: %v", err)
			}
			if view.Bounds().Dx() != tt.w || view.Bounds().Dy() != tt.h {
				t.Errorf("dimensions: got %dx%d, want %dx%d", view.Bounds().Dx(), view.Bounds().Dy(), tt.w, tt.h)
			}
		})
	}
}

func TestFrameView_Errors(t *testing.T) {
	img := grayBackdrop(10, 10, 50)

	tests := []struct {
		name   string
		region string
		scale  float64
	}{
		{"unknown region", "diagonal", 1.0},
		{"negative scale", "full", -1},
		{"collapsing scale", "top-left", 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := frameView(img, tt.region, tt.scale); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := frameView(grayBackdrop(1, 1, 0), "top-left", 1.0); err == nil {
		t.Error("expected error for an empty region")
	}
}
