package geometry

import "testing"

func TestRepairRing(t *testing.T) {
	tests := []struct {
		name string
		ring []Point
		want []Point
	}{
		{
			name: "clean square untouched",
			ring: []Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}},
			want: []Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}},
		},
		{
			name: "consecutive duplicates",
			ring: []Point{{0, 0}, {0, 0}, {0, 4}, {4, 4}, {4, 4}, {4, 0}},
			want: []Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}},
		},
		{
			name: "closing point repeated",
			ring: []Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}, {0, 0}},
			want: []Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}},
		},
		{
			name: "spike on one side",
			ring: []Point{{0, 0}, {0, 4}, {2, 4}, {2, 8}, {2, 4}, {4, 4}, {4, 0}},
			want: []Point{{0, 0}, {0, 4}, {2, 4}, {4, 4}, {4, 0}},
		},
		{
			name: "out and back collapses",
			ring: []Point{{0, 0}, {5, 0}},
			want: []Point{{0, 0}, {5, 0}},
		},
		{
			name: "line traced both ways",
			ring: []Point{{0, 0}, {5, 0}, {9, 0}, {5, 0}},
			want: []Point{{9, 0}, {5, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairRing(tt.ring)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestIsSimpleRing(t *testing.T) {
	tests := []struct {
		name string
		ring []Point
		want bool
	}{
		{"square", []Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}}, true},
		{"triangle", []Point{{0, 0}, {4, 0}, {0, 4}}, true},
		{"bow tie", []Point{{0, 0}, {4, 4}, {4, 0}, {0, 4}}, false},
		{"touching vertex", []Point{{0, 0}, {4, 0}, {2, 2}, {4, 4}, {0, 4}, {2, 2}}, false},
		{"too short", []Point{{0, 0}, {1, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSimpleRing(tt.ring); got != tt.want {
				t.Errorf("IsSimpleRing(%v): got %v, want %v", tt.ring, got, tt.want)
			}
		})
	}
}
