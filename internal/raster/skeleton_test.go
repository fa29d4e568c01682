package raster

import (
	"testing"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
)

func adjacent(a, b geometry.Point) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return a != b && dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

func TestSkeletonize_KeepsThinLines(t *testing.T) {
	m := maskFromArt(t,
		"..........",
		".########.",
		"..........",
	)

	s := Skeletonize(m)
	if s.Count() != m.Count() {
		t.Errorf("one-pixel line changed: got %d pixels, want %d", s.Count(), m.Count())
	}
}

func TestSkeletonize_NeverErasesComponents(t *testing.T) {
	tests := []struct {
		name string
		art  []string
	}{
		{"2x2 block", []string{"....", ".##.", ".##.", "...."}},
		{"3x3 block", []string{".....", ".###.", ".###.", ".###.", "....."}},
		{"two rows", []string{"........", ".######.", ".######.", "........"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := maskFromArt(t, tt.art...)
			s := Skeletonize(m)
			if s.Empty() {
				t.Fatal("component erased")
			}
			if got := len(labelComponents(s)); got != 1 {
				t.Errorf("got %d components, want 1", got)
			}
			for i, fg := range s.Pix {
				if fg && !m.Pix[i] {
					t.Fatalf("skeleton pixel %d outside the mask", i)
				}
			}
		})
	}
}

func TestSkeletonize_DoesNotModifyInput(t *testing.T) {
	m := maskFromArt(t, "#####", "#####", "#####")
	before := m.Count()
	Skeletonize(m)
	if m.Count() != before {
		t.Error("Skeletonize modified its input")
	}
}

func TestSkeletonize_ThickBar(t *testing.T) {
	rows := make([]string, 0, 9)
	rows = append(rows, "................................")
	for i := 0; i < 7; i++ {
		rows = append(rows, "..############################..")
	}
	rows = append(rows, "................................")
	m := maskFromArt(t, rows...)

	s := Skeletonize(m)
	comps := labelComponents(s)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	if s.Count() >= m.Count()/3 {
		t.Errorf("bar not thinned: %d of %d pixels left", s.Count(), m.Count())
	}

	minCol, maxCol := s.Width, -1
	for _, p := range comps[0] {
		col := p % s.Width
		minCol = min(minCol, col)
		maxCol = max(maxCol, col)
	}
	if maxCol-minCol < 15 {
		t.Errorf("centerline spans columns %d..%d, expected most of the bar", minCol, maxCol)
	}
}

func TestSkeletonComponents_Diagonal(t *testing.T) {
	const n = 20
	m := NewMask(n+2, n+2)
	for i := 0; i < n; i++ {
		m.Set(i+1, i+1, true)
	}

	paths := SkeletonComponents(m, DefaultMinSkeletonPixels)
	if len(paths) != 1 {
		t.Fatalf("got %d components, want 1", len(paths))
	}
	path := paths[0]
	if len(path) != n {
		t.Fatalf("got %d points, want %d", len(path), n)
	}
	if path[0] != (geometry.Point{X: 1, Y: 1}) || path[n-1] != (geometry.Point{X: n, Y: n}) {
		t.Errorf("path runs %v..%v, want (1,1)..(%d,%d)", path[0], path[n-1], n, n)
	}
	for i := 1; i < len(path); i++ {
		if !adjacent(path[i-1], path[i]) {
			t.Fatalf("step %d jumps from %v to %v", i, path[i-1], path[i])
		}
	}
}

func TestSkeletonComponents_VerticalStartsAtTop(t *testing.T) {
	m := NewMask(5, 12)
	for row := 2; row <= 9; row++ {
		m.Set(row, 3, true)
	}

	paths := SkeletonComponents(m, 0)
	if len(paths) != 1 {
		t.Fatalf("got %d components, want 1", len(paths))
	}
	if paths[0][0] != (geometry.Point{X: 3, Y: 2}) {
		t.Errorf("path starts at %v, want (3,2)", paths[0][0])
	}
}

func TestSkeletonComponents_LShapeWalksWithoutJumps(t *testing.T) {
	m := NewMask(12, 12)
	for i := 1; i <= 10; i++ {
		m.Set(1, i, true)
		m.Set(i, 1, true)
	}

	paths := SkeletonComponents(m, 0)
	if len(paths) != 1 {
		t.Fatalf("got %d components, want 1", len(paths))
	}
	path := paths[0]
	if len(path) != 19 {
		t.Fatalf("got %d points, want 19", len(path))
	}
	ends := map[geometry.Point]bool{{X: 1, Y: 10}: true, {X: 10, Y: 1}: true}
	if !ends[path[0]] || !ends[path[len(path)-1]] || path[0] == path[len(path)-1] {
		t.Errorf("path should run between the arm tips, got %v..%v", path[0], path[len(path)-1])
	}
	for i := 1; i < len(path); i++ {
		if !adjacent(path[i-1], path[i]) {
			t.Fatalf("step %d jumps from %v to %v", i, path[i-1], path[i])
		}
	}
}

func TestSkeletonComponents_DropsNoise(t *testing.T) {
	m := maskFromArt(t,
		"#.......",
		"#.......",
		"........",
		"...####.",
		"........",
		".......#",
	)

	paths := SkeletonComponents(m, DefaultMinSkeletonPixels)
	if len(paths) != 1 {
		t.Fatalf("got %d components, want 1", len(paths))
	}
	if len(paths[0]) != 4 {
		t.Errorf("got %d points, want 4", len(paths[0]))
	}
}

func TestSkeletonComponents_Empty(t *testing.T) {
	if got := SkeletonComponents(NewMask(8, 8), 3); got != nil {
		t.Errorf("empty mask: got %v", got)
	}
}

func TestSkeletonComponents_LoopVisitsEveryPixel(t *testing.T) {
	m := maskFromArt(t,
		".......",
		".#####.",
		".#...#.",
		".#...#.",
		".#####.",
		".......",
	)

	paths := SkeletonComponents(m, 0)
	if len(paths) != 1 {
		t.Fatalf("got %d components, want 1", len(paths))
	}
	seen := make(map[geometry.Point]bool)
	for _, p := range paths[0] {
		if seen[p] {
			t.Fatalf("pixel %v visited twice", p)
		}
		seen[p] = true
	}
	if len(seen) != Skeletonize(m).Count() {
		t.Errorf("visited %d pixels, skeleton has %d", len(seen), Skeletonize(m).Count())
	}
}
