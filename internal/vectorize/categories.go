package vectorize

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ironsheep/label-vectorizer/internal/raster"
)

// Kind is the geometry type emitted for a category.
type Kind int

const (
	// KindNone marks the background class, which is never emitted.
	KindNone Kind = iota
	KindPolygon
	KindPoint
	KindPolyline
)

var kindNames = map[Kind]string{
	KindPolygon:  "Polygon",
	KindPoint:    "Point",
	KindPolyline: "Polyline",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return ""
}

// ParseKind accepts a kind name case-insensitively. The empty string is
// KindNone.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindNone, nil
	}
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Category describes one class id.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind,omitempty"`
}

// Table maps class ids to categories. A Table is built once through
// NewTable, which validates it, and is read-only afterwards; it is safe to
// share between goroutines.
type Table struct {
	byID map[int]Category
	ids  []int
}

var defaultCategories = []Category{
	{ID: 0, Name: "Background"},
	{ID: 1, Name: "Water", Kind: KindPolygon},
	{ID: 2, Name: "Building_No_Damage", Kind: KindPolygon},
	{ID: 3, Name: "Building_Minor_Damage", Kind: KindPolygon},
	{ID: 4, Name: "Building_Major_Damage", Kind: KindPolygon},
	{ID: 5, Name: "Building_Total_Destruction", Kind: KindPolygon},
	{ID: 6, Name: "Vehicle", Kind: KindPoint},
	{ID: 7, Name: "Road-Clear", Kind: KindPolyline},
	{ID: 8, Name: "Road-Blocked", Kind: KindPolyline},
	{ID: 9, Name: "Tree", Kind: KindPoint},
	{ID: 10, Name: "Pool", Kind: KindPoint},
}

// DefaultTable returns the damage-assessment category table (ids 0-10).
func DefaultTable() *Table {
	t, err := NewTable(defaultCategories)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable validates cats and builds a table from them.
//
// Rules:
//   - at least one category
//   - ids are unique and not negative
//   - names are non-empty
//   - id 0 is background and must not carry a kind
//   - every other id must carry a kind
func NewTable(cats []Category) (*Table, error) {
	if len(cats) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidTable)
	}
	t := &Table{byID: make(map[int]Category, len(cats))}
	for _, c := range cats {
		if c.ID < 0 {
			return nil, fmt.Errorf("%w: negative id %d", ErrInvalidTable, c.ID)
		}
		if _, dup := t.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidTable, c.ID)
		}
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: id %d has no name", ErrInvalidTable, c.ID)
		}
		if _, known := kindNames[c.Kind]; c.Kind != KindNone && !known {
			return nil, fmt.Errorf("%w: id %d has kind %d", ErrInvalidTable, c.ID, c.Kind)
		}
		if c.ID == 0 && c.Kind != KindNone {
			return nil, fmt.Errorf("%w: background id 0 cannot be a %s", ErrInvalidTable, c.Kind)
		}
		if c.ID != 0 && c.Kind == KindNone {
			return nil, fmt.Errorf("%w: id %d (%s) has no kind", ErrInvalidTable, c.ID, c.Name)
		}
		t.byID[c.ID] = c
		t.ids = append(t.ids, c.ID)
	}
	sort.Ints(t.ids)
	return t, nil
}

// ParseTable decodes a JSON array of categories and validates it.
func ParseTable(data []byte) (*Table, error) {
	var cats []Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	return NewTable(cats)
}

// LoadTable reads a JSON category table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Lookup returns the category for id.
func (t *Table) Lookup(id int) (Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// Categories returns every category in ascending id order.
func (t *Table) Categories() []Category {
	out := make([]Category, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.byID[id])
	}
	return out
}

// Len returns the number of categories.
func (t *Table) Len() int {
	return len(t.ids)
}

// Check verifies that every non-background class present in img has an
// entry, returning ErrUnknownClass for the first one that does not.
func (t *Table) Check(img *raster.LabelImage) error {
	for _, id := range img.Classes() {
		c, ok := t.byID[id]
		if !ok || c.Kind == KindNone {
			return fmt.Errorf("%w: %d", ErrUnknownClass, id)
		}
	}
	return nil
}
