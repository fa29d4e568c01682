package vectorize

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
)

// Feature is one emitted geometry tagged with its category name.
//
// Exactly one geometry field is populated, chosen by Type:
//   - KindPolygon: Ring, the outer boundary without the closing point
//   - KindPoint: Point
//   - KindPolyline: Line, at least two vertices
//
// Features serialise as
//
//	{"type": "Polygon", "category": "...", "coordinates": [[[x, y], ...]]}
//	{"type": "Point", "category": "...", "coordinates": [x, y]}
//	{"type": "Polyline", "category": "...", "coordinates": [[x, y], ...]}
type Feature struct {
	Type     Kind
	Category string
	Ring     []geometry.Point
	Point    geometry.Point
	Line     []geometry.Point
}

// NewPolygon builds a polygon feature from an open ring.
func NewPolygon(category string, ring []geometry.Point) Feature {
	return Feature{Type: KindPolygon, Category: category, Ring: ring}
}

// NewPoint builds a point feature.
func NewPoint(category string, p geometry.Point) Feature {
	return Feature{Type: KindPoint, Category: category, Point: p}
}

// NewPolyline builds a polyline feature.
func NewPolyline(category string, line []geometry.Point) Feature {
	return Feature{Type: KindPolyline, Category: category, Line: line}
}

type featureJSON struct {
	Type        Kind            `json:"type"`
	Category    string          `json:"category"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// MarshalJSON implements json.Marshaler.
func (f Feature) MarshalJSON() ([]byte, error) {
	var coords any
	switch f.Type {
	case KindPolygon:
		coords = [][]geometry.Point{f.Ring}
	case KindPoint:
		coords = f.Point
	case KindPolyline:
		coords = f.Line
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, f.Type)
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}
	return json.Marshal(featureJSON{Type: f.Type, Category: f.Category, Coordinates: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw featureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Feature{Type: raw.Type, Category: raw.Category}
	switch raw.Type {
	case KindPolygon:
		var rings [][]geometry.Point
		if err := json.Unmarshal(raw.Coordinates, &rings); err != nil {
			return fmt.Errorf("polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			return fmt.Errorf("polygon %q has no ring", raw.Category)
		}
		out.Ring = rings[0]
	case KindPoint:
		if err := json.Unmarshal(raw.Coordinates, &out.Point); err != nil {
			return fmt.Errorf("point coordinates: %w", err)
		}
	case KindPolyline:
		if err := json.Unmarshal(raw.Coordinates, &out.Line); err != nil {
			return fmt.Errorf("polyline coordinates: %w", err)
		}
	default:
		return fmt.Errorf("%w: feature without a type", ErrUnknownKind)
	}
	*f = out
	return nil
}

// Record is the feature collection extracted from one label image. Features
// are ordered by class id, then by discovery order within a class.
type Record struct {
	File     string    `json:"file"`
	Features []Feature `json:"features"`
}

// Counts tallies features by kind.
func (r Record) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range r.Features {
		counts[f.Type]++
	}
	return counts
}
