package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/ironsheep/label-vectorizer/internal/geometry"
	"github.com/ironsheep/label-vectorizer/internal/log"
	"github.com/ironsheep/label-vectorizer/internal/vectorize"
)

// Format selects the output encoding.
type Format int

const (
	// FormatJSON is a JSON array of records, indented by four spaces.
	FormatJSON Format = iota

	// FormatGeoJSON is a single FeatureCollection holding every feature of
	// every record.
	FormatGeoJSON
)

// ErrUnknownFormat is returned for an unrecognised output format name.
var ErrUnknownFormat = errors.New("unknown output format")

const tmpOutput = ".vectors_%s.tmp"

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatGeoJSON:
		return "geojson"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps "json" or "geojson" to a Format. The empty string is
// FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "geojson":
		return FormatGeoJSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// EncodeJSON writes recs as an indented JSON array. No records encode as [].
func EncodeJSON(w io.Writer, recs []vectorize.Record) error {
	if recs == nil {
		recs = []vectorize.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(recs)
}

// FeatureCollection flattens recs into one GeoJSON FeatureCollection.
//
// Polygons become Polygon geometries with a closed outer ring, polylines
// become LineStrings and points stay Points. Every feature carries the
// properties "file", "category" and "kind". Coordinates stay in pixel
// space (x = column, y = row).
func FeatureCollection(recs []vectorize.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, rec := range recs {
		for _, f := range rec.Features {
			var g orb.Geometry
			switch f.Type {
			case vectorize.KindPolygon:
				g = orb.Polygon{geometry.ToRing(f.Ring)}
			case vectorize.KindPolyline:
				g = geometry.ToLineString(f.Line)
			case vectorize.KindPoint:
				g = orb.Point{float64(f.Point.X), float64(f.Point.Y)}
			default:
				continue
			}

			gf := geojson.NewFeature(g)
			gf.Properties["file"] = rec.File
			gf.Properties["category"] = f.Category
			gf.Properties["kind"] = f.Type.String()
			fc.Append(gf)
		}
	}
	return fc
}

// EncodeGeoJSON writes recs as an indented GeoJSON FeatureCollection.
func EncodeGeoJSON(w io.Writer, recs []vectorize.Record) error {
	data, err := FeatureCollection(recs).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode feature collection: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// Encode writes recs to w in the given format.
func Encode(w io.Writer, recs []vectorize.Record, format Format) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(w, recs)
	case FormatGeoJSON:
		return EncodeGeoJSON(w, recs)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// WriteFile encodes recs to path. The data goes to a uuid-named temp file
// next to path first and is renamed over it only once fully written.
func WriteFile(path string, recs []vectorize.Record, format Format) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(tmpOutput, uuid.NewString()))
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err = Encode(f, recs, format); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	log.Info(logTag+"output written", zap.String("path", path),
		zap.String("format", format.String()), zap.Int("records", len(recs)))
	return nil
}

// DecodeRecords reads a JSON array of records.
func DecodeRecords(r io.Reader) ([]vectorize.Record, error) {
	var recs []vectorize.Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return recs, nil
}

// ReadFile reads records written by WriteFile in FormatJSON.
func ReadFile(path string) ([]vectorize.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer f.Close()
	return DecodeRecords(f)
}
