package server

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ironsheep/label-vectorizer/internal/imaging"
	"github.com/ironsheep/label-vectorizer/internal/log"
	"github.com/ironsheep/label-vectorizer/internal/vectorize"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "label_vectorize", "vector_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Warn(logTag+"tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads label grids from cache as needed
//  4. Calls the extractor and, for rendering, the overlay renderer
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "label_vectorize":
		return s.handleLabelVectorize(args)
	case "label_classes":
		return s.handleLabelClasses(args)
	case "categories_list":
		return s.handleCategoriesList(args)
	case "vector_render":
		return s.handleVectorRender(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments; an absent argument object is the
// same as an empty one.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Vectorisation ===

type labelVectorizeArgs struct {
	Path            string   `json:"path"`
	Strategy        string   `json:"strategy"`
	PolylineEpsilon *float64 `json:"polyline_epsilon"`
	PolygonEpsilon  *float64 `json:"polygon_epsilon"`
}

// vectorizeResult is the record for one label file plus a per-kind tally.
type vectorizeResult struct {
	vectorize.Record
	HasFeatures bool           `json:"has_features"` // False when the image yields nothing
	Counts      map[string]int `json:"counts"`       // Features per geometry kind
}

// extractorFor returns the server's extractor, or a variant of it when the
// call overrides any option.
func (s *Server) extractorFor(a labelVectorizeArgs) (*vectorize.Extractor, error) {
	if a.Strategy == "" && a.PolylineEpsilon == nil && a.PolygonEpsilon == nil {
		return s.ex, nil
	}

	opts := s.ex.Options()
	if a.Strategy != "" {
		strategy, err := vectorize.ParseStrategy(a.Strategy)
		if err != nil {
			return nil, err
		}
		opts.Strategy = strategy
	}
	if a.PolylineEpsilon != nil {
		opts.PolylineEpsilon = *a.PolylineEpsilon
	}
	if a.PolygonEpsilon != nil {
		opts.PolygonEpsilon = *a.PolygonEpsilon
	}
	return vectorize.New(opts)
}

// extract loads path through the cache and vectorises it. A file without
// features yields an empty record for that file.
func (s *Server) extract(ex *vectorize.Extractor, path string) (vectorize.Record, bool, error) {
	if path == "" {
		return vectorize.Record{}, false, fmt.Errorf("path is required")
	}
	labels, err := s.cache.Load(path)
	if err != nil {
		return vectorize.Record{}, false, err
	}
	rec, ok, err := ex.Extract(filepath.Base(path), labels)
	if err != nil {
		return vectorize.Record{}, false, err
	}
	if !ok {
		rec = vectorize.Record{File: filepath.Base(path), Features: []vectorize.Feature{}}
	}
	return rec, ok, nil
}

func (s *Server) handleLabelVectorize(args json.RawMessage) (interface{}, error) {
	var a labelVectorizeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	ex, err := s.extractorFor(a)
	if err != nil {
		return nil, err
	}
	rec, ok, err := s.extract(ex, a.Path)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for kind, n := range rec.Counts() {
		counts[kind.String()] = n
	}
	return &vectorizeResult{Record: rec, HasFeatures: ok, Counts: counts}, nil
}

// === Label inspection ===

type labelPathArgs struct {
	Path string `json:"path"`
}

// classEntry describes one class id found in a label file.
type classEntry struct {
	ID     int    `json:"id"`
	Name   string `json:"name,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Pixels int    `json:"pixels"`
	Known  bool   `json:"known"` // Whether the category table defines this id
}

type classesResult struct {
	*imaging.LabelInfo
	Categories []classEntry `json:"categories"`
}

func (s *Server) handleLabelClasses(args json.RawMessage) (interface{}, error) {
	var a labelPathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	info, err := imaging.LoadLabelInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	entries := make([]classEntry, 0, len(info.Classes))
	for _, id := range info.Classes {
		e := classEntry{ID: id, Pixels: info.PixelCounts[id]}
		if c, ok := s.ex.Table().Lookup(id); ok {
			e.Name = c.Name
			e.Kind = c.Kind.String()
			e.Known = c.Kind != vectorize.KindNone
		}
		entries = append(entries, e)
	}
	return &classesResult{LabelInfo: info, Categories: entries}, nil
}

// === Category table ===

type categoryEntry struct {
	vectorize.Category
	Color *imaging.ColorResult `json:"color,omitempty"` // Overlay colour, when a style is loaded
}

type categoriesResult struct {
	Categories []categoryEntry `json:"categories"`
}

func (s *Server) handleCategoriesList(args json.RawMessage) (interface{}, error) {
	cats := s.ex.Table().Categories()
	out := make([]categoryEntry, 0, len(cats))
	for _, c := range cats {
		e := categoryEntry{Category: c}
		if s.colors != nil && c.Kind != vectorize.KindNone {
			col := s.colors.Describe(c.Name)
			e.Color = &col
		}
		out = append(out, e)
	}
	return &categoriesResult{Categories: out}, nil
}

// === Rendering ===

type vectorRenderArgs struct {
	Path     string  `json:"path"`
	Backdrop string  `json:"backdrop"`
	Region   string  `json:"region"`
	Scale    float64 `json:"scale"`
}

func (s *Server) handleVectorRender(args json.RawMessage) (interface{}, error) {
	var a vectorRenderArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	rec, _, err := s.extract(s.ex, a.Path)
	if err != nil {
		return nil, err
	}

	backdropPath := a.Backdrop
	if backdropPath == "" {
		if s.imageDir == "" {
			return nil, fmt.Errorf("backdrop is required when no image directory is configured")
		}
		backdropPath = filepath.Join(s.imageDir, imaging.BackdropName(a.Path))
	}
	backdrop, err := imaging.LoadBackdrop(backdropPath)
	if err != nil {
		return nil, err
	}

	if labels, err := s.cache.Load(a.Path); err == nil {
		b := backdrop.Bounds()
		if b.Dx() != labels.Width || b.Dy() != labels.Height {
			log.Warn(logTag+"backdrop size differs from label grid",
				zap.String("backdrop", backdropPath),
				zap.Int("backdrop_width", b.Dx()), zap.Int("backdrop_height", b.Dy()),
				zap.Int("label_width", labels.Width), zap.Int("label_height", labels.Height))
		}
	}

	return imaging.EncodeOverlay(backdrop, rec, s.colors, imaging.OverlayOptions{
		Region: a.Region,
		Scale:  a.Scale,
	})
}
