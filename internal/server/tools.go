package server

import "github.com/ironsheep/label-vectorizer/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var labelPathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the label image (one class id per pixel)",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "label_vectorize",
			Description: "Vectorise a label image into polygons, points and polylines tagged with their category. " +
				"Coordinates are pixel positions: x is the column, y is the row, origin at the top-left.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": labelPathProperty,
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"skeleton", "contour"},
						"description": "Polyline extraction: 'skeleton' follows road centerlines, 'contour' simplifies road outlines. Default from server configuration",
					},
					"polyline_epsilon": map[string]interface{}{
						"type":        "number",
						"description": "Centerline simplification tolerance in pixels. 0 keeps every skeleton pixel",
						"minimum":     0,
					},
					"polygon_epsilon": map[string]interface{}{
						"type":        "number",
						"description": "Polygon ring simplification tolerance in pixels. 0 keeps the traced boundary",
						"minimum":     0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "label_classes",
			Description: "List the class ids present in a label image with their pixel counts and category names. Use this to check a file before vectorising it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": labelPathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "categories_list",
			Description: "List the category table: class id, name and geometry kind (Polygon, Point or Polyline), plus the overlay colour when a style file is loaded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name: "vector_render",
			Description: "Vectorise a label image and draw the result over its source imagery, returned as base64-encoded PNG. " +
				"The imagery is darkened; polygons and polylines are outlined, points drawn as discs.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": labelPathProperty,
					"backdrop": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source imagery. Default: the label name without '_lab', as .jpg, in the configured image directory",
					},
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.Regions,
						"description": "Part of the overlay to return. Default full",
						"default":     "full",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
