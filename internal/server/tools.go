package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProp = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	sessionProp = map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by region_session_open",
	}
	indexProp = map[string]interface{}{
		"type":        "integer",
		"description": "1-based region index (seed order)",
	}
	scaleProp = map[string]interface{}{
		"type":        "number",
		"description": "Optional output scale factor (nearest neighbor). Default 1.0",
		"default":     1.0,
	}
	thresholdProp = map[string]interface{}{
		"type":        "number",
		"description": "Intensity tolerance (>= 0). A neighbor joins while |value - reference| < threshold. Defaults to the server configuration.",
	}
	modeProp = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"constant", "average"},
		"description": "constant: compare against the seed intensity. average: compare against the running mean of the region. Defaults to the server configuration.",
	}
	maxStepsProp = map[string]interface{}{
		"type":        "integer",
		"description": "Optional bound on BFS frontier pops per seed. 0 = unbounded",
	}
)

func sessionOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": sessionProp,
		},
		"required": []string{"session_id"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp,
				},
				"required": []string{"path"},
			},
		},

		// Stateless growth
		{
			Name:        "region_grow",
			Description: "Grow one region from a single seed pixel without opening a session. Returns the mask as base64 PNG (white = region), the BFS step count and region statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProp,
					"x":         map[string]interface{}{"type": "integer", "description": "Seed X coordinate (column, 0-based)"},
					"y":         map[string]interface{}{"type": "integer", "description": "Seed Y coordinate (row, 0-based)"},
					"threshold": thresholdProp,
					"mode":      modeProp,
					"max_steps": maxStepsProp,
					"scale":     scaleProp,
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Session lifecycle
		{
			Name:        "region_session_open",
			Description: "Open a segmentation session on an image. Threshold and mode are fixed for the session's lifetime.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProp,
					"threshold": thresholdProp,
					"mode":      modeProp,
					"max_steps": maxStepsProp,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "region_add_seed",
			Description: "Add a seed to a session and grow its region. Out of bounds seeds are rejected, never clamped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id":   sessionProp,
					"x":            map[string]interface{}{"type": "integer", "description": "Seed X coordinate (column, 0-based)"},
					"y":            map[string]interface{}{"type": "integer", "description": "Seed Y coordinate (row, 0-based)"},
					"include_mask": map[string]interface{}{"type": "boolean", "description": "Return the region mask as base64 PNG. Default false", "default": false},
				},
				"required": []string{"session_id", "x", "y"},
			},
		},
		{
			Name:        "region_add_seeds",
			Description: "Add several seeds in order. All seeds are bounds-checked first; if any is invalid none are added.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionProp,
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Seeds in the order they should be grown",
					},
				},
				"required": []string{"session_id", "points"},
			},
		},
		{
			Name:        "region_clear",
			Description: "Discard all seeds and regions of a session.",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "region_status",
			Description: "List a session's state, configuration and seeds with their region sizes.",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "region_session_close",
			Description: "Close a session and free its resources.",
			InputSchema: sessionOnlySchema(),
		},

		// Visualization
		{
			Name:        "region_preview",
			Description: "Render the labeled preview: region i of n gets intensity i*(255/n); later seeds win where regions overlap. With colorize=true each region gets a distinct hue instead.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionProp,
					"colorize":   map[string]interface{}{"type": "boolean", "description": "Use distinct hues instead of gray bands. Default false", "default": false},
					"scale":      scaleProp,
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "region_markers",
			Description: "Render the grayscale image with every seed marked and numbered.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionProp,
					"color":      map[string]interface{}{"type": "string", "description": "Marker color as hex (#RRGGBB or #RRGGBBAA). Default #FF0000", "default": "#FF0000"},
					"scale":      scaleProp,
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "region_outline",
			Description: "Render the grayscale image with the boundary of every region drawn on top.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionProp,
					"color":      map[string]interface{}{"type": "string", "description": "Outline color as hex. Default #00FF00", "default": "#00FF00"},
					"scale":      scaleProp,
				},
				"required": []string{"session_id"},
			},
		},

		// Analysis
		{
			Name:        "region_measure",
			Description: "Measure one region: area, bounding box, centroid and intensity statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionProp,
					"index":      indexProp,
				},
				"required": []string{"session_id", "index"},
			},
		},
		{
			Name:        "region_crop",
			Description: "Crop one region's color pixels to its bounding box. Pixels outside the region are transparent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionProp,
					"index":      indexProp,
					"scale":      scaleProp,
				},
				"required": []string{"session_id", "index"},
			},
		},
		{
			Name:        "region_finalize",
			Description: "Finish a session: returns the combined color overlay of all regions and, optionally, each region's mask. A session with no seeds reports no_regions and stays open.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id":      sessionProp,
					"include_regions": map[string]interface{}{"type": "boolean", "description": "Also return every region mask as base64 PNG. Default true", "default": true},
					"scale":           scaleProp,
				},
				"required": []string{"session_id"},
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
