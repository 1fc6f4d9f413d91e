package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// withSession adds the session selector properties shared by every tool that
// works on a loaded image.
func withSession(props map[string]interface{}) map[string]interface{} {
	props["session_id"] = map[string]interface{}{
		"type":        "string",
		"description": "Session returned by table_load. Takes precedence over path.",
	}
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file. Loaded on first use when no session_id is given.",
	}
	return props
}

func regionSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func tableSizeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"7ft", "8ft", "8ft-pro", "9ft", "10ft-snooker", "12ft-snooker"},
		"description": "Table size. Defaults to the configured table size.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Sessions
		{
			Name:        "table_load",
			Description: "Load a pool table photo and return its dimensions, format and buffer stride. Returns a session_id for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Re-read the file even if it is cached. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "table_close",
			Description: "Forget a loaded image and its analysis results.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withSession(map[string]interface{}{}),
			},
		},
		{
			Name:        "table_sizes",
			Description: "List the supported table sizes with their play field dimensions in inches.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Color Operations
		{
			Name:        "table_sample_color",
			Description: "Get the exact color at a pixel as hex, RGB, HSL and CIE-LAB.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				}),
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "table_sample_colors",
			Description: "Sample several pixels in order. Each sample after the first carries its Delta-E94 distance from the previous one, which helps pick a segmentation threshold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
				}),
				"required": []string{"points"},
			},
		},
		{
			Name:        "table_sample_region",
			Description: "Report the dominant color and color palette of a region, with a PNG preview of it. Without a region the centered quadrant used for cloth detection is sampled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"region": regionSchema("Region to sample (x2, y2 exclusive)"),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Palette entries to return. Default 5",
						"default":     5,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Preview scale factor. Default 1.0",
						"default":     1.0,
					},
				}),
			},
		},
		{
			Name:        "table_cloth_color",
			Description: "Find the cloth color: the most frequent exact color in the centered quadrant of the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Palette entries to return. Default 5",
						"default":     5,
					},
				}),
			},
		},
		{
			Name:        "table_delta_e",
			Description: "Compute the perceptual distance between two colors. color1 is the reference (typically the cloth).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color1": map[string]interface{}{
						"type":        "string",
						"description": "Reference color as #RRGGBB",
					},
					"color2": map[string]interface{}{
						"type":        "string",
						"description": "Sample color as #RRGGBB",
					},
					"profile": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"graphic-arts", "textiles"},
						"description": "CIE94 weighting profile",
					},
					"metric": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"cie94", "cie76", "ciede2000"},
						"description": "Distance formula. Default cie94",
					},
				},
				"required": []string{"color1", "color2"},
			},
		},

		// Analysis
		{
			Name:        "table_analyze",
			Description: "Detect the balls on the table: find the cloth color, segment everything that differs from it, and report each object's pixel and physical geometry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"table_size": tableSizeSchema(),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Delta-E distance from the cloth at which a pixel counts as an object. Default 10",
					},
					"min_blob_pixels": map[string]interface{}{
						"type":        "integer",
						"description": "Drop objects smaller than this many pixels",
					},
					"blur_radius": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius applied before masking",
					},
					"morph_radius": map[string]interface{}{
						"type":        "number",
						"description": "Opening radius applied to the mask",
					},
				}),
			},
		},
		{
			Name:        "table_annotate",
			Description: "Render the image with detected balls outlined and numbered, optionally with a coordinate grid, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"show_balls": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline balls from the last table_analyze call. Default true",
						"default":     true,
					},
					"box_color": map[string]interface{}{
						"type":        "string",
						"description": "Box color as hex. Default #FF00FF",
						"default":     "#FF00FF",
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Grid spacing in pixels. 0 draws no grid",
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with coordinates",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as hex (with optional alpha). Default #FF000080",
						"default":     "#FF000080",
					},
				}),
			},
		},

		// Measurement
		{
			Name:        "table_measure",
			Description: "Measure the distance between two pixels, in pixels and in inches on the table.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"x1":         map[string]interface{}{"type": "integer"},
					"y1":         map[string]interface{}{"type": "integer"},
					"x2":         map[string]interface{}{"type": "integer"},
					"y2":         map[string]interface{}{"type": "integer"},
					"table_size": tableSizeSchema(),
				}),
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "table_compare_regions",
			Description: "Compare two regions pixel by pixel using Delta-E94.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"region1": regionSchema("First region"),
					"region2": regionSchema("Second region"),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Delta-E at which two pixels count as different. Defaults to the configured threshold",
					},
				}),
				"required": []string{"region1", "region2"},
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
