package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var profileSchema = map[string]any{
	"type":                 "object",
	"description":          "Keyword weights, e.g. {\"law\": 20, \"medicine\": 5}. Weights must not be negative.",
	"additionalProperties": map[string]any{"type": "number", "minimum": 0},
}

var limitSchema = map[string]any{
	"type":        "integer",
	"description": "Maximum number of results (0 uses the default, negative returns everything)",
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "search_records",
		Description: "Filter the catalog by text, category and price bucket, then rank the matches against a keyword profile. With no profile signal the ranking falls back to popularity.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Case-insensitive text matched against name, city and tags",
				},
				"category": map[string]any{
					"type":        "string",
					"description": "Category to keep. Use 'all' or omit for no filter.",
				},
				"bucket": map[string]any{
					"type":        "string",
					"description": "Price bucket to keep (free, low, medium, high, unknown). Use 'all' or omit for no filter.",
				},
				"profile": profileSchema,
				"limit":   limitSchema,
			},
		},
	},
	{
		Name:        "recommend",
		Description: "Turn interest-test answers into a keyword profile and return the best matching records.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answers": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "One career category per answered question: it, engineering, medicine, education, business, law, arts, science",
				},
				"limit": limitSchema,
			},
			"required": []string{"answers"},
		},
	},
	{
		Name:        "get_record",
		Description: "Get a single catalog record by id.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Record id",
				},
			},
			"required": []string{"id"},
		},
	},
	{
		Name:        "refine_search",
		Description: "Adjust the running search one step at a time and return the new ranking. Omitted fields keep their previous value. A weight of 0 removes the keyword.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Clear every facet and the profile before applying the other fields",
				},
				"text":     map[string]any{"type": "string"},
				"category": map[string]any{"type": "string"},
				"bucket":   map[string]any{"type": "string"},
				"weights":  profileSchema,
				"limit":    limitSchema,
			},
		},
	},
	{
		Name:        "get_facets",
		Description: "Get the available categories and price buckets with record counts.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}
