package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

const (
	resourceSummary = "studyhub://summary"
	resourceFacets  = "studyhub://facets"
	resourceSession = "studyhub://session"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         resourceSummary,
		Name:        "Catalog Summary",
		Description: "Loaded catalog size, snapshot version and the most popular records",
		MimeType:    "text/plain",
	},
	{
		URI:         resourceFacets,
		Name:        "Facets",
		Description: "Categories and price buckets with record counts",
		MimeType:    "text/plain",
	},
	{
		URI:         resourceSession,
		Name:        "Current Search",
		Description: "Facets and profile of the search being refined",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
