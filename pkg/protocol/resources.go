package protocol

import "encoding/json"

// Resource is a URI-addressed readable artifact the server exposes,
// optionally subscribable (spec §3, GLOSSARY).
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// ResourceContents is the body returned by `resources/read`, or carried
// inline in a sampling message via Content.Resource.
type ResourceContents struct {
	URI      string          `json:"uri"`
	MIMEType string          `json:"mimeType,omitempty"`
	Text     string          `json:"text,omitempty"`
	Blob     json.RawMessage `json:"blob,omitempty"`
}

// ListResourcesParams is the (optionally paginated) request for
// `resources/list`.
type ListResourcesParams struct {
	PaginationParams
}

// ListResourcesResult is the response for `resources/list`.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
	PaginationResult
}

// ReadResourceParams is the request for `resources/read`.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ReadResourceResult is the response for `resources/read`.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// SubscribeResourceParams is the request for `resources/subscribe`.
type SubscribeResourceParams struct {
	URI string `json:"uri"`
}

// SubscribeResourceResult is the (empty) response for `resources/subscribe`.
type SubscribeResourceResult struct{}

// ResourceUpdatedParams is the body of
// `notifications/resources/updated`.
type ResourceUpdatedParams struct {
	URI string `json:"uri"`
}
