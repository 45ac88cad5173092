package protocol

import "encoding/json"

// Tool is a declarative descriptor of a server-exposed operation (spec §3).
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ListToolsParams is the (optionally paginated) request for `tools/list`.
type ListToolsParams struct {
	PaginationParams
}

// ListToolsResult is the response for `tools/list`.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
	PaginationResult
}

// CallToolParams is the request for `tools/call`.
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// CallToolResult is the response for `tools/call`. Handler errors are
// reported in-band via IsError/Content rather than as a JSON-RPC error
// (spec §4.5, §7 HandlerError) so that LLM-visible tool failures stay in
// the model's context.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// ErrorResult builds a CallToolResult carrying a handler failure as a
// single text content item with IsError set.
func ErrorResult(message string) CallToolResult {
	return CallToolResult{Content: []Content{TextContent(message)}, IsError: true}
}
