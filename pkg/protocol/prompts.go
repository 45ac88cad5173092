package protocol

// Prompt is a named, parameterizable template the server exposes for the
// assistant to render (spec §3, GLOSSARY).
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one named input a prompt template accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptMessage is one rendered message of a prompt (spec §4.1 Content
// tagged union carries the body).
type PromptMessage struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}

// ListPromptsParams is the (optionally paginated) request for
// `prompts/list`.
type ListPromptsParams struct {
	PaginationParams
}

// ListPromptsResult is the response for `prompts/list`.
type ListPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
	PaginationResult
}

// GetPromptParams is the request for `prompts/get`.
type GetPromptParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// GetPromptResult is the response for `prompts/get`.
type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}
