package protocol

// SamplingMessage is one message in a sampling request's conversation
// history (spec §8 scenario S2).
type SamplingMessage struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}

// CreateMessageParams is the request body for server→client
// `sampling/createMessage` (spec §4.4, §4.5).
type CreateMessageParams struct {
	Messages                []SamplingMessage        `json:"messages"`
	ModelPreferences        *ModelPreferences         `json:"modelPreferences,omitempty"`
	SystemPrompt            string                    `json:"systemPrompt,omitempty"`
	IncludeContext          ContextInclusionStrategy  `json:"includeContext,omitempty"`
	Temperature             float64                   `json:"temperature,omitempty"`
	MaxTokens               int                        `json:"maxTokens,omitempty"`
	StopSequences           []string                  `json:"stopSequences,omitempty"`
	Metadata                map[string]interface{}    `json:"metadata,omitempty"`
}

// CreateMessageResult is the client's reply to `sampling/createMessage`.
type CreateMessageResult struct {
	Role       Role       `json:"role"`
	Content    Content    `json:"content"`
	Model      string     `json:"model,omitempty"`
	StopReason StopReason `json:"stopReason,omitempty"`
}

// Root is a workspace anchor the client advertises to the server (spec
// §3, GLOSSARY). The client owns the list; changes are announced by the
// `notifications/roots/list_changed` notification.
type Root struct {
	URI  string `json:"uri"`
	Name string `json:"name,omitempty"`
}

// ListRootsParams is the (always empty) request body for `roots/list`.
type ListRootsParams struct{}

// ListRootsResult is the client's reply to server-initiated `roots/list`.
type ListRootsResult struct {
	Roots []Root `json:"roots"`
}
