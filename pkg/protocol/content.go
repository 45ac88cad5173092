package protocol

import (
	"encoding/json"
	"fmt"
)

// ContentType discriminates the Content tagged union (spec §4.1:
// "an implementer must dispatch on this discriminator rather than on
// structural shape").
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeResource ContentType = "resource"
)

// Content is a tagged union over {text, image, resource}. Exactly the
// fields relevant to Type are populated; callers must switch on Type,
// never on which fields happen to be non-zero.
type Content struct {
	Type ContentType `json:"type"`

	// Text is populated when Type == ContentTypeText.
	Text string `json:"text,omitempty"`

	// Data and MIMEType are populated when Type == ContentTypeImage.
	Data     string `json:"data,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`

	// Resource is populated when Type == ContentTypeResource.
	Resource *ResourceContents `json:"resource,omitempty"`
}

// TextContent builds a Content of type text.
func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}

// ImageContent builds a Content of type image.
func ImageContent(data, mimeType string) Content {
	return Content{Type: ContentTypeImage, Data: data, MIMEType: mimeType}
}

// EmbeddedResourceContent builds a Content of type resource.
func EmbeddedResourceContent(res ResourceContents) Content {
	return Content{Type: ContentTypeResource, Resource: &res}
}

// UnmarshalJSON enforces discriminator-based decoding: unknown or
// malformed type values are rejected rather than silently accepted with
// zero-value fields, which would hide a wire-level protocol error.
func (c *Content) UnmarshalJSON(data []byte) error {
	type alias Content
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	switch a.Type {
	case ContentTypeText, ContentTypeImage, ContentTypeResource:
	default:
		return fmt.Errorf("protocol: unknown content type %q", a.Type)
	}
	*c = Content(a)
	return nil
}

// ModelHint is an advisory, non-binding suggestion for which model a
// sampling request prefers (spec §8 scenario S2).
type ModelHint struct {
	Name string `json:"name,omitempty"`
}

// ModelPreferences carries advisory-only priorities for a sampling
// request; servers must not assume the client honors them exactly.
type ModelPreferences struct {
	Hints                []ModelHint `json:"hints,omitempty"`
	CostPriority         float64     `json:"costPriority,omitempty"`
	SpeedPriority        float64     `json:"speedPriority,omitempty"`
	IntelligencePriority float64     `json:"intelligencePriority,omitempty"`
}
