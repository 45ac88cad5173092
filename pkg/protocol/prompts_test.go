package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptRoundTrip(t *testing.T) {
	p := Prompt{
		Name:        "greet",
		Description: "says hello",
		Arguments:   []PromptArgument{{Name: "name", Required: true}},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded Prompt
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestGetPromptResultWithTextMessage(t *testing.T) {
	result := GetPromptResult{
		Messages: []PromptMessage{{Role: RoleUser, Content: TextContent("hi")}},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	var decoded GetPromptResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Messages, 1)
	assert.Equal(t, ContentTypeText, decoded.Messages[0].Content.Type)
	assert.Equal(t, "hi", decoded.Messages[0].Content.Text)
}

func TestListPromptsParamsCursor(t *testing.T) {
	params := ListPromptsParams{PaginationParams: PaginationParams{Cursor: "abc"}}
	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cursor":"abc"}`, string(data))
}
