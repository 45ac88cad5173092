package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMessageParamsRoundTrip(t *testing.T) {
	params := CreateMessageParams{
		Messages: []SamplingMessage{{Role: RoleUser, Content: TextContent("Test message")}},
		ModelPreferences: &ModelPreferences{
			CostPriority:         1.0,
			SpeedPriority:        1.0,
			IntelligencePriority: 1.0,
		},
	}
	data, err := json.Marshal(params)
	require.NoError(t, err)
	var decoded CreateMessageParams
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, params, decoded)
}

func TestCreateMessageResult(t *testing.T) {
	result := CreateMessageResult{
		Role:       RoleAssistant,
		Content:    TextContent("CALL RESPONSE"),
		Model:      "MockModelName",
		StopReason: StopReasonStopSequence,
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	var decoded CreateMessageResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result, decoded)
}

func TestRootRoundTrip(t *testing.T) {
	root := Root{URI: "uri1://", Name: "root1"}
	data, err := json.Marshal(root)
	require.NoError(t, err)
	var decoded Root
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, root, decoded)
}

func TestContentUnknownTypeRejected(t *testing.T) {
	var c Content
	err := json.Unmarshal([]byte(`{"type":"bogus"}`), &c)
	assert.Error(t, err)
}

func TestContentDispatchesOnTypeNotShape(t *testing.T) {
	text := TextContent("hi")
	data, err := json.Marshal(text)
	require.NoError(t, err)

	var decoded Content
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ContentTypeText, decoded.Type)
	assert.Empty(t, decoded.Data)
	assert.Nil(t, decoded.Resource)
}
