package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeParamsRoundTrip(t *testing.T) {
	params := InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ClientCapabilities{
			Roots:    &RootsCapability{ListChanged: true},
			Sampling: &SamplingCapability{},
		},
		ClientInfo: Implementation{Name: "c", Version: "0.0.0"},
	}

	data, err := json.Marshal(params)
	require.NoError(t, err)

	var decoded InitializeParams
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, params, decoded)
}

func TestClientCapabilitiesAbsentSubObjectOmitted(t *testing.T) {
	data, err := json.Marshal(ClientCapabilities{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestServerCapabilitiesPresenceModel(t *testing.T) {
	caps := ServerCapabilities{Tools: &ToolsCapability{ListChanged: true}}
	data, err := json.Marshal(caps)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tools":{"listChanged":true}}`, string(data))

	var decoded ServerCapabilities
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Tools)
	assert.True(t, decoded.Tools.ListChanged)
	assert.Nil(t, decoded.Prompts)
	assert.Nil(t, decoded.Resources)
}

func TestInitializeResultRoundTrip(t *testing.T) {
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
		ServerInfo:      Implementation{Name: "s", Version: "1.0.0"},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	var decoded InitializeResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result, decoded)
}

func TestLoggingLevelValues(t *testing.T) {
	levels := []LoggingLevel{
		LoggingLevelDebug, LoggingLevelInfo, LoggingLevelNotice, LoggingLevelWarning,
		LoggingLevelError, LoggingLevelCritical, LoggingLevelAlert, LoggingLevelEmergency,
	}
	assert.Len(t, levels, 8)
}
