package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(int64(1), MethodToolsList, nil)
	require.NoError(t, err)
	assert.Equal(t, JSONRPCVersion, req.JSONRPC)
	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, MethodToolsList, req.Method)
	assert.Nil(t, req.Params)

	req, err = NewRequest(int64(2), MethodToolsCall, CallToolParams{Name: "tool1"})
	require.NoError(t, err)
	var got CallToolParams
	require.NoError(t, json.Unmarshal(req.Params, &got))
	assert.Equal(t, "tool1", got.Name)
}

func TestNewResponse(t *testing.T) {
	resp, err := NewResponse(int64(1), ListToolsResult{Tools: []Tool{{Name: "t"}}})
	require.NoError(t, err)
	assert.Nil(t, resp.Error)
	var got ListToolsResult
	require.NoError(t, json.Unmarshal(resp.Result, &got))
	assert.Equal(t, "t", got.Tools[0].Name)
}

func TestNewErrorResponse(t *testing.T) {
	resp, err := NewErrorResponse(int64(1), MethodNotFound, "method not found", nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Result)
	require.NotNil(t, resp.Error)
	assert.Equal(t, MethodNotFound, resp.Error.Code)
}

func TestNewNotification(t *testing.T) {
	n, err := NewNotification(MethodInitialized, nil)
	require.NoError(t, err)
	assert.Equal(t, MethodInitialized, n.Method)
}

func TestClassifyRequest(t *testing.T) {
	req, _ := NewRequest(int64(1), MethodPing, nil)
	data, _ := json.Marshal(req)
	assert.True(t, IsRequest(data))
	assert.False(t, IsResponse(data))
	assert.False(t, IsNotification(data))
}

func TestClassifyResponse(t *testing.T) {
	resp, _ := NewResponse(int64(1), PingResult{})
	data, _ := json.Marshal(resp)
	assert.False(t, IsRequest(data))
	assert.True(t, IsResponse(data))
	assert.False(t, IsNotification(data))
}

func TestClassifyNotification(t *testing.T) {
	n, _ := NewNotification(MethodInitialized, nil)
	data, _ := json.Marshal(n)
	assert.False(t, IsRequest(data))
	assert.False(t, IsResponse(data))
	assert.True(t, IsNotification(data))
}

func TestErrorResponseRoundTrip(t *testing.T) {
	resp, err := NewErrorResponse(int64(7), CodeCapabilityRequired, "capability missing", map[string]string{"capability": "sampling"})
	require.NoError(t, err)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, resp.ID, decoded.ID)
	assert.Equal(t, resp.Error.Code, decoded.Error.Code)
	assert.Equal(t, resp.Error.Message, decoded.Error.Message)
}
