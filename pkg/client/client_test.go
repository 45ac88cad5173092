package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpkit/go-mcp/pkg/protocol"
	"github.com/mcpkit/go-mcp/pkg/session"
	"github.com/mcpkit/go-mcp/pkg/utils"
)

func TestClientInitialize(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())

	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{
			ProtocolVersion: protocol.ProtocolVersion,
			ServerInfo:      protocol.Implementation{Name: "fake-server", Version: "0.1.0"},
			Capabilities: protocol.ServerCapabilities{
				Tools:     &protocol.ToolsCapability{ListChanged: true},
				Resources: &protocol.ResourcesCapability{Subscribe: true},
				Prompts:   &protocol.PromptsCapability{},
				Logging:   &protocol.LoggingCapability{},
			},
		}, nil
	})

	c := New(clientT, WithName("test-client"), WithVersion("0.1.0"))
	defer c.Close(context.Background())

	require.NoError(t, c.Initialize(context.Background()))
	assert.Equal(t, "fake-server", c.ServerInfo().Name)
	assert.NotNil(t, c.ServerCapabilities().Tools)
	assert.True(t, c.ServerCapabilities().Resources.Subscribe)
}

func TestClientInitializeVersionMismatchClosesSession(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())

	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{
			ProtocolVersion: "1999-01-01",
			ServerInfo:      protocol.Implementation{Name: "fake-server"},
		}, nil
	})

	c := New(clientT)
	err := c.Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, session.StateClosed, c.State())
}

func TestClientListToolsWithoutCapabilityIsRejectedLocally(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())
	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{ProtocolVersion: protocol.ProtocolVersion}, nil
	})

	c := New(clientT)
	defer c.Close(context.Background())
	require.NoError(t, c.Initialize(context.Background()))

	_, _, err := c.ListTools(context.Background(), nil)
	require.Error(t, err)
}

func TestClientCallTool(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())

	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{
			ProtocolVersion: protocol.ProtocolVersion,
			Capabilities:    protocol.ServerCapabilities{Tools: &protocol.ToolsCapability{}},
		}, nil
	})
	server.RegisterRequestHandler(protocol.MethodToolsCall, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p protocol.CallToolParams
		require.NoError(t, json.Unmarshal(params, &p))
		return &protocol.CallToolResult{Content: []protocol.Content{protocol.TextContent("ok:" + p.Name)}}, nil
	})

	c := New(clientT)
	defer c.Close(context.Background())
	require.NoError(t, c.Initialize(context.Background()))

	result, err := c.CallTool(context.Background(), "echo", map[string]interface{}{"a": 1})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "ok:echo", result.Content[0].Text)
	assert.False(t, result.IsError)
}

func TestClientSamplingHandlerAnswersServerRequest(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())
	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{ProtocolVersion: protocol.ProtocolVersion}, nil
	})

	handlerCalled := make(chan struct{}, 1)
	c := New(clientT, WithSampling(func(ctx context.Context, p *protocol.CreateMessageParams) (*protocol.CreateMessageResult, error) {
		handlerCalled <- struct{}{}
		return &protocol.CreateMessageResult{Role: protocol.RoleAssistant, Content: protocol.TextContent("hi")}, nil
	}))
	defer c.Close(context.Background())
	require.NoError(t, c.Initialize(context.Background()))

	raw, err := server.SendRequest(context.Background(), protocol.MethodSamplingCreateMsg, &protocol.CreateMessageParams{
		Messages: []protocol.SamplingMessage{{Role: protocol.RoleUser, Content: protocol.TextContent("hello")}},
	})
	require.NoError(t, err)

	select {
	case <-handlerCalled:
	case <-time.After(time.Second):
		t.Fatal("sampling handler was not invoked")
	}

	var result protocol.CreateMessageResult
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "hi", result.Content.Text)
}

func TestClientSamplingRejectedWithoutHandler(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())
	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{ProtocolVersion: protocol.ProtocolVersion}, nil
	})

	c := New(clientT)
	defer c.Close(context.Background())
	require.NoError(t, c.Initialize(context.Background()))

	_, err := server.SendRequest(context.Background(), protocol.MethodSamplingCreateMsg, &protocol.CreateMessageParams{})
	require.Error(t, err)
}

func TestClientRootsListHandler(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())
	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{ProtocolVersion: protocol.ProtocolVersion}, nil
	})

	c := New(clientT, WithRoots(true, protocol.Root{URI: "file:///tmp", Name: "tmp"}))
	defer c.Close(context.Background())
	require.NoError(t, c.Initialize(context.Background()))

	raw, err := server.SendRequest(context.Background(), protocol.MethodRootsList, &protocol.ListRootsParams{})
	require.NoError(t, err)

	var result protocol.ListRootsResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Roots, 1)
	assert.Equal(t, "file:///tmp", result.Roots[0].URI)
}

func TestClientToolsChangedListener(t *testing.T) {
	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	defer server.Close(context.Background())
	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{ProtocolVersion: protocol.ProtocolVersion}, nil
	})

	c := New(clientT)
	defer c.Close(context.Background())

	called := make(chan struct{}, 1)
	c.OnToolsChanged(func() { called <- struct{}{} })

	require.NoError(t, c.Initialize(context.Background()))
	require.NoError(t, server.SendNotification(context.Background(), protocol.MethodToolsListChanged, nil))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("tools changed listener was not invoked")
	}
}

func TestClientGoroutineLeak(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetAllowedGrowth(2).
		SetStabilizeDelay(300 * time.Millisecond)
	detector.Start()

	clientT, serverT := newMemTransportPair()
	server := session.New(serverT, session.RoleServer)
	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{ProtocolVersion: protocol.ProtocolVersion}, nil
	})

	c := New(clientT)
	require.NoError(t, c.Initialize(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, server.Close(context.Background()))

	detector.Check()
}
