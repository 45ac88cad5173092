package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpkit/go-mcp/pkg/protocol"
	"github.com/mcpkit/go-mcp/pkg/transport"
	"github.com/mcpkit/go-mcp/pkg/utils"
)

// blackholeTransport accepts sends and never produces inbound traffic,
// useful for exercising timeout and close-while-pending paths.
type blackholeTransport struct {
	inbound chan transport.Message
}

func newBlackholeTransport() *blackholeTransport {
	return &blackholeTransport{inbound: make(chan transport.Message)}
}

func (b *blackholeTransport) Send(ctx context.Context, data []byte) error { return nil }
func (b *blackholeTransport) Receive() <-chan transport.Message           { return b.inbound }
func (b *blackholeTransport) Close(ctx context.Context) error             { return nil }

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, cond(), "condition did not become true within %s", timeout)
}

func TestSessionInitializeHandshake(t *testing.T) {
	clientT, serverT := newMemTransportPair()

	server := New(serverT, RoleServer)
	defer server.Close(context.Background())

	server.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return &protocol.InitializeResult{
			ProtocolVersion: protocol.ProtocolVersion,
			ServerInfo:      protocol.Implementation{Name: "test-server", Version: "1.0.0"},
			Capabilities:    protocol.ServerCapabilities{Tools: &protocol.ToolsCapability{}},
		}, nil
	})

	client := New(clientT, RoleClient)
	defer client.Close(context.Background())

	raw, err := client.SendRequest(context.Background(), protocol.MethodInitialize, &protocol.InitializeParams{
		ProtocolVersion: protocol.ProtocolVersion,
		ClientInfo:      protocol.Implementation{Name: "test-client", Version: "1.0.0"},
	})
	require.NoError(t, err)

	var result protocol.InitializeResult
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "test-server", result.ServerInfo.Name)

	assert.Equal(t, StateOperating, client.State())
	waitFor(t, time.Second, func() bool { return server.State() == StateOperating })
	waitFor(t, time.Second, func() bool { return server.initializedObserved })
}

func TestSessionRequestResponseRoundTrip(t *testing.T) {
	aT, bT := newMemTransportPair()
	a := New(aT, RoleClient)
	defer a.Close(context.Background())
	b := New(bT, RoleServer)
	defer b.Close(context.Background())

	b.RegisterRequestHandler("echo", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var m map[string]string
		_ = json.Unmarshal(params, &m)
		return map[string]string{"echo": m["value"]}, nil
	})

	forceOperating(a)
	forceOperating(b)

	raw, err := a.SendRequest(context.Background(), "echo", map[string]string{"value": "hi"})
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "hi", result["echo"])
}

func TestSessionMethodNotFound(t *testing.T) {
	aT, bT := newMemTransportPair()
	a := New(aT, RoleClient)
	defer a.Close(context.Background())
	b := New(bT, RoleServer)
	defer b.Close(context.Background())

	forceOperating(a)
	forceOperating(b)

	_, err := a.SendRequest(context.Background(), "nonexistent", nil)
	require.Error(t, err)
}

func TestSessionNotificationFanout(t *testing.T) {
	aT, bT := newMemTransportPair()
	a := New(aT, RoleClient)
	defer a.Close(context.Background())
	b := New(bT, RoleServer)
	defer b.Close(context.Background())

	forceOperating(a)
	forceOperating(b)

	var calls []string
	b.RegisterNotificationHandler("ping", func(ctx context.Context, params json.RawMessage) error {
		calls = append(calls, "first")
		return nil
	})
	b.RegisterNotificationHandler("ping", func(ctx context.Context, params json.RawMessage) error {
		calls = append(calls, "second")
		return nil
	})

	require.NoError(t, a.SendNotification(context.Background(), "ping", nil))
	waitFor(t, time.Second, func() bool { return len(calls) == 2 })
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSessionDuplicateRequestIDRejectedWhileInFlight(t *testing.T) {
	a := New(newBlackholeTransport(), RoleClient)
	defer a.Close(context.Background())
	forceOperating(a)

	a.nextID = 0
	p := newPendingRequest("slow")
	a.mu.Lock()
	a.pending[int64(1)] = p
	a.mu.Unlock()

	_, err := a.SendRequest(context.Background(), "slow2", nil)
	require.Error(t, err)
}

func TestSessionRequestTimeout(t *testing.T) {
	a := New(newBlackholeTransport(), RoleClient, WithDefaultRequestTimeout(30*time.Millisecond))
	defer a.Close(context.Background())
	forceOperating(a)

	_, err := a.SendRequest(context.Background(), "neverResponds", nil)
	require.Error(t, err)
}

func TestSessionCloseCancelsPendingRequests(t *testing.T) {
	a := New(newBlackholeTransport(), RoleClient)
	forceOperating(a)

	errCh := make(chan error, 1)
	go func() {
		_, err := a.SendRequest(context.Background(), "neverResponds", nil)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, a.Close(context.Background()))

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("SendRequest did not unblock after Close")
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	a := New(newBlackholeTransport(), RoleClient)
	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()))
}

func TestSessionGoroutineLeak(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetAllowedGrowth(2).
		SetStabilizeDelay(300 * time.Millisecond)
	detector.Start()

	aT, bT := newMemTransportPair()
	a := New(aT, RoleClient)
	b := New(bT, RoleServer)

	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, b.Close(context.Background()))

	detector.Check()
}

// forceOperating pushes a session directly into StateOperating, skipping
// the initialize handshake for tests that only care about post-handshake
// behavior.
func forceOperating(s *Session) {
	s.mu.Lock()
	s.state = StateOperating
	s.initializedObserved = true
	s.mu.Unlock()
}
