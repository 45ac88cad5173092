// Package transport implements the two canonical MCP transport profiles as
// external collaborators to the session engine in pkg/session.
//
// Both implementations satisfy the same minimal Transport interface: Send
// delivers an already-encoded JSON-RPC message, Receive streams inbound
// messages in receipt order until the peer disconnects, and Close quiesces
// the transport exactly once.
//
// # Stdio
//
// StdioTransport reads line-delimited JSON from an io.Reader (os.Stdin by
// default) and writes it to an io.Writer (os.Stdout by default). This is
// the profile the MCP specification requires for CLI tools where client and
// server are connected by pipes.
//
//	t := transport.NewStdioTransport(nil, nil)
//	defer t.Close(ctx)
//	for msg := range t.Receive() {
//	    ...
//	}
//
// # HTTP + SSE
//
// SSEServer and SSEClientTransport implement the HTTP+SSE profile: the
// client opens a long-lived GET stream for server→client traffic and POSTs
// individual messages to a session-scoped URL learned from the stream's
// first `event: endpoint` event. This is included as a demonstration that
// the Transport contract is implementable over HTTP; it is not part of the
// session engine's core.
package transport
