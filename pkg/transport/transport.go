// Package transport implements the external collaborator the session engine
// talks to: a minimal send/receive/close contract, with stdio and HTTP+SSE
// implementations.
package transport

import "context"

// Message is one inbound item produced by a Transport's Receive channel. Err
// is set, and Data nil, when the transport itself failed (as opposed to the
// peer sending malformed JSON, which is a session-layer concern).
type Message struct {
	Data []byte
	Err  error
}

// Transport is the contract the session engine requires of its transport:
// asynchronous send, an ordered inbound stream, and a one-shot close. The
// session calls Send only for well-formed messages, drains Receive until its
// channel closes, and calls Close exactly once per session lifecycle.
type Transport interface {
	// Send asynchronously delivers a fully-encoded JSON-RPC message.
	// Returning nil signals local buffer acceptance, not remote receipt.
	Send(ctx context.Context, data []byte) error

	// Receive returns the channel of inbound messages, in receipt order.
	// The channel closes when the peer disconnects or the transport is
	// closed. Callers must keep draining it until it closes.
	Receive() <-chan Message

	// Close quiesces the transport. After it returns, no further Send or
	// Receive traffic is possible.
	Close(ctx context.Context) error
}
