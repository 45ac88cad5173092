// Package session implements the symmetric JSON-RPC peer engine both the
// client and server feature layers are built on: request/response
// correlation, the inbound dispatch algorithm, the lifecycle state machine,
// and the instrumentation (logging, metrics, tracing) that wraps every
// suspension point.
//
// A Session owns nothing about MCP method semantics — it does not know
// what "tools/list" means, or what a capability is. Feature layers (pkg/client,
// pkg/server) build that understanding on top of the five primitives this
// package exposes: SendRequest, SendNotification, RegisterRequestHandler,
// RegisterNotificationHandler, and Close.
package session
