// Package mcp provides a Golang implementation of the Model Context Protocol.
package mcp

import (
	"github.com/mcpkit/go-mcp/pkg/client"
	"github.com/mcpkit/go-mcp/pkg/protocol"
	"github.com/mcpkit/go-mcp/pkg/server"
	"github.com/mcpkit/go-mcp/pkg/session"
	"github.com/mcpkit/go-mcp/pkg/transport"
)

// Version is the SDK's own release version, distinct from ProtocolVersion.
const Version = "1.0.0"

// ProtocolVersion is the wire protocol version this SDK implements.
const ProtocolVersion = protocol.ProtocolVersion

// These exports provide direct access to the core SDK components without
// requiring callers to import each pkg/* subpackage individually.
var (
	// NewClient creates a new MCP client.
	NewClient = client.New

	// NewStdioClient creates an MCP client wired to the process's own
	// stdin/stdout.
	NewStdioClient = client.NewStdioClient

	// NewServer creates a new MCP server.
	NewServer = server.New

	// NewStdioTransport creates a line-delimited JSON transport over the
	// given reader/writer pair.
	NewStdioTransport = transport.NewStdioTransport

	// NewSSEServer creates an HTTP+SSE transport server (spec §6, external
	// collaborator).
	NewSSEServer = transport.NewSSEServer

	// NewSSEClientTransport dials an HTTP+SSE transport server.
	NewSSEClientTransport = transport.NewSSEClientTransport
)

// Session lifecycle states, re-exported for callers that only need to
// observe state without importing pkg/session directly.
const (
	StateUninitialized = session.StateUninitialized
	StateInitializing  = session.StateInitializing
	StateOperating     = session.StateOperating
	StateClosing       = session.StateClosing
	StateClosed        = session.StateClosed
)

// Client options.
var (
	WithClientName    = client.WithName
	WithClientVersion = client.WithVersion
	WithSampling      = client.WithSampling
	WithRoots         = client.WithRoots
)

// Server options.
var (
	WithServerName         = server.WithName
	WithServerVersion      = server.WithVersion
	WithServerInstructions = server.WithInstructions
	WithTools              = server.WithTools
	WithPrompts            = server.WithPrompts
	WithResources          = server.WithResources
	WithLogging            = server.WithLogging
)
