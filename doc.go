// Package mcp provides a comprehensive implementation of the Model Context Protocol.
//
// The Model Context Protocol (MCP) is a standardized communication protocol that enables
// AI models to interact with their environment through a well-defined interface. This
// package is the root of the MCP SDK for Go, providing convenient exports of the core
// components from the sub-packages.
//
// # Overview
//
// The MCP SDK consists of several sub-packages:
//
//   - pkg/protocol: wire types, enums, and the Content tagged union
//   - pkg/transport: the Transport contract plus stdio and HTTP+SSE implementations
//   - pkg/session: the symmetric JSON-RPC engine and lifecycle state machine
//   - pkg/client: the client feature layer
//   - pkg/server: the server feature layer
//   - pkg/pagination: cursor-tracking helpers for paginated list calls
//
// # Creating a Client
//
// To create a client that connects to an MCP server over stdio:
//
//	import (
//	    "context"
//	    mcp "github.com/mcpkit/go-mcp"
//	)
//
//	func main() {
//	    c := mcp.NewStdioClient(
//	        mcp.WithClientName("my-client"),
//	        mcp.WithClientVersion("1.0.0"),
//	    )
//	    ctx := context.Background()
//	    if err := c.Initialize(ctx); err != nil {
//	        // Handle error
//	    }
//	    defer c.Close(ctx)
//
//	    // Use client capabilities...
//	}
//
// # Creating a Server
//
// To create a server that implements the MCP protocol:
//
//	import (
//	    "context"
//	    "os"
//	    mcp "github.com/mcpkit/go-mcp"
//	    "github.com/mcpkit/go-mcp/pkg/protocol"
//	)
//
//	func main() {
//	    t := mcp.NewStdioTransport(os.Stdin, os.Stdout)
//	    srv := mcp.NewServer(t,
//	        mcp.WithServerName("my-server"),
//	        mcp.WithServerVersion("1.0.0"),
//	        mcp.WithTools(true),
//	    )
//
//	    srv.AddTool(protocol.Tool{Name: "hello"}, func(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
//	        return &protocol.CallToolResult{Content: []protocol.Content{protocol.TextContent("Hello, world!")}}, nil
//	    })
//
//	    ctx := context.Background()
//	    <-ctx.Done()
//	}
package mcp
