// Package pkg provides the core components of the Model Context Protocol (MCP) SDK.
//
// The Model Context Protocol is a standardized communication protocol that enables
// AI models to interact with their environment through a well-defined interface.
// This package contains several sub-packages that implement different aspects of the protocol.
//
// # Client Usage
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
//	        mcp.WithClientName("MyClient"),
//	        mcp.WithClientVersion("1.0.0"),
//	    )
//
//	    ctx := context.Background()
//	    if err := c.Initialize(ctx); err != nil {
//	        // Handle error
//	    }
//	    defer c.Close(ctx)
//
//	    // Use client capabilities...
//	}
//
// # Server Implementation
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
//	        mcp.WithServerName("MyServer"),
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
//
// # Sub-packages
//
// The MCP SDK consists of several sub-packages:
//
//   - client: Implements the client-side of the MCP protocol
//   - server: Implements the server-side of the MCP protocol
//   - session: Implements the symmetric JSON-RPC peer engine and lifecycle state machine
//   - protocol: Defines the core protocol types and messages
//   - transport: Provides transport mechanisms for communication
//   - pagination: Utilities for handling paginated results
//   - utils: Common utility functions used throughout the SDK
package pkg
