//go:build ignore
// +build ignore

// This file is an example documentation file that's not meant to be included in builds.
// It contains examples of how to use the MCP SDK and is provided for reference only.
// The actual SDK implementation is in the pkg directory.

// Package mcp provides a comprehensive implementation of the Model Context Protocol (MCP)
// in Go. MCP is a protocol that standardizes communication between AI models and client
// applications, enabling rich context sharing and structured interactions.
//
// This package contains the core components for implementing MCP clients and servers.
// It includes support for the MCP capabilities:
//
//   - Tools: Allow clients to invoke operations on the server
//   - Resources: Allow clients to access structured data from the server, with
//     subscription support for change notifications
//   - Prompts: Allow clients to use predefined prompt templates
//   - Roots: Allow servers to discover the filesystem roots a client exposes
//   - Sampling: Allow servers to request that the client's model generate a message
//   - Logging: Allow clients and servers to exchange log messages
//
// # Creating an MCP Client
//
// To create a client that connects to an MCP server over stdio:
//
//	import (
//	    "context"
//	    "log"
//	    mcp "github.com/mcpkit/go-mcp"
//	    "github.com/mcpkit/go-mcp/pkg/protocol"
//	)
//
//	func main() {
//	    c := mcp.NewStdioClient(
//	        mcp.WithClientName("ExampleClient"),
//	        mcp.WithClientVersion("1.0.0"),
//	    )
//
//	    ctx := context.Background()
//	    if err := c.Initialize(ctx); err != nil {
//	        log.Fatalf("failed to initialize client: %v", err)
//	    }
//	    defer c.Close(ctx)
//
//	    tools, _, err := c.ListTools(ctx, &protocol.PaginationParams{})
//	    if err != nil {
//	        log.Fatalf("failed to list tools: %v", err)
//	    }
//	    for _, tool := range tools {
//	        log.Printf("tool: %s - %s", tool.Name, tool.Description)
//	    }
//	}
//
// # Creating an MCP Server
//
// To create a server that implements the MCP protocol:
//
//	import (
//	    "context"
//	    "os"
//	    "os/signal"
//	    "syscall"
//	    mcp "github.com/mcpkit/go-mcp"
//	    "github.com/mcpkit/go-mcp/pkg/protocol"
//	)
//
//	func main() {
//	    t := mcp.NewStdioTransport(os.Stdin, os.Stdout)
//	    srv := mcp.NewServer(t,
//	        mcp.WithServerName("ExampleServer"),
//	        mcp.WithServerVersion("1.0.0"),
//	        mcp.WithTools(true),
//	        mcp.WithResources(true, true),
//	    )
//
//	    srv.AddTool(protocol.Tool{
//	        Name:        "sample-tool",
//	        Description: "A sample tool",
//	    }, func(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
//	        return &protocol.CallToolResult{Content: []protocol.Content{protocol.TextContent("success")}}, nil
//	    })
//
//	    ctx, cancel := context.WithCancel(context.Background())
//	    defer cancel()
//
//	    sigChan := make(chan os.Signal, 1)
//	    signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
//	    go func() {
//	        <-sigChan
//	        cancel()
//	    }()
//
//	    <-ctx.Done()
//	    srv.Close(context.Background())
//	}
package mcp
