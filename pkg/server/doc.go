// Package server implements the MCP server feature layer: the tool,
// resource, and prompt registries built on top of pkg/session, automatic
// list_changed notifications, and server-initiated sampling and roots
// requests.
//
// # Creating a Server
//
//	t := transport.NewStdioTransport(os.Stdin, os.Stdout)
//	srv := server.New(t,
//	    server.WithName("example-server"),
//	    server.WithVersion("1.0.0"),
//	    server.WithTools(true),
//	)
//
//	srv.AddTool(protocol.Tool{Name: "hello"}, func(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
//	    name, _ := args["name"].(string)
//	    if name == "" {
//	        name = "World"
//	    }
//	    return &protocol.CallToolResult{Content: []protocol.Content{protocol.TextContent("Hello, " + name + "!")}}, nil
//	})
//
// AddTool, AddResource, and AddPrompt may be called at any point in the
// session's lifetime; a mutation after the session reaches Operating
// schedules the corresponding list_changed notification automatically
// when the server advertised that sub-capability.
package server
