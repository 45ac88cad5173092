// Package client implements the MCP client feature layer (spec §4.4) over
// pkg/session: capability negotiation, the tools/resources/prompts/roots/
// logging request vocabulary, and the two requests a server may send a
// client (sampling/createMessage, roots/list).
//
// # Creating a Client
//
//	t := transport.NewStdioTransport(os.Stdin, os.Stdout)
//	c := client.New(t,
//	    client.WithName("example-client"),
//	    client.WithVersion("1.0.0"),
//	    client.WithSampling(func(ctx context.Context, p *protocol.CreateMessageParams) (*protocol.CreateMessageResult, error) {
//	        return &protocol.CreateMessageResult{Role: protocol.RoleAssistant, Content: protocol.TextContent("...")}, nil
//	    }),
//	)
//
//	if err := c.Initialize(ctx); err != nil {
//	    // handle error
//	}
//	defer c.Close(ctx)
//
//	if c.ServerCapabilities().Tools != nil {
//	    tools, err := c.ListAllTools(ctx)
//	    ...
//	}
//
// # Change notifications
//
// Register listeners before Initialize so no early notification is missed:
//
//	c.OnToolsChanged(func() { ... })
//	c.OnResourceUpdated(func(uri string) { ... })
package client
