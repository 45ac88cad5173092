// Package pagination provides cursor/limit windowing helpers layered on top
// of the wire-level pagination fields in pkg/protocol.
//
// A list request may carry a Limit (page size) and a Cursor (an opaque
// token naming where the previous page left off). Window turns those into
// the slice bounds for a server's backing collection, and mints the cursor
// the response should carry for the next page.
//
// # Using Pagination in a Server
//
//	import (
//	    "github.com/mcpkit/go-mcp/pkg/pagination"
//	    "github.com/mcpkit/go-mcp/pkg/protocol"
//	)
//
//	func (s *Server) ListTools(ctx context.Context, params *protocol.PaginationParams) ([]protocol.Tool, *protocol.PaginationResult, error) {
//	    if err := pagination.ValidateParams(params); err != nil {
//	        return nil, nil, err
//	    }
//	    start, end, next, err := pagination.Window(len(s.registry.Tools), params)
//	    if err != nil {
//	        return nil, nil, err
//	    }
//	    return s.registry.Tools[start:end], &protocol.PaginationResult{NextCursor: next}, nil
//	}
//
// # Using Pagination in a Client
//
//	func (c *Client) ListAllTools(ctx context.Context) ([]protocol.Tool, error) {
//	    var allTools []protocol.Tool
//	    collector := pagination.NewCollector()
//	    for {
//	        tools, result, err := c.ListTools(ctx, collector.NextParams())
//	        if err != nil {
//	            return nil, err
//	        }
//	        allTools = append(allTools, tools...)
//	        collector.Update(result, len(tools))
//	        if collector.Done() {
//	            break
//	        }
//	    }
//	    return allTools, nil
//	}
package pagination
