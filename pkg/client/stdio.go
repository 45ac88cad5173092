package client

import (
	"io"
	"os"

	"github.com/mcpkit/go-mcp/pkg/transport"
)

// NewStdioClient creates a Client communicating over stdin/stdout, the
// transport profile the specification expects CLI-launched servers to
// support (spec §4.2).
func NewStdioClient(opts ...Option) *Client {
	return New(transport.NewStdioTransport(os.Stdin, os.Stdout), opts...)
}

// NewStdioClientWithStreams creates a Client communicating over the given
// reader/writer pair instead of the process's own stdin/stdout, for tests
// and for embedding a client alongside another process's pipes.
func NewStdioClientWithStreams(r io.Reader, w io.Writer, opts ...Option) *Client {
	return New(transport.NewStdioTransport(r, w), opts...)
}
