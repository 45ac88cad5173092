package transport

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/mcpkit/go-mcp/pkg/errors"
)

// maxLineSize bounds a single line-delimited JSON-RPC message read from stdin.
const maxLineSize = 10 * 1024 * 1024

// StdioTransport implements Transport over line-delimited JSON on standard
// input/output. This is the transport profile the MCP specification requires
// for command-line tools where client and server are connected by pipes.
type StdioTransport struct {
	writer    io.Writer
	rawWriter *bufio.Writer
	writeMu   sync.Mutex

	reader   io.Reader
	messages chan Message

	done      chan struct{}
	closeOnce sync.Once
}

// NewStdioTransport creates a transport reading from reader and writing to
// writer. Passing nil for either defaults to os.Stdin/os.Stdout. The returned
// transport immediately starts reading; callers must drain Receive().
func NewStdioTransport(reader io.Reader, writer io.Writer) *StdioTransport {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	t := &StdioTransport{
		writer:    writer,
		rawWriter: bufio.NewWriter(writer),
		reader:    reader,
		messages:  make(chan Message, 64),
		done:      make(chan struct{}),
	}
	t.start()
	return t
}

// start launches the scanner goroutine and a context/done-channel monitor
// goroutine, coordinated by an errgroup exactly as the teacher's stdio
// transport does, the difference being that this loop only produces messages
// onto a channel rather than dispatching them itself.
func (t *StdioTransport) start() {
	g, gctx := errgroup.WithContext(context.Background())

	scanner := bufio.NewScanner(t.reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	scannerDone := make(chan struct{})

	g.Go(func() error {
		defer close(scannerDone)
		for scanner.Scan() {
			line := scanner.Bytes()
			data := make([]byte, len(line))
			copy(data, line)

			select {
			case t.messages <- Message{Data: data}:
			case <-t.done:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return mcperrors.StdioTransportError("read_input", err).
				WithContext(&mcperrors.Context{
					Component: "StdioTransport",
					Operation: "scan_input",
				})
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-t.done:
		case <-scannerDone:
		}
		if closer, ok := t.reader.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil
	})

	go func() {
		err := g.Wait()
		if err != nil {
			select {
			case t.messages <- Message{Err: err}:
			case <-t.done:
			}
		}
		close(t.messages)
	}()
}

// Send writes data followed by a newline and flushes. Concurrent callers are
// serialized so interleaved writes never corrupt a line.
func (t *StdioTransport) Send(ctx context.Context, data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.rawWriter.Write(data); err != nil {
		return mcperrors.StdioTransportError("send_message", err).
			WithContext(&mcperrors.Context{Component: "StdioTransport", Operation: "write_data"})
	}
	if err := t.rawWriter.WriteByte('\n'); err != nil {
		return mcperrors.StdioTransportError("send_message", err).
			WithContext(&mcperrors.Context{Component: "StdioTransport", Operation: "write_newline"})
	}
	if err := t.rawWriter.Flush(); err != nil {
		return mcperrors.StdioTransportError("send_message", err).
			WithContext(&mcperrors.Context{Component: "StdioTransport", Operation: "flush_output"})
	}
	return nil
}

// Receive returns the channel of inbound lines. It closes once the reader
// hits EOF, errors, or Close is called.
func (t *StdioTransport) Receive() <-chan Message {
	return t.messages
}

// Close signals the scanner goroutine to stop and flushes any buffered
// output. Safe to call more than once.
func (t *StdioTransport) Close(ctx context.Context) error {
	var flushErr error
	t.closeOnce.Do(func() {
		close(t.done)

		t.writeMu.Lock()
		flushErr = t.rawWriter.Flush()
		t.writeMu.Unlock()
	})
	if flushErr != nil {
		return mcperrors.StdioTransportError("close", flushErr).
			WithContext(&mcperrors.Context{Component: "StdioTransport", Operation: "flush_on_close"})
	}
	return nil
}
