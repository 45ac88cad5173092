package transport

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpkit/go-mcp/pkg/utils"
)

func TestStdioTransportSendWritesLine(t *testing.T) {
	outReader, outWriter := io.Pipe()
	tr := NewStdioTransport(strings.NewReader(""), outWriter)

	read := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(outReader).ReadString('\n')
		read <- line
	}()

	err := tr.Send(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping"}`))
	require.NoError(t, err)

	select {
	case line := <-read:
		assert.Equal(t, "{\"jsonrpc\":\"2.0\",\"method\":\"ping\"}\n", line)
	case <-time.After(time.Second):
		t.Fatal("did not observe written line")
	}
}

func TestStdioTransportReceiveStreamsLines(t *testing.T) {
	inReader, inWriter := io.Pipe()
	tr := NewStdioTransport(inReader, io.Discard)

	go func() {
		_, _ = inWriter.Write([]byte("{\"a\":1}\n{\"a\":2}\n"))
		inWriter.Close()
	}()

	var got []string
	for msg := range tr.Receive() {
		require.NoError(t, msg.Err)
		got = append(got, string(msg.Data))
	}
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, got)
}

func TestStdioTransportCloseIsIdempotent(t *testing.T) {
	inReader, inWriter := io.Pipe()
	defer inWriter.Close()
	tr := NewStdioTransport(inReader, io.Discard)

	require.NoError(t, tr.Close(context.Background()))
	require.NoError(t, tr.Close(context.Background()))
}

func TestStdioTransportGoroutineLeak(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetAllowedGrowth(2).
		SetStabilizeDelay(300 * time.Millisecond)
	detector.Start()

	inReader, inWriter := io.Pipe()
	tr := NewStdioTransport(inReader, io.Discard)

	go func() {
		for range tr.Receive() {
		}
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, tr.Close(context.Background()))
	inWriter.Close()

	detector.Check()
}
