package client

import (
	"context"
	"errors"
	"sync"

	"github.com/mcpkit/go-mcp/pkg/transport"
)

// memTransport wires two in-process peers together without a socket, for
// exercising the client against a fake server session.
type memTransport struct {
	out     chan []byte
	in      chan []byte
	inbound chan transport.Message

	closeOnce sync.Once
	closed    chan struct{}
}

func newMemTransportPair() (*memTransport, *memTransport) {
	aToB := make(chan []byte, 64)
	bToA := make(chan []byte, 64)

	a := &memTransport{out: aToB, in: bToA, inbound: make(chan transport.Message, 64), closed: make(chan struct{})}
	b := &memTransport{out: bToA, in: aToB, inbound: make(chan transport.Message, 64), closed: make(chan struct{})}

	go a.pump()
	go b.pump()

	return a, b
}

func (m *memTransport) pump() {
	defer close(m.inbound)
	for {
		select {
		case data, ok := <-m.in:
			if !ok {
				return
			}
			m.inbound <- transport.Message{Data: data}
		case <-m.closed:
			return
		}
	}
}

func (m *memTransport) Send(ctx context.Context, data []byte) error {
	select {
	case m.out <- data:
		return nil
	case <-m.closed:
		return errors.New("memtransport: closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *memTransport) Receive() <-chan transport.Message { return m.inbound }

func (m *memTransport) Close(ctx context.Context) error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}
