package session

import (
	"encoding/json"

	"github.com/mcpkit/go-mcp/pkg/protocol"
)

// pendingRequest is the completion slot installed for one outbound request
// awaiting its response (spec §4.3 "installs a completion slot").
type pendingRequest struct {
	method string
	done   chan struct{}
	result json.RawMessage
	err    error
	sealed bool
}

func newPendingRequest(method string) *pendingRequest {
	return &pendingRequest{method: method, done: make(chan struct{})}
}

// IsDone reports whether this slot already completed — used by the
// duplicate-id replace-only-if-done rule (spec §9 Open Question 2).
func (p *pendingRequest) IsDone() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// complete resolves the slot exactly once; later calls are no-ops so a
// timeout race against a late response can never double-close the channel.
func (p *pendingRequest) complete(result json.RawMessage, err error) {
	if p.sealed {
		return
	}
	p.sealed = true
	p.result = result
	p.err = err
	close(p.done)
}

func completeFromResponse(p *pendingRequest, resp *protocol.Response) {
	if resp.Error != nil {
		p.complete(nil, resp.Error)
		return
	}
	p.complete(resp.Result, nil)
}
