package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"

	mcperrors "github.com/mcpkit/go-mcp/pkg/errors"
)

// SSEServer is the server-side half of the HTTP+SSE transport profile: it
// exposes a long-lived event stream for server→client traffic and a
// session-scoped POST endpoint for client→server traffic, reusing the
// teacher's session-id-to-response-writer bookkeeping. It is an external
// collaborator demonstrating that the Transport contract is implementable
// over HTTP, not part of the session engine itself.
type SSEServer struct {
	mu       sync.Mutex
	sessions map[string]*sseSession
}

type sseSession struct {
	flusher  http.Flusher
	writer   http.ResponseWriter
	messages chan Message
	done     chan struct{}
}

// NewSSEServer creates an empty SSE session registry.
func NewSSEServer() *SSEServer {
	return &SSEServer{sessions: make(map[string]*sseSession)}
}

// HandleSSE implements the GET <sse-path> handshake: it opens the
// event-stream response, mints a session id, emits the one required
// `event: endpoint` event carrying the session-scoped POST URL, and then
// blocks, flushing every subsequent server→client message as an
// `event: message` SSE event until the request context is canceled.
func (s *SSEServer) HandleSSE(w http.ResponseWriter, r *http.Request, postPath string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := uuid.NewString()
	sess := &sseSession{
		flusher:  flusher,
		writer:   w,
		messages: make(chan Message, 64),
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		close(sess.done)
	}()

	fmt.Fprintf(w, "event: endpoint\ndata: %s?sessionId=%s\n\n", postPath, sessionID)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sess.messages:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg.Data)
			flusher.Flush()
		}
	}
}

// HandlePost implements the client→server POST endpoint: it reads one
// JSON-RPC message from the request body and hands it to the session
// identified by the sessionId query parameter.
func (s *SSEServer) HandlePost(w http.ResponseWriter, r *http.Request, inbound chan<- Message) {
	sessionID := r.URL.Query().Get("sessionId")

	s.mu.Lock()
	_, known := s.sessions[sessionID]
	s.mu.Unlock()
	if !known {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	select {
	case inbound <- Message{Data: data}:
		w.WriteHeader(http.StatusAccepted)
	case <-r.Context().Done():
		http.Error(w, "canceled", http.StatusRequestTimeout)
	}
}

// Send delivers a server→client message to the given session's SSE stream.
func (s *SSEServer) Send(ctx context.Context, sessionID string, data []byte) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return mcperrors.ConnectionFailed("http_sse", sessionID, fmt.Errorf("unknown session"))
	}

	select {
	case sess.messages <- Message{Data: data}:
		return nil
	case <-sess.done:
		return mcperrors.ConnectionLost("http_sse", sessionID, fmt.Errorf("session closed"))
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SSEClientTransport is the client side of the HTTP+SSE profile: it opens
// the GET stream, learns the session-scoped POST URL from the first
// `event: endpoint` event, and POSTs client→server traffic to it.
type SSEClientTransport struct {
	httpClient *http.Client
	baseURL    string
	postURL    string

	messages chan Message
	ready    chan struct{}
}

// NewSSEClientTransport connects to baseURL's SSE endpoint and begins
// draining it in a background goroutine.
func NewSSEClientTransport(ctx context.Context, baseURL string) (*SSEClientTransport, error) {
	t := &SSEClientTransport{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		messages:   make(chan Message, 64),
		ready:      make(chan struct{}),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, mcperrors.ConnectionFailed("http_sse", baseURL, err)
	}

	go t.readLoop(resp.Body)
	return t, nil
}

func (t *SSEClientTransport) readLoop(body io.ReadCloser) {
	defer body.Close()
	defer close(t.messages)

	scanner := bufio.NewScanner(body)
	var event, data bytes.Buffer

	flush := func() {
		if data.Len() == 0 {
			return
		}
		payload := bytes.TrimPrefix(data.Bytes(), []byte(" "))
		switch event.String() {
		case "endpoint":
			t.postURL = t.baseURL + string(payload)
			close(t.ready)
		case "message", "":
			cp := make([]byte, len(payload))
			copy(cp, payload)
			t.messages <- Message{Data: cp}
		}
		event.Reset()
		data.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case len(line) >= 6 && line[:6] == "event:":
			event.WriteString(line[6:])
		case len(line) >= 5 && line[:5] == "data:":
			data.WriteString(line[5:])
		}
	}
	if err := scanner.Err(); err != nil {
		t.messages <- Message{Err: err}
	}
}

// Send POSTs a client→server message to the session-scoped endpoint learned
// from the SSE handshake, blocking until that endpoint is known.
func (t *SSEClientTransport) Send(ctx context.Context, data []byte) error {
	select {
	case <-t.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.postURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return mcperrors.HTTPTransportError("send", t.postURL, 0, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return mcperrors.HTTPTransportError("send", t.postURL, resp.StatusCode, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

// Receive returns the channel of server→client SSE messages.
func (t *SSEClientTransport) Receive() <-chan Message {
	return t.messages
}

// Close is a no-op beyond draining; the underlying response body is closed
// by readLoop once its context is canceled by the caller.
func (t *SSEClientTransport) Close(ctx context.Context) error {
	return nil
}
